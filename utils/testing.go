package utils

import (
	"errors"
	"runtime"
	"strings"
	"testing"
)

func getParentInfo() (string, int) {
	parent, _, _, _ := runtime.Caller(2)
	info := runtime.FuncForPC(parent)
	file, line := info.FileLine(parent)
	return file, line
}

// Test helper
func Assert(t *testing.T, predicate bool, msg string) {
	t.Helper()
	if !predicate {
		file, line := getParentInfo()
		t.Errorf(msg+" in %s:%d", file, line)
	}
}

func AssertEqual[T comparable](t *testing.T, a T, b T) {
	t.Helper()
	if a != b {
		file, line := getParentInfo()
		t.Errorf("Expected %v == %v (%T) in %s:%d", a, b, a, file, line)
	}
}

func AssertNotEqual[T comparable](t *testing.T, a T, b T) {
	t.Helper()
	if a == b {
		file, line := getParentInfo()
		t.Errorf("Expected %v != %v (%T) in %s:%d", a, b, a, file, line)
	}
}

// Assert that error is nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		file, line := getParentInfo()
		t.Errorf("Expected no error, got '%v' in %s:%d", err, file, line)
	}
}

// Assert that err matches target anywhere in its chain
func AssertErrorIs(t *testing.T, err error, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		file, line := getParentInfo()
		t.Errorf("Expected error '%v' to be '%v' in %s:%d", err, target, file, line)
	}
}

func AssertContains(t *testing.T, s string, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		file, line := getParentInfo()
		t.Errorf("Expected %q to contain %q in %s:%d", s, substr, file, line)
	}
}

// Assert that f panics
func AssertPanics(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			file, line := getParentInfo()
			t.Errorf("Expected a panic in %s:%d", file, line)
		}
	}()
	f()
}

// Compare two values using a custom comparator function.
func AssertEqualWithComparator[T any](t *testing.T, a T, b T, comparator func(T, T) bool) {
	t.Helper()
	if !comparator(a, b) {
		file, line := getParentInfo()
		t.Errorf("Expected %v == %v (%T) in %s:%d", a, b, a, file, line)
	}
}

func CompareArrays[T comparable](a []T, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func CompareMaps[T comparable, V comparable](a map[T]V, b map[T]V) bool {
	if len(a) != len(b) {
		return false
	}
	for k, va := range a {
		vb, ok := b[k]
		if !ok || va != vb {
			return false
		}
	}
	// same length and every key of a is in b
	return true
}

func AssertEqualArrays[T comparable](t *testing.T, a []T, b []T) {
	t.Helper()
	AssertEqualWithComparator(t, a, b, CompareArrays)
}

func AssertEqualMaps[T comparable, V comparable](t *testing.T, a map[T]V, b map[T]V) {
	t.Helper()
	AssertEqualWithComparator(t, a, b, CompareMaps)
}

// Count occurrences of each element
func Counts[T comparable](a []T) map[T]int {
	counts := make(map[T]int)
	for _, e := range a {
		counts[e]++
	}
	return counts
}
