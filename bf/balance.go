package bf

import (
	"errors"
	"fmt"

	"github.com/containerd/errdefs"
)

var ErrUnbalancedLoop = errors.New("unbalanced loop")

// UnbalancedLoopError points at the first bracket without a partner.
type UnbalancedLoopError struct {
	// Index into the command sequence, not the source text
	Index   int
	Command Command
}

func (e *UnbalancedLoopError) Error() string {
	if e.Command == LoopStart {
		return fmt.Sprintf("%v: '[' at command %d is never closed", ErrUnbalancedLoop, e.Index)
	}
	return fmt.Sprintf("%v: ']' at command %d has no matching '['", ErrUnbalancedLoop, e.Index)
}

func (e *UnbalancedLoopError) Is(target error) bool {
	return target == ErrUnbalancedLoop || target == errdefs.ErrInvalidArgument
}

// MatchLoops pairs up brackets. jumps[i] is the index of the partner of the
// bracket at i, and -1 for every other command.
func MatchLoops(commands []Command) ([]int, error) {
	jumps := make([]int, len(commands))
	var stack []int
	for i, c := range commands {
		jumps[i] = -1
		switch c {
		case LoopStart:
			stack = append(stack, i)
		case LoopEnd:
			if len(stack) == 0 {
				return nil, &UnbalancedLoopError{Index: i, Command: LoopEnd}
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			jumps[open] = i
			jumps[i] = open
		}
	}
	if len(stack) > 0 {
		// report the outermost one left open
		return nil, &UnbalancedLoopError{Index: stack[0], Command: LoopStart}
	}
	return jumps, nil
}

// CheckBalance reports whether every '[' has a matching ']'. Transpile never
// calls it.
func CheckBalance(commands []Command) error {
	_, err := MatchLoops(commands)
	return err
}
