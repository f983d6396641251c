// Package driver is the file handling around the bf transpiler: it reads
// brainfuck source from disk (or a named pipe), runs the pipeline and writes
// the generated C. It never invokes a C compiler.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/MarcinKonowalczyk/bfc/bf"

	"github.com/containerd/errdefs"
	"github.com/containerd/fifo"
	"github.com/containerd/log"
)

// Extension of generated files
const CExt = ".c"

// Output path meaning stdout
const Stdout = "-"

type Options struct {
	// Brainfuck source file
	Input string
	// Where to write the C program. Derived from Input when empty.
	Output string
	// Reject unbalanced loops before generating anything
	Strict bool

	Stdin  io.Reader
	Stdout io.Writer
}

// OutputPath swaps the extension of input for ext, e.g. hello.bf -> hello.c
func OutputPath(input, ext string) (string, error) {
	base := filepath.Base(input)
	old := filepath.Ext(base)
	if old == "" || old == base {
		return "", fmt.Errorf("cannot derive output name from %q, it has no extension: %w", input, errdefs.ErrInvalidArgument)
	}
	if old == ext {
		return "", fmt.Errorf("output for %q would overwrite the input: %w", input, errdefs.ErrInvalidArgument)
	}
	return strings.TrimSuffix(input, old) + ext, nil
}

// ReadSource reads the whole file at path. Named pipes are read through fifo
// so that a missing writer does not outlive ctx.
func ReadSource(ctx context.Context, path string) (string, error) {
	isFifo, err := fifo.IsFifo(path)
	if err != nil {
		return "", fmt.Errorf("checking %s: %w", path, err)
	}

	var data []byte
	if isFifo {
		log.G(ctx).WithField("input", path).Debug("reading source from fifo")
		f, err := fifo.OpenFifo(ctx, path, os.O_RDONLY, 0)
		if err != nil {
			return "", fmt.Errorf("opening fifo %s: %w", path, err)
		}
		defer f.Close()
		data, err = io.ReadAll(f)
		if err != nil {
			return "", fmt.Errorf("reading fifo %s: %w", path, err)
		}
	} else {
		data, err = os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("reading source %s: %w", path, errdefs.ErrNotFound)
		} else if err != nil {
			return "", fmt.Errorf("reading source %s: %w", path, err)
		}
	}
	return string(data), nil
}

// WriteOutput writes text to path, which may be Stdout, a named pipe or a
// regular file (created or truncated).
func WriteOutput(ctx context.Context, path string, text string, stdout io.Writer) error {
	if path == Stdout {
		if stdout == nil {
			stdout = os.Stdout
		}
		if _, err := io.WriteString(stdout, text); err != nil {
			return fmt.Errorf("writing to stdout: %w", err)
		}
		return nil
	}

	isFifo, err := fifo.IsFifo(path)
	if err != nil {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if !isFifo {
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		return nil
	}

	log.G(ctx).WithField("output", path).Debug("waiting for fifo reader")
	f, err := fifo.OpenFifo(ctx, path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("opening fifo %s: %w", path, err)
	}
	if _, err := io.WriteString(f, text); err != nil {
		f.Close()
		return fmt.Errorf("writing fifo %s: %w", path, err)
	}
	return f.Close()
}

// Transpile reads opts.Input, generates C and writes it out. It returns the
// path that was written.
func Transpile(ctx context.Context, opts Options) (string, error) {
	if opts.Input == "" {
		return "", fmt.Errorf("no input file: %w", errdefs.ErrInvalidArgument)
	}
	output := opts.Output
	if output == "" {
		var err error
		if output, err = OutputPath(opts.Input, CExt); err != nil {
			return "", err
		}
	}
	ctx = log.WithLogger(ctx, log.G(ctx).WithFields(log.Fields{
		"input":  opts.Input,
		"output": output,
	}))

	source, err := ReadSource(ctx, opts.Input)
	if err != nil {
		return "", err
	}

	commands := bf.Lex(source)
	log.G(ctx).WithField("commands", len(commands)).Debug("lexed source")

	if opts.Strict {
		if err := bf.CheckBalance(commands); err != nil {
			return "", fmt.Errorf("%s: %w", opts.Input, err)
		}
	}

	program := bf.Transpile(commands)
	if err := WriteOutput(ctx, output, program, opts.Stdout); err != nil {
		return "", err
	}
	log.G(ctx).WithField("bytes", len(program)).Info("transpiled")
	return output, nil
}

// Execute interprets opts.Input directly instead of generating C.
func Execute(ctx context.Context, opts Options) error {
	if opts.Input == "" {
		return fmt.Errorf("no input file: %w", errdefs.ErrInvalidArgument)
	}
	source, err := ReadSource(ctx, opts.Input)
	if err != nil {
		return err
	}
	log.G(ctx).WithField("input", opts.Input).Debug("running")

	stdin, stdout := opts.Stdin, opts.Stdout
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if err := bf.RunContext(ctx, source, stdin, stdout); err != nil {
		return fmt.Errorf("running %s: %w", opts.Input, err)
	}
	return nil
}
