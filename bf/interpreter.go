package bf

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/containerd/errdefs"
	"github.com/containerd/log"
)

var ErrTapeOverflow = errors.New("cursor moved off the tape")

// cell value stored by ',' at end of input. getchar returns EOF (-1) and the
// generated program truncates it into a char.
const eofCell uint8 = 0xff

// Reads returning no data and no error before giving up, as bufio does.
const maxEmptyReads = 100

// Interpreter runs commands with the same observable behaviour as the
// program Transpile generates: a TapeSize tape, no wraparound, one byte in per
// ',' and one byte out per '.'.
type Interpreter struct {
	Program     []Command
	program_ptr int
	jumps       []int
	mem         []uint8
	mem_ptr     int
	Input       io.Reader
	Output      io.Writer
}

// NewInterpreter fails only when the loops in program do not match up.
func NewInterpreter(program []Command, input io.Reader, output io.Writer) (*Interpreter, error) {
	jumps, err := MatchLoops(program)
	if err != nil {
		return nil, err
	}
	return &Interpreter{
		Program: program,
		jumps:   jumps,
		mem:     make([]uint8, TapeSize),
		Input:   input,
		Output:  output,
	}, nil
}

func (i *Interpreter) Reset() {
	i.program_ptr = 0
	i.mem_ptr = 0
	clear(i.mem)
}

func (i *Interpreter) MemoryLength() int {
	return len(i.mem)
}

// Index the memory
func (i *Interpreter) At(j int) uint8 {
	return i.mem[j]
}

// Cursor is the index of the current cell
func (i *Interpreter) Cursor() int {
	return i.mem_ptr
}

func (i *Interpreter) overflow(c Command) error {
	return fmt.Errorf("%w: %q at command %d (cell %d): %w", ErrTapeOverflow, c.String(), i.program_ptr, i.mem_ptr, errdefs.ErrOutOfRange)
}

func (i *Interpreter) read(ctx context.Context) error {
	if i.Input == nil {
		i.mem[i.mem_ptr] = eofCell
		return nil
	}
	var buf [1]byte
	for empty := 0; ; empty++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if empty >= maxEmptyReads {
			return fmt.Errorf("reading input: %w", io.ErrNoProgress)
		}
		n, err := i.Input.Read(buf[:])
		if n == 1 {
			i.mem[i.mem_ptr] = buf[0]
			return nil
		}
		if errors.Is(err, io.EOF) {
			i.mem[i.mem_ptr] = eofCell
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	}
}

func (i *Interpreter) write() error {
	if i.Output == nil {
		return nil
	}
	if _, err := i.Output.Write([]byte{i.mem[i.mem_ptr]}); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// Run the program until it finishes, fails, or ctx is done
func (i *Interpreter) RunContext(ctx context.Context) error {
	trace := log.GetLevel() >= log.TraceLevel
	for i.program_ptr < len(i.Program) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		c := i.Program[i.program_ptr]
		if trace {
			log.G(ctx).WithFields(log.Fields{
				"pc":      i.program_ptr,
				"command": c.String(),
				"cell":    i.mem_ptr,
				"value":   i.mem[i.mem_ptr],
			}).Trace("step")
		}
		switch c {
		case Increment:
			i.mem[i.mem_ptr]++
		case Decrement:
			i.mem[i.mem_ptr]--
		case Right:
			if i.mem_ptr+1 >= len(i.mem) {
				return i.overflow(c)
			}
			i.mem_ptr++
		case Left:
			if i.mem_ptr == 0 {
				return i.overflow(c)
			}
			i.mem_ptr--
		case Output:
			if err := i.write(); err != nil {
				return err
			}
		case Input:
			if err := i.read(ctx); err != nil {
				return err
			}
		case LoopStart:
			if i.mem[i.mem_ptr] == 0 {
				i.program_ptr = i.jumps[i.program_ptr]
			}
		case LoopEnd:
			if i.mem[i.mem_ptr] != 0 {
				i.program_ptr = i.jumps[i.program_ptr]
			}
		default:
			panic(fmt.Sprintf("unknown command %q", rune(c)))
		}
		i.program_ptr++
	}
	return nil
}

func (i *Interpreter) Run() error {
	return i.RunContext(context.Background())
}
