package bf

import (
	"context"
	"io"
)

// Compile translates brainfuck source into a C program.
func Compile(source string) string {
	return Transpile(Lex(source))
}

// CompileStrict is Compile, but refuses sources with unbalanced loops
// instead of generating C that does not compile.
func CompileStrict(source string) (string, error) {
	commands := Lex(source)
	if err := CheckBalance(commands); err != nil {
		return "", err
	}
	return Transpile(commands), nil
}

func RunContext(ctx context.Context, source string, input io.Reader, output io.Writer) error {
	interpreter, err := NewInterpreter(Lex(source), input, output)
	if err != nil {
		return err
	}
	return interpreter.RunContext(ctx)
}

func Run(source string, input io.Reader, output io.Writer) error {
	return RunContext(context.Background(), source, input, output)
}
