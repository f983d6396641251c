package bf

import (
	"fmt"
	"strings"
)

// Number of cells in the tape of the generated program.
const TapeSize = 20_000

// Prologue opens main and declares a zeroed tape with the cursor on its first
// cell. Epilogue closes main.
var (
	Prologue = fmt.Sprintf("#include \"stdio.h\"\nint main()\n{\nchar tape[%d] = {0};\nchar *ptr = tape;\n\n", TapeSize)
	Epilogue = "}\n"
)

// Fragment returns the C statement emitted for a single command.
func Fragment(c Command) string {
	switch c {
	case Increment:
		return "++*ptr;\n"
	case Decrement:
		return "--*ptr;\n"
	case Right:
		return "++ptr;\n"
	case Left:
		return "--ptr;\n"
	case Input:
		return "*ptr=getchar();\n"
	case Output:
		return "putchar(*ptr);\n"
	case LoopStart:
		return "while (*ptr) {\n"
	case LoopEnd:
		return "}\n"
	default:
		panic(fmt.Sprintf("unknown command %q", rune(c)))
	}
}

func writeBody(b *strings.Builder, commands []Command) {
	for _, c := range commands {
		b.WriteString(Fragment(c))
	}
}

// Body is the per-command region of the generated program, without the
// prologue and epilogue.
func Body(commands []Command) string {
	var b strings.Builder
	writeBody(&b, commands)
	return b.String()
}

// Transpile generates a complete C program, one fragment per command and in
// the same order. Brackets become while blocks and are not matched here, so
// an unbalanced program yields C that will not compile. Use CheckBalance
// beforehand to catch that early.
func Transpile(commands []Command) string {
	var b strings.Builder
	b.WriteString(Prologue)
	writeBody(&b, commands)
	b.WriteString(Epilogue)
	return b.String()
}
