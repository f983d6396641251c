package bf

import "strings"

type Command rune

const (
	Increment Command = '+'
	Decrement Command = '-'
	Right     Command = '>'
	Left      Command = '<'
	Input     Command = ','
	Output    Command = '.'
	LoopStart Command = '['
	LoopEnd   Command = ']'
)

// All eight commands, in the order they are documented.
func Commands() []Command {
	return []Command{Increment, Decrement, Right, Left, Input, Output, LoopStart, LoopEnd}
}

// ParseCommand maps a single character to its command. Any other character
// is a comment and reports false.
func ParseCommand(c rune) (Command, bool) {
	switch c {
	case '+':
		return Increment, true
	case '-':
		return Decrement, true
	case '>':
		return Right, true
	case '<':
		return Left, true
	case ',':
		return Input, true
	case '.':
		return Output, true
	case '[':
		return LoopStart, true
	case ']':
		return LoopEnd, true
	default:
		return 0, false
	}
}

// String returns the source symbol of the command
func (c Command) String() string {
	if _, ok := ParseCommand(rune(c)); !ok {
		return "?"
	}
	return string(rune(c))
}

func (c Command) Name() string {
	switch c {
	case Increment:
		return "IncrementCell"
	case Decrement:
		return "DecrementCell"
	case Right:
		return "MoveCursorForward"
	case Left:
		return "MoveCursorBackward"
	case Input:
		return "ReadInput"
	case Output:
		return "WriteOutput"
	case LoopStart:
		return "LoopStart"
	case LoopEnd:
		return "LoopEnd"
	default:
		return "Unknown"
	}
}

// PreLex drops every character which is not a command
func PreLex(input string) string {
	var b strings.Builder
	for _, c := range input {
		if _, ok := ParseCommand(c); ok {
			b.WriteRune(c)
		}
	}
	return b.String()
}

type Lexer struct {
	chars string
}

func NewLexer(input string) *Lexer {
	return &Lexer{
		chars: input,
	}
}

func (l *Lexer) Lex() []Command {
	commands := []Command{}
	for _, c := range l.chars {
		if cmd, ok := ParseCommand(c); ok {
			commands = append(commands, cmd)
		}
	}
	return commands
}

// Lex scans the whole source into commands. It never fails: anything that is
// not one of the eight command symbols is skipped.
func Lex(input string) []Command {
	lexer := NewLexer(input)
	return lexer.Lex()
}

// Format writes commands back out as brainfuck source
func Format(commands []Command) string {
	var b strings.Builder
	b.Grow(len(commands))
	for _, c := range commands {
		b.WriteString(c.String())
	}
	return b.String()
}
