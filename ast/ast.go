package ast

import "strings"

// Script is a loaded nefu source. Lines and Commands share indices and never
// change after parsing.
type Script struct {
	Name            string
	Lines           []string
	Commands        []Command
	Labels          map[string]int
	DuplicateLabels []string
}

// Len reports the number of lines, blank and comment lines included.
func (s *Script) Len() int {
	return len(s.Lines)
}

// Text returns the trimmed source of line idx.
func (s *Script) Text(idx int) string {
	return strings.TrimSpace(s.Lines[idx])
}

type Command interface {
	isCommand()
}

// Skip marks blank lines, comments and a lone opening brace.
type Skip struct{}

func (Skip) isCommand() {}

type AssignCmd struct {
	Value string
	Name  string
}

func (AssignCmd) isCommand() {}

type WaitCmd struct {
	Arg string
}

func (WaitCmd) isCommand() {}

type ClearCmd struct{}

func (ClearCmd) isCommand() {}

type GotoCmd struct {
	Label string
}

func (GotoCmd) isCommand() {}

type LabelCmd struct {
	Name string
}

func (LabelCmd) isCommand() {}

// DisplayCmd prints one line built from Content.
type DisplayCmd struct {
	Content string
}

func (DisplayCmd) isCommand() {}

// DisplayBlockCmd prints every line of the following block.
type DisplayBlockCmd struct{}

func (DisplayBlockCmd) isCommand() {}

type InputCmd struct {
	Inline bool
}

func (InputCmd) isCommand() {}

type ChoiceCmd struct {
	Title string
}

func (ChoiceCmd) isCommand() {}

// IfCmd is an `if` header. Inline is false when the opening brace sits alone
// on the next line.
type IfCmd struct {
	Cond   string
	Inline bool
}

func (IfCmd) isCommand() {}

type ElseCmd struct{}

func (ElseCmd) isCommand() {}

type RepeatCmd struct {
	Count   string
	Forever bool
	Inline  bool
}

func (RepeatCmd) isCommand() {}

type ExitCmd struct{}

func (ExitCmd) isCommand() {}

type BreakCmd struct{}

func (BreakCmd) isCommand() {}

// CloseCmd is a line starting with `}`.
type CloseCmd struct{}

func (CloseCmd) isCommand() {}

// InvalidCmd is a line no matcher accepted. Err carries the reason and is
// reported only if the line is executed.
type InvalidCmd struct {
	Text string
	Err  error
}

func (InvalidCmd) isCommand() {}

// Kind returns a short lowercase name for cmd, used by tooling.
func Kind(cmd Command) string {
	switch cmd.(type) {
	case Skip:
		return "skip"
	case AssignCmd:
		return "assign"
	case WaitCmd:
		return "wait"
	case ClearCmd:
		return "clear"
	case GotoCmd:
		return "goto"
	case LabelCmd:
		return "label"
	case DisplayCmd:
		return "dsp"
	case DisplayBlockCmd:
		return "dsp-block"
	case InputCmd:
		return "getinput"
	case ChoiceCmd:
		return "choice"
	case IfCmd:
		return "if"
	case ElseCmd:
		return "else"
	case RepeatCmd:
		return "repeat"
	case ExitCmd:
		return "exit"
	case BreakCmd:
		return "loop-break"
	case CloseCmd:
		return "close"
	case InvalidCmd:
		return "invalid"
	default:
		return "unknown"
	}
}
