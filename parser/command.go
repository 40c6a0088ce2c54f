package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gosuda/nefu/ast"
)

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMalformedChoice = errors.New("malformed choice syntax")
)

const assignMarker = ">!vars/"

var choiceHeader = regexp.MustCompile(`^choice title=(?:"([^"]*)"|'([^']*)')\s*\{`)

type matcher struct {
	name  string
	match func(line string) (ast.Command, bool)
}

// matchers are tried in order; the first one that accepts a line wins.
var matchers = []matcher{
	{"close", matchClose},
	{"assign", matchAssign},
	{"wait", matchWait},
	{"clear", matchClear},
	{"goto", matchGoto},
	{"lbl", matchLabel},
	{"dsp", matchDisplay},
	{"getinput", matchInput},
	{"choice", matchChoice},
	{"if", matchIf},
	{"repeat", matchRepeat},
	{"exit", matchExit},
	{"loop break", matchBreak},
	{"else", matchElse},
}

// ParseCommand recognizes one line. It never fails: lines no matcher accepts
// become ast.InvalidCmd and only fault when executed.
func ParseCommand(raw string) ast.Command {
	line := strings.TrimSpace(raw)
	if isSkippable(line) {
		return ast.Skip{}
	}
	for _, m := range matchers {
		if cmd, ok := m.match(line); ok {
			return cmd
		}
	}
	return ast.InvalidCmd{Text: line, Err: fmt.Errorf("%w: %s", ErrUnknownCommand, line)}
}

func matchClose(line string) (ast.Command, bool) {
	if strings.HasPrefix(line, "}") {
		return ast.CloseCmd{}, true
	}
	return nil, false
}

func matchAssign(line string) (ast.Command, bool) {
	value, name, ok := strings.Cut(line, assignMarker)
	if !ok {
		return nil, false
	}
	name = strings.TrimSpace(strings.TrimRight(name, "!"))
	return ast.AssignCmd{Value: strings.TrimSpace(value), Name: name}, true
}

func matchWait(line string) (ast.Command, bool) {
	arg, ok := cutKeyword(line, "wait")
	if !ok {
		return nil, false
	}
	return ast.WaitCmd{Arg: arg}, true
}

func matchClear(line string) (ast.Command, bool) {
	if line == "dsp clear" {
		return ast.ClearCmd{}, true
	}
	return nil, false
}

func matchGoto(line string) (ast.Command, bool) {
	label, ok := cutKeyword(line, "goto")
	if !ok {
		return nil, false
	}
	return ast.GotoCmd{Label: label}, true
}

func matchLabel(line string) (ast.Command, bool) {
	name, ok := cutKeyword(line, "lbl")
	if !ok {
		return nil, false
	}
	return ast.LabelCmd{Name: name}, true
}

func matchDisplay(line string) (ast.Command, bool) {
	content, ok := cutKeyword(line, "dsp")
	if !ok {
		return nil, false
	}
	if strings.HasPrefix(content, "{") {
		return ast.DisplayBlockCmd{}, true
	}
	return ast.DisplayCmd{Content: content}, true
}

func matchInput(line string) (ast.Command, bool) {
	if strings.HasPrefix(line, "getinput") {
		_, inline := cutBrace(line)
		return ast.InputCmd{Inline: inline}, true
	}
	return nil, false
}

func matchChoice(line string) (ast.Command, bool) {
	if !strings.HasPrefix(line, "choice ") {
		return nil, false
	}
	m := choiceHeader.FindStringSubmatch(line)
	if m == nil {
		return ast.InvalidCmd{Text: line, Err: fmt.Errorf("%w: %s", ErrMalformedChoice, line)}, true
	}
	title := m[1]
	if title == "" {
		title = m[2]
	}
	return ast.ChoiceCmd{Title: title}, true
}

func matchIf(line string) (ast.Command, bool) {
	rest, ok := cutKeyword(line, "if")
	if !ok {
		return nil, false
	}
	cond, inline := cutBrace(rest)
	return ast.IfCmd{Cond: cond, Inline: inline}, true
}

func matchRepeat(line string) (ast.Command, bool) {
	rest, ok := cutKeyword(line, "repeat")
	if !ok {
		return nil, false
	}
	count, inline := cutBrace(rest)
	return ast.RepeatCmd{Count: count, Forever: count == "~", Inline: inline}, true
}

func matchExit(line string) (ast.Command, bool) {
	if line == "exit" {
		return ast.ExitCmd{}, true
	}
	return nil, false
}

func matchBreak(line string) (ast.Command, bool) {
	if strings.Join(strings.Fields(line), " ") == "loop break" {
		return ast.BreakCmd{}, true
	}
	return nil, false
}

func matchElse(line string) (ast.Command, bool) {
	if isElseHeader(line) {
		return ast.ElseCmd{}, true
	}
	return nil, false
}
