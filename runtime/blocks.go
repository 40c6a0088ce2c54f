package nruntime

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gosuda/nefu/ast"
	"github.com/gosuda/nefu/parser"
)

const captureMarker = "!getinput!>!vars/"

var choiceOption = regexp.MustCompile(`^\d+\)(.*)$`)

// runBlock runs a block body. The caller owns the cursor afterwards and must
// move it past the block when the outcome is resultNone.
func (vm *VM) runBlock(ctx context.Context, b parser.Block) (execResult, error) {
	return vm.runRange(ctx, b.Start, b.End)
}

func (vm *VM) execDisplayBlock(idx int) (execResult, error) {
	b, err := parser.Locate(vm.script, idx, true)
	if err != nil {
		return execResult{}, err
	}
	for i := b.Start; i < b.End; i++ {
		vm.emitLine(StripQuotes(vm.vars.Substitute(vm.script.Text(i))))
	}
	vm.cursor = b.End
	return execResult{kind: resultNone}, nil
}

func (vm *VM) execInput(idx int, c ast.InputCmd) (execResult, error) {
	b, err := parser.Locate(vm.script, idx, c.Inline)
	if err != nil {
		return execResult{}, err
	}
	req := InputRequest{}
	var prompts []string
	for i := b.Start; i < b.End; i++ {
		line := vm.script.Text(i)
		if content, ok := strings.CutPrefix(line, "dsp "); ok {
			content = strings.TrimSpace(content)
			if before, ok := strings.CutSuffix(content, " input"); ok {
				req.Inline = true
				content = strings.TrimSpace(before)
			}
			prompts = append(prompts, StripQuotes(vm.vars.Substitute(content)))
		}
		if _, name, ok := strings.Cut(line, captureMarker); ok {
			req.Variable = strings.TrimSpace(strings.TrimRight(name, "!"))
		}
		if value, ok := strings.CutPrefix(line, "default "); ok {
			req.HasDefault = true
			req.Default = StripQuotes(vm.vars.Substitute(value))
		}
	}
	if req.Inline {
		req.Prompt = strings.Join(prompts, " ") + " "
	} else {
		for _, p := range prompts {
			vm.emitLine(p)
		}
	}

	value, err := vm.resolveInput(req)
	if err != nil {
		return execResult{}, fmt.Errorf("read input: %w", err)
	}
	vm.log.Debug().Int("line", idx+1).Str("var", req.Variable).Msg("input")
	if req.Variable != "" {
		vm.vars.Set(req.Variable, value)
	}
	vm.cursor = b.End
	return execResult{kind: resultNone}, nil
}

func (vm *VM) execChoice(idx int, c ast.ChoiceCmd) (execResult, error) {
	b, err := parser.Locate(vm.script, idx, true)
	if err != nil {
		return execResult{}, err
	}
	var options []string
	for i := b.Start; i < b.End; i++ {
		if m := choiceOption.FindStringSubmatch(vm.script.Text(i)); m != nil {
			options = append(options, vm.vars.Substitute(strings.TrimSpace(m[1])))
		}
	}
	if len(options) == 0 {
		return execResult{}, fmt.Errorf("%w: no options", parser.ErrMalformedChoice)
	}

	req := ChoiceRequest{Title: vm.vars.Substitute(c.Title), Options: options}
	sel, err := vm.resolveChoice(req)
	if err != nil {
		return execResult{}, err
	}
	vm.log.Debug().Int("line", idx+1).Int("selected", sel).Str("option", options[sel]).Msg("choice")
	vm.vars.Set(ChoiceVar, strconv.Itoa(sel))
	vm.cursor = b.End
	return execResult{kind: resultNone}, nil
}

// execIf runs at most one branch. On normal completion the cursor lands on
// the last closing line considered: the else block's if present, otherwise
// the if block's.
func (vm *VM) execIf(ctx context.Context, idx int, c ast.IfCmd) (execResult, error) {
	b, err := parser.Locate(vm.script, idx, c.Inline)
	if err != nil {
		return execResult{}, err
	}
	eb, hasElse, err := parser.ElseBranch(vm.script, b.End)
	if err != nil {
		return execResult{}, err
	}
	after := b.End
	if hasElse {
		after = eb.End
	}

	res := execResult{kind: resultNone}
	switch {
	case EvalCondition(vm.vars, c.Cond):
		res, err = vm.runBlock(ctx, b)
	case hasElse:
		res, err = vm.runBlock(ctx, eb)
	}
	if err != nil {
		return execResult{}, err
	}
	if res.kind != resultNone {
		return res, nil
	}
	vm.cursor = after
	return res, nil
}

func (vm *VM) execRepeat(ctx context.Context, idx int, c ast.RepeatCmd) (execResult, error) {
	b, err := parser.Locate(vm.script, idx, c.Inline)
	if err != nil {
		return execResult{}, err
	}
	n := 0
	if !c.Forever {
		n, err = strconv.Atoi(c.Count)
		if err != nil {
			return execResult{}, fmt.Errorf("%w: %s", ErrInvalidRepeatCount, c.Count)
		}
	}

	for i := 0; c.Forever || i < n; i++ {
		if err := ctx.Err(); err != nil {
			return execResult{}, err
		}
		res, err := vm.runBlock(ctx, b)
		if err != nil {
			return execResult{}, err
		}
		if res.kind == resultBreak {
			vm.log.Debug().Int("line", res.line+1).Int("iteration", i+1).Msg("loop break")
			break
		}
		if res.kind != resultNone {
			return res, nil
		}
	}
	vm.cursor = b.End
	return execResult{kind: resultNone}, nil
}
