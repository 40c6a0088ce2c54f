package nruntime

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gosuda/nefu/ast"
)

// Output is one event for the display surface. Clear requests the surface be
// wiped and carries no text.
type Output struct {
	Text    string
	NewLine bool
	Clear   bool
}

type VM struct {
	script         *ast.Script
	vars           *Vars
	cursor         int
	running        bool
	outputs        []Output
	queue          []string
	outputHook     func(Output)
	inputProvider  InputProvider
	choiceProvider ChoiceProvider
	sleep          func(context.Context, time.Duration) error
	log            zerolog.Logger
}

type resultKind int

const (
	resultNone resultKind = iota
	resultJump
	resultBreak
	resultHalt
)

// execResult is the control outcome of one line. index is the jump target
// for resultJump; line is the origin of a resultBreak.
type execResult struct {
	kind  resultKind
	index int
	line  int
}

var displayFragment = regexp.MustCompile(`"[^"]*"|'[^']*'|!vars/[\p{L}\p{N}_]+!`)

func New(script *ast.Script) (*VM, error) {
	if script == nil {
		return nil, errors.New("nil script")
	}
	return &VM{
		script: script,
		vars:   NewVars(),
		sleep:  sleepContext,
		log:    zerolog.Nop(),
	}, nil
}

func (vm *VM) SetOutputHook(fn func(Output)) {
	vm.outputHook = fn
}

func (vm *VM) SetInputProvider(fn InputProvider) {
	vm.inputProvider = fn
}

func (vm *VM) SetChoiceProvider(fn ChoiceProvider) {
	vm.choiceProvider = fn
}

// SetSleeper replaces the function used by wait.
func (vm *VM) SetSleeper(fn func(context.Context, time.Duration) error) {
	vm.sleep = fn
}

func (vm *VM) SetLogger(l zerolog.Logger) {
	vm.log = l
}

func (vm *VM) SetVar(name, value string) {
	vm.vars.Set(name, value)
}

// Vars returns a copy of the current bindings.
func (vm *VM) Vars() map[string]string {
	return vm.vars.Snapshot()
}

func (vm *VM) Script() *ast.Script {
	return vm.script
}

func (vm *VM) Run() ([]Output, error) {
	return vm.RunContext(context.Background())
}

// RunContext executes the script from its first line. Any error stops the run
// and is returned as a *ScriptError together with the output produced so far.
func (vm *VM) RunContext(ctx context.Context) ([]Output, error) {
	vm.outputs = vm.outputs[:0]
	vm.cursor = 0
	vm.running = true
	for _, name := range vm.script.DuplicateLabels {
		vm.log.Warn().Str("label", name).Int("line", vm.script.Labels[name]+1).Msg("duplicate label, last declaration wins")
	}

	res, err := vm.runRange(ctx, 0, vm.script.Len())
	vm.running = false
	if err == nil && res.kind == resultBreak {
		err = vm.fault(res.line, ErrLoopSignalEscaped)
	}
	if err != nil {
		vm.log.Error().Err(err).Msg("script aborted")
		return append([]Output(nil), vm.outputs...), err
	}
	return append([]Output(nil), vm.outputs...), nil
}

// runRange dispatches lines [start, end) through the shared cursor. A jump to
// a line outside the range, a loop break and a halt end the range early and
// are handed to the caller.
func (vm *VM) runRange(ctx context.Context, start, end int) (execResult, error) {
	vm.cursor = start
	for vm.running && vm.cursor < end {
		idx := vm.cursor
		if err := ctx.Err(); err != nil {
			vm.running = false
			return execResult{}, vm.fault(idx, err)
		}
		res, err := vm.execLine(ctx, idx)
		if err != nil {
			vm.running = false
			return execResult{}, vm.fault(idx, err)
		}
		switch res.kind {
		case resultNone:
			vm.cursor++
		case resultJump:
			if res.index < start || res.index >= end {
				return res, nil
			}
			vm.cursor = res.index
		default:
			return res, nil
		}
	}
	return execResult{kind: resultNone}, nil
}

func (vm *VM) execLine(ctx context.Context, idx int) (execResult, error) {
	switch c := vm.script.Commands[idx].(type) {
	case ast.Skip, ast.LabelCmd, ast.CloseCmd, ast.ElseCmd:
		return execResult{kind: resultNone}, nil
	case ast.AssignCmd:
		vm.vars.Set(c.Name, StripQuotes(vm.vars.Substitute(c.Value)))
		return execResult{kind: resultNone}, nil
	case ast.WaitCmd:
		d, err := parseWait(c.Arg)
		if err != nil {
			return execResult{}, err
		}
		vm.log.Debug().Int("line", idx+1).Dur("duration", d).Msg("wait")
		if err := vm.sleep(ctx, d); err != nil {
			return execResult{}, err
		}
		return execResult{kind: resultNone}, nil
	case ast.ClearCmd:
		vm.emit(Output{Clear: true})
		return execResult{kind: resultNone}, nil
	case ast.GotoCmd:
		target, ok := vm.script.Labels[c.Label]
		if !ok {
			return execResult{}, fmt.Errorf("%w: %s", ErrUnknownLabel, c.Label)
		}
		vm.log.Debug().Int("line", idx+1).Str("label", c.Label).Int("target", target+1).Msg("goto")
		return execResult{kind: resultJump, index: target}, nil
	case ast.DisplayCmd:
		vm.emitLine(vm.renderDisplay(c.Content))
		return execResult{kind: resultNone}, nil
	case ast.DisplayBlockCmd:
		return vm.execDisplayBlock(idx)
	case ast.InputCmd:
		return vm.execInput(idx, c)
	case ast.ChoiceCmd:
		return vm.execChoice(idx, c)
	case ast.IfCmd:
		return vm.execIf(ctx, idx, c)
	case ast.RepeatCmd:
		return vm.execRepeat(ctx, idx, c)
	case ast.ExitCmd:
		vm.running = false
		return execResult{kind: resultHalt}, nil
	case ast.BreakCmd:
		return execResult{kind: resultBreak, line: idx}, nil
	case ast.InvalidCmd:
		return execResult{}, c.Err
	default:
		return execResult{}, fmt.Errorf("unsupported command %T", c)
	}
}

func (vm *VM) emit(out Output) {
	vm.outputs = append(vm.outputs, out)
	if vm.outputHook != nil {
		vm.outputHook(out)
	}
}

func (vm *VM) emitLine(text string) {
	vm.emit(Output{Text: text, NewLine: true})
}

// renderDisplay joins the quoted literals and variable references of an
// inline dsp. Quoted literals are printed as written. Text outside those
// fragments is dropped unless there are no fragments at all.
func (vm *VM) renderDisplay(content string) string {
	parts := displayFragment.FindAllString(content, -1)
	if len(parts) == 0 {
		return StripQuotes(vm.vars.Substitute(content))
	}
	b := strings.Builder{}
	for _, p := range parts {
		if strings.HasPrefix(p, varPrefix) {
			b.WriteString(vm.vars.Get(p[len(varPrefix) : len(p)-1]))
			continue
		}
		b.WriteString(StripQuotes(p))
	}
	return b.String()
}

func parseWait(arg string) (time.Duration, error) {
	unit := time.Second
	num, ok := strings.CutSuffix(arg, "ms")
	if ok {
		unit = time.Millisecond
	} else if num, ok = strings.CutSuffix(arg, "s"); !ok {
		return 0, fmt.Errorf("%w: %s", ErrInvalidDuration, arg)
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil || n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidDuration, arg)
	}
	d := n * float64(unit)
	if d >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidDuration, arg)
	}
	return time.Duration(d), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
