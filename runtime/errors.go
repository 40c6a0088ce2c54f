package nruntime

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownLabel       = errors.New("unknown label")
	ErrInvalidDuration    = errors.New("invalid wait duration")
	ErrInvalidRepeatCount = errors.New("invalid repeat count")
	ErrLoopSignalEscaped  = errors.New("loop break outside of repeat")
)

// ScriptError is the fatal error of a run, pinned to the line that raised it.
type ScriptError struct {
	Line   int // 1-based
	Source string
	Err    error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Source, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

func (vm *VM) fault(idx int, err error) error {
	var se *ScriptError
	if errors.As(err, &se) {
		return err
	}
	return &ScriptError{Line: idx + 1, Source: vm.script.Lines[idx], Err: err}
}
