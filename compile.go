package nefu

import (
	"github.com/gosuda/nefu/ast"
	"github.com/gosuda/nefu/parser"
	nruntime "github.com/gosuda/nefu/runtime"
)

// Errors a run can fail with. Match them with errors.Is; the returned error
// is a *nruntime.ScriptError carrying the failing line.
var (
	ErrMalformedBlock     = parser.ErrMalformedBlock
	ErrUnknownCommand     = parser.ErrUnknownCommand
	ErrMalformedChoice    = parser.ErrMalformedChoice
	ErrUnknownLabel       = nruntime.ErrUnknownLabel
	ErrInvalidDuration    = nruntime.ErrInvalidDuration
	ErrInvalidRepeatCount = nruntime.ErrInvalidRepeatCount
	ErrLoopSignalEscaped  = nruntime.ErrLoopSignalEscaped
)

// Compile parses a nefu script and builds a VM instance for one run.
// name is used in diagnostics only.
func Compile(name, src string) (*nruntime.VM, error) {
	script, err := parser.ParseScript(name, src)
	if err != nil {
		return nil, err
	}
	return nruntime.New(script)
}

// Parse only returns the loaded script for tooling use.
func Parse(name, src string) (*ast.Script, error) {
	return parser.ParseScript(name, src)
}
