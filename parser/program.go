package parser

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/gosuda/nefu/ast"
)

// ParseScript splits src into lines, recognizes each line's command and
// builds the label table. Duplicate labels resolve to the last declaration
// and are listed once each in DuplicateLabels.
func ParseScript(name, src string) (*ast.Script, error) {
	if !utf8.ValidString(src) {
		return nil, fmt.Errorf("%s: script is not valid UTF-8", name)
	}
	lines := toLines(src)
	s := &ast.Script{
		Name:     name,
		Lines:    lines,
		Commands: make([]ast.Command, len(lines)),
		Labels:   map[string]int{},
	}
	for i, raw := range lines {
		cmd := ParseCommand(raw)
		s.Commands[i] = cmd
		lbl, ok := cmd.(ast.LabelCmd)
		if !ok {
			continue
		}
		if _, dup := s.Labels[lbl.Name]; dup && !slices.Contains(s.DuplicateLabels, lbl.Name) {
			s.DuplicateLabels = append(s.DuplicateLabels, lbl.Name)
		}
		s.Labels[lbl.Name] = i
	}
	return s, nil
}
