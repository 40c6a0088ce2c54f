package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gosuda/nefu/ast"
)

var ErrMalformedBlock = errors.New("missing closing '}' for block")

// FindClosing returns the index of the line that closes the block whose body
// starts at start. The opening brace is already consumed, so depth starts at
// one. Braces are counted in order within each line, and the first line on
// which depth returns to zero is the closing line.
func FindClosing(s *ast.Script, start int) (int, error) {
	depth := 1
	for i := start; i < s.Len(); i++ {
		for _, r := range s.Text(i) {
			switch r {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return i, nil
				}
			}
		}
	}
	return 0, fmt.Errorf("%w (opened before line %d)", ErrMalformedBlock, start+1)
}

// BodyStart returns the first body line of the block headed at idx. When the
// header has no trailing brace, the brace must open the next line.
func BodyStart(s *ast.Script, idx int, inline bool) (int, error) {
	if inline {
		return idx + 1, nil
	}
	next := idx + 1
	if next < s.Len() && strings.HasPrefix(s.Text(next), "{") {
		return next + 1, nil
	}
	return 0, fmt.Errorf("%w: missing '{' after line %d", ErrMalformedBlock, idx+1)
}

// Block is a resolved body range: lines [Start, End) with End holding the
// closing brace.
type Block struct {
	Start int
	End   int
}

// Locate resolves the block headed at idx.
func Locate(s *ast.Script, idx int, inline bool) (Block, error) {
	start, err := BodyStart(s, idx, inline)
	if err != nil {
		return Block{}, err
	}
	end, err := FindClosing(s, start)
	if err != nil {
		return Block{}, err
	}
	return Block{Start: start, End: end}, nil
}

// ElseBranch looks for an else block following an if block that closes at
// end. Both `} else {` on the closing line and an `else` header on the next
// line are recognized.
func ElseBranch(s *ast.Script, end int) (Block, bool, error) {
	header := -1
	text := ""
	if rest := strings.TrimSpace(strings.TrimPrefix(s.Text(end), "}")); isElseHeader(rest) {
		header, text = end, rest
	} else if end+1 < s.Len() && isElseHeader(s.Text(end+1)) {
		header, text = end+1, s.Text(end+1)
	}
	if header < 0 {
		return Block{}, false, nil
	}
	_, inline := cutBrace(text)
	b, err := Locate(s, header, inline)
	if err != nil {
		return Block{}, true, err
	}
	return b, true, nil
}

// BlockInfo describes one block header for tooling. Lines are 1-based.
type BlockInfo struct {
	Kind      string `yaml:"kind"`
	Line      int    `yaml:"line"`
	Start     int    `yaml:"start,omitempty"`
	End       int    `yaml:"end,omitempty"`
	ElseStart int    `yaml:"else_start,omitempty"`
	ElseEnd   int    `yaml:"else_end,omitempty"`
	Error     string `yaml:"error,omitempty"`
}

// Outline resolves every block header in s without executing anything.
func Outline(s *ast.Script) []BlockInfo {
	var out []BlockInfo
	for i, cmd := range s.Commands {
		inline, ok := opensBlock(cmd)
		if !ok {
			continue
		}
		info := BlockInfo{Kind: ast.Kind(cmd), Line: i + 1}
		b, err := Locate(s, i, inline)
		if err != nil {
			info.Error = err.Error()
			out = append(out, info)
			continue
		}
		info.Start, info.End = b.Start+1, b.End+1
		if _, isIf := cmd.(ast.IfCmd); isIf {
			eb, found, err := ElseBranch(s, b.End)
			switch {
			case err != nil:
				info.Error = err.Error()
			case found:
				info.ElseStart, info.ElseEnd = eb.Start+1, eb.End+1
			}
		}
		out = append(out, info)
	}
	return out
}

func opensBlock(cmd ast.Command) (inline bool, ok bool) {
	switch c := cmd.(type) {
	case ast.DisplayBlockCmd, ast.ChoiceCmd:
		return true, true
	case ast.InputCmd:
		return c.Inline, true
	case ast.IfCmd:
		return c.Inline, true
	case ast.RepeatCmd:
		return c.Inline, true
	default:
		return false, false
	}
}
