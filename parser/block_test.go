package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosuda/nefu/ast"
)

func mustParse(t *testing.T, src string) *ast.Script {
	t.Helper()
	s, err := ParseScript("test.nfu", src)
	require.NoError(t, err)
	return s
}

const nestedIf = `if 1 == 1 {
  repeat 2 {
    dsp "x"
  }
} else {
  dsp "y"
}
dsp "after"`

func TestFindClosingNested(t *testing.T) {
	s := mustParse(t, nestedIf)

	end, err := FindClosing(s, 1)
	require.NoError(t, err)
	require.Equal(t, 4, end)

	end, err = FindClosing(s, 2)
	require.NoError(t, err)
	require.Equal(t, 3, end)
}

func TestFindClosingUnbalanced(t *testing.T) {
	s := mustParse(t, "repeat 2 {\n  if x {\n    dsp \"a\"\n  }\n")
	_, err := FindClosing(s, 1)
	require.ErrorIs(t, err, ErrMalformedBlock)
}

func TestLocateBraceOnNextLine(t *testing.T) {
	s := mustParse(t, "repeat 2\n{\n  dsp \"a\"\n}\n")
	b, err := Locate(s, 0, false)
	require.NoError(t, err)
	require.Equal(t, Block{Start: 2, End: 3}, b)

	s = mustParse(t, "repeat 2\ndsp \"a\"\n}\n")
	_, err = Locate(s, 0, false)
	require.ErrorIs(t, err, ErrMalformedBlock)
}

func TestElseBranch(t *testing.T) {
	s := mustParse(t, nestedIf)
	eb, found, err := ElseBranch(s, 4)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, Block{Start: 5, End: 6}, eb)

	s = mustParse(t, "if x {\ndsp \"a\"\n}\nelse\n{\ndsp \"b\"\n}\n")
	eb, found, err = ElseBranch(s, 2)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, Block{Start: 5, End: 6}, eb)

	s = mustParse(t, "if x {\ndsp \"a\"\n}\ndsp \"b\"\n")
	_, found, err = ElseBranch(s, 2)
	require.NoError(t, err)
	require.False(t, found)
}

func TestElseBranchUnterminated(t *testing.T) {
	s := mustParse(t, "if x {\ndsp \"a\"\n} else {\ndsp \"b\"\n")
	_, found, err := ElseBranch(s, 2)
	require.True(t, found)
	require.ErrorIs(t, err, ErrMalformedBlock)
}

func TestOutline(t *testing.T) {
	s := mustParse(t, nestedIf+"\nchoice title=\"Pick\" {\n1) A\n")
	got := Outline(s)
	require.Len(t, got, 3)
	require.Equal(t, BlockInfo{Kind: "if", Line: 1, Start: 2, End: 5, ElseStart: 6, ElseEnd: 7}, got[0])
	require.Equal(t, BlockInfo{Kind: "repeat", Line: 2, Start: 3, End: 4}, got[1])
	require.Equal(t, "choice", got[2].Kind)
	require.Equal(t, 9, got[2].Line)
	require.Contains(t, got[2].Error, "missing closing")
}
