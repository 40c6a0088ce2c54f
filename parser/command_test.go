package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosuda/nefu/ast"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		line string
		want ast.Command
	}{
		{``, ast.Skip{}},
		{`# note`, ast.Skip{}},
		{`{`, ast.Skip{}},
		{`"Hi" >!vars/name!`, ast.AssignCmd{Value: `"Hi"`, Name: "name"}},
		{`!vars/a! >!vars/b!`, ast.AssignCmd{Value: `!vars/a!`, Name: "b"}},
		{`wait 500ms`, ast.WaitCmd{Arg: "500ms"}},
		{`dsp clear`, ast.ClearCmd{}},
		{`goto top`, ast.GotoCmd{Label: "top"}},
		{`lbl top`, ast.LabelCmd{Name: "top"}},
		{`  dsp "hello"  `, ast.DisplayCmd{Content: `"hello"`}},
		{`dsp {`, ast.DisplayBlockCmd{}},
		{`getinput {`, ast.InputCmd{Inline: true}},
		{`getinput`, ast.InputCmd{}},
		{`choice title="Pick" {`, ast.ChoiceCmd{Title: "Pick"}},
		{`choice title='Pick one' {`, ast.ChoiceCmd{Title: "Pick one"}},
		{`if 1 == 1 {`, ast.IfCmd{Cond: "1 == 1", Inline: true}},
		{`if !vars/x! = y`, ast.IfCmd{Cond: "!vars/x! = y"}},
		{`repeat 3 {`, ast.RepeatCmd{Count: "3", Inline: true}},
		{`repeat ~ {`, ast.RepeatCmd{Count: "~", Forever: true, Inline: true}},
		{`exit`, ast.ExitCmd{}},
		{`loop break`, ast.BreakCmd{}},
		{`loop   break`, ast.BreakCmd{}},
		{`}`, ast.CloseCmd{}},
		{`} else {`, ast.CloseCmd{}},
		{`else {`, ast.ElseCmd{}},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			require.Equal(t, tc.want, ParseCommand(tc.line))
		})
	}
}

func TestParseCommandInvalid(t *testing.T) {
	cases := []struct {
		line string
		err  error
	}{
		{`frobnicate`, ErrUnknownCommand},
		{`wait`, ErrUnknownCommand},
		{`choice title=Pick {`, ErrMalformedChoice},
		{`choice "Pick" {`, ErrMalformedChoice},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			cmd := ParseCommand(tc.line)
			bad, ok := cmd.(ast.InvalidCmd)
			require.True(t, ok, "got %T", cmd)
			require.ErrorIs(t, bad.Err, tc.err)
			require.Equal(t, tc.line, bad.Text)
		})
	}
}

func TestParseScriptLabels(t *testing.T) {
	src := "lbl a\ndsp \"1\"\nlbl b\nlbl a\n"
	s, err := ParseScript("labels.nfu", src)
	require.NoError(t, err)
	require.Equal(t, 4, s.Len())
	require.Equal(t, map[string]int{"a": 3, "b": 2}, s.Labels)
	require.Equal(t, []string{"a"}, s.DuplicateLabels)
}

func TestParseScriptDuplicateListedOnce(t *testing.T) {
	s, err := ParseScript("labels.nfu", "lbl a\nlbl a\nlbl b\nlbl a\nlbl b\n")
	require.NoError(t, err)
	require.Equal(t, map[string]int{"a": 3, "b": 4}, s.Labels)
	require.Equal(t, []string{"a", "b"}, s.DuplicateLabels)
}

func TestParseScriptRejectsInvalidUTF8(t *testing.T) {
	_, err := ParseScript("bad.nfu", "dsp \"\xff\"")
	require.Error(t, err)
}

func TestToLines(t *testing.T) {
	require.Nil(t, toLines(""))
	require.Equal(t, []string{"a", "", "b"}, toLines("a\r\n\r\nb\r\n"))
	require.Equal(t, []string{"a", "b"}, toLines("\uFEFFa\rb"))
	require.Equal(t, []string{"a", ""}, toLines("a\n\n"))
}
