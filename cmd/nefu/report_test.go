package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosuda/nefu"
)

func TestFormatDiagnostic(t *testing.T) {
	vm, err := nefu.Compile("err.nfu", "dsp \"a\"\n  goto nowhere\n")
	require.NoError(t, err)
	_, err = vm.Run()
	require.Error(t, err)

	require.Equal(t, []string{
		"[ERROR] Line 2:   goto nowhere",
		"        unknown label: nowhere",
	}, formatDiagnostic(err))

	require.Equal(t, []string{"[ERROR] boom"}, formatDiagnostic(errors.New("boom")))
}

func TestPrintDiagnostic(t *testing.T) {
	var buf bytes.Buffer
	printDiagnostic(&buf, errors.New("boom"))
	require.Contains(t, buf.String(), "[ERROR] boom")
}

func TestInspectOutline(t *testing.T) {
	s, err := nefu.Parse("outline.nfu", `# intro
lbl start
if 1 == 1 {
  dsp "yes"
}
frobnicate
lbl start
`)
	require.NoError(t, err)

	out := buildOutline(s)
	require.Equal(t, "outline.nfu", out.Script)
	require.Equal(t, 7, out.Lines)
	require.Equal(t, map[string]int{"start": 7}, out.Labels)
	require.Equal(t, []string{"start"}, out.DuplicateLabels)
	require.Len(t, out.Blocks, 1)
	require.Equal(t, 3, out.Blocks[0].Line)
	require.Equal(t, 5, out.Blocks[0].End)

	require.Len(t, out.Commands, 6)
	require.Equal(t, commandLine{Line: 2, Kind: "label", Text: "lbl start"}, out.Commands[0])
	bad := out.Commands[4]
	require.Equal(t, "invalid", bad.Kind)
	require.Equal(t, 6, bad.Line)
	require.Contains(t, bad.Error, "unknown command")

	var buf bytes.Buffer
	require.NoError(t, writeYAML(&buf, out))
	require.Contains(t, buf.String(), "script: outline.nfu")
	require.Contains(t, buf.String(), "kind: if")
}
