package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/gookit/color"
	"gopkg.in/yaml.v3"

	nruntime "github.com/gosuda/nefu/runtime"
)

// formatDiagnostic renders a fatal run error as the line header followed by
// the indented detail.
func formatDiagnostic(err error) []string {
	var se *nruntime.ScriptError
	if errors.As(err, &se) {
		return []string{
			fmt.Sprintf("[ERROR] Line %d: %s", se.Line, se.Source),
			"        " + se.Err.Error(),
		}
	}
	return []string{"[ERROR] " + err.Error()}
}

func printDiagnostic(w io.Writer, err error) {
	fmt.Fprintln(w)
	for _, line := range formatDiagnostic(err) {
		fmt.Fprintln(w, color.Red.Sprint(line))
	}
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
