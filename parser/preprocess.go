package parser

import "strings"

func normalize(raw string) string {
	if after, ok := strings.CutPrefix(raw, "\uFEFF"); ok {
		return after
	}
	return raw
}

// toLines splits raw into lines, keeping blank and comment lines so that
// indices match the file. A trailing newline does not produce an extra line.
func toLines(raw string) []string {
	norm := normalize(raw)
	norm = strings.ReplaceAll(norm, "\r\n", "\n")
	norm = strings.ReplaceAll(norm, "\r", "\n")
	if norm == "" {
		return nil
	}
	norm = strings.TrimSuffix(norm, "\n")
	return strings.Split(norm, "\n")
}

// isSkippable covers blank lines, comments and the lone `{` that opens a block
// whose header sits on the line above.
func isSkippable(line string) bool {
	return line == "" || line == "{" || strings.HasPrefix(line, "#")
}
