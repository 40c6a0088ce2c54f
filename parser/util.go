package parser

import (
	"strings"
)

// cutBrace removes a trailing `{` from a block header. The boolean reports
// whether the brace was present.
func cutBrace(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if after, ok := strings.CutSuffix(raw, "{"); ok {
		return strings.TrimSpace(after), true
	}
	return raw, false
}

// cutKeyword splits "kw rest" when line starts with kw followed by a space.
func cutKeyword(line, kw string) (string, bool) {
	rest, ok := strings.CutPrefix(line, kw+" ")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func isElseHeader(line string) bool {
	return strings.HasPrefix(line, "else")
}
