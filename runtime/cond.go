package nruntime

import (
	"cmp"
	"strconv"
	"strings"
)

// compareOps is ordered so that at any position the longer operator sharing
// a prefix is tried first.
var compareOps = []string{"==", "=", "!=", "<=", ">=", "<", ">"}

type comparison struct {
	left  string
	op    string
	right string
}

// splitComparison finds the earliest operator that has a non-empty operand on
// both sides and does not sit inside a quoted operand.
func splitComparison(text string) (comparison, bool) {
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		if (c == '"' || c == '\'') && opensQuote(text, i) {
			quote = c
			continue
		}
		if i == 0 {
			continue
		}
		for _, op := range compareOps {
			if strings.HasPrefix(text[i:], op) && i+len(op) < len(text) {
				return comparison{left: text[:i], op: op, right: text[i+len(op):]}, true
			}
		}
	}
	return comparison{}, false
}

// opensQuote reports whether a quote at i starts an operand, so apostrophes
// inside words do not hide operators.
func opensQuote(text string, i int) bool {
	if i == 0 {
		return true
	}
	switch text[i-1] {
	case ' ', '\t', '=', '!', '<', '>':
		return true
	default:
		return false
	}
}

// EvalCondition evaluates a single comparison after substituting variables.
// Operands that both parse as numbers compare numerically, anything else
// compares as strings. Without an operator the text is a boolean literal.
func EvalCondition(vars *Vars, text string) bool {
	text = strings.TrimSpace(vars.Substitute(text))
	c, ok := splitComparison(text)
	if !ok {
		return strings.EqualFold(text, "true")
	}
	left := StripQuotes(c.left)
	right := StripQuotes(c.right)
	lf, lerr := strconv.ParseFloat(left, 64)
	rf, rerr := strconv.ParseFloat(right, 64)
	if lerr == nil && rerr == nil {
		return compare(c.op, lf, rf)
	}
	return compare(c.op, left, right)
}

func compare[T cmp.Ordered](op string, l, r T) bool {
	switch op {
	case "=", "==":
		return l == r
	case "!=":
		return l != r
	case "<":
		return l < r
	case ">":
		return l > r
	case "<=":
		return l <= r
	case ">=":
		return l >= r
	default:
		return false
	}
}
