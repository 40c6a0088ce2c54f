package nruntime

import (
	"regexp"
	"strings"
)

const varPrefix = "!vars/"

var varMarker = regexp.MustCompile(`!vars/([\p{L}\p{N}_]+)!`)

// Vars holds the run's string bindings. Unbound names read as "".
type Vars struct {
	values map[string]string
}

func NewVars() *Vars {
	return &Vars{values: map[string]string{}}
}

func (v *Vars) Set(name, value string) {
	v.values[name] = value
}

func (v *Vars) Get(name string) string {
	return v.values[name]
}

// Substitute replaces every !vars/<name>! marker with the bound value.
// Replacement text is not scanned again.
func (v *Vars) Substitute(text string) string {
	if !strings.Contains(text, varPrefix) {
		return text
	}
	return varMarker.ReplaceAllStringFunc(text, func(m string) string {
		return v.Get(m[len(varPrefix) : len(m)-1])
	})
}

func (v *Vars) Snapshot() map[string]string {
	cp := make(map[string]string, len(v.values))
	for k, val := range v.values {
		cp[k] = val
	}
	return cp
}

// StripQuotes trims text and removes one matching pair of surrounding single
// or double quotes.
func StripQuotes(text string) string {
	text = strings.TrimSpace(text)
	if len(text) < 2 {
		return text
	}
	first, last := text[0], text[len(text)-1]
	if first == last && (first == '"' || first == '\'') {
		return text[1 : len(text)-1]
	}
	return text
}
