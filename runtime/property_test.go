package nruntime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/gosuda/nefu/parser"
)

func newProperties() *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	return gopter.NewProperties(parameters)
}

// genWord generates identifiers that do not parse as numbers, so "inf" and
// "nan" are excluded.
func genWord() gopter.Gen {
	return gen.Identifier().SuchThat(func(s string) bool {
		_, err := strconv.ParseFloat(s, 64)
		return err != nil
	})
}

func TestSubstituteProperties(t *testing.T) {
	properties := newProperties()
	vars := NewVars()
	vars.Set("x", "value")

	properties.Property("text without markers is unchanged", prop.ForAll(
		func(text string) bool {
			return vars.Substitute(text) == text
		},
		gen.AnyString().SuchThat(func(s string) bool {
			return !strings.Contains(s, varPrefix)
		}),
	))

	properties.TestingRun(t)
}

func TestConditionProperties(t *testing.T) {
	properties := newProperties()
	vars := NewVars()
	format := func(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

	properties.Property("numeric < matches float comparison", prop.ForAll(
		func(a, b float64) bool {
			return EvalCondition(vars, format(a)+" < "+format(b)) == (a < b)
		},
		gen.Float64Range(-1e6, 1e6),
		gen.Float64Range(-1e6, 1e6),
	))

	properties.Property("numeric >= matches float comparison", prop.ForAll(
		func(a, b int) bool {
			return EvalCondition(vars, fmt.Sprintf("%d >= %d", a, b)) == (a >= b)
		},
		gen.IntRange(-1000, 1000),
		gen.IntRange(-1000, 1000),
	))

	properties.Property("word == and != match string equality", prop.ForAll(
		func(a, b string) bool {
			eq := EvalCondition(vars, a+" == "+b)
			ne := EvalCondition(vars, a+" != "+b)
			return eq == (a == b) && ne == (a != b)
		},
		genWord(),
		genWord(),
	))

	properties.Property("a word always equals itself", prop.ForAll(
		func(a string) bool {
			return EvalCondition(vars, a+" == "+a)
		},
		genWord(),
	))

	properties.TestingRun(t)
}

func TestBlockProperties(t *testing.T) {
	properties := newProperties()

	nested := func(depth int, closed bool) string {
		lines := []string{"repeat 1 {"}
		for i := 0; i < depth; i++ {
			lines = append(lines, "if 1 == 1 {", "dsp \"x\"")
		}
		for i := 0; i < depth; i++ {
			lines = append(lines, "}")
		}
		if closed {
			lines = append(lines, "}")
		}
		return strings.Join(lines, "\n")
	}

	properties.Property("FindClosing returns the outer closing line", prop.ForAll(
		func(depth int) bool {
			s, err := parser.ParseScript("p.nfu", nested(depth, true))
			if err != nil {
				return false
			}
			end, err := parser.FindClosing(s, 1)
			return err == nil && end == s.Len()-1
		},
		gen.IntRange(0, 8),
	))

	properties.Property("FindClosing fails on an unbalanced block", prop.ForAll(
		func(depth int) bool {
			s, err := parser.ParseScript("p.nfu", nested(depth, false))
			if err != nil {
				return false
			}
			_, err = parser.FindClosing(s, 1)
			return errors.Is(err, parser.ErrMalformedBlock)
		},
		gen.IntRange(0, 8),
	))

	properties.TestingRun(t)
}

func TestRepeatBreakProperties(t *testing.T) {
	properties := newProperties()

	properties.Property("break on iteration k of n runs the body min(k, n) times", prop.ForAll(
		func(n, k int) bool {
			src := fmt.Sprintf(`repeat %d {
  getinput {
    !getinput!>!vars/r!
  }
  dsp "tick"
  if !vars/r! == stop {
    loop break
  }
}
dsp "done"`, n)
			s, err := parser.ParseScript("p.nfu", src)
			if err != nil {
				return false
			}
			vm, _ := New(s)
			calls := 0
			vm.SetInputProvider(func(InputRequest) (string, error) {
				calls++
				if calls == k {
					return "stop", nil
				}
				return "go", nil
			})
			out, err := vm.Run()
			if err != nil {
				return false
			}
			ticks := 0
			for _, o := range out {
				if o.Text == "tick" {
					ticks++
				}
			}
			return ticks == min(k, n) && out[len(out)-1].Text == "done"
		},
		gen.IntRange(1, 6),
		gen.IntRange(1, 6),
	))

	properties.TestingRun(t)
}
