//go:build go1.18
// +build go1.18

package calc_test

import (
	"testing"

	"github.com/zephyrtronium/calc"
)

func FuzzEval(f *testing.F) {
	f.Add("x")
	f.Add("y = x * 2")
	f.Add("max(1, !2, x**3)")
	f.Add("pow(2, 1000)")
	f.Fuzz(func(t *testing.T, s string) {
		env := calc.Env{"x": 1}
		calc.EvalString(s, env)
		if _, ok := env["x"]; !ok {
			t.Errorf("%q removed x", s)
		}
	})
}
