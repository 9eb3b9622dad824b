package calc

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"testing"
)

// diff finds the first in-order node of n that differs from m, or nil, nil if
// the two ASTs are equal. If any node is NodeNone, it is returned. If groups
// is false, Group nodes are transparent.
func (n *Node) diff(m *Node, groups bool) (*Node, *Node) {
	if !groups {
		n, m = n.ungroup(), m.ungroup()
	}
	if n == nil {
		if m != nil {
			return n, m
		}
		return nil, nil
	}
	if m == nil {
		return n, m
	}
	if n.Kind == NodeNone || m.Kind == NodeNone {
		return n, m
	}
	if n.Kind != m.Kind {
		return n, m
	}
	switch n.Kind {
	case NodeNum:
		if n.Value != m.Value {
			return n, m
		}
	case NodeVar:
		if n.Name != m.Name {
			return n, m
		}
	case NodeCall:
		if n.Name != m.Name || len(n.Args) != len(m.Args) {
			return n, m
		}
		for i := range n.Args {
			if d, e := n.Args[i].diff(m.Args[i], groups); d != nil || e != nil {
				return d, e
			}
		}
	case NodeAssign:
		if n.Name != m.Name {
			return n, m
		}
		return n.Left.diff(m.Left, groups)
	case NodeGroup:
		return n.Left.diff(m.Left, groups)
	case NodeBinary, NodePow:
		if n.Op != m.Op {
			return n, m
		}
		if d, e := n.Left.diff(m.Left, groups); d != nil || e != nil {
			return d, e
		}
		if d, e := n.Right.diff(m.Right, groups); d != nil || e != nil {
			return d, e
		}
	default:
		panic(fmt.Errorf("invalid node kind: n=%+v m=%+v", n, m))
	}
	return nil, nil
}

func (n *Node) ungroup() *Node {
	for n != nil && n.Kind == NodeGroup {
		n = n.Left
	}
	return n
}

// haskind checks whether a parse tree contains a node of the given type.
func (n *Node) haskind(k NodeKind) bool {
	found := false
	n.walk(func(m *Node) { found = found || m.Kind == k })
	return found
}

func mustParse(t *testing.T, src string) *Node {
	t.Helper()
	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("%q failed to lex: %v", src, err)
	}
	n, err := Parse(toks)
	if err != nil {
		t.Fatalf("%q failed to parse: %v", src, err)
	}
	return n
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(x)", "x"},
		{"multi", "((((x))))", "x"},

		{"add", "x+y", "(x)+(y)"},
		{"sub", "x-y", "(x)-(y)"},
		{"mul", "x*y", "(x)*(y)"},
		{"div", "x/y", "(x)/(y)"},
		{"pow", "x**y", "(x)**(y)"},

		// + and - are found before * and /, wherever they are.
		{"mul-add", "2*3+4*5", "(2*3)+(4*5)"},
		{"add-mul", "2+3*4", "2+(3*4)"},
		{"sub-mul", "10-2*3", "10-(2*3)"},
		{"add-sub", "1-2+3", "(1-2)+3"},
		{"sub-add", "1+2-3", "1+(2-3)"},

		// Each operator splits at its leftmost occurrence.
		{"add4", "w+x+y+z", "w+(x+(y+z))"},
		{"sub4", "w-x-y-z", "w-(x-(y-z))"},
		{"mul4", "w*x*y*z", "w*(x*(y*z))"},
		{"div4", "w/x/y/z", "w/(x/(y/z))"},
		{"mul-div", "w/x*y", "(w/x)*y"},
		{"div-mul", "w*x/y", "w*(x/y)"},

		// Exponentiation folds from the left.
		{"pow3", "x**y**z", "(x**y)**z"},
		{"pow4", "w**x**y**z", "((w**x)**y)**z"},
		{"pow-mul", "x*y**z", "x*(y**z)"},
		{"pow-call", "sqrt(x)**y", "(sqrt(x))**y"},
		{"pow-group", "(x+y)**z", "((x+y))**z"},

		{"call-args", "max(1+2, x*y, (z))", "max((1+2), (x*y), z)"},
		{"call-nested", "max(min(1, 2), 3)", "max((min(1, 2)), 3)"},
		{"call-trailing", "max(1, 2,)", "max(1, 2)"},
		{"neg", "!5 * x", "(!5)*(x)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := mustParse(t, c.a)
			b := mustParse(t, c.b)
			d, e := a.diff(b, false)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.a, a, d, c.b, b, e)
			}
		})
	}
}

func TestParseExact(t *testing.T) {
	cases := []struct {
		name string
		src  string
		n    *Node
	}{
		{"num", "3.5", Num(3.5)},
		{"negnum", "!3.5", Num(-3.5)},
		{"var", "x", Var("x")},
		{"group", "(1)", Group(Num(1))},
		{"groups", "((1))", Group(Group(Num(1)))},
		{"pow", "2**3**2", Pow(Pow(Num(2), Num(3)), Num(2))},
		{"call0", "pi()", Call("pi")},
		{"call1", "sqrt(9)", Call("sqrt", Num(9))},
		{"call2", "pow(x, (2))", Call("pow", Var("x"), Group(Num(2)))},
		{"assign", "x = 5", Assign("x", Num(5))},
		{"assign-expr", "y = x + 1", Assign("y", Binary("+", Var("x"), Num(1)))},
		{
			name: "mixed",
			src:  "2*3+4*5",
			n: Binary("+",
				Binary("*", Num(2), Num(3)),
				Binary("*", Num(4), Num(5)),
			),
		},
		{
			name: "sub-chain",
			src:  "10-2-3",
			n:    Binary("-", Num(10), Binary("-", Num(2), Num(3))),
		},
		{
			name: "group-pow",
			src:  "(a+b)**c",
			n:    Pow(Group(Binary("+", Var("a"), Var("b"))), Var("c")),
		},
		{
			name: "call-pow-mul",
			src:  "abs(x)**2*y",
			n:    Binary("*", Pow(Call("abs", Var("x")), Num(2)), Var("y")),
		},
		{
			name: "nested-call",
			src:  "max(min(a, b), (c))",
			n:    Call("max", Call("min", Var("a"), Var("b")), Group(Var("c"))),
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := mustParse(t, c.src)
			d, e := a.diff(c.n, true)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\twant %v which has %v\n\tgot  %v which has %v from %q", c.n, e, a, d, c.src)
			}
		})
	}
}

func TestParseAssignOnlyLeading(t *testing.T) {
	a := mustParse(t, "x = y")
	if a.Kind != NodeAssign {
		t.Fatalf("want assignment, got %v", a)
	}
	if a.Left.haskind(NodeAssign) {
		t.Errorf("assignment value %v contains an assignment", a.Left)
	}
}

func TestParseKeepsTokens(t *testing.T) {
	toks, err := Tokenize("f(x, (y + 1)) ** 2 - z")
	if err != nil {
		t.Fatal(err)
	}
	orig := append([]Token(nil), toks...)
	if _, err := Parse(toks); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(toks, orig) {
		t.Errorf("Parse modified its input:\n\twas %v\n\tnow %v", orig, toks)
	}
}

func TestNodeString(t *testing.T) {
	cases := []struct {
		src string
		str string
	}{
		{"1", "(1)"},
		{"x", "(x)"},
		{"x+y", "([x] + [y])"},
		{"(x)", "([x])"},
		{"x**y**z", "([(x) ** (y)] ** [z])"},
		{"sqrt(9)", "(sqrt([9]))"},
		{"max(1, 2)", "(max([1], [2]))"},
		{"x = !1", "(x = [-1])"},
	}
	for _, c := range cases {
		a := mustParse(t, c.src)
		if s := a.String(); s != c.str {
			t.Errorf("%q formats as %q, want %q", c.src, s, c.str)
		}
	}
}

func TestNodeVars(t *testing.T) {
	cases := []struct {
		src  string
		vars []string
	}{
		{"1+2+3", nil},
		{"1+2+x", []string{"x"}},
		{"a+b+c+b+a", []string{"a", "b", "c"}},
		{"max(y, x) ** z", []string{"y", "x", "z"}},
		{"x = y * 2", []string{"y"}},
	}
	for _, c := range cases {
		a := mustParse(t, c.src)
		if v := a.Vars(); !reflect.DeepEqual(v, c.vars) {
			t.Errorf("%q gave wrong variable names:\n\twant %q\n\tgot  %q", c.src, c.vars, v)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		col  int
		res  []string
	}{
		{"empty", "", 0, []string{`(?i)\bno expression\b`}},
		{"emptyparen", "()", 2, []string{`(?i)\bno expression\b`, `\)`}},
		{"left", "(1 + 2", 1, []string{`(?i)\bbracket\b`, `\(`}},
		{"left-nested", "((1 + 2)", 1, []string{`(?i)\bbracket\b`, `\(`}},
		{"left-call", "sqrt(9", 5, []string{`(?i)\bbracket\b`, `\(`}},
		{"right", "1 + 2)", 6, []string{`(?i)\bbracket\b`, `\)`}},
		{"emptyoperand", "x*", 2, []string{`(?i)\bno expression\b`, `\*`}},
		{"emptylhs", "-3", 1, []string{`(?i)\bno expression\b`, `-`}},
		{"emptypow", "**2", 1, []string{`(?i)\bno expression\b`, `\*\*`}},
		{"powop", "2**-3", 4, []string{`(?i)\bno expression\b`, `-`}},
		{"terms", "1 2", 3, []string{`(?i)\bmissing operator\b`}},
		{"termparen", "2 (3)", 3, []string{`(?i)\bmissing operator\b`}},
		{"sep", "1, 2", 2, []string{`","`}},
		{"sepparen", "(1, 2)", 3, []string{`","`}},
		{"emptyarg", "max(, 1)", 5, []string{`(?i)\bno expression\b`, `,`}},
		{"emptymid", "max(1,,2)", 7, []string{`(?i)\bno expression\b`, `,`}},
		{"assignnum", "3 = 4", 1, []string{`(?i)\bassign\b`, `3`}},
		{"assignempty", "x =", 3, []string{`(?i)\bno expression\b`, `=`}},
		{"assignchain", "x = y = 1", 7, []string{`(?i)\bassign`}},
		{"assignlate", "1 + x = 2", 7, []string{`(?i)\bassign`}},
		{"badnum", ".", 1, []string{`(?i)\binvalid number\b`}},
		{"badneg", "!.", 1, []string{`(?i)\binvalid number\b`}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := Tokenize(c.src)
			if err != nil {
				t.Fatalf("%q failed to lex: %v", c.src, err)
			}
			a, err := Parse(toks)
			if a != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, a)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("wrong error type from %q: want *ParseError, got %T", c.src, err)
			}
			if perr.Pos() != c.col {
				t.Errorf("error from %q at column %d, want %d", c.src, perr.Pos(), c.col)
			}
			msg := err.Error()
			for _, re := range c.res {
				if !regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q does not match %s", msg, re)
				}
			}
		})
	}
}
