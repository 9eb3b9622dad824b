package calc

import (
	"errors"
	"strconv"
)

// Line = name '=' Expr | Expr
// Expr is reduced by folding, in order:
//	1. name '(' Args ')' -> Call, bare name -> Var
//	2. '(' Expr ')' -> Group
//	3. a '**' b -> Pow, leftmost first, so a**b**c is (a**b)**c
//	4. split at the leftmost '+'; failing that '-', then '*', then '/'
// Args = [ Expr { ',' Expr } [ ',' ] ]

// binops is the order in which binary operators are searched for. The first
// operator that occurs anywhere in a sequence becomes its root, so + and -
// bind loosest and a-b-c parses as a-(b-c).
var binops = [...]string{"+", "-", "*", "/"}

// item is an element of a working sequence: a raw token, or a node folded
// from a span of tokens. Folded items keep the first token of their span for
// position information.
type item struct {
	tok Token
	n   *Node
}

// is reports whether it is a raw token of the given kind and, if text is not
// empty, the given text.
func (it item) is(kind TokenKind, text string) bool {
	return it.n == nil && it.tok.Kind == kind && (text == "" || it.tok.Text == text)
}

// Parse parses a token sequence into an expression tree. If the second token
// is =, the sequence is an assignment to the name in the first token. toks is
// not modified.
func Parse(toks []Token) (*Node, error) {
	if len(toks) >= 2 && toks[1].Kind == TokenAssign {
		name := toks[0]
		if name.Kind != TokenIdent {
			return nil, &ParseError{Col: name.Pos, Text: name.Text, Msg: "cannot assign to " + strconv.Quote(name.Text)}
		}
		v, err := parseExpr(items(toks[2:]), toks[1])
		if err != nil {
			return nil, err
		}
		return Assign(name.Text, v), nil
	}
	return parseExpr(items(toks), Token{})
}

// items copies tokens into a new working sequence.
func items(toks []Token) []item {
	seq := make([]item, len(toks))
	for i, tok := range toks {
		seq[i].tok = tok
	}
	return seq
}

// fold returns a new sequence with seq[i:j+1] replaced by n. seq itself is
// left unchanged, so subslices of it held elsewhere stay valid.
func fold(seq []item, i, j int, n *Node) []item {
	r := make([]item, 0, len(seq)-(j-i))
	r = append(r, seq[:i]...)
	r = append(r, item{tok: seq[i].tok, n: n})
	return append(r, seq[j+1:]...)
}

// index finds the leftmost raw token of the given kind and text.
func index(seq []item, kind TokenKind, text string) int {
	for i, it := range seq {
		if it.is(kind, text) {
			return i
		}
	}
	return -1
}

// parseExpr reduces a sequence to a single node. near is the token adjacent to
// the sequence, used to locate errors when the sequence is empty.
func parseExpr(seq []item, near Token) (*Node, error) {
	seq, err := foldNames(seq)
	if err != nil {
		return nil, err
	}
	seq, err = foldGroups(seq)
	if err != nil {
		return nil, err
	}
	seq, err = foldPows(seq)
	if err != nil {
		return nil, err
	}
	for _, op := range binops {
		k := index(seq, TokenOp, op)
		if k < 0 {
			continue
		}
		lhs, err := parseExpr(seq[:k:k], seq[k].tok)
		if err != nil {
			return nil, err
		}
		rhs, err := parseExpr(seq[k+1:], seq[k].tok)
		if err != nil {
			return nil, err
		}
		return Binary(op, lhs, rhs), nil
	}
	return parseLeaf(seq, near)
}

// foldNames folds function calls and variable references, leftmost first.
func foldNames(seq []item) ([]item, error) {
	for {
		k := index(seq, TokenIdent, "")
		if k < 0 {
			return seq, nil
		}
		name := seq[k].tok.Text
		if k+1 >= len(seq) || !seq[k+1].is(TokenOpen, "") {
			seq = fold(seq, k, k, Var(name))
			continue
		}
		end, err := matchParen(seq, k+1)
		if err != nil {
			return nil, err
		}
		args, err := parseArgs(seq[k+2:end], seq[end].tok)
		if err != nil {
			return nil, err
		}
		seq = fold(seq, k, end, Call(name, args...))
	}
}

// parseArgs splits a call's interior on top-level commas and parses each
// argument. An empty interior is a call with no arguments, and a single
// trailing comma is allowed.
func parseArgs(seq []item, end Token) ([]*Node, error) {
	var (
		groups [][]item
		seps   []Token
		depth  int
		start  int
	)
	for i, it := range seq {
		switch {
		case it.is(TokenOpen, ""):
			depth++
		case it.is(TokenClose, ""):
			depth--
		case it.is(TokenSep, "") && depth == 0:
			groups = append(groups, seq[start:i:i])
			seps = append(seps, it.tok)
			start = i + 1
		}
	}
	if start < len(seq) {
		groups = append(groups, seq[start:])
	}
	args := make([]*Node, 0, len(groups))
	for i, g := range groups {
		near := end
		if i < len(seps) {
			near = seps[i]
		}
		a, err := parseExpr(g, near)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return args, nil
}

// foldGroups folds parenthesized subexpressions, leftmost first.
func foldGroups(seq []item) ([]item, error) {
	for {
		k := index(seq, TokenOpen, "")
		if k < 0 {
			return seq, nil
		}
		end, err := matchParen(seq, k)
		if err != nil {
			return nil, err
		}
		inner, err := parseExpr(seq[k+1:end], seq[end].tok)
		if err != nil {
			return nil, err
		}
		seq = fold(seq, k, end, Group(inner))
	}
}

// foldPows folds exponentiations, leftmost first. Everything bracketed has
// already been folded, so the operands are the single items on either side.
func foldPows(seq []item) ([]item, error) {
	for {
		k := index(seq, TokenOp, "**")
		if k < 0 {
			return seq, nil
		}
		if k == 0 || k == len(seq)-1 {
			return nil, emptyError(seq[k].tok)
		}
		base, err := parseExpr(seq[k-1:k], seq[k].tok)
		if err != nil {
			return nil, err
		}
		exp, err := parseExpr(seq[k+1:k+2], seq[k].tok)
		if err != nil {
			return nil, err
		}
		seq = fold(seq, k-1, k+1, Pow(base, exp))
	}
}

// matchParen finds the close bracket matching the open bracket at seq[open].
func matchParen(seq []item, open int) (int, error) {
	depth := 1
	for i := open + 1; i < len(seq); i++ {
		switch {
		case seq[i].is(TokenOpen, ""):
			depth++
		case seq[i].is(TokenClose, ""):
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, bracketError(seq[open].tok)
}

// parseLeaf handles a sequence that cannot be reduced further. It must hold
// exactly one item, either an already folded node or a numeral.
func parseLeaf(seq []item, near Token) (*Node, error) {
	switch len(seq) {
	case 0:
		return nil, emptyError(near)
	case 1:
		it := seq[0]
		if it.n != nil {
			return it.n, nil
		}
		if it.tok.Kind == TokenNum {
			return parseNum(it.tok)
		}
		return nil, unexpectedError(it.tok)
	}
	for _, it := range seq {
		if it.n == nil && it.tok.Kind != TokenNum {
			return nil, unexpectedError(it.tok)
		}
	}
	tok := seq[1].tok
	return nil, &ParseError{Col: tok.Pos, Text: tok.Text, Msg: "missing operator before " + strconv.Quote(tok.Text)}
}

// parseNum converts a numeral. Numerals too large for float64 become
// infinities.
func parseNum(tok Token) (*Node, error) {
	v, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, &ParseError{Col: tok.Pos, Text: tok.Text, Msg: "invalid number " + strconv.Quote(tok.Text)}
	}
	return Num(v), nil
}
