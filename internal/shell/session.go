// Package shell implements a line-oriented calculator session.
//
// Lines accumulate tokens until the input contains "=". A line that is only
// "name =" waits for its value on the following lines. Otherwise, a trailing
// "=" is dropped and the pending tokens are evaluated. After a result, a line
// beginning with an operator continues from that result, so "2+3=" followed
// by "*4=" gives 20.
package shell

import (
	"log"
	"strconv"
	"strings"

	"github.com/zephyrtronium/calc"
)

// Kind is the kind of a line's outcome.
type Kind int8

const (
	// Pending means the line's tokens are waiting for more input.
	Pending Kind = iota
	// Value means the pending tokens were evaluated.
	Value
	// Cleared means the session was reset.
	Cleared
)

func (k Kind) String() string {
	switch k {
	case Pending:
		return "Pending"
	case Value:
		return "Value"
	case Cleared:
		return "Cleared"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Result is the outcome of one line.
type Result struct {
	Kind Kind
	// Value is the result of evaluation when Kind is Value.
	Value float64
	// Text is the text to display for Pending and Cleared results: the last
	// pending token, or "0" when there is none.
	Text string
	// Tree is the parsed expression when Kind is Value.
	Tree *calc.Node
}

// Session holds the state of one calculator session. A Session is not safe
// for concurrent use.
type Session struct {
	// Env holds variables. Assignments persist in it across lines and
	// across resets.
	Env calc.Env
	// Log receives the pending tokens after each line if it is not nil.
	Log *log.Logger

	pending []calc.Token
	last    float64
	haslast bool
}

// New creates a session. If env is nil, the session starts with no
// variables.
func New(env calc.Env, logger *log.Logger) *Session {
	if env == nil {
		env = calc.Env{}
	}
	return &Session{Env: env, Log: logger}
}

// Pending returns a copy of the tokens waiting for evaluation.
func (s *Session) Pending() []calc.Token {
	return append([]calc.Token(nil), s.pending...)
}

// Last returns the most recent result and whether there is one.
func (s *Session) Last() (float64, bool) {
	return s.last, s.haslast
}

// Reset discards pending tokens and the last result. Variables are kept.
func (s *Session) Reset() {
	s.pending = s.pending[:0]
	s.last, s.haslast = 0, false
}

// Line processes one line of input. If the line fails to tokenize, only that
// line is dropped. Any other error discards all pending tokens.
func (s *Session) Line(text string) (Result, error) {
	if strings.TrimSpace(text) == "c" {
		s.Reset()
		return Result{Kind: Cleared, Text: "0"}, nil
	}
	toks, err := calc.Tokenize(text)
	if err != nil {
		return Result{}, err
	}
	if len(s.pending) == 0 && s.haslast && len(toks) > 0 && toks[0].Kind == calc.TokenOp {
		s.pending = append(s.pending, calc.Token{
			Text: strconv.FormatFloat(s.last, 'g', -1, 64),
			Kind: calc.TokenNum,
		})
	}
	s.pending = append(s.pending, toks...)
	if s.Log != nil {
		s.Log.Printf("pending: %v", s.pending)
	}
	if !s.ready() {
		r := Result{Kind: Pending, Text: "0"}
		if len(s.pending) > 0 {
			r.Text = s.pending[len(s.pending)-1].Text
		}
		return r, nil
	}
	seq := s.pending
	if seq[len(seq)-1].Kind == calc.TokenAssign {
		seq = seq[:len(seq)-1]
	}
	// Evaluation errors and successes alike consume the pending tokens.
	s.pending = s.pending[:0]
	n, err := calc.Parse(seq)
	if err != nil {
		return Result{}, err
	}
	v, err := calc.Evaluate(n, s.Env)
	if err != nil {
		return Result{}, err
	}
	s.last, s.haslast = v, true
	return Result{Kind: Value, Value: v, Tree: n}, nil
}

// ready reports whether the pending tokens should be evaluated.
func (s *Session) ready() bool {
	p := s.pending
	if len(p) == 2 && p[0].Kind == calc.TokenIdent && p[1].Kind == calc.TokenAssign {
		return false
	}
	for _, tok := range p {
		if tok.Kind == calc.TokenAssign {
			return true
		}
	}
	return false
}
