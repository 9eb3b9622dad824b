package calc

import "strconv"

// ParseError indicates a token sequence that does not reduce to a single
// expression. It implements InputError.
type ParseError struct {
	// Col is the position of the token that caused the error, or 0 if the
	// error concerns an empty token sequence with no position.
	Col int
	// Text is the offending token text, if any.
	Text string
	// Msg describes the problem.
	Msg string
}

func (err *ParseError) Error() string {
	return errpos(err.Col, err.Msg)
}

func (err *ParseError) Pos() int {
	return err.Col
}

// bracketError reports an open bracket at tok with no close bracket.
func bracketError(tok Token) error {
	return &ParseError{Col: tok.Pos, Text: tok.Text, Msg: "open bracket ( with no close bracket"}
}

// closeError reports a close bracket with no open bracket.
func closeError(tok Token) error {
	return &ParseError{Col: tok.Pos, Text: tok.Text, Msg: "close bracket ) with no open bracket"}
}

// emptyError reports a missing operand or argument before the token end.
func emptyError(end Token) error {
	if end.Kind == TokenNone {
		return &ParseError{Col: end.Pos, Msg: "no expression"}
	}
	return &ParseError{Col: end.Pos, Text: end.Text, Msg: "no expression next to " + strconv.Quote(end.Text)}
}

// unexpectedError reports a token that cannot stand where it appears.
func unexpectedError(tok Token) error {
	switch tok.Kind {
	case TokenSep:
		return &ParseError{Col: tok.Pos, Text: tok.Text, Msg: "invalid occurrence of separator " + strconv.Quote(tok.Text)}
	case TokenAssign:
		return &ParseError{Col: tok.Pos, Text: tok.Text, Msg: "assignment is only allowed as name = expr"}
	case TokenClose:
		return closeError(tok)
	default:
		return &ParseError{Col: tok.Pos, Text: tok.Text, Msg: "unexpected " + tok.Kind.String() + " token " + strconv.Quote(tok.Text)}
	}
}

// OperatorError indicates an operator that the evaluator does not
// understand. Parse never produces one; it guards hand-built trees.
type OperatorError struct {
	// Operator is the operator text, or the node kind for unknown nodes.
	Operator string
}

func (err *OperatorError) Error() string {
	return "unknown operator " + strconv.Quote(err.Operator)
}

// FuncError indicates a call to a function that is not in the library.
type FuncError struct {
	// Func is the function name that was called.
	Func string
}

func (err *FuncError) Error() string {
	return "unknown function " + strconv.Quote(err.Func)
}

// CallError indicates a function call with the wrong number of arguments.
type CallError struct {
	// Func is the function name that was called.
	Func string
	// Len is the number of arguments in the call.
	Len int
}

func (err *CallError) Error() string {
	return "cannot call " + err.Func + " with " + strconv.Itoa(err.Len) + " arguments"
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	if pos <= 0 {
		return msg
	}
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input text implements InputError.
type InputError interface {
	error
	// Pos returns the column of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*ParseError)(nil)
	_ InputError = (*LexError)(nil)
)
