package calc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Token is a lexical unit of an expression.
type Token struct {
	// Text is the source text of the token. Numerals keep their textual form
	// until they are parsed.
	Text string
	// Kind is the lexical class of the token.
	Kind TokenKind
	// Pos is the 1-based rune column where the token starts.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// TokenKind is the lexical class of a token.
type TokenKind int

const (
	TokenNone TokenKind = iota
	// TokenNum is a numeral, possibly with a leading - from the ! sigil.
	TokenNum
	// TokenIdent is a variable or function name.
	TokenIdent
	// TokenOp is one of + - * / **.
	TokenOp
	// TokenOpen is (.
	TokenOpen
	// TokenClose is ).
	TokenClose
	// TokenSep is the function argument separator ,.
	TokenSep
	// TokenAssign is =.
	TokenAssign
)

func (k TokenKind) String() string {
	switch k {
	case TokenNone:
		return "None"
	case TokenNum:
		return "Num"
	case TokenIdent:
		return "Ident"
	case TokenOp:
		return "Op"
	case TokenOpen:
		return "Open"
	case TokenClose:
		return "Close"
	case TokenSep:
		return "Sep"
	case TokenAssign:
		return "Assign"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operators contains the operator texts in the order the parser searches for
// them when splitting binary expressions, followed by exponentiation.
var Operators = []string{"+", "-", "*", "/", "**"}

// NegSigil is the rune which marks a literal negative numeral, so that !5
// lexes the same as a numeral -5.
const NegSigil = '!'

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{src: src}
}

// Tokenize scans src into tokens. The error, if any, is a *LexError.
func Tokenize(src string) ([]Token, error) {
	scan := lex(strings.NewReader(src))
	var toks []Token
	for {
		tok, err := scan.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return toks, nil
			}
			return nil, err
		}
		toks = append(toks, tok)
	}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (rune, error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// peek returns the next rune without consuming it. ok is false at the end of
// the input.
func (l *lexer) peek() (r rune, ok bool) {
	r, err := l.readRune()
	if err != nil {
		return 0, false
	}
	l.unreadRune()
	return r, true
}

// next scans the next token from the input. At the end of the input, the
// error is io.EOF.
func (l *lexer) next() (Token, error) {
	defer l.buf.Reset()
	for {
		r, err := l.readRune()
		if err != nil {
			return Token{}, err
		}
		tok := Token{Pos: l.rune}
		switch {
		case unicode.IsSpace(r):
			continue
		case r == '(':
			tok.Text, tok.Kind = "(", TokenOpen
		case r == ')':
			tok.Text, tok.Kind = ")", TokenClose
		case r == ',':
			tok.Text, tok.Kind = ",", TokenSep
		case r == '=':
			tok.Text, tok.Kind = "=", TokenAssign
		case r == '+', r == '-', r == '/':
			tok.Text, tok.Kind = string(r), TokenOp
		case r == '*':
			tok.Text, tok.Kind = "*", TokenOp
			if p, ok := l.peek(); ok && p == '*' {
				l.readRune()
				tok.Text = "**"
			}
		case r == NegSigil:
			p, ok := l.peek()
			if !ok || !isNumeral(p) {
				l.buf.WriteRune(r)
				return tok, l.error("", tok.Pos)
			}
			l.buf.WriteByte('-')
			if err := l.scanNum(tok.Pos); err != nil {
				return tok, err
			}
			tok.Text, tok.Kind = l.buf.String(), TokenNum
		case isNumeral(r):
			l.unreadRune()
			if err := l.scanNum(tok.Pos); err != nil {
				return tok, err
			}
			tok.Text, tok.Kind = l.buf.String(), TokenNum
		case isLetter(r):
			l.unreadRune()
			l.scanIdent()
			tok.Text, tok.Kind = l.buf.String(), TokenIdent
		default:
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("", tok.Pos)
		}
		return tok, nil
	}
}

// scanNum consumes digits and dots greedily. The numeral is invalid if it
// contains more than one dot.
func (l *lexer) scanNum(pos int) error {
	dot := false
	bad := false
	for {
		r, err := l.readRune()
		if err != nil {
			break
		}
		if !isNumeral(r) {
			l.unreadRune()
			break
		}
		if r == '.' {
			bad = bad || dot
			dot = true
		}
		l.buf.WriteRune(r)
	}
	if bad {
		return l.error("number", pos)
	}
	return nil
}

func (l *lexer) scanIdent() {
	for {
		r, err := l.readRune()
		if err != nil {
			// next unreads the rune that decides ident scanning before
			// calling scanIdent, so we have scanned at least one rune.
			return
		}
		if !isLetter(r) {
			l.unreadRune()
			return
		}
		l.buf.WriteRune(r)
	}
}

func isNumeral(r rune) bool {
	return '0' <= r && r <= '9' || r == '.'
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z'
}

func (l *lexer) error(kind string, col int) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  col,
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the error was found. For
	// unrecognized characters, it is the character itself.
	Text string
	// Kind is the type of token the lexer was scanning. This is "number" for
	// malformed numerals or the empty string for unrecognized characters.
	Kind string
	// Col is the column at which the invalid token starts.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + strconv.Quote(err.Text)
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}
