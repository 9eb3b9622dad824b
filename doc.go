// Package calc implements a small floating-point calculator.
//
// Evaluation is a pipeline of three steps. Tokenize scans text into tokens,
// Parse builds a tree from a token sequence, and Evaluate computes the value
// of a tree against an Env of variables. Token sequences may be collected
// from several lines of input before they are parsed.
//
// The grammar follows the arithmetic of an old interactive calculator rather
// than textbook precedence. "a ** b ** c" is "(a ** b) ** c", and a binary
// expression is split at its leftmost + if it has one, otherwise at its
// leftmost -, then *, then /. So "10-2-3" is 11 and "8/4/2" is 4. There are no
// unary operators; "!5" is the numeral -5. A line "name = expr" assigns to a
// variable in the Env.
//
// Function calls like "sqrt(9)" dispatch to a fixed library; see FuncNames.
package calc
