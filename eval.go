package calc

import (
	"errors"
	"math"
	"strconv"
)

// Env maps variable names to values. Evaluating an assignment is the only
// operation that modifies an Env. An Env is not safe for concurrent use; a
// caller that shares one between goroutines must serialize evaluations.
type Env map[string]float64

// Clone returns a copy of env.
func (env Env) Clone() Env {
	n := make(Env, len(env))
	for k, v := range env {
		n[k] = v
	}
	return n
}

// Lookup returns the value of a variable and whether it is defined.
func (env Env) Lookup(name string) (float64, bool) {
	v, ok := env[name]
	return v, ok
}

// errNilNode is the error for evaluating a missing subtree of a hand-built
// tree.
var errNilNode = errors.New("calc: evaluating nil node")

// Evaluate computes the value of a tree. Assignments store into env, which
// may be nil if the tree contains no assignments. An assignment is stored
// only if its value evaluates without error; on any error, env holds exactly
// the assignments that completed before it.
func Evaluate(n *Node, env Env) (float64, error) {
	if n == nil {
		return 0, errNilNode
	}
	switch n.Kind {
	case NodeNum:
		return n.Value, nil
	case NodeVar:
		v, ok := env[n.Name]
		if !ok {
			return 0, &NameError{Name: n.Name}
		}
		return v, nil
	case NodeGroup:
		return Evaluate(n.Left, env)
	case NodePow:
		x, err := Evaluate(n.Left, env)
		if err != nil {
			return 0, err
		}
		y, err := Evaluate(n.Right, env)
		if err != nil {
			return 0, err
		}
		return math.Pow(x, y), nil
	case NodeCall:
		return evalCall(n, env)
	case NodeAssign:
		v, err := Evaluate(n.Left, env)
		if err != nil {
			return 0, err
		}
		if env == nil {
			return 0, &NameError{Name: n.Name, Assign: true}
		}
		env[n.Name] = v
		return v, nil
	case NodeBinary:
		x, err := Evaluate(n.Left, env)
		if err != nil {
			return 0, err
		}
		y, err := Evaluate(n.Right, env)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case "+":
			return x + y, nil
		case "-":
			return x - y, nil
		case "*":
			return x * y, nil
		case "/":
			// Division by zero gives an infinity or NaN.
			return x / y, nil
		default:
			return 0, &OperatorError{Operator: n.Op}
		}
	default:
		return 0, &OperatorError{Operator: n.Kind.String()}
	}
}

// evalCall evaluates the arguments of a call from left to right, then
// dispatches to the library.
func evalCall(n *Node, env Env) (float64, error) {
	args := make([]float64, len(n.Args))
	for i, a := range n.Args {
		v, err := Evaluate(a, env)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	f, ok := LookupFunc(n.Name)
	if !ok {
		return 0, &FuncError{Func: n.Name}
	}
	if !f.CanCall(len(args)) {
		return 0, &CallError{Func: n.Name, Len: len(args)}
	}
	return f.Call(args)
}

// EvalTokens is a shortcut to parse a token sequence and evaluate it.
func EvalTokens(toks []Token, env Env) (float64, error) {
	n, err := Parse(toks)
	if err != nil {
		return 0, err
	}
	return Evaluate(n, env)
}

// EvalString is a shortcut to tokenize, parse, and evaluate an expression.
func EvalString(src string, env Env) (float64, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return 0, err
	}
	return EvalTokens(toks, env)
}

// NameError is an error from a lookup for a variable that is missing from the
// evaluation environment.
type NameError struct {
	// Name is the name that was missing.
	Name string
	// Assign is set when the name could not be assigned because there was no
	// environment to hold it.
	Assign bool
}

func (err *NameError) Error() string {
	if err.Assign {
		return "no environment to assign variable " + strconv.Quote(err.Name)
	}
	return "undefined variable: " + strconv.Quote(err.Name)
}
