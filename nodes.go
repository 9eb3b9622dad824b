package calc

import (
	"strconv"
	"strings"
)

// Node is a node in the abstract syntax tree of an expression. Which fields
// are meaningful depends on Kind. Each node is exclusively owned by its
// parent; Parse never shares nodes between trees.
type Node struct {
	Kind NodeKind

	// Value is the value of a NodeNum.
	Value float64
	// Name is the variable name of a NodeVar or NodeAssign, or the function
	// name of a NodeCall.
	Name string
	// Op is the operator of a NodeBinary.
	Op string

	// Left is the inner node of a NodeGroup, the value of a NodeAssign, the
	// base of a NodePow, or the left operand of a NodeBinary.
	Left *Node
	// Right is the exponent of a NodePow or the right operand of a
	// NodeBinary.
	Right *Node
	// Args are the arguments of a NodeCall, in evaluation order.
	Args []*Node
}

// NodeKind identifies the variant of a Node.
type NodeKind int8

const (
	NodeNone NodeKind = iota

	NodeNum    // Value
	NodeVar    // lookup(Name)
	NodeGroup  // (Left)
	NodePow    // Left ** Right
	NodeCall   // Name(Args...)
	NodeAssign // Name = Left
	NodeBinary // Left Op Right
)

func (k NodeKind) String() string {
	switch k {
	case NodeNone:
		return "None"
	case NodeNum:
		return "Num"
	case NodeVar:
		return "Var"
	case NodeGroup:
		return "Group"
	case NodePow:
		return "Pow"
	case NodeCall:
		return "Call"
	case NodeAssign:
		return "Assign"
	case NodeBinary:
		return "Binary"
	default:
		return "NodeKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Num creates a number leaf.
func Num(v float64) *Node {
	return &Node{Kind: NodeNum, Value: v}
}

// Var creates a variable reference.
func Var(name string) *Node {
	return &Node{Kind: NodeVar, Name: name}
}

// Group wraps a parenthesized subexpression.
func Group(inner *Node) *Node {
	return &Node{Kind: NodeGroup, Left: inner}
}

// Pow creates an exponentiation.
func Pow(base, exp *Node) *Node {
	return &Node{Kind: NodePow, Left: base, Right: exp}
}

// Call creates a function call.
func Call(name string, args ...*Node) *Node {
	return &Node{Kind: NodeCall, Name: name, Args: args}
}

// Assign creates an assignment of value to name.
func Assign(name string, value *Node) *Node {
	return &Node{Kind: NodeAssign, Name: name, Left: value}
}

// Binary creates an arithmetic operation.
func Binary(op string, left, right *Node) *Node {
	return &Node{Kind: NodeBinary, Op: op, Left: left, Right: right}
}

// String formats the tree with alternating round and square brackets around
// each node.
func (n *Node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

func (n *Node) fmt(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	if n == nil {
		b.WriteString("<nil>")
		return
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	switch n.Kind {
	case NodeNum:
		b.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case NodeVar:
		b.WriteString(n.Name)
	case NodeGroup:
		n.Left.fmt(b, !square)
	case NodePow:
		n.Left.fmt(b, !square)
		b.WriteString(" ** ")
		n.Right.fmt(b, !square)
	case NodeCall:
		b.WriteString(n.Name)
		b.WriteByte(l)
		for i, a := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.fmt(b, !square)
		}
		b.WriteByte(r)
	case NodeAssign:
		b.WriteString(n.Name)
		b.WriteString(" = ")
		n.Left.fmt(b, !square)
	case NodeBinary:
		n.Left.fmt(b, !square)
		b.WriteString(" " + n.Op + " ")
		n.Right.fmt(b, !square)
	default:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		b.WriteString(n.Kind.String())
		b.WriteByte('$')
	}
}

// Vars returns the variable names the tree reads, in order of first use.
// Names that are only assigned are not included.
func (n *Node) Vars() []string {
	var names []string
	seen := make(map[string]bool)
	n.walk(func(m *Node) {
		if m.Kind == NodeVar && !seen[m.Name] {
			seen[m.Name] = true
			names = append(names, m.Name)
		}
	})
	return names
}

// walk calls f on each node in evaluation order.
func (n *Node) walk(f func(*Node)) {
	if n == nil {
		return
	}
	n.Left.walk(f)
	for _, a := range n.Args {
		a.walk(f)
	}
	n.Right.walk(f)
	f(n)
}
