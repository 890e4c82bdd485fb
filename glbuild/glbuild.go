// Package glbuild contains the shader expression syntax tree and the logic
// that renders it as GLSL source code.
//
// Nodes never know their own shape. Shape checking happens in package glexpr
// before a node is built, so composing nodes here is purely syntactic.
package glbuild

import (
	"bytes"
	"strconv"
)

// Node is a read-only shader expression tree node. Nodes are shared by reference
// between trees and must never be modified after construction.
//
// The set of nodes is closed: [Literal], [Variable], [Call], [Unary] and [Binary].
type Node interface {
	// AppendNode appends the GLSL text of the node to b and returns the result.
	AppendNode(b []byte) []byte
	isNode()
}

// Literal is a numeric literal already formatted for its shape, i.e: "1.0" or "vec2(0.0, 1.0)".
type Literal struct {
	Text string
}

// Variable is a bare identifier reference.
type Variable struct {
	Name string
}

// Call is an n-ary function application such as dot(a, b) or vec3(a, b, c).
type Call struct {
	Func string
	Args []Node
}

// Unary is a prefix operator application such as -x.
type Unary struct {
	Op string
	X  Node
}

// Binary is an infix operator application such as a * b.
type Binary struct {
	Op string
	X  Node
	Y  Node
}

var (
	_ Node = Literal{}
	_ Node = Variable{}
	_ Node = Call{}
	_ Node = Unary{}
	_ Node = Binary{}
)

func (Literal) isNode()  {}
func (Variable) isNode() {}
func (Call) isNode()     {}
func (Unary) isNode()    {}
func (Binary) isNode()   {}

// IsAtomic reports whether n renders as a single token that never needs parentheses.
// Only literals and variables are atomic.
func IsAtomic(n Node) bool {
	switch n.(type) {
	case Literal, *Literal, Variable, *Variable:
		return true
	}
	return false
}

// AppendNode implements [Node].
func (l Literal) AppendNode(b []byte) []byte { return append(b, l.Text...) }

// AppendNode implements [Node].
func (v Variable) AppendNode(b []byte) []byte { return append(b, v.Name...) }

// AppendNode implements [Node].
func (c Call) AppendNode(b []byte) []byte {
	b = append(b, c.Func...)
	b = append(b, '(')
	for i, arg := range c.Args {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = arg.AppendNode(b)
	}
	return append(b, ')')
}

// AppendNode implements [Node]. Non-atomic operands are parenthesized.
func (u Unary) AppendNode(b []byte) []byte {
	b = append(b, u.Op...)
	return appendOperand(b, u.X)
}

// AppendNode implements [Node]. Only the left operand is parenthesized when it is not atomic,
// the right operand is rendered as is. This under-parenthesizes mixed precedence
// right hand sides such as a - (b + c) which renders as a - b + c.
func (bin Binary) AppendNode(b []byte) []byte {
	b = appendOperand(b, bin.X)
	b = append(b, ' ')
	b = append(b, bin.Op...)
	b = append(b, ' ')
	return bin.Y.AppendNode(b)
}

func appendOperand(b []byte, n Node) []byte {
	if IsAtomic(n) {
		return n.AppendNode(b)
	}
	b = append(b, '(')
	b = n.AppendNode(b)
	return append(b, ')')
}

// AppendNode appends the GLSL text of n to b. A nil node is an error in construction and panics.
func AppendNode(b []byte, n Node) []byte {
	if n == nil {
		panic("glbuild: nil node")
	}
	return n.AppendNode(b)
}

// FormatNode returns the GLSL text of n.
func FormatNode(n Node) string {
	return string(AppendNode(nil, n))
}

// Statement declares a new variable of GLSL type Type, initialized with Value:
//
//	<Type> <Name> = <Value>;
type Statement struct {
	Type  string
	Name  string
	Value Node
}

// AppendStatement appends the declaration statement to b.
func AppendStatement(b []byte, st Statement) []byte {
	b = append(b, st.Type...)
	b = append(b, ' ')
	b = append(b, st.Name...)
	b = append(b, " = "...)
	b = AppendNode(b, st.Value)
	return append(b, ';')
}

// AppendStatements appends statements in order separated by newlines. No trailing newline is written.
// Each statement is preceded by indent.
func AppendStatements(b []byte, indent string, stmts []Statement) []byte {
	for i := range stmts {
		if i > 0 {
			b = append(b, '\n')
		}
		b = append(b, indent...)
		b = AppendStatement(b, stmts[i])
	}
	return b
}

// AppendFloat appends the shortest decimal representation of v which reads back as v.
// A decimal separator is always present so the literal is parsed as a
// floating point number by the GL, i.e: 2 is written as 2.0.
func AppendFloat(b []byte, v float32) []byte {
	start := len(b)
	b = strconv.AppendFloat(b, float64(v), 'f', -1, 32)
	if bytes.IndexByte(b[start:], '.') < 0 && isDigits(b[start:]) {
		b = append(b, ".0"...)
	}
	return b
}

// isDigits excludes non-numeric results such as NaN and +Inf from decimal separator appending.
func isDigits(b []byte) bool {
	if len(b) > 0 && b[0] == '-' {
		b = b[1:]
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(b) > 0
}

// AppendFloats appends floats separated by a comma and a space.
func AppendFloats(b []byte, s ...float32) []byte {
	for i, v := range s {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = AppendFloat(b, v)
	}
	return b
}

// FormatFloat returns the GLSL float literal text of v. See [AppendFloat].
func FormatFloat(v float32) string {
	return string(AppendFloat(nil, v))
}

// AppendVecLiteral appends a vector constructor literal of the given type
// name i.e: "vec3(1.0, 2.0, 3.0)". A single component is appended as a bare float.
func AppendVecLiteral(b []byte, typename string, comps ...float32) []byte {
	if len(comps) == 1 && typename == "float" {
		return AppendFloat(b, comps[0])
	}
	b = append(b, typename...)
	b = append(b, '(')
	b = AppendFloats(b, comps...)
	return append(b, ')')
}

// AppendMatLiteral appends a square matrix constructor literal. arr is in row-major
// order and is written in column major order as per the OpenGL standard.
func AppendMatLiteral(b []byte, typename string, dim int, arr []float32) []byte {
	if len(arr) != dim*dim {
		panic("glbuild: matrix literal size mismatch")
	}
	b = append(b, typename...)
	b = append(b, '(')
	for col := 0; col < dim; col++ {
		for row := 0; row < dim; row++ {
			if col != 0 || row != 0 {
				b = append(b, ", "...)
			}
			b = AppendFloat(b, arr[row*dim+col])
		}
	}
	return append(b, ')')
}
