// Package glexpr is a typed shader expression builder. Expressions of the
// seven GLSL numeric shapes (float, vec2..vec4, mat2..mat4) are built through
// methods which only exist on the shapes where the operation is valid, so an
// invalid operation is a compile error in the host program.
//
// Expressions are bound to names in a [Block], an immutable append-only list
// of declarations which renders to GLSL source with package glbuild.
package glexpr

import (
	"errors"
	"fmt"

	"github.com/soypat/glexpr/glbuild"
)

// Errors returned by expression and block construction. They are programmer errors in DSL
// usage and fail identically on retry. Returned errors wrap these; test with [errors.Is].
var (
	// ErrInvalidOperation is returned by [Apply] when an operation is not defined for the receiver
	// shape or its operands. Typed methods make this error unrepresentable.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrShapeMismatch is returned when the component count of a [Combiner] or literal
	// does not match the target shape's arity, or a scope lookup finds a binding of another shape.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrDuplicateBinding is returned when a name is bound twice in a block's scope.
	ErrDuplicateBinding = errors.New("duplicate binding")
	// ErrMissingReturn is returned when a block is finalized without a "returns" binding.
	ErrMissingReturn = errors.New("missing returns binding")
	// ErrUnknownBinding is returned when a scope lookup finds no binding of the given name.
	ErrUnknownBinding = errors.New("unknown binding")
)

// ReturnName is the distinguished binding name holding the result of a block.
const ReturnName = "returns"

// Expr is a typed shader expression of any shape. It is implemented by
// [Float], [Vec2], [Vec3], [Vec4], [Mat2], [Mat3] and [Mat4].
type Expr interface {
	// Shape returns the shape of the expression. It is constant for each type
	// and safe to call on a zero value.
	Shape() Shape
	// Node returns the expression's syntax tree.
	Node() glbuild.Node
}

// Value is the type set of typed expressions, used by generic helpers such as [Aggregate] and [Var].
type Value interface {
	Float | Vec2 | Vec3 | Vec4 | Mat2 | Mat3 | Mat4
	Expr
}

// expr shares its underlying type with all typed expressions so that generic code
// can convert between them and access the node.
type expr struct {
	node glbuild.Node
}

func wrap[T Value](n glbuild.Node) T { return T(expr{node: n}) }

// ShapeOf returns the shape of type T.
func ShapeOf[T Value]() Shape {
	var z T
	return z.Shape()
}

// newExpr returns a typed expression of shape s holding n.
func newExpr(s Shape, n glbuild.Node) Expr {
	switch s {
	case ShapeFloat:
		return Float{node: n}
	case ShapeVec2:
		return Vec2{node: n}
	case ShapeVec3:
		return Vec3{node: n}
	case ShapeVec4:
		return Vec4{node: n}
	case ShapeMat2:
		return Mat2{node: n}
	case ShapeMat3:
		return Mat3{node: n}
	case ShapeMat4:
		return Mat4{node: n}
	}
	panic("glexpr: invalid shape " + s.String())
}

// Format returns the GLSL text of the expression.
func Format(e Expr) string {
	return glbuild.FormatNode(e.Node())
}

// Var returns a named variable reference of shape T.
func Var[T Value](name string) T {
	return wrap[T](glbuild.Variable{Name: name})
}

// NewVar returns a named variable reference of shape s.
func NewVar(name string, s Shape) Expr {
	return newExpr(s, glbuild.Variable{Name: name})
}

// Aggregate left-folds over elems starting with seed, calling fold with the accumulated
// expression, the element and its index. No bindings are created: the result is a
// single expression tree nesting every step.
func Aggregate[T Value, E any](seed T, elems []E, fold func(acc T, elem E, i int) T) T {
	acc := seed
	for i, e := range elems {
		acc = fold(acc, e, i)
	}
	return acc
}

// CallFunction returns a call to a user defined function such as one built with [Block.Function].
// Argument shapes must match the function's parameter types.
func CallFunction(fn glbuild.Function, args ...Expr) (Expr, error) {
	result, err := ParseShape(fn.Return)
	if err != nil {
		return nil, fmt.Errorf("function %q: %w", fn.Name, err)
	} else if len(args) != len(fn.Params) {
		return nil, fmt.Errorf("%w: function %q takes %d arguments, got %d", ErrShapeMismatch, fn.Name, len(fn.Params), len(args))
	}
	nodes := make([]glbuild.Node, len(args))
	for i, arg := range args {
		if arg == nil {
			return nil, fmt.Errorf("function %q: nil argument %d", fn.Name, i)
		} else if arg.Shape().String() != fn.Params[i].Type {
			return nil, fmt.Errorf("%w: function %q parameter %q is %s, got %s", ErrShapeMismatch, fn.Name, fn.Params[i].Name, fn.Params[i].Type, arg.Shape())
		}
		nodes[i] = arg.Node()
	}
	return newExpr(result, glbuild.Call{Func: fn.Name, Args: nodes}), nil
}
