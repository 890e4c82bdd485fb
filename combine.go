package glexpr

import (
	"fmt"
	"slices"

	"github.com/soypat/glexpr/glbuild"
)

// Combiner accumulates the components of expressions of any shape to reinterpret
// them as a single shape with a matching arity, the way GLSL constructors accept
// any component breakdown: vec4(vec2, float, float) and vec4(vec3, float) are both valid.
//
// The arity check is deferred to the terminating As call. Combiner is a value type:
// Combine returns a new Combiner and leaves the receiver unchanged.
type Combiner struct {
	arity int
	parts []glbuild.Node
}

// Combine starts a Combiner with the components of exprs in order.
func Combine(exprs ...Expr) Combiner {
	var c Combiner
	for _, e := range exprs {
		c = c.Combine(e)
	}
	return c
}

// Combine returns a Combiner with e's components appended.
func (c Combiner) Combine(e Expr) Combiner {
	if e == nil {
		panic("glexpr: nil expression in Combine")
	}
	return Combiner{
		arity: c.arity + e.Shape().Arity(),
		parts: append(slices.Clip(c.parts), e.Node()),
	}
}

// Arity returns the number of accumulated components.
func (c Combiner) Arity() int { return c.arity }

// Code returns the accumulated subexpressions as comma separated GLSL text.
func (c Combiner) Code() string {
	var b []byte
	for i, p := range c.parts {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = glbuild.AppendNode(b, p)
	}
	return string(b)
}

// As reifies the accumulated components as an expression of shape s.
// It fails with [ErrShapeMismatch] if the accumulated arity differs from s's arity.
func (c Combiner) As(s Shape) (Expr, error) {
	node, err := c.node(s)
	if err != nil {
		return nil, err
	}
	return newExpr(s, node), nil
}

func (c Combiner) node(s Shape) (glbuild.Node, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: invalid target shape %d", ErrShapeMismatch, s)
	} else if c.arity != s.Arity() {
		return nil, fmt.Errorf("%w: %d components can not be combined as %s which has %d", ErrShapeMismatch, c.arity, s, s.Arity())
	}
	return glbuild.Call{Func: s.String(), Args: slices.Clone(c.parts)}, nil
}

// CombineAs reifies the accumulated components of c as an expression of shape T. See [Combiner.As].
func CombineAs[T Value](c Combiner) (T, error) {
	node, err := c.node(ShapeOf[T]())
	if err != nil {
		var z T
		return z, err
	}
	return wrap[T](node), nil
}

func (c Combiner) AsFloat() (Float, error) { return CombineAs[Float](c) }
func (c Combiner) AsVec2() (Vec2, error)   { return CombineAs[Vec2](c) }
func (c Combiner) AsVec3() (Vec3, error)   { return CombineAs[Vec3](c) }
func (c Combiner) AsVec4() (Vec4, error)   { return CombineAs[Vec4](c) }
func (c Combiner) AsMat2() (Mat2, error)   { return CombineAs[Mat2](c) }
func (c Combiner) AsMat3() (Mat3, error)   { return CombineAs[Mat3](c) }
func (c Combiner) AsMat4() (Mat4, error)   { return CombineAs[Mat4](c) }
