package glexpr

import (
	"fmt"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glexpr/glbuild"
)

func vecLiteral(s Shape, comps ...float32) glbuild.Node {
	return glbuild.Literal{Text: string(glbuild.AppendVecLiteral(nil, s.String(), comps...))}
}

func matLiteral(s Shape, rowMajor []float32) glbuild.Node {
	dim := s.Column().Arity()
	return glbuild.Literal{Text: string(glbuild.AppendMatLiteral(nil, s.String(), dim, rowMajor))}
}

// Lit returns a float literal. Integral values are written with a decimal separator, i.e: 2 as 2.0.
func Lit(v float32) Float { return Float{vecLiteral(ShapeFloat, v)} }

// LitVec2 returns a vec2 literal.
func LitVec2(x, y float32) Vec2 { return Vec2{vecLiteral(ShapeVec2, x, y)} }

// LitVec3 returns a vec3 literal.
func LitVec3(x, y, z float32) Vec3 { return Vec3{vecLiteral(ShapeVec3, x, y, z)} }

// LitVec4 returns a vec4 literal.
func LitVec4(x, y, z, w float32) Vec4 { return Vec4{vecLiteral(ShapeVec4, x, y, z, w)} }

// Vec2From returns a vec2 literal of v.
func Vec2From(v ms2.Vec) Vec2 { return LitVec2(v.X, v.Y) }

// Vec3From returns a vec3 literal of v.
func Vec3From(v ms3.Vec) Vec3 { return LitVec3(v.X, v.Y, v.Z) }

// Vec4From returns a vec4 literal of v extended with w, i.e: a homogeneous coordinate.
func Vec4From(v ms3.Vec, w float32) Vec4 { return LitVec4(v.X, v.Y, v.Z, w) }

// Mat2From returns a mat2 literal of m.
func Mat2From(m ms2.Mat2) Mat2 {
	arr := m.Array()
	return Mat2{matLiteral(ShapeMat2, arr[:])}
}

// Mat3From returns a mat3 literal of m.
func Mat3From(m ms3.Mat3) Mat3 {
	arr := m.Array()
	return Mat3{matLiteral(ShapeMat3, arr[:])}
}

// Mat4From returns a mat4 literal of m, such as a camera projection matrix.
func Mat4From(m ms3.Mat4) Mat4 {
	arr := m.Array()
	return Mat4{matLiteral(ShapeMat4, arr[:])}
}

// Literal returns a literal of shape T from its components. Matrix components
// are given in row-major order. len(comps) must equal T's arity.
func Literal[T Value](comps ...float32) (T, error) {
	s := ShapeOf[T]()
	if len(comps) != s.Arity() {
		var z T
		return z, fmt.Errorf("%w: %s literal needs %d components, got %d", ErrShapeMismatch, s, s.Arity(), len(comps))
	}
	if s.IsMatrix() {
		return wrap[T](matLiteral(s, comps)), nil
	}
	return wrap[T](vecLiteral(s, comps...)), nil
}

// NewLiteral is the non-generic form of [Literal].
func NewLiteral(s Shape, comps ...float32) (Expr, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: invalid shape %d", ErrShapeMismatch, s)
	} else if len(comps) != s.Arity() {
		return nil, fmt.Errorf("%w: %s literal needs %d components, got %d", ErrShapeMismatch, s, s.Arity(), len(comps))
	}
	if s.IsMatrix() {
		return newExpr(s, matLiteral(s, comps)), nil
	}
	return newExpr(s, vecLiteral(s, comps...)), nil
}
