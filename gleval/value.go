package gleval

import (
	"fmt"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glexpr"
	"github.com/soypat/glexpr/glbuild"
)

// Value is a numeric value of a shader shape evaluated on the CPU.
// Matrix components are stored in column-major order as in GLSL.
type Value struct {
	Shape glexpr.Shape
	c     [16]float32
}

// NewValue returns a value of shape s with components comps. Matrix components
// are in column-major order, the order of arguments of a GLSL matrix constructor.
func NewValue(s glexpr.Shape, comps ...float32) (Value, error) {
	if !s.IsValid() {
		return Value{}, fmt.Errorf("invalid shape %d", s)
	} else if len(comps) != s.Arity() {
		return Value{}, fmt.Errorf("%w: %s needs %d components, got %d", glexpr.ErrShapeMismatch, s, s.Arity(), len(comps))
	}
	v := Value{Shape: s}
	copy(v.c[:], comps)
	return v, nil
}

func FloatValue(f float32) Value { return Value{Shape: glexpr.ShapeFloat, c: [16]float32{f}} }

func Vec2Value(v ms2.Vec) Value { return Value{Shape: glexpr.ShapeVec2, c: [16]float32{v.X, v.Y}} }

func Vec3Value(v ms3.Vec) Value { return Value{Shape: glexpr.ShapeVec3, c: [16]float32{v.X, v.Y, v.Z}} }

func Vec4Value(x, y, z, w float32) Value {
	return Value{Shape: glexpr.ShapeVec4, c: [16]float32{x, y, z, w}}
}

func Mat2Value(m ms2.Mat2) Value {
	arr := m.Array()
	return matValue(glexpr.ShapeMat2, arr[:])
}

func Mat3Value(m ms3.Mat3) Value {
	arr := m.Array()
	return matValue(glexpr.ShapeMat3, arr[:])
}

// Mat4Value returns the value of m, such as a camera view or projection matrix.
func Mat4Value(m ms3.Mat4) Value {
	arr := m.Array()
	return matValue(glexpr.ShapeMat4, arr[:])
}

// matValue transposes a row-major array into column-major storage.
func matValue(s glexpr.Shape, rowMajor []float32) Value {
	n := s.Column().Arity()
	v := Value{Shape: s}
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			v.c[col*n+row] = rowMajor[row*n+col]
		}
	}
	return v
}

// Comps returns the components of v. Matrices are in column-major order.
func (v Value) Comps() []float32 { return v.c[:v.Shape.Arity()] }

// At returns the i'th component of v.
func (v Value) At(i int) float32 { return v.c[i] }

func (v Value) Float() float32 { return v.c[0] }
func (v Value) Vec2() ms2.Vec  { return ms2.Vec{X: v.c[0], Y: v.c[1]} }
func (v Value) Vec3() ms3.Vec  { return ms3.Vec{X: v.c[0], Y: v.c[1], Z: v.c[2]} }

// String returns v formatted as a GLSL literal.
func (v Value) String() string {
	return string(glbuild.AppendVecLiteral(nil, v.Shape.String(), v.Comps()...))
}
