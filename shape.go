package glexpr

import (
	"fmt"
	"strconv"
)

// Shape is one of the seven numeric value kinds a shader expression can have.
type Shape uint8

const (
	ShapeFloat Shape = iota
	ShapeVec2
	ShapeVec3
	ShapeVec4
	ShapeMat2
	ShapeMat3
	ShapeMat4
	numShapes
)

var shapeNames = [numShapes]string{
	ShapeFloat: "float",
	ShapeVec2:  "vec2",
	ShapeVec3:  "vec3",
	ShapeVec4:  "vec4",
	ShapeMat2:  "mat2",
	ShapeMat3:  "mat3",
	ShapeMat4:  "mat4",
}

// Component count of each shape, also called the shape's blueprint.
var shapeArity = [numShapes]int{
	ShapeFloat: 1,
	ShapeVec2:  2,
	ShapeVec3:  3,
	ShapeVec4:  4,
	ShapeMat2:  4,
	ShapeMat3:  9,
	ShapeMat4:  16,
}

// Shapes returns all shapes in declaration order.
func Shapes() []Shape {
	return []Shape{ShapeFloat, ShapeVec2, ShapeVec3, ShapeVec4, ShapeMat2, ShapeMat3, ShapeMat4}
}

// IsValid reports whether s is one of the seven defined shapes.
func (s Shape) IsValid() bool { return s < numShapes }

// Arity returns the number of scalar components of the shape. It is the only
// compatibility key used when reinterpreting components with a [Combiner].
func (s Shape) Arity() int {
	if !s.IsValid() {
		return 0
	}
	return shapeArity[s]
}

// String returns the GLSL type name of the shape.
func (s Shape) String() string {
	if !s.IsValid() {
		return "Shape(" + strconv.Itoa(int(s)) + ")"
	}
	return shapeNames[s]
}

// IsVector reports whether s is vec2, vec3 or vec4.
func (s Shape) IsVector() bool { return s >= ShapeVec2 && s <= ShapeVec4 }

// IsMatrix reports whether s is mat2, mat3 or mat4.
func (s Shape) IsMatrix() bool { return s >= ShapeMat2 && s <= ShapeMat4 }

// Column returns the vector shape of a matrix column, i.e: vec3 for mat3.
// Non-matrix shapes return themselves.
func (s Shape) Column() Shape {
	if !s.IsMatrix() {
		return s
	}
	return s - ShapeMat2 + ShapeVec2
}

// ParseShape returns the shape with GLSL type name name.
func ParseShape(name string) (Shape, error) {
	for s, n := range shapeNames {
		if n == name {
			return Shape(s), nil
		}
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

// MarshalText implements [encoding.TextMarshaler].
func (s Shape) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid shape %d", s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Shape) UnmarshalText(b []byte) (err error) {
	*s, err = ParseShape(string(b))
	return err
}

// shapeSet is a bitset of shapes.
type shapeSet uint8

const (
	setAll     shapeSet = 1<<numShapes - 1
	setVectors shapeSet = 1<<ShapeVec2 | 1<<ShapeVec3 | 1<<ShapeVec4
	setMats    shapeSet = 1<<ShapeMat2 | 1<<ShapeMat3 | 1<<ShapeMat4
	setGen     shapeSet = 1<<ShapeFloat | setVectors
	setVec3    shapeSet = 1 << ShapeVec3
)

func (set shapeSet) has(s Shape) bool { return s.IsValid() && set&(1<<s) != 0 }
