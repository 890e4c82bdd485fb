package glexpr

import "github.com/soypat/glexpr/glbuild"

// Vec2, Vec3 and Vec4 are typed vector expressions. Geometric operations
// such as Dot, Length and Reflect only exist on vectors, Cross only on Vec3.
type (
	Vec2 struct{ node glbuild.Node }
	Vec3 struct{ node glbuild.Node }
	Vec4 struct{ node glbuild.Node }
)

// Shape implements [Expr]. Always returns [ShapeVec2].
func (Vec2) Shape() Shape { return ShapeVec2 }

// Node implements [Expr].
func (a Vec2) Node() glbuild.Node { return a.node }

// Combine starts a [Combiner] with a's components followed by b's components.
func (a Vec2) Combine(b Expr) Combiner { return Combine(a, b) }

func (a Vec2) Add(b Vec2) Vec2  { return Vec2{build(OpAdd, a, b)} }
func (a Vec2) Sub(b Vec2) Vec2  { return Vec2{build(OpSub, a, b)} }
func (a Vec2) Mult(b Vec2) Vec2 { return Vec2{build(OpMult, a, b)} }
func (a Vec2) Div(b Vec2) Vec2  { return Vec2{build(OpDiv, a, b)} }
func (a Vec2) Mod(b Vec2) Vec2  { return Vec2{build(OpMod, a, b)} }
func (a Vec2) Neg() Vec2        { return Vec2{build(OpNeg, a)} }
func (a Vec2) Pow(b Vec2) Vec2  { return Vec2{build(OpPow, a, b)} }

// PowN raises each component of a to a literal exponent.
func (a Vec2) PowN(exp float32) Vec2 { return Vec2{build(OpPow, a, Vec2{splat(ShapeVec2, exp)})} }

func (a Vec2) Min(b Vec2) Vec2             { return Vec2{build(OpMin, a, b)} }
func (a Vec2) Max(b Vec2) Vec2             { return Vec2{build(OpMax, a, b)} }
func (a Vec2) Clamp(lo, hi Vec2) Vec2      { return Vec2{build(OpClamp, a, lo, hi)} }
func (a Vec2) Mix(b Vec2, t Float) Vec2    { return Vec2{build(OpMix, a, b, t)} }
func (a Vec2) Step(edge Vec2) Vec2         { return Vec2{build(OpStep, a, edge)} }
func (a Vec2) Smoothstep(e0, e1 Vec2) Vec2 { return Vec2{build(OpSmoothstep, a, e0, e1)} }

// Scale multiplies every component of a by f.
func (a Vec2) Scale(f Float) Vec2 { return Vec2{build(OpScale, a, f)} }

func (a Vec2) Dot(b Vec2) Float      { return Float{build(OpDot, a, b)} }
func (a Vec2) Length() Float         { return Float{build(OpLength, a)} }
func (a Vec2) Distance(b Vec2) Float { return Float{build(OpDistance, a, b)} }
func (a Vec2) Normalize() Vec2       { return Vec2{build(OpNormalize, a)} }

// Faceforward returns a if dot(nref, incident) < 0, otherwise -a.
func (a Vec2) Faceforward(incident, nref Vec2) Vec2 {
	return Vec2{build(OpFaceforward, a, incident, nref)}
}

// Reflect returns the reflection direction of incident vector a about the surface normal n.
func (a Vec2) Reflect(n Vec2) Vec2 { return Vec2{build(OpReflect, a, n)} }

// Refract returns the refraction vector of incident vector a through a surface with normal n
// and ratio of indices of refraction eta.
func (a Vec2) Refract(n Vec2, eta Float) Vec2 { return Vec2{build(OpRefract, a, n, eta)} }

func (a Vec2) Sin() Vec2   { return Vec2{build(OpSin, a)} }
func (a Vec2) Cos() Vec2   { return Vec2{build(OpCos, a)} }
func (a Vec2) Tan() Vec2   { return Vec2{build(OpTan, a)} }
func (a Vec2) Exp() Vec2   { return Vec2{build(OpExp, a)} }
func (a Vec2) Log() Vec2   { return Vec2{build(OpLog, a)} }
func (a Vec2) Sqrt() Vec2  { return Vec2{build(OpSqrt, a)} }
func (a Vec2) Abs() Vec2   { return Vec2{build(OpAbs, a)} }
func (a Vec2) Floor() Vec2 { return Vec2{build(OpFloor, a)} }
func (a Vec2) Fract() Vec2 { return Vec2{build(OpFract, a)} }

// Shape implements [Expr]. Always returns [ShapeVec3].
func (Vec3) Shape() Shape { return ShapeVec3 }

// Node implements [Expr].
func (a Vec3) Node() glbuild.Node { return a.node }

// Combine starts a [Combiner] with a's components followed by b's components.
func (a Vec3) Combine(b Expr) Combiner { return Combine(a, b) }

func (a Vec3) Add(b Vec3) Vec3  { return Vec3{build(OpAdd, a, b)} }
func (a Vec3) Sub(b Vec3) Vec3  { return Vec3{build(OpSub, a, b)} }
func (a Vec3) Mult(b Vec3) Vec3 { return Vec3{build(OpMult, a, b)} }
func (a Vec3) Div(b Vec3) Vec3  { return Vec3{build(OpDiv, a, b)} }
func (a Vec3) Mod(b Vec3) Vec3  { return Vec3{build(OpMod, a, b)} }
func (a Vec3) Neg() Vec3        { return Vec3{build(OpNeg, a)} }
func (a Vec3) Pow(b Vec3) Vec3  { return Vec3{build(OpPow, a, b)} }

// PowN raises each component of a to a literal exponent.
func (a Vec3) PowN(exp float32) Vec3 { return Vec3{build(OpPow, a, Vec3{splat(ShapeVec3, exp)})} }

func (a Vec3) Min(b Vec3) Vec3             { return Vec3{build(OpMin, a, b)} }
func (a Vec3) Max(b Vec3) Vec3             { return Vec3{build(OpMax, a, b)} }
func (a Vec3) Clamp(lo, hi Vec3) Vec3      { return Vec3{build(OpClamp, a, lo, hi)} }
func (a Vec3) Mix(b Vec3, t Float) Vec3    { return Vec3{build(OpMix, a, b, t)} }
func (a Vec3) Step(edge Vec3) Vec3         { return Vec3{build(OpStep, a, edge)} }
func (a Vec3) Smoothstep(e0, e1 Vec3) Vec3 { return Vec3{build(OpSmoothstep, a, e0, e1)} }

// Scale multiplies every component of a by f.
func (a Vec3) Scale(f Float) Vec3 { return Vec3{build(OpScale, a, f)} }

func (a Vec3) Dot(b Vec3) Float      { return Float{build(OpDot, a, b)} }
func (a Vec3) Length() Float         { return Float{build(OpLength, a)} }
func (a Vec3) Distance(b Vec3) Float { return Float{build(OpDistance, a, b)} }
func (a Vec3) Normalize() Vec3       { return Vec3{build(OpNormalize, a)} }

// Faceforward returns a if dot(nref, incident) < 0, otherwise -a.
func (a Vec3) Faceforward(incident, nref Vec3) Vec3 {
	return Vec3{build(OpFaceforward, a, incident, nref)}
}

// Reflect returns the reflection direction of incident vector a about the surface normal n.
func (a Vec3) Reflect(n Vec3) Vec3 { return Vec3{build(OpReflect, a, n)} }

// Refract returns the refraction vector of incident vector a through a surface with normal n
// and ratio of indices of refraction eta.
func (a Vec3) Refract(n Vec3, eta Float) Vec3 { return Vec3{build(OpRefract, a, n, eta)} }

func (a Vec3) Sin() Vec3   { return Vec3{build(OpSin, a)} }
func (a Vec3) Cos() Vec3   { return Vec3{build(OpCos, a)} }
func (a Vec3) Tan() Vec3   { return Vec3{build(OpTan, a)} }
func (a Vec3) Exp() Vec3   { return Vec3{build(OpExp, a)} }
func (a Vec3) Log() Vec3   { return Vec3{build(OpLog, a)} }
func (a Vec3) Sqrt() Vec3  { return Vec3{build(OpSqrt, a)} }
func (a Vec3) Abs() Vec3   { return Vec3{build(OpAbs, a)} }
func (a Vec3) Floor() Vec3 { return Vec3{build(OpFloor, a)} }
func (a Vec3) Fract() Vec3 { return Vec3{build(OpFract, a)} }

// Cross returns the cross product a×b.
func (a Vec3) Cross(b Vec3) Vec3 { return Vec3{build(OpCross, a, b)} }

// Shape implements [Expr]. Always returns [ShapeVec4].
func (Vec4) Shape() Shape { return ShapeVec4 }

// Node implements [Expr].
func (a Vec4) Node() glbuild.Node { return a.node }

// Combine starts a [Combiner] with a's components followed by b's components.
func (a Vec4) Combine(b Expr) Combiner { return Combine(a, b) }

func (a Vec4) Add(b Vec4) Vec4  { return Vec4{build(OpAdd, a, b)} }
func (a Vec4) Sub(b Vec4) Vec4  { return Vec4{build(OpSub, a, b)} }
func (a Vec4) Mult(b Vec4) Vec4 { return Vec4{build(OpMult, a, b)} }
func (a Vec4) Div(b Vec4) Vec4  { return Vec4{build(OpDiv, a, b)} }
func (a Vec4) Mod(b Vec4) Vec4  { return Vec4{build(OpMod, a, b)} }
func (a Vec4) Neg() Vec4        { return Vec4{build(OpNeg, a)} }
func (a Vec4) Pow(b Vec4) Vec4  { return Vec4{build(OpPow, a, b)} }

// PowN raises each component of a to a literal exponent.
func (a Vec4) PowN(exp float32) Vec4 { return Vec4{build(OpPow, a, Vec4{splat(ShapeVec4, exp)})} }

func (a Vec4) Min(b Vec4) Vec4             { return Vec4{build(OpMin, a, b)} }
func (a Vec4) Max(b Vec4) Vec4             { return Vec4{build(OpMax, a, b)} }
func (a Vec4) Clamp(lo, hi Vec4) Vec4      { return Vec4{build(OpClamp, a, lo, hi)} }
func (a Vec4) Mix(b Vec4, t Float) Vec4    { return Vec4{build(OpMix, a, b, t)} }
func (a Vec4) Step(edge Vec4) Vec4         { return Vec4{build(OpStep, a, edge)} }
func (a Vec4) Smoothstep(e0, e1 Vec4) Vec4 { return Vec4{build(OpSmoothstep, a, e0, e1)} }

// Scale multiplies every component of a by f.
func (a Vec4) Scale(f Float) Vec4 { return Vec4{build(OpScale, a, f)} }

func (a Vec4) Dot(b Vec4) Float      { return Float{build(OpDot, a, b)} }
func (a Vec4) Length() Float         { return Float{build(OpLength, a)} }
func (a Vec4) Distance(b Vec4) Float { return Float{build(OpDistance, a, b)} }
func (a Vec4) Normalize() Vec4       { return Vec4{build(OpNormalize, a)} }

// Faceforward returns a if dot(nref, incident) < 0, otherwise -a.
func (a Vec4) Faceforward(incident, nref Vec4) Vec4 {
	return Vec4{build(OpFaceforward, a, incident, nref)}
}

// Reflect returns the reflection direction of incident vector a about the surface normal n.
func (a Vec4) Reflect(n Vec4) Vec4 { return Vec4{build(OpReflect, a, n)} }

// Refract returns the refraction vector of incident vector a through a surface with normal n
// and ratio of indices of refraction eta.
func (a Vec4) Refract(n Vec4, eta Float) Vec4 { return Vec4{build(OpRefract, a, n, eta)} }

func (a Vec4) Sin() Vec4   { return Vec4{build(OpSin, a)} }
func (a Vec4) Cos() Vec4   { return Vec4{build(OpCos, a)} }
func (a Vec4) Tan() Vec4   { return Vec4{build(OpTan, a)} }
func (a Vec4) Exp() Vec4   { return Vec4{build(OpExp, a)} }
func (a Vec4) Log() Vec4   { return Vec4{build(OpLog, a)} }
func (a Vec4) Sqrt() Vec4  { return Vec4{build(OpSqrt, a)} }
func (a Vec4) Abs() Vec4   { return Vec4{build(OpAbs, a)} }
func (a Vec4) Floor() Vec4 { return Vec4{build(OpFloor, a)} }
func (a Vec4) Fract() Vec4 { return Vec4{build(OpFract, a)} }
