package glexpr

import "github.com/soypat/glexpr/glbuild"

// Mat2, Mat3 and Mat4 are typed square matrix expressions. Mult is the
// linear algebraic product, MatrixCompMult the component-wise product.
type (
	Mat2 struct{ node glbuild.Node }
	Mat3 struct{ node glbuild.Node }
	Mat4 struct{ node glbuild.Node }
)

// Shape implements [Expr]. Always returns [ShapeMat2].
func (Mat2) Shape() Shape { return ShapeMat2 }

// Node implements [Expr].
func (a Mat2) Node() glbuild.Node { return a.node }

// Combine starts a [Combiner] with a's components followed by b's components.
func (a Mat2) Combine(b Expr) Combiner { return Combine(a, b) }

func (a Mat2) Add(b Mat2) Mat2  { return Mat2{build(OpAdd, a, b)} }
func (a Mat2) Sub(b Mat2) Mat2  { return Mat2{build(OpSub, a, b)} }
func (a Mat2) Mult(b Mat2) Mat2 { return Mat2{build(OpMult, a, b)} }
func (a Mat2) Div(b Mat2) Mat2  { return Mat2{build(OpDiv, a, b)} }
func (a Mat2) Mod(b Mat2) Mat2  { return Mat2{build(OpMod, a, b)} }
func (a Mat2) Neg() Mat2        { return Mat2{build(OpNeg, a)} }
func (a Mat2) Pow(b Mat2) Mat2  { return Mat2{build(OpPow, a, b)} }

func (a Mat2) PowN(exp float32) Mat2 { return Mat2{build(OpPow, a, Mat2{splat(ShapeMat2, exp)})} }

func (a Mat2) Min(b Mat2) Mat2             { return Mat2{build(OpMin, a, b)} }
func (a Mat2) Max(b Mat2) Mat2             { return Mat2{build(OpMax, a, b)} }
func (a Mat2) Clamp(lo, hi Mat2) Mat2      { return Mat2{build(OpClamp, a, lo, hi)} }
func (a Mat2) Mix(b Mat2, t Float) Mat2    { return Mat2{build(OpMix, a, b, t)} }
func (a Mat2) Step(edge Mat2) Mat2         { return Mat2{build(OpStep, a, edge)} }
func (a Mat2) Smoothstep(e0, e1 Mat2) Mat2 { return Mat2{build(OpSmoothstep, a, e0, e1)} }
func (a Mat2) Scale(f Float) Mat2          { return Mat2{build(OpScale, a, f)} }

// MatrixCompMult multiplies a and b component by component.
func (a Mat2) MatrixCompMult(b Mat2) Mat2 { return Mat2{build(OpMatrixCompMult, a, b)} }

// Transform returns the column vector a*v.
func (a Mat2) Transform(v Vec2) Vec2 { return Vec2{build(OpTransform, a, v)} }

// Shape implements [Expr]. Always returns [ShapeMat3].
func (Mat3) Shape() Shape { return ShapeMat3 }

// Node implements [Expr].
func (a Mat3) Node() glbuild.Node { return a.node }

// Combine starts a [Combiner] with a's components followed by b's components.
func (a Mat3) Combine(b Expr) Combiner { return Combine(a, b) }

func (a Mat3) Add(b Mat3) Mat3  { return Mat3{build(OpAdd, a, b)} }
func (a Mat3) Sub(b Mat3) Mat3  { return Mat3{build(OpSub, a, b)} }
func (a Mat3) Mult(b Mat3) Mat3 { return Mat3{build(OpMult, a, b)} }
func (a Mat3) Div(b Mat3) Mat3  { return Mat3{build(OpDiv, a, b)} }
func (a Mat3) Mod(b Mat3) Mat3  { return Mat3{build(OpMod, a, b)} }
func (a Mat3) Neg() Mat3        { return Mat3{build(OpNeg, a)} }
func (a Mat3) Pow(b Mat3) Mat3  { return Mat3{build(OpPow, a, b)} }

func (a Mat3) PowN(exp float32) Mat3 { return Mat3{build(OpPow, a, Mat3{splat(ShapeMat3, exp)})} }

func (a Mat3) Min(b Mat3) Mat3             { return Mat3{build(OpMin, a, b)} }
func (a Mat3) Max(b Mat3) Mat3             { return Mat3{build(OpMax, a, b)} }
func (a Mat3) Clamp(lo, hi Mat3) Mat3      { return Mat3{build(OpClamp, a, lo, hi)} }
func (a Mat3) Mix(b Mat3, t Float) Mat3    { return Mat3{build(OpMix, a, b, t)} }
func (a Mat3) Step(edge Mat3) Mat3         { return Mat3{build(OpStep, a, edge)} }
func (a Mat3) Smoothstep(e0, e1 Mat3) Mat3 { return Mat3{build(OpSmoothstep, a, e0, e1)} }
func (a Mat3) Scale(f Float) Mat3          { return Mat3{build(OpScale, a, f)} }

// MatrixCompMult multiplies a and b component by component.
func (a Mat3) MatrixCompMult(b Mat3) Mat3 { return Mat3{build(OpMatrixCompMult, a, b)} }

// Transform returns the column vector a*v.
func (a Mat3) Transform(v Vec3) Vec3 { return Vec3{build(OpTransform, a, v)} }

// Shape implements [Expr]. Always returns [ShapeMat4].
func (Mat4) Shape() Shape { return ShapeMat4 }

// Node implements [Expr].
func (a Mat4) Node() glbuild.Node { return a.node }

// Combine starts a [Combiner] with a's components followed by b's components.
func (a Mat4) Combine(b Expr) Combiner { return Combine(a, b) }

func (a Mat4) Add(b Mat4) Mat4  { return Mat4{build(OpAdd, a, b)} }
func (a Mat4) Sub(b Mat4) Mat4  { return Mat4{build(OpSub, a, b)} }
func (a Mat4) Mult(b Mat4) Mat4 { return Mat4{build(OpMult, a, b)} }
func (a Mat4) Div(b Mat4) Mat4  { return Mat4{build(OpDiv, a, b)} }
func (a Mat4) Mod(b Mat4) Mat4  { return Mat4{build(OpMod, a, b)} }
func (a Mat4) Neg() Mat4        { return Mat4{build(OpNeg, a)} }
func (a Mat4) Pow(b Mat4) Mat4  { return Mat4{build(OpPow, a, b)} }

func (a Mat4) PowN(exp float32) Mat4 { return Mat4{build(OpPow, a, Mat4{splat(ShapeMat4, exp)})} }

func (a Mat4) Min(b Mat4) Mat4             { return Mat4{build(OpMin, a, b)} }
func (a Mat4) Max(b Mat4) Mat4             { return Mat4{build(OpMax, a, b)} }
func (a Mat4) Clamp(lo, hi Mat4) Mat4      { return Mat4{build(OpClamp, a, lo, hi)} }
func (a Mat4) Mix(b Mat4, t Float) Mat4    { return Mat4{build(OpMix, a, b, t)} }
func (a Mat4) Step(edge Mat4) Mat4         { return Mat4{build(OpStep, a, edge)} }
func (a Mat4) Smoothstep(e0, e1 Mat4) Mat4 { return Mat4{build(OpSmoothstep, a, e0, e1)} }
func (a Mat4) Scale(f Float) Mat4          { return Mat4{build(OpScale, a, f)} }

// MatrixCompMult multiplies a and b component by component.
func (a Mat4) MatrixCompMult(b Mat4) Mat4 { return Mat4{build(OpMatrixCompMult, a, b)} }

// Transform returns the column vector a*v.
func (a Mat4) Transform(v Vec4) Vec4 { return Vec4{build(OpTransform, a, v)} }
