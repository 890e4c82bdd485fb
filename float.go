package glexpr

import "github.com/soypat/glexpr/glbuild"

// Float is a typed scalar expression.
type Float struct{ node glbuild.Node }

// Shape implements [Expr]. Always returns [ShapeFloat].
func (Float) Shape() Shape { return ShapeFloat }

// Node implements [Expr].
func (a Float) Node() glbuild.Node { return a.node }

// Combine starts a [Combiner] with a's single component followed by b's components.
func (a Float) Combine(b Expr) Combiner { return Combine(a, b) }

func (a Float) Add(b Float) Float  { return Float{build(OpAdd, a, b)} }
func (a Float) Sub(b Float) Float  { return Float{build(OpSub, a, b)} }
func (a Float) Mult(b Float) Float { return Float{build(OpMult, a, b)} }
func (a Float) Div(b Float) Float  { return Float{build(OpDiv, a, b)} }
func (a Float) Mod(b Float) Float  { return Float{build(OpMod, a, b)} }
func (a Float) Neg() Float         { return Float{build(OpNeg, a)} }
func (a Float) Pow(b Float) Float  { return Float{build(OpPow, a, b)} }

// PowN raises a to a literal exponent.
func (a Float) PowN(exp float32) Float { return Float{build(OpPow, a, Float{splat(ShapeFloat, exp)})} }

func (a Float) Min(b Float) Float             { return Float{build(OpMin, a, b)} }
func (a Float) Max(b Float) Float             { return Float{build(OpMax, a, b)} }
func (a Float) Clamp(lo, hi Float) Float      { return Float{build(OpClamp, a, lo, hi)} }
func (a Float) Mix(b, t Float) Float          { return Float{build(OpMix, a, b, t)} }
func (a Float) Step(edge Float) Float         { return Float{build(OpStep, a, edge)} }
func (a Float) Smoothstep(e0, e1 Float) Float { return Float{build(OpSmoothstep, a, e0, e1)} }
func (a Float) Scale(f Float) Float           { return Float{build(OpScale, a, f)} }

func (a Float) Sin() Float   { return Float{build(OpSin, a)} }
func (a Float) Cos() Float   { return Float{build(OpCos, a)} }
func (a Float) Tan() Float   { return Float{build(OpTan, a)} }
func (a Float) Exp() Float   { return Float{build(OpExp, a)} }
func (a Float) Log() Float   { return Float{build(OpLog, a)} }
func (a Float) Sqrt() Float  { return Float{build(OpSqrt, a)} }
func (a Float) Abs() Float   { return Float{build(OpAbs, a)} }
func (a Float) Floor() Float { return Float{build(OpFloor, a)} }
func (a Float) Fract() Float { return Float{build(OpFract, a)} }
