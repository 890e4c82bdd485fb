package glexpr

import (
	"fmt"

	"github.com/soypat/glexpr/glbuild"
)

// Op is an operation of the catalog. Which shapes support an operation and
// the shapes of its operands and result are fixed by a static table, see [Op.Signature].
type Op uint8

const (
	OpAdd Op = iota
	OpSub
	OpMult
	OpDiv
	OpMod
	OpNeg
	OpPow
	OpDot
	OpCross
	OpMin
	OpMax
	OpClamp
	OpMix
	OpStep
	OpSmoothstep
	OpLength
	OpDistance
	OpNormalize
	OpFaceforward
	OpReflect
	OpRefract
	OpMatrixCompMult
	OpSin
	OpCos
	OpTan
	OpExp
	OpLog
	OpSqrt
	OpAbs
	OpFloor
	OpFract
	OpScale
	OpTransform
	numOps
)

// operand describes an operand or result shape relative to the receiver.
type operand uint8

const (
	opndSame   operand = iota // Same shape as receiver.
	opndFloat                 // Always float.
	opndColumn                // Column vector of a matrix receiver.
)

func (o operand) resolve(recv Shape) Shape {
	switch o {
	case opndFloat:
		return ShapeFloat
	case opndColumn:
		return recv.Column()
	}
	return recv
}

// form is the syntax an operation is rendered with.
type form uint8

const (
	formCall         form = iota // fn(recv, args...)
	formCallRecvLast             // fn(args..., recv)
	formInfix                    // recv op arg
	formPrefix                   // op recv
)

type opDef struct {
	name   string
	method string // Name of the method implementing the operation on typed expressions.
	shapes shapeSet
	args   []operand
	result operand
	form   form
	symbol string // GLSL function name or operator symbol.
}

var (
	none    = []operand{}
	same1   = []operand{opndSame}
	same2   = []operand{opndSame, opndSame}
	sameFlt = []operand{opndSame, opndFloat}
)

var catalog = [numOps]opDef{
	OpAdd:            {name: "add", method: "Add", shapes: setAll, args: same1, form: formInfix, symbol: "+"},
	OpSub:            {name: "sub", method: "Sub", shapes: setAll, args: same1, form: formInfix, symbol: "-"},
	OpMult:           {name: "mult", method: "Mult", shapes: setAll, args: same1, form: formInfix, symbol: "*"},
	OpDiv:            {name: "div", method: "Div", shapes: setAll, args: same1, form: formInfix, symbol: "/"},
	OpMod:            {name: "mod", method: "Mod", shapes: setAll, args: same1, symbol: "mod"},
	OpNeg:            {name: "neg", method: "Neg", shapes: setAll, args: none, form: formPrefix, symbol: "-"},
	OpPow:            {name: "pow", method: "Pow", shapes: setAll, args: same1, symbol: "pow"},
	OpDot:            {name: "dot", method: "Dot", shapes: setVectors, args: same1, result: opndFloat, symbol: "dot"},
	OpCross:          {name: "cross", method: "Cross", shapes: setVec3, args: same1, symbol: "cross"},
	OpMin:            {name: "min", method: "Min", shapes: setAll, args: same1, symbol: "min"},
	OpMax:            {name: "max", method: "Max", shapes: setAll, args: same1, symbol: "max"},
	OpClamp:          {name: "clamp", method: "Clamp", shapes: setAll, args: same2, symbol: "clamp"},
	OpMix:            {name: "mix", method: "Mix", shapes: setAll, args: sameFlt, symbol: "mix"},
	OpStep:           {name: "step", method: "Step", shapes: setAll, args: same1, form: formCallRecvLast, symbol: "step"},
	OpSmoothstep:     {name: "smoothstep", method: "Smoothstep", shapes: setAll, args: same2, form: formCallRecvLast, symbol: "smoothstep"},
	OpLength:         {name: "length", method: "Length", shapes: setVectors, args: none, result: opndFloat, symbol: "length"},
	OpDistance:       {name: "distance", method: "Distance", shapes: setVectors, args: same1, result: opndFloat, symbol: "distance"},
	OpNormalize:      {name: "normalize", method: "Normalize", shapes: setVectors, args: none, symbol: "normalize"},
	OpFaceforward:    {name: "faceforward", method: "Faceforward", shapes: setVectors, args: same2, symbol: "faceforward"},
	OpReflect:        {name: "reflect", method: "Reflect", shapes: setVectors, args: same1, symbol: "reflect"},
	OpRefract:        {name: "refract", method: "Refract", shapes: setVectors, args: sameFlt, symbol: "refract"},
	OpMatrixCompMult: {name: "matrixCompMult", method: "MatrixCompMult", shapes: setMats, args: same1, symbol: "matrixCompMult"},
	OpSin:            {name: "sin", method: "Sin", shapes: setGen, args: none, symbol: "sin"},
	OpCos:            {name: "cos", method: "Cos", shapes: setGen, args: none, symbol: "cos"},
	OpTan:            {name: "tan", method: "Tan", shapes: setGen, args: none, symbol: "tan"},
	OpExp:            {name: "exp", method: "Exp", shapes: setGen, args: none, symbol: "exp"},
	OpLog:            {name: "log", method: "Log", shapes: setGen, args: none, symbol: "log"},
	OpSqrt:           {name: "sqrt", method: "Sqrt", shapes: setGen, args: none, symbol: "sqrt"},
	OpAbs:            {name: "abs", method: "Abs", shapes: setGen, args: none, symbol: "abs"},
	OpFloor:          {name: "floor", method: "Floor", shapes: setGen, args: none, symbol: "floor"},
	OpFract:          {name: "fract", method: "Fract", shapes: setGen, args: none, symbol: "fract"},
	OpScale:          {name: "scale", method: "Scale", shapes: setAll, args: []operand{opndFloat}, form: formInfix, symbol: "*"},
	OpTransform:      {name: "transform", method: "Transform", shapes: setMats, args: []operand{opndColumn}, result: opndColumn, form: formInfix, symbol: "*"},
}

// Ops returns all operations of the catalog.
func Ops() []Op {
	ops := make([]Op, numOps)
	for i := range ops {
		ops[i] = Op(i)
	}
	return ops
}

// IsValid reports whether op is in the catalog.
func (op Op) IsValid() bool { return op < numOps }

// String returns the catalog name of the operation, i.e: "matrixCompMult".
func (op Op) String() string {
	if !op.IsValid() {
		return fmt.Sprintf("Op(%d)", op)
	}
	return catalog[op].name
}

// MethodName returns the name of the method implementing op on typed expressions.
func (op Op) MethodName() string {
	if !op.IsValid() {
		return ""
	}
	return catalog[op].method
}

// ParseOp returns the operation with catalog name name.
func ParseOp(name string) (Op, error) {
	for i := range catalog {
		if catalog[i].name == name {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown operation %q", ErrInvalidOperation, name)
}

// Signature describes the operand and result shapes of an operation applied to a receiver.
type Signature struct {
	Op     Op
	Recv   Shape
	Args   []Shape
	Result Shape
}

// Signature returns the operand and result shapes of op with a receiver of shape recv.
// ok is false if op is not allowed on recv.
func (op Op) Signature(recv Shape) (sig Signature, ok bool) {
	if !op.IsValid() || !catalog[op].shapes.has(recv) {
		return Signature{}, false
	}
	def := &catalog[op]
	sig = Signature{
		Op:     op,
		Recv:   recv,
		Args:   make([]Shape, len(def.args)),
		Result: def.result.resolve(recv),
	}
	for i, a := range def.args {
		sig.Args[i] = a.resolve(recv)
	}
	return sig, true
}

// Supports reports whether op is allowed on shape s.
func (s Shape) Supports(op Op) bool {
	return op.IsValid() && catalog[op].shapes.has(s)
}

// Operations returns the operations allowed on shape s in catalog order.
func (s Shape) Operations() []Op {
	var ops []Op
	for i := range catalog {
		if catalog[i].shapes.has(s) {
			ops = append(ops, Op(i))
		}
	}
	return ops
}

// Apply applies op to recv and args, checking shapes against the catalog at runtime.
// It is the dynamic counterpart of the typed methods, for use when operations
// are only known at runtime such as when loading program descriptions.
func Apply(op Op, recv Expr, args ...Expr) (Expr, error) {
	if recv == nil {
		return nil, fmt.Errorf("%w: nil receiver for %s", ErrInvalidOperation, op)
	}
	sig, ok := op.Signature(recv.Shape())
	if !ok {
		return nil, fmt.Errorf("%w: %s not defined for %s", ErrInvalidOperation, op, recv.Shape())
	} else if len(args) != len(sig.Args) {
		return nil, fmt.Errorf("%w: %s on %s takes %d operands, got %d", ErrInvalidOperation, op, recv.Shape(), len(sig.Args), len(args))
	}
	for i, arg := range args {
		if arg == nil {
			return nil, fmt.Errorf("%w: nil operand %d for %s", ErrInvalidOperation, i, op)
		} else if arg.Shape() != sig.Args[i] {
			return nil, fmt.Errorf("%w: %s on %s operand %d must be %s, got %s", ErrInvalidOperation, op, recv.Shape(), i, sig.Args[i], arg.Shape())
		}
	}
	return newExpr(sig.Result, build(op, recv, args...)), nil
}

// build returns the syntax tree of op applied to recv and args. Shapes are not checked.
func build(op Op, recv Expr, args ...Expr) glbuild.Node {
	def := &catalog[op]
	switch def.form {
	case formInfix:
		return glbuild.Binary{Op: def.symbol, X: recv.Node(), Y: args[0].Node()}
	case formPrefix:
		return glbuild.Unary{Op: def.symbol, X: recv.Node()}
	}
	nodes := make([]glbuild.Node, 0, len(args)+1)
	if def.form == formCall {
		nodes = append(nodes, recv.Node())
	}
	for _, a := range args {
		nodes = append(nodes, a.Node())
	}
	if def.form == formCallRecvLast {
		nodes = append(nodes, recv.Node())
	}
	return glbuild.Call{Func: def.symbol, Args: nodes}
}

// splat returns a literal of shape s with all components equal to v.
func splat(s Shape, v float32) glbuild.Node {
	comps := make([]float32, s.Arity())
	for i := range comps {
		comps[i] = v
	}
	return glbuild.Literal{Text: string(glbuild.AppendVecLiteral(nil, s.String(), comps...))}
}
