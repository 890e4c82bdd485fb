// Package gleval evaluates shader expression blocks numerically. The CPU
// evaluator follows GLSL semantics and serves as a reference for the generated
// source, the GPU functions compile generated programs with the system's OpenGL driver.
package gleval

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/soypat/glexpr"
	"github.com/soypat/glexpr/glbuild"
)

var (
	errUnknownFunction = errors.New("unknown function")
	errOperandShapes   = errors.New("incompatible operand shapes")
)

// Inputs maps block input names to their values.
type Inputs map[string]Value

// Evaluate evaluates the declarations of blk in order with the given input
// values and returns the value of the "returns" binding.
func Evaluate(blk glexpr.Block, inputs Inputs) (Value, error) {
	var ev Evaluator
	err := ev.Run(blk, inputs)
	if err != nil {
		return Value{}, err
	}
	return ev.Lookup(glexpr.ReturnName)
}

// Evaluator evaluates syntax trees against an environment of named values.
// The zero value is ready to use. Evaluators can be reused between runs to avoid allocations.
type Evaluator struct {
	env   map[string]Value
	funcs map[string]glbuild.Function
}

// DefineFunction makes a user defined function callable from evaluated expressions.
func (ev *Evaluator) DefineFunction(fn glbuild.Function) error {
	if err := fn.Validate(); err != nil {
		return err
	}
	if ev.funcs == nil {
		ev.funcs = make(map[string]glbuild.Function)
	}
	ev.funcs[fn.Name] = fn
	return nil
}

// Run resets the environment to inputs and evaluates every declaration of blk.
// Every block input must be present in inputs with the declared shape.
func (ev *Evaluator) Run(blk glexpr.Block, inputs Inputs) error {
	if ev.env == nil {
		ev.env = make(map[string]Value)
	}
	clear(ev.env)
	for _, in := range blk.Inputs() {
		v, ok := inputs[in.Name]
		if !ok {
			return fmt.Errorf("%w: missing value for input %q", glexpr.ErrUnknownBinding, in.Name)
		} else if v.Shape != in.Shape {
			return fmt.Errorf("%w: input %q is %s, got %s value", glexpr.ErrShapeMismatch, in.Name, in.Shape, v.Shape)
		}
		ev.env[in.Name] = v
	}
	for _, st := range blk.Statements() {
		v, err := ev.Eval(st.Value)
		if err != nil {
			return fmt.Errorf("evaluating %q: %w", st.Name, err)
		} else if v.Shape != st.Shape {
			return fmt.Errorf("%w: %q declared %s, evaluated to %s", glexpr.ErrShapeMismatch, st.Name, st.Shape, v.Shape)
		}
		ev.env[st.Name] = v
	}
	return nil
}

// Set sets the value of a named variable in the environment.
func (ev *Evaluator) Set(name string, v Value) {
	if ev.env == nil {
		ev.env = make(map[string]Value)
	}
	ev.env[name] = v
}

// Lookup returns the value of a named variable in the environment.
func (ev *Evaluator) Lookup(name string) (Value, error) {
	v, ok := ev.env[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", glexpr.ErrUnknownBinding, name)
	}
	return v, nil
}

// Eval evaluates a single syntax tree.
func (ev *Evaluator) Eval(n glbuild.Node) (Value, error) {
	switch n := n.(type) {
	case glbuild.Literal:
		return ParseLiteral(n.Text)
	case glbuild.Variable:
		return ev.Lookup(n.Name)
	case glbuild.Unary:
		x, err := ev.Eval(n.X)
		if err != nil {
			return Value{}, err
		}
		if n.Op != "-" {
			return Value{}, fmt.Errorf("unknown unary operator %q", n.Op)
		}
		return mapc(x, func(f float32) float32 { return -f }), nil
	case glbuild.Binary:
		x, err := ev.Eval(n.X)
		if err != nil {
			return Value{}, err
		}
		y, err := ev.Eval(n.Y)
		if err != nil {
			return Value{}, err
		}
		return binary(n.Op, x, y)
	case glbuild.Call:
		args := make([]Value, len(n.Args))
		for i, arg := range n.Args {
			v, err := ev.Eval(arg)
			if err != nil {
				return Value{}, err
			}
			args[i] = v
		}
		if fn, ok := ev.funcs[n.Func]; ok {
			return ev.callFunction(fn, args)
		}
		return call(n.Func, args)
	case nil:
		return Value{}, errors.New("nil node")
	}
	return Value{}, fmt.Errorf("unsupported node %T", n)
}

func (ev *Evaluator) callFunction(fn glbuild.Function, args []Value) (Value, error) {
	if len(args) != len(fn.Params) {
		return Value{}, fmt.Errorf("function %q takes %d arguments, got %d", fn.Name, len(fn.Params), len(args))
	}
	sub := Evaluator{env: make(map[string]Value, len(fn.Params)+len(fn.Body)), funcs: ev.funcs}
	for i, p := range fn.Params {
		if args[i].Shape.String() != p.Type {
			return Value{}, fmt.Errorf("%w: function %q parameter %q is %s, got %s", glexpr.ErrShapeMismatch, fn.Name, p.Name, p.Type, args[i].Shape)
		}
		sub.env[p.Name] = args[i]
	}
	for _, st := range fn.Body {
		v, err := sub.Eval(st.Value)
		if err != nil {
			return Value{}, fmt.Errorf("function %q: %w", fn.Name, err)
		}
		sub.env[st.Name] = v
	}
	return sub.Eval(fn.Result)
}

// ParseLiteral parses float and constructor literals as written by glbuild, i.e: "1.5" or "vec2(1.0, 0.0)".
func ParseLiteral(text string) (Value, error) {
	open := strings.IndexByte(text, '(')
	if open < 0 {
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return Value{}, err
		}
		return FloatValue(float32(f)), nil
	}
	if !strings.HasSuffix(text, ")") {
		return Value{}, fmt.Errorf("unterminated literal %q", text)
	}
	shape, err := glexpr.ParseShape(text[:open])
	if err != nil {
		return Value{}, err
	}
	fields := strings.Split(text[open+1:len(text)-1], ",")
	args := make([]Value, len(fields))
	for i, field := range fields {
		f, err := strconv.ParseFloat(strings.TrimSpace(field), 32)
		if err != nil {
			return Value{}, fmt.Errorf("literal %q: %w", text, err)
		}
		args[i] = FloatValue(float32(f))
	}
	return construct(shape, args)
}

// construct implements GLSL constructor semantics: a single float argument is splatted into
// vectors and set as the diagonal of matrices, otherwise components are concatenated.
func construct(s glexpr.Shape, args []Value) (Value, error) {
	v := Value{Shape: s}
	if len(args) == 1 && args[0].Shape == glexpr.ShapeFloat && s != glexpr.ShapeFloat {
		f := args[0].c[0]
		if s.IsMatrix() {
			n := s.Column().Arity()
			for i := 0; i < n; i++ {
				v.c[i*n+i] = f
			}
		} else {
			for i := 0; i < s.Arity(); i++ {
				v.c[i] = f
			}
		}
		return v, nil
	}
	n := 0
	for _, arg := range args {
		comps := arg.Comps()
		if n+len(comps) > s.Arity() {
			return Value{}, fmt.Errorf("%w: too many components for %s constructor", glexpr.ErrShapeMismatch, s)
		}
		n += copy(v.c[n:], comps)
	}
	if n != s.Arity() {
		return Value{}, fmt.Errorf("%w: %s constructor got %d components, want %d", glexpr.ErrShapeMismatch, s, n, s.Arity())
	}
	return v, nil
}

func binary(op string, x, y Value) (Value, error) {
	switch op {
	case "+":
		return zip(x, y, func(a, b float32) float32 { return a + b })
	case "-":
		return zip(x, y, func(a, b float32) float32 { return a - b })
	case "/":
		return zip(x, y, func(a, b float32) float32 { return a / b })
	case "*":
		switch {
		case x.Shape.IsMatrix() && y.Shape == x.Shape:
			return matMul(x, y), nil
		case x.Shape.IsMatrix() && y.Shape == x.Shape.Column():
			return matVec(x, y), nil
		case y.Shape.IsMatrix() && x.Shape == y.Shape.Column():
			return vecMat(x, y), nil
		}
		return zip(x, y, func(a, b float32) float32 { return a * b })
	}
	return Value{}, fmt.Errorf("unknown binary operator %q", op)
}

func call(fn string, args []Value) (Value, error) {
	if shape, err := glexpr.ParseShape(fn); err == nil {
		return construct(shape, args)
	}
	if f, ok := unaryFuncs[fn]; ok {
		if err := wantArgs(fn, args, 1); err != nil {
			return Value{}, err
		}
		return mapc(args[0], f), nil
	}
	if f, ok := binaryFuncs[fn]; ok {
		if err := wantArgs(fn, args, 2); err != nil {
			return Value{}, err
		}
		return zip(args[0], args[1], f)
	}
	switch fn {
	case "clamp":
		if err := wantArgs(fn, args, 3); err != nil {
			return Value{}, err
		}
		lo, err := zip(args[0], args[1], math32.Max)
		if err != nil {
			return Value{}, err
		}
		return zip(lo, args[2], math32.Min)
	case "mix":
		if err := wantArgs(fn, args, 3); err != nil {
			return Value{}, err
		}
		d, err := zip(args[1], args[0], func(a, b float32) float32 { return a - b })
		if err != nil {
			return Value{}, err
		}
		d, err = zip(d, args[2], func(a, b float32) float32 { return a * b })
		if err != nil {
			return Value{}, err
		}
		return zip(args[0], d, func(a, b float32) float32 { return a + b })
	case "smoothstep":
		if err := wantArgs(fn, args, 3); err != nil {
			return Value{}, err
		}
		return smoothstep(args[0], args[1], args[2])
	case "dot":
		if err := wantVecArgs(fn, args, 2); err != nil {
			return Value{}, err
		}
		return FloatValue(dot(args[0], args[1])), nil
	case "length":
		if err := wantVecArgs(fn, args, 1); err != nil {
			return Value{}, err
		}
		return FloatValue(math32.Sqrt(dot(args[0], args[0]))), nil
	case "distance":
		if err := wantVecArgs(fn, args, 2); err != nil {
			return Value{}, err
		}
		d, _ := zip(args[0], args[1], func(a, b float32) float32 { return a - b })
		return FloatValue(math32.Sqrt(dot(d, d))), nil
	case "normalize":
		if err := wantVecArgs(fn, args, 1); err != nil {
			return Value{}, err
		}
		inv := 1 / math32.Sqrt(dot(args[0], args[0]))
		return mapc(args[0], func(f float32) float32 { return f * inv }), nil
	case "cross":
		if err := wantVecArgs(fn, args, 2); err != nil {
			return Value{}, err
		} else if args[0].Shape != glexpr.ShapeVec3 {
			return Value{}, fmt.Errorf("%w: cross requires vec3", errOperandShapes)
		}
		a, b := args[0].c, args[1].c
		return NewValue(glexpr.ShapeVec3, a[1]*b[2]-a[2]*b[1], a[2]*b[0]-a[0]*b[2], a[0]*b[1]-a[1]*b[0])
	case "faceforward":
		if err := wantVecArgs(fn, args, 3); err != nil {
			return Value{}, err
		}
		if dot(args[2], args[1]) < 0 {
			return args[0], nil
		}
		return mapc(args[0], func(f float32) float32 { return -f }), nil
	case "reflect":
		if err := wantVecArgs(fn, args, 2); err != nil {
			return Value{}, err
		}
		incident, normal := args[0], args[1]
		k := 2 * dot(normal, incident)
		return zip(incident, normal, func(i, n float32) float32 { return i - k*n })
	case "refract":
		if err := wantArgs(fn, args, 3); err != nil {
			return Value{}, err
		} else if !args[0].Shape.IsVector() || args[1].Shape != args[0].Shape || args[2].Shape != glexpr.ShapeFloat {
			return Value{}, fmt.Errorf("%w: refract(%s, %s, %s)", errOperandShapes, args[0].Shape, args[1].Shape, args[2].Shape)
		}
		incident, normal, eta := args[0], args[1], args[2].c[0]
		ndoti := dot(normal, incident)
		k := 1 - eta*eta*(1-ndoti*ndoti)
		if k < 0 {
			return Value{Shape: incident.Shape}, nil
		}
		m := eta*ndoti + math32.Sqrt(k)
		return zip(incident, normal, func(i, n float32) float32 { return eta*i - m*n })
	case "matrixCompMult":
		if err := wantArgs(fn, args, 2); err != nil {
			return Value{}, err
		} else if !args[0].Shape.IsMatrix() || args[0].Shape != args[1].Shape {
			return Value{}, fmt.Errorf("%w: matrixCompMult(%s, %s)", errOperandShapes, args[0].Shape, args[1].Shape)
		}
		return zip(args[0], args[1], func(a, b float32) float32 { return a * b })
	}
	return Value{}, fmt.Errorf("%w %q", errUnknownFunction, fn)
}

var unaryFuncs = map[string]func(float32) float32{
	"sin":   math32.Sin,
	"cos":   math32.Cos,
	"tan":   math32.Tan,
	"exp":   math32.Exp,
	"log":   math32.Log,
	"sqrt":  math32.Sqrt,
	"abs":   math32.Abs,
	"floor": math32.Floor,
	"fract": func(x float32) float32 { return x - math32.Floor(x) },
}

var binaryFuncs = map[string]func(a, b float32) float32{
	"min":  math32.Min,
	"max":  math32.Max,
	"pow":  math32.Pow,
	"mod":  func(x, y float32) float32 { return x - y*math32.Floor(x/y) },
	"step": func(edge, x float32) float32 { return b2f(x >= edge) },
}

func smoothstep(e0, e1, x Value) (Value, error) {
	if e0.Shape != e1.Shape || (e0.Shape != x.Shape && e0.Shape != glexpr.ShapeFloat) {
		return Value{}, fmt.Errorf("%w: smoothstep(%s, %s, %s)", errOperandShapes, e0.Shape, e1.Shape, x.Shape)
	}
	v := Value{Shape: x.Shape}
	for i := range x.Comps() {
		a, b := e0.c[0], e1.c[0]
		if e0.Shape != glexpr.ShapeFloat {
			a, b = e0.c[i], e1.c[i]
		}
		t := (x.c[i] - a) / (b - a)
		t = math32.Max(0, math32.Min(1, t))
		v.c[i] = t * t * (3 - 2*t)
	}
	return v, nil
}

func wantArgs(fn string, args []Value, n int) error {
	if len(args) != n {
		return fmt.Errorf("%s takes %d arguments, got %d", fn, n, len(args))
	}
	return nil
}

func wantVecArgs(fn string, args []Value, n int) error {
	if err := wantArgs(fn, args, n); err != nil {
		return err
	}
	for _, arg := range args {
		if !arg.Shape.IsVector() || arg.Shape != args[0].Shape {
			return fmt.Errorf("%w: %s requires vectors of same shape, got %s", errOperandShapes, fn, arg.Shape)
		}
	}
	return nil
}

func mapc(x Value, f func(float32) float32) Value {
	for i := range x.Comps() {
		x.c[i] = f(x.c[i])
	}
	return x
}

// zip applies f componentwise. A float operand is broadcast to the shape of the other.
func zip(x, y Value, f func(a, b float32) float32) (Value, error) {
	switch {
	case x.Shape == y.Shape:
		for i := range x.Comps() {
			x.c[i] = f(x.c[i], y.c[i])
		}
		return x, nil
	case y.Shape == glexpr.ShapeFloat:
		for i := range x.Comps() {
			x.c[i] = f(x.c[i], y.c[0])
		}
		return x, nil
	case x.Shape == glexpr.ShapeFloat:
		for i := range y.Comps() {
			y.c[i] = f(x.c[0], y.c[i])
		}
		return y, nil
	}
	return Value{}, fmt.Errorf("%w: %s and %s", errOperandShapes, x.Shape, y.Shape)
}

func dot(a, b Value) (sum float32) {
	for i := range a.Comps() {
		sum += a.c[i] * b.c[i]
	}
	return sum
}

func matMul(a, b Value) Value {
	n := a.Shape.Column().Arity()
	v := Value{Shape: a.Shape}
	for col := 0; col < n; col++ {
		for row := 0; row < n; row++ {
			var sum float32
			for k := 0; k < n; k++ {
				sum += a.c[k*n+row] * b.c[col*n+k]
			}
			v.c[col*n+row] = sum
		}
	}
	return v
}

func matVec(m, x Value) Value {
	n := x.Shape.Arity()
	v := Value{Shape: x.Shape}
	for row := 0; row < n; row++ {
		var sum float32
		for k := 0; k < n; k++ {
			sum += m.c[k*n+row] * x.c[k]
		}
		v.c[row] = sum
	}
	return v
}

func vecMat(x, m Value) Value {
	n := x.Shape.Arity()
	v := Value{Shape: x.Shape}
	for col := 0; col < n; col++ {
		var sum float32
		for k := 0; k < n; k++ {
			sum += x.c[k] * m.c[col*n+k]
		}
		v.c[col] = sum
	}
	return v
}

func b2f(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
