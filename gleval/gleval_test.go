package gleval_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/nalgeon/be"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glexpr"
	"github.com/soypat/glexpr/glbuild"
	"github.com/soypat/glexpr/gleval"
)

const tol = 1e-5

func mustBlock(t *testing.T, inputs []glexpr.Input, fn func(s glexpr.Scope) ([]glexpr.Binding, error)) glexpr.Block {
	t.Helper()
	blk, err := glexpr.NewBlock(inputs...)
	be.Err(t, err, nil)
	blk, err = blk.Define(fn)
	be.Err(t, err, nil)
	return blk
}

func equalComps(t *testing.T, got gleval.Value, want ...float32) {
	t.Helper()
	comps := got.Comps()
	if len(comps) != len(want) {
		t.Fatalf("want %d components, got %s", len(want), got)
	}
	for i := range want {
		if math32.Abs(comps[i]-want[i]) > tol {
			t.Fatalf("component %d: want %v, got %v (%s)", i, want[i], comps[i], got)
		}
	}
}

func TestEvaluateCombine(t *testing.T) {
	blk := mustBlock(t, []glexpr.Input{{Name: "a", Shape: glexpr.ShapeFloat}, {Name: "b", Shape: glexpr.ShapeFloat}},
		func(s glexpr.Scope) ([]glexpr.Binding, error) {
			v, err := s.Float("a").Combine(s.Float("b")).AsVec2()
			return []glexpr.Binding{glexpr.Bind(glexpr.ReturnName, v)}, err
		})
	got, err := gleval.Evaluate(blk, gleval.Inputs{"a": gleval.FloatValue(1), "b": gleval.FloatValue(2)})
	be.Err(t, err, nil)
	be.Equal(t, got.Shape, glexpr.ShapeVec2)
	be.Equal(t, got.Vec2(), ms2.Vec{X: 1, Y: 2})
	be.Equal(t, got.String(), "vec2(1.0, 2.0)")
}

func TestEvaluateVectorOps(t *testing.T) {
	blk := mustBlock(t, []glexpr.Input{{Name: "p", Shape: glexpr.ShapeVec3}}, func(s glexpr.Scope) ([]glexpr.Binding, error) {
		p := s.Vec3("p")
		return []glexpr.Binding{
			glexpr.Bind("len", p.Length()),
			glexpr.Bind("n", p.Normalize()),
			glexpr.Bind("c", p.Cross(glexpr.LitVec3(0, 0, 1))),
			glexpr.Bind("m", p.Mod(glexpr.LitVec3(2, 2, 2))),
			glexpr.Bind("st", p.Step(glexpr.LitVec3(3, 5, 0))),
			glexpr.Bind("mx", p.Mix(glexpr.LitVec3(0, 0, 0), glexpr.Lit(0.5))),
			glexpr.Bind("cl", p.Clamp(glexpr.LitVec3(0, 0, 0), glexpr.LitVec3(1, 1, 1))),
			glexpr.Bind("r", p.Reflect(glexpr.LitVec3(0, 0, 1))),
			glexpr.Bind(glexpr.ReturnName, p.Neg().Scale(glexpr.Lit(2))),
		}, nil
	})
	var ev gleval.Evaluator
	err := ev.Run(blk, gleval.Inputs{"p": gleval.Vec3Value(ms3.Vec{X: 3, Y: 4, Z: 0})})
	be.Err(t, err, nil)
	for _, test := range []struct {
		name string
		want []float32
	}{
		{"len", []float32{5}},
		{"n", []float32{0.6, 0.8, 0}},
		{"c", []float32{4, -3, 0}},
		{"m", []float32{1, 0, 0}},
		{"st", []float32{1, 0, 1}},
		{"mx", []float32{1.5, 2, 0}},
		{"cl", []float32{1, 1, 0}},
		{"r", []float32{3, 4, 0}},
		{glexpr.ReturnName, []float32{-6, -8, 0}},
	} {
		v, err := ev.Lookup(test.name)
		be.Err(t, err, nil)
		equalComps(t, v, test.want...)
	}
}

func TestEvaluateFloatOps(t *testing.T) {
	blk := mustBlock(t, []glexpr.Input{{Name: "x", Shape: glexpr.ShapeFloat}}, func(s glexpr.Scope) ([]glexpr.Binding, error) {
		x := s.Float("x")
		return []glexpr.Binding{
			glexpr.Bind("f", x.Fract()),
			glexpr.Bind("fl", x.Floor()),
			glexpr.Bind("sm", x.Smoothstep(glexpr.Lit(0), glexpr.Lit(5))),
			glexpr.Bind("pw", x.PowN(2)),
			glexpr.Bind("md", x.Neg().Mod(glexpr.Lit(2))),
			glexpr.Bind(glexpr.ReturnName, x.Sin().Mult(x.Sin()).Add(x.Cos().Mult(x.Cos()))),
		}, nil
	})
	var ev gleval.Evaluator
	err := ev.Run(blk, gleval.Inputs{"x": gleval.FloatValue(2.5)})
	be.Err(t, err, nil)
	for name, want := range map[string]float32{
		"f":                0.5,
		"fl":               2,
		"sm":               0.5,
		"pw":               6.25,
		"md":               1.5, // GLSL mod follows the sign of the divisor.
		glexpr.ReturnName: 1,
	} {
		v, err := ev.Lookup(name)
		be.Err(t, err, nil)
		equalComps(t, v, want)
	}
}

func TestEvaluateMatrices(t *testing.T) {
	// m = [[1 2] [3 4]] written row-major.
	m, err := glexpr.Literal[glexpr.Mat2](1, 2, 3, 4)
	be.Err(t, err, nil)
	blk := mustBlock(t, []glexpr.Input{{Name: "v", Shape: glexpr.ShapeVec2}}, func(s glexpr.Scope) ([]glexpr.Binding, error) {
		v := s.Vec2("v")
		cols, err := glexpr.Combine(glexpr.LitVec2(1, 3), glexpr.LitVec2(2, 4)).AsMat2()
		return []glexpr.Binding{
			glexpr.Bind("mv", m.Transform(v)),
			glexpr.Bind("mm", m.Mult(m)),
			glexpr.Bind("cc", m.MatrixCompMult(m)),
			glexpr.Bind("cols", cols),
			glexpr.Bind(glexpr.ReturnName, m.Scale(glexpr.Lit(2))),
		}, err
	})
	var ev gleval.Evaluator
	err = ev.Run(blk, gleval.Inputs{"v": gleval.Vec2Value(ms2.Vec{X: 1, Y: 1})})
	be.Err(t, err, nil)
	mv, _ := ev.Lookup("mv")
	equalComps(t, mv, 3, 7)
	// Components are column-major.
	mm, _ := ev.Lookup("mm")
	equalComps(t, mm, 7, 15, 10, 22)
	cc, _ := ev.Lookup("cc")
	equalComps(t, cc, 1, 9, 4, 16)
	cols, _ := ev.Lookup("cols")
	equalComps(t, cols, 1, 3, 2, 4)
	ret, _ := ev.Lookup(glexpr.ReturnName)
	equalComps(t, ret, 2, 6, 4, 8)

	// Row vector times matrix.
	got, err := ev.Eval(glbuild.Binary{Op: "*", X: glbuild.Variable{Name: "v"}, Y: m.Node()})
	be.Err(t, err, nil)
	equalComps(t, got, 4, 6)
}

func TestConstructorSplat(t *testing.T) {
	var ev gleval.Evaluator
	v, err := ev.Eval(glbuild.Call{Func: "vec3", Args: []glbuild.Node{glbuild.Literal{Text: "2.0"}}})
	be.Err(t, err, nil)
	equalComps(t, v, 2, 2, 2)
	v, err = ev.Eval(glbuild.Call{Func: "mat2", Args: []glbuild.Node{glbuild.Literal{Text: "1.0"}}})
	be.Err(t, err, nil)
	equalComps(t, v, 1, 0, 0, 1)
	_, err = ev.Eval(glbuild.Call{Func: "vec2", Args: []glbuild.Node{glbuild.Literal{Text: "vec3(1.0, 2.0, 3.0)"}}})
	be.Err(t, err, glexpr.ErrShapeMismatch)
}

func TestParseLiteral(t *testing.T) {
	v, err := gleval.ParseLiteral("mat2(1.0, 3.0, 2.0, 4.0)")
	be.Err(t, err, nil)
	be.Equal(t, v.Shape, glexpr.ShapeMat2)
	equalComps(t, v, 1, 3, 2, 4)
	v, err = gleval.ParseLiteral("-0.25")
	be.Err(t, err, nil)
	be.Equal(t, v.Float(), float32(-0.25))
	_, err = gleval.ParseLiteral("vec2(1.0, 2.0")
	be.Err(t, err, "unterminated")
	_, err = gleval.ParseLiteral("ivec2(1, 2)")
	be.Err(t, err, "unknown shape")
}

func TestUserFunction(t *testing.T) {
	sq := mustBlock(t, []glexpr.Input{{Name: "x", Shape: glexpr.ShapeFloat}}, func(s glexpr.Scope) ([]glexpr.Binding, error) {
		x := s.Float("x")
		return []glexpr.Binding{glexpr.Bind(glexpr.ReturnName, x.Mult(x))}, nil
	})
	fn, err := sq.Function("sq")
	be.Err(t, err, nil)
	blk := mustBlock(t, []glexpr.Input{{Name: "a", Shape: glexpr.ShapeFloat}}, func(s glexpr.Scope) ([]glexpr.Binding, error) {
		call, err := glexpr.CallFunction(fn, s.Float("a").Add(glexpr.Lit(1)))
		return []glexpr.Binding{glexpr.Bind(glexpr.ReturnName, call)}, err
	})
	var ev gleval.Evaluator
	err = ev.Run(blk, gleval.Inputs{"a": gleval.FloatValue(2)})
	be.Err(t, err, "unknown function")
	be.Err(t, ev.DefineFunction(fn), nil)
	err = ev.Run(blk, gleval.Inputs{"a": gleval.FloatValue(2)})
	be.Err(t, err, nil)
	got, err := ev.Lookup(glexpr.ReturnName)
	be.Err(t, err, nil)
	be.Equal(t, got.Float(), float32(9))
}

func TestEvaluateErrors(t *testing.T) {
	blk := mustBlock(t, []glexpr.Input{{Name: "p", Shape: glexpr.ShapeVec2}}, func(s glexpr.Scope) ([]glexpr.Binding, error) {
		return []glexpr.Binding{glexpr.Bind(glexpr.ReturnName, s.Vec2("p").Length())}, nil
	})
	_, err := gleval.Evaluate(blk, nil)
	be.Err(t, err, glexpr.ErrUnknownBinding)
	_, err = gleval.Evaluate(blk, gleval.Inputs{"p": gleval.FloatValue(1)})
	be.Err(t, err, glexpr.ErrShapeMismatch)

	noReturn := mustBlock(t, []glexpr.Input{{Name: "p", Shape: glexpr.ShapeVec2}}, func(s glexpr.Scope) ([]glexpr.Binding, error) {
		return []glexpr.Binding{glexpr.Bind("q", s.Vec2("p"))}, nil
	})
	_, err = gleval.Evaluate(noReturn, gleval.Inputs{"p": gleval.Vec2Value(ms2.Vec{})})
	be.Err(t, err, glexpr.ErrUnknownBinding)

	var ev gleval.Evaluator
	_, err = ev.Eval(glbuild.Call{Func: "atan", Args: []glbuild.Node{glbuild.Literal{Text: "1.0"}}})
	be.Err(t, err, "unknown function")
	_, err = ev.Eval(glbuild.Binary{Op: "+", X: glbuild.Literal{Text: "vec2(1.0, 2.0)"}, Y: glbuild.Literal{Text: "vec3(1.0, 2.0, 3.0)"}})
	be.Err(t, err, "incompatible operand shapes")

	_, err = gleval.NewValue(glexpr.ShapeVec3, 1, 2)
	be.Err(t, err, glexpr.ErrShapeMismatch)
}
