package glexpr_test

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/nalgeon/be"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/glexpr"
	"github.com/soypat/glexpr/glbuild"
)

var typeOfShape = map[glexpr.Shape]reflect.Type{
	glexpr.ShapeFloat: reflect.TypeOf(glexpr.Float{}),
	glexpr.ShapeVec2:  reflect.TypeOf(glexpr.Vec2{}),
	glexpr.ShapeVec3:  reflect.TypeOf(glexpr.Vec3{}),
	glexpr.ShapeVec4:  reflect.TypeOf(glexpr.Vec4{}),
	glexpr.ShapeMat2:  reflect.TypeOf(glexpr.Mat2{}),
	glexpr.ShapeMat3:  reflect.TypeOf(glexpr.Mat3{}),
	glexpr.ShapeMat4:  reflect.TypeOf(glexpr.Mat4{}),
}

// Methods on typed expressions which are not catalog operations.
var nonCatalogMethods = map[string]bool{
	"Shape": true, "Node": true, "Combine": true, "PowN": true,
}

func TestCatalogMatchesMethods(t *testing.T) {
	for _, s := range glexpr.Shapes() {
		typ := typeOfShape[s]
		supported := make(map[string]glexpr.Op)
		for _, op := range s.Operations() {
			supported[op.MethodName()] = op
			method, ok := typ.MethodByName(op.MethodName())
			if !ok {
				t.Errorf("%s: missing method %s for %s", s, op.MethodName(), op)
				continue
			}
			sig, ok := op.Signature(s)
			be.True(t, ok)
			mt := method.Type
			// First input is the receiver.
			if mt.NumIn()-1 != len(sig.Args) {
				t.Errorf("%s.%s: want %d operands, got %d", s, method.Name, len(sig.Args), mt.NumIn()-1)
				continue
			}
			for i, arg := range sig.Args {
				if mt.In(i+1) != typeOfShape[arg] {
					t.Errorf("%s.%s operand %d: want %s, got %s", s, method.Name, i, typeOfShape[arg], mt.In(i+1))
				}
			}
			if mt.NumOut() != 1 || mt.Out(0) != typeOfShape[sig.Result] {
				t.Errorf("%s.%s: want result %s", s, method.Name, typeOfShape[sig.Result])
			}
		}
		for i := 0; i < typ.NumMethod(); i++ {
			name := typ.Method(i).Name
			if nonCatalogMethods[name] {
				continue
			}
			if _, ok := supported[name]; !ok {
				t.Errorf("%s has method %s not allowed by the catalog", s, name)
			}
		}
	}
}

func TestShapeOf(t *testing.T) {
	be.Equal(t, glexpr.ShapeOf[glexpr.Mat3](), glexpr.ShapeMat3)
	be.Equal(t, glexpr.ShapeMat4.Column(), glexpr.ShapeVec4)
	be.Equal(t, glexpr.ShapeMat3.Arity(), 9)
	for _, s := range glexpr.Shapes() {
		got, err := glexpr.ParseShape(s.String())
		be.Err(t, err, nil)
		be.Equal(t, got, s)
	}
	_, err := glexpr.ParseShape("ivec2")
	be.Err(t, err, "unknown shape")
}

func TestCombineVec2(t *testing.T) {
	blk, err := glexpr.NewBlock(glexpr.Input{Name: "a", Shape: glexpr.ShapeFloat}, glexpr.Input{Name: "b", Shape: glexpr.ShapeFloat})
	be.Err(t, err, nil)
	blk, err = blk.Define(func(s glexpr.Scope) ([]glexpr.Binding, error) {
		v, err := s.Float("a").Combine(s.Float("b")).AsVec2()
		return []glexpr.Binding{glexpr.Bind(glexpr.ReturnName, v)}, err
	})
	be.Err(t, err, nil)
	be.Equal(t, blk.Source(), "vec2 returns = vec2(a, b);")
	ret, err := blk.Returns()
	be.Err(t, err, nil)
	be.Equal(t, glexpr.Format(ret), "returns")
	be.Equal(t, ret.Shape(), glexpr.ShapeVec2)
}

func TestCombineMixedArity(t *testing.T) {
	v, err := glexpr.Lit(1.5).Combine(glexpr.LitVec3(1.5, 1.5, 1.5)).As(glexpr.ShapeVec4)
	be.Err(t, err, nil)
	be.Equal(t, glexpr.Format(v), "vec4(1.5, vec3(1.5, 1.5, 1.5))")

	m, err := glexpr.Combine(glexpr.LitVec2(1, 2), glexpr.LitVec2(3, 4)).AsMat2()
	be.Err(t, err, nil)
	be.Equal(t, glexpr.Format(m), "mat2(vec2(1.0, 2.0), vec2(3.0, 4.0))")
}

func TestCombineArityMismatch(t *testing.T) {
	c := glexpr.Lit(1).Combine(glexpr.Lit(2))
	be.Equal(t, c.Arity(), 2)
	_, err := c.As(glexpr.ShapeVec3)
	be.Err(t, err, glexpr.ErrShapeMismatch)
	_, err = c.AsFloat()
	be.Err(t, err, glexpr.ErrShapeMismatch)

	// Combiner is a value: extending it leaves c unchanged.
	c3 := c.Combine(glexpr.Lit(3))
	be.Equal(t, c.Arity(), 2)
	be.Equal(t, c3.Arity(), 3)
	be.Equal(t, c.Code(), "1.0, 2.0")
	v, err := c3.AsVec3()
	be.Err(t, err, nil)
	be.Equal(t, glexpr.Format(v), "vec3(1.0, 2.0, 3.0)")
}

func TestAggregateNests(t *testing.T) {
	dirs := [][2]float32{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	got := glexpr.Aggregate(glexpr.LitVec2(0, 0), dirs, func(acc glexpr.Vec2, d [2]float32, i int) glexpr.Vec2 {
		return acc.Mult(glexpr.LitVec2(d[0], d[1]))
	})
	be.Equal(t, glexpr.Format(got), "(((vec2(0.0, 0.0) * vec2(1.0, 0.0)) * vec2(0.0, 1.0)) * vec2(-1.0, 0.0)) * vec2(0.0, -1.0)")
	depth := 0
	var n glbuild.Node = got.Node()
	for {
		bin, ok := n.(glbuild.Binary)
		if !ok {
			break
		}
		be.Equal(t, bin.Op, "*")
		depth++
		n = bin.X
	}
	be.Equal(t, depth, 4)
}

func TestDefineReferencesNames(t *testing.T) {
	blk, err := glexpr.NewBlock(glexpr.Input{Name: "p", Shape: glexpr.ShapeVec2})
	be.Err(t, err, nil)
	blk, err = blk.Define(func(s glexpr.Scope) ([]glexpr.Binding, error) {
		p := s.Vec2("p")
		return []glexpr.Binding{
			glexpr.Bind("q", p.Add(glexpr.LitVec2(1, 1)).Sin()),
		}, nil
	})
	be.Err(t, err, nil)
	blk, err = blk.Define(func(s glexpr.Scope) ([]glexpr.Binding, error) {
		q := s.Vec2("q")
		return []glexpr.Binding{
			glexpr.Bind("d", q.Dot(q)),
			glexpr.Bind(glexpr.ReturnName, q.Scale(glexpr.Lit(2))),
		}, nil
	})
	be.Err(t, err, nil)
	want := "vec2 q = sin(p + vec2(1.0, 1.0));\nfloat d = dot(q, q);\nvec2 returns = q * 2.0;"
	be.Equal(t, blk.Source(), want)
	be.Equal(t, blk.Scope().Names(), []string{"p", "q", "d", "returns"})
	be.Equal(t, string(blk.AppendStatements(nil, "\t")), "\t"+strings.ReplaceAll(want, "\n", "\n\t"))
}

func TestCombineArityClosure(t *testing.T) {
	for _, src := range glexpr.Shapes() {
		for _, dst := range glexpr.Shapes() {
			c := glexpr.Combine(glexpr.NewVar("x", src))
			got, err := c.As(dst)
			if src.Arity() != dst.Arity() {
				if !errors.Is(err, glexpr.ErrShapeMismatch) {
					t.Errorf("%s as %s: want ErrShapeMismatch, got %v", src, dst, err)
				}
				continue
			}
			if err != nil {
				t.Errorf("%s as %s: %v", src, dst, err)
				continue
			}
			be.Equal(t, got.Shape(), dst)
			be.Equal(t, glexpr.Format(got), dst.String()+"(x)")
		}
	}
}

func TestDefineNilOperand(t *testing.T) {
	blk, err := glexpr.NewBlock(glexpr.Input{Name: "x", Shape: glexpr.ShapeFloat})
	be.Err(t, err, nil)
	got, err := blk.Define(func(s glexpr.Scope) ([]glexpr.Binding, error) {
		var f glexpr.Float
		return []glexpr.Binding{glexpr.Bind(glexpr.ReturnName, s.Float("x").Mult(f.Add(glexpr.Lit(1))))}, nil
	})
	be.Err(t, err, glexpr.ErrInvalidOperation)
	be.Err(t, err, "uninitialized operand")
	be.Equal(t, got.Len(), blk.Len())
	be.Equal(t, got.Source(), "")

	_, err = blk.Define(func(s glexpr.Scope) ([]glexpr.Binding, error) {
		var v glexpr.Vec2
		return []glexpr.Binding{glexpr.Bind("l", v.Length().Sin())}, nil
	})
	be.Err(t, err, glexpr.ErrInvalidOperation)
}

func TestDefineSameStepBindings(t *testing.T) {
	// Names bound in a step are not visible within the same step.
	blk, err := glexpr.NewBlock(glexpr.Input{Name: "x", Shape: glexpr.ShapeFloat})
	be.Err(t, err, nil)
	_, err = blk.Define(func(s glexpr.Scope) ([]glexpr.Binding, error) {
		y := s.Float("x").Abs()
		return []glexpr.Binding{
			glexpr.Bind("y", y),
			glexpr.Bind("z", s.Float("y")),
		}, nil
	})
	be.Err(t, err, glexpr.ErrUnknownBinding)
}

func TestBlockPersistent(t *testing.T) {
	base, err := glexpr.NewBlock(glexpr.Input{Name: "x", Shape: glexpr.ShapeFloat})
	be.Err(t, err, nil)
	base, err = base.Define(func(s glexpr.Scope) ([]glexpr.Binding, error) {
		return []glexpr.Binding{glexpr.Bind("y", s.Float("x").Neg())}, nil
	})
	be.Err(t, err, nil)
	var wg sync.WaitGroup
	branches := make([]glexpr.Block, 8)
	errs := make([]error, len(branches))
	for i := range branches {
		wg.Add(1)
		go func() {
			defer wg.Done()
			branches[i], errs[i] = base.Define(func(s glexpr.Scope) ([]glexpr.Binding, error) {
				return []glexpr.Binding{glexpr.Bind("z", s.Float("y").Mult(glexpr.Lit(float32(i))))}, nil
			})
		}()
	}
	wg.Wait()
	be.Equal(t, base.Len(), 1)
	be.Equal(t, base.Scope().Has("z"), false)
	for i, b := range branches {
		be.Err(t, errs[i], nil)
		be.Equal(t, b.Len(), 2)
		st := b.Statements()
		be.Equal(t, st[1].Name, "z")
		be.Equal(t, glbuild.FormatNode(st[1].Value), "y * "+glbuild.FormatFloat(float32(i)))
	}
}

func TestDefineErrors(t *testing.T) {
	blk, err := glexpr.NewBlock(glexpr.Input{Name: "a", Shape: glexpr.ShapeVec3})
	be.Err(t, err, nil)

	_, err = blk.Define(func(s glexpr.Scope) ([]glexpr.Binding, error) {
		return []glexpr.Binding{glexpr.Bind("a", s.Vec3("a").Normalize())}, nil
	})
	be.Err(t, err, glexpr.ErrDuplicateBinding)

	_, err = blk.Define(func(s glexpr.Scope) ([]glexpr.Binding, error) {
		return []glexpr.Binding{glexpr.Bind("b", s.Vec3("a")), glexpr.Bind("b", s.Vec3("a"))}, nil
	})
	be.Err(t, err, glexpr.ErrDuplicateBinding)

	_, err = blk.Define(func(s glexpr.Scope) ([]glexpr.Binding, error) {
		return []glexpr.Binding{glexpr.Bind("b", s.Vec2("a"))}, nil
	})
	be.Err(t, err, glexpr.ErrShapeMismatch)

	_, err = blk.Define(func(s glexpr.Scope) ([]glexpr.Binding, error) {
		v, err := s.Vec3("a").Combine(s.Float("w")).AsVec2()
		return []glexpr.Binding{glexpr.Bind("b", v)}, err
	})
	be.Err(t, err, glexpr.ErrShapeMismatch)
	be.Err(t, err, glexpr.ErrUnknownBinding)

	got, err := blk.Define(func(s glexpr.Scope) ([]glexpr.Binding, error) {
		return []glexpr.Binding{glexpr.Bind("", s.Vec3("a"))}, nil
	})
	be.Err(t, err, "empty name")
	be.Equal(t, got.Len(), blk.Len())

	_, err = glexpr.NewBlock(glexpr.Input{Name: "a", Shape: glexpr.ShapeVec3}, glexpr.Input{Name: "a", Shape: glexpr.ShapeFloat})
	be.Err(t, err, glexpr.ErrDuplicateBinding)
}

func TestMissingReturn(t *testing.T) {
	blk, err := glexpr.NewBlock(glexpr.Input{Name: glexpr.ReturnName, Shape: glexpr.ShapeFloat})
	be.Err(t, err, nil)
	_, err = blk.Returns()
	be.Err(t, err, glexpr.ErrMissingReturn)
	_, err = blk.Function("f")
	be.Err(t, err, glexpr.ErrMissingReturn)
	_, err = blk.Stage("gl_Position")
	be.Err(t, err, glexpr.ErrMissingReturn)
}

func TestApply(t *testing.T) {
	a := glexpr.Var[glexpr.Vec3]("a")
	b := glexpr.Var[glexpr.Vec3]("b")
	v, err := glexpr.Apply(glexpr.OpCross, a, b)
	be.Err(t, err, nil)
	be.Equal(t, v.Shape(), glexpr.ShapeVec3)
	be.Equal(t, glexpr.Format(v), "cross(a, b)")

	v, err = glexpr.Apply(glexpr.OpStep, a, b)
	be.Err(t, err, nil)
	be.Equal(t, glexpr.Format(v), "step(b, a)")

	m := glexpr.Var[glexpr.Mat3]("m")
	v, err = glexpr.Apply(glexpr.OpTransform, m, a)
	be.Err(t, err, nil)
	be.Equal(t, v.Shape(), glexpr.ShapeVec3)
	be.Equal(t, glexpr.Format(v), "m * a")

	v, err = glexpr.Apply(glexpr.OpLength, glexpr.Var[glexpr.Vec2]("p").Sub(glexpr.LitVec2(0.5, 0.5)))
	be.Err(t, err, nil)
	be.Equal(t, v.Shape(), glexpr.ShapeFloat)
	neg, err := glexpr.Apply(glexpr.OpNeg, v)
	be.Err(t, err, nil)
	be.Equal(t, glexpr.Format(neg), "-(length(p - vec2(0.5, 0.5)))")

	_, err = glexpr.Apply(glexpr.OpCross, glexpr.Var[glexpr.Vec2]("p"), glexpr.Var[glexpr.Vec2]("q"))
	be.Err(t, err, glexpr.ErrInvalidOperation)
	_, err = glexpr.Apply(glexpr.OpDot, glexpr.Lit(1), glexpr.Lit(2))
	be.Err(t, err, glexpr.ErrInvalidOperation)
	_, err = glexpr.Apply(glexpr.OpAdd, a)
	be.Err(t, err, glexpr.ErrInvalidOperation)
	_, err = glexpr.Apply(glexpr.OpMix, a, b, b)
	be.Err(t, err, glexpr.ErrInvalidOperation)
	_, err = glexpr.Apply(glexpr.OpTransform, m, glexpr.Var[glexpr.Vec4]("v"))
	be.Err(t, err, glexpr.ErrInvalidOperation)

	op, err := glexpr.ParseOp("matrixCompMult")
	be.Err(t, err, nil)
	be.Equal(t, op, glexpr.OpMatrixCompMult)
	_, err = glexpr.ParseOp("atan")
	be.Err(t, err, glexpr.ErrInvalidOperation)
}

func TestLiterals(t *testing.T) {
	be.Equal(t, glexpr.Format(glexpr.Lit(2)), "2.0")
	be.Equal(t, glexpr.Format(glexpr.Lit(-0.25)), "-0.25")
	be.Equal(t, glexpr.Format(glexpr.Vec2From(ms2.Vec{X: 1, Y: 0.5})), "vec2(1.0, 0.5)")

	m, err := glexpr.Literal[glexpr.Mat2](1, 2, 3, 4)
	be.Err(t, err, nil)
	be.Equal(t, glexpr.Format(m), "mat2(1.0, 3.0, 2.0, 4.0)")
	_, err = glexpr.Literal[glexpr.Vec3](1, 2)
	be.Err(t, err, glexpr.ErrShapeMismatch)
	e, err := glexpr.NewLiteral(glexpr.ShapeVec3, 1, 2, 3)
	be.Err(t, err, nil)
	be.Equal(t, glexpr.Format(e), "vec3(1.0, 2.0, 3.0)")

	be.Equal(t, glexpr.Format(glexpr.Var[glexpr.Float]("x").PowN(2)), "pow(x, 2.0)")
}

func TestFunctionAndCall(t *testing.T) {
	blk, err := glexpr.NewBlock(glexpr.Input{Name: "c", Shape: glexpr.ShapeVec3})
	be.Err(t, err, nil)
	blk, err = blk.Define(func(s glexpr.Scope) ([]glexpr.Binding, error) {
		return []glexpr.Binding{glexpr.Bind(glexpr.ReturnName, s.Vec3("c").Dot(glexpr.LitVec3(0.25, 0.5, 0.25)))}, nil
	})
	be.Err(t, err, nil)
	fn, err := blk.Function("luma")
	be.Err(t, err, nil)
	be.Equal(t, fn.Return, "float")
	be.Equal(t, fn.Params, []glbuild.Param{{Type: "vec3", Name: "c"}})
	be.Equal(t, string(glbuild.AppendFunction(nil, fn)),
		"float luma(vec3 c) {\n\tfloat returns = dot(c, vec3(0.25, 0.5, 0.25));\n\treturn returns;\n}\n")

	call, err := glexpr.CallFunction(fn, glexpr.Var[glexpr.Vec3]("rgb"))
	be.Err(t, err, nil)
	be.Equal(t, call.Shape(), glexpr.ShapeFloat)
	be.Equal(t, glexpr.Format(call), "luma(rgb)")

	_, err = glexpr.CallFunction(fn, glexpr.Lit(1))
	be.Err(t, err, glexpr.ErrShapeMismatch)
	_, err = glexpr.CallFunction(fn)
	be.Err(t, err, glexpr.ErrShapeMismatch)
}

func TestStage(t *testing.T) {
	blk, err := glexpr.NewBlock(glexpr.Input{Name: "aPos", Shape: glexpr.ShapeVec2})
	be.Err(t, err, nil)
	blk, err = blk.Define(func(s glexpr.Scope) ([]glexpr.Binding, error) {
		pos := s.Vec2("aPos")
		ret, err := pos.Combine(glexpr.Lit(0)).Combine(glexpr.Lit(1)).AsVec4()
		return []glexpr.Binding{
			glexpr.Bind("uv", pos.Scale(glexpr.Lit(0.5))),
			glexpr.Bind(glexpr.ReturnName, ret),
		}, err
	})
	be.Err(t, err, nil)
	st, err := blk.Stage("gl_Position", glexpr.Output{Target: "vUV", Binding: "uv"})
	be.Err(t, err, nil)
	be.Equal(t, len(st.Outputs), 2)
	be.Equal(t, string(glbuild.AppendStageMain(nil, st)),
		"void main() {\n\tvec2 uv = aPos * 0.5;\n\tvec4 returns = vec4(aPos, 0.0, 1.0);\n\tgl_Position = returns;\n\tvUV = uv;\n}\n")

	_, err = blk.Stage("gl_Position", glexpr.Output{Target: "vUV", Binding: "nope"})
	be.Err(t, err, glexpr.ErrUnknownBinding)
}
