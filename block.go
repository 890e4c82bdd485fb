package glexpr

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/soypat/glexpr/glbuild"
)

// Input declares a named value supplied to a block from outside, such as a
// shader attribute, uniform or function parameter.
type Input struct {
	Name  string
	Shape Shape
}

// Binding binds an expression to a new name in a block. See [Block.Define].
type Binding struct {
	Name  string
	Value Expr
}

// Bind returns a Binding of name to v.
func Bind(name string, v Expr) Binding {
	return Binding{Name: name, Value: v}
}

// Statement is a declaration in a block: <Shape> <Name> = <Value>;
type Statement struct {
	Shape Shape
	Name  string
	Value glbuild.Node
}

// Block is an immutable, append-only sequence of named and typed declarations
// plus the scope they define. Define returns a new Block and never modifies the
// receiver so blocks can be safely extended from a shared base, also concurrently.
//
// The zero value is an empty block with no inputs.
type Block struct {
	inputs []Input
	scope  Scope
	stmts  []Statement
}

// NewBlock returns a block whose scope holds variable references to the declared inputs.
func NewBlock(inputs ...Input) (Block, error) {
	var blk Block
	blk.scope.vars = make(map[string]Expr, len(inputs))
	for _, in := range inputs {
		if in.Name == "" {
			return Block{}, errors.New("empty input name")
		} else if !in.Shape.IsValid() {
			return Block{}, fmt.Errorf("%w: input %q has invalid shape %d", ErrShapeMismatch, in.Name, in.Shape)
		} else if _, dup := blk.scope.vars[in.Name]; dup {
			return Block{}, fmt.Errorf("%w: input %q", ErrDuplicateBinding, in.Name)
		}
		blk.scope.vars[in.Name] = NewVar(in.Name, in.Shape)
		blk.scope.names = append(blk.scope.names, in.Name)
	}
	blk.inputs = slices.Clone(inputs)
	return blk, nil
}

// Define calls fn with the block's current scope and returns a new block extended with
// the returned bindings, in order. Each binding appends a statement and adds to the scope
// a variable reference to the bound name so later expressions reference the name
// instead of repeating the bound expression.
//
// A returned name already in scope fails with [ErrDuplicateBinding]. Errors returned by fn
// and failed scope lookups made by fn are returned joined. On error the receiver block
// is returned unchanged.
func (blk Block) Define(fn func(s Scope) ([]Binding, error)) (Block, error) {
	if fn == nil {
		return blk, errors.New("nil define function")
	}
	s := blk.Scope()
	bindings, err := fn(s)
	if err = errors.Join(err, s.Err()); err != nil {
		return blk, err
	}
	vars := maps.Clone(blk.scope.vars)
	if vars == nil {
		vars = make(map[string]Expr, len(bindings))
	}
	names := slices.Clip(blk.scope.names)
	stmts := slices.Clip(blk.stmts)
	for i, bd := range bindings {
		if bd.Name == "" {
			return blk, fmt.Errorf("binding %d: empty name", i)
		} else if bd.Value == nil || bd.Value.Node() == nil {
			return blk, fmt.Errorf("binding %q: nil expression", bd.Name)
		} else if hasNilNode(bd.Value.Node()) {
			return blk, fmt.Errorf("binding %q: %w: uninitialized operand in %s expression", bd.Name, ErrInvalidOperation, bd.Value.Shape())
		} else if _, dup := vars[bd.Name]; dup {
			return blk, fmt.Errorf("%w: %q", ErrDuplicateBinding, bd.Name)
		}
		shape := bd.Value.Shape()
		stmts = append(stmts, Statement{Shape: shape, Name: bd.Name, Value: bd.Value.Node()})
		vars[bd.Name] = NewVar(bd.Name, shape)
		names = append(names, bd.Name)
	}
	return Block{
		inputs: blk.inputs,
		scope:  Scope{names: names, vars: vars},
		stmts:  stmts,
	}, nil
}

// hasNilNode reports whether n or any of its operands is nil, as built from a zero
// value typed expression.
func hasNilNode(n glbuild.Node) bool {
	switch n := n.(type) {
	case nil:
		return true
	case glbuild.Call:
		return slices.ContainsFunc(n.Args, hasNilNode)
	case glbuild.Unary:
		return hasNilNode(n.X)
	case glbuild.Binary:
		return hasNilNode(n.X) || hasNilNode(n.Y)
	}
	return false
}

// Scope returns the names visible at the end of the block, inputs included.
func (blk Block) Scope() Scope {
	s := blk.scope
	s.errs = new([]error)
	return s
}

// Inputs returns the declared inputs of the block.
func (blk Block) Inputs() []Input { return slices.Clone(blk.inputs) }

// Statements returns the block's declarations in order.
func (blk Block) Statements() []Statement { return slices.Clone(blk.stmts) }

// Len returns the number of declarations in the block.
func (blk Block) Len() int { return len(blk.stmts) }

// Returns returns the variable reference to the block's "returns" binding, which is the
// result of the block. It fails with [ErrMissingReturn] if the binding does not exist.
// Inputs can not be returned.
func (blk Block) Returns() (Expr, error) {
	for _, st := range blk.stmts {
		if st.Name == ReturnName {
			return blk.scope.vars[ReturnName], nil
		}
	}
	return nil, ErrMissingReturn
}

// AppendStatements appends the GLSL declarations of the block separated by newlines to b.
func (blk Block) AppendStatements(b []byte, indent string) []byte {
	return glbuild.AppendStatements(b, indent, blk.glStatements())
}

// Source returns the GLSL declarations of the block separated by newlines.
func (blk Block) Source() string {
	return string(blk.AppendStatements(nil, ""))
}

func (blk Block) glStatements() []glbuild.Statement {
	stmts := make([]glbuild.Statement, len(blk.stmts))
	for i, st := range blk.stmts {
		stmts[i] = glbuild.Statement{Type: st.Shape.String(), Name: st.Name, Value: st.Value}
	}
	return stmts
}

// Function returns a GLSL function with the block's inputs as parameters
// that returns the "returns" binding.
func (blk Block) Function(name string) (glbuild.Function, error) {
	ret, err := blk.Returns()
	if err != nil {
		return glbuild.Function{}, fmt.Errorf("function %q: %w", name, err)
	}
	params := make([]glbuild.Param, len(blk.inputs))
	for i, in := range blk.inputs {
		params[i] = glbuild.Param{Type: in.Shape.String(), Name: in.Name}
	}
	fn := glbuild.Function{
		Name:   name,
		Return: ret.Shape().String(),
		Params: params,
		Body:   blk.glStatements(),
		Result: ret.Node(),
	}
	return fn, fn.Validate()
}

// Output assigns a binding of a block to a stage output variable.
type Output struct {
	Target  string
	Binding string
}

// Stage returns the main body of a shader stage which assigns the "returns" binding to target,
// i.e: gl_Position in a vertex shader. Additional outputs such as varyings are assigned after.
func (blk Block) Stage(target string, extra ...Output) (glbuild.Stage, error) {
	ret, err := blk.Returns()
	if err != nil {
		return glbuild.Stage{}, err
	}
	outs := make([]glbuild.Assign, 0, 1+len(extra))
	outs = append(outs, glbuild.Assign{Target: target, Value: ret.Node()})
	for _, out := range extra {
		v, ok := blk.scope.Lookup(out.Binding)
		if !ok {
			return glbuild.Stage{}, fmt.Errorf("%w: output %q binding %q", ErrUnknownBinding, out.Target, out.Binding)
		}
		outs = append(outs, glbuild.Assign{Target: out.Target, Value: v.Node()})
	}
	return glbuild.Stage{Body: blk.glStatements(), Outputs: outs}, nil
}

// Scope is an insertion ordered, read-only mapping of names to expressions. Every
// expression in a scope is a variable reference to its own name.
//
// Typed accessors such as [Scope.Vec3] record failed lookups instead of returning
// an error so they can be used inline inside a [Block.Define] function. Recorded
// errors are returned by [Scope.Err] and by Define.
type Scope struct {
	names []string
	vars  map[string]Expr
	errs  *[]error
}

// Lookup returns the expression bound to name.
func (s Scope) Lookup(name string) (Expr, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Has reports whether name is bound in s.
func (s Scope) Has(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// Len returns the number of names in scope.
func (s Scope) Len() int { return len(s.names) }

// Names returns the names in scope in the order they were bound.
func (s Scope) Names() []string { return slices.Clone(s.names) }

// Err returns the errors of failed lookups made with the typed accessors.
func (s Scope) Err() error {
	if s.errs == nil {
		return nil
	}
	return errors.Join(*s.errs...)
}

func (s Scope) errorf(format string, args ...any) {
	if s.errs != nil {
		*s.errs = append(*s.errs, fmt.Errorf(format, args...))
	}
}

func lookup[T Value](s Scope, name string) T {
	want := ShapeOf[T]()
	v, ok := s.vars[name]
	if !ok {
		s.errorf("%w: %q", ErrUnknownBinding, name)
	} else if v.Shape() != want {
		s.errorf("%w: %q is %s, not %s", ErrShapeMismatch, name, v.Shape(), want)
	}
	return Var[T](name)
}

// Get returns the binding name of shape T in s. Failed lookups are recorded in s, see [Scope].
func Get[T Value](s Scope, name string) T { return lookup[T](s, name) }

func (s Scope) Float(name string) Float { return lookup[Float](s, name) }
func (s Scope) Vec2(name string) Vec2   { return lookup[Vec2](s, name) }
func (s Scope) Vec3(name string) Vec3   { return lookup[Vec3](s, name) }
func (s Scope) Vec4(name string) Vec4   { return lookup[Vec4](s, name) }
func (s Scope) Mat2(name string) Mat2   { return lookup[Mat2](s, name) }
func (s Scope) Mat3(name string) Mat3   { return lookup[Mat3](s, name) }
func (s Scope) Mat4(name string) Mat4   { return lookup[Mat4](s, name) }
