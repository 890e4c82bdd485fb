// Package gldesc loads shader program descriptions written in YAML. Expressions
// in a description are built with the runtime operation catalog ([glexpr.Apply]) so
// invalid operations are reported with the line they were found on.
//
// A description declares either a single block:
//
//	inputs: {a: float, b: float}
//	define:
//	  - returns: {vec2: [a, b]}
//
// or a complete program with vertex and fragment stages, see [Description].
//
// Shape constructors take their operands in one of two orders. A list made only of
// numbers with as many entries as the shape has components is a literal, and matrix
// literals are written row-major: {mat2: [1, 2, 3, 4]} is the matrix with first row
// (1, 2). Any other list is combined in GLSL constructor order, which fills matrices
// column by column: {mat2: [a, b, c, d]} has first column (a, b).
package gldesc

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/soypat/glexpr"
	"github.com/soypat/glexpr/glbuild"
	"gopkg.in/yaml.v3"
)

// Description is a decoded program description.
type Description struct {
	// Block is the top level block of descriptions without stages.
	Block glexpr.Block
	// Functions are the user defined functions in declaration order.
	Functions []glbuild.Function
	// Program is nil for descriptions without vertex and fragment stages.
	Program *glbuild.Program
	// Vertex and Fragment are the blocks of the program's stages.
	Vertex   glexpr.Block
	Fragment glexpr.Block
}

type document struct {
	Version    string        `yaml:"version"`
	Inputs     yaml.Node     `yaml:"inputs"`
	Define     []yaml.Node   `yaml:"define"`
	Uniforms   yaml.Node     `yaml:"uniforms"`
	Attributes yaml.Node     `yaml:"attributes"`
	Varyings   yaml.Node     `yaml:"varyings"`
	Functions  []functionDoc `yaml:"functions"`
	Vertex     *stageDoc     `yaml:"vertex"`
	Fragment   *stageDoc     `yaml:"fragment"`
}

type functionDoc struct {
	Name   string      `yaml:"name"`
	Inputs yaml.Node   `yaml:"inputs"`
	Define []yaml.Node `yaml:"define"`
}

type stageDoc struct {
	Define []yaml.Node `yaml:"define"`
	// Outputs maps output variables to the bindings assigned to them.
	Outputs yaml.Node `yaml:"outputs"`
	// Out declares the fragment color output, defaults to "vec4 fragColor".
	Out yaml.Node `yaml:"out"`
}

// Load reads and decodes the description in the named file.
func Load(filename string) (*Description, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	desc, err := Decode(fp)
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}
	return desc, nil
}

// Decode decodes a description from r.
func Decode(r io.Reader) (*Description, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(&doc)
	if err != nil {
		return nil, errors.Wrap(err, "decoding yaml")
	}
	return doc.build()
}

// DecodeString decodes a description from a string.
func DecodeString(s string) (*Description, error) {
	return Decode(strings.NewReader(s))
}

func (doc *document) build() (*Description, error) {
	var desc Description
	fns := make(map[string]glbuild.Function)
	for _, fd := range doc.Functions {
		if fd.Name == "" {
			return nil, errors.New("function with no name")
		} else if _, dup := fns[fd.Name]; dup {
			return nil, errors.Wrapf(glexpr.ErrDuplicateBinding, "function %q", fd.Name)
		}
		inputs, err := decodeInputs(&fd.Inputs)
		if err != nil {
			return nil, errors.Wrapf(err, "function %q inputs", fd.Name)
		}
		blk, err := buildBlock(inputs, fd.Define, fns)
		if err != nil {
			return nil, errors.Wrapf(err, "function %q", fd.Name)
		}
		fn, err := blk.Function(fd.Name)
		if err != nil {
			return nil, err
		}
		fns[fd.Name] = fn
		desc.Functions = append(desc.Functions, fn)
	}

	if doc.Vertex == nil && doc.Fragment == nil {
		inputs, err := decodeInputs(&doc.Inputs)
		if err != nil {
			return nil, errors.Wrap(err, "inputs")
		}
		desc.Block, err = buildBlock(inputs, doc.Define, fns)
		if err != nil {
			return nil, err
		}
		return &desc, nil
	} else if doc.Vertex == nil || doc.Fragment == nil {
		return nil, errors.New("program needs both vertex and fragment stages")
	} else if len(doc.Define) > 0 || !isEmpty(&doc.Inputs) {
		return nil, errors.New("top level inputs and define not allowed in program with stages")
	}

	uniforms, err := decodeInputs(&doc.Uniforms)
	if err != nil {
		return nil, errors.Wrap(err, "uniforms")
	}
	attributes, err := decodeInputs(&doc.Attributes)
	if err != nil {
		return nil, errors.Wrap(err, "attributes")
	}
	varyings, err := decodeInputs(&doc.Varyings)
	if err != nil {
		return nil, errors.Wrap(err, "varyings")
	}
	prog := &glbuild.Program{
		Version:    doc.Version,
		Uniforms:   params(uniforms),
		Attributes: params(attributes),
		Varyings:   params(varyings),
		FragOut:    glbuild.Param{Type: "vec4", Name: "fragColor"},
		Functions:  desc.Functions,
	}
	if !isEmpty(&doc.Fragment.Out) {
		out, err := decodeInputs(&doc.Fragment.Out)
		if err != nil {
			return nil, errors.Wrap(err, "fragment out")
		} else if len(out) != 1 {
			return nil, errors.Errorf("line %d: fragment out must declare a single variable", doc.Fragment.Out.Line)
		}
		prog.FragOut = glbuild.Param{Type: out[0].Shape.String(), Name: out[0].Name}
	}

	desc.Vertex, prog.Vertex, err = buildStage(doc.Vertex, concat(uniforms, attributes), fns, "gl_Position")
	if err != nil {
		return nil, errors.Wrap(err, "vertex")
	}
	desc.Fragment, prog.Fragment, err = buildStage(doc.Fragment, concat(uniforms, varyings), fns, prog.FragOut.Name)
	if err != nil {
		return nil, errors.Wrap(err, "fragment")
	}
	desc.Program = prog
	return &desc, prog.Validate()
}

func buildStage(sd *stageDoc, inputs []glexpr.Input, fns map[string]glbuild.Function, target string) (glexpr.Block, glbuild.Stage, error) {
	blk, err := buildBlock(inputs, sd.Define, fns)
	if err != nil {
		return blk, glbuild.Stage{}, err
	}
	outs, err := decodeOutputs(&sd.Outputs)
	if err != nil {
		return blk, glbuild.Stage{}, err
	}
	st, err := blk.Stage(target, outs...)
	return blk, st, err
}

func buildBlock(inputs []glexpr.Input, steps []yaml.Node, fns map[string]glbuild.Function) (glexpr.Block, error) {
	blk, err := glexpr.NewBlock(inputs...)
	if err != nil {
		return blk, err
	}
	for i := range steps {
		blk, err = DefineStep(blk, &steps[i], fns)
		if err != nil {
			return blk, err
		}
	}
	return blk, nil
}

// DefineStep extends blk with the bindings of a single define step, a YAML mapping of
// names to expressions. Bindings are added in mapping order within one [glexpr.Block.Define] call
// so a step can not reference its own bindings. fns are the user defined functions callable by name.
func DefineStep(blk glexpr.Block, step *yaml.Node, fns map[string]glbuild.Function) (glexpr.Block, error) {
	if step.Kind != yaml.MappingNode {
		return blk, errors.Errorf("line %d: define step must be a mapping of names to expressions", step.Line)
	}
	return blk.Define(func(s glexpr.Scope) ([]glexpr.Binding, error) {
		d := exprDecoder{scope: s, fns: fns}
		bindings := make([]glexpr.Binding, 0, len(step.Content)/2)
		for i := 0; i < len(step.Content); i += 2 {
			name, value := step.Content[i], step.Content[i+1]
			e, err := d.decode(value)
			if err != nil {
				return nil, errors.Wrapf(err, "binding %q", name.Value)
			}
			bindings = append(bindings, glexpr.Bind(name.Value, e))
		}
		return bindings, nil
	})
}

// DecodeExpr decodes a single expression node with names resolved in scope s.
func DecodeExpr(s glexpr.Scope, n *yaml.Node, fns map[string]glbuild.Function) (glexpr.Expr, error) {
	d := exprDecoder{scope: s, fns: fns}
	return d.decode(n)
}

type exprDecoder struct {
	scope glexpr.Scope
	fns   map[string]glbuild.Function
}

// decode decodes an expression:
//   - a number is a float literal.
//   - a string is a reference to a name in scope.
//   - {op: [recv, args...]} or {op: recv} applies a catalog operation.
//   - {shape: [numbers...]} is a literal, matrices in row-major order.
//   - {shape: [exprs...]} combines the expressions' components as shape.
//   - {fn: [args...]} calls a user defined function.
func (d *exprDecoder) decode(n *yaml.Node) (glexpr.Expr, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return d.decode(n.Alias)
	case yaml.ScalarNode:
		if n.Tag == "!!int" || n.Tag == "!!float" {
			f, err := strconv.ParseFloat(n.Value, 32)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", n.Line)
			}
			return glexpr.Lit(float32(f)), nil
		}
		e, ok := d.scope.Lookup(n.Value)
		if !ok {
			return nil, errors.Wrapf(glexpr.ErrUnknownBinding, "line %d: %q", n.Line, n.Value)
		}
		return e, nil
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, errors.Errorf("line %d: expression mapping must have a single key", n.Line)
		}
		key, val := n.Content[0], n.Content[1]
		args := []*yaml.Node{val}
		if val.Kind == yaml.SequenceNode {
			args = val.Content
		}
		if len(args) == 0 {
			return nil, errors.Errorf("line %d: %q has no operands", key.Line, key.Value)
		}
		if op, err := glexpr.ParseOp(key.Value); err == nil {
			return d.apply(op, key.Line, args)
		}
		if shape, err := glexpr.ParseShape(key.Value); err == nil {
			return d.construct(shape, key.Line, args)
		}
		if fn, ok := d.fns[key.Value]; ok {
			exprs, err := d.decodeAll(args)
			if err != nil {
				return nil, err
			}
			e, err := glexpr.CallFunction(fn, exprs...)
			return e, errors.Wrapf(err, "line %d", key.Line)
		}
		return nil, errors.Wrapf(glexpr.ErrInvalidOperation, "line %d: unknown operation, shape or function %q", key.Line, key.Value)
	}
	return nil, errors.Errorf("line %d: unexpected %s in expression", n.Line, kindName(n.Kind))
}

func (d *exprDecoder) decodeAll(nodes []*yaml.Node) ([]glexpr.Expr, error) {
	exprs := make([]glexpr.Expr, len(nodes))
	for i, arg := range nodes {
		e, err := d.decode(arg)
		if err != nil {
			return nil, err
		}
		exprs[i] = e
	}
	return exprs, nil
}

func (d *exprDecoder) apply(op glexpr.Op, line int, args []*yaml.Node) (glexpr.Expr, error) {
	exprs, err := d.decodeAll(args)
	if err != nil {
		return nil, err
	}
	e, err := glexpr.Apply(op, exprs[0], exprs[1:]...)
	if err != nil {
		return nil, errors.Wrapf(err, "line %d", line)
	}
	return e, nil
}

func (d *exprDecoder) construct(s glexpr.Shape, line int, args []*yaml.Node) (glexpr.Expr, error) {
	if comps, ok := numbers(args); ok && len(comps) == s.Arity() {
		e, err := glexpr.NewLiteral(s, comps...)
		return e, errors.Wrapf(err, "line %d", line)
	}
	exprs, err := d.decodeAll(args)
	if err != nil {
		return nil, err
	}
	e, err := glexpr.Combine(exprs...).As(s)
	if err != nil {
		return nil, errors.Wrapf(err, "line %d", line)
	}
	return e, nil
}

func numbers(nodes []*yaml.Node) ([]float32, bool) {
	comps := make([]float32, len(nodes))
	for i, n := range nodes {
		if n.Kind != yaml.ScalarNode || (n.Tag != "!!int" && n.Tag != "!!float") {
			return nil, false
		}
		f, err := strconv.ParseFloat(n.Value, 32)
		if err != nil {
			return nil, false
		}
		comps[i] = float32(f)
	}
	return comps, true
}

// decodeInputs decodes an ordered mapping of names to shapes.
func decodeInputs(n *yaml.Node) ([]glexpr.Input, error) {
	if isEmpty(n) {
		return nil, nil
	} else if n.Kind != yaml.MappingNode {
		return nil, errors.Errorf("line %d: expected mapping of names to shapes", n.Line)
	}
	inputs := make([]glexpr.Input, 0, len(n.Content)/2)
	for i := 0; i < len(n.Content); i += 2 {
		name, typ := n.Content[i], n.Content[i+1]
		shape, err := glexpr.ParseShape(typ.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", typ.Line)
		}
		inputs = append(inputs, glexpr.Input{Name: name.Value, Shape: shape})
	}
	return inputs, nil
}

// decodeOutputs decodes an ordered mapping of output variables to binding names.
func decodeOutputs(n *yaml.Node) ([]glexpr.Output, error) {
	if isEmpty(n) {
		return nil, nil
	} else if n.Kind != yaml.MappingNode {
		return nil, errors.Errorf("line %d: expected mapping of outputs to bindings", n.Line)
	}
	outs := make([]glexpr.Output, 0, len(n.Content)/2)
	for i := 0; i < len(n.Content); i += 2 {
		outs = append(outs, glexpr.Output{Target: n.Content[i].Value, Binding: n.Content[i+1].Value})
	}
	return outs, nil
}

func isEmpty(n *yaml.Node) bool {
	return n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

func params(inputs []glexpr.Input) []glbuild.Param {
	ps := make([]glbuild.Param, len(inputs))
	for i, in := range inputs {
		ps[i] = glbuild.Param{Type: in.Shape.String(), Name: in.Name}
	}
	return ps
}

func concat(a, b []glexpr.Input) []glexpr.Input {
	return append(append(make([]glexpr.Input, 0, len(a)+len(b)), a...), b...)
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "node"
}

// WriteGLSL writes the generated source of the description to w. Programs are written as
// combined vertex and fragment source. Otherwise the function definitions are written
// followed by the block's declarations.
func (desc *Description) WriteGLSL(w io.Writer) error {
	programmer := glbuild.NewDefaultProgrammer()
	if desc.Program != nil {
		_, err := programmer.WriteProgram(w, desc.Program)
		return err
	}
	if len(desc.Functions) > 0 {
		_, err := programmer.WriteFunctions(w, desc.Functions...)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, "\n")
		if err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, desc.Block.Source()+"\n")
	return err
}
