package glbuild

import (
	"errors"
	"fmt"
	"io"
)

// VersionStr is the default GLSL version directive written by [Programmer].
const VersionStr = "#version 330 core\n"

// Param is a typed GLSL identifier declaration, used for function parameters,
// uniforms, vertex attributes and varyings.
type Param struct {
	Type string
	Name string
}

// Function is a GLSL function whose body is a list of declarations followed by a single return statement:
//
//	<Return> <Name>(<Params>) {
//		<Body>
//		return <Result>;
//	}
type Function struct {
	Name   string
	Return string
	Params []Param
	Body   []Statement
	Result Node
}

// Assign writes the value of a node into an existing variable, i.e: a stage output.
type Assign struct {
	Target string
	Value  Node
}

// Stage is the main function body of a vertex or fragment shader.
type Stage struct {
	Body    []Statement
	Outputs []Assign
}

// Program is a complete vertex and fragment shader pair. Vertex outputs
// are assigned to gl_Position and Varyings, fragment outputs to FragOut.
type Program struct {
	// Version directive without the "#version" prefix. If empty [VersionStr] is used.
	Version    string
	Uniforms   []Param
	Attributes []Param
	Varyings   []Param
	// FragOut is the fragment color output declaration, typically vec4.
	FragOut  Param
	Vertex   Stage
	Fragment Stage
	// Functions are declared before main in both stages.
	Functions []Function
}

// Validate checks the program for missing declarations that would produce an unusable shader.
func (p *Program) Validate() error {
	if p.FragOut.Name == "" || p.FragOut.Type == "" {
		return errors.New("missing fragment output declaration")
	}
	if len(p.Vertex.Outputs) == 0 {
		return errors.New("vertex stage has no outputs, need gl_Position assignment")
	} else if len(p.Fragment.Outputs) == 0 {
		return errors.New("fragment stage has no outputs")
	}
	for _, fn := range p.Functions {
		if err := fn.Validate(); err != nil {
			return fmt.Errorf("function %q: %w", fn.Name, err)
		}
	}
	return nil
}

// Validate checks fn is complete.
func (fn *Function) Validate() error {
	if fn.Name == "" {
		return errors.New("empty function name")
	} else if fn.Return == "" {
		return errors.New("empty return type")
	} else if fn.Result == nil {
		return errors.New("missing return value")
	}
	return nil
}

// AppendFunction appends the GLSL definition of fn to b.
func AppendFunction(b []byte, fn Function) []byte {
	b = append(b, fn.Return...)
	b = append(b, ' ')
	b = append(b, fn.Name...)
	b = append(b, '(')
	for i, p := range fn.Params {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = append(b, p.Type...)
		b = append(b, ' ')
		b = append(b, p.Name...)
	}
	b = append(b, ") {\n"...)
	if len(fn.Body) > 0 {
		b = AppendStatements(b, "\t", fn.Body)
		b = append(b, '\n')
	}
	b = append(b, "\treturn "...)
	b = AppendNode(b, fn.Result)
	b = append(b, ";\n}\n"...)
	return b
}

// AppendStageMain appends a void main() function with the stage's declarations and output assignments.
func AppendStageMain(b []byte, st Stage) []byte {
	b = append(b, "void main() {\n"...)
	if len(st.Body) > 0 {
		b = AppendStatements(b, "\t", st.Body)
		b = append(b, '\n')
	}
	for _, out := range st.Outputs {
		b = append(b, '\t')
		b = append(b, out.Target...)
		b = append(b, " = "...)
		b = AppendNode(b, out.Value)
		b = append(b, ";\n"...)
	}
	b = append(b, "}\n"...)
	return b
}

func appendDecls(b []byte, qualifier string, params []Param) []byte {
	for _, p := range params {
		b = append(b, qualifier...)
		b = append(b, ' ')
		b = append(b, p.Type...)
		b = append(b, ' ')
		b = append(b, p.Name...)
		b = append(b, ";\n"...)
	}
	return b
}

// Programmer implements shader program generation from [Program] descriptions.
type Programmer struct {
	scratch []byte
}

// NewDefaultProgrammer returns a Programmer ready for use.
func NewDefaultProgrammer() *Programmer {
	return &Programmer{
		scratch: make([]byte, 0, 1024),
	}
}

func (p *Programmer) appendVersion(b []byte, version string) []byte {
	if version == "" {
		return append(b, VersionStr...)
	}
	b = append(b, "#version "...)
	b = append(b, version...)
	return append(b, '\n')
}

// AppendVertex appends the vertex shader source of prog to b.
func (p *Programmer) AppendVertex(b []byte, prog *Program) []byte {
	b = p.appendVersion(b, prog.Version)
	b = appendDecls(b, "uniform", prog.Uniforms)
	b = appendDecls(b, "in", prog.Attributes)
	b = appendDecls(b, "out", prog.Varyings)
	for _, fn := range prog.Functions {
		b = append(b, '\n')
		b = AppendFunction(b, fn)
	}
	b = append(b, '\n')
	return AppendStageMain(b, prog.Vertex)
}

// AppendFragment appends the fragment shader source of prog to b.
func (p *Programmer) AppendFragment(b []byte, prog *Program) []byte {
	b = p.appendVersion(b, prog.Version)
	b = appendDecls(b, "uniform", prog.Uniforms)
	b = appendDecls(b, "in", prog.Varyings)
	b = appendDecls(b, "out", []Param{prog.FragOut})
	for _, fn := range prog.Functions {
		b = append(b, '\n')
		b = AppendFunction(b, fn)
	}
	b = append(b, '\n')
	return AppendStageMain(b, prog.Fragment)
}

// WriteProgram writes the combined vertex and fragment shader source of prog to w.
// Each stage is preceded by a "#shader <stage>" line so that the result can be split with glgl.ParseCombined.
func (p *Programmer) WriteProgram(w io.Writer, prog *Program) (int, error) {
	err := prog.Validate()
	if err != nil {
		return 0, err
	}
	p.scratch = append(p.scratch[:0], "#shader vertex\n"...)
	p.scratch = p.AppendVertex(p.scratch, prog)
	p.scratch = append(p.scratch, "\n#shader fragment\n"...)
	p.scratch = p.AppendFragment(p.scratch, prog)
	return w.Write(p.scratch)
}

// WriteFunctions writes function definitions to w separated by blank lines.
func (p *Programmer) WriteFunctions(w io.Writer, fns ...Function) (n int, err error) {
	p.scratch = p.scratch[:0]
	for i := range fns {
		if err = fns[i].Validate(); err != nil {
			return 0, fmt.Errorf("function %q: %w", fns[i].Name, err)
		}
		if i > 0 {
			p.scratch = append(p.scratch, '\n')
		}
		p.scratch = AppendFunction(p.scratch, fns[i])
	}
	return w.Write(p.scratch)
}
