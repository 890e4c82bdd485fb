//go:build !tinygo && cgo

package gleval

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/soypat/glexpr/glbuild"
	"github.com/soypat/glgl/v4.6-core/glgl"
)

// Init1x1GLFW starts a 1x1 sized hidden GLFW window with a current OpenGL context so that
// programs can be compiled. It returns a termination function that should be called when done.
func Init1x1GLFW() (terminate func(), err error) {
	_, terminate, err = glgl.InitWithCurrentWindow33(glgl.WindowConfig{
		Title:   "compile",
		Version: [2]int{4, 6},
		Width:   1,
		Height:  1,
	})
	return terminate, err
}

// GPUProgram is a linked shader program compiled by the OpenGL driver.
type GPUProgram struct {
	prog glgl.Program
}

// CompileProgram compiles and links combined shader source as written by
// [glbuild.Programmer.WriteProgram]. A current OpenGL context is required, see [Init1x1GLFW].
func CompileProgram(combinedSource io.Reader) (*GPUProgram, error) {
	src, err := glgl.ParseCombined(combinedSource)
	if err != nil {
		return nil, err
	}
	// The GL requires null terminated sources.
	src.Vertex = nullTerminate(src.Vertex)
	src.Fragment = nullTerminate(src.Fragment)
	prog, err := glgl.CompileProgram(src)
	if err != nil {
		return nil, fmt.Errorf("%s\n%s\n%w", strings.TrimSuffix(src.Vertex, "\x00"), strings.TrimSuffix(src.Fragment, "\x00"), err)
	}
	return &GPUProgram{prog: prog}, nil
}

func nullTerminate(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

// CheckProgram generates the source of prog and compiles it, returning the driver's
// diagnostics on failure. The compiled program is discarded.
func CheckProgram(prog *glbuild.Program) error {
	var buf bytes.Buffer
	programmer := glbuild.NewDefaultProgrammer()
	_, err := programmer.WriteProgram(&buf, prog)
	if err != nil {
		return err
	}
	gp, err := CompileProgram(&buf)
	if err != nil {
		return err
	}
	gp.Delete()
	return nil
}

// Bind installs the program as part of the current rendering state.
func (p *GPUProgram) Bind() { p.prog.Bind() }

// Unbind uninstalls the program.
func (p *GPUProgram) Unbind() { p.prog.Unbind() }

// UniformLocation returns the location of a uniform declared in the program.
func (p *GPUProgram) UniformLocation(name string) (int32, error) {
	return p.prog.UniformLocation(name + "\x00")
}

// AttribLocation returns the location of a vertex attribute declared in the program.
func (p *GPUProgram) AttribLocation(name string) (uint32, error) {
	return p.prog.AttribLocation(name + "\x00")
}

// Delete frees the program's GPU resources.
func (p *GPUProgram) Delete() {
	if p.prog.ID() == 0 {
		return
	}
	p.prog.Delete()
}

var errProgramDeleted = errors.New("program deleted")

// Err returns an error if the program has been deleted or failed to link.
func (p *GPUProgram) Err() error {
	if p == nil || p.prog.ID() == 0 {
		return errProgramDeleted
	}
	return glgl.Err()
}
