//go:build tinygo || !cgo

package gleval

import (
	"errors"
	"io"

	"github.com/soypat/glexpr/glbuild"
)

var errNoCGO = errors.New("GPU compilation requires CGo and is not supported on TinyGo")

func Init1x1GLFW() (terminate func(), err error) {
	return nil, errNoCGO
}

type GPUProgram struct{}

func CompileProgram(combinedSource io.Reader) (*GPUProgram, error) {
	return nil, errNoCGO
}

func CheckProgram(prog *glbuild.Program) error {
	return errNoCGO
}

func (p *GPUProgram) Bind()   {}
func (p *GPUProgram) Unbind() {}
func (p *GPUProgram) Delete() {}

func (p *GPUProgram) UniformLocation(name string) (int32, error) { return -1, errNoCGO }
func (p *GPUProgram) AttribLocation(name string) (uint32, error) { return 0, errNoCGO }
func (p *GPUProgram) Err() error                                 { return errNoCGO }
