//go:build !tinygo && cgo

package glexpraux

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/glexpr/gleval"
	"github.com/soypat/glexpr/glbuild"
)

func ui(p *glbuild.Program, cfg UIConfig) error {
	window, term, err := startGLFW(cfg.Width, cfg.Height, cfg.Title)
	if err != nil {
		return err
	}
	defer term()
	var src bytes.Buffer
	_, err = glbuild.NewDefaultProgrammer().WriteProgram(&src, p)
	if err != nil {
		return err
	}
	prog, err := gleval.CompileProgram(&src)
	if err != nil {
		return err
	}
	defer prog.Delete()
	prog.Bind()

	// Quad covering the screen.
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	vertices := []float32{
		-1.0, -1.0,
		1.0, -1.0,
		-1.0, 1.0,
		-1.0, 1.0,
		1.0, -1.0,
		1.0, 1.0,
	}
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(vertices), gl.Ptr(vertices), gl.STATIC_DRAW)
	posAttrib, err := prog.AttribLocation(positionAttrib)
	if err != nil {
		return err
	}
	gl.EnableVertexAttribArray(posAttrib)
	gl.VertexAttribPointer(posAttrib, 2, gl.FLOAT, false, 0, gl.PtrOffset(0))

	// Uniforms are optional, the fragment block may not read them.
	timeUniform := uniformLocation(prog, p, TimeUniform)
	resUniform := uniformLocation(prog, p, ResolutionUniform)

	start := glfw.GetTime()
	ctx := cfg.Context
	for !window.ShouldClose() {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		width, height := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(width), int32(height))
		gl.ClearColor(0.0, 0.0, 0.0, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		prog.Bind()
		if timeUniform >= 0 {
			gl.Uniform1f(timeUniform, float32(glfw.GetTime()-start))
		}
		if resUniform >= 0 {
			gl.Uniform2f(resUniform, float32(width), float32(height))
		}
		gl.BindVertexArray(vao)
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
		window.SwapBuffers()

		time.Sleep(time.Second / 60)
		glfw.PollEvents()
	}
	return nil
}

// uniformLocation returns -1 if the program does not declare the uniform
// or the driver optimized it away.
func uniformLocation(prog *gleval.GPUProgram, p *glbuild.Program, name string) int32 {
	for _, u := range p.Uniforms {
		if u.Name == name {
			loc, err := prog.UniformLocation(name)
			if err != nil {
				return -1
			}
			return loc
		}
	}
	return -1
}

func startGLFW(width, height int, title string) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("initializing GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err = glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("creating GLFW window: %w", err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	return window, glfw.Terminate, nil
}
