package glexpraux

import (
	"context"
	"fmt"

	"github.com/soypat/glexpr"
	"github.com/soypat/glexpr/glbuild"
)

// Names of the uniforms set by the preview window each frame.
const (
	TimeUniform       = "time"
	ResolutionUniform = "resolution"
	positionAttrib    = "aPos"
)

// UIConfig configures the interactive preview window.
type UIConfig struct {
	Width, Height int
	Title         string
	// UV is the name of the vec2 varying the fragment block reads. Defaults to [UVName].
	UV string
	// Functions callable from the fragment block.
	Functions []glbuild.Function
	// Context cancels the preview when done.
	Context context.Context
}

// PreviewProgram returns a program drawing frag over a fullscreen quad. Inputs of frag other than
// the uv varying must be a float named "time" (seconds since start) or a vec2 named "resolution" (pixels).
func PreviewProgram(frag glexpr.Block, uvName string, fns []glbuild.Function) (*glbuild.Program, error) {
	if uvName == "" {
		uvName = UVName
	}
	var uniforms []glbuild.Param
	for _, in := range frag.Inputs() {
		switch {
		case in.Name == uvName && in.Shape == glexpr.ShapeVec2:
		case in.Name == TimeUniform && in.Shape == glexpr.ShapeFloat,
			in.Name == ResolutionUniform && in.Shape == glexpr.ShapeVec2:
			uniforms = append(uniforms, glbuild.Param{Type: in.Shape.String(), Name: in.Name})
		default:
			return nil, fmt.Errorf("%w: preview can not supply input %s %s", glexpr.ErrUnknownBinding, in.Shape, in.Name)
		}
	}
	ret, err := frag.Returns()
	if err != nil {
		return nil, err
	} else if ret.Shape() != glexpr.ShapeVec4 {
		return nil, fmt.Errorf("%w: preview fragment must return vec4, got %s", glexpr.ErrShapeMismatch, ret.Shape())
	}

	vert, err := glexpr.NewBlock(glexpr.Input{Name: positionAttrib, Shape: glexpr.ShapeVec2})
	if err != nil {
		return nil, err
	}
	vert, err = vert.Define(func(s glexpr.Scope) ([]glexpr.Binding, error) {
		pos := s.Vec2(positionAttrib)
		clip, err := glexpr.Combine(pos, glexpr.Lit(0), glexpr.Lit(1)).AsVec4()
		return []glexpr.Binding{
			glexpr.Bind("texCoord", pos.Scale(glexpr.Lit(0.5)).Add(glexpr.LitVec2(0.5, 0.5))),
			glexpr.Bind(glexpr.ReturnName, clip),
		}, err
	})
	if err != nil {
		return nil, err
	}
	vstage, err := vert.Stage("gl_Position", glexpr.Output{Target: uvName, Binding: "texCoord"})
	if err != nil {
		return nil, err
	}
	fstage, err := frag.Stage("fragColor")
	if err != nil {
		return nil, err
	}
	prog := &glbuild.Program{
		Uniforms:   uniforms,
		Attributes: []glbuild.Param{{Type: "vec2", Name: positionAttrib}},
		Varyings:   []glbuild.Param{{Type: "vec2", Name: uvName}},
		FragOut:    glbuild.Param{Type: "vec4", Name: "fragColor"},
		Vertex:     vstage,
		Fragment:   fstage,
		Functions:  fns,
	}
	return prog, prog.Validate()
}

// Preview opens a window drawing frag until it is closed or the context is done. Requires cgo.
func Preview(frag glexpr.Block, cfg UIConfig) error {
	if cfg.Width == 0 || cfg.Height == 0 {
		cfg.Width, cfg.Height = 800, 600
	}
	if cfg.Title == "" {
		cfg.Title = "glexpr preview"
	}
	prog, err := PreviewProgram(frag, cfg.UV, cfg.Functions)
	if err != nil {
		return err
	}
	return ui(prog, cfg)
}
