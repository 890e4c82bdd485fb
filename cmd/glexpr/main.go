// Command glexpr generates GLSL from YAML shader program descriptions.
//
//	glexpr emit [-o out.glsl] prog.yaml      write generated GLSL
//	glexpr repl                              define bindings interactively
//	glexpr render [-o out.png] [-colormap gray|gradient|bands] prog.yaml
//	                                         render fragment block on CPU
//	glexpr check prog.yaml                   compile program with the OpenGL driver
//	glexpr preview prog.yaml                 draw fragment block in a window
//	glexpr version
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/pkg/errors"
	"github.com/soypat/glexpr"
	"github.com/soypat/glexpr/gldesc"
	"github.com/soypat/glexpr/gleval"
	"github.com/soypat/glexpr/glexpraux"
)

const usage = `usage: glexpr <command> [flags] [file]

commands:
  emit      write generated GLSL of a description
  repl      define bindings interactively
  render    render the fragment block of a description to PNG on the CPU
  check     compile the program of a description with the OpenGL driver
  preview   draw the fragment block of a description in a window
  version   print version information
`

func init() {
	// GLFW and OpenGL calls must be made from the main thread.
	runtime.LockOSThread()
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("glexpr: ")
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	args := os.Args[2:]
	var err error
	switch os.Args[1] {
	case "emit":
		err = cmdEmit(args)
	case "repl":
		err = cmdRepl(args)
	case "render":
		err = cmdRender(args)
	case "check":
		err = cmdCheck(args)
	case "preview":
		err = cmdPreview(args)
	case "version":
		cmdVersion()
	case "help", "-h", "-help", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprint(os.Stderr, usage)
		log.Fatalf("unknown command %q", os.Args[1])
	}
	if err != nil {
		log.Fatal(err)
	}
}

// loadArg parses flags of a subcommand and loads its single description file argument.
func loadArg(fs *flag.FlagSet, args []string) (*gldesc.Description, error) {
	err := fs.Parse(args)
	if err != nil {
		return nil, err
	} else if fs.NArg() != 1 {
		return nil, errors.Errorf("%s requires a single description file argument", fs.Name())
	}
	return gldesc.Load(fs.Arg(0))
}

func cmdEmit(args []string) error {
	fs := flag.NewFlagSet("emit", flag.ExitOnError)
	output := fs.String("o", "", "output file, stdout if empty")
	desc, err := loadArg(fs, args)
	if err != nil {
		return err
	}
	w := os.Stdout
	if *output != "" {
		w, err = os.Create(*output)
		if err != nil {
			return err
		}
		defer w.Close()
	}
	return errors.Wrap(desc.WriteGLSL(w), "writing GLSL")
}

func cmdRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	output := fs.String("o", "glexpr.png", "output PNG file")
	width := fs.Int("width", 256, "image width in pixels")
	height := fs.Int("height", 256, "image height in pixels")
	seconds := fs.Float64("time", 0, "value of the time uniform")
	caption := fs.String("caption", "", "caption drawn on image")
	uv := fs.String("uv", glexpraux.UVName, "name of the vec2 pixel coordinate input")
	silent := fs.Bool("silent", false, "do not print progress")
	cmap := fs.String("colormap", "gray", "color of float results: gray, gradient or bands")
	bandWidth := fs.Float64("band", 0.1, "band width of the bands colormap")
	desc, err := loadArg(fs, args)
	if err != nil {
		return err
	}
	floatColor, err := colormap(*cmap, float32(*bandWidth))
	if err != nil {
		return err
	}
	frag := fragmentBlock(desc)
	inputs := gleval.Inputs{}
	for _, in := range frag.Inputs() {
		switch {
		case in.Name == glexpraux.TimeUniform && in.Shape == glexpr.ShapeFloat:
			inputs[in.Name] = gleval.FloatValue(float32(*seconds))
		case in.Name == glexpraux.ResolutionUniform && in.Shape == glexpr.ShapeVec2:
			inputs[in.Name], _ = gleval.NewValue(glexpr.ShapeVec2, float32(*width), float32(*height))
		}
	}
	err = glexpraux.RenderPNGFile(*output, frag, glexpraux.RenderConfig{
		Width:      *width,
		Height:     *height,
		UV:         *uv,
		Inputs:     inputs,
		Functions:  desc.Functions,
		FloatColor: floatColor,
		Caption:    *caption,
		Silent:     *silent,
	})
	return errors.Wrap(err, "rendering")
}

// colormap returns the float color conversion named name. Gray is nil.
func colormap(name string, bandWidth float32) (func(float32) color.Color, error) {
	switch name {
	case "gray", "":
		return nil, nil
	case "gradient":
		return glexpraux.ColorConversionLinearGradient(color.RGBA{B: 128, A: 255}, color.RGBA{R: 255, G: 220, A: 255}), nil
	case "bands":
		if !(bandWidth > 0) {
			return nil, errors.Errorf("band width must be positive, got %v", bandWidth)
		}
		return glexpraux.ColorConversionBands(bandWidth), nil
	}
	return nil, errors.Errorf("unknown colormap %q, want gray, gradient or bands", name)
}

func cmdCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	desc, err := loadArg(fs, args)
	if err != nil {
		return err
	}
	prog := desc.Program
	if prog == nil {
		prog, err = glexpraux.PreviewProgram(desc.Block, "", desc.Functions)
		if err != nil {
			return errors.Wrap(err, "description has no stages and block is not previewable")
		}
	}
	terminate, err := gleval.Init1x1GLFW()
	if err != nil {
		return errors.Wrap(err, "initializing OpenGL")
	}
	defer terminate()
	err = gleval.CheckProgram(prog)
	if err != nil {
		return errors.Wrap(err, "compiling")
	}
	fmt.Println("ok", fs.Arg(0))
	return nil
}

func cmdPreview(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	width := fs.Int("width", 800, "window width")
	height := fs.Int("height", 600, "window height")
	uv := fs.String("uv", glexpraux.UVName, "name of the vec2 pixel coordinate varying")
	desc, err := loadArg(fs, args)
	if err != nil {
		return err
	}
	return glexpraux.Preview(fragmentBlock(desc), glexpraux.UIConfig{
		Width:     *width,
		Height:    *height,
		Title:     fs.Arg(0),
		UV:        *uv,
		Functions: desc.Functions,
	})
}

// fragmentBlock returns the block drawn by render and preview.
func fragmentBlock(desc *gldesc.Description) glexpr.Block {
	if desc.Program != nil {
		return desc.Fragment
	}
	return desc.Block
}

func cmdVersion() {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok {
		version = info.Main.Version
	}
	fmt.Println("glexpr", version, runtime.Version())
}
