// Package glexpraux provides auxiliary rendering for shader expression blocks:
// CPU rendering of fragment blocks to PNG images and an interactive preview window.
package glexpraux

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"time"

	"github.com/golang/freetype/truetype"
	"github.com/soypat/glexpr"
	"github.com/soypat/glexpr/gleval"
	"github.com/soypat/glexpr/glbuild"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// UVName is the default name of the vec2 block input holding normalized pixel coordinates.
const UVName = "uv"

// RenderConfig configures CPU rendering of a fragment block.
type RenderConfig struct {
	Width, Height int
	// UV is the name of the vec2 input set to the pixel's coordinates in 0..1,
	// origin at the bottom left. Defaults to [UVName].
	UV string
	// Inputs holds values for block inputs other than UV, such as uniforms.
	Inputs gleval.Inputs
	// Functions callable from the block.
	Functions []glbuild.Function
	// FloatColor converts float block results to colors. Grayscale if nil.
	FloatColor func(float32) color.Color
	// Caption is drawn on the bottom left corner of the image if not empty.
	Caption string
	Silent  bool
}

// RenderImage evaluates frag on the CPU once per pixel and returns the resulting image.
// The "returns" binding of frag must be a float or vector.
func RenderImage(frag glexpr.Block, cfg RenderConfig) (*image.RGBA, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("image dimensions must be positive")
	}
	ret, err := frag.Returns()
	if err != nil {
		return nil, err
	} else if ret.Shape().IsMatrix() {
		return nil, fmt.Errorf("%w: can not render %s result", glexpr.ErrShapeMismatch, ret.Shape())
	}
	log := func(args ...any) {
		if !cfg.Silent {
			fmt.Println(args...)
		}
	}
	uvName := cfg.UV
	if uvName == "" {
		uvName = UVName
	}
	var ev gleval.Evaluator
	for _, fn := range cfg.Functions {
		if err := ev.DefineFunction(fn); err != nil {
			return nil, err
		}
	}
	inputs := make(gleval.Inputs, len(cfg.Inputs)+1)
	for name, v := range cfg.Inputs {
		inputs[name] = v
	}

	watch := stopwatch()
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	for y := 0; y < cfg.Height; y++ {
		v := 1 - (float32(y)+0.5)/float32(cfg.Height)
		for x := 0; x < cfg.Width; x++ {
			u := (float32(x) + 0.5) / float32(cfg.Width)
			inputs[uvName], _ = gleval.NewValue(glexpr.ShapeVec2, u, v)
			err = ev.Run(frag, inputs)
			if err != nil {
				return nil, fmt.Errorf("pixel (%d,%d): %w", x, y, err)
			}
			result, err := ev.Lookup(glexpr.ReturnName)
			if err != nil {
				return nil, err
			}
			img.Set(x, y, ValueColor(result, cfg.FloatColor))
		}
	}
	log("evaluated", cfg.Width*cfg.Height, "pixels in", watch())
	if cfg.Caption != "" {
		err = DrawCaption(img, cfg.Caption)
		if err != nil {
			return nil, err
		}
	}
	return img, nil
}

// RenderPNGFile renders frag on the CPU and saves the result to a PNG file with said filename.
func RenderPNGFile(filename string, frag glexpr.Block, cfg RenderConfig) error {
	img, err := RenderImage(frag, cfg)
	if err != nil {
		return err
	}
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = png.Encode(fp, img)
	if err != nil {
		return err
	}
	if !cfg.Silent {
		fmt.Println("wrote", filename)
	}
	return fp.Sync()
}

// DrawCaption draws a single line of text over a dark backdrop on the bottom left corner of img.
func DrawCaption(img draw.Image, caption string) error {
	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return err
	}
	const size = 12
	face := truetype.NewFace(ttf, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	defer face.Close()
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	bounds := img.Bounds()
	width := d.MeasureString(caption).Ceil()
	metrics := face.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil()
	const pad = 3
	backdrop := image.Rect(bounds.Min.X, bounds.Max.Y-height-2*pad, bounds.Min.X+width+2*pad, bounds.Max.Y)
	draw.Draw(img, backdrop.Intersect(bounds), image.NewUniform(color.RGBA{A: 160}), image.Point{}, draw.Over)
	d.Dot = fixed.P(bounds.Min.X+pad, bounds.Max.Y-pad-metrics.Descent.Ceil())
	d.DrawString(caption)
	return nil
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
