package glexpraux

import (
	"image/color"

	math "github.com/chewxy/math32"
	"github.com/soypat/glexpr"
	"github.com/soypat/glexpr/gleval"
	"github.com/soypat/glgl/math/ms1"
)

// HSV interpolation logic adapted from Esme Lamb's (@dedelala)
// color manipulation work presented at Gophercon AU 2024.
// https://github.com/dedelala/disco/tree/main/color

var red = color.RGBA{R: 255, A: 255}

// ValueColor converts an evaluated value to a color. Floats are converted with
// floatColor, or as grayscale if nil. Vector components are read as red, green, blue
// and alpha in order, missing green and blue are zero and missing alpha is opaque.
// Components are clamped to 0..1 and NaN values are shown as red.
func ValueColor(v gleval.Value, floatColor func(float32) color.Color) color.Color {
	comps := v.Comps()
	for _, c := range comps {
		if math.IsNaN(c) {
			return red
		}
	}
	switch v.Shape {
	case glexpr.ShapeFloat:
		if floatColor != nil {
			return floatColor(comps[0])
		}
		return color.Gray{Y: unorm8(comps[0])}
	case glexpr.ShapeVec2:
		return color.RGBA{R: unorm8(comps[0]), G: unorm8(comps[1]), A: 255}
	case glexpr.ShapeVec3:
		return color.RGBA{R: unorm8(comps[0]), G: unorm8(comps[1]), B: unorm8(comps[2]), A: 255}
	case glexpr.ShapeVec4:
		// Non-premultiplied like a fragment shader output.
		return color.NRGBA{R: unorm8(comps[0]), G: unorm8(comps[1]), B: unorm8(comps[2]), A: unorm8(comps[3])}
	}
	return red
}

func unorm8(f float32) uint8 {
	return uint8(ms1.Clamp(f, 0, 1)*math.MaxUint8 + 0.5)
}

// ColorConversionLinearGradient creates a color conversion for float outputs that interpolates
// from c0 at t=0 to c1 at t=1 in HSV space. Values outside 0..1 are clamped.
func ColorConversionLinearGradient(c0, c1 color.Color) func(t float32) color.Color {
	h0, s0, v0 := colorToHSV(c0)
	h1, s1, v1 := colorToHSV(c1)
	return func(t float32) color.Color {
		if t <= 0 {
			return c0
		} else if t >= 1 {
			return c1
		}
		h, s, v := interpHSV(h0, s0, v0, h1, s1, v1, t)
		c := rgbToC(hsvToRGB(h, s, v))
		return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 255}
	}
}

// ColorConversionBands shows float outputs as alternating bands of width bandWidth
// smoothed at the edges, useful to inspect level sets of a field.
func ColorConversionBands(bandWidth float32) func(t float32) color.Color {
	inv := 1 / bandWidth
	return func(t float32) color.Color {
		x := t * inv
		f := x - math.Floor(x)
		edge := ms1.SmoothStep(0, 0.05, f) * (1 - ms1.SmoothStep(0.95, 1, f))
		base := ms1.Interp(0.3, 0.9, ms1.Clamp(t, 0, 1))
		return color.Gray{Y: unorm8(base * (0.75 + 0.25*edge))}
	}
}

func interpHSV(h0, s0, v0, h1, s1, v1, t float32) (h, s, v float32) {
	switch {
	case h1-h0 > 0.5:
		h0 += 1.0
	case h1-h0 < -0.5:
		h1 += 1.0
	}
	h = ms1.Interp(h0, h1, t)
	if h > 1 {
		h -= 1
	}
	s = ms1.Interp(s0, s1, t)
	v = ms1.Interp(v0, v1, t)
	return h, s, v
}

func colorToHSV(c color.Color) (h, s, v float32) {
	r0, g0, b0, _ := c.RGBA()
	return rgbToHSV(float32(r0>>8)/math.MaxUint8, float32(g0>>8)/math.MaxUint8, float32(b0>>8)/math.MaxUint8)
}

// rgbToC converts r, g, and b values on the range of 0.0 to 1.0 to a
// 24 bit RGB value stored in the least significant bits of a uint32.
func rgbToC(r, g, b float32) (c uint32) {
	return uint32(ms1.Clamp(r, 0, 1)*math.MaxUint8)<<16 |
		uint32(ms1.Clamp(g, 0, 1)*math.MaxUint8)<<8 |
		uint32(ms1.Clamp(b, 0, 1)*math.MaxUint8)
}

// hsvToRGB converts hue, saturation and brightness values on the range of 0.0
// to 1.0 to RGB floating point values on the range of 0.0 to 1.0
func hsvToRGB(h, s, v float32) (r, g, b float32) {
	var (
		c = s * v
		x = c * (1 - math.Abs(math.Mod(h*6, 2)-1))
		m = v - c
	)
	switch {
	case h >= 0 && h <= 1.0/6:
		r, g, b = c, x, 0
	case h > 1.0/6 && h <= 2.0/6:
		r, g, b = x, c, 0
	case h > 2.0/6 && h <= 3.0/6:
		r, g, b = 0, c, x
	case h > 3.0/6 && h <= 4.0/6:
		r, g, b = 0, x, c
	case h > 4.0/6 && h <= 5.0/6:
		r, g, b = x, 0, c
	case h > 5.0/6 && h <= 1.0:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}

// rgbToHSV converts red, green, and blue values on the range
// 0.0 to 1.0 to hue, saturation and brightness values on the range 0.0 to 1.0
func rgbToHSV(r, g, b float32) (h, s, v float32) {
	var (
		xmax = max(r, g, b)
		xmin = min(r, g, b)
		c    = xmax - xmin
	)
	v = xmax
	switch {
	case c == 0:
		h = 0
	case v == r:
		h = (g - b) / (c * 6)
	case v == g:
		h = 1.0/3 + (b-r)/(c*6)
	case v == b:
		h = 2.0/3 + (r-g)/(c*6)
	}
	if h < 0 {
		h += 1
	}
	if xmax > 0 {
		s = c / xmax
	}
	return h, s, v
}
