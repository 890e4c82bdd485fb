package golden

import (
	"testing"

	"github.com/nalgeon/be"
)

const fence = "```"

func TestExtract(t *testing.T) {
	md := `# Combiners

Text outside tests is ignored.

## Test: vec2 of floats
` + fence + `yaml
inputs: {a: float, b: float}
define:
  - returns: {vec2: [a, b]}
` + fence + `
` + fence + `glsl
vec2 returns = vec2(a, b);
` + fence + `

## Test: bad arity
` + fence + `yaml
inputs: {a: float}
define:
  - returns: {vec2: [a]}
` + fence + `
` + fence + `error
shape mismatch
` + fence + `
`
	cases, err := Extract([]byte(md))
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	be.Equal(t, cases[0].Name, "vec2 of floats")
	be.Equal(t, cases[0].Input, "inputs: {a: float, b: float}\ndefine:\n  - returns: {vec2: [a, b]}")
	be.Equal(t, cases[0].Want, "vec2 returns = vec2(a, b);")
	be.Equal(t, cases[0].WantErr, "")
	be.Equal(t, cases[0].Line, 5)

	be.Equal(t, cases[1].Name, "bad arity")
	be.Equal(t, cases[1].Want, "")
	be.Equal(t, cases[1].WantErr, "shape mismatch")
}

func TestExtractEmpty(t *testing.T) {
	cases, err := Extract(nil)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 0)
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name string
		md   string
		want string
	}{
		{
			name: "fence outside test",
			md:   fence + "yaml\na: 1\n" + fence + "\n",
			want: "outside of test case",
		},
		{
			name: "unknown fence",
			md:   "## Test: x\n" + fence + "yaml\na: 1\n" + fence + "\n" + fence + "wgsl\nx\n" + fence + "\n",
			want: "unknown fence language",
		},
		{
			name: "no input",
			md:   "## Test: x\n" + fence + "glsl\nfloat a = 1.0;\n" + fence + "\n",
			want: "has no yaml fence",
		},
		{
			name: "no expectation",
			md:   "## Test: x\n" + fence + "yaml\na: 1\n" + fence + "\n",
			want: "has no glsl or error fence",
		},
		{
			name: "duplicate input",
			md:   "## Test: x\n" + fence + "yaml\na: 1\n" + fence + "\n" + fence + "yaml\nb: 1\n" + fence + "\n",
			want: "multiple yaml fences",
		},
		{
			name: "both expectations",
			md:   "## Test: x\n" + fence + "yaml\na: 1\n" + fence + "\n" + fence + "glsl\nx\n" + fence + "\n" + fence + "error\nx\n" + fence + "\n",
			want: "expects both",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Extract([]byte(test.md))
			be.Err(t, err, test.want)
		})
	}
}
