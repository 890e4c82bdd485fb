// Package golden extracts golden test cases from Markdown documents. A test case
// starts at a heading "Test: <name>" and is followed by a yaml fence holding a
// program description and either a glsl fence with the expected generated source
// or an error fence with text the decoding error must contain.
package golden

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fence languages recognized inside test cases.
const (
	FenceInput = "yaml"
	FenceGLSL  = "glsl"
	FenceError = "error"
)

// Case is a golden test case.
type Case struct {
	Name  string
	Input string
	// Expected source, empty if the case expects an error.
	Want string
	// WantErr is text the error must contain, empty if the case expects success.
	WantErr string
	// Line of the test heading in the source file.
	Line int
}

// Extract parses a Markdown document and extracts all test cases in order.
func Extract(markdown []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(markdown))
	var cases []Case
	var current *Case
	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, markdown)
			name, ok := strings.CutPrefix(heading, "Test: ")
			if !ok {
				return ast.WalkContinue, nil
			}
			if current != nil {
				if err := current.validate(); err != nil {
					return ast.WalkStop, err
				}
				cases = append(cases, *current)
			}
			current = &Case{Name: name, Line: lineOf(n, markdown)}

		case *ast.FencedCodeBlock:
			lang := string(n.Language(markdown))
			line := lineOf(n, markdown)
			if current == nil {
				if lang != "" {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of test case", line, lang)
				}
				return ast.WalkContinue, nil
			}
			content := strings.TrimRight(fenceContent(n, markdown), "\n")
			var dst *string
			switch lang {
			case FenceInput:
				dst = &current.Input
			case FenceGLSL:
				dst = &current.Want
			case FenceError:
				dst = &current.WantErr
			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language %q in test %q", line, lang, current.Name)
			}
			if *dst != "" {
				return ast.WalkStop, fmt.Errorf("line %d: multiple %s fences in test %q", line, lang, current.Name)
			}
			*dst = content
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if current != nil {
		if err := current.validate(); err != nil {
			return nil, err
		}
		cases = append(cases, *current)
	}
	return cases, nil
}

// ExtractFiles extracts the test cases of all files matching the glob pattern.
// Case names are prefixed with the file's base name.
func ExtractFiles(pattern string) ([]Case, error) {
	filenames, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	var cases []Case
	for _, filename := range filenames {
		md, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		fileCases, err := Extract(md)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		for i := range fileCases {
			fileCases[i].Name = base + "/" + fileCases[i].Name
		}
		cases = append(cases, fileCases...)
	}
	return cases, nil
}

func (c *Case) validate() error {
	if c.Input == "" {
		return fmt.Errorf("line %d: test %q has no %s fence", c.Line, c.Name, FenceInput)
	} else if c.Want == "" && c.WantErr == "" {
		return fmt.Errorf("line %d: test %q has no %s or %s fence", c.Line, c.Name, FenceGLSL, FenceError)
	} else if c.Want != "" && c.WantErr != "" {
		return fmt.Errorf("line %d: test %q expects both source and error", c.Line, c.Name)
	}
	return nil
}

func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(fence *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := fence.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	return 1 + bytes.Count(source[:min(start, len(source))], []byte{'\n'})
}
