package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/peterh/liner"
	"github.com/soypat/glexpr"
	"github.com/soypat/glexpr/glbuild"
	"github.com/soypat/glexpr/gldesc"
	"gopkg.in/yaml.v3"
)

const (
	historyFile = ".glexpr_history"
	prompt      = "glexpr> "
	replHelp    = `Each line is a define step, a YAML flow mapping of names to expressions:
  {n: {normalize: v}, d: {dot: [v, w]}}
Commands:
  :input <name> <shape>   declare a block input
  :emit                   print the block's declarations
  :return                 print the returns binding
  :scope                  list names in scope
  :reset                  discard inputs and bindings
  :help                   print this help
  :quit                   exit
`
)

var errQuit = errors.New("quit")

func cmdRepl(args []string) error {
	if len(args) > 0 {
		return pkgerrors.Errorf("repl takes no arguments, got %q", args)
	}
	fmt.Println("glexpr REPL. Type :help for commands, Ctrl+D exits.")
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	var sess session
	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		} else if errors.Is(err, liner.ErrPromptAborted) {
			continue
		} else if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		out, err := sess.exec(line)
		if errors.Is(err, errQuit) {
			return nil
		} else if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}
}

// session holds the block built by a REPL session. Inputs can be declared
// at any time, the define steps are replayed over the new inputs.
type session struct {
	inputs []glexpr.Input
	steps  []*yaml.Node
	blk    glexpr.Block
}

// exec runs a single REPL line and returns the text to print.
func (sess *session) exec(line string) (string, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ":") {
		return sess.define(line)
	}
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q":
		return "", errQuit
	case ":help":
		return strings.TrimRight(replHelp, "\n"), nil
	case ":input":
		if len(fields) != 3 {
			return "", pkgerrors.New("usage: :input <name> <shape>")
		}
		shape, err := glexpr.ParseShape(fields[2])
		if err != nil {
			return "", err
		}
		inputs := append(sess.inputs[:len(sess.inputs):len(sess.inputs)], glexpr.Input{Name: fields[1], Shape: shape})
		blk, err := replay(inputs, sess.steps)
		if err != nil {
			return "", err
		}
		sess.inputs, sess.blk = inputs, blk
		return fmt.Sprintf("%s %s", shape, fields[1]), nil
	case ":emit":
		return sess.blk.Source(), nil
	case ":return":
		ret, err := sess.blk.Returns()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s", ret.Shape(), glexpr.Format(ret)), nil
	case ":scope":
		s := sess.blk.Scope()
		var b strings.Builder
		for i, name := range s.Names() {
			e, _ := s.Lookup(name)
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%s %s", e.Shape(), name)
		}
		return b.String(), nil
	case ":reset":
		*sess = session{}
		return "", nil
	}
	return "", pkgerrors.Errorf("unknown command %q, type :help for commands", fields[0])
}

func (sess *session) define(line string) (string, error) {
	var doc yaml.Node
	err := yaml.Unmarshal([]byte(line), &doc)
	if err != nil {
		return "", err
	} else if len(doc.Content) != 1 {
		return "", pkgerrors.New("expected a single mapping")
	}
	step := doc.Content[0]
	before := sess.blk.Len()
	blk, err := gldesc.DefineStep(sess.blk, step, nil)
	if err != nil {
		return "", err
	}
	sess.blk = blk
	sess.steps = append(sess.steps, step)
	var b []byte
	for i, st := range blk.Statements()[before:] {
		if i > 0 {
			b = append(b, '\n')
		}
		b = glbuild.AppendStatement(b, glbuild.Statement{Type: st.Shape.String(), Name: st.Name, Value: st.Value})
	}
	return string(b), nil
}

func replay(inputs []glexpr.Input, steps []*yaml.Node) (glexpr.Block, error) {
	blk, err := glexpr.NewBlock(inputs...)
	if err != nil {
		return blk, err
	}
	for _, step := range steps {
		blk, err = gldesc.DefineStep(blk, step, nil)
		if err != nil {
			return blk, pkgerrors.Wrap(err, "replaying definitions with new input")
		}
	}
	return blk, nil
}
