package main

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/soypat/glexpr"
)

func TestSession(t *testing.T) {
	var sess session
	out, err := sess.exec(":input a float")
	be.Err(t, err, nil)
	be.Equal(t, out, "float a")

	out, err = sess.exec("{d: {mult: [a, a]}, e: {sqrt: a}}")
	be.Err(t, err, nil)
	be.Equal(t, out, "float d = a * a;\nfloat e = sqrt(a);")

	_, err = sess.exec(":return")
	be.Err(t, err, glexpr.ErrMissingReturn)

	// Inputs declared late are visible to replayed definitions.
	_, err = sess.exec("{returns: {vec2: [d, b]}}")
	be.Err(t, err, glexpr.ErrUnknownBinding)
	_, err = sess.exec(":input b float")
	be.Err(t, err, nil)
	out, err = sess.exec("{returns: {vec2: [d, b]}}")
	be.Err(t, err, nil)
	be.Equal(t, out, "vec2 returns = vec2(d, b);")

	out, err = sess.exec(":return")
	be.Err(t, err, nil)
	be.Equal(t, out, "vec2 returns")

	out, err = sess.exec(":emit")
	be.Err(t, err, nil)
	be.Equal(t, out, "float d = a * a;\nfloat e = sqrt(a);\nvec2 returns = vec2(d, b);")

	out, err = sess.exec(":scope")
	be.Err(t, err, nil)
	be.Equal(t, out, "float a\nfloat b\nfloat d\nfloat e\nvec2 returns")
}

func TestSessionErrors(t *testing.T) {
	var sess session
	_, err := sess.exec(":input a vec9")
	be.Err(t, err, "unknown shape")
	_, err = sess.exec(":input a")
	be.Err(t, err, "usage")
	_, err = sess.exec(":bogus")
	be.Err(t, err, "unknown command")
	_, err = sess.exec(":quit")
	be.Err(t, err, errQuit)

	_, err = sess.exec(":input v vec2")
	be.Err(t, err, nil)
	_, err = sess.exec("{c: {cross: [v, v]}}")
	be.Err(t, err, glexpr.ErrInvalidOperation)
	_, err = sess.exec("{v: 1}")
	be.Err(t, err, glexpr.ErrDuplicateBinding)
	// Failed steps are not recorded.
	out, err := sess.exec(":emit")
	be.Err(t, err, nil)
	be.Equal(t, out, "")

	// Input clashing with a binding fails on replay and leaves the session unchanged.
	_, err = sess.exec("{w: {length: v}}")
	be.Err(t, err, nil)
	_, err = sess.exec(":input w float")
	be.Err(t, err, glexpr.ErrDuplicateBinding)
	out, err = sess.exec(":emit")
	be.Err(t, err, nil)
	be.Equal(t, out, "float w = length(v);")

	_, err = sess.exec(":reset")
	be.Err(t, err, nil)
	out, err = sess.exec(":scope")
	be.Err(t, err, nil)
	be.Equal(t, out, "")
}
