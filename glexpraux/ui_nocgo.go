//go:build tinygo || !cgo

package glexpraux

import (
	"errors"

	"github.com/soypat/glexpr/glbuild"
)

func ui(p *glbuild.Program, cfg UIConfig) error {
	return errors.New("require cgo for preview window")
}
