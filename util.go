package pcfg

import (
	"github.com/pkg/errors"
)

// Errors reported for malformed grammars. Use errors.Cause to match them
var (
	ErrSyntax      = errors.New("pcfg: syntax error")
	ErrProbability = errors.New("pcfg: invalid probability")
	ErrNoStart     = errors.New("pcfg: no start symbol")
	ErrNotCNF      = errors.New("pcfg: rule is not in Chomsky normal form")
	ErrUnitCycle   = errors.New("pcfg: cyclic unit rules")
)

// atLine annotates err with the grammar line it came from
func atLine(err error, line int) error {
	if line == 0 {
		return err
	}
	return errors.Wrapf(err, "line %d", line)
}
