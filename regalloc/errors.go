package regalloc

import (
	"errors"
	"fmt"

	"github.com/regalloc-lab/tacalloc/ir"
)

// ErrInsufficientRegisters is returned when K is too small to reserve the
// two scratch registers both allocation strategies depend on.
var ErrInsufficientRegisters = errors.New("regalloc: K must be >= 4 to reserve two scratch registers")

// ErrMalformedIR is returned when a virtual register is read before any
// instruction defines it.
var ErrMalformedIR = errors.New("regalloc: register used before definition")

// malformedIRError wraps ErrMalformedIR with the offending register and
// instruction index so callers can report a useful diagnostic.
type malformedIRError struct {
	reg ir.Reg
	pc  int
}

func (e *malformedIRError) Error() string {
	return fmt.Sprintf("regalloc: register %s used before definition at instruction %d", e.reg, e.pc)
}

func (e *malformedIRError) Unwrap() error {
	return ErrMalformedIR
}
