package regalloc

import "github.com/regalloc-lab/tacalloc/ir"

// AllocateTrivial allocates registers with a spill-everything strategy:
// virtual registers with id <= K-2 keep that same id as their physical
// register; every other virtual register is spilled on every reference. It
// does no liveness analysis at all, which makes it cheap and predictable
// but wasteful - package regalloc also offers AllocateColoring, which can
// reuse a physical register once its occupant's live range ends.
func AllocateTrivial(prog ir.Program, k int) (ir.Program, error) {
	if k < 4 {
		return ir.Program{}, ErrInsufficientRegisters
	}

	threshold := ir.Reg(k - 2)

	resolve := func(v ir.Reg) (ir.Reg, bool) {
		if v <= threshold {
			return v, false
		}

		return 0, true
	}

	return rewriteWithSpills(prog, k, resolve), nil
}
