package regalloc

import "github.com/regalloc-lab/tacalloc/ir"

// simplifyAndSpill runs the simplify/spill worklist against a working copy
// of the interference graph, destructively popping nodes until none remain.
// regs must be sorted ascending and is the full set of virtual registers
// under consideration this pass.
//
// Tie-breaking is strict and load-bearing: "lowest-indexed" always means
// ascending register id, both for the simplify step and the forced-spill
// step, so that (program, K) always produces the same removal order and
// therefore the same coloring (the determinism property tests rely on).
func simplifyAndSpill(working *graph, regs []ir.Reg, t int) (removed, spillList []ir.Reg) {
	remaining := make(map[ir.Reg]bool, len(regs))
	for _, r := range regs {
		remaining[r] = true
	}

	for len(remaining) > 0 {
		picked, ok := pickSimplifiable(working, regs, remaining, t)
		if !ok {
			picked = pickLowestRemaining(regs, remaining)
			spillList = append(spillList, picked)

			logTrace("no node with degree < %d; spilling v%d", t, picked)
		}

		removed = append(removed, picked)
		delete(remaining, picked)
		working.remove(picked)
	}

	return removed, spillList
}

func pickSimplifiable(working *graph, regs []ir.Reg, remaining map[ir.Reg]bool, t int) (ir.Reg, bool) {
	for _, r := range regs {
		if remaining[r] && working.degree(r) < t {
			return r, true
		}
	}

	return 0, false
}

func pickLowestRemaining(regs []ir.Reg, remaining map[ir.Reg]bool) ir.Reg {
	for _, r := range regs {
		if remaining[r] {
			return r
		}
	}

	panic("regalloc: BUG: pickLowestRemaining called with nothing remaining")
}

// colorNodes iterates removed in reverse (i.e. in the order nodes are added
// back to the graph), assigning each the smallest color in 1..t not already
// used by a neighbor in the original, never-simplified interference matrix.
func colorNodes(removed []ir.Reg, original *graph, t int) map[ir.Reg]int {
	colors := make(map[ir.Reg]int, len(removed))

	for i := len(removed) - 1; i >= 0; i-- {
		r := removed[i]

		forbidden := make(map[int]bool)
		original.neighbors(r, func(nb ir.Reg) {
			if c, ok := colors[nb]; ok {
				forbidden[c] = true
			}
		})

		assigned := false
		for c := 1; c <= t; c++ {
			if !forbidden[c] {
				colors[r] = c
				assigned = true

				break
			}
		}

		if !assigned {
			// Every node was removed with degree < t against the graph state
			// at its removal time, and spilled nodes have their interferences
			// cleared before recoloring, so some color must remain. If this
			// ever trips, the simplify/spill loop above has a bug.
			panic("regalloc: BUG: no free color for a non-spilled node")
		}
	}

	return colors
}

// usedRegs returns the ascending ids of every register with a live range in
// lr, i.e. every register that appears anywhere in the program.
func usedRegs(lr *liveRanges) []ir.Reg {
	var regs []ir.Reg
	for r := 1; r < lr.numRegs(); r++ {
		if lr.rows[r] != nil {
			regs = append(regs, ir.Reg(r))
		}
	}

	return regs
}

// AllocateColoring allocates registers with Chaitin-style graph coloring:
// build live ranges, derive an interference graph, simplify/spill/select
// down to a removal order, and color in reverse-removal order. If
// simplification could not avoid a spill, the spilled registers' live
// ranges are cleared and the whole analysis restarts - each restart
// strictly shrinks the graph, so this terminates in at most one restart per
// register.
//
// The accumulated set of every register spilled across all restarts (not
// just the last one) is what spill-code emission treats as spilled: a
// register killed in an earlier iteration has an all-dead row by the time
// of the clean pass, so it simplifies with degree zero and never reappears
// in that pass's own spill list - treating only the final iteration's list
// as "spilled" would therefore forget it was ever spilled, and the rewrite
// below would try to color it instead of routing it through scratch
// registers.
func AllocateColoring(prog ir.Program, k int) (ir.Program, error) {
	if k < 4 {
		return ir.Program{}, ErrInsufficientRegisters
	}

	t := k - 2

	lr, err := buildLiveRanges(prog)
	if err != nil {
		return ir.Program{}, err
	}

	spillSet := make(map[ir.Reg]bool)

	for {
		regs := usedRegs(lr)
		original := buildInterference(lr)
		working := original.clone()

		removed, newSpills := simplifyAndSpill(working, regs, t)

		if len(newSpills) == 0 {
			regMap := colorNodes(removed, original, t)

			if ValidationEnabled {
				validateColoring(original, regMap, spillSet)
			}

			resolve := func(v ir.Reg) (ir.Reg, bool) {
				if spillSet[v] {
					return 0, true
				}

				c, ok := regMap[v]
				if !ok {
					panic("regalloc: BUG: register with a live range was never colored")
				}

				return ir.Reg(c), false
			}

			return rewriteWithSpills(prog, k, resolve), nil
		}

		for _, r := range newSpills {
			spillSet[r] = true
			lr.kill(r)
		}

		logTrace("spill iteration killed %d register(s), retrying", len(newSpills))
	}
}

// validateColoring re-checks the invariant that no two interfering, non-spilled
// registers were ever assigned the same color.
func validateColoring(g *graph, regMap map[ir.Reg]int, spillSet map[ir.Reg]bool) {
	for r, c := range regMap {
		if spillSet[r] {
			continue
		}

		g.neighbors(r, func(nb ir.Reg) {
			if spillSet[nb] {
				return
			}

			if nc, ok := regMap[nb]; ok && nc == c && nb != r {
				panic("regalloc: BUG: interfering registers share a color")
			}
		})
	}
}
