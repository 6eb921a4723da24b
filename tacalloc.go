// Package tacalloc is the facade for a register allocator over a small
// three-address IR: it exposes the two interchangeable allocation
// strategies from package regalloc and the reference interpreter from
// package interp under one import - AllocateTrivial, AllocateColoring, and
// Run - the way package wazero is a thin facade over wazero's internal
// engine and compiler packages.
package tacalloc

import (
	"io"

	"github.com/regalloc-lab/tacalloc/interp"
	"github.com/regalloc-lab/tacalloc/ir"
	"github.com/regalloc-lab/tacalloc/regalloc"
)

// Program is the IR program type every operation below consumes or produces.
type Program = ir.Program

// Instr is a single three-address instruction.
type Instr = ir.Instr

// Reg identifies a register operand, virtual before allocation and physical
// after.
type Reg = ir.Reg

// AllocateTrivial rewrites program to use only physical registers 1..K,
// keeping virtual registers 1..K-2 in place and spilling everything else on
// every reference. K must be at least 4.
func AllocateTrivial(program Program, k int) (Program, error) {
	return regalloc.AllocateTrivial(program, k)
}

// AllocateColoring rewrites program to use only physical registers 1..K
// using Chaitin-style graph coloring: it builds live ranges, constructs an
// interference graph, simplifies/spills/selects down to a coloring order,
// and emits spill code only for registers the graph could not color. K must
// be at least 4.
func AllocateColoring(program Program, k int) (Program, error) {
	return regalloc.AllocateColoring(program, k)
}

// Run executes program against a fresh K-register interpreter, writing one
// decimal line per Print instruction to out. It accepts both the output of
// either allocator and unallocated virtual-register programs, the latter as
// long as K is at least their highest register id (any higher id is an
// error), and is used as the correctness oracle for both.
func Run(program Program, k int, out io.Writer) error {
	return interp.Run(program, k, out)
}
