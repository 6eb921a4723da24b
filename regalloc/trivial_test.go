package regalloc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/regalloc-lab/tacalloc/interp"
	"github.com/regalloc-lab/tacalloc/ir"
)

func TestAllocateTrivial_InsufficientRegisters(t *testing.T) {
	_, err := AllocateTrivial(ir.New(ir.Print(1)), 3)
	require.ErrorIs(t, err, ErrInsufficientRegisters)
}

func TestAllocateTrivial_SingleLdI(t *testing.T) {
	prog := ir.New(ir.LdI(1, 42), ir.Print(1))

	out, err := AllocateTrivial(prog, 4)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, interp.Run(out, 4, &buf))
	require.Equal(t, "42\n", buf.String())
}

// %5 is above K-2 for K=4 and must round-trip through memory via the
// scratch registers.
func TestAllocateTrivial_SpillRequired(t *testing.T) {
	prog := ir.New(
		ir.LdI(1, 1), ir.LdI(2, 2), ir.LdI(3, 3), ir.LdI(4, 4), ir.LdI(5, 5),
		ir.Print(5),
	)

	out, err := AllocateTrivial(prog, 4)
	require.NoError(t, err)

	for _, instr := range out.Instrs {
		for _, r := range append(instr.Defs(), instr.Uses()...) {
			require.LessOrEqual(t, int(r), 4, "every physical register must be in 1..K")
		}
	}

	var buf bytes.Buffer
	require.NoError(t, interp.Run(out, 4, &buf))
	require.Equal(t, "5\n", buf.String())
}

// Linear add chain must still print 10 once spilled down to K=4.
func TestAllocateTrivial_LinearAddChain(t *testing.T) {
	prog := ir.New(
		ir.LdI(1, 1), ir.LdI(2, 2), ir.LdI(3, 3), ir.LdI(4, 4),
		ir.Add(5, 1, 2), ir.Add(6, 5, 3), ir.Add(7, 6, 4),
		ir.Print(7),
	)

	out, err := AllocateTrivial(prog, 4)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, interp.Run(out, 4, &buf))
	require.Equal(t, "10\n", buf.String())
}

// Idempotence: when the input already uses only registers in 1..K-2,
// AllocateTrivial must return it unchanged.
func TestAllocateTrivial_IdempotentWhenAlreadyInRange(t *testing.T) {
	prog := ir.New(ir.LdI(1, 1), ir.LdI(2, 2), ir.Add(1, 1, 2), ir.Print(1))

	out, err := AllocateTrivial(prog, 4)
	require.NoError(t, err)
	require.Equal(t, prog, out)
}

// Spill-slot stability: the i-th distinct virtual register forcing a spill
// always lands in memory slot i-1.
func TestAllocateTrivial_SpillSlotStability(t *testing.T) {
	// With K=4, registers 3, 4, 5 force a spill, in that first-reference order.
	prog := ir.New(
		ir.LdI(1, 1), ir.LdI(2, 1), ir.LdI(3, 1), ir.LdI(4, 1), ir.LdI(5, 1),
		ir.Print(3), ir.Print(4), ir.Print(5),
	)

	out, err := AllocateTrivial(prog, 4)
	require.NoError(t, err)

	var storeAddrs, loadAddrs []int32
	for _, instr := range out.Instrs {
		switch instr.Op {
		case ir.OpStore:
			storeAddrs = append(storeAddrs, instr.Addr)
		case ir.OpLoad:
			loadAddrs = append(loadAddrs, instr.Addr)
		}
	}

	// %3 is first-referenced before %4, which is first-referenced before %5,
	// so they must land in slots 0, 1, 2 respectively - and every later
	// reference (the Loads for Print) must agree.
	require.Equal(t, []int32{0, 1, 2}, storeAddrs)
	require.Equal(t, []int32{0, 1, 2}, loadAddrs)
}
