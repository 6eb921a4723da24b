package regalloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/regalloc-lab/tacalloc/ir"
)

func TestBuildInterference_ParallelPairs(t *testing.T) {
	// %1..%6 all born up front and die immediately after their one use, so
	// only the values alive at the same instant should interfere.
	prog := ir.New(
		ir.LdI(1, 1), ir.LdI(2, 2), ir.LdI(3, 3),
		ir.LdI(4, 4), ir.LdI(5, 5), ir.LdI(6, 6),
		ir.Add(7, 1, 2), ir.Add(8, 3, 4), ir.Add(9, 5, 6),
		ir.Print(7), ir.Print(8), ir.Print(9),
	)

	lr, err := buildLiveRanges(prog)
	require.NoError(t, err)

	g := buildInterference(lr)

	// %1 is live from its birth (pc0) through its use at pc6, so it
	// interferes with everything else alive in that window: %2..%6.
	for _, other := range []ir.Reg{2, 3, 4, 5, 6} {
		require.True(t, g.interferes(1, other), "expected %%1 to interfere with %%%d", other)
	}

	// %7 is live from pc6 until its Print at pc9, and %8 (born pc7) and %9
	// (born pc8) are computed inside that window, so all three interfere
	// with each other as well. Assert the matrix is symmetric and has a
	// zero diagonal.
	for r := ir.Reg(1); r <= 9; r++ {
		require.False(t, g.interferes(r, r), "diagonal must be false for %%%d", r)
		for s := ir.Reg(1); s <= 9; s++ {
			require.Equal(t, g.interferes(r, s), g.interferes(s, r), "matrix must be symmetric for %%%d/%%%d", r, s)
		}
	}
}

func TestGraph_RemoveClearsRowAndColumn(t *testing.T) {
	g := newGraph(4)
	g.addEdge(1, 2)
	g.addEdge(1, 3)
	require.True(t, g.interferes(1, 2))
	require.True(t, g.interferes(2, 1))

	g.remove(1)
	require.False(t, g.interferes(1, 2))
	require.False(t, g.interferes(2, 1))
	require.False(t, g.interferes(1, 3))
	require.Equal(t, 0, g.degree(1))
}

func TestGraph_CloneIsIndependent(t *testing.T) {
	g := newGraph(3)
	g.addEdge(1, 2)

	clone := g.clone()
	clone.remove(1)

	require.True(t, g.interferes(1, 2), "mutating the clone must not affect the original")
	require.False(t, clone.interferes(1, 2))
}
