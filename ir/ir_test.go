package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInstr_String(t *testing.T) {
	for _, tc := range []struct {
		name string
		i    Instr
		want string
	}{
		{name: "add", i: Add(5, 1, 2), want: "add %5, %1, %2"},
		{name: "ldi", i: LdI(1, 42), want: "ldi %1, 42"},
		{name: "store", i: Store(3, 7), want: "store 3, %7"},
		{name: "load", i: Load(7, 3), want: "load %7, 3"},
		{name: "print", i: Print(5), want: "print %5"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.i.String())
		})
	}
}

func TestInstr_DefsUses(t *testing.T) {
	for _, tc := range []struct {
		name string
		i    Instr
		defs []Reg
		uses []Reg
	}{
		{name: "add", i: Add(5, 1, 2), defs: []Reg{5}, uses: []Reg{1, 2}},
		{name: "ldi", i: LdI(1, 42), defs: []Reg{1}, uses: nil},
		{name: "store", i: Store(3, 7), defs: nil, uses: []Reg{7}},
		{name: "load", i: Load(7, 3), defs: []Reg{7}, uses: nil},
		{name: "print", i: Print(5), defs: nil, uses: []Reg{5}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.defs, tc.i.Defs())
			require.Equal(t, tc.uses, tc.i.Uses())
		})
	}
}

func TestProgram_MaxReg(t *testing.T) {
	p := New(LdI(1, 1), LdI(2, 2), Add(5, 1, 2), Print(5))
	require.Equal(t, Reg(5), p.MaxReg())

	require.Equal(t, Reg(0), New().MaxReg())
}

func TestProgram_String(t *testing.T) {
	p := New(LdI(1, 42), Print(1))
	require.Equal(t, "ldi %1, 42\nprint %1\n", p.String())
}
