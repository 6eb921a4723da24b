// Package interp provides a reference interpreter for package ir's
// instruction set. It exists purely as a correctness oracle: tests run a
// program unallocated (conceptually, with an unbounded register file) and
// compare its Print output against the output of running the same program
// after allocation on a K-register machine.
package interp

import (
	"fmt"
	"io"

	"github.com/regalloc-lab/tacalloc/ir"
)

// NumMemWords is the fixed size of the interpreter's memory array.
const NumMemWords = 1024

// Kind distinguishes the fatal error conditions the interpreter can raise.
type Kind int

const (
	// KindMalformedIR means a register was read before any instruction
	// defined it, a register id is outside this machine's register file, or
	// an instruction has an unknown opcode.
	KindMalformedIR Kind = iota
	// KindAddressOutOfRange means a Load or Store referenced an address
	// outside [0, NumMemWords).
	KindAddressOutOfRange
)

// Error is returned by Run for any fatal condition. None of these are
// recoverable: they indicate a malformed program, not a transient fault.
type Error struct {
	Kind  Kind
	PC    int
	Instr ir.Instr
	msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("interp: %s at pc=%d (%s)", e.msg, e.PC, e.Instr)
}

func newError(kind Kind, pc int, instr ir.Instr, msg string) *Error {
	return &Error{Kind: kind, PC: pc, Instr: instr, msg: msg}
}

// Machine is the interpreter's state: a register file of size K+1 (index 0
// unused) and a flat memory of NumMemWords 32-bit words, both initialized to
// zero.
type Machine struct {
	regs []int32
	mem  [NumMemWords]int32
	out  io.Writer
}

// NewMachine returns a Machine with K addressable registers (1..K) and the
// fixed-size memory array, writing Print output to out.
func NewMachine(k int, out io.Writer) *Machine {
	return &Machine{regs: make([]int32, k+1), out: out}
}

// Run executes prog to completion against m, writing one decimal line per
// Print instruction. It is the reference semantics every allocator output
// must reproduce (see the semantic-preservation property in the package
// regalloc tests).
func Run(prog ir.Program, k int, out io.Writer) error {
	m := NewMachine(k, out)
	return m.Run(prog)
}

// Run executes prog against the machine's existing state.
func (m *Machine) Run(prog ir.Program) error {
	defined := make(map[ir.Reg]bool)

	for pc, instr := range prog.Instrs {
		for _, u := range instr.Uses() {
			if !defined[u] {
				return newError(KindMalformedIR, pc, instr,
					fmt.Sprintf("register %s used before definition", u))
			}
		}

		switch instr.Op {
		case ir.OpAdd:
			a, err := m.get(pc, instr, instr.Src1)
			if err != nil {
				return err
			}

			b, err := m.get(pc, instr, instr.Src2)
			if err != nil {
				return err
			}

			if err := m.set(pc, instr, instr.Dst, a+b); err != nil {
				return err
			}

			defined[instr.Dst] = true
		case ir.OpLdI:
			if err := m.set(pc, instr, instr.Dst, instr.Imm); err != nil {
				return err
			}

			defined[instr.Dst] = true
		case ir.OpStore:
			if instr.Addr < 0 || int(instr.Addr) >= NumMemWords {
				return newError(KindAddressOutOfRange, pc, instr,
					fmt.Sprintf("store address %d out of range", instr.Addr))
			}

			v, err := m.get(pc, instr, instr.Src1)
			if err != nil {
				return err
			}

			m.mem[instr.Addr] = v
		case ir.OpLoad:
			if instr.Addr < 0 || int(instr.Addr) >= NumMemWords {
				return newError(KindAddressOutOfRange, pc, instr,
					fmt.Sprintf("load address %d out of range", instr.Addr))
			}

			if err := m.set(pc, instr, instr.Dst, m.mem[instr.Addr]); err != nil {
				return err
			}

			defined[instr.Dst] = true
		case ir.OpPrint:
			v, err := m.get(pc, instr, instr.Src1)
			if err != nil {
				return err
			}

			if _, err := fmt.Fprintln(m.out, v); err != nil {
				return err
			}
		default:
			return newError(KindMalformedIR, pc, instr, "unknown opcode")
		}
	}

	return nil
}

// Reg returns the current value of physical register r (1-indexed).
func (m *Machine) Reg(r ir.Reg) int32 {
	return m.regs[r]
}

func (m *Machine) get(pc int, instr ir.Instr, r ir.Reg) (int32, error) {
	if int(r) >= len(m.regs) {
		return 0, newError(KindMalformedIR, pc, instr,
			fmt.Sprintf("register %s out of range for this machine", r))
	}

	return m.regs[r], nil
}

func (m *Machine) set(pc int, instr ir.Instr, r ir.Reg, v int32) error {
	if int(r) >= len(m.regs) {
		return newError(KindMalformedIR, pc, instr,
			fmt.Sprintf("register %s out of range for this machine", r))
	}

	m.regs[r] = v

	return nil
}
