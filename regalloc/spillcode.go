package regalloc

import "github.com/regalloc-lab/tacalloc/ir"

// resolution reports how a single virtual register was resolved: either to
// a physical register (spilled == false) or to the spill path
// (spilled == true), in which case preg is meaningless.
type resolution func(v ir.Reg) (preg ir.Reg, spilled bool)

// spillSlots assigns successive memory addresses to virtual registers in
// first-reference order, stable for the lifetime of one rewrite pass. The
// slot assigned to a spilled virtual keys off its original id, never its
// color.
type spillSlots struct {
	slot map[ir.Reg]int32
	next int32
}

func newSpillSlots() *spillSlots {
	return &spillSlots{slot: make(map[ir.Reg]int32)}
}

func (s *spillSlots) of(v ir.Reg) int32 {
	if addr, ok := s.slot[v]; ok {
		return addr
	}

	addr := s.next
	s.slot[v] = addr
	s.next++

	return addr
}

// rewriteWithSpills walks prog once, replacing every virtual operand with
// its physical register per resolve, or - if resolve reports it spilled -
// materializing it through the two reserved scratch registers K-1 and K,
// surrounded by a Load before each use and a Store after each definition.
// Both allocation strategies share this function unchanged: trivial.go and
// coloring.go differ only in what resolve returns for a given virtual
// register.
func rewriteWithSpills(prog ir.Program, k int, resolve resolution) ir.Program {
	scratchDst := ir.Reg(k - 1)
	scratchSrc1 := ir.Reg(k - 1)
	scratchSrc2 := ir.Reg(k)

	slots := newSpillSlots()

	out := make([]ir.Instr, 0, prog.Len())
	emit := func(i ir.Instr) { out = append(out, i) }

	materializeSrc := func(v ir.Reg, scratch ir.Reg) ir.Reg {
		preg, spilled := resolve(v)
		if !spilled {
			return preg
		}

		emit(ir.Load(scratch, slots.of(v)))

		return scratch
	}

	for _, instr := range prog.Instrs {
		switch instr.Op {
		case ir.OpAdd:
			rs1 := materializeSrc(instr.Src1, scratchSrc1)
			rs2 := materializeSrc(instr.Src2, scratchSrc2)

			if d, spilled := resolve(instr.Dst); spilled {
				emit(ir.Add(scratchDst, rs1, rs2))
				emit(ir.Store(slots.of(instr.Dst), scratchDst))
			} else {
				emit(ir.Add(d, rs1, rs2))
			}

		case ir.OpLdI:
			if d, spilled := resolve(instr.Dst); spilled {
				emit(ir.LdI(scratchDst, instr.Imm))
				emit(ir.Store(slots.of(instr.Dst), scratchDst))
			} else {
				emit(ir.LdI(d, instr.Imm))
			}

		case ir.OpStore:
			rs := materializeSrc(instr.Src1, scratchSrc2)
			emit(ir.Store(instr.Addr, rs))

		case ir.OpLoad:
			if d, spilled := resolve(instr.Dst); spilled {
				emit(ir.Load(scratchDst, instr.Addr))
				emit(ir.Store(slots.of(instr.Dst), scratchDst))
			} else {
				emit(ir.Load(d, instr.Addr))
			}

		case ir.OpPrint:
			rs := materializeSrc(instr.Src1, scratchSrc2)
			emit(ir.Print(rs))
		}
	}

	return ir.Program{Instrs: out}
}
