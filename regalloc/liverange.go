package regalloc

import "github.com/regalloc-lab/tacalloc/ir"

// Cell classifies a single virtual register's state at a single instruction
// index.
type Cell uint8

const (
	// Dead means the register does not exist at this index.
	Dead Cell = iota
	// Birth means this instruction defines the register.
	Birth
	// Live means the register is live through this index without being
	// read or written here.
	Live
	// Used means this instruction reads the register without redefining it.
	Used
	// EndPoint means this is the last index at which the register is live.
	EndPoint
)

// isLive reports whether a cell counts towards a register being "live" at
// its index, for the purposes of interference (see liveRanges.isLiveAt).
func (c Cell) isLive() bool {
	return c == Birth || c == Live || c == Used
}

// isUsed reports whether this cell marks a point where the register was
// referenced by an instruction (as opposed to merely living through it).
//
// Nothing in the simplify/spill/color pipeline consults this predicate: a
// finer-grained spill heuristic (e.g. preferring to spill registers with
// fewer live-range references) could use it, but the allocator implemented
// here always picks the lowest-indexed eligible candidate instead.
func (c Cell) isUsed() bool { //nolint:unused
	return c == Birth || c == Used || c == EndPoint
}

func (c Cell) String() string {
	switch c {
	case Dead:
		return "dead"
	case Birth:
		return "birth"
	case Live:
		return "live"
	case Used:
		return "used"
	case EndPoint:
		return "endpoint"
	default:
		return "invalid"
	}
}

// liveRanges holds, for every virtual register id below numRegs(), a row of
// n cells - one per instruction index - describing that register's lifetime.
type liveRanges struct {
	// rows[r] is nil for any r that never appears in the program.
	rows [][]Cell
	n    int // program length, i.e. the width of every row.
}

// numRegs returns one past the highest virtual register id tracked.
func (lr *liveRanges) numRegs() int {
	return len(lr.rows)
}

func (lr *liveRanges) row(r ir.Reg) []Cell {
	return lr.rows[r]
}

// isLiveAt reports whether register r is live (Birth, Live, or Used) at
// index i.
func (lr *liveRanges) isLiveAt(r ir.Reg, i int) bool {
	row := lr.rows[r]
	return row != nil && row[i].isLive()
}

// buildLiveRanges computes the live-range matrix for prog per ASCII-matrix
// semantics of the data model: a forward pass marks definition and use
// sites, then a backward pass per register turns that sparse marking into a
// complete Dead/Birth/Live/Used/EndPoint row.
//
// It returns *malformedIRError if any register is used before it is ever
// defined.
func buildLiveRanges(prog ir.Program) (*liveRanges, error) {
	n := int(prog.MaxReg()) + 1
	length := prog.Len()

	rows := make([][]Cell, n)
	rowOf := func(r ir.Reg) []Cell {
		if rows[r] == nil {
			rows[r] = make([]Cell, length)
		}
		return rows[r]
	}

	defined := make([]bool, n)

	for pc, instr := range prog.Instrs {
		for _, u := range instr.Uses() {
			if !defined[u] {
				return nil, &malformedIRError{reg: u, pc: pc}
			}
			rowOf(u)[pc] = Used
		}
		for _, d := range instr.Defs() {
			rowOf(d)[pc] = Birth
			defined[d] = true
		}
	}

	lr := &liveRanges{rows: rows, n: length}
	for r := 1; r < n; r++ {
		if rows[r] == nil {
			continue
		}
		backwardPass(rows[r])
	}

	return lr, nil
}

// backwardPass runs the backward liveness sweep for a single register's
// row, scanning right to left.
func backwardPass(row []Cell) {
	living := false
	for i := len(row) - 1; i >= 0; i-- {
		switch row[i] {
		case Dead:
			if living {
				row[i] = Live
			}
		case Live, Used:
			if !living {
				row[i] = EndPoint
				living = true
			}
		case Birth:
			living = false
		case EndPoint:
			// Left unchanged. The forward pass never writes EndPoint and
			// backwardPass runs once per row (kill resets a row to Dead
			// without re-running it), so this case is unreachable in
			// practice and kept only for exhaustiveness.
		}
	}
}

// kill clears every cell of r's row to Dead, used when the simplify/spill
// loop marks r for spilling and the analysis must restart: a spilled
// register can never interfere with anything again, since every reference
// to it will be rewritten through memory.
func (lr *liveRanges) kill(r ir.Reg) {
	row := lr.rows[r]
	for i := range row {
		row[i] = Dead
	}
}
