package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/regalloc-lab/tacalloc/ir"
)

// parseProgram reads the textual dump format defined in ir.Instr.String -
// "mnemonic operand, operand, ..." - back into a Program. It is the
// inverse of that renderer and exists only so the CLI has something human
// writable to feed the allocators; the allocators themselves never care how
// a Program was constructed.
func parseProgram(r io.Reader) (ir.Program, error) {
	var instrs []ir.Instr

	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		instr, err := parseLine(text)
		if err != nil {
			return ir.Program{}, fmt.Errorf("line %d: %w", line, err)
		}

		instrs = append(instrs, instr)
	}

	if err := scanner.Err(); err != nil {
		return ir.Program{}, fmt.Errorf("reading program: %w", err)
	}

	return ir.Program{Instrs: instrs}, nil
}

func parseLine(text string) (ir.Instr, error) {
	fields := strings.SplitN(text, " ", 2)

	mnemonic := fields[0]

	var operands []string
	if len(fields) == 2 {
		for _, op := range strings.Split(fields[1], ",") {
			operands = append(operands, strings.TrimSpace(op))
		}
	}

	switch mnemonic {
	case "add":
		if len(operands) != 3 {
			return ir.Instr{}, fmt.Errorf("add wants 3 operands, got %d", len(operands))
		}

		dst, err := parseReg(operands[0])
		if err != nil {
			return ir.Instr{}, err
		}

		src1, err := parseReg(operands[1])
		if err != nil {
			return ir.Instr{}, err
		}

		src2, err := parseReg(operands[2])
		if err != nil {
			return ir.Instr{}, err
		}

		return ir.Add(dst, src1, src2), nil

	case "ldi":
		if len(operands) != 2 {
			return ir.Instr{}, fmt.Errorf("ldi wants 2 operands, got %d", len(operands))
		}

		dst, err := parseReg(operands[0])
		if err != nil {
			return ir.Instr{}, err
		}

		imm, err := parseImm(operands[1])
		if err != nil {
			return ir.Instr{}, err
		}

		return ir.LdI(dst, imm), nil

	case "store":
		if len(operands) != 2 {
			return ir.Instr{}, fmt.Errorf("store wants 2 operands, got %d", len(operands))
		}

		addr, err := parseImm(operands[0])
		if err != nil {
			return ir.Instr{}, err
		}

		src, err := parseReg(operands[1])
		if err != nil {
			return ir.Instr{}, err
		}

		return ir.Store(addr, src), nil

	case "load":
		if len(operands) != 2 {
			return ir.Instr{}, fmt.Errorf("load wants 2 operands, got %d", len(operands))
		}

		dst, err := parseReg(operands[0])
		if err != nil {
			return ir.Instr{}, err
		}

		addr, err := parseImm(operands[1])
		if err != nil {
			return ir.Instr{}, err
		}

		return ir.Load(dst, addr), nil

	case "print":
		if len(operands) != 1 {
			return ir.Instr{}, fmt.Errorf("print wants 1 operand, got %d", len(operands))
		}

		src, err := parseReg(operands[0])
		if err != nil {
			return ir.Instr{}, err
		}

		return ir.Print(src), nil

	default:
		return ir.Instr{}, fmt.Errorf("unknown mnemonic %q", mnemonic)
	}
}

func parseReg(s string) (ir.Reg, error) {
	if !strings.HasPrefix(s, "%") {
		return 0, fmt.Errorf("expected register operand like %%1, got %q", s)
	}

	id, err := strconv.ParseUint(s[1:], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid register operand %q: %w", s, err)
	}

	return ir.Reg(id), nil
}

func parseImm(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid immediate %q: %w", s, err)
	}

	return int32(v), nil
}
