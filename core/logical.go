package core

import "github.com/sarchlab/a64core/insts"

// logicalOp selects the boolean operation of a logical instruction.
type logicalOp uint8

const (
	opAND logicalOp = iota
	opORR
)

// logicalImmediate implements AND/ANDS/ORR (immediate). The immediate
// operand is expanded from the (N, imms, immr) triple; a reserved
// combination fails the cycle without touching any register. Rd
// resolves to the stack pointer for the non-flag-setting forms.
func (c *Core) logicalImmediate(word uint32, f insts.Fields, op logicalOp, setFlags bool) error {
	n := (word >> 22) & 1
	immr := (word >> 16) & 0x3F
	imms := (word >> 10) & 0x3F

	imm, err := insts.DecodeLogicalImmediate(n, imms, immr, f.SF)
	if err != nil {
		return err
	}

	if f.SF {
		op1 := c.regs.Read(f.Rn)
		var result uint64
		if op == opAND {
			result = op1 & imm
		} else {
			result = op1 | imm
		}
		if setFlags {
			c.regs.PSTATE.SetLogicNZCV64(result)
			c.regs.Write(f.Rd, result)
		} else {
			c.regs.WriteSP(f.Rd, result)
		}
		return nil
	}

	op1 := uint32(c.regs.Read(f.Rn))
	var result uint32
	if op == opAND {
		result = op1 & uint32(imm)
	} else {
		result = op1 | uint32(imm)
	}
	if setFlags {
		c.regs.PSTATE.SetLogicNZCV32(result)
		c.regs.Write(f.Rd, uint64(result))
	} else {
		c.regs.WriteSP(f.Rd, uint64(result))
	}
	return nil
}

// logicalShifted implements AND/ANDS/ORR (shifted register).
func (c *Core) logicalShifted(f insts.Fields, op logicalOp, setFlags bool) {
	shiftType := insts.ShiftType(f.Shift)

	if f.SF {
		op1 := c.regs.Read(f.Rn)
		op2 := applyShift64(c.regs.Read(f.Rm), shiftType, f.Imm6)
		var result uint64
		if op == opAND {
			result = op1 & op2
		} else {
			result = op1 | op2
		}
		c.regs.Write(f.Rd, result)
		if setFlags {
			c.regs.PSTATE.SetLogicNZCV64(result)
		}
		return
	}

	op1 := uint32(c.regs.Read(f.Rn))
	op2 := applyShift32(uint32(c.regs.Read(f.Rm)), shiftType, f.Imm6)
	var result uint32
	if op == opAND {
		result = op1 & op2
	} else {
		result = op1 | op2
	}
	c.regs.Write(f.Rd, uint64(result))
	if setFlags {
		c.regs.PSTATE.SetLogicNZCV32(result)
	}
}
