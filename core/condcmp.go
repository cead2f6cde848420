package core

import "github.com/sarchlab/a64core/insts"

// condCompareNegative implements CCMN (immediate and register). When
// the condition holds the flags are set as by an ADDS of Rn and the
// operand; otherwise they are forced to the immediate NZCV pattern.
func (c *Core) condCompareNegative(word uint32, f insts.Fields, immediate bool) {
	cond := insts.Cond((word >> 12) & 0xF)

	if !c.regs.PSTATE.ConditionHolds(cond) {
		nzcv := word & 0xF
		c.regs.PSTATE.N = nzcv>>3&1 == 1
		c.regs.PSTATE.Z = nzcv>>2&1 == 1
		c.regs.PSTATE.C = nzcv>>1&1 == 1
		c.regs.PSTATE.V = nzcv&1 == 1
		return
	}

	var op2 uint64
	if immediate {
		// The Rm field position carries the zero-extended imm5.
		op2 = uint64(f.Rm)
	} else {
		op2 = c.regs.Read(f.Rm)
	}

	if f.SF {
		op1 := c.regs.Read(f.Rn)
		c.regs.PSTATE.SetNZCV64(op1, op1+op2)
		return
	}

	op1 := uint32(c.regs.Read(f.Rn))
	c.regs.PSTATE.SetNZCV32(op1, op1+uint32(op2))
}
