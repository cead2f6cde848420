package core

import "github.com/sarchlab/a64core/insts"

// signExtend interprets the low width bits of v as a signed value.
func signExtend(v uint32, width uint) int64 {
	shift := 64 - width
	return int64(uint64(v)<<shift) >> shift
}

// branchImmediate implements B and BL. BL writes the return address,
// the address of the following instruction, to the link register X30
// before the PC is redirected.
func (c *Core) branchImmediate(word uint32, link bool) {
	offset := signExtend(word&0x3FFFFFF, 26) * instructionWidth

	if link {
		c.regs.Write(30, c.regs.PC+instructionWidth)
	}
	c.regs.PC = uint64(int64(c.regs.PC) + offset)
}

// branchConditional implements B.cond: the PC is redirected only when
// the condition holds, otherwise execution falls through to the next
// instruction.
func (c *Core) branchConditional(word uint32) {
	cond := insts.Cond(word & 0xF)
	offset := signExtend((word>>5)&0x7FFFF, 19) * instructionWidth

	if c.regs.PSTATE.ConditionHolds(cond) {
		c.regs.PC = uint64(int64(c.regs.PC) + offset)
	} else {
		c.regs.PC += instructionWidth
	}
}

// compareBranch implements CBZ and CBNZ.
func (c *Core) compareBranch(word uint32, f insts.Fields, nonzero bool) {
	offset := signExtend((word>>5)&0x7FFFF, 19) * instructionWidth

	value := c.regs.Read(f.Rd)
	if !f.SF {
		value &= 0xFFFFFFFF
	}

	taken := value == 0
	if nonzero {
		taken = !taken
	}

	if taken {
		c.regs.PC = uint64(int64(c.regs.PC) + offset)
	} else {
		c.regs.PC += instructionWidth
	}
}
