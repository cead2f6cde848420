package core

import "github.com/sarchlab/a64core/insts"

// applyShift64 applies a shift operation to a 64-bit operand.
func applyShift64(value uint64, shiftType insts.ShiftType, amount uint8) uint64 {
	if amount == 0 {
		return value
	}
	switch shiftType {
	case insts.ShiftLSL:
		return value << amount
	case insts.ShiftLSR:
		return value >> amount
	case insts.ShiftASR:
		return uint64(int64(value) >> amount)
	case insts.ShiftROR:
		return (value >> amount) | (value << (64 - amount))
	default:
		return value
	}
}

// applyShift32 applies a shift operation to a 32-bit operand.
func applyShift32(value uint32, shiftType insts.ShiftType, amount uint8) uint32 {
	if amount == 0 {
		return value
	}
	switch shiftType {
	case insts.ShiftLSL:
		return value << amount
	case insts.ShiftLSR:
		return value >> amount
	case insts.ShiftASR:
		return uint32(int32(value) >> amount)
	case insts.ShiftROR:
		return (value >> amount) | (value << (32 - amount))
	default:
		return value
	}
}

// addSubImmediate implements ADD/ADDS/SUB/SUBS (immediate). Rn resolves
// to the stack pointer at index 31; so does Rd for the non-flag-setting
// forms, while the flag-setting forms discard a write to index 31.
func (c *Core) addSubImmediate(f insts.Fields, negate, setFlags bool) {
	imm := uint64(f.Imm12)
	if f.Shift&1 == 1 {
		imm <<= 12
	}

	if f.SF {
		op1 := c.regs.ReadSP(f.Rn)
		var result uint64
		if negate {
			result = op1 - imm
		} else {
			result = op1 + imm
		}
		if setFlags {
			c.regs.PSTATE.SetNZCV64(op1, result)
			c.regs.Write(f.Rd, result)
		} else {
			c.regs.WriteSP(f.Rd, result)
		}
		return
	}

	op1 := uint32(c.regs.ReadSP(f.Rn))
	var result uint32
	if negate {
		result = op1 - uint32(imm)
	} else {
		result = op1 + uint32(imm)
	}
	if setFlags {
		c.regs.PSTATE.SetNZCV32(op1, result)
		c.regs.Write(f.Rd, uint64(result))
	} else {
		c.regs.WriteSP(f.Rd, uint64(result))
	}
}

// addSubShifted implements ADD/SUB/SUBS (shifted register).
func (c *Core) addSubShifted(f insts.Fields, negate, setFlags bool) {
	shiftType := insts.ShiftType(f.Shift)

	if f.SF {
		op1 := c.regs.Read(f.Rn)
		op2 := applyShift64(c.regs.Read(f.Rm), shiftType, f.Imm6)
		var result uint64
		if negate {
			result = op1 - op2
		} else {
			result = op1 + op2
		}
		c.regs.Write(f.Rd, result)
		if setFlags {
			c.regs.PSTATE.SetNZCV64(op1, result)
		}
		return
	}

	op1 := uint32(c.regs.Read(f.Rn))
	op2 := applyShift32(uint32(c.regs.Read(f.Rm)), shiftType, f.Imm6)
	var result uint32
	if negate {
		result = op1 - op2
	} else {
		result = op1 + op2
	}
	c.regs.Write(f.Rd, uint64(result))
	if setFlags {
		c.regs.PSTATE.SetNZCV32(op1, result)
	}
}

// extendReg applies an extended-register operand transform: extract the
// low byte/halfword/word/doubleword, sign- or zero-extend, then shift
// left by up to 4.
func extendReg(value uint64, option, amount uint8) uint64 {
	var extended uint64
	switch option {
	case 0b000:
		extended = uint64(uint8(value))
	case 0b001:
		extended = uint64(uint16(value))
	case 0b010:
		extended = uint64(uint32(value))
	case 0b011:
		extended = value
	case 0b100:
		extended = uint64(int64(int8(value)))
	case 0b101:
		extended = uint64(int64(int16(value)))
	case 0b110:
		extended = uint64(int64(int32(value)))
	case 0b111:
		extended = value
	}
	return extended << amount
}

// subsExtended implements SUBS (extended register), the CMP idiom that
// allows SP as the first operand.
func (c *Core) subsExtended(word uint32, f insts.Fields) {
	option := uint8((word >> 13) & 0x7)
	amount := f.Imm3

	op1 := c.regs.ReadSP(f.Rn)
	op2 := extendReg(c.regs.Read(f.Rm), option, amount)

	if f.SF {
		result := op1 - op2
		c.regs.PSTATE.SetNZCV64(op1, result)
		c.regs.Write(f.Rd, result)
		return
	}

	op132 := uint32(op1)
	result := op132 - uint32(op2)
	c.regs.PSTATE.SetNZCV32(op132, result)
	c.regs.Write(f.Rd, uint64(result))
}
