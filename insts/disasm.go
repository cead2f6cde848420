package insts

import "fmt"

var condNames = [16]string{
	"eq", "ne", "cs", "cc", "mi", "pl", "vs", "vc",
	"hi", "ls", "ge", "lt", "gt", "le", "al", "nv",
}

// String returns the lower-case assembler mnemonic of the condition.
func (c Cond) String() string {
	return condNames[c&0xF]
}

var shiftNames = [4]string{"lsl", "lsr", "asr", "ror"}

// String returns the assembler name of the shift type.
func (s ShiftType) String() string {
	return shiftNames[s&0x3]
}

// regName formats a general-purpose register operand.
func regName(r uint8, is64 bool) string {
	if r == 31 {
		if is64 {
			return "xzr"
		}
		return "wzr"
	}
	if is64 {
		return fmt.Sprintf("x%d", r)
	}
	return fmt.Sprintf("w%d", r)
}

// regOrSPName formats a register operand where index 31 means the stack
// pointer instead of the zero register.
func regOrSPName(r uint8, is64 bool) string {
	if r == 31 {
		if is64 {
			return "sp"
		}
		return "wsp"
	}
	return regName(r, is64)
}

// relTarget formats a PC-relative byte offset.
func relTarget(off int64) string {
	if off < 0 {
		return fmt.Sprintf(".-0x%x", -off)
	}
	return fmt.Sprintf(".+0x%x", off)
}

// String renders the instruction in assembler-like form. It exists for
// register-dump and disassembly tooling; it performs no machine access.
func (i *Instruction) String() string {
	switch i.Op {
	case OpNOP:
		return "nop"
	case OpHINT:
		return fmt.Sprintf("hint #%d", (i.Word>>5)&0x7F)
	case OpSVC:
		return fmt.Sprintf("svc #0x%x", (i.Word>>5)&0xFFFF)
	case OpADDImm, OpADDSImm, OpSUBImm, OpSUBSImm:
		return i.addSubImmString()
	case OpADDShifted, OpSUBShifted, OpSUBSShifted, OpANDShifted,
		OpANDSShifted, OpORRShifted:
		return i.shiftedRegString()
	case OpSUBSExtended:
		return fmt.Sprintf("subs %s, %s, %s (extended)",
			regName(i.Rd, i.SF), regOrSPName(i.Rn, i.SF), regName(i.Rm, i.SF))
	case OpANDImm, OpANDSImm, OpORRImm:
		return i.logicalImmString()
	case OpMoveWide:
		return i.moveWideString()
	case OpADRP:
		return fmt.Sprintf("adrp %s, %s", regName(i.Rd, true), relTarget(i.ADRPOffset()))
	case OpB:
		return fmt.Sprintf("b %s", relTarget(i.BranchOffset()))
	case OpBL:
		return fmt.Sprintf("bl %s", relTarget(i.BranchOffset()))
	case OpBCond:
		return fmt.Sprintf("b.%s %s", Cond(i.Word&0xF), relTarget(i.CondBranchOffset()))
	case OpCBZ:
		return fmt.Sprintf("cbz %s, %s", regName(i.Rd, i.SF), relTarget(i.CondBranchOffset()))
	case OpCBNZ:
		return fmt.Sprintf("cbnz %s, %s", regName(i.Rd, i.SF), relTarget(i.CondBranchOffset()))
	case OpCCMNImm:
		return fmt.Sprintf("ccmn %s, #%d, #%d, %s",
			regName(i.Rn, i.SF), i.Rm, i.Word&0xF, Cond((i.Word>>12)&0xF))
	case OpCCMNReg:
		return fmt.Sprintf("ccmn %s, %s, #%d, %s",
			regName(i.Rn, i.SF), regName(i.Rm, i.SF), i.Word&0xF, Cond((i.Word>>12)&0xF))
	case OpLDRImm, OpLDRReg, OpSTRImm, OpSTRReg:
		return i.loadStoreString()
	default:
		return fmt.Sprintf("%s (0x%08X)", i.Name, i.Word)
	}
}

func (i *Instruction) addSubImmString() string {
	mnem := "add"
	if i.Op == OpSUBImm || i.Op == OpSUBSImm {
		mnem = "sub"
	}
	setFlags := i.Op == OpADDSImm || i.Op == OpSUBSImm
	if setFlags {
		mnem += "s"
	}
	rd := regOrSPName(i.Rd, i.SF)
	if setFlags {
		rd = regName(i.Rd, i.SF)
	}
	s := fmt.Sprintf("%s %s, %s, #%d", mnem, rd, regOrSPName(i.Rn, i.SF), i.Imm12)
	if i.Shift&1 == 1 {
		s += ", lsl #12"
	}
	return s
}

func (i *Instruction) shiftedRegString() string {
	var mnem string
	switch i.Op {
	case OpADDShifted:
		mnem = "add"
	case OpSUBShifted:
		mnem = "sub"
	case OpSUBSShifted:
		mnem = "subs"
	case OpANDShifted:
		mnem = "and"
	case OpANDSShifted:
		mnem = "ands"
	case OpORRShifted:
		mnem = "orr"
	}
	s := fmt.Sprintf("%s %s, %s, %s", mnem,
		regName(i.Rd, i.SF), regName(i.Rn, i.SF), regName(i.Rm, i.SF))
	if i.Imm6 != 0 {
		s += fmt.Sprintf(", %s #%d", ShiftType(i.Shift), i.Imm6)
	}
	return s
}

func (i *Instruction) logicalImmString() string {
	var mnem string
	switch i.Op {
	case OpANDImm:
		mnem = "and"
	case OpANDSImm:
		mnem = "ands"
	case OpORRImm:
		mnem = "orr"
	}
	n := (i.Word >> 22) & 1
	immr := (i.Word >> 16) & 0x3F
	imms := (i.Word >> 10) & 0x3F
	rd := regOrSPName(i.Rd, i.SF)
	if i.Op == OpANDSImm {
		rd = regName(i.Rd, i.SF)
	}
	mask, err := DecodeLogicalImmediate(n, imms, immr, i.SF)
	if err != nil {
		return fmt.Sprintf("%s %s, %s, #<reserved>", mnem, rd, regName(i.Rn, i.SF))
	}
	return fmt.Sprintf("%s %s, %s, #0x%x", mnem, rd, regName(i.Rn, i.SF), mask)
}

func (i *Instruction) moveWideString() string {
	opc := (i.Word >> 29) & 0x3
	hw := (i.Word >> 21) & 0x3
	imm16 := (i.Word >> 5) & 0xFFFF
	var mnem string
	switch opc {
	case 0b00:
		mnem = "movn"
	case 0b10:
		mnem = "movz"
	case 0b11:
		mnem = "movk"
	default:
		return fmt.Sprintf("%s (0x%08X)", i.Name, i.Word)
	}
	s := fmt.Sprintf("%s %s, #0x%x", mnem, regName(i.Rd, i.SF), imm16)
	if hw != 0 {
		s += fmt.Sprintf(", lsl #%d", hw*16)
	}
	return s
}

func (i *Instruction) loadStoreString() string {
	mnem := "ldr"
	if i.Op == OpSTRImm || i.Op == OpSTRReg {
		mnem = "str"
	}
	is64 := i.Size == 3
	switch i.Size {
	case 0:
		mnem += "b"
	case 1:
		mnem += "h"
	}
	rt := regName(i.Rd, is64)
	base := regOrSPName(i.Rn, true)

	if i.Op == OpLDRReg || i.Op == OpSTRReg {
		return fmt.Sprintf("%s %s, [%s, %s]", mnem, rt, base, regName(i.Rm, true))
	}

	if (i.Word>>24)&0x3 == 1 {
		// Unsigned scaled offset.
		off := uint64(i.Imm12) << i.Size
		if off == 0 {
			return fmt.Sprintf("%s %s, [%s]", mnem, rt, base)
		}
		return fmt.Sprintf("%s %s, [%s, #%d]", mnem, rt, base, off)
	}

	imm9 := int64(int32(i.Word<<11) >> 23)
	if (i.Word>>11)&1 == 1 {
		return fmt.Sprintf("%s %s, [%s, #%d]!", mnem, rt, base, imm9)
	}
	return fmt.Sprintf("%s %s, [%s], #%d", mnem, rt, base, imm9)
}

// BranchOffset returns the signed byte offset of a B or BL encoding.
func (i *Instruction) BranchOffset() int64 {
	imm26 := i.Word & 0x3FFFFFF
	off := int64(imm26)
	if imm26>>25 == 1 {
		off |= ^int64(0x3FFFFFF)
	}
	return off * 4
}

// CondBranchOffset returns the signed byte offset of a B.cond, CBZ or
// CBNZ encoding.
func (i *Instruction) CondBranchOffset() int64 {
	imm19 := (i.Word >> 5) & 0x7FFFF
	off := int64(imm19)
	if imm19>>18 == 1 {
		off |= ^int64(0x7FFFF)
	}
	return off * 4
}

// ADRPOffset returns the page-aligned byte offset of an ADRP encoding.
func (i *Instruction) ADRPOffset() int64 {
	immlo := (i.Word >> 29) & 0x3
	immhi := (i.Word >> 5) & 0x7FFFF
	imm := int64(immhi<<2 | immlo)
	if imm>>20 == 1 {
		imm |= ^int64(0x1FFFFF)
	}
	return imm << 12
}
