package core_test

import "github.com/sarchlab/a64core/insts"

// Instruction encoders for building test programs. All take word
// offsets for branch targets and encode the 64-bit operand width unless
// noted otherwise.

func encodeNOP() uint32 {
	return 0xD503201F
}

func encodeADDImm(rd, rn uint8, imm uint16, setFlags bool) uint32 {
	word := uint32(0x91000000)
	if setFlags {
		word |= 0x20000000
	}
	return word | uint32(imm&0xFFF)<<10 | uint32(rn)<<5 | uint32(rd)
}

func encodeADDImm32(rd, rn uint8, imm uint16) uint32 {
	return 0x11000000 | uint32(imm&0xFFF)<<10 | uint32(rn)<<5 | uint32(rd)
}

func encodeADDImmShifted(rd, rn uint8, imm uint16) uint32 {
	return 0x91400000 | uint32(imm&0xFFF)<<10 | uint32(rn)<<5 | uint32(rd)
}

func encodeSUBImm(rd, rn uint8, imm uint16, setFlags bool) uint32 {
	word := uint32(0xD1000000)
	if setFlags {
		word |= 0x20000000
	}
	return word | uint32(imm&0xFFF)<<10 | uint32(rn)<<5 | uint32(rd)
}

func encodeADDRegShifted(rd, rn, rm uint8, shift insts.ShiftType, amount uint8) uint32 {
	return 0x8B000000 | uint32(shift)<<22 | uint32(rm)<<16 |
		uint32(amount&0x3F)<<10 | uint32(rn)<<5 | uint32(rd)
}

func encodeSUBSReg(rd, rn, rm uint8) uint32 {
	return 0xEB000000 | uint32(rm)<<16 | uint32(rn)<<5 | uint32(rd)
}

func encodeANDSReg(rd, rn, rm uint8) uint32 {
	return 0xEA000000 | uint32(rm)<<16 | uint32(rn)<<5 | uint32(rd)
}

func encodeORRReg(rd, rn, rm uint8) uint32 {
	return 0xAA000000 | uint32(rm)<<16 | uint32(rn)<<5 | uint32(rd)
}

func encodeMOVZ64(rd uint8, imm16 uint16, hw uint8) uint32 {
	return 0xD2800000 | uint32(hw&3)<<21 | uint32(imm16)<<5 | uint32(rd)
}

func encodeMOVN64(rd uint8, imm16 uint16, hw uint8) uint32 {
	return 0x92800000 | uint32(hw&3)<<21 | uint32(imm16)<<5 | uint32(rd)
}

func encodeMOVK64(rd uint8, imm16 uint16, hw uint8) uint32 {
	return 0xF2800000 | uint32(hw&3)<<21 | uint32(imm16)<<5 | uint32(rd)
}

func encodeB(words int32) uint32 {
	return 0x14000000 | uint32(words)&0x3FFFFFF
}

func encodeBL(words int32) uint32 {
	return 0x94000000 | uint32(words)&0x3FFFFFF
}

func encodeBCond(words int32, cond insts.Cond) uint32 {
	return 0x54000000 | (uint32(words)&0x7FFFF)<<5 | uint32(cond)
}

func encodeCBZ(rt uint8, words int32) uint32 {
	return 0xB4000000 | (uint32(words)&0x7FFFF)<<5 | uint32(rt)
}

func encodeCBNZ(rt uint8, words int32) uint32 {
	return 0xB5000000 | (uint32(words)&0x7FFFF)<<5 | uint32(rt)
}

func encodeCCMNImm(rn, imm5, nzcv uint8, cond insts.Cond) uint32 {
	return 0xBA400800 | uint32(imm5&0x1F)<<16 | uint32(cond)<<12 |
		uint32(rn)<<5 | uint32(nzcv&0xF)
}

func encodeCCMNReg(rn, rm, nzcv uint8, cond insts.Cond) uint32 {
	return 0xBA400000 | uint32(rm)<<16 | uint32(cond)<<12 |
		uint32(rn)<<5 | uint32(nzcv&0xF)
}

func encodeADRP(rd uint8, pages int64) uint32 {
	immlo := uint32(pages) & 0x3
	immhi := uint32(pages>>2) & 0x7FFFF
	return 0x90000000 | immlo<<29 | immhi<<5 | uint32(rd)
}

func encodeSVC(imm uint16) uint32 {
	return 0xD4000001 | uint32(imm)<<5
}

func encodeLDR64(rt, rn uint8, offset uint16) uint32 {
	return 0xF9400000 | uint32(offset/8)<<10 | uint32(rn)<<5 | uint32(rt)
}

func encodeSTR64(rt, rn uint8, offset uint16) uint32 {
	return 0xF9000000 | uint32(offset/8)<<10 | uint32(rn)<<5 | uint32(rt)
}

func encodeLDRB(rt, rn uint8, offset uint16) uint32 {
	return 0x39400000 | uint32(offset&0xFFF)<<10 | uint32(rn)<<5 | uint32(rt)
}

func encodeLDR64Pre(rt, rn uint8, imm int16) uint32 {
	return 0xF8400C00 | uint32(imm&0x1FF)<<12 | uint32(rn)<<5 | uint32(rt)
}

func encodeLDR64Post(rt, rn uint8, imm int16) uint32 {
	return 0xF8400400 | uint32(imm&0x1FF)<<12 | uint32(rn)<<5 | uint32(rt)
}

func encodeSTR64Pre(rt, rn uint8, imm int16) uint32 {
	return 0xF8000C00 | uint32(imm&0x1FF)<<12 | uint32(rn)<<5 | uint32(rt)
}

func encodeSTR64Post(rt, rn uint8, imm int16) uint32 {
	return 0xF8000400 | uint32(imm&0x1FF)<<12 | uint32(rn)<<5 | uint32(rt)
}

func encodeLDR64Reg(rt, rn, rm uint8) uint32 {
	return 0xF8606800 | uint32(rm)<<16 | uint32(rn)<<5 | uint32(rt)
}

func encodeSTR64Reg(rt, rn, rm uint8) uint32 {
	return 0xF8206800 | uint32(rm)<<16 | uint32(rn)<<5 | uint32(rt)
}
