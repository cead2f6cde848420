package core

import (
	"fmt"

	"github.com/sarchlab/a64core/insts"
)

// moveWide implements the MOVN/MOVZ/MOVK family: a 16-bit immediate is
// placed at a 16-bit-aligned shift position with zero-then-write,
// write-complemented, or keep-other-bits semantics selected by opc.
func (c *Core) moveWide(word uint32, f insts.Fields) error {
	opc := (word >> 29) & 0x3
	hw := (word >> 21) & 0x3
	imm16 := uint64((word >> 5) & 0xFFFF)

	if !f.SF && hw > 1 {
		return fmt.Errorf("%w: move wide hw=%d with 32-bit operand",
			insts.ErrUndefined, hw)
	}

	shift := hw * 16
	var result uint64

	switch opc {
	case 0b00: // MOVN
		result = ^(imm16 << shift)
		if !f.SF {
			result &= 0xFFFFFFFF
		}
	case 0b10: // MOVZ
		result = imm16 << shift
	case 0b11: // MOVK
		current := c.regs.Read(f.Rd)
		mask := ^(uint64(0xFFFF) << shift)
		result = (current & mask) | imm16<<shift
		if !f.SF {
			result &= 0xFFFFFFFF
		}
	default:
		return fmt.Errorf("%w: move wide opc=1", insts.ErrUndefined)
	}

	c.regs.Write(f.Rd, result)
	return nil
}

// adrp computes a PC-relative page address: the low 12 bits of the PC
// are forced to zero before the page-aligned immediate is added.
func (c *Core) adrp(inst *insts.Instruction) {
	base := c.regs.PC &^ 0xFFF
	c.regs.Write(inst.Rd, uint64(int64(base)+inst.ADRPOffset()))
}
