package core

import (
	"fmt"

	"github.com/sarchlab/a64core/insts"
)

// loadStoreImmediate implements the LDR/STR immediate forms: unsigned
// scaled offset, pre-index and post-index. The size field selects 1, 2,
// 4 or 8 byte accesses; 32-bit and narrower loads zero-extend. The
// memory access happens before any register mutation so a fault leaves
// the architectural state untouched.
func (c *Core) loadStoreImmediate(word uint32, f insts.Fields, isLoad bool) error {
	nbytes := 1 << f.Size
	base := c.regs.ReadSP(f.Rn)

	var addr uint64
	var writeback bool
	var newBase uint64

	if (word>>24)&0x3 == 1 {
		// Unsigned offset, scaled by the access size.
		addr = base + uint64(f.Imm12)<<f.Size
	} else {
		imm9 := signExtend((word>>12)&0x1FF, 9)
		writeback = true
		newBase = uint64(int64(base) + imm9)
		if (word>>11)&1 == 1 {
			addr = newBase // pre-index
		} else {
			addr = base // post-index
		}
	}

	if err := c.loadOrStore(f.Rd, addr, nbytes, isLoad); err != nil {
		return err
	}

	if writeback {
		c.regs.WriteSP(f.Rn, newBase)
	}
	return nil
}

// loadStoreRegister implements the LDR/STR register-offset forms: the
// offset register is extended per the option field and optionally
// scaled by the access size.
func (c *Core) loadStoreRegister(word uint32, f insts.Fields, isLoad bool) error {
	nbytes := 1 << f.Size
	option := uint8((word >> 13) & 0x7)

	var amount uint8
	if (word>>12)&1 == 1 {
		amount = f.Size
	}

	rm := c.regs.Read(f.Rm)
	var offset uint64
	switch option {
	case 0b010: // UXTW
		offset = uint64(uint32(rm))
	case 0b011: // LSL / UXTX
		offset = rm
	case 0b110: // SXTW
		offset = uint64(int64(int32(rm)))
	case 0b111: // SXTX
		offset = rm
	default:
		return fmt.Errorf("%w: load/store extend option %03b",
			insts.ErrUndefined, option)
	}

	addr := c.regs.ReadSP(f.Rn) + offset<<amount
	return c.loadOrStore(f.Rd, addr, nbytes, isLoad)
}

// loadOrStore issues one sized access through the address space.
func (c *Core) loadOrStore(rt uint8, addr uint64, nbytes int, isLoad bool) error {
	if isLoad {
		value, err := c.space.Read(addr, nbytes)
		if err != nil {
			return err
		}
		c.regs.Write(rt, value)
		return nil
	}
	return c.space.Write(addr, nbytes, c.regs.Read(rt))
}
