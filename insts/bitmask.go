package insts

import (
	"errors"
	"math/bits"
)

// ErrReservedImmediate reports an (N, imms) combination that does not
// encode a valid logical-immediate element size. It is distinct from
// ErrUndefined because it surfaces mid-execution of an instruction the
// table already matched.
var ErrReservedImmediate = errors.New("reserved logical immediate encoding")

// DecodeLogicalImmediate expands the (N, imms, immr) logical-immediate
// triple into a concrete bit mask of the requested register width.
//
// The element size is derived from the highest set bit of N:NOT(imms);
// an element of imms+1 set bits is rotated right by immr and replicated
// across the register.
func DecodeLogicalImmediate(n, imms, immr uint32, is64 bool) (uint64, error) {
	combined := (n&1)<<6 | (^imms & 0x3F)
	length := bits.Len32(combined) - 1
	if length < 1 {
		return 0, ErrReservedImmediate
	}

	esize := uint32(1) << length
	if !is64 && esize > 32 {
		// N=1 is only valid for 64-bit operands.
		return 0, ErrReservedImmediate
	}

	levels := esize - 1
	s := imms & levels
	r := immr & levels
	if s == levels {
		// An all-ones element is reserved.
		return 0, ErrReservedImmediate
	}

	elem := uint64(1)<<(s+1) - 1
	if r != 0 {
		lo := elem >> r
		hi := elem << (esize - r)
		elem = lo | hi
		if esize < 64 {
			elem &= uint64(1)<<esize - 1
		}
	}

	var mask uint64
	width := uint32(64)
	if !is64 {
		width = 32
	}
	for i := uint32(0); i < width; i += esize {
		mask |= elem << i
	}
	if !is64 {
		mask &= 0xFFFFFFFF
	}

	return mask, nil
}
