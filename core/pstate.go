package core

// PSTATE represents the processor state: the NZCV condition flags, the
// DAIF exception masks, the debug bits, and the fields that select the
// current exception level and stack pointer.
type PSTATE struct {
	// N is the negative flag.
	N bool
	// Z is the zero flag.
	Z bool
	// C is the carry flag.
	C bool
	// V is the overflow flag.
	V bool

	// D, A, I and F are the debug, SError, IRQ and FIQ masks.
	D bool
	A bool
	I bool
	F bool

	// SS is the software-step pending bit.
	SS bool
	// IL is the illegal-execution-state bit.
	IL bool

	// EL is the current exception level, 0 through 3.
	EL uint8
	// RW selects the 32-bit execution state when set.
	RW bool
	// SP selects the banked SP_ELx register; when clear, SP_EL0 is
	// used at every exception level.
	SP bool
}

// SPSR bit positions. The saved-program-status-register layout is an
// external format contract, so the positions are spelled out rather
// than derived.
const (
	spsrModeELShift = 2
	spsrRWBit       = 1 << 4
	spsrT32Bit      = 1 << 5
	spsrFBit        = 1 << 6
	spsrIBit        = 1 << 7
	spsrABit        = 1 << 8
	spsrDBit        = 1 << 9
	spsrE32Bit      = 1 << 9
	spsrILBit       = 1 << 20
	spsrSSBit       = 1 << 21
	spsrVBit        = 1 << 28
	spsrCBit        = 1 << 29
	spsrZBit        = 1 << 30
	spsrNBit        = 1 << 31
)

// ToSPSR64 serializes the processor state into the AArch64 SPSR layout.
func (p PSTATE) ToSPSR64() uint64 {
	v := uint64(p.EL&3) << spsrModeELShift
	if p.SP {
		v |= 1
	}
	if p.RW {
		v |= spsrRWBit
	}
	if p.F {
		v |= spsrFBit
	}
	if p.I {
		v |= spsrIBit
	}
	if p.A {
		v |= spsrABit
	}
	if p.D {
		v |= spsrDBit
	}
	if p.IL {
		v |= spsrILBit
	}
	if p.SS {
		v |= spsrSSBit
	}
	if p.V {
		v |= spsrVBit
	}
	if p.C {
		v |= spsrCBit
	}
	if p.Z {
		v |= spsrZBit
	}
	if p.N {
		v |= spsrNBit
	}
	return v
}

// PSTATEFromSPSR64 restores processor state from an AArch64 SPSR value.
func PSTATEFromSPSR64(v uint64) PSTATE {
	return PSTATE{
		EL: uint8(v>>spsrModeELShift) & 3,
		SP: v&1 == 1,
		RW: v&spsrRWBit != 0,
		F:  v&spsrFBit != 0,
		I:  v&spsrIBit != 0,
		A:  v&spsrABit != 0,
		D:  v&spsrDBit != 0,
		IL: v&spsrILBit != 0,
		SS: v&spsrSSBit != 0,
		V:  v&spsrVBit != 0,
		C:  v&spsrCBit != 0,
		Z:  v&spsrZBit != 0,
		N:  v&spsrNBit != 0,
	}
}

// ToSPSR32 serializes the processor state into the AArch32 SPSR layout.
// Fields the 64-bit state does not carry (T, E, IT, GE, J, Q) serialize
// as zero; their positions are reserved by the layout.
func (p PSTATE) ToSPSR32() uint32 {
	v := uint32(p.EL&3) << spsrModeELShift
	if p.SP {
		v |= 1
	}
	if p.RW {
		v |= spsrRWBit
	}
	if p.F {
		v |= spsrFBit
	}
	if p.I {
		v |= spsrIBit
	}
	if p.A {
		v |= spsrABit
	}
	if p.IL {
		v |= spsrILBit
	}
	if p.V {
		v |= spsrVBit
	}
	if p.C {
		v |= spsrCBit
	}
	if p.Z {
		v |= spsrZBit
	}
	if p.N {
		v |= spsrNBit
	}
	return v
}
