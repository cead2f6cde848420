package core

import (
	"fmt"
	"io"
)

// NumELs is the number of exception levels.
const NumELs = 4

// RegFile represents the AArch64 register file: X0-X30, the four banked
// stack pointers, the program counter, processor state and the
// floating-point control/status registers.
type RegFile struct {
	// X holds general-purpose registers X0-X30. Register index 31 is
	// the zero register and has no storage.
	X [31]uint64

	// SP holds the banked stack pointers SP_EL0 through SP_EL3.
	SP [NumELs]uint64

	// PC is the program counter: the address of the instruction being
	// executed.
	PC uint64

	// PSTATE holds the processor state.
	PSTATE PSTATE

	// FPCR and FPSR are the floating-point control and status
	// registers.
	FPCR uint64
	FPSR uint64

	// Sys holds the per-exception-level banked system registers.
	Sys SysRegFile
}

// spIndex resolves which banked stack pointer register index 31
// currently names, per PSTATE.SP and PSTATE.EL.
func (r *RegFile) spIndex() uint8 {
	if !r.PSTATE.SP {
		return 0
	}
	return r.PSTATE.EL & 3
}

// Read reads a register, treating index 31 as the zero register.
func (r *RegFile) Read(reg uint8) uint64 {
	if reg >= 31 {
		return 0
	}
	return r.X[reg]
}

// Write writes a register; writes to index 31 are discarded.
func (r *RegFile) Write(reg uint8, value uint64) {
	if reg >= 31 {
		return
	}
	r.X[reg] = value
}

// ReadSP reads a register, treating index 31 as the current stack
// pointer.
func (r *RegFile) ReadSP(reg uint8) uint64 {
	if reg == 31 {
		return r.SP[r.spIndex()]
	}
	return r.Read(reg)
}

// WriteSP writes a register, treating index 31 as the current stack
// pointer.
func (r *RegFile) WriteSP(reg uint8, value uint64) {
	if reg == 31 {
		r.SP[r.spIndex()] = value
		return
	}
	r.Write(reg, value)
}

// Read32 reads the low 32 bits of a register.
func (r *RegFile) Read32(reg uint8) uint32 {
	return uint32(r.Read(reg))
}

// Write32 writes the 32-bit view of a register, zero-extending into the
// full 64 bits.
func (r *RegFile) Write32(reg uint8, value uint32) {
	r.Write(reg, uint64(value))
}

// Dump writes a human-readable register dump: all general-purpose
// registers, the resolved stack pointer, the PC and the flags.
func (r *RegFile) Dump(w io.Writer) {
	for i := 0; i < 31; i++ {
		sep := "  "
		if i%4 == 3 {
			sep = "\n"
		}
		fmt.Fprintf(w, "x%-2d=0x%016x%s", i, r.X[i], sep)
	}
	fmt.Fprintf(w, "sp =0x%016x\n", r.SP[r.spIndex()])
	fmt.Fprintf(w, "pc =0x%016x  ", r.PC)
	fmt.Fprintf(w, "N=%d Z=%d C=%d V=%d EL%d\n",
		b2i(r.PSTATE.N), b2i(r.PSTATE.Z), b2i(r.PSTATE.C), b2i(r.PSTATE.V),
		r.PSTATE.EL)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
