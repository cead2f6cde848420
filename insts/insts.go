package insts

// Op identifies the execution routine an encoding dispatches to.
// Pattern entries carry an Op instead of a callable so the table stays
// immutable data.
type Op uint8

// Supported operations.
const (
	OpUnknown Op = iota
	OpNOP
	OpHINT
	OpADDImm
	OpADDShifted
	OpADDSImm
	OpSUBImm
	OpSUBShifted
	OpSUBSImm
	OpSUBSShifted
	OpSUBSExtended
	OpANDImm
	OpANDShifted
	OpANDSImm
	OpANDSShifted
	OpORRImm
	OpORRShifted
	OpMoveWide
	OpB
	OpBCond
	OpBL
	OpCBZ
	OpCBNZ
	OpCCMNImm
	OpCCMNReg
	OpSVC
	OpADRP
	OpLDRImm
	OpLDRReg
	OpSTRImm
	OpSTRReg
)

// Cond represents an AArch64 condition code.
type Cond uint8

// AArch64 condition codes.
const (
	CondEQ Cond = 0b0000 // Equal (Z == 1)
	CondNE Cond = 0b0001 // Not Equal (Z == 0)
	CondCS Cond = 0b0010 // Carry Set / Unsigned higher or same (C == 1)
	CondCC Cond = 0b0011 // Carry Clear / Unsigned lower (C == 0)
	CondMI Cond = 0b0100 // Minus / Negative (N == 1)
	CondPL Cond = 0b0101 // Plus / Positive or zero (N == 0)
	CondVS Cond = 0b0110 // Overflow (V == 1)
	CondVC Cond = 0b0111 // No overflow (V == 0)
	CondHI Cond = 0b1000 // Unsigned higher (C == 1 && Z == 0)
	CondLS Cond = 0b1001 // Unsigned lower or same (C == 0 || Z == 1)
	CondGE Cond = 0b1010 // Signed greater than or equal (N == V)
	CondLT Cond = 0b1011 // Signed less than (N != V)
	CondGT Cond = 0b1100 // Signed greater than (Z == 0 && N == V)
	CondLE Cond = 0b1101 // Signed less than or equal (Z == 1 || N != V)
	CondAL Cond = 0b1110 // Always (unconditional)
	CondNV Cond = 0b1111 // Always (unconditional, reserved)
)

// ShiftType represents a shift type for register operands.
type ShiftType uint8

// Shift types.
const (
	ShiftLSL ShiftType = 0b00 // Logical shift left
	ShiftLSR ShiftType = 0b01 // Logical shift right
	ShiftASR ShiftType = 0b10 // Arithmetic shift right
	ShiftROR ShiftType = 0b11 // Rotate right
)

// Fields holds the operand sub-fields the architecture places at fixed
// bit positions. Every handler receives the full set and ignores the
// fields its encoding does not use; this keeps the handler signature
// uniform across the whole pattern table.
type Fields struct {
	Rd    uint8  // bits [4:0], destination (or Rt)
	Rn    uint8  // bits [9:5], first source
	Rm    uint8  // bits [20:16], second source (or imm5)
	SF    bool   // bit 31, 1 = 64-bit operation width
	Imm3  uint8  // bits [12:10]
	Imm6  uint8  // bits [15:10]
	Imm12 uint16 // bits [21:10]
	Shift uint8  // bits [23:22]
	Size  uint8  // bits [31:30]
}

// ExtractFields pulls the fixed-position operand fields out of an
// instruction word.
func ExtractFields(word uint32) Fields {
	return Fields{
		Rd:    uint8(word & 0x1F),
		Rn:    uint8((word >> 5) & 0x1F),
		Rm:    uint8((word >> 16) & 0x1F),
		SF:    (word >> 31) == 1,
		Imm3:  uint8((word >> 10) & 0x7),
		Imm6:  uint8((word >> 10) & 0x3F),
		Imm12: uint16((word >> 10) & 0xFFF),
		Shift: uint8((word >> 22) & 0x3),
		Size:  uint8((word >> 30) & 0x3),
	}
}
