package insts

import "errors"

// ErrUndefined reports an instruction word that matches no entry in the
// pattern table. The policy for undefined encodings (fatal vs. trap)
// belongs to the caller, not the decoder.
var ErrUndefined = errors.New("undefined instruction encoding")

// Pattern describes one instruction encoding: a word matches when
// (word & Mask) == Bits. The table is ordered and the first match wins,
// so more specific encodings must precede more general ones that would
// otherwise also match.
type Pattern struct {
	Mask uint32
	Bits uint32
	Op   Op
	Name string
}

// Matches reports whether word carries this entry's fixed bits.
func (p *Pattern) Matches(word uint32) bool {
	return word&p.Mask == p.Bits
}

// patternTable lists every supported encoding. NOP sits in the hint
// space, so it must precede the catch-all HINT entry.
var patternTable = []Pattern{
	{0xFFFFFFFF, 0xD503201F, OpNOP, "NOP"},
	{0xFFFFF01F, 0xD503201F, OpHINT, "HINT"},
	{0xFFE0001F, 0xD4000001, OpSVC, "SVC"},

	{0x7F800000, 0x11000000, OpADDImm, "ADD_IMMEDIATE"},
	{0x7F800000, 0x31000000, OpADDSImm, "ADDS_IMMEDIATE"},
	{0x7F800000, 0x51000000, OpSUBImm, "SUB_IMMEDIATE"},
	{0x7F800000, 0x71000000, OpSUBSImm, "SUBS_IMMEDIATE"},
	{0x7FE00000, 0x6B200000, OpSUBSExtended, "SUBS_EXTENDED_REGISTER"},
	{0x7F200000, 0x0B000000, OpADDShifted, "ADD_SHIFTED_REGISTER"},
	{0x7F200000, 0x4B000000, OpSUBShifted, "SUB_SHIFTED_REGISTER"},
	{0x7F200000, 0x6B000000, OpSUBSShifted, "SUBS_SHIFTED_REGISTER"},

	{0x7F800000, 0x12000000, OpANDImm, "AND_IMMEDIATE"},
	{0x7F800000, 0x32000000, OpORRImm, "ORR_IMMEDIATE"},
	{0x7F800000, 0x72000000, OpANDSImm, "ANDS_IMMEDIATE"},
	{0x7F200000, 0x0A000000, OpANDShifted, "AND_SHIFTED_REGISTER"},
	{0x7F200000, 0x2A000000, OpORRShifted, "ORR_SHIFTED_REGISTER"},
	{0x7F200000, 0x6A000000, OpANDSShifted, "ANDS_SHIFTED_REGISTER"},

	{0x1F800000, 0x12800000, OpMoveWide, "MOVNZK"},
	{0x9F000000, 0x90000000, OpADRP, "ADRP"},

	{0xFC000000, 0x14000000, OpB, "B"},
	{0xFC000000, 0x94000000, OpBL, "BL"},
	{0xFF000010, 0x54000000, OpBCond, "B_COND"},
	{0x7F000000, 0x34000000, OpCBZ, "CBZ"},
	{0x7F000000, 0x35000000, OpCBNZ, "CBNZ"},

	{0x7FE00C10, 0x3A400800, OpCCMNImm, "CCMN_IMMEDIATE"},
	{0x7FE00C10, 0x3A400000, OpCCMNReg, "CCMN_REGISTER"},

	{0x3FE00400, 0x38000400, OpSTRImm, "STR_IMMEDIATE"},
	{0x3FE00400, 0x38400400, OpLDRImm, "LDR_IMMEDIATE"},
	{0x3FE00C00, 0x38200800, OpSTRReg, "STR_REGISTER"},
	{0x3FE00C00, 0x38600800, OpLDRReg, "LDR_REGISTER"},
	{0x3FC00000, 0x39000000, OpSTRImm, "STR_IMMEDIATE"},
	{0x3FC00000, 0x39400000, OpLDRImm, "LDR_IMMEDIATE"},
}

// Match scans table in order and returns the first entry matching word.
func Match(table []Pattern, word uint32) (*Pattern, error) {
	for i := range table {
		if table[i].Matches(word) {
			return &table[i], nil
		}
	}
	return nil, ErrUndefined
}

// Lookup matches word against the built-in pattern table.
func Lookup(word uint32) (*Pattern, error) {
	return Match(patternTable, word)
}

// Patterns returns a copy of the built-in pattern table, mostly for
// table-level tests and tooling.
func Patterns() []Pattern {
	out := make([]Pattern, len(patternTable))
	copy(out, patternTable)
	return out
}
