// Package insts provides AArch64 instruction definitions and decoding.
//
// Decoding is table driven: an ordered list of (mask, pattern) entries
// describes which fixed bits identify each instruction encoding, and the
// first entry whose pattern matches a word wins. Decoding is a pure
// function of the instruction word, so the table can be tested in
// isolation from any machine state.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst, err := decoder.Decode(0x91001441) // ADD X1, X2, #5
//	fmt.Printf("%s Rd=%d Rn=%d imm12=%d\n", inst.Name, inst.Rd, inst.Rn, inst.Imm12)
package insts
