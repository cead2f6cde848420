package insts

// Instruction represents a decoded AArch64 instruction: the matched
// table entry plus the uniformly extracted operand fields.
type Instruction struct {
	Word uint32
	Op   Op
	Name string
	Fields
}

// Decoder decodes AArch64 machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new AArch64 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode matches a 32-bit instruction word against the pattern table
// and extracts its operand fields. It returns ErrUndefined when no
// entry matches. Decode has no side effects and depends only on word.
func (d *Decoder) Decode(word uint32) (*Instruction, error) {
	pat, err := Lookup(word)
	if err != nil {
		return nil, err
	}

	return &Instruction{
		Word:   word,
		Op:     pat.Op,
		Name:   pat.Name,
		Fields: ExtractFields(word),
	}, nil
}
