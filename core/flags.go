package core

// SetNZCV64 updates the condition flags from the pre- and post-operation
// values of a 64-bit additive operation. N and Z come from the result;
// C is the carry-out of the implied addition old + (result - old); V is
// its signed overflow. Subtraction passes through the same primitive as
// addition of the two's complement.
func (p *PSTATE) SetNZCV64(old, result uint64) {
	addend := result - old

	p.N = result>>63 == 1
	p.Z = result == 0
	p.C = result < old

	oldSign := old >> 63
	addSign := addend >> 63
	resSign := result >> 63
	p.V = oldSign == addSign && resSign != oldSign
}

// SetNZCV32 is the 32-bit overload of SetNZCV64.
func (p *PSTATE) SetNZCV32(old, result uint32) {
	addend := result - old

	p.N = result>>31 == 1
	p.Z = result == 0
	p.C = result < old

	oldSign := old >> 31
	addSign := addend >> 31
	resSign := result >> 31
	p.V = oldSign == addSign && resSign != oldSign
}

// SetLogicNZCV64 updates the flags for a 64-bit flag-setting logical
// operation: N and Z from the result, C and V cleared.
func (p *PSTATE) SetLogicNZCV64(result uint64) {
	p.N = result>>63 == 1
	p.Z = result == 0
	p.C = false
	p.V = false
}

// SetLogicNZCV32 is the 32-bit overload of SetLogicNZCV64.
func (p *PSTATE) SetLogicNZCV32(result uint32) {
	p.N = result>>31 == 1
	p.Z = result == 0
	p.C = false
	p.V = false
}
