package core

import "github.com/sarchlab/a64core/insts"

// ConditionHolds evaluates a 4-bit condition code against the current
// NZCV flags. AL and NV both hold unconditionally.
func (p PSTATE) ConditionHolds(cond insts.Cond) bool {
	switch cond {
	case insts.CondEQ:
		return p.Z
	case insts.CondNE:
		return !p.Z
	case insts.CondCS:
		return p.C
	case insts.CondCC:
		return !p.C
	case insts.CondMI:
		return p.N
	case insts.CondPL:
		return !p.N
	case insts.CondVS:
		return p.V
	case insts.CondVC:
		return !p.V
	case insts.CondHI:
		return p.C && !p.Z
	case insts.CondLS:
		return !p.C || p.Z
	case insts.CondGE:
		return p.N == p.V
	case insts.CondLT:
		return p.N != p.V
	case insts.CondGT:
		return !p.Z && p.N == p.V
	case insts.CondLE:
		return p.Z || p.N != p.V
	case insts.CondAL, insts.CondNV:
		return true
	default:
		return false
	}
}
