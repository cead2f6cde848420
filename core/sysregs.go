package core

// SysReg names one of the banked system registers.
type SysReg uint8

// Banked system registers. Each is instantiated once per exception
// level.
const (
	SysACTLR SysReg = iota
	SysCCSIDR
	SysCLIDR
	SysCNTFRQ
	SysCNTPCT
	SysCNTKCTL
	SysCNTPCVAL
	SysCPACR
	SysCSSELR
	SysCNTPCTL
	SysCTR
	SysDCZID
	SysELR
	SysESR
	SysFAR
	SysHCR
	SysMAIR
	SysMIDR
	SysMPIDR
	SysRVBAR
	SysSCR
	SysSCTLR
	SysSPSR
	SysTCR
	SysTPIDR
	SysTPIDRRO
	SysTTBR0
	SysTTBR1
	SysVBAR
	SysVTCR
	SysVTTBR

	numSysRegs
)

var sysRegNames = [numSysRegs]string{
	"ACTLR", "CCSIDR", "CLIDR", "CNTFRQ", "CNTPCT", "CNTKCTL",
	"CNTP_CVAL", "CPACR", "CSSELR", "CNTP_CTL", "CTR", "DCZID",
	"ELR", "ESR", "FAR", "HCR", "MAIR", "MIDR", "MPIDR", "RVBAR",
	"SCR", "SCTLR", "SPSR", "TCR", "TPIDR", "TPIDRRO", "TTBR0",
	"TTBR1", "VBAR", "VTCR", "VTTBR",
}

// String returns the architectural name of the register.
func (s SysReg) String() string {
	if s >= numSysRegs {
		return "SYSREG(?)"
	}
	return sysRegNames[s]
}

// SysRegFile stores the banked system registers as an explicit
// (register × exception level) mapping. A write at one exception level
// is invisible at every other level.
type SysRegFile struct {
	regs [numSysRegs][NumELs]uint64
}

// Read returns the banked instance of reg at exception level el.
func (s *SysRegFile) Read(reg SysReg, el uint8) uint64 {
	if reg >= numSysRegs {
		return 0
	}
	return s.regs[reg][el&3]
}

// Write sets the banked instance of reg at exception level el.
func (s *SysRegFile) Write(reg SysReg, el uint8, value uint64) {
	if reg >= numSysRegs {
		return
	}
	s.regs[reg][el&3] = value
}
