package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/a64core/core"
	"github.com/sarchlab/a64core/insts"
)

var _ = Describe("RegFile", func() {
	var regs *core.RegFile

	BeforeEach(func() {
		regs = &core.RegFile{}
	})

	It("should read and write general-purpose registers", func() {
		regs.Write(0, 42)
		regs.Write(30, 0xDEAD)

		Expect(regs.Read(0)).To(Equal(uint64(42)))
		Expect(regs.Read(30)).To(Equal(uint64(0xDEAD)))
	})

	It("should treat register 31 as the zero register", func() {
		regs.Write(31, 0xFFFF)

		Expect(regs.Read(31)).To(BeZero())
	})

	It("should zero-extend 32-bit writes", func() {
		regs.Write(0, ^uint64(0))
		regs.Write32(0, 0x1234)

		Expect(regs.Read(0)).To(Equal(uint64(0x1234)))
	})

	Describe("Stack pointer banking", func() {
		It("should resolve SP_EL0 when PSTATE.SP is clear", func() {
			regs.SP[0] = 0x1000
			regs.SP[2] = 0x2000
			regs.PSTATE.EL = 2
			regs.PSTATE.SP = false

			Expect(regs.ReadSP(31)).To(Equal(uint64(0x1000)))
		})

		It("should resolve SP_ELx when PSTATE.SP is set", func() {
			regs.SP[0] = 0x1000
			regs.SP[2] = 0x2000
			regs.PSTATE.EL = 2
			regs.PSTATE.SP = true

			Expect(regs.ReadSP(31)).To(Equal(uint64(0x2000)))
		})

		It("should write through to the selected bank", func() {
			regs.PSTATE.EL = 1
			regs.PSTATE.SP = true

			regs.WriteSP(31, 0x3000)

			Expect(regs.SP[1]).To(Equal(uint64(0x3000)))
			Expect(regs.SP[0]).To(BeZero())
		})

		It("should not bank ordinary registers", func() {
			regs.PSTATE.SP = true
			regs.PSTATE.EL = 3

			regs.WriteSP(5, 7)

			Expect(regs.Read(5)).To(Equal(uint64(7)))
		})
	})
})

var _ = Describe("Banked system registers", func() {
	It("should keep each exception level's instance separate", func() {
		var sys core.SysRegFile

		sys.Write(core.SysTTBR0, 0, 0xAAA)
		sys.Write(core.SysTTBR0, 1, 0xBBB)
		sys.Write(core.SysTTBR0, 3, 0xCCC)

		Expect(sys.Read(core.SysTTBR0, 0)).To(Equal(uint64(0xAAA)))
		Expect(sys.Read(core.SysTTBR0, 1)).To(Equal(uint64(0xBBB)))
		Expect(sys.Read(core.SysTTBR0, 2)).To(BeZero())
		Expect(sys.Read(core.SysTTBR0, 3)).To(Equal(uint64(0xCCC)))
	})

	It("should keep registers at one level separate from each other", func() {
		var sys core.SysRegFile

		sys.Write(core.SysELR, 1, 0x1000)

		Expect(sys.Read(core.SysESR, 1)).To(BeZero())
		Expect(sys.Read(core.SysELR, 1)).To(Equal(uint64(0x1000)))
	})

	It("should name the architectural registers", func() {
		Expect(core.SysESR.String()).To(Equal("ESR"))
		Expect(core.SysTTBR1.String()).To(Equal("TTBR1"))
	})
})

var _ = Describe("PSTATE serialization", func() {
	It("should place every field at its SPSR64 position", func() {
		p := core.PSTATE{
			N: true, Z: true, C: true, V: true,
			D: true, A: true, I: true, F: true,
			SS: true, IL: true,
			EL: 2, SP: true,
		}

		v := p.ToSPSR64()

		Expect(v & 0x1F).To(Equal(uint64(2<<2 | 1))) // M[4:0]
		Expect(v & (1 << 6)).NotTo(BeZero())         // F
		Expect(v & (1 << 7)).NotTo(BeZero())         // I
		Expect(v & (1 << 8)).NotTo(BeZero())         // A
		Expect(v & (1 << 9)).NotTo(BeZero())         // D
		Expect(v & (1 << 20)).NotTo(BeZero())        // IL
		Expect(v & (1 << 21)).NotTo(BeZero())        // SS
		Expect(v >> 28).To(Equal(uint64(0b1111)))    // NZCV
	})

	It("should round-trip through SPSR64", func() {
		p := core.PSTATE{N: true, C: true, EL: 1, SP: true, I: true}

		Expect(core.PSTATEFromSPSR64(p.ToSPSR64())).To(Equal(p))
	})

	It("should serialize a zero state to zero", func() {
		Expect(core.PSTATE{}.ToSPSR64()).To(BeZero())
	})

	It("should place the AArch32 fields in the SPSR32 layout", func() {
		p := core.PSTATE{N: true, Z: true, EL: 1, SP: true, RW: true}

		v := p.ToSPSR32()

		Expect(v & 0x1F).To(Equal(uint32(1<<2 | 1 | 1<<4)))
		Expect(v >> 30).To(Equal(uint32(0b11))) // N and Z
	})
})

var _ = Describe("Condition evaluation", func() {
	DescribeTable("ConditionHolds",
		func(p core.PSTATE, cond insts.Cond, want bool) {
			Expect(p.ConditionHolds(cond)).To(Equal(want))
		},
		Entry("EQ holds on Z", core.PSTATE{Z: true}, insts.CondEQ, true),
		Entry("EQ fails without Z", core.PSTATE{}, insts.CondEQ, false),
		Entry("NE holds without Z", core.PSTATE{}, insts.CondNE, true),
		Entry("CS holds on C", core.PSTATE{C: true}, insts.CondCS, true),
		Entry("CC holds without C", core.PSTATE{}, insts.CondCC, true),
		Entry("MI holds on N", core.PSTATE{N: true}, insts.CondMI, true),
		Entry("PL holds without N", core.PSTATE{}, insts.CondPL, true),
		Entry("VS holds on V", core.PSTATE{V: true}, insts.CondVS, true),
		Entry("VC holds without V", core.PSTATE{}, insts.CondVC, true),
		Entry("HI holds on C and not Z", core.PSTATE{C: true}, insts.CondHI, true),
		Entry("HI fails on C and Z", core.PSTATE{C: true, Z: true}, insts.CondHI, false),
		Entry("LS holds on Z", core.PSTATE{Z: true}, insts.CondLS, true),
		Entry("GE holds when N equals V", core.PSTATE{N: true, V: true}, insts.CondGE, true),
		Entry("LT holds when N differs from V", core.PSTATE{N: true}, insts.CondLT, true),
		Entry("GT holds when not Z and N equals V", core.PSTATE{}, insts.CondGT, true),
		Entry("GT fails on Z", core.PSTATE{Z: true}, insts.CondGT, false),
		Entry("LE holds on Z", core.PSTATE{Z: true}, insts.CondLE, true),
		Entry("AL always holds", core.PSTATE{}, insts.CondAL, true),
		Entry("NV always holds", core.PSTATE{}, insts.CondNV, true),
	)
})

var _ = Describe("Flag primitive", func() {
	var p core.PSTATE

	BeforeEach(func() {
		p = core.PSTATE{}
	})

	It("should report signed overflow on the 32-bit boundary", func() {
		p.SetNZCV32(0x7FFFFFFF, 0x80000000)

		Expect(p.N).To(BeTrue())
		Expect(p.Z).To(BeFalse())
		Expect(p.C).To(BeFalse())
		Expect(p.V).To(BeTrue())
	})

	It("should report carry out of a wrapping addition", func() {
		p.SetNZCV64(^uint64(0), 0)

		Expect(p.Z).To(BeTrue())
		Expect(p.C).To(BeTrue())
		Expect(p.V).To(BeFalse())
	})

	It("should report no borrow for a subtraction that does not wrap", func() {
		p.SetNZCV64(5, 2) // 5 - 3

		Expect(p.C).To(BeTrue())
		Expect(p.N).To(BeFalse())
	})

	It("should report a borrow for a subtraction that wraps", func() {
		old := uint64(3)
		p.SetNZCV64(old, old-5)

		Expect(p.C).To(BeFalse())
		Expect(p.N).To(BeTrue())
	})

	It("should report signed overflow on the 64-bit boundary", func() {
		p.SetNZCV64(0x7FFFFFFFFFFFFFFF, 0x8000000000000000)

		Expect(p.V).To(BeTrue())
		Expect(p.C).To(BeFalse())
	})

	It("should clear C and V on logical results", func() {
		p.C = true
		p.V = true

		p.SetLogicNZCV64(0x8000000000000000)

		Expect(p.N).To(BeTrue())
		Expect(p.Z).To(BeFalse())
		Expect(p.C).To(BeFalse())
		Expect(p.V).To(BeFalse())
	})
})
