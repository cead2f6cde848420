package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/a64core/core"
	"github.com/sarchlab/a64core/insts"
	"github.com/sarchlab/a64core/mem"
)

var _ = Describe("Load/Store", func() {
	const dataBase = 0x2000

	var (
		c      *core.Core
		memory *mem.Memory
	)

	load := func(words ...uint32) {
		c, memory = newTestCore(words...)
		memory.Map(dataBase, mem.PageSize)
	}

	It("should execute LDR with an unsigned offset", func() {
		load(encodeLDR64(0, 1, 8))
		c.RegFile().Write(1, dataBase)
		Expect(memory.Write(dataBase+8, 8, 0xDEADBEEFCAFEBABE)).To(Succeed())

		Expect(c.Tick()).To(Succeed())

		Expect(c.RegFile().Read(0)).To(Equal(uint64(0xDEADBEEFCAFEBABE)))
	})

	It("should execute STR with an unsigned offset", func() {
		load(encodeSTR64(0, 1, 16))
		c.RegFile().Write(0, 0x123456789ABCDEF0)
		c.RegFile().Write(1, dataBase)

		Expect(c.Tick()).To(Succeed())

		v, err := memory.Read(dataBase+16, 8)
		Expect(err).To(BeNil())
		Expect(v).To(Equal(uint64(0x123456789ABCDEF0)))
	})

	It("should zero-extend a byte load", func() {
		load(encodeLDRB(0, 1, 0))
		c.RegFile().Write(0, ^uint64(0))
		c.RegFile().Write(1, dataBase)
		Expect(memory.Write(dataBase, 1, 0xFF)).To(Succeed())

		Expect(c.Tick()).To(Succeed())

		Expect(c.RegFile().Read(0)).To(Equal(uint64(0xFF)))
	})

	It("should use SP as the base for register 31", func() {
		load(encodeLDR64(0, 31, 0))
		c.RegFile().SP[0] = dataBase
		Expect(memory.Write(dataBase, 8, 42)).To(Succeed())

		Expect(c.Tick()).To(Succeed())

		Expect(c.RegFile().Read(0)).To(Equal(uint64(42)))
	})

	It("should write back the base before the access in pre-index mode", func() {
		load(encodeLDR64Pre(0, 1, 8))
		c.RegFile().Write(1, dataBase)
		Expect(memory.Write(dataBase+8, 8, 7)).To(Succeed())

		Expect(c.Tick()).To(Succeed())

		Expect(c.RegFile().Read(0)).To(Equal(uint64(7)))
		Expect(c.RegFile().Read(1)).To(Equal(uint64(dataBase + 8)))
	})

	It("should write back the base after the access in post-index mode", func() {
		load(encodeLDR64Post(0, 1, 8))
		c.RegFile().Write(1, dataBase)
		Expect(memory.Write(dataBase, 8, 9)).To(Succeed())

		Expect(c.Tick()).To(Succeed())

		Expect(c.RegFile().Read(0)).To(Equal(uint64(9)))
		Expect(c.RegFile().Read(1)).To(Equal(uint64(dataBase + 8)))
	})

	It("should store with a negative pre-index offset", func() {
		// Push idiom: STR X0, [X1, #-16]!
		load(encodeSTR64Pre(0, 1, -16))
		c.RegFile().Write(0, 0xAB)
		c.RegFile().Write(1, dataBase+32)

		Expect(c.Tick()).To(Succeed())

		v, err := memory.Read(dataBase+16, 8)
		Expect(err).To(BeNil())
		Expect(v).To(Equal(uint64(0xAB)))
		Expect(c.RegFile().Read(1)).To(Equal(uint64(dataBase + 16)))
	})

	It("should add a register offset", func() {
		load(encodeLDR64Reg(0, 1, 2))
		c.RegFile().Write(1, dataBase)
		c.RegFile().Write(2, 24)
		Expect(memory.Write(dataBase+24, 8, 5)).To(Succeed())

		Expect(c.Tick()).To(Succeed())

		Expect(c.RegFile().Read(0)).To(Equal(uint64(5)))
	})

	It("should store through a register offset", func() {
		load(encodeSTR64Reg(0, 1, 2))
		c.RegFile().Write(0, 11)
		c.RegFile().Write(1, dataBase)
		c.RegFile().Write(2, 8)

		Expect(c.Tick()).To(Succeed())

		v, err := memory.Read(dataBase+8, 8)
		Expect(err).To(BeNil())
		Expect(v).To(Equal(uint64(11)))
	})

	Describe("Faults", func() {
		It("should fail a load from unmapped memory without touching Rt", func() {
			load(encodeLDR64(0, 1, 0))
			c.RegFile().Write(0, 0xAB)
			c.RegFile().Write(1, 0x9000_0000)

			err := c.Tick()

			Expect(err).To(MatchError(mem.ErrUnmapped))
			Expect(c.RegFile().Read(0)).To(Equal(uint64(0xAB)))
			Expect(c.RegFile().PC).To(Equal(uint64(programBase)))
		})

		It("should fail a misaligned access", func() {
			load(encodeLDR64(0, 1, 0))
			c.RegFile().Write(1, dataBase+1)

			err := c.Tick()

			Expect(err).To(MatchError(mem.ErrMisaligned))
		})

		It("should skip the writeback when a post-index access faults", func() {
			load(encodeLDR64Post(0, 1, 8))
			c.RegFile().Write(1, 0x9000_0000)

			err := c.Tick()

			Expect(err).To(MatchError(mem.ErrUnmapped))
			Expect(c.RegFile().Read(1)).To(Equal(uint64(0x9000_0000)))
		})

		It("should reject an undefined extend option", func() {
			// Register-offset form with option 0b000.
			word := encodeLDR64Reg(0, 1, 2) &^ uint32(0x7<<13)
			load(word)
			c.RegFile().Write(1, dataBase)

			err := c.Tick()

			Expect(err).To(MatchError(insts.ErrUndefined))
		})
	})
})
