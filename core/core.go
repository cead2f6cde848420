package core

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/a64core/insts"
)

// UndefinedPolicy selects what the tick loop does with an instruction
// word that matches no pattern-table entry.
type UndefinedPolicy uint8

const (
	// PolicyFault surfaces the undefined encoding as an error from
	// Tick. This is the default.
	PolicyFault UndefinedPolicy = iota
	// PolicyTrap records the event in ESR at the current exception
	// level and continues past the word as if it were a NOP.
	PolicyTrap
)

// Exception class values for the ESR syndrome register.
const (
	ecUnknown uint64 = 0x00
	ecSVC64   uint64 = 0x15
)

const esrILBit uint64 = 1 << 25

// instructionWidth is the byte width every encoding occupies.
const instructionWidth = 4

// Core is the decode-dispatch engine. One call to Tick performs at most
// one fetch→decode→execute cycle against the architectural state; the
// whole cycle runs to completion before control returns. Core provides
// no internal locking: an external controller driving it from another
// thread of control must serialize its calls against the tick driver.
type Core struct {
	space   AddressSpace
	regs    *RegFile
	decoder *insts.Decoder

	halted   bool
	exited   bool
	exitCode int64
	policy   UndefinedPolicy

	dbg debugState

	syscalls SyscallHandler
	stdout   io.Writer
	stderr   io.Writer

	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// Option is a functional option for configuring a Core.
type Option func(*Core)

// WithStdout sets the writer the default syscall handler uses for
// emulated standard output.
func WithStdout(w io.Writer) Option {
	return func(c *Core) { c.stdout = w }
}

// WithStderr sets the writer the default syscall handler uses for
// emulated standard error.
func WithStderr(w io.Writer) Option {
	return func(c *Core) { c.stderr = w }
}

// WithSyscallHandler sets a custom supervisor-call handler.
func WithSyscallHandler(h SyscallHandler) Option {
	return func(c *Core) { c.syscalls = h }
}

// WithUndefinedPolicy selects the undefined-encoding policy.
func WithUndefinedPolicy(p UndefinedPolicy) Option {
	return func(c *Core) { c.policy = p }
}

// WithStackPointer sets the initial SP_EL0 value.
func WithStackPointer(sp uint64) Option {
	return func(c *Core) { c.regs.SP[0] = sp }
}

// WithMaxInstructions bounds the number of instructions executed.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) Option {
	return func(c *Core) { c.maxInstructions = max }
}

// NewCore creates a core bound to the given address space.
func NewCore(space AddressSpace, opts ...Option) *Core {
	c := &Core{
		space:   space,
		regs:    &RegFile{},
		decoder: insts.NewDecoder(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.syscalls == nil {
		c.syscalls = NewDefaultSyscallHandler(c.regs, space, c.stdout, c.stderr)
	}

	return c
}

// RegFile returns the core's register file for introspection and
// initialization.
func (c *Core) RegFile() *RegFile {
	return c.regs
}

// InstructionCount returns the number of instructions executed since
// the last reset.
func (c *Core) InstructionCount() uint64 {
	return c.instructionCount
}

// Halted reports whether the core is halted.
func (c *Core) Halted() bool {
	return c.halted
}

// Exited reports whether the emulated program terminated via the
// supervisor-call path.
func (c *Core) Exited() bool {
	return c.exited
}

// ExitCode returns the exit status once Exited reports true.
func (c *Core) ExitCode() int64 {
	return c.exitCode
}

// Reset clears the architectural state and resumes a halted core.
// Debug mode and user breakpoints survive a reset.
func (c *Core) Reset() {
	sp0 := c.regs.SP[0]
	*c.regs = RegFile{}
	c.regs.SP[0] = sp0

	c.halted = false
	c.exited = false
	c.exitCode = 0
	c.instructionCount = 0
	c.dbg.broken = false
}

// Halt stops the core; subsequent Tick calls do nothing until Reset.
func (c *Core) Halt() {
	c.halted = true
}

// Prefetch reads the instruction word at pc without executing it.
func (c *Core) Prefetch(pc uint64) (uint32, error) {
	return c.space.Fetch(pc)
}

// Decode exposes the decode-only entry point for disassembly tooling.
func (c *Core) Decode(word uint32) (*insts.Instruction, error) {
	return c.decoder.Decode(word)
}

// DumpRegisters writes a register dump to w.
func (c *Core) DumpRegisters(w io.Writer) {
	c.regs.Dump(w)
}

// Tick performs at most one fetch→decode→execute cycle. A halted core
// does nothing. In debug mode a broken core does nothing, and a PC
// matching an armed breakpoint slot transitions the controller to
// Broken and suppresses the cycle. Errors are local to the cycle: the
// architectural state remains the last known-good state.
func (c *Core) Tick() error {
	if c.halted {
		return nil
	}

	if c.dbg.debugMode {
		if c.dbg.broken {
			return nil
		}
		if _, hit := c.dbg.match(c.regs.PC); hit {
			c.dbg.broken = true
			return nil
		}
	}

	return c.step()
}

// step runs one unconditional fetch→decode→execute cycle.
func (c *Core) step() error {
	if c.maxInstructions > 0 && c.instructionCount >= c.maxInstructions {
		return fmt.Errorf("max instructions reached at PC=0x%X", c.regs.PC)
	}

	word, err := c.space.Fetch(c.regs.PC)
	if err != nil {
		return fmt.Errorf("fetch at PC=0x%X: %w", c.regs.PC, err)
	}

	inst, err := c.decoder.Decode(word)
	if err != nil {
		if c.policy == PolicyTrap {
			el := c.exceptionEL()
			c.regs.Sys.Write(SysESR, el, ecUnknown<<26|esrILBit)
			c.regs.Sys.Write(SysFAR, el, c.regs.PC)
			c.regs.PC += instructionWidth
			c.instructionCount++
			return nil
		}
		return fmt.Errorf("decode 0x%08X at PC=0x%X: %w", word, c.regs.PC, err)
	}

	if err := c.execute(inst); err != nil {
		return fmt.Errorf("%s at PC=0x%X: %w", inst.Name, c.regs.PC, err)
	}

	c.instructionCount++
	return nil
}

// execute dispatches a decoded instruction to its handler. Handlers for
// control-flow instructions update the PC themselves (including the
// fall-through case); every other instruction advances the PC by one
// instruction width here.
func (c *Core) execute(inst *insts.Instruction) error {
	word := inst.Word
	f := inst.Fields

	switch inst.Op {
	case insts.OpB, insts.OpBL:
		c.branchImmediate(word, inst.Op == insts.OpBL)
		return nil
	case insts.OpBCond:
		c.branchConditional(word)
		return nil
	case insts.OpCBZ, insts.OpCBNZ:
		c.compareBranch(word, f, inst.Op == insts.OpCBNZ)
		return nil
	}

	var err error
	switch inst.Op {
	case insts.OpNOP, insts.OpHINT:
		// Unallocated hints execute as NOP.
	case insts.OpADDImm:
		c.addSubImmediate(f, false, false)
	case insts.OpADDSImm:
		c.addSubImmediate(f, false, true)
	case insts.OpSUBImm:
		c.addSubImmediate(f, true, false)
	case insts.OpSUBSImm:
		c.addSubImmediate(f, true, true)
	case insts.OpADDShifted:
		c.addSubShifted(f, false, false)
	case insts.OpSUBShifted:
		c.addSubShifted(f, true, false)
	case insts.OpSUBSShifted:
		c.addSubShifted(f, true, true)
	case insts.OpSUBSExtended:
		c.subsExtended(word, f)
	case insts.OpANDImm:
		err = c.logicalImmediate(word, f, opAND, false)
	case insts.OpANDSImm:
		err = c.logicalImmediate(word, f, opAND, true)
	case insts.OpORRImm:
		err = c.logicalImmediate(word, f, opORR, false)
	case insts.OpANDShifted:
		c.logicalShifted(f, opAND, false)
	case insts.OpANDSShifted:
		c.logicalShifted(f, opAND, true)
	case insts.OpORRShifted:
		c.logicalShifted(f, opORR, false)
	case insts.OpMoveWide:
		err = c.moveWide(word, f)
	case insts.OpADRP:
		c.adrp(inst)
	case insts.OpCCMNImm:
		c.condCompareNegative(word, f, true)
	case insts.OpCCMNReg:
		c.condCompareNegative(word, f, false)
	case insts.OpSVC:
		c.supervisorCall(word)
	case insts.OpLDRImm:
		err = c.loadStoreImmediate(word, f, true)
	case insts.OpSTRImm:
		err = c.loadStoreImmediate(word, f, false)
	case insts.OpLDRReg:
		err = c.loadStoreRegister(word, f, true)
	case insts.OpSTRReg:
		err = c.loadStoreRegister(word, f, false)
	default:
		err = fmt.Errorf("%w: op %d", insts.ErrUndefined, inst.Op)
	}

	if err != nil {
		return err
	}

	c.regs.PC += instructionWidth
	return nil
}

// exceptionEL is the exception level that receives syndrome state:
// the current level, but never below EL1.
func (c *Core) exceptionEL() uint8 {
	el := c.regs.PSTATE.EL & 3
	if el == 0 {
		el = 1
	}
	return el
}
