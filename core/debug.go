package core

import (
	"errors"
	"fmt"
)

// NumBreakpoints is the number of user-settable breakpoint slots.
const NumBreakpoints = 16

// SteppingBreakpointID identifies the reserved slot the single-step
// machinery arms. It sits one past the user slots and cannot be set or
// removed through the public breakpoint operations.
const SteppingBreakpointID = NumBreakpoints

var (
	// ErrNoFreeBreakpoint is returned when all user slots are armed.
	ErrNoFreeBreakpoint = errors.New("no free breakpoint slot")
	// ErrInvalidBreakpoint is returned for an out-of-range or unarmed
	// breakpoint id.
	ErrInvalidBreakpoint = errors.New("invalid breakpoint")
	// ErrNotInDebugMode is returned by operations that require the
	// debug controller to be engaged.
	ErrNotInDebugMode = errors.New("not in debug mode")
)

type breakpointSlot struct {
	addr  uint64
	armed bool
}

// debugState tracks the debug controller: whether debug mode is
// engaged, whether the core is broken, and the breakpoint slots. The
// last slot is reserved for single-stepping.
type debugState struct {
	debugMode bool
	broken    bool
	slots     [NumBreakpoints + 1]breakpointSlot
}

// match reports the lowest armed slot whose address equals pc.
func (d *debugState) match(pc uint64) (uint8, bool) {
	for id, slot := range d.slots {
		if slot.armed && slot.addr == pc {
			return uint8(id), true
		}
	}
	return 0, false
}

// EnterDebugMode engages the debug controller. The core keeps running
// until it breaks on a breakpoint or an explicit Break.
func (c *Core) EnterDebugMode() {
	c.dbg.debugMode = true
}

// ExitDebugMode disengages the debug controller and resumes free
// running. Armed breakpoints stay armed but are no longer checked.
func (c *Core) ExitDebugMode() {
	c.dbg.debugMode = false
	c.dbg.broken = false
}

// DebugMode reports whether the debug controller is engaged.
func (c *Core) DebugMode() bool {
	return c.dbg.debugMode
}

// Broken reports whether the core is stopped at a break.
func (c *Core) Broken() bool {
	return c.dbg.debugMode && c.dbg.broken
}

// Break stops a running core at the current PC. It is an error to
// break outside debug mode.
func (c *Core) Break() error {
	if !c.dbg.debugMode {
		return ErrNotInDebugMode
	}
	c.dbg.broken = true
	return nil
}

// Continue resumes a broken core. If a breakpoint is armed at the
// current PC, the instruction under it is executed first so the next
// Tick does not immediately re-break at the same address.
func (c *Core) Continue() error {
	if !c.dbg.debugMode {
		return ErrNotInDebugMode
	}
	if !c.dbg.broken {
		return nil
	}
	c.dbg.broken = false
	if _, hit := c.dbg.match(c.regs.PC); hit {
		// Step over the instruction under the breakpoint so the
		// next Tick does not immediately re-break here.
		return c.step()
	}
	return nil
}

// SetBreakpoint arms the lowest free user slot at addr and returns its
// id.
func (c *Core) SetBreakpoint(addr uint64) (uint8, error) {
	for id := 0; id < NumBreakpoints; id++ {
		if !c.dbg.slots[id].armed {
			c.dbg.slots[id] = breakpointSlot{addr: addr, armed: true}
			return uint8(id), nil
		}
	}
	return 0, ErrNoFreeBreakpoint
}

// RemoveBreakpoint disarms the user slot with the given id.
func (c *Core) RemoveBreakpoint(id uint8) error {
	if id >= NumBreakpoints {
		return fmt.Errorf("%w: id %d", ErrInvalidBreakpoint, id)
	}
	if !c.dbg.slots[id].armed {
		return fmt.Errorf("%w: slot %d not armed", ErrInvalidBreakpoint, id)
	}
	c.dbg.slots[id] = breakpointSlot{}
	return nil
}

// Breakpoints returns the armed user breakpoints keyed by slot id.
func (c *Core) Breakpoints() map[uint8]uint64 {
	out := make(map[uint8]uint64)
	for id := 0; id < NumBreakpoints; id++ {
		if c.dbg.slots[id].armed {
			out[uint8(id)] = c.dbg.slots[id].addr
		}
	}
	return out
}

// SingleStep executes exactly one instruction of a broken core and
// breaks again. The reserved stepping slot is armed at the next
// sequential address for the duration of the step and disarmed after,
// so a taken branch still results in exactly one executed instruction.
func (c *Core) SingleStep() error {
	if !c.dbg.debugMode {
		return ErrNotInDebugMode
	}

	c.dbg.slots[SteppingBreakpointID] = breakpointSlot{
		addr:  c.regs.PC + instructionWidth,
		armed: true,
	}
	c.dbg.broken = false

	err := c.step()

	c.dbg.slots[SteppingBreakpointID] = breakpointSlot{}
	c.dbg.broken = true
	return err
}
