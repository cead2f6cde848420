package core

import "io"

// Linux AArch64 syscall numbers.
const (
	SyscallRead  = 63
	SyscallWrite = 64
	SyscallExit  = 93
)

// Error numbers returned in X0.
const (
	errnoBadFD = 9
	errnoFault = 14
	errnoInval = 22
	errnoNoSys = 38
)

// maxWriteCount caps the byte count of a single write call, mirroring
// the Linux MAX_RW_COUNT limit.
const maxWriteCount = 0x7FFFF000

// writeChunkSize bounds the staging buffer for a write so the count
// register cannot force a large host allocation.
const writeChunkSize = 4096

// negErrno encodes an errno under the negative-return convention.
func negErrno(e int64) uint64 {
	return uint64(-e)
}

// SyscallResult reports the outcome of a supervisor call.
type SyscallResult struct {
	// Exited is set when the call terminates the emulated program.
	Exited bool
	// ExitCode is the program's exit status when Exited is set.
	ExitCode int64
}

// SyscallHandler services supervisor calls. The handler reads its
// arguments from the register file it was constructed with: the call
// number in X8, arguments in X0-X5, and the return value written back
// to X0.
type SyscallHandler interface {
	Handle() SyscallResult
}

// DefaultSyscallHandler services the read, write, and exit calls
// against the bound address space and I/O writers. Unknown call
// numbers return -ENOSYS.
type DefaultSyscallHandler struct {
	regs   *RegFile
	space  AddressSpace
	stdout io.Writer
	stderr io.Writer
}

// NewDefaultSyscallHandler creates the default handler.
func NewDefaultSyscallHandler(
	regs *RegFile,
	space AddressSpace,
	stdout, stderr io.Writer,
) *DefaultSyscallHandler {
	return &DefaultSyscallHandler{
		regs:   regs,
		space:  space,
		stdout: stdout,
		stderr: stderr,
	}
}

// Handle dispatches on the call number in X8.
func (h *DefaultSyscallHandler) Handle() SyscallResult {
	num := h.regs.Read(8)

	switch num {
	case SyscallWrite:
		h.regs.Write(0, h.sysWrite())
	case SyscallRead:
		// No input source is attached; report end of file.
		h.regs.Write(0, 0)
	case SyscallExit:
		return SyscallResult{
			Exited:   true,
			ExitCode: int64(h.regs.Read(0)),
		}
	default:
		h.regs.Write(0, negErrno(errnoNoSys))
	}

	return SyscallResult{}
}

func (h *DefaultSyscallHandler) sysWrite() uint64 {
	fd := h.regs.Read(0)
	addr := h.regs.Read(1)
	count := h.regs.Read(2)

	var w io.Writer
	switch fd {
	case 1:
		w = h.stdout
	case 2:
		w = h.stderr
	default:
		return negErrno(errnoBadFD)
	}

	if count > maxWriteCount {
		return negErrno(errnoInval)
	}

	chunk := make([]byte, writeChunkSize)
	var written uint64
	for written < count {
		n := count - written
		if n > writeChunkSize {
			n = writeChunkSize
		}
		for i := uint64(0); i < n; i++ {
			b, err := h.space.Read(addr+written+i, 1)
			if err != nil {
				return negErrno(errnoFault)
			}
			chunk[i] = byte(b)
		}
		if _, err := w.Write(chunk[:n]); err != nil {
			return negErrno(errnoBadFD)
		}
		written += n
	}
	return written
}

// supervisorCall implements SVC. The return state is latched into the
// banked SPSR, ELR, and ESR registers at the target exception level
// before the handler runs, so an external debugger or a later ERET
// path can observe how the call was taken.
func (c *Core) supervisorCall(word uint32) {
	imm16 := uint64((word >> 5) & 0xFFFF)
	el := c.exceptionEL()

	c.regs.Sys.Write(SysSPSR, el, c.regs.PSTATE.ToSPSR64())
	c.regs.Sys.Write(SysELR, el, c.regs.PC+instructionWidth)
	c.regs.Sys.Write(SysESR, el, ecSVC64<<26|esrILBit|imm16)

	res := c.syscalls.Handle()
	if res.Exited {
		c.halted = true
		c.exited = true
		c.exitCode = res.ExitCode
	}
}
