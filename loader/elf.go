// Package loader reads AArch64 ELF executables and maps them into the
// emulated address space.
package loader

import (
	"debug/elf"
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/a64core/mem"
)

var (
	// ErrNotELF64 is returned for images that are not 64-bit ELF.
	ErrNotELF64 = errors.New("not a 64-bit ELF image")
	// ErrWrongMachine is returned for ELF images built for an
	// architecture other than AArch64.
	ErrWrongMachine = errors.New("not an ARM64 ELF image")
)

// SegmentFlags holds the protection bits of a loadable segment.
type SegmentFlags uint32

const (
	// SegmentFlagExecute marks an executable segment.
	SegmentFlagExecute SegmentFlags = 1 << iota
	// SegmentFlagWrite marks a writable segment.
	SegmentFlagWrite
	// SegmentFlagRead marks a readable segment.
	SegmentFlagRead
)

// DefaultStackTop is where the initial stack pointer is placed: a
// conventional high address in the AArch64 Linux user range.
const DefaultStackTop = 0x7ffffffff000

// DefaultStackSize is the stack reservation below DefaultStackTop (8MB).
const DefaultStackSize = 8 * 1024 * 1024

// Segment is one PT_LOAD entry of the image. MemSize may exceed
// len(Data); the tail is the zero-initialized BSS portion.
type Segment struct {
	VirtAddr uint64
	Data     []byte
	MemSize  uint64
	Flags    SegmentFlags
}

// Program is a parsed executable ready to be mapped and run.
type Program struct {
	EntryPoint uint64
	Segments   []Segment
	InitialSP  uint64
}

// Load parses an AArch64 ELF executable and collects its loadable
// segments.
func Load(path string) (*Program, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if f.Class != elf.ELFCLASS64 {
		return nil, fmt.Errorf("%s: %w", path, ErrNotELF64)
	}
	if f.Machine != elf.EM_AARCH64 {
		return nil, fmt.Errorf("%s: %w (machine %v)", path, ErrWrongMachine, f.Machine)
	}

	segs := make([]Segment, 0, len(f.Progs))
	for _, p := range f.Progs {
		if p.Type != elf.PT_LOAD {
			continue
		}
		seg, err := readSegment(p)
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}

	return &Program{
		EntryPoint: f.Entry,
		Segments:   segs,
		InitialSP:  DefaultStackTop,
	}, nil
}

// readSegment copies the file-backed portion of one PT_LOAD entry.
func readSegment(p *elf.Prog) (Segment, error) {
	data := make([]byte, p.Filesz)
	if p.Filesz > 0 {
		r := io.NewSectionReader(p, 0, int64(p.Filesz))
		if _, err := io.ReadFull(r, data); err != nil {
			return Segment{}, fmt.Errorf("segment at 0x%X: %w", p.Vaddr, err)
		}
	}

	return Segment{
		VirtAddr: p.Vaddr,
		Data:     data,
		MemSize:  p.Memsz,
		Flags:    segmentFlags(p.Flags),
	}, nil
}

// segmentFlags converts ELF program-header flags.
func segmentFlags(f elf.ProgFlag) SegmentFlags {
	var out SegmentFlags
	if f&elf.PF_X != 0 {
		out |= SegmentFlagExecute
	}
	if f&elf.PF_W != 0 {
		out |= SegmentFlagWrite
	}
	if f&elf.PF_R != 0 {
		out |= SegmentFlagRead
	}
	return out
}

// MapInto places the program's segments and stack into m. BSS tails
// (MemSize beyond the file data) are mapped and left zeroed.
func (p *Program) MapInto(m *mem.Memory) {
	for _, seg := range p.Segments {
		size := seg.MemSize
		if size < uint64(len(seg.Data)) {
			size = uint64(len(seg.Data))
		}
		m.Map(seg.VirtAddr, size)
		if len(seg.Data) > 0 {
			_ = m.WriteBlock(seg.VirtAddr, seg.Data)
		}
	}

	m.Map(p.InitialSP-DefaultStackSize, DefaultStackSize)
}
