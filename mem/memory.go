// Package mem provides the emulated physical memory and an optional
// cache layer in front of it. Memory is sparse: pages are allocated on
// Map, and any access to an unmapped page faults. All multi-byte
// accesses are little-endian and must be naturally aligned.
package mem

import (
	"errors"
	"fmt"
)

// PageSize is the allocation granule of the sparse memory.
const PageSize = 0x1000

var (
	// ErrUnmapped is returned for an access touching an unmapped page.
	ErrUnmapped = errors.New("unmapped address")
	// ErrMisaligned is returned for an access that is not naturally
	// aligned to its size.
	ErrMisaligned = errors.New("misaligned access")
	// ErrBadSize is returned for an access size other than 1, 2, 4
	// or 8 bytes.
	ErrBadSize = errors.New("unsupported access size")
)

// Memory is a sparse, page-granular byte store.
type Memory struct {
	pages map[uint64][]byte
}

// NewMemory creates an empty memory with no pages mapped.
func NewMemory() *Memory {
	return &Memory{pages: make(map[uint64][]byte)}
}

// Map allocates zeroed pages covering [addr, addr+size). Pages already
// mapped in the range are left untouched.
func (m *Memory) Map(addr, size uint64) {
	if size == 0 {
		return
	}
	first := addr / PageSize
	last := (addr + size - 1) / PageSize
	for p := first; p <= last; p++ {
		if _, ok := m.pages[p]; !ok {
			m.pages[p] = make([]byte, PageSize)
		}
	}
}

// Mapped reports whether addr falls on a mapped page.
func (m *Memory) Mapped(addr uint64) bool {
	_, ok := m.pages[addr/PageSize]
	return ok
}

func (m *Memory) page(addr uint64) ([]byte, error) {
	p, ok := m.pages[addr/PageSize]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%X", ErrUnmapped, addr)
	}
	return p, nil
}

// Fetch reads a 4-byte instruction word. The address must be 4-byte
// aligned.
func (m *Memory) Fetch(addr uint64) (uint32, error) {
	if addr%4 != 0 {
		return 0, fmt.Errorf("%w: fetch at 0x%X", ErrMisaligned, addr)
	}
	v, err := m.Read(addr, 4)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// Read reads a little-endian value of size bytes at addr.
func (m *Memory) Read(addr uint64, size int) (uint64, error) {
	if err := checkAccess(addr, size); err != nil {
		return 0, err
	}

	page, err := m.page(addr)
	if err != nil {
		return 0, err
	}

	offset := addr % PageSize
	var value uint64
	for i := 0; i < size; i++ {
		value |= uint64(page[offset+uint64(i)]) << (i * 8)
	}
	return value, nil
}

// Write writes a little-endian value of size bytes at addr.
func (m *Memory) Write(addr uint64, size int, value uint64) error {
	if err := checkAccess(addr, size); err != nil {
		return err
	}

	page, err := m.page(addr)
	if err != nil {
		return err
	}

	offset := addr % PageSize
	for i := 0; i < size; i++ {
		page[offset+uint64(i)] = byte(value >> (i * 8))
	}
	return nil
}

// ReadBlock copies len(dst) bytes starting at addr. The range may span
// pages; every page it touches must be mapped.
func (m *Memory) ReadBlock(addr uint64, dst []byte) error {
	for i := range dst {
		page, err := m.page(addr + uint64(i))
		if err != nil {
			return err
		}
		dst[i] = page[(addr+uint64(i))%PageSize]
	}
	return nil
}

// WriteBlock copies src into memory starting at addr.
func (m *Memory) WriteBlock(addr uint64, src []byte) error {
	for i := range src {
		page, err := m.page(addr + uint64(i))
		if err != nil {
			return err
		}
		page[(addr+uint64(i))%PageSize] = src[i]
	}
	return nil
}

// LoadBytes maps the range covering data and copies it in. Loaders use
// this to place segments.
func (m *Memory) LoadBytes(addr uint64, data []byte) {
	m.Map(addr, uint64(len(data)))
	_ = m.WriteBlock(addr, data)
}

// checkAccess validates the size and natural alignment of an access.
// Byte accesses are always aligned.
func checkAccess(addr uint64, size int) error {
	switch size {
	case 1, 2, 4, 8:
	default:
		return fmt.Errorf("%w: %d bytes", ErrBadSize, size)
	}
	if addr%uint64(size) != 0 {
		return fmt.Errorf("%w: %d-byte access at 0x%X", ErrMisaligned, size, addr)
	}
	// A naturally aligned access never crosses a page boundary.
	return nil
}
