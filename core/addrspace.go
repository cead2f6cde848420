// Package core implements the AArch64 decode-dispatch engine: the
// architectural state model, the instruction handlers, the tick loop
// and the debug/breakpoint controller.
package core

// AddressSpace is the single collaborator the core consumes. Fetch
// returns the 32-bit instruction word at address; Read and Write move
// little-endian values of 1, 2, 4 or 8 bytes. All three fail on
// unmapped addresses and on misaligned accesses the architecture
// requires to be aligned. Accesses are synchronous; the core never
// retries a faulted access.
type AddressSpace interface {
	Fetch(addr uint64) (uint32, error)
	Read(addr uint64, size int) (uint64, error)
	Write(addr uint64, size int, value uint64) error
}
