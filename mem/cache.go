package mem

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Config holds the geometry of a cache level.
type Config struct {
	// Size in bytes.
	Size int
	// Associativity is the number of ways per set.
	Associativity int
	// BlockSize in bytes.
	BlockSize int
}

// DefaultL1Config returns a 32KB, 4-way, 64B-line configuration.
func DefaultL1Config() Config {
	return Config{
		Size:          32 * 1024,
		Associativity: 4,
		BlockSize:     64,
	}
}

// Stats holds access counters for a cache.
type Stats struct {
	Reads     uint64
	Writes    uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// CachedSpace wraps a Memory with an L1-style cache built on the Akita
// cache directory. Writes are write-through without allocation, so a
// store to an unmapped address faults immediately and leaves the cache
// untouched. A read miss fills the whole block from the backing
// memory; if any byte of the block is unmapped the fill is skipped and
// the read goes straight to memory so the fault surfaces unchanged.
type CachedSpace struct {
	backing *Memory
	config  Config

	directory *akitacache.DirectoryImpl

	// dataStore holds block payloads indexed by setID*ways+wayID.
	dataStore [][]byte

	stats Stats
}

// NewCachedSpace creates a cache in front of backing.
func NewCachedSpace(backing *Memory, config Config) *CachedSpace {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]byte, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]byte, config.BlockSize)
	}

	return &CachedSpace{
		backing: backing,
		config:  config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
	}
}

// Config returns the cache geometry.
func (c *CachedSpace) Config() Config {
	return c.config
}

// Stats returns the access counters.
func (c *CachedSpace) Stats() Stats {
	return c.stats
}

// ResetStats clears the access counters.
func (c *CachedSpace) ResetStats() {
	c.stats = Stats{}
}

func (c *CachedSpace) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

func (c *CachedSpace) blockAddr(addr uint64) uint64 {
	return addr / uint64(c.config.BlockSize) * uint64(c.config.BlockSize)
}

// Fetch reads an instruction word through the cache.
func (c *CachedSpace) Fetch(addr uint64) (uint32, error) {
	if addr%4 != 0 {
		_, err := c.backing.Fetch(addr) // surface the alignment fault
		return 0, err
	}
	v, err := c.Read(addr, 4)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// Read reads a little-endian value of size bytes through the cache.
func (c *CachedSpace) Read(addr uint64, size int) (uint64, error) {
	if err := checkAccess(addr, size); err != nil {
		return 0, err
	}
	c.stats.Reads++

	blockAddr := c.blockAddr(addr)
	block := c.directory.Lookup(0, blockAddr)

	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
		return extractData(c.dataStore[c.blockIndex(block)],
			addr-blockAddr, size), nil
	}

	c.stats.Misses++
	return c.fillAndRead(addr, size)
}

// fillAndRead handles a read miss: fill the block, then serve the read
// from it. If the block straddles unmapped memory the fill is skipped
// and the read bypasses the cache.
func (c *CachedSpace) fillAndRead(addr uint64, size int) (uint64, error) {
	blockAddr := c.blockAddr(addr)

	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		return c.backing.Read(addr, size)
	}

	victimData := c.dataStore[c.blockIndex(victim)]

	fill := make([]byte, c.config.BlockSize)
	if err := c.backing.ReadBlock(blockAddr, fill); err != nil {
		// Part of the block is unmapped. Bypass so the access
		// faults, or succeeds, exactly as an uncached one would.
		return c.backing.Read(addr, size)
	}

	if victim.IsValid {
		c.stats.Evictions++
	}

	copy(victimData, fill)
	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false
	c.directory.Visit(victim)

	return extractData(victimData, addr-blockAddr, size), nil
}

// Write writes through to the backing memory and updates the cached
// copy if the block is resident. A write miss does not allocate.
func (c *CachedSpace) Write(addr uint64, size int, value uint64) error {
	if err := checkAccess(addr, size); err != nil {
		return err
	}
	c.stats.Writes++

	if err := c.backing.Write(addr, size, value); err != nil {
		return err
	}

	blockAddr := c.blockAddr(addr)
	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
		storeData(c.dataStore[c.blockIndex(block)], addr-blockAddr, size, value)
	} else {
		c.stats.Misses++
	}
	return nil
}

// Invalidate drops the cached copy of the block containing addr.
func (c *CachedSpace) Invalidate(addr uint64) {
	block := c.directory.Lookup(0, c.blockAddr(addr))
	if block != nil && block.IsValid {
		block.IsValid = false
		block.IsDirty = false
	}
}

// Flush invalidates every cached block. The cache is write-through, so
// no writeback is needed.
func (c *CachedSpace) Flush() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			block.IsValid = false
			block.IsDirty = false
		}
	}
}

// extractData reads a little-endian value out of a block payload.
func extractData(data []byte, offset uint64, size int) uint64 {
	var value uint64
	for i := 0; i < size; i++ {
		value |= uint64(data[int(offset)+i]) << (i * 8)
	}
	return value
}

// storeData writes a little-endian value into a block payload.
func storeData(data []byte, offset uint64, size int, value uint64) {
	for i := 0; i < size; i++ {
		data[int(offset)+i] = byte(value >> (i * 8))
	}
}
