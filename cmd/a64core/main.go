// Package main provides the entry point for a64core, a 64-bit
// ARM-compatible CPU emulator.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/sarchlab/a64core/core"
	"github.com/sarchlab/a64core/loader"
	"github.com/sarchlab/a64core/mem"
)

var (
	verbose  = flag.Bool("v", false, "Verbose output")
	maxInsts = flag.Uint64("max", 0, "Maximum instructions to execute (0 = unlimited)")
	dump     = flag.Bool("dump", false, "Dump the full register file on exit")
	breaks   = flag.String("break", "", "Comma-separated hex breakpoint addresses")
	useCache = flag.Bool("cache", false, "Route memory accesses through an L1 cache model")
	trap     = flag.Bool("trap-undef", false, "Record undefined encodings in ESR and continue instead of faulting")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: a64core [options] <program.elf>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Entry point: 0x%X\n", prog.EntryPoint)
		fmt.Printf("Segments: %d\n", len(prog.Segments))
	}

	os.Exit(int(run(prog, programPath)))
}

// run executes the program to completion and returns its exit code.
func run(prog *loader.Program, programPath string) int64 {
	memory := mem.NewMemory()
	prog.MapInto(memory)

	var space core.AddressSpace = memory
	var cache *mem.CachedSpace
	if *useCache {
		cache = mem.NewCachedSpace(memory, mem.DefaultL1Config())
		space = cache
	}

	policy := core.PolicyFault
	if *trap {
		policy = core.PolicyTrap
	}

	c := core.NewCore(space,
		core.WithStackPointer(prog.InitialSP),
		core.WithMaxInstructions(*maxInsts),
		core.WithUndefinedPolicy(policy),
	)
	c.RegFile().PC = prog.EntryPoint

	bps, err := parseBreakpoints(*breaks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing breakpoints: %v\n", err)
		os.Exit(1)
	}
	if len(bps) > 0 {
		c.EnterDebugMode()
		for _, addr := range bps {
			if _, err := c.SetBreakpoint(addr); err != nil {
				fmt.Fprintf(os.Stderr, "Error setting breakpoint at 0x%X: %v\n", addr, err)
				os.Exit(1)
			}
		}
	}

	for !c.Halted() {
		if c.Broken() {
			fmt.Printf("\nBreakpoint hit at PC=0x%X\n", c.RegFile().PC)
			if word, err := c.Prefetch(c.RegFile().PC); err == nil {
				if inst, err := c.Decode(word); err == nil {
					fmt.Printf("  %08X  %s\n", word, inst)
				}
			}
			c.DumpRegisters(os.Stdout)
			// Step over the instruction under the breakpoint so
			// Continue does not immediately re-break here.
			if err := c.SingleStep(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 1
			}
			if err := c.Continue(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 1
			}
			continue
		}

		if err := c.Tick(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if *verbose {
		fmt.Printf("\nProgram: %s\n", programPath)
		fmt.Printf("Exit code: %d\n", c.ExitCode())
		fmt.Printf("Instructions executed: %d\n", c.InstructionCount())
		if cache != nil {
			stats := cache.Stats()
			fmt.Printf("Cache: %d reads, %d writes, %d hits, %d misses, %d evictions\n",
				stats.Reads, stats.Writes, stats.Hits, stats.Misses, stats.Evictions)
		}
	}

	if *dump {
		spew.Fdump(os.Stdout, c.RegFile())
	}

	return c.ExitCode()
}

// parseBreakpoints parses a comma-separated list of hex addresses.
func parseBreakpoints(s string) ([]uint64, error) {
	if s == "" {
		return nil, nil
	}

	var out []uint64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimPrefix(strings.TrimSpace(part), "0x")
		addr, err := strconv.ParseUint(part, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("bad address %q: %w", part, err)
		}
		out = append(out, addr)
	}
	return out, nil
}
