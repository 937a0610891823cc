// Package pipeline implements the out-of-order renaming, issue, writeback,
// commit and recovery engine: fetch, decode, rename via a map table,
// dispatch into per-unit reservation stations, out-of-order issue to the
// ALU/branch/load-store functional units, writeback on a shared bus,
// in-order commit through a reorder buffer, and precise recovery from
// branch mispredictions via per-branch structural checkpoints.
//
// Every module is exposed as a plain struct with methods that read the
// previous tick's registered state and mutate in a controlled order; there
// is no goroutine or channel anywhere in this package, matching the
// single-threaded, two-phase tick discipline the model requires.
package pipeline

// Fixed structural parameters. Named so every module can reference them
// directly rather than threading configuration through constructors.
const (
	// XLEN is the integer register width in bits.
	XLEN = 32
	// NArch is the number of architectural registers.
	NArch = 32
	// NPhys is the number of physical registers backing the PRF.
	NPhys = 128
	// RobDepth is the number of reorder buffer entries.
	RobDepth = 16
	// RsDepth is the number of entries per reservation station.
	RsDepth = 8
)
