// Package core provides the cycle-accurate CPU core model. It wraps the
// out-of-order pipeline implementation to provide a high-level interface
// for loading a program and running it for a bounded number of cycles.
package core

import (
	"github.com/sarchlab/rv32ooo/timing/pipeline"
)

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Commits is the number of instructions retired.
	Commits uint64
	// Flushes is the number of mispredict recoveries.
	Flushes uint64
	// RSFullStalls counts ticks stalled by a full destination reservation
	// station.
	RSFullStalls uint64
	// ROBFullStalls counts ticks stalled by a full reorder buffer.
	ROBFullStalls uint64
	// DispatchStalls counts ticks the skid buffer held an instruction it
	// could not release into a reservation station and the ROB.
	DispatchStalls uint64
}

// Core wraps the out-of-order pipeline and provides a simple interface
// for simulation. The RV32I subset modeled here has no exit or ecall
// instruction, so there is no notion of the machine halting on its own:
// callers bound execution with Run's cycle count.
type Core struct {
	Pipeline *pipeline.Pipeline
}

// NewCore creates a new Core from the given pipeline options (see
// pipeline.WithProgram, pipeline.WithStartPC, pipeline.WithCommitSink).
func NewCore(opts ...pipeline.PipelineOption) *Core {
	return &Core{Pipeline: pipeline.NewPipeline(opts...)}
}

// Tick executes one pipeline cycle.
func (c *Core) Tick() {
	c.Pipeline.Tick()
}

// Run executes the core for exactly cycles ticks.
func (c *Core) Run(cycles uint64) {
	for i := uint64(0); i < cycles; i++ {
		c.Pipeline.Tick()
	}
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	s := c.Pipeline.Stats()
	return Stats{
		Cycles:         s.Cycles,
		Commits:        s.Commits,
		Flushes:        s.Flushes,
		RSFullStalls:   s.RSFullStalls,
		ROBFullStalls:  s.ROBFullStalls,
		DispatchStalls: s.DispatchStalls,
	}
}

// ReadArch returns the current architectural value of register a.
func (c *Core) ReadArch(a uint8) uint32 {
	return c.Pipeline.ReadArch(a)
}
