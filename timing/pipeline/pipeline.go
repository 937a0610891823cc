package pipeline

import (
	"github.com/sarchlab/rv32ooo/emu"
	"github.com/sarchlab/rv32ooo/insts"
)

// CommitRecord describes one instruction as it retires, for consumers
// that want a per-instruction trace (see the trace package).
type CommitRecord struct {
	Cycle  uint64
	PC     uint32
	Word   uint32
	RdUsed bool
	Arch   uint8
	Value  uint32
}

// CommitSink receives a CommitRecord every time an instruction retires.
// The trace package implements this to emit an opt-in CSV log; production
// use leaves it nil.
type CommitSink interface {
	OnCommit(CommitRecord)
}

// Stats accumulates run counters, returned by value so callers can sample
// it mid-run without holding a reference into pipeline internals.
type Stats struct {
	Cycles  uint64
	Commits uint64
	Flushes uint64

	// RSFullStalls counts ticks where a buffered packet's target
	// reservation station had no free slot.
	RSFullStalls uint64
	// ROBFullStalls counts ticks where the ROB had no free slot for a
	// buffered packet.
	ROBFullStalls uint64
	// DispatchStalls counts ticks where the skid buffer was occupied and
	// could not be released for either reason above, so rename could not
	// admit a new instruction.
	DispatchStalls uint64
}

// Pipeline is the full out-of-order core: rename, dispatch, three
// reservation stations, three functional units, a shared writeback bus, a
// reorder buffer, and the checkpoint/recovery machinery that makes branch
// misprediction recovery precise.
type Pipeline struct {
	rat         *RAT
	freeList    *FreeList
	tagAlloc    *RobTagAllocator
	prf         *PRF
	rob         *ROB
	checkpoints *CheckpointSet

	rsALU *ReservationStation
	rsBRU *ReservationStation
	rsLSU *ReservationStation
	lsu   *LSU

	instMem *emu.InstMemory

	fetchPC       uint32
	awaitingFetch bool
	awaitingPC    uint32
	ifValid       bool
	ifWord        uint32
	ifPC          uint32

	skidValid bool
	skid      RenamedPacket

	pendingRecoverValid  bool
	pendingRecoverTag    uint8
	pendingRecoverTarget uint32

	// pendingCheckpoint holds a branch's checkpoint between the tick it is
	// renamed and the point later in that same tick the PRF portion can be
	// filled in (see tryRename). At most one is outstanding at a time: at
	// most one instruction is renamed per tick.
	pendingCheckpointValid bool
	pendingCheckpointTag   uint8
	pendingCheckpoint      Checkpoint

	stats Stats
	sink  CommitSink
}

// PipelineOption configures a Pipeline at construction time.
type PipelineOption func(*Pipeline)

// WithProgram loads word-addressed instruction memory contents.
func WithProgram(words []uint32) PipelineOption {
	return func(p *Pipeline) {
		p.instMem.LoadWords(words)
	}
}

// WithStartPC sets the initial fetch address, default 0.
func WithStartPC(pc uint32) PipelineOption {
	return func(p *Pipeline) {
		p.fetchPC = pc
	}
}

// WithCommitSink registers a sink that observes every retiring
// instruction, used to drive an opt-in commit trace.
func WithCommitSink(sink CommitSink) PipelineOption {
	return func(p *Pipeline) {
		p.sink = sink
	}
}

// NewPipeline returns a freshly reset pipeline: identity RAT, full free
// list above NArch, zeroed PRF below NArch, empty ROB and reservation
// stations, fetch starting at address 0.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		rat:         NewRAT(),
		freeList:    NewFreeList(),
		tagAlloc:    NewRobTagAllocator(),
		prf:         NewPRF(),
		rob:         NewROB(),
		checkpoints: NewCheckpointSet(),
		rsALU:       NewReservationStation(),
		rsBRU:       NewReservationStation(),
		rsLSU:       NewReservationStation(),
		lsu:         NewLSU(),
		instMem:     emu.NewInstMemory(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tick advances the pipeline by exactly one cycle, in the order: recovery
// (if a mispredict resolved last tick), issue and execute, ROB writeback
// absorption, dispatch release and rename intake, reservation-station
// snoop, PRF writeback absorption, commit, fetch.
func (p *Pipeline) Tick() {
	p.applyRecovery()

	wbALU, okALU := p.issueALU()
	wbBRU, okBRU := p.issueBRU()
	wbLSU, okLSU := p.issueLSU()

	packets := make([]WritebackPacket, 0, 3)
	if okALU {
		packets = append(packets, wbALU)
	}
	if okBRU {
		packets = append(packets, wbBRU)
	}
	if okLSU {
		packets = append(packets, wbLSU)
	}

	for _, wb := range packets {
		p.rob.MarkDone(wb.Tag)
	}

	p.dispatchRelease()
	if !p.skidValid && p.ifValid {
		inst := insts.Decode(p.ifWord)
		if pkt, ok := p.tryRename(p.ifPC, inst); ok {
			p.skid = pkt
			p.skidValid = true
			p.ifValid = false
		}
	}

	p.rsALU.Snoop(packets)
	p.rsBRU.Snoop(packets)
	p.rsLSU.Snoop(packets)

	for _, wb := range packets {
		if wb.RdUsed {
			p.prf.Absorb(wb.Prd, wb.Data)
		}
	}
	p.prf.ForceZero()

	// A branch renamed earlier this tick has its checkpoint's RAT/free
	// list/ROB/tag-allocator fields already filled in; the PRF portion is
	// filled in here, after this tick's writebacks have landed, so a
	// producer that writes back the same tick a branch is renamed is not
	// lost on a later recovery to this checkpoint.
	if p.pendingCheckpointValid {
		p.pendingCheckpoint.PRFRegs = p.prf.SnapshotRegs()
		p.pendingCheckpoint.PRFValid = p.prf.SnapshotValid()
		p.checkpoints.Save(p.pendingCheckpointTag, p.pendingCheckpoint)
		p.pendingCheckpointValid = false
	}

	if p.rob.HeadReady() {
		entry := p.rob.Commit()
		if entry.RdUsed {
			p.freeList.Free(entry.OldPrd)
		}
		p.stats.Commits++
		if p.sink != nil {
			var value uint32
			if entry.RdUsed {
				// entry.Prd, not RAT[entry.Arch]: the RAT may already have
				// been repointed at a younger instruction's destination by
				// the time this one commits, so only the entry's own
				// physical register holds its result.
				value = p.prf.Read(entry.Prd)
			}
			p.sink.OnCommit(CommitRecord{
				Cycle:  p.stats.Cycles,
				PC:     entry.PC,
				RdUsed: entry.RdUsed,
				Arch:   entry.Arch,
				Value:  value,
			})
		}
	}

	p.fetchTick()

	p.stats.Cycles++
}

// Stats returns a snapshot of the run counters accumulated so far.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// ReadArch returns the current architectural value of register a, read
// through the RAT into the PRF. It is a speculative-state read: a
// register renamed by an in-flight, not-yet-committed instruction returns
// that instruction's (possibly not-yet-produced) value.
func (p *Pipeline) ReadArch(a uint8) uint32 {
	return p.prf.Read(p.rat.Get(a))
}
