package pipeline

import "github.com/sarchlab/rv32ooo/insts"

// RenamedPacket is the output of rename: a decoded instruction with its
// sources and destination translated into physical register space, ready
// for dispatch to insert into a reservation station and the ROB.
type RenamedPacket struct {
	Valid  bool
	PC     uint32
	Inst   insts.Instruction
	Tag    uint8
	Prs1   uint8
	Prs2   uint8
	Ready1 bool
	Ready2 bool
	Prd    uint8
	OldPrd uint8
	RdUsed bool
	Arch   uint8
}

// tryRename attempts to rename the instruction currently latched in the
// fetch/decode buffer. It reads the RAT, free list, ROB tag allocator and
// PRF valid bitmap as they stand at the start of the tick, before any of
// this tick's writebacks have been folded into the PRF.
//
// Renaming only commits its side effects (reserving a tag, allocating a
// destination, updating the RAT, invalidating the new prd) if it can
// succeed outright; a rename that cannot get both a tag and, if needed, a
// destination register leaves every structure untouched so the caller can
// retry next tick.
func (p *Pipeline) tryRename(pc uint32, inst insts.Instruction) (RenamedPacket, bool) {
	tag, tagOK := p.tagAlloc.Peek(p.rob.Live())
	needsDst := inst.RdWrite && inst.Rd != 0
	if !tagOK || (needsDst && !p.freeList.HasFree()) {
		return RenamedPacket{}, false
	}

	p.tagAlloc.Reserve(tag)

	var prs1, prs2 uint8
	if inst.UsesRs1 {
		prs1 = p.rat.Get(inst.Rs1)
	}
	var prs2Val uint8
	if inst.UsesRs2 {
		prs2Val = p.rat.Get(inst.Rs2)
	}
	prs2 = prs2Val

	var prd, oldPrd uint8
	rdUsed := false
	if needsDst {
		prd = p.freeList.Allocate()
		oldPrd = p.rat.Get(inst.Rd)
		p.rat.Set(inst.Rd, prd)
		p.prf.Invalidate(prd)
		rdUsed = true
	}

	packet := RenamedPacket{
		Valid:  true,
		PC:     pc,
		Inst:   inst,
		Tag:    tag,
		Prs1:   prs1,
		Prs2:   prs2,
		Ready1: prs1 == 0 || p.prf.Valid(prs1),
		Ready2: prs2 == 0 || p.prf.Valid(prs2),
		Prd:    prd,
		OldPrd: oldPrd,
		RdUsed: rdUsed,
		Arch:   inst.Rd,
	}
	if !inst.UsesRs1 {
		packet.Ready1 = true
	}
	if !inst.UsesRs2 {
		packet.Ready2 = true
	}

	if inst.IsBranch || inst.IsJump {
		// The branch's own ROB entry has not been inserted yet (that is
		// dispatch's job, later), but its tag is reserved and its
		// insertion is guaranteed, so the checkpoint records the tail as
		// it will read immediately after that insertion: the branch's own
		// commit-visible effects survive a recovery to this checkpoint,
		// only younger instructions are undone. Count is deliberately not
		// captured here: it would go stale the moment anything commits
		// between this rename and a later recovery, so ROB.Recover
		// recomputes it from the live head instead.
		//
		// The PRF portion is deliberately left unset here: this tick's
		// writebacks haven't been absorbed into the PRF yet (that happens
		// later in the same tick), and a writeback landing this tick for a
		// physical register still live in the branch's own RAT snapshot
		// must be reflected in the checkpoint or it is lost on recovery.
		// Tick finishes the checkpoint once writeback absorption and
		// zero-forcing for this tick are done.
		p.pendingCheckpointValid = true
		p.pendingCheckpointTag = tag
		p.pendingCheckpoint = Checkpoint{
			RAT:     p.rat.Snapshot(),
			Free:    p.freeList.Snapshot(),
			RobTail: (tag + 1) % RobDepth,
			NextTag: p.tagAlloc.NextTag(),
		}
	}

	return packet, true
}
