package pipeline

// applyRecovery restores every structure to the checkpoint saved for a
// mispredicted branch's tag, one tick after the branch resolved (the
// recovery controller's fixed one-cycle delay), and redirects fetch to
// the branch's actual target. It also drops anything in flight ahead of
// commit that belongs to the squashed path: the fetch/decode latch, the
// dispatch skid buffer, and every reservation-station entry whose tag
// falls outside the restored ROB's live range.
//
// Dispatch admits at most one instruction per tick, so by the time a
// branch has been renamed, dispatched, issued and resolved, anything
// still sitting in the skid buffer must be younger than that branch
// (an older, undispatched instruction would have back-pressured rename
// and prevented the branch from ever reaching issue). Clearing the skid
// buffer unconditionally on recovery is therefore always correct.
func (p *Pipeline) applyRecovery() {
	if !p.pendingRecoverValid {
		return
	}
	tag := p.pendingRecoverTag
	target := p.pendingRecoverTarget
	cp := p.checkpoints.Get(tag)

	p.rat.Restore(cp.RAT)
	p.freeList.Restore(cp.Free)
	p.prf.Restore(cp.PRFRegs, cp.PRFValid)
	p.rob.Recover(cp.RobTail)
	p.tagAlloc.RestoreNextTag(cp.NextTag)
	p.tagAlloc.ClearAllReserved()

	live := p.rob.Live()
	p.rsALU.Invalidate(live)
	p.rsBRU.Invalidate(live)
	p.rsLSU.Invalidate(live)

	p.skidValid = false
	p.skid = RenamedPacket{}
	p.ifValid = false
	p.awaitingFetch = false
	p.fetchPC = target

	p.stats.Flushes++

	p.pendingRecoverValid = false
}
