package pipeline

// readOperand returns the value backing physical register pr. Physical
// register 0 is always zero and never needs a PRF lookup.
func (p *Pipeline) readOperand(pr uint8) uint32 {
	if pr == 0 {
		return 0
	}
	return p.prf.Read(pr)
}

// issueALU selects and executes at most one ALU-bound instruction this
// tick. The ALU is single-cycle: an entry that issues this tick writes
// back this same tick.
func (p *Pipeline) issueALU() (WritebackPacket, bool) {
	idx, e, ok := p.rsALU.Select()
	if !ok {
		return WritebackPacket{}, false
	}
	p.rsALU.Vacate(idx)
	a := p.readOperand(e.Prs1)
	b := p.readOperand(e.Prs2)
	if e.ImmUsed {
		b = uint32(e.Imm)
	}
	return executeALU(e, a, b), true
}

// issueBRU selects and executes at most one branch/jump this tick, also
// single-cycle. A resolved mispredict is latched into the pipeline's
// pending-recovery register, taking effect at the start of next tick,
// modeling the recovery controller's one-cycle delay.
func (p *Pipeline) issueBRU() (WritebackPacket, bool) {
	idx, e, ok := p.rsBRU.Select()
	if !ok {
		return WritebackPacket{}, false
	}
	p.rsBRU.Vacate(idx)
	a, b := p.readOperand(e.Prs1), p.readOperand(e.Prs2)
	wb, mispredicted, target := executeBRU(e, e.PC, a, b)
	if mispredicted {
		p.pendingRecoverValid = true
		p.pendingRecoverTag = e.Tag
		p.pendingRecoverTarget = target
	}
	return wb, true
}

// issueLSU advances any in-flight memory access and, if the port is idle
// afterward, starts a newly selected load or store. A load or store
// takes at least one further tick to produce a writeback.
//
// Selection uses SelectOldest, not Select: with a single outstanding
// access the port bounds concurrency but does nothing to order issue, so
// a ready younger load could otherwise jump a not-yet-ready older store
// to the same address. Age order keeps per-address ordering intact.
func (p *Pipeline) issueLSU() (WritebackPacket, bool) {
	wb, produced := p.lsu.Tick()

	if !p.lsu.Busy() {
		if idx, e, ok := p.rsLSU.SelectOldest(p.rob.Head()); ok {
			addr := p.readOperand(e.Prs1) + uint32(e.Imm)
			storeVal := p.readOperand(e.Prs2)
			if p.lsu.Start(e, addr, storeVal) {
				p.rsLSU.Vacate(idx)
			}
		}
	}

	return wb, produced
}
