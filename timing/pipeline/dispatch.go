package pipeline

import "github.com/sarchlab/rv32ooo/insts"

// rsFor returns the reservation station backing a functional-unit class.
func (p *Pipeline) rsFor(fu insts.FUClass) *ReservationStation {
	switch fu {
	case insts.FUBranch:
		return p.rsBRU
	case insts.FULoadStore:
		return p.rsLSU
	default:
		return p.rsALU
	}
}

// dispatchRelease tries to move the buffered renamed packet into its
// target reservation station and the ROB. It succeeds only if both have
// room; the ROB's free-slot check uses count as it stood before this
// tick's commit, matching the reorder buffer's own allocate-before-commit
// ordering. On success the skid buffer is cleared and the tag's rename
// reservation released.
func (p *Pipeline) dispatchRelease() {
	if !p.skidValid {
		return
	}
	pkt := p.skid
	rs := p.rsFor(pkt.Inst.FU)
	rsFull := !rs.HasFree()
	robFull := p.rob.Full()
	if rsFull || robFull {
		if rsFull {
			p.stats.RSFullStalls++
		}
		if robFull {
			p.stats.ROBFullStalls++
		}
		p.stats.DispatchStalls++
		return
	}

	// Readiness is re-checked against the PRF here rather than trusting
	// the bits rename computed: the packet may have sat in the skid
	// buffer for several ticks waiting for RS/ROB room, during which
	// writebacks it wasn't yet resident in a station to snoop could have
	// landed.
	ready1 := pkt.Prs1 == 0 || p.prf.Valid(pkt.Prs1)
	ready2 := pkt.Prs2 == 0 || p.prf.Valid(pkt.Prs2)
	if !pkt.Inst.UsesRs1 {
		ready1 = true
	}
	if !pkt.Inst.UsesRs2 {
		ready2 = true
	}

	rs.Insert(RSEntry{
		Tag:      pkt.Tag,
		PC:       pkt.PC,
		Op:       pkt.Inst.Op,
		Imm:      pkt.Inst.Imm,
		ImmUsed:  pkt.Inst.FU == insts.FUAlu && !pkt.Inst.UsesRs2,
		Prs1:     pkt.Prs1,
		Prs2:     pkt.Prs2,
		Ready1:   ready1,
		Ready2:   ready2,
		Prd:      pkt.Prd,
		RdUsed:   pkt.RdUsed,
		IsLoad:   pkt.Inst.IsLoad,
		IsBranch: pkt.Inst.IsBranch,
		IsJump:   pkt.Inst.IsJump,
		LSSize:   pkt.Inst.LSSize,
		SignExtd: pkt.Inst.SignExtd,
	})

	p.rob.Allocate(pkt.Tag, RobEntry{
		PC:     pkt.PC,
		RdUsed: pkt.RdUsed,
		Prd:    pkt.Prd,
		OldPrd: pkt.OldPrd,
		Arch:   pkt.Arch,
		Store:  pkt.Inst.IsStore,
	})
	p.tagAlloc.Clear(pkt.Tag)

	p.skidValid = false
	p.skid = RenamedPacket{}
}
