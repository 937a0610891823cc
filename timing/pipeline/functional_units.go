package pipeline

import (
	"github.com/sarchlab/rv32ooo/emu"
	"github.com/sarchlab/rv32ooo/insts"
)

// executeALU computes an ALU entry's result combinationally: issue and
// writeback happen in the same tick, so the writeback bus always carries
// an ALU result the same cycle its entry leaves the reservation station.
// b is the caller's choice of second operand: the Prs2 value for R-type
// ops, or the immediate for OP-IMM ops and LUI (see RSEntry.ImmUsed).
func executeALU(e RSEntry, a, b uint32) WritebackPacket {
	return WritebackPacket{
		Valid:  true,
		Tag:    e.Tag,
		RdUsed: e.RdUsed,
		Prd:    e.Prd,
		Data:   emu.ALUCompute(e.Op, a, b),
	}
}

// executeBRU resolves a branch or jump combinationally, same-cycle as
// issue, and reports whether the prediction (static not-taken) was wrong.
func executeBRU(e RSEntry, pc, a, b uint32) (wb WritebackPacket, mispredicted bool, target uint32) {
	inst := insts.Instruction{Op: e.Op, Imm: e.Imm, IsBranch: e.IsBranch, IsJump: e.IsJump}
	res := emu.ResolveBranch(inst, pc, a, b)
	wb = WritebackPacket{
		Valid:  true,
		Tag:    e.Tag,
		RdUsed: e.RdUsed,
		Prd:    e.Prd,
		Data:   res.LinkValue,
	}
	return wb, emu.Mispredicted(inst, pc, res), res.Target
}

// LSU is the load-store functional unit: a wrapper around a single data
// memory port that accepts at most one outstanding request at a time,
// which keeps per-address ordering trivial.
type LSU struct {
	mem *emu.DataMemory

	tag    uint8
	prd    uint8
	rdUsed bool
}

// NewLSU returns an idle load-store unit.
func NewLSU() *LSU {
	return &LSU{mem: emu.NewDataMemory()}
}

// Busy reports whether a request is currently in flight.
func (u *LSU) Busy() bool {
	return u.mem.Busy()
}

// Start issues e to the memory port. addr is the already-computed
// effective address; storeVal is only consulted for a store. Returns
// false if the port was busy (callers should have checked Busy first).
func (u *LSU) Start(e RSEntry, addr, storeVal uint32) bool {
	var ok bool
	if e.IsLoad {
		ok = u.mem.StartRead(addr, e.LSSize, e.SignExtd)
	} else {
		ok = u.mem.StartWrite(addr, e.LSSize, storeVal)
	}
	if !ok {
		return false
	}
	u.tag, u.prd, u.rdUsed = e.Tag, e.Prd, e.RdUsed
	return true
}

// Tick advances any in-flight request by one cycle. produced is true the
// cycle a request completes, at which point wb is ready to broadcast
// (with RdUsed false and Data meaningless for a completed store).
func (u *LSU) Tick() (wb WritebackPacket, produced bool) {
	if !u.mem.Busy() {
		return WritebackPacket{}, false
	}
	done, value := u.mem.Tick()
	if !done {
		return WritebackPacket{}, false
	}
	return WritebackPacket{Valid: true, Tag: u.tag, RdUsed: u.rdUsed, Prd: u.prd, Data: value}, true
}
