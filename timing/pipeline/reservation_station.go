package pipeline

import "github.com/sarchlab/rv32ooo/insts"

// RSEntry is one reservation-station slot: an instruction waiting for its
// source operands to become available. It carries everything its
// functional unit needs to execute once selected, so the FU never has to
// go back to the ROB or rename packet for context.
type RSEntry struct {
	Valid  bool
	Tag    uint8 // ROB tag, doubles as the entry's identity for invalidation
	PC     uint32
	Op     insts.Op
	Imm    int32
	// ImmUsed marks an ALU-bound entry whose second operand is Imm rather
	// than the value backing Prs2: true for OP-IMM ops and LUI (where Imm
	// already holds the shifted upper immediate), false for R-type ops.
	// Meaningless outside the ALU reservation station.
	ImmUsed bool
	Prs1    uint8
	Prs2    uint8
	Ready1  bool
	Ready2  bool
	Prd     uint8
	RdUsed  bool
	IsLoad  bool
	IsBranch bool
	IsJump   bool
	LSSize   uint8
	SignExtd bool
}

// WritebackPacket is one result broadcast on the shared writeback bus.
type WritebackPacket struct {
	Valid  bool
	Tag    uint8
	RdUsed bool
	Prd    uint8
	Data   uint32
}

// ReservationStation is an unordered pool of RsDepth entries feeding a
// single functional unit. Select favors the lowest-indexed ready entry,
// a deterministic but not age-ordered policy that suits the ALU and BRU
// stations, where issue order carries no ordering obligation beyond what
// the ROB already enforces at commit. SelectOldest instead picks the
// ready entry nearest the ROB head, for stations (the LSU's) where issue
// order itself is observable and must not reorder same-address accesses.
//
// Readiness updates from a tick's writebacks take effect starting the
// following tick's selection: Snoop is always called after Select within
// the same tick, so an operand can never be selected for issue the same
// cycle its producing writeback appears. This keeps functional units free
// of same-cycle value-bypass logic; by the time an entry's ready bits are
// both set, the PRF already holds the value.
type ReservationStation struct {
	entries [RsDepth]RSEntry
}

// NewReservationStation returns an empty station.
func NewReservationStation() *ReservationStation {
	return &ReservationStation{}
}

// Invalidate drops every entry whose tag is not in live, used on recovery
// to squash entries belonging to instructions younger than a mispredicted
// branch.
func (s *ReservationStation) Invalidate(live [RobDepth]bool) {
	for i := range s.entries {
		if s.entries[i].Valid && !live[s.entries[i].Tag] {
			s.entries[i] = RSEntry{}
		}
	}
}

// HasFree reports whether the station has room for another entry.
func (s *ReservationStation) HasFree() bool {
	for i := range s.entries {
		if !s.entries[i].Valid {
			return true
		}
	}
	return false
}

// Insert places e into the first free slot. Callers must check HasFree
// first.
func (s *ReservationStation) Insert(e RSEntry) {
	for i := range s.entries {
		if !s.entries[i].Valid {
			e.Valid = true
			s.entries[i] = e
			return
		}
	}
	panic("pipeline: ReservationStation.Insert called with no free slot")
}

// Select returns the lowest-indexed entry with both ready bits set, or
// ok=false if none is ready. It does not remove the entry.
func (s *ReservationStation) Select() (idx int, e RSEntry, ok bool) {
	for i := range s.entries {
		if s.entries[i].Valid && s.entries[i].Ready1 && s.entries[i].Ready2 {
			return i, s.entries[i], true
		}
	}
	return 0, RSEntry{}, false
}

// SelectOldest returns the ready entry whose ROB tag is closest behind
// head, i.e. the program-order-oldest ready entry, or ok=false if none is
// ready. Unlike Select's fixed slot-index policy, this preserves
// per-address ordering in a station where a younger, ready access must
// never issue ahead of an older one still waiting on an operand: age is
// distance from head rather than tag value, since tags recycle around
// the ROB's circular index space and a numerically smaller tag is not
// necessarily older.
func (s *ReservationStation) SelectOldest(head uint8) (idx int, e RSEntry, ok bool) {
	bestAge := -1
	for i := range s.entries {
		if !s.entries[i].Valid || !s.entries[i].Ready1 || !s.entries[i].Ready2 {
			continue
		}
		age := int((s.entries[i].Tag - head + RobDepth) % RobDepth)
		if bestAge == -1 || age < bestAge {
			bestAge = age
			idx, e, ok = i, s.entries[i], true
		}
	}
	return idx, e, ok
}

// Vacate frees the slot at idx, called the same tick its entry issues to
// a functional unit.
func (s *ReservationStation) Vacate(idx int) {
	s.entries[idx] = RSEntry{}
}

// Snoop applies this tick's writeback packets to every remaining
// occupied entry, marking an operand ready wherever its producing
// physical register matches. Effective for selection starting next tick.
func (s *ReservationStation) Snoop(packets []WritebackPacket) {
	for i := range s.entries {
		if !s.entries[i].Valid {
			continue
		}
		for _, wb := range packets {
			if !wb.Valid || !wb.RdUsed {
				continue
			}
			if s.entries[i].Prs1 == wb.Prd {
				s.entries[i].Ready1 = true
			}
			if s.entries[i].Prs2 == wb.Prd {
				s.entries[i].Ready2 = true
			}
		}
	}
}
