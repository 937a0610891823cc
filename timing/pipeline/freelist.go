package pipeline

// FreeList tracks which physical registers are available for allocation
// by rename. It is initialized with physicals [NArch, NPhys) free; the low
// NArch physicals start out bound to the initial RAT's identity mapping.
//
// A physical register returned by Free re-enters the free set at its own
// index even if that index is below NArch, but allocation is always
// granted from the lowest free index at or above NArch, so physicals below
// NArch that are freed later simply never get re-granted. Register 0 is
// never freed.
type FreeList struct {
	free [NPhys]bool
}

// NewFreeList returns a free list seeded with [NArch, NPhys) available.
func NewFreeList() *FreeList {
	f := &FreeList{}
	for i := NArch; i < NPhys; i++ {
		f.free[i] = true
	}
	return f
}

// HasFree reports whether any physical register at or above NArch is
// currently free, without allocating it.
func (f *FreeList) HasFree() bool {
	for i := NArch; i < NPhys; i++ {
		if f.free[i] {
			return true
		}
	}
	return false
}

// Allocate grants the lowest-indexed free physical register at or above
// NArch and removes it from the free set. Callers must check HasFree
// first; Allocate panics if nothing is free.
func (f *FreeList) Allocate() uint8 {
	for i := NArch; i < NPhys; i++ {
		if f.free[i] {
			f.free[i] = false
			return uint8(i)
		}
	}
	panic("pipeline: FreeList.Allocate called with no free physical registers")
}

// Free returns p to the free set. Freeing physical register 0 is a no-op.
func (f *FreeList) Free(p uint8) {
	if p == 0 {
		return
	}
	f.free[p] = true
}

// Snapshot returns a copy of the free bitmap for a branch checkpoint.
func (f *FreeList) Snapshot() [NPhys]bool {
	return f.free
}

// Restore replaces the free bitmap wholesale.
func (f *FreeList) Restore(snapshot [NPhys]bool) {
	f.free = snapshot
}
