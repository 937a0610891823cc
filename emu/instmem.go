package emu

// InstMemWords is the number of 32-bit words backing instruction memory.
const InstMemWords = 512

// InstMemory models a one-cycle-latency instruction memory read port: an
// address presented on cycle N returns {rdata, rvalid} on cycle N+1.
type InstMemory struct {
	words [InstMemWords]uint32

	pending    bool
	pendingPC  uint32
	pendingHit uint32
}

// NewInstMemory creates an empty instruction memory.
func NewInstMemory() *InstMemory {
	return &InstMemory{}
}

// LoadWords initializes memory contents from a pre-packed word image
// (see package loader for how a hex-byte text file becomes this slice).
func (m *InstMemory) LoadWords(words []uint32) {
	n := copy(m.words[:], words)
	for i := n; i < InstMemWords; i++ {
		m.words[i] = 0
	}
}

// Request presents an address for reading. The word is returned by the
// next call to Tick.
func (m *InstMemory) Request(pc uint32) {
	m.pending = true
	m.pendingPC = pc
	m.pendingHit = m.read(pc)
}

// Tick advances the one-cycle latch and returns the previously requested
// word, if any request was outstanding.
func (m *InstMemory) Tick() (rdata uint32, rvalid bool) {
	if !m.pending {
		return 0, false
	}
	m.pending = false
	return m.pendingHit, true
}

func (m *InstMemory) read(addr uint32) uint32 {
	idx := (addr / 4) % InstMemWords
	return m.words[idx]
}
