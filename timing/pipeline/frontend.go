package pipeline

// fetchTick advances the fetch stage by one cycle. It checks for the
// completion of any outstanding instruction-memory request before
// possibly issuing a new one, matching the memory port's own
// check-then-start discipline, so a request and its completion are never
// observed in the same call.
func (p *Pipeline) fetchTick() {
	if p.awaitingFetch {
		word, valid := p.instMem.Tick()
		if valid {
			p.ifWord = word
			p.ifPC = p.awaitingPC
			p.ifValid = true
			p.awaitingFetch = false
		}
	}

	if !p.awaitingFetch && !p.ifValid {
		p.instMem.Request(p.fetchPC)
		p.awaitingPC = p.fetchPC
		p.awaitingFetch = true
		p.fetchPC += 4
	}
}
