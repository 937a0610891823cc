package pipeline

// Checkpoint is a full structural snapshot taken the cycle a branch or
// jump is renamed, after that instruction's own rename actions (its
// destination allocation, its RAT update) have been applied. It is
// indexed by the branch's own ROB tag; recovering from a mispredict
// restores exactly this state, discarding every architectural effect of
// instructions younger than the branch while keeping the branch's own.
type Checkpoint struct {
	RAT      [NArch]uint8
	Free     [NPhys]bool
	PRFRegs  [NPhys]uint32
	PRFValid [NPhys]bool
	RobTail  uint8
	NextTag  uint8
}

// CheckpointSet holds one checkpoint slot per ROB tag. A branch's
// checkpoint is simply overwritten the next time its tag is reused, so no
// explicit garbage collection is needed.
type CheckpointSet struct {
	slots [RobDepth]Checkpoint
}

// NewCheckpointSet returns an empty checkpoint set.
func NewCheckpointSet() *CheckpointSet {
	return &CheckpointSet{}
}

// Save records a checkpoint under tag.
func (c *CheckpointSet) Save(tag uint8, cp Checkpoint) {
	c.slots[tag] = cp
}

// Get returns the checkpoint saved under tag.
func (c *CheckpointSet) Get(tag uint8) Checkpoint {
	return c.slots[tag]
}
