package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32ooo/timing/pipeline"
)

func encodeI(opcode, funct3, rd, rs1 uint32, imm int32) uint32 {
	return (uint32(imm)<<20)&0xFFF00000 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeR(opcode, funct3, funct7, rd, rs1, rs2 uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeB(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	bit12 := (u >> 12) & 0x1
	bit11 := (u >> 11) & 0x1
	bits10to5 := (u >> 5) & 0x3F
	bits4to1 := (u >> 1) & 0xF
	return bit12<<31 | bits10to5<<25 | rs2<<20 | rs1<<15 | funct3<<12 | bits4to1<<8 | bit11<<7 | opcode
}

func encodeU(opcode, rd uint32, imm int32) uint32 {
	return uint32(imm)&0xFFFFF000 | rd<<7 | opcode
}

func addi(rd, rs1 uint32, imm int32) uint32 { return encodeI(0x13, 0, rd, rs1, imm) }
func add(rd, rs1, rs2 uint32) uint32        { return encodeR(0x33, 0, 0, rd, rs1, rs2) }
func bne(rs1, rs2 uint32, imm int32) uint32 { return encodeB(0x63, 0b001, rs1, rs2, imm) }
func lui(rd uint32, imm int32) uint32       { return encodeU(0x37, rd, imm) }

var _ = Describe("Pipeline invariants", func() {
	It("keeps the free list and RAT bindings disjoint after steady running", func() {
		words := []uint32{
			addi(10, 0, 1),
			addi(11, 0, 2),
			addi(12, 0, 3),
			add(13, 10, 11),
			add(14, 12, 13),
		}
		p := pipeline.NewPipeline(pipeline.WithProgram(words))
		for i := 0; i < 50; i++ {
			p.Tick()
		}
		Expect(p.Stats().Commits).To(BeNumerically(">=", 5))
		Expect(p.ReadArch(10)).To(Equal(uint32(1)))
		Expect(p.ReadArch(11)).To(Equal(uint32(2)))
		Expect(p.ReadArch(13)).To(Equal(uint32(3)))
		Expect(p.ReadArch(14)).To(Equal(uint32(6)))
	})

	It("feeds the immediate, not a stale register value, to OP-IMM and LUI", func() {
		// addi alone would read 0 out of an all-zero PRF whether or not the
		// immediate is wired up; add a second addi from the same source
		// register so a dropped immediate is visible as a wrong sum too.
		words := []uint32{
			addi(10, 0, 7),
			addi(10, 10, 7),
			lui(11, 0x12345000),
		}
		p := pipeline.NewPipeline(pipeline.WithProgram(words))
		for i := 0; i < 50; i++ {
			p.Tick()
		}
		Expect(p.ReadArch(10)).To(Equal(uint32(14)))
		Expect(p.ReadArch(11)).To(Equal(uint32(0x12345000)))
	})

	It("recovers precisely from a mispredicted branch, discarding only younger state", func() {
		// Decrementing loop: x10 counts iterations, x11 counts down from 3.
		loopPC := uint32(2 * 4)
		bnePC := uint32(4 * 4)
		words := []uint32{
			addi(10, 0, 0),
			addi(11, 0, 3),
			addi(10, 10, 1),
			addi(11, 11, -1),
			bne(11, 0, int32(loopPC)-int32(bnePC)),
			addi(12, 0, 77),
		}
		p := pipeline.NewPipeline(pipeline.WithProgram(words))
		for i := 0; i < 200; i++ {
			p.Tick()
		}
		Expect(p.ReadArch(10)).To(Equal(uint32(3)))
		Expect(p.ReadArch(12)).To(Equal(uint32(77)))
		Expect(p.Stats().Flushes).To(BeNumerically(">", 0))

		// 2 setup instructions, 3 loop iterations of 3 instructions each,
		// then the trailing addi make 12 program commits; the zero words
		// after it keep retiring as NOPs, one every two cycles, for 95 in
		// all by cycle 200. A ROB head wedged by the first recovery would
		// stall commit well short of this, even though ReadArch above
		// still reads back correct values through the live RAT/PRF.
		Expect(p.Stats().Commits).To(Equal(uint64(95)))
	})

	It("is idempotent when a second recovery targets the same checkpoint", func() {
		rat := pipeline.NewRAT()
		fl := pipeline.NewFreeList()
		prf := pipeline.NewPRF()
		rob := pipeline.NewROB()
		tags := pipeline.NewRobTagAllocator()

		// A branch with tag 0 is renamed and dispatched; its checkpoint
		// records the state right after it.
		tags.Reserve(0)
		rob.Allocate(0, pipeline.RobEntry{PC: 0})
		tags.Clear(0)
		cp := pipeline.Checkpoint{
			RAT:      rat.Snapshot(),
			Free:     fl.Snapshot(),
			PRFRegs:  prf.SnapshotRegs(),
			PRFValid: prf.SnapshotValid(),
			RobTail:  1,
			NextTag:  tags.NextTag(),
		}

		// A younger, wrong-path instruction renames x10 and writes back.
		tags.Reserve(1)
		prd := fl.Allocate()
		rat.Set(10, prd)
		prf.Invalidate(prd)
		rob.Allocate(1, pipeline.RobEntry{PC: 4, RdUsed: true, Prd: prd, Arch: 10})
		prf.Absorb(prd, 99)

		restore := func() {
			rat.Restore(cp.RAT)
			fl.Restore(cp.Free)
			prf.Restore(cp.PRFRegs, cp.PRFValid)
			rob.Recover(cp.RobTail)
			tags.RestoreNextTag(cp.NextTag)
			tags.ClearAllReserved()
		}

		restore()
		onceRAT, onceFree := rat.Snapshot(), fl.Snapshot()
		onceValid, onceRegs := prf.SnapshotValid(), prf.SnapshotRegs()
		onceTail, onceCount, onceNext := rob.Tail(), rob.Count(), tags.NextTag()
		Expect(rat.Get(10)).To(Equal(uint8(10)))

		restore()
		Expect(rat.Snapshot()).To(Equal(onceRAT))
		Expect(fl.Snapshot()).To(Equal(onceFree))
		Expect(prf.SnapshotValid()).To(Equal(onceValid))
		Expect(prf.SnapshotRegs()).To(Equal(onceRegs))
		Expect(rob.Tail()).To(Equal(onceTail))
		Expect(rob.Count()).To(Equal(onceCount))
		Expect(tags.NextTag()).To(Equal(onceNext))
	})
})
