package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32ooo/timing/pipeline"
)

var _ = Describe("PRF", func() {
	It("keeps every physical register below NArch valid and zero", func() {
		prf := pipeline.NewPRF()
		Expect(prf.Valid(5)).To(BeTrue())
		Expect(prf.Read(5)).To(Equal(uint32(0)))
	})

	It("starts physicals at or above NArch invalid", func() {
		prf := pipeline.NewPRF()
		Expect(prf.Valid(pipeline.NArch)).To(BeFalse())
	})

	It("absorbs a writeback", func() {
		prf := pipeline.NewPRF()
		prf.Absorb(pipeline.NArch, 99)
		Expect(prf.Valid(pipeline.NArch)).To(BeTrue())
		Expect(prf.Read(pipeline.NArch)).To(Equal(uint32(99)))
	})

	It("ignores an absorb into register 0", func() {
		prf := pipeline.NewPRF()
		prf.Absorb(0, 99)
		Expect(prf.Read(0)).To(Equal(uint32(0)))
	})

	It("upholds the zero-register invariant after ForceZero", func() {
		prf := pipeline.NewPRF()
		prf.ForceZero()
		Expect(prf.Read(0)).To(Equal(uint32(0)))
		Expect(prf.Valid(0)).To(BeTrue())
	})

	It("invalidates a freshly allocated destination", func() {
		prf := pipeline.NewPRF()
		prf.Absorb(pipeline.NArch, 7)
		prf.Invalidate(pipeline.NArch)
		Expect(prf.Valid(pipeline.NArch)).To(BeFalse())
	})

	It("restores register file and valid bitmap together", func() {
		prf := pipeline.NewPRF()
		regs := prf.SnapshotRegs()
		valid := prf.SnapshotValid()
		prf.Absorb(pipeline.NArch, 42)

		prf.Restore(regs, valid)
		Expect(prf.Valid(pipeline.NArch)).To(BeFalse())
	})
})
