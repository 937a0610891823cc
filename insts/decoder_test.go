package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32ooo/insts"
)

// encodeBType builds a B-type instruction word for tests; imm must be an
// even offset in the signed 13-bit range.
func encodeBType(funct3 uint32, rs2, rs1 uint8, imm int32) uint32 {
	u := uint32(imm)
	bit12 := (u >> 12) & 0x1
	bit11 := (u >> 11) & 0x1
	bits10to5 := (u >> 5) & 0x3F
	bits4to1 := (u >> 1) & 0xF
	return (bit12 << 31) | (bits10to5 << 25) | (uint32(rs2) << 20) | (uint32(rs1) << 15) |
		(funct3 << 12) | (bits4to1 << 8) | (bit11 << 7) | 0x63
}

var _ = Describe("Decode", func() {
	Describe("ADDI", func() {
		// 93 05 70 00 (little-endian bytes) -> addi x11, x0, 7
		It("should decode addi x11, x0, 7", func() {
			inst := insts.Decode(0x00700593)

			Expect(inst.Op).To(Equal(insts.OpADDI))
			Expect(inst.FU).To(Equal(insts.FUAlu))
			Expect(inst.Rd).To(Equal(uint8(11)))
			Expect(inst.Rs1).To(Equal(uint8(0)))
			Expect(inst.Imm).To(Equal(int32(7)))
			Expect(inst.RdWrite).To(BeTrue())
			Expect(inst.UsesRs1).To(BeTrue())
			Expect(inst.UsesRs2).To(BeFalse())
		})
	})

	Describe("ADD", func() {
		It("should decode add x10, x10, x11", func() {
			// funct7=0000000 rs2=11 rs1=10 funct3=000 rd=10 opcode=0110011
			word := uint32(0)<<25 | 11<<20 | 10<<15 | 0<<12 | 10<<7 | 0x33
			inst := insts.Decode(word)

			Expect(inst.Op).To(Equal(insts.OpADD))
			Expect(inst.Rd).To(Equal(uint8(10)))
			Expect(inst.Rs1).To(Equal(uint8(10)))
			Expect(inst.Rs2).To(Equal(uint8(11)))
		})
	})

	Describe("LUI + ADDI positive low12", func() {
		It("should decode lui x10, 0x12345", func() {
			word := (uint32(0x12345) << 12) | (10 << 7) | 0x37
			inst := insts.Decode(word)

			Expect(inst.Op).To(Equal(insts.OpLUI))
			Expect(inst.Imm).To(Equal(int32(0x12345000)))
		})

		It("should decode addi x10, x10, 0x678", func() {
			word := (uint32(0x678) << 20) | (10 << 15) | (10 << 7) | 0x13
			inst := insts.Decode(word)

			Expect(inst.Op).To(Equal(insts.OpADDI))
			Expect(inst.Imm).To(Equal(int32(0x678)))
		})
	})

	Describe("JAL", func() {
		It("should decode jal x1, +8", func() {
			// imm=8 -> bit20=0 bits19_12=0 bit11=0 bits10_1=0000000100
			word := (uint32(4) << 21) | (1 << 7) | 0x6F
			inst := insts.Decode(word)

			Expect(inst.Op).To(Equal(insts.OpJAL))
			Expect(inst.IsJump).To(BeTrue())
			Expect(inst.Imm).To(Equal(int32(8)))
			Expect(inst.Rd).To(Equal(uint8(1)))
		})
	})

	Describe("BNE", func() {
		It("should decode bne x11, x0, -8", func() {
			word := encodeBType(0b001, 0, 11, -8)
			inst := insts.Decode(word)

			Expect(inst.Op).To(Equal(insts.OpBNE))
			Expect(inst.IsBranch).To(BeTrue())
			Expect(inst.Imm).To(Equal(int32(-8)))
			Expect(inst.Rs1).To(Equal(uint8(11)))
			Expect(inst.Rs2).To(Equal(uint8(0)))
		})
	})

	Describe("LW / SW", func() {
		It("should decode lw x10, 0(x0)", func() {
			word := (uint32(0) << 20) | (0 << 15) | (0b010 << 12) | (10 << 7) | 0x03
			inst := insts.Decode(word)

			Expect(inst.Op).To(Equal(insts.OpLW))
			Expect(inst.IsLoad).To(BeTrue())
			Expect(inst.LSSize).To(Equal(uint8(4)))
		})

		It("should decode sw x5, 0(x0)", func() {
			word := (uint32(0) << 25) | (5 << 20) | (0 << 15) | (0b010 << 12) | (0 << 7) | 0x23
			inst := insts.Decode(word)

			Expect(inst.Op).To(Equal(insts.OpSW))
			Expect(inst.IsStore).To(BeTrue())
			Expect(inst.LSSize).To(Equal(uint8(4)))
		})
	})

	Describe("unknown opcode", func() {
		It("should decode as a valid NOP", func() {
			inst := insts.Decode(0xFFFFFFFF)
			Expect(inst.Op).To(Equal(insts.OpNOP))
		})
	})
})
