package insts

// Op identifies the decoded operation, independent of encoding format.
type Op uint8

// Decoded operations.
const (
	OpNOP Op = iota
	OpLUI
	OpJAL
	OpJALR
	OpADDI
	OpORI
	OpANDI
	OpSLTIU
	OpSRLI
	OpSRAI
	OpADD
	OpSUB
	OpAND
	OpOR
	OpSRA
	OpLW
	OpLBU
	OpSW
	OpSH
	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU
)

// FUClass names the functional unit an instruction dispatches to.
type FUClass uint8

// Functional unit classes.
const (
	FUAlu FUClass = iota
	FUBranch
	FULoadStore
)

// Opcode holds the raw 7-bit RV32I opcode field values this decoder groups.
const (
	opcodeLUI    = 0x37
	opcodeJAL    = 0x6F
	opcodeOpImm  = 0x13
	opcodeOp     = 0x33
	opcodeLoad   = 0x03
	opcodeStore  = 0x23
	opcodeBranch = 0x63
	opcodeJALR   = 0x67
)

// Instruction is the immutable output of Decode: a combinational function
// of a 32-bit instruction word.
type Instruction struct {
	Word uint32
	Op   Op
	FU   FUClass

	Rs1 uint8
	Rs2 uint8
	Rd  uint8

	// Imm is the sign-extended immediate for every format that carries
	// one; branch/jal targets are PC-relative byte offsets.
	Imm int32

	// RdWrite is true when this instruction writes a destination register
	// (independent of whether Rd happens to be x0 — the renamer is
	// responsible for treating rd==0 as "no destination").
	RdWrite bool

	// UsesRs1/UsesRs2 tell rename which sources actually need renaming;
	// LUI and JAL, for instance, use neither.
	UsesRs1 bool
	UsesRs2 bool

	IsBranch bool
	IsJump   bool // JAL or JALR: unconditional control transfer

	// Load/store sizing, valid only when FU == FULoadStore.
	IsLoad   bool
	IsStore  bool
	LSSize   uint8 // 1 (byte), 2 (half), 4 (word)
	SignExtd bool  // true for signed loads (unused by the LW/LBU subset, kept for completeness)
}

// Decode combinationally decodes a 32-bit RV32I instruction word. Unknown
// opcodes decode as a valid NOP; Decode never fails.
func Decode(word uint32) Instruction {
	opcode := word & 0x7F

	switch opcode {
	case opcodeLUI:
		return decodeLUI(word)
	case opcodeJAL:
		return decodeJAL(word)
	case opcodeOpImm:
		return decodeOpImm(word)
	case opcodeOp:
		return decodeOp(word)
	case opcodeLoad:
		return decodeLoad(word)
	case opcodeStore:
		return decodeStore(word)
	case opcodeBranch:
		return decodeBranch(word)
	case opcodeJALR:
		return decodeJALR(word)
	default:
		return Instruction{Word: word, Op: OpNOP, FU: FUAlu}
	}
}

func rd(word uint32) uint8  { return uint8((word >> 7) & 0x1F) }
func rs1(word uint32) uint8 { return uint8((word >> 15) & 0x1F) }
func rs2(word uint32) uint8 { return uint8((word >> 20) & 0x1F) }
func funct3(word uint32) uint32 { return (word >> 12) & 0x7 }
func funct7(word uint32) uint32 { return (word >> 25) & 0x7F }

// immI sign-extends the I-type immediate: inst[31:20].
func immI(word uint32) int32 {
	return int32(word) >> 20
}

// immS sign-extends the S-type immediate: inst[31:25] | inst[11:7].
func immS(word uint32) int32 {
	raw := ((word >> 25) << 5) | ((word >> 7) & 0x1F)
	return signExtend(raw, 12)
}

// immB sign-extends the B-type immediate.
func immB(word uint32) int32 {
	bit12 := (word >> 31) & 0x1
	bit11 := (word >> 7) & 0x1
	bits10to5 := (word >> 25) & 0x3F
	bits4to1 := (word >> 8) & 0xF
	raw := (bit12 << 12) | (bit11 << 11) | (bits10to5 << 5) | (bits4to1 << 1)
	return signExtend(raw, 13)
}

// immU returns the U-type immediate: inst[31:12] << 12 (already
// sign-correct once shifted, since int32(word) preserves bit 31).
func immU(word uint32) int32 {
	return int32(word & 0xFFFFF000)
}

// immJ sign-extends the J-type immediate.
func immJ(word uint32) int32 {
	bit20 := (word >> 31) & 0x1
	bits19to12 := (word >> 12) & 0xFF
	bit11 := (word >> 20) & 0x1
	bits10to1 := (word >> 21) & 0x3FF
	raw := (bit20 << 20) | (bits19to12 << 12) | (bit11 << 11) | (bits10to1 << 1)
	return signExtend(raw, 21)
}

// signExtend sign-extends the low bits-wide field of raw to a full int32.
func signExtend(raw uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(raw<<shift) >> shift
}

func decodeLUI(word uint32) Instruction {
	return Instruction{
		Word: word, Op: OpLUI, FU: FUAlu,
		Rd: rd(word), Imm: immU(word), RdWrite: true,
	}
}

func decodeJAL(word uint32) Instruction {
	return Instruction{
		Word: word, Op: OpJAL, FU: FUBranch,
		Rd: rd(word), Imm: immJ(word), RdWrite: true,
		IsJump: true,
	}
}

func decodeJALR(word uint32) Instruction {
	return Instruction{
		Word: word, Op: OpJALR, FU: FUBranch,
		Rd: rd(word), Rs1: rs1(word), Imm: immI(word),
		RdWrite: true, UsesRs1: true, IsJump: true,
	}
}

func decodeOpImm(word uint32) Instruction {
	base := Instruction{
		Word: word, FU: FUAlu,
		Rd: rd(word), Rs1: rs1(word), Imm: immI(word),
		RdWrite: true, UsesRs1: true,
	}
	switch funct3(word) {
	case 0b000:
		base.Op = OpADDI
	case 0b011:
		base.Op = OpSLTIU
	case 0b110:
		base.Op = OpORI
	case 0b111:
		base.Op = OpANDI
	case 0b101:
		if funct7(word)&0x20 != 0 {
			base.Op = OpSRAI
		} else {
			base.Op = OpSRLI
		}
		base.Imm = int32(rs2(word)) // shamt lives in the rs2 field
	default:
		return Instruction{Word: word, Op: OpNOP, FU: FUAlu}
	}
	return base
}

func decodeOp(word uint32) Instruction {
	base := Instruction{
		Word: word, FU: FUAlu,
		Rd: rd(word), Rs1: rs1(word), Rs2: rs2(word),
		RdWrite: true, UsesRs1: true, UsesRs2: true,
	}
	switch {
	case funct3(word) == 0b000 && funct7(word) == 0x00:
		base.Op = OpADD
	case funct3(word) == 0b000 && funct7(word) == 0x20:
		base.Op = OpSUB
	case funct3(word) == 0b111:
		base.Op = OpAND
	case funct3(word) == 0b110:
		base.Op = OpOR
	case funct3(word) == 0b101 && funct7(word) == 0x20:
		base.Op = OpSRA
	default:
		return Instruction{Word: word, Op: OpNOP, FU: FUAlu}
	}
	return base
}

func decodeLoad(word uint32) Instruction {
	base := Instruction{
		Word: word, FU: FULoadStore,
		Rd: rd(word), Rs1: rs1(word), Imm: immI(word),
		RdWrite: true, UsesRs1: true, IsLoad: true,
	}
	switch funct3(word) {
	case 0b010:
		base.Op = OpLW
		base.LSSize = 4
		base.SignExtd = true
	case 0b100:
		base.Op = OpLBU
		base.LSSize = 1
		base.SignExtd = false
	default:
		return Instruction{Word: word, Op: OpNOP, FU: FUAlu}
	}
	return base
}

func decodeStore(word uint32) Instruction {
	base := Instruction{
		Word: word, FU: FULoadStore,
		Rs1: rs1(word), Rs2: rs2(word), Imm: immS(word),
		UsesRs1: true, UsesRs2: true, IsStore: true,
	}
	switch funct3(word) {
	case 0b010:
		base.Op = OpSW
		base.LSSize = 4
	case 0b001:
		base.Op = OpSH
		base.LSSize = 2
	default:
		return Instruction{Word: word, Op: OpNOP, FU: FUAlu}
	}
	return base
}

func decodeBranch(word uint32) Instruction {
	base := Instruction{
		Word: word, FU: FUBranch,
		Rs1: rs1(word), Rs2: rs2(word), Imm: immB(word),
		UsesRs1: true, UsesRs2: true, IsBranch: true,
	}
	switch funct3(word) {
	case 0b000:
		base.Op = OpBEQ
	case 0b001:
		base.Op = OpBNE
	case 0b100:
		base.Op = OpBLT
	case 0b101:
		base.Op = OpBGE
	case 0b110:
		base.Op = OpBLTU
	case 0b111:
		base.Op = OpBGEU
	default:
		return Instruction{Word: word, Op: OpNOP, FU: FUAlu}
	}
	return base
}
