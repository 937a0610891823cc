package emu

import "github.com/sarchlab/rv32ooo/insts"

// BranchResult is the combinational output of resolving a branch/jump FU
// operation against its operand values.
type BranchResult struct {
	// Taken is true for a branch whose condition holds, or for any jump
	// (JAL/JALR are unconditionally "taken").
	Taken bool
	// Target is the resolved next-PC when Taken is true.
	Target uint32
	// LinkValue is PC+4, the value JAL/JALR write to Rd.
	LinkValue uint32
}

// ResolveBranch evaluates a branch or jump combinationally. pc is the PC
// of the branch/jump itself; rs1Val/rs2Val are the (renamed, ready)
// source operand values.
func ResolveBranch(inst insts.Instruction, pc, rs1Val, rs2Val uint32) BranchResult {
	link := pc + 4

	switch inst.Op {
	case insts.OpJAL:
		return BranchResult{Taken: true, Target: uint32(int32(pc) + inst.Imm), LinkValue: link}
	case insts.OpJALR:
		target := uint32(int32(rs1Val) + inst.Imm)
		target &^= 1
		return BranchResult{Taken: true, Target: target, LinkValue: link}
	}

	taken := evaluateCondition(inst.Op, rs1Val, rs2Val)
	target := uint32(int32(pc) + inst.Imm)
	return BranchResult{Taken: taken, Target: target, LinkValue: link}
}

func evaluateCondition(op insts.Op, a, b uint32) bool {
	switch op {
	case insts.OpBEQ:
		return a == b
	case insts.OpBNE:
		return a != b
	case insts.OpBLT:
		return int32(a) < int32(b)
	case insts.OpBGE:
		return int32(a) >= int32(b)
	case insts.OpBLTU:
		return a < b
	case insts.OpBGEU:
		return a >= b
	default:
		return false
	}
}

// PredictedNextPC implements the static not-taken predictor: fetch always
// predicts the sequential successor. A resolved BranchResult.Taken target
// that disagrees with this is a mispredict.
func PredictedNextPC(pc uint32) uint32 {
	return pc + 4
}

// Mispredicted reports whether the BRU's resolution disagrees with the
// static not-taken prediction made at fetch time.
func Mispredicted(inst insts.Instruction, pc uint32, res BranchResult) bool {
	if !res.Taken {
		return false
	}
	return res.Target != PredictedNextPC(pc)
}
