// Package emu provides the external functional collaborators of the
// out-of-order core: instruction memory, data memory, the ALU compute
// function, and branch/jump target resolution. These are pure or
// near-pure stubs — the hard part of the model lives in timing/pipeline.
package emu

import "github.com/sarchlab/rv32ooo/insts"

// ALUCompute evaluates an ALU/OP-IMM/LUI operation combinationally.
// a is the rs1 operand (or unused for LUI); b is either the rs2 operand
// (register-register ops) or the sign-extended immediate (immediate ops
// and LUI, where b is the already-shifted upper immediate).
func ALUCompute(op insts.Op, a, b uint32) uint32 {
	switch op {
	case insts.OpLUI:
		return b
	case insts.OpADDI, insts.OpADD:
		return a + b
	case insts.OpSUB:
		return a - b
	case insts.OpANDI, insts.OpAND:
		return a & b
	case insts.OpORI, insts.OpOR:
		return a | b
	case insts.OpSLTIU:
		if a < b {
			return 1
		}
		return 0
	case insts.OpSRLI:
		return a >> (b & 0x1F)
	case insts.OpSRAI, insts.OpSRA:
		return uint32(int32(a) >> (b & 0x1F))
	default:
		return 0
	}
}
