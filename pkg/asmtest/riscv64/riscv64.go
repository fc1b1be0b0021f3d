// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package riscv64 declares the riscv64 instruction shapes (RV64GV with the draft vector extension)
// and registers them in iset.Arches.
package riscv64

import (
	"fmt"

	"github.com/asmgen/asmgen/pkg/asmtest/iset"
)

func init() {
	iset.Register(Catalog())
}

// Catalog builds a fresh copy of the riscv64 catalog in declaration order.
func Catalog() *iset.Catalog {
	b := &builder{cat: &iset.Catalog{Arch: iset.ArchRiscv64}}
	base(b)
	atomics(b)
	system(b)
	float(b)
	vector(b)
	return b.cat
}

func base(b *builder) {
	b.group("ThreeReg", iset.FamilyArith).
		each("xxx", []string{
			"add", "sub", "addw", "subw",
			"or", "xor", "mul", "mulh",
			"mulhsu", "mulhu", "div", "divu",
			"rem", "remu", "mulw", "divw",
			"divuw", "remw", "remuw", "and",
		})
	b.group("TwoRegImm", iset.FamilyImm).
		each("xxi", []string{"addi", "addiw", "ori", "xori", "andi", "slti", "jalr"})
	b.group("TwoRegUnsignedImm", iset.FamilyImm).
		add("sltiu", "xxu")
	b.group("Jump", iset.FamilyJump).
		each("", []string{"j", "jal"}, both("@"), jump)
	b.group("UpperImm", iset.FamilyUpper).
		each("xl", []string{"lui", "auipc"})
	b.group("RegBranch", iset.FamilyBranch).
		each("z", []string{"bnez", "beqz"}, both("0,@"), jump)
	b.group("TwoRegBranch", iset.FamilyBranch).
		each("xx", []string{"bne", "beq", "bge", "bgeu", "blt", "bltu"}, both("0,1,@"), jump)
	b.group("ShiftReg", iset.FamilyShift).
		each("xxx", []string{"sll", "srl", "sra", "sraw", "sllw", "srlw"})
	b.group("ShiftImm", iset.FamilyShift).
		each("xxh", []string{"slli", "srli", "srai", "slliw", "srliw", "sraiw"})
	b.group("NoOperand", iset.FamilySystem).
		each("", []string{"nop", "ecall", "ebreak", "fence_i"})
	b.group("Fence", iset.FamilyFence).
		add("fence", "bb")
}

var amoOps = []string{
	"amoswap", "amoadd", "amoxor", "amoand", "amoor",
	"amomin", "amomax", "amominu", "amomaxu",
}

// atomics declares the A extension with explicit ordering. The reference assembler takes the
// ordering as a mnemonic suffix and the address register in parentheses, the encoder takes it
// as a trailing argument.
func atomics(b *builder) {
	b.group("Atomic", iset.FamilyAtomic)
	for _, size := range []string{"w", "d"} {
		for _, order := range []string{"aq", "rl"} {
			orderArg := "Assembler::" + order
			mnem := func(op string) opt {
				return mnemonic(fmt.Sprintf("%v.%v.%v", op, size, order))
			}
			b.add("sc_"+size, "xxx", mnem("sc"), ref("0,1,(2)"), cand("0,1,2,"+orderArg))
			for _, op := range amoOps {
				b.add(op+"_"+size, "xxx", mnem(op), ref("0,2,(1)"), cand("0,1,2,"+orderArg))
			}
			b.add("lr_"+size, "xx", mnem("lr"), ref("0,(1)"), cand("0,1,"+orderArg))
		}
	}
}

func system(b *builder) {
	b.group("CSRPseudo", iset.FamilyCSR).
		each("x", []string{"frflags", "frrm", "frcsr", "rdtime", "rdcycle", "rdinstret"})
	b.group("TwoReg", iset.FamilyArith).
		add("mv", "xs").
		each("xx", []string{
			"not", "neg", "negw",
			"sext_w", "seqz", "snez", "sltz",
			"sgtz", "fscsr", "fsrm", "fsflags",
		})
	b.group("SetLess", iset.FamilyArith).
		each("xxx", []string{"slt", "sltu"})
	b.group("CSRRegReg", iset.FamilyCSR).
		each("xcx", []string{"csrrw", "csrrs", "csrrc"})
	b.group("CSRRegImm", iset.FamilyCSR).
		each("xch", []string{"csrrwi", "csrrsi", "csrrci"})
	b.group("CSRReadNum", iset.FamilyCSR).
		add("csrr", "xc")
	b.group("CSRWrite", iset.FamilyCSR).
		each("cx", []string{"csrw", "csrs", "csrc"})
	b.group("CSRWriteImm", iset.FamilyCSR).
		each("ch", []string{"csrwi", "csrsi", "csrci"})
	b.group("LoadStore", iset.FamilyLoadStore).
		each("xa", []string{"ld", "lw", "lwu", "lh", "lhu", "lb", "lbu", "sd", "sw", "sh", "sb"}).
		each("fa", []string{"fld", "flw", "fsd", "fsw"})
}

func float(b *builder) {
	b.group("FloatTwoRegArith", iset.FamilyFloat).
		add("fsqrt_s", "ff", rounding("rdn")).
		add("fsqrt_d", "ff", rounding("rdn"))
	b.group("FloatThreeRegArith", iset.FamilyFloat)
	for _, name := range []string{"fadd_s", "fsub_s", "fadd_d", "fsub_d", "fmul_s", "fdiv_s", "fmul_d", "fdiv_d"} {
		b.add(name, "fff", rounding("rup"))
	}
	b.group("FloatFused", iset.FamilyFloat).
		add("fmadd_s", "ffff", rounding("rup")).
		add("fmsub_s", "ffff", rounding("rtz")).
		add("fmadd_d", "ffff", rounding("rup")).
		add("fmsub_d", "ffff", rounding("rtz")).
		add("fnmsub_s", "ffff", rounding("rmm")).
		add("fnmadd_s", "ffff", rounding("rtz")).
		add("fnmsub_d", "ffff", rounding("rmm")).
		add("fnmadd_d", "ffff", rounding("rtz"))
	b.group("FloatTwoReg", iset.FamilyFloat).
		add("fclass_s", "xf").add("fmv_s", "ff").
		add("fclass_d", "xf").add("fmv_d", "ff").
		add("fabs_s", "ff").add("fneg_s", "ff").
		add("fabs_d", "ff").add("fneg_d", "ff").
		add("fmv_x_w", "xf").add("fmv_x_d", "xf")
	b.group("FloatThreeReg", iset.FamilyFloat).
		each("fff", []string{
			"fsgnj_s", "fsgnjn_s", "fsgnj_d", "fsgnjn_d",
			"fsgnjx_s", "fmin_s", "fsgnjx_d", "fmin_d",
		}).
		add("fmax_s", "fff").add("feq_s", "xff").
		add("fmax_d", "fff").add("feq_d", "xff").
		each("xff", []string{"flt_s", "fle_s", "flt_d", "fle_d"})
	// The reference assembler rejects a rounding mode on exact conversions.
	b.group("FloatConvert", iset.FamilyFloat).
		add("fcvt_w_s", "xf", rounding("rup")).add("fcvt_wu_s", "xf", rounding("rne")).
		add("fcvt_s_w", "fx", rounding("rdn")).add("fcvt_s_wu", "fx", rounding("rtz")).
		add("fcvt_l_s", "xf", rounding("rne")).add("fcvt_lu_s", "xf", rounding("rmm")).
		add("fcvt_s_l", "fx", rounding("rup")).add("fcvt_s_lu", "fx", rounding("rtz")).
		add("fcvt_s_d", "ff", rounding("rdn")).add("fcvt_d_s", "ff", implicitRounding("rne")).
		add("fcvt_w_d", "xf", rounding("rdn")).add("fcvt_wu_d", "xf", rounding("rdn")).
		add("fcvt_d_w", "fx", implicitRounding("rne")).add("fcvt_d_wu", "fx", implicitRounding("rne")).
		add("fcvt_l_d", "xf", rounding("rdn")).add("fcvt_lu_d", "xf", rounding("rdn")).
		add("fcvt_d_l", "fx", rounding("rdn")).add("fcvt_d_lu", "fx", rounding("rdn"))
}
