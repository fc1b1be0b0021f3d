// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package iset

import (
	"fmt"
	"math/rand"
)

// Kind is the closed set of operand kinds.
type Kind int

const (
	KindGPR       Kind = iota // general register, x0..x4 excluded
	KindGPROrZero             // general register, 0 renders as the zero register
	KindGPROrSP               // general register, 2 renders as the stack pointer
	KindFPR
	KindVR
	KindSImm
	KindUImm
	KindUpperImm // 20-bit immediate that the candidate side takes pre-shifted by 12
	KindCSR
	KindAddress
	KindBarrier
	kindLast
)

var kindNames = [...]string{
	KindGPR:       "gpr",
	KindGPROrZero: "gpr-or-zero",
	KindGPROrSP:   "gpr-or-sp",
	KindFPR:       "fpr",
	KindVR:        "vr",
	KindSImm:      "simm",
	KindUImm:      "uimm",
	KindUpperImm:  "upper",
	KindCSR:       "csr",
	KindAddress:   "address",
	KindBarrier:   "barrier",
}

func (k Kind) String() string {
	if k < 0 || k >= kindLast {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

const (
	regZero     = 0
	regSP       = 2
	firstFreeGP = 5
	numRegs     = 32

	addrOffsetBits = 12
)

// Barrier is one legal fence predecessor/successor set.
type Barrier struct {
	Ref  string // assembler letters
	Cand int    // numeric mask
}

var Barriers = []Barrier{
	{"i", 8}, {"o", 4}, {"r", 2}, {"w", 1},
	{"ir", 10}, {"ow", 5}, {"iorw", 15},
}

// Spec describes the domain of one operand position.
type Spec struct {
	Kind Kind
	Bits uint // immediates only
	Code byte // mode code the spec was parsed from
}

// Range returns the inclusive legal range of the operand value.
// For addresses it is the range of the base register.
func (s Spec) Range() (lo, hi int64) {
	switch s.Kind {
	case KindGPR, KindAddress:
		return firstFreeGP, numRegs - 1
	case KindGPROrZero, KindFPR, KindVR:
		return 0, numRegs - 1
	case KindGPROrSP:
		return 1, numRegs - 1
	case KindSImm:
		return -1 << (s.Bits - 1), 1<<(s.Bits-1) - 1
	case KindUImm, KindUpperImm, KindCSR:
		return 0, 1<<s.Bits - 1
	case KindBarrier:
		return 0, int64(len(Barriers)) - 1
	}
	panic(fmt.Sprintf("unknown operand kind %v", s.Kind))
}

// Operand is a generated operand value. Both renderings are derived from Val (and Off).
type Operand struct {
	Spec
	Val int64
	Off int64 // address displacement
}

// Generate draws a uniformly random operand for spec from r.
func Generate(spec Spec, r *rand.Rand) Operand {
	lo, hi := spec.Range()
	op := Operand{
		Spec: spec,
		Val:  lo + r.Int63n(hi-lo+1),
	}
	if spec.Kind == KindAddress {
		const half = 1 << (addrOffsetBits - 1)
		op.Off = -half + r.Int63n(2*half)
	}
	return op
}

// Ref renders the operand in reference assembler syntax.
func (op Operand) Ref() string {
	switch op.Kind {
	case KindGPROrZero:
		if op.Val == regZero {
			return "zero"
		}
	case KindGPROrSP:
		if op.Val == regSP {
			return "sp"
		}
	case KindFPR:
		return fmt.Sprintf("f%d", op.Val)
	case KindVR:
		return fmt.Sprintf("v%d", op.Val)
	case KindSImm, KindUImm:
		return fmt.Sprint(op.Val)
	case KindUpperImm, KindCSR:
		return fmt.Sprintf("%#x", op.Val)
	case KindAddress:
		return fmt.Sprintf("%d(x%d)", op.Off, op.Val)
	case KindBarrier:
		return Barriers[op.Val].Ref
	}
	return fmt.Sprintf("x%d", op.Val)
}

// Cand renders the operand in the candidate (encoder invocation) syntax.
func (op Operand) Cand() string {
	switch op.Kind {
	case KindGPROrZero:
		if op.Val == regZero {
			return "zr"
		}
	case KindGPROrSP:
		if op.Val == regSP {
			return "sp"
		}
	case KindUImm:
		return fmt.Sprintf("%du", op.Val)
	case KindUpperImm:
		return fmt.Sprintf("%#x000", op.Val)
	case KindCSR:
		return fmt.Sprintf("%#xu", op.Val)
	case KindAddress:
		return fmt.Sprintf("Address(x%d, %d)", op.Val, op.Off)
	case KindBarrier:
		return fmt.Sprintf("%du", Barriers[op.Val].Cand)
	default:
		return op.Ref()
	}
	return fmt.Sprintf("x%d", op.Val)
}
