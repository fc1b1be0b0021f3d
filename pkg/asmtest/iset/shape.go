// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package iset

import (
	"fmt"
	"strings"
)

// Family is the closed set of shape families.
type Family int

const (
	FamilyOp Family = iota
	FamilyArith
	FamilyImm
	FamilyUpper
	FamilyJump
	FamilyBranch
	FamilyShift
	FamilySystem
	FamilyFence
	FamilyAtomic
	FamilyCSR
	FamilyLoadStore
	FamilyFloat
	FamilyVector
	FamilyVectorAMO
	FamilyVectorMem
	FamilyVectorConfig
	familyLast
)

var familyNames = [...]string{
	FamilyOp:           "op",
	FamilyArith:        "arith",
	FamilyImm:          "imm",
	FamilyUpper:        "upper",
	FamilyJump:         "jump",
	FamilyBranch:       "branch",
	FamilyShift:        "shift",
	FamilySystem:       "system",
	FamilyFence:        "fence",
	FamilyAtomic:       "atomic",
	FamilyCSR:          "csr",
	FamilyLoadStore:    "loadstore",
	FamilyFloat:        "float",
	FamilyVector:       "vector",
	FamilyVectorAMO:    "vector-amo",
	FamilyVectorMem:    "vector-mem",
	FamilyVectorConfig: "vector-config",
}

func (f Family) String() string {
	if f < 0 || f >= familyLast {
		return fmt.Sprintf("family(%d)", int(f))
	}
	return familyNames[f]
}

func ParseFamily(s string) (Family, error) {
	for f, name := range familyNames {
		if name == s {
			return Family(f), nil
		}
	}
	return 0, configErrorf("", "unknown shape family %q", s)
}

// Target is a literal substitution target of a multi-form shape.
type Target struct {
	Name string
	Ref  string
	Cand string
}

// Label names that frame the reference buffer. Multi-form shapes jump to them.
const (
	LabelBack  = "back"
	LabelForth = "forth"
)

// JumpTargets are the targets used by every jump and branch shape: the instruction
// itself, the label bound at the start of the corpus and the one bound at its end.
var JumpTargets = []Target{
	{Name: "here", Ref: ".", Cand: "__ pc()"},
	{Name: LabelBack, Ref: LabelBack, Cand: LabelBack},
	{Name: LabelForth, Ref: LabelForth, Cand: LabelForth},
}

var RoundingModes = []string{"rne", "rtz", "rdn", "rup", "rmm"}

type Shape struct {
	Name     string
	Mnemonic string // reference mnemonic, derived from Name if empty
	Family   Family
	Mode     Mode
	Ref      Layout // identity order if nil
	Cand     Layout // identity order if nil
	Rounding string
	// The reference assembler takes no rounding operand, the candidate still does.
	ImplicitRounding bool
	Maskable         bool
	Targets          []Target
}

var cppKeywords = map[string]string{
	"and": "andr",
	"or":  "orr",
	"not": "notr",
	"xor": "xorr",
}

// CandName returns the name of the encoder entry point.
func (s *Shape) CandName() string {
	if name, ok := cppKeywords[s.Name]; ok {
		return name
	}
	return s.Name
}

// RefName returns the reference assembler mnemonic.
func (s *Shape) RefName() string {
	if s.Mnemonic != "" {
		return s.Mnemonic
	}
	return strings.ReplaceAll(s.Name, "_", ".")
}

func (s *Shape) RefLayout() Layout {
	if s.Ref == nil {
		return identityLayout(len(s.Mode))
	}
	return s.Ref
}

func (s *Shape) CandLayout() Layout {
	if s.Cand == nil {
		return identityLayout(len(s.Mode))
	}
	return s.Cand
}

// MultiForm says if the shape is rendered once per target rather than once per instance.
func (s *Shape) MultiForm() bool {
	return len(s.Targets) != 0
}

// Validate checks the shape against its family rules and checks that both layouts
// reference exactly the same operands.
func (s *Shape) Validate() error {
	if s.Name == "" {
		return configErrorf("", "shape without a name")
	}
	if s.Family < 0 || s.Family >= familyLast {
		return configErrorf(s.Name, "unknown family %v", s.Family)
	}
	ref, cand := s.RefLayout(), s.CandLayout()
	for _, layout := range []Layout{ref, cand} {
		for _, slot := range layout {
			if (slot.Kind == SlotOperand || slot.Kind == SlotMem) &&
				(slot.Index < 0 || slot.Index >= len(s.Mode)) {
				return configErrorf(s.Name, "layout %q references operand %v, mode %q has %v",
					layout, slot.Index, s.Mode, len(s.Mode))
			}
		}
	}
	refOps, candOps := ref.operands(), cand.operands()
	if len(refOps) != len(candOps) {
		return configErrorf(s.Name, "reference layout %q and candidate layout %q use different operands",
			ref, cand)
	}
	for idx := range refOps {
		if !candOps[idx] {
			return configErrorf(s.Name, "operand %v is missing from candidate layout %q", idx, cand)
		}
	}
	if len(refOps) != len(s.Mode) {
		return configErrorf(s.Name, "layout %q does not use all operands of mode %q", ref, s.Mode)
	}
	switch s.Family {
	case FamilyJump, FamilyBranch:
		if !s.MultiForm() {
			return configErrorf(s.Name, "%v shape has no targets", s.Family)
		}
		if !ref.hasTarget() || !cand.hasTarget() {
			return configErrorf(s.Name, "%v shape layouts must have a target slot", s.Family)
		}
	default:
		if s.MultiForm() || ref.hasTarget() || cand.hasTarget() {
			return configErrorf(s.Name, "%v shape can't have targets", s.Family)
		}
	}
	if s.Rounding != "" || s.ImplicitRounding {
		if s.Family != FamilyFloat {
			return configErrorf(s.Name, "%v shape can't have a rounding mode", s.Family)
		}
		if !validRounding(s.Rounding) {
			return configErrorf(s.Name, "unknown rounding mode %q", s.Rounding)
		}
	}
	if s.Maskable {
		switch s.Family {
		case FamilyVector, FamilyVectorAMO, FamilyVectorMem:
		default:
			return configErrorf(s.Name, "%v shape can't be masked", s.Family)
		}
	}
	return nil
}

func validRounding(rm string) bool {
	for _, mode := range RoundingModes {
		if mode == rm {
			return true
		}
	}
	return false
}
