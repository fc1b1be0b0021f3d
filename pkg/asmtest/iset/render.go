// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package iset

import (
	"math/rand"
	"strings"
)

// Instance is one randomly populated occurrence of a shape.
type Instance struct {
	Shape    *Shape
	Ops      []Operand
	Masked   bool
	Rounding string
}

// Instantiate draws the operands of s in mode order, then the mask flag of maskable shapes.
func Instantiate(s *Shape, r *rand.Rand) *Instance {
	inst := &Instance{
		Shape:    s,
		Ops:      make([]Operand, len(s.Mode)),
		Rounding: s.Rounding,
	}
	for i, spec := range s.Mode {
		inst.Ops[i] = Generate(spec, r)
	}
	if s.Maskable {
		inst.Masked = r.Intn(2) == 0
	}
	return inst
}

// Form is one rendered reference/candidate pair.
type Form struct {
	Ref    string
	Cand   string
	Target string // name of the substituted target for multi-form shapes
}

const (
	maskRef  = "v0.t"
	maskCand = "Assembler::v0_t"
)

// Render produces one form, or one form per target for multi-form shapes.
// All forms of an instance share the same operand values.
func (inst *Instance) Render() []Form {
	s := inst.Shape
	if !s.MultiForm() {
		return []Form{inst.render(nil)}
	}
	forms := make([]Form, 0, len(s.Targets))
	for i := range s.Targets {
		forms = append(forms, inst.render(&s.Targets[i]))
	}
	return forms
}

func (inst *Instance) render(target *Target) Form {
	s := inst.Shape
	refArgs := inst.args(s.RefLayout(), target, true)
	candArgs := inst.args(s.CandLayout(), target, false)
	if inst.Rounding != "" {
		if !s.ImplicitRounding {
			refArgs = append(refArgs, inst.Rounding)
		}
		candArgs = append(candArgs, "Assembler::"+inst.Rounding)
	}
	if inst.Masked {
		refArgs = append(refArgs, maskRef)
		candArgs = append(candArgs, maskCand)
	}
	form := Form{
		Ref:  s.RefName(),
		Cand: s.CandName() + "(" + strings.Join(candArgs, ", ") + ");",
	}
	if len(refArgs) != 0 {
		form.Ref += " " + strings.Join(refArgs, ", ")
	}
	if target != nil {
		form.Target = target.Name
	}
	return form
}

func (inst *Instance) args(layout Layout, target *Target, ref bool) []string {
	args := make([]string, 0, len(layout)+2)
	for _, slot := range layout {
		switch slot.Kind {
		case SlotOperand, SlotMem:
			op := inst.Ops[slot.Index]
			text := op.Cand()
			if ref {
				text = op.Ref()
			}
			if slot.Kind == SlotMem && ref {
				text = "(" + text + ")"
			}
			args = append(args, text)
		case SlotTarget:
			if ref {
				args = append(args, target.Ref)
			} else {
				args = append(args, target.Cand)
			}
		case SlotLiteral:
			args = append(args, slot.Text)
		}
	}
	return args
}
