// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package iset

import (
	"fmt"
	"strconv"
	"strings"
)

// ConfigError reports a catalog authoring bug: an unknown mode code, a malformed layout
// or a shape that breaks its family rules. It is never recovered from.
type ConfigError struct {
	Shape string
	Msg   string
}

func (err *ConfigError) Error() string {
	if err.Shape == "" {
		return err.Msg
	}
	return fmt.Sprintf("%v: %v", err.Shape, err.Msg)
}

func configErrorf(shape, msg string, args ...interface{}) error {
	return &ConfigError{Shape: shape, Msg: fmt.Sprintf(msg, args...)}
}

var modeCodes = map[byte]Spec{
	'x': {Kind: KindGPR},
	'z': {Kind: KindGPROrZero},
	's': {Kind: KindGPROrSP},
	'f': {Kind: KindFPR},
	'v': {Kind: KindVR},
	'i': {Kind: KindSImm, Bits: 12},
	'k': {Kind: KindSImm, Bits: 5},
	'u': {Kind: KindUImm, Bits: 11}, // zero-extended into a sign-extended 12-bit field
	'h': {Kind: KindUImm, Bits: 5},
	'l': {Kind: KindUpperImm, Bits: 20},
	'c': {Kind: KindCSR, Bits: 12},
	'a': {Kind: KindAddress},
	'b': {Kind: KindBarrier},
}

// Mode is the ordered operand descriptor of a shape.
type Mode []Spec

func (m Mode) String() string {
	buf := make([]byte, len(m))
	for i, spec := range m {
		buf[i] = spec.Code
	}
	return string(buf)
}

// ParseMode parses a mode descriptor like "xxi" (two general registers and a 12-bit immediate).
func ParseMode(s string) (Mode, error) {
	mode := make(Mode, 0, len(s))
	for i := 0; i < len(s); i++ {
		spec, ok := modeCodes[s[i]]
		if !ok {
			return nil, configErrorf("", "unknown operand mode code %q in %q", s[i], s)
		}
		spec.Code = s[i]
		mode = append(mode, spec)
	}
	return mode, nil
}

func MustParseMode(s string) Mode {
	mode, err := ParseMode(s)
	if err != nil {
		panic(err)
	}
	return mode
}

type SlotKind int

const (
	SlotOperand SlotKind = iota
	SlotMem              // operand wrapped in parentheses
	SlotTarget           // multi-form substitution target
	SlotLiteral
)

type Slot struct {
	Kind  SlotKind
	Index int
	Text  string
}

// Layout is the argument order of one rendering. It is written as a comma-separated
// template: "N" is operand N, "(N)" is operand N as a memory operand, "@" is the
// multi-form target and anything else is a literal token.
type Layout []Slot

func ParseLayout(s string) (Layout, error) {
	var layout Layout
	if strings.TrimSpace(s) == "" {
		return layout, nil
	}
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		switch {
		case tok == "":
			return nil, configErrorf("", "empty slot in layout %q", s)
		case tok == "@":
			layout = append(layout, Slot{Kind: SlotTarget})
		case strings.HasPrefix(tok, "(") && strings.HasSuffix(tok, ")"):
			idx, err := strconv.Atoi(tok[1 : len(tok)-1])
			if err != nil {
				return nil, configErrorf("", "bad memory slot %q in layout %q", tok, s)
			}
			layout = append(layout, Slot{Kind: SlotMem, Index: idx})
		default:
			if idx, err := strconv.Atoi(tok); err == nil {
				layout = append(layout, Slot{Kind: SlotOperand, Index: idx})
			} else {
				layout = append(layout, Slot{Kind: SlotLiteral, Text: tok})
			}
		}
	}
	return layout, nil
}

func MustParseLayout(s string) Layout {
	layout, err := ParseLayout(s)
	if err != nil {
		panic(err)
	}
	return layout
}

func (l Layout) String() string {
	toks := make([]string, len(l))
	for i, slot := range l {
		switch slot.Kind {
		case SlotOperand:
			toks[i] = strconv.Itoa(slot.Index)
		case SlotMem:
			toks[i] = fmt.Sprintf("(%d)", slot.Index)
		case SlotTarget:
			toks[i] = "@"
		default:
			toks[i] = slot.Text
		}
	}
	return strings.Join(toks, ",")
}

// operands returns the set of operand indices referenced by the layout.
func (l Layout) operands() map[int]bool {
	res := make(map[int]bool)
	for _, slot := range l {
		if slot.Kind == SlotOperand || slot.Kind == SlotMem {
			res[slot.Index] = true
		}
	}
	return res
}

func (l Layout) hasTarget() bool {
	for _, slot := range l {
		if slot.Kind == SlotTarget {
			return true
		}
	}
	return false
}

func identityLayout(n int) Layout {
	layout := make(Layout, n)
	for i := range layout {
		layout[i] = Slot{Kind: SlotOperand, Index: i}
	}
	return layout
}
