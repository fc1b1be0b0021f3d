// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package riscv64

import (
	"github.com/asmgen/asmgen/pkg/asmtest/iset"
)

type opt func(*iset.Shape)

func ref(layout string) opt {
	return func(s *iset.Shape) { s.Ref = iset.MustParseLayout(layout) }
}

func cand(layout string) opt {
	return func(s *iset.Shape) { s.Cand = iset.MustParseLayout(layout) }
}

// both sets the same layout for both renderings.
func both(layout string) opt {
	return func(s *iset.Shape) {
		s.Ref = iset.MustParseLayout(layout)
		s.Cand = s.Ref
	}
}

func mnemonic(name string) opt {
	return func(s *iset.Shape) { s.Mnemonic = name }
}

func rounding(rm string) opt {
	return func(s *iset.Shape) { s.Rounding = rm }
}

func implicitRounding(rm string) opt {
	return func(s *iset.Shape) {
		s.Rounding = rm
		s.ImplicitRounding = true
	}
}

func maskable(s *iset.Shape) {
	s.Maskable = true
}

func jump(s *iset.Shape) {
	s.Targets = iset.JumpTargets
}

type builder struct {
	cat *iset.Catalog
	cur *iset.Group
}

func (b *builder) group(title string, family iset.Family) *builder {
	b.cur = &iset.Group{Title: title, Family: family}
	b.cat.Groups = append(b.cat.Groups, b.cur)
	return b
}

func (b *builder) add(name, mode string, opts ...opt) *builder {
	s := &iset.Shape{
		Name:   name,
		Family: b.cur.Family,
		Mode:   iset.MustParseMode(mode),
	}
	for _, o := range opts {
		o(s)
	}
	b.cur.Shapes = append(b.cur.Shapes, s)
	return b
}

// each adds one shape per name, all with the same mode and options.
func (b *builder) each(mode string, names []string, opts ...opt) *builder {
	for _, name := range names {
		b.add(name, mode, opts...)
	}
	return b
}
