// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package asmtest generates a randomized corpus for differential testing of an assembler
// implementation against a reference toolchain. Every shape of a catalog is instantiated
// with random operands and rendered twice: as reference assembly (fed to the reference
// assembler) and as the candidate call expected from the tested encoder.
package asmtest

import (
	"bytes"
	"fmt"
	"math/rand"

	"github.com/asmgen/asmgen/pkg/asmtest/iset"
	"github.com/asmgen/asmgen/pkg/hash"
	"github.com/asmgen/asmgen/pkg/log"
	"github.com/asmgen/asmgen/pkg/stat"
	"github.com/davecgh/go-spew/spew"
)

type Options struct {
	Seed int64
	// AllVariants generates both mask variants of maskable shapes and every rounding mode of
	// rounding shapes instead of one random sample per shape.
	AllVariants bool
}

type Corpus struct {
	Seed      int64
	Reference []byte // assembly source for the reference assembler
	Candidate []byte // encoder invocations, one per form
	Instances int
	Forms     int
}

var (
	statInstances = stat.New("instances", "Generated instances", stat.Prometheus("syz_asmgen_instances"))
	statForms     = stat.New("forms", "Rendered reference/candidate pairs", stat.Prometheus("syz_asmgen_forms"))
)

const candidateWidth = 50

// Generate instantiates every shape of cat in declaration order.
// The same catalog and options always produce the same corpus.
func Generate(cat *iset.Catalog, opts Options) *Corpus {
	log.Logf(1, "generating %v corpus (%v shapes), seed=%v all-variants=%v",
		cat.Arch, cat.NumShapes(), opts.Seed, opts.AllVariants)
	gen := &generator{
		r:      rand.New(rand.NewSource(opts.Seed)),
		opts:   opts,
		corpus: &Corpus{Seed: opts.Seed},
	}
	gen.ref.WriteString(iset.LabelBack + ":\n")
	fmt.Fprintf(&gen.cand, "    Label %v, %v;\n", iset.LabelBack, iset.LabelForth)
	fmt.Fprintf(&gen.cand, "    __ bind(%v);\n", iset.LabelBack)
	for _, g := range cat.Groups {
		if len(g.Shapes) == 0 {
			continue
		}
		fmt.Fprintf(&gen.ref, "# %v\n", g.Title)
		fmt.Fprintf(&gen.cand, "\n    // %v\n", g.Title)
		for _, s := range g.Shapes {
			gen.shape(s)
		}
	}
	gen.ref.WriteString(iset.LabelForth + ":\n")
	fmt.Fprintf(&gen.cand, "\n    __ bind(%v);\n", iset.LabelForth)
	gen.corpus.Reference = gen.ref.Bytes()
	gen.corpus.Candidate = gen.cand.Bytes()
	statInstances.Add(gen.corpus.Instances)
	statForms.Add(gen.corpus.Forms)
	log.Logf(1, "generated %v instances, %v forms, reference sha1 %v",
		gen.corpus.Instances, gen.corpus.Forms, hash.String(gen.corpus.Reference))
	return gen.corpus
}

type generator struct {
	r      *rand.Rand
	opts   Options
	corpus *Corpus
	ref    bytes.Buffer
	cand   bytes.Buffer
}

func (gen *generator) shape(s *iset.Shape) {
	if !gen.opts.AllVariants {
		gen.emit(iset.Instantiate(s, gen.r))
		return
	}
	switch {
	case s.Maskable:
		for _, masked := range []bool{false, true} {
			inst := iset.Instantiate(s, gen.r)
			inst.Masked = masked
			gen.emit(inst)
		}
	case s.Rounding != "" && !s.ImplicitRounding:
		for _, rm := range iset.RoundingModes {
			inst := iset.Instantiate(s, gen.r)
			inst.Rounding = rm
			gen.emit(inst)
		}
	default:
		gen.emit(iset.Instantiate(s, gen.r))
	}
}

func (gen *generator) emit(inst *iset.Instance) {
	if log.V(3) {
		log.Logf(3, "%s", spew.Sdump(inst.Ops))
	}
	gen.corpus.Instances++
	for _, form := range inst.Render() {
		gen.corpus.Forms++
		fmt.Fprintf(&gen.cand, "    %-*s // %s\n", candidateWidth, "__ "+form.Cand, form.Ref)
		gen.ref.WriteString(form.Ref)
		gen.ref.WriteByte('\n')
	}
}
