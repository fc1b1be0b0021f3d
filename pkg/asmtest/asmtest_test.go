// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package asmtest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/asmgen/asmgen/pkg/asmtest/iset"
	"github.com/asmgen/asmgen/pkg/asmtest/riscv64"
	"github.com/asmgen/asmgen/pkg/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallCatalog = `
arch: test
groups:
  - title: ThreeReg
    family: arith
    shapes:
      - name: add
        mode: xxx
  - title: Empty
    family: op
  - title: Branch
    family: branch
    shapes:
      - name: beqz
        mode: z
        ref: 0,@
        cand: 0,@
  - title: FloatThreeRegArith
    family: float
    shapes:
      - name: fadd_d
        mode: fff
        rounding: rup
  - title: FloatConvert
    family: float
    shapes:
      - name: fcvt_d_w
        mode: fx
        rounding: rne
        implicit_rounding: true
  - title: VectorArith
    family: vector
    shapes:
      - name: vadd_vv
        mode: vvv
        maskable: true
`

func loadSmall(t *testing.T) *iset.Catalog {
	cat, err := iset.LoadCatalog([]byte(smallCatalog))
	require.NoError(t, err)
	return cat
}

func TestDeterministic(t *testing.T) {
	seed := testutil.Seed(t)
	for _, all := range []bool{false, true} {
		c0 := Generate(riscv64.Catalog(), Options{Seed: seed, AllVariants: all})
		c1 := Generate(riscv64.Catalog(), Options{Seed: seed, AllVariants: all})
		if diff := cmp.Diff(string(c0.Reference), string(c1.Reference)); diff != "" {
			t.Fatalf("reference differs for the same seed:\n%s", diff)
		}
		if diff := cmp.Diff(string(c0.Candidate), string(c1.Candidate)); diff != "" {
			t.Fatalf("candidate differs for the same seed:\n%s", diff)
		}
		assert.Equal(t, seed, c0.Seed)
		c2 := Generate(riscv64.Catalog(), Options{Seed: seed + 1, AllVariants: all})
		assert.NotEqual(t, c0.Reference, c2.Reference)
		assert.Equal(t, c0.Forms, c2.Forms)
	}
}

func TestFraming(t *testing.T) {
	c := Generate(loadSmall(t), Options{Seed: 1})
	ref := strings.Split(strings.TrimSuffix(string(c.Reference), "\n"), "\n")
	require.NotEmpty(t, ref)
	assert.Equal(t, "back:", ref[0])
	assert.Equal(t, "forth:", ref[len(ref)-1])
	var comments, insns []string
	for _, line := range ref[1 : len(ref)-1] {
		if strings.HasPrefix(line, "# ") {
			comments = append(comments, strings.TrimPrefix(line, "# "))
		} else {
			insns = append(insns, line)
		}
	}
	assert.Equal(t, []string{"ThreeReg", "Branch", "FloatThreeRegArith", "FloatConvert", "VectorArith"}, comments)
	assert.Len(t, insns, c.Forms)
	assert.Equal(t, 5, c.Instances)
	assert.Equal(t, 7, c.Forms)
	assert.Equal(t, []string{"beqz", "beqz", "beqz"}, []string{
		strings.Fields(insns[1])[0], strings.Fields(insns[2])[0], strings.Fields(insns[3])[0]})

	cand := string(c.Candidate)
	assert.True(t, strings.HasPrefix(cand, "    Label back, forth;\n    __ bind(back);\n\n    // ThreeReg\n"), cand)
	assert.True(t, strings.HasSuffix(cand, "\n\n    __ bind(forth);\n"), cand)
	assert.NotContains(t, cand, "// Empty")
}

func TestCandidateLines(t *testing.T) {
	c := Generate(riscv64.Catalog(), Options{Seed: testutil.Seed(t)})
	refLines := bytes.Split(c.Reference, []byte("\n"))
	var refs []string
	for _, line := range refLines {
		s := string(line)
		if s == "" || s == "back:" || s == "forth:" || strings.HasPrefix(s, "# ") {
			continue
		}
		refs = append(refs, s)
	}
	var pairs []string
	for _, line := range strings.Split(string(c.Candidate), "\n") {
		if !strings.HasPrefix(line, "    __ ") || strings.HasPrefix(line, "    __ bind(") {
			continue
		}
		// The candidate column is padded to a fixed width unless the call is longer.
		sep := strings.Index(line, " // ")
		require.Greater(t, sep, 0, line)
		call := strings.TrimRight(line[4:sep], " ")
		assert.Equal(t, 4+max(len(call), candidateWidth), sep, line)
		assert.True(t, strings.HasSuffix(call, ");"), line)
		pairs = append(pairs, line[sep+4:])
	}
	require.Len(t, pairs, c.Forms)
	if diff := cmp.Diff(refs, pairs); diff != "" {
		t.Fatalf("candidate comments do not match the reference buffer:\n%s", diff)
	}
}

func TestAllVariants(t *testing.T) {
	c := Generate(loadSmall(t), Options{Seed: testutil.Seed(t), AllVariants: true})
	// add + beqz + 5 rounding modes of fadd.d + fcvt.d.w + 2 mask variants of vadd.vv.
	assert.Equal(t, 10, c.Instances)
	assert.Equal(t, 12, c.Forms)
	ref := string(c.Reference)
	for _, rm := range iset.RoundingModes {
		assert.Contains(t, ref, ", "+rm+"\n")
		assert.Contains(t, string(c.Candidate), ", Assembler::"+rm+");")
	}
	assert.Equal(t, 1, strings.Count(ref, "fcvt.d.w "))
	for _, line := range strings.Split(ref, "\n") {
		if strings.HasPrefix(line, "fcvt.d.w ") {
			assert.False(t, strings.HasSuffix(line, ", rne"), line)
		}
	}
	assert.Equal(t, 2, strings.Count(ref, "vadd.vv "))
	assert.Equal(t, 1, strings.Count(ref, ", v0.t\n"))
}

func TestAllVariantsCatalog(t *testing.T) {
	cat := riscv64.Catalog()
	expect := 0
	for _, g := range cat.Groups {
		for _, s := range g.Shapes {
			switch {
			case s.Maskable:
				expect += 2
			case s.Rounding != "" && !s.ImplicitRounding:
				expect += len(iset.RoundingModes)
			default:
				expect++
			}
		}
	}
	c := Generate(cat, Options{Seed: testutil.Seed(t), AllVariants: true})
	assert.Equal(t, expect, c.Instances)
	assert.Greater(t, c.Forms, c.Instances)
}
