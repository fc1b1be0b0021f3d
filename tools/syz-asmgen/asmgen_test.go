// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/asmgen/asmgen/pkg/asmtest"
	"github.com/asmgen/asmgen/pkg/asmtest/iset"
	"github.com/asmgen/asmgen/pkg/golden"
	"github.com/asmgen/asmgen/pkg/osutil"
	"github.com/asmgen/asmgen/pkg/stat"
	"github.com/asmgen/asmgen/pkg/testutil"
	"github.com/asmgen/asmgen/pkg/toolchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// The fake assembler stores the number of instruction lines as the object file.
	fakeAs = `#!/bin/sh
grep -v -e ':$' -e '^#' "$2" | wc -l > "$4"
`
	fakeObjdump = `#!/bin/sh
echo "$2: $(cat "$2") instructions"
`
	// The fake extractor emits that many nops.
	fakeObjcopy = `#!/bin/sh
n=$(cat "$5")
i=0
: > "$6"
while [ $i -lt $n ]; do
	printf '\023\000\000\000' >> "$6"
	i=$((i+1))
done
`
)

func fakeConfig(t *testing.T) *toolchain.Config {
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
	dir := t.TempDir()
	write := func(name, script string) string {
		file := filepath.Join(dir, name)
		require.NoError(t, osutil.WriteExecFile(file, []byte(script)))
		return file
	}
	cfg := &toolchain.Config{
		Assembler:    write("as", fakeAs),
		Disassembler: write("objdump", fakeObjdump),
		Extractor:    write("objcopy", fakeObjcopy),
	}
	require.NoError(t, cfg.Complete())
	return cfg
}

func TestGenerate(t *testing.T) {
	cfg := fakeConfig(t)
	cat, err := loadCatalog(iset.ArchRiscv64, false, nil)
	require.NoError(t, err)
	opts := &options{gen: asmtest.Options{Seed: testutil.Seed(t)}}
	out := new(bytes.Buffer)
	require.NoError(t, generate(out, cat, cfg, opts))
	text := out.String()
	assert.True(t, strings.HasPrefix(text, golden.Begin+"\n"), text[:200])
	assert.True(t, strings.HasSuffix(text, "  };\n"+golden.End+"\n"))
	assert.Contains(t, text, "    Label back, forth;\n")
	assert.Contains(t, text, "\n/*\nriscv64ops.o: ")
	assert.Contains(t, text, "  static const unsigned int insns[] =\n  {\n    0x00000013, 0x00000013,")

	hdr, err := golden.ParseHeader(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, opts.gen.Seed, hdr.Seed)
	assert.False(t, hdr.AllVariants)
}

func TestCheck(t *testing.T) {
	cfg := fakeConfig(t)
	cat, err := loadCatalog(iset.ArchRiscv64, false, nil)
	require.NoError(t, err)
	out := new(bytes.Buffer)
	seed := testutil.Seed(t)
	require.NoError(t, generate(out, cat, cfg, &options{
		gen:      asmtest.Options{Seed: seed, AllVariants: true},
		annotate: true,
	}))
	file := filepath.Join(t.TempDir(), "riscv64_asmtest.inc")
	require.NoError(t, osutil.WriteFile(file, out.Bytes()))

	// The seed and variants come from the file, not from the options.
	require.NoError(t, check(cat, cfg, &options{gen: asmtest.Options{Seed: seed + 1}}, file))

	edited := strings.Replace(out.String(), "    __ bind(back);\n", "    __ bind(back);\n    __ nop();\n", 1)
	require.NoError(t, osutil.WriteFile(file, []byte(edited)))
	err = check(cat, cfg, &options{}, file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match regenerated output")
	assert.Contains(t, err.Error(), "-    __ nop();\n")
}

func TestCheckPasted(t *testing.T) {
	cfg := fakeConfig(t)
	cat, err := loadCatalog(iset.ArchRiscv64, false, nil)
	require.NoError(t, err)
	out := new(bytes.Buffer)
	before := statValue(t, "forms")
	// -1 is an ordinary seed and must be replayable.
	require.NoError(t, generate(out, cat, cfg, &options{gen: asmtest.Options{Seed: -1}}))
	source := "#include \"precompiled.hpp\"\n\nstatic void asm_check() {\n" +
		out.String() + "\n  asm_check_words(insns);\n}\n"
	file := filepath.Join(t.TempDir(), "asmtest_riscv64.cpp")
	require.NoError(t, osutil.WriteFile(file, []byte(source)))

	generated := statValue(t, "forms")
	require.NoError(t, check(cat, cfg, &options{}, file))
	// The corpus is generated once per check.
	assert.Equal(t, 2*generated-before, statValue(t, "forms"))

	require.NoError(t, osutil.WriteFile(file, []byte("static void asm_check() {}\n")))
	err = check(cat, cfg, &options{}, file)
	assert.ErrorContains(t, err, "BEGIN")
}

func statValue(t *testing.T, name string) int {
	for _, ui := range stat.Collect() {
		if ui.Name == name {
			return ui.V
		}
	}
	t.Fatalf("no stat %v", name)
	return 0
}

func TestFlagSet(t *testing.T) {
	assert.False(t, flagSet("march"))
	require.NoError(t, flag.Set("seed", "-1"))
	assert.True(t, flagSet("seed"))
	assert.Equal(t, int64(-1), *flagSeed)
}

func TestGenerateWordCountMismatch(t *testing.T) {
	cfg := fakeConfig(t)
	// Drops the last word.
	require.NoError(t, osutil.WriteExecFile(cfg.Extractor, []byte(`#!/bin/sh
n=$(cat "$5")
i=1
: > "$6"
while [ $i -lt $n ]; do
	printf '\023\000\000\000' >> "$6"
	i=$((i+1))
done
`)))
	cat, err := loadCatalog(iset.ArchRiscv64, false, nil)
	require.NoError(t, err)
	out := new(bytes.Buffer)
	err = generate(out, cat, cfg, &options{gen: asmtest.Options{Seed: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instruction words for")
	assert.Zero(t, out.Len())
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	extra := filepath.Join(dir, "extra.yaml")
	require.NoError(t, os.WriteFile(extra, []byte(`
arch: riscv64
groups:
  - title: Extra
    family: arith
    shapes:
      - name: addw
        mode: xxx
`), 0644))
	builtin := iset.Arches[iset.ArchRiscv64]
	cat, err := loadCatalog(iset.ArchRiscv64, false, []string{extra})
	require.NoError(t, err)
	assert.Equal(t, builtin.NumShapes()+1, cat.NumShapes())
	assert.Equal(t, "Extra", cat.Groups[len(cat.Groups)-1].Title)

	cat, err = loadCatalog(iset.ArchRiscv64, true, []string{extra})
	require.NoError(t, err)
	assert.Equal(t, 1, cat.NumShapes())

	_, err = loadCatalog(iset.ArchRiscv64, true, nil)
	assert.ErrorContains(t, err, "empty catalog")
	_, err = loadCatalog("mips", false, nil)
	assert.ErrorContains(t, err, "unknown arch")
	_, err = loadCatalog("mips", true, []string{extra})
	assert.ErrorContains(t, err, "can't append riscv64 catalog to mips catalog")
}
