// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// syz-asmgen generates a randomized assembler test corpus, runs it through the reference
// toolchain and prints encoder calls together with the expected instruction words.
//
// Usage:
//
//	syz-asmgen -seed=1 -as=riscv64-linux-gnu-as -objdump=riscv64-linux-gnu-objdump \
//		-objcopy=riscv64-linux-gnu-objcopy > riscv64_asmtest.inc
//	syz-asmgen -check=riscv64_asmtest.inc -config=tools.yaml
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/asmgen/asmgen/pkg/asmtest"
	"github.com/asmgen/asmgen/pkg/asmtest/iset"
	_ "github.com/asmgen/asmgen/pkg/asmtest/riscv64"
	"github.com/asmgen/asmgen/pkg/golden"
	"github.com/asmgen/asmgen/pkg/hash"
	"github.com/asmgen/asmgen/pkg/log"
	"github.com/asmgen/asmgen/pkg/stat"
	"github.com/asmgen/asmgen/pkg/tool"
	"github.com/asmgen/asmgen/pkg/toolchain"
)

var (
	flagArch        = flag.String("arch", iset.ArchRiscv64, "target arch")
	flagSeed        = flag.Int64("seed", 0, "prng seed (current time if not set)")
	flagAllVariants = flag.Bool("all-variants", false, "generate every mask and rounding variant")
	flagNoBuiltin   = flag.Bool("no-builtin", false, "don't use the built-in catalog, only -catalog files")
	flagDump        = flag.Bool("dump-catalog", false, "print the catalog in YAML and exit")
	flagReference   = flag.Bool("reference", false, "print the reference assembly and exit")
	flagConfig      = flag.String("config", "", "toolchain config file (JSON or YAML)")
	flagAs          = flag.String("as", "", "reference assembler (overrides config)")
	flagObjdump     = flag.String("objdump", "", "disassembler (overrides config)")
	flagObjcopy     = flag.String("objcopy", "", "section extractor (overrides config)")
	flagMarch       = flag.String("march", "", "assembler -march value (overrides config)")
	flagWorkdir     = flag.String("workdir", "", "keep intermediate files in this dir")
	flagAnnotate    = flag.Bool("annotate", false, "annotate expected words with their disassembly")
	flagCheck       = flag.String("check", "", "regenerate the given file with its seed and compare")
	flagMetrics     = flag.String("metrics", "", "write run metrics to this file in Prometheus text format")
	flagCatalogs    tool.CfgsFlag
)

var statWords = stat.New("words", "Expected instruction words", stat.Prometheus("syz_asmgen_words"))

func main() {
	flag.Var(&flagCatalogs, "catalog", "comma-separated list of YAML catalogs to add")
	defer tool.Init()()
	cat, err := loadCatalog(*flagArch, *flagNoBuiltin, flagCatalogs)
	if err != nil {
		log.Fatal(err)
	}
	if *flagDump {
		data, err := iset.DumpCatalog(cat)
		if err != nil {
			log.Fatal(err)
		}
		os.Stdout.Write(data)
		return
	}
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}
	opts := &options{
		gen:      asmtest.Options{Seed: *flagSeed, AllVariants: *flagAllVariants},
		annotate: *flagAnnotate,
	}
	if *flagCheck != "" {
		err = check(cat, cfg, opts, *flagCheck)
	} else {
		if !flagSet("seed") {
			opts.gen.Seed = time.Now().UnixNano()
		}
		log.Logf(0, "seed=%v", opts.gen.Seed)
		if *flagReference {
			os.Stdout.Write(asmtest.Generate(cat, opts.gen).Reference)
			return
		}
		err = generate(os.Stdout, cat, cfg, opts)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
	if log.V(1) {
		for _, ui := range stat.Collect() {
			log.Logf(1, "%-24v %v", ui.Name+":", ui.Value)
		}
	}
	if *flagMetrics != "" {
		if err := stat.WriteTextfile(*flagMetrics); err != nil {
			log.Fatalf("failed to write metrics: %v", err)
		}
	}
}

// flagSet says if the flag was given on the command line.
func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		set = set || f.Name == name
	})
	return set
}

type options struct {
	gen      asmtest.Options
	annotate bool
}

func loadCatalog(arch string, noBuiltin bool, files []string) (*iset.Catalog, error) {
	cat := &iset.Catalog{Arch: arch}
	if !noBuiltin {
		builtin := iset.Arches[arch]
		if builtin == nil {
			return nil, fmt.Errorf("unknown arch %q, supported: %v", arch, iset.ArchList())
		}
		if err := cat.Append(builtin); err != nil {
			return nil, err
		}
	}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		extra, err := iset.LoadCatalog(data)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", file, err)
		}
		if err := cat.Append(extra); err != nil {
			return nil, fmt.Errorf("%v: %w", file, err)
		}
	}
	if cat.NumShapes() == 0 {
		return nil, fmt.Errorf("empty catalog")
	}
	return cat, nil
}

func loadConfig() (*toolchain.Config, error) {
	cfg, err := toolchain.LoadConfig(*flagConfig)
	if err != nil {
		return nil, err
	}
	for _, override := range []struct {
		val *string
		dst *string
	}{
		{flagAs, &cfg.Assembler},
		{flagObjdump, &cfg.Disassembler},
		{flagObjcopy, &cfg.Extractor},
		{flagMarch, &cfg.March},
		{flagWorkdir, &cfg.Workdir},
	} {
		if *override.val != "" {
			*override.dst = *override.val
		}
	}
	return cfg, nil
}

// generate runs the whole pipeline and writes the artifact to w.
// Nothing is written if any stage fails.
func generate(w io.Writer, cat *iset.Catalog, cfg *toolchain.Config, opts *options) error {
	return emit(w, cat, asmtest.Generate(cat, opts.gen), cfg, opts)
}

func emit(w io.Writer, cat *iset.Catalog, corpus *asmtest.Corpus, cfg *toolchain.Config, opts *options) error {
	res, err := toolchain.Build(cfg, cat.Arch, corpus.Reference)
	if err != nil {
		return err
	}
	words, err := golden.Words(res.Text)
	if err != nil {
		return err
	}
	if err := golden.CheckCount(words, corpus.Forms); err != nil {
		return err
	}
	statWords.Add(len(words))
	art := &golden.Artifact{
		Header: golden.Header{
			Seed:        corpus.Seed,
			AllVariants: opts.gen.AllVariants,
			Annotate:    opts.annotate,
			Reference:   hash.Hash(corpus.Reference),
		},
		Candidate: corpus.Candidate,
		Listing:   res.Listing,
		Words:     words,
	}
	return golden.Write(w, art)
}

// check regenerates the artifact pasted into file with the seed recorded in it
// and compares it with the region between the generated-code markers.
func check(cat *iset.Catalog, cfg *toolchain.Config, opts *options, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	region, err := golden.Extract(data)
	if err != nil {
		return fmt.Errorf("%v: %w", file, err)
	}
	hdr, err := golden.ParseHeader(region)
	if err != nil {
		return fmt.Errorf("%v: %w", file, err)
	}
	opts.gen.Seed = hdr.Seed
	opts.gen.AllVariants = hdr.AllVariants
	opts.annotate = hdr.Annotate
	log.Logf(0, "checking %v with seed=%v", file, hdr.Seed)
	corpus := asmtest.Generate(cat, opts.gen)
	if hash.Hash(corpus.Reference) != hdr.Reference {
		log.Logf(0, "reference buffer changed: %v -> %v", hdr.Reference, hash.String(corpus.Reference))
	}
	out := new(bytes.Buffer)
	if err := emit(out, cat, corpus, cfg, opts); err != nil {
		return err
	}
	if diff := golden.Diff(string(region), out.String()); diff != "" {
		return fmt.Errorf("%v does not match regenerated output:\n%v", file, diff)
	}
	log.Logf(0, "%v is up to date", file)
	return nil
}
