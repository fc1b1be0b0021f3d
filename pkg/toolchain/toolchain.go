// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package toolchain runs the reference assembler, disassembler and section extractor
// over a generated reference buffer.
package toolchain

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/asmgen/asmgen/pkg/config"
	"github.com/asmgen/asmgen/pkg/log"
	"github.com/asmgen/asmgen/pkg/osutil"
	"github.com/asmgen/asmgen/pkg/stat"
)

type Config struct {
	// Reference assembler (GNU as compatible), e.g. riscv64-linux-gnu-as.
	Assembler string `json:"assembler"`
	// Disassembler invoked as "objdump -d obj".
	Disassembler string `json:"disassembler"`
	// Section extractor invoked as "objcopy -O binary -j .text obj bin".
	Extractor string `json:"extractor"`
	// Target passed as -march to the assembler.
	March string `json:"march"`
	// Directory for intermediate files. A temporary directory is used and removed if empty.
	Workdir string `json:"workdir,omitempty"`
	// Per stage timeout in time.ParseDuration format. Empty means no timeout.
	Timeout string `json:"timeout,omitempty"`

	timeout time.Duration
}

const DefaultMarch = "rv64gv_zvqmac"

func DefaultConfig() *Config {
	return &Config{
		Assembler:    "as",
		Disassembler: "objdump",
		Extractor:    "objcopy",
		March:        DefaultMarch,
	}
}

// LoadConfig loads a JSON or YAML config on top of DefaultConfig.
// An empty filename returns the default config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()
	if filename != "" {
		if err := config.LoadFile(filename, cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Complete(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Complete checks the config and fills in defaults for empty fields.
func (cfg *Config) Complete() error {
	def := DefaultConfig()
	for _, field := range []struct {
		val *string
		def string
	}{
		{&cfg.Assembler, def.Assembler},
		{&cfg.Disassembler, def.Disassembler},
		{&cfg.Extractor, def.Extractor},
		{&cfg.March, def.March},
	} {
		if *field.val == "" {
			*field.val = field.def
		}
	}
	cfg.timeout = 0
	if cfg.Timeout != "" {
		timeout, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return fmt.Errorf("bad timeout %q: %w", cfg.Timeout, err)
		}
		if timeout < 0 {
			return fmt.Errorf("bad timeout %q: negative", cfg.Timeout)
		}
		cfg.timeout = timeout
	}
	return nil
}

// Result holds the outputs of a successful pipeline run.
type Result struct {
	Listing []byte // disassembler output
	Text    []byte // raw contents of the .text section
}

type Stage string

const (
	StageAssemble    Stage = "assembler"
	StageDisassemble Stage = "disassembler"
	StageExtract     Stage = "extractor"
)

var (
	statAssemble    = stageStat(StageAssemble)
	statDisassemble = stageStat(StageDisassemble)
	statExtract     = stageStat(StageExtract)
	statTextBytes   = stat.New("text bytes", "Size of the extracted .text section",
		stat.Prometheus("syz_asmgen_text_bytes"))
)

func stageStat(stage Stage) *stat.Val {
	return stat.New(fmt.Sprintf("%v time", stage), fmt.Sprintf("Time spent in the %v (ms)", stage),
		stat.Distribution{}, func(v int) string { return fmt.Sprintf("%vms", v) })
}

// Build writes source to <name>ops.s in the working directory and runs all stages
// strictly in sequence. Any stage failure aborts the pipeline.
func Build(cfg *Config, name string, source []byte) (*Result, error) {
	dir := cfg.Workdir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "syz-asmgen-")
		if err != nil {
			return nil, fmt.Errorf("failed to create workdir: %w", err)
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	} else if err := osutil.MkdirAll(dir); err != nil {
		return nil, fmt.Errorf("failed to create workdir: %w", err)
	}
	src := name + "ops.s"
	obj := name + "ops.o"
	bin := name + "ops.bin"
	if err := osutil.WriteFile(filepath.Join(dir, src), source); err != nil {
		return nil, fmt.Errorf("failed to write assembly source: %w", err)
	}
	log.Logf(1, "building %v in %v", src, dir)
	if err := Assemble(cfg, dir, src, obj); err != nil {
		return nil, err
	}
	listing, err := Disassemble(cfg, dir, obj)
	if err != nil {
		return nil, err
	}
	text, err := ExtractText(cfg, dir, obj, bin)
	if err != nil {
		return nil, err
	}
	return &Result{Listing: listing, Text: text}, nil
}

func Assemble(cfg *Config, dir, src, obj string) error {
	_, err := run(cfg, statAssemble, StageAssemble, dir, cfg.Assembler,
		"-march="+cfg.March, src, "-o", obj)
	return err
}

func Disassemble(cfg *Config, dir, obj string) ([]byte, error) {
	return run(cfg, statDisassemble, StageDisassemble, dir, cfg.Disassembler, "-d", obj)
}

// ExtractText copies the .text section of obj into bin and returns its contents.
func ExtractText(cfg *Config, dir, obj, bin string) ([]byte, error) {
	if _, err := run(cfg, statExtract, StageExtract, dir, cfg.Extractor,
		"-O", "binary", "-j", ".text", obj, bin); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, bin))
	if err != nil {
		return nil, osutil.PrependContext(string(StageExtract), err)
	}
	statTextBytes.Add(len(data))
	return data, nil
}

func run(cfg *Config, st *stat.Val, stage Stage, dir, bin string, args ...string) ([]byte, error) {
	var tee io.Writer
	if log.V(2) {
		tee = log.VerboseWriter(2)
	}
	log.Logf(2, "%v: %v %v", stage, bin, strings.Join(args, " "))
	start := time.Now()
	output, err := osutil.RunCmdTee(cfg.timeout, dir, tee, bin, args...)
	st.Add(int(time.Since(start).Milliseconds()))
	if err != nil {
		var verbose *osutil.VerboseError
		if errors.As(err, &verbose) {
			if cause := rootCause(verbose.Output); cause != "" {
				verbose.Title = fmt.Sprintf("%v\n%v", verbose.Title, cause)
			}
		}
		return nil, osutil.PrependContext(string(stage), err)
	}
	return output, nil
}

// rootCause returns the first diagnostic line of GNU binutils output
// ("file:line: Error: ..." or "tool: error: ...").
func rootCause(output []byte) string {
	s := bufio.NewScanner(bytes.NewReader(output))
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if strings.Contains(line, "Error:") || strings.Contains(line, "error:") {
			return line
		}
	}
	return ""
}
