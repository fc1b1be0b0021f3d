// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package golden emits the verification artifact: the candidate stream, the reference
// disassembly listing and the table of expected instruction words, framed by
// generated-code markers. It can also parse a previously emitted artifact for replay.
package golden

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/asmgen/asmgen/pkg/hash"
	"golang.org/x/arch/riscv64/riscv64asm"
)

const (
	Begin = "// BEGIN  Generated code -- do not edit"
	End   = "// END  Generated code -- do not edit"

	generatedBy  = "// Generated by syz-asmgen"
	referenceSum = "// Reference sha1:"
	wordsPerLine = 4
)

// Words splits the raw .text section into little-endian 32-bit words.
func Words(raw []byte) ([]uint32, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("text section size %v is not a multiple of 4", len(raw))
	}
	words := make([]uint32, 0, len(raw)/4)
	for i := 0; i < len(raw); i += 4 {
		words = append(words, binary.LittleEndian.Uint32(raw[i:]))
	}
	return words, nil
}

// CheckCount verifies that the reference toolchain produced exactly one word per form.
func CheckCount(words []uint32, forms int) error {
	if len(words) != forms {
		return fmt.Errorf("reference toolchain produced %v instruction words for %v forms", len(words), forms)
	}
	return nil
}

// Header identifies the run that produced an artifact.
type Header struct {
	Seed        int64
	AllVariants bool
	Annotate    bool
	Reference   hash.Sig // sha1 of the reference buffer
}

func (h *Header) lines() []string {
	gen := fmt.Sprintf("%v -seed=%v", generatedBy, h.Seed)
	if h.AllVariants {
		gen += " -all-variants"
	}
	if h.Annotate {
		gen += " -annotate"
	}
	return []string{gen, fmt.Sprintf("%v %v", referenceSum, h.Reference)}
}

// ParseHeader finds the header of a previously emitted artifact.
func ParseHeader(data []byte) (*Header, error) {
	var h *Header
	s := bufio.NewScanner(bytes.NewReader(data))
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		switch {
		case strings.HasPrefix(line, generatedBy+" "):
			h = new(Header)
			for _, flag := range strings.Fields(line[len(generatedBy):]) {
				switch {
				case flag == "-all-variants":
					h.AllVariants = true
				case flag == "-annotate":
					h.Annotate = true
				case strings.HasPrefix(flag, "-seed="):
					seed, err := strconv.ParseInt(strings.TrimPrefix(flag, "-seed="), 10, 64)
					if err != nil {
						return nil, fmt.Errorf("bad seed in %q: %w", line, err)
					}
					h.Seed = seed
				default:
					return nil, fmt.Errorf("unknown flag %q in %q", flag, line)
				}
			}
		case strings.HasPrefix(line, referenceSum):
			if h == nil {
				return nil, fmt.Errorf("reference sum before the generator line")
			}
			sig, err := hash.FromString(strings.TrimSpace(line[len(referenceSum):]))
			if err != nil {
				return nil, err
			}
			h.Reference = sig
			return h, nil
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("no %q line found", generatedBy)
	}
	return nil, fmt.Errorf("no %q line found", referenceSum)
}

// Extract returns the region between the generated-code markers (both included)
// of a file the artifact was pasted into.
func Extract(data []byte) ([]byte, error) {
	start := bytes.Index(data, []byte(Begin))
	if start == -1 {
		return nil, fmt.Errorf("no %q marker found", Begin)
	}
	end := bytes.Index(data[start:], []byte(End))
	if end == -1 {
		return nil, fmt.Errorf("no %q marker found", End)
	}
	end += start + len(End)
	if end < len(data) && data[end] == '\n' {
		end++
	}
	return data[start:end], nil
}

// Artifact is everything that goes between the generated-code markers.
type Artifact struct {
	Header    Header
	Candidate []byte
	Listing   []byte
	Words     []uint32
}

func Write(w io.Writer, art *Artifact) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%v\n", Begin)
	for _, line := range art.Header.lines() {
		fmt.Fprintf(bw, "%v\n", line)
	}
	bw.Write(art.Candidate)
	WriteListing(bw, art.Listing)
	WriteTable(bw, art.Words, art.Header.Annotate)
	fmt.Fprintf(bw, "%v\n", End)
	return bw.Flush()
}

// WriteListing prints the disassembly listing as a block comment.
func WriteListing(w io.Writer, listing []byte) {
	fmt.Fprintf(w, "\n/*\n")
	w.Write(listing)
	if len(listing) != 0 && listing[len(listing)-1] != '\n' {
		fmt.Fprintf(w, "\n")
	}
	fmt.Fprintf(w, "*/\n")
}

// WriteTable prints the expected words as a static array. With annotate it prints
// one word per line with its disassembly as a trailing comment.
func WriteTable(w io.Writer, words []uint32, annotate bool) {
	fmt.Fprintf(w, "\n  static const unsigned int insns[] =\n  {\n")
	if annotate {
		for _, word := range words {
			fmt.Fprintf(w, "    0x%08x, // %v\n", word, Disasm(word))
		}
	} else {
		for i := 0; i < len(words); i += wordsPerLine {
			fmt.Fprintf(w, "   ")
			for _, word := range words[i:min(i+wordsPerLine, len(words))] {
				fmt.Fprintf(w, " 0x%08x,", word)
			}
			fmt.Fprintf(w, "\n")
		}
	}
	fmt.Fprintf(w, "  };\n")
}

// Disasm returns GNU syntax of a single 32-bit instruction word,
// or "unknown" if the word does not decode as one.
func Disasm(word uint32) string {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], word)
	inst, err := riscv64asm.Decode(buf[:])
	if err != nil || inst.Len != len(buf) {
		return "unknown"
	}
	return riscv64asm.GNUSyntax(inst)
}
