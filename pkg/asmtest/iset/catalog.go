// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package iset

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Catalog is the declaration-ordered list of shapes of one architecture.
type Catalog struct {
	Arch   string
	Groups []*Group
}

// Group is a run of shapes emitted under one title comment.
type Group struct {
	Title  string
	Family Family
	Shapes []*Shape
}

const ArchRiscv64 = "riscv64"

var Arches = make(map[string]*Catalog)

func Register(cat *Catalog) {
	if len(cat.Groups) == 0 {
		panic(fmt.Sprintf("no shapes for %v", cat.Arch))
	}
	if err := cat.Validate(); err != nil {
		panic(err)
	}
	Arches[cat.Arch] = cat
}

func ArchList() []string {
	var res []string
	for arch := range Arches {
		res = append(res, arch)
	}
	sort.Strings(res)
	return res
}

func (cat *Catalog) Validate() error {
	for _, g := range cat.Groups {
		for _, s := range g.Shapes {
			if s.Family != g.Family {
				return configErrorf(s.Name, "family %v does not match group %v (%v)",
					s.Family, g.Title, g.Family)
			}
			if err := s.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (cat *Catalog) NumShapes() int {
	n := 0
	for _, g := range cat.Groups {
		n += len(g.Shapes)
	}
	return n
}

// Append adds the groups of other after the groups of cat.
func (cat *Catalog) Append(other *Catalog) error {
	if other.Arch != "" && other.Arch != cat.Arch {
		return configErrorf("", "can't append %v catalog to %v catalog", other.Arch, cat.Arch)
	}
	cat.Groups = append(cat.Groups, other.Groups...)
	return nil
}

type yamlCatalog struct {
	Arch   string       `yaml:"arch"`
	Groups []*yamlGroup `yaml:"groups"`
}

type yamlGroup struct {
	Title  string       `yaml:"title"`
	Family string       `yaml:"family"`
	Shapes []*yamlShape `yaml:"shapes"`
}

type yamlShape struct {
	Name             string   `yaml:"name"`
	Mnemonic         string   `yaml:"mnemonic,omitempty"`
	Mode             string   `yaml:"mode,omitempty"`
	Ref              *string  `yaml:"ref,omitempty"`
	Cand             *string  `yaml:"cand,omitempty"`
	Rounding         string   `yaml:"rounding,omitempty"`
	ImplicitRounding bool     `yaml:"implicit_rounding,omitempty"`
	Maskable         bool     `yaml:"maskable,omitempty"`
	Targets          []Target `yaml:"targets,omitempty"`
}

// LoadCatalog parses a YAML catalog. Jump and branch shapes without explicit
// targets get JumpTargets.
func LoadCatalog(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var yc yamlCatalog
	if err := dec.Decode(&yc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	cat := &Catalog{Arch: yc.Arch}
	for _, yg := range yc.Groups {
		family, err := ParseFamily(yg.Family)
		if err != nil {
			return nil, err
		}
		g := &Group{Title: yg.Title, Family: family}
		for _, ys := range yg.Shapes {
			s, err := ys.shape(family)
			if err != nil {
				return nil, err
			}
			g.Shapes = append(g.Shapes, s)
		}
		cat.Groups = append(cat.Groups, g)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func (ys *yamlShape) shape(family Family) (*Shape, error) {
	s := &Shape{
		Name:             ys.Name,
		Mnemonic:         ys.Mnemonic,
		Family:           family,
		Rounding:         ys.Rounding,
		ImplicitRounding: ys.ImplicitRounding,
		Maskable:         ys.Maskable,
		Targets:          ys.Targets,
	}
	var err error
	if s.Mode, err = ParseMode(ys.Mode); err != nil {
		return nil, withShape(err, ys.Name)
	}
	if ys.Ref != nil {
		if s.Ref, err = ParseLayout(*ys.Ref); err != nil {
			return nil, withShape(err, ys.Name)
		}
	}
	if ys.Cand != nil {
		if s.Cand, err = ParseLayout(*ys.Cand); err != nil {
			return nil, withShape(err, ys.Name)
		}
	}
	if (family == FamilyJump || family == FamilyBranch) && len(s.Targets) == 0 {
		s.Targets = JumpTargets
	}
	return s, nil
}

func withShape(err error, shape string) error {
	if cerr, ok := err.(*ConfigError); ok && cerr.Shape == "" {
		cerr.Shape = shape
	}
	return err
}

// DumpCatalog serializes cat in the format accepted by LoadCatalog.
func DumpCatalog(cat *Catalog) ([]byte, error) {
	yc := &yamlCatalog{Arch: cat.Arch}
	for _, g := range cat.Groups {
		yg := &yamlGroup{Title: g.Title, Family: g.Family.String()}
		for _, s := range g.Shapes {
			ys := &yamlShape{
				Name:             s.Name,
				Mnemonic:         s.Mnemonic,
				Mode:             s.Mode.String(),
				Rounding:         s.Rounding,
				ImplicitRounding: s.ImplicitRounding,
				Maskable:         s.Maskable,
				Targets:          s.Targets,
			}
			if s.Ref != nil {
				ref := s.Ref.String()
				ys.Ref = &ref
			}
			if s.Cand != nil {
				cand := s.Cand.String()
				ys.Cand = &cand
			}
			yg.Shapes = append(yg.Shapes, ys)
		}
		yc.Groups = append(yc.Groups, yg)
	}
	buf := new(bytes.Buffer)
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(yc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
