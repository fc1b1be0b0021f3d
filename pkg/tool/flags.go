// Copyright 2020 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package tool

import (
	"flag"
	"fmt"
	"strings"
)

// ParseFlags parses args into set. Generators take all of their input from flags,
// so any positional argument is most likely a typo (e.g. "-seed 1" for a bool flag).
func ParseFlags(set *flag.FlagSet, args []string) error {
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() != 0 {
		return fmt.Errorf("unexpected arguments %q", set.Args())
	}
	return nil
}

// CfgsFlag collects a list of files given either as a comma-separated list
// or by repeating the flag. Empty entries are skipped.
type CfgsFlag []string

func (cfgs *CfgsFlag) String() string {
	return strings.Join(*cfgs, ",")
}

func (cfgs *CfgsFlag) Set(value string) error {
	for _, cfg := range strings.Split(value, ",") {
		cfg = strings.TrimSpace(cfg)
		if cfg == "" {
			continue
		}
		for _, have := range *cfgs {
			if have == cfg {
				return fmt.Errorf("%v is specified twice", cfg)
			}
		}
		*cfgs = append(*cfgs, cfg)
	}
	return nil
}
