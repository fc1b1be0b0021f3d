// Copyright 2016 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package log provides functionality similar to standard log package with some extensions:
//   - verbosity levels
//   - global verbosity setting that can be used by multiple packages
//
// All output goes to stderr, stdout is reserved for generated artifacts.
package log

import (
	"flag"
	golog "log"
	"sync/atomic"
)

var (
	flagV     = flag.Int("vv", 0, "verbosity")
	verbosity atomic.Int64
)

func level() int {
	if v := verbosity.Load(); v != 0 {
		return int(v)
	}
	return *flagV
}

// SetVerbosity overrides the -vv flag.
func SetVerbosity(v int) {
	verbosity.Store(int64(v))
}

// V says if messages of level v are printed. Use it to avoid building expensive messages.
func V(v int) bool {
	return v <= level()
}

func Logf(v int, msg string, args ...interface{}) {
	if V(v) {
		golog.Printf(msg, args...)
	}
}

func Fatal(err error) {
	golog.Fatal(err)
}

func Fatalf(msg string, args ...interface{}) {
	golog.Fatalf(msg, args...)
}

type VerboseWriter int

func (w VerboseWriter) Write(data []byte) (int, error) {
	Logf(int(w), "%s", data)
	return len(data), nil
}
