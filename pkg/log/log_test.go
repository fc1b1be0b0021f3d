// Copyright 2016 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package log

import (
	"bytes"
	golog "log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerbosity(t *testing.T) {
	out, flags := golog.Writer(), golog.Flags()
	defer func() {
		golog.SetOutput(out)
		golog.SetFlags(flags)
	}()
	buf := new(bytes.Buffer)
	golog.SetOutput(buf)
	golog.SetFlags(0)
	defer SetVerbosity(0)

	SetVerbosity(2)
	assert.True(t, V(2))
	assert.False(t, V(3))
	Logf(1, "seed=%v", 42)
	Logf(3, "hidden")
	VerboseWriter(2).Write([]byte("from writer"))
	VerboseWriter(4).Write([]byte("hidden too"))
	assert.Equal(t, "seed=42\nfrom writer\n", buf.String())
}
