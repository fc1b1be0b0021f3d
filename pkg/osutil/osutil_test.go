// Copyright 2017 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build !windows

package osutil

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCmd(t *testing.T) {
	dir := t.TempDir()
	out, err := RunCmd(0, dir, "sh", "-c", "echo out; echo err >&2; pwd")
	require.NoError(t, err)
	assert.Contains(t, string(out), "out\n")
	assert.Contains(t, string(out), "err\n")
	assert.Contains(t, string(out), filepath.Base(dir))
}

func TestRunCmdTee(t *testing.T) {
	tee := new(bytes.Buffer)
	out, err := RunCmdTee(time.Minute, "", tee, "sh", "-c", "echo out; echo err >&2; exit 1")
	require.Error(t, err)
	assert.Equal(t, "out\nerr\n", string(out))
	assert.Equal(t, string(out), tee.String())
	var verr *VerboseError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "out\nerr\n", string(verr.Output))
}

func TestRunFailure(t *testing.T) {
	out, err := RunCmd(time.Minute, "", "sh", "-c", "echo bad operand; exit 3")
	require.Error(t, err)
	assert.Equal(t, "bad operand\n", string(out))
	var verr *VerboseError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 3, verr.ExitCode)
	assert.Equal(t, "bad operand\n", string(verr.Output))
	assert.Contains(t, err.Error(), "failed to run")

	err = PrependContext("assemble", err)
	assert.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Title, "assemble: failed to run")
}

func TestRunTimeout(t *testing.T) {
	start := time.Now()
	_, err := RunCmd(100*time.Millisecond, "", "sleep", "30")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 20*time.Second)
	assert.Contains(t, err.Error(), "timedout")
}

func TestRunMissingBinary(t *testing.T) {
	_, err := RunCmd(0, "", filepath.Join(t.TempDir(), "no-such-tool"))
	require.Error(t, err)
	var verr *VerboseError
	assert.False(t, errors.As(err, &verr))
	err = PrependContext("objdump", err)
	assert.Contains(t, err.Error(), "objdump: failed to start")
}

func TestWriteExecFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tool")
	require.NoError(t, WriteExecFile(file, []byte("#!/bin/sh\necho ok\n")))
	out, err := RunCmd(0, "", file)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", string(out))
}
