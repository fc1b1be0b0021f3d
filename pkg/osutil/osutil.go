// Copyright 2017 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package osutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

const (
	DefaultDirPerm  = 0755
	DefaultFilePerm = 0644
	DefaultExecPerm = 0755
)

// RunCmd runs "bin args..." in dir with timeout and returns its output.
func RunCmd(timeout time.Duration, dir, bin string, args ...string) ([]byte, error) {
	return RunCmdTee(timeout, dir, nil, bin, args...)
}

// RunCmdTee is RunCmd that also copies the combined output to tee (if not nil) as it is produced.
func RunCmdTee(timeout time.Duration, dir string, tee io.Writer, bin string, args ...string) ([]byte, error) {
	cmd := Command(bin, args...)
	cmd.Dir = dir
	output := new(bytes.Buffer)
	var w io.Writer = output
	if tee != nil {
		w = io.MultiWriter(output, tee)
	}
	// The same writer for both streams, so exec never writes to it concurrently.
	cmd.Stdout = w
	cmd.Stderr = w
	return run(timeout, cmd, output)
}

// Run runs cmd with the specified timeout, timeout <= 0 means wait forever.
// Returns combined output. If the command fails, err is *VerboseError that includes output.
func Run(timeout time.Duration, cmd *exec.Cmd) ([]byte, error) {
	output := new(bytes.Buffer)
	if cmd.Stdout == nil {
		cmd.Stdout = output
	}
	if cmd.Stderr == nil {
		cmd.Stderr = output
	}
	return run(timeout, cmd, output)
}

func run(timeout time.Duration, cmd *exec.Cmd, output *bytes.Buffer) ([]byte, error) {
	setPdeathsig(cmd, true)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %v %+v: %w", cmd.Path, cmd.Args, err)
	}
	done := make(chan bool)
	timedout := make(chan bool, 1)
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		go func() {
			select {
			case <-timer.C:
				timedout <- true
				killPgroup(cmd)
				cmd.Process.Kill()
			case <-done:
				timedout <- false
				timer.Stop()
			}
		}()
	} else {
		timedout <- false
	}
	err := cmd.Wait()
	close(done)
	if err != nil {
		text := fmt.Sprintf("failed to run %q: %v", cmd.Args, err)
		if <-timedout {
			text = fmt.Sprintf("timedout after %v %q", timeout, cmd.Args)
		}
		exitCode := 0
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return output.Bytes(), &VerboseError{
			Title:    text,
			Output:   output.Bytes(),
			ExitCode: exitCode,
		}
	}
	return output.Bytes(), nil
}

// Command is similar to os/exec.Command, but also sets PDEATHSIG and process group on linux.
func Command(bin string, args ...string) *exec.Cmd {
	cmd := exec.Command(bin, args...)
	setPdeathsig(cmd, true)
	return cmd
}

type VerboseError struct {
	Title    string
	Output   []byte
	ExitCode int
}

func (err *VerboseError) Error() string {
	if len(err.Output) == 0 {
		return err.Title
	}
	return fmt.Sprintf("%v\n%s", err.Title, err.Output)
}

func PrependContext(ctx string, err error) error {
	var verboseErr *VerboseError
	if errors.As(err, &verboseErr) {
		verboseErr.Title = fmt.Sprintf("%v: %v", ctx, verboseErr.Title)
		return err
	}
	return fmt.Errorf("%v: %w", ctx, err)
}

func MkdirAll(dir string) error {
	return os.MkdirAll(dir, DefaultDirPerm)
}

func WriteFile(filename string, data []byte) error {
	return os.WriteFile(filename, data, DefaultFilePerm)
}

func WriteExecFile(filename string, data []byte) error {
	os.Remove(filename)
	return os.WriteFile(filename, data, DefaultExecPerm)
}
