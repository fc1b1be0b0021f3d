// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package golden

import (
	"strings"

	dmp "github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns removed ("-") and added ("+") lines between two artifacts, or "" if they match.
func Diff(want, got string) string {
	differ := dmp.New()
	chars1, chars2, lines := differ.DiffLinesToChars(want, got)
	diffs := differ.DiffCharsToLines(differ.DiffMain(chars1, chars2, false), lines)
	buf := new(strings.Builder)
	for _, diff := range diffs {
		prefix := ""
		switch diff.Type {
		case dmp.DiffDelete:
			prefix = "-"
		case dmp.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(diff.Text, "\n") {
			if line == "" {
				continue
			}
			buf.WriteString(prefix + line)
			if !strings.HasSuffix(line, "\n") {
				buf.WriteString("\n")
			}
		}
	}
	return buf.String()
}
