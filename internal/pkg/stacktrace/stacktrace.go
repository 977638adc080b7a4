// Package stacktrace shortens runtime stacks to the frames of this module.
package stacktrace

import (
	"bufio"
	"bytes"
	"strings"
)

// InternalPaths returns "internal/...go:line" entries from a debug.Stack() dump.
func InternalPaths(stack []byte) []string {
	var paths []string

	sc := bufio.NewScanner(bytes.NewReader(stack))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		_, rest, ok := strings.Cut(line, "/internal/")
		if !ok || !strings.Contains(rest, ".go:") {
			continue
		}
		// frame lines end with " +0x1f"
		rest, _, _ = strings.Cut(rest, " ")
		paths = append(paths, "internal/"+rest)
	}

	return paths
}
