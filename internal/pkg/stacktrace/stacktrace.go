// Package stacktrace condenses raw goroutine stacks into the frames
// that belong to this repository, for compact panic logs.
package stacktrace

import "strings"

// InternalPaths extracts the internal/... source locations from a raw
// stack trace, one "internal/pkg/foo/bar.go:12" style entry per frame.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines))

	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.Contains(line, "/internal/") {
			continue
		}

		idx := strings.Index(line, ".go:")
		if idx == -1 {
			continue
		}

		end := strings.Index(line[idx:], " ")
		if end == -1 {
			end = len(line)
		} else {
			end += idx
		}

		frame := line[:end]
		if cut := strings.Index(frame, "/internal/"); cut != -1 {
			paths = append(paths, frame[cut+1:])
		}
	}

	return paths
}
