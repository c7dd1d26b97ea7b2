package stacktrace

import (
	"bufio"
	"bytes"
	"strings"
)

// InternalPaths extracts the "internal/...go:line" frames from a debug.Stack
// dump, dropping runtime, vendor and standard-library frames.
func InternalPaths(stack []byte) []string {
	var paths []string

	sc := bufio.NewScanner(bytes.NewReader(stack))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())

		at := strings.Index(line, "/internal/")
		if at < 0 || !strings.Contains(line, ".go:") {
			continue
		}

		frame := line[at+1:]
		if sp := strings.IndexByte(frame, ' '); sp >= 0 {
			frame = frame[:sp]
		}
		paths = append(paths, frame)
	}

	return paths
}
