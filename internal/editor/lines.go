// Package editor implements the hash-addressed line-patch engine: range
// reading, patch validation, and patch application over an in-memory line
// list. The package is pure compute; file I/O, locking, and encoding belong
// to the service layer.
package editor

import "strings"

// SplitLines splits content into lines, keeping end-of-line characters so
// that joining the result reproduces the input byte for byte. The final
// element has no trailing newline when the content itself has none. Empty
// content yields an empty list.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			lines = append(lines, content[start:i+1])
			start = i + 1
		}
	}
	if start < len(content) {
		lines = append(lines, content[start:])
	}
	return lines
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []string) string {
	return strings.Join(lines, "")
}
