package editor

import "strings"

// ApplyPatches applies an already validated, bottom-to-top sorted patch list
// to lines and returns the new line list. The input slice is not modified.
//
// Patch contents that do not end with a newline gain one before splitting,
// preserving the invariant that every line except a deliberately newline-less
// tail ends with \n. No partial state ever reaches disk: callers write the
// joined result exactly once, after every patch has applied.
func ApplyPatches(lines []string, patches []ValidatedPatch) []string {
	out := make([]string, len(lines))
	copy(out, lines)

	for _, p := range patches {
		contents := p.Contents
		if !strings.HasSuffix(contents, "\n") {
			contents += "\n"
		}
		newLines := SplitLines(contents)

		switch p.Mode {
		case ModeInsert:
			idx := p.Start - 1
			if idx > len(out) {
				idx = len(out)
			}
			out = splice(out, idx, idx, newLines)
		case ModeReplace:
			out = splice(out, p.Start-1, p.EndIdx+1, newLines)
		}
	}
	return out
}

// splice replaces out[from:to] with repl, always returning a fresh slice.
func splice(out []string, from, to int, repl []string) []string {
	result := make([]string, 0, len(out)-(to-from)+len(repl))
	result = append(result, out[:from]...)
	result = append(result, repl...)
	result = append(result, out[to:]...)
	return result
}
