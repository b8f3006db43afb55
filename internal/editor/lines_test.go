package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLinesKeepsLineEndings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"empty", "", nil},
		{"single line with newline", "line1\n", []string{"line1\n"}},
		{"single line without newline", "line1", []string{"line1"}},
		{"multiple lines", "line1\nline2\nline3\n", []string{"line1\n", "line2\n", "line3\n"}},
		{"newline-less tail", "line1\nline2", []string{"line1\n", "line2"}},
		{"blank lines", "\n\n", []string{"\n", "\n"}},
		{"crlf kept verbatim", "a\r\nb\r\n", []string{"a\r\n", "b\r\n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.content))
		})
	}
}

func TestJoinLinesRoundTrip(t *testing.T) {
	contents := []string{"", "a\n", "a\nb\nc\n", "a\nb", "\n", "日本語\nテキスト\n"}
	for _, c := range contents {
		assert.Equal(t, c, JoinLines(SplitLines(c)), "round trip for %q", c)
	}
}
