package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSumIsDeterministic(t *testing.T) {
	inputs := []string{"", "line1\nline2\n", "日本語テキスト\n", "no trailing newline"}
	for _, in := range inputs {
		assert.Equal(t, Sum(in), Sum(in), "hash must be stable for %q", in)
		assert.Len(t, Sum(in), 64)
	}
}

func TestSumEmptyIsFixedConstant(t *testing.T) {
	assert.Equal(t, EmptyContentHash, Sum(""))
}

func TestSumKnownVector(t *testing.T) {
	// sha256("abc") from FIPS 180-2.
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		Sum("abc"))
}

func TestEqual(t *testing.T) {
	h := Sum("line1\n")
	assert.True(t, Equal(h, Sum("line1\n")))
	assert.False(t, Equal(h, Sum("line2\n")))
	assert.False(t, Equal(h, ""))
	assert.True(t, Equal("", ""))
}
