package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text-editor-server/internal/errors"
	"text-editor-server/internal/hash"
	"text-editor-server/internal/models"
)

func strPtr(s string) *string { return &s }

func replacePatch(start, end int, contents string, lines []string) models.Patch {
	target := JoinLines(lines[start-1 : end])
	return models.Patch{
		Start:     start,
		End:       intPtr(end),
		Contents:  contents,
		RangeHash: strPtr(hash.Sum(target)),
	}
}

func TestValidateMissingRangeHash(t *testing.T) {
	lines := SplitLines("a\n")
	_, err := ValidatePatches([]models.Patch{{Start: 1, Contents: "x\n"}}, lines, false)
	require.NotNil(t, err)
	assert.Equal(t, errors.KindInvalidParams, err.Kind)
}

func TestValidateNonPositiveStart(t *testing.T) {
	lines := SplitLines("a\n")
	_, err := ValidatePatches([]models.Patch{
		{Start: -2, Contents: "x\n", RangeHash: strPtr("")},
	}, lines, false)
	require.NotNil(t, err)
	assert.Equal(t, errors.KindInvalidLineRange, err.Kind)
}

func TestValidateEndBeforeStart(t *testing.T) {
	lines := SplitLines("a\nb\nc\n")
	_, err := ValidatePatches([]models.Patch{
		{Start: 3, End: intPtr(1), Contents: "x\n", RangeHash: strPtr("")},
	}, lines, false)
	require.NotNil(t, err)
	assert.Equal(t, errors.KindInvalidLineRange, err.Kind)
}

func TestValidateModeTagging(t *testing.T) {
	lines := SplitLines("a\nb\nc\n")

	t.Run("empty range hash means insertion", func(t *testing.T) {
		vps, err := ValidatePatches([]models.Patch{
			{Start: 2, Contents: "x\n", RangeHash: strPtr("")},
		}, lines, false)
		require.Nil(t, err)
		require.Len(t, vps, 1)
		assert.Equal(t, ModeInsert, vps[0].Mode)
	})

	t.Run("start beyond EOF means insertion", func(t *testing.T) {
		vps, err := ValidatePatches([]models.Patch{
			{Start: 4, Contents: "x\n", RangeHash: strPtr("ignored-beyond-eof")},
		}, lines, false)
		require.Nil(t, err)
		assert.Equal(t, ModeInsert, vps[0].Mode)
	})

	t.Run("new file means insertion", func(t *testing.T) {
		vps, err := ValidatePatches([]models.Patch{
			{Start: 1, Contents: "x\n", RangeHash: strPtr("anything")},
		}, nil, true)
		require.Nil(t, err)
		assert.Equal(t, ModeInsert, vps[0].Mode)
	})

	t.Run("matching range hash means replacement", func(t *testing.T) {
		vps, err := ValidatePatches([]models.Patch{replacePatch(2, 2, "x\n", lines)}, lines, false)
		require.Nil(t, err)
		assert.Equal(t, ModeReplace, vps[0].Mode)
		assert.Equal(t, 1, vps[0].EndIdx)
	})
}

func TestValidateRangeHashMismatch(t *testing.T) {
	lines := SplitLines("line1\nline2\nline3\n")

	_, err := ValidatePatches([]models.Patch{
		{Start: 2, End: intPtr(2), Contents: "NEW\n", RangeHash: strPtr("deadbeef")},
	}, lines, false)
	require.NotNil(t, err)
	assert.Equal(t, errors.KindRangeHashMismatch, err.Kind)
	assert.Equal(t, "deadbeef", err.Data["expected_hash"])
	assert.Equal(t, hash.Sum("line2\n"), err.Data["actual_hash"])
	assert.Equal(t, errors.SuggestGet, err.Suggestion)
}

func TestValidateSortsBottomToTop(t *testing.T) {
	lines := SplitLines("a\nb\nc\nd\ne\n")

	vps, err := ValidatePatches([]models.Patch{
		replacePatch(1, 1, "x\n", lines),
		replacePatch(4, 5, "y\n", lines),
		replacePatch(2, 3, "z\n", lines),
	}, lines, false)
	require.Nil(t, err)
	require.Len(t, vps, 3)
	assert.Equal(t, 4, vps[0].Start)
	assert.Equal(t, 2, vps[1].Start)
	assert.Equal(t, 1, vps[2].Start)
}

func TestValidateOverlapRejectedRegardlessOfOrder(t *testing.T) {
	lines := SplitLines("a\nb\nc\nd\ne\n")
	p1 := replacePatch(1, 3, "x\n", lines)
	p2 := replacePatch(3, 5, "y\n", lines)

	for _, patches := range [][]models.Patch{{p1, p2}, {p2, p1}} {
		_, err := ValidatePatches(patches, lines, false)
		require.NotNil(t, err)
		assert.Equal(t, errors.KindOverlappingPatches, err.Kind)
	}
}

func TestValidateTouchingRangesDoNotOverlap(t *testing.T) {
	lines := SplitLines("a\nb\nc\nd\n")

	_, err := ValidatePatches([]models.Patch{
		replacePatch(1, 2, "x\n", lines),
		replacePatch(3, 4, "y\n", lines),
	}, lines, false)
	assert.Nil(t, err)
}

func TestValidateInsertionsAtSameLineOverlap(t *testing.T) {
	lines := SplitLines("a\nb\n")

	_, err := ValidatePatches([]models.Patch{
		{Start: 2, Contents: "x\n", RangeHash: strPtr("")},
		{Start: 2, Contents: "y\n", RangeHash: strPtr("")},
	}, lines, false)
	require.NotNil(t, err)
	assert.Equal(t, errors.KindOverlappingPatches, err.Kind)
}

func TestValidateDefaultsStartToOne(t *testing.T) {
	vps, err := ValidatePatches([]models.Patch{
		{Contents: "x\n", RangeHash: strPtr("")},
	}, nil, true)
	require.Nil(t, err)
	assert.Equal(t, 1, vps[0].Start)
}

func TestValidateNilEndClampsToEOF(t *testing.T) {
	lines := SplitLines("a\nb\nc\n")
	full := JoinLines(lines)

	vps, err := ValidatePatches([]models.Patch{
		{Start: 1, Contents: "x\n", RangeHash: strPtr(hash.Sum(full))},
	}, lines, false)
	require.Nil(t, err)
	assert.Equal(t, ModeReplace, vps[0].Mode)
	assert.Equal(t, 2, vps[0].EndIdx)
	assert.Equal(t, 3, vps[0].End)
}
