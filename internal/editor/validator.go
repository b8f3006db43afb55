package editor

import (
	"fmt"
	"sort"

	"text-editor-server/internal/errors"
	"text-editor-server/internal/hash"
	"text-editor-server/internal/models"
)

// Mode is the derived operation mode of a patch.
type Mode int

const (
	// ModeReplace removes a hash-verified range and substitutes new content.
	ModeReplace Mode = iota
	// ModeInsert adds lines at the anchor without removing anything.
	ModeInsert
)

// ValidatedPatch is a structurally checked, hash-verified, mode-tagged patch.
// The list produced by ValidatePatches is sorted bottom-to-top so that
// application never invalidates the line numbers of patches still pending.
type ValidatedPatch struct {
	// Start is the 1-based anchor line.
	Start int
	// End is the effective 1-based inclusive end: the clamped range end in
	// replacement mode, Start itself in insertion mode.
	End int
	// EndIdx is the 0-based inclusive end index (replacement mode only).
	EndIdx int
	Mode   Mode
	// Contents is the raw new content; the applier normalizes the trailing
	// newline.
	Contents string

	expectedHash string
}

// ValidatePatches checks a patch set against the current line list and
// returns it sorted bottom-to-top and mode-tagged, or a structured error.
//
// The canonical insertion signal is an empty range hash; a start beyond the
// current end of file is treated the same way, as is every patch against a
// new or empty file. Everything else is replacement mode and must present
// the current hash of its target range.
func ValidatePatches(patches []models.Patch, lines []string, fileIsNew bool) ([]ValidatedPatch, *errors.Error) {
	total := len(lines)

	validated := make([]ValidatedPatch, 0, len(patches))
	for _, p := range patches {
		if p.RangeHash == nil {
			return nil, errors.NewInvalidParams("range_hash is required: use \"\" for insertions")
		}
		start := p.Start
		if start == 0 {
			start = 1
		}
		if start < 1 {
			return nil, errors.NewInvalidLineRange(
				fmt.Sprintf("Line numbers must be positive, got start=%d", p.Start))
		}
		if p.End != nil && *p.End < start {
			return nil, errors.NewInvalidLineRange(
				"End line must be greater than or equal to start line")
		}

		vp := ValidatedPatch{Start: start, Contents: p.Contents, expectedHash: *p.RangeHash}
		switch {
		case fileIsNew, start-1 >= total, *p.RangeHash == "":
			vp.Mode = ModeInsert
			vp.End = start
		default:
			vp.Mode = ModeReplace
			vp.EndIdx = total - 1
			if p.End != nil && *p.End-1 < vp.EndIdx {
				vp.EndIdx = *p.End - 1
			}
			vp.End = vp.EndIdx + 1
		}
		validated = append(validated, vp)
	}

	// Bottom-to-top: larger start first, then larger end. This ordering is
	// load-bearing; see ApplyPatches.
	sort.SliceStable(validated, func(i, j int) bool {
		if validated[i].Start != validated[j].Start {
			return validated[i].Start > validated[j].Start
		}
		return validated[i].End > validated[j].End
	})

	// Pairwise interval intersection, inclusive on both ends. Patch counts
	// are small, so the quadratic check is fine.
	for i := 0; i < len(validated); i++ {
		for j := i + 1; j < len(validated); j++ {
			s1, e1 := validated[i].Start, validated[i].End
			s2, e2 := validated[j].Start, validated[j].End
			if s1 <= e2 && e1 >= s2 {
				return nil, errors.NewOverlappingPatches(s1, e1, s2, e2)
			}
		}
	}

	// Per-range hash gate for replacement patches.
	for _, vp := range validated {
		if vp.Mode != ModeReplace {
			continue
		}
		target := JoinLines(lines[vp.Start-1 : vp.EndIdx+1])
		actual := hash.Sum(target)
		if !hash.Equal(actual, vp.expectedHash) {
			return nil, errors.NewRangeHashMismatch(vp.Start, vp.End, vp.expectedHash, actual)
		}
	}

	return validated, nil
}
