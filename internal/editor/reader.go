package editor

import (
	"text-editor-server/internal/errors"
	"text-editor-server/internal/hash"
)

// RangeSlice is the result of reading one line range: the content, the
// effective 1-based inclusive boundaries after clamping, and the content's
// hash to present later as an optimistic lock.
type RangeSlice struct {
	Content   string
	Start     int
	End       int
	RangeHash string
}

// ReadRange extracts the 1-based inclusive range [start,end] from lines.
// A nil end means end of file. Ranges starting beyond the last line are not
// an error: they yield an empty slice whose hash is the empty-content hash,
// so append-style callers can probe file length without failing.
func ReadRange(lines []string, start int, end *int) (RangeSlice, *errors.Error) {
	if end != nil && *end < start {
		return RangeSlice{}, errors.NewInvalidLineRange(
			"End line must be greater than or equal to start line")
	}

	total := len(lines)
	if start < 1 {
		start = 1
	}
	startIdx := start - 1

	if startIdx >= total {
		return RangeSlice{
			Content:   "",
			Start:     startIdx + 1,
			End:       startIdx + 1,
			RangeHash: hash.Sum(""),
		}, nil
	}

	endIdx := total
	if end != nil && *end < total {
		endIdx = *end
	}

	content := JoinLines(lines[startIdx:endIdx])
	return RangeSlice{
		Content:   content,
		Start:     startIdx + 1,
		End:       endIdx,
		RangeHash: hash.Sum(content),
	}, nil
}
