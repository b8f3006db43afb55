package models

// Result values for EditResult.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// EditResult is the uniform outcome of every mutating operation. FileHash is
// populated on success (the new whole-file hash) and on hash-conflict errors
// (the actual current hash, so callers can shortcut the re-fetch).
type EditResult struct {
	Result     string  `json:"result"`
	FileHash   *string `json:"file_hash"`
	Reason     string  `json:"reason,omitempty"`
	Suggestion string  `json:"suggestion,omitempty"`
	Hint       string  `json:"hint,omitempty"`
}

// OK reports whether the result is a success.
func (r *EditResult) OK() bool { return r.Result == ResultOK }

// RangeContent is one read range: its content, effective boundaries, and the
// range hash to present later as an optimistic lock.
type RangeContent struct {
	Content string `json:"content"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	// RangeHash is the hash of Content at read time.
	RangeHash  string `json:"range_hash"`
	TotalLines int    `json:"total_lines"`
	// ContentSize is the size of Content in encoded bytes of the request
	// encoding, not the rune count.
	ContentSize int `json:"content_size"`
}

// FileContents is the read result for one file.
type FileContents struct {
	FileHash string         `json:"file_hash"`
	Ranges   []RangeContent `json:"ranges"`
}

// ReadRangesResponse maps file path to its read result.
type ReadRangesResponse map[string]FileContents
