package models

// LineRange addresses a 1-based, inclusive range of lines. A nil End means
// "through end of file". RangeHash is the optimistic lock for destructive
// operations on the range (delete).
type LineRange struct {
	// Start is the 1-based first line of the range.
	Start int `json:"start"`
	// End is the 1-based last line, inclusive. Nil means end of file.
	End *int `json:"end,omitempty"`
	// RangeHash is the expected hash of the range content (delete ranges).
	RangeHash string `json:"range_hash,omitempty"`
}

// Patch is a single edit to apply to a file. The operation mode is derived:
// an empty RangeHash selects insertion mode, a non-empty one selects
// replacement mode gated on that hash. RangeHash is a pointer so that an
// omitted field can be distinguished from the deliberate empty string.
type Patch struct {
	// Start is the 1-based line the patch anchors to. Defaults to 1.
	Start int `json:"start,omitempty"`
	// End is the 1-based inclusive end of the replaced range. Nil means end
	// of file in replacement mode; ignored in insertion mode.
	End *int `json:"end,omitempty"`
	// Contents is the new content. A trailing newline is added if missing.
	Contents string `json:"contents"`
	// RangeHash must be set explicitly: "" for insertions, the hash of the
	// current range content for replacements.
	RangeHash *string `json:"range_hash"`
}

// FileRanges names a file and the line ranges to read from it.
type FileRanges struct {
	FilePath string      `json:"file_path"`
	Ranges   []LineRange `json:"ranges"`
}

// ReadRangesRequest asks for the content and hashes of ranges across files.
type ReadRangesRequest struct {
	Files    []FileRanges `json:"files"`
	Encoding string       `json:"encoding,omitempty"`
}

// PatchFileRequest applies hash-gated patches to one file.
type PatchFileRequest struct {
	FilePath string  `json:"file_path"`
	FileHash string  `json:"file_hash"`
	Patches  []Patch `json:"patches"`
	Encoding string  `json:"encoding,omitempty"`
}

// InsertFileRequest inserts content relative to a single line. Exactly one of
// After or Before must be set.
type InsertFileRequest struct {
	FilePath string `json:"file_path"`
	FileHash string `json:"file_hash"`
	Contents string `json:"contents"`
	After    *int   `json:"after,omitempty"`
	Before   *int   `json:"before,omitempty"`
	Encoding string `json:"encoding,omitempty"`
}

// AppendFileRequest appends content at end of file.
type AppendFileRequest struct {
	FilePath string `json:"file_path"`
	Contents string `json:"contents"`
	FileHash string `json:"file_hash"`
	Encoding string `json:"encoding,omitempty"`
}

// CreateFileRequest creates a new file; the file must not already exist.
type CreateFileRequest struct {
	FilePath string `json:"file_path"`
	Contents string `json:"contents"`
	Encoding string `json:"encoding,omitempty"`
}

// DeleteContentsRequest removes hash-verified ranges from a file.
type DeleteContentsRequest struct {
	FilePath string      `json:"file_path"`
	FileHash string      `json:"file_hash"`
	Ranges   []LineRange `json:"ranges"`
	Encoding string      `json:"encoding,omitempty"`
}
