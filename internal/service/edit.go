package service

import (
	"fmt"
	"path/filepath"
	"strings"

	"text-editor-server/internal/editor"
	"text-editor-server/internal/errors"
	"text-editor-server/internal/hash"
	"text-editor-server/internal/models"
	"text-editor-server/internal/textenc"
)

// PatchFile applies hash-gated patches to one file. New files are created
// when the expected hash is empty and every patch is an insertion.
func (s *Service) PatchFile(req models.PatchFileRequest) (res *models.EditResult) {
	defer s.recoverToResult("patch_file", &res)

	if len(req.Patches) == 0 {
		return errorResult(errors.NewInvalidParams("Missing required argument: patches"))
	}
	if len(req.Patches) > s.maxPatches {
		return errorResult(errors.NewInvalidParams(
			fmt.Sprintf("Number of patches exceeds maximum allowed of %d", s.maxPatches)))
	}
	path, errPath := s.resolvePath(req.FilePath)
	if errPath != nil {
		return errorResult(errPath)
	}
	codec, errEnc := s.codec(req.Encoding)
	if errEnc != nil {
		return errorResult(errEnc)
	}
	return s.editLocked(req.FilePath, path, req.FileHash, req.Patches, codec)
}

// InsertFile inserts content after or before a single line. Exactly one of
// After and Before must be set.
func (s *Service) InsertFile(req models.InsertFileRequest) (res *models.EditResult) {
	defer s.recoverToResult("insert_file", &res)

	if (req.After == nil) == (req.Before == nil) {
		return errorResult(errors.NewInvalidParams(
			"Exactly one of after or before must be specified"))
	}
	path, errPath := s.resolvePath(req.FilePath)
	if errPath != nil {
		return errorResult(errPath)
	}
	codec, errEnc := s.codec(req.Encoding)
	if errEnc != nil {
		return errorResult(errEnc)
	}

	total, errCount := s.countLines(req.FilePath, path, codec)
	if errCount != nil {
		return errorResult(errCount)
	}

	var start int
	switch {
	case req.After != nil:
		if *req.After < 0 {
			return errorResult(errors.NewInvalidLineRange(
				fmt.Sprintf("after must not be negative, got %d", *req.After)))
		}
		if *req.After > total {
			return errorResult(errors.NewInvalidLineRange(
				fmt.Sprintf("Line %d is beyond end of file (total lines: %d)", *req.After, total)))
		}
		start = *req.After + 1
	default:
		if *req.Before < 1 {
			return errorResult(errors.NewInvalidLineRange(
				fmt.Sprintf("before must be positive, got %d", *req.Before)))
		}
		if *req.Before > total+1 {
			return errorResult(errors.NewInvalidLineRange(
				fmt.Sprintf("Line %d is beyond end of file (total lines: %d)", *req.Before, total)))
		}
		start = *req.Before
	}

	insertHash := ""
	return s.editLocked(req.FilePath, path, req.FileHash, []models.Patch{
		{Start: start, Contents: req.Contents, RangeHash: &insertHash},
	}, codec)
}

// AppendFile appends content at the end of the file. A missing file with an
// empty expected hash is created.
func (s *Service) AppendFile(req models.AppendFileRequest) (res *models.EditResult) {
	defer s.recoverToResult("append_file", &res)

	path, errPath := s.resolvePath(req.FilePath)
	if errPath != nil {
		return errorResult(errPath)
	}
	codec, errEnc := s.codec(req.Encoding)
	if errEnc != nil {
		return errorResult(errEnc)
	}
	total, errCount := s.countLines(req.FilePath, path, codec)
	if errCount != nil {
		return errorResult(errCount)
	}

	insertHash := ""
	return s.editLocked(req.FilePath, path, req.FileHash, []models.Patch{
		{Start: total + 1, Contents: req.Contents, RangeHash: &insertHash},
	}, codec)
}

// CreateFile creates a new file with the given content. The file must not
// already exist; existing files are modified via patch.
func (s *Service) CreateFile(req models.CreateFileRequest) (res *models.EditResult) {
	defer s.recoverToResult("create_file", &res)

	path, errPath := s.resolvePath(req.FilePath)
	if errPath != nil {
		return errorResult(errPath)
	}
	codec, errEnc := s.codec(req.Encoding)
	if errEnc != nil {
		return errorResult(errEnc)
	}

	exists, fsErr := s.fs.FileExists(path)
	if fsErr != nil {
		return errorResult(s.fsError(req.FilePath, fsErr))
	}
	if exists {
		e := errors.NewInvalidParams(fmt.Sprintf("File already exists: %s", req.FilePath))
		e.Suggestion = errors.SuggestPatch
		e.Hint = "Use patch to modify an existing file"
		return errorResult(e)
	}

	insertHash := ""
	return s.editLocked(req.FilePath, path, "", []models.Patch{
		{Start: 1, Contents: req.Contents, RangeHash: &insertHash},
	}, codec)
}

// countLines returns the current line count of the file, 0 when it does not
// exist yet.
func (s *Service) countLines(reqPath, path string, codec *textenc.Codec) (int, *errors.Error) {
	exists, err := s.fs.FileExists(path)
	if err != nil {
		return 0, s.fsError(reqPath, err)
	}
	if !exists {
		return 0, nil
	}
	content, errRead := s.readDecoded(reqPath, path, codec)
	if errRead != nil {
		return 0, errRead
	}
	return len(editor.SplitLines(content)), nil
}

// editLocked runs the full read-validate-apply-write cycle for one file under
// its advisory lock. All mutating operations funnel through here so the hash
// gates and the single atomic write are enforced in exactly one place.
func (s *Service) editLocked(reqPath, path, expectedHash string, patches []models.Patch, codec *textenc.Codec) *models.EditResult {
	exists, fsErr := s.fs.FileExists(path)
	if fsErr != nil {
		return errorResult(s.fsError(reqPath, fsErr))
	}
	if !exists {
		if expectedHash != "" {
			return errorResult(errors.NewFileNotFoundWithHash(reqPath))
		}
		// Parent directories must exist before the lock file can be created
		// next to the target.
		if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errorResult(errors.NewDirectoryCreateFailed(err))
		}
	}

	held, lockErr := s.locks.AcquireLock(path, s.lockTimeout)
	if lockErr != nil {
		return errorResult(errors.NewLockFailed(reqPath, lockErr))
	}
	defer func() {
		if err := s.locks.ReleaseLock(held); err != nil {
			s.logger.Printf("error releasing lock for %s: %v", reqPath, err)
		}
	}()

	// Re-read under the lock; the pre-lock existence check only decided
	// whether parent directories were needed.
	content := ""
	exists, fsErr = s.fs.FileExists(path)
	if fsErr != nil {
		return errorResult(s.fsError(reqPath, fsErr))
	}
	if exists {
		var errRead *errors.Error
		content, errRead = s.readDecoded(reqPath, path, codec)
		if errRead != nil {
			return errorResult(errRead)
		}
	}

	// An existing but empty file is treated like a new one: there is nothing
	// to conflict with, so the hash gate is bypassed.
	fileIsNew := !exists || content == ""
	currentHash := hash.Sum(content)
	if !fileIsNew {
		if expectedHash == "" {
			return errorResult(errors.NewHashRequired(reqPath))
		}
		if !hash.Equal(currentHash, expectedHash) {
			return errorResult(errors.NewFileHashMismatch(currentHash))
		}
	}

	lines := editor.SplitLines(content)
	originalTotal := len(lines)

	validated, errVal := editor.ValidatePatches(patches, lines, fileIsNew)
	if errVal != nil {
		return errorResult(errVal)
	}

	// Blank content is a deletion in disguise; refuse to guess and leave the
	// file untouched.
	for _, vp := range validated {
		if strings.TrimSpace(vp.Contents) == "" {
			h := currentHash
			return &models.EditResult{
				Result:     models.ResultOK,
				FileHash:   &h,
				Suggestion: errors.SuggestDelete,
				Hint:       "For content deletion, use the delete operation instead of empty content",
			}
		}
	}

	newLines := editor.ApplyPatches(lines, validated)
	newContent := editor.JoinLines(newLines)

	encoded, encErr := codec.Encode(newContent)
	if encErr != nil {
		return errorResult(errors.NewEncodingError(encErr))
	}
	if int64(len(encoded)) > s.maxFileSize {
		return errorResult(errors.NewFileTooLarge(reqPath, int64(len(encoded)), s.maxFileSize))
	}

	if err := s.fs.WriteFileBytesAtomic(path, encoded, 0o644); err != nil {
		return errorResult(errors.NewWriteFailed(err))
	}

	newHash := hash.Sum(newContent)
	suggestion, hint := adviseAfterEdit(fileIsNew, originalTotal, validated)
	return &models.EditResult{
		Result:     models.ResultOK,
		FileHash:   &newHash,
		Suggestion: suggestion,
		Hint:       hint,
	}
}

// adviseAfterEdit picks the follow-up suggestion for a successful edit: keep
// appending to a fresh or tail-extended file, keep inserting when everything
// was an in-place insertion, otherwise patch.
func adviseAfterEdit(fileWasNew bool, originalTotal int, patches []editor.ValidatedPatch) (string, string) {
	allInserts := true
	allBeyondEOF := true
	for _, vp := range patches {
		if vp.Mode != editor.ModeInsert {
			allInserts = false
		}
		if vp.Start <= originalTotal {
			allBeyondEOF = false
		}
	}

	switch {
	case fileWasNew || (allInserts && allBeyondEOF):
		return errors.SuggestAppend, "For adding more content, use the append operation"
	case allInserts:
		return errors.SuggestInsert, "For inserting more content, use the insert operation"
	default:
		return errors.SuggestPatch, ""
	}
}
