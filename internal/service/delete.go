package service

import (
	"fmt"
	"sort"

	"text-editor-server/internal/editor"
	"text-editor-server/internal/errors"
	"text-editor-server/internal/hash"
	"text-editor-server/internal/models"
)

// DeleteContents removes hash-verified line ranges from a file. Unlike patch,
// delete never relaxes its gates: the file must exist and both the file hash
// and every range hash must match the current content.
func (s *Service) DeleteContents(req models.DeleteContentsRequest) (res *models.EditResult) {
	defer s.recoverToResult("delete_contents", &res)

	if len(req.Ranges) == 0 {
		return errorResult(errors.NewInvalidParams("Missing required argument: ranges"))
	}
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
	if !exists {
		return errorResult(errors.NewFileNotFound(req.FilePath))
	}

	held, lockErr := s.locks.AcquireLock(path, s.lockTimeout)
	if lockErr != nil {
		return errorResult(errors.NewLockFailed(req.FilePath, lockErr))
	}
	defer func() {
		if err := s.locks.ReleaseLock(held); err != nil {
			s.logger.Printf("error releasing lock for %s: %v", req.FilePath, err)
		}
	}()

	content, errRead := s.readDecoded(req.FilePath, path, codec)
	if errRead != nil {
		return errorResult(errRead)
	}
	currentHash := hash.Sum(content)
	if !hash.Equal(currentHash, req.FileHash) {
		return errorResult(errors.NewFileHashMismatch(currentHash))
	}

	lines := editor.SplitLines(content)
	total := len(lines)

	// Normalize and bounds-check, then sort bottom-to-top so earlier removals
	// never shift the line numbers of later ones.
	type span struct {
		start, end int
		rangeHash  string
	}
	spans := make([]span, 0, len(req.Ranges))
	for _, r := range req.Ranges {
		start := r.Start
		end := total
		if r.End != nil {
			end = *r.End
		}
		if start < 1 || start > total {
			return errorResult(errors.NewInvalidLineRange(
				fmt.Sprintf("Start line %d is out of range (1-%d)", start, total)))
		}
		if end < start || end > total {
			return errorResult(errors.NewInvalidLineRange(
				fmt.Sprintf("End line %d is out of range (%d-%d)", end, start, total)))
		}
		spans = append(spans, span{start: start, end: end, rangeHash: r.RangeHash})
	}
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start > spans[j].start
		}
		return spans[i].end > spans[j].end
	})
	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			if spans[i].start <= spans[j].end && spans[i].end >= spans[j].start {
				return errorResult(errors.NewOverlappingPatches(
					spans[i].start, spans[i].end, spans[j].start, spans[j].end))
			}
		}
	}

	for _, sp := range spans {
		target := editor.JoinLines(lines[sp.start-1 : sp.end])
		actual := hash.Sum(target)
		if !hash.Equal(actual, sp.rangeHash) {
			return errorResult(errors.NewRangeHashMismatch(sp.start, sp.end, sp.rangeHash, actual))
		}
	}

	for _, sp := range spans {
		lines = append(lines[:sp.start-1], lines[sp.end:]...)
	}

	newContent := editor.JoinLines(lines)
	encoded, encErr := codec.Encode(newContent)
	if encErr != nil {
		return errorResult(errors.NewEncodingError(encErr))
	}
	if err := s.fs.WriteFileBytesAtomic(path, encoded, 0o644); err != nil {
		return errorResult(errors.NewWriteFailed(err))
	}

	newHash := hash.Sum(newContent)
	return &models.EditResult{Result: models.ResultOK, FileHash: &newHash}
}
