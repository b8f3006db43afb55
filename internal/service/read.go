package service

import (
	"text-editor-server/internal/editor"
	"text-editor-server/internal/errors"
	"text-editor-server/internal/hash"
	"text-editor-server/internal/models"
	"text-editor-server/internal/textenc"
)

// ReadRanges returns the content and hashes of the requested line ranges for
// each file. The returned hashes are the optimistic locks for later edits.
func (s *Service) ReadRanges(req models.ReadRangesRequest) (models.ReadRangesResponse, *errors.Error) {
	if len(req.Files) == 0 {
		return nil, errors.NewInvalidParams("Missing required argument: files")
	}
	codec, errEnc := s.codec(req.Encoding)
	if errEnc != nil {
		return nil, errEnc
	}

	resp := make(models.ReadRangesResponse, len(req.Files))
	for _, fr := range req.Files {
		contents, err := s.readFileRanges(fr, codec)
		if err != nil {
			return nil, err
		}
		resp[fr.FilePath] = *contents
	}
	return resp, nil
}

func (s *Service) readFileRanges(fr models.FileRanges, codec *textenc.Codec) (*models.FileContents, *errors.Error) {
	path, errPath := s.resolvePath(fr.FilePath)
	if errPath != nil {
		return nil, errPath
	}

	exists, fsErr := s.fs.FileExists(path)
	if fsErr != nil {
		return nil, s.fsError(fr.FilePath, fsErr)
	}
	if !exists {
		return nil, errors.NewFileNotFound(fr.FilePath)
	}

	content, errRead := s.readDecoded(fr.FilePath, path, codec)
	if errRead != nil {
		return nil, errRead
	}

	lines := editor.SplitLines(content)
	totalLines := len(lines)
	fileHash := hash.Sum(content)

	ranges := fr.Ranges
	if len(ranges) == 0 {
		// No explicit ranges means the whole file.
		ranges = []models.LineRange{{Start: 1}}
	}

	out := make([]models.RangeContent, 0, len(ranges))
	for _, r := range ranges {
		slice, errRange := editor.ReadRange(lines, r.Start, r.End)
		if errRange != nil {
			return nil, errRange
		}
		out = append(out, models.RangeContent{
			Content:     slice.Content,
			Start:       slice.Start,
			End:         slice.End,
			RangeHash:   slice.RangeHash,
			TotalLines:  totalLines,
			ContentSize: codec.EncodedSize(slice.Content),
		})
	}

	return &models.FileContents{FileHash: fileHash, Ranges: out}, nil
}

// readDecoded reads an existing file, enforces the size ceiling, and decodes
// the bytes with the request codec.
func (s *Service) readDecoded(reqPath, path string, codec *textenc.Codec) (string, *errors.Error) {
	stats, err := s.fs.GetFileStats(path)
	if err != nil {
		return "", s.fsError(reqPath, err)
	}
	if stats.IsDir {
		return "", errors.NewInvalidParams("Path is a directory, not a file: " + reqPath)
	}
	if stats.Size > s.maxFileSize {
		return "", errors.NewFileTooLarge(reqPath, stats.Size, s.maxFileSize)
	}

	data, err := s.fs.ReadFileBytes(path)
	if err != nil {
		return "", s.fsError(reqPath, err)
	}
	content, decErr := codec.Decode(data)
	if decErr != nil {
		return "", errors.NewEncodingError(decErr)
	}
	return content, nil
}
