// Package service is the orchestrator: it owns path resolution, locking,
// hash gating, and the read-validate-apply-write cycle, delegating the line
// mechanics to the editor package and byte conversion to textenc.
package service

import (
	stdErrors "errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"text-editor-server/internal/config"
	"text-editor-server/internal/errors"
	"text-editor-server/internal/filesystem"
	"text-editor-server/internal/lock"
	"text-editor-server/internal/models"
	"text-editor-server/internal/textenc"
)

// EditorService defines the operations exposed over every transport.
// Read failures are returned as structured errors for the transport to map;
// mutating operations always return an EditResult, success or not.
type EditorService interface {
	ReadRanges(req models.ReadRangesRequest) (models.ReadRangesResponse, *errors.Error)
	PatchFile(req models.PatchFileRequest) *models.EditResult
	InsertFile(req models.InsertFileRequest) *models.EditResult
	AppendFile(req models.AppendFileRequest) *models.EditResult
	CreateFile(req models.CreateFileRequest) *models.EditResult
	DeleteContents(req models.DeleteContentsRequest) *models.EditResult
}

// Service is the default EditorService backed by the local file system.
type Service struct {
	fs          filesystem.Adapter
	locks       lock.Manager
	baseDir     string // absolute, symlink-resolved
	maxFileSize int64
	maxPatches  int
	lockTimeout time.Duration
	defaultEnc  string
	logger      *log.Logger
}

// New creates a Service from the given adapter, lock manager and config.
func New(fs filesystem.Adapter, locks lock.Manager, cfg *config.Config, logger *log.Logger) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if fs == nil {
		return nil, fmt.Errorf("filesystem adapter is required")
	}
	if locks == nil {
		return nil, fmt.Errorf("lock manager is required")
	}
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	absBase, err := filepath.Abs(cfg.BaseDirectory)
	if err != nil {
		return nil, fmt.Errorf("could not get absolute path for base directory: %w", err)
	}
	info, err := os.Stat(absBase)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("base directory does not exist: %s", absBase)
		}
		return nil, fmt.Errorf("error accessing base directory %s: %w", absBase, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("base directory path is not a directory: %s", absBase)
	}
	// Resolve the base itself so prefix checks compare like with like when
	// the base dir lives behind a symlink (e.g. /tmp on macOS).
	resolvedBase, err := fs.EvalSymlinks(absBase)
	if err != nil {
		return nil, fmt.Errorf("could not resolve base directory: %w", err)
	}

	return &Service{
		fs:          fs,
		locks:       locks,
		baseDir:     resolvedBase,
		maxFileSize: cfg.MaxFileSizeBytes(),
		maxPatches:  cfg.MaxPatchesPerFile,
		lockTimeout: time.Duration(cfg.LockTimeoutSec) * time.Second,
		defaultEnc:  cfg.DefaultEncoding,
		logger:      logger,
	}, nil
}

var _ EditorService = (*Service)(nil)

// resolvePath validates a request path and returns its absolute location
// under the base directory. Only relative paths are accepted; "..", "~" and
// symlinks escaping the base directory are rejected.
func (s *Service) resolvePath(filePath string) (string, *errors.Error) {
	if filePath == "" {
		return "", errors.NewInvalidParams("Missing required argument: file_path")
	}
	if filepath.IsAbs(filePath) {
		return "", errors.NewInvalidParams(
			fmt.Sprintf("File path must be relative to the base directory: %s", filePath))
	}
	if strings.HasPrefix(filePath, "~") {
		return "", errors.NewInvalidParams(
			fmt.Sprintf("User-relative paths are not allowed: %s", filePath))
	}
	for _, part := range strings.Split(filepath.ToSlash(filePath), "/") {
		if part == ".." {
			return "", errors.NewInvalidParams(
				fmt.Sprintf("Path traversal is not allowed: %s", filePath))
		}
	}

	cleaned := filepath.Clean(filepath.Join(s.baseDir, filePath))
	if cleaned != s.baseDir && !strings.HasPrefix(cleaned, s.baseDir+string(filepath.Separator)) {
		return "", errors.NewInvalidParams(
			fmt.Sprintf("Path escapes the base directory: %s", filePath))
	}

	// The target may not exist yet; verify the nearest existing ancestor does
	// not resolve outside the base directory through a symlink.
	ancestor := cleaned
	for {
		exists, err := s.fs.FileExists(ancestor)
		if err != nil {
			return "", s.fsError(filePath, err)
		}
		if exists {
			break
		}
		parent := filepath.Dir(ancestor)
		if parent == ancestor {
			break
		}
		ancestor = parent
	}
	resolved, err := s.fs.EvalSymlinks(ancestor)
	if err != nil {
		return "", s.fsError(filePath, err)
	}
	if resolved != s.baseDir && !strings.HasPrefix(resolved, s.baseDir+string(filepath.Separator)) {
		return "", errors.NewInvalidParams(
			fmt.Sprintf("Path resolves outside the base directory: %s", filePath))
	}

	return cleaned, nil
}

// codec resolves the request encoding, falling back to the configured default.
func (s *Service) codec(name string) (*textenc.Codec, *errors.Error) {
	if name == "" {
		name = s.defaultEnc
	}
	c, err := textenc.Lookup(name)
	if err != nil {
		return nil, errors.NewEncodingError(err)
	}
	return c, nil
}

// fsError maps a low-level file system error to a structured one.
func (s *Service) fsError(filePath string, err error) *errors.Error {
	if stdErrors.Is(err, os.ErrPermission) {
		return errors.NewPermissionDenied(filePath)
	}
	if stdErrors.Is(err, os.ErrNotExist) {
		return errors.NewFileNotFound(filePath)
	}
	return errors.NewInternal(err.Error())
}

// errorResult converts a structured error into the EditResult error shape.
// Hash conflicts carry the actual current hash so callers can retry without
// an extra read.
func errorResult(err *errors.Error) *models.EditResult {
	res := &models.EditResult{
		Result:     models.ResultError,
		Reason:     err.Message,
		Suggestion: err.Suggestion,
		Hint:       err.Hint,
	}
	if err.CurrentHash != "" {
		h := err.CurrentHash
		res.FileHash = &h
	}
	return res
}

// recoverToResult is the panic backstop for mutating operations: nothing is
// allowed to escape as a panic across the service boundary.
func (s *Service) recoverToResult(op string, res **models.EditResult) {
	if r := recover(); r != nil {
		s.logger.Printf("panic in %s: %v", op, r)
		*res = errorResult(errors.NewInternal(fmt.Sprintf("%v", r)))
	}
}
