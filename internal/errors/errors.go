// Package errors defines the structured failure taxonomy shared by the patch
// engine, the orchestrator, and the transports. No failure crosses a package
// boundary as a panic; everything is an *Error carrying a kind, a
// human-readable reason, and optional advisory suggestion/hint strings that
// steer callers toward the right follow-up tool.
package errors

import (
	"fmt"
	"net/http"
)

// Kind identifies a failure category.
type Kind string

const (
	KindFileNotFound          Kind = "file_not_found"
	KindFileHashMismatch      Kind = "file_hash_mismatch"
	KindRangeHashMismatch     Kind = "content_range_hash_mismatch"
	KindOverlappingPatches    Kind = "overlapping_patches"
	KindInvalidLineRange      Kind = "invalid_line_range"
	KindDirectoryCreateFailed Kind = "directory_create_failed"
	KindWriteFailed           Kind = "write_failed"
	KindPermissionDenied      Kind = "permission_denied"
	KindEncodingError         Kind = "encoding_error"
	KindFileTooLarge          Kind = "file_too_large"
	KindLockFailed            Kind = "operation_lock_failed"
	KindInvalidParams         Kind = "invalid_params"
	KindInternal              Kind = "internal_error"
)

// JSON-RPC error codes (JSON-RPC 2.0 specification).
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Application-specific error codes (JSON-RPC server error range).
const (
	CodeFileSystemError = -32001
	CodeLockFailed      = -32002
	CodeFileTooLarge    = -32003
	CodeHashConflict    = -32004
)

// Suggested follow-up operations attached to error and success results.
const (
	SuggestGet    = "get"
	SuggestPatch  = "patch"
	SuggestInsert = "insert"
	SuggestAppend = "append"
	SuggestDelete = "delete"
)

// Error is the structured failure value used throughout the core.
type Error struct {
	Kind        Kind
	Message     string
	Suggestion  string
	Hint        string
	CurrentHash string                 // actual file hash, set on hash conflicts
	Data        map[string]interface{} // extra context for transports
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// RPCCode maps the error kind to a JSON-RPC error code.
func (e *Error) RPCCode() int {
	switch e.Kind {
	case KindInvalidParams, KindInvalidLineRange, KindOverlappingPatches:
		return CodeInvalidParams
	case KindFileHashMismatch, KindRangeHashMismatch:
		return CodeHashConflict
	case KindLockFailed:
		return CodeLockFailed
	case KindFileTooLarge:
		return CodeFileTooLarge
	case KindFileNotFound, KindPermissionDenied, KindWriteFailed,
		KindDirectoryCreateFailed, KindEncodingError:
		return CodeFileSystemError
	default:
		return CodeInternalError
	}
}

// HTTPStatus maps the error kind to an HTTP status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindFileNotFound:
		return http.StatusNotFound
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindFileHashMismatch, KindRangeHashMismatch, KindLockFailed:
		return http.StatusConflict
	case KindFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindInvalidParams, KindInvalidLineRange, KindOverlappingPatches,
		KindEncodingError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// --- Constructors ---

// NewFileNotFound reports a missing file that was expected to exist.
func NewFileNotFound(path string) *Error {
	return &Error{
		Kind:       KindFileNotFound,
		Message:    fmt.Sprintf("File not found: %s", path),
		Suggestion: SuggestAppend,
		Hint:       "For new files, please use append or create",
		Data:       map[string]interface{}{"file_path": path},
	}
}

// NewFileNotFoundWithHash reports a missing file for which the caller supplied
// a non-empty expected hash.
func NewFileNotFoundWithHash(path string) *Error {
	return &Error{
		Kind:       KindFileNotFound,
		Message:    "File not found and non-empty hash provided",
		Suggestion: SuggestAppend,
		Hint:       "For new files, please consider using append instead",
		Data:       map[string]interface{}{"file_path": path},
	}
}

// NewFileHashMismatch reports a whole-file optimistic-lock failure. The actual
// current hash is carried so the caller can shortcut the re-fetch.
func NewFileHashMismatch(currentHash string) *Error {
	return &Error{
		Kind:        KindFileHashMismatch,
		Message:     "File hash mismatch - Please use the get contents operation to get current content and hashes, then retry with the updated hashes",
		Suggestion:  SuggestPatch,
		Hint:        "Please use the get contents operation to get the current content and hash",
		CurrentHash: currentHash,
	}
}

// NewHashRequired reports an empty expected hash supplied for a non-empty file.
func NewHashRequired(path string) *Error {
	return &Error{
		Kind:    KindFileHashMismatch,
		Message: "File hash validation required: empty hash provided for existing file",
		Data:    map[string]interface{}{"file_path": path},
	}
}

// NewRangeHashMismatch reports a stale per-range hash on a replace-mode patch.
func NewRangeHashMismatch(start, end int, expected, actual string) *Error {
	return &Error{
		Kind:       KindRangeHashMismatch,
		Message:    "Content range hash mismatch - Please use the get contents operation with the same start and end to get current content and hashes, then retry with the updated hashes",
		Suggestion: SuggestGet,
		Hint:       "Please run the get contents operation first to get current content and hashes",
		Data: map[string]interface{}{
			"start":         start,
			"end":           end,
			"expected_hash": expected,
			"actual_hash":   actual,
		},
	}
}

// NewOverlappingPatches reports two patches whose line ranges intersect.
func NewOverlappingPatches(s1, e1, s2, e2 int) *Error {
	return &Error{
		Kind:       KindOverlappingPatches,
		Message:    fmt.Sprintf("Overlapping patches detected: [%d,%d] and [%d,%d]", s1, e1, s2, e2),
		Suggestion: SuggestPatch,
		Hint:       "Please ensure your patches do not overlap",
	}
}

// NewInvalidLineRange reports a malformed start/end pair.
func NewInvalidLineRange(message string) *Error {
	return &Error{Kind: KindInvalidLineRange, Message: message}
}

// NewInvalidParams reports a structurally invalid request.
func NewInvalidParams(message string) *Error {
	return &Error{Kind: KindInvalidParams, Message: message}
}

// NewDirectoryCreateFailed wraps a parent-directory creation failure.
func NewDirectoryCreateFailed(err error) *Error {
	return &Error{
		Kind:       KindDirectoryCreateFailed,
		Message:    fmt.Sprintf("Failed to create directory: %v", err),
		Suggestion: SuggestPatch,
		Hint:       "Please check file permissions and try again",
	}
}

// NewWriteFailed wraps an I/O failure while writing the file.
func NewWriteFailed(err error) *Error {
	return &Error{
		Kind:       KindWriteFailed,
		Message:    fmt.Sprintf("Error writing file: %v", err),
		Suggestion: SuggestPatch,
		Hint:       "Please check file permissions and try again",
	}
}

// NewPermissionDenied reports an access failure on the target path.
func NewPermissionDenied(path string) *Error {
	return &Error{
		Kind:    KindPermissionDenied,
		Message: fmt.Sprintf("Permission denied: %s", path),
		Data:    map[string]interface{}{"file_path": path},
	}
}

// NewFileTooLarge reports a file exceeding the configured size ceiling.
func NewFileTooLarge(path string, size, limit int64) *Error {
	return &Error{
		Kind:    KindFileTooLarge,
		Message: fmt.Sprintf("File too large: %s (%d bytes, limit %d)", path, size, limit),
		Data: map[string]interface{}{
			"file_path": path,
			"size":      size,
			"limit":     limit,
		},
	}
}

// NewEncodingError wraps a decode/encode failure for the requested encoding.
func NewEncodingError(err error) *Error {
	return &Error{Kind: KindEncodingError, Message: err.Error()}
}

// NewLockFailed reports a failure to acquire the advisory file lock.
func NewLockFailed(path string, err error) *Error {
	return &Error{
		Kind:    KindLockFailed,
		Message: fmt.Sprintf("Could not acquire lock for %s: %v", path, err),
	}
}

// NewInternal is the backstop for unexpected failures; it must never let a
// panic cross the orchestrator boundary.
func NewInternal(detail string) *Error {
	return &Error{
		Kind:       KindInternal,
		Message:    fmt.Sprintf("Error: %s", detail),
		Suggestion: SuggestPatch,
		Hint:       "Please try again or report the issue if it persists",
	}
}
