package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRPCCodeMapping(t *testing.T) {
	tests := []struct {
		err  *Error
		code int
	}{
		{NewInvalidParams("x"), CodeInvalidParams},
		{NewInvalidLineRange("x"), CodeInvalidParams},
		{NewOverlappingPatches(1, 2, 2, 3), CodeInvalidParams},
		{NewFileHashMismatch("h"), CodeHashConflict},
		{NewRangeHashMismatch(1, 2, "a", "b"), CodeHashConflict},
		{NewLockFailed("f", nil), CodeLockFailed},
		{NewFileTooLarge("f", 100, 10), CodeFileTooLarge},
		{NewFileNotFound("f"), CodeFileSystemError},
		{NewWriteFailed(nil), CodeFileSystemError},
		{NewInternal("boom"), CodeInternalError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.RPCCode(), "kind %s", tt.err.Kind)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NewFileNotFound("f").HTTPStatus())
	assert.Equal(t, http.StatusConflict, NewFileHashMismatch("h").HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, NewInvalidParams("x").HTTPStatus())
	assert.Equal(t, http.StatusForbidden, NewPermissionDenied("f").HTTPStatus())
	assert.Equal(t, http.StatusRequestEntityTooLarge, NewFileTooLarge("f", 2, 1).HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, NewInternal("x").HTTPStatus())
}

func TestHashConflictCarriesCurrentHash(t *testing.T) {
	err := NewFileHashMismatch("abc123")
	assert.Equal(t, "abc123", err.CurrentHash)
	assert.Equal(t, SuggestPatch, err.Suggestion)
}

func TestRangeMismatchData(t *testing.T) {
	err := NewRangeHashMismatch(2, 5, "want", "got")
	assert.Equal(t, 2, err.Data["start"])
	assert.Equal(t, 5, err.Data["end"])
	assert.Equal(t, "want", err.Data["expected_hash"])
	assert.Equal(t, "got", err.Data["actual_hash"])
}
