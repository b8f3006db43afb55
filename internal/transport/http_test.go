package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text-editor-server/internal/hash"
)

func newHTTPServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	svc, dir := newTestService(t)
	h := NewHTTPHandler(svc, log.New(io.Discard, "", 0))
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv, dir
}

func postJSON(t *testing.T, url string, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestHTTPHealth(t *testing.T) {
	srv, _ := newHTTPServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPReadRanges(t *testing.T) {
	srv, dir := newHTTPServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a\nb\n"), 0o644))

	resp, body := postJSON(t, srv.URL+"/read_ranges",
		`{"files":[{"file_path":"a.txt"}]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	fc := body["a.txt"].(map[string]interface{})
	assert.Equal(t, hash.Sum("a\nb\n"), fc["file_hash"])
}

func TestHTTPReadRangesMissingFileIs404(t *testing.T) {
	srv, _ := newHTTPServer(t)

	resp, body := postJSON(t, srv.URL+"/read_ranges",
		`{"files":[{"file_path":"missing.txt"}]}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "file_not_found", errObj["kind"])
}

func TestHTTPCreateFile(t *testing.T) {
	srv, dir := newHTTPServer(t)

	resp, body := postJSON(t, srv.URL+"/create_file",
		`{"file_path":"made.txt","contents":"hello\n"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["result"])

	content, err := os.ReadFile(filepath.Join(dir, "made.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(content))
}

func TestHTTPPatchStaleHashIs200WithErrorResult(t *testing.T) {
	srv, dir := newHTTPServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x\n"), 0o644))

	resp, body := postJSON(t, srv.URL+"/patch_file",
		`{"file_path":"a.txt","file_hash":"stale","patches":[{"start":1,"end":1,"contents":"y\n","range_hash":""}]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "error", body["result"])
	assert.Equal(t, hash.Sum("x\n"), body["file_hash"])
}

func TestHTTPDeleteContents(t *testing.T) {
	srv, dir := newHTTPServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a\nb\nc\n"), 0o644))

	reqBody, err := json.Marshal(map[string]interface{}{
		"file_path": "a.txt",
		"file_hash": hash.Sum("a\nb\nc\n"),
		"ranges": []map[string]interface{}{
			{"start": 2, "end": 2, "range_hash": hash.Sum("b\n")},
		},
	})
	require.NoError(t, err)

	resp, body := postJSON(t, srv.URL+"/delete_contents", string(reqBody))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["result"])

	content, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "a\nc\n", string(content))
}

func TestHTTPRejectsWrongContentType(t *testing.T) {
	srv, _ := newHTTPServer(t)

	resp, err := http.Post(srv.URL+"/read_ranges", "text/plain", bytes.NewBufferString("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestHTTPMethodNotAllowed(t *testing.T) {
	srv, _ := newHTTPServer(t)

	resp, err := http.Get(srv.URL + "/patch_file")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
