package transport

import (
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"text-editor-server/internal/errors"
	"text-editor-server/internal/models"
	"text-editor-server/internal/service"
)

const (
	defaultReadTimeout  = 60 * time.Second
	defaultWriteTimeout = 60 * time.Second
	maxRequestSizeMB    = 50
)

// errorResponse is the envelope for HTTP error bodies on read endpoints.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Kind       string                 `json:"kind"`
	Message    string                 `json:"message"`
	Suggestion string                 `json:"suggestion,omitempty"`
	Hint       string                 `json:"hint,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// HTTPHandler serves the editing operations over HTTP.
type HTTPHandler struct {
	service    service.EditorService
	logger     *log.Logger
	maxReqSize int64
	Server     *http.Server
}

// NewHTTPHandler creates a new HTTPHandler.
func NewHTTPHandler(svc service.EditorService, logger *log.Logger) *HTTPHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &HTTPHandler{
		service:    svc,
		logger:     logger,
		maxReqSize: int64(maxRequestSizeMB) * 1024 * 1024,
		Server:     &http.Server{},
	}
}

// Router builds the HTTP route table.
func (h *HTTPHandler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/read_ranges", h.handleReadRanges).Methods(http.MethodPost)
	r.HandleFunc("/patch_file", editHandler(h, h.service.PatchFile)).Methods(http.MethodPost)
	r.HandleFunc("/insert_file", editHandler(h, h.service.InsertFile)).Methods(http.MethodPost)
	r.HandleFunc("/append_file", editHandler(h, h.service.AppendFile)).Methods(http.MethodPost)
	r.HandleFunc("/create_file", editHandler(h, h.service.CreateFile)).Methods(http.MethodPost)
	r.HandleFunc("/delete_contents", editHandler(h, h.service.DeleteContents)).Methods(http.MethodPost)
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	return r
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("error encoding JSON response: %v", err)
	}
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err *errors.Error) {
	h.writeJSON(w, err.HTTPStatus(), errorResponse{Error: errorBody{
		Kind:       string(err.Kind),
		Message:    err.Message,
		Suggestion: err.Suggestion,
		Hint:       err.Hint,
		Data:       err.Data,
	}})
}

// decodeBody parses a JSON request body into dst, enforcing content type and
// the request size ceiling.
func (h *HTTPHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		h.writeJSON(w, http.StatusUnsupportedMediaType, errorResponse{Error: errorBody{
			Kind:    string(errors.KindInvalidParams),
			Message: "Invalid Content-Type header. Must be 'application/json'.",
		}})
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxReqSize)
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		status := http.StatusBadRequest
		msg := fmt.Sprintf("Failed to decode request body: %v", err)
		if stdErrors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
			msg = fmt.Sprintf("Request body exceeds maximum size of %dMB.", maxRequestSizeMB)
		}
		h.writeJSON(w, status, errorResponse{Error: errorBody{
			Kind:    string(errors.KindInvalidParams),
			Message: msg,
		}})
		return false
	}
	return true
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) handleReadRanges(w http.ResponseWriter, r *http.Request) {
	var req models.ReadRangesRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	resp, svcErr := h.service.ReadRanges(req)
	if svcErr != nil {
		h.writeError(w, svcErr)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// editHandler adapts one mutating service method to an HTTP endpoint. The
// EditResult is returned with status 200 regardless of outcome; the body's
// result field is the authoritative success signal.
func editHandler[Req any](h *HTTPHandler, op func(Req) *models.EditResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Req
		if !h.decodeBody(w, r, &req) {
			return
		}
		h.writeJSON(w, http.StatusOK, op(req))
	}
}

// StartServer configures and runs the HTTP server on the given port. It
// blocks until the server stops.
func (h *HTTPHandler) StartServer(port int) error {
	h.Server.Addr = fmt.Sprintf(":%d", port)
	h.Server.Handler = h.Router()
	h.Server.ReadTimeout = defaultReadTimeout
	h.Server.WriteTimeout = defaultWriteTimeout

	h.logger.Printf("HTTP server starting on port %d", port)
	err := h.Server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		h.logger.Printf("HTTP server error: %v", err)
		return err
	}
	h.logger.Printf("HTTP server on port %d shut down", port)
	return nil
}
