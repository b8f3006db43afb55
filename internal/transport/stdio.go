// Package transport exposes the editor service over stdio JSON-RPC and HTTP.
// Read failures surface as protocol errors; mutating operations always return
// their EditResult as a normal result, success or not, so clients see one
// uniform shape.
package transport

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"text-editor-server/internal/errors"
	"text-editor-server/internal/models"
	"text-editor-server/internal/service"
)

// StdioHandler handles JSON-RPC communication over standard input/output.
type StdioHandler struct {
	service service.EditorService
	logger  *log.Logger
}

// NewStdioHandler creates a new StdioHandler.
func NewStdioHandler(svc service.EditorService, logger *log.Logger) *StdioHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &StdioHandler{service: svc, logger: logger}
}

// rpcError converts a structured service error into the wire error object.
func rpcError(err *errors.Error) *models.JSONRPCError {
	return &models.JSONRPCError{
		Code:    err.RPCCode(),
		Message: err.Message,
		Data:    err.Data,
	}
}

func (h *StdioHandler) writeResponse(w io.Writer, resp models.JSONRPCResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		h.logger.Printf("error marshaling JSON-RPC response (id=%v): %v", resp.ID, err)
		fallback := models.JSONRPCResponse{
			JSONRPC: "2.0",
			ID:      resp.ID,
			Error:   rpcError(errors.NewInternal("failed to marshal response")),
		}
		data, _ = json.Marshal(fallback)
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		h.logger.Printf("error writing JSON-RPC response: %v", err)
	}
}

// Start processes newline-delimited JSON-RPC requests from input until EOF.
func (h *StdioHandler) Start(input io.Reader, output io.Writer) error {
	h.logger.Println("starting stdio JSON-RPC handler")
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var req models.JSONRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			h.writeResponse(output, models.JSONRPCResponse{
				JSONRPC: "2.0",
				Error: &models.JSONRPCError{
					Code:    errors.CodeParseError,
					Message: fmt.Sprintf("Invalid JSON received: %v", err),
				},
			})
			continue
		}

		resp := models.JSONRPCResponse{JSONRPC: "2.0", ID: req.ID}
		if req.JSONRPC != "2.0" {
			resp.Error = &models.JSONRPCError{
				Code:    errors.CodeInvalidRequest,
				Message: "Invalid JSON-RPC version. Must be '2.0'.",
			}
			h.writeResponse(output, resp)
			continue
		}
		if req.Method == "" {
			resp.Error = &models.JSONRPCError{
				Code:    errors.CodeInvalidRequest,
				Message: "Method not specified.",
			}
			h.writeResponse(output, resp)
			continue
		}

		resp.Result, resp.Error = h.dispatch(req.Method, req.Params)
		h.writeResponse(output, resp)
	}

	if err := scanner.Err(); err != nil {
		h.logger.Printf("error reading from stdio: %v", err)
		return err
	}
	h.logger.Println("stdio JSON-RPC handler finished")
	return nil
}

func (h *StdioHandler) dispatch(method string, params json.RawMessage) (interface{}, *models.JSONRPCError) {
	invalidParams := func(err error) (interface{}, *models.JSONRPCError) {
		return nil, &models.JSONRPCError{
			Code:    errors.CodeInvalidParams,
			Message: fmt.Sprintf("Invalid params for %s: %v", method, err),
		}
	}

	switch method {
	case "get_contents":
		var req models.ReadRangesRequest
		if err := json.Unmarshal(params, &req); err != nil {
			return invalidParams(err)
		}
		resp, svcErr := h.service.ReadRanges(req)
		if svcErr != nil {
			return nil, rpcError(svcErr)
		}
		return resp, nil
	case "patch_file":
		var req models.PatchFileRequest
		if err := json.Unmarshal(params, &req); err != nil {
			return invalidParams(err)
		}
		return h.service.PatchFile(req), nil
	case "insert_file":
		var req models.InsertFileRequest
		if err := json.Unmarshal(params, &req); err != nil {
			return invalidParams(err)
		}
		return h.service.InsertFile(req), nil
	case "append_file":
		var req models.AppendFileRequest
		if err := json.Unmarshal(params, &req); err != nil {
			return invalidParams(err)
		}
		return h.service.AppendFile(req), nil
	case "create_file":
		var req models.CreateFileRequest
		if err := json.Unmarshal(params, &req); err != nil {
			return invalidParams(err)
		}
		return h.service.CreateFile(req), nil
	case "delete_contents":
		var req models.DeleteContentsRequest
		if err := json.Unmarshal(params, &req); err != nil {
			return invalidParams(err)
		}
		return h.service.DeleteContents(req), nil
	default:
		return nil, &models.JSONRPCError{
			Code:    errors.CodeMethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", method),
		}
	}
}
