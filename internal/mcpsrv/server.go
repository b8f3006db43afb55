// Package mcpsrv exposes the editing operations as MCP tools over stdio.
// Tool arguments mirror the JSON-RPC request shapes; edit outcomes are
// returned as JSON text, with failed edits flagged as tool errors so agent
// callers can branch on them.
package mcpsrv

import (
	"context"
	"encoding/json"
	"fmt"

	gomcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"text-editor-server/internal/models"
	"text-editor-server/internal/service"
)

const serverInstructions = "Line-oriented text file editor with optimistic concurrency. " +
	"Always call get_text_file_contents first to obtain the current file_hash and range_hash " +
	"values, then pass them to the editing tools. A hash mismatch means the file changed " +
	"under you: re-read and retry with fresh hashes. Use an empty range_hash for insertions."

// EditorMCPServer wraps an MCP server around the editor service.
type EditorMCPServer struct {
	server  *mcpserver.MCPServer
	service service.EditorService
}

// NewEditorMCPServer creates the MCP server and registers all editing tools.
func NewEditorMCPServer(svc service.EditorService) *EditorMCPServer {
	s := mcpserver.NewMCPServer(
		"text-editor",
		"1.0.0",
		mcpserver.WithInstructions(serverInstructions),
	)
	e := &EditorMCPServer{server: s, service: svc}
	e.registerTools()
	return e
}

func (e *EditorMCPServer) registerTools() {
	getContents := gomcp.NewTool("get_text_file_contents",
		gomcp.WithDescription(
			"Read line ranges from text files. Returns the content with the whole-file hash "+
				"and a hash per range; both are required by the editing tools.",
		),
		gomcp.WithReadOnlyHintAnnotation(true),
		gomcp.WithArray("files",
			gomcp.Required(),
			gomcp.Description("Files and ranges to read: [{\"file_path\": \"a.txt\", \"ranges\": [{\"start\": 1, \"end\": 10}]}]. Omit ranges for the whole file."),
		),
		gomcp.WithString("encoding",
			gomcp.Description("Text encoding (default utf-8)."),
		),
	)
	e.server.AddTool(getContents, e.handleGetContents)

	patchFile := gomcp.NewTool("patch_text_file_contents",
		gomcp.WithDescription(
			"Apply one or more patches to a file. Replacements need the current range_hash; "+
				"insertions use range_hash \"\". Patches must not overlap. A missing file is "+
				"created when file_hash is empty.",
		),
		gomcp.WithString("file_path",
			gomcp.Required(),
			gomcp.Description("Path relative to the base directory."),
		),
		gomcp.WithString("file_hash",
			gomcp.Required(),
			gomcp.Description("Expected whole-file hash from get_text_file_contents. Empty for new files."),
		),
		gomcp.WithArray("patches",
			gomcp.Required(),
			gomcp.Description("Patches: [{\"start\": 2, \"end\": 2, \"contents\": \"new\\n\", \"range_hash\": \"...\"}]."),
		),
		gomcp.WithString("encoding",
			gomcp.Description("Text encoding (default utf-8)."),
		),
	)
	e.server.AddTool(patchFile, editToolHandler(e.service.PatchFile))

	insertFile := gomcp.NewTool("insert_text_file_contents",
		gomcp.WithDescription(
			"Insert content after or before a specific line. Exactly one of after/before "+
				"must be given.",
		),
		gomcp.WithString("file_path", gomcp.Required(), gomcp.Description("Path relative to the base directory.")),
		gomcp.WithString("file_hash", gomcp.Required(), gomcp.Description("Expected whole-file hash.")),
		gomcp.WithString("contents", gomcp.Required(), gomcp.Description("Content to insert.")),
		gomcp.WithNumber("after", gomcp.Description("Insert after this 1-based line.")),
		gomcp.WithNumber("before", gomcp.Description("Insert before this 1-based line.")),
		gomcp.WithString("encoding", gomcp.Description("Text encoding (default utf-8).")),
	)
	e.server.AddTool(insertFile, editToolHandler(e.service.InsertFile))

	appendFile := gomcp.NewTool("append_text_file_contents",
		gomcp.WithDescription(
			"Append content at the end of a file. Creates the file when it does not exist "+
				"and file_hash is empty.",
		),
		gomcp.WithString("file_path", gomcp.Required(), gomcp.Description("Path relative to the base directory.")),
		gomcp.WithString("file_hash", gomcp.Required(), gomcp.Description("Expected whole-file hash. Empty for new files.")),
		gomcp.WithString("contents", gomcp.Required(), gomcp.Description("Content to append.")),
		gomcp.WithString("encoding", gomcp.Description("Text encoding (default utf-8).")),
	)
	e.server.AddTool(appendFile, editToolHandler(e.service.AppendFile))

	createFile := gomcp.NewTool("create_text_file",
		gomcp.WithDescription("Create a new text file. Fails if the file already exists."),
		gomcp.WithString("file_path", gomcp.Required(), gomcp.Description("Path relative to the base directory.")),
		gomcp.WithString("contents", gomcp.Required(), gomcp.Description("Initial file content.")),
		gomcp.WithString("encoding", gomcp.Description("Text encoding (default utf-8).")),
	)
	e.server.AddTool(createFile, editToolHandler(e.service.CreateFile))

	deleteContents := gomcp.NewTool("delete_text_file_contents",
		gomcp.WithDescription(
			"Delete line ranges from a file. Every range needs its current range_hash and "+
				"the file_hash must match; ranges must not overlap.",
		),
		gomcp.WithString("file_path", gomcp.Required(), gomcp.Description("Path relative to the base directory.")),
		gomcp.WithString("file_hash", gomcp.Required(), gomcp.Description("Expected whole-file hash.")),
		gomcp.WithArray("ranges",
			gomcp.Required(),
			gomcp.Description("Ranges to delete: [{\"start\": 2, \"end\": 3, \"range_hash\": \"...\"}]."),
		),
		gomcp.WithString("encoding", gomcp.Description("Text encoding (default utf-8).")),
	)
	e.server.AddTool(deleteContents, editToolHandler(e.service.DeleteContents))
}

// decodeArgs re-marshals the tool arguments into a typed request.
func decodeArgs(req gomcp.CallToolRequest, dst interface{}) error {
	data, err := json.Marshal(req.GetArguments())
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

func (e *EditorMCPServer) handleGetContents(_ context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var r models.ReadRangesRequest
	if err := decodeArgs(req, &r); err != nil {
		return gomcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	resp, svcErr := e.service.ReadRanges(r)
	if svcErr != nil {
		return gomcp.NewToolResultError(svcErr.Message), nil
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return gomcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return gomcp.NewToolResultText(string(data)), nil
}

// editToolHandler adapts one mutating service method to an MCP tool handler.
// The EditResult JSON is always the payload; failed edits additionally set
// the tool error flag.
func editToolHandler[Req any](op func(Req) *models.EditResult) mcpserver.ToolHandlerFunc {
	return func(_ context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		var r Req
		if err := decodeArgs(req, &r); err != nil {
			return gomcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		res := op(r)
		data, err := json.Marshal(res)
		if err != nil {
			return gomcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		if !res.OK() {
			return gomcp.NewToolResultError(string(data)), nil
		}
		return gomcp.NewToolResultText(string(data)), nil
	}
}

// Serve runs the MCP server over stdio until the client disconnects.
func (e *EditorMCPServer) Serve() error {
	return mcpserver.ServeStdio(e.server)
}
