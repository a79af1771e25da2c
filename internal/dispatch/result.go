package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/dhm"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/repo"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// TextResult marshals data as indented JSON into a single TextContent block
// — the shape every tool result in this server takes, since the client
// side only ever reads Content, never StructuredContent.
func TextResult(data any) (*mcp.CallToolResult, error) {
	if data == nil {
		data = map[string]any{}
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}, nil
}

// ErrorResult converts err into an IsError CallToolResult carrying the
// taxonomy code from repo.Error/dhm.Error when present, or INTERNAL_ERROR
// otherwise, instead of surfacing it as a protocol-level error — tool
// callers are expected to branch on the error code in the payload.
//
// Per §4.4/§7, every failure is serialized as {success: false, error,
// errorId} with a fresh UUID errorId so operators can correlate a report
// from a client against the server's own logs without leaking internals
// into the response. log, tool, requestID, and sessionID (all optional —
// nil/empty are tolerated, e.g. from call sites with no logger wired yet)
// are written alongside errorId and code to one structured log line, the
// per-call {tool, requestId, sessionId} context §4.4 step 3 requires.
func ErrorResult(err error, log *zap.Logger, tool, requestID, sessionID string) *mcp.CallToolResult {
	code := "INTERNAL_ERROR"
	msg := err.Error()

	var repoErr *repo.Error
	var dhmErr *dhm.Error
	switch {
	case errors.As(err, &repoErr):
		code = string(repoErr.Code)
	case errors.As(err, &dhmErr):
		code = string(dhmErr.Code)
	}

	errorID := uuid.NewString()
	if log != nil {
		log.Error("tool call failed",
			zap.String("tool", tool),
			zap.String("requestId", requestID),
			zap.String("sessionId", sessionID),
			zap.String("errorId", errorID),
			zap.String("code", code),
			zap.Error(err))
	}

	b, marshalErr := json.Marshal(map[string]any{
		"success": false,
		"error":   msg,
		"errorId": errorID,
		"code":    code,
	})
	if marshalErr != nil {
		b = []byte(`{"success":false,"error":"failed to marshal error","errorId":"` + errorID + `","code":"INTERNAL_ERROR"}`)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
		IsError: true,
	}
}
