package tools

import (
	"context"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/repo"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MemoryBankInput is the `memory-bank` tool's argument shape.
type MemoryBankInput struct {
	Operation         string         `json:"operation"`
	ClientProjectRoot string         `json:"clientProjectRoot,omitempty"`
	Repository        string         `json:"repository"`
	Branch            string         `json:"branch"`
	Content           map[string]any `json:"content,omitempty"`
	Name              string         `json:"name,omitempty"`
}

func (d *deps) handleMemoryBank(ctx context.Context, _ *mcp.CallToolRequest, in MemoryBankInput) (*mcp.CallToolResult, any, error) {
	in.Repository, in.Branch = d.resolveScope(in.Repository, in.Branch)
	if in.Repository == "" || in.Branch == "" {
		return d.result("memory-bank", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "repository and branch are required"})
	}
	root := d.resolveRoot(ctx, in.ClientProjectRoot, in.Repository, in.Branch)
	store, err := d.store(ctx, root)
	if err != nil {
		return d.result("memory-bank", nil, err)
	}

	switch lower(in.Operation) {
	case "init":
		// Acquiring the handle already ran the first-touch schema
		// bootstrap; init ensures the Repository row exists and writes an
		// empty metadata record named "__init__", replacing any existing one.
		if _, err := store.UpsertMetadata(ctx, in.Repository, in.Branch, "__init__", map[string]any{}); err != nil {
			return d.result("memory-bank", nil, err)
		}
		return d.result("memory-bank", map[string]any{"success": true}, nil)

	case "get-metadata":
		meta, err := store.GetMetadata(ctx, in.Repository, in.Branch)
		if err != nil {
			return d.result("memory-bank", nil, err)
		}
		return d.result("memory-bank", map[string]any{"name": meta.Name, "content": meta.Content}, nil)

	case "update-metadata":
		name := in.Name
		if name == "" {
			name = "metadata"
		}
		meta, err := store.UpsertMetadata(ctx, in.Repository, in.Branch, name, in.Content)
		if err != nil {
			return d.result("memory-bank", nil, err)
		}
		return d.result("memory-bank", map[string]any{"name": meta.Name, "content": meta.Content}, nil)

	default:
		return d.result("memory-bank", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "unknown memory-bank operation: " + in.Operation})
	}
}
