package tools

import (
	"context"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/repo"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// QueryInput is the `query` tool's argument shape: read-only
// questions over the dependency graph and its attached entities.
type QueryInput struct {
	Type               string `json:"type"`
	ClientProjectRoot  string `json:"clientProjectRoot,omitempty"`
	Repository         string `json:"repository"`
	Branch             string `json:"branch"`
	ID                 string `json:"id,omitempty"`
	StartID            string `json:"start_id,omitempty"`
	EndID              string `json:"end_id,omitempty"`
	MaxDepth           int    `json:"max_depth,omitempty"`
	Limit              int    `json:"limit,omitempty"`
}

func (d *deps) handleQuery(ctx context.Context, _ *mcp.CallToolRequest, in QueryInput) (*mcp.CallToolResult, any, error) {
	in.Repository, in.Branch = d.resolveScope(in.Repository, in.Branch)
	if in.Repository == "" || in.Branch == "" {
		return d.result("query", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "repository and branch are required"})
	}
	root := d.resolveRoot(ctx, in.ClientProjectRoot, in.Repository, in.Branch)
	store, err := d.store(ctx, root)
	if err != nil {
		return d.result("query", nil, err)
	}

	depth := in.MaxDepth
	if depth <= 0 {
		depth = 5
	}

	switch lower(in.Type) {
	case "dependencies":
		ids, err := store.GetDependencies(ctx, in.Repository, in.Branch, in.ID, depth)
		if err != nil {
			return d.result("query", nil, err)
		}
		return d.result("query", map[string]any{"ids": ids}, nil)

	case "dependents":
		ids, err := store.GetDependents(ctx, in.Repository, in.Branch, in.ID, depth)
		if err != nil {
			return d.result("query", nil, err)
		}
		return d.result("query", map[string]any{"ids": ids}, nil)

	case "related":
		items, err := store.GetRelatedItems(ctx, in.Repository, in.Branch, in.ID)
		if err != nil {
			return d.result("query", nil, err)
		}
		out := make([]map[string]any, 0, len(items))
		for _, it := range items {
			out = append(out, map[string]any{"id": it.ID, "label": it.Label})
		}
		return d.result("query", map[string]any{"items": out}, nil)

	case "governance":
		decisions, err := store.GetGoverningDecisions(ctx, in.Repository, in.Branch, in.ID)
		if err != nil {
			return d.result("query", nil, err)
		}
		out := make([]map[string]any, 0, len(decisions))
		for _, dec := range decisions {
			out = append(out, decisionToMap(dec))
		}
		return d.result("query", map[string]any{"decisions": out}, nil)

	case "history":
		items, err := store.GetItemContextualHistory(ctx, in.Repository, in.Branch, in.ID)
		if err != nil {
			return d.result("query", nil, err)
		}
		out := make([]map[string]any, 0, len(items))
		for _, c := range items {
			out = append(out, contextToMap(c))
		}
		return d.result("query", map[string]any{"items": out}, nil)

	case "shortest-path":
		path, err := store.FindShortestPath(ctx, in.Repository, in.Branch, in.StartID, in.EndID, depth)
		if err != nil {
			return d.result("query", nil, err)
		}
		return d.result("query", map[string]any{"path": path, "found": len(path) > 0}, nil)

	case "files-by-component":
		files, err := store.FindFilesByComponent(ctx, in.Repository, in.Branch, in.ID)
		if err != nil {
			return d.result("query", nil, err)
		}
		out := make([]map[string]any, 0, len(files))
		for _, f := range files {
			out = append(out, fileToMap(f))
		}
		return d.result("query", map[string]any{"items": out}, nil)

	case "components-by-file":
		items, err := store.FindComponentsByFile(ctx, in.Repository, in.Branch, in.ID)
		if err != nil {
			return d.result("query", nil, err)
		}
		out := make([]map[string]any, 0, len(items))
		for _, c := range items {
			out = append(out, componentToMap(c))
		}
		return d.result("query", map[string]any{"items": out}, nil)

	case "active-components":
		items, err := store.GetActiveComponents(ctx, in.Repository, in.Branch)
		if err != nil {
			return d.result("query", nil, err)
		}
		out := make([]map[string]any, 0, len(items))
		for _, c := range items {
			out = append(out, componentToMap(c))
		}
		return d.result("query", map[string]any{"items": out}, nil)

	default:
		return d.result("query", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "unknown query type: " + in.Type})
	}
}
