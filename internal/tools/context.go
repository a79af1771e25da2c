package tools

import (
	"context"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/repo"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ContextInput is the `context` tool's argument shape: the
// daily-journal entity, distinct from Go's context.Context.
type ContextInput struct {
	Operation          string   `json:"operation"`
	ClientProjectRoot  string   `json:"clientProjectRoot,omitempty"`
	Repository         string   `json:"repository"`
	Branch             string   `json:"branch"`
	ID                 string   `json:"id,omitempty"`
	ISODate            string   `json:"iso_date,omitempty"`
	Summary            string   `json:"summary,omitempty"`
	Agent              string   `json:"agent,omitempty"`
	RelatedIssue       string   `json:"related_issue,omitempty"`
	Decisions          []string `json:"decisions,omitempty"`
	Observations       []string `json:"observations,omitempty"`
	RelatedItems       []string `json:"related_items,omitempty"`
	Limit              int      `json:"limit,omitempty"`
}

func (d *deps) handleContext(ctx context.Context, _ *mcp.CallToolRequest, in ContextInput) (*mcp.CallToolResult, any, error) {
	in.Repository, in.Branch = d.resolveScope(in.Repository, in.Branch)
	if in.Repository == "" || in.Branch == "" {
		return d.result("context", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "repository and branch are required"})
	}
	root := d.resolveRoot(ctx, in.ClientProjectRoot, in.Repository, in.Branch)
	store, err := d.store(ctx, root)
	if err != nil {
		return d.result("context", nil, err)
	}

	switch lower(in.Operation) {
	case "update":
		c, err := store.UpsertContext(ctx, in.Repository, in.Branch, repo.UpsertContextInput{
			ID:           in.ID,
			ISODate:      in.ISODate,
			Summary:      in.Summary,
			Agent:        in.Agent,
			RelatedIssue: in.RelatedIssue,
			Decisions:    in.Decisions,
			Observations: in.Observations,
			RelatedItems: in.RelatedItems,
		})
		if err != nil {
			return d.result("context", nil, err)
		}
		return d.result("context", contextToMap(c), nil)

	case "get":
		c, err := store.FindContextByID(ctx, in.Repository, in.Branch, in.ID)
		if err != nil {
			return d.result("context", nil, err)
		}
		return d.result("context", contextToMap(c), nil)

	case "list":
		items, err := store.ListContexts(ctx, in.Repository, in.Branch, in.Limit)
		if err != nil {
			return d.result("context", nil, err)
		}
		out := make([]map[string]any, 0, len(items))
		for _, c := range items {
			out = append(out, contextToMap(c))
		}
		return d.result("context", map[string]any{"items": out}, nil)

	default:
		return d.result("context", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "unknown context operation: " + in.Operation})
	}
}
