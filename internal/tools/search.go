package tools

import (
	"context"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/repo"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/search"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchInput is the `search` tool's argument shape.
type SearchInput struct {
	Mode              string  `json:"mode"` // "keyword" | "semantic"
	Query             string  `json:"query"`
	ClientProjectRoot string  `json:"clientProjectRoot,omitempty"`
	Repository        string  `json:"repository"`
	Branch            string  `json:"branch"`
	Limit             int     `json:"limit,omitempty"`
	Threshold         float64 `json:"threshold,omitempty"`
}

func (d *deps) handleSearch(ctx context.Context, req *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, any, error) {
	in.Repository, in.Branch = d.resolveScope(in.Repository, in.Branch)
	if in.Repository == "" || in.Branch == "" {
		return d.result("search", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "repository and branch are required"})
	}
	if in.Query == "" {
		return d.result("search", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "query is required"})
	}
	root := d.resolveRoot(ctx, in.ClientProjectRoot, in.Repository, in.Branch)
	store, err := d.store(ctx, root)
	if err != nil {
		return d.result("search", nil, err)
	}

	progress := d.progressReporter(ctx, req, "search")
	progress("running", "searching "+lower(in.Mode), 0, false)

	switch lower(in.Mode) {
	case "", "keyword":
		candidates, err := collectSearchCandidates(ctx, store, in.Repository, in.Branch)
		if err != nil {
			return d.result("search", nil, err)
		}
		threshold := in.Threshold
		if threshold <= 0 {
			threshold = 0.1
		}
		hits := search.Rank(in.Query, candidates, threshold, in.Limit)
		progress("complete", "search finished", 100, true)
		return d.result("search", map[string]any{"hits": hits}, nil)

	case "semantic":
		// No embedding model or vector index is wired into this project; a
		// semantic search would need one. Documented as a stub rather than
		// silently degrading to keyword matching.
		progress("complete", "search finished", 100, true)
		return d.result("search", map[string]any{"hits": []search.Hit{}, "message": "semantic search is not implemented; use mode=keyword"}, nil)

	default:
		return d.result("search", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "unknown search mode: " + in.Mode})
	}
}

func collectSearchCandidates(ctx context.Context, store *repo.Store, repository, branch string) ([]search.Candidate, error) {
	var candidates []search.Candidate

	components, err := store.GetActiveComponents(ctx, repository, branch)
	if err != nil {
		return nil, err
	}
	for _, c := range components {
		candidates = append(candidates,
			search.Candidate{EntityType: "component", ID: c.ID, Field: "name", Text: c.Name},
			search.Candidate{EntityType: "component", ID: c.ID, Field: "kind", Text: c.Kind},
		)
	}

	decisions, err := store.ListDecisions(ctx, repository, branch)
	if err != nil {
		return nil, err
	}
	for _, dec := range decisions {
		candidates = append(candidates,
			search.Candidate{EntityType: "decision", ID: dec.ID, Field: "name", Text: dec.Name},
			search.Candidate{EntityType: "decision", ID: dec.ID, Field: "context", Text: dec.Context},
		)
	}

	rules, err := store.ListRules(ctx, repository, branch)
	if err != nil {
		return nil, err
	}
	for _, r := range rules {
		candidates = append(candidates,
			search.Candidate{EntityType: "rule", ID: r.ID, Field: "name", Text: r.Name},
			search.Candidate{EntityType: "rule", ID: r.ID, Field: "content", Text: r.Content},
		)
	}

	contexts, err := store.ListContexts(ctx, repository, branch, 0)
	if err != nil {
		return nil, err
	}
	for _, c := range contexts {
		candidates = append(candidates,
			search.Candidate{EntityType: "context", ID: c.GUID, Field: "summary", Text: c.Summary},
		)
	}

	return candidates, nil
}
