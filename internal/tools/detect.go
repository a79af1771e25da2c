package tools

import (
	"context"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/repo"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DetectInput is the `detect` tool's argument shape: named
// heuristics built on top of the raw graph algorithms the `analyze` tool
// exposes directly.
type DetectInput struct {
	Check             string `json:"check"` // "cycles" | "islands" | "orphaned-rules"
	ClientProjectRoot string `json:"clientProjectRoot,omitempty"`
	Repository        string `json:"repository"`
	Branch            string `json:"branch"`
}

func (d *deps) handleDetect(ctx context.Context, _ *mcp.CallToolRequest, in DetectInput) (*mcp.CallToolResult, any, error) {
	in.Repository, in.Branch = d.resolveScope(in.Repository, in.Branch)
	if in.Repository == "" || in.Branch == "" {
		return d.result("detect", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "repository and branch are required"})
	}
	root := d.resolveRoot(ctx, in.ClientProjectRoot, in.Repository, in.Branch)
	store, err := d.store(ctx, root)
	if err != nil {
		return d.result("detect", nil, err)
	}

	switch lower(in.Check) {
	case "cycles":
		r, err := store.SCC(ctx, in.Repository, in.Branch)
		if err != nil {
			return d.result("detect", nil, err)
		}
		groupSize := map[int]int{}
		for _, g := range r.IntValues {
			groupSize[g]++
		}
		var cyclic []string
		for id, g := range r.IntValues {
			if groupSize[g] > 1 {
				cyclic = append(cyclic, id)
			}
		}
		return d.result("detect", map[string]any{"has_cycles": len(cyclic) > 0, "members": cyclic}, nil)

	case "islands":
		r, err := store.WCC(ctx, in.Repository, in.Branch)
		if err != nil {
			return d.result("detect", nil, err)
		}
		bySize := map[int][]string{}
		for id, g := range r.IntValues {
			bySize[g] = append(bySize[g], id)
		}
		var islands [][]string
		for _, members := range bySize {
			if len(members) == 1 {
				islands = append(islands, members)
			}
		}
		return d.result("detect", map[string]any{"islands": islands}, nil)

	case "orphaned-rules":
		rules, err := store.ListRules(ctx, in.Repository, in.Branch)
		if err != nil {
			return d.result("detect", nil, err)
		}
		var orphaned []string
		for _, r := range rules {
			items, err := store.GetRelatedItems(ctx, in.Repository, in.Branch, r.ID)
			if err != nil {
				return d.result("detect", nil, err)
			}
			if len(items) == 0 {
				orphaned = append(orphaned, r.ID)
			}
		}
		return d.result("detect", map[string]any{"orphaned": orphaned}, nil)

	default:
		return d.result("detect", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "unknown detect check: " + in.Check})
	}
}
