package tools

import (
	"context"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/graphalgo"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/repo"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AnalyzeInput is the `analyze` tool's argument shape: it
// dispatches the dependency graph of one (repository, branch) to one of the
// in-process graph algorithms.
type AnalyzeInput struct {
	Algorithm         string  `json:"algorithm"` // "pagerank" | "k-core" | "louvain" | "scc" | "wcc" | "shortest-path"
	ClientProjectRoot string  `json:"clientProjectRoot,omitempty"`
	Repository        string  `json:"repository"`
	Branch            string  `json:"branch"`
	StartID           string  `json:"start_id,omitempty"`
	EndID             string  `json:"end_id,omitempty"`
	MaxHops           int     `json:"max_hops,omitempty"`
	Damping           float64 `json:"damping,omitempty"`
	MaxIterations     int     `json:"max_iterations,omitempty"`
	Tolerance         float64 `json:"tolerance,omitempty"`
}

func (d *deps) handleAnalyze(ctx context.Context, req *mcp.CallToolRequest, in AnalyzeInput) (*mcp.CallToolResult, any, error) {
	in.Repository, in.Branch = d.resolveScope(in.Repository, in.Branch)
	if in.Repository == "" || in.Branch == "" {
		return d.result("analyze", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "repository and branch are required"})
	}
	root := d.resolveRoot(ctx, in.ClientProjectRoot, in.Repository, in.Branch)
	store, err := d.store(ctx, root)
	if err != nil {
		return d.result("analyze", nil, err)
	}

	algorithm := lower(in.Algorithm)
	progress := d.progressReporter(ctx, req, "analyze")
	progress("running", "running "+algorithm, 0, false)

	switch algorithm {
	case "pagerank":
		r, err := store.PageRank(ctx, in.Repository, in.Branch, graphalgo.PageRankOptions{
			Damping:          in.Damping,
			MaxIterations:    in.MaxIterations,
			Tolerance:        in.Tolerance,
			NormalizeInitial: true,
		})
		if err != nil {
			return d.result("analyze", nil, err)
		}
		progress("complete", "pagerank finished", 100, true)
		return d.result("analyze", map[string]any{"scores": r.FloatValues}, nil)

	case "k-core":
		r, err := store.KCore(ctx, in.Repository, in.Branch)
		if err != nil {
			return d.result("analyze", nil, err)
		}
		progress("complete", "k-core finished", 100, true)
		return d.result("analyze", map[string]any{"core_numbers": r.IntValues}, nil)

	case "louvain":
		r, err := store.Louvain(ctx, in.Repository, in.Branch)
		if err != nil {
			return d.result("analyze", nil, err)
		}
		progress("complete", "louvain finished", 100, true)
		return d.result("analyze", map[string]any{"communities": r.IntValues}, nil)

	case "scc":
		r, err := store.SCC(ctx, in.Repository, in.Branch)
		if err != nil {
			return d.result("analyze", nil, err)
		}
		progress("complete", "scc finished", 100, true)
		return d.result("analyze", map[string]any{"components": r.IntValues}, nil)

	case "wcc":
		r, err := store.WCC(ctx, in.Repository, in.Branch)
		if err != nil {
			return d.result("analyze", nil, err)
		}
		progress("complete", "wcc finished", 100, true)
		return d.result("analyze", map[string]any{"components": r.IntValues}, nil)

	case "shortest-path":
		if in.StartID == "" || in.EndID == "" {
			return d.result("analyze", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "start_id and end_id are required"})
		}
		maxHops := in.MaxHops
		if maxHops <= 0 {
			maxHops = 10
		}
		path, err := store.FindShortestPath(ctx, in.Repository, in.Branch, in.StartID, in.EndID, maxHops)
		if err != nil {
			return d.result("analyze", nil, err)
		}
		length := len(path) - 1
		if length < 0 {
			length = 0
		}
		progress("complete", "shortest-path finished", 100, true)
		return d.result("analyze", map[string]any{"path": path, "found": len(path) > 0, "length": length}, nil)

	default:
		return d.result("analyze", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "unknown algorithm: " + in.Algorithm})
	}
}
