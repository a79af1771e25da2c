package repo

import (
	"context"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/graphalgo"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/model"
)

// buildComponentGraph projects every DEPENDS_ON edge for (repo, branch) into
// a graphalgo.Graph keyed by logical component id, so the in-process
// algorithms (internal/graphalgo) can run over it.
func (s *Store) buildComponentGraph(ctx context.Context, repoName, branch string) (*graphalgo.Graph, error) {
	pk := model.RepoGID(repoName, branch)
	rows, err := s.query(ctx,
		`SELECT logical_id FROM components WHERE repo_pk = ?`, pk)
	if err != nil {
		return nil, err
	}
	g := graphalgo.NewGraph()
	for _, r := range rows {
		g.AddNode(col(r, "logical_id").AsString())
	}

	edgeRows, err := s.query(ctx,
		`SELECT cf.logical_id AS from_id, ct.logical_id AS to_id
		 FROM edges e
		 JOIN components cf ON cf.guid = e.from_guid
		 JOIN components ct ON ct.guid = e.to_guid
		 WHERE e.label = ? AND cf.repo_pk = ? AND ct.repo_pk = ?`,
		RelDependsOn, pk, pk)
	if err != nil {
		return nil, err
	}
	for _, r := range edgeRows {
		g.AddEdge(col(r, "from_id").AsString(), col(r, "to_id").AsString())
	}
	return g, nil
}

// FindShortestPath returns the dependency chain from startID to endID, hop
// count capped at maxDepth — unbounded BFS over a large dependency graph is
// a footgun. A missing route is not an error: it returns an empty slice, the
// same way a traversal that semantically requires no match behaves.
func (s *Store) FindShortestPath(ctx context.Context, repoName, branch, startID, endID string, maxDepth int) ([]string, error) {
	if maxDepth <= 0 {
		maxDepth = 10
	}
	g, err := s.buildComponentGraph(ctx, repoName, branch)
	if err != nil {
		return nil, err
	}
	path, ok := graphalgo.ShortestPath(g, startID, endID, maxDepth)
	if !ok {
		return []string{}, nil
	}
	return path, nil
}

// GetDependencies returns the logical ids startID directly or transitively
// depends on, up to maxDepth hops (1 = direct only).
func (s *Store) GetDependencies(ctx context.Context, repoName, branch, id string, maxDepth int) ([]string, error) {
	return s.walk(ctx, repoName, branch, id, maxDepth, true)
}

// GetDependents returns the logical ids that directly or transitively depend
// on id, up to maxDepth hops.
func (s *Store) GetDependents(ctx context.Context, repoName, branch, id string, maxDepth int) ([]string, error) {
	return s.walk(ctx, repoName, branch, id, maxDepth, false)
}

func (s *Store) walk(ctx context.Context, repoName, branch, id string, maxDepth int, forward bool) ([]string, error) {
	if maxDepth <= 0 {
		maxDepth = 1
	}
	g, err := s.buildComponentGraph(ctx, repoName, branch)
	if err != nil {
		return nil, err
	}
	visited := map[string]bool{id: true}
	frontier := []string{id}
	var out []string
	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, n := range frontier {
			var neighbors []string
			if forward {
				neighbors = g.Out(n)
			} else {
				neighbors = g.In(n)
			}
			for _, nb := range neighbors {
				if !visited[nb] {
					visited[nb] = true
					out = append(out, nb)
					next = append(next, nb)
				}
			}
		}
		frontier = next
	}
	return out, nil
}

// GetRelatedItems returns the ids of components connected to id by any
// relationship label within one hop, each paired with that label.
type RelatedItem struct {
	ID    string
	Label string
}

func (s *Store) GetRelatedItems(ctx context.Context, repoName, branch, id string) ([]RelatedItem, error) {
	guid := model.GID(repoName, branch, id)
	rows, err := s.query(ctx,
		`SELECT e.label AS label, c.logical_id AS logical_id FROM edges e
		 JOIN components c ON c.guid = e.to_guid
		 WHERE e.from_guid = ?
		 UNION
		 SELECT e.label AS label, c.logical_id AS logical_id FROM edges e
		 JOIN components c ON c.guid = e.from_guid
		 WHERE e.to_guid = ?`,
		guid, guid)
	if err != nil {
		return nil, err
	}
	out := make([]RelatedItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, RelatedItem{ID: col(r, "logical_id").AsString(), Label: col(r, "label").AsString()})
	}
	return out, nil
}

// GetGoverningDecisions returns the decisions that AFFECTS the given
// component.
func (s *Store) GetGoverningDecisions(ctx context.Context, repoName, branch, componentID string) ([]model.Decision, error) {
	guid := model.GID(repoName, branch, componentID)
	rows, err := s.query(ctx,
		`SELECT d.guid, d.logical_id, d.name, d.context, d.date, d.created_at, d.updated_at
		 FROM edges e JOIN decisions d ON d.guid = e.from_guid
		 WHERE e.to_guid = ? AND e.label = ?
		 ORDER BY d.date DESC`,
		guid, RelAffects)
	if err != nil {
		return nil, err
	}
	out := make([]model.Decision, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToDecision(r))
	}
	return out, nil
}

// GetItemContextualHistory returns every Context entry whose CONTEXT_OF edge
// points at the given item (component, decision, or rule) guid, newest
// first by creation time and capped at 100 rows.
func (s *Store) GetItemContextualHistory(ctx context.Context, repoName, branch, itemID string) ([]model.Context, error) {
	guid := model.GID(repoName, branch, itemID)
	rows, err := s.query(ctx,
		`SELECT c.guid, c.iso_date, c.summary, c.agent, c.related_issue, c.decisions, c.observations, c.created_at, c.updated_at
		 FROM edges e JOIN contexts c ON c.guid = e.from_guid
		 WHERE e.to_guid = ? AND e.label = ?
		 ORDER BY c.created_at DESC
		 LIMIT 100`,
		guid, RelContextOf)
	if err != nil {
		return nil, err
	}
	out := make([]model.Context, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToContext(r))
	}
	return out, nil
}

// GraphAlgoResult is a generic node -> value result from a component-graph
// algorithm, keyed by logical component id.
type GraphAlgoResult struct {
	IntValues   map[string]int
	FloatValues map[string]float64
}

// KCore runs k-core decomposition over the (repo, branch) dependency graph.
func (s *Store) KCore(ctx context.Context, repoName, branch string) (GraphAlgoResult, error) {
	g, err := s.buildComponentGraph(ctx, repoName, branch)
	if err != nil {
		return GraphAlgoResult{}, err
	}
	return GraphAlgoResult{IntValues: graphalgo.KCore(g)}, nil
}

// Louvain runs single-level community detection over the dependency graph.
func (s *Store) Louvain(ctx context.Context, repoName, branch string) (GraphAlgoResult, error) {
	g, err := s.buildComponentGraph(ctx, repoName, branch)
	if err != nil {
		return GraphAlgoResult{}, err
	}
	return GraphAlgoResult{IntValues: graphalgo.Louvain(g)}, nil
}

// PageRank runs PageRank over the dependency graph with the given options.
func (s *Store) PageRank(ctx context.Context, repoName, branch string, opts graphalgo.PageRankOptions) (GraphAlgoResult, error) {
	g, err := s.buildComponentGraph(ctx, repoName, branch)
	if err != nil {
		return GraphAlgoResult{}, err
	}
	return GraphAlgoResult{FloatValues: graphalgo.PageRank(g, opts)}, nil
}

// SCC runs Tarjan's strongly-connected-components over the dependency graph.
func (s *Store) SCC(ctx context.Context, repoName, branch string) (GraphAlgoResult, error) {
	g, err := s.buildComponentGraph(ctx, repoName, branch)
	if err != nil {
		return GraphAlgoResult{}, err
	}
	return GraphAlgoResult{IntValues: graphalgo.SCC(g)}, nil
}

// WCC runs union-find weakly-connected-components over the dependency graph.
func (s *Store) WCC(ctx context.Context, repoName, branch string) (GraphAlgoResult, error) {
	g, err := s.buildComponentGraph(ctx, repoName, branch)
	if err != nil {
		return GraphAlgoResult{}, err
	}
	return GraphAlgoResult{IntValues: graphalgo.WCC(g)}, nil
}
