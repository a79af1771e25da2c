// Package graphalgo implements the graph algorithms this server requires
// in-process, over a projected adjacency list, since no embedded
// graph-algorithm extension ships in this corpus (see DESIGN.md).
package graphalgo

// Graph is an undirected-by-default adjacency projection keyed by node GUID.
// Callers that need directed traversal use Out/In separately; algorithms
// that are inherently undirected (KCore, Louvain, WCC) use the symmetrized
// Neighbors view.
type Graph struct {
	nodes map[string]struct{}
	out   map[string]map[string]struct{}
	in    map[string]map[string]struct{}
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]struct{}),
		out:   make(map[string]map[string]struct{}),
		in:    make(map[string]map[string]struct{}),
	}
}

// AddNode registers id even if it has no edges, so isolated nodes still
// appear in full-graph algorithms like WCC and PageRank.
func (g *Graph) AddNode(id string) {
	g.nodes[id] = struct{}{}
	if g.out[id] == nil {
		g.out[id] = make(map[string]struct{})
	}
	if g.in[id] == nil {
		g.in[id] = make(map[string]struct{})
	}
}

// AddEdge adds a directed edge from -> to, registering both endpoints.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.out[from][to] = struct{}{}
	g.in[to][from] = struct{}{}
}

// Nodes returns every node id in the graph, in no particular order.
func (g *Graph) Nodes() []string {
	out := make([]string, 0, len(g.nodes))
	for n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// Order returns the number of nodes.
func (g *Graph) Order() int { return len(g.nodes) }

// Out returns the out-neighbors of id.
func (g *Graph) Out(id string) []string {
	return keys(g.out[id])
}

// In returns the in-neighbors of id.
func (g *Graph) In(id string) []string {
	return keys(g.in[id])
}

// Neighbors returns the union of in- and out-neighbors of id, treating the
// graph as undirected — used by KCore, Louvain, and WCC.
func (g *Graph) Neighbors(id string) []string {
	seen := make(map[string]struct{}, len(g.out[id])+len(g.in[id]))
	for n := range g.out[id] {
		seen[n] = struct{}{}
	}
	for n := range g.in[id] {
		seen[n] = struct{}{}
	}
	return keys(seen)
}

// Degree returns the undirected degree of id (a pair of mutual edges counts
// once, matching Neighbors' dedup).
func (g *Graph) Degree(id string) int {
	return len(g.Neighbors(id))
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
