package graphalgo

// PageRankOptions configures the power-iteration solver. Zero values select
// the conventional defaults (damping 0.85, 20 iterations, 1e-6 tolerance).
type PageRankOptions struct {
	Damping          float64
	MaxIterations    int
	Tolerance        float64
	NormalizeInitial bool
}

func (o PageRankOptions) withDefaults() PageRankOptions {
	if o.Damping == 0 {
		o.Damping = 0.85
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = 20
	}
	if o.Tolerance == 0 {
		o.Tolerance = 1e-6
	}
	return o
}

// PageRank computes PageRank over directed Out-edges via power iteration.
// Dangling nodes (no out-edges) redistribute their mass uniformly, the
// standard fix for an otherwise non-stochastic transition matrix.
func PageRank(g *Graph, opts PageRankOptions) map[string]float64 {
	opts = opts.withDefaults()
	nodes := g.Nodes()
	n := len(nodes)
	rank := make(map[string]float64, n)
	if n == 0 {
		return rank
	}

	init := 1.0 / float64(n)
	for _, node := range nodes {
		rank[node] = init
	}
	if !opts.NormalizeInitial {
		for _, node := range nodes {
			rank[node] = 1.0
		}
	}

	outDegree := make(map[string]int, n)
	for _, node := range nodes {
		outDegree[node] = len(g.Out(node))
	}

	for iter := 0; iter < opts.MaxIterations; iter++ {
		next := make(map[string]float64, n)
		danglingMass := 0.0
		for _, node := range nodes {
			if outDegree[node] == 0 {
				danglingMass += rank[node]
			}
		}
		base := (1 - opts.Damping) / float64(n)
		redistributed := opts.Damping * danglingMass / float64(n)
		for _, node := range nodes {
			next[node] = base + redistributed
		}
		for _, node := range nodes {
			if outDegree[node] == 0 {
				continue
			}
			share := opts.Damping * rank[node] / float64(outDegree[node])
			for _, to := range g.Out(node) {
				next[to] += share
			}
		}

		delta := 0.0
		for _, node := range nodes {
			diff := next[node] - rank[node]
			if diff < 0 {
				diff = -diff
			}
			delta += diff
		}
		rank = next
		if delta < opts.Tolerance {
			break
		}
	}
	return rank
}
