package graphalgo

// Louvain runs a single level of greedy modularity optimization (the first
// pass of the Louvain method, without the coarsen-and-repeat phases): every
// node starts in its own community, then nodes are repeatedly moved to the
// neighboring community that most increases modularity until no move
// improves it. Returns node -> community id.
func Louvain(g *Graph) map[string]int {
	nodes := g.Nodes()
	community := make(map[string]int, len(nodes))
	for i, n := range nodes {
		community[n] = i
	}
	if len(nodes) == 0 {
		return community
	}

	degree := make(map[string]float64, len(nodes))
	neighbors := make(map[string][]string, len(nodes))
	m2 := 0.0 // 2 * total edge weight (unweighted: edge count doubled)
	for _, n := range nodes {
		ns := g.Neighbors(n)
		neighbors[n] = ns
		degree[n] = float64(len(ns))
		m2 += float64(len(ns))
	}
	if m2 == 0 {
		return community
	}

	communityDegree := make(map[int]float64, len(nodes))
	for _, n := range nodes {
		communityDegree[community[n]] += degree[n]
	}

	const maxPasses = 100
	for pass := 0; pass < maxPasses; pass++ {
		improved := false
		for _, n := range nodes {
			curComm := community[n]
			communityDegree[curComm] -= degree[n]

			neighborWeight := make(map[int]float64)
			for _, nb := range neighbors[n] {
				neighborWeight[community[nb]]++
			}

			bestComm := curComm
			bestGain := neighborWeight[curComm] - communityDegree[curComm]*degree[n]/m2
			for comm, w := range neighborWeight {
				gain := w - communityDegree[comm]*degree[n]/m2
				if gain > bestGain {
					bestGain = gain
					bestComm = comm
				}
			}

			community[n] = bestComm
			communityDegree[bestComm] += degree[n]
			if bestComm != curComm {
				improved = true
			}
		}
		if !improved {
			break
		}
	}

	return renumber(community)
}

// renumber compresses community ids to a dense 0..k-1 range in first-seen
// order, so output doesn't depend on map iteration order elsewhere.
func renumber(community map[string]int) map[string]int {
	next := 0
	seen := make(map[int]int)
	out := make(map[string]int, len(community))
	for _, n := range sortedKeys(community) {
		c := community[n]
		nc, ok := seen[c]
		if !ok {
			nc = next
			seen[c] = nc
			next++
		}
		out[n] = nc
	}
	return out
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	// Simple insertion sort: community sets are small enough in practice
	// that this need not pull in sort for a one-line deterministic order.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
