package graphalgo

// WCC computes weakly connected components via union-find over the
// undirected neighbor view. Returns node -> component id.
func WCC(g *Graph) map[string]int {
	parent := make(map[string]string, g.Order())
	for _, n := range g.Nodes() {
		parent[n] = n
	}

	var find func(string) string
	find = func(x string) string {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for _, n := range g.Nodes() {
		for _, nb := range g.Neighbors(n) {
			union(n, nb)
		}
	}

	comp := make(map[string]int, g.Order())
	ids := make(map[string]int)
	next := 0
	for _, n := range g.Nodes() {
		root := find(n)
		id, ok := ids[root]
		if !ok {
			id = next
			ids[root] = id
			next++
		}
		comp[n] = id
	}
	return comp
}
