package graphalgo

// KCore computes the coreness of every node via iterative degree peeling:
// repeatedly strip nodes whose current (remaining) degree is below k,
// recording the highest k each node survived to. Returns node -> core number.
func KCore(g *Graph) map[string]int {
	degree := make(map[string]int, g.Order())
	neighbors := make(map[string][]string, g.Order())
	for _, n := range g.Nodes() {
		neighbors[n] = g.Neighbors(n)
		degree[n] = len(neighbors[n])
	}

	core := make(map[string]int, g.Order())
	removed := make(map[string]bool, g.Order())
	remaining := g.Order()
	k := 0

	for remaining > 0 {
		// Peel every node at or below the current k until none remain at
		// this level, then bump k and repeat.
		progressed := true
		for progressed {
			progressed = false
			for _, n := range g.Nodes() {
				if removed[n] || degree[n] > k {
					continue
				}
				core[n] = k
				removed[n] = true
				remaining--
				for _, nb := range neighbors[n] {
					if !removed[nb] {
						degree[nb]--
					}
				}
				progressed = true
			}
		}
		k++
	}
	return core
}
