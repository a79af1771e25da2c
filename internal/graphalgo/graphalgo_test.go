package graphalgo

import "testing"

func chain(nodes ...string) *Graph {
	g := NewGraph()
	for i := 0; i < len(nodes)-1; i++ {
		g.AddEdge(nodes[i], nodes[i+1])
	}
	return g
}

func TestShortestPathDirectChain(t *testing.T) {
	g := chain("a", "b", "c", "d")
	path, ok := ShortestPath(g, "a", "d", 5)
	if !ok {
		t.Fatal("expected a path from a to d")
	}
	want := []string{"a", "b", "c", "d"}
	if len(path) != len(want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("path = %v, want %v", path, want)
		}
	}
}

func TestShortestPathRespectsHopCap(t *testing.T) {
	g := chain("a", "b", "c", "d")
	if _, ok := ShortestPath(g, "a", "d", 2); ok {
		t.Error("expected no path within a 2-hop cap over a 3-hop chain")
	}
}

func TestShortestPathSameNode(t *testing.T) {
	g := chain("a", "b")
	path, ok := ShortestPath(g, "a", "a", 5)
	if !ok || len(path) != 1 || path[0] != "a" {
		t.Errorf("path = %v, ok = %v, want [a] true", path, ok)
	}
}

func TestShortestPathUnreachable(t *testing.T) {
	g := NewGraph()
	g.AddNode("a")
	g.AddNode("b")
	if _, ok := ShortestPath(g, "a", "b", 10); ok {
		t.Error("expected no path between disconnected nodes")
	}
}

func TestKCoreTriangleHasCoreTwo(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")
	core := KCore(g)
	for _, n := range []string{"a", "b", "c"} {
		if core[n] != 2 {
			t.Errorf("core[%s] = %d, want 2", n, core[n])
		}
	}
}

func TestKCorePendantHasCoreOne(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")
	g.AddEdge("a", "d") // d hangs off the triangle with degree 1
	core := KCore(g)
	if core["d"] != 1 {
		t.Errorf("core[d] = %d, want 1", core["d"])
	}
}

func TestWCCSeparatesComponents(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b")
	g.AddEdge("c", "d")
	comp := WCC(g)
	if comp["a"] != comp["b"] {
		t.Error("a and b should share a component")
	}
	if comp["c"] != comp["d"] {
		t.Error("c and d should share a component")
	}
	if comp["a"] == comp["c"] {
		t.Error("a and c should be in different components")
	}
}

func TestSCCCycleIsOneComponent(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")
	g.AddEdge("c", "d") // d is reachable but cannot reach back
	comp := SCC(g)
	if comp["a"] != comp["b"] || comp["b"] != comp["c"] {
		t.Errorf("a, b, c should be one SCC: %v", comp)
	}
	if comp["d"] == comp["a"] {
		t.Error("d should not be in the same SCC as the cycle")
	}
}

func TestPageRankSinkAccumulatesRank(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "c")
	g.AddEdge("b", "c")
	rank := PageRank(g, PageRankOptions{})
	if rank["c"] <= rank["a"] || rank["c"] <= rank["b"] {
		t.Errorf("sink node c should outrank its sources: %v", rank)
	}
}

func TestLouvainSplitsDisjointCliques(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")
	g.AddEdge("x", "y")
	g.AddEdge("y", "z")
	g.AddEdge("z", "x")
	comm := Louvain(g)
	if comm["a"] != comm["b"] || comm["b"] != comm["c"] {
		t.Errorf("triangle abc should share a community: %v", comm)
	}
	if comm["x"] != comm["y"] || comm["y"] != comm["z"] {
		t.Errorf("triangle xyz should share a community: %v", comm)
	}
	if comm["a"] == comm["x"] {
		t.Error("the two disjoint triangles should land in different communities")
	}
}
