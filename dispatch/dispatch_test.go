package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/wyfcoding/scc/cache"
	"github.com/wyfcoding/scc/graph"
)

func build(t *testing.T, n int, edges [][2]int) *graph.Graph {
	t.Helper()
	g, err := graph.Create(n)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i := 0; i < n; i++ {
		if _, err := g.AddVertex(); err != nil {
			t.Fatalf("AddVertex: %v", err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("AddEdge(%d,%d): %v", e[0], e[1], err)
		}
	}
	return g
}

func TestRecommendAlgorithmBelowVertexThresholdIsTarjan(t *testing.T) {
	if got := RecommendAlgorithm(500, 10000, DefaultVertexThreshold, DefaultDensityCutoff); got != Tarjan {
		t.Fatalf("below threshold should pick Tarjan, got %v", got)
	}
}

func TestRecommendAlgorithmSparseLargeGraphIsTarjan(t *testing.T) {
	// 2000 vertices, 2000 edges => density 2000/4_000_000, well under cutoff.
	if got := RecommendAlgorithm(2000, 2000, DefaultVertexThreshold, DefaultDensityCutoff); got != Tarjan {
		t.Fatalf("sparse large graph should still pick Tarjan, got %v", got)
	}
}

func TestRecommendAlgorithmDenseLargeGraphIsKosaraju(t *testing.T) {
	// 2000 vertices with density above the 0.1 cutoff.
	n := 2000
	edges := n * n / 5 // density 0.2
	if got := RecommendAlgorithm(n, edges, DefaultVertexThreshold, DefaultDensityCutoff); got != Kosaraju {
		t.Fatalf("dense large graph should pick Kosaraju, got %v", got)
	}
}

func TestRecommendAlgorithmIsDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		if got := RecommendAlgorithm(1500, 50000, DefaultVertexThreshold, DefaultDensityCutoff); got != Tarjan {
			t.Fatalf("heuristic must be deterministic, got %v on iteration %d", got, i)
		}
	}
}

func TestFindNilGraphIsError(t *testing.T) {
	d := New()
	if _, err := d.Find(context.Background(), nil); err == nil {
		t.Fatal("Find(nil) should error")
	}
}

func TestFindOnTriangleYieldsOneComponent(t *testing.T) {
	d := New()
	g := build(t, 3, [][2]int{{0, 1}, {1, 2}, {2, 0}})
	r, err := d.Find(context.Background(), g)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if r.ComponentCount() != 1 {
		t.Fatalf("expected 1 component, got %d", r.ComponentCount())
	}
}

func TestFindWithTarjanAndKosarajuAgree(t *testing.T) {
	d := New()
	g := build(t, 6, [][2]int{{0, 1}, {1, 0}, {2, 3}, {3, 4}, {4, 2}, {1, 2}, {4, 5}})
	rt, err := d.FindWith(context.Background(), g, Tarjan)
	if err != nil {
		t.Fatalf("FindWith(Tarjan): %v", err)
	}
	rk, err := d.FindWith(context.Background(), g, Kosaraju)
	if err != nil {
		t.Fatalf("FindWith(Kosaraju): %v", err)
	}
	if rt.ComponentCount() != rk.ComponentCount() {
		t.Fatalf("Tarjan and Kosaraju must agree on component count: %d vs %d", rt.ComponentCount(), rk.ComponentCount())
	}
}

func TestIsStronglyConnected(t *testing.T) {
	d := New()
	connected := build(t, 3, [][2]int{{0, 1}, {1, 2}, {2, 0}})
	ok, err := d.IsStronglyConnected(context.Background(), connected)
	if err != nil || !ok {
		t.Fatalf("triangle should be strongly connected: (%v,%v)", ok, err)
	}

	disconnected := build(t, 4, [][2]int{{0, 1}, {1, 2}, {2, 0}})
	ok, err = d.IsStronglyConnected(context.Background(), disconnected)
	if err != nil || ok {
		t.Fatalf("isolated vertex 3 should break strong connectivity: (%v,%v)", ok, err)
	}
}

func TestIsStronglyConnectedEmptyGraphIsFalseNotError(t *testing.T) {
	d := New()
	g, err := graph.Create(0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	ok, err := d.IsStronglyConnected(context.Background(), g)
	if err != nil {
		t.Fatalf("empty graph should not propagate an error, got %v", err)
	}
	if ok {
		t.Fatal("empty graph is not strongly connected")
	}
}

func TestBuildCondensationIsAcyclicAndDeduplicates(t *testing.T) {
	d := New()
	g := build(t, 6, [][2]int{{0, 1}, {1, 0}, {2, 3}, {3, 4}, {4, 2}, {1, 2}, {4, 5}, {1, 3}})
	r, err := d.Find(context.Background(), g)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	cg, err := BuildCondensation(context.Background(), g, r)
	if err != nil {
		t.Fatalf("BuildCondensation: %v", err)
	}
	if cg.NumVertices() != r.ComponentCount() {
		t.Fatalf("condensation should have one vertex per component: got %d want %d", cg.NumVertices(), r.ComponentCount())
	}
	// {1,3} and {1,2} both cross from component {0,1} into {2,3,4}: must
	// collapse to a single edge, not two.
	if cg.NumEdges() != 2 {
		t.Fatalf("expected exactly 2 deduplicated cross-component edges, got %d", cg.NumEdges())
	}
	again, err := d.Find(context.Background(), cg)
	if err != nil {
		t.Fatalf("Find on condensation: %v", err)
	}
	if again.ComponentCount() != cg.NumVertices() {
		t.Fatal("condensation graph must be acyclic: every vertex should be its own component")
	}
}

func TestDispatcherWithCacheServesSecondFindFromCache(t *testing.T) {
	ctx := context.Background()
	rc, err := cache.New(ctx, time.Minute, 8)
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	d := New(WithCache(rc))
	g := build(t, 3, [][2]int{{0, 1}, {1, 2}, {2, 0}})

	r1, err := d.Find(ctx, g)
	if err != nil {
		t.Fatalf("first Find: %v", err)
	}
	r2, err := d.Find(ctx, g)
	if err != nil {
		t.Fatalf("second Find: %v", err)
	}
	if r1.ComponentCount() != r2.ComponentCount() {
		t.Fatal("cached Find should reproduce the same partition shape")
	}
}
