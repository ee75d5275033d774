package kosaraju

import (
	"context"
	"sort"
	"testing"

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

func partition(t *testing.T, r interface {
	NumVertices() int
	ComponentOf(int) (int, error)
}) [][]int {
	t.Helper()
	groups := make(map[int][]int)
	for v := 0; v < r.NumVertices(); v++ {
		c, err := r.ComponentOf(v)
		if err != nil {
			t.Fatalf("ComponentOf(%d): %v", v, err)
		}
		groups[c] = append(groups[c], v)
	}
	var out [][]int
	for _, vs := range groups {
		sort.Ints(vs)
		out = append(out, vs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRunEmptyGraphIsGraphEmptyError(t *testing.T) {
	g, err := graph.Create(0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := Run(context.Background(), g); err == nil {
		t.Fatal("Run on a zero-vertex graph should error")
	}
}

func TestRunMatchesTarjanOnBridgeGraph(t *testing.T) {
	g := build(t, 6, [][2]int{{0, 1}, {1, 0}, {2, 3}, {3, 4}, {4, 2}, {1, 2}, {4, 5}})
	r, err := Run(context.Background(), g)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := partition(t, r)
	want := [][]int{{0, 1}, {2, 3, 4}, {5}}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if !equalInts(got[i], want[i]) {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestRunWithTransposeMatchesRun(t *testing.T) {
	g := build(t, 3, [][2]int{{0, 1}, {1, 2}, {2, 0}})
	gt, err := g.Transpose()
	if err != nil {
		t.Fatalf("Transpose: %v", err)
	}
	r1, err := Run(context.Background(), g)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	r2, err := RunWithTranspose(context.Background(), g, gt)
	if err != nil {
		t.Fatalf("RunWithTranspose: %v", err)
	}
	if r1.ComponentCount() != r2.ComponentCount() {
		t.Fatalf("Run and RunWithTranspose should agree: %d vs %d", r1.ComponentCount(), r2.ComponentCount())
	}
}

func TestRunLongChainDoesNotOverflowStack(t *testing.T) {
	const n = 5000
	edges := make([][2]int, 0, n-1)
	for i := 0; i < n-1; i++ {
		edges = append(edges, [2]int{i, i + 1})
	}
	g := build(t, n, edges)
	r, err := Run(context.Background(), g)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.ComponentCount() != n {
		t.Fatalf("a DAG chain should yield n singleton components, got %d", r.ComponentCount())
	}
}
