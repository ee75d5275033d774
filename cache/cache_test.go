package cache

import (
	"context"
	"testing"
	"time"

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

func TestFingerprintIsStableAndEdgeSetSensitive(t *testing.T) {
	a := build(t, 3, [][2]int{{0, 1}, {1, 2}})
	b := build(t, 3, [][2]int{{0, 1}, {1, 2}})
	if Fingerprint(a) != Fingerprint(b) {
		t.Fatal("identical graphs should fingerprint identically")
	}

	c := build(t, 3, [][2]int{{0, 1}, {1, 2}, {2, 0}})
	if Fingerprint(a) == Fingerprint(c) {
		t.Fatal("graphs with different edge sets should fingerprint differently")
	}
}

func TestPutThenGetRoundTrips(t *testing.T) {
	ctx := context.Background()
	rc, err := New(ctx, time.Minute, 8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	entry := &Entry{Engine: "tarjan", VertexComponent: []int{0, 0, 1}, ComponentCount: 2}
	if err := rc.Put(ctx, "fp1", entry); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok := rc.Get(ctx, "fp1")
	if !ok {
		t.Fatal("expected a cache hit after Put")
	}
	if got.Engine != entry.Engine || got.ComponentCount != entry.ComponentCount {
		t.Fatalf("round-tripped entry mismatch: %+v vs %+v", got, entry)
	}
}

func TestGetMissOnUnknownKey(t *testing.T) {
	ctx := context.Background()
	rc, err := New(ctx, time.Minute, 8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := rc.Get(ctx, "never-put"); ok {
		t.Fatal("expected a miss for a key never written")
	}
}

func TestInvalidateRemovesEntry(t *testing.T) {
	ctx := context.Background()
	rc, err := New(ctx, time.Minute, 8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	entry := &Entry{Engine: "kosaraju", VertexComponent: []int{0}, ComponentCount: 1}
	if err := rc.Put(ctx, "fp2", entry); err != nil {
		t.Fatalf("Put: %v", err)
	}
	rc.Invalidate(ctx, "fp2")
	if _, ok := rc.Get(ctx, "fp2"); ok {
		t.Fatal("entry should be gone after Invalidate")
	}
}

func TestNilResultCacheIsAlwaysMiss(t *testing.T) {
	var rc *ResultCache
	if _, ok := rc.Get(context.Background(), "anything"); ok {
		t.Fatal("nil *ResultCache should always miss")
	}
	if err := rc.Put(context.Background(), "anything", &Entry{}); err != nil {
		t.Fatalf("Put on nil *ResultCache should be a no-op, got %v", err)
	}
}
