// Package benchmark runs both SCC engines on the same graph, concurrently
// (concurrent reads of one graph are safe), and records per-engine timing,
// peak-byte estimates, Tarjan's maximum DFS stack depth, Kosaraju's
// transpose edge count, and whether the two partitions agree. The record is
// observational, not authoritative: tests compare partitions directly.
package benchmark

import (
	"context"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/wyfcoding/scc/graph"
	"github.com/wyfcoding/scc/kosaraju"
	"github.com/wyfcoding/scc/sccresult"
	"github.com/wyfcoding/scc/tarjan"
)

// Result is the benchmark record.
type Result struct {
	TarjanMillis        float64
	KosarajuMillis      float64
	TarjanPeakBytes     int64
	KosarajuPeakBytes   int64
	TarjanComponents    int
	KosarajuComponents  int
	TarjanMaxStackDepth int
	TransposeEdgeCount  int
	ResultsMatch        bool
	TarjanErr           error
	KosarajuErr         error
}

// Run executes both Tarjan and Kosaraju against g concurrently and reports
// a Result. It never mutates g, so running it from multiple goroutines
// against the same graph is safe.
func Run(ctx context.Context, g *graph.Graph) *Result {
	r := &Result{}
	var tarjanResult, kosarajuResult *sccresult.Result

	wg := conc.WaitGroup{}
	wg.Go(func() {
		start := time.Now()
		res, stats, err := tarjan.RunWithStats(ctx, g)
		r.TarjanMillis = float64(time.Since(start).Microseconds()) / 1000
		r.TarjanErr = err
		r.TarjanMaxStackDepth = stats.MaxStackDepth
		tarjanResult = res
		if err == nil {
			r.TarjanComponents = res.ComponentCount()
		}
		r.TarjanPeakBytes = estimatePeakBytes(g.NumVertices(), g.NumEdges())
	})
	wg.Go(func() {
		transposed, tErr := g.Transpose()
		if tErr != nil {
			r.KosarajuErr = tErr
			return
		}
		r.TransposeEdgeCount = transposed.NumEdges()
		start := time.Now()
		res, err := kosaraju.RunWithTranspose(ctx, g, transposed)
		r.KosarajuMillis = float64(time.Since(start).Microseconds()) / 1000
		r.KosarajuErr = err
		kosarajuResult = res
		if err == nil {
			r.KosarajuComponents = res.ComponentCount()
		}
		r.KosarajuPeakBytes = estimatePeakBytes(g.NumVertices(), transposed.NumEdges())
	})
	wg.Wait()

	r.ResultsMatch = partitionsEqual(tarjanResult, kosarajuResult)
	return r
}

// estimatePeakBytes is a rough order-of-magnitude estimate of an engine's
// working-set size: the dense per-vertex arrays (index/lowlink/onStack or
// visited/finish-order) plus one int per edge for adjacency traversal.
func estimatePeakBytes(vertices, edges int) int64 {
	const intSize = 8
	return int64(vertices)*3*intSize + int64(edges)*intSize
}

// partitionsEqual reports whether two results group the vertices
// identically, ignoring component ids and intra-component ordering.
func partitionsEqual(a, b *sccresult.Result) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.NumVertices() != b.NumVertices() || a.ComponentCount() != b.ComponentCount() {
		return false
	}
	n := a.NumVertices()
	// Map each a-component id to the b-component id of its first vertex,
	// then check every vertex sharing an a-component also shares a b-component.
	aToB := make(map[int]int, a.ComponentCount())
	for v := 0; v < n; v++ {
		ca, err := a.ComponentOf(v)
		if err != nil {
			return false
		}
		cb, err := b.ComponentOf(v)
		if err != nil {
			return false
		}
		if existing, ok := aToB[ca]; ok {
			if existing != cb {
				return false
			}
		} else {
			aToB[ca] = cb
		}
	}
	return true
}
