// Package runner implements the assertion groups cmd/sccbench's module
// selectors drive: each group exercises one package against a fixed set of
// scenario graphs and boundary behaviors, independent of the package-level
// Go tests (which run under `go test`, not this binary).
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	graphio "github.com/wyfcoding/scc/graph/io"

	"github.com/wyfcoding/scc/arena"
	"github.com/wyfcoding/scc/benchmark"
	"github.com/wyfcoding/scc/dispatch"
	"github.com/wyfcoding/scc/graph"
	"github.com/wyfcoding/scc/kosaraju"
	"github.com/wyfcoding/scc/sccresult"
	"github.com/wyfcoding/scc/tarjan"
)

// Assertion is one pass/fail check within a group.
type Assertion struct {
	Name string
	Err  error
}

// Group collects the assertions run for one selector.
type Group struct {
	Selector   string
	Assertions []Assertion
}

// Passed reports whether every assertion in the group succeeded.
func (g Group) Passed() bool {
	for _, a := range g.Assertions {
		if a.Err != nil {
			return false
		}
	}
	return true
}

// Report is the result of one Run invocation.
type Report struct {
	Groups []Group
}

// Passed reports whether every run group passed.
func (r *Report) Passed() bool {
	for _, g := range r.Groups {
		if !g.Passed() {
			return false
		}
	}
	return true
}

// FailedCount returns the number of groups with at least one failed
// assertion.
func (r *Report) FailedCount() int {
	n := 0
	for _, g := range r.Groups {
		if !g.Passed() {
			n++
		}
	}
	return n
}

// Print writes a human-readable summary to w.
func (r *Report) Print(w io.Writer) {
	for _, g := range r.Groups {
		status := "PASS"
		if !g.Passed() {
			status = "FAIL"
		}
		fmt.Fprintf(w, "[%s] %s (%d assertions)\n", status, g.Selector, len(g.Assertions))
		for _, a := range g.Assertions {
			if a.Err != nil {
				fmt.Fprintf(w, "    FAIL %s: %v\n", a.Name, a.Err)
			}
		}
	}
}

var groupFuncs = map[string]func(context.Context) Group{
	"graph":       runGraph,
	"scc":         runSCC,
	"tarjan":      runTarjan,
	"kosaraju":    runKosaraju,
	"memory":      runMemory,
	"utils":       runUtils,
	"io":          runIO,
	"integration": runIntegration,
	"performance": runPerformance,
}

// Run executes every group named by selectors ("all" expands to every
// group) and returns the combined Report.
func Run(ctx context.Context, selectors []string) (*Report, error) {
	names := selectors
	for _, s := range selectors {
		if s == "all" {
			names = allGroupNames()
			break
		}
	}

	report := &Report{}
	for _, name := range names {
		fn, ok := groupFuncs[name]
		if !ok {
			return nil, fmt.Errorf("runner: no such group %q", name)
		}
		report.Groups = append(report.Groups, fn(ctx))
	}
	return report, nil
}

func allGroupNames() []string {
	names := make([]string, 0, len(groupFuncs))
	for name := range groupFuncs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func check(g *Group, name string, err error) {
	g.Assertions = append(g.Assertions, Assertion{Name: name, Err: err})
}

func checkTrue(g *Group, name string, ok bool, msg string) {
	var err error
	if !ok {
		err = fmt.Errorf("%s", msg)
	}
	check(g, name, err)
}

// buildGraph constructs a graph.Graph of n vertices with the given edges.
func buildGraph(n int, edges [][2]int) (*graph.Graph, error) {
	g, err := graph.Create(n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if _, err := g.AddVertex(); err != nil {
			return nil, err
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// partitionKey produces a comparable, order-independent signature of a
// Result's grouping of vertices into components, so assertions compare
// partitions rather than ordered component lists.
func partitionKey(r *sccresult.Result) [][]int {
	groups := make(map[int][]int)
	for v := 0; v < r.NumVertices(); v++ {
		c, _ := r.ComponentOf(v)
		groups[c] = append(groups[c], v)
	}
	out := make([][]int, 0, len(groups))
	for _, vs := range groups {
		sort.Ints(vs)
		out = append(out, vs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

func samePartition(a, b [][]int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

// scenarios are the small fixed graphs S1-S5; the 1000-vertex cycle S6 is
// exercised separately by runPerformance.
type scenario struct {
	name       string
	vertices   int
	edges      [][2]int
	partitions [][]int
}

var scenarios = []scenario{
	{"S1", 3, [][2]int{{0, 1}, {1, 2}, {2, 0}}, [][]int{{0, 1, 2}}},
	{"S2", 4, [][2]int{{0, 1}, {1, 2}, {2, 0}}, [][]int{{0, 1, 2}, {3}}},
	{"S3", 6, [][2]int{{0, 1}, {1, 0}, {2, 3}, {3, 4}, {4, 2}, {1, 2}, {4, 5}}, [][]int{{0, 1}, {2, 3, 4}, {5}}},
	{"S4", 3, [][2]int{{0, 0}, {1, 1}, {2, 2}, {0, 1}, {1, 2}}, [][]int{{0}, {1}, {2}}},
	{"S5", 8, [][2]int{{0, 1}, {1, 2}, {2, 0}, {3, 4}, {4, 3}, {5, 6}, {6, 7}, {7, 5}, {2, 3}, {4, 5}, {1, 6}}, [][]int{{0, 1, 2}, {3, 4}, {5, 6, 7}}},
}

func normalize(groups [][]int) [][]int {
	out := make([][]int, len(groups))
	for i, g := range groups {
		cp := append([]int(nil), g...)
		sort.Ints(cp)
		out[i] = cp
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

func runGraph(ctx context.Context) Group {
	g := Group{Selector: "graph"}

	gr, err := buildGraph(3, [][2]int{{0, 1}, {1, 2}})
	check(&g, "create+add", err)
	if err == nil {
		checkTrue(&g, "has_edge", gr.HasEdge(0, 1), "expected edge 0->1")
		checkTrue(&g, "duplicate_edge", gr.AddEdge(0, 1) != nil, "duplicate add should fail")
		checkTrue(&g, "remove_missing", gr.RemoveEdge(2, 0) != nil, "remove of missing edge should fail")
		check(&g, "integrity", gr.IntegrityCheck())

		t, tErr := gr.Transpose()
		check(&g, "transpose", tErr)
		if tErr == nil {
			checkTrue(&g, "transpose_edge", t.HasEdge(1, 0), "transpose should reverse 0->1")
			tt, ttErr := t.Transpose()
			check(&g, "transpose_involution", ttErr)
			if ttErr == nil {
				checkTrue(&g, "transpose_involution_edges", tt.HasEdge(0, 1) && tt.NumEdges() == gr.NumEdges(), "double transpose should match original edge set")
			}
		}

		c, cErr := gr.Copy()
		check(&g, "copy", cErr)
		if cErr == nil {
			_ = gr.AddEdge(2, 0)
			checkTrue(&g, "copy_independence", !c.HasEdge(2, 0), "mutating original must not affect copy")
		}
	}
	return g
}

func runSCC(ctx context.Context) Group {
	g := Group{Selector: "scc"}
	d := dispatch.New()
	for _, sc := range scenarios {
		gr, err := buildGraph(sc.vertices, sc.edges)
		if check(&g, sc.name+"_build", err); err != nil {
			continue
		}
		result, err := d.Find(ctx, gr)
		if check(&g, sc.name+"_find", err); err != nil {
			continue
		}
		checkTrue(&g, sc.name+"_partition", samePartition(partitionKey(result), normalize(sc.partitions)),
			fmt.Sprintf("expected partition %v, got %v", sc.partitions, partitionKey(result)))
	}

	ok, err := d.IsStronglyConnected(ctx, mustGraph(buildGraph(3, [][2]int{{0, 1}, {1, 2}, {2, 0}})))
	check(&g, "is_strongly_connected_true", err)
	checkTrue(&g, "is_strongly_connected_true_value", ok, "S1 graph should be strongly connected")

	empty, _ := graph.Create(0)
	connected, _ := d.IsStronglyConnected(ctx, empty)
	checkTrue(&g, "is_strongly_connected_empty", !connected, "empty graph must report false")
	return g
}

func runTarjan(ctx context.Context) Group {
	g := Group{Selector: "tarjan"}
	for _, sc := range scenarios {
		gr, err := buildGraph(sc.vertices, sc.edges)
		if check(&g, sc.name+"_build", err); err != nil {
			continue
		}
		result, err := tarjan.Run(ctx, gr)
		if check(&g, sc.name+"_run", err); err != nil {
			continue
		}
		checkTrue(&g, sc.name+"_partition", samePartition(partitionKey(result), normalize(sc.partitions)), "partition mismatch")
	}
	empty, _ := graph.Create(0)
	_, err := tarjan.Run(ctx, empty)
	checkTrue(&g, "empty_graph_error", err != nil, "empty graph should error")
	return g
}

func runKosaraju(ctx context.Context) Group {
	g := Group{Selector: "kosaraju"}
	for _, sc := range scenarios {
		gr, err := buildGraph(sc.vertices, sc.edges)
		if check(&g, sc.name+"_build", err); err != nil {
			continue
		}
		result, err := kosaraju.Run(ctx, gr)
		if check(&g, sc.name+"_run", err); err != nil {
			continue
		}
		checkTrue(&g, sc.name+"_partition", samePartition(partitionKey(result), normalize(sc.partitions)), "partition mismatch")
	}
	return g
}

func runMemory(ctx context.Context) Group {
	g := Group{Selector: "memory"}
	a, err := arena.New(32, 8)
	check(&g, "arena_new", err)
	if err == nil {
		blk, aErr := a.Alloc(16)
		check(&g, "arena_alloc", aErr)
		checkTrue(&g, "arena_used", a.UsedSize() > 0, "used size should be positive after alloc")
		a.Free(blk)
		a.Reset()
		checkTrue(&g, "arena_reset", a.UsedSize() == 0, "used size should be zero after reset")
		a.Destroy()
	}
	return g
}

func runUtils(ctx context.Context) Group {
	g := Group{Selector: "utils"}
	gr, err := buildGraph(4, [][2]int{{0, 1}, {1, 2}, {2, 0}})
	check(&g, "build", err)
	if err == nil {
		d, _ := gr.OutDegree(0)
		checkTrue(&g, "out_degree", d == 1, "vertex 0 should have out_degree 1")
		checkTrue(&g, "has_edge_invalid", !gr.HasEdge(-1, 0), "invalid vertex should report false, not panic")
	}
	return g
}

func runIO(ctx context.Context) Group {
	g := Group{Selector: "io"}
	gr, err := buildGraph(3, [][2]int{{0, 1}, {1, 2}, {2, 0}})
	check(&g, "build", err)
	if err != nil {
		return g
	}

	var edgeBuf bytes.Buffer
	check(&g, "write_edgelist", graphio.WriteEdgeList(&edgeBuf, gr))
	parsed, err := graphio.ReadEdgeList(&edgeBuf)
	check(&g, "read_edgelist", err)
	if err == nil {
		checkTrue(&g, "edgelist_roundtrip", parsed.NumVertices() == gr.NumVertices() && parsed.NumEdges() == gr.NumEdges(), "edge-list round-trip should preserve counts")
	}

	var adjBuf bytes.Buffer
	check(&g, "write_adjacency", graphio.WriteAdjacencyList(&adjBuf, gr))
	parsedAdj, err := graphio.ReadAdjacencyList(&adjBuf)
	check(&g, "read_adjacency", err)
	if err == nil {
		checkTrue(&g, "adjacency_roundtrip", parsedAdj.NumEdges() == gr.NumEdges(), "adjacency-list round-trip should preserve edge count")
	}

	var dotBuf bytes.Buffer
	check(&g, "write_dot", graphio.WriteDOT(&dotBuf, gr))
	return g
}

func runIntegration(ctx context.Context) Group {
	g := Group{Selector: "integration"}
	gr, err := buildGraph(6, scenarios[2].edges) // S3
	check(&g, "build", err)
	if err != nil {
		return g
	}
	d := dispatch.New()
	result, err := d.Find(ctx, gr)
	check(&g, "find", err)
	if err != nil {
		return g
	}
	condensation, err := dispatch.BuildCondensation(ctx, gr, result)
	check(&g, "build_condensation", err)
	if err == nil {
		checkTrue(&g, "condensation_vertices", condensation.NumVertices() == result.ComponentCount(), "condensation vertex count should equal component count")
		checkTrue(&g, "condensation_edges", condensation.NumEdges() == 2, "S3's condensation should have exactly 2 cross edges")

		again, aErr := dispatch.New().Find(ctx, condensation)
		check(&g, "condensation_is_dag", aErr)
		if aErr == nil {
			checkTrue(&g, "condensation_acyclic", again.ComponentCount() == condensation.NumVertices(), "condensation recomputation should yield singleton components")
		}
	}
	return g
}

func runPerformance(ctx context.Context) Group {
	g := Group{Selector: "performance"}
	const n = 1000
	edges := make([][2]int, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, [2]int{i, (i + 1) % n})
	}
	gr, err := buildGraph(n, edges)
	check(&g, "build_chain", err)
	if err != nil {
		return g
	}
	bench := benchmark.Run(ctx, gr)
	check(&g, "tarjan_err", bench.TarjanErr)
	check(&g, "kosaraju_err", bench.KosarajuErr)
	checkTrue(&g, "s6_one_component", bench.TarjanComponents == 1 && bench.KosarajuComponents == 1, "S6's 1000-cycle chain should yield one component")
	checkTrue(&g, "results_match", bench.ResultsMatch, "Tarjan and Kosaraju must agree on the partition")
	return g
}

func mustGraph(g *graph.Graph, err error) *graph.Graph {
	if err != nil {
		panic(err)
	}
	return g
}
