// Package tarjan implements Tarjan's strongly-connected-components
// algorithm: a single DFS pass tracking discovery index, lowlink, and an
// explicit "on stack" set. The recursive textbook formulation is restated
// here as an explicit-stack state machine so a chain of several hundred
// thousand vertices cannot blow the goroutine stack.
package tarjan

import (
	"context"

	"github.com/wyfcoding/scc/graph"
	"github.com/wyfcoding/scc/logging"
	"github.com/wyfcoding/scc/sccresult"
	"github.com/wyfcoding/scc/xerrors"
)

const unvisited = -1

// frame is one simulated recursive-call activation for vertex v: it
// remembers how far the out-edge enumeration has progressed so the engine
// can resume it after "returning" from a child.
type frame struct {
	v         int
	edgeIndex int
	edges     []int
}

// Stats reports observational counters from one run.
type Stats struct {
	// MaxStackDepth is the deepest the explicit DFS frame stack grew,
	// i.e. the recursion depth the textbook formulation would have needed.
	MaxStackDepth int
}

// Run computes the SCC partition of g using Tarjan's algorithm. ctx is
// used only for cancellation and tracing, never for correctness.
func Run(ctx context.Context, g *graph.Graph) (*sccresult.Result, error) {
	result, _, err := RunWithStats(ctx, g)
	return result, err
}

// RunWithStats is Run plus per-run Stats, for benchmark reporting.
func RunWithStats(ctx context.Context, g *graph.Graph) (*sccresult.Result, Stats, error) {
	var stats Stats
	if g == nil {
		return nil, stats, xerrors.ErrNullPointer
	}
	n := g.NumVertices()
	if n == 0 {
		return nil, stats, xerrors.ErrGraphEmpty
	}

	defer logging.LogDuration(ctx, "tarjan.Run", "vertices", n, "edges", g.NumEdges())()

	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = unvisited
	}

	builder, err := sccresult.NewBuilder(n)
	if err != nil {
		return nil, stats, err
	}

	nextIndex := 0
	var componentStack []int
	var callStack []frame

	outEdges := func(v int) []int {
		var dests []int
		if d, derr := g.OutDegree(v); derr == nil {
			dests = make([]int, 0, d)
		}
		graph.Walk(g, v, func(dst int) { dests = append(dests, dst) })
		return dests
	}

	pushFrame := func(v int) {
		index[v] = nextIndex
		lowlink[v] = nextIndex
		nextIndex++
		componentStack = append(componentStack, v)
		onStack[v] = true
		callStack = append(callStack, frame{v: v, edges: outEdges(v)})
		if len(callStack) > stats.MaxStackDepth {
			stats.MaxStackDepth = len(callStack)
		}
	}

	for start := 0; start < n; start++ {
		if index[start] != unvisited {
			continue
		}
		pushFrame(start)

		for len(callStack) > 0 {
			select {
			case <-ctx.Done():
				return nil, stats, ctx.Err()
			default:
			}

			top := &callStack[len(callStack)-1]
			if top.edgeIndex < len(top.edges) {
				w := top.edges[top.edgeIndex]
				top.edgeIndex++
				switch {
				case index[w] == unvisited:
					pushFrame(w)
				case onStack[w]:
					if index[w] < lowlink[top.v] {
						lowlink[top.v] = index[w]
					}
				}
				continue
			}

			// Every edge out of top.v has been explored: "return" from it.
			v := top.v
			callStack = callStack[:len(callStack)-1]
			if len(callStack) > 0 {
				parent := &callStack[len(callStack)-1]
				if lowlink[v] < lowlink[parent.v] {
					lowlink[parent.v] = lowlink[v]
				}
			}

			if lowlink[v] == index[v] {
				compID, cErr := builder.StartComponent()
				if cErr != nil {
					return nil, stats, cErr
				}
				for {
					w := componentStack[len(componentStack)-1]
					componentStack = componentStack[:len(componentStack)-1]
					onStack[w] = false
					if aErr := builder.Assign(w, compID); aErr != nil {
						return nil, stats, aErr
					}
					if w == v {
						break
					}
				}
			}
		}
	}

	result, err := builder.Build()
	if err != nil {
		return nil, stats, err
	}
	logging.Debug(ctx, "tarjan.Run complete",
		"components", result.ComponentCount(), "max_stack_depth", stats.MaxStackDepth)
	return result, stats, nil
}
