// Package kosaraju implements Kosaraju's strongly-connected-components
// algorithm: a finish-order DFS over g
// followed by a second DFS over g's transpose, visiting vertices in
// decreasing finish order. Both passes are restated iteratively, for the
// same stack-depth reason as package tarjan.
package kosaraju

import (
	"context"

	"github.com/wyfcoding/scc/graph"
	"github.com/wyfcoding/scc/logging"
	"github.com/wyfcoding/scc/sccresult"
	"github.com/wyfcoding/scc/xerrors"
)

// Run computes the SCC partition of g using Kosaraju's algorithm. It
// builds and discards its own transpose of g; callers who already hold a
// transpose should prefer RunWithTranspose to avoid the extra O(V+E) copy.
func Run(ctx context.Context, g *graph.Graph) (*sccresult.Result, error) {
	if g == nil {
		return nil, xerrors.ErrNullPointer
	}
	transposed, err := g.Transpose()
	if err != nil {
		return nil, err
	}
	return RunWithTranspose(ctx, g, transposed)
}

// RunWithTranspose computes the SCC partition of g given a caller-supplied
// transpose gt (gt must satisfy gt.HasEdge(b,a) iff g.HasEdge(a,b), with
// the same vertex count). Ownership of gt is not taken; the caller
// destroys it.
func RunWithTranspose(ctx context.Context, g, gt *graph.Graph) (*sccresult.Result, error) {
	if g == nil || gt == nil {
		return nil, xerrors.ErrNullPointer
	}
	n := g.NumVertices()
	if n == 0 {
		return nil, xerrors.ErrGraphEmpty
	}
	if gt.NumVertices() != n {
		return nil, xerrors.ErrInvalidParameter
	}

	defer logging.LogDuration(ctx, "kosaraju.Run", "vertices", n, "edges", g.NumEdges())()

	order, err := finishOrder(ctx, g, n)
	if err != nil {
		return nil, err
	}

	builder, err := sccresult.NewBuilder(n)
	if err != nil {
		return nil, err
	}

	visited := make([]bool, n)
	for i := len(order) - 1; i >= 0; i-- {
		root := order[i]
		if visited[root] {
			continue
		}
		compID, cErr := builder.StartComponent()
		if cErr != nil {
			return nil, cErr
		}
		if wErr := collectComponent(ctx, gt, root, visited, func(v int) error {
			return builder.Assign(v, compID)
		}); wErr != nil {
			return nil, wErr
		}
	}

	result, err := builder.Build()
	if err != nil {
		return nil, err
	}
	logging.Debug(ctx, "kosaraju.Run complete", "components", result.ComponentCount())
	return result, nil
}

// finishOrder returns vertices of g in increasing DFS finish-time order,
// via an explicit post-order stack so that deep graphs don't recurse.
func finishOrder(ctx context.Context, g *graph.Graph, n int) ([]int, error) {
	visited := make([]bool, n)
	order := make([]int, 0, n)

	type frame struct {
		v         int
		edgeIndex int
		edges     []int
	}

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		visited[start] = true
		stack := []frame{{v: start, edges: neighbors(g, start)}}

		for len(stack) > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			top := &stack[len(stack)-1]
			if top.edgeIndex < len(top.edges) {
				w := top.edges[top.edgeIndex]
				top.edgeIndex++
				if !visited[w] {
					visited[w] = true
					stack = append(stack, frame{v: w, edges: neighbors(g, w)})
				}
				continue
			}
			order = append(order, top.v)
			stack = stack[:len(stack)-1]
		}
	}
	return order, nil
}

// collectComponent performs an iterative DFS over gt rooted at root,
// calling assign for every unvisited vertex it reaches, including root.
func collectComponent(ctx context.Context, gt *graph.Graph, root int, visited []bool, assign func(int) error) error {
	visited[root] = true
	stack := []int{root}
	if err := assign(root); err != nil {
		return err
	}
	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		var next []int
		graph.Walk(gt, v, func(w int) {
			if !visited[w] {
				visited[w] = true
				next = append(next, w)
			}
		})
		for _, w := range next {
			if err := assign(w); err != nil {
				return err
			}
			stack = append(stack, w)
		}
	}
	return nil
}

func neighbors(g *graph.Graph, v int) []int {
	var out []int
	graph.Walk(g, v, func(dst int) { out = append(out, dst) })
	return out
}
