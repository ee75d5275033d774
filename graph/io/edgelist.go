// Package io implements the three persisted graph formats (edge-list,
// adjacency-list, DOT) as collaborators: no algorithm package (graph,
// sccresult, tarjan, kosaraju, dispatch) imports this one.
package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wyfcoding/scc/graph"
)

// ReadEdgeList parses the edge-list format: one edge per line, two
// whitespace-separated non-negative integers "src dst". Lines whose first
// non-whitespace character is '#' are comments; blank lines are ignored.
// The maximum vertex id observed defines num_vertices.
func ReadEdgeList(r io.Reader) (*graph.Graph, error) {
	edges, maxID, err := scanPairs(r, 2)
	if err != nil {
		return nil, err
	}
	return buildFromEdges(edges, maxID)
}

// WriteEdgeList writes g in the edge-list format, one edge per
// line in graph-layout iteration order.
func WriteEdgeList(w io.Writer, g *graph.Graph) error {
	bw := bufio.NewWriter(w)
	it := g.Edges()
	for it.Next() {
		src, dst := it.Edge()
		if _, err := fmt.Fprintf(bw, "%d %d\n", src, dst); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadAdjacencyList parses the adjacency-list format: one source
// per line, first integer the source vertex, remaining integers its
// destinations. A source with no out-edges may be omitted from the file.
// Vertex ids that appear only as a destination still count toward
// num_vertices.
func ReadAdjacencyList(r io.Reader) (*graph.Graph, error) {
	scanner := bufio.NewScanner(r)
	type adjacency struct {
		src   int
		dests []int
	}
	var rows []adjacency
	maxID := -1

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		nums := make([]int, 0, len(fields))
		for _, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("graph/io: invalid integer %q: %w", f, err)
			}
			nums = append(nums, n)
			if n > maxID {
				maxID = n
			}
		}
		if len(nums) == 0 {
			continue
		}
		rows = append(rows, adjacency{src: nums[0], dests: nums[1:]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	g, err := graph.Create(maxID + 1)
	if err != nil {
		return nil, err
	}
	for i := 0; i <= maxID; i++ {
		if _, vErr := g.AddVertex(); vErr != nil {
			return nil, vErr
		}
	}
	for _, row := range rows {
		for _, dst := range row.dests {
			if err := g.AddEdge(row.src, dst); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// WriteAdjacencyList writes g in the adjacency-list format. A
// vertex with no out-edges is omitted, per the format's documented
// allowance.
func WriteAdjacencyList(w io.Writer, g *graph.Graph) error {
	bw := bufio.NewWriter(w)
	n := g.NumVertices()
	for v := 0; v < n; v++ {
		degree, err := g.OutDegree(v)
		if err != nil {
			return err
		}
		if degree == 0 {
			continue
		}
		if _, err := fmt.Fprintf(bw, "%d", v); err != nil {
			return err
		}
		graph.Walk(g, v, func(dst int) {
			fmt.Fprintf(bw, " %d", dst)
		})
		if _, err := bw.WriteString("\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// scanPairs reads lines of exactly width whitespace-separated integers,
// skipping comments and blank lines, and returns them alongside the
// largest integer seen across any column.
func scanPairs(r io.Reader, width int) ([][2]int, int, error) {
	scanner := bufio.NewScanner(r)
	var pairs [][2]int
	maxID := -1
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != width {
			return nil, -1, fmt.Errorf("graph/io: expected %d integers, got %q", width, line)
		}
		src, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, -1, fmt.Errorf("graph/io: invalid src %q: %w", fields[0], err)
		}
		dst, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, -1, fmt.Errorf("graph/io: invalid dst %q: %w", fields[1], err)
		}
		pairs = append(pairs, [2]int{src, dst})
		if src > maxID {
			maxID = src
		}
		if dst > maxID {
			maxID = dst
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, -1, err
	}
	return pairs, maxID, nil
}

func buildFromEdges(edges [][2]int, maxID int) (*graph.Graph, error) {
	g, err := graph.Create(maxID + 1)
	if err != nil {
		return nil, err
	}
	for i := 0; i <= maxID; i++ {
		if _, vErr := g.AddVertex(); vErr != nil {
			return nil, vErr
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, err
		}
	}
	return g, nil
}
