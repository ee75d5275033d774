package io

import (
	"bytes"
	"strings"
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

func TestEdgeListRoundTrip(t *testing.T) {
	g := build(t, 3, [][2]int{{0, 1}, {1, 2}, {2, 0}})
	var buf bytes.Buffer
	if err := WriteEdgeList(&buf, g); err != nil {
		t.Fatalf("WriteEdgeList: %v", err)
	}
	parsed, err := ReadEdgeList(&buf)
	if err != nil {
		t.Fatalf("ReadEdgeList: %v", err)
	}
	if parsed.NumVertices() != g.NumVertices() || parsed.NumEdges() != g.NumEdges() {
		t.Fatalf("round-trip mismatch: vertices %d/%d edges %d/%d",
			parsed.NumVertices(), g.NumVertices(), parsed.NumEdges(), g.NumEdges())
	}
}

func TestEdgeListSkipsCommentsAndBlankLines(t *testing.T) {
	r := strings.NewReader("# comment\n\n0 1\n  \n1 2\n")
	g, err := ReadEdgeList(r)
	if err != nil {
		t.Fatalf("ReadEdgeList: %v", err)
	}
	if g.NumEdges() != 2 {
		t.Fatalf("expected 2 edges, got %d", g.NumEdges())
	}
}

func TestAdjacencyListRoundTrip(t *testing.T) {
	g := build(t, 4, [][2]int{{0, 1}, {0, 2}, {1, 2}})
	var buf bytes.Buffer
	if err := WriteAdjacencyList(&buf, g); err != nil {
		t.Fatalf("WriteAdjacencyList: %v", err)
	}
	parsed, err := ReadAdjacencyList(&buf)
	if err != nil {
		t.Fatalf("ReadAdjacencyList: %v", err)
	}
	if parsed.NumEdges() != g.NumEdges() {
		t.Fatalf("expected %d edges, got %d", g.NumEdges(), parsed.NumEdges())
	}
}

func TestAdjacencyListOmitsZeroDegreeVertices(t *testing.T) {
	g := build(t, 3, [][2]int{{0, 1}})
	var buf bytes.Buffer
	if err := WriteAdjacencyList(&buf, g); err != nil {
		t.Fatalf("WriteAdjacencyList: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "1 ") || strings.HasPrefix(out, "1\n") {
		t.Fatalf("vertex 1 has out-degree 0 and should be omitted: %q", out)
	}
	if strings.Contains(out, "2 ") || strings.HasPrefix(out, "2\n") {
		t.Fatalf("vertex 2 has out-degree 0 and should be omitted: %q", out)
	}
}

func TestWriteDOTProducesValidDigraphSyntax(t *testing.T) {
	g := build(t, 2, [][2]int{{0, 1}})
	var buf bytes.Buffer
	if err := WriteDOT(&buf, g); err != nil {
		t.Fatalf("WriteDOT: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "digraph G {") {
		t.Fatalf("DOT output should start with digraph G {: %q", out)
	}
	if !strings.Contains(out, "0 -> 1;") {
		t.Fatalf("DOT output should contain the edge statement: %q", out)
	}
}
