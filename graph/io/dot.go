package io

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"

	"github.com/wyfcoding/scc/graph"
)

// WriteDOT writes g as a standard "digraph G { ... }": one
// statement per vertex (id [label="id"];) and one per edge (src -> dst;).
func WriteDOT(w io.Writer, g *graph.Graph) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("digraph G {\n"); err != nil {
		return err
	}
	n := g.NumVertices()
	for v := 0; v < n; v++ {
		if _, err := fmt.Fprintf(bw, "  %d [label=\"%d\"];\n", v, v); err != nil {
			return err
		}
	}
	it := g.Edges()
	for it.Next() {
		src, dst := it.Edge()
		if _, err := fmt.Fprintf(bw, "  %d -> %d;\n", src, dst); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("}\n"); err != nil {
		return err
	}
	return bw.Flush()
}

// RenderCondensationPNG renders the condensation DAG g (typically the
// output of dispatch.BuildCondensation) to PNG via goccy/go-graphviz, for
// diagnostic use. It is a pure collaborator: no algorithm package calls it.
func RenderCondensationPNG(ctx context.Context, g *graph.Graph) ([]byte, error) {
	var dot bytes.Buffer
	if err := WriteDOT(&dot, g); err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("graph/io: init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes(dot.Bytes())
	if err != nil {
		return nil, fmt.Errorf("graph/io: parse DOT: %w", err)
	}
	defer parsed.Close()

	var png bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.PNG, &png); err != nil {
		return nil, fmt.Errorf("graph/io: render PNG: %w", err)
	}
	return png.Bytes(), nil
}
