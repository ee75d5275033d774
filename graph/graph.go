// Package graph implements a mutable directed-graph store:
// per-vertex out-edge lists, add/remove/has edge, transpose, copy, and an
// O(V+E) integrity check. It is the only package the SCC engines (tarjan,
// kosaraju) and the dispatcher (dispatch) read from; it has no dependency
// on any particular I/O, cache or CLI collaborator.
package graph

import (
	"log/slog"

	"github.com/wyfcoding/scc/arena"
	"github.com/wyfcoding/scc/xerrors"
)

const defaultCapacity = 16

// edgeNode is one link in a vertex's singly linked out-edge list.
type edgeNode struct {
	dest int
	next *edgeNode
	blk  []byte // arena block backing this node, nil without an arena
}

// vertexNode is one slot in the graph's dense vertex table.
type vertexNode struct {
	id        int
	edges     *edgeNode
	outDegree int
	data      any    // opaque per-vertex user pointer; algorithms must ignore it
	blk       []byte // arena block backing this node, nil without an arena
}

// MutationKind identifies which public operation produced a MutationEvent.
type MutationKind int

const (
	// MutationAddVertex fires after a successful AddVertex.
	MutationAddVertex MutationKind = iota
	// MutationAddEdge fires after a successful AddEdge.
	MutationAddEdge
	// MutationRemoveEdge fires after a successful RemoveEdge.
	MutationRemoveEdge
)

// MutationHook is invoked synchronously, on the calling goroutine, after
// every successful mutating operation. The library does not maintain SCC
// results incrementally; a host wires this hook to invalidate a cache or
// trigger Dispatcher.Recompute instead.
type MutationHook func(kind MutationKind, g *Graph)

// Graph is a named, mutable adjacency-list directed graph: its
// "Graph" container. Ids are assigned in insertion order starting at 0 and
// are never reused.
type Graph struct {
	vertices []*vertexNode
	numEdges int
	arena    *arena.Arena // optional: carves vertex/edge bookkeeping from a pool
	hook     MutationHook
	errCtx   *xerrors.Context

	// Handle is an optional process- or cluster-unique identifier a host may
	// assign via package idgen; algorithms never read it.
	Handle int64
}

const (
	vertexNodeSize = 32 // bookkeeping size charged to the arena per vertex
	edgeNodeSize   = 16 // bookkeeping size charged to the arena per edge
)

// Option configures a Graph at creation time.
type Option func(*Graph)

// WithArena backs vertex/edge bookkeeping accounting with a shared arena
// instead of the runtime allocator's implicit accounting.
func WithArena(a *arena.Arena) Option {
	return func(g *Graph) { g.arena = a }
}

// WithMutationHook registers a MutationHook invoked after every successful
// mutation.
func WithMutationHook(hook MutationHook) Option {
	return func(g *Graph) { g.hook = hook }
}

// WithHandle assigns a pre-generated handle (see package idgen) to the
// graph; purely metadata.
func WithHandle(handle int64) Option {
	return func(g *Graph) { g.Handle = handle }
}

// Create builds an empty graph. capacity == 0 selects a default capacity.
// capacity < 0 is InvalidParameter.
func Create(capacity int, opts ...Option) (*Graph, error) {
	if capacity < 0 {
		return nil, xerrors.ErrInvalidParameter
	}
	if capacity == 0 {
		capacity = defaultCapacity
	}

	g := &Graph{
		vertices: make([]*vertexNode, 0, capacity),
		errCtx:   xerrors.NewContext(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Destroy releases every vertex and edge node, returning their arena
// blocks when the graph is arena-backed. Idempotent on a nil Graph.
func (g *Graph) Destroy() {
	if g == nil {
		return
	}
	if g.arena != nil {
		for _, v := range g.vertices {
			for e := v.edges; e != nil; e = e.next {
				g.arena.Free(e.blk)
			}
			g.arena.Free(v.blk)
		}
	}
	g.vertices = nil
	g.numEdges = 0
}

// charge reserves one bookkeeping block from the arena, if any. The block
// is stored on the owning node so RemoveEdge/Destroy can hand it back.
func (g *Graph) charge(size int) []byte {
	if g.arena == nil {
		return nil
	}
	blk, err := g.arena.Alloc(size)
	if err != nil {
		slog.Warn("graph: arena accounting failed", "error", err)
		return nil
	}
	return blk
}

// NumVertices returns the current vertex count.
func (g *Graph) NumVertices() int {
	if g == nil {
		return 0
	}
	return len(g.vertices)
}

// NumEdges returns the current edge count; it must always equal
// Σ out_degree.
func (g *Graph) NumEdges() int {
	if g == nil {
		return 0
	}
	return g.numEdges
}

// LastError returns the most recently recorded error for this graph's
// per-execution-context register, or nil.
func (g *Graph) LastError() error {
	return g.errCtx.LastError()
}

// ClearLastError resets this graph's error register.
func (g *Graph) ClearLastError() {
	g.errCtx.ClearLastError()
}

func (g *Graph) fail(err *xerrors.Error) *xerrors.Error {
	g.errCtx.SetLastError(err)
	return err
}

func (g *Graph) validVertex(v int) bool {
	return v >= 0 && v < len(g.vertices)
}

// AddVertex appends a new vertex and returns its id (== previous
// NumVertices()).
func (g *Graph) AddVertex() (int, error) {
	if g == nil {
		return -1, xerrors.ErrNullPointer
	}
	id := len(g.vertices)
	g.vertices = append(g.vertices, &vertexNode{id: id, blk: g.charge(vertexNodeSize)})
	g.notify(MutationAddVertex)
	return id, nil
}

// AddEdge inserts src->dst. Self-loops are permitted. Duplicate insertion
// returns ErrEdgeExists and leaves the graph unchanged.
func (g *Graph) AddEdge(src, dst int) error {
	if g == nil {
		return xerrors.ErrNullPointer
	}
	if !g.validVertex(src) || !g.validVertex(dst) {
		return g.fail(xerrors.ErrInvalidVertex)
	}
	v := g.vertices[src]
	for e := v.edges; e != nil; e = e.next {
		if e.dest == dst {
			return g.fail(xerrors.ErrEdgeExists)
		}
	}
	v.edges = &edgeNode{dest: dst, next: v.edges, blk: g.charge(edgeNodeSize)}
	v.outDegree++
	g.numEdges++
	g.notify(MutationAddEdge)
	return nil
}

// RemoveEdge deletes src->dst if present, else returns ErrEdgeNotFound.
func (g *Graph) RemoveEdge(src, dst int) error {
	if g == nil {
		return xerrors.ErrNullPointer
	}
	if !g.validVertex(src) || !g.validVertex(dst) {
		return g.fail(xerrors.ErrInvalidVertex)
	}
	v := g.vertices[src]
	var prev *edgeNode
	for e := v.edges; e != nil; e = e.next {
		if e.dest == dst {
			if prev == nil {
				v.edges = e.next
			} else {
				prev.next = e.next
			}
			v.outDegree--
			g.numEdges--
			if g.arena != nil {
				g.arena.Free(e.blk)
			}
			g.notify(MutationRemoveEdge)
			return nil
		}
		prev = e
	}
	return g.fail(xerrors.ErrEdgeNotFound)
}

// HasEdge reports whether src->dst exists. Invalid indices yield false, not
// an error, matching the failure semantics for boolean queries.
func (g *Graph) HasEdge(src, dst int) bool {
	if g == nil || !g.validVertex(src) || !g.validVertex(dst) {
		return false
	}
	for e := g.vertices[src].edges; e != nil; e = e.next {
		if e.dest == dst {
			return true
		}
	}
	return false
}

// OutDegree returns out_degree(v).
func (g *Graph) OutDegree(v int) (int, error) {
	if g == nil {
		return -1, xerrors.ErrNullPointer
	}
	if !g.validVertex(v) {
		return -1, g.fail(xerrors.ErrInvalidVertex)
	}
	return g.vertices[v].outDegree, nil
}

// SetVertexData attaches an opaque user pointer to v; algorithms ignore it.
func (g *Graph) SetVertexData(v int, data any) error {
	if g == nil {
		return xerrors.ErrNullPointer
	}
	if !g.validVertex(v) {
		return g.fail(xerrors.ErrInvalidVertex)
	}
	g.vertices[v].data = data
	return nil
}

// VertexData returns the opaque user pointer attached to v, if any.
func (g *Graph) VertexData(v int) (any, error) {
	if g == nil {
		return nil, xerrors.ErrNullPointer
	}
	if !g.validVertex(v) {
		return nil, g.fail(xerrors.ErrInvalidVertex)
	}
	return g.vertices[v].data, nil
}

func (g *Graph) notify(kind MutationKind) {
	if g.hook != nil {
		g.hook(kind, g)
	}
}

// forEachOutEdge calls fn(dest) for every out-edge of v, in list order.
func (g *Graph) forEachOutEdge(v int, fn func(dest int)) {
	for e := g.vertices[v].edges; e != nil; e = e.next {
		fn(e.dest)
	}
}

// Walk calls fn(dest) for every out-edge of v, in list order. It is the
// only way engine packages (tarjan, kosaraju) observe a vertex's
// adjacency; it never allocates on the caller's behalf.
func Walk(g *Graph, v int, fn func(dest int)) {
	if g == nil || !g.validVertex(v) {
		return
	}
	g.forEachOutEdge(v, fn)
}

// Transpose returns a new graph with every edge reversed.
func (g *Graph) Transpose() (*Graph, error) {
	if g == nil {
		return nil, xerrors.ErrNullPointer
	}
	t, err := Create(len(g.vertices))
	if err != nil {
		return nil, err
	}
	for len(t.vertices) < len(g.vertices) {
		if _, vErr := t.AddVertex(); vErr != nil {
			return nil, vErr
		}
	}
	for src := range g.vertices {
		g.forEachOutEdge(src, func(dst int) {
			_ = t.AddEdge(dst, src)
		})
	}
	return t, nil
}

// Copy returns a structurally identical graph; per-vertex user pointers
// are shallow-copied. The two graphs share no mutable state.
func (g *Graph) Copy() (*Graph, error) {
	if g == nil {
		return nil, xerrors.ErrNullPointer
	}
	c, err := Create(len(g.vertices))
	if err != nil {
		return nil, err
	}
	for i := range g.vertices {
		if _, vErr := c.AddVertex(); vErr != nil {
			return nil, vErr
		}
		c.vertices[i].data = g.vertices[i].data
	}
	for src := range g.vertices {
		// Preserve insertion order: the source list is newest-first, so
		// walk and re-add in reverse to land in the same order in c.
		var dests []int
		g.forEachOutEdge(src, func(dst int) { dests = append(dests, dst) })
		for i := len(dests) - 1; i >= 0; i-- {
			if aErr := c.AddEdge(src, dests[i]); aErr != nil {
				return nil, aErr
			}
		}
	}
	return c, nil
}

// EdgeIterator produces a lazy, restartable sequence of (src, dst) pairs
// visiting every edge of a Graph exactly once, in graph-layout order
// (vertex-major, then per-vertex list order): the "edge
// iterator". Mutating the graph while an iterator is live invalidates it;
// the iterator holds no lock and does not detect this.
type EdgeIterator struct {
	g       *Graph
	vertex  int
	cur     *edgeNode
	src     int
	dst     int
}

// Edges returns a fresh EdgeIterator positioned before the first edge.
func (g *Graph) Edges() *EdgeIterator {
	return &EdgeIterator{g: g, vertex: -1}
}

// Next advances the iterator and reports whether an edge is available. Call
// Edge to read it.
func (it *EdgeIterator) Next() bool {
	if it.g == nil {
		return false
	}
	for {
		if it.cur != nil {
			it.src, it.dst = it.vertex, it.cur.dest
			it.cur = it.cur.next
			return true
		}
		it.vertex++
		if it.vertex >= len(it.g.vertices) {
			return false
		}
		it.cur = it.g.vertices[it.vertex].edges
	}
}

// Edge returns the (src, dst) pair the most recent successful Next produced.
func (it *EdgeIterator) Edge() (int, int) {
	return it.src, it.dst
}

// Reset rewinds the iterator to before the first edge, so it can be reused.
func (it *EdgeIterator) Reset() {
	it.vertex = -1
	it.cur = nil
}

// IntegrityCheck verifies the store's structural invariants. It is the only
// expensive public check (O(V+E)), primarily intended for tests.
func (g *Graph) IntegrityCheck() error {
	if g == nil {
		return xerrors.ErrNullPointer
	}
	total := 0
	for i, v := range g.vertices {
		if v.id != i {
			return xerrors.ErrInvalidParameter
		}
		seen := make(map[int]struct{}, v.outDegree)
		count := 0
		for e := v.edges; e != nil; e = e.next {
			if e.dest < 0 || e.dest >= len(g.vertices) {
				return xerrors.ErrInvalidVertex
			}
			if _, dup := seen[e.dest]; dup {
				return xerrors.ErrEdgeExists
			}
			seen[e.dest] = struct{}{}
			count++
		}
		if count != v.outDegree {
			return xerrors.ErrInvalidParameter
		}
		total += count
	}
	if total != g.numEdges {
		return xerrors.ErrInvalidParameter
	}
	return nil
}
