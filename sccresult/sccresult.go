// Package sccresult implements the immutable-after-build SCC result
// container: the output shared by both
// the tarjan and kosaraju engines and consumed by package dispatch.
package sccresult

import (
	"sort"

	"github.com/wyfcoding/scc/xerrors"
)

// Result holds the SCC partition of a graph with V vertices: every vertex
// is assigned exactly one component id in [0, ComponentCount), and
// components are numbered in the order the producing engine finished them.
// A Result is built once via a Builder and is read-only thereafter.
type Result struct {
	vertexComponent  []int
	componentVertex  [][]int
	componentCount   int
	numVertices      int
}

// Builder accumulates vertex-to-component assignments for a graph with n
// vertices and yields an immutable Result.
type Builder struct {
	vertexComponent []int
	numVertices     int
	nextComponent   int
	sealed          bool
}

// NewBuilder allocates a Builder for a graph of n vertices. n == 0 is
// permitted and yields an empty Result; rejecting empty graphs is the
// engines' job, not the builder's.
func NewBuilder(n int) (*Builder, error) {
	if n < 0 {
		return nil, xerrors.ErrInvalidParameter
	}
	vc := make([]int, n)
	for i := range vc {
		vc[i] = -1
	}
	return &Builder{vertexComponent: vc, numVertices: n}, nil
}

// StartComponent reserves the next component id and returns it. Engines
// call it once per SCC discovered, in finishing order.
func (b *Builder) StartComponent() (int, error) {
	if b.sealed {
		return -1, xerrors.ErrInvalidParameter
	}
	id := b.nextComponent
	b.nextComponent++
	return id, nil
}

// Assign records that vertex v belongs to component id. Each vertex must be
// assigned exactly once; assigning it twice is an engine bug, not a caller
// error, and Assign rejects the second call with ErrInvalidParameter.
func (b *Builder) Assign(v, component int) error {
	if b.sealed {
		return xerrors.ErrInvalidParameter
	}
	if v < 0 || v >= b.numVertices {
		return xerrors.ErrInvalidVertex
	}
	if component < 0 || component >= b.nextComponent {
		return xerrors.ErrInvalidParameter
	}
	if b.vertexComponent[v] >= 0 {
		return xerrors.ErrInvalidParameter
	}
	b.vertexComponent[v] = component
	return nil
}

// Build seals the Builder and produces the Result. Every vertex must have
// been assigned to a component; Build returns ErrInvalidParameter if not,
// which indicates an engine defect rather than caller misuse.
func (b *Builder) Build() (*Result, error) {
	if b.sealed {
		return nil, xerrors.ErrInvalidParameter
	}
	componentVertex := make([][]int, b.nextComponent)
	for v, c := range b.vertexComponent {
		if c < 0 {
			return nil, xerrors.ErrInvalidParameter
		}
		componentVertex[c] = append(componentVertex[c], v)
	}
	b.sealed = true
	return &Result{
		vertexComponent: append([]int(nil), b.vertexComponent...),
		componentVertex: componentVertex,
		componentCount:  b.nextComponent,
		numVertices:     b.numVertices,
	}, nil
}

// ComponentCount returns the number of strongly connected components.
func (r *Result) ComponentCount() int {
	if r == nil {
		return 0
	}
	return r.componentCount
}

// NumVertices returns the vertex count of the graph this Result describes.
func (r *Result) NumVertices() int {
	if r == nil {
		return 0
	}
	return r.numVertices
}

// ComponentOf returns the component id of vertex v.
func (r *Result) ComponentOf(v int) (int, error) {
	if r == nil {
		return -1, xerrors.ErrNullPointer
	}
	if v < 0 || v >= r.numVertices {
		return -1, xerrors.ErrInvalidVertex
	}
	return r.vertexComponent[v], nil
}

// ComponentSize returns the number of vertices in component id.
func (r *Result) ComponentSize(id int) (int, error) {
	if r == nil {
		return -1, xerrors.ErrNullPointer
	}
	if id < 0 || id >= r.componentCount {
		return -1, xerrors.ErrInvalidParameter
	}
	return len(r.componentVertex[id]), nil
}

// ComponentVertices returns the vertex ids belonging to component id, in
// ascending id order; the order in which the engine assigned them is not
// kept. The returned slice must not be mutated by the caller.
func (r *Result) ComponentVertices(id int) ([]int, error) {
	if r == nil {
		return nil, xerrors.ErrNullPointer
	}
	if id < 0 || id >= r.componentCount {
		return nil, xerrors.ErrInvalidParameter
	}
	return r.componentVertex[id], nil
}

// IsTrivial reports whether component id is a singleton. A Result holds no
// edges, so whether that vertex has a self-loop is not considered.
func (r *Result) IsTrivial(id int) (bool, error) {
	size, err := r.ComponentSize(id)
	if err != nil {
		return false, err
	}
	return size == 1, nil
}

// LargestComponent returns the id of a component with the most vertices.
// Ties are broken by the lowest component id.
func (r *Result) LargestComponent() (int, error) {
	if r == nil {
		return -1, xerrors.ErrNullPointer
	}
	if r.componentCount == 0 {
		return -1, xerrors.ErrGraphEmpty
	}
	best, bestSize := 0, len(r.componentVertex[0])
	for id := 1; id < r.componentCount; id++ {
		if n := len(r.componentVertex[id]); n > bestSize {
			best, bestSize = id, n
		}
	}
	return best, nil
}

// LargestComponentSize returns the size of the largest component.
func (r *Result) LargestComponentSize() (int, error) {
	id, err := r.LargestComponent()
	if err != nil {
		return -1, err
	}
	return r.ComponentSize(id)
}

// SmallestComponentSize returns the size of the smallest component.
func (r *Result) SmallestComponentSize() (int, error) {
	if r == nil {
		return -1, xerrors.ErrNullPointer
	}
	if r.componentCount == 0 {
		return -1, xerrors.ErrGraphEmpty
	}
	best := len(r.componentVertex[0])
	for id := 1; id < r.componentCount; id++ {
		if n := len(r.componentVertex[id]); n < best {
			best = n
		}
	}
	return best, nil
}

// AverageComponentSize returns NumVertices/ComponentCount.
func (r *Result) AverageComponentSize() (float64, error) {
	if r == nil {
		return 0, xerrors.ErrNullPointer
	}
	if r.componentCount == 0 {
		return 0, xerrors.ErrGraphEmpty
	}
	return float64(r.numVertices) / float64(r.componentCount), nil
}

// SizeHistogram returns, for each distinct component size present, how many
// components have that size. Useful for benchmark reporting.
func (r *Result) SizeHistogram() map[int]int {
	if r == nil {
		return nil
	}
	hist := make(map[int]int)
	for _, vs := range r.componentVertex {
		hist[len(vs)]++
	}
	return hist
}

// DeepCopy returns an independent copy of r sharing no backing arrays.
func (r *Result) DeepCopy() (*Result, error) {
	if r == nil {
		return nil, xerrors.ErrNullPointer
	}
	cv := make([][]int, len(r.componentVertex))
	for i, vs := range r.componentVertex {
		cv[i] = append([]int(nil), vs...)
	}
	return &Result{
		vertexComponent: append([]int(nil), r.vertexComponent...),
		componentVertex: cv,
		componentCount:  r.componentCount,
		numVertices:     r.numVertices,
	}, nil
}

// IntegrityCheck verifies that every vertex is assigned to exactly one
// component and that component ids are dense in [0, ComponentCount).
func (r *Result) IntegrityCheck() error {
	if r == nil {
		return xerrors.ErrNullPointer
	}
	seen := make([]bool, r.numVertices)
	total := 0
	for id, vs := range r.componentVertex {
		for _, v := range vs {
			if v < 0 || v >= r.numVertices {
				return xerrors.ErrInvalidVertex
			}
			if r.vertexComponent[v] != id {
				return xerrors.ErrInvalidParameter
			}
			if seen[v] {
				return xerrors.ErrInvalidParameter
			}
			seen[v] = true
			total++
		}
	}
	if total != r.numVertices {
		return xerrors.ErrInvalidParameter
	}
	return nil
}

// ComponentsBySize returns component ids sorted by descending size; ties
// keep ascending id order. Intended for reporting, not for anything
// engines rely on.
func (r *Result) ComponentsBySize() []int {
	if r == nil {
		return nil
	}
	ids := make([]int, r.componentCount)
	for i := range ids {
		ids[i] = i
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return len(r.componentVertex[ids[i]]) > len(r.componentVertex[ids[j]])
	})
	return ids
}
