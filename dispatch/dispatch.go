// Package dispatch implements the heuristic that picks Tarjan or Kosaraju
// given a graph's size and density, the top-level
// Find/IsStronglyConnected entry points, and condensation-graph
// construction. It composes the operational scaffolding around the two
// engines: a circuit breaker around invocation, an optional result cache
// keyed by graph fingerprint, structured logging, Prometheus metrics, and
// OpenTelemetry tracing. None of that scaffolding
// changes what an engine computes — it only governs whether and how often
// it runs.
package dispatch

import (
	"context"
	"time"

	"github.com/wyfcoding/scc/breaker"
	"github.com/wyfcoding/scc/cache"
	"github.com/wyfcoding/scc/eventbus"
	"github.com/wyfcoding/scc/graph"
	"github.com/wyfcoding/scc/kosaraju"
	"github.com/wyfcoding/scc/logging"
	"github.com/wyfcoding/scc/metrics"
	"github.com/wyfcoding/scc/sccresult"
	"github.com/wyfcoding/scc/tarjan"
	"github.com/wyfcoding/scc/tracing"
	"github.com/wyfcoding/scc/xerrors"
)

// Algorithm names one of the two engines, as returned by RecommendAlgorithm
// and recorded in metrics/tracing labels.
type Algorithm string

const (
	// Tarjan names the single-pass engine (package tarjan).
	Tarjan Algorithm = "tarjan"
	// Kosaraju names the two-pass engine (package kosaraju).
	Kosaraju Algorithm = "kosaraju"
)

// DefaultVertexThreshold and DefaultDensityCutoff are the built-in
// heuristic constants; config.DispatchConfig and WithThresholds make them
// tunable per host.
const (
	DefaultVertexThreshold = 1000
	DefaultDensityCutoff   = 0.1
)

// RecommendAlgorithm picks an engine for a graph of the given size: a
// total, deterministic function of (num_vertices, num_edges) alone.
func RecommendAlgorithm(numVertices, numEdges int, vertexThreshold int, densityCutoff float64) Algorithm {
	if numVertices == 0 {
		return Tarjan
	}
	if numVertices < vertexThreshold {
		return Tarjan
	}
	density := float64(numEdges) / (float64(numVertices) * float64(numVertices))
	if density > densityCutoff {
		return Kosaraju
	}
	return Tarjan
}

// Dispatcher ties the graph store, the two engines, and the domain stack
// together. The zero value is not usable; build one with New.
type Dispatcher struct {
	vertexThreshold int
	densityCutoff   float64

	breaker *breaker.Breaker
	cache   *cache.ResultCache
	bus     *eventbus.Bus
	metrics *metrics.Metrics
}

// Option configures a Dispatcher at construction time.
type Option func(*Dispatcher)

// WithThresholds overrides the heuristic constants.
func WithThresholds(vertexThreshold int, densityCutoff float64) Option {
	return func(d *Dispatcher) {
		d.vertexThreshold = vertexThreshold
		d.densityCutoff = densityCutoff
	}
}

// WithBreaker wraps every engine invocation in b.
func WithBreaker(b *breaker.Breaker) Option {
	return func(d *Dispatcher) { d.breaker = b }
}

// WithCache accelerates repeated Find calls against an unchanged graph.
func WithCache(c *cache.ResultCache) Option {
	return func(d *Dispatcher) { d.cache = c }
}

// WithEventBus subscribes the Dispatcher's cache invalidation to graph
// mutation events, realizing the recompute-on-change interface.
func WithEventBus(bus *eventbus.Bus) Option {
	return func(d *Dispatcher) { d.bus = bus }
}

// WithMetrics records engine invocation/duration/component-count series.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// New builds a Dispatcher. With no options, it uses the default heuristic
// constants and no cache/breaker/metrics — a bare Find still behaves
// correctly, just without any acceleration or protection.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		vertexThreshold: DefaultVertexThreshold,
		densityCutoff:   DefaultDensityCutoff,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.bus != nil && d.cache != nil {
		d.bus.Subscribe(func(evt eventbus.Mutated) {
			fp := cache.Fingerprint(evt.Graph)
			d.cache.Invalidate(context.Background(), fp)
		})
	}
	return d
}

// RecommendAlgorithm applies this Dispatcher's configured thresholds to g.
func (d *Dispatcher) RecommendAlgorithm(g *graph.Graph) Algorithm {
	if g == nil {
		return Tarjan
	}
	return RecommendAlgorithm(g.NumVertices(), g.NumEdges(), d.vertexThreshold, d.densityCutoff)
}

// Find computes the SCC partition of g, selecting an engine via
// RecommendAlgorithm unless the caller already knows which one it wants
// (see FindWith). It consults the result cache first (if configured) and
// always runs engine invocation through the configured breaker.
func (d *Dispatcher) Find(ctx context.Context, g *graph.Graph) (*sccresult.Result, error) {
	if g == nil {
		return nil, xerrors.ErrNullPointer
	}
	return d.FindWith(ctx, g, d.RecommendAlgorithm(g))
}

// FindWith computes the SCC partition of g using a caller-chosen algorithm,
// bypassing RecommendAlgorithm. Find delegates to it with the recommended
// algorithm.
func (d *Dispatcher) FindWith(ctx context.Context, g *graph.Graph, algo Algorithm) (*sccresult.Result, error) {
	if g == nil {
		return nil, xerrors.ErrNullPointer
	}

	var fingerprint string
	if d.cache != nil {
		fingerprint = cache.Fingerprint(g)
		if entry, ok := d.cache.Get(ctx, fingerprint); ok && Algorithm(entry.Engine) == algo {
			return resultFromEntry(entry)
		}
	}

	ctx, span := tracing.StartEngineSpan(ctx, string(algo), g.NumVertices(), g.NumEdges())
	defer func() { tracing.EndSpan(span, nil) }()

	start := time.Now()
	run := func() (any, error) {
		switch algo {
		case Kosaraju:
			return kosaraju.Run(ctx, g)
		default:
			return tarjan.Run(ctx, g)
		}
	}

	b := d.breaker
	if b == nil {
		b = breaker.Disabled()
	}
	raw, err := b.Execute(ctx, run)
	elapsed := time.Since(start).Seconds()

	componentCount := -1
	var result *sccresult.Result
	if err == nil {
		result = raw.(*sccresult.Result)
		componentCount = result.ComponentCount()
	}
	if d.metrics != nil {
		d.metrics.ObserveRun(string(algo), elapsed, componentCount, err)
	}
	if err != nil {
		logging.Warn(ctx, "dispatch: engine invocation failed", "engine", algo, "error", err)
		return nil, err
	}

	if d.cache != nil {
		entry, cErr := entryFromResult(string(algo), result)
		if cErr == nil {
			_ = d.cache.Put(ctx, fingerprint, entry)
		}
	}

	logging.Debug(ctx, "dispatch.Find complete", "engine", algo, "components", result.ComponentCount())
	return result, nil
}

// IsStronglyConnected reports whether Find(g).ComponentCount() == 1. An
// empty graph is false: GraphEmpty from Find counts as "not strongly
// connected", not a propagated error.
func (d *Dispatcher) IsStronglyConnected(ctx context.Context, g *graph.Graph) (bool, error) {
	result, err := d.Find(ctx, g)
	if err != nil {
		if xerrors.Is(err, xerrors.KindGraphEmpty) {
			return false, nil
		}
		return false, err
	}
	return result.ComponentCount() == 1, nil
}

// Recompute discards any cached Result for g and runs Find again
// unconditionally. This is the recompute-on-change operation offered in
// place of incremental SCC maintenance.
func (d *Dispatcher) Recompute(ctx context.Context, g *graph.Graph) (*sccresult.Result, error) {
	if d.cache != nil {
		d.cache.Invalidate(ctx, cache.Fingerprint(g))
	}
	return d.Find(ctx, g)
}

// BuildCondensation builds the acyclic condensation graph of g given its
// precomputed result: one vertex per component, with at most one edge a->b
// for each pair of components (a != b) joined by at least one original
// edge.
func BuildCondensation(ctx context.Context, g *graph.Graph, result *sccresult.Result) (*graph.Graph, error) {
	if g == nil || result == nil {
		return nil, xerrors.ErrNullPointer
	}

	k := result.ComponentCount()
	_, span := tracing.StartCondensationSpan(ctx, k)
	defer func() { tracing.EndSpan(span, nil) }()

	cg, err := graph.Create(k)
	if err != nil {
		return nil, err
	}
	for i := 0; i < k; i++ {
		if _, vErr := cg.AddVertex(); vErr != nil {
			return nil, vErr
		}
	}

	it := g.Edges()
	for it.Next() {
		src, dst := it.Edge()
		a, aErr := result.ComponentOf(src)
		if aErr != nil {
			return nil, aErr
		}
		b, bErr := result.ComponentOf(dst)
		if bErr != nil {
			return nil, bErr
		}
		if a == b {
			continue
		}
		if err := cg.AddEdge(a, b); err != nil && !xerrors.Is(err, xerrors.KindEdgeExists) {
			return nil, err
		}
	}
	return cg, nil
}

func entryFromResult(engine string, r *sccresult.Result) (*cache.Entry, error) {
	n := r.NumVertices()
	vc := make([]int, n)
	for v := 0; v < n; v++ {
		c, err := r.ComponentOf(v)
		if err != nil {
			return nil, err
		}
		vc[v] = c
	}
	return &cache.Entry{Engine: engine, VertexComponent: vc, ComponentCount: r.ComponentCount()}, nil
}

func resultFromEntry(e *cache.Entry) (*sccresult.Result, error) {
	builder, err := sccresult.NewBuilder(len(e.VertexComponent))
	if err != nil {
		return nil, err
	}
	for i := 0; i < e.ComponentCount; i++ {
		if _, cErr := builder.StartComponent(); cErr != nil {
			return nil, cErr
		}
	}
	for v, c := range e.VertexComponent {
		if aErr := builder.Assign(v, c); aErr != nil {
			return nil, aErr
		}
	}
	return builder.Build()
}
