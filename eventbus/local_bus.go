// Package eventbus implements the recompute-on-change interface:
// an in-process publish/subscribe bus that graph.Graph publishes a Mutated
// event to after every successful AddVertex/AddEdge/RemoveEdge. Subscribers
// (such as the cache-invalidation handler dispatch.New registers) react by
// discarding stale results. Delivery is synchronous rather than
// fire-and-forget so a subscriber's invalidation is guaranteed to have
// happened before the publishing call returns.
package eventbus

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/wyfcoding/scc/graph"
)

// Mutated is published after every successful graph mutation.
type Mutated struct {
	Kind  graph.MutationKind
	Graph *graph.Graph
}

// Handler reacts to a Mutated event. It runs synchronously on the
// publishing goroutine, consistent with the single-threaded,
// synchronous scheduling model.
type Handler func(Mutated)

// Bus is an in-process, synchronous publish/subscribe bus scoped to
// Mutated events.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	relay    *kafka.Writer
}

// New builds an empty Bus.
func New() *Bus {
	return &Bus{}
}

// WithKafkaRelay attaches an optional github.com/segmentio/kafka-go writer
// that relays every Mutated event to topic for cross-process notification
// (e.g. a second process holding a read-only Copy of the same graph). It is
// never required for correctness: cross-process coordination stays the
// client's responsibility, and this relay is purely advisory.
func (b *Bus) WithKafkaRelay(brokers []string, topic string) *Bus {
	b.relay = &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return b
}

// Subscribe registers h to be called on every future Publish.
func (b *Bus) Subscribe(h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish synchronously invokes every subscribed Handler with evt, in
// subscription order.
func (b *Bus) Publish(evt Mutated) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers...)
	b.mu.RUnlock()
	for _, h := range handlers {
		h(evt)
	}
	if b.relay != nil {
		// A random key per message, not one derived from evt.Kind: kafka-go's
		// LeastBytes balancer only load-balances distinct keys across
		// partitions, and every mutation of one kind would otherwise pin to
		// the same partition.
		msg := kafka.Message{
			Key:   []byte(uuid.NewString()),
			Value: []byte(fmt.Sprintf("kind=%d vertices=%d", evt.Kind, evt.Graph.NumVertices())),
		}
		// Best-effort: a relay failure never invalidates the mutation that
		// already happened synchronously in-process.
		_ = b.relay.WriteMessages(context.Background(), msg)
	}
}

// HookFor adapts Publish to graph.MutationHook so it can be passed directly
// to graph.WithMutationHook.
func (b *Bus) HookFor() graph.MutationHook {
	return func(kind graph.MutationKind, g *graph.Graph) {
		b.Publish(Mutated{Kind: kind, Graph: g})
	}
}

// Close releases the optional Kafka relay writer, if one was attached.
func (b *Bus) Close() error {
	if b.relay == nil {
		return nil
	}
	return b.relay.Close()
}
