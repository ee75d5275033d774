package eventbus

import (
	"testing"

	"github.com/wyfcoding/scc/graph"
)

func TestPublishInvokesEverySubscriberInOrder(t *testing.T) {
	b := New()
	var order []int
	b.Subscribe(func(Mutated) { order = append(order, 1) })
	b.Subscribe(func(Mutated) { order = append(order, 2) })

	g, err := graph.Create(1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b.Publish(Mutated{Kind: graph.MutationAddVertex, Graph: g})

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected subscribers invoked in subscription order, got %v", order)
	}
}

func TestHookForWiresIntoGraphMutations(t *testing.T) {
	b := New()
	var kinds []graph.MutationKind
	b.Subscribe(func(evt Mutated) { kinds = append(kinds, evt.Kind) })

	g, err := graph.Create(0, graph.WithMutationHook(b.HookFor()))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := g.AddVertex(); err != nil {
		t.Fatalf("AddVertex: %v", err)
	}
	if _, err := g.AddVertex(); err != nil {
		t.Fatalf("AddVertex: %v", err)
	}
	if err := g.AddEdge(0, 1); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	want := []graph.MutationKind{graph.MutationAddVertex, graph.MutationAddVertex, graph.MutationAddEdge}
	if len(kinds) != len(want) {
		t.Fatalf("got %d events, want %d: %v", len(kinds), len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event %d: got %v want %v", i, kinds[i], want[i])
		}
	}
}

func TestCloseWithNoRelayIsNoOp(t *testing.T) {
	b := New()
	if err := b.Close(); err != nil {
		t.Fatalf("Close with no relay should be a no-op, got %v", err)
	}
}
