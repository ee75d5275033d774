package config

import "testing"

func TestDefaultHeuristicConstants(t *testing.T) {
	cfg := Default()
	if cfg.Dispatch.VertexThreshold != 1000 {
		t.Fatalf("VertexThreshold: got %d want 1000", cfg.Dispatch.VertexThreshold)
	}
	if cfg.Dispatch.DensityCutoff != 0.1 {
		t.Fatalf("DensityCutoff: got %v want 0.1", cfg.Dispatch.DensityCutoff)
	}
}

func TestBoolCoercesLooseTypes(t *testing.T) {
	cases := []struct {
		in   any
		want bool
	}{
		{"true", true},
		{"1", true},
		{"false", false},
		{0, false},
		{1, true},
	}
	for _, c := range cases {
		if got := Bool(c.in); got != c.want {
			t.Fatalf("Bool(%v): got %v want %v", c.in, got, c.want)
		}
	}
}
