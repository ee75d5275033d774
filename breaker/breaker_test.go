package breaker

import (
	"context"
	"errors"
	"testing"
)

func TestDisabledAlwaysExecutes(t *testing.T) {
	b := Disabled()
	calls := 0
	_, err := b.Execute(context.Background(), func() (any, error) {
		calls++
		return nil, errors.New("boom")
	})
	if err == nil {
		t.Fatal("disabled breaker should still surface the wrapped error")
	}
	if calls != 1 {
		t.Fatalf("expected exactly 1 call, got %d", calls)
	}
}

func TestTripsAfterMinRequestsFailures(t *testing.T) {
	b := New(Settings{Name: "test", MinRequests: 2, FailureRatio: 0.5}, nil)
	failing := func() (any, error) { return nil, errors.New("boom") }

	for i := 0; i < 2; i++ {
		if _, err := b.Execute(context.Background(), failing); err == nil {
			t.Fatalf("call %d should surface the underlying error", i)
		}
	}
	_, err := b.Execute(context.Background(), func() (any, error) {
		t.Fatal("breaker should be open and must not invoke fn")
		return nil, nil
	})
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("expected ErrOpen once tripped, got %v", err)
	}
}

func TestSuccessfulCallsNeverTrip(t *testing.T) {
	b := New(Settings{Name: "test", MinRequests: 2, FailureRatio: 0.5}, nil)
	for i := 0; i < 10; i++ {
		if _, err := b.Execute(context.Background(), func() (any, error) { return 42, nil }); err != nil {
			t.Fatalf("call %d: unexpected error %v", i, err)
		}
	}
}
