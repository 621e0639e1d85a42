package eventbus

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTypedBusSendWaitsForReader(t *testing.T) {
	bus := NewTyped[int](1)
	ch := bus.Subscribe()
	got := make(chan []int)
	go func() {
		var vals []int
		for v := range ch {
			vals = append(vals, v)
		}
		got <- vals
	}()
	for i := 0; i < 100; i++ {
		if err := bus.Send(context.Background(), i); err != nil {
			t.Fatalf("send: %v", err)
		}
	}
	bus.Close()
	vals := <-got
	if len(vals) != 100 || vals[99] != 99 {
		t.Fatalf("expected 100 ordered values, got %d", len(vals))
	}
}

func TestTypedBusSendHonoursContext(t *testing.T) {
	bus := NewTyped[int](1)
	_ = bus.Subscribe()
	if err := bus.Send(context.Background(), 1); err != nil {
		t.Fatalf("send: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := bus.Send(ctx, 2); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestTypedBusClose(t *testing.T) {
	bus := NewTyped[int](0)
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
	if _, ok := <-bus.Subscribe(); ok {
		t.Fatalf("expected subscription after close to be closed")
	}
}

func TestTypedBusSendAfterClose(t *testing.T) {
	bus := NewTyped[float64](0)
	_ = bus.Subscribe()
	bus.Close()
	bus.Close()
	if err := bus.Send(context.Background(), 1); err != nil {
		t.Fatalf("send after close: %v", err)
	}
}
