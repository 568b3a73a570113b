package rng

import (
	"context"
	"testing"
)

// TestSeededStreamDeterministic verifies same name and seed replay identically
func TestSeededStreamDeterministic(t *testing.T) {
	adapter := NewAdapter()
	ctx := context.Background()

	a, err := adapter.SeededStream(ctx, "dag", 42)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b, err := adapter.SeededStream(ctx, "dag", 42)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i := 0; i < 100; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("Streams diverged at draw %d", i)
		}
	}
}

// TestSeededStreamNameSeparation verifies different names give different streams
func TestSeededStreamNameSeparation(t *testing.T) {
	adapter := NewAdapter()
	ctx := context.Background()

	a, _ := adapter.SeededStream(ctx, "dag", 42)
	b, _ := adapter.SeededStream(ctx, "sample", 42)

	same := true
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			same = false
			break
		}
	}
	if same {
		t.Error("Expected differently named streams to decouple")
	}
}

// TestStreamMechanismSeparation verifies mechanism keys decouple injection streams
func TestStreamMechanismSeparation(t *testing.T) {
	adapter := NewAdapter()
	ctx := context.Background()

	a, _ := adapter.Stream(ctx, "", "inject", "mcar:0.3", 42)
	b, _ := adapter.Stream(ctx, "", "inject", "mar:0.3", 42)

	same := true
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			same = false
			break
		}
	}
	if same {
		t.Error("Expected different mechanism keys to decouple")
	}
}

// TestValidateSeed replays recorded draws against a fresh stream
func TestValidateSeed(t *testing.T) {
	adapter := NewAdapter()
	ctx := context.Background()

	stream, err := adapter.SeededStream(ctx, "dag", 7)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	recorded := []float64{stream.Float64(), stream.Float64(), stream.Float64()}

	if err := adapter.ValidateSeed(ctx, "dag", 7, recorded); err != nil {
		t.Errorf("Expected recorded draws to validate, got %v", err)
	}
	if err := adapter.ValidateSeed(ctx, "dag", 8, recorded); err == nil {
		t.Error("Expected a different seed to fail validation")
	}
}
