package rng

import (
	"context"
	"fmt"
	"math/rand"
)

// Adapter implements the RNGPort interface with deterministic seeded streams
type Adapter struct{}

// NewAdapter creates a deterministic RNG adapter
func NewAdapter() *Adapter {
	return &Adapter{}
}

// SeededStream creates a deterministic random number generator for a named operation
func (r *Adapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	return rand.New(rand.NewSource(seed + int64(hashString(name)))), nil
}

// Stream creates a deterministic RNG stream for a specific sweep/stage/mechanism
func (r *Adapter) Stream(ctx context.Context, sweepID, stageName, mechanismKey string, baseSeed int64) (*rand.Rand, error) {
	// Create deterministic seed by hashing sweepID + stageName + mechanismKey + baseSeed
	// This ensures identical results for the same sweep/stage/mechanism combination
	seed := baseSeed
	if sweepID != "" {
		seed = int64(hashString(sweepID)) + seed
	}
	if stageName != "" {
		seed = int64(hashString(stageName)) + seed
	}
	if mechanismKey != "" {
		seed = int64(hashString(mechanismKey)) + seed
	}
	return rand.New(rand.NewSource(seed)), nil
}

// ValidateSeed ensures the seed produces expected deterministic results
func (r *Adapter) ValidateSeed(ctx context.Context, name string, seed int64, expected []float64) error {
	stream, err := r.SeededStream(ctx, name, seed)
	if err != nil {
		return err
	}
	for i, want := range expected {
		if got := stream.Float64(); got != want {
			return fmt.Errorf("seed %d stream %q diverged at draw %d: got %v, want %v", seed, name, i, got, want)
		}
	}
	return nil
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2 algorithm
	}
	return hash
}
