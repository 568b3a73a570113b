package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// Stream creates a deterministic RNG stream for a specific sweep/stage/mechanism
	// combination. Identical inputs must always yield identical draw sequences so
	// the same DAG and dataset are reused across mechanisms and algorithms
	// within a repetition.
	Stream(ctx context.Context, sweepID, stageName, mechanismKey string, baseSeed int64) (*rand.Rand, error)

	// ValidateSeed ensures the seed produces expected deterministic results
	ValidateSeed(ctx context.Context, name string, seed int64, expected []float64) error
}
