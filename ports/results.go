package ports

import (
	"context"

	"gocausal/domain/experiment"
)

// ResultWriterPort provides append-only write access to experiment results.
// This is the only way results leave the driver.
type ResultWriterPort interface {
	WriteRecords(ctx context.Context, records []experiment.ExperimentRecord) error
	WriteAggregates(ctx context.Context, rows []experiment.AggregateRow) error
}
