package postgres

import (
	"context"
	"database/sql"
	"math"

	"github.com/jmoiron/sqlx"

	"gocausal/domain/experiment"
	"gocausal/ports"
)

// ResultsRepositoryImpl persists experiment results to PostgreSQL. It is an
// optional sink, enabled only when a database URL is configured.
type ResultsRepositoryImpl struct {
	db *sqlx.DB
}

// NewResultsRepository creates a PostgreSQL results repository.
func NewResultsRepository(db *sqlx.DB) *ResultsRepositoryImpl {
	return &ResultsRepositoryImpl{db: db}
}

// compile-time check that the repository satisfies the sink port
var _ ports.ResultWriterPort = (*ResultsRepositoryImpl)(nil)

// EnsureSchema creates the result tables if they do not exist.
func (r *ResultsRepositoryImpl) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS experiment_records (
			id             BIGSERIAL PRIMARY KEY,
			sweep_id       TEXT NOT NULL,
			sample_size    INTEGER NOT NULL,
			algorithm      TEXT NOT NULL,
			mechanism      TEXT NOT NULL,
			perc_miss      DOUBLE PRECISION NOT NULL,
			prob_miss      DOUBLE PRECISION NOT NULL,
			repetition     INTEGER NOT NULL,
			seed           BIGINT NOT NULL,
			elapsed_ms     DOUBLE PRECISION NOT NULL,
			precision_m    DOUBLE PRECISION,
			recall_m       DOUBLE PRECISION,
			f1             DOUBLE PRECISION,
			normalized_shd DOUBLE PRECISION,
			failed         BOOLEAN NOT NULL,
			failure_reason TEXT,
			created_at     TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS experiment_aggregates (
			id              BIGSERIAL PRIMARY KEY,
			sample_size     INTEGER NOT NULL,
			algorithm       TEXT NOT NULL,
			mechanism       TEXT NOT NULL,
			perc_miss       DOUBLE PRECISION NOT NULL,
			repetitions     INTEGER NOT NULL,
			failures        INTEGER NOT NULL,
			mean_precision  DOUBLE PRECISION,
			sd_precision    DOUBLE PRECISION,
			mean_recall     DOUBLE PRECISION,
			sd_recall       DOUBLE PRECISION,
			mean_f1         DOUBLE PRECISION,
			sd_f1           DOUBLE PRECISION,
			mean_shd        DOUBLE PRECISION,
			sd_shd          DOUBLE PRECISION,
			mean_elapsed_ms DOUBLE PRECISION,
			sd_elapsed_ms   DOUBLE PRECISION
		);
	`)
	return err
}

// WriteRecords inserts one row per experiment record.
func (r *ResultsRepositoryImpl) WriteRecords(ctx context.Context, records []experiment.ExperimentRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, rec := range records {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO experiment_records (
				sweep_id, sample_size, algorithm, mechanism, perc_miss, prob_miss,
				repetition, seed, elapsed_ms, precision_m, recall_m, f1, normalized_shd,
				failed, failure_reason, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		`, rec.SweepID.String(), rec.SampleSize, rec.Algorithm, string(rec.Mechanism),
			rec.PercMiss, rec.ProbMiss, rec.Repetition, rec.Seed, rec.ElapsedMs,
			nullable(rec.Metrics.Precision), nullable(rec.Metrics.Recall),
			nullable(rec.Metrics.F1), nullable(rec.Metrics.NormalizedSHD),
			rec.Failed, rec.FailureReason, rec.CreatedAt.Time())
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// WriteAggregates inserts one row per aggregated configuration.
func (r *ResultsRepositoryImpl) WriteAggregates(ctx context.Context, rows []experiment.AggregateRow) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, row := range rows {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO experiment_aggregates (
				sample_size, algorithm, mechanism, perc_miss, repetitions, failures,
				mean_precision, sd_precision, mean_recall, sd_recall,
				mean_f1, sd_f1, mean_shd, sd_shd, mean_elapsed_ms, sd_elapsed_ms
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		`, row.Key.SampleSize, row.Key.Algorithm, string(row.Key.Mechanism), row.Key.PercMiss,
			row.Repetitions, row.Failures,
			nullable(row.MeanPrecision), nullable(row.SDPrecision),
			nullable(row.MeanRecall), nullable(row.SDRecall),
			nullable(row.MeanF1), nullable(row.SDF1),
			nullable(row.MeanSHD), nullable(row.SDSHD),
			nullable(row.MeanElapsedMs), nullable(row.SDElapsedMs))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// nullable stores NaN metrics as SQL NULL.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
