package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gocausal/adapters/learners"
	"gocausal/adapters/postgres"
	"gocausal/adapters/results"
	"gocausal/adapters/rng"
	"gocausal/app"
	"gocausal/domain/core"
	"gocausal/internal"
	"gocausal/internal/config"
	"gocausal/ports"
)

func main() {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.DefaultLogger
	ctx := context.Background()

	driver := app.NewSimulationDriver(learners.NewRegistry(), rng.NewAdapter(), logger)

	req := app.SweepRequest{
		SweepID:      core.SweepID(core.NewID()),
		Nodes:        cfg.Study.Nodes,
		ExpectedEN:   cfg.Study.ExpectedEN,
		SampleSizes:  cfg.Study.SampleSizes,
		MissPercents: cfg.Study.MissPercents,
		ProbMiss:     cfg.Study.ProbMiss,
		Mechanisms:   cfg.Study.Mechanisms,
		Algorithms:   cfg.Study.Algorithms,
		Repetitions:  cfg.Study.Repetitions,
		BaseSeed:     cfg.Study.BaseSeed,
		Parallelism:  cfg.Study.Parallelism,
		LearnerConfig: ports.LearnerConfig{
			Alpha:    cfg.Learner.Alpha,
			Score:    cfg.Learner.Score,
			Restrict: cfg.Learner.Restrict,
			Maximize: cfg.Learner.Maximize,
		},
	}

	logger.Info("starting sweep: p=%d EN=%.1f sizes=%v percents=%v mechanisms=%v algorithms=%v reps=%d seed=%d",
		req.Nodes, req.ExpectedEN, req.SampleSizes, req.MissPercents,
		req.Mechanisms, req.Algorithms, req.Repetitions, req.BaseSeed)

	result, err := driver.RunSweep(ctx, req)
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}
	logger.Info("sweep fingerprint: %s", result.Fingerprint)

	csvWriter := results.NewCSVWriter(cfg.Output.RecordsCSV, cfg.Output.AggregatesCSV)
	if err := csvWriter.WriteRecords(ctx, result.Records); err != nil {
		log.Fatalf("Failed to write records CSV: %v", err)
	}
	if err := csvWriter.WriteAggregates(ctx, result.Aggregates); err != nil {
		log.Fatalf("Failed to write aggregates CSV: %v", err)
	}
	logger.Info("results written to %s and %s", cfg.Output.RecordsCSV, cfg.Output.AggregatesCSV)

	if cfg.Output.ExcelFile != "" {
		excelWriter := results.NewExcelWriter(cfg.Output.ExcelFile)
		if err := excelWriter.Write(ctx, result.Records, result.Aggregates); err != nil {
			log.Fatalf("Failed to write workbook: %v", err)
		}
		logger.Info("workbook written to %s", cfg.Output.ExcelFile)
	}

	if cfg.Output.DatabaseURL != "" {
		if err := persistToDatabase(ctx, cfg.Output.DatabaseURL, result); err != nil {
			log.Fatalf("Failed to persist results: %v", err)
		}
		logger.Info("results persisted to database")
	}
}

func persistToDatabase(ctx context.Context, databaseURL string, result *app.SweepResult) error {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := postgres.NewResultsRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := repo.WriteRecords(ctx, result.Records); err != nil {
		return err
	}
	return repo.WriteAggregates(ctx, result.Aggregates)
}
