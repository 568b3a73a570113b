package config

import (
	"os"
	"strconv"
	"strings"

	"gocausal/domain/experiment"
	"gocausal/internal/errors"
)

// Config represents the complete study configuration
type Config struct {
	Study   StudyConfig
	Learner LearnerConfig
	Output  OutputConfig
}

// StudyConfig defines the experiment grid
type StudyConfig struct {
	Nodes        int
	ExpectedEN   float64
	SampleSizes  []int
	MissPercents []float64
	ProbMiss     float64
	Mechanisms   []experiment.Mechanism
	Algorithms   []string
	Repetitions  int
	BaseSeed     int64
	Parallelism  int
}

// LearnerConfig holds the parameters forwarded to every learner
type LearnerConfig struct {
	Alpha    float64
	Score    string
	Restrict string
	Maximize string
}

// OutputConfig holds result sink settings
type OutputConfig struct {
	RecordsCSV    string
	AggregatesCSV string
	ExcelFile     string // optional workbook export
	DatabaseURL   string // optional Postgres sink
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Study: StudyConfig{
			Nodes:        getEnvIntOrDefault("STUDY_NODES", 20),
			ExpectedEN:   getEnvFloatOrDefault("STUDY_EN", 3),
			SampleSizes:  getEnvIntListOrDefault("SAMPLE_SIZES", []int{100, 500, 1000}),
			MissPercents: getEnvFloatListOrDefault("MISS_PERCENTS", []float64{0.1, 0.3, 0.5}),
			ProbMiss:     getEnvFloatOrDefault("PROB_MISS", 0.2),
			Algorithms:   getEnvListOrDefault("ALGORITHMS", []string{"corr", "pairwise-corr"}),
			Repetitions:  getEnvIntOrDefault("REPETITIONS", 10),
			BaseSeed:     int64(getEnvIntOrDefault("BASE_SEED", 42)),
			Parallelism:  getEnvIntOrDefault("PARALLELISM", 1),
		},
		Learner: LearnerConfig{
			Alpha:    getEnvFloatOrDefault("ALPHA", 0.05),
			Score:    getEnvOrDefault("SCORE", "bic"),
			Restrict: getEnvOrDefault("RESTRICT", ""),
			Maximize: getEnvOrDefault("MAXIMIZE", ""),
		},
		Output: OutputConfig{
			RecordsCSV:    getEnvOrDefault("RECORDS_CSV", "results_records.csv"),
			AggregatesCSV: getEnvOrDefault("AGGREGATES_CSV", "results_aggregates.csv"),
			ExcelFile:     getEnvOrDefault("EXCEL_FILE", ""),
			DatabaseURL:   getEnvOrDefault("DATABASE_URL", ""),
		},
	}

	mechanisms, err := loadMechanisms()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load mechanism configuration")
	}
	config.Study.Mechanisms = mechanisms

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadMechanisms() ([]experiment.Mechanism, error) {
	names := getEnvListOrDefault("MECHANISMS", []string{"oracle", "mcar", "mar", "mnar"})
	mechanisms := make([]experiment.Mechanism, 0, len(names))
	for _, name := range names {
		mech, err := experiment.ParseMechanism(name)
		if err != nil {
			return nil, errors.ConfigInvalid("unknown mechanism " + name)
		}
		mechanisms = append(mechanisms, mech)
	}
	return mechanisms, nil
}

func validateConfig(config *Config) error {
	s := config.Study
	if s.Nodes < 2 {
		return errors.ConfigInvalid("STUDY_NODES must be at least 2")
	}
	if s.ExpectedEN <= 0 || s.ExpectedEN >= float64(s.Nodes-1) {
		return errors.ConfigInvalid("STUDY_EN must be in (0, STUDY_NODES-1)")
	}
	for _, n := range s.SampleSizes {
		if n < 1 {
			return errors.ConfigInvalid("SAMPLE_SIZES entries must be positive")
		}
	}
	for _, perc := range s.MissPercents {
		if perc < 0 || perc > 0.5 {
			return errors.ConfigInvalid("MISS_PERCENTS entries must be in [0, 0.5]")
		}
	}
	if s.ProbMiss < 0 || s.ProbMiss > 0.5 {
		return errors.ConfigInvalid("PROB_MISS must be in [0, 0.5]")
	}
	if s.Repetitions < 1 {
		return errors.ConfigInvalid("REPETITIONS must be positive")
	}
	if config.Learner.Alpha <= 0 || config.Learner.Alpha >= 1 {
		return errors.ConfigInvalid("ALPHA must be in (0, 1)")
	}
	if config.Output.RecordsCSV == "" || config.Output.AggregatesCSV == "" {
		return errors.ConfigInvalid("RECORDS_CSV and AGGREGATES_CSV must be set")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvIntListOrDefault(key string, defaultValue []int) []int {
	parts := getEnvListOrDefault(key, nil)
	if parts == nil {
		return defaultValue
	}
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		if intValue, err := strconv.Atoi(part); err == nil {
			out = append(out, intValue)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvFloatListOrDefault(key string, defaultValue []float64) []float64 {
	parts := getEnvListOrDefault(key, nil)
	if parts == nil {
		return defaultValue
	}
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		if floatValue, err := strconv.ParseFloat(part, 64); err == nil {
			out = append(out, floatValue)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
