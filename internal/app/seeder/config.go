package seeder

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

const maxBatchSize = 10000

// Config holds user seeding settings. proposalctl flags override it.
type Config struct {
	UsersFile string `yaml:"users_file" env:"SEEDER_USERS_FILE"`
	BatchSize int    `yaml:"batch_size" env:"SEEDER_BATCH_SIZE" env-default:"100"`
	DryRun    bool   `yaml:"dry_run"    env:"SEEDER_DRY_RUN"`
}

// LoadConfig reads seeder settings from SEEDER_* environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("seeder config: read env: %w", err)
	}
	return &cfg, nil
}

// Validate checks a config assembled from env and flags before a run.
func (c Config) Validate() error {
	if c.UsersFile == "" {
		return fmt.Errorf("seeder config: users file is required (--file or SEEDER_USERS_FILE)")
	}
	if c.BatchSize <= 0 || c.BatchSize > maxBatchSize {
		return fmt.Errorf("seeder config: batch size must be in 1..%d (got %d)", maxBatchSize, c.BatchSize)
	}
	return nil
}
