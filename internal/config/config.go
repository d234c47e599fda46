package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config carries process-level settings resolved from the environment.
type Config struct {
	// DBPath is the SQLite database file, STAGEGATE_DB or
	// ~/.stagegate/stagegate.db.
	DBPath string
	// CurrentUser is the username acting as the caller for CLI commands,
	// STAGEGATE_USER or $USER.
	CurrentUser string
	// LogUseCases enables service-level use case logging to stderr,
	// STAGEGATE_LOG=1.
	LogUseCases bool
	// NoColor disables ANSI styling, STAGEGATE_NO_COLOR or NO_COLOR.
	NoColor bool
}

// Load reads an optional .env file from the working directory, then
// resolves settings from the environment. A missing .env file is not an
// error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:      os.Getenv("STAGEGATE_DB"),
		CurrentUser: os.Getenv("STAGEGATE_USER"),
		LogUseCases: os.Getenv("STAGEGATE_LOG") == "1",
	}
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".stagegate", "stagegate.db")
	}
	if cfg.CurrentUser == "" {
		cfg.CurrentUser = os.Getenv("USER")
	}
	if os.Getenv("STAGEGATE_NO_COLOR") != "" || os.Getenv("NO_COLOR") != "" {
		cfg.NoColor = true
	}
	return cfg, nil
}
