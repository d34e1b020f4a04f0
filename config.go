package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"

	"lg/goal-engine-api/goalcalc"
)

const defaultPort = "3000"

// config is the server's environment. DB_URL is required; PORT defaults to
// 3000; GOAL_TABLES_FILE, when set, replaces the built-in engine tables.
type config struct {
	DBURL      string
	Addr       string
	TablesFile string
}

// loadConfig reads .env (if present) and then the environment.
// Variables already set in the environment win over .env.
func loadConfig() (config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := config{
		DBURL:      os.Getenv("DB_URL"),
		Addr:       ":" + defaultPort,
		TablesFile: os.Getenv("GOAL_TABLES_FILE"),
	}
	if cfg.DBURL == "" {
		return config{}, errors.New("DB_URL is required")
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	return cfg, nil
}

// loadEngine builds the goal engine from path, or from the defaults when path is empty.
func loadEngine(path string) (*goalcalc.Engine, error) {
	if path == "" {
		return goalcalc.Default(), nil
	}
	t, err := goalcalc.LoadTablesFile(path)
	if err != nil {
		return nil, fmt.Errorf("tables %s: %w", path, err)
	}
	e, err := goalcalc.New(t)
	if err != nil {
		return nil, fmt.Errorf("tables %s: %w", path, err)
	}
	log.Printf("[loadEngine] using tables from %s", path)
	return e, nil
}
