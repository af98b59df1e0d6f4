package main

import (
	"os"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/joho/godotenv"
)

type config struct {
	paths      []string
	reference  bool
	solver     string
	timeLimit  time.Duration
	verbose    bool
	verify     bool
	schedule   bool
	writeModel string
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// loadEnvDefaults reads a .env file if present and returns the defaults
// the command-line flags start from.
func loadEnvDefaults() config {
	if err := godotenv.Load(); err != nil {
		glog.V(1).Info("No .env file found (using environment variables)")
	}

	cfg := config{solver: getEnv("FSDGS_SOLVER", "highs")}
	if v := getEnv("FSDGS_TIME_LIMIT", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			glog.Warningf("ignoring FSDGS_TIME_LIMIT=%q: %v", v, err)
		} else {
			cfg.timeLimit = d
		}
	}
	return cfg
}
