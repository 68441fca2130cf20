package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"pathfinder/internal/depgraph"
)

type Config struct {
	Port     string
	Env      string
	Analysis AnalysisConfig
}

type AnalysisConfig struct {
	StorePath    string
	CacheEntries int
	CacheTTL     time.Duration
	EdgeBudget   int
	TimeBudget   time.Duration
	Weights      depgraph.Weights
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	analysis, err := loadAnalysisConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:     *port,
		Env:      env,
		Analysis: analysis,
	}, nil
}

func loadAnalysisConfig() (AnalysisConfig, error) {
	cfg := AnalysisConfig{
		StorePath:    firstNonEmpty(strings.TrimSpace(os.Getenv("WORKSPACE_STORE_PATH")), "tmp/workspaces.json"),
		CacheEntries: 256,
		CacheTTL:     30 * time.Second,
		EdgeBudget:   5000,
		TimeBudget:   10 * time.Second,
		Weights:      depgraph.DefaultWeights(),
	}

	if raw := strings.TrimSpace(os.Getenv("ANALYSIS_CACHE_TTL")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return AnalysisConfig{}, fmt.Errorf("invalid ANALYSIS_CACHE_TTL %q: %w", raw, err)
		}
		cfg.CacheTTL = d
	}
	if raw := strings.TrimSpace(os.Getenv("ANALYSIS_TIME_BUDGET")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return AnalysisConfig{}, fmt.Errorf("invalid ANALYSIS_TIME_BUDGET %q: %w", raw, err)
		}
		cfg.TimeBudget = d
	}
	if raw := strings.TrimSpace(os.Getenv("ANALYSIS_EDGE_BUDGET")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return AnalysisConfig{}, fmt.Errorf("invalid ANALYSIS_EDGE_BUDGET %q: %w", raw, err)
		}
		cfg.EdgeBudget = n
	}

	if path := strings.TrimSpace(os.Getenv("SCORING_WEIGHTS_FILE")); path != "" {
		w, err := LoadWeights(path)
		if err != nil {
			return AnalysisConfig{}, err
		}
		cfg.Weights = w
	}

	return cfg, nil
}

// LoadWeights reads a scoring-weights YAML file. Parsing starts from the
// default scheme, so a file only needs to name the weights it changes.
func LoadWeights(path string) (depgraph.Weights, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return depgraph.Weights{}, fmt.Errorf("read scoring weights: %w", err)
	}
	w := depgraph.DefaultWeights()
	if err := yaml.Unmarshal(b, &w); err != nil {
		return depgraph.Weights{}, fmt.Errorf("parse scoring weights %s: %w", path, err)
	}
	return w, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
