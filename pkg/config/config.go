// Package config loads HelixDB's runtime configuration from environment
// variables (spec.md §6 "Environment", §11 domain stack), optionally
// overlaid with a YAML file through LoadFromFile. Every tunable has an
// env var with a documented default, read once at startup with
// LoadFromEnv (or LoadFromFile) and checked with Validate before the
// engine opens its data directory.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds every HelixDB runtime setting, grouped by the subsystem
// that consumes it. Tagged for YAML so an operator can check a config
// file into version control instead of (or alongside) environment
// variables, the way the teacher's nornicdb.Config and mcp.Config do.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Worker   WorkerConfig   `yaml:"worker"`
	HNSW     HNSWConfig     `yaml:"hnsw"`
	BM25     BM25Config     `yaml:"bm25"`
	Embed    EmbedConfig    `yaml:"embed"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig controls where and how the KV substrate opens its store.
type DatabaseConfig struct {
	// DataDir is the root the engine opens $DataDir/user under (spec.md
	// §6 HELIX_DATA_DIR).
	DataDir string `yaml:"data_dir"`
}

// ServerConfig controls the HTTP ingress (spec.md §6 "Built-in routes").
type ServerConfig struct {
	Port int `yaml:"port"`
}

// WorkerConfig sizes the fixed dispatch pool (spec.md §4.7, §5).
type WorkerConfig struct {
	// Count is the fixed number of worker threads, each bound to one
	// request at a time. Default: runtime.NumCPU().
	Count int `yaml:"count"`
	// QueueDepth bounds the MPMC dispatch channel (spec.md §4.7 "bounded
	// MPMC channel").
	QueueDepth int `yaml:"queue_depth"`
	// PinCPU enables per-worker core affinity via unix.SchedSetaffinity
	// (spec.md §5 "bound to its own CPU core when core enumeration
	// succeeds"). Silently has no effect on platforms without affinity
	// support.
	PinCPU bool `yaml:"pin_cpu"`
}

// HNSWConfig tunes the proximity graph (spec.md §4.6).
type HNSWConfig struct {
	M              int `yaml:"m"`
	MMax0          int `yaml:"m_max0"`
	EfConstruction int `yaml:"ef_construction"`
	EfSearch       int `yaml:"ef_search"`
}

// BM25Config tunes the full-text ranking formula (spec.md §4.5).
type BM25Config struct {
	K1 float64 `yaml:"k1"`
	B  float64 `yaml:"b"`
}

// EmbedConfig names an optional embedding provider used to turn query
// text into a vector ahead of insert_v/search_v (spec.md §6 "Optional
// embedding provider configuration").
type EmbedConfig struct {
	OpenAIAPIKey string `yaml:"openai_api_key"`
	LocalURL     string `yaml:"local_url"`
}

// LoggingConfig controls the structured logger's verbosity and sink.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadFromEnv builds a Config from the process environment, applying the
// defaults spec.md §6 documents.
func LoadFromEnv() *Config {
	home, _ := os.UserHomeDir()
	defaultDataDir := home + "/.helix/user"

	return &Config{
		Database: DatabaseConfig{
			DataDir: getEnv("HELIX_DATA_DIR", defaultDataDir),
		},
		Server: ServerConfig{
			Port: getEnvInt("HELIX_PORT", 6969),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("HELIX_WORKERS", 0),
			QueueDepth: getEnvInt("HELIX_WORKER_QUEUE_DEPTH", 256),
			PinCPU:     getEnvBool("HELIX_WORKER_PIN_CPU", true),
		},
		HNSW: HNSWConfig{
			M:              getEnvInt("HELIX_HNSW_M", 16),
			MMax0:          getEnvInt("HELIX_HNSW_M_MAX0", 32),
			EfConstruction: getEnvInt("HELIX_HNSW_EF_CONSTRUCTION", 200),
			EfSearch:       getEnvInt("HELIX_HNSW_EF_SEARCH", 100),
		},
		BM25: BM25Config{
			K1: getEnvFloat("HELIX_BM25_K1", 1.2),
			B:  getEnvFloat("HELIX_BM25_B", 0.75),
		},
		Embed: EmbedConfig{
			OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
			LocalURL:     getEnv("HELIX_EMBED_URL", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("HELIX_LOG_LEVEL", "info"),
			Format: getEnv("HELIX_LOG_FORMAT", "json"),
		},
	}
}

// LoadFromFile reads a YAML config file and overlays it onto the
// env-derived defaults: any field the file leaves zero-valued keeps
// whatever LoadFromEnv already set, so a partial file (e.g. just
// hnsw: {ef_search: 200}) only overrides what it names.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := LoadFromEnv()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the engine cannot start
// with, returning nil if everything is usable.
func (c *Config) Validate() error {
	if c.Database.DataDir == "" {
		return fmt.Errorf("HELIX_DATA_DIR must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid HELIX_PORT: %d", c.Server.Port)
	}
	if c.Worker.Count < 0 {
		return fmt.Errorf("invalid HELIX_WORKERS: %d", c.Worker.Count)
	}
	if c.Worker.QueueDepth <= 0 {
		return fmt.Errorf("invalid HELIX_WORKER_QUEUE_DEPTH: %d", c.Worker.QueueDepth)
	}
	if c.HNSW.M <= 0 || c.HNSW.MMax0 <= 0 || c.HNSW.EfConstruction <= 0 || c.HNSW.EfSearch <= 0 {
		return fmt.Errorf("HNSW tuning parameters must be positive")
	}
	if c.BM25.K1 < 0 || c.BM25.B < 0 || c.BM25.B > 1 {
		return fmt.Errorf("invalid BM25 tuning: k1=%v b=%v (b must be in [0,1])", c.BM25.K1, c.BM25.B)
	}
	return nil
}

// String returns a representation safe for logging: it omits the
// embedding API key.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{DataDir: %s, Port: %d, Workers: %d, HNSW: {M:%d EfSearch:%d}, BM25: {K1:%v B:%v}}",
		c.Database.DataDir, c.Server.Port, c.Worker.Count,
		c.HNSW.M, c.HNSW.EfSearch, c.BM25.K1, c.BM25.B,
	)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		val = strings.ToLower(val)
		return val == "true" || val == "1" || val == "yes" || val == "on"
	}
	return defaultVal
}
