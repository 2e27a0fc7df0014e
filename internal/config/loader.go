package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"llamasvc/internal/common/fsutil"
	"llamasvc/pkg/types"
)

// Config holds runtime parameters for the service.
// Load decodes on top of Default(), so keys missing from a file keep their
// default values and an explicit zero is honoured.
type Config struct {
	LogLevel        string `json:"log_level" yaml:"log_level" toml:"log_level"`
	DownloadDelayMS int    `json:"download_delay_ms" yaml:"download_delay_ms" toml:"download_delay_ms"`
	LoadDelayMS     int    `json:"load_delay_ms" yaml:"load_delay_ms" toml:"load_delay_ms"`
	GenerateDelayMS int    `json:"generate_delay_ms" yaml:"generate_delay_ms" toml:"generate_delay_ms"`
	// Used to synthesize metadata for models missing from the catalog.
	ModelsBaseURL string `json:"models_base_url" yaml:"models_base_url" toml:"models_base_url"`
	ModelsDir     string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	// Optional ops HTTP listener (/healthz, /readyz, /status, /models, /metrics). Empty disables it.
	MetricsAddr        string     `json:"metrics_addr" yaml:"metrics_addr" toml:"metrics_addr"`
	CORSAllowedOrigins []string   `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins"`
	Generation         Generation `json:"generation" yaml:"generation" toml:"generation"`
	// Catalog of models known up front.
	Models []ModelEntry `json:"models" yaml:"models" toml:"models"`
}

// Generation holds default sampling parameters.
type Generation struct {
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`
	Temperature float64 `json:"temperature" yaml:"temperature" toml:"temperature"`
	TopP        float64 `json:"top_p" yaml:"top_p" toml:"top_p"`
}

// ModelEntry is one catalog record.
type ModelEntry struct {
	Name      string  `json:"name" yaml:"name" toml:"name"`
	Version   string  `json:"version" yaml:"version" toml:"version"`
	SizeGB    float64 `json:"size_gb" yaml:"size_gb" toml:"size_gb"`
	URL       string  `json:"url" yaml:"url" toml:"url"`
	LocalPath string  `json:"local_path" yaml:"local_path" toml:"local_path"`
}

func (e ModelEntry) Info() types.ModelInfo {
	return types.ModelInfo{Name: e.Name, Version: e.Version, SizeGB: e.SizeGB, URL: e.URL, LocalPath: e.LocalPath}
}

// maxGenerationTokens matches the bound requests are validated against.
const maxGenerationTokens = 8192

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel:        "warn",
		DownloadDelayMS: 1000,
		LoadDelayMS:     1000,
		GenerateDelayMS: 100,
		ModelsBaseURL:   "https://example.com/models",
		ModelsDir:       "./models",
		Generation:      Generation{MaxTokens: 100, Temperature: 0.7, TopP: 0.9},
	}
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	path, err := fsutil.ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if cfg.ModelsDir, err = fsutil.ExpandHome(cfg.ModelsDir); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve returns Default() for an empty path, else Load(path).
func Resolve(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "", "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	if c.DownloadDelayMS < 0 || c.LoadDelayMS < 0 || c.GenerateDelayMS < 0 {
		return fmt.Errorf("delays must be >= 0")
	}
	g := c.Generation
	if g.MaxTokens < 0 || g.MaxTokens > maxGenerationTokens {
		return fmt.Errorf("generation.max_tokens must be within [0, %d]", maxGenerationTokens)
	}
	if g.Temperature < 0 || g.Temperature > 2 {
		return fmt.Errorf("generation.temperature must be within [0, 2]")
	}
	if g.TopP < 0 || g.TopP > 1 {
		return fmt.Errorf("generation.top_p must be within [0, 1]")
	}
	seen := make(map[string]bool, len(c.Models))
	for i, m := range c.Models {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("models[%d]: name is required", i)
		}
		if seen[m.Name] {
			return fmt.Errorf("models[%d]: duplicate name %q", i, m.Name)
		}
		if m.SizeGB < 0 {
			return fmt.Errorf("models[%d]: size_gb must be >= 0", i)
		}
		seen[m.Name] = true
	}
	return nil
}

func (c Config) DownloadDelay() time.Duration { return ms(c.DownloadDelayMS) }
func (c Config) LoadDelay() time.Duration     { return ms(c.LoadDelayMS) }
func (c Config) GenerateDelay() time.Duration { return ms(c.GenerateDelayMS) }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// Catalog returns the configured models as ModelInfo values.
func (c Config) Catalog() []types.ModelInfo {
	out := make([]types.ModelInfo, 0, len(c.Models))
	for _, m := range c.Models {
		out = append(out, m.Info())
	}
	return out
}
