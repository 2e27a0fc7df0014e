package manager

import (
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultVersion     = "1.0"
	defaultSizeGB      = 7.0
	defaultBaseURL     = "https://example.com/models"
	defaultModelsDir   = "./models"
	defaultMaxTokens   = 100
	defaultTemperature = 0.7
	defaultTopP        = 0.9
)

// MetadataDefaults controls the metadata synthesized for unknown model names.
type MetadataDefaults struct {
	Version   string
	SizeGB    float64
	BaseURL   string
	ModelsDir string
}

// GenerationDefaults are applied to every request before options.
type GenerationDefaults struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// ManagerConfig encapsulates all collaborators and tunables for Manager construction.
type ManagerConfig struct {
	Repository Repository
	Downloader Downloader
	Loader     Loader

	Logger    zerolog.Logger
	Publisher EventPublisher
	// Registerer receives the manager metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer

	Metadata   MetadataDefaults
	Generation GenerationDefaults
}

// NewWithConfig constructs a Manager from ManagerConfig, applying defaults to
// zero-valued tunables. All three capabilities are required.
func NewWithConfig(cfg ManagerConfig) (*Manager, error) {
	if cfg.Repository == nil || cfg.Downloader == nil || cfg.Loader == nil {
		return nil, errors.New("manager: repository, downloader and loader are required")
	}
	m := &Manager{
		repo:       cfg.Repository,
		downloader: cfg.Downloader,
		loader:     cfg.Loader,
		log:        cfg.Logger.With().Str("component", "manager").Logger(),
		publisher:  cfg.Publisher,
		meta:       cfg.Metadata,
		gen:        cfg.Generation,
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	if m.meta.Version == "" {
		m.meta.Version = defaultVersion
	}
	if m.meta.SizeGB <= 0 {
		m.meta.SizeGB = defaultSizeGB
	}
	if m.meta.BaseURL == "" {
		m.meta.BaseURL = defaultBaseURL
	}
	m.meta.BaseURL = strings.TrimRight(m.meta.BaseURL, "/")
	if m.meta.ModelsDir == "" {
		m.meta.ModelsDir = defaultModelsDir
	}
	m.meta.ModelsDir = strings.TrimRight(m.meta.ModelsDir, "/")
	// A zero temperature or top_p is a valid choice once anything is set.
	// All three zero means "unset" and yields 100/0.7/0.9.
	if m.gen == (GenerationDefaults{}) {
		m.gen = GenerationDefaults{MaxTokens: defaultMaxTokens, Temperature: defaultTemperature, TopP: defaultTopP}
	}
	if m.gen.MaxTokens <= 0 {
		m.gen.MaxTokens = defaultMaxTokens
	}
	metrics, err := newMetrics(cfg.Registerer)
	if err != nil {
		return nil, err
	}
	m.metrics = metrics
	return m, nil
}
