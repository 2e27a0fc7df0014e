package cli

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"llamasvc/internal/config"
	"llamasvc/internal/httpapi"
	"llamasvc/internal/manager"
	"llamasvc/internal/registry"
	"llamasvc/internal/sim"
)

// App is the explicitly constructed object graph handed to the commands.
type App struct {
	Config   config.Config
	Log      zerolog.Logger
	Registry *registry.Memory
	Manager  *manager.Manager
	Metrics  *prometheus.Registry
}

// NewApp wires the in-memory repository, simulated adapters and manager.
// Lifecycle events go to the debug log and to every extra publisher.
func NewApp(cfg config.Config, log zerolog.Logger, publishers ...manager.EventPublisher) (*App, error) {
	// Go and process collectors already live on the default registry.
	reg := prometheus.NewRegistry()

	repo := registry.NewMemory()
	if n := repo.Seed(cfg.Catalog()...); n > 0 {
		log.Debug().Int("models", n).Msg("catalog seeded")
	}
	mgr, err := manager.NewWithConfig(manager.ManagerConfig{
		Repository: repo,
		Downloader: sim.NewDownloader(cfg.DownloadDelay(), log),
		Loader:     sim.NewLoader(cfg.LoadDelay(), cfg.GenerateDelay(), log),
		Logger:     log,
		Publisher:  append(manager.MultiPublisher{manager.LogPublisher{Log: log}}, publishers...),
		Registerer: reg,
		Metadata: manager.MetadataDefaults{
			BaseURL:   cfg.ModelsBaseURL,
			ModelsDir: cfg.ModelsDir,
		},
		Generation: manager.GenerationDefaults{
			MaxTokens:   cfg.Generation.MaxTokens,
			Temperature: cfg.Generation.Temperature,
			TopP:        cfg.Generation.TopP,
		},
	})
	if err != nil {
		return nil, err
	}
	return &App{Config: cfg, Log: log, Registry: repo, Manager: mgr, Metrics: reg}, nil
}

// Handler returns the ops HTTP surface over the manager.
func (a *App) Handler() http.Handler {
	return httpapi.NewMux(a.Manager, httpapi.Options{
		Logger:             a.Log,
		Gatherer:           prometheus.Gatherers{a.Metrics, prometheus.DefaultGatherer},
		CORSAllowedOrigins: a.Config.CORSAllowedOrigins,
	})
}

// WithOps runs fn while the ops HTTP surface is served on Config.MetricsAddr.
// With no address fn runs alone.
func (a *App) WithOps(ctx context.Context, fn func(context.Context) error) error {
	addr := strings.TrimSpace(a.Config.MetricsAddr)
	if addr == "" {
		return fn(ctx)
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	served := make(chan error, 1)
	go func() { served <- httpapi.Serve(ctx, ln, a.Handler(), a.Log) }()

	err = fn(ctx)
	cancel()
	if serr := <-served; err == nil {
		err = serr
	}
	return err
}
