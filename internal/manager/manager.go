package manager

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"llamasvc/pkg/types"
)

// Manager orchestrates the repository, downloader and loader into the
// setup and generation use cases. Use cases run one at a time; status
// reads may happen concurrently.
type Manager struct {
	// opMu serializes use cases: one logical caller at a time.
	opMu sync.Mutex

	mu  sync.RWMutex
	cur *Model

	repo       Repository
	downloader Downloader
	loader     Loader

	log       zerolog.Logger
	publisher EventPublisher
	metrics   *Metrics

	meta MetadataDefaults
	gen  GenerationDefaults
}

// New builds a Manager with default tunables and no metrics registration.
func New(repo Repository, downloader Downloader, loader Loader) (*Manager, error) {
	return NewWithConfig(ManagerConfig{Repository: repo, Downloader: downloader, Loader: loader})
}

// SetEventPublisher swaps the event sink. Nil restores the noop publisher.
func (m *Manager) SetEventPublisher(p EventPublisher) {
	if p == nil {
		p = noopPublisher{}
	}
	m.opMu.Lock()
	m.publisher = p
	m.opMu.Unlock()
}

// Current returns the current model, or nil before any successful setup.
func (m *Manager) Current() *Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur
}

// Ready reports whether the current model can serve generation.
func (m *Manager) Ready() bool {
	cur := m.Current()
	return cur != nil && cur.IsReady()
}

// ListModels returns summaries of all models the repository knows, sorted by
// name. Repositories that cannot enumerate yield only the current model.
func (m *Manager) ListModels(ctx context.Context) []types.ModelSummary {
	var models []*Model
	if l, ok := m.repo.(lister); ok {
		models = l.List(ctx)
	} else if cur := m.Current(); cur != nil {
		models = []*Model{cur}
	}
	out := make([]types.ModelSummary, 0, len(models))
	for _, mdl := range models {
		out = append(out, mdl.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Info.Name < out[j].Info.Name })
	return out
}
