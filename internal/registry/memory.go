// Package registry holds model repositories. Memory is the process-lifetime
// implementation; nothing survives a restart.
package registry

import (
	"context"
	"sort"
	"sync"

	"llamasvc/internal/manager"
	"llamasvc/pkg/types"
)

// Memory is an in-memory manager.Repository keyed by model name.
type Memory struct {
	mu     sync.RWMutex
	models map[string]*manager.Model
}

func NewMemory() *Memory {
	return &Memory{models: make(map[string]*manager.Model)}
}

func (r *Memory) GetModel(_ context.Context, name string) (*manager.Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mdl, ok := r.models[name]
	return mdl, ok
}

// SaveModel upserts by name, overwriting unconditionally.
func (r *Memory) SaveModel(_ context.Context, mdl *manager.Model) {
	if mdl == nil {
		return
	}
	r.mu.Lock()
	r.models[mdl.Info().Name] = mdl
	r.mu.Unlock()
}

// List returns all stored models sorted by name.
func (r *Memory) List(_ context.Context) []*manager.Model {
	r.mu.RLock()
	out := make([]*manager.Model, 0, len(r.models))
	for _, mdl := range r.models {
		out = append(out, mdl)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Info().Name < out[j].Info().Name })
	return out
}

// Seed registers catalog entries as not-yet-downloaded models. Names already
// present are left untouched; entries without a name are skipped. It returns
// the number of models added.
func (r *Memory) Seed(infos ...types.ModelInfo) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	added := 0
	for _, info := range infos {
		if info.Name == "" {
			continue
		}
		if _, ok := r.models[info.Name]; ok {
			continue
		}
		r.models[info.Name] = manager.NewModel(info)
		added++
	}
	return added
}

func (r *Memory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}
