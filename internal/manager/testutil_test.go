package manager

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"llamasvc/pkg/types"
)

// recordingRepo is an in-memory Repository that records the status of the
// model at every save.
type recordingRepo struct {
	mu     sync.Mutex
	models map[string]*Model
	saves  []Status
}

func newRecordingRepo() *recordingRepo { return &recordingRepo{models: map[string]*Model{}} }

func (r *recordingRepo) GetModel(_ context.Context, name string) (*Model, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.models[name]
	return m, ok
}

func (r *recordingRepo) SaveModel(_ context.Context, m *Model) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[m.Info().Name] = m
	r.saves = append(r.saves, m.Status())
}

func (r *recordingRepo) Saves() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Status(nil), r.saves...)
}

// fakeDownloader returns ok/err, or panics with panicV when set.
type fakeDownloader struct {
	ok     bool
	err    error
	panicV any
	calls  int
}

func (d *fakeDownloader) Download(context.Context, types.ModelInfo) (bool, error) {
	d.calls++
	if d.panicV != nil {
		panic(d.panicV)
	}
	return d.ok, d.err
}

// fakeLoader is a lightweight in-memory Loader used for tests.
type fakeLoader struct {
	ok      bool
	err     error
	panicV  any
	genErr  error
	calls   int
	loaded  *Model
	lastReq types.GenerationRequest
}

func (l *fakeLoader) LoadModel(_ context.Context, m *Model) (bool, error) {
	l.calls++
	if l.panicV != nil {
		panic(l.panicV)
	}
	if l.ok && l.err == nil {
		l.loaded = m
	}
	return l.ok, l.err
}

func (l *fakeLoader) Generate(_ context.Context, req types.GenerationRequest) (types.GenerationResponse, error) {
	l.lastReq = req
	if l.genErr != nil {
		return types.GenerationResponse{}, l.genErr
	}
	if l.loaded == nil {
		return types.GenerationResponse{}, ErrNoModelLoaded
	}
	text := "echo " + req.Prompt
	return types.GenerationResponse{Text: text, TokensUsed: len(strings.Fields(text)), ProcessingTime: 0.01}, nil
}

func newTestManager(t *testing.T, d *fakeDownloader, l *fakeLoader) (*Manager, *recordingRepo, *MemoryPublisher) {
	t.Helper()
	repo := newRecordingRepo()
	pub := NewMemoryPublisher()
	m, err := NewWithConfig(ManagerConfig{Repository: repo, Downloader: d, Loader: l, Publisher: pub})
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	return m, repo, pub
}

func okCollaborators() (*fakeDownloader, *fakeLoader) {
	return &fakeDownloader{ok: true}, &fakeLoader{ok: true}
}

var errBoom = errors.New("boom")

func equalStatuses(a, b []Status) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
