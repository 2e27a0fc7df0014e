package manager

import (
	"sync"

	"llamasvc/pkg/types"
)

// Status is the lifecycle state of a model.
type Status string

const (
	StatusNotDownloaded Status = "not_downloaded"
	StatusDownloading   Status = "downloading"
	StatusDownloaded    Status = "downloaded"
	StatusLoading       Status = "loading"
	StatusLoaded        Status = "loaded"
	StatusError         Status = "error"
)

// transitions is the legal-transition table. loaded and error have no exits.
var transitions = map[Status][]Status{
	StatusNotDownloaded: {StatusDownloading},
	StatusDownloading:   {StatusDownloaded, StatusError},
	StatusDownloaded:    {StatusLoading},
	StatusLoading:       {StatusLoaded, StatusError},
}

// CanTransitionTo reports whether to is a legal next state from s.
func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool { return len(transitions[s]) == 0 }

func (s Status) String() string { return string(s) }

// Model is the lifecycle entity wrapping immutable ModelInfo.
// Status only changes through the Mark* methods, which enforce the
// transition table.
type Model struct {
	mu     sync.RWMutex
	info   types.ModelInfo
	status Status
	errMsg string
}

// NewModel returns a model in the not_downloaded state.
func NewModel(info types.ModelInfo) *Model {
	return &Model{info: info, status: StatusNotDownloaded}
}

func (m *Model) Info() types.ModelInfo { return m.info }

func (m *Model) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// ErrorMessage is set only once the model is in the error state.
func (m *Model) ErrorMessage() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.errMsg
}

func (m *Model) IsReady() bool { return m.Status() == StatusLoaded }

func (m *Model) MarkDownloading() error { return m.transition(StatusDownloading, "") }
func (m *Model) MarkDownloaded() error  { return m.transition(StatusDownloaded, "") }
func (m *Model) MarkLoading() error     { return m.transition(StatusLoading, "") }
func (m *Model) MarkLoaded() error      { return m.transition(StatusLoaded, "") }

// MarkError moves the model into the terminal error state with msg.
func (m *Model) MarkError(msg string) error { return m.transition(StatusError, msg) }

func (m *Model) transition(to Status, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.status.CanTransitionTo(to) {
		return ErrIllegalTransition(m.info.Name, m.status, to)
	}
	m.status = to
	if to == StatusError {
		m.errMsg = msg
	}
	return nil
}

// Summary is a read-only projection used by listings.
func (m *Model) Summary() types.ModelSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return types.ModelSummary{
		Info:   m.info,
		Status: string(m.status),
		Ready:  m.status == StatusLoaded,
		Error:  m.errMsg,
	}
}

// Snapshot is a read-only projection of the manager state.
type Snapshot struct {
	Status       Status
	CurrentModel *types.ModelInfo
	Err          string
}
