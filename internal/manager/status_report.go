package manager

import (
	"llamasvc/pkg/types"
)

// Snapshot returns a read-only view of the manager state.
func (m *Manager) Snapshot() Snapshot {
	cur := m.Current()
	if cur == nil {
		return Snapshot{}
	}
	info := cur.Info()
	return Snapshot{Status: cur.Status(), CurrentModel: &info, Err: cur.ErrorMessage()}
}

// ModelStatus summarizes the current model: {model: null, status: "no_model"}
// before any successful setup, else its name, status and readiness.
func (m *Manager) ModelStatus() types.StatusResponse {
	cur := m.Current()
	if cur == nil {
		return types.StatusResponse{Status: types.StatusNoModel}
	}
	name := cur.Info().Name
	ready := cur.IsReady()
	return types.StatusResponse{Model: &name, Status: string(cur.Status()), Ready: &ready}
}
