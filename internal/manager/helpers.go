package manager

import "llamasvc/pkg/types"

// synthesizeInfo derives deterministic metadata for a model name the
// repository has never seen.
func (m *Manager) synthesizeInfo(name string) types.ModelInfo {
	return types.ModelInfo{
		Name:      name,
		Version:   m.meta.Version,
		SizeGB:    m.meta.SizeGB,
		URL:       m.meta.BaseURL + "/" + name,
		LocalPath: m.meta.ModelsDir + "/" + name,
	}
}
