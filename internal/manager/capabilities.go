package manager

import (
	"context"

	"llamasvc/pkg/types"
)

// Repository persists models by name.
type Repository interface {
	// GetModel returns the model stored under name, if any.
	GetModel(ctx context.Context, name string) (*Model, bool)
	// SaveModel upserts by model.Info().Name, overwriting unconditionally.
	SaveModel(ctx context.Context, model *Model)
}

// Downloader fetches model artifacts. A normal failure is reported as
// (false, nil); a non-nil error is reserved for exceptional conditions.
type Downloader interface {
	Download(ctx context.Context, info types.ModelInfo) (bool, error)
}

// Loader brings a downloaded model into a ready-to-infer state and serves
// generation from it. A loader holds at most one model; loading another
// silently replaces it.
type Loader interface {
	LoadModel(ctx context.Context, model *Model) (bool, error)
	// Generate fails with ErrNoModelLoaded when nothing was loaded.
	Generate(ctx context.Context, req types.GenerationRequest) (types.GenerationResponse, error)
}

// lister is implemented by repositories that can enumerate their models.
type lister interface {
	List(ctx context.Context) []*Model
}
