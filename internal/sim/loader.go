package sim

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"llamasvc/internal/manager"
	"llamasvc/pkg/types"
)

// Loader pretends to load a model and generates an echo of the request.
// It holds at most one model; a later load replaces the previous one.
type Loader struct {
	loadDelay     time.Duration
	generateDelay time.Duration
	log           zerolog.Logger

	mu     sync.Mutex
	loaded *manager.Model
}

func NewLoader(loadDelay, generateDelay time.Duration, log zerolog.Logger) *Loader {
	return &Loader{
		loadDelay:     loadDelay,
		generateDelay: generateDelay,
		log:           log.With().Str("component", "loader").Logger(),
	}
}

func (l *Loader) LoadModel(ctx context.Context, mdl *manager.Model) (bool, error) {
	name := mdl.Info().Name
	l.log.Info().Str("model", name).Msg("simulating load")
	if err := sleep(ctx, l.loadDelay); err != nil {
		return false, err
	}
	l.mu.Lock()
	l.loaded = mdl
	l.mu.Unlock()
	l.log.Info().Str("model", name).Msg("model loaded")
	return true, nil
}

// Loaded returns the model currently held, or nil.
func (l *Loader) Loaded() *manager.Model {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Generate echoes the prompt and max_tokens. TokensUsed is the word count of
// the produced text; ProcessingTime is the measured duration of the call.
func (l *Loader) Generate(ctx context.Context, req types.GenerationRequest) (types.GenerationResponse, error) {
	start := time.Now()
	if l.Loaded() == nil {
		return types.GenerationResponse{}, manager.ErrNoModelLoaded
	}
	if err := sleep(ctx, l.generateDelay); err != nil {
		return types.GenerationResponse{}, err
	}
	text := fmt.Sprintf("Generated response for: '%s' (max_tokens: %d)", req.Prompt, req.MaxTokens)
	return types.GenerationResponse{
		Text:           text,
		TokensUsed:     len(strings.Fields(text)),
		ProcessingTime: time.Since(start).Seconds(),
	}, nil
}
