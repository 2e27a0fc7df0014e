package manager

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"llamasvc/pkg/types"
)

// GenerateOption overrides a generation parameter.
type GenerateOption func(*types.GenerationRequest)

func WithMaxTokens(n int) GenerateOption {
	return func(r *types.GenerationRequest) { r.MaxTokens = n }
}

func WithTemperature(t float64) GenerateOption {
	return func(r *types.GenerationRequest) { r.Temperature = t }
}

func WithTopP(p float64) GenerateOption {
	return func(r *types.GenerationRequest) { r.TopP = p }
}

// NewRequest builds a request from the configured defaults and opts.
func (m *Manager) NewRequest(prompt string, opts ...GenerateOption) types.GenerationRequest {
	req := types.GenerationRequest{
		Prompt:      prompt,
		MaxTokens:   m.gen.MaxTokens,
		Temperature: m.gen.Temperature,
		TopP:        m.gen.TopP,
	}
	for _, o := range opts {
		o(&req)
	}
	return req
}

// GenerateText runs generation on the current model. It fails fast with
// "No model loaded" when there is no ready current model.
func (m *Manager) GenerateText(ctx context.Context, prompt string, opts ...GenerateOption) (out Outcome[types.GenerationResponse]) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	startTs := time.Now()
	op := uuid.NewString()
	cur := m.Current()
	modelID := ""
	if cur != nil {
		modelID = cur.Info().Name
	}
	log := m.log.With().Str("op", op).Str("model", modelID).Logger()

	defer func() {
		if r := recover(); r != nil {
			err := panicError{v: r}
			out = fail[types.GenerationResponse](ReasonUnexpected, err.Error(), err)
		}
		m.metrics.generations.WithLabelValues(resultLabel(out.Failure)).Inc()
		if out.Failure != nil {
			log.Warn().Str("reason", string(out.Failure.Reason)).Str("error", out.Failure.Message).Msg("generate failed")
			m.publish("generate_failed", modelID, map[string]any{"op": op, "reason": string(out.Failure.Reason), "error": out.Failure.Message})
			return
		}
		m.metrics.tokens.WithLabelValues(modelID).Add(float64(out.Value.TokensUsed))
		m.metrics.genDuration.Observe(out.Value.ProcessingTime)
		log.Info().Int("tokens", out.Value.TokensUsed).Dur("dur", time.Since(startTs)).Msg("generate done")
		m.publish("generate_done", modelID, map[string]any{"op": op, "tokens": out.Value.TokensUsed})
	}()

	if cur == nil || !cur.IsReady() {
		return fail[types.GenerationResponse](ReasonNoModelLoaded, msgNoModelLoaded, nil)
	}
	req := m.NewRequest(prompt, opts...)
	if err := req.Validate(); err != nil {
		return fail[types.GenerationResponse](ReasonInvalidRequest, "invalid generation request: "+err.Error(), err)
	}
	resp, err := m.loader.Generate(ctx, req)
	if errors.Is(err, ErrNoModelLoaded) {
		return fail[types.GenerationResponse](ReasonNoModelLoaded, msgNoModelLoaded, err)
	}
	if err != nil {
		return fail[types.GenerationResponse](ReasonUnexpected, err.Error(), err)
	}
	return succeed(resp)
}
