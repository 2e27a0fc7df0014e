package manager

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"llamasvc/pkg/types"
)

// SetupModel resolves the named model (synthesizing metadata when the
// repository does not know it) and drives it through download and load.
// Every transition is saved before the next step runs. Failures, including
// collaborator errors and panics, come back as a failed Outcome.
// A model already in the error state is not retried: setup fails with
// ReasonModelError and the stored message instead of reporting success
// with status "error".
func (m *Manager) SetupModel(ctx context.Context, name string) (out Outcome[types.SetupResult]) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	startTs := time.Now()
	op := uuid.NewString()
	name = strings.TrimSpace(name)
	log := m.log.With().Str("op", op).Str("model", name).Logger()

	var mdl *Model
	defer func() {
		if r := recover(); r != nil {
			err := panicError{v: r}
			m.abort(ctx, op, mdl, err)
			out = fail[types.SetupResult](ReasonUnexpected, err.Error(), err)
		}
		m.metrics.setups.WithLabelValues(resultLabel(out.Failure)).Inc()
		dur := time.Since(startTs)
		if out.Failure != nil {
			log.Error().Str("reason", string(out.Failure.Reason)).Str("error", out.Failure.Message).Dur("dur", dur).Msg("setup failed")
			m.publish("setup_failed", name, map[string]any{"op": op, "reason": string(out.Failure.Reason), "error": out.Failure.Message})
			return
		}
		log.Info().Str("status", out.Value.Status).Dur("dur", dur).Msg("setup done")
		m.publish("setup_done", name, map[string]any{"op": op, "status": out.Value.Status, "dur_ms": int(dur / time.Millisecond)})
	}()

	if name == "" {
		return fail[types.SetupResult](ReasonInvalidRequest, "model name is required", nil)
	}
	log.Info().Msg("setup start")
	m.publish("setup_start", name, map[string]any{"op": op})

	mdl = m.resolve(ctx, name)
	return m.drive(ctx, op, log, mdl)
}

// resolve returns the stored model or a fresh, unsaved one.
func (m *Manager) resolve(ctx context.Context, name string) *Model {
	if mdl, ok := m.repo.GetModel(ctx, name); ok && mdl != nil {
		return mdl
	}
	return NewModel(m.synthesizeInfo(name))
}

// drive runs the state machine from the model's current status.
func (m *Manager) drive(ctx context.Context, op string, log zerolog.Logger, mdl *Model) Outcome[types.SetupResult] {
	transitioned := false

	if mdl.Status() == StatusError {
		return fail[types.SetupResult](ReasonModelError, mdl.ErrorMessage(), nil)
	}

	if mdl.Status() == StatusNotDownloaded {
		log.Info().Msg("downloading model")
		if err := m.advance(ctx, op, mdl, StatusDownloading, ""); err != nil {
			return fail[types.SetupResult](ReasonUnexpected, err.Error(), err)
		}
		ok, err := m.downloader.Download(ctx, mdl.Info())
		if err != nil {
			m.abort(ctx, op, mdl, err)
			return fail[types.SetupResult](ReasonUnexpected, err.Error(), err)
		}
		if !ok {
			if err := m.advance(ctx, op, mdl, StatusError, msgDownloadFailed); err != nil {
				return fail[types.SetupResult](ReasonUnexpected, err.Error(), err)
			}
			return fail[types.SetupResult](ReasonDownloadFailed, msgDownloadFailed, nil)
		}
		if err := m.advance(ctx, op, mdl, StatusDownloaded, ""); err != nil {
			return fail[types.SetupResult](ReasonUnexpected, err.Error(), err)
		}
		transitioned = true
	}

	if mdl.Status() == StatusDownloaded {
		log.Info().Msg("loading model")
		if err := m.advance(ctx, op, mdl, StatusLoading, ""); err != nil {
			return fail[types.SetupResult](ReasonUnexpected, err.Error(), err)
		}
		ok, err := m.loader.LoadModel(ctx, mdl)
		if err != nil {
			m.abort(ctx, op, mdl, err)
			return fail[types.SetupResult](ReasonUnexpected, err.Error(), err)
		}
		if !ok {
			if err := m.advance(ctx, op, mdl, StatusError, msgLoadingFailed); err != nil {
				return fail[types.SetupResult](ReasonUnexpected, err.Error(), err)
			}
			return fail[types.SetupResult](ReasonLoadFailed, msgLoadingFailed, nil)
		}
		if err := m.advance(ctx, op, mdl, StatusLoaded, ""); err != nil {
			return fail[types.SetupResult](ReasonUnexpected, err.Error(), err)
		}
		m.mu.Lock()
		m.cur = mdl
		m.mu.Unlock()
		transitioned = true
	}

	// Already-loaded models pass straight through; still upsert so the
	// repository reflects the last attempted setup.
	if !transitioned {
		m.repo.SaveModel(ctx, mdl)
	}
	return succeed(types.SetupResult{Model: mdl.Info().Name, Status: string(mdl.Status())})
}

// advance applies one transition, persists it and publishes it.
func (m *Manager) advance(ctx context.Context, op string, mdl *Model, to Status, msg string) error {
	from := mdl.Status()
	if err := mdl.transition(to, msg); err != nil {
		return err
	}
	m.repo.SaveModel(ctx, mdl)
	m.metrics.transitions.WithLabelValues(string(to)).Inc()
	m.log.Debug().Str("op", op).Str("model", mdl.Info().Name).Str("from", string(from)).Str("to", string(to)).Msg("transition")
	m.publish("transition", mdl.Info().Name, map[string]any{"op": op, "from": from, "to": to})
	return nil
}

// abort moves a model caught mid-transition into the error state. It runs
// inside SetupModel's recover, so a repository that panics again while the
// error state is saved must not escape; the in-memory status is still error.
func (m *Manager) abort(ctx context.Context, op string, mdl *Model, cause error) {
	if mdl == nil || !mdl.Status().CanTransitionTo(StatusError) {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.log.Error().Str("op", op).Str("model", mdl.Info().Name).Interface("panic", r).Msg("saving error state failed")
		}
	}()
	_ = m.advance(ctx, op, mdl, StatusError, cause.Error())
}
