package sim

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"llamasvc/pkg/types"
)

// Downloader pretends to fetch model artifacts. It always succeeds once the
// delay has elapsed.
type Downloader struct {
	delay time.Duration
	log   zerolog.Logger
}

func NewDownloader(delay time.Duration, log zerolog.Logger) *Downloader {
	return &Downloader{delay: delay, log: log.With().Str("component", "downloader").Logger()}
}

func (d *Downloader) Download(ctx context.Context, info types.ModelInfo) (bool, error) {
	d.log.Info().Str("model", info.Name).Str("url", info.URL).Msg("simulating download")
	if err := sleep(ctx, d.delay); err != nil {
		return false, err
	}
	d.log.Info().Str("model", info.Name).Str("path", info.LocalPath).Msg("download completed")
	return true, nil
}
