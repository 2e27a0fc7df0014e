// Package sim provides simulated Downloader and Loader capabilities. They
// stand in for a network fetch and an inference runtime: latency is a
// context-aware sleep and generation echoes the request.
package sim

import (
	"context"
	"time"
)

// Default simulated latencies.
const (
	DefaultDownloadDelay = time.Second
	DefaultLoadDelay     = time.Second
	DefaultGenerateDelay = 100 * time.Millisecond
)

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
