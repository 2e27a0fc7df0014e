package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Options configures NewMux.
type Options struct {
	Logger zerolog.Logger
	// Gatherer backs /metrics. Nil means prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// CORS is opt-in: no middleware is added while CORSAllowedOrigins is empty.
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
}

func (o Options) withDefaults() Options {
	if o.Gatherer == nil {
		o.Gatherer = prometheus.DefaultGatherer
	}
	if len(o.CORSAllowedMethods) == 0 {
		o.CORSAllowedMethods = []string{"GET", "OPTIONS"}
	}
	if len(o.CORSAllowedHeaders) == 0 {
		o.CORSAllowedHeaders = []string{"Accept", "Content-Type", "X-Log-Level"}
	}
	return o
}
