package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llamasvc/internal/config"
	"llamasvc/internal/manager"
	"llamasvc/pkg/types"
)

// fastConfig removes the simulated latencies.
func fastConfig() config.Config {
	cfg := config.Default()
	cfg.DownloadDelayMS = 0
	cfg.LoadDelayMS = 0
	cfg.GenerateDelayMS = 0
	return cfg
}

func newFastApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()
	cfg := fastConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	app, err := NewApp(cfg, zerolog.Nop())
	require.NoError(t, err)
	return app
}

func TestApp_SessionEndToEnd(t *testing.T) {
	app := newFastApp(t, nil)
	var out bytes.Buffer
	s := &Session{
		Service: app.Manager,
		In:      strings.NewReader("status\ngenerate too early\nsetup llama-7b\ngenerate Hello world\nstatus\nquit\n"),
		Out:     &out,
		Log:     zerolog.Nop(),
	}
	require.NoError(t, s.Run(context.Background()))

	got := out.String()
	assert.Contains(t, got, "\"status\": \"no_model\"")
	assert.Contains(t, got, "❌ Generation failed: No model loaded")
	assert.Contains(t, got, "✅ Model llama-7b setup complete")
	assert.Contains(t, got, "🤖 Generated response for: 'Hello world' (max_tokens: 100)")
	assert.Contains(t, got, "📊 Tokens: 7, Time: ")
	assert.Contains(t, got, "📋 Status: {\n  \"model\": \"llama-7b\",\n  \"status\": \"loaded\",\n  \"ready\": true\n}")

	// setup persists the model in the repository
	mdl, ok := app.Registry.GetModel(context.Background(), "llama-7b")
	require.True(t, ok)
	assert.Equal(t, manager.StatusLoaded, mdl.Status())
	assert.Equal(t, "https://example.com/models/llama-7b", mdl.Info().URL)
}

func TestApp_CatalogIsSeeded(t *testing.T) {
	app := newFastApp(t, func(c *config.Config) {
		c.Models = []config.ModelEntry{{Name: "tiny", Version: "0.1", SizeGB: 0.5, URL: "https://mirror.example/tiny", LocalPath: "/srv/tiny"}}
	})
	require.Equal(t, 1, app.Registry.Len())

	out := app.Manager.SetupModel(context.Background(), "tiny")
	require.True(t, out.OK(), "setup failed: %v", out.Err())
	mdl, _ := app.Registry.GetModel(context.Background(), "tiny")
	assert.Equal(t, "/srv/tiny", mdl.Info().LocalPath, "catalog metadata must be kept")
}

func TestApp_MetricsRecorded(t *testing.T) {
	app := newFastApp(t, nil)
	app.Manager.SetupModel(context.Background(), "m")
	app.Manager.GenerateText(context.Background(), "one two")

	n, err := testutil.GatherAndCount(app.Metrics, "llamasvc_manager_setups_total", "llamasvc_manager_generations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestApp_HandlerServesStatus(t *testing.T) {
	app := newFastApp(t, nil)
	h := app.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	require.True(t, app.Manager.SetupModel(context.Background(), "llama-7b").OK())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var st types.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	require.NotNil(t, st.Model)
	assert.Equal(t, "llama-7b", *st.Model)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models", nil))
	var models types.ModelsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &models))
	require.Len(t, models.Models, 1)
	assert.True(t, models.Models[0].Ready)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "llamasvc_manager_setups_total")
}

func TestApp_WithOpsStartsAndStopsListener(t *testing.T) {
	app := newFastApp(t, func(c *config.Config) { c.MetricsAddr = "127.0.0.1:0" })
	ran := false
	err := app.WithOps(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestApp_WithOpsBadAddress(t *testing.T) {
	app := newFastApp(t, func(c *config.Config) { c.MetricsAddr = "not-an-address" })
	err := app.WithOps(context.Background(), func(ctx context.Context) error {
		t.Fatal("fn must not run when the listener cannot start")
		return nil
	})
	assert.Error(t, err)
}

func TestApp_ExtraPublishersReceiveTransitions(t *testing.T) {
	pub := manager.NewMemoryPublisher()
	app, err := NewApp(fastConfig(), zerolog.Nop(), pub)
	require.NoError(t, err)

	out := app.Manager.SetupModel(context.Background(), "llama-7b")
	require.True(t, out.OK(), "setup: %v", out.Err())
	assert.Equal(t,
		[]manager.Status{manager.StatusDownloading, manager.StatusDownloaded, manager.StatusLoading, manager.StatusLoaded},
		pub.Transitions("llama-7b"))
}
