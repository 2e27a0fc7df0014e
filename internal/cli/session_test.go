package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llamasvc/internal/manager"
	"llamasvc/pkg/types"
)

type fakeService struct {
	setup  manager.Outcome[types.SetupResult]
	gen    manager.Outcome[types.GenerationResponse]
	status types.StatusResponse
	panic  any
	calls  []string
}

func (f *fakeService) SetupModel(ctx context.Context, name string) manager.Outcome[types.SetupResult] {
	f.calls = append(f.calls, "setup:"+name)
	if f.panic != nil {
		panic(f.panic)
	}
	return f.setup
}

func (f *fakeService) GenerateText(ctx context.Context, prompt string, opts ...manager.GenerateOption) manager.Outcome[types.GenerationResponse] {
	f.calls = append(f.calls, "generate:"+prompt)
	return f.gen
}

func (f *fakeService) ModelStatus() types.StatusResponse {
	f.calls = append(f.calls, "status")
	return f.status
}

func failed[T any](reason manager.FailureReason, msg string) manager.Outcome[T] {
	return manager.Outcome[T]{Failure: &manager.Failure{Reason: reason, Message: msg}}
}

func runSession(t *testing.T, svc Service, input string) string {
	t.Helper()
	var out bytes.Buffer
	s := &Session{Service: svc, In: strings.NewReader(input), Out: &out, Log: zerolog.Nop()}
	require.NoError(t, s.Run(context.Background()))
	return out.String()
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		in, cmd, arg string
	}{
		{"setup llama-7b", "setup", "llama-7b"},
		{"  setup   llama-7b  ", "setup", "llama-7b"},
		{"generate What is AI?", "generate", "What is AI?"},
		{"status", "status", ""},
		{" quit ", "quit", ""},
		{"setup", "", ""},
		{"setup   ", "", ""},
		{"generate", "", ""},
		{"setupx y", "", ""},
		{"status now", "", ""},
		{"", "", ""},
		{"help", "", ""},
	}
	for _, c := range cases {
		cmd, arg := parseCommand(c.in)
		assert.Equal(t, c.cmd, cmd, "cmd for %q", c.in)
		assert.Equal(t, c.arg, arg, "arg for %q", c.in)
	}
}

func TestSession_BannerAndQuit(t *testing.T) {
	svc := &fakeService{}
	out := runSession(t, svc, "quit\nstatus\n")

	assert.Contains(t, out, "🦙 Llama Model Service CLI")
	assert.Contains(t, out, "Commands: setup <model>, generate <prompt>, status, quit")
	assert.Contains(t, out, "👋 Goodbye!")
	assert.Empty(t, svc.calls, "nothing after quit may run")
	assert.NotContains(t, out, "\n> ", "no prompt when input is not a terminal")
}

func TestSession_EOFActsLikeQuit(t *testing.T) {
	out := runSession(t, &fakeService{}, "")
	assert.Contains(t, out, "👋 Goodbye!")
}

func TestSession_SetupOutcomes(t *testing.T) {
	ok := &fakeService{setup: manager.Outcome[types.SetupResult]{Value: types.SetupResult{Model: "llama-7b", Status: "loaded"}}}
	out := runSession(t, ok, "setup llama-7b\n")
	assert.Contains(t, out, "✅ Model llama-7b setup complete")
	assert.Equal(t, []string{"setup:llama-7b"}, ok.calls)

	bad := &fakeService{setup: failed[types.SetupResult](manager.ReasonDownloadFailed, "Download failed")}
	out = runSession(t, bad, "setup llama-7b\n")
	assert.Contains(t, out, "❌ Setup failed: Download failed")
}

func TestSession_GenerateOutcomes(t *testing.T) {
	ok := &fakeService{gen: manager.Outcome[types.GenerationResponse]{Value: types.GenerationResponse{
		Text: "hello there", TokensUsed: 2, ProcessingTime: 0.1234,
	}}}
	out := runSession(t, ok, "generate say hi\n")
	assert.Contains(t, out, "🤖 hello there")
	assert.Contains(t, out, "📊 Tokens: 2, Time: 0.12s")
	assert.Equal(t, []string{"generate:say hi"}, ok.calls)

	bad := &fakeService{gen: failed[types.GenerationResponse](manager.ReasonNoModelLoaded, "No model loaded")}
	out = runSession(t, bad, "generate say hi\n")
	assert.Contains(t, out, "❌ Generation failed: No model loaded")
}

func TestSession_StatusPrintsIndentedJSON(t *testing.T) {
	out := runSession(t, &fakeService{status: types.StatusResponse{Status: types.StatusNoModel}}, "status\n")
	assert.Contains(t, out, "📋 Status: {\n  \"model\": null,\n  \"status\": \"no_model\"\n}")
}

func TestSession_UnknownCommand(t *testing.T) {
	svc := &fakeService{}
	out := runSession(t, svc, "dance\nsetup\n")
	assert.Equal(t, 2, strings.Count(out, "❓ Unknown command. Try: setup <model>, generate <prompt>, status, quit"))
	assert.Empty(t, svc.calls)
}

func TestSession_PanicIsReportedAndLoopContinues(t *testing.T) {
	svc := &fakeService{panic: "boom", status: types.StatusResponse{Status: types.StatusNoModel}}
	out := runSession(t, svc, "setup m\nstatus\nquit\n")
	assert.Contains(t, out, "❌ Error: boom")
	assert.Contains(t, out, "📋 Status:")
	assert.Contains(t, out, "👋 Goodbye!")
}

func TestSession_ForcedPrompt(t *testing.T) {
	var out bytes.Buffer
	s := &Session{Service: &fakeService{}, In: strings.NewReader("quit\n"), Out: &out, Prompt: true, Log: zerolog.Nop()}
	require.NoError(t, s.Run(context.Background()))
	assert.Contains(t, out.String(), "\n> ")
}

func TestSession_CancelEndsLoop(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	var out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	s := &Session{Service: &fakeService{}, In: pr, Out: &out, Log: zerolog.Nop()}
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("session did not stop after cancel")
	}
	assert.Contains(t, out.String(), "👋 Goodbye!")
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("tty gone") }

func TestSession_ReadErrorIsReturned(t *testing.T) {
	var out bytes.Buffer
	s := &Session{Service: &fakeService{}, In: errReader{}, Out: &out, Log: zerolog.Nop()}
	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tty gone")
}
