package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"llamasvc/internal/manager"
	"llamasvc/pkg/types"
)

const (
	bannerTitle = "🦙 Llama Model Service CLI"
	grammar     = "setup <model>, generate <prompt>, status, quit"
)

// Service is the subset of the manager the interactive session drives.
type Service interface {
	SetupModel(ctx context.Context, name string) manager.Outcome[types.SetupResult]
	GenerateText(ctx context.Context, prompt string, opts ...manager.GenerateOption) manager.Outcome[types.GenerationResponse]
	ModelStatus() types.StatusResponse
}

// Session is a line-oriented REPL over a Service. Commands run one at a time.
type Session struct {
	Service Service
	In      io.Reader
	Out     io.Writer
	// Prompt forces the "> " prompt even when In is not a terminal.
	Prompt bool
	Log    zerolog.Logger
}

// Run reads commands until quit, end of input or ctx cancellation.
// Failed commands are reported and the loop continues.
func (s *Session) Run(ctx context.Context) error {
	st := newStyles(s.Out)
	prompt := s.Prompt || isTerminal(s.In)

	fmt.Fprintln(s.Out, st.title.Render(bannerTitle))
	fmt.Fprintln(s.Out, "Commands: "+grammar)

	rctx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines, readErr := s.readLines(rctx)
	for {
		if prompt {
			fmt.Fprint(s.Out, "\n> ")
		}
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.Out)
			s.goodbye(st)
			return nil
		case line, ok := <-lines:
			if !ok {
				s.goodbye(st)
				return <-readErr
			}
			if s.dispatch(ctx, st, line) {
				return nil
			}
		}
	}
}

// readLines feeds input lines to the loop. The reader stops sending once ctx
// is done; a Read already blocked on In returns only when In is closed.
func (s *Session) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(s.In)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		if err := sc.Err(); err != nil {
			errc <- fmt.Errorf("read input: %w", err)
			return
		}
		errc <- nil
	}()
	return lines, errc
}

// dispatch runs one command and reports whether the session should end.
func (s *Session) dispatch(ctx context.Context, st styles, raw string) (quit bool) {
	defer func() {
		if r := recover(); r != nil {
			s.Log.Error().Interface("panic", r).Str("command", raw).Msg("command panicked")
			fmt.Fprintln(s.Out, st.fail.Render(fmt.Sprintf("❌ Error: %v", r)))
			quit = false
		}
	}()

	cmd, arg := parseCommand(raw)
	switch cmd {
	case "setup":
		s.setup(ctx, st, arg)
	case "generate":
		s.generate(ctx, st, arg)
	case "status":
		s.status(st)
	case "quit":
		s.goodbye(st)
		return true
	default:
		fmt.Fprintln(s.Out, st.info.Render("❓ Unknown command. Try: "+grammar))
	}
	return false
}

// parseCommand splits a trimmed line into a verb and its argument. setup and
// generate need a non-empty argument; status and quit take none. Anything
// else yields an empty verb.
func parseCommand(line string) (cmd, arg string) {
	line = strings.TrimSpace(line)
	switch line {
	case "status", "quit":
		return line, ""
	}
	for _, verb := range []string{"setup", "generate"} {
		rest, ok := strings.CutPrefix(line, verb)
		if !ok || rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
			continue
		}
		if arg := strings.TrimSpace(rest); arg != "" {
			return verb, arg
		}
	}
	return "", ""
}

func (s *Session) setup(ctx context.Context, st styles, name string) {
	out := s.Service.SetupModel(ctx, name)
	if !out.OK() {
		fmt.Fprintln(s.Out, st.fail.Render("❌ Setup failed: "+out.Failure.Message))
		return
	}
	fmt.Fprintln(s.Out, st.ok.Render(fmt.Sprintf("✅ Model %s setup complete", name)))
}

func (s *Session) generate(ctx context.Context, st styles, prompt string) {
	out := s.Service.GenerateText(ctx, prompt)
	if !out.OK() {
		fmt.Fprintln(s.Out, st.fail.Render("❌ Generation failed: "+out.Failure.Message))
		return
	}
	fmt.Fprintln(s.Out, "🤖 "+out.Value.Text)
	fmt.Fprintln(s.Out, st.dim.Render(fmt.Sprintf("📊 Tokens: %d, Time: %.2fs", out.Value.TokensUsed, out.Value.ProcessingTime)))
}

func (s *Session) status(st styles) {
	b, err := json.MarshalIndent(s.Service.ModelStatus(), "", "  ")
	if err != nil {
		fmt.Fprintln(s.Out, st.fail.Render("❌ Error: "+err.Error()))
		return
	}
	// Multi-line JSON stays unstyled; lipgloss would pad every line.
	fmt.Fprintln(s.Out, "📋 Status: "+string(b))
}

func (s *Session) goodbye(st styles) {
	fmt.Fprintln(s.Out, st.title.Render("👋 Goodbye!"))
}
