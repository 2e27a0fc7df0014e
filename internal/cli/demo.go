package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// DefaultDemoModel is set up by the scripted demo when no name is given.
const DefaultDemoModel = "llama-7b"

const demoPrompt = "What is artificial intelligence?"

// Demo walks svc through setup, status and one generation, printing each
// outcome as JSON. Failures are printed, not returned; the error is only
// set when ctx is canceled part way.
func Demo(ctx context.Context, svc Service, out io.Writer, model string) error {
	if model == "" {
		model = DefaultDemoModel
	}
	st := newStyles(out)
	fmt.Fprintln(out, st.title.Render("🚀 Starting Llama Model Service Demo"))

	fmt.Fprintf(out, "\n1. Setting up model '%s'...\n", model)
	fmt.Fprintf(out, "Setup result: %s\n", toJSON(svc.SetupModel(ctx, model)))
	if err := ctx.Err(); err != nil {
		return err
	}

	fmt.Fprintln(out, "\n2. Checking model status...")
	fmt.Fprintf(out, "Status: %s\n", toJSON(svc.ModelStatus()))

	fmt.Fprintln(out, "\n3. Generating text...")
	fmt.Fprintf(out, "Generation result: %s\n", toJSON(svc.GenerateText(ctx, demoPrompt)))
	return ctx.Err()
}

func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}
