package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sullytools/editguru/internal/sandbox"
)

// Result is the outcome of one tool invocation. Exactly one of Content and
// Failure is meaningful; Failure is data, not a Go error, so the control loop
// can feed it back into the conversation and keep driving.
type Result struct {
	Content string
	Failure *Failure
}

// OK reports whether the invocation succeeded.
func (r Result) OK() bool {
	return r.Failure == nil
}

// Message returns the text to feed back into the conversation.
func (r Result) Message() string {
	if r.Failure != nil {
		return "Tool failed: " + r.Failure.Error()
	}
	return r.Content
}

// Invoker validates tool-call payloads and executes them against a sandbox.
// Invoke is total: it always returns a Result and never panics through.
type Invoker struct {
	box *sandbox.Sandbox
	log *slog.Logger
}

// NewInvoker creates an invoker bound to the session's sandbox.
func NewInvoker(box *sandbox.Sandbox, log *slog.Logger) *Invoker {
	if log == nil {
		log = slog.Default()
	}
	return &Invoker{box: box, log: log}
}

// Invoke looks up the named tool, strictly validates raw against its
// parameter shape, runs it, and captures any failure as data.
func (inv *Invoker) Invoke(ctx context.Context, name string, raw json.RawMessage) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			inv.log.Error("tool panicked", "tool", name, "panic", r)
			result = Result{Failure: failf(KindIO, "tool %s panicked: %v", name, r)}
		}
	}()

	t, ok := lookup(name)
	if !ok {
		return Result{Failure: BadParametersf("unknown tool %q", name)}
	}

	content, err := t.handle(ctx, inv.box, raw)
	if err != nil {
		f := AsFailure(err)
		inv.log.Warn("tool failed", "tool", name, "kind", string(f.Kind), "error", f.Message)
		return Result{Failure: f}
	}

	inv.log.Debug("tool succeeded", "tool", name)
	return Result{Content: content}
}

// InvokeJSON is a convenience wrapper for callers holding the raw arguments
// as a string, as completion backends deliver them.
func (inv *Invoker) InvokeJSON(ctx context.Context, name, arguments string) Result {
	if arguments == "" {
		arguments = "{}"
	}
	if !json.Valid([]byte(arguments)) {
		return Result{Failure: BadParametersf("arguments are not valid JSON: %s", truncateArgs(arguments))}
	}
	return inv.Invoke(ctx, name, json.RawMessage(arguments))
}

func truncateArgs(s string) string {
	const max = 120
	if len(s) <= max {
		return s
	}
	return fmt.Sprintf("%s...", s[:max])
}
