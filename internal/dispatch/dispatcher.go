// Package dispatch runs named commands against the backend chosen for the
// session and folds every failure into an Outcome.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jask/shellbridge/internal/bridge"
	"github.com/jask/shellbridge/internal/env"
)

// DefaultTimeout bounds a single command when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// TimeoutMessage is the outcome message for a command that ran out of time.
const TimeoutMessage = "timeout"

// Caller is anything that can dispatch a command.
type Caller interface {
	Dispatch(ctx context.Context, name string, args bridge.Args) Outcome[json.RawMessage]
}

// Dispatcher executes commands against one backend, selected at construction
// from the detected environment.
type Dispatcher struct {
	env     env.Environment
	client  bridge.Client
	timeout time.Duration
	log     *slog.Logger
	metrics *Metrics
}

type Option func(*Dispatcher)

// WithTimeout sets the per-command deadline. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(x *Dispatcher) { x.timeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(x *Dispatcher) {
		if l != nil {
			x.log = l
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(x *Dispatcher) { x.metrics = m }
}

// New detects the environment once and binds the matching client. A missing
// native client means every native call reports the bridge as unavailable.
func New(detector env.Detector, native, fallback bridge.Client, opts ...Option) *Dispatcher {
	environment := env.Web
	if detector != nil {
		environment = detector.Detect()
	}
	d := &Dispatcher{
		env:     environment,
		timeout: DefaultTimeout,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	switch environment {
	case env.Native:
		if native == nil {
			native = bridge.NewNativeClient("")
		}
		d.client = native
	default:
		if fallback == nil {
			fallback = bridge.NewFallbackClient()
		}
		d.client = fallback
	}
	d.log.Info("dispatcher ready", "environment", environment.String())
	return d
}

func (d *Dispatcher) Environment() env.Environment { return d.env }

// Dispatch runs name with args. It never panics and never returns a bare error:
// the result is always an Outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args bridge.Args) (out Outcome[json.RawMessage]) {
	start := time.Now()
	result := "ok"
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("command panicked", "command", name, "panic", r)
			out = Err[json.RawMessage](panicMessage(r))
			result = "error"
		}
		d.metrics.observe(name, d.env.String(), result, time.Since(start))
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	raw, err := d.client.Invoke(ctx, name, args)
	if err != nil {
		result = classify(err)
		d.log.Warn("command failed",
			"command", name,
			"environment", d.env.String(),
			"result", result,
			"error", err,
			"took", time.Since(start),
		)
		return Err[json.RawMessage](failureMessage(err))
	}
	d.log.Debug("command ok", "command", name, "environment", d.env.String(), "bytes", len(raw), "took", time.Since(start))
	return Ok(raw)
}

func (d *Dispatcher) Close() error {
	if d.client == nil {
		return nil
	}
	return d.client.Close()
}

// Call dispatches and decodes the result. Decoding failures become Err, so a
// malformed payload never reaches the caller as a partially filled value.
func Call[T any](ctx context.Context, c Caller, name string, args bridge.Args, decode func(json.RawMessage) (T, error)) Outcome[T] {
	return Then(c.Dispatch(ctx, name, args), decode)
}

// ProcessText runs process_text for text.
func ProcessText(ctx context.Context, c Caller, text string) Outcome[string] {
	return Call(ctx, c, bridge.CmdProcessText, bridge.Args{"text": text}, DecodeText)
}

// DecodeText accepts a JSON string; null decodes to "".
func DecodeText(raw json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: expected text", bridge.ErrMalformedResult)
	}
	return s, nil
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return TimeoutMessage
	case errors.Is(err, context.Canceled):
		return "cancelled"
	}
	return strings.TrimSpace(err.Error())
}

func classify(err error) string {
	var cmdErr *bridge.CommandError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, bridge.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, bridge.ErrMalformedResult):
		return "malformed"
	case errors.Is(err, bridge.ErrUnknownCommand):
		return "unknown"
	case errors.As(err, &cmdErr):
		return "failed"
	}
	return "error"
}

func panicMessage(r any) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	if s := fmt.Sprint(r); s != "" {
		return s
	}
	return GenericFailure
}
