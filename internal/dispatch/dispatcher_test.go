package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/jask/shellbridge/internal/bridge"
	"github.com/jask/shellbridge/internal/env"
)

// stubClient answers Invoke with fn and records the last call.
type stubClient struct {
	fn       func(ctx context.Context, name string, args bridge.Args) (json.RawMessage, error)
	lastName string
	lastArgs bridge.Args
	closed   bool
}

func (s *stubClient) Invoke(ctx context.Context, name string, args bridge.Args) (json.RawMessage, error) {
	s.lastName, s.lastArgs = name, args
	return s.fn(ctx, name, args)
}

func (s *stubClient) Close() error {
	s.closed = true
	return nil
}

func returning(raw string, err error) *stubClient {
	return &stubClient{fn: func(context.Context, string, bridge.Args) (json.RawMessage, error) {
		if err != nil {
			return nil, err
		}
		return json.RawMessage(raw), nil
	}}
}

func TestDispatchSelectsBackendOnce(t *testing.T) {
	native := returning(`"native"`, nil)
	fallback := returning(`"fallback"`, nil)

	d := New(env.Fixed(env.Native), native, fallback)
	require.Equal(t, env.Native, d.Environment())
	out := d.Dispatch(context.Background(), bridge.CmdProcessText, bridge.Args{"text": "x"})
	raw, ok := out.Value()
	require.True(t, ok)
	require.JSONEq(t, `"native"`, string(raw))
	require.Equal(t, bridge.CmdProcessText, native.lastName)
	require.Equal(t, "x", native.lastArgs.String("text"))
	require.Empty(t, fallback.lastName)

	d = New(env.Fixed(env.Web), native, fallback)
	out = d.Dispatch(context.Background(), bridge.CmdListDevices, nil)
	raw, _ = out.Value()
	require.JSONEq(t, `"fallback"`, string(raw))

	require.NoError(t, d.Close())
	require.True(t, fallback.closed)
}

func TestDispatchWebProcessTextFallback(t *testing.T) {
	d := New(env.NewProbe("", nil), nil, nil)
	require.Equal(t, env.Web, d.Environment())

	out := ProcessText(context.Background(), d, "abc")
	got, ok := out.Value()
	require.True(t, ok)
	require.Equal(t, "Web fallback: Hello, abc!", got)
}

func TestDispatchNormalizesFailures(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"command error", &bridge.CommandError{Command: "list_printers", Message: "timeout"}, "timeout"},
		{"empty command error", &bridge.CommandError{Command: "list_printers"}, GenericFailure},
		{"unavailable", fmt.Errorf("%w: dial ws://x: refused", bridge.ErrUnavailable), "bridge unavailable: dial ws://x: refused"},
		{"deadline", fmt.Errorf("wait: %w", context.DeadlineExceeded), TimeoutMessage},
		{"blank error", errors.New("   "), GenericFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := New(env.Fixed(env.Native), returning("", tc.err), nil)
			out := d.Dispatch(context.Background(), bridge.CmdListPrinters, nil)
			require.False(t, out.IsOk())
			require.Equal(t, tc.want, out.Message())
		})
	}
}

func TestDispatchRecoversFromPanickingClient(t *testing.T) {
	boom := &stubClient{fn: func(context.Context, string, bridge.Args) (json.RawMessage, error) {
		panic("bridge module failed to load")
	}}
	d := New(env.Fixed(env.Native), boom, nil)

	var out Outcome[json.RawMessage]
	require.NotPanics(t, func() {
		out = d.Dispatch(context.Background(), bridge.CmdListDevices, nil)
	})
	require.False(t, out.IsOk())
	require.Equal(t, "bridge module failed to load", out.Message())
}

func TestDispatchTimeout(t *testing.T) {
	hang := &stubClient{fn: func(ctx context.Context, _ string, _ bridge.Args) (json.RawMessage, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	d := New(env.Fixed(env.Native), hang, nil, WithTimeout(20*time.Millisecond))

	start := time.Now()
	out := d.Dispatch(context.Background(), bridge.CmdListAllPrinters, nil)
	require.Less(t, time.Since(start), time.Second)
	require.Equal(t, TimeoutMessage, out.Message())
}

func TestDispatchNativeWithoutClientIsUnavailable(t *testing.T) {
	d := New(env.Fixed(env.Native), nil, nil)
	out := d.Dispatch(context.Background(), bridge.CmdListDevices, nil)
	require.False(t, out.IsOk())
	require.Contains(t, out.Message(), "bridge unavailable")
}

func TestDispatchMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	d := New(env.Fixed(env.Native), returning(`[]`, nil), nil, WithMetrics(m))
	d.Dispatch(context.Background(), bridge.CmdListDevices, nil)
	d.Dispatch(context.Background(), bridge.CmdListDevices, nil)

	failing := New(env.Fixed(env.Native), returning("", fmt.Errorf("%w: gone", bridge.ErrUnavailable)), nil, WithMetrics(m))
	failing.Dispatch(context.Background(), bridge.CmdListPrinters, nil)

	require.Equal(t, 2.0, testutil.ToFloat64(m.calls.WithLabelValues(bridge.CmdListDevices, "native", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues(bridge.CmdListPrinters, "native", "unavailable")))
}

func TestCallDecodeFailureIsErr(t *testing.T) {
	d := New(env.Fixed(env.Native), returning(`{"not":"text"}`, nil), nil)
	out := ProcessText(context.Background(), d, "abc")
	require.False(t, out.IsOk())
	require.Contains(t, out.Message(), "malformed result")
}

func TestOutcome(t *testing.T) {
	ok := Ok(3)
	v, isOk := ok.Value()
	require.True(t, isOk)
	require.Equal(t, 3, v)
	require.Empty(t, ok.Message())

	bad := Err[int]("")
	require.False(t, bad.IsOk())
	require.Equal(t, GenericFailure, bad.Message())

	var zero Outcome[int]
	require.False(t, zero.IsOk())
	require.Equal(t, GenericFailure, zero.Message())

	doubled := Then(ok, func(n int) (int, error) { return n * 2, nil })
	v, _ = doubled.Value()
	require.Equal(t, 6, v)

	failed := Then(ok, func(int) (string, error) { return "", errors.New("no") })
	require.Equal(t, "no", failed.Message())

	carried := Then(Err[int]("timeout"), func(n int) (int, error) { return n, nil })
	require.Equal(t, "timeout", carried.Message())
}

func TestDecodeText(t *testing.T) {
	s, err := DecodeText(json.RawMessage(`"Hello, abc!"`))
	require.NoError(t, err)
	require.Equal(t, "Hello, abc!", s)

	s, err = DecodeText(json.RawMessage(`null`))
	require.NoError(t, err)
	require.Empty(t, s)

	_, err = DecodeText(json.RawMessage(`[1]`))
	require.ErrorIs(t, err, bridge.ErrMalformedResult)
}
