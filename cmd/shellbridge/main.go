package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jask/shellbridge/internal/bridge"
	"github.com/jask/shellbridge/internal/config"
	"github.com/jask/shellbridge/internal/dispatch"
	"github.com/jask/shellbridge/internal/env"
	"github.com/jask/shellbridge/internal/logging"
	"github.com/jask/shellbridge/internal/metrics"
	"github.com/jask/shellbridge/internal/tui"
)

func main() {
	printFlag := flag.String("print", "", "render one view to stdout and exit (devices, printers or text)")
	text := flag.String("text", "", "input for -print text")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	interactive := *printFlag == ""
	logOpts := logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File}
	if !interactive {
		// stdout carries the view; logs go to stderr.
		logOpts.File = ""
	}
	logger, logCloser, err := logging.New(logOpts, os.Stderr)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)
	logger.Debug("config loaded", "path", config.Path(), "mode", cfg.Bridge.Mode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	d := newDispatcher(cfg, reg, logger)
	defer d.Close()

	if !interactive {
		code := printView(ctx, os.Stdout, d, d.Environment(), *printFlag, *text, logger)
		d.Close()
		logCloser.Close()
		os.Exit(code)
	}

	start, ok := tui.ParseView(cfg.UI.StartView)
	if !ok {
		start = tui.ViewText
	}
	model := tui.New(d, d.Environment(),
		tui.WithStartView(start),
		tui.WithLogger(logger),
		tui.WithContext(ctx),
	)
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(model, opts...)

	if cfg.Metrics.Listen != "" {
		_, stop, err := startMetrics(cfg.Metrics.Listen, reg, d.Environment(), logger, p.Send)
		if err != nil {
			logger.Error("metrics listener failed", "addr", cfg.Metrics.Listen, "error", err)
		} else {
			defer stop()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// startMetrics serves /metrics and /healthz on addr. Listener errors are sent
// to the UI through send, which must be usable before the server starts.
func startMetrics(addr string, reg *prometheus.Registry, environment env.Environment, logger *slog.Logger, send func(tea.Msg)) (*metrics.Server, func(), error) {
	srv := metrics.New(addr, reg, environment.String(), logger)
	err := srv.Start(func(err error) {
		send(tui.StatusMsg{Text: "metrics: " + err.Error(), IsErr: true})
	})
	if err != nil {
		return nil, nil, err
	}
	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return srv, stop, nil
}

// newDispatcher resolves the environment and wires both backends.
func newDispatcher(cfg config.Config, reg prometheus.Registerer, logger *slog.Logger) *dispatch.Dispatcher {
	probe := env.OSProbe(cfg.Bridge.Marker)
	var detector env.Detector = probe
	if forced, ok := env.Parse(cfg.Bridge.Mode); ok {
		detector = env.Fixed(forced)
	}

	url := cfg.Bridge.URL
	if url == "" {
		url = probe.Endpoint()
	}
	native := bridge.NewNativeClient(url,
		bridge.WithToken(cfg.Bridge.Token),
		bridge.WithDialTimeout(cfg.Bridge.DialTimeout),
		bridge.WithLogger(logger),
	)
	return dispatch.New(detector, native, bridge.NewFallbackClient(),
		dispatch.WithTimeout(cfg.Bridge.Timeout),
		dispatch.WithLogger(logger),
		dispatch.WithMetrics(dispatch.NewMetrics(reg)),
	)
}
