package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jask/shellbridge/internal/dispatch"
	"github.com/jask/shellbridge/internal/enumerate"
	"github.com/jask/shellbridge/internal/env"
	"github.com/jask/shellbridge/internal/render"
)

// printView renders one view as plain lines and returns the exit code:
// 0 on success, 1 when the view shows an error, 2 on bad usage.
func printView(ctx context.Context, w io.Writer, c dispatch.Caller, environment env.Environment, view, text string, logger *slog.Logger) int {
	var v render.View
	switch strings.ToLower(strings.TrimSpace(view)) {
	case "devices":
		v = render.Devices(enumerate.Devices(c).WithLogger(logger).Enumerate(ctx))
	case "printers":
		v = render.Printers(enumerate.Printers(c).WithLogger(logger).Enumerate(ctx))
	case "text":
		if strings.TrimSpace(text) == "" {
			fmt.Fprintln(w, "-text is required with -print text")
			return 2
		}
		v = render.Text(dispatch.ProcessText(ctx, c, text))
	default:
		fmt.Fprintf(w, "unknown view %q (want devices, printers or text)\n", view)
		return 2
	}

	fmt.Fprintln(w, environment.Banner())
	fmt.Fprintln(w, v.String())
	if v.Error != "" {
		return 1
	}
	return 0
}
