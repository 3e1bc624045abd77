// Package enumerate turns command outcomes into displayable resource lists.
package enumerate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/jask/shellbridge/internal/bridge"
	"github.com/jask/shellbridge/internal/dispatch"
)

// State is what a list view shows: the full item set or an error, never both.
type State[T any] struct {
	Items []T
	Error string
}

// Failed builds the failure state: no items, message set.
func Failed[T any](msg string) State[T] {
	if msg == "" {
		msg = dispatch.GenericFailure
	}
	return State[T]{Items: []T{}, Error: msg}
}

// Loaded builds the success state. A nil slice is normalized to empty.
func Loaded[T any](items []T) State[T] {
	if items == nil {
		items = []T{}
	}
	return State[T]{Items: items}
}

func (s State[T]) Failed() bool { return s.Error != "" }

// Step is one command in an enumeration sequence.
type Step[T any] struct {
	Command string
	Decode  func(json.RawMessage) ([]T, error)
}

// Enumerator runs its steps in order. The first failure ends the run; otherwise
// the items of the source step are the result.
type Enumerator[T any] struct {
	resource string
	steps    []Step[T]
	source   string
	caller   dispatch.Caller
	log      *slog.Logger
}

// New builds an enumerator for resource. source must name one of the steps.
func New[T any](resource string, caller dispatch.Caller, source string, steps ...Step[T]) Enumerator[T] {
	found := false
	for _, s := range steps {
		if s.Command == source && s.Decode != nil {
			found = true
		}
	}
	if !found {
		panic(fmt.Sprintf("enumerator %q: source command %q is not a decoding step", resource, source))
	}
	return Enumerator[T]{
		resource: resource,
		steps:    steps,
		source:   source,
		caller:   caller,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger returns a copy of e that logs to l.
func (e Enumerator[T]) WithLogger(l *slog.Logger) Enumerator[T] {
	if l != nil {
		e.log = l
	}
	return e
}

func (e Enumerator[T]) Resource() string { return e.resource }

// Source is the command whose result is displayed.
func (e Enumerator[T]) Source() string { return e.source }

// Enumerate performs one fetch. It never panics and always returns a complete state.
func (e Enumerator[T]) Enumerate(ctx context.Context) (st State[T]) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("enumeration panicked", "resource", e.resource, "panic", r)
			st = Failed[T](fmt.Sprint(r))
		}
	}()

	var items []T
	for _, step := range e.steps {
		out := e.caller.Dispatch(ctx, step.Command, bridge.Args{})
		raw, ok := out.Value()
		if !ok {
			e.log.Warn("enumeration failed", "resource", e.resource, "command", step.Command, "error", out.Message())
			return Failed[T](out.Message())
		}
		if step.Command != e.source {
			e.logSideResult(step, raw)
			continue
		}
		decoded, err := step.Decode(raw)
		if err != nil {
			e.log.Warn("enumeration result rejected", "resource", e.resource, "command", step.Command, "error", err)
			return Failed[T](err.Error())
		}
		items = decoded
	}
	e.log.Info("enumerated", "resource", e.resource, "source", e.source, "count", len(items))
	return Loaded(items)
}

func (e Enumerator[T]) logSideResult(step Step[T], raw json.RawMessage) {
	if step.Decode == nil {
		e.log.Debug("enumeration step ok", "resource", e.resource, "command", step.Command, "bytes", len(raw))
		return
	}
	items, err := step.Decode(raw)
	if err != nil {
		e.log.Debug("enumeration step result ignored", "resource", e.resource, "command", step.Command, "error", err)
		return
	}
	e.log.Debug("enumeration step ok", "resource", e.resource, "command", step.Command, "count", len(items), "items", items)
}

// Devices enumerates list_devices.
func Devices(caller dispatch.Caller) Enumerator[Device] {
	return New("devices", caller, bridge.CmdListDevices,
		Step[Device]{Command: bridge.CmdListDevices, Decode: DecodeDevices},
	)
}

// Printers calls list_printers and then list_all_printers. The structured
// list_all_printers result is the one displayed; list_printers must succeed but
// its names are only logged.
func Printers(caller dispatch.Caller) Enumerator[Printer] {
	return New("printers", caller, bridge.CmdListAllPrinters,
		Step[Printer]{Command: bridge.CmdListPrinters, Decode: DecodePrinters},
		Step[Printer]{Command: bridge.CmdListAllPrinters, Decode: DecodePrinters},
	)
}
