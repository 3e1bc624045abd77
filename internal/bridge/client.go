// Package bridge defines the command channel to a host shell and its two
// implementations: a WebSocket client for the native bridge and a deterministic
// fallback used when no host is present.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
)

// Args is the argument record of a command. Values must be JSON serializable.
type Args map[string]any

// Client executes named commands.
type Client interface {
	Invoke(ctx context.Context, name string, args Args) (json.RawMessage, error)
	Close() error
}

var (
	// ErrUnavailable means the bridge could not be reached or the connection was lost.
	ErrUnavailable = errors.New("bridge unavailable")
	// ErrMalformedResult means a response frame or payload could not be used.
	ErrMalformedResult = errors.New("malformed result")
	// ErrUnknownCommand means the backend does not implement the command.
	ErrUnknownCommand = errors.New("unknown command")
)

// CommandError is a failure reported by the backend after running a command.
type CommandError struct {
	Command string
	Message string
}

func (e *CommandError) Error() string {
	return e.Message
}

// String returns a string argument, or "" when absent or of another type.
func (a Args) String(key string) string {
	if a == nil {
		return ""
	}
	s, _ := a[key].(string)
	return s
}
