// Package env decides whether a native host bridge is reachable for this session.
package env

import (
	"os"
	"strings"
)

// DefaultMarker is the variable a host shell exports when it provides a bridge.
// Its value is the bridge endpoint.
const DefaultMarker = "SHELLHOST_BRIDGE"

// Environment is the execution environment for the session.
type Environment int

const (
	Web Environment = iota
	Native
)

func (e Environment) String() string {
	switch e {
	case Native:
		return "native"
	default:
		return "web"
	}
}

// Banner is the user-facing description of the environment.
func (e Environment) Banner() string {
	if e == Native {
		return "Running in native host"
	}
	return "Running in web browser"
}

// Detector reports the active environment.
type Detector interface {
	Detect() Environment
}

// LookupFunc reads a variable from the global context.
type LookupFunc func(key string) (string, bool)

// Probe checks the process environment for the bridge marker.
type Probe struct {
	marker string
	lookup LookupFunc
}

func NewProbe(marker string, lookup LookupFunc) Probe {
	if strings.TrimSpace(marker) == "" {
		marker = DefaultMarker
	}
	return Probe{marker: marker, lookup: lookup}
}

// OSProbe reads the marker from the real process environment.
func OSProbe(marker string) Probe {
	return NewProbe(marker, os.LookupEnv)
}

// Detect returns Native when the marker is present and non-empty. Without a
// lookup function there is no global context to inspect, so the answer is Web.
func (p Probe) Detect() Environment {
	if _, ok := p.endpoint(); ok {
		return Native
	}
	return Web
}

// Endpoint is the marker value, or "" when no bridge is advertised.
func (p Probe) Endpoint() string {
	v, _ := p.endpoint()
	return v
}

func (p Probe) Marker() string { return p.marker }

func (p Probe) endpoint() (string, bool) {
	if p.lookup == nil {
		return "", false
	}
	v, ok := p.lookup(p.marker)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Fixed is a Detector that always reports the same environment.
type Fixed Environment

func (f Fixed) Detect() Environment { return Environment(f) }

// Parse maps a mode name to an environment. ok is false for "auto" and unknown names.
func Parse(mode string) (Environment, bool) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "native":
		return Native, true
	case "web":
		return Web, true
	default:
		return Web, false
	}
}
