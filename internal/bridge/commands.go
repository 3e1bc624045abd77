package bridge

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Command names understood by host bridges.
const (
	CmdProcessText     = "process_text"
	CmdListDevices     = "list_devices"
	CmdListPrinters    = "list_printers"
	CmdListAllPrinters = "list_all_printers"
)

// KnownCommands lists every command name in registration order.
func KnownCommands() []string {
	return []string{CmdProcessText, CmdListDevices, CmdListPrinters, CmdListAllPrinters}
}

// maxSuggestDistance bounds how far a typo may be from a known name.
const maxSuggestDistance = 3

// Suggest returns the known command closest to name, or "" when nothing is close.
// Matching is case-insensitive; an exact match returns "".
func Suggest(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return ""
	}
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, known := range KnownCommands() {
		if known == name {
			return ""
		}
		d := levenshtein.ComputeDistance(lower, known)
		if d < bestDist {
			best, bestDist = known, d
		}
	}
	return best
}

func unknownCommand(name string) error {
	if s := Suggest(name); s != "" {
		return fmt.Errorf("%w %s (did you mean %s?)", ErrUnknownCommand, name, s)
	}
	return fmt.Errorf("%w %s", ErrUnknownCommand, name)
}
