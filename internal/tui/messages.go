package tui

import (
	"github.com/jask/shellbridge/internal/dispatch"
	"github.com/jask/shellbridge/internal/enumerate"
)

// StatusMsg replaces the status bar text. It may be sent from outside the
// program with tea.Program.Send.
type StatusMsg struct {
	Text  string
	IsErr bool
}

// devicesMsg carries the result of one devices activation.
type devicesMsg struct {
	task  *enumerate.Task
	state enumerate.State[enumerate.Device]
}

type printersMsg struct {
	task  *enumerate.Task
	state enumerate.State[enumerate.Printer]
}

// textMsg is the result of a process_text submission; seq ties it to the submission.
type textMsg struct {
	seq uint64
	out dispatch.Outcome[string]
}
