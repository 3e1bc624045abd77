// Package tui hosts the Text, Devices and Printers views in a Bubble Tea
// program. Switching to a view activates it, which fetches its data once.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/shellbridge/internal/dispatch"
	"github.com/jask/shellbridge/internal/enumerate"
	"github.com/jask/shellbridge/internal/env"
)

const appName = "shellbridge"

type ViewID int

const (
	ViewText ViewID = iota
	ViewDevices
	ViewPrinters
)

var viewNames = []string{"Text", "Devices", "Printers"}

func (v ViewID) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return fmt.Sprintf("view(%d)", int(v))
	}
	return viewNames[v]
}

// ParseView maps a config name (text, devices, printers) to a view.
func ParseView(name string) (ViewID, bool) {
	for i, n := range viewNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return ViewID(i), true
		}
	}
	return ViewText, false
}

type Option func(*Model)

func WithStartView(v ViewID) Option {
	return func(m *Model) {
		if v >= 0 && int(v) < len(viewNames) {
			m.active = v
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// WithContext sets the context every dispatch runs under.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

type Model struct {
	ctx         context.Context
	caller      dispatch.Caller
	environment env.Environment
	log         *slog.Logger
	keys        keyMap

	devices  enumerate.Enumerator[enumerate.Device]
	printers enumerate.Enumerator[enumerate.Printer]
	devState *enumerate.Holder[enumerate.Device]
	prnState *enumerate.Holder[enumerate.Printer]

	input       textinput.Model
	textSeq     uint64
	textPending bool
	textDone    bool
	textOut     dispatch.Outcome[string]

	active    ViewID
	status    string
	statusErr bool
	width     int
	height    int
}

// New builds the shell UI over caller. environment is only displayed; the
// caller has already bound its backend.
func New(caller dispatch.Caller, environment env.Environment, opts ...Option) Model {
	inp := textinput.New()
	inp.Placeholder = "Enter text"
	inp.Prompt = "text> "
	inp.CharLimit = 512
	inp.Cursor.SetMode(cursor.CursorStatic)

	m := Model{
		ctx:         context.Background(),
		caller:      caller,
		environment: environment,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		keys:        newKeyMap(),
		devState:    enumerate.NewHolder[enumerate.Device](),
		prnState:    enumerate.NewHolder[enumerate.Printer](),
		input:       inp,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.active == ViewText {
		m.input.Focus()
	}
	m.devices = enumerate.Devices(caller).WithLogger(m.log)
	m.printers = enumerate.Printers(caller).WithLogger(m.log)
	return m
}

func (m Model) Active() ViewID { return m.active }

// Init activates the start view.
func (m Model) Init() tea.Cmd {
	return m.activate(m.active)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-16, 10)
		return m, nil
	case devicesMsg:
		if !m.devState.Apply(msg.task, msg.state) {
			m.log.Debug("dropped stale result", "view", ViewDevices.String(), "task", msg.task.ID())
			return m, nil
		}
		m.setLoaded("devices", len(msg.state.Items), msg.state.Error)
		return m, nil
	case printersMsg:
		if !m.prnState.Apply(msg.task, msg.state) {
			m.log.Debug("dropped stale result", "view", ViewPrinters.String(), "task", msg.task.ID())
			return m, nil
		}
		m.setLoaded("printers", len(msg.state.Items), msg.state.Error)
		return m, nil
	case textMsg:
		if msg.seq != m.textSeq {
			m.log.Debug("dropped stale result", "view", ViewText.String(), "seq", msg.seq)
			return m, nil
		}
		m.textPending = false
		m.textDone = true
		m.textOut = msg.out
		if !msg.out.IsOk() {
			m.status, m.statusErr = "process_text failed", true
		} else {
			m.status, m.statusErr = "Text processed.", false
		}
		return m, nil
	case StatusMsg:
		m.status = msg.Text
		m.statusErr = msg.IsErr
		return m, nil
	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		m.deactivate(m.active)
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextView):
		cmd := m.switchTo((m.active + 1) % ViewID(len(viewNames)))
		return m, cmd
	case key.Matches(msg, m.keys.PrevView):
		cmd := m.switchTo((m.active + ViewID(len(viewNames)) - 1) % ViewID(len(viewNames)))
		return m, cmd
	}

	if m.active == ViewText {
		if key.Matches(msg, m.keys.Submit) {
			cmd := m.submitText()
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.deactivate(m.active)
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		cmd = m.activate(m.active)
	case key.Matches(msg, m.keys.Text):
		cmd = m.switchTo(ViewText)
	case key.Matches(msg, m.keys.Devices):
		cmd = m.switchTo(ViewDevices)
	case key.Matches(msg, m.keys.Printers):
		cmd = m.switchTo(ViewPrinters)
	}
	return m, cmd
}

func (m *Model) switchTo(v ViewID) tea.Cmd {
	if v == m.active {
		return nil
	}
	m.deactivate(m.active)
	m.active = v
	return m.activate(v)
}

// activate mounts v. List views start a single fetch bound to a fresh task.
func (m *Model) activate(v ViewID) tea.Cmd {
	ctx := m.ctx
	switch v {
	case ViewDevices:
		task := m.devState.Activate()
		e := m.devices
		m.status, m.statusErr = "Loading devices...", false
		return func() tea.Msg {
			return devicesMsg{task: task, state: e.Enumerate(ctx)}
		}
	case ViewPrinters:
		task := m.prnState.Activate()
		e := m.printers
		m.status, m.statusErr = "Loading printers...", false
		return func() tea.Msg {
			return printersMsg{task: task, state: e.Enumerate(ctx)}
		}
	default:
		m.status, m.statusErr = "", false
		return m.input.Focus()
	}
}

func (m *Model) deactivate(v ViewID) {
	switch v {
	case ViewDevices:
		m.devState.Deactivate()
	case ViewPrinters:
		m.prnState.Deactivate()
	default:
		m.textSeq++
		m.textPending = false
		m.textDone = false
		m.textOut = dispatch.Outcome[string]{}
		m.input.Reset()
		m.input.Blur()
	}
}

// submitText sends the input to process_text. Blank input is ignored.
func (m *Model) submitText() tea.Cmd {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return nil
	}
	m.textSeq++
	m.textPending = true
	seq, ctx, caller := m.textSeq, m.ctx, m.caller
	return func() tea.Msg {
		return textMsg{seq: seq, out: dispatch.ProcessText(ctx, caller, text)}
	}
}

func (m *Model) setLoaded(resource string, n int, errMsg string) {
	if errMsg != "" {
		m.status = fmt.Sprintf("Could not load %s: %s", resource, errMsg)
		m.statusErr = true
		return
	}
	m.status = fmt.Sprintf("Loaded %d %s.", n, resource)
	m.statusErr = false
}
