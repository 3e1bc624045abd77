package tui

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/jask/shellbridge/internal/bridge"
	"github.com/jask/shellbridge/internal/dispatch"
	"github.com/jask/shellbridge/internal/env"
)

type fakeCaller struct {
	mu      sync.Mutex
	answers map[string]dispatch.Outcome[json.RawMessage]
	calls   map[string]int
}

func newFakeCaller(answers map[string]dispatch.Outcome[json.RawMessage]) *fakeCaller {
	return &fakeCaller{answers: answers, calls: map[string]int{}}
}

func (f *fakeCaller) Dispatch(_ context.Context, name string, _ bridge.Args) dispatch.Outcome[json.RawMessage] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	if out, ok := f.answers[name]; ok {
		return out
	}
	return dispatch.Err[json.RawMessage]("no answer for " + name)
}

func (f *fakeCaller) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func nativeAnswers() map[string]dispatch.Outcome[json.RawMessage] {
	return map[string]dispatch.Outcome[json.RawMessage]{
		bridge.CmdListDevices:     dispatch.Ok(json.RawMessage(`["Keyboard A","Mouse B"]`)),
		bridge.CmdListPrinters:    dispatch.Ok(json.RawMessage(`["HP1"]`)),
		bridge.CmdListAllPrinters: dispatch.Ok(json.RawMessage(`[{"name":"HP1","ip_address":"10.0.0.5","port":9100}]`)),
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return got, cmd
}

// run executes cmd and feeds its message back into m.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m, _ = apply(t, m, cmd())
	return m
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = apply(t, m, keyMsg(string(r)))
	}
	return m
}

func plainView(m Model) string {
	return ansi.Strip(m.View())
}

func TestDevicesViewFetchesOnActivation(t *testing.T) {
	caller := newFakeCaller(nativeAnswers())
	m := New(caller, env.Native, WithStartView(ViewDevices))
	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	cmd := m.Init()
	require.True(t, m.devState.Loading())
	require.Contains(t, plainView(m), "Loading devices...")

	m = run(t, m, cmd)
	out := plainView(m)
	require.Contains(t, out, "Running in native host")
	a, b := strings.Index(out, "Keyboard A"), strings.Index(out, "Mouse B")
	require.True(t, a >= 0 && b > a, out)
	require.NotContains(t, out, "No devices found")
	require.Equal(t, 1, caller.count(bridge.CmdListDevices))
}

func TestPrintersViewShowsTable(t *testing.T) {
	caller := newFakeCaller(nativeAnswers())
	m := New(caller, env.Native, WithStartView(ViewPrinters))
	m = run(t, m, m.Init())

	out := plainView(m)
	for _, want := range []string{"HP1", "10.0.0.5", "9100", "IP Address"} {
		require.Contains(t, out, want)
	}
	require.Equal(t, 1, caller.count(bridge.CmdListPrinters))
	require.Equal(t, 1, caller.count(bridge.CmdListAllPrinters))
}

func TestPrintersTimeoutShowsErrorAndPlaceholder(t *testing.T) {
	answers := nativeAnswers()
	answers[bridge.CmdListPrinters] = dispatch.Err[json.RawMessage]("timeout")
	caller := newFakeCaller(answers)
	m := New(caller, env.Native, WithStartView(ViewPrinters))
	m = run(t, m, m.Init())

	st := m.prnState.State()
	require.Equal(t, "timeout", st.Error)
	require.Empty(t, st.Items)
	out := plainView(m)
	require.Contains(t, out, "timeout")
	require.Contains(t, out, "No printers found")
	require.True(t, m.statusErr)
	require.Equal(t, 0, caller.count(bridge.CmdListAllPrinters))
}

func TestLateResultAfterSwitchIsDropped(t *testing.T) {
	caller := newFakeCaller(nativeAnswers())
	m := New(caller, env.Native, WithStartView(ViewDevices))
	devicesFetch := m.Init()

	m, printersFetch := apply(t, m, keyMsg("3"))
	require.Equal(t, ViewPrinters, m.Active())
	require.NotNil(t, printersFetch)

	m = run(t, m, devicesFetch)
	require.Empty(t, m.devState.State().Items)
	require.False(t, m.devState.Active())

	m = run(t, m, printersFetch)
	require.Len(t, m.prnState.State().Items, 1)
}

func TestRefreshFetchesAgain(t *testing.T) {
	caller := newFakeCaller(nativeAnswers())
	m := New(caller, env.Native, WithStartView(ViewDevices))
	m = run(t, m, m.Init())

	m, cmd := apply(t, m, keyMsg("r"))
	require.Empty(t, m.devState.State().Items)
	m = run(t, m, cmd)
	require.Len(t, m.devState.State().Items, 2)
	require.Equal(t, 2, caller.count(bridge.CmdListDevices))
}

func TestSwitchingBackReactivates(t *testing.T) {
	caller := newFakeCaller(nativeAnswers())
	m := New(caller, env.Native, WithStartView(ViewDevices))
	m = run(t, m, m.Init())

	m, cmd := apply(t, m, keyMsg("tab"))
	require.Equal(t, ViewPrinters, m.Active())
	m = run(t, m, cmd)

	m, cmd = apply(t, m, keyMsg("shift+tab"))
	require.Equal(t, ViewDevices, m.Active())
	m = run(t, m, cmd)
	require.Equal(t, 2, caller.count(bridge.CmdListDevices))
	require.Len(t, m.devState.State().Items, 2)
}

func TestTextViewWebFallback(t *testing.T) {
	d := dispatch.New(env.Fixed(env.Web), nil, nil)
	m := New(d, d.Environment())
	require.Equal(t, ViewText, m.Active())

	m = typeText(t, m, "abc")
	m, cmd := apply(t, m, keyMsg("enter"))
	require.True(t, m.textPending)
	require.Contains(t, plainView(m), "Processing...")

	m = run(t, m, cmd)
	out := plainView(m)
	require.Contains(t, out, "Web fallback: Hello, abc!")
	require.Contains(t, out, "Running in web browser")
}

func TestTextViewIgnoresBlankInput(t *testing.T) {
	caller := newFakeCaller(nativeAnswers())
	m := New(caller, env.Native)
	m = typeText(t, m, "   ")
	m, cmd := apply(t, m, keyMsg("enter"))
	require.Nil(t, cmd)
	require.False(t, m.textPending)
	require.Equal(t, 0, caller.count(bridge.CmdProcessText))
}

func TestTextViewShowsFailure(t *testing.T) {
	caller := newFakeCaller(map[string]dispatch.Outcome[json.RawMessage]{
		bridge.CmdProcessText: dispatch.Err[json.RawMessage]("bridge unavailable"),
	})
	m := New(caller, env.Native)
	m = typeText(t, m, "hi")
	m, cmd := apply(t, m, keyMsg("enter"))
	m = run(t, m, cmd)
	require.Contains(t, plainView(m), "Error processing text: bridge unavailable")
}

func TestTextResultDroppedAfterLeavingView(t *testing.T) {
	caller := newFakeCaller(map[string]dispatch.Outcome[json.RawMessage]{
		bridge.CmdProcessText: dispatch.Ok(json.RawMessage(`"done"`)),
		bridge.CmdListDevices: dispatch.Ok(json.RawMessage(`[]`)),
	})
	m := New(caller, env.Native)
	m = typeText(t, m, "hi")
	m, submit := apply(t, m, keyMsg("enter"))
	m, _ = apply(t, m, keyMsg("tab"))
	m, _ = apply(t, m, keyMsg("1"))
	require.Equal(t, ViewText, m.Active())

	m = run(t, m, submit)
	require.False(t, m.textDone)
	require.NotContains(t, plainView(m), "done")
}

func TestTypingDigitsInTextViewDoesNotSwitch(t *testing.T) {
	m := New(newFakeCaller(nil), env.Web)
	m = typeText(t, m, "2q")
	require.Equal(t, ViewText, m.Active())
	require.Equal(t, "2q", m.input.Value())
}

func TestQuitKeys(t *testing.T) {
	m := New(newFakeCaller(nativeAnswers()), env.Native, WithStartView(ViewDevices))
	task := m.devState.Activate()
	_, cmd := apply(t, m, keyMsg("q"))
	require.NotNil(t, cmd)
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit outside the text view")
	}
	require.True(t, task.Cancelled())

	m = New(newFakeCaller(nil), env.Web)
	_, cmd = apply(t, m, keyMsg("ctrl+c"))
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("ctrl+c should quit from the text view")
	}
}

func TestStatusMsg(t *testing.T) {
	m := New(newFakeCaller(nil), env.Web)
	m, _ = apply(t, m, StatusMsg{Text: "metrics listener failed", IsErr: true})
	require.True(t, m.statusErr)
	require.Contains(t, plainView(m), "metrics listener failed")
}

func TestParseView(t *testing.T) {
	cases := map[string]ViewID{"text": ViewText, "Devices": ViewDevices, " printers ": ViewPrinters}
	for in, want := range cases {
		got, ok := ParseView(in)
		if !ok || got != want {
			t.Fatalf("ParseView(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}
	if _, ok := ParseView("dashboard"); ok {
		t.Fatal("unknown view should not parse")
	}
}
