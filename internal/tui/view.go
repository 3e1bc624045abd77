package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/shellbridge/internal/env"
	"github.com/jask/shellbridge/internal/render"
)

func (m Model) View() string {
	header := renderHeader(m.active, m.environment, m.width)
	body := m.body()
	statusLine := m.renderStatus()
	footer := m.renderFooter(m.keys.bindingsFor(m.active))

	if m.height == 0 {
		return header + "\n\n" + body + "\n\n" + statusLine + "\n" + footer
	}
	main := header + "\n\n" + body
	contentHeight := max(m.height-2, 1)
	if lipgloss.Height(main) < contentHeight {
		main = lipgloss.Place(m.width, contentHeight, lipgloss.Left, lipgloss.Top, main)
	}
	return main + "\n" + statusLine + "\n" + footer
}

func (m Model) body() string {
	switch m.active {
	case ViewDevices:
		if m.devState.Loading() {
			return render.LoadingStyle.Render("Loading devices...")
		}
		return render.Devices(m.devState.State()).Render(m.width)
	case ViewPrinters:
		if m.prnState.Loading() {
			return render.LoadingStyle.Render("Loading printers...")
		}
		return render.Printers(m.prnState.State()).Render(m.width)
	default:
		return m.textBody()
	}
}

func (m Model) textBody() string {
	parts := []string{
		render.TitleStyle.Render("Process text"),
		render.InputStyle.Render(m.input.View()),
	}
	switch {
	case m.textPending:
		parts = append(parts, render.LoadingStyle.Render("Processing..."))
	case m.textDone:
		parts = append(parts, render.Text(m.textOut).Render(m.width))
	}
	return strings.Join(parts, "\n")
}

// renderHeader draws the app name, the view tabs and the environment banner.
func renderHeader(active ViewID, environment env.Environment, width int) string {
	name := render.HeaderAppStyle.Render(appName)

	tabs := make([]string, 0, len(viewNames))
	for i, tab := range viewNames {
		if ViewID(i) == active {
			tabs = append(tabs, render.ActiveTabStyle.Render(tab))
		} else {
			tabs = append(tabs, render.InactiveTabStyle.Render(tab))
		}
	}
	tabBar := render.TabSepStyle.Render(" ") + strings.Join(tabs, render.TabSepStyle.Render("│"))

	badge := render.WebBadgeStyle.Render(environment.Banner())
	if environment == env.Native {
		badge = render.NativeBadgeStyle.Render(environment.Banner())
	}

	left := name + render.TabSepStyle.Render("  ") + tabBar
	if width <= 0 {
		return render.HeaderBarStyle.Render(left + render.TabSepStyle.Render("  ") + badge)
	}
	inner := width - render.HeaderBarStyle.GetHorizontalFrameSize()
	gap := inner - lipgloss.Width(left) - lipgloss.Width(badge)
	if gap < 2 {
		gap = 2
	}
	line := left + render.TabSepStyle.Render(strings.Repeat(" ", gap)) + badge
	return render.HeaderBarStyle.Width(width).MaxHeight(1).Render(line)
}

func (m Model) renderStatus() string {
	style := render.StatusBarStyle
	if m.statusErr {
		style = render.StatusErrStyle
	}
	flat := strings.ReplaceAll(m.status, "\n", " ")
	if m.width == 0 {
		return style.Render(flat)
	}
	return style.Width(m.width).Render(flat)
}

func (m Model) renderFooter(bindings []key.Binding) string {
	bg := render.BarBackground
	keyStyle := render.HelpKeyStyle.Background(bg)
	descStyle := render.HelpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	content := strings.Join(parts, sep)
	if m.width == 0 {
		return render.FooterStyle.Render(content)
	}
	return render.FooterStyle.Width(m.width).Render(content)
}
