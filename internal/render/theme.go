package render

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext1 lipgloss.Color = "#bac2de"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorAccent  = colorPink
	colorBrand   = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal

	// BarBackground is the background shared by the header and footer bars.
	BarBackground = colorMantle
)

// Palette returns every color the views use, for tests.
func Palette() []lipgloss.Color {
	return []lipgloss.Color{
		colorPink, colorRed, colorYellow, colorGreen, colorTeal, colorLavender,
		colorText, colorSubtext1, colorSubtext0, colorOverlay1, colorOverlay0,
		colorSurface2, colorSurface1, colorSurface0, colorMantle,
	}
}

var (
	TitleStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	HeaderBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	HeaderAppStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Background(colorMantle).
			Bold(true)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Background(colorSurface0).
			Bold(true).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorOverlay1).
				Background(colorMantle).
				Padding(0, 1)

	TabSepStyle = lipgloss.NewStyle().
			Foreground(colorOverlay0).
			Background(colorMantle)

	NativeBadgeStyle = lipgloss.NewStyle().
				Foreground(colorSuccess).
				Background(colorMantle)

	WebBadgeStyle = lipgloss.NewStyle().
			Foreground(colorInfo).
			Background(colorMantle)

	FooterStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Background(colorSurface0).
			Padding(0, 2)

	StatusErrStyle = StatusBarStyle.Foreground(colorError)

	HelpKeyStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	HelpDescStyle = lipgloss.NewStyle().Foreground(colorSubtext0)

	LoadingStyle = lipgloss.NewStyle().Foreground(colorWarning)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorFocus).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	errorStyle       = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	placeholderStyle = lipgloss.NewStyle().Foreground(colorOverlay1).Italic(true)
	itemStyle        = lipgloss.NewStyle().Foreground(colorText)
	bulletStyle      = lipgloss.NewStyle().Foreground(colorAccent)
	tableHeaderStyle = lipgloss.NewStyle().Foreground(colorSubtext0).Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Foreground(colorText).Padding(0, 1)
	tableIndexStyle  = lipgloss.NewStyle().Foreground(colorOverlay1).Padding(0, 1)
	tableBorderStyle = lipgloss.NewStyle().Foreground(colorSurface2)
)
