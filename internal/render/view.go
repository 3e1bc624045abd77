// Package render maps enumeration state to what a view displays.
package render

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/shellbridge/internal/dispatch"
	"github.com/jask/shellbridge/internal/enumerate"
)

const (
	NoDevices  = "No devices found"
	NoPrinters = "No printers found"

	// TextErrorPrefix leads the banner of a failed text transformation.
	TextErrorPrefix = "Error processing text: "
)

// PrinterColumns is the fixed header of the printer table.
var PrinterColumns = []string{"#", "Name", "IP Address", "Port"}

type Kind int

const (
	KindList Kind = iota
	KindTable
)

// View is the display form of one state. When Rows is empty and Placeholder is
// set, the placeholder is the single row shown, error or not.
type View struct {
	Title       string
	Kind        Kind
	Columns     []string
	Rows        [][]string
	Error       string
	Placeholder string
}

// ShowsPlaceholder reports whether the placeholder row is displayed.
func (v View) ShowsPlaceholder() bool {
	return len(v.Rows) == 0 && v.Placeholder != ""
}

// Devices renders the device list in enumeration order.
func Devices(st enumerate.State[enumerate.Device]) View {
	v := View{Title: "Devices", Kind: KindList, Error: st.Error, Placeholder: NoDevices}
	for _, d := range st.Items {
		v.Rows = append(v.Rows, []string{string(d)})
	}
	return v
}

// Printers renders the printer table with a 1-based index column.
func Printers(st enumerate.State[enumerate.Printer]) View {
	v := View{
		Title:       "Printers",
		Kind:        KindTable,
		Columns:     PrinterColumns,
		Error:       st.Error,
		Placeholder: NoPrinters,
	}
	for i, p := range st.Items {
		port := ""
		if p.Port != 0 {
			port = strconv.Itoa(p.Port)
		}
		v.Rows = append(v.Rows, []string{strconv.Itoa(i + 1), p.Name, p.IPAddress, port})
	}
	return v
}

// Text renders a process_text result. An empty successful result shows nothing.
func Text(out dispatch.Outcome[string]) View {
	v := View{Title: "Result", Kind: KindList}
	s, ok := out.Value()
	if !ok {
		v.Error = TextErrorPrefix + out.Message()
		return v
	}
	if s != "" {
		v.Rows = [][]string{{s}}
	}
	return v
}

// Lines is the unstyled form of v: error first, then the table header, then one
// line per row (cells joined with " | ") or the placeholder.
func (v View) Lines() []string {
	var lines []string
	if v.Error != "" {
		lines = append(lines, v.Error)
	}
	if v.Kind == KindTable && len(v.Columns) > 0 {
		lines = append(lines, strings.Join(v.Columns, " | "))
	}
	if v.ShowsPlaceholder() {
		return append(lines, v.Placeholder)
	}
	for _, row := range v.Rows {
		lines = append(lines, strings.Join(row, " | "))
	}
	return lines
}

// String is Lines joined by newlines.
func (v View) String() string {
	return strings.Join(v.Lines(), "\n")
}

// Render draws v inside a titled box. width <= 0 means unconstrained.
func (v View) Render(width int) string {
	inner := width - boxStyle.GetHorizontalFrameSize()
	if width <= 0 {
		inner = 0
	}

	var parts []string
	parts = append(parts, TitleStyle.Render(v.Title))
	if inner > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorSurface2).Render(strings.Repeat("─", inner)))
	}
	if v.Error != "" {
		msg := v.Error
		if inner > 0 {
			msg = ansi.Wordwrap(msg, inner, " ")
		}
		parts = append(parts, errorStyle.Render(msg))
	}

	switch v.Kind {
	case KindTable:
		parts = append(parts, v.renderTable(inner))
		if v.ShowsPlaceholder() {
			parts = append(parts, placeholderStyle.Render(v.Placeholder))
		}
	default:
		parts = append(parts, v.renderList(inner))
	}

	body := strings.Join(nonEmpty(parts), "\n")
	if inner > 0 {
		return boxStyle.Width(width - boxStyle.GetHorizontalBorderSize()).Render(body)
	}
	return boxStyle.Render(body)
}

func (v View) renderList(width int) string {
	if v.ShowsPlaceholder() {
		return placeholderStyle.Render(v.Placeholder)
	}
	lines := make([]string, 0, len(v.Rows))
	for _, row := range v.Rows {
		text := strings.Join(row, " ")
		if width > 2 {
			text = ansi.Truncate(text, width-2, "…")
		}
		lines = append(lines, bulletStyle.Render("•")+" "+itemStyle.Render(text))
	}
	return strings.Join(lines, "\n")
}

func (v View) renderTable(width int) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers(v.Columns...).
		Rows(v.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 0:
				return tableIndexStyle
			default:
				return tableCellStyle
			}
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.Render()
}

func nonEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
