// Package inspector is a read-only terminal debugger over a live
// BufferPool/Catalog pair: it renders the page cache table (pid, dirty
// flag, dirtying tid), the lock manager's held-lock table per
// transaction, and a scrollable tuple viewer for a chosen page,
// refreshed on a timer. It issues no queries and parses no SQL, so it
// does not reintroduce a SQL-shell surface.
//
// Grounded on the donor's pkg/debug/heapreader and pkg/debug/ui
// packages (bubbletea model shape, viewport-based tuple viewer,
// lipgloss table rendering) and pkg/ui/base's adaptive color palette
// and string-padding helpers.
package inspector

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor   = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7C3AED"}
	secondaryColor = lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#06B6D4"}
	successColor   = lipgloss.AdaptiveColor{Light: "#02BA84", Dark: "#10B981"}
	warningColor   = lipgloss.AdaptiveColor{Light: "#FF8C00", Dark: "#F59E0B"}
	errorColor     = lipgloss.AdaptiveColor{Light: "#FF5F56", Dark: "#EF4444"}
	mutedColor     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#94A3B8"}
	fgColor        = lipgloss.AdaptiveColor{Light: "#1E1E2E", Dark: "#CDD6F4"}
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Padding(0, 1).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(secondaryColor).
				Bold(true).
				Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Foreground(fgColor).
			Padding(0, 1)

	dirtyCellStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Padding(0, 1)

	cleanCellStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Padding(0, 1)

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(primaryColor).
				Bold(true).
				Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(primaryColor).
			Bold(true).
			Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true).
			Padding(1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(primaryColor).
			Padding(0, 1).
			MarginTop(1)
)

// padString right-pads s with spaces to width, matching the donor's
// PadString rather than lipgloss's own width-aware truncation, so
// table columns stay a fixed character count wide.
func padString(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// renderTable renders a lipgloss table from headers/rows/colWidths,
// highlighting selectedRow if it falls within range. Grounded on the
// donor's ui.RenderTable.
func renderTable(headers []string, rows [][]string, colWidths []int, selectedRow int) string {
	var b strings.Builder

	head := ""
	for i, h := range headers {
		head += tableHeaderStyle.Render(padString(h, colWidths[i]))
		if i < len(headers)-1 {
			head += " "
		}
	}
	b.WriteString(head + "\n")

	sep := ""
	for i, w := range colWidths {
		sep += strings.Repeat("─", w+2)
		if i < len(colWidths)-1 {
			sep += "┼"
		}
	}
	b.WriteString(lipgloss.NewStyle().Foreground(mutedColor).Render(sep) + "\n")

	for i, row := range rows {
		style := cellStyle
		if i == selectedRow {
			style = selectedRowStyle
		}
		line := ""
		for c, cell := range row {
			line += style.Render(padString(cell, colWidths[c]))
			if c < len(row)-1 {
				line += " "
			}
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

var commonKeys = struct {
	Up, Down, Tab, Enter, Quit key.Binding
}{
	Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Tab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
	Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open page")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
