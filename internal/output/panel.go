package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorBorder  = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	colorTitle   = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}
	colorError   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}
)

// PanelRow is one label/value line of a summary panel
type PanelRow struct {
	Label string
	Value string

	// Alert highlights the value as a problem
	Alert bool
}

// Panel is a bordered summary box shown above a report table
type Panel struct {
	Title string
	Rows  []PanelRow
}

// Render writes the panel to w. Styling follows the writer's color support;
// noColor drops all colors but keeps the border.
func (p Panel) Render(w io.Writer, noColor bool) {
	renderer := lipgloss.NewRenderer(w)

	box := renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	title := renderer.NewStyle().Bold(true)
	label := renderer.NewStyle()
	ok := renderer.NewStyle()
	alert := renderer.NewStyle().Bold(true)

	if !noColor {
		box = box.BorderForeground(colorBorder)
		title = title.Foreground(colorTitle)
		ok = ok.Foreground(colorSuccess)
		alert = alert.Foreground(colorError)
	}

	width := 0
	for _, r := range p.Rows {
		width = max(width, len(r.Label)+1)
	}

	lines := make([]string, 0, len(p.Rows)+1)
	if p.Title != "" {
		lines = append(lines, title.Render(p.Title))
	}
	for _, r := range p.Rows {
		valueStyle := ok
		if r.Alert {
			valueStyle = alert
		}
		lines = append(lines, fmt.Sprintf("%s  %s",
			label.Render(fmt.Sprintf("%-*s", width, r.Label+":")),
			valueStyle.Render(r.Value)))
	}

	fmt.Fprintln(w, box.Render(strings.Join(lines, "\n")))
}
