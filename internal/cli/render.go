package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the palette used by tables and the live dashboard.
type Theme struct {
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Dim    lipgloss.Color
	Accent lipgloss.Color
	Good   lipgloss.Color
	Warn   lipgloss.Color
	Bad    lipgloss.Color
}

// DarkTheme is the default palette.
var DarkTheme = Theme{
	Text:   lipgloss.Color("#FFFCF0"),
	Muted:  lipgloss.Color("#6F6E69"),
	Dim:    lipgloss.Color("#575653"),
	Accent: lipgloss.Color("#3AA99F"),
	Good:   lipgloss.Color("#879A39"),
	Warn:   lipgloss.Color("#DA702C"),
	Bad:    lipgloss.Color("#D14D41"),
}

// LightTheme suits light terminal backgrounds.
var LightTheme = Theme{
	Text:   lipgloss.Color("#100F0F"),
	Muted:  lipgloss.Color("#6F6E69"),
	Dim:    lipgloss.Color("#B7B5AC"),
	Accent: lipgloss.Color("#24837B"),
	Good:   lipgloss.Color("#66800B"),
	Warn:   lipgloss.Color("#BC5215"),
	Bad:    lipgloss.Color("#AF3029"),
}

// ThemeByName resolves a configured theme name, defaulting to dark.
func ThemeByName(name string) Theme {
	if name == "light" {
		return LightTheme
	}
	return DarkTheme
}

// ActivityColor maps an activity bucket to a palette color.
func (t Theme) ActivityColor(a Activity) lipgloss.Color {
	switch a {
	case ActivityActive:
		return t.Good
	case ActivityRecent:
		return t.Accent
	case ActivityIdle:
		return t.Warn
	default:
		return t.Muted
	}
}

// UtilizationColor grades a 0-100 percentage: green, orange past 70,
// red past 90.
func (t Theme) UtilizationColor(pct float64) lipgloss.Color {
	switch {
	case pct >= 90:
		return t.Bad
	case pct >= 70:
		return t.Warn
	default:
		return t.Good
	}
}

// Table is a bordered text table for report output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Theme   Theme
}

// Render draws the table with box-drawing borders. The first column is
// left-aligned, the rest right-aligned.
func (t Table) Render() string {
	numCols := len(t.Headers)
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	dim := lipgloss.NewStyle().Foreground(t.Theme.Dim)
	header := lipgloss.NewStyle().Bold(true).Foreground(t.Theme.Accent)
	value := lipgloss.NewStyle().Foreground(t.Theme.Text)

	rule := func(left, mid, right string) string {
		var b strings.Builder
		b.WriteString(left)
		for i, w := range widths {
			b.WriteString(strings.Repeat("─", w+2))
			if i < numCols-1 {
				b.WriteString(mid)
			}
		}
		b.WriteString(right)
		return dim.Render(b.String())
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(header.Render(t.Title))
		b.WriteString("\n")
	}

	b.WriteString(rule("╭", "┬", "╮"))
	b.WriteString("\n")

	b.WriteString(dim.Render("│"))
	for i, h := range t.Headers {
		b.WriteString(header.Render(fmt.Sprintf(" %-*s ", widths[i], h)))
		if i < numCols-1 {
			b.WriteString(dim.Render("│"))
		}
	}
	b.WriteString(dim.Render("│"))
	b.WriteString("\n")
	b.WriteString(rule("├", "┼", "┤"))
	b.WriteString("\n")

	for _, row := range t.Rows {
		b.WriteString(dim.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			var padded string
			if i == 0 {
				padded = fmt.Sprintf(" %-*s ", widths[i], cell)
			} else {
				padded = fmt.Sprintf(" %*s ", widths[i], cell)
			}
			b.WriteString(value.Render(padded))
			if i < numCols-1 {
				b.WriteString(dim.Render("│"))
			}
		}
		b.WriteString(dim.Render("│"))
		b.WriteString("\n")
	}

	b.WriteString(rule("╰", "┴", "╯"))
	b.WriteString("\n")
	return b.String()
}

// Sparkline renders a unicode block sparkline scaled to the series max.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	if max <= 0 {
		max = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / max * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(blocks[idx])
	}
	return b.String()
}

// Bar renders a fixed-width horizontal bar proportional to value/max.
func Bar(value, max float64, width int) string {
	if max <= 0 || width <= 0 {
		return strings.Repeat("░", width)
	}
	frac := value / max
	if frac > 1 {
		frac = 1
	}
	if frac < 0 {
		frac = 0
	}
	filled := int(frac * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
