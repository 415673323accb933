// Package tui provides the Bubble Tea live dashboard. It is a passive
// display: the monitor loop owns all polling and pushes updates in.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ocmon/internal/cli"
	"ocmon/internal/model"
	"ocmon/internal/monitor"
)

// UpdateMsg carries one monitor update into the Bubble Tea loop.
type UpdateMsg struct {
	Update monitor.Update
}

// ProgramSink forwards monitor updates to a running program. Safe to
// call from the monitor goroutine; Send is goroutine-safe.
type ProgramSink struct {
	program *tea.Program
}

func NewProgramSink(p *tea.Program) *ProgramSink {
	return &ProgramSink{program: p}
}

func (s *ProgramSink) Publish(u monitor.Update) {
	s.program.Send(UpdateMsg{Update: u})
}

const maxEvents = 5

type event struct {
	at   time.Time
	text string
}

// Dashboard is the root Bubble Tea model for the live view.
type Dashboard struct {
	theme    cli.Theme
	source   string
	interval time.Duration

	spin   spinner.Model
	width  int
	height int

	update    *monitor.Update
	updatedAt time.Time
	events    []event
}

// NewDashboard builds the dashboard in its waiting state.
func NewDashboard(theme cli.Theme, source string, interval time.Duration) Dashboard {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent)

	return Dashboard{
		theme:    theme,
		source:   source,
		interval: interval,
		spin:     sp,
		width:    80,
	}
}

func (d Dashboard) Init() tea.Cmd {
	return d.spin.Tick
}

func (d Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		return d, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return d, tea.Quit
		}
		return d, nil

	case UpdateMsg:
		d.update = &msg.Update
		d.updatedAt = msg.Update.View.GeneratedAt
		if text := transitionText(msg.Update); text != "" {
			d.events = append(d.events, event{at: d.updatedAt, text: text})
			if len(d.events) > maxEvents {
				d.events = d.events[len(d.events)-maxEvents:]
			}
		}
		return d, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		d.spin, cmd = d.spin.Update(msg)
		return d, cmd
	}

	return d, nil
}

func transitionText(u monitor.Update) string {
	switch u.Transition {
	case monitor.TransitionStarted:
		return "tracking workflow " + u.View.Workflow.WorkflowID()
	case monitor.TransitionNewWorkflow:
		return "new workflow " + u.View.Workflow.WorkflowID()
	case monitor.TransitionNewSubAgents:
		return "new sub-agents: " + strings.Join(u.NewSessionIDs, ", ")
	default:
		return ""
	}
}

func (d Dashboard) View() string {
	if d.update == nil {
		muted := lipgloss.NewStyle().Foreground(d.theme.Muted)
		return fmt.Sprintf("\n  %s %s\n\n%s",
			d.spin.View(),
			muted.Render("waiting for session data..."),
			muted.Render(fmt.Sprintf("  source: %s, polling every %s\n", d.source, d.interval)))
	}

	v := d.update.View
	w := &v.Workflow

	text := lipgloss.NewStyle().Foreground(d.theme.Text)
	muted := lipgloss.NewStyle().Foreground(d.theme.Muted)
	accent := lipgloss.NewStyle().Bold(true).Foreground(d.theme.Accent)

	var b strings.Builder
	b.WriteString("\n")

	// Header: workflow identity and activity state.
	activity := cli.ClassifyActivity(v.GeneratedAt.Sub(w.LastActivity()))
	state := lipgloss.NewStyle().
		Bold(true).
		Foreground(d.theme.ActivityColor(activity)).
		Render(activity.Label())
	title := w.WorkflowID()
	if p := w.Project(); p != "" {
		title += "  " + muted.Render("("+p+")")
	}
	b.WriteString(fmt.Sprintf("  %s  %s  %s\n", accent.Render("ocmon"), text.Render(title), state))
	b.WriteString(fmt.Sprintf("  %s\n\n",
		muted.Render(fmt.Sprintf("%d sessions, last activity %s",
			w.SessionCount(), cli.FormatRelTime(w.LastActivity())))))

	// Metrics row.
	cost, _ := v.TotalCost.Float64()
	b.WriteString(fmt.Sprintf("  %s %s   %s %s   %s %s\n\n",
		muted.Render("tokens"), text.Render(cli.FormatTokens(v.TotalTokens.Total())),
		muted.Render("cost"), text.Render(cli.FormatCost(cost)),
		muted.Render("burn"), text.Render(cli.FormatBurnRate(v.BurnRate))))

	// Context window and session budget bars.
	b.WriteString(d.renderBar("context", v.Context.UsagePercentage,
		fmt.Sprintf("%s / %s", cli.FormatTokens(v.Context.ContextSize), cli.FormatTokens(v.Context.ContextWindow))))
	b.WriteString(d.renderBar("budget", v.DurationPercentage,
		fmt.Sprintf("%s of %s", cli.FormatDuration(w.Duration()), cli.FormatDuration(model.SessionBudget))))
	b.WriteString("\n")

	if v.RecentFile != nil {
		b.WriteString(fmt.Sprintf("  %s %s\n\n",
			muted.Render("model"), text.Render(v.RecentFile.ModelID)))
	}

	if w.HasSubAgents() {
		b.WriteString(muted.Render("  sub-agents\n"))
		for _, sub := range w.SubAgents {
			b.WriteString(fmt.Sprintf("    %s  %s\n",
				text.Render(sub.SessionID),
				muted.Render(cli.FormatTokens(sub.TotalTokens().Total())+" tokens")))
		}
		b.WriteString("\n")
	}

	for _, e := range d.events {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			muted.Render(e.at.Format("15:04:05")),
			text.Render(e.text)))
	}
	if len(d.events) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(muted.Render(fmt.Sprintf("  [q]uit   %s   updated %s\n",
		d.source, cli.FormatRelTime(d.updatedAt))))

	return b.String()
}

// renderBar draws one labeled progress bar. pct is 0-100.
func (d Dashboard) renderBar(label string, pct float64, detail string) string {
	frac := pct / 100
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	barWidth := d.width - 30
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 50 {
		barWidth = 50
	}

	color := d.theme.UtilizationColor(pct)
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(d.theme.Dim)

	muted := lipgloss.NewStyle().Foreground(d.theme.Muted)
	pctStyle := lipgloss.NewStyle().Bold(true).Foreground(color)

	return fmt.Sprintf("  %s %s %s %s\n",
		muted.Render(fmt.Sprintf("%-8s", label)),
		bar.ViewAs(frac),
		pctStyle.Render(fmt.Sprintf("%5.1f%%", pct)),
		muted.Render(detail))
}
