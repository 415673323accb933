package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ocmon/internal/cli"
	"ocmon/internal/config"
	"ocmon/internal/logging"
	"ocmon/internal/monitor"
	"ocmon/internal/tui"
)

var flagPlain bool

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Live dashboard for the current workflow",
	RunE:  runLive,
}

func init() {
	liveCmd.Flags().BoolVar(&flagPlain, "plain", false, "log updates as plain lines instead of the dashboard")
	rootCmd.AddCommand(liveCmd)
}

func runLive(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	src, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	interval := time.Duration(cfg.General.RefreshIntervalSecs) * time.Second

	if flagPlain {
		return runPlain(src, cfg, interval)
	}

	dash := tui.NewDashboard(cli.ThemeByName(cfg.Appearance.Theme), src.Describe(), interval)
	program := tea.NewProgram(dash, tea.WithAltScreen())

	// The dashboard owns the terminal; monitor logs are dropped.
	mon, err := monitor.New(src, cfg.PricingData(), tui.NewProgramSink(program), monitor.Options{
		Interval: interval,
		Limit:    cfg.General.SessionLimit,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mon.Run(ctx)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

// runPlain streams updates as log lines, for terminals and CI jobs where
// the full-screen dashboard is unwelcome.
func runPlain(src monitor.Source, cfg config.Config, interval time.Duration) error {
	log := logging.New("info", flagQuiet)
	defer log.Sync()

	mon, err := monitor.New(src, cfg.PricingData(), &logSink{log: log}, monitor.Options{
		Interval: interval,
		Limit:    cfg.General.SessionLimit,
		Logger:   log,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := mon.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// logSink prints one structured line per update.
type logSink struct {
	log *zap.SugaredLogger
}

func (s *logSink) Publish(u monitor.Update) {
	v := u.View
	cost, _ := v.TotalCost.Float64()
	s.log.Infow("update",
		"workflow", v.Workflow.WorkflowID(),
		"sessions", v.Workflow.SessionCount(),
		"tokens", v.TotalTokens.Total(),
		"cost", cli.FormatCost(cost),
		"burn", cli.FormatBurnRate(v.BurnRate),
		"context_pct", fmt.Sprintf("%.1f", v.Context.UsagePercentage),
		"budget_pct", fmt.Sprintf("%.1f", v.DurationPercentage))
}
