// Package cli provides formatting and rendering helpers for terminal
// output shared by the report commands and the live dashboard.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatTokens renders a token count compactly: 1234 -> "1.2K",
// 1234567 -> "1.2M".
func FormatTokens(n int64) string {
	abs := n
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// FormatCost renders a USD amount with precision scaled to magnitude.
func FormatCost(cost float64) string {
	switch {
	case cost >= 1000:
		return "$" + humanize.Comma(int64(math.Round(cost)))
	case cost >= 100:
		return fmt.Sprintf("$%.0f", cost)
	case cost >= 10:
		return fmt.Sprintf("$%.1f", cost)
	default:
		return fmt.Sprintf("$%.2f", cost)
	}
}

// FormatNumber adds comma separators: 1234567 -> "1,234,567".
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatDuration renders a duration as "1h 2m", "5m", or "45s".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}

	secs := int64(d.Seconds())
	hours := secs / 3600
	mins := (secs % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	if mins > 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%ds", secs)
}

// FormatPercent renders a 0-100 percentage with one decimal.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatBurnRate renders output tokens per second.
func FormatBurnRate(rate float64) string {
	if rate <= 0 {
		return "0 tok/s"
	}
	if rate >= 100 {
		return fmt.Sprintf("%.0f tok/s", rate)
	}
	return fmt.Sprintf("%.1f tok/s", rate)
}

// FormatRelTime renders a timestamp relative to now ("3 minutes ago").
func FormatRelTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// Activity buckets an idle gap into a coarse state.
type Activity int

const (
	ActivityActive Activity = iota
	ActivityRecent
	ActivityIdle
	ActivityInactive
)

// ClassifyActivity maps time since the last interaction to a bucket.
// Under a minute counts as active, under five minutes as recent, under
// thirty minutes as idle, anything older as inactive.
func ClassifyActivity(sinceLast time.Duration) Activity {
	switch {
	case sinceLast < time.Minute:
		return ActivityActive
	case sinceLast < 5*time.Minute:
		return ActivityRecent
	case sinceLast < 30*time.Minute:
		return ActivityIdle
	default:
		return ActivityInactive
	}
}

// Label returns the display name for an activity bucket.
func (a Activity) Label() string {
	switch a {
	case ActivityActive:
		return "ACTIVE"
	case ActivityRecent:
		return "RECENT"
	case ActivityIdle:
		return "IDLE"
	default:
		return "INACTIVE"
	}
}
