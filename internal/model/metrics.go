package model

import "time"

// DailyStats holds metrics for a single calendar day.
type DailyStats struct {
	Date         time.Time
	Sessions     int
	Interactions int
	Tokens       TokenUsage
	Cost         float64
}

// WeeklyStats holds metrics for one calendar week.
type WeeklyStats struct {
	WeekStart    time.Time
	Sessions     int
	Interactions int
	Tokens       TokenUsage
	Cost         float64
}

// MonthlyStats holds metrics for one calendar month.
type MonthlyStats struct {
	Month        time.Time
	Sessions     int
	Interactions int
	Tokens       TokenUsage
	Cost         float64
}

// ModelStats holds aggregated metrics for a single model.
type ModelStats struct {
	Model        string
	Interactions int
	Tokens       TokenUsage
	Cost         float64
	SharePercent float64
}

// ProjectStats holds aggregated metrics for a single project.
type ProjectStats struct {
	Project      string
	Workflows    int
	Sessions     int
	Interactions int
	Tokens       TokenUsage
	Cost         float64
}
