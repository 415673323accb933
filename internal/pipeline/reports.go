package pipeline

import (
	"errors"
	"sort"
	"time"

	"ocmon/internal/config"
	"ocmon/internal/model"
)

// ErrNoData reports that a query matched no sessions. Callers decide
// whether that is fatal; it is distinct from an aggregation failure.
var ErrNoData = errors.New("no session data in range")

// FilterByTime returns sessions whose start time falls within
// [since, until). Zero bounds are open.
func FilterByTime(sessions []model.SessionData, since, until time.Time) []model.SessionData {
	if since.IsZero() && until.IsZero() {
		return sessions
	}

	var result []model.SessionData
	for i := range sessions {
		start := sessions[i].StartTime()
		if start.IsZero() {
			continue
		}
		if !since.IsZero() && start.Before(since) {
			continue
		}
		if !until.IsZero() && !start.Before(until) {
			continue
		}
		result = append(result, sessions[i])
	}
	return result
}

// AggregateDaily rolls sessions up by calendar day, most recent first.
func AggregateDaily(sessions []model.SessionData, pricing config.PricingTable, since, until time.Time) ([]model.DailyStats, error) {
	filtered := FilterByTime(sessions, since, until)
	if len(filtered) == 0 {
		return nil, ErrNoData
	}

	dayMap := make(map[string]*model.DailyStats)
	for i := range filtered {
		s := &filtered[i]
		dayKey := s.StartTime().Local().Format("2006-01-02")
		ds, ok := dayMap[dayKey]
		if !ok {
			t, _ := time.ParseInLocation("2006-01-02", dayKey, time.Local)
			ds = &model.DailyStats{Date: t}
			dayMap[dayKey] = ds
		}
		ds.Sessions++
		ds.Interactions += s.InteractionCount()
		ds.Tokens = ds.Tokens.Add(s.TotalTokens())
		ds.Cost += sessionCostFloat(s, pricing)
	}

	days := make([]model.DailyStats, 0, len(dayMap))
	for _, ds := range dayMap {
		days = append(days, *ds)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})
	return days, nil
}

// AggregateWeekly rolls sessions up by ISO-ish week (Monday start).
func AggregateWeekly(sessions []model.SessionData, pricing config.PricingTable, since, until time.Time) ([]model.WeeklyStats, error) {
	filtered := FilterByTime(sessions, since, until)
	if len(filtered) == 0 {
		return nil, ErrNoData
	}

	weekMap := make(map[string]*model.WeeklyStats)
	for i := range filtered {
		s := &filtered[i]
		weekStart := startOfWeek(s.StartTime().Local())
		key := weekStart.Format("2006-01-02")
		ws, ok := weekMap[key]
		if !ok {
			ws = &model.WeeklyStats{WeekStart: weekStart}
			weekMap[key] = ws
		}
		ws.Sessions++
		ws.Interactions += s.InteractionCount()
		ws.Tokens = ws.Tokens.Add(s.TotalTokens())
		ws.Cost += sessionCostFloat(s, pricing)
	}

	weeks := make([]model.WeeklyStats, 0, len(weekMap))
	for _, ws := range weekMap {
		weeks = append(weeks, *ws)
	}
	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].WeekStart.After(weeks[j].WeekStart)
	})
	return weeks, nil
}

// AggregateMonthly rolls sessions up by calendar month.
func AggregateMonthly(sessions []model.SessionData, pricing config.PricingTable, since, until time.Time) ([]model.MonthlyStats, error) {
	filtered := FilterByTime(sessions, since, until)
	if len(filtered) == 0 {
		return nil, ErrNoData
	}

	monthMap := make(map[string]*model.MonthlyStats)
	for i := range filtered {
		s := &filtered[i]
		start := s.StartTime().Local()
		month := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.Local)
		key := month.Format("2006-01")
		ms, ok := monthMap[key]
		if !ok {
			ms = &model.MonthlyStats{Month: month}
			monthMap[key] = ms
		}
		ms.Sessions++
		ms.Interactions += s.InteractionCount()
		ms.Tokens = ms.Tokens.Add(s.TotalTokens())
		ms.Cost += sessionCostFloat(s, pricing)
	}

	months := make([]model.MonthlyStats, 0, len(monthMap))
	for _, ms := range monthMap {
		months = append(months, *ms)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month.After(months[j].Month)
	})
	return months, nil
}

// AggregateModels computes per-model statistics across all interactions,
// sorted by cost descending.
func AggregateModels(sessions []model.SessionData, pricing config.PricingTable, since, until time.Time) ([]model.ModelStats, error) {
	filtered := FilterByTime(sessions, since, until)
	if len(filtered) == 0 {
		return nil, ErrNoData
	}

	modelMap := make(map[string]*model.ModelStats)
	totalInteractions := 0
	for i := range filtered {
		for j := range filtered[i].Files {
			f := &filtered[i].Files[j]
			ms, ok := modelMap[f.ModelID]
			if !ok {
				ms = &model.ModelStats{Model: f.ModelID}
				modelMap[f.ModelID] = ms
			}
			ms.Interactions++
			ms.Tokens = ms.Tokens.Add(f.Tokens)
			ms.Cost += interactionCostFloat(f, pricing)
			totalInteractions++
		}
	}

	models := make([]model.ModelStats, 0, len(modelMap))
	for _, ms := range modelMap {
		if totalInteractions > 0 {
			ms.SharePercent = float64(ms.Interactions) / float64(totalInteractions) * 100
		}
		models = append(models, *ms)
	}
	sort.Slice(models, func(i, j int) bool {
		if models[i].Cost != models[j].Cost {
			return models[i].Cost > models[j].Cost
		}
		return models[i].Model < models[j].Model
	})
	return models, nil
}

// AggregateProjects computes per-project statistics from grouped
// workflows, sorted by cost descending.
func AggregateProjects(workflows []model.Workflow, pricing config.PricingTable) ([]model.ProjectStats, error) {
	if len(workflows) == 0 {
		return nil, ErrNoData
	}

	projMap := make(map[string]*model.ProjectStats)
	for i := range workflows {
		w := &workflows[i]
		name := w.Project()
		if name == "" {
			name = "(unknown)"
		}
		ps, ok := projMap[name]
		if !ok {
			ps = &model.ProjectStats{Project: name}
			projMap[name] = ps
		}
		ps.Workflows++
		ps.Sessions += w.SessionCount()
		for _, s := range w.AllSessions() {
			ps.Interactions += s.InteractionCount()
		}
		ps.Tokens = ps.Tokens.Add(w.TotalTokens())
		cost, _ := WorkflowCost(w, pricing).Float64()
		ps.Cost += cost
	}

	projects := make([]model.ProjectStats, 0, len(projMap))
	for _, ps := range projMap {
		projects = append(projects, *ps)
	}
	sort.Slice(projects, func(i, j int) bool {
		if projects[i].Cost != projects[j].Cost {
			return projects[i].Cost > projects[j].Cost
		}
		return projects[i].Project < projects[j].Project
	})
	return projects, nil
}

func sessionCostFloat(s *model.SessionData, pricing config.PricingTable) float64 {
	cost, _ := SessionCost(s, pricing).Float64()
	return cost
}

func interactionCostFloat(f *model.InteractionFile, pricing config.PricingTable) float64 {
	cost, _ := InteractionCost(f, pricing).Float64()
	return cost
}

func startOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}
