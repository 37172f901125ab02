package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/taskpulse/taskpulse-api/internal/domain"
	"github.com/taskpulse/taskpulse-api/internal/store"
)

// StatusBreakdown counts tasks per status.
type StatusBreakdown struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

// PriorityBreakdown counts tasks per priority.
type PriorityBreakdown struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// Overview is the headline metric set for an owner's tasks.
type Overview struct {
	Total          int               `json:"total"`
	Completed      int               `json:"completed"`
	Pending        int               `json:"pending"`
	InProgress     int               `json:"in_progress"`
	HighPriority   int               `json:"high_priority"`
	Overdue        int               `json:"overdue"`
	CompletionRate int               `json:"completion_rate"`
	ByStatus       StatusBreakdown   `json:"by_status"`
	ByPriority     PriorityBreakdown `json:"by_priority"`
}

// Productivity summarizes recent throughput and an overall 0-100 score.
type Productivity struct {
	TasksLast7Days           int     `json:"tasks_last_7_days"`
	CompletedLast7Days       int     `json:"completed_last_7_days"`
	AvgCompletionTimeDays    float64 `json:"avg_completion_time_days"`
	TasksCreatedLast30Days   int     `json:"tasks_created_last_30_days"`
	TasksCompletedLast30Days int     `json:"tasks_completed_last_30_days"`
	ProductivityScore        int     `json:"productivity_score"`
}

// WeeklyTrend is one bucket of the eight-week creation/completion series.
type WeeklyTrend struct {
	Week      string `json:"week"`
	Created   int    `json:"created"`
	Completed int    `json:"completed"`
	Pending   int    `json:"pending"`
}

// DailyCompletion is one day of the last-seven-days completion series.
type DailyCompletion struct {
	Day       string `json:"day"`
	Completed int    `json:"completed"`
}

// Trends bundles the weekly and daily series backing the dashboard charts.
type Trends struct {
	WeeklyTrends     []WeeklyTrend     `json:"weekly_trends"`
	DailyCompletions []DailyCompletion `json:"daily_completions"`
}

// trendWeeks and trendDays fix the chart windows.
const (
	trendWeeks = 8
	trendDays  = 7
)

// AnalyticsService computes derived metrics over an owner's current task
// set. Results are never cached: analytics are surfaced live through the
// fan-out path, so every call recomputes from the store.
type AnalyticsService interface {
	Overview(ctx context.Context, userID uuid.UUID) (*Overview, error)
	Productivity(ctx context.Context, userID uuid.UUID) (*Productivity, error)
	Trends(ctx context.Context, userID uuid.UUID) (*Trends, error)
}

// analyticsServiceImpl implements the AnalyticsService interface.
type analyticsServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
	now       func() time.Time // Injectable for testing
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(taskStore store.TaskStore, logger *slog.Logger) (AnalyticsService, error) {
	if taskStore == nil {
		return nil, fmt.Errorf("taskStore cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &analyticsServiceImpl{
		taskStore: taskStore,
		logger:    logger.With("component", "analytics_service"),
		now:       time.Now,
	}, nil
}

// Overview implements AnalyticsService.Overview
func (s *analyticsServiceImpl) Overview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	tasks, err := s.taskStore.ListAll(ctx, userID)
	if err != nil {
		return nil, wrapError("analytics_overview", "failed to load tasks", err)
	}

	now := s.now()
	o := &Overview{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case domain.TaskStatusPending:
			o.Pending++
		case domain.TaskStatusInProgress:
			o.InProgress++
		case domain.TaskStatusCompleted:
			o.Completed++
		}
		switch t.Priority {
		case domain.TaskPriorityLow:
			o.ByPriority.Low++
		case domain.TaskPriorityMedium:
			o.ByPriority.Medium++
		case domain.TaskPriorityHigh:
			o.ByPriority.High++
		}
		if isOverdue(t, now) {
			o.Overdue++
		}
	}

	o.HighPriority = o.ByPriority.High
	o.ByStatus = StatusBreakdown{
		Pending:    o.Pending,
		InProgress: o.InProgress,
		Completed:  o.Completed,
	}
	if o.Total > 0 {
		o.CompletionRate = int(math.Round(float64(o.Completed) / float64(o.Total) * 100))
	}

	return o, nil
}

// Productivity implements AnalyticsService.Productivity
func (s *analyticsServiceImpl) Productivity(ctx context.Context, userID uuid.UUID) (*Productivity, error) {
	tasks, err := s.taskStore.ListAll(ctx, userID)
	if err != nil {
		return nil, wrapError("analytics_productivity", "failed to load tasks", err)
	}

	now := s.now()
	last7 := now.AddDate(0, 0, -7)
	last30 := now.AddDate(0, 0, -30)

	p := &Productivity{}
	var completedCount int
	var completionDays float64

	for _, t := range tasks {
		completed := t.Status == domain.TaskStatusCompleted

		if !t.CreatedAt.Before(last7) {
			p.TasksLast7Days++
			if completed {
				p.CompletedLast7Days++
			}
		}
		if !t.CreatedAt.Before(last30) {
			p.TasksCreatedLast30Days++
		}
		if completed {
			completedCount++
			completionDays += t.UpdatedAt.Sub(t.CreatedAt).Hours() / 24
			if !t.UpdatedAt.Before(last30) {
				p.TasksCompletedLast30Days++
			}
		}
	}

	if completedCount > 0 {
		p.AvgCompletionTimeDays = math.Round(completionDays/float64(completedCount)*10) / 10
	}
	p.ProductivityScore = productivityScore(tasks, now)

	return p, nil
}

// Trends implements AnalyticsService.Trends
func (s *analyticsServiceImpl) Trends(ctx context.Context, userID uuid.UUID) (*Trends, error) {
	tasks, err := s.taskStore.ListAll(ctx, userID)
	if err != nil {
		return nil, wrapError("analytics_trends", "failed to load tasks", err)
	}

	now := s.now()
	trends := &Trends{
		WeeklyTrends:     make([]WeeklyTrend, 0, trendWeeks),
		DailyCompletions: make([]DailyCompletion, 0, trendDays),
	}

	// Eight weekly buckets, oldest first, keyed off local midnight.
	for i := trendWeeks - 1; i >= 0; i-- {
		weekStart := startOfDay(now.AddDate(0, 0, -i*7))
		weekEnd := weekStart.AddDate(0, 0, 7)

		var created, completed int
		for _, t := range tasks {
			if t.CreatedAt.Before(weekStart) || !t.CreatedAt.Before(weekEnd) {
				continue
			}
			created++
			if t.Status == domain.TaskStatusCompleted {
				completed++
			}
		}

		trends.WeeklyTrends = append(trends.WeeklyTrends, WeeklyTrend{
			Week:      fmt.Sprintf("Week %d", trendWeeks-i),
			Created:   created,
			Completed: completed,
			Pending:   created - completed,
		})
	}

	// Completions per day over the last seven days, keyed by the task's
	// last update (the completion moment for completed tasks).
	for i := trendDays - 1; i >= 0; i-- {
		dayStart := startOfDay(now.AddDate(0, 0, -i))
		dayEnd := dayStart.AddDate(0, 0, 1)

		var completed int
		for _, t := range tasks {
			if t.Status != domain.TaskStatusCompleted {
				continue
			}
			if !t.UpdatedAt.Before(dayStart) && t.UpdatedAt.Before(dayEnd) {
				completed++
			}
		}

		trends.DailyCompletions = append(trends.DailyCompletions, DailyCompletion{
			Day:       dayStart.Weekday().String()[:3],
			Completed: completed,
		})
	}

	return trends, nil
}

// productivityScore combines completion rate (50%), high-priority
// completion rate (30%), and overdue rate (-20%) into a 0-100 score.
func productivityScore(tasks []*domain.Task, now time.Time) int {
	if len(tasks) == 0 {
		return 0
	}

	var completed, highPriority, highPriorityCompleted, overdue int
	for _, t := range tasks {
		if t.Status == domain.TaskStatusCompleted {
			completed++
		}
		if t.Priority == domain.TaskPriorityHigh {
			highPriority++
			if t.Status == domain.TaskStatusCompleted {
				highPriorityCompleted++
			}
		}
		if isOverdue(t, now) {
			overdue++
		}
	}

	total := float64(len(tasks))
	completionRate := float64(completed) / total
	priorityRate := 1.0
	if highPriority > 0 {
		priorityRate = float64(highPriorityCompleted) / float64(highPriority)
	}
	overdueRate := float64(overdue) / total

	score := int(math.Round((completionRate*0.5 + priorityRate*0.3 - overdueRate*0.2) * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func isOverdue(t *domain.Task, now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != domain.TaskStatusCompleted
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
