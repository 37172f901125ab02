package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/taskpulse/taskpulse-api/internal/api/shared"
	"github.com/taskpulse/taskpulse-api/internal/domain"
	"github.com/taskpulse/taskpulse-api/internal/service"
	"github.com/taskpulse/taskpulse-api/internal/store"
)

// stubTaskService returns canned results and records the inputs it saw.
type stubTaskService struct {
	createFn func(ctx context.Context, userID uuid.UUID, input service.CreateTaskInput) (*domain.Task, error)
	getFn    func(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error)
	listFn   func(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) (*service.TaskPage, error)
	updateFn func(ctx context.Context, id, userID uuid.UUID, update domain.TaskUpdate) (*domain.Task, error)
	deleteFn func(ctx context.Context, id, userID uuid.UUID) error

	lastFilter store.TaskFilter
	lastUpdate domain.TaskUpdate
}

func (s *stubTaskService) Create(
	ctx context.Context,
	userID uuid.UUID,
	input service.CreateTaskInput,
) (*domain.Task, error) {
	return s.createFn(ctx, userID, input)
}

func (s *stubTaskService) Get(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error) {
	return s.getFn(ctx, id, userID)
}

func (s *stubTaskService) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
) (*service.TaskPage, error) {
	s.lastFilter = filter
	return s.listFn(ctx, userID, filter)
}

func (s *stubTaskService) Update(
	ctx context.Context,
	id, userID uuid.UUID,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	s.lastUpdate = update
	return s.updateFn(ctx, id, userID, update)
}

func (s *stubTaskService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.deleteFn(ctx, id, userID)
}

var _ service.TaskService = (*stubTaskService)(nil)

// stubUserService returns canned results for the auth handler tests.
type stubUserService struct {
	registerFn func(ctx context.Context, name, email, password string) (*domain.User, string, error)
	loginFn    func(ctx context.Context, email, password string) (*domain.User, string, error)
	getUserFn  func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

func (s *stubUserService) Register(
	ctx context.Context,
	name, email, password string,
) (*domain.User, string, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubUserService) Login(
	ctx context.Context,
	email, password string,
) (*domain.User, string, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.getUserFn(ctx, userID)
}

var _ service.UserService = (*stubUserService)(nil)

// stubAnalyticsService returns canned analytics results.
type stubAnalyticsService struct {
	overview     *service.Overview
	productivity *service.Productivity
	trends       *service.Trends
	err          error
}

func (s *stubAnalyticsService) Overview(context.Context, uuid.UUID) (*service.Overview, error) {
	return s.overview, s.err
}

func (s *stubAnalyticsService) Productivity(context.Context, uuid.UUID) (*service.Productivity, error) {
	return s.productivity, s.err
}

func (s *stubAnalyticsService) Trends(context.Context, uuid.UUID) (*service.Trends, error) {
	return s.trends, s.err
}

var _ service.AnalyticsService = (*stubAnalyticsService)(nil)

// withUser attaches the authenticated user ID to the request context, as
// the auth middleware would leave it.
func withUser(r *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
	return r.WithContext(ctx)
}
