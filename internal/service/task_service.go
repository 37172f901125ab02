package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskpulse/taskpulse-api/internal/cache"
	"github.com/taskpulse/taskpulse-api/internal/domain"
	"github.com/taskpulse/taskpulse-api/internal/notify"
	"github.com/taskpulse/taskpulse-api/internal/realtime"
	"github.com/taskpulse/taskpulse-api/internal/store"
)

// CreateTaskInput carries the validated fields for a new task. Status and
// priority default in the domain constructor when empty.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	DueDate     *time.Time
}

// PageMeta describes the pagination of a task list result.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// TaskPage is a single page of an owner's task list. It is the unit stored
// in the query cache.
type TaskPage struct {
	Data []*domain.Task `json:"data"`
	Meta PageMeta       `json:"meta"`
}

// TaskService is the mutation orchestrator: every task mutation goes
// through it, and it guarantees that (a) the store reflects the change,
// (b) no stale cached list can be served afterwards, and (c) all live
// clients are signaled. Store write strictly precedes cache invalidation,
// which strictly precedes fan-out emission. Cache, fan-out, and queue
// failures are logged and swallowed; only not-found (and boundary
// validation) errors reach the caller.
type TaskService interface {
	// Create persists a new task for the owner. If and only if the task's
	// priority is high, a notification message is also published
	// (fire-and-forget).
	Create(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*domain.Task, error)

	// Get retrieves a single task, bypassing the cache so it always
	// reflects the store.
	Get(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error)

	// List retrieves a page of the owner's tasks, reading through the
	// query cache.
	List(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) (*TaskPage, error)

	// Update merges the non-nil fields of update into the task. An empty
	// update returns the task unchanged with no side effects. No
	// notification is published on update, even when the priority becomes
	// high: alerts fire only for newly created urgent work.
	Update(ctx context.Context, id, userID uuid.UUID, update domain.TaskUpdate) (*domain.Task, error)

	// Delete removes the task. Returns ErrTaskNotFound before any side
	// effects when the task does not exist for the owner.
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	taskStore   store.TaskStore
	cache       cache.QueryCache
	broadcaster realtime.Broadcaster
	producer    notify.Producer
	logger      *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	taskStore store.TaskStore,
	queryCache cache.QueryCache,
	broadcaster realtime.Broadcaster,
	producer notify.Producer,
	logger *slog.Logger,
) (TaskService, error) {
	if taskStore == nil {
		return nil, fmt.Errorf("taskStore cannot be nil")
	}
	if queryCache == nil {
		return nil, fmt.Errorf("queryCache cannot be nil")
	}
	if broadcaster == nil {
		return nil, fmt.Errorf("broadcaster cannot be nil")
	}
	if producer == nil {
		return nil, fmt.Errorf("producer cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &taskServiceImpl{
		taskStore:   taskStore,
		cache:       queryCache,
		broadcaster: broadcaster,
		producer:    producer,
		logger:      logger.With("component", "task_service"),
	}, nil
}

// Create implements TaskService.Create
func (s *taskServiceImpl) Create(
	ctx context.Context,
	userID uuid.UUID,
	input CreateTaskInput,
) (*domain.Task, error) {
	task, err := domain.NewTask(
		userID,
		input.Title,
		input.Description,
		input.Status,
		input.Priority,
		input.DueDate,
	)
	if err != nil {
		return nil, wrapError("create_task", "invalid task data", err)
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, wrapError("create_task", "failed to persist task", err)
	}

	s.finishMutation(ctx, userID, "create")

	if task.Priority == domain.TaskPriorityHigh {
		if err := s.producer.Publish(ctx, notify.NewMessage(task)); err != nil {
			s.logger.Error("failed to publish notification",
				"error", err,
				"task_id", task.ID)
		}
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"user_id", userID,
		"priority", task.Priority)
	return task, nil
}

// Get implements TaskService.Get
func (s *taskServiceImpl) Get(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, id, userID)
	if err != nil {
		return nil, wrapError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// List implements TaskService.List
func (s *taskServiceImpl) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
) (*TaskPage, error) {
	filter = filter.Normalize()
	key := cache.Key(cache.DomainTasks, userID, filterQualifier(filter))

	if data, ok := s.cache.Get(ctx, key); ok {
		var page TaskPage
		if err := json.Unmarshal(data, &page); err == nil {
			s.logger.Debug("task list served from cache",
				"user_id", userID,
				"key", key)
			return &page, nil
		}
		// Undecodable entry; fall through to the store.
	}

	tasks, total, err := s.taskStore.List(ctx, userID, filter)
	if err != nil {
		return nil, wrapError("list_tasks", "failed to list tasks", err)
	}

	page := &TaskPage{
		Data: tasks,
		Meta: PageMeta{
			Total:      total,
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalPages: (total + filter.Limit - 1) / filter.Limit,
		},
	}

	if data, err := json.Marshal(page); err == nil {
		s.cache.Set(ctx, key, data)
	}

	return page, nil
}

// Update implements TaskService.Update
func (s *taskServiceImpl) Update(
	ctx context.Context,
	id, userID uuid.UUID,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, id, userID)
	if err != nil {
		return nil, wrapError("update_task", "failed to retrieve task", err)
	}

	// An empty update changes nothing, so it triggers neither invalidation
	// nor fan-out.
	if update.IsEmpty() {
		return task, nil
	}

	if err := task.ApplyUpdate(update); err != nil {
		return nil, wrapError("update_task", "invalid task data", err)
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		return nil, wrapError("update_task", "failed to persist task", err)
	}

	s.finishMutation(ctx, userID, "update")

	s.logger.Info("task updated",
		"task_id", task.ID,
		"user_id", userID)
	return task, nil
}

// Delete implements TaskService.Delete
func (s *taskServiceImpl) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.taskStore.Delete(ctx, id, userID); err != nil {
		return wrapError("delete_task", "failed to delete task", err)
	}

	s.finishMutation(ctx, userID, "delete")

	s.logger.Info("task deleted",
		"task_id", id,
		"user_id", userID)
	return nil
}

// finishMutation runs the post-write side of every mutation: synchronous
// cache namespace invalidation, then both fan-out signals. Failures here
// never affect the outcome of the mutation.
func (s *taskServiceImpl) finishMutation(ctx context.Context, userID uuid.UUID, op string) {
	if err := s.cache.InvalidateNamespace(ctx, cache.DomainTasks, userID); err != nil {
		s.logger.Error("cache invalidation failed",
			"error", err,
			"user_id", userID,
			"operation", op)
	}

	s.broadcaster.Emit(ctx, realtime.SignalTasksUpdated)
	s.broadcaster.Emit(ctx, realtime.SignalAnalyticsUpdated)
}

// filterQualifier renders the filter as a canonical cache-key qualifier.
// Filters must already be normalized so equal queries share an entry.
func filterQualifier(f store.TaskFilter) string {
	return fmt.Sprintf("page=%d&limit=%d&status=%s&priority=%s&sort=%s&order=%s",
		f.Page, f.Limit, f.Status, f.Priority, f.SortBy, f.Order)
}
