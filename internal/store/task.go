package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskpulse/taskpulse-api/internal/domain"
)

// Sort orders accepted by TaskFilter.
const (
	SortOrderAsc  = "ASC"
	SortOrderDesc = "DESC"
)

// TaskSortFields lists the columns a task list query may be sorted by.
var TaskSortFields = []string{"created_at", "updated_at", "due_date", "priority", "status"}

// TaskFilter describes a paginated, filterable, sortable task list query.
// Zero values mean "no filter"; Normalize fills in defaults.
type TaskFilter struct {
	Status   domain.TaskStatus
	Priority domain.TaskPriority
	SortBy   string
	Order    string
	Page     int
	Limit    int
}

// Normalize returns a copy of the filter with defaults applied: page 1,
// limit 10, sorted by created_at descending.
func (f TaskFilter) Normalize() TaskFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	if f.SortBy == "" {
		f.SortBy = "created_at"
	}
	if f.Order != SortOrderAsc {
		f.Order = SortOrderDesc
	}
	return f
}

// TaskStore defines the interface for task persistence. Every read and
// mutation is scoped to an owner; a task belonging to another user behaves
// as if it does not exist.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its ID for the given owner.
	// Returns ErrTaskNotFound if no such task exists for that owner.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error)

	// List retrieves the owner's tasks matching the filter, plus the total
	// number of matches before pagination.
	List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*domain.Task, int, error)

	// Update saves changes to an existing task.
	// Returns ErrTaskNotFound if the task does not exist for its owner.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by its ID for the given owner.
	// Returns ErrTaskNotFound if no such task exists for that owner.
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// ListAll retrieves every task for the owner, ordered by creation time
	// ascending. Used by analytics, which aggregates over the full set.
	ListAll(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
}
