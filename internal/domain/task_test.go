package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewTask(t *testing.T) {
	userID := uuid.New()

	task, err := NewTask(userID, "Write report", "quarterly numbers", TaskStatusInProgress, TaskPriorityHigh, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if task.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, task.UserID)
	}
	if task.Status != TaskStatusInProgress {
		t.Errorf("Expected status %s, got %s", TaskStatusInProgress, task.Status)
	}
	if task.Priority != TaskPriorityHigh {
		t.Errorf("Expected priority %s, got %s", TaskPriorityHigh, task.Priority)
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}
}

func TestNewTaskDefaults(t *testing.T) {
	task, err := NewTask(uuid.New(), "Buy milk", "", "", "", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.Status != TaskStatusPending {
		t.Errorf("Expected default status %s, got %s", TaskStatusPending, task.Status)
	}
	if task.Priority != TaskPriorityMedium {
		t.Errorf("Expected default priority %s, got %s", TaskPriorityMedium, task.Priority)
	}
}

func TestNewTaskValidation(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name     string
		userID   uuid.UUID
		title    string
		desc     string
		status   TaskStatus
		priority TaskPriority
		wantErr  error
	}{
		{"nil user ID", uuid.Nil, "Valid title", "", "", "", ErrTaskUserIDEmpty},
		{"title too short", userID, "ab", "", "", "", ErrTaskTitleLength},
		{"title too long", userID, strings.Repeat("x", TaskTitleMaxLen+1), "", "", "", ErrTaskTitleLength},
		{"description too long", userID, "Valid title", strings.Repeat("x", TaskDescriptionMaxLen+1), "", "", ErrTaskDescriptionTooLong},
		{"unknown status", userID, "Valid title", "", "archived", "", ErrInvalidTaskStatus},
		{"unknown priority", userID, "Valid title", "", "", "urgent", ErrInvalidTaskPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTask(tt.userID, tt.title, tt.desc, tt.status, tt.priority, nil)
			if err != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewTaskBoundaryLengths(t *testing.T) {
	if _, err := NewTask(uuid.New(), strings.Repeat("x", TaskTitleMinLen), "", "", "", nil); err != nil {
		t.Errorf("Expected min-length title to be valid, got %v", err)
	}
	if _, err := NewTask(uuid.New(), strings.Repeat("x", TaskTitleMaxLen), "", "", "", nil); err != nil {
		t.Errorf("Expected max-length title to be valid, got %v", err)
	}
	if _, err := NewTask(uuid.New(), "Valid title", strings.Repeat("x", TaskDescriptionMaxLen), "", "", nil); err != nil {
		t.Errorf("Expected max-length description to be valid, got %v", err)
	}
}

func TestNewTaskMultibyteLengths(t *testing.T) {
	// Bounds count characters, not bytes. 200 two-byte runes is a valid
	// title even though it is 400 bytes long.
	if _, err := NewTask(uuid.New(), strings.Repeat("é", TaskTitleMaxLen), "", "", "", nil); err != nil {
		t.Errorf("Expected max-length multibyte title to be valid, got %v", err)
	}
	if _, err := NewTask(uuid.New(), strings.Repeat("é", TaskTitleMaxLen+1), "", "", "", nil); err != ErrTaskTitleLength {
		t.Errorf("Expected error %v, got %v", ErrTaskTitleLength, err)
	}
	if _, err := NewTask(uuid.New(), "Valid title", strings.Repeat("é", TaskDescriptionMaxLen), "", "", nil); err != nil {
		t.Errorf("Expected max-length multibyte description to be valid, got %v", err)
	}
}

func TestApplyUpdatePartial(t *testing.T) {
	task, err := NewTask(uuid.New(), "Original title", "original description", TaskStatusPending, TaskPriorityLow, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	before := *task
	time.Sleep(time.Millisecond)

	newStatus := TaskStatusCompleted
	if err := task.ApplyUpdate(TaskUpdate{Status: &newStatus}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.Status != TaskStatusCompleted {
		t.Errorf("Expected status %s, got %s", TaskStatusCompleted, task.Status)
	}
	if task.Title != before.Title {
		t.Errorf("Expected title untouched, got %s", task.Title)
	}
	if task.Description != before.Description {
		t.Errorf("Expected description untouched, got %s", task.Description)
	}
	if task.Priority != before.Priority {
		t.Errorf("Expected priority untouched, got %s", task.Priority)
	}
	if !task.UpdatedAt.After(before.UpdatedAt) {
		t.Error("Expected UpdatedAt to be bumped")
	}
	if !task.CreatedAt.Equal(before.CreatedAt) {
		t.Error("Expected CreatedAt unchanged")
	}
}

func TestApplyUpdateInvalidLeavesTaskUnchanged(t *testing.T) {
	task, err := NewTask(uuid.New(), "Original title", "", TaskStatusPending, TaskPriorityLow, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	before := *task

	badTitle := "ab"
	newPriority := TaskPriorityHigh
	err = task.ApplyUpdate(TaskUpdate{Title: &badTitle, Priority: &newPriority})
	if err != ErrTaskTitleLength {
		t.Fatalf("Expected error %v, got %v", ErrTaskTitleLength, err)
	}

	if *task != before {
		t.Error("Expected task unchanged after failed update")
	}
}

func TestApplyUpdateDueDate(t *testing.T) {
	due := time.Now().UTC().Add(48 * time.Hour)
	task, err := NewTask(uuid.New(), "With due date", "", "", "", &due)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	later := due.Add(24 * time.Hour)
	if err := task.ApplyUpdate(TaskUpdate{DueDate: &later}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.DueDate == nil || !task.DueDate.Equal(later) {
		t.Errorf("Expected due date %v, got %v", later, task.DueDate)
	}
}

func TestTaskUpdateIsEmpty(t *testing.T) {
	if !(TaskUpdate{}).IsEmpty() {
		t.Error("Expected empty update to report IsEmpty")
	}
	title := "New title"
	if (TaskUpdate{Title: &title}).IsEmpty() {
		t.Error("Expected update with title to not report IsEmpty")
	}
}

func TestStatusAndPriorityIsValid(t *testing.T) {
	for _, s := range []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted} {
		if !s.IsValid() {
			t.Errorf("Expected status %s to be valid", s)
		}
	}
	if TaskStatus("archived").IsValid() {
		t.Error("Expected unknown status to be invalid")
	}
	for _, p := range []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh} {
		if !p.IsValid() {
			t.Errorf("Expected priority %s to be valid", p)
		}
	}
	if TaskPriority("urgent").IsValid() {
		t.Error("Expected unknown priority to be invalid")
	}
}
