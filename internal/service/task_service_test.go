package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tasknest/tasknest/internal/events"
	"github.com/tasknest/tasknest/internal/storage"
	"github.com/tasknest/tasknest/internal/taskerr"
)

type recordingPublisher struct {
	published []*events.TaskEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event *events.TaskEvent) error {
	p.published = append(p.published, event)
	return nil
}

func newTaskService() (*TaskService, *recordingPublisher) {
	publisher := &recordingPublisher{}
	return NewTaskService(storage.NewMemoryStorage(), publisher), publisher
}

func TestCreateTask_Defaults(t *testing.T) {
	svc, publisher := newTaskService()

	task, err := svc.Create(context.Background(), 1, CreateTaskInput{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if task.ID == 0 {
		t.Error("expected generated task id")
	}
	if task.Title != "Buy milk" {
		t.Errorf("expected title 'Buy milk', got '%s'", task.Title)
	}
	if task.Completed {
		t.Error("expected new task to be incomplete")
	}
	if task.DueDate != nil {
		t.Errorf("expected nil due date, got %v", task.DueDate)
	}
	if task.Priority != nil {
		t.Errorf("expected nil priority, got %v", task.Priority)
	}
	if task.UserID != 1 {
		t.Errorf("expected owner 1, got %d", task.UserID)
	}

	if len(publisher.published) != 1 || publisher.published[0].Type != events.TaskCreated {
		t.Errorf("expected one task_created event, got %v", publisher.published)
	}
}

func TestCreateTask_TrimsTitle(t *testing.T) {
	svc, _ := newTaskService()

	task, err := svc.Create(context.Background(), 1, CreateTaskInput{Title: "  Buy milk  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Title != "Buy milk" {
		t.Errorf("expected trimmed title, got '%s'", task.Title)
	}
}

func TestCreateTask_EmptyTitle(t *testing.T) {
	svc, publisher := newTaskService()

	_, err := svc.Create(context.Background(), 1, CreateTaskInput{Title: "   "})
	if err == nil {
		t.Fatal("expected error for empty title")
	}
	if taskerr.KindOf(err) != taskerr.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
	if taskerr.Message(err) != "Title is required" {
		t.Errorf("unexpected message: %s", taskerr.Message(err))
	}
	if len(publisher.published) != 0 {
		t.Error("expected no event for failed create")
	}
}

func TestCreateTask_InvalidPriority(t *testing.T) {
	svc, _ := newTaskService()

	_, err := svc.Create(context.Background(), 1, CreateTaskInput{Title: "X", Priority: "urgent"})
	if err == nil {
		t.Fatal("expected error for invalid priority")
	}
	if taskerr.Message(err) != "Invalid priority. Must be high, medium, or low" {
		t.Errorf("unexpected message: %s", taskerr.Message(err))
	}
}

func TestCreateTask_PriorityCaseInsensitive(t *testing.T) {
	svc, _ := newTaskService()

	task, err := svc.Create(context.Background(), 1, CreateTaskInput{Title: "X", Priority: "HIGH"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Priority == nil || string(*task.Priority) != "high" {
		t.Errorf("expected priority 'high', got %v", task.Priority)
	}
}

func TestCreateTask_DueDate(t *testing.T) {
	svc, _ := newTaskService()

	task, err := svc.Create(context.Background(), 1, CreateTaskInput{Title: "X", DueDate: "2026-09-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.DueDate == nil || task.DueDate.String() != "2026-09-01" {
		t.Errorf("expected due date 2026-09-01, got %v", task.DueDate)
	}
}

func TestCreateTask_InvalidDueDate(t *testing.T) {
	svc, _ := newTaskService()

	_, err := svc.Create(context.Background(), 1, CreateTaskInput{Title: "X", DueDate: "not-a-date"})
	if err == nil {
		t.Fatal("expected error for invalid due date")
	}
	if taskerr.Message(err) != "Invalid due date format" {
		t.Errorf("unexpected message: %s", taskerr.Message(err))
	}
}

func TestListTasks_EmptyAndOrdered(t *testing.T) {
	svc, _ := newTaskService()
	ctx := context.Background()

	tasks, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected empty list, got %d tasks", len(tasks))
	}

	first, _ := svc.Create(ctx, 1, CreateTaskInput{Title: "first"})
	second, _ := svc.Create(ctx, 1, CreateTaskInput{Title: "second"})

	tasks, err = svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != second.ID || tasks[1].ID != first.ID {
		t.Error("expected newest-first ordering")
	}
}

func TestUpdateTask_CompletedIdempotent(t *testing.T) {
	svc, _ := newTaskService()
	ctx := context.Background()

	task, _ := svc.Create(ctx, 1, CreateTaskInput{Title: "X"})

	completed := true
	updated, err := svc.Update(ctx, 1, task.ID, UpdateTaskInput{Completed: &completed})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Completed {
		t.Error("expected task to be completed")
	}

	again, err := svc.Update(ctx, 1, task.ID, UpdateTaskInput{Completed: &completed})
	if err != nil {
		t.Fatalf("second update should not error: %v", err)
	}
	if !again.Completed {
		t.Error("expected task to stay completed")
	}
}

func TestUpdateTask_PartialLeavesOtherFields(t *testing.T) {
	svc, _ := newTaskService()
	ctx := context.Background()

	task, _ := svc.Create(ctx, 1, CreateTaskInput{
		Title:       "X",
		Description: "desc",
		DueDate:     "2026-09-01",
		Priority:    "low",
	})

	newTitle := "Y"
	updated, err := svc.Update(ctx, 1, task.ID, UpdateTaskInput{Title: &newTitle})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Title != "Y" {
		t.Errorf("expected updated title, got '%s'", updated.Title)
	}
	if updated.Description != "desc" {
		t.Errorf("expected description unchanged, got '%s'", updated.Description)
	}
	if updated.DueDate == nil || updated.DueDate.String() != "2026-09-01" {
		t.Errorf("expected due date unchanged, got %v", updated.DueDate)
	}
	if updated.Priority == nil || string(*updated.Priority) != "low" {
		t.Errorf("expected priority unchanged, got %v", updated.Priority)
	}
}

func TestUpdateTask_ClearsDueDateAndPriority(t *testing.T) {
	svc, _ := newTaskService()
	ctx := context.Background()

	task, _ := svc.Create(ctx, 1, CreateTaskInput{Title: "X", DueDate: "2026-09-01", Priority: "high"})

	empty := ""
	updated, err := svc.Update(ctx, 1, task.ID, UpdateTaskInput{DueDate: &empty, Priority: &empty})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.DueDate != nil {
		t.Errorf("expected cleared due date, got %v", updated.DueDate)
	}
	if updated.Priority != nil {
		t.Errorf("expected cleared priority, got %v", updated.Priority)
	}
}

func TestUpdateTask_InvalidPriority(t *testing.T) {
	svc, _ := newTaskService()
	ctx := context.Background()

	task, _ := svc.Create(ctx, 1, CreateTaskInput{Title: "X"})

	bad := "urgent"
	_, err := svc.Update(ctx, 1, task.ID, UpdateTaskInput{Priority: &bad})
	if err == nil {
		t.Fatal("expected error for invalid priority")
	}
	if taskerr.Message(err) != "Invalid priority. Must be high, medium, or low" {
		t.Errorf("unexpected message: %s", taskerr.Message(err))
	}
}

func TestTaskOwnership_Isolation(t *testing.T) {
	svc, _ := newTaskService()
	ctx := context.Background()

	task, _ := svc.Create(ctx, 1, CreateTaskInput{Title: "mine"})

	tasks, err := svc.List(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 0 {
		t.Error("expected user 2 to see no tasks of user 1")
	}

	completed := true
	_, err = svc.Update(ctx, 2, task.ID, UpdateTaskInput{Completed: &completed})
	if taskerr.KindOf(err) != taskerr.KindNotFound {
		t.Errorf("expected not-found for foreign update, got %v", err)
	}

	err = svc.Delete(ctx, 2, task.ID)
	if taskerr.KindOf(err) != taskerr.KindNotFound {
		t.Errorf("expected not-found for foreign delete, got %v", err)
	}

	// The owner still succeeds afterwards.
	if err := svc.Delete(ctx, 1, task.ID); err != nil {
		t.Errorf("owner delete failed: %v", err)
	}
}

func TestDeleteTask_NotFound(t *testing.T) {
	svc, _ := newTaskService()

	err := svc.Delete(context.Background(), 1, 999)
	if taskerr.KindOf(err) != taskerr.KindNotFound {
		t.Errorf("expected not-found, got %v", err)
	}
	if taskerr.Message(err) != "Task not found" {
		t.Errorf("unexpected message: %s", taskerr.Message(err))
	}
}

func TestPublishFailure_DoesNotFailOperation(t *testing.T) {
	svc := NewTaskService(storage.NewMemoryStorage(), failingPublisher{})

	task, err := svc.Create(context.Background(), 1, CreateTaskInput{Title: "X"})
	if err != nil {
		t.Fatalf("create should survive publish failure: %v", err)
	}
	if task == nil {
		t.Fatal("expected task despite publish failure")
	}
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, *events.TaskEvent) error {
	return errors.New("broker down")
}
