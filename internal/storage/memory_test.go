package storage

import (
	"context"
	"testing"
	"time"

	"github.com/tasknest/tasknest/internal/models"
)

func seedTask(t *testing.T, s *MemoryStorage, userID int64, title string) *models.Task {
	t.Helper()
	task, err := s.CreateTask(context.Background(), &models.Task{
		Title:  title,
		UserID: userID,
	})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return task
}

func TestMemoryStorage_UserLookup(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "a@b.com", "A", "hash")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected a non-zero user id")
	}

	byEmail, err := s.GetUserByEmail(ctx, "a@b.com")
	if err != nil || byEmail == nil || byEmail.ID != created.ID {
		t.Errorf("GetUserByEmail = %v, %v", byEmail, err)
	}

	missing, err := s.GetUserByEmail(ctx, "nobody@b.com")
	if err != nil || missing != nil {
		t.Errorf("expected nil for unknown email, got %v, %v", missing, err)
	}

	byID, err := s.GetUserByID(ctx, created.ID)
	if err != nil || byID == nil || byID.Email != "a@b.com" {
		t.Errorf("GetUserByID = %v, %v", byID, err)
	}
}

func TestMemoryStorage_OwnerScoping(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	mine := seedTask(t, s, 1, "mine")
	seedTask(t, s, 2, "theirs")

	tasks, err := s.ListTasks(ctx, 1)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "mine" {
		t.Errorf("expected only my task, got %v", tasks)
	}

	foreign, err := s.GetTaskForOwner(ctx, 2, mine.ID)
	if err != nil || foreign != nil {
		t.Errorf("foreign task must be invisible, got %v, %v", foreign, err)
	}

	deleted, err := s.DeleteTask(ctx, 2, mine.ID)
	if err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if deleted {
		t.Error("user 2 must not delete user 1's task")
	}
}

func TestMemoryStorage_UpdatePreservesCreatedAt(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	task := seedTask(t, s, 1, "before")
	createdAt := task.CreatedAt

	time.Sleep(time.Millisecond)

	task.Title = "after"
	updated, err := s.UpdateTask(ctx, task)
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if updated == nil || updated.Title != "after" {
		t.Fatalf("unexpected update result: %v", updated)
	}
	if !updated.CreatedAt.Equal(createdAt) {
		t.Error("update must not change createdAt")
	}
	if !updated.UpdatedAt.After(createdAt) {
		t.Error("update must advance updatedAt")
	}
}

func TestMemoryStorage_DeleteUserCascades(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "a@b.com", "A", "hash")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	other, err := s.CreateUser(ctx, "b@b.com", "B", "hash")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	seedTask(t, s, user.ID, "one")
	seedTask(t, s, user.ID, "two")
	kept := seedTask(t, s, other.ID, "keep")

	deleted, err := s.DeleteUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if !deleted {
		t.Fatal("expected user to be deleted")
	}

	if u, _ := s.GetUserByID(ctx, user.ID); u != nil {
		t.Error("deleted user still resolvable")
	}
	if tasks, _ := s.ListTasks(ctx, user.ID); len(tasks) != 0 {
		t.Errorf("expected cascade to remove tasks, got %d", len(tasks))
	}
	if tasks, _ := s.ListTasks(ctx, other.ID); len(tasks) != 1 || tasks[0].ID != kept.ID {
		t.Error("cascade must not touch other users' tasks")
	}

	deleted, err = s.DeleteUser(ctx, user.ID)
	if err != nil || deleted {
		t.Errorf("second delete should be a no-op, got %v, %v", deleted, err)
	}
}
