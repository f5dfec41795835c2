package service

import (
	"context"
	"time"

	"github.com/tasknest/tasknest/internal/events"
	"github.com/tasknest/tasknest/internal/logger"
	"github.com/tasknest/tasknest/internal/models"
	"github.com/tasknest/tasknest/internal/storage"
	"github.com/tasknest/tasknest/internal/taskerr"
	"github.com/tasknest/tasknest/internal/validation"
)

// EventPublisher is satisfied by events.TaskProducer; a nil publisher
// disables event emission.
type EventPublisher interface {
	Publish(ctx context.Context, event *events.TaskEvent) error
}

type TaskService struct {
	tasks     storage.TaskStore
	publisher EventPublisher
	log       *logger.Logger
}

func NewTaskService(tasks storage.TaskStore, publisher EventPublisher) *TaskService {
	return &TaskService{
		tasks:     tasks,
		publisher: publisher,
		log:       logger.New("task-service"),
	}
}

type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     string // empty means absent
	Priority    string // empty means absent
}

// UpdateTaskInput carries the accepted field set for a partial
// update. A nil pointer leaves the field unchanged; for DueDate and
// Priority a pointer to the empty string clears the field.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *string
	Priority    *string
}

func (s *TaskService) List(ctx context.Context, userID int64) ([]*models.Task, error) {
	tasks, err := s.tasks.ListTasks(ctx, userID)
	if err != nil {
		return nil, taskerr.Internal(err)
	}
	return tasks, nil
}

func (s *TaskService) Create(ctx context.Context, userID int64, input CreateTaskInput) (*models.Task, error) {
	title, ok := validation.ValidateTaskTitle(input.Title)
	if !ok {
		return nil, taskerr.Validation("Title is required")
	}

	dueDate, err := parseDueDate(input.DueDate)
	if err != nil {
		return nil, err
	}

	priority, err := parsePriority(input.Priority)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Completed:   false,
		DueDate:     dueDate,
		Priority:    priority,
		UserID:      userID,
	}

	created, err := s.tasks.CreateTask(ctx, task)
	if err != nil {
		return nil, taskerr.Internal(err)
	}

	s.publish(ctx, events.TaskCreated, created)
	return created, nil
}

func (s *TaskService) Update(ctx context.Context, userID, taskID int64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.tasks.GetTaskForOwner(ctx, userID, taskID)
	if err != nil {
		return nil, taskerr.Internal(err)
	}
	if task == nil {
		return nil, taskerr.NotFound("Task not found")
	}

	if input.Title != nil {
		title, ok := validation.ValidateTaskTitle(*input.Title)
		if !ok {
			return nil, taskerr.Validation("Title is required")
		}
		task.Title = title
	}

	if input.Description != nil {
		task.Description = *input.Description
	}

	if input.Completed != nil {
		task.Completed = *input.Completed
	}

	if input.DueDate != nil {
		dueDate, err := parseDueDate(*input.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = dueDate
	}

	if input.Priority != nil {
		priority, err := parsePriority(*input.Priority)
		if err != nil {
			return nil, err
		}
		task.Priority = priority
	}

	updated, err := s.tasks.UpdateTask(ctx, task)
	if err != nil {
		return nil, taskerr.Internal(err)
	}
	if updated == nil {
		return nil, taskerr.NotFound("Task not found")
	}

	s.publish(ctx, events.TaskUpdated, updated)
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID int64) error {
	deleted, err := s.tasks.DeleteTask(ctx, userID, taskID)
	if err != nil {
		return taskerr.Internal(err)
	}
	if !deleted {
		return taskerr.NotFound("Task not found")
	}

	s.publish(ctx, events.TaskDeleted, &models.Task{ID: taskID, UserID: userID})
	return nil
}

func (s *TaskService) publish(ctx context.Context, eventType events.EventType, task *models.Task) {
	if s.publisher == nil {
		return
	}

	event := &events.TaskEvent{
		Type:   eventType,
		TaskID: task.ID,
		UserID: task.UserID,
		Title:  task.Title,
		At:     time.Now(),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Error("Failed to publish %s event for task %d: %v", eventType, task.ID, err)
	}
}

func parseDueDate(value string) (*models.Date, error) {
	if value == "" {
		return nil, nil
	}
	date, err := models.ParseDate(value)
	if err != nil {
		return nil, taskerr.Validation("Invalid due date format")
	}
	return &date, nil
}

func parsePriority(value string) (*models.Priority, error) {
	if value == "" {
		return nil, nil
	}
	priority, ok := models.ParsePriority(value)
	if !ok {
		return nil, taskerr.Validation("Invalid priority. Must be high, medium, or low")
	}
	return &priority, nil
}
