package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tasknest/tasknest/internal/database"
	"github.com/tasknest/tasknest/internal/models"
)

type TaskStorage struct {
	db *database.DBManager
}

func NewTaskStorage(db *database.DBManager) *TaskStorage {
	return &TaskStorage{db: db}
}

const taskColumns = `id, title, description, completed, due_date, priority, created_at, updated_at, user_id`

func scanTask(row pgx.Row) (*models.Task, error) {
	var (
		task     models.Task
		dueDate  *time.Time
		priority *string
	)

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&dueDate,
		&priority,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.UserID,
	)
	if err != nil {
		return nil, err
	}

	if dueDate != nil {
		d := models.NewDate(*dueDate)
		task.DueDate = &d
	}
	if priority != nil {
		p := models.Priority(*priority)
		task.Priority = &p
	}

	return &task, nil
}

func (s *TaskStorage) ListTasks(ctx context.Context, userID int64) ([]*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.Read().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

func (s *TaskStorage) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	query := `
		INSERT INTO tasks (title, description, completed, due_date, priority, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + taskColumns

	row := s.db.Write().QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Completed,
		dueDateValue(task.DueDate),
		priorityValue(task.Priority),
		task.UserID,
	)

	created, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return created, nil
}

func (s *TaskStorage) GetTaskForOwner(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	task, err := scanTask(s.db.Read().QueryRow(ctx, query, taskID, userID))

	if err == pgx.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

func (s *TaskStorage) UpdateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, completed = $3, due_date = $4, priority = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
		RETURNING ` + taskColumns

	row := s.db.Write().QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Completed,
		dueDateValue(task.DueDate),
		priorityValue(task.Priority),
		task.ID,
		task.UserID,
	)

	updated, err := scanTask(row)

	if err == pgx.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return updated, nil
}

func (s *TaskStorage) DeleteTask(ctx context.Context, userID, taskID int64) (bool, error) {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	cmdTag, err := s.db.Write().Exec(ctx, query, taskID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

func dueDateValue(d *models.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func priorityValue(p *models.Priority) *string {
	if p == nil {
		return nil
	}
	s := string(*p)
	return &s
}
