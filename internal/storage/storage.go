package storage

import (
	"context"

	"github.com/tasknest/tasknest/internal/models"
	usermodel "github.com/tasknest/tasknest/internal/models/user"
)

// Lookups return (nil, nil) when no row matches; for tasks that
// includes rows owned by someone else, so callers cannot tell a
// foreign task from a missing one.

type UserStore interface {
	CreateUser(ctx context.Context, email, fullName, passwordHash string) (*usermodel.User, error)
	GetUserByEmail(ctx context.Context, email string) (*usermodel.User, error)
	GetUserByID(ctx context.Context, id int64) (*usermodel.User, error)
}

type TaskStore interface {
	ListTasks(ctx context.Context, userID int64) ([]*models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) (*models.Task, error)
	GetTaskForOwner(ctx context.Context, userID, taskID int64) (*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID int64) (bool, error)
}
