package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tasknest/tasknest/internal/models"
	usermodel "github.com/tasknest/tasknest/internal/models/user"
)

// MemoryStorage backs the server when no database is configured and
// doubles as the store fake in tests. It implements both UserStore
// and TaskStore under one lock so user deletion can cascade.
type MemoryStorage struct {
	mu         sync.RWMutex
	users      map[int64]*usermodel.User
	tasks      map[int64]*models.Task
	nextUserID int64
	nextTaskID int64
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users: make(map[int64]*usermodel.User),
		tasks: make(map[int64]*models.Task),
	}
}

func (s *MemoryStorage) CreateUser(_ context.Context, email, fullName, passwordHash string) (*usermodel.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextUserID++
	u := &usermodel.User{
		ID:           s.nextUserID,
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.users[u.ID] = u

	copied := *u
	return &copied, nil
}

func (s *MemoryStorage) GetUserByEmail(_ context.Context, email string) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *MemoryStorage) GetUserByID(_ context.Context, id int64) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.users[id]
	if !exists {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

// DeleteUser removes the user and, like the SQL schema's cascade,
// every task it owns.
func (s *MemoryStorage) DeleteUser(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[id]; !exists {
		return false, nil
	}
	delete(s.users, id)
	for taskID, task := range s.tasks {
		if task.UserID == id {
			delete(s.tasks, taskID)
		}
	}
	return true, nil
}

func (s *MemoryStorage) ListTasks(_ context.Context, userID int64) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*models.Task, 0)
	for _, task := range s.tasks {
		if task.UserID == userID {
			copied := *task
			tasks = append(tasks, &copied)
		}
	}

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID > tasks[j].ID
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	return tasks, nil
}

func (s *MemoryStorage) CreateTask(_ context.Context, task *models.Task) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.nextTaskID++

	stored := *task
	stored.ID = s.nextTaskID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.tasks[stored.ID] = &stored

	copied := stored
	return &copied, nil
}

func (s *MemoryStorage) GetTaskForOwner(_ context.Context, userID, taskID int64) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, exists := s.tasks[taskID]
	if !exists || task.UserID != userID {
		return nil, nil
	}
	copied := *task
	return &copied, nil
}

func (s *MemoryStorage) UpdateTask(_ context.Context, task *models.Task) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.tasks[task.ID]
	if !exists || existing.UserID != task.UserID {
		return nil, nil
	}

	stored := *task
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	s.tasks[stored.ID] = &stored

	copied := stored
	return &copied, nil
}

func (s *MemoryStorage) DeleteTask(_ context.Context, userID, taskID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, exists := s.tasks[taskID]
	if !exists || task.UserID != userID {
		return false, nil
	}
	delete(s.tasks, taskID)
	return true, nil
}
