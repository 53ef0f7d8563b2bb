package service

import (
	"context"
	"fmt"

	"github.com/jandrly/kancl/internal/core/domain"
	"github.com/jandrly/kancl/internal/core/ports"
)

type TaskService struct {
	repo ports.TaskRepository
}

func NewTaskService(repo ports.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// List returns every task. An empty collection yields an empty, non-nil slice.
func (s *TaskService) List(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}
