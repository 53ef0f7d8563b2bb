package ports

import (
	"context"

	"github.com/jandrly/kancl/internal/core/domain"
)

type TaskRepository interface {
	List(ctx context.Context) ([]domain.Task, error)
}

type TaskService interface {
	List(ctx context.Context) ([]domain.Task, error)
}
