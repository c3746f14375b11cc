package task

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/task/dto"
)

type UseCase interface {
	CreateTask(ctx context.Context, input *dto.CreateTaskInput) (*model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context) ([]model.Task, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]model.Task, error)
	ListByAssignee(ctx context.Context, assignee string) ([]model.Task, error)
	UpdateTask(ctx context.Context, input *dto.UpdateTaskInput) (*model.Task, error)
	UpdateStatus(ctx context.Context, id, status string) (*model.Task, error)
	UpdateLevel(ctx context.Context, id, level string) (*model.Task, error)
	StartTask(ctx context.Context, input *dto.TransitionInput) (*model.Task, error)
	CompleteTask(ctx context.Context, input *dto.TransitionInput) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}
