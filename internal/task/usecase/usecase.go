package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/task"
	"github.com/fekuna/omnipos-warehouse-service/internal/task/dto"
	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type taskUseCase struct {
	repo   task.Repository
	logger logger.ZapLogger
	now    func() time.Time
}

func NewTaskUseCase(repo task.Repository, log logger.ZapLogger) task.UseCase {
	return &taskUseCase{
		repo:   repo,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (uc *taskUseCase) CreateTask(ctx context.Context, input *dto.CreateTaskInput) (*model.Task, error) {
	level, err := parseLevel(input.Level)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	t := &model.Task{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:              strings.TrimSpace(input.Name),
		Description:       strings.TrimSpace(input.Description),
		Assignee:          input.Assignee,
		Level:             level,
		Status:            model.TaskNotStarted,
		AssignedEmployees: employees(input.AssignedEmployees),
	}
	if err := model.Validate("Invalid task", 0, t); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	uc.logger.Info("task created", zap.String("id", t.ID), zap.String("assignee", t.Assignee))
	return t, nil
}

func (uc *taskUseCase) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *taskUseCase) ListTasks(ctx context.Context) ([]model.Task, error) {
	return uc.repo.FindAll(ctx, &dto.TaskFilters{})
}

func (uc *taskUseCase) ListByEmployee(ctx context.Context, employeeID string) ([]model.Task, error) {
	if employeeID == "" {
		return nil, apperror.Validation("Invalid request", apperror.FieldError{Field: "employeeId", Message: "employeeId cannot be empty"})
	}
	return uc.repo.FindAll(ctx, &dto.TaskFilters{Employee: employeeID})
}

func (uc *taskUseCase) ListByAssignee(ctx context.Context, assignee string) ([]model.Task, error) {
	if assignee == "" {
		return nil, apperror.Validation("Invalid request", apperror.FieldError{Field: "assignee", Message: "assignee cannot be empty"})
	}
	return uc.repo.FindAll(ctx, &dto.TaskFilters{Assignee: assignee})
}

func (uc *taskUseCase) UpdateTask(ctx context.Context, input *dto.UpdateTaskInput) (*model.Task, error) {
	t, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	t.Name = strings.TrimSpace(input.Name)
	t.Description = strings.TrimSpace(input.Description)
	if input.Level != "" {
		if t.Level, err = parseLevel(input.Level); err != nil {
			return nil, err
		}
	}
	if input.AssignedEmployees != nil {
		t.AssignedEmployees = employees(input.AssignedEmployees)
	}
	return uc.save(ctx, t)
}

// UpdateStatus sets the status directly without touching the start and
// completion times.
func (uc *taskUseCase) UpdateStatus(ctx context.Context, id, status string) (*model.Task, error) {
	s, ok := model.ParseTaskStatus(status)
	if !ok {
		return nil, apperror.Validation("Invalid task status", apperror.FieldError{
			Field:   "status",
			Message: "status must be one of NOT-STARTED ON-GOING POSTPONED COMPLETED",
			Value:   status,
		})
	}
	t, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Status = s
	return uc.save(ctx, t)
}

func (uc *taskUseCase) UpdateLevel(ctx context.Context, id, level string) (*model.Task, error) {
	l, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	t, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Level = l
	return uc.save(ctx, t)
}

func (uc *taskUseCase) StartTask(ctx context.Context, input *dto.TransitionInput) (*model.Task, error) {
	t, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	at := uc.at(input.At)
	t.Status = model.TaskOngoing
	t.StartedAt = &at
	return uc.save(ctx, t)
}

func (uc *taskUseCase) CompleteTask(ctx context.Context, input *dto.TransitionInput) (*model.Task, error) {
	t, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	at := uc.at(input.At)
	t.Status = model.TaskCompleted
	t.CompletedAt = &at
	return uc.save(ctx, t)
}

// DeleteTask is allowed for the task's assignee and for supervisors,
// managers and admins.
func (uc *taskUseCase) DeleteTask(ctx context.Context, id string) error {
	t, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	p, _ := auth.FromContext(ctx)
	if p == nil || (p.EmployeeID != t.Assignee && !p.HasRole(auth.RoleSupervisor, auth.RoleManager, auth.RoleAdmin)) {
		return apperror.Permission("Only the assignee or a supervisor can delete this task")
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("task deleted", zap.String("id", id), zap.String("employee_id", p.EmployeeID))
	return nil
}

func (uc *taskUseCase) save(ctx context.Context, t *model.Task) (*model.Task, error) {
	t.UpdatedAt = uc.now()
	if err := model.Validate("Invalid task", 0, t); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (uc *taskUseCase) at(t *time.Time) time.Time {
	if t == nil {
		return uc.now()
	}
	return t.UTC()
}

func parseLevel(s string) (model.TaskLevel, error) {
	if strings.TrimSpace(s) == "" {
		return model.TaskLevelMedium, nil
	}
	l, ok := model.ParseTaskLevel(s)
	if !ok {
		return "", apperror.Validation("Invalid task level", apperror.FieldError{
			Field:   "level",
			Message: "level must be one of LOW MEDIUM HIGH",
			Value:   s,
		})
	}
	return l, nil
}

// employees trims ids and drops blanks and repeats.
func employees(ids []string) model.StringList {
	out := model.StringList{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" && !out.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}
