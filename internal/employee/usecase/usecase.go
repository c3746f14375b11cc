package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	"github.com/fekuna/omnipos-warehouse-service/internal/employee"
	"github.com/fekuna/omnipos-warehouse-service/internal/employee/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type employeeUseCase struct {
	repo   employee.Repository
	logger logger.ZapLogger
	now    func() time.Time
}

func NewEmployeeUseCase(repo employee.Repository, log logger.ZapLogger) employee.UseCase {
	return &employeeUseCase{
		repo:   repo,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (uc *employeeUseCase) CreateEmployee(ctx context.Context, input *dto.CreateEmployeeInput) (*model.Employee, error) {
	title := model.TitleWorker
	if strings.TrimSpace(input.Title) != "" {
		var err error
		if title, err = parseTitle(input.Title); err != nil {
			return nil, err
		}
	}

	now := uc.now()
	e := &model.Employee{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Phone:   strings.TrimSpace(input.Phone),
		Title:   title,
		Address: address(input.Address),
	}
	if err := model.Validate("Invalid employee", 0, e); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	uc.logger.Info("employee created", zap.String("id", e.ID), zap.String("title", string(e.Title)))
	return e, nil
}

func (uc *employeeUseCase) GetEmployee(ctx context.Context, id string) (*model.Employee, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *employeeUseCase) GetName(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", apperror.Validation("Invalid request", apperror.FieldError{Field: "employeeId", Message: "employeeId cannot be empty"})
	}
	e, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return e.Name, nil
}

func (uc *employeeUseCase) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *employeeUseCase) ListNames(ctx context.Context) ([]model.EmployeeName, error) {
	return uc.repo.FindNames(ctx)
}

// UpdateEmployee is allowed for admins and for the employee themselves.
func (uc *employeeUseCase) UpdateEmployee(ctx context.Context, input *dto.UpdateEmployeeInput) (*model.Employee, error) {
	p, _ := auth.FromContext(ctx)
	if p == nil || (p.EmployeeID != input.ID && !p.HasRole(auth.RoleAdmin)) {
		return nil, apperror.Permission("Failed to update employee, permission denied!")
	}

	e, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	e.Name = strings.TrimSpace(input.Name)
	e.Email = strings.TrimSpace(input.Email)
	e.Phone = strings.TrimSpace(input.Phone)
	e.Address = address(input.Address)
	e.UpdatedAt = uc.now()
	if err := model.Validate("Invalid employee", 0, e); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	uc.logger.Info("employee updated", zap.String("id", e.ID), zap.String("employee_id", p.EmployeeID))
	return e, nil
}

func (uc *employeeUseCase) UpdateTitle(ctx context.Context, id, title string) (*model.Employee, error) {
	t, err := parseTitle(title)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if err := uc.repo.UpdateTitle(ctx, id, t, now); err != nil {
		return nil, err
	}
	uc.logger.Info("employee title updated", zap.String("id", id), zap.String("title", string(t)))
	return uc.repo.FindByID(ctx, id)
}

func (uc *employeeUseCase) DeleteEmployee(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("employee deleted", zap.String("id", id), zap.String("employee_id", auth.EmployeeID(ctx)))
	return nil
}

func parseTitle(s string) (model.EmployeeTitle, error) {
	t, ok := model.ParseEmployeeTitle(s)
	if !ok {
		return "", apperror.Validation("Invalid employee title", apperror.FieldError{
			Field:   "title",
			Message: "title must be one of Worker Supervisor Manager",
			Value:   s,
		})
	}
	return t, nil
}

func address(in dto.AddressInput) model.Address {
	return model.Address{
		Street:  strings.TrimSpace(in.Street),
		City:    strings.TrimSpace(in.City),
		Zip:     strings.TrimSpace(in.Zip),
		Country: strings.TrimSpace(in.Country),
	}
}
