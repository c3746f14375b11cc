package employee

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/employee/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

type UseCase interface {
	CreateEmployee(ctx context.Context, input *dto.CreateEmployeeInput) (*model.Employee, error)
	GetEmployee(ctx context.Context, id string) (*model.Employee, error)
	GetName(ctx context.Context, id string) (string, error)
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	ListNames(ctx context.Context) ([]model.EmployeeName, error)
	UpdateEmployee(ctx context.Context, input *dto.UpdateEmployeeInput) (*model.Employee, error)
	UpdateTitle(ctx context.Context, id, title string) (*model.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}
