package employee

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, e *model.Employee) error
	FindByID(ctx context.Context, id string) (*model.Employee, error)
	FindAll(ctx context.Context) ([]model.Employee, error)
	FindNames(ctx context.Context) ([]model.EmployeeName, error)
	Update(ctx context.Context, e *model.Employee) error
	UpdateTitle(ctx context.Context, id string, title model.EmployeeTitle, at time.Time) error
	Delete(ctx context.Context, id string) error
}
