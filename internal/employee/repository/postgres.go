package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
	"github.com/fekuna/omnipos-warehouse-service/pkg/database/dberr"
	"github.com/fekuna/omnipos-warehouse-service/pkg/database/transactor"
	"github.com/jmoiron/sqlx"
)

const employeeColumns = `id, name, email, phone, title, street, city, zip, country, created_at, updated_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, e *model.Employee) error {
	query := `
		INSERT INTO employees (` + employeeColumns + `)
		VALUES (:id, :name, :email, :phone, :title, :street, :city, :zip, :country, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, transactor.Ext(ctx, r.DB), query, e); err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperror.Conflict(fmt.Sprintf("Employee with email %s already exists", e.Email))
		}
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Employee, error) {
	var e model.Employee
	ext := transactor.Ext(ctx, r.DB)
	err := sqlx.GetContext(ctx, ext, &e, ext.Rebind(`SELECT `+employeeColumns+` FROM employees WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("Employee", id)
		}
		return nil, fmt.Errorf("find employee %s: %w", id, err)
	}
	return &e, nil
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Employee, error) {
	employees := []model.Employee{}
	err := sqlx.SelectContext(ctx, transactor.Ext(ctx, r.DB), &employees,
		`SELECT `+employeeColumns+` FROM employees ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("find employees: %w", err)
	}
	return employees, nil
}

func (r *PGRepository) FindNames(ctx context.Context) ([]model.EmployeeName, error) {
	names := []model.EmployeeName{}
	if err := sqlx.SelectContext(ctx, transactor.Ext(ctx, r.DB), &names, `SELECT id, name FROM employees ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("find employee names: %w", err)
	}
	return names, nil
}

func (r *PGRepository) Update(ctx context.Context, e *model.Employee) error {
	res, err := sqlx.NamedExecContext(ctx, transactor.Ext(ctx, r.DB), `
		UPDATE employees SET
			name = :name,
			email = :email,
			phone = :phone,
			street = :street,
			city = :city,
			zip = :zip,
			country = :country,
			updated_at = :updated_at
		WHERE id = :id`, e)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperror.Conflict(fmt.Sprintf("Employee with email %s already exists", e.Email))
		}
		return fmt.Errorf("update employee %s: %w", e.ID, err)
	}
	return expectRow(res, apperror.NotFound("Employee", e.ID))
}

func (r *PGRepository) UpdateTitle(ctx context.Context, id string, title model.EmployeeTitle, at time.Time) error {
	ext := transactor.Ext(ctx, r.DB)
	res, err := ext.ExecContext(ctx, ext.Rebind(`UPDATE employees SET title = ?, updated_at = ? WHERE id = ?`), string(title), at, id)
	if err != nil {
		return fmt.Errorf("update employee title %s: %w", id, err)
	}
	return expectRow(res, apperror.NotFound("Employee", id))
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	ext := transactor.Ext(ctx, r.DB)
	res, err := ext.ExecContext(ctx, ext.Rebind(`DELETE FROM employees WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete employee %s: %w", id, err)
	}
	return expectRow(res, apperror.NotFound("Employee", id))
}

func expectRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
