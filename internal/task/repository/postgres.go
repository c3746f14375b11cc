package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/task/dto"
	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
	"github.com/fekuna/omnipos-warehouse-service/pkg/database/transactor"
	"github.com/jmoiron/sqlx"
)

const taskColumns = `id, name, description, assignee, level, status, assigned_employees, started_at, completed_at, created_at, updated_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, t *model.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES (:id, :name, :description, :assignee, :level, :status, :assigned_employees, :started_at, :completed_at, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, transactor.Ext(ctx, r.DB), query, t); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var t model.Task
	e := transactor.Ext(ctx, r.DB)
	err := sqlx.GetContext(ctx, e, &t, e.Rebind(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("Task", id)
		}
		return nil, fmt.Errorf("find task %s: %w", id, err)
	}
	return &t, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.TaskFilters) ([]model.Task, error) {
	conditions := []string{}
	args := map[string]any{}

	if f != nil && f.Assignee != "" {
		conditions = append(conditions, "assignee = :assignee")
		args["assignee"] = f.Assignee
	}
	if f != nil && f.Employee != "" {
		// Narrow on the stored JSON text, then match exactly below.
		quoted, err := json.Marshal(f.Employee)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, "assigned_employees LIKE :employee")
		args["employee"] = "%" + string(quoted) + "%"
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	named, params, err := sqlx.Named(query, args)
	if err != nil {
		return nil, fmt.Errorf("bind task filters: %w", err)
	}
	e := transactor.Ext(ctx, r.DB)
	tasks := []model.Task{}
	if err := sqlx.SelectContext(ctx, e, &tasks, e.Rebind(named), params...); err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}

	if f != nil && f.Employee != "" {
		matched := tasks[:0]
		for _, t := range tasks {
			if t.AssignedEmployees.Contains(f.Employee) {
				matched = append(matched, t)
			}
		}
		tasks = matched
	}
	return tasks, nil
}

func (r *PGRepository) Update(ctx context.Context, t *model.Task) error {
	res, err := sqlx.NamedExecContext(ctx, transactor.Ext(ctx, r.DB), `
		UPDATE tasks SET
			name = :name,
			description = :description,
			level = :level,
			status = :status,
			assigned_employees = :assigned_employees,
			started_at = :started_at,
			completed_at = :completed_at,
			updated_at = :updated_at
		WHERE id = :id`, t)
	if err != nil {
		return fmt.Errorf("update task %s: %w", t.ID, err)
	}
	return expectRow(res, apperror.NotFound("Task", t.ID))
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	e := transactor.Ext(ctx, r.DB)
	res, err := e.ExecContext(ctx, e.Rebind(`DELETE FROM tasks WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return expectRow(res, apperror.NotFound("Task", id))
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
