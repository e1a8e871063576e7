package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/aeropista-dev/ground-ops/backend/internal/domain"
)

const employeeColumns = `
	id, username, password_hash, full_name, email, role, category, skills, certifications,
	station_id, is_active, max_daily_hours, max_weekly_hours, created_at, version
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*domain.Employee, error) {
	e := &domain.Employee{}
	dst := []any{
		&e.ID, &e.Username, &e.PasswordHash, &e.FullName, &e.Email, &e.Role, &e.Category,
		textArray(&e.Skills), textArray(&e.Certifications),
		&e.StationID, &e.IsActive, &e.MaxDailyHours, &e.MaxWeeklyHours, &e.CreatedAt, &e.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *Repository) GetEmployeeByID(ctx context.Context, id int64) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	e, err := scanEmployee(r.dbpool.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "empleado", id)
	}

	return e, nil
}

func (r *Repository) GetEmployeeByUsername(ctx context.Context, username string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE username = $1`

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	return scanEmployee(r.dbpool.QueryRowContext(ctx, query, username))
}

func (r *Repository) ListEmployees(ctx context.Context, filter domain.EmployeeFilter) ([]*domain.Employee, error) {
	conditions := make([]string, 0)
	args := make([]any, 0)

	if filter.StationID != nil {
		args = append(args, *filter.StationID)
		conditions = append(conditions, fmt.Sprintf("station_id = $%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active")
	}

	query := `SELECT ` + employeeColumns + ` FROM employees`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) CreateEmployee(ctx context.Context, e *domain.Employee) error {
	query := `
		INSERT INTO employees (
			username, password_hash, full_name, email, role, category, skills, certifications,
			station_id, max_daily_hours, max_weekly_hours
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, is_active, created_at, version
	`

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	args := []any{
		e.Username, e.PasswordHash, e.FullName, e.Email, e.Role, e.Category, nonNil(e.Skills), nonNil(e.Certifications),
		e.StationID, e.MaxDailyHours, e.MaxWeeklyHours,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&e.ID, &e.IsActive, &e.CreatedAt, &e.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CheckEmployeeUsernameExists(ctx context.Context, username string) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	query := `SELECT EXISTS (SELECT 1 FROM employees WHERE username = $1)`
	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

// nonNil 避免向 NOT NULL 的数组列写入 NULL
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
