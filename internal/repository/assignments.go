package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aeropista-dev/ground-ops/backend/internal/domain"
)

const assignmentColumns = `
	id, employee_id, operation_id, function, start_time, end_time, cost_rate, status, created_at, version
`

func scanAssignment(row rowScanner) (*domain.Assignment, error) {
	a := &domain.Assignment{}
	dst := []any{
		&a.ID, &a.EmployeeID, &a.OperationID, &a.Function, &a.StartTime, &a.EndTime,
		&a.CostRate, &a.Status, &a.CreatedAt, &a.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Repository) GetAssignmentByID(ctx context.Context, id int64) (*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	a, err := scanAssignment(r.dbpool.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "asignación", id)
	}

	return a, nil
}

func (r *Repository) ListAssignments(ctx context.Context, filter domain.AssignmentFilter) ([]*domain.Assignment, error) {
	conditions := make([]string, 0)
	args := make([]any, 0)

	if len(filter.EmployeeIDs) > 0 {
		args = append(args, filter.EmployeeIDs)
		conditions = append(conditions, fmt.Sprintf("employee_id = ANY($%d)", len(args)))
	}
	if filter.OperationID != nil {
		args = append(args, *filter.OperationID)
		conditions = append(conditions, fmt.Sprintf("operation_id = $%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if filter.EndsAfter != nil {
		args = append(args, *filter.EndsAfter)
		conditions = append(conditions, fmt.Sprintf("end_time > $%d", len(args)))
	}

	query := `SELECT ` + assignmentColumns + ` FROM assignments`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_time, id"

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]*domain.Assignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

// CreateAssignment 是分配写入的唯一入口。同一员工的写入在事务内串行，
// 与已有分配重叠时返回 domain.ErrConflict
func (r *Repository) CreateAssignment(ctx context.Context, a *domain.Assignment) error {
	if a.Status == "" {
		a.Status = domain.AssignmentScheduled
	}

	attempts := max(r.cfg.Database.SerializationRetry, 1)

	var err error
	for range attempts {
		err = r.insertAssignment(ctx, a)
		if !isRetryable(err) {
			break
		}
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrConflict):
		return err
	case isOverlapViolation(err), isRetryable(err):
		return fmt.Errorf("crear asignación: %w", domain.NewConflictError(
			fmt.Sprintf("el empleado %d ya tiene una asignación en ese horario", a.EmployeeID),
		))
	}
	return err
}

func (r *Repository) insertAssignment(ctx context.Context, a *domain.Assignment) error {
	ctx, cancel := context.WithTimeout(ctx, r.transactionTimeout())
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 锁在事务结束时自动释放
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, a.EmployeeID); err != nil {
		return err
	}

	query := `
		SELECT id FROM assignments
		WHERE employee_id = $1 AND status <> $2 AND start_time < $4 AND end_time > $3
		ORDER BY id
		LIMIT 1
	`
	var existingID int64
	err = tx.QueryRowContext(ctx, query, a.EmployeeID, domain.AssignmentCancelled, a.StartTime, a.EndTime).Scan(&existingID)
	switch {
	case err == nil:
		return domain.NewConflictError(fmt.Sprintf("el empleado %d ya tiene la asignación #%d en ese horario", a.EmployeeID, existingID))
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	query = `
		INSERT INTO assignments (employee_id, operation_id, function, start_time, end_time, cost_rate, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version
	`
	args := []any{a.EmployeeID, a.OperationID, a.Function, a.StartTime, a.EndTime, a.CostRate, a.Status}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.Version); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// UpdateAssignmentStatus 使用 version 做乐观锁，版本不一致时返回 sql.ErrNoRows
func (r *Repository) UpdateAssignmentStatus(ctx context.Context, a *domain.Assignment) error {
	query := `
		UPDATE assignments
		SET status = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, a.Status, a.ID, a.Version).Scan(&a.Version); err != nil {
		return err
	}

	return nil
}
