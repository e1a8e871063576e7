package repository

import (
	"context"

	"github.com/aeropista-dev/ground-ops/backend/internal/domain"
)

func (r *Repository) GetOperationByID(ctx context.Context, id int64) (*domain.Operation, error) {
	query := `
		SELECT flight_number, scheduled_time, type, passenger_count, station_id, status, estimated_minutes, version
		FROM operations WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	op := &domain.Operation{
		ID: id,
	}

	dst := []any{
		&op.FlightNumber, &op.ScheduledTime, &op.Type, &op.PassengerCount, &op.StationID,
		&op.Status, &op.EstimatedMinutes, &op.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, notFound(err, "operación", id)
	}

	return op, nil
}

func (r *Repository) CreateOperation(ctx context.Context, op *domain.Operation) error {
	query := `
		INSERT INTO operations (flight_number, scheduled_time, type, passenger_count, station_id, estimated_minutes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, status, version
	`

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	args := []any{op.FlightNumber, op.ScheduledTime, op.Type, op.PassengerCount, op.StationID, op.EstimatedMinutes}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&op.ID, &op.Status, &op.Version); err != nil {
		return err
	}

	return nil
}
