package repository

import (
	"context"

	"github.com/aeropista-dev/ground-ops/backend/internal/domain"
)

func (r *Repository) GetStationByID(ctx context.Context, id int64) (*domain.Station, error) {
	query := `
		SELECT code, name, minimum_staff, maximum_staff, required_certifications, required_functions,
			enforce_certifications, is_active, version
		FROM stations WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	s := &domain.Station{
		ID: id,
	}

	dst := []any{
		&s.Code, &s.Name, &s.MinimumStaff, &s.MaximumStaff,
		textArray(&s.RequiredCertifications), textArray(&s.RequiredFunctions),
		&s.EnforceCertifications, &s.IsActive, &s.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, notFound(err, "estación", id)
	}

	return s, nil
}

func (r *Repository) CreateStation(ctx context.Context, s *domain.Station) error {
	query := `
		INSERT INTO stations (code, name, minimum_staff, maximum_staff, required_certifications,
			required_functions, enforce_certifications)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, is_active, version
	`

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	args := []any{
		s.Code, s.Name, s.MinimumStaff, s.MaximumStaff,
		nonNil(s.RequiredCertifications), nonNil(s.RequiredFunctions), s.EnforceCertifications,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.IsActive, &s.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) ListStations(ctx context.Context) ([]*domain.Station, error) {
	query := `
		SELECT id, code, name, minimum_staff, maximum_staff, required_certifications, required_functions,
			enforce_certifications, is_active, version
		FROM stations
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stations := []*domain.Station{}
	for rows.Next() {
		s := &domain.Station{}
		dst := []any{
			&s.ID, &s.Code, &s.Name, &s.MinimumStaff, &s.MaximumStaff,
			textArray(&s.RequiredCertifications), textArray(&s.RequiredFunctions),
			&s.EnforceCertifications, &s.IsActive, &s.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stations, nil
}
