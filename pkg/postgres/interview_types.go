package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wardclerk/interview-scheduler/pkg/db"
)

// GetInterviewType retrieves an interview type by id
func (d *DB) GetInterviewType(ctx context.Context, id string) (*db.InterviewType, error) {
	var t db.InterviewType
	err := d.pool.QueryRow(ctx, `
		SELECT id, ward_id, name, description, duration_minutes, active
		FROM interview_type
		WHERE id = $1
	`, id).Scan(&t.ID, &t.WardID, &t.Name, &t.Description, &t.DurationMinutes, &t.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query interview type: %w", err)
	}
	return &t, nil
}

// ListActiveInterviewTypes retrieves all active interview types for a ward
func (d *DB) ListActiveInterviewTypes(ctx context.Context, wardID string) ([]db.InterviewType, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, ward_id, name, description, duration_minutes, active
		FROM interview_type
		WHERE ward_id = $1 AND active
		ORDER BY name
	`, wardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query interview types: %w", err)
	}
	defer rows.Close()

	var types []db.InterviewType
	for rows.Next() {
		var t db.InterviewType
		if err := rows.Scan(&t.ID, &t.WardID, &t.Name, &t.Description, &t.DurationMinutes, &t.Active); err != nil {
			return nil, fmt.Errorf("failed to scan interview type: %w", err)
		}
		types = append(types, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interview types: %w", err)
	}

	return types, nil
}
