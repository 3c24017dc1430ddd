package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wardclerk/interview-scheduler/pkg/db"
)

// GetWard retrieves a ward by id
func (d *DB) GetWard(ctx context.Context, id string) (*db.Ward, error) {
	var w db.Ward
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, stake
		FROM ward
		WHERE id = $1
	`, id).Scan(&w.ID, &w.Name, &w.Stake)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query ward: %w", err)
	}
	return &w, nil
}
