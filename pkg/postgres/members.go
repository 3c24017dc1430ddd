package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wardclerk/interview-scheduler/pkg/db"
)

const memberColumns = `
	bm.id, bm.ward_id, bm.user_id, bm.name, bm.position, bm.availability_code, bm.active,
	cc.id, cc.user_id, cc.provider, cc.account_id, cc.access_token, cc.last_synced_at, cc.active
`

// GetAuthorizedMembers retrieves the active bishopric members authorized
// to conduct a given interview type, with their calendar connections.
func (d *DB) GetAuthorizedMembers(ctx context.Context, interviewTypeID string) ([]db.BishopricMember, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+memberColumns+`
		FROM bishopric_member bm
		JOIN interview_type_member itm ON itm.bishopric_member_id = bm.id
		LEFT JOIN calendar_connection cc ON cc.user_id = bm.user_id AND cc.active
		WHERE itm.interview_type_id = $1 AND bm.active
		ORDER BY bm.name
	`, interviewTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query authorized members: %w", err)
	}
	defer rows.Close()

	var members []db.BishopricMember
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating authorized members: %w", err)
	}

	return members, nil
}

// GetBishopricMember retrieves a bishopric member by id, with their
// calendar connection if one is active.
func (d *DB) GetBishopricMember(ctx context.Context, id string) (*db.BishopricMember, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+memberColumns+`
		FROM bishopric_member bm
		LEFT JOIN calendar_connection cc ON cc.user_id = bm.user_id AND cc.active
		WHERE bm.id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query bishopric member: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error reading bishopric member: %w", err)
		}
		return nil, db.ErrNotFound
	}
	return scanMember(rows)
}

func scanMember(row pgx.Row) (*db.BishopricMember, error) {
	var m db.BishopricMember
	var connID, connUserID, connAccountID, connToken *string
	var connProvider *db.Provider
	var connLastSynced *time.Time
	var connActive *bool

	err := row.Scan(
		&m.ID, &m.WardID, &m.UserID, &m.Name, &m.Position, &m.AvailabilityCode, &m.Active,
		&connID, &connUserID, &connProvider, &connAccountID, &connToken, &connLastSynced, &connActive,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan bishopric member: %w", err)
	}

	if connID != nil {
		m.Connection = &db.CalendarConnection{
			ID:          *connID,
			UserID:      *connUserID,
			Provider:    *connProvider,
			AccountID:   *connAccountID,
			AccessToken: *connToken,
			Active:      *connActive,
		}
		m.Connection.LastSyncedAt = connLastSynced
	}

	return &m, nil
}
