package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wardclerk/interview-scheduler/pkg/db"
)

const uniqueViolationCode = "23505"

const appointmentColumns = `
	id, ward_id, interview_type_id, bishopric_member_id,
	member_name, member_email, member_phone,
	start_time, end_time, status, calendar_event_id, created_at
`

// GetAppointment retrieves an appointment by id
func (d *DB) GetAppointment(ctx context.Context, id string) (*db.Appointment, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointment
		WHERE id = $1
	`, id)

	appt, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query appointment: %w", err)
	}
	return appt, nil
}

// ListMemberAppointments retrieves a bishopric member's appointments with
// the given status whose start time falls within [from, to).
func (d *DB) ListMemberAppointments(ctx context.Context, memberID string, status db.AppointmentStatus, from, to time.Time) ([]db.Appointment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointment
		WHERE bishopric_member_id = $1 AND status = $2
		  AND start_time >= $3 AND start_time < $4
		ORDER BY start_time
	`, memberID, status, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query member appointments: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

// ListWardAppointments retrieves a ward's appointments with the given
// status starting at or after from.
func (d *DB) ListWardAppointments(ctx context.Context, wardID string, status db.AppointmentStatus, from time.Time) ([]db.Appointment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointment
		WHERE ward_id = $1 AND status = $2 AND start_time >= $3
		ORDER BY start_time
	`, wardID, status, from.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query ward appointments: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

// InsertAppointment inserts a new appointment. A unique index on
// (bishopric_member_id, start_time) over SCHEDULED rows guards against
// double booking; a violation surfaces as db.ErrSlotTaken.
func (d *DB) InsertAppointment(ctx context.Context, appt *db.Appointment) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO appointment (
			id, ward_id, interview_type_id, bishopric_member_id,
			member_name, member_email, member_phone,
			start_time, end_time, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, appt.ID, appt.WardID, appt.InterviewTypeID, appt.BishopricMemberID,
		appt.MemberName, appt.MemberEmail, appt.MemberPhone,
		appt.StartTime.UTC(), appt.EndTime.UTC(), appt.Status)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return db.ErrSlotTaken
	}
	if err != nil {
		return fmt.Errorf("failed to insert appointment: %w", err)
	}
	return nil
}

// SetAppointmentEventID records the mirrored calendar event id
func (d *DB) SetAppointmentEventID(ctx context.Context, id, eventID string) error {
	_, err := d.pool.Exec(ctx, `
		UPDATE appointment SET calendar_event_id = $2 WHERE id = $1
	`, id, eventID)
	if err != nil {
		return fmt.Errorf("failed to set appointment event id: %w", err)
	}
	return nil
}

// CancelAppointment marks an appointment as cancelled, freeing its slot
func (d *DB) CancelAppointment(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE appointment SET status = $2 WHERE id = $1 AND status = $3
	`, id, db.StatusCancelled, db.StatusScheduled)
	if err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func scanAppointment(row pgx.Row) (*db.Appointment, error) {
	var a db.Appointment
	var eventID *string
	err := row.Scan(
		&a.ID, &a.WardID, &a.InterviewTypeID, &a.BishopricMemberID,
		&a.MemberName, &a.MemberEmail, &a.MemberPhone,
		&a.StartTime, &a.EndTime, &a.Status, &eventID, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if eventID != nil {
		a.CalendarEventID = *eventID
	}
	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]db.Appointment, error) {
	var appointments []db.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, *appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointments: %w", err)
	}

	return appointments, nil
}
