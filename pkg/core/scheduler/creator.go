package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wardclerk/interview-scheduler/pkg/core/model"
	"github.com/wardclerk/interview-scheduler/pkg/db"
)

// CreateStore defines the database operations needed to book a slot
type CreateStore interface {
	GetInterviewType(ctx context.Context, id string) (*db.InterviewType, error)
	GetBishopricMember(ctx context.Context, id string) (*db.BishopricMember, error)
	InsertAppointment(ctx context.Context, appt *db.Appointment) error
	SetAppointmentEventID(ctx context.Context, id, eventID string) error
}

// CreateRequest carries everything needed to book a slot
type CreateRequest struct {
	WardID          string
	InterviewTypeID string
	MemberName      string
	MemberEmail     string
	MemberPhone     string
	Slot            TimeSlot
}

// Creator books appointments: it persists the appointment row and then
// best-effort mirrors it into the bishopric member's calendar
type Creator struct {
	store    CreateStore
	gateways map[db.Provider]CalendarGateway
	logger   *zap.Logger
	location *time.Location
}

// NewCreator creates a Creator over the given store and per-provider
// calendar gateways. loc is the ward's configured timezone, applied to
// mirrored events.
func NewCreator(store CreateStore, gateways map[db.Provider]CalendarGateway, logger *zap.Logger, loc *time.Location) *Creator {
	if loc == nil {
		loc = time.UTC
	}
	return &Creator{
		store:    store,
		gateways: gateways,
		logger:   logger,
		location: loc,
	}
}

// Create validates the request, inserts a SCHEDULED appointment for the
// chosen slot and returns the new appointment id.
//
// The end time is taken from the caller-supplied slot - callers must
// supply a consistent start/end pair. A colliding concurrent booking
// surfaces as db.ErrSlotTaken from the insert's uniqueness constraint.
// Calendar mirroring runs after the insert inside its own failure
// boundary: a mirroring error is logged and swallowed, the appointment
// stands either way.
func (c *Creator) Create(ctx context.Context, req CreateRequest) (string, error) {
	if req.InterviewTypeID == "" || req.MemberName == "" || req.MemberEmail == "" {
		return "", db.NewValidationError("interview type, member name and member email are required")
	}

	interviewType, err := c.store.GetInterviewType(ctx, req.InterviewTypeID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch interview type %s: %w", req.InterviewTypeID, err)
	}

	appt := &db.Appointment{
		ID:                uuid.NewString(),
		WardID:            req.WardID,
		InterviewTypeID:   req.InterviewTypeID,
		BishopricMemberID: req.Slot.BishopricMemberID,
		MemberName:        req.MemberName,
		MemberEmail:       req.MemberEmail,
		MemberPhone:       req.MemberPhone,
		StartTime:         req.Slot.Start,
		EndTime:           req.Slot.End,
		Status:            db.StatusScheduled,
	}

	if err := c.store.InsertAppointment(ctx, appt); err != nil {
		return "", fmt.Errorf("failed to insert appointment: %w", err)
	}

	c.logger.Info("Appointment booked",
		zap.String("appointment_id", appt.ID),
		zap.String("member_id", appt.BishopricMemberID),
		zap.Time("start", appt.StartTime))

	c.mirrorToCalendar(ctx, appt, interviewType, req)

	return appt.ID, nil
}

// mirrorToCalendar creates the booked event on the member's primary
// calendar. Best-effort: every failure is logged and swallowed.
func (c *Creator) mirrorToCalendar(ctx context.Context, appt *db.Appointment, interviewType *db.InterviewType, req CreateRequest) {
	member, err := c.store.GetBishopricMember(ctx, appt.BishopricMemberID)
	if err != nil {
		c.logger.Warn("Calendar mirroring skipped: member lookup failed",
			zap.String("appointment_id", appt.ID), zap.Error(err))
		return
	}
	if member.Connection == nil || !member.Connection.Active {
		c.logger.Debug("Calendar mirroring skipped: no calendar connection",
			zap.String("appointment_id", appt.ID))
		return
	}
	gateway, ok := c.gateways[member.Connection.Provider]
	if !ok {
		c.logger.Warn("Calendar mirroring skipped: no gateway for provider",
			zap.String("appointment_id", appt.ID),
			zap.String("provider", string(member.Connection.Provider)))
		return
	}

	acct := model.Account{
		ID:          member.Connection.AccountID,
		AccessToken: member.Connection.AccessToken,
	}

	calendarID, err := gateway.PrimaryCalendarID(ctx, acct)
	if err != nil {
		c.logger.Warn("Calendar mirroring failed: primary calendar lookup",
			zap.String("appointment_id", appt.ID), zap.Error(err))
		return
	}

	description := fmt.Sprintf("Interview Type: %s\nMember: %s\nEmail: %s",
		interviewType.Name, req.MemberName, req.MemberEmail)
	if req.MemberPhone != "" {
		description += fmt.Sprintf("\nPhone: %s", req.MemberPhone)
	}

	event, err := gateway.CreateEvent(ctx, acct, calendarID, model.EventDraft{
		Title:       fmt.Sprintf("Interview: %s", req.MemberName),
		Description: description,
		Start:       model.EventTime{DateTime: appt.StartTime, TimeZone: c.location.String()},
		End:         model.EventTime{DateTime: appt.EndTime, TimeZone: c.location.String()},
		Busy:        true,
	})
	if err != nil {
		c.logger.Warn("Calendar mirroring failed: event creation",
			zap.String("appointment_id", appt.ID), zap.Error(err))
		return
	}

	if err := c.store.SetAppointmentEventID(ctx, appt.ID, event.ID); err != nil {
		c.logger.Warn("Calendar mirroring succeeded but event id could not be stored",
			zap.String("appointment_id", appt.ID),
			zap.String("event_id", event.ID),
			zap.Error(err))
		return
	}

	c.logger.Debug("Appointment mirrored to calendar",
		zap.String("appointment_id", appt.ID),
		zap.String("event_id", event.ID))
}
