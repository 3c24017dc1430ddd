package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/wardclerk/interview-scheduler/pkg/core/model"
	"github.com/wardclerk/interview-scheduler/pkg/db"
)

// DefaultMemberTimeout bounds how long a single member's calendar
// lookup may take before the member is skipped
const DefaultMemberTimeout = 10 * time.Second

// ResolveStore defines the database operations needed to resolve slots
type ResolveStore interface {
	GetInterviewType(ctx context.Context, id string) (*db.InterviewType, error)
	GetAuthorizedMembers(ctx context.Context, interviewTypeID string) ([]db.BishopricMember, error)
	ListMemberAppointments(ctx context.Context, memberID string, status db.AppointmentStatus, from, to time.Time) ([]db.Appointment, error)
}

// Resolver turns availability blocks and existing appointments into
// candidate time slots for an interview type
type Resolver struct {
	store         ResolveStore
	gateways      map[db.Provider]CalendarGateway
	logger        *zap.Logger
	location      *time.Location
	blackouts     []*rrule.RRule
	memberTimeout time.Duration
}

// ResolverOptions configures a Resolver
type ResolverOptions struct {
	// Location is the ward's configured timezone, used for blackout
	// date comparison. Defaults to UTC.
	Location *time.Location

	// Blackouts are recurrence rules whose occurrence dates are closed
	// for interviews
	Blackouts []*rrule.RRule

	// MemberTimeout bounds each member's calendar lookup.
	// Defaults to DefaultMemberTimeout.
	MemberTimeout time.Duration
}

// NewResolver creates a Resolver over the given store and per-provider
// calendar gateways
func NewResolver(store ResolveStore, gateways map[db.Provider]CalendarGateway, logger *zap.Logger, opts ResolverOptions) *Resolver {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.MemberTimeout <= 0 {
		opts.MemberTimeout = DefaultMemberTimeout
	}
	return &Resolver{
		store:         store,
		gateways:      gateways,
		logger:        logger,
		location:      opts.Location,
		blackouts:     opts.Blackouts,
		memberTimeout: opts.MemberTimeout,
	}
}

// Resolve computes every bookable slot for the interview type within
// [windowStart, windowStart+daysAhead).
//
// Each authorized member is resolved independently and concurrently; a
// member whose calendar lookup fails or who has no connected calendar
// is skipped so partial results from the other members still come back.
// Output order is not defined - ranking belongs to Optimize.
func (r *Resolver) Resolve(ctx context.Context, wardID, interviewTypeID string, windowStart time.Time, daysAhead int) ([]TimeSlot, error) {
	if daysAhead <= 0 {
		return nil, db.NewValidationError("daysAhead must be a positive integer")
	}

	interviewType, err := r.store.GetInterviewType(ctx, interviewTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interview type %s: %w", interviewTypeID, err)
	}
	if interviewType.WardID != wardID {
		return nil, fmt.Errorf("interview type %s does not belong to ward %s: %w", interviewTypeID, wardID, db.ErrNotFound)
	}
	if !interviewType.Active {
		return nil, db.NewValidationError(fmt.Sprintf("interview type %s is not active", interviewTypeID))
	}
	if interviewType.DurationMinutes <= 0 {
		return nil, db.NewValidationError(fmt.Sprintf("interview type %s has no duration", interviewTypeID))
	}

	members, err := r.store.GetAuthorizedMembers(ctx, interviewTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch authorized members: %w", err)
	}

	windowEnd := windowStart.Add(time.Duration(daysAhead) * 24 * time.Hour)
	closedDates := r.expandBlackouts(windowStart, windowEnd)
	duration := time.Duration(interviewType.DurationMinutes) * time.Minute

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []TimeSlot
	)

	for _, member := range members {
		if !member.Active {
			continue
		}
		if member.Connection == nil || !member.Connection.Active {
			r.logger.Debug("Skipping member without calendar connection",
				zap.String("member_id", member.ID))
			continue
		}

		wg.Add(1)
		go func(member db.BishopricMember) {
			defer wg.Done()

			memberCtx, cancel := context.WithTimeout(ctx, r.memberTimeout)
			defer cancel()

			slots, err := r.resolveMember(memberCtx, member, duration, windowStart, windowEnd, closedDates)
			if err != nil {
				// Isolated failure: degrade coverage, never the request
				r.logger.Warn("Skipping member after calendar failure",
					zap.String("member_id", member.ID),
					zap.Error(&MemberCalendarError{MemberID: member.ID, Err: err}))
				return
			}

			mu.Lock()
			results = append(results, slots...)
			mu.Unlock()
		}(member)
	}

	wg.Wait()

	r.logger.Debug("Resolved slots",
		zap.String("interview_type_id", interviewTypeID),
		zap.Int("count", len(results)))

	return results, nil
}

// resolveMember fetches one member's availability blocks and existing
// appointments, then tiles the blocks into bookable slots
func (r *Resolver) resolveMember(ctx context.Context, member db.BishopricMember, duration time.Duration, windowStart, windowEnd time.Time, closedDates map[string]bool) ([]TimeSlot, error) {
	gateway, ok := r.gateways[member.Connection.Provider]
	if !ok {
		return nil, fmt.Errorf("no gateway for provider %q", member.Connection.Provider)
	}

	acct := model.Account{
		ID:          member.Connection.AccountID,
		AccessToken: member.Connection.AccessToken,
	}

	calendarID, err := gateway.PrimaryCalendarID(ctx, acct)
	if err != nil {
		return nil, fmt.Errorf("failed to look up primary calendar: %w", err)
	}

	blocks, err := gateway.FindEventsByTitle(ctx, acct, calendarID, member.AvailabilityCode, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability blocks: %w", err)
	}

	appointments, err := r.store.ListMemberAppointments(ctx, member.ID, db.StatusScheduled, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch existing appointments: %w", err)
	}

	var slots []TimeSlot
	for _, block := range blocks {
		slots = append(slots, r.tileBlock(member, block, duration, appointments, closedDates)...)
	}
	return slots, nil
}

// tileBlock splits one availability block into consecutive slots of
// exactly the interview duration, starting at the block start. The
// trailing remainder shorter than the duration is discarded, as is any
// slot overlapping a SCHEDULED appointment or falling on a blackout
// date.
func (r *Resolver) tileBlock(member db.BishopricMember, block model.CalendarEvent, duration time.Duration, appointments []db.Appointment, closedDates map[string]bool) []TimeSlot {
	var slots []TimeSlot

	blockStart := block.Start.DateTime
	blockEnd := block.End.DateTime

	for slotStart := blockStart; slotStart.Before(blockEnd); {
		slotEnd := slotStart.Add(duration)
		if slotEnd.After(blockEnd) {
			break
		}

		if r.slotBookable(member.ID, slotStart, slotEnd, appointments, closedDates) {
			slots = append(slots, TimeSlot{
				Start:               slotStart,
				End:                 slotEnd,
				BishopricMemberID:   member.ID,
				BishopricMemberName: member.Name,
				BishopricPosition:   member.Position,
			})
		}

		slotStart = slotEnd
	}

	return slots
}

func (r *Resolver) slotBookable(memberID string, start, end time.Time, appointments []db.Appointment, closedDates map[string]bool) bool {
	if closedDates[start.In(r.location).Format("2006-01-02")] {
		return false
	}
	for _, appt := range appointments {
		if appt.BishopricMemberID != memberID {
			continue
		}
		if overlaps(start, end, appt.StartTime, appt.EndTime) {
			return false
		}
	}
	return true
}

// expandBlackouts materializes blackout rule occurrences inside the
// window into a set of closed dates in the ward's timezone
func (r *Resolver) expandBlackouts(from, to time.Time) map[string]bool {
	if len(r.blackouts) == 0 {
		return nil
	}
	closed := make(map[string]bool)
	for _, rule := range r.blackouts {
		for _, occurrence := range rule.Between(from.Add(-24*time.Hour), to, true) {
			closed[occurrence.In(r.location).Format("2006-01-02")] = true
		}
	}
	return closed
}

// IsNotFound reports whether err indicates a missing interview type
func IsNotFound(err error) bool {
	return errors.Is(err, db.ErrNotFound)
}
