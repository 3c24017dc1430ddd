package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/wardclerk/interview-scheduler/pkg/core/model"
)

// TimeSlot is a candidate appointment window derived from an
// availability block. Slots are ephemeral: they are recomputed on every
// request and only become durable state through Creator.Create.
type TimeSlot struct {
	Start               time.Time `json:"start"`
	End                 time.Time `json:"end"`
	BishopricMemberID   string    `json:"bishopricMemberId"`
	BishopricMemberName string    `json:"bishopricMemberName"`
	BishopricPosition   string    `json:"bishopricPosition"`
}

// CalendarGateway is the boundary to a third-party calendar provider.
// It is the sole source of truth for availability blocks and the sole
// sink for booked-event mirroring.
type CalendarGateway interface {
	PrimaryCalendarID(ctx context.Context, acct model.Account) (string, error)
	FindEventsByTitle(ctx context.Context, acct model.Account, calendarID, titleSubstring string, from, to time.Time) ([]model.CalendarEvent, error)
	CreateEvent(ctx context.Context, acct model.Account, calendarID string, draft model.EventDraft) (*model.CalendarEvent, error)
}

// MemberCalendarError wraps a failure while reading one member's
// calendar. It is isolated: the resolver logs it and continues with the
// remaining members.
type MemberCalendarError struct {
	MemberID string
	Err      error
}

func (e *MemberCalendarError) Error() string {
	return fmt.Sprintf("calendar lookup failed for member %s: %v", e.MemberID, e.Err)
}

func (e *MemberCalendarError) Unwrap() error {
	return e.Err
}

// overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
