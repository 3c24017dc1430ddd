package scheduler

import (
	"fmt"
	"strings"
	"time"
)

// DefaultPresentLimit is how many slots Present renders when no limit
// is given
const DefaultPresentLimit = 5

// NoSlotsMessage is returned when there is nothing to offer
const NoSlotsMessage = "Unfortunately, there are no available time slots in the next two weeks. Would you like to:\n" +
	"1. Check availability for a later date\n" +
	"2. Contact the executive secretary directly"

// Present renders up to limit slots as numbered human-readable lines in
// the order given. It never re-sorts - ordering is Optimize's job.
// Times are rendered in loc, the ward's configured timezone.
func Present(slots []TimeSlot, limit int, loc *time.Location) string {
	if limit <= 0 {
		limit = DefaultPresentLimit
	}
	if loc == nil {
		loc = time.UTC
	}
	if len(slots) == 0 {
		return NoSlotsMessage
	}
	if len(slots) > limit {
		slots = slots[:limit]
	}

	lines := make([]string, len(slots))
	for i, slot := range slots {
		start := slot.Start.In(loc)
		lines[i] = fmt.Sprintf("%d. %s at %s with %s (%s)",
			i+1,
			start.Format("Monday, January 2"),
			start.Format("3:04 PM"),
			slot.BishopricMemberName,
			slot.BishopricPosition,
		)
	}

	return strings.Join(lines, "\n")
}
