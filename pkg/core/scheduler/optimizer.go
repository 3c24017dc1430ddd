package scheduler

import (
	"sort"
	"time"

	"github.com/wardclerk/interview-scheduler/pkg/db"
)

const (
	// maxSoonnessScore is the score a slot starting today (or earlier)
	// receives for how soon it is
	maxSoonnessScore = 30

	// backToBackBonus rewards slots adjacent to an existing appointment
	// held by the same member, reducing dead time between interviews
	backToBackBonus = 20

	// backToBackWindow is how close a slot start must be to an
	// existing appointment's end to count as back-to-back
	backToBackWindow = 5 * time.Minute

	millisPerDay = 24 * 60 * 60 * 1000
)

// Optimize ranks slots by a scoring policy: sooner slots score higher
// (up to maxSoonnessScore, one point lost per whole day out), and slots
// starting within backToBackWindow of the end of an existing SCHEDULED
// appointment for the same member earn backToBackBonus.
//
// The input is first sorted chronologically, then stable-sorted by
// score descending, so equal scores keep ascending start order and the
// output is deterministic. Optimize is pure: it does no I/O and does
// not mutate its inputs. Slots in the past are not filtered here; the
// resolver's window start is the upstream guarantee.
func Optimize(slots []TimeSlot, existing []db.Appointment, now time.Time) []TimeSlot {
	ranked := make([]TimeSlot, len(slots))
	copy(ranked, slots)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Start.Before(ranked[j].Start)
	})

	scores := make([]int, len(ranked))
	for i, slot := range ranked {
		scores[i] = scoreSlot(slot, existing, now)
	}

	// Stable by score desc preserves the chronological order for ties
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[i] > scores[j]
	})

	return ranked
}

func scoreSlot(slot TimeSlot, existing []db.Appointment, now time.Time) int {
	score := soonnessScore(slot.Start, now)

	for _, appt := range existing {
		if appt.BishopricMemberID != slot.BishopricMemberID {
			continue
		}
		gap := appt.EndTime.Sub(slot.Start)
		if gap < 0 {
			gap = -gap
		}
		if gap < backToBackWindow {
			score += backToBackBonus
			break
		}
	}

	return score
}

// soonnessScore awards maxSoonnessScore minus the whole days between
// now and the slot start (floor of the millisecond difference), never
// below zero and never above the cap
func soonnessScore(start, now time.Time) int {
	millis := start.Sub(now).Milliseconds()
	daysFromNow := millis / millisPerDay
	if millis < 0 && millis%millisPerDay != 0 {
		daysFromNow-- // floor, not truncate
	}

	score := maxSoonnessScore - int(daysFromNow)
	if score < 0 {
		return 0
	}
	if score > maxSoonnessScore {
		return maxSoonnessScore
	}
	return score
}
