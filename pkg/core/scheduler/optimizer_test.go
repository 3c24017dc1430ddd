package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardclerk/interview-scheduler/pkg/db"
)

func slotAt(memberID string, start time.Time) TimeSlot {
	return TimeSlot{
		Start:             start,
		End:               start.Add(30 * time.Minute),
		BishopricMemberID: memberID,
	}
}

func TestOptimize_SoonerSlotsRankHigher(t *testing.T) {
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)

	later := slotAt("m1", now.Add(5*24*time.Hour))
	sooner := slotAt("m1", now.Add(24*time.Hour))

	ranked := Optimize([]TimeSlot{later, sooner}, nil, now)
	require.Len(t, ranked, 2)
	assert.Equal(t, sooner.Start, ranked[0].Start)
	assert.Equal(t, later.Start, ranked[1].Start)
}

func TestOptimize_BackToBackBonusIsExactlyTwenty(t *testing.T) {
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	apptEnd := now.Add(26 * time.Hour)

	existing := []db.Appointment{{
		BishopricMemberID: "m1",
		Status:            db.StatusScheduled,
		StartTime:         apptEnd.Add(-30 * time.Minute),
		EndTime:           apptEnd,
	}}

	adjacent := slotAt("m1", apptEnd.Add(2*time.Minute))
	loose := slotAt("m1", apptEnd.Add(3*time.Hour))

	assert.Equal(t, scoreSlot(loose, existing, now)+backToBackBonus, scoreSlot(adjacent, existing, now),
		"adjacent slot must score exactly the bonus higher than a same-day slot with no adjacency")
}

func TestOptimize_BonusRequiresSameMember(t *testing.T) {
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	apptEnd := now.Add(26 * time.Hour)

	existing := []db.Appointment{{
		BishopricMemberID: "m2",
		StartTime:         apptEnd.Add(-30 * time.Minute),
		EndTime:           apptEnd,
	}}

	slot := slotAt("m1", apptEnd)
	assert.Equal(t, scoreSlot(slot, nil, now), scoreSlot(slot, existing, now),
		"another member's appointment must not grant the bonus")
}

func TestOptimize_BackToBackOutranksSlightlySooner(t *testing.T) {
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	apptEnd := now.Add(3*24*time.Hour + 2*time.Hour)

	existing := []db.Appointment{{
		BishopricMemberID: "m1",
		StartTime:         apptEnd.Add(-30 * time.Minute),
		EndTime:           apptEnd,
	}}

	sooner := slotAt("m1", now.Add(2*24*time.Hour))
	adjacent := slotAt("m1", apptEnd)

	ranked := Optimize([]TimeSlot{sooner, adjacent}, existing, now)
	require.Len(t, ranked, 2)
	assert.Equal(t, adjacent.Start, ranked[0].Start, "a one-day soonness edge loses to the adjacency bonus")
}

func TestOptimize_OutputIsPermutationOfInput(t *testing.T) {
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)

	input := []TimeSlot{
		slotAt("m1", now.Add(48*time.Hour)),
		slotAt("m2", now.Add(2*time.Hour)),
		slotAt("m1", now.Add(24*time.Hour)),
		slotAt("m2", now.Add(72*time.Hour)),
	}

	ranked := Optimize(input, nil, now)
	assert.ElementsMatch(t, input, ranked)
	// input untouched
	assert.Equal(t, now.Add(48*time.Hour), input[0].Start)
}

func TestOptimize_EqualScoresKeepChronologicalOrder(t *testing.T) {
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)

	// Same day, same score: chronological order must survive the
	// score sort regardless of input order
	a := slotAt("m1", now.Add(2*time.Hour))
	b := slotAt("m2", now.Add(4*time.Hour))
	c := slotAt("m1", now.Add(6*time.Hour))

	ranked := Optimize([]TimeSlot{c, a, b}, nil, now)
	require.Len(t, ranked, 3)
	assert.Equal(t, a.Start, ranked[0].Start)
	assert.Equal(t, b.Start, ranked[1].Start)
	assert.Equal(t, c.Start, ranked[2].Start)
}

func TestOptimize_DeterministicAcrossRepeatedCalls(t *testing.T) {
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)

	input := []TimeSlot{
		slotAt("m2", now.Add(30*time.Hour)),
		slotAt("m1", now.Add(2*time.Hour)),
		slotAt("m3", now.Add(6*time.Hour)),
		slotAt("m1", now.Add(54*time.Hour)),
	}

	first := Optimize(input, nil, now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Optimize(input, nil, now))
	}
}

func TestSoonnessScore(t *testing.T) {
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start time.Time
		want  int
	}{
		{"same moment", now, 30},
		{"later today", now.Add(10 * time.Hour), 30},
		{"one day out", now.Add(25 * time.Hour), 29},
		{"thirty days out", now.Add(30 * 24 * time.Hour), 0},
		{"far future floors at zero", now.Add(90 * 24 * time.Hour), 0},
		{"past slot capped at thirty", now.Add(-36 * time.Hour), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, soonnessScore(tt.start, now))
		})
	}
}
