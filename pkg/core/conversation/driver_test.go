package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wardclerk/interview-scheduler/pkg/core/scheduler"
	"github.com/wardclerk/interview-scheduler/pkg/db"
)

// mockDriverStore implements DriverStore for testing
type mockDriverStore struct {
	ward         *db.Ward
	types        []db.InterviewType
	appointments []db.Appointment
	wardErr      error
	typesErr     error
	apptErr      error
}

func (m *mockDriverStore) GetWard(ctx context.Context, id string) (*db.Ward, error) {
	if m.wardErr != nil {
		return nil, m.wardErr
	}
	return m.ward, nil
}

func (m *mockDriverStore) ListActiveInterviewTypes(ctx context.Context, wardID string) ([]db.InterviewType, error) {
	if m.typesErr != nil {
		return nil, m.typesErr
	}
	return m.types, nil
}

func (m *mockDriverStore) ListWardAppointments(ctx context.Context, wardID string, status db.AppointmentStatus, from time.Time) ([]db.Appointment, error) {
	if m.apptErr != nil {
		return nil, m.apptErr
	}
	return m.appointments, nil
}

// mockResolver implements SlotResolver for testing
type mockResolver struct {
	slots      []scheduler.TimeSlot
	err        error
	lastTypeID string
}

func (m *mockResolver) Resolve(ctx context.Context, wardID, interviewTypeID string, windowStart time.Time, daysAhead int) ([]scheduler.TimeSlot, error) {
	m.lastTypeID = interviewTypeID
	if m.err != nil {
		return nil, m.err
	}
	return m.slots, nil
}

// mockCreator implements AppointmentCreator for testing
type mockCreator struct {
	id      string
	err     error
	lastReq scheduler.CreateRequest
	calls   int
}

func (m *mockCreator) Create(ctx context.Context, req scheduler.CreateRequest) (string, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return "", m.err
	}
	return m.id, nil
}

// mockModel implements ChatModel for testing
type mockModel struct {
	reply      string
	err        error
	lastSystem string
}

func (m *mockModel) Complete(ctx context.Context, system string, messages []Message) (string, error) {
	m.lastSystem = system
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

type driverFixture struct {
	store    *mockDriverStore
	resolver *mockResolver
	creator  *mockCreator
	model    *mockModel
	driver   *Driver
	now      time.Time
}

func newDriverFixture() *driverFixture {
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)

	f := &driverFixture{
		store: &mockDriverStore{
			ward: &db.Ward{ID: "ward-1", Name: "Riverside Ward", Stake: "Mill Creek Stake"},
			types: []db.InterviewType{
				{ID: "type-1", WardID: "ward-1", Name: "Temple Recommend", Active: true},
			},
		},
		resolver: &mockResolver{},
		creator:  &mockCreator{id: "appt-1"},
		model:    &mockModel{reply: "Hello! What's your name?"},
		now:      now,
	}

	start := now.Add(25 * time.Hour)
	f.resolver.slots = []scheduler.TimeSlot{
		{Start: start, End: start.Add(30 * time.Minute), BishopricMemberID: "m1", BishopricMemberName: "John Smith", BishopricPosition: "Bishop"},
		{Start: start.Add(time.Hour), End: start.Add(90 * time.Minute), BishopricMemberID: "m1", BishopricMemberName: "John Smith", BishopricPosition: "Bishop"},
	}

	f.driver = NewDriver(f.store, f.resolver, f.creator, f.model, zap.NewNop(), DriverOptions{
		Now: func() time.Time { return now },
	})
	return f
}

func bookingTranscript() []Message {
	return []Message{
		{Role: RoleUser, Content: "Hi, my name is Emma Wilson"},
		{Role: RoleAssistant, Content: "Nice to meet you, Emma! What's your email?"},
		{Role: RoleUser, Content: "emma@example.com, I need a Temple Recommend interview"},
		{Role: RoleAssistant, Content: "Here are the best available times: ..."},
		{Role: RoleUser, Content: "The first one please"},
	}
}

func TestHandleTurn_PlainReplyHasNoSideEffects(t *testing.T) {
	f := newDriverFixture()

	result := f.driver.HandleTurn(context.Background(), "ward-1", bookingTranscript())

	assert.Equal(t, "Hello! What's your name?", result.Message)
	assert.Empty(t, result.Slots)
	assert.Empty(t, result.AppointmentID)
	assert.Zero(t, f.creator.calls)
}

func TestHandleTurn_SystemPromptCarriesWardAndState(t *testing.T) {
	f := newDriverFixture()

	f.driver.HandleTurn(context.Background(), "ward-1", bookingTranscript())

	assert.Contains(t, f.model.lastSystem, "Riverside Ward in the Mill Creek Stake")
	assert.Contains(t, f.model.lastSystem, "Temple Recommend")
	assert.Contains(t, f.model.lastSystem, "Member email: emma@example.com")
}

func TestHandleTurn_ShowSlotsDirective(t *testing.T) {
	f := newDriverFixture()
	f.model.reply = "Let me check. [SHOW_SLOTS:type-1]"

	result := f.driver.HandleTurn(context.Background(), "ward-1", bookingTranscript())

	assert.Equal(t, "type-1", f.resolver.lastTypeID)
	require.Len(t, result.Slots, 2)
	assert.Contains(t, result.Message, "Let me check.")
	assert.Contains(t, result.Message, "Here are the best available times:")
	assert.Contains(t, result.Message, "1. Tuesday, September 8 at 9:00 AM with John Smith (Bishop)")
	assert.Contains(t, result.Message, "Which time works best for you?")
	assert.NotContains(t, result.Message, "[SHOW_SLOTS")
}

func TestHandleTurn_ShowSlotsWithNoAvailability(t *testing.T) {
	f := newDriverFixture()
	f.model.reply = "[SHOW_SLOTS:type-1]"
	f.resolver.slots = nil

	result := f.driver.HandleTurn(context.Background(), "ward-1", bookingTranscript())

	assert.Contains(t, result.Message, "there are no available time slots")
	assert.Empty(t, result.Slots)
}

func TestHandleTurn_BookingDirective(t *testing.T) {
	f := newDriverFixture()
	f.model.reply = "Wonderful! [CREATE_APPOINTMENT:0]"

	result := f.driver.HandleTurn(context.Background(), "ward-1", bookingTranscript())

	assert.Equal(t, "appt-1", result.AppointmentID)
	assert.Contains(t, result.Message, "Your appointment has been scheduled!")

	require.Equal(t, 1, f.creator.calls)
	req := f.creator.lastReq
	assert.Equal(t, "ward-1", req.WardID)
	assert.Equal(t, "type-1", req.InterviewTypeID)
	assert.Equal(t, "Emma Wilson", req.MemberName)
	assert.Equal(t, "emma@example.com", req.MemberEmail)
	assert.Equal(t, f.resolver.slots[0].Start, req.Slot.Start)
}

func TestHandleTurn_BookingWithoutInterviewTypeDegrades(t *testing.T) {
	f := newDriverFixture()
	f.model.reply = "[CREATE_APPOINTMENT:0]"

	// Transcript never mentions an interview type
	result := f.driver.HandleTurn(context.Background(), "ward-1", []Message{
		{Role: RoleUser, Content: "emma@example.com"},
	})

	assert.Equal(t, ApologeticMessage, result.Message)
	assert.Zero(t, f.creator.calls)
}

func TestHandleTurn_BookingIndexOutOfRangeDegrades(t *testing.T) {
	f := newDriverFixture()
	f.model.reply = "[CREATE_APPOINTMENT:9]"

	result := f.driver.HandleTurn(context.Background(), "ward-1", bookingTranscript())

	assert.Equal(t, ApologeticMessage, result.Message)
	assert.Zero(t, f.creator.calls)
}

func TestHandleTurn_SlotRaceGetsFriendlyMessage(t *testing.T) {
	f := newDriverFixture()
	f.model.reply = "[CREATE_APPOINTMENT:0]"
	f.creator.err = db.ErrSlotTaken

	result := f.driver.HandleTurn(context.Background(), "ward-1", bookingTranscript())

	assert.Equal(t, slotConflictMessage, result.Message)
	assert.Empty(t, result.AppointmentID)
}

func TestHandleTurn_ModelFailureDegrades(t *testing.T) {
	f := newDriverFixture()
	f.model.err = errors.New("model unavailable")

	result := f.driver.HandleTurn(context.Background(), "ward-1", bookingTranscript())
	assert.Equal(t, ApologeticMessage, result.Message)
}

func TestHandleTurn_MissingWardDegrades(t *testing.T) {
	f := newDriverFixture()
	f.store.wardErr = db.ErrNotFound

	result := f.driver.HandleTurn(context.Background(), "ward-1", bookingTranscript())
	assert.Equal(t, ApologeticMessage, result.Message)
}

func TestHandleTurn_ResolverFailureDuringShowSlotsDegrades(t *testing.T) {
	f := newDriverFixture()
	f.model.reply = "[SHOW_SLOTS:type-1]"
	f.resolver.err = errors.New("all calendars down")

	result := f.driver.HandleTurn(context.Background(), "ward-1", bookingTranscript())
	assert.Equal(t, ApologeticMessage, result.Message)
}
