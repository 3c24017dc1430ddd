package scheduler

import (
	"context"
	"strings"
	"time"

	"github.com/wardclerk/interview-scheduler/pkg/core/model"
	"github.com/wardclerk/interview-scheduler/pkg/db"
)

// mockStore implements ResolveStore and CreateStore for testing
type mockStore struct {
	interviewTypes map[string]*db.InterviewType
	members        map[string][]db.BishopricMember // keyed by interview type id
	membersByID    map[string]*db.BishopricMember
	appointments   map[string][]db.Appointment // keyed by member id

	inserted      []*db.Appointment
	eventIDs      map[string]string
	insertErr     error
	setEventIDErr error
	listApptErr   error
}

func newMockStore() *mockStore {
	return &mockStore{
		interviewTypes: make(map[string]*db.InterviewType),
		members:        make(map[string][]db.BishopricMember),
		membersByID:    make(map[string]*db.BishopricMember),
		appointments:   make(map[string][]db.Appointment),
		eventIDs:       make(map[string]string),
	}
}

func (m *mockStore) GetInterviewType(ctx context.Context, id string) (*db.InterviewType, error) {
	it, ok := m.interviewTypes[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return it, nil
}

func (m *mockStore) GetAuthorizedMembers(ctx context.Context, interviewTypeID string) ([]db.BishopricMember, error) {
	return m.members[interviewTypeID], nil
}

func (m *mockStore) GetBishopricMember(ctx context.Context, id string) (*db.BishopricMember, error) {
	member, ok := m.membersByID[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return member, nil
}

func (m *mockStore) ListMemberAppointments(ctx context.Context, memberID string, status db.AppointmentStatus, from, to time.Time) ([]db.Appointment, error) {
	if m.listApptErr != nil {
		return nil, m.listApptErr
	}
	var out []db.Appointment
	for _, appt := range m.appointments[memberID] {
		if appt.Status != status {
			continue
		}
		if appt.StartTime.Before(from) || !appt.StartTime.Before(to) {
			continue
		}
		out = append(out, appt)
	}
	return out, nil
}

func (m *mockStore) InsertAppointment(ctx context.Context, appt *db.Appointment) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, appt)
	return nil
}

func (m *mockStore) SetAppointmentEventID(ctx context.Context, id, eventID string) error {
	if m.setEventIDErr != nil {
		return m.setEventIDErr
	}
	m.eventIDs[id] = eventID
	return nil
}

// mockGateway implements CalendarGateway for testing
type mockGateway struct {
	events     map[string][]model.CalendarEvent // keyed by account id
	findErr    map[string]error                 // keyed by account id
	primaryErr error
	createErr  error

	created      []model.EventDraft
	createdEvent model.CalendarEvent
}

func newMockGateway() *mockGateway {
	return &mockGateway{
		events:       make(map[string][]model.CalendarEvent),
		findErr:      make(map[string]error),
		createdEvent: model.CalendarEvent{ID: "evt-1"},
	}
}

func (m *mockGateway) PrimaryCalendarID(ctx context.Context, acct model.Account) (string, error) {
	if m.primaryErr != nil {
		return "", m.primaryErr
	}
	return "primary", nil
}

func (m *mockGateway) FindEventsByTitle(ctx context.Context, acct model.Account, calendarID, titleSubstring string, from, to time.Time) ([]model.CalendarEvent, error) {
	if err := m.findErr[acct.ID]; err != nil {
		return nil, err
	}
	var out []model.CalendarEvent
	for _, ev := range m.events[acct.ID] {
		if !strings.Contains(strings.ToLower(ev.Title), strings.ToLower(titleSubstring)) {
			continue
		}
		if ev.Start.DateTime.Before(from) || !ev.Start.DateTime.Before(to) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (m *mockGateway) CreateEvent(ctx context.Context, acct model.Account, calendarID string, draft model.EventDraft) (*model.CalendarEvent, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, draft)
	ev := m.createdEvent
	return &ev, nil
}

// test fixture helpers

func testMember(id, name, code string, provider db.Provider) db.BishopricMember {
	return db.BishopricMember{
		ID:               id,
		WardID:           "ward-1",
		UserID:           "user-" + id,
		Name:             name,
		Position:         "Bishop",
		AvailabilityCode: code,
		Active:           true,
		Connection: &db.CalendarConnection{
			ID:        "conn-" + id,
			UserID:    "user-" + id,
			Provider:  provider,
			AccountID: "acct-" + id,
			Active:    true,
		},
	}
}

func availabilityBlock(title string, start, end time.Time) model.CalendarEvent {
	return model.CalendarEvent{
		ID:    "block-" + title,
		Title: title,
		Start: model.EventTime{DateTime: start, TimeZone: "UTC"},
		End:   model.EventTime{DateTime: end, TimeZone: "UTC"},
	}
}

func blocks(title string, start, end time.Time) []model.CalendarEvent {
	return []model.CalendarEvent{availabilityBlock(title, start, end)}
}
