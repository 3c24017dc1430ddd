package db

import "time"

// Provider identifies which calendar backend a connection talks to
type Provider string

const (
	ProviderGoogle    Provider = "google"
	ProviderOffice365 Provider = "office365"
)

// AppointmentStatus is the lifecycle state of an appointment.
// Only SCHEDULED appointments participate in conflict checks.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusCompleted AppointmentStatus = "COMPLETED"
)

// Ward represents a congregation that owns interview types, bishopric
// members and appointments
type Ward struct {
	ID    string
	Name  string
	Stake string
}

// User represents a linked user account for a bishopric member
type User struct {
	ID    string
	Name  string
	Email string
}

// CalendarConnection links a user account to a third-party calendar.
// A user has at most one connection (enforced by the schema).
type CalendarConnection struct {
	ID           string
	UserID       string
	Provider     Provider
	AccountID    string
	AccessToken  string
	LastSyncedAt *time.Time
	Active       bool
}

// BishopricMember represents a bishopric member who can hold interviews.
// Name is joined in from the linked user account; Connection is nil when
// the user has not connected a calendar.
type BishopricMember struct {
	ID               string
	WardID           string
	UserID           string
	Name             string
	Position         string
	AvailabilityCode string
	Active           bool
	Connection       *CalendarConnection
}

// InterviewType represents a kind of interview a ward offers
type InterviewType struct {
	ID              string
	WardID          string
	Name            string
	Description     string
	DurationMinutes int
	Active          bool
}

// Appointment represents a booked interview slot
type Appointment struct {
	ID                string
	WardID            string
	InterviewTypeID   string
	BishopricMemberID string
	MemberName        string
	MemberEmail       string
	MemberPhone       string
	StartTime         time.Time
	EndTime           time.Time
	Status            AppointmentStatus
	CalendarEventID   string
	CreatedAt         time.Time
}
