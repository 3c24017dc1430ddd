package db

import (
	"context"
	"time"
)

// WardStore defines ward lookup operations
type WardStore interface {
	GetWard(ctx context.Context, id string) (*Ward, error)
}

// InterviewTypeStore defines interview type and authorization lookups
type InterviewTypeStore interface {
	GetInterviewType(ctx context.Context, id string) (*InterviewType, error)
	ListActiveInterviewTypes(ctx context.Context, wardID string) ([]InterviewType, error)
	GetAuthorizedMembers(ctx context.Context, interviewTypeID string) ([]BishopricMember, error)
	GetBishopricMember(ctx context.Context, id string) (*BishopricMember, error)
}

// AppointmentStore defines appointment persistence operations
type AppointmentStore interface {
	GetAppointment(ctx context.Context, id string) (*Appointment, error)
	ListMemberAppointments(ctx context.Context, memberID string, status AppointmentStatus, from, to time.Time) ([]Appointment, error)
	ListWardAppointments(ctx context.Context, wardID string, status AppointmentStatus, from time.Time) ([]Appointment, error)
	InsertAppointment(ctx context.Context, appt *Appointment) error
	SetAppointmentEventID(ctx context.Context, id, eventID string) error
	CancelAppointment(ctx context.Context, id string) error
}

// Database aggregates all store operations
type Database interface {
	WardStore
	InterviewTypeStore
	AppointmentStore
}
