package model

import "time"

// Account identifies a connected calendar account and the credential
// used to call its provider
type Account struct {
	ID          string
	AccessToken string
}

// EventTime is a timestamp plus the IANA timezone the provider reported
// or should apply
type EventTime struct {
	DateTime time.Time
	TimeZone string
}

// CalendarEvent is a provider-neutral view of a calendar event
type CalendarEvent struct {
	ID          string
	CalendarID  string
	Title       string
	Description string
	Start       EventTime
	End         EventTime
	Busy        bool
}

// EventDraft describes an event to be created on a calendar
type EventDraft struct {
	Title       string
	Description string
	Start       EventTime
	End         EventTime
	Busy        bool
}
