package googlecalclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/wardclerk/interview-scheduler/pkg/core/model"
)

// Client talks to the Google Calendar API. Each bishopric member has
// their own access token, so a service is built per call rather than
// held on the struct.
type Client struct{}

// NewClient creates a new Google Calendar client
func NewClient() *Client {
	return &Client{}
}

func (c *Client) serviceFor(ctx context.Context, acct model.Account) (*calendar.Service, error) {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: acct.AccessToken})
	service, err := calendar.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return service, nil
}

// PrimaryCalendarID returns the calendar id to read availability from.
// Google exposes the account's default calendar under the "primary" alias.
func (c *Client) PrimaryCalendarID(ctx context.Context, acct model.Account) (string, error) {
	return "primary", nil
}

// FindEventsByTitle retrieves events in [from, to) whose title contains
// the given substring, case-insensitively
func (c *Client) FindEventsByTitle(ctx context.Context, acct model.Account, calendarID, titleSubstring string, from, to time.Time) ([]model.CalendarEvent, error) {
	service, err := c.serviceFor(ctx, acct)
	if err != nil {
		return nil, err
	}

	call := service.Events.List(calendarID).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		Context(ctx)

	var events []model.CalendarEvent
	needle := strings.ToLower(titleSubstring)
	err = call.Pages(ctx, func(page *calendar.Events) error {
		for _, item := range page.Items {
			if !strings.Contains(strings.ToLower(item.Summary), needle) {
				continue
			}
			event, err := fromGoogleEvent(calendarID, item)
			if err != nil {
				return err
			}
			events = append(events, *event)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}

	return events, nil
}

// CreateEvent inserts an event into the given calendar
func (c *Client) CreateEvent(ctx context.Context, acct model.Account, calendarID string, draft model.EventDraft) (*model.CalendarEvent, error) {
	service, err := c.serviceFor(ctx, acct)
	if err != nil {
		return nil, err
	}

	transparency := "opaque"
	if !draft.Busy {
		transparency = "transparent"
	}

	event := &calendar.Event{
		Summary:     draft.Title,
		Description: draft.Description,
		Start: &calendar.EventDateTime{
			DateTime: draft.Start.DateTime.Format(time.RFC3339),
			TimeZone: draft.Start.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: draft.End.DateTime.Format(time.RFC3339),
			TimeZone: draft.End.TimeZone,
		},
		Transparency: transparency,
	}

	created, err := service.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}

	result, err := fromGoogleEvent(calendarID, created)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func fromGoogleEvent(calendarID string, item *calendar.Event) (*model.CalendarEvent, error) {
	start, err := parseEventTime(item.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start of event %s: %w", item.Id, err)
	}
	end, err := parseEventTime(item.End)
	if err != nil {
		return nil, fmt.Errorf("failed to parse end of event %s: %w", item.Id, err)
	}

	return &model.CalendarEvent{
		ID:          item.Id,
		CalendarID:  calendarID,
		Title:       item.Summary,
		Description: item.Description,
		Start:       *start,
		End:         *end,
		Busy:        item.Transparency != "transparent",
	}, nil
}

func parseEventTime(edt *calendar.EventDateTime) (*model.EventTime, error) {
	if edt == nil {
		return nil, fmt.Errorf("event has no time")
	}

	// All-day events carry a date instead of a datetime
	if edt.DateTime == "" {
		t, err := time.Parse("2006-01-02", edt.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse event date: %w", err)
		}
		return &model.EventTime{DateTime: t, TimeZone: edt.TimeZone}, nil
	}

	t, err := time.Parse(time.RFC3339, edt.DateTime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse event datetime: %w", err)
	}
	return &model.EventTime{DateTime: t, TimeZone: edt.TimeZone}, nil
}
