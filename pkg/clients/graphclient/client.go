package graphclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wardclerk/interview-scheduler/pkg/core/model"
)

const defaultBaseURL = "https://graph.microsoft.com/v1.0"

// Graph exchanges datetimes without an offset, e.g.
// "2026-09-08T09:00:00.0000000", paired with a separate timeZone field.
// Parsing tolerates a short or missing fraction; output keeps Graph's
// fixed seven digits.
const (
	graphTimeLayout    = "2006-01-02T15:04:05.9999999"
	graphTimeOutLayout = "2006-01-02T15:04:05.0000000"
)

// Client talks to the Microsoft Graph calendar API for Office 365 accounts
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Microsoft Graph client
func NewClient() *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBaseURL creates a client pointed at a custom endpoint
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type graphDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type graphEvent struct {
	ID          string        `json:"id"`
	Subject     string        `json:"subject"`
	BodyPreview string        `json:"bodyPreview"`
	Start       graphDateTime `json:"start"`
	End         graphDateTime `json:"end"`
	ShowAs      string        `json:"showAs"`
	IsAllDay    bool          `json:"isAllDay"`
}

type graphEventList struct {
	Value    []graphEvent `json:"value"`
	NextLink string       `json:"@odata.nextLink"`
}

type graphCalendar struct {
	ID string `json:"id"`
}

type graphEventBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphEventDraft struct {
	Subject string         `json:"subject"`
	Body    graphEventBody `json:"body"`
	Start   graphDateTime  `json:"start"`
	End     graphDateTime  `json:"end"`
	ShowAs  string         `json:"showAs"`
}

// PrimaryCalendarID returns the id of the account's default calendar
func (c *Client) PrimaryCalendarID(ctx context.Context, acct model.Account) (string, error) {
	body, err := c.get(ctx, acct, c.baseURL+"/me/calendar")
	if err != nil {
		return "", err
	}

	var cal graphCalendar
	if err := json.Unmarshal(body, &cal); err != nil {
		return "", fmt.Errorf("failed to decode calendar response: %w", err)
	}
	return cal.ID, nil
}

// FindEventsByTitle retrieves events in [from, to) whose subject contains
// the given substring, case-insensitively. Follows @odata.nextLink pagination.
func (c *Client) FindEventsByTitle(ctx context.Context, acct model.Account, calendarID, titleSubstring string, from, to time.Time) ([]model.CalendarEvent, error) {
	params := url.Values{}
	params.Set("startDateTime", from.UTC().Format(time.RFC3339))
	params.Set("endDateTime", to.UTC().Format(time.RFC3339))
	params.Set("$top", "100")
	next := fmt.Sprintf("%s/me/calendars/%s/calendarView?%s", c.baseURL, url.PathEscape(calendarID), params.Encode())

	needle := strings.ToLower(titleSubstring)
	var events []model.CalendarEvent
	for next != "" {
		body, err := c.get(ctx, acct, next)
		if err != nil {
			return nil, err
		}

		var page graphEventList
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to decode calendar view response: %w", err)
		}

		for _, item := range page.Value {
			if !strings.Contains(strings.ToLower(item.Subject), needle) {
				continue
			}
			event, err := fromGraphEvent(calendarID, item)
			if err != nil {
				return nil, err
			}
			events = append(events, *event)
		}
		next = page.NextLink
	}

	return events, nil
}

// CreateEvent inserts an event into the given calendar
func (c *Client) CreateEvent(ctx context.Context, acct model.Account, calendarID string, draft model.EventDraft) (*model.CalendarEvent, error) {
	showAs := "busy"
	if !draft.Busy {
		showAs = "free"
	}

	payload := graphEventDraft{
		Subject: draft.Title,
		Body:    graphEventBody{ContentType: "text", Content: draft.Description},
		Start:   toGraphDateTime(draft.Start),
		End:     toGraphDateTime(draft.End),
		ShowAs:  showAs,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event: %w", err)
	}

	endpoint := fmt.Sprintf("%s/me/calendars/%s/events", c.baseURL, url.PathEscape(calendarID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+acct.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var created graphEvent
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to decode created event: %w", err)
	}
	return fromGraphEvent(calendarID, created)
}

func (c *Client) get(ctx context.Context, acct model.Account, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+acct.AccessToken)
	req.Header.Set("Prefer", `outlook.timezone="UTC"`)

	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("graph request to %s returned %d: %s", req.URL.Path, resp.StatusCode, string(body))
	}

	return body, nil
}

func fromGraphEvent(calendarID string, item graphEvent) (*model.CalendarEvent, error) {
	start, err := parseGraphDateTime(item.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start of event %s: %w", item.ID, err)
	}
	end, err := parseGraphDateTime(item.End)
	if err != nil {
		return nil, fmt.Errorf("failed to parse end of event %s: %w", item.ID, err)
	}

	return &model.CalendarEvent{
		ID:          item.ID,
		CalendarID:  calendarID,
		Title:       item.Subject,
		Description: item.BodyPreview,
		Start:       *start,
		End:         *end,
		Busy:        item.ShowAs != "free",
	}, nil
}

func parseGraphDateTime(gdt graphDateTime) (*model.EventTime, error) {
	loc := time.UTC
	if gdt.TimeZone != "" && gdt.TimeZone != "UTC" {
		parsed, err := time.LoadLocation(gdt.TimeZone)
		if err == nil {
			loc = parsed
		}
	}

	t, err := time.ParseInLocation(graphTimeLayout, gdt.DateTime, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse graph datetime %q: %w", gdt.DateTime, err)
	}
	return &model.EventTime{DateTime: t, TimeZone: gdt.TimeZone}, nil
}

func toGraphDateTime(et model.EventTime) graphDateTime {
	// Times go over the wire in UTC regardless of the draft's display zone
	return graphDateTime{
		DateTime: et.DateTime.UTC().Format(graphTimeOutLayout),
		TimeZone: "UTC",
	}
}
