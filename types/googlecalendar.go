package types

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
)

// PrimaryCalendarID addresses the authenticated user's primary calendar.
const PrimaryCalendarID = "primary"

// EventDuration is the length of the calendar event created for a deadline.
const EventDuration = 30 * time.Minute

type GoogleCalendar struct {
	Service *calendar.Service
	ID      string
	Logger  *zap.Logger
}

// Inserts a single event into the calendar and returns the created event
func (c *GoogleCalendar) InsertEvent(ctx context.Context, event *calendar.Event) (*calendar.Event, error) {
	created, err := c.Service.Events.Insert(c.ID, event).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if c.Logger != nil {
		c.Logger.Debug("inserted calendar event",
			zap.String("calendar_id", c.ID),
			zap.String("event_id", created.Id),
		)
	}
	return created, nil
}

// Converts an assignment to a Google Calendar event starting at the due time.
// Both ends carry the time zone name so the event renders in the viewer's
// zone rather than UTC.
func (a *Assignment) ToGoogleEvent(due time.Time, timeZone string) *calendar.Event {
	if loc, err := time.LoadLocation(timeZone); err == nil {
		due = due.In(loc)
	}
	return &calendar.Event{
		Summary:     a.Title,
		Description: a.CourseName,
		Start: &calendar.EventDateTime{
			DateTime: due.Format(time.RFC3339),
			TimeZone: timeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: due.Add(EventDuration).Format(time.RFC3339),
			TimeZone: timeZone,
		},
	}
}
