package types

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

func TestToGoogleEvent(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	a := Assignment{ID: "9", Title: "Problem Set 4", CourseName: "Linear Algebra", DueDate: strPtr("2024-02-29T23:45:00")}
	due, err := a.Due(berlin)
	require.NoError(t, err)

	event := a.ToGoogleEvent(due, "Europe/Berlin")
	assert.Equal(t, "Problem Set 4", event.Summary)
	assert.Equal(t, "Linear Algebra", event.Description)
	assert.Equal(t, "2024-02-29T23:45:00+01:00", event.Start.DateTime)
	assert.Equal(t, "2024-03-01T00:15:00+01:00", event.End.DateTime)
	assert.Equal(t, "Europe/Berlin", event.Start.TimeZone)
	assert.Equal(t, "Europe/Berlin", event.End.TimeZone)
}

func TestToGoogleEventConvertsIntoZone(t *testing.T) {
	a := Assignment{ID: "9", Title: "Quiz", DueDate: strPtr("2025-06-01T12:00:00Z")}
	due, err := a.Due(time.UTC)
	require.NoError(t, err)

	event := a.ToGoogleEvent(due, "America/New_York")
	assert.Equal(t, "2025-06-01T08:00:00-04:00", event.Start.DateTime)
	assert.Equal(t, "2025-06-01T08:30:00-04:00", event.End.DateTime)
}

func TestInsertEvent(t *testing.T) {
	var got calendar.Event
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/calendar/v3/calendars/primary/events", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "evt-1", "summary": "Quiz"}`))
	}))
	defer server.Close()

	service, err := calendar.NewService(context.Background(),
		option.WithHTTPClient(server.Client()),
		option.WithEndpoint(server.URL+"/calendar/v3/"),
	)
	require.NoError(t, err)

	c := &GoogleCalendar{Service: service, ID: PrimaryCalendarID}
	created, err := c.InsertEvent(context.Background(), &calendar.Event{Summary: "Quiz"})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", created.Id)
	assert.Equal(t, "Quiz", got.Summary)
}
