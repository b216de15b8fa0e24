package calsync

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/mattismoel/canvascal/pkg/auth"
	"github.com/mattismoel/canvascal/types"
)

func due(s string) *string { return &s }

var signedIn = auth.Session{State: auth.SignedIn, Token: &oauth2.Token{AccessToken: "abc"}}

// fakeCalendar serves the events.insert endpoint. A non-zero status makes it
// fail with the given message.
type fakeCalendar struct {
	server   *httptest.Server
	calls    atomic.Int32
	status   int
	message  string
	received []calendar.Event
}

func newFakeCalendar(t *testing.T) *fakeCalendar {
	t.Helper()
	f := &fakeCalendar{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		assert.Equal(t, "/calendar/v3/calendars/primary/events", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		if f.status != 0 {
			w.WriteHeader(f.status)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": f.status, "message": f.message},
			})
			return
		}
		var ev calendar.Event
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&ev))
		f.received = append(f.received, ev)
		ev.Id = "evt"
		_ = json.NewEncoder(w).Encode(ev)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeCalendar) googleCalendar(t *testing.T) *types.GoogleCalendar {
	service, err := calendar.NewService(context.Background(),
		option.WithHTTPClient(f.server.Client()),
		option.WithEndpoint(f.server.URL+"/calendar/v3/"),
	)
	require.NoError(t, err)
	return &types.GoogleCalendar{Service: service, ID: types.PrimaryCalendarID}
}

func newEngine(t *testing.T, f *fakeCalendar) *Engine {
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	return NewEngine(f.googleCalendar(t), loc, nil)
}

func TestSyncAssignment(t *testing.T) {
	f := newFakeCalendar(t)
	e := newEngine(t, f)
	a := types.Assignment{ID: "42", Title: "Lab report", CourseName: "Chemistry", DueDate: due("2025-03-10T23:30:00")}

	created, err := e.SyncAssignment(context.Background(), a, signedIn)
	require.NoError(t, err)
	assert.Equal(t, "evt", created.Id)
	assert.True(t, e.Synced("42"))
	assert.Equal(t, 1, e.SyncedSet().Len())

	require.Len(t, f.received, 1)
	ev := f.received[0]
	assert.Equal(t, "Lab report", ev.Summary)
	assert.Equal(t, "Chemistry", ev.Description)
	assert.Equal(t, "2025-03-10T23:30:00-05:00", ev.Start.DateTime)
	assert.Equal(t, "2025-03-11T00:00:00-05:00", ev.End.DateTime)
	assert.Equal(t, "America/Chicago", ev.Start.TimeZone)
	assert.Equal(t, "America/Chicago", ev.End.TimeZone)
}

func TestSyncAssignmentTwiceCreatesTwoEvents(t *testing.T) {
	f := newFakeCalendar(t)
	e := newEngine(t, f)
	a := types.Assignment{ID: "42", Title: "Lab report", DueDate: due("2025-03-10T23:30:00")}

	_, err := e.SyncAssignment(context.Background(), a, signedIn)
	require.NoError(t, err)
	_, err = e.SyncAssignment(context.Background(), a, signedIn)
	require.NoError(t, err)

	assert.EqualValues(t, 2, f.calls.Load())
	assert.Equal(t, 1, e.SyncedSet().Len())
	assert.Equal(t, []types.ID{"42"}, e.SyncedSet().IDs())
}

func TestSyncAssignmentNotSignedIn(t *testing.T) {
	f := newFakeCalendar(t)
	e := newEngine(t, f)
	a := types.Assignment{ID: "42", DueDate: due("2025-03-10T23:30:00")}

	for _, s := range []auth.Session{{}, {State: auth.AwaitingConsent}, {State: auth.SignedIn}} {
		_, err := e.SyncAssignment(context.Background(), a, s)
		assert.ErrorIs(t, err, ErrNotSignedIn)
	}

	// Checked before the due date.
	_, err := e.SyncAssignment(context.Background(), types.Assignment{ID: "43"}, auth.Session{})
	assert.ErrorIs(t, err, ErrNotSignedIn)

	assert.Zero(t, f.calls.Load())
	assert.Zero(t, e.SyncedSet().Len())
}

func TestSyncAssignmentInvalidDueDate(t *testing.T) {
	f := newFakeCalendar(t)
	e := newEngine(t, f)

	for _, d := range []*string{nil, due(""), due("31/02/2025"), due("soon")} {
		_, err := e.SyncAssignment(context.Background(), types.Assignment{ID: "42", DueDate: d}, signedIn)
		assert.ErrorIs(t, err, ErrInvalidDueDate)
		assert.NotErrorIs(t, err, ErrNotSignedIn)
	}

	assert.Zero(t, f.calls.Load())
	assert.Zero(t, e.SyncedSet().Len())
}

func TestSyncAssignmentRemoteFailure(t *testing.T) {
	f := newFakeCalendar(t)
	f.status = http.StatusForbidden
	f.message = "Insufficient Permission"
	e := newEngine(t, f)

	_, err := e.SyncAssignment(context.Background(), types.Assignment{ID: "42", DueDate: due("2025-03-10T23:30:00")}, signedIn)
	require.Error(t, err)

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "Insufficient Permission", remote.Detail)
	assert.ErrorIs(t, err, ErrSyncFailed)
	assert.Contains(t, err.Error(), "Insufficient Permission")
	assert.False(t, e.Synced("42"))
	assert.Zero(t, e.SyncedSet().Len())

	// A later retry by the user can still succeed.
	f.status = 0
	_, err = e.SyncAssignment(context.Background(), types.Assignment{ID: "42", DueDate: due("2025-03-10T23:30:00")}, signedIn)
	require.NoError(t, err)
	assert.True(t, e.Synced("42"))
}

type failingInserter struct{ err error }

func (f failingInserter) InsertEvent(context.Context, *calendar.Event) (*calendar.Event, error) {
	return nil, f.err
}

func TestSyncAssignmentNetworkFailure(t *testing.T) {
	network := errors.New("connection reset")
	e := NewEngine(failingInserter{err: network}, time.UTC, nil)

	_, err := e.SyncAssignment(context.Background(), types.Assignment{ID: "42", DueDate: due("2025-03-10T23:30:00")}, signedIn)
	assert.ErrorIs(t, err, ErrSyncFailed)
	assert.ErrorIs(t, err, network)
	assert.Equal(t, ErrSyncFailed.Error(), err.Error())
	assert.Zero(t, e.SyncedSet().Len())
}

func TestSyncedSet(t *testing.T) {
	s := NewSyncedSet()
	assert.False(t, s.Has("a"))
	s.Add("b")
	s.Add("a")
	s.Add("b")
	assert.True(t, s.Has("a"))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []types.ID{"a", "b"}, s.IDs())
}
