package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattismoel/canvascal/types"
)

type memorySessions struct{ id string }

func (m *memorySessions) Load() (string, error) { return m.id, nil }
func (m *memorySessions) Save(id string) error  { m.id = id; return nil }
func (m *memorySessions) Clear() error          { m.id = ""; return nil }

func newBackend(t *testing.T) (*httptest.Server, *Client, *memorySessions) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var info types.LoginInfo
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&info))
		if info.APIKey != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid Canvas API key"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"sessionId":"s-1","user":{"id":7,"name":"Ada"}}`))
	})
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/api/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(SessionHeader) != "s-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"7","name":"Ada","email":"ada@example.edu","canvasUrl":"https://canvas.example.edu"}`))
	})
	mux.HandleFunc("/api/courses", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"Linear Algebra","code":"MATH-221"}]`))
	})
	mux.HandleFunc("/api/assignments", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id":11,"title":"Problem Set 4","dueDate":"2024-02-29T23:59:00Z","courseColor":"#ff0000","status":"upcoming","courseName":"Linear Algebra"},
			{"id":"12","title":"Reading","dueDate":null,"status":"submitted","courseName":"History"}
		]`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	sessions := &memorySessions{}
	return server, NewClient(server.URL+"/api/", sessions, nil), sessions
}

func TestLoginAndFetch(t *testing.T) {
	_, c, sessions := newBackend(t)
	ctx := context.Background()

	_, err := c.GetUser(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	user, err := c.Login(ctx, types.LoginInfo{CanvasURL: "https://canvas.example.edu", APIKey: "good"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, types.ID("7"), user.ID)
	assert.Equal(t, "s-1", sessions.id)

	user, err = c.GetUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.edu", user.Email)

	courses, err := c.GetCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "MATH-221", courses[0].Code)

	assignments, err := c.GetAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, types.ID("11"), assignments[0].ID)
	assert.Equal(t, types.StatusUpcoming, assignments[0].Status)
	assert.Nil(t, assignments[1].DueDate)
}

func TestLoginErrors(t *testing.T) {
	_, c, sessions := newBackend(t)
	ctx := context.Background()

	_, err := c.Login(ctx, types.LoginInfo{CanvasURL: "https://canvas.example.edu", APIKey: "bad"})
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "Invalid Canvas API key")
	assert.Empty(t, sessions.id)

	_, err = c.Login(ctx, types.LoginInfo{CanvasURL: "not a url", APIKey: "good"})
	assert.ErrorContains(t, err, "invalid login info")

	_, err = c.Login(ctx, types.LoginInfo{CanvasURL: "https://canvas.example.edu"})
	assert.ErrorContains(t, err, "invalid login info")
}

func TestLogoutClearsSessionOnFailure(t *testing.T) {
	_, c, sessions := newBackend(t)
	sessions.id = "s-1"

	err := c.Logout(context.Background())
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Equal(t, "request failed", err.Error())
	assert.Empty(t, sessions.id)
}

func TestFileSessionStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session")
	s := NewFileSessionStore(path)

	id, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, s.Save("s-1"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	id, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, "s-1", id)

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	id, err = s.Load()
	require.NoError(t, err)
	assert.Empty(t, id)
}
