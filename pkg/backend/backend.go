// Package backend talks to the Canvas proxy that serves the student's user,
// courses and assignments.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mattismoel/canvascal/types"
)

const (
	DefaultBaseURL = "https://localhost:5000/api"
	SessionHeader  = "X-Session-Id"
)

var (
	ErrNotLoggedIn   = errors.New("not logged in to canvas, run `canvascal login` first")
	ErrRequestFailed = errors.New("request failed")
)

var validate = validator.New()

// Client is a Canvas proxy client. The session id is read from and written to
// Sessions, so a login survives between invocations.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Sessions   SessionStore
	Logger     *zap.Logger
}

// SessionStore keeps the backend session id.
type SessionStore interface {
	Load() (string, error)
	Save(id string) error
	Clear() error
}

func NewClient(baseURL string, sessions SessionStore, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Sessions:   sessions,
		Logger:     logger,
	}
}

type loginResponse struct {
	Success   bool       `json:"success"`
	SessionID string     `json:"sessionId"`
	User      types.User `json:"user"`
}

// Login opens a session with the given Canvas credentials and stores its id.
func (c *Client) Login(ctx context.Context, info types.LoginInfo) (*types.User, error) {
	if err := validate.Struct(info); err != nil {
		return nil, fmt.Errorf("invalid login info: %w", err)
	}

	var res loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", info, &res); err != nil {
		return nil, err
	}
	if res.SessionID == "" {
		return nil, fmt.Errorf("%w: no session id in login response", ErrRequestFailed)
	}
	if err := c.Sessions.Save(res.SessionID); err != nil {
		return nil, fmt.Errorf("could not save session: %w", err)
	}
	c.Logger.Info("logged in to canvas", zap.String("user", res.User.Name))
	return &res.User, nil
}

// Logout ends the session on the backend. The local session is cleared even
// when the backend rejects the request.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	if clearErr := c.Sessions.Clear(); clearErr != nil {
		return errors.Join(err, clearErr)
	}
	return err
}

func (c *Client) GetUser(ctx context.Context) (*types.User, error) {
	var user types.User
	if err := c.do(ctx, http.MethodGet, "/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetCourses(ctx context.Context) ([]types.Course, error) {
	var courses []types.Course
	if err := c.do(ctx, http.MethodGet, "/courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) GetAssignments(ctx context.Context) ([]types.Assignment, error) {
	var assignments []types.Assignment
	if err := c.do(ctx, http.MethodGet, "/assignments", nil, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("could not encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.Sessions != nil {
		id, err := c.Sessions.Load()
		if err != nil {
			return fmt.Errorf("could not load session: %w", err)
		}
		if id != "" {
			req.Header.Set(SessionHeader, id)
		}
	}

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not reach backend: %w", err)
	}
	defer res.Body.Close()

	c.Logger.Debug("backend response",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", res.StatusCode),
	)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var e errorBody
		if err := json.NewDecoder(res.Body).Decode(&e); err != nil || e.Error == "" {
			if res.StatusCode == http.StatusUnauthorized {
				return ErrNotLoggedIn
			}
			return ErrRequestFailed
		}
		return fmt.Errorf("%w: %s", ErrRequestFailed, e.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode %s response: %w", endpoint, err)
	}
	return nil
}
