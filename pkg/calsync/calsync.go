// Package calsync pushes assignments to Google Calendar and remembers which
// ones were pushed during the current session.
package calsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/mattismoel/canvascal/pkg/auth"
	"github.com/mattismoel/canvascal/types"
)

var (
	ErrNotSignedIn    = errors.New("not signed in to Google Calendar")
	ErrInvalidDueDate = errors.New("assignment has an invalid or missing due date")
	ErrSyncFailed     = errors.New("could not add the assignment to Google Calendar")
)

// RemoteError is a failure reported by the calendar service.
type RemoteError struct {
	Detail string
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Detail == "" {
		return ErrSyncFailed.Error()
	}
	return fmt.Sprintf("%s: %s", ErrSyncFailed, e.Detail)
}

func (e *RemoteError) Unwrap() []error {
	return []error{ErrSyncFailed, e.Err}
}

// EventInserter creates events in the user's calendar.
type EventInserter interface {
	InsertEvent(ctx context.Context, event *calendar.Event) (*calendar.Event, error)
}

type Engine struct {
	calendar EventInserter
	location *time.Location
	synced   *SyncedSet
	logger   *zap.Logger
}

// NewEngine returns an engine creating events in the time zone of loc.
func NewEngine(cal EventInserter, loc *time.Location, logger *zap.Logger) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		calendar: cal,
		location: loc,
		synced:   NewSyncedSet(),
		logger:   logger,
	}
}

// SyncAssignment creates a 30 minute event at the assignment's due time.
// Preconditions are checked before any request is made. Pushing an assignment
// twice creates two events; the synced set only records that it happened.
func (e *Engine) SyncAssignment(ctx context.Context, a types.Assignment, s auth.Session) (*calendar.Event, error) {
	if !s.SignedIn() {
		return nil, ErrNotSignedIn
	}
	due, err := a.Due(e.location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDueDate, err)
	}

	event := a.ToGoogleEvent(due, e.location.String())
	created, err := e.calendar.InsertEvent(ctx, event)
	if err != nil {
		e.logger.Warn("could not sync assignment",
			zap.String("assignment_id", string(a.ID)),
			zap.Error(err),
		)
		return nil, remoteError(err)
	}

	e.synced.Add(a.ID)
	e.logger.Info("synced assignment",
		zap.String("assignment_id", string(a.ID)),
		zap.String("event_id", created.Id),
		zap.String("due", event.Start.DateTime),
	)
	return created, nil
}

func remoteError(err error) *RemoteError {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		detail := apiErr.Message
		if detail == "" && len(apiErr.Errors) > 0 {
			detail = apiErr.Errors[0].Message
		}
		return &RemoteError{Detail: detail, Err: err}
	}
	return &RemoteError{Err: err}
}

// Synced reports whether the assignment was pushed during this session.
func (e *Engine) Synced(id types.ID) bool {
	return e.synced.Has(id)
}

func (e *Engine) SyncedSet() *SyncedSet {
	return e.synced
}
