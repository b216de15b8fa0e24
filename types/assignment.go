package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

type AssignmentStatus string

const (
	StatusUpcoming  AssignmentStatus = "upcoming"
	StatusSubmitted AssignmentStatus = "submitted"
	StatusOverdue   AssignmentStatus = "overdue"
)

var ErrNoDueDate = errors.New("assignment has no due date")

// Layouts accepted for due dates, tried in order. Layouts without an offset
// are read as wall clock time in the caller's location.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ID is an identifier the backend sends either as a JSON number or a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

type Course struct {
	ID   ID     `json:"id" yaml:"id"`     // Canvas course ID
	Name string `json:"name" yaml:"name"` // Display name (eg. Linear Algebra)
	Code string `json:"code" yaml:"code"` // Course code (eg. MATH-221)
}

type Assignment struct {
	ID          ID               `json:"id" yaml:"id"`                   // Canvas assignment ID, unique across courses
	Title       string           `json:"title" yaml:"title"`             // Title of the assignment (eg. Problem Set 4)
	Description string           `json:"description" yaml:"description"` // Free text description shown in the detail panel
	DueDate     *string          `json:"dueDate" yaml:"dueDate"`         // Raw due timestamp. Nil when the assignment has no deadline
	CourseColor string           `json:"courseColor" yaml:"courseColor"` // Hex colour of the owning course (eg. #ff0000)
	Status      AssignmentStatus `json:"status" yaml:"status"`           // One of upcoming, submitted or overdue
	CourseName  string           `json:"courseName" yaml:"courseName"`   // Name of the owning course
}

// Due parses the due date of the assignment. Timestamps without an offset
// are interpreted in loc.
func (a *Assignment) Due(loc *time.Location) (time.Time, error) {
	if a.DueDate == nil || strings.TrimSpace(*a.DueDate) == "" {
		return time.Time{}, ErrNoDueDate
	}
	if loc == nil {
		loc = time.Local
	}
	raw := strings.TrimSpace(*a.DueDate)

	var lastErr error
	for _, layout := range dueDateLayouts {
		t, err := time.ParseInLocation(layout, raw, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("could not parse due date %q: %w", raw, lastErr)
}

// DueDay returns the calendar day the assignment is due on, as written in the
// timestamp itself. The day is never shifted into another zone, so an
// assignment due 23:30 on the 10th stays on the 10th for every viewer.
func (a *Assignment) DueDay() (year int, month time.Month, day int, ok bool) {
	t, err := a.Due(time.UTC)
	if err != nil {
		return 0, 0, 0, false
	}
	year, month, day = t.Date()
	return year, month, day, true
}

// DueOn reports whether the assignment is due on the calendar day of t.
func (a *Assignment) DueOn(t time.Time) bool {
	y, m, d, ok := a.DueDay()
	if !ok {
		return false
	}
	ty, tm, td := t.Date()
	return y == ty && m == tm && d == td
}

// SortByDue orders assignments by due time, earliest first. Assignments without
// a parseable due date keep their relative order at the end.
func SortByDue(assignments []Assignment, loc *time.Location) {
	slices.SortStableFunc(assignments, func(a, b Assignment) int {
		ta, errA := a.Due(loc)
		tb, errB := b.Due(loc)
		switch {
		case errA != nil && errB != nil:
			return 0
		case errA != nil:
			return 1
		case errB != nil:
			return -1
		}
		return ta.Compare(tb)
	})
}
