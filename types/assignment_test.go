package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAssignmentDue(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	tests := []struct {
		name    string
		due     *string
		want    time.Time
		wantErr bool
	}{
		{"naive timestamp uses location", strPtr("2025-03-10T23:30:00"), time.Date(2025, 3, 10, 23, 30, 0, 0, tokyo), false},
		{"naive minutes", strPtr("2025-03-10T23:30"), time.Date(2025, 3, 10, 23, 30, 0, 0, tokyo), false},
		{"date only", strPtr("2025-03-10"), time.Date(2025, 3, 10, 0, 0, 0, 0, tokyo), false},
		{"utc offset", strPtr("2025-03-10T23:30:00Z"), time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC), false},
		{"fractional seconds", strPtr("2025-03-10T23:30:00.123Z"), time.Date(2025, 3, 10, 23, 30, 0, 123000000, time.UTC), false},
		{"nil", nil, time.Time{}, true},
		{"blank", strPtr("  "), time.Time{}, true},
		{"garbage", strPtr("next tuesday"), time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Assignment{ID: "1", DueDate: tt.due}
			got, err := a.Due(tokyo)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestAssignmentDueMissing(t *testing.T) {
	a := Assignment{ID: "1"}
	_, err := a.Due(time.UTC)
	assert.ErrorIs(t, err, ErrNoDueDate)
}

func TestAssignmentDueDayIgnoresViewerZone(t *testing.T) {
	a := Assignment{ID: "1", DueDate: strPtr("2025-03-10T23:30:00"), CourseColor: "#ff0000"}

	y, m, d, ok := a.DueDay()
	require.True(t, ok)
	assert.Equal(t, 2025, y)
	assert.Equal(t, time.March, m)
	assert.Equal(t, 10, d)

	for _, name := range []string{"UTC", "America/Los_Angeles", "Asia/Kolkata", "Pacific/Kiritimati"} {
		loc, err := time.LoadLocation(name)
		require.NoError(t, err)
		assert.True(t, a.DueOn(time.Date(2025, 3, 10, 0, 0, 0, 0, loc)), name)
		assert.False(t, a.DueOn(time.Date(2025, 3, 11, 0, 0, 0, 0, loc)), name)
	}
}

func TestAssignmentDueDayKeepsWrittenOffset(t *testing.T) {
	a := Assignment{ID: "1", DueDate: strPtr("2025-03-10T23:30:00-08:00")}
	assert.True(t, a.DueOn(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)))
	assert.False(t, a.DueOn(time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC)))
}

func TestAssignmentUnmarshalNumericID(t *testing.T) {
	payload := `[
		{"id": 4512, "title": "Lab report", "dueDate": null, "courseColor": "#00ff00", "status": "upcoming", "courseName": "Chemistry"},
		{"id": "a-7", "title": "Essay", "dueDate": "2024-02-29T12:00:00", "status": "overdue"}
	]`

	var assignments []Assignment
	require.NoError(t, json.Unmarshal([]byte(payload), &assignments))
	require.Len(t, assignments, 2)

	assert.Equal(t, ID("4512"), assignments[0].ID)
	assert.Nil(t, assignments[0].DueDate)
	assert.Equal(t, StatusUpcoming, assignments[0].Status)
	assert.Equal(t, ID("a-7"), assignments[1].ID)
	assert.Equal(t, StatusOverdue, assignments[1].Status)
	require.NotNil(t, assignments[1].DueDate)
}

func TestIDRejectsObjects(t *testing.T) {
	var id ID
	assert.Error(t, json.Unmarshal([]byte(`{"id": 1}`), &id))
}

func TestSortByDue(t *testing.T) {
	assignments := []Assignment{
		{ID: "none-1"},
		{ID: "late", DueDate: strPtr("2024-03-01T10:00:00+01:00")},
		{ID: "early", DueDate: strPtr("2024-02-29")},
		{ID: "none-2", DueDate: strPtr("whenever")},
		{ID: "middle", DueDate: strPtr("2024-03-01T08:00:00Z")},
	}
	SortByDue(assignments, time.UTC)

	var ids []ID
	for _, a := range assignments {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []ID{"early", "middle", "late", "none-1", "none-2"}, ids)
}
