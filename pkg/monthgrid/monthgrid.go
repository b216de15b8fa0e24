// Package monthgrid projects assignments onto the days of a calendar month.
package monthgrid

import (
	"time"

	"github.com/mattismoel/canvascal/types"
	"github.com/mattismoel/canvascal/util"
)

// DayCell is one cell of the month grid. Padding cells precede the 1st of the
// month and carry no day.
type DayCell struct {
	Padding     bool
	Day         int
	Date        time.Time
	Today       bool
	Assignments []types.Assignment
}

// MonthView is the derived grid for a single month. It is rebuilt on every
// navigation and never mutated after BuildMonth returns.
type MonthView struct {
	Year  int
	Month time.Month
	Cells []DayCell
}

// BuildMonth lays out the month containing ref. The first cells pad the grid up
// to the weekday of the 1st (Sunday first), followed by one cell per day.
// Assignments are bucketed by the calendar day written in their due date;
// those without a parseable due date land in no cell.
func BuildMonth(ref time.Time, assignments []types.Assignment, now time.Time) MonthView {
	first := util.FirstOfMonth(ref)
	year, month := first.Year(), first.Month()
	padding := int(first.Weekday())
	days := util.DaysInMonth(year, month)
	now = now.In(first.Location())

	view := MonthView{
		Year:  year,
		Month: month,
		Cells: make([]DayCell, 0, padding+days),
	}
	for i := 0; i < padding; i++ {
		view.Cells = append(view.Cells, DayCell{Padding: true})
	}

	byDay := make(map[int][]types.Assignment)
	for _, a := range assignments {
		y, m, d, ok := a.DueDay()
		if !ok || y != year || m != month {
			continue
		}
		byDay[d] = append(byDay[d], a)
	}

	for day := 1; day <= days; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, first.Location())
		view.Cells = append(view.Cells, DayCell{
			Day:         day,
			Date:        date,
			Today:       util.SameDay(date, now),
			Assignments: byDay[day],
		})
	}
	return view
}

// PreviousMonth returns the first day of the month before ref.
func PreviousMonth(ref time.Time) time.Time {
	return util.AddMonths(ref, -1)
}

// NextMonth returns the first day of the month after ref.
func NextMonth(ref time.Time) time.Time {
	return util.AddMonths(ref, 1)
}

func (v MonthView) Padding() int {
	n := 0
	for _, c := range v.Cells {
		if c.Padding {
			n++
		}
	}
	return n
}

// Days returns the non-padding cells in day order.
func (v MonthView) Days() []DayCell {
	return v.Cells[v.Padding():]
}

// Day returns the cell of the given day of the month.
func (v MonthView) Day(day int) (DayCell, bool) {
	days := v.Days()
	if day < 1 || day > len(days) {
		return DayCell{}, false
	}
	return days[day-1], true
}

func (v MonthView) AssignmentCount() int {
	n := 0
	for _, c := range v.Cells {
		n += len(c.Assignments)
	}
	return n
}

// Title renders the month heading, eg. "February 2024".
func (v MonthView) Title() string {
	return time.Date(v.Year, v.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// Stats are the aggregate counts shown next to the calendar.
type Stats struct {
	TotalAssignments int
	ActiveCourses    int
	ThisMonth        int
}

func ComputeStats(assignments []types.Assignment, courses []types.Course, ref time.Time) Stats {
	s := Stats{
		TotalAssignments: len(assignments),
		ActiveCourses:    len(courses),
	}
	for _, a := range assignments {
		y, m, _, ok := a.DueDay()
		if ok && y == ref.Year() && m == ref.Month() {
			s.ThisMonth++
		}
	}
	return s
}
