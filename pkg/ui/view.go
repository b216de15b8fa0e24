package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mattismoel/canvascal/pkg/auth"
	"github.com/mattismoel/canvascal/pkg/monthgrid"
	"github.com/mattismoel/canvascal/types"
	"github.com/mattismoel/canvascal/util"
)

var weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func (p *CalendarPage) View() string {
	view := p.month()

	var b strings.Builder
	b.WriteString(titleStyle.Render(view.Title()))
	b.WriteString("  ")
	b.WriteString(p.renderGoogleState())
	b.WriteString("\n\n")

	left := p.renderGrid(view)
	right := p.renderSidebar(view)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	b.WriteString("\n\n")

	if p.detail {
		if a, ok := p.selectedAssignment(); ok {
			b.WriteString(p.renderDetail(a))
			b.WriteString("\n")
		}
	}

	if p.status != "" {
		if p.failed {
			b.WriteString(errorStyle.Render(p.status))
		} else {
			b.WriteString(okStyle.Render(p.status))
		}
		b.WriteString("\n")
	}

	b.WriteString(p.renderHelpBar())
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// RenderMonth draws a month grid without any selection, for non-interactive
// output.
func RenderMonth(view monthgrid.MonthView) string {
	p := &CalendarPage{}
	return titleStyle.Render(view.Title()) + "\n\n" + p.renderGrid(view)
}

func (p *CalendarPage) renderGrid(view monthgrid.MonthView) string {
	var b strings.Builder
	for _, day := range weekdays {
		b.WriteString(weekdayStyle.Render(day))
	}
	b.WriteString("\n")

	for i, cell := range view.Cells {
		b.WriteString(p.renderCell(cell))
		if i%7 == 6 {
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderCell draws a two line cell: the day number and one marker per
// assignment due that day.
func (p *CalendarPage) renderCell(cell monthgrid.DayCell) string {
	if cell.Padding {
		return dayStyle.Render(" \n ")
	}

	style := dayStyle
	switch {
	case cell.Day == p.selected:
		style = selectedDayStyle
	case cell.Today:
		style = todayStyle
	}

	var markers strings.Builder
	for i, a := range cell.Assignments {
		if i == 3 {
			markers.WriteString("+")
			break
		}
		marker := "●"
		if p.engine != nil && p.engine.Synced(a.ID) {
			marker = "✓"
		}
		markers.WriteString(lipgloss.NewStyle().Foreground(courseColor(a.CourseColor)).Render(marker))
	}
	if markers.Len() == 0 {
		markers.WriteString(" ")
	}
	return style.Render(fmt.Sprintf("%d\n%s", cell.Day, markers.String()))
}

func (p *CalendarPage) renderSidebar(view monthgrid.MonthView) string {
	var b strings.Builder

	date := view.Title()
	if cell, ok := view.Day(p.selected); ok {
		date = cell.Date.Format("Mon, Jan 2")
	}
	b.WriteString(boldStyle.Render(date))
	b.WriteString("\n")

	day := p.dayAssignments()
	if len(day) == 0 {
		b.WriteString(dimStyle.Render("No assignments due"))
		b.WriteString("\n")
	}
	for i, a := range day {
		cursor := "  "
		if i == p.selectedIdx {
			cursor = "> "
		}
		line := cursor + lipgloss.NewStyle().Foreground(courseColor(a.CourseColor)).Render("●") + " " + a.Title
		if p.engine != nil && p.engine.Synced(a.ID) {
			line += " " + okStyle.Render("✓")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.renderStats())
	b.WriteString("\n\n")
	b.WriteString(renderLegend())
	return panelStyle.Render(b.String())
}

func (p *CalendarPage) renderStats() string {
	stats := monthgrid.ComputeStats(p.assignments, p.courses, p.ref)
	today := 0
	now := p.now().In(p.loc)
	for i := range p.assignments {
		if p.assignments[i].DueOn(now) {
			today++
		}
	}
	rows := []string{
		fmt.Sprintf("%s %d", labelStyle.Render("Assignments"), stats.TotalAssignments),
		fmt.Sprintf("%s %d", labelStyle.Render("Courses    "), stats.ActiveCourses),
		fmt.Sprintf("%s %d", labelStyle.Render("This month "), stats.ThisMonth),
		fmt.Sprintf("%s %d", labelStyle.Render("Due today  "), today),
	}
	return strings.Join(rows, "\n")
}

func renderLegend() string {
	items := []struct{ status, label string }{
		{string(types.StatusOverdue), "Overdue"},
		{string(types.StatusSubmitted), "Submitted"},
		{string(types.StatusUpcoming), "Upcoming"},
	}
	var parts []string
	for _, it := range items {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(util.ColorFromStatus(it.status))).Render("●")
		parts = append(parts, dot+" "+helpStyle.Render(it.label))
	}
	return strings.Join(parts, "  ")
}

func (p *CalendarPage) renderDetail(a types.Assignment) string {
	var b strings.Builder
	b.WriteString(boldStyle.Render(a.Title))
	b.WriteString("  ")
	b.WriteString(badge(string(a.Status)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Course  "))
	b.WriteString(a.CourseName)
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Due     "))
	if due, err := a.Due(p.loc); err == nil {
		b.WriteString(due.Format("Mon Jan 2 2006, 15:04 MST"))
	} else {
		b.WriteString(dimStyle.Render("no due date"))
	}
	b.WriteString("\n")

	if a.Description != "" {
		b.WriteString("\n")
		b.WriteString(a.Description)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.renderSyncAction(a))
	return panelStyle.Render(b.String())
}

func (p *CalendarPage) renderSyncAction(a types.Assignment) string {
	switch {
	case p.engine != nil && p.engine.Synced(a.ID):
		return okStyle.Render("✓ Added to Google Calendar")
	case p.syncing:
		return dimStyle.Render("Adding to Google Calendar...")
	case p.CanSync():
		h := keys.Add.Help()
		return helpKeyStyle.Render(h.Key) + " " + helpStyle.Render(h.Desc)
	case p.CanToggleSignIn():
		return dimStyle.Render(fmt.Sprintf("Sign in with %s to add this to Google Calendar", keys.SignIn.Help().Key))
	}
	return dimStyle.Render("Google Calendar is not available")
}

func (p *CalendarPage) renderGoogleState() string {
	switch {
	case p.signingOut:
		return helpStyle.Render("Google: signing out")
	case p.session.State == auth.AwaitingConsent:
		return helpStyle.Render("Google: waiting for consent")
	case p.session.SignedIn():
		return okStyle.Render("Google: signed in")
	case p.CanToggleSignIn():
		return helpStyle.Render("Google: signed out")
	}
	return dimStyle.Render("Google: loading")
}

func (p *CalendarPage) renderHelpBar() string {
	return p.help.View(p)
}
