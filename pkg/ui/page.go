// Package ui is the interactive calendar page: a month grid of the student's
// assignments with a Google Calendar sign in and a per-assignment sync action.
package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"

	"github.com/mattismoel/canvascal/pkg/auth"
	"github.com/mattismoel/canvascal/pkg/calsync"
	"github.com/mattismoel/canvascal/pkg/loader"
	"github.com/mattismoel/canvascal/pkg/monthgrid"
	"github.com/mattismoel/canvascal/types"
	"github.com/mattismoel/canvascal/util"
)

// AssignmentSource provides the data the page shows.
type AssignmentSource interface {
	GetAssignments(ctx context.Context) ([]types.Assignment, error)
	GetCourses(ctx context.Context) ([]types.Course, error)
}

type Options struct {
	Context     context.Context
	Loader      *loader.Loader
	Source      AssignmentSource
	Assignments []types.Assignment
	Courses     []types.Course
	Location    *time.Location
	Now         func() time.Time
	Logger      *zap.Logger
}

// CalendarPage is the bubbletea model of the calendar page. Every field is
// owned by Update; commands only report back through messages.
type CalendarPage struct {
	ctx    context.Context
	loader *loader.Loader
	source AssignmentSource
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger

	assignments []types.Assignment
	courses     []types.Course

	ref         time.Time // first of the displayed month
	selected    int       // selected day of the displayed month
	selectedIdx int       // selected assignment within the day
	detail      bool
	width       int
	help        help.Model

	apiReady      bool
	identityReady bool
	tokens        auth.TokenRequester
	store         auth.TokenStore
	manager       *auth.Manager
	engine        *calsync.Engine

	session      auth.Session
	cancelSignIn context.CancelFunc // set while a consent prompt is pending
	signingOut   bool
	syncing      bool
	status       string
	failed       bool
}

// Messages
type apiLoadedMsg struct {
	store    auth.TokenStore
	calendar calsync.EventInserter
	err      error
}

type identityLoadedMsg struct {
	tokens auth.TokenRequester
	err    error
}

type assignmentsLoadedMsg struct {
	assignments []types.Assignment
	courses     []types.Course
	err         error
	coursesErr  error
}

type signInDoneMsg struct {
	session auth.Session
	err     error
}

type signOutDoneMsg struct {
	session auth.Session
	err     error
}

type syncDoneMsg struct {
	assignment types.Assignment
	event      *calendar.Event
	err        error
}

func NewCalendarPage(opts Options) *CalendarPage {
	p := &CalendarPage{
		ctx:         opts.Context,
		loader:      opts.Loader,
		source:      opts.Source,
		loc:         opts.Location,
		now:         opts.Now,
		logger:      opts.Logger,
		assignments: opts.Assignments,
		courses:     opts.Courses,
		help:        help.New(),
	}
	p.help.ShortSeparator = "  "
	p.help.Styles.ShortKey = helpKeyStyle
	p.help.Styles.ShortDesc = helpStyle
	p.help.Styles.ShortSeparator = helpStyle
	if p.ctx == nil {
		p.ctx = context.Background()
	}
	if p.loc == nil {
		p.loc = time.UTC
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	p.goToToday()
	return p
}

func (p *CalendarPage) Init() tea.Cmd {
	var cmds []tea.Cmd
	if p.loader != nil {
		cmds = append(cmds, p.awaitAPI(), p.awaitIdentity())
	}
	if p.source != nil {
		cmds = append(cmds, p.loadAssignments())
	}
	return tea.Batch(cmds...)
}

func (p *CalendarPage) awaitAPI() tea.Cmd {
	return func() tea.Msg {
		client, err := p.loader.API().Await(p.ctx)
		if err != nil {
			return apiLoadedMsg{err: err}
		}
		return apiLoadedMsg{store: client.Tokens(), calendar: client.Calendar()}
	}
}

func (p *CalendarPage) awaitIdentity() tea.Cmd {
	return func() tea.Msg {
		client, err := p.loader.Identity().Await(p.ctx)
		if err != nil {
			return identityLoadedMsg{err: err}
		}
		return identityLoadedMsg{tokens: client}
	}
}

func (p *CalendarPage) loadAssignments() tea.Cmd {
	return func() tea.Msg {
		assignments, err := p.source.GetAssignments(p.ctx)
		if err != nil {
			return assignmentsLoadedMsg{err: err}
		}
		courses, err := p.source.GetCourses(p.ctx)
		return assignmentsLoadedMsg{assignments: assignments, courses: courses, coursesErr: err}
	}
}

func (p *CalendarPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		return p, nil

	case apiLoadedMsg:
		if msg.err != nil {
			p.logger.Error("google calendar api unavailable", zap.Error(msg.err))
			return p, nil
		}
		p.apiReady = true
		p.store = msg.store
		p.engine = calsync.NewEngine(msg.calendar, p.loc, p.logger)
		p.wireManager()
		return p, nil

	case identityLoadedMsg:
		if msg.err != nil {
			p.logger.Error("google identity unavailable", zap.Error(msg.err))
			return p, nil
		}
		p.identityReady = true
		p.tokens = msg.tokens
		p.wireManager()
		return p, nil

	case assignmentsLoadedMsg:
		if msg.err != nil {
			p.setStatus(fmt.Sprintf("Could not load assignments: %v", msg.err), true)
			return p, nil
		}
		p.assignments = msg.assignments
		p.clampSelection()
		if msg.coursesErr != nil {
			p.logger.Warn("could not load courses", zap.Error(msg.coursesErr))
			p.setStatus(fmt.Sprintf("Could not load courses: %v", msg.coursesErr), true)
			return p, nil
		}
		p.courses = msg.courses
		return p, nil

	case signInDoneMsg:
		if p.cancelSignIn != nil {
			p.cancelSignIn()
			p.cancelSignIn = nil
		}
		p.session = msg.session
		if errors.Is(msg.err, context.Canceled) {
			p.setStatus("Sign in cancelled", false)
			return p, nil
		}
		if msg.err != nil {
			// A closed or denied consent prompt is a plain signed out state.
			p.logger.Info("google sign in failed", zap.Error(msg.err))
			p.setStatus("", false)
			return p, nil
		}
		p.setStatus("Signed in to Google Calendar", false)
		return p, nil

	case signOutDoneMsg:
		p.signingOut = false
		p.session = msg.session
		if msg.err != nil {
			p.setStatus("Signed out. The token could not be revoked", true)
			return p, nil
		}
		p.setStatus("Signed out of Google Calendar", false)
		return p, nil

	case syncDoneMsg:
		p.syncing = false
		if msg.err != nil {
			p.setStatus(syncErrorText(msg.err), true)
			return p, nil
		}
		p.setStatus(fmt.Sprintf("Added %q to Google Calendar", msg.assignment.Title), false)
		return p, nil

	case tea.KeyMsg:
		return p.handleKeyPress(msg)
	}
	return p, nil
}

// wireManager builds the token manager once both libraries are ready.
func (p *CalendarPage) wireManager() {
	if p.apiReady && p.identityReady && p.manager == nil {
		p.manager = auth.NewManager(p.tokens, p.store, p.logger)
	}
}

func (p *CalendarPage) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		if p.cancelSignIn != nil {
			p.cancelSignIn()
		}
		return p, tea.Quit

	case key.Matches(msg, keys.Close):
		p.detail = false
		return p, nil

	case key.Matches(msg, keys.Left):
		p.moveDays(-1)
	case key.Matches(msg, keys.Right):
		p.moveDays(1)
	case key.Matches(msg, keys.Up):
		p.moveDays(-7)
	case key.Matches(msg, keys.Down):
		p.moveDays(7)

	case key.Matches(msg, keys.PrevMonth):
		p.ref = monthgrid.PreviousMonth(p.ref)
		p.clampSelection()
	case key.Matches(msg, keys.NextMonth):
		p.ref = monthgrid.NextMonth(p.ref)
		p.clampSelection()

	case key.Matches(msg, keys.Today):
		p.goToToday()

	case key.Matches(msg, keys.Next):
		if n := len(p.dayAssignments()); n > 0 {
			p.selectedIdx = (p.selectedIdx + 1) % n
		}
		return p, nil

	case key.Matches(msg, keys.Open):
		if _, ok := p.selectedAssignment(); ok {
			p.detail = true
		}
		return p, nil

	case key.Matches(msg, keys.SignIn, keys.SignOut, keys.CancelSignIn):
		return p, p.toggleSignIn()

	case key.Matches(msg, keys.Add):
		return p, p.syncSelected()
	}
	return p, nil
}

// CanToggleSignIn reports whether the sign in control is offered. Both
// libraries have to be loaded.
func (p *CalendarPage) CanToggleSignIn() bool {
	return p.apiReady && p.identityReady && p.manager != nil
}

// CanSync reports whether the add to calendar action is offered.
func (p *CalendarPage) CanSync() bool {
	return p.session.SignedIn() && !p.signingOut && p.apiReady && p.engine != nil
}

// googleKey is the g binding currently offered. Nothing is offered while a
// sign out or a cancelled consent prompt is still finishing.
func (p *CalendarPage) googleKey() (key.Binding, bool) {
	switch {
	case !p.CanToggleSignIn() || p.signingOut:
		return key.Binding{}, false
	case p.session.State == auth.AwaitingConsent:
		return keys.CancelSignIn, p.cancelSignIn != nil
	case p.session.SignedIn():
		return keys.SignOut, true
	}
	return keys.SignIn, true
}

func (p *CalendarPage) toggleSignIn() tea.Cmd {
	if _, ok := p.googleKey(); !ok {
		return nil
	}

	switch {
	case p.session.State == auth.AwaitingConsent:
		// The pending attempt reports back signed out once it stops, which
		// also releases the consent listener.
		p.cancelSignIn()
		p.cancelSignIn = nil
		p.setStatus("Cancelling sign in...", false)
		return nil

	case p.session.SignedIn():
		p.signingOut = true
		p.setStatus("Signing out of Google Calendar...", false)
		m, ctx, s := p.manager, p.ctx, p.session
		return func() tea.Msg {
			s, err := m.SignOut(ctx, s)
			return signOutDoneMsg{session: s, err: err}
		}
	}

	prev := p.session
	s, err := p.manager.BeginSignIn(prev)
	if err != nil {
		p.logger.Warn("could not start sign in", zap.Error(err))
		return nil
	}
	p.session = s
	p.setStatus("Waiting for consent in your browser...", false)

	ctx, cancel := context.WithCancel(p.ctx)
	p.cancelSignIn = cancel
	m := p.manager
	return func() tea.Msg {
		s, err := m.RequestSignIn(ctx, prev)
		return signInDoneMsg{session: s, err: err}
	}
}

func (p *CalendarPage) ShortHelp() []key.Binding {
	bindings := []key.Binding{keys.Left, keys.Up, keys.PrevMonth, keys.Today, keys.Next}
	if p.detail {
		bindings = append(bindings, keys.Close)
	} else {
		bindings = append(bindings, keys.Open)
	}
	if b, ok := p.googleKey(); ok {
		bindings = append(bindings, b)
	}
	if p.CanSync() && !p.syncing {
		bindings = append(bindings, keys.Add)
	}
	return append(bindings, keys.Quit)
}

func (p *CalendarPage) FullHelp() [][]key.Binding {
	return [][]key.Binding{p.ShortHelp()}
}

func (p *CalendarPage) syncSelected() tea.Cmd {
	if !p.CanSync() || p.syncing {
		return nil
	}
	a, ok := p.selectedAssignment()
	if !ok {
		return nil
	}

	p.syncing = true
	p.setStatus(fmt.Sprintf("Adding %q to Google Calendar...", a.Title), false)

	e, ctx, s := p.engine, p.ctx, p.session
	return func() tea.Msg {
		event, err := e.SyncAssignment(ctx, a, s)
		return syncDoneMsg{assignment: a, event: event, err: err}
	}
}

func syncErrorText(err error) string {
	var remote *calsync.RemoteError
	switch {
	case errors.Is(err, calsync.ErrNotSignedIn):
		return "Sign in to Google Calendar first"
	case errors.Is(err, calsync.ErrInvalidDueDate):
		return "This assignment has no valid due date"
	case errors.As(err, &remote):
		return remote.Error()
	}
	return calsync.ErrSyncFailed.Error()
}

func (p *CalendarPage) setStatus(s string, failed bool) {
	p.status = s
	p.failed = failed
}

func (p *CalendarPage) goToToday() {
	now := p.now().In(p.loc)
	p.ref = util.FirstOfMonth(now)
	p.selected = now.Day()
	p.selectedIdx = 0
	p.detail = false
}

// moveDays moves the selection, following it into adjacent months.
func (p *CalendarPage) moveDays(n int) {
	d := time.Date(p.ref.Year(), p.ref.Month(), p.selected+n, 0, 0, 0, 0, p.loc)
	p.ref = util.FirstOfMonth(d)
	p.selected = d.Day()
	p.selectedIdx = 0
	p.detail = false
}

func (p *CalendarPage) clampSelection() {
	if days := util.DaysInMonth(p.ref.Year(), p.ref.Month()); p.selected > days {
		p.selected = days
	}
	if p.selected < 1 {
		p.selected = 1
	}
	p.selectedIdx = 0
	p.detail = false
}

func (p *CalendarPage) month() monthgrid.MonthView {
	return monthgrid.BuildMonth(p.ref, p.assignments, p.now())
}

func (p *CalendarPage) dayAssignments() []types.Assignment {
	cell, ok := p.month().Day(p.selected)
	if !ok {
		return nil
	}
	return cell.Assignments
}

func (p *CalendarPage) selectedAssignment() (types.Assignment, bool) {
	day := p.dayAssignments()
	if p.selectedIdx < 0 || p.selectedIdx >= len(day) {
		return types.Assignment{}, false
	}
	return day[p.selectedIdx], true
}

// Session is the current Google sign in state.
func (p *CalendarPage) Session() auth.Session {
	return p.session
}
