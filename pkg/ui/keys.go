package ui

import "github.com/charmbracelet/bubbles/key"

// Key bindings. SignIn, SignOut and CancelSignIn share the g key; which one
// is offered depends on the sign in state.
var keys = struct {
	Quit         key.Binding
	Left         key.Binding
	Right        key.Binding
	Up           key.Binding
	Down         key.Binding
	PrevMonth    key.Binding
	NextMonth    key.Binding
	Today        key.Binding
	Next         key.Binding
	Open         key.Binding
	Close        key.Binding
	SignIn       key.Binding
	SignOut      key.Binding
	CancelSignIn key.Binding
	Add          key.Binding
}{
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Left:         key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←→", "day")),
	Right:        key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("←→", "day")),
	Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "week")),
	Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↑↓", "week")),
	PrevMonth:    key.NewBinding(key.WithKeys("H", "pgup"), key.WithHelp("H/L", "month")),
	NextMonth:    key.NewBinding(key.WithKeys("L", "pgdown"), key.WithHelp("H/L", "month")),
	Today:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
	Next:         key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
	Open:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Close:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	SignIn:       key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "sign in with google")),
	SignOut:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "sign out of google")),
	CancelSignIn: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "cancel sign in")),
	Add:          key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to calendar")),
}
