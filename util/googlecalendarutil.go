package util

import (
	"os/exec"
	"runtime"
)

// Badge colours of the assignment statuses
const (
	ColorOverdue   = "#EF4444"
	ColorSubmitted = "#10B981"
	ColorUpcoming  = "#6B7280"
)

// Returns a badge colour from an assignment status
// overdue: red
// submitted: green
// Default: grey
func ColorFromStatus(status string) string {
	switch status {
	case "overdue":
		return ColorOverdue
	case "submitted":
		return ColorSubmitted
	}
	return ColorUpcoming
}

// Opens url in the default browser of the user
func OpenBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}

	return exec.Command(cmd, args...).Start()
}
