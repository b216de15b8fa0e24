/*
Copyright © 2023 Mattis Møl Kristensen <mattismoel@gmail.com>
*/
package cmd

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mattismoel/canvascal/pkg/ui"
)

// calendarCmd represents the calendar command
var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Opens the interactive assignment calendar",
	Long: `Opens the month calendar of your Canvas assignments. Sign in to Google with "g"
and add the selected assignment to your primary Google Calendar with "a".
Sign in asks for consent every time and nothing Google related is stored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("the calendar needs a terminal, use `canvascal month` instead")
		}
		loc, err := location()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		page := ui.NewCalendarPage(ui.Options{
			Context:  ctx,
			Loader:   newLoader(ctx),
			Source:   newBackend(),
			Location: loc,
			Logger:   log,
		})

		_, err = tea.NewProgram(page, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(calendarCmd)
}
