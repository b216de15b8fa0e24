/*
Copyright © 2023 Mattis Møl Kristensen <mattismoel@gmail.com>
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattismoel/canvascal/pkg/monthgrid"
	"github.com/mattismoel/canvascal/pkg/ui"
)

// monthCmd represents the month command
var monthCmd = &cobra.Command{
	Use:   "month",
	Short: "Prints the assignment calendar of a month",
	Long:  `Prints the month grid with a marker on every day an assignment is due. Defaults to the current month.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		month, _ := cmd.Flags().GetString("month")

		loc, err := location()
		if err != nil {
			return err
		}
		now := time.Now().In(loc)
		ref := now
		if month != "" {
			ref, err = time.ParseInLocation("2006-01", month, loc)
			if err != nil {
				return fmt.Errorf("invalid month %q, expected YYYY-MM", month)
			}
		}

		assignments, err := newBackend().GetAssignments(cmd.Context())
		if err != nil {
			return err
		}

		view := monthgrid.BuildMonth(ref, assignments, now)
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.RenderMonth(view))
		fmt.Fprintf(out, "\n%d assignments due in %s\n", view.AssignmentCount(), view.Title())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(monthCmd)

	monthCmd.Flags().StringP("month", "m", "", "Month to show (eg. 2024-02)")
}
