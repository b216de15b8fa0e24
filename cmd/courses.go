/*
Copyright © 2023 Mattis Møl Kristensen <mattismoel@gmail.com>
*/
package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"github.com/mattismoel/canvascal/types"
)

// coursesCmd represents the courses command
var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Lists your active Canvas courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		courses, err := newBackend().GetCourses(cmd.Context())
		if err != nil {
			return err
		}
		slices.SortFunc(courses, func(a, b types.Course) int {
			switch {
			case a.Name < b.Name:
				return -1
			case a.Name > b.Name:
				return 1
			}
			return 0
		})

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ID", "CODE", "NAME")
		for _, c := range courses {
			t.Row(string(c.ID), c.Code, c.Name)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), t.String())
		return err
	},
}

func init() {
	rootCmd.AddCommand(coursesCmd)
}
