/*
Copyright © 2023 Mattis Møl Kristensen <mattismoel@gmail.com>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mattismoel/canvascal/types"
)

// assignmentsCmd represents the assignments command
var assignmentsCmd = &cobra.Command{
	Use:   "assignments",
	Short: "Lists your Canvas assignments",
	Long:  `Lists all Canvas assignments ordered by due date. Assignments without a due date are listed last.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			output = "json"
		}

		loc, err := location()
		if err != nil {
			return err
		}
		assignments, err := newBackend().GetAssignments(cmd.Context())
		if err != nil {
			return err
		}
		types.SortByDue(assignments, loc)

		return writeAssignments(cmd.OutOrStdout(), output, assignments, loc)
	},
}

func writeAssignments(w io.Writer, output string, assignments []types.Assignment, loc *time.Location) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "\t")
		return enc.Encode(assignments)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(assignments)
	case "table", "":
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ID", "DUE", "STATUS", "COURSE", "TITLE")
		for _, a := range assignments {
			due := "-"
			if d, err := a.Due(loc); err == nil {
				due = d.Format("Mon Jan 2 2006 15:04")
			}
			t.Row(string(a.ID), due, string(a.Status), a.CourseName, a.Title)
		}
		_, err := fmt.Fprintln(w, t.String())
		return err
	}
	return fmt.Errorf("unknown output format %q, use table, json or yaml", output)
}

func init() {
	rootCmd.AddCommand(assignmentsCmd)

	assignmentsCmd.Flags().StringP("output", "o", "table", "Output format: table, json or yaml")
	assignmentsCmd.Flags().Bool("json", false, "Shorthand for --output json")
}
