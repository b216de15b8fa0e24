/*
Copyright © 2023 Mattis Møl Kristensen <mattismoel@gmail.com>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattismoel/canvascal/util"
)

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Shows the logged in Canvas user",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := newBackend().GetUser(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			fmt.Fprintln(out, util.PrettyPrint(user))
			return nil
		}
		fmt.Fprintf(out, "%s <%s>\n", user.Name, user.Email)
		if user.CanvasURL != "" {
			fmt.Fprintf(out, "Canvas: %s\n", user.CanvasURL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)

	whoamiCmd.Flags().Bool("json", false, "Print the user as JSON")
}
