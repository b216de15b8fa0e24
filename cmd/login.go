/*
Copyright © 2023 Mattis Møl Kristensen <mattismoel@gmail.com>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mattismoel/canvascal/types"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Logs in to the Canvas proxy",
	Long: `Logs in to the Canvas proxy with a Canvas URL and a Canvas access token.
The returned session is kept in $XDG_DATA_HOME/canvascal/session until "canvascal logout".
When --api-key is omitted the token is read from the terminal without echo.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		canvasURL, _ := cmd.Flags().GetString("canvas-url")
		apiKey, _ := cmd.Flags().GetString("api-key")

		if apiKey == "" {
			key, err := readSecret("Canvas access token: ")
			if err != nil {
				return err
			}
			apiKey = key
		}

		user, err := newBackend().Login(cmd.Context(), types.LoginInfo{
			CanvasURL: strings.TrimRight(canvasURL, "/"),
			APIKey:    apiKey,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", user.Name)
		return nil
	},
}

func readSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("--api-key is required when stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("could not read access token: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringP("canvas-url", "u", "", "Canvas URL (required, eg. https://canvas.school.edu)")
	loginCmd.Flags().StringP("api-key", "k", "", "Canvas access token")

	loginCmd.MarkFlagRequired("canvas-url")
}
