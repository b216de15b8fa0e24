/*
Copyright © 2023 Mattis Møl Kristensen <mattismoel@gmail.com>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mattismoel/canvascal/pkg/auth"
	"github.com/mattismoel/canvascal/pkg/calsync"
	"github.com/mattismoel/canvascal/types"
)

// pushCmd represents the push command
var pushCmd = &cobra.Command{
	Use:     "push <assignment-id>...",
	Aliases: []string{"sync"},
	Short:   "Adds assignments to your Google Calendar",
	Long: `Adds one 30 minute event per given assignment to your primary Google Calendar, starting at the due time.
You are asked for consent in your browser, and the token is revoked again once the events are created.
Pushing an assignment twice creates two events.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		loc, err := location()
		if err != nil {
			return err
		}

		assignments, err := newBackend().GetAssignments(ctx)
		if err != nil {
			return err
		}
		selected, err := selectAssignments(assignments, args)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, "Loading Google Calendar...")
		l := newLoader(ctx)
		api, err := l.API().Await(ctx)
		if err != nil {
			return fmt.Errorf("could not load the Google Calendar API: %w", err)
		}
		tokens, err := l.Identity().Await(ctx)
		if err != nil {
			return fmt.Errorf("could not load Google sign in: %w", err)
		}

		manager := auth.NewManager(tokens, api.Tokens(), log)
		fmt.Fprintln(out, "Waiting for consent in your browser...")
		session, err := manager.RequestSignIn(ctx, auth.Session{})
		if err != nil {
			return fmt.Errorf("google sign in did not complete: %w", err)
		}
		defer func() {
			// The command context may already be cancelled here.
			if _, err := manager.SignOut(context.WithoutCancel(ctx), session); err != nil {
				log.Warn("could not revoke google token", zap.Error(err))
			}
		}()

		engine := calsync.NewEngine(api.Calendar(), loc, log)
		failed := 0
		for _, a := range selected {
			if _, err := engine.SyncAssignment(ctx, a, session); err != nil {
				failed++
				fmt.Fprintf(out, "✗ %s: %v\n", a.Title, err)
				continue
			}
			fmt.Fprintf(out, "✓ %s\n", a.Title)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d assignments could not be added", failed, len(selected))
		}
		return nil
	},
}

// selectAssignments picks the assignments with the given IDs, in argument
// order.
func selectAssignments(assignments []types.Assignment, ids []string) ([]types.Assignment, error) {
	byID := make(map[types.ID]types.Assignment, len(assignments))
	for _, a := range assignments {
		byID[a.ID] = a
	}

	var selected []types.Assignment
	var missing []error
	for _, id := range ids {
		a, ok := byID[types.ID(id)]
		if !ok {
			missing = append(missing, fmt.Errorf("no assignment with id %s", id))
			continue
		}
		selected = append(selected, a)
	}
	return selected, errors.Join(missing...)
}

func init() {
	rootCmd.AddCommand(pushCmd)
}
