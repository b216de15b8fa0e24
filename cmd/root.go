/*
Copyright © 2023 Mattis Møl Kristensen <mattismoel@gmail.com>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mattismoel/canvascal/pkg/backend"
	"github.com/mattismoel/canvascal/pkg/calendarapi"
	"github.com/mattismoel/canvascal/pkg/config"
	"github.com/mattismoel/canvascal/pkg/identity"
	"github.com/mattismoel/canvascal/pkg/loader"
	"github.com/mattismoel/canvascal/pkg/logger"
	"github.com/mattismoel/canvascal/util"
)

var (
	cfg *config.Config
	log *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "canvascal",
	Short: "Canvas assignments on a calendar, synced to Google Calendar",
	Long: `canvascal shows your Canvas assignments on a month calendar and lets you add
individual deadlines to your primary Google Calendar.

Log in to your Canvas proxy with "canvascal login" and open the calendar with
"canvascal calendar".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")

		var err error
		cfg, err = config.Load(config.Options{ConfigFile: configFile, Flags: cmd.Flags()})
		if err != nil {
			return err
		}
		log, err = logger.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("could not create logger: %w", err)
		}
		log.Debug("loaded config", zap.String("command", cmd.Name()), zap.String("timezone", cfg.Timezone))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $XDG_CONFIG_HOME/canvascal/config.yaml)")
	rootCmd.PersistentFlags().String("backend-url", "", "Base URL of the Canvas proxy")
	rootCmd.PersistentFlags().String("timezone", "", "IANA time zone of created events (eg. Europe/Copenhagen)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-file", "", "Log file, or stderr")
}

func newBackend() *backend.Client {
	return backend.NewClient(cfg.BackendURL, backend.NewFileSessionStore(""), log)
}

func location() (*time.Location, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("could not load time zone %q: %w", cfg.Timezone, err)
	}
	return loc, nil
}

// newLoader starts loading the calendar API client and the identity token
// client in the background.
func newLoader(ctx context.Context) *loader.Loader {
	apiOpts := calendarapi.Options{
		DiscoveryURL: cfg.Google.DiscoveryURL,
		APIKey:       cfg.Google.APIKey,
		Logger:       log,
	}
	identityOpts := identity.Options{
		ConfigURL:   cfg.Google.IdentityURL,
		ClientID:    cfg.Google.ClientID,
		RedirectURL: cfg.Google.RedirectURL,
		Consenter: &identity.BrowserConsenter{
			RedirectURL: cfg.Google.RedirectURL,
			Open:        util.OpenBrowser,
			Out:         os.Stderr,
			Logger:      log,
		},
		Logger: log,
	}
	return loader.FromOptions(apiOpts, identityOpts, log).Start(ctx)
}
