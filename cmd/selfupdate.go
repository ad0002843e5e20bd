package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"fut/pkg/logging"
)

// githubRepoSlug is the owner/repo whose releases carry fut binaries.
const githubRepoSlug = "LeonardoCFilho/fut"

var selfUpdateCheckOnly bool

var errDevelopmentBuild = errors.New("cannot self-update a development version")

func newSelfUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "self-update",
		Short: "Update fut to the latest version",
		Long: `Checks for the latest release of fut on GitHub and replaces the
running binary when a newer version is published. The validator jar is
updated separately with "fut validator update".`,
		RunE: runSelfUpdate,
	}
	cmd.Flags().BoolVar(&selfUpdateCheckOnly, "check", false, "Only report whether a newer release exists")
	return cmd
}

func runSelfUpdate(cmd *cobra.Command, args []string) error {
	current := rootCmd.Version
	if current == "" || current == "dev" {
		return errDevelopmentBuild
	}

	ctx := context.Background()
	var out io.Writer = os.Stdout
	if cmd != nil {
		out = cmd.OutOrStdout()
		if cmd.Context() != nil {
			ctx = cmd.Context()
		}
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{})
	if err != nil {
		return fmt.Errorf("failed to create updater: %w", err)
	}
	latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(githubRepoSlug))
	if err != nil {
		return fmt.Errorf("error detecting latest version: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", githubRepoSlug)
	}
	logging.Debug("SelfUpdate", "Installed %s, latest release %s", current, latest.Version())

	if !latest.GreaterThan(current) {
		fmt.Fprintf(out, "fut %s is up to date\n", current)
		return nil
	}
	if selfUpdateCheckOnly {
		fmt.Fprintf(out, "fut %s is available (installed: %s)\n", latest.Version(), current)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}
	fmt.Fprintf(out, "Updating %s from %s to %s\n", exe, current, latest.Version())
	if err := updater.UpdateTo(ctx, latest, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	fmt.Fprintf(out, "Updated to fut %s\n%s\n", latest.Version(), latest.ReleaseNotes)
	return nil
}
