package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/garrettladley/ksclock/internal/client/github"
	"github.com/garrettladley/ksclock/internal/version"
)

func upgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Check for updates and install if available",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			currentVersion := version.Get()

			latest, err := github.NewClient().GetLatestRelease(ctx, "garrettladley", "ksclock")
			if err != nil {
				return fmt.Errorf("failed to check for updates: %w", err)
			}

			if !version.IsNewer(currentVersion, latest.TagName) {
				fmt.Printf("ksclock is up to date (%s)\n", currentVersion)
				return nil
			}

			fmt.Printf("Updating ksclock %s → %s\n", currentVersion, latest.TagName)

			if version.IsHomebrew() {
				return run(ctx, "brew", "upgrade", "ksclock")
			}
			return run(ctx, "go", "install", "github.com/garrettladley/ksclock/cmd/ksclock@latest")
		},
	}
}

func run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}
