package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/garrettladley/ksclock/internal/version"
	"github.com/garrettladley/ksclock/internal/xslog"
)

var (
	// configPath is bound to the persistent --config flag.
	configPath string
	// logLevel starts from LOG_LEVEL and is overridden by --log-level.
	logLevel xslog.Level
)

func main() {
	_ = godotenv.Load()
	logLevel = xslog.FromEnv()

	rootCmd := &cobra.Command{
		Use:     "ksclock",
		Short:   "An analog clock face for your terminal",
		Version: version.Get(),
		RunE:    runClock,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().Var(&logLevel, "log-level", "log verbosity: debug, info, warn or error")

	rootCmd.AddCommand(frameCmd())
	rootCmd.AddCommand(settingsCmd())
	rootCmd.AddCommand(upgradeCmd())
	addDevCommands(rootCmd)

	if err := fang.Execute(context.Background(), rootCmd, fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM)); err != nil {
		os.Exit(1)
	}
}
