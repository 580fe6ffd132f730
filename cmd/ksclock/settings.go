package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/garrettladley/ksclock/internal/config"
	"github.com/garrettladley/ksclock/internal/settings"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect or edit the persisted face settings",
	}
	cmd.AddCommand(settingsGetCmd(), settingsSetCmd(), settingsResetCmd())
	return cmd
}

func withStore(cmd *cobra.Command, fn func(settings.Store) error) error {
	cfg, err := config.LoadClock(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	store, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to open settings store: %w", err)
	}
	defer func() { _ = store.Close() }()
	return fn(store)
}

func settingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Print one setting, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store settings.Store) error {
				s, err := settings.Load(cmd.Context(), store)
				if err != nil {
					return err
				}
				if len(args) == 1 {
					key, err := settings.ParseKey(args[0])
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(cmd.OutOrStdout(), s.Value(key))
					return err
				}
				return printSettings(cmd.OutOrStdout(), s)
			})
		},
	}
}

func settingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Persist a setting",
		Long:  "Flags take true/false. background_color takes #RRGGBB, 0xRRGGBB or a decimal value.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := settings.ParseKey(args[0])
			if err != nil {
				return err
			}
			value, err := settings.ParseValue(key, args[1])
			if err != nil {
				return err
			}
			return withStore(cmd, func(store settings.Store) error {
				return store.Set(cmd.Context(), key, value)
			})
		},
	}
}

func settingsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget every persisted setting so defaults apply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, func(store settings.Store) error {
				for _, key := range settings.Keys {
					if err := store.Delete(cmd.Context(), key); err != nil {
						return fmt.Errorf("failed to delete %s: %w", key, err)
					}
				}
				return nil
			})
		},
	}
}

func printSettings(w io.Writer, s settings.Settings) error {
	for _, key := range settings.Keys {
		if _, err := fmt.Fprintf(w, "%-17s %s\n", key, s.Value(key)); err != nil {
			return err
		}
	}
	return nil
}
