package main

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/garrettladley/ksclock/internal/companion"
	"github.com/garrettladley/ksclock/internal/config"
	"github.com/garrettladley/ksclock/internal/message"
	"github.com/garrettladley/ksclock/internal/settings"
	"github.com/garrettladley/ksclock/internal/tui"
	"github.com/garrettladley/ksclock/internal/xslog"
)

const inboundBuffer = 8

func runClock(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadClock(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	logger, logFile, err := openLog()
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	ctx, cancel := context.WithCancel(xslog.WithLogger(cmd.Context(), logger))
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open settings store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.ErrorContext(ctx, "failed to close settings store", xslog.Error(err))
		}
	}()

	live, err := settings.Load(ctx, store)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	logger.InfoContext(ctx, "starting clock",
		xslog.Version(),
		xslog.DeviceID(cfg.DeviceID),
		xslog.Settings(live),
	)

	inbound := make(chan message.Inbound, inboundBuffer)
	deps := tui.Deps{
		Ctx:           ctx,
		Logger:        logger,
		Settings:      &live,
		Store:         store,
		Inbound:       inbound,
		Monochrome:    cfg.Face.Monochrome,
		FrameInterval: cfg.Face.FrameInterval,
	}

	var (
		client  *companion.Client
		program *tea.Program
	)
	if cfg.Companion.URL != "" {
		client = companion.NewClient(companion.ClientConfig{
			BaseURL:  cfg.Companion.URL,
			Token:    cfg.Companion.Token,
			DeviceID: cfg.DeviceID,
			Logger:   logger,
			OnStatus: func(connected bool) {
				program.Send(tui.LinkStatusMsg{Connected: connected})
			},
		})
		deps.Requester = client
	} else {
		logger.InfoContext(ctx, "no companion configured, running offline")
	}

	program = tea.NewProgram(tui.New(deps))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		_, err := program.Run()
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		program.Quit()
		return nil
	})
	if client != nil {
		g.Go(func() error {
			err := client.Subscribe(gctx, func(in message.Inbound) {
				select {
				case inbound <- in:
				case <-gctx.Done():
				}
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	return g.Wait()
}
