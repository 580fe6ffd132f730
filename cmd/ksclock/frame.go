package main

import (
	"fmt"
	"image"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/garrettladley/ksclock/internal/canvas/braille"
	"github.com/garrettladley/ksclock/internal/canvas/raster"
	"github.com/garrettladley/ksclock/internal/config"
	"github.com/garrettladley/ksclock/internal/face"
	"github.com/garrettladley/ksclock/internal/message"
	"github.com/garrettladley/ksclock/internal/settings"
	"github.com/garrettladley/ksclock/internal/tick"
	"github.com/garrettladley/ksclock/internal/weather"
)

const (
	fallbackCols = 80
	fallbackRows = 24
)

type frameOptions struct {
	png         string
	scale       float64
	at          string
	temperature int
	icon        string
}

func frameCmd() *cobra.Command {
	var opts frameOptions

	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Draw a single frame of the face and exit",
		Long: "Renders the fully revealed face once, either to the terminal or, " +
			"with --png, to an image at the reference resolution times --scale.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.LoadClock(configPath)
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
			store, err := openStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to open settings store: %w", err)
			}
			defer func() { _ = store.Close() }()

			live, err := settings.Load(ctx, store)
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}

			now := time.Now()
			if opts.at != "" {
				if now, err = parseAt(opts.at, now); err != nil {
					return err
				}
			}

			state := face.NewState(live.BackgroundColor)
			tick.NewScheduler(&live, nil).Handle(now).Apply(state)

			if cmd.Flags().Changed("temperature") || cmd.Flags().Changed("icon") {
				in := message.Inbound{
					WeatherOn:   message.Bool(true),
					Temperature: message.Int(opts.temperature),
					Icon:        message.String(opts.icon),
				}
				// preview only, so nothing is written back to the real store
				if err := message.Apply(ctx, in, &live, state, settings.NewMemoryStore()); err != nil {
					return err
				}
			}

			if opts.png != "" {
				return writePNG(opts.png, state, opts.scale)
			}

			var canvasOpts []braille.Option
			if cfg.Face.Monochrome {
				canvasOpts = append(canvasOpts, braille.WithMonochrome())
			}
			cols, rows := terminalSize()
			c := braille.New(cols, rows-1, canvasOpts...)
			draw(c, state)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), c.String())
			return err
		},
	}

	cmd.Flags().StringVar(&opts.png, "png", "", "write a PNG to this path instead of the terminal")
	cmd.Flags().Float64Var(&opts.scale, "scale", 1, "PNG size relative to the 144x168 reference screen")
	cmd.Flags().StringVar(&opts.at, "at", "", "time to show, as HH:MM or RFC 3339 (default now)")
	cmd.Flags().IntVar(&opts.temperature, "temperature", 0, "preview a temperature")
	cmd.Flags().StringVar(&opts.icon, "icon", "", "preview an OpenWeatherMap icon code, e.g. 01d")
	return cmd
}

// draw renders a fully revealed face onto c.
func draw(c face.TextCanvas, state *face.State) {
	bounds := c.Bounds()
	scale := face.ScaleFor(bounds)
	g := face.NewGeometry(bounds, scale)

	state.Radius = g.FinalRadius
	face.Render(c, state, g)
	face.RenderText(c, state, face.Layout(bounds, scale), weather.Glyph)
}

func writePNG(path string, state *face.State, scale float64) error {
	if scale <= 0 {
		return fmt.Errorf("scale must be positive, got %g", scale)
	}
	size := image.Pt(int(face.ReferenceWidth*scale), int(face.ReferenceHeight*scale))
	c := raster.New(size.X, size.Y)
	draw(c, state)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := c.WritePNG(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return f.Close()
}

func terminalSize() (cols, rows int) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 1 {
		return fallbackCols, fallbackRows
	}
	return cols, rows
}

// parseAt accepts a full timestamp or a wall-clock time on today's date.
func parseAt(s string, today time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	hm, err := time.ParseInLocation("15:04", s, today.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q: want HH:MM or RFC 3339", s)
	}
	y, m, d := today.Date()
	return time.Date(y, m, d, hm.Hour(), hm.Minute(), 0, 0, today.Location()), nil
}
