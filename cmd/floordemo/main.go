// Command floordemo generates a tile world and draws it with the floor
// renderer, either on the terminal through the preview backend or headless
// through the native backend on a noop device.
//
// Usage:
//
//	floordemo [--seed N] [--size N] [--config floor.yaml] [--backend native|preview]
//
// Keys: arrows pan, f floods water, w toggles a wall, + and - zoom,
// q or Esc quits.
package main

import (
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/gogpu/floor"
	"github.com/gogpu/floor/backend"
)

func main() {
	app := &cli.App{
		Name:  "floordemo",
		Usage: "draw a generated tile floor with the chunked floor renderer",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "seed", Value: 1, Usage: "terrain seed"},
			&cli.IntFlag{Name: "size", Value: 128, Usage: "world width and height in tiles"},
			&cli.StringFlag{Name: "config", EnvVars: []string{floor.ConfigEnv}, Usage: "YAML layer config"},
			&cli.StringFlag{Name: "backend", Usage: "backend name (native, preview); empty picks the default"},
			&cli.IntFlag{Name: "frames", Usage: "stop after this many frames; 0 runs until quit"},
			&cli.IntFlag{Name: "zoom", Value: 1, Usage: "screen pixels per world pixel"},
			&cli.DurationFlag{Name: "interval", Value: 50 * time.Millisecond, Usage: "frame interval"},
			&cli.StringFlag{Name: "metrics", Usage: "serve Prometheus metrics on this address"},
			&cli.StringFlag{Name: "log", Usage: "write debug logs to this file"},
		},
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	set := settings{
		seed:     c.Int64("seed"),
		size:     c.Int("size"),
		backend:  c.String("backend"),
		frames:   c.Int("frames"),
		zoom:     c.Int("zoom"),
		interval: c.Duration("interval"),
	}

	cfg, err := floor.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if set.backend == "" {
		set.backend = cfg.Backend
	}

	var out io.Writer = io.Discard
	if path := c.String("log"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	floor.SetLogger(logger)

	var reg prometheus.Registerer
	if addr := c.String("metrics"); addr != "" {
		reg = prometheus.DefaultRegisterer
		go func() {
			if err := http.ListenAndServe(addr, promhttp.Handler()); err != nil {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
	}

	// The native backend runs headless; everything else draws on the terminal.
	var screen tcell.Screen
	if set.backend != backend.BackendNative {
		s, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		if err := s.Init(); err != nil {
			return err
		}
		defer s.Fini()
		screen = s
	}

	d, err := newDemo(set, cfg, screen, reg, logger)
	if err != nil {
		return err
	}
	defer d.Close()

	start := time.Now()
	if err := d.run(set.frames, set.interval); err != nil {
		return err
	}
	logger.Info("done", "frames", d.frames, "elapsed", time.Since(start))
	return nil
}
