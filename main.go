package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"mathart/palette"
	"mathart/parallel"
	"mathart/render"
)

var cli struct {
	Workers int  `help:"Images rendered concurrently, 0 for one per CPU" default:"2"`
	Verbose bool `help:"Log debug messages" short:"v"`
	LogJSON bool `name:"log-json" help:"Log as JSON"`

	Render  render.CLICmd  `cmd:"" default:"withargs" help:"Render checkerboards and inverted checkerboards for each color pair"`
	Palette palette.CLICmd `cmd:"" help:"Inspect and export color pairs"`
}

func setupLogging() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cli.Verbose {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cli.LogJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("mathart"),
		kong.Description("Renders checkerboards and their circle inversions."),
		kong.UsageOnError(),
	)
	setupLogging()

	pool := parallel.Start(cli.Workers)
	defer pool.Cancel()

	if err := kctx.Run(pool.Do, pool.Wait); err != nil {
		slog.Error("failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}
