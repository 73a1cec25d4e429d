package render

import (
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/alecthomas/kong"

	"mathart/checker"
	"mathart/encode"
	"mathart/palette"
	"mathart/parallel"
	"mathart/raster"
)

// Defaults match an A4 page at 300 dpi.
const (
	a4Width  = 2480
	a4Height = 3508
)

type CLICmd struct {
	Out         string   `help:"Destination folder for rendered images" default:"images"`
	Pairs       []string `help:"Color pairs to render, all when empty" placeholder:"NAME"`
	PaletteFile string   `help:"RIFF palette file replacing the built-in color pairs" type:"existingfile"`
	Only        string   `help:"Boards to render" enum:"all,board,inverted" default:"all"`
	Force       bool     `help:"Overwrite existing images" default:"false"`
	Label       bool     `help:"Print the pair name in the bottom left corner" default:"false"`
	Threads     int      `help:"Goroutines per image, 0 for one per CPU" default:"0"`

	BoardSize  int     `help:"Chess board side in pixels" default:"3508" group:"board"`
	BoardCells float64 `help:"Cells per chess board side" default:"8" group:"board"`

	Width  int     `help:"Inverted board width in pixels" default:"2480" group:"inverted"`
	Height int     `help:"Inverted board height in pixels" default:"3508" group:"inverted"`
	Cell   float64 `help:"Inverted board cell size in pixels" default:"1240" group:"inverted"`
	Radius float64 `help:"Circle inversion radius in pixels, 0 maps everything to the centre cell" default:"1240" group:"inverted"`

	Format         string `help:"Output format" enum:"png,bmp,tiff,gif,jpeg,raw,raw.zst" default:"png" group:"output"`
	PNGCompression string `name:"png-compression" help:"PNG compression level" enum:"default,none,fast,best" default:"default" group:"output"`
	JPEGQuality    int    `name:"jpeg-quality" help:"JPEG quality (1-100)" default:"100" group:"output"`

	ColorPairs    []palette.Pair `kong:"-"`
	Board         *checker.Board `kong:"-"`
	InvertedBoard *checker.Board `kong:"-"`
	Options       encode.Options `kong:"-"`
	OutFormat     encode.Format  `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	out, err := filepath.Abs(c.Out)
	if err != nil {
		return fmt.Errorf("invalid destination path %q: %w", c.Out, err)
	}
	c.Out = out

	pairs := palette.Pairs
	if c.PaletteFile != "" {
		if pairs, err = palette.LoadFile(c.PaletteFile); err != nil {
			return err
		}
	}
	if c.ColorPairs, err = palette.Select(pairs, c.Pairs); err != nil {
		return err
	}

	if c.Only != "inverted" {
		if !(c.BoardCells > 0) {
			return fmt.Errorf("invalid number of board cells: %v", c.BoardCells)
		}
		if c.Board, err = checker.New(c.BoardSize, c.BoardSize, float64(c.BoardSize)/c.BoardCells, 0); err != nil {
			return fmt.Errorf("invalid chess board: %w", err)
		}
	}
	if c.Only != "board" {
		if c.InvertedBoard, err = checker.New(c.Width, c.Height, c.Cell, c.Radius); err != nil {
			return fmt.Errorf("invalid inverted board: %w", err)
		}
	}

	if c.OutFormat, err = encode.ParseFormat(c.Format); err != nil {
		return err
	}

	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("invalid JPEG quality: %d", c.JPEGQuality)
	}
	c.Options = encode.Options{
		PNGCompression: pngCompression[c.PNGCompression],
		JPEGQuality:    c.JPEGQuality,
		Overwrite:      c.Force,
	}

	return nil
}

var pngCompression = map[string]png.CompressionLevel{
	"default": png.DefaultCompression,
	"none":    png.NoCompression,
	"fast":    png.BestSpeed,
	"best":    png.BestCompression,
}

// job is one image to render.
type job struct {
	base     string
	board    *checker.Board
	inverted bool
	pair     palette.Pair
}

func (c *CLICmd) jobs() []job {
	var jobs []job
	for _, pair := range c.ColorPairs {
		if c.Board != nil {
			jobs = append(jobs, job{
				base:  "01-chess-board-" + pair.Name,
				board: c.Board,
				pair:  pair,
			})
		}
		if c.InvertedBoard != nil {
			jobs = append(jobs, job{
				base:     "01-checker-board-inverted-" + pair.Name,
				board:    c.InvertedBoard,
				inverted: true,
				pair:     pair,
			})
		}
	}
	return jobs
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if err := os.MkdirAll(c.Out, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Out, err)
	}

	jobs := c.jobs()
	slog.Info("rendering", "images", len(jobs), "pairs", len(c.ColorPairs), "dir", c.Out, "format", c.OutFormat)

	var renderedCount, errCount atomic.Uint64
	for _, j := range jobs {
		worker(func() error {
			logger := slog.Default().With("pair", j.pair.Name, "file", j.base)
			if err := c.render(logger, j); err != nil {
				errCount.Add(1)
				logger.Error("could not render image", "error", err)
				return fmt.Errorf("%s: %w", j.base, err)
			}
			renderedCount.Add(1)
			return nil
		})
	}

	err := wait(true)

	rendered := renderedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "rendered", rendered, "errors", errors, "total", rendered+errors)

	if err != nil {
		return fmt.Errorf("error rendering %d images: %w", errors, err)
	}
	return nil
}

func (c *CLICmd) render(logger *slog.Logger, j job) error {
	logger.Info("starting", "width", j.board.Width(), "height", j.board.Height(), "inverted", j.inverted)

	var (
		img *raster.Image
		err error
	)
	if j.inverted {
		img, err = j.board.RenderInverted(j.pair, c.Threads)
	} else {
		img, err = j.board.Render(j.pair, c.Threads)
	}
	if err != nil {
		return err
	}

	if c.Label {
		text := j.pair.Name
		if j.inverted {
			text += " inverted"
		}
		drawLabel(img, text, j.pair)
	}

	dest, err := encode.Save(c.Out, j.base, img, c.OutFormat, c.Options)
	if err != nil {
		return err
	}
	logger.Info("saved", "dest", dest)
	return nil
}
