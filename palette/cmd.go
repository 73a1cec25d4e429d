package palette

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	List struct {
		File string `help:"RIFF palette file to list instead of the built-in pairs" type:"existingfile"`
	} `cmd:"" help:"List color pairs"`
	Export struct {
		File  string   `arg:"" help:"Destination RIFF palette file"`
		Pairs []string `help:"Pairs to export, all when empty" placeholder:"NAME"`
		Force bool     `help:"Overwrite an existing file" default:"false"`
	} `cmd:"" help:"Write the built-in color pairs to a RIFF palette file"`

	Selected []Pair `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	var err error
	switch kctx.Selected().Name {
	case "list":
		if c.List.File == "" {
			c.Selected = Pairs
		} else if c.Selected, err = LoadFile(c.List.File); err != nil {
			return err
		}
	case "export":
		if c.Export.File, err = filepath.Abs(c.Export.File); err != nil {
			return fmt.Errorf("invalid palette path %q: %w", c.Export.File, err)
		}
		if c.Selected, err = Select(Pairs, c.Export.Pairs); err != nil {
			return err
		}
	}
	return nil
}

func (c *CLICmd) Run(kctx *kong.Context) error {
	switch kctx.Selected().Name {
	case "list":
		for _, p := range c.Selected {
			slog.Info("pair", "name", p.Name,
				"primary", p.Primary.String(), "primaryHex", p.Primary.HexNoAlpha(),
				"secondary", p.Secondary.String(), "secondaryHex", p.Secondary.HexNoAlpha())
		}
		slog.Info("stats", "pairs", len(c.Selected))
	case "export":
		if !c.Export.Force {
			if _, err := os.Stat(c.Export.File); err == nil {
				return fmt.Errorf("destination file already exists: %q", c.Export.File)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("cannot stat destination file %q: %w", c.Export.File, err)
			}
		}
		if err := SaveFile(c.Export.File, c.Selected); err != nil {
			return err
		}
		slog.Info("exported", "file", c.Export.File, "pairs", len(c.Selected))
	}
	return nil
}
