package encode

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"mathart/raster"
)

// Save encodes img into destDir under FileName(base, ...). The image is
// written to a temporary file first and renamed into place once complete.
// It returns the final path.
func Save(destDir, base string, img *raster.Image, f Format, opts Options) (dest string, err error) {
	destName := FileName(base, f, img.Width(), img.Height())
	dest = filepath.Join(destDir, destName)

	if !opts.Overwrite {
		if err := checkDest(dest); err != nil {
			return "", err
		}
	}

	outFile, err := os.CreateTemp(destDir, "."+destName+".*")
	if err != nil {
		return "", fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	tmpName := outFile.Name()
	defer func() {
		if err != nil {
			if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				slog.Error("could not remove temporary file", "name", tmpName, "error", rmErr)
			}
		}
	}()

	if err = Encode(outFile, img, f, opts); err != nil {
		_ = outFile.Close()
		return "", fmt.Errorf("could not encode %q: %w", destName, err)
	}
	// CreateTemp uses 0600.
	if err = outFile.Chmod(0o644); err != nil {
		_ = outFile.Close()
		return "", fmt.Errorf("could not set mode of %q: %w", destName, err)
	}
	if err = outFile.Sync(); err != nil {
		_ = outFile.Close()
		return "", fmt.Errorf("could not flush temporary destination %q: %w", destName, err)
	}
	if err = outFile.Close(); err != nil {
		return "", fmt.Errorf("could not close temporary destination %q: %w", destName, err)
	}
	if err = os.Rename(tmpName, dest); err != nil {
		return "", fmt.Errorf("could not rename destination file %q: %w", destName, err)
	}

	slog.Debug("saved", "file", dest, "format", f)
	return dest, nil
}

func checkDest(dest string) error {
	info, err := os.Stat(dest)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot stat destination file %q: %w", dest, err)
		}
		return nil
	}
	return fmt.Errorf("destination file already exists: %q", info.Name())
}
