package encode

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

func writeRaw(w io.Writer, pix []uint8) error {
	n, err := w.Write(pix)
	if err != nil {
		return err
	} else if n != len(pix) {
		return fmt.Errorf("wrote only %d/%d bytes", n, len(pix))
	}
	return nil
}

func writeRawZstd(w io.Writer, pix []uint8) error {
	enc, err := zstd.NewWriter(w,
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithEncoderConcurrency(1),
		zstd.WithLowerEncoderMem(true),
	)
	if err != nil {
		return fmt.Errorf("zstd encoder: %w", err)
	}
	if err := writeRaw(enc, pix); err != nil {
		enc.Close()
		return fmt.Errorf("zstd encode: %w", err)
	}
	return enc.Close()
}

// ReadRaw reads back a buffer written in the Raw or RawZst format.
func ReadRaw(r io.Reader, f Format) ([]uint8, error) {
	switch f {
	case Raw:
		return io.ReadAll(r)
	case RawZst:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("zstd decoder: %w", err)
		}
		defer dec.Close()

		pix, err := io.ReadAll(dec)
		if err != nil {
			return nil, fmt.Errorf("zstd decode: %w", err)
		}
		return pix, nil
	default:
		return nil, fmt.Errorf("not a raw format: %s", f)
	}
}
