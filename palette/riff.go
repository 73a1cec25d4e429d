package palette

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/image/riff"

	"mathart/rgba"
)

/*
Pairs are stored as a Microsoft RIFF palette, one "data" chunk per pair:

typedef struct tagLOGPALETTE {
  WORD         palVersion;    // 0x0300
  WORD         palNumEntries; // 2: primary, secondary
  PALETTEENTRY palPalEntry[1];
} LOGPALETTE;

typedef struct tagPALETTEENTRY {
  BYTE peRed;
  BYTE peGreen;
  BYTE peBlue;
  BYTE peFlags;
} PALETTEENTRY;
*/

const palVersion = 0x0300

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

// ReadPairs decodes a RIFF palette. Consecutive entries form a pair; the
// pairs are named pal0, pal1 and so on. PAL entries carry no alpha so every
// color is opaque.
func ReadPairs(r io.Reader) ([]Pair, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return nil, fmt.Errorf("unsupported RIFF content type: %s", string(formType[:]))
	}

	var pairs []Pair
	if err := readChunks(rd, string(formType[:]), &pairs); err != nil {
		return pairs, err
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("no color pairs in palette")
	}
	return pairs, nil
}

func readChunks(r *riff.Reader, ident string, pairs *[]Pair) error {
	for i := 0; ; i++ {
		id, size, data, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("could not read chunk %q#%d: %w", ident, i, err)
		}

		switch id {
		case riff.LIST:
			listType, list, err := riff.NewListReader(size, data)
			if err != nil {
				return fmt.Errorf("could not read list from chunk %q#%d: %w", ident, i, err)
			} else if listType != palType {
				return fmt.Errorf("chunk %q#%d unsupported type: %s", ident, i, string(listType[:]))
			}
			if err := readChunks(list, fmt.Sprintf("%s%d.%s", ident, i, listType[:]), pairs); err != nil {
				return err
			}
		case dataType:
			cols, err := readEntries(data, fmt.Sprintf("%s%d", ident, i))
			if err != nil {
				return err
			}
			if len(cols)%2 != 0 {
				return fmt.Errorf("chunk %s%d has an odd number of colors: %d", ident, i, len(cols))
			}
			for j := 0; j < len(cols); j += 2 {
				*pairs = append(*pairs, Pair{
					Name:      fmt.Sprintf("pal%d", len(*pairs)),
					Primary:   cols[j],
					Secondary: cols[j+1],
				})
			}
		default:
			return fmt.Errorf("unsupported chunk type in %q#%d: %s", ident, i, string(id[:]))
		}
	}
}

func readEntries(r io.Reader, ident string) ([]rgba.Color, error) {
	buf := make([]byte, 4)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("could not read header from chunk %s: %w", ident, err)
	}

	if ver := binary.LittleEndian.Uint16(buf[0:2]); ver != palVersion {
		return nil, fmt.Errorf("unsupported palette version in chunk %s: %#x", ident, ver)
	}

	count := binary.LittleEndian.Uint16(buf[2:4])
	res := make([]rgba.Color, count)
	for i := range count {
		if _, err := io.ReadFull(r, buf); err != nil {
			return res, fmt.Errorf("could not read color %d/%d from chunk %s: %w", i, count, ident, err)
		}
		res[i] = rgba.Opaque(int(buf[0]), int(buf[1]), int(buf[2]))
	}

	return res, nil
}

// WritePairs encodes pairs as a RIFF palette with one chunk per pair. Alpha
// is dropped.
func WritePairs(w io.Writer, pairs []Pair) (int64, error) {
	const chunkSize = 4 + 2*4 // palVersion + palNumEntries + 2 entries
	n := 4 + len(pairs)*(4+4+chunkSize)

	var count int64
	for _, b := range [][]byte{
		riffType[:],
		binary.LittleEndian.AppendUint32(nil, uint32(n)),
		palType[:],
	} {
		if err := writeBytes(w, b, &count); err != nil {
			return count, fmt.Errorf("could not write RIFF header: %w", err)
		}
	}

	for i, p := range pairs {
		if err := writePair(w, p, chunkSize, &count); err != nil {
			return count, fmt.Errorf("could not write chunk %d (%s): %w", i, p.Name, err)
		}
	}

	return count, nil
}

func writePair(w io.Writer, p Pair, size int, count *int64) error {
	chunk := make([]byte, 0, 8+size)
	chunk = append(chunk, dataType[:]...)
	chunk = binary.LittleEndian.AppendUint32(chunk, uint32(size))
	chunk = binary.LittleEndian.AppendUint16(chunk, palVersion)
	chunk = binary.LittleEndian.AppendUint16(chunk, 2)
	for _, c := range []rgba.Color{p.Primary, p.Secondary} {
		chunk = append(chunk, c.R(), c.G(), c.B(), 0x00)
	}
	return writeBytes(w, chunk, count)
}

func writeBytes(w io.Writer, b []byte, count *int64) error {
	n, err := w.Write(b)
	*count += int64(n)
	if err != nil {
		return err
	} else if n != len(b) {
		return fmt.Errorf("wrote only %d/%d bytes", n, len(b))
	}

	return nil
}

// LoadFile reads pairs from a RIFF palette file.
func LoadFile(name string) ([]Pair, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open palette %q: %w", name, err)
	}
	defer f.Close()

	pairs, err := ReadPairs(f)
	if err != nil {
		return nil, fmt.Errorf("could not load palette %q: %w", name, err)
	}
	return pairs, nil
}

// SaveFile writes pairs to a RIFF palette file, replacing it.
func SaveFile(name string, pairs []Pair) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("could not create palette %q: %w", name, err)
	}

	if _, err := WritePairs(f, pairs); err != nil {
		f.Close()
		return fmt.Errorf("could not save palette %q: %w", name, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("could not flush palette %q: %w", name, err)
	}
	return f.Close()
}
