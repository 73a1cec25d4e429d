package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mathart/checker"
	"mathart/encode"
	"mathart/palette"
	"mathart/parallel"
	"mathart/raster"
	"mathart/rgba"
)

type testCLI struct {
	Render CLICmd `cmd:""`
}

func parse(t *testing.T, args ...string) *CLICmd {
	t.Helper()
	var cli testCLI
	parser, err := kong.New(&cli, kong.Name("test"), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	_, err = parser.Parse(append([]string{"render"}, args...))
	require.NoError(t, err)
	return &cli.Render
}

func small(dir string, extra ...string) []string {
	return append([]string{
		"--out", dir,
		"--board-size", "16", "--board-cells", "4",
		"--width", "12", "--height", "16", "--cell", "6", "--radius", "6",
		"--threads", "2",
	}, extra...)
}

func TestDefaults(t *testing.T) {
	c := parse(t)
	assert.True(t, filepath.IsAbs(c.Out))
	assert.Equal(t, "images", filepath.Base(c.Out))
	assert.Len(t, c.ColorPairs, len(palette.Pairs))
	assert.Equal(t, encode.PNG, c.OutFormat)

	require.NotNil(t, c.Board)
	assert.Equal(t, a4Height, c.Board.Width())
	assert.Equal(t, a4Height, c.Board.Height())
	assert.Equal(t, float64(a4Height)/8, c.Board.CellSize())
	assert.Zero(t, c.Board.Radius())

	require.NotNil(t, c.InvertedBoard)
	assert.Equal(t, a4Width, c.InvertedBoard.Width())
	assert.Equal(t, a4Height, c.InvertedBoard.Height())
	assert.Equal(t, float64(a4Width)/2, c.InvertedBoard.CellSize())
	assert.Equal(t, float64(a4Width)/2, c.InvertedBoard.Radius())
}

func TestValidateErrors(t *testing.T) {
	for name, args := range map[string][]string{
		"unknown pair":  {"--pairs", "plaid"},
		"zero cells":    {"--board-cells", "0"},
		"zero width":    {"--width", "0"},
		"bad format":    {"--format", "webp"},
		"bad quality":   {"--jpeg-quality", "0"},
		"missing file":  {"--palette-file", "/does/not/exist.pal"},
		"negative cell": {"--cell=-1"},
	} {
		t.Run(name, func(t *testing.T) {
			var cli testCLI
			parser, err := kong.New(&cli, kong.Exit(func(int) {}))
			require.NoError(t, err)
			_, err = parser.Parse(append([]string{"render"}, args...))
			assert.Error(t, err)
		})
	}
}

func TestOnly(t *testing.T) {
	c := parse(t, "--only", "board", "--width", "0")
	assert.NotNil(t, c.Board)
	assert.Nil(t, c.InvertedBoard)

	c = parse(t, "--only", "inverted", "--board-cells", "0")
	assert.Nil(t, c.Board)
	assert.NotNil(t, c.InvertedBoard)
}

func TestJobs(t *testing.T) {
	c := parse(t, "--pairs", "mint,ocean")
	var names []string
	for _, j := range c.jobs() {
		names = append(names, j.base)
	}
	assert.Equal(t, []string{
		"01-chess-board-mint",
		"01-checker-board-inverted-mint",
		"01-chess-board-ocean",
		"01-checker-board-inverted-ocean",
	}, names)
}

func readPNG(t *testing.T, name string) *raster.Image {
	t.Helper()
	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()
	m, err := png.Decode(f)
	require.NoError(t, err)

	b := m.Bounds()
	img, err := raster.New(b.Dx(), b.Dy(), func(p raster.Pixel) rgba.Color {
		x, y := p.Floor()
		r, g, bl, a := m.At(x, y).RGBA()
		return rgba.New(int(r>>8), int(g>>8), int(bl>>8), int(a>>8))
	})
	require.NoError(t, err)
	return img
}

func TestRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	c := parse(t, small(dir, "--pairs", "ocean,mint")...)

	pool := parallel.Start(2)
	require.NoError(t, c.Run(pool.Do, pool.Wait))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	ocean, _ := palette.Lookup(palette.Pairs, "ocean")
	board, err := checker.New(16, 16, 4, 0)
	require.NoError(t, err)
	want, err := board.Render(ocean, 1)
	require.NoError(t, err)
	assert.Equal(t, want.Pix(), readPNG(t, filepath.Join(dir, "01-chess-board-ocean.png")).Pix())

	inv, err := checker.New(12, 16, 6, 6)
	require.NoError(t, err)
	want, err = inv.RenderInverted(ocean, 1)
	require.NoError(t, err)
	assert.Equal(t, want.Pix(), readPNG(t, filepath.Join(dir, "01-checker-board-inverted-ocean.png")).Pix())

	pool = parallel.Start(1)
	err = c.Run(pool.Do, pool.Wait)
	assert.ErrorContains(t, err, "error rendering 4 images")

	c = parse(t, small(dir, "--pairs", "ocean,mint", "--force")...)
	pool = parallel.Start(1)
	assert.NoError(t, c.Run(pool.Do, pool.Wait))
}

func TestRunRawZst(t *testing.T) {
	dir := t.TempDir()
	c := parse(t, small(dir, "--pairs", "steel", "--only", "board", "--format", "raw.zst")...)
	pool := parallel.Start(1)
	require.NoError(t, c.Run(pool.Do, pool.Wait))

	f, err := os.Open(filepath.Join(dir, "01-chess-board-steel.16x16.rgba.zst"))
	require.NoError(t, err)
	defer f.Close()
	pix, err := encode.ReadRaw(f, encode.RawZst)
	require.NoError(t, err)
	assert.Len(t, pix, 16*16*4)
}

func TestRunWithPaletteFile(t *testing.T) {
	dir := t.TempDir()
	pal := filepath.Join(dir, "bw.pal")
	require.NoError(t, palette.SaveFile(pal, []palette.Pair{{Name: "bw", Primary: rgba.Black, Secondary: rgba.White}}))

	c := parse(t, small(filepath.Join(dir, "out"), "--palette-file", pal, "--only", "board")...)
	require.Len(t, c.ColorPairs, 1)
	pool := parallel.Start(1)
	require.NoError(t, c.Run(pool.Do, pool.Wait))

	img := readPNG(t, filepath.Join(dir, "out", "01-chess-board-pal0.png"))
	for p, want := range map[raster.Pixel]rgba.Color{
		raster.Pt(0, 0): rgba.Black,
		raster.Pt(3, 3): rgba.Black,
		raster.Pt(4, 0): rgba.White,
		raster.Pt(4, 4): rgba.Black,
	} {
		c, err := img.Get(p)
		require.NoError(t, err)
		assert.Equal(t, want, c, "%v", p)
	}
}

func TestDrawLabel(t *testing.T) {
	pair := palette.Pair{Name: "bw", Primary: rgba.Black, Secondary: rgba.White}
	img, err := raster.New(200, 100, func(raster.Pixel) rgba.Color { return rgba.Red })
	require.NoError(t, err)

	drawLabel(img, "bw", pair)

	counts := map[rgba.Color]int{}
	for p := range img.All() {
		c, err := img.Get(p)
		require.NoError(t, err)
		counts[c]++
	}
	assert.Positive(t, counts[rgba.Black], "text")
	assert.Positive(t, counts[rgba.White], "backdrop")
	assert.Greater(t, counts[rgba.Red], counts[rgba.Black]+counts[rgba.White], "label stays small")

	c, err := img.Get(raster.Pt(199, 0))
	require.NoError(t, err)
	assert.Equal(t, rgba.Red, c, "top right untouched")
	c, err = img.Get(raster.Pt(0, 99))
	require.NoError(t, err)
	assert.Equal(t, rgba.Red, c, "margin untouched")
}

func TestDrawLabelTinyImage(t *testing.T) {
	img, err := raster.NewBlank(3, 3)
	require.NoError(t, err)
	assert.NotPanics(t, func() { drawLabel(img, "cosmic inverted", palette.Pairs[9]) })
}
