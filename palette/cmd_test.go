package palette

import (
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCLI struct {
	Palette CLICmd `cmd:""`
}

func run(t *testing.T, args ...string) (*CLICmd, error) {
	t.Helper()
	var cli testCLI
	parser, err := kong.New(&cli, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	kctx, err := parser.Parse(append([]string{"palette"}, args...))
	if err != nil {
		return nil, err
	}
	return &cli.Palette, kctx.Run()
}

func TestExportAndList(t *testing.T) {
	name := filepath.Join(t.TempDir(), "pairs.pal")

	c, err := run(t, "export", name, "--pairs", "ocean,cosmic")
	require.NoError(t, err)
	assert.Equal(t, []string{"ocean", "cosmic"}, Names(c.Selected))

	c, err = run(t, "list", "--file", name)
	require.NoError(t, err)
	require.Len(t, c.Selected, 2)
	assert.Equal(t, Pairs[9].Primary, c.Selected[1].Primary)

	_, err = run(t, "export", name)
	assert.ErrorContains(t, err, "already exists")

	c, err = run(t, "export", name, "--force")
	require.NoError(t, err)
	assert.Len(t, c.Selected, len(Pairs))
}

func TestListBuiltin(t *testing.T) {
	c, err := run(t, "list")
	require.NoError(t, err)
	assert.Equal(t, Pairs, c.Selected)
}

func TestExportUnknownPair(t *testing.T) {
	_, err := run(t, "export", filepath.Join(t.TempDir(), "x.pal"), "--pairs", "plaid")
	assert.Error(t, err)
}
