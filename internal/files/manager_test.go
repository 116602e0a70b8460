package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alicedata/internal/config"
	"alicedata/internal/shared/testutil"
)

func newTestManager(t *testing.T) (*Manager, *config.Paths) {
	t.Helper()
	paths := config.NewPaths(t.TempDir(), config.PathsConfig{OutputDir: "out"})
	logger, _ := testutil.NewTestLogger(t)
	return NewManager(paths, logger), paths
}

func TestManager_WriteFile(t *testing.T) {
	manager, paths := newTestManager(t)

	err := manager.WriteFile("geojson/a.geojson", func(w io.Writer) error {
		_, err := fmt.Fprint(w, `{"type":"FeatureCollection"}`)
		return err
	})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(paths.OutputDir, "geojson", "a.geojson"))
	require.NoError(t, err)
	assert.Equal(t, `{"type":"FeatureCollection"}`, string(content))

	assert.True(t, manager.FileExists("geojson/a.geojson"))
	data, err := manager.ReadFile("geojson/a.geojson")
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestManager_WriteFileFailureLeavesTargetUntouched(t *testing.T) {
	manager, paths := newTestManager(t)
	target := filepath.Join(paths.OutputDir, "stats.json")

	require.NoError(t, manager.WriteFile(target, func(w io.Writer) error {
		_, err := io.WriteString(w, "original")
		return err
	}))

	boom := errors.New("encode failed")
	err := manager.WriteFile(target, func(w io.Writer) error {
		io.WriteString(w, "partial")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "original", string(content))

	entries, err := os.ReadDir(paths.OutputDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be removed")
}

func TestManager_EnsureDirectory(t *testing.T) {
	manager, paths := newTestManager(t)

	require.NoError(t, manager.EnsureDirectory("a/b"))
	info, err := os.Stat(filepath.Join(paths.OutputDir, "a", "b"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.False(t, manager.FileExists("missing.txt"))
}
