package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	base := t.TempDir()
	abs := filepath.Join(t.TempDir(), "raw")

	tests := []struct {
		name       string
		cfg        PathsConfig
		wantInput  string
		wantOutput string
		wantBounds string
	}{
		{
			name:       "empty config uses defaults",
			cfg:        PathsConfig{},
			wantInput:  filepath.Join(base, DefaultInputDir),
			wantOutput: filepath.Join(base, DefaultOutputDir),
		},
		{
			name:       "absolute paths are kept",
			cfg:        PathsConfig{InputDir: abs, OutputDir: "out", BoundariesFile: "b.geojson"},
			wantInput:  abs,
			wantOutput: filepath.Join(base, "out"),
			wantBounds: filepath.Join(base, "b.geojson"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaths(base, tt.cfg)
			assert.Equal(t, tt.wantInput, p.InputDir)
			assert.Equal(t, tt.wantOutput, p.OutputDir)
			assert.Equal(t, tt.wantBounds, p.BoundariesFile)
			assert.Equal(t, filepath.Join(tt.wantOutput, GeoJSONDir), p.GeoJSONDir)
		})
	}
}

func TestPathHelperMethods(t *testing.T) {
	base := t.TempDir()
	p := NewPaths(base, PathsConfig{OutputDir: "out"})
	out := filepath.Join(base, "out")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"master csv", p.MasterCSVPath(), filepath.Join(out, "alice_master_database.csv")},
		{"master json", p.MasterJSONPath(), filepath.Join(out, "alice_master_database.json")},
		{"enhanced json", p.EnhancedJSONPath(), filepath.Join(out, "alice_master_enhanced.json")},
		{"statistics", p.StatisticsJSONPath(), filepath.Join(out, "alice_statistics.json")},
		{"geojson year", p.GeoJSONYearPath(2022), filepath.Join(out, "geojson", "alice_counties_2022.geojson")},
		{"geojson master", p.GeoJSONMasterPath(), filepath.Join(out, "geojson", "alice_counties_master.geojson")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestEnsureOutputDirectories(t *testing.T) {
	p := NewPaths(t.TempDir(), PathsConfig{OutputDir: "nested/out"})
	require.NoError(t, p.EnsureOutputDirectories())

	for _, dir := range []string{p.OutputDir, p.GeoJSONDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(filepath.Join(dir, "absent.txt")))
}
