package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Paths is the single source of truth for file locations used by the
// processor and the web server
type Paths struct {
	BaseDir        string
	InputDir       string
	OutputDir      string
	GeoJSONDir     string
	BoundariesFile string
	LogsDir        string
}

// NewPaths resolves the configured paths against base
func NewPaths(base string, cfg PathsConfig) *Paths {
	p := &Paths{BaseDir: filepath.Clean(base)}
	p.InputDir = p.Resolve(orDefault(cfg.InputDir, DefaultInputDir))
	p.OutputDir = p.Resolve(orDefault(cfg.OutputDir, DefaultOutputDir))
	p.GeoJSONDir = filepath.Join(p.OutputDir, GeoJSONDir)
	p.LogsDir = p.Resolve(orDefault(cfg.LogsDir, DefaultLogsDir))
	if cfg.BoundariesFile != "" {
		p.BoundariesFile = p.Resolve(cfg.BoundariesFile)
	}
	return p
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// Resolve returns path unchanged when absolute, otherwise joined onto BaseDir
func (p *Paths) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.BaseDir, path)
}

// EnsureOutputDirectories creates the output tree written by the processor
func (p *Paths) EnsureOutputDirectories() error {
	for _, dir := range []string{p.OutputDir, p.GeoJSONDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// MasterCSVPath returns the path of the flat CSV database
func (p *Paths) MasterCSVPath() string {
	return filepath.Join(p.OutputDir, MasterCSVFile)
}

// MasterJSONPath returns the path of the record array JSON
func (p *Paths) MasterJSONPath() string {
	return filepath.Join(p.OutputDir, MasterJSONFile)
}

// EnhancedJSONPath returns the path of the metadata plus records JSON
func (p *Paths) EnhancedJSONPath() string {
	return filepath.Join(p.OutputDir, EnhancedJSONFile)
}

// StatisticsJSONPath returns the path of the aggregate report
func (p *Paths) StatisticsJSONPath() string {
	return filepath.Join(p.OutputDir, StatisticsJSONFile)
}

// GeoJSONYearPath returns the county FeatureCollection path for one year
func (p *Paths) GeoJSONYearPath(year int) string {
	return filepath.Join(p.GeoJSONDir, fmt.Sprintf("alice_counties_%d.geojson", year))
}

// GeoJSONMasterPath returns the FeatureCollection path for the latest year
func (p *Paths) GeoJSONMasterPath() string {
	return filepath.Join(p.GeoJSONDir, GeoJSONMasterFile)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
