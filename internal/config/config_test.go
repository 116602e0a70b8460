package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, DefaultExtremesSize, cfg.Pipeline.ExtremesSize)
				assert.True(t, cfg.Security.EnableCORS)
				assert.False(t, cfg.Telemetry.Tracing)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
		{
			name: "env overrides defaults",
			env: map[string]string{
				"ALICE_SERVER_PORT":              "9090",
				"ALICE_PIPELINE_EXTREMES_SIZE":   "5",
				"ALICE_OTEL_TRACING":             "true",
				"ALICE_SECURITY_ALLOWED_ORIGINS": "http://a.test,http://b.test",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 5, cfg.Pipeline.ExtremesSize)
				assert.True(t, cfg.Telemetry.Tracing)
				assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Security.AllowedOrigins)
			},
		},
		{
			name: "file overrides defaults",
			file: `
server:
  port: 7070
pipeline:
  extremes_size: 3
logging:
  level: debug
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, 3, cfg.Pipeline.ExtremesSize)
				assert.Equal(t, "debug", cfg.Logging.Level)
				// untouched keys keep their defaults
				assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
			},
		},
		{
			name: "env takes precedence over file",
			env:  map[string]string{"ALICE_SERVER_PORT": "6060"},
			file: "server:\n  port: 7070\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 6060, cfg.Server.Port)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"ALICE_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name:    "unparseable env value",
			env:     map[string]string{"ALICE_SERVER_PORT": "not-a-port"},
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "server: [unclosed",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			t.Setenv("ALICE_PATHS_BASE_DIR", t.TempDir())

			path := filepath.Join(t.TempDir(), "missing.yaml")
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_ResolvesPaths(t *testing.T) {
	base := t.TempDir()
	t.Setenv("ALICE_PATHS_BASE_DIR", base)
	t.Setenv("ALICE_PATHS_INPUT_DIR", "in")
	t.Setenv("ALICE_PATHS_BOUNDARIES_FILE", "shapes/counties.geojson")

	cfg, err := Load(filepath.Join(base, "none.yaml"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "in"), cfg.Paths.InputDir)
	assert.Equal(t, filepath.Join(base, DefaultOutputDir), cfg.Paths.OutputDir)
	assert.Equal(t, filepath.Join(base, "shapes", "counties.geojson"), cfg.Paths.BoundariesFile)

	paths := cfg.GetPaths()
	assert.Equal(t, filepath.Join(base, DefaultOutputDir, MasterCSVFile), paths.MasterCSVPath())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			modify: func(c *Config) {},
		},
		{
			name:    "zero port",
			modify:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "non-positive read timeout",
			modify:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: "read timeout",
		},
		{
			name:    "non-positive write timeout",
			modify:  func(c *Config) { c.Server.WriteTimeout = -time.Second },
			wantErr: "write timeout",
		},
		{
			name:    "cors without origins",
			modify:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: "allowed origin",
		},
		{
			name:   "no origins needed when cors disabled",
			modify: func(c *Config) { c.Security.EnableCORS = false; c.Security.AllowedOrigins = nil },
		},
		{
			name:    "rate limit without burst",
			modify:  func(c *Config) { c.Security.RateLimit.Burst = 0 },
			wantErr: "rate limit",
		},
		{
			name:    "extremes size below one",
			modify:  func(c *Config) { c.Pipeline.ExtremesSize = 0 },
			wantErr: "extremes size",
		},
		{
			name:    "sample ratio out of range",
			modify:  func(c *Config) { c.Telemetry.SampleRatio = 1.5 },
			wantErr: "sample ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_NormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)

	cfg = Default()
	cfg.Logging.Output = "both"
	cfg.Logging.FilePath = ""
	require.NoError(t, cfg.validate())
	assert.Equal(t, DefaultLogFile, cfg.Logging.FilePath)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1<<20, cfg.Server.MaxHeaderBytes)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, float64(DefaultRateLimitRPS), cfg.Security.RateLimit.RPS)
	assert.Equal(t, DefaultInputDir, cfg.Paths.InputDir)
	assert.Equal(t, DefaultOutputDir, cfg.Paths.OutputDir)
	assert.True(t, cfg.Pipeline.WriteGeoJSON)
	assert.True(t, cfg.Telemetry.Metrics)
}
