package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yjk624/shinryeong/pkg/services/analysis"
	"github.com/yjk624/shinryeong/pkg/services/solartime"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, solartime.DefaultSettings(), cfg.SolarTimeSettings())
	assert.Equal(t, analysis.DefaultSettings(), cfg.AnalysisSettings())
	assert.False(t, cfg.PillarSettings().LateRatHourAdvancesDay)
	assert.Equal(t, ProviderChain, cfg.Geocoder.Provider)
	assert.Equal(t, 5*time.Second, cfg.Geocoder.Timeout)
	assert.Equal(t, SourceEmbedded, cfg.Knowledge.Source)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel())
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	// Given
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
solar_time:
  standard_meridian: 120
pillars:
  late_rat_hour_advances_day: true
geocoder:
  provider: gazetteer
  timeout: 2s
knowledge:
  source: dir
  dir: /srv/kb
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("SHINRYEONG_ANALYSIS_STRONG_THRESHOLD", "5")
	t.Setenv("SHINRYEONG_SOLAR_TIME_ENABLED", "false")

	// When
	cfg, err := Load(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, 120.0, cfg.SolarTime.StandardMeridian)
	assert.False(t, cfg.SolarTime.Enabled)
	assert.True(t, cfg.Pillars.LateRatHourAdvancesDay)
	assert.Equal(t, ProviderGazetteer, cfg.Geocoder.Provider)
	assert.Equal(t, 2*time.Second, cfg.NominatimSettings().Timeout)
	assert.Equal(t, "/srv/kb", cfg.Knowledge.Dir)
	assert.Equal(t, 5, cfg.AnalysisSettings().StrongThreshold)
	assert.Equal(t, 3, cfg.AnalysisSettings().ExcessThreshold)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel())
}

func TestLoad_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := Load(missing)
	assert.Error(t, err)

	cfg, err := LoadOptional(missing)
	require.NoError(t, err)
	assert.Equal(t, SourceEmbedded, cfg.Knowledge.Source)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"meridian out of range", func(c *Config) { c.SolarTime.StandardMeridian = 200 }, false},
		{"unknown provider", func(c *Config) { c.Geocoder.Provider = "google" }, false},
		{"dir source without dir", func(c *Config) { c.Knowledge.Source = SourceDir }, false},
		{"sqlite source without path", func(c *Config) { c.Knowledge.Source = SourceSQLite }, false},
		{"s3 source with bucket", func(c *Config) {
			c.Knowledge.Source = SourceS3
			c.Knowledge.S3Bucket = "kb"
		}, true},
		{"unknown source", func(c *Config) { c.Knowledge.Source = "ftp" }, false},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}
