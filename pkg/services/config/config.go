// Package config loads the process settings from an optional YAML file and
// SHINRYEONG_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/yjk624/shinryeong/pkg/services/analysis"
	"github.com/yjk624/shinryeong/pkg/services/geocode"
	"github.com/yjk624/shinryeong/pkg/services/pillar"
	"github.com/yjk624/shinryeong/pkg/services/solartime"
	"github.com/yjk624/shinryeong/pkg/store/knowledge"
)

const EnvPrefix = "SHINRYEONG"

const (
	ProviderGazetteer = "gazetteer"
	ProviderNominatim = "nominatim"
	ProviderChain     = "chain"

	SourceEmbedded = "embedded"
	SourceDir      = "dir"
	SourceSQLite   = "sqlite"
	SourceS3       = "s3"
)

type Config struct {
	SolarTime SolarTimeConfig `mapstructure:"solar_time"`
	Pillars   PillarsConfig   `mapstructure:"pillars"`
	Geocoder  GeocoderConfig  `mapstructure:"geocoder"`
	Knowledge KnowledgeConfig `mapstructure:"knowledge"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Log       LogConfig       `mapstructure:"log"`
}

type SolarTimeConfig struct {
	StandardMeridian float64 `mapstructure:"standard_meridian"`
	Enabled          bool    `mapstructure:"enabled"`
}

type PillarsConfig struct {
	LateRatHourAdvancesDay bool `mapstructure:"late_rat_hour_advances_day"`
}

type GeocoderConfig struct {
	Provider      string        `mapstructure:"provider"`
	GazetteerPath string        `mapstructure:"gazetteer_path"`
	NominatimURL  string        `mapstructure:"nominatim_url"`
	UserAgent     string        `mapstructure:"user_agent"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RetryMax      int           `mapstructure:"retry_max"`
	// CacheSize bounds the resolved-place cache, 0 means unbounded
	CacheSize int `mapstructure:"cache_size"`
}

type KnowledgeConfig struct {
	Source     string `mapstructure:"source"`
	Dir        string `mapstructure:"dir"`
	SQLitePath string `mapstructure:"sqlite_path"`
	S3Bucket   string `mapstructure:"s3_bucket"`
	S3Prefix   string `mapstructure:"s3_prefix"`
	S3Region   string `mapstructure:"s3_region"`
}

type AnalysisConfig struct {
	ExcessThreshold  int `mapstructure:"excess_threshold"`
	MissingThreshold int `mapstructure:"missing_threshold"`
	StrongThreshold  int `mapstructure:"strong_threshold"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultPath is $HOME/.shinryeong/config.yaml, or empty when the home
// directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".shinryeong", "config.yaml")
}

func setDefaults(v *viper.Viper) {
	st := solartime.DefaultSettings()
	v.SetDefault("solar_time.standard_meridian", st.StandardMeridian)
	v.SetDefault("solar_time.enabled", st.Enabled)

	v.SetDefault("pillars.late_rat_hour_advances_day", pillar.DefaultSettings().LateRatHourAdvancesDay)

	nom := geocode.DefaultNominatimSettings()
	v.SetDefault("geocoder.provider", ProviderChain)
	v.SetDefault("geocoder.gazetteer_path", "")
	v.SetDefault("geocoder.nominatim_url", nom.BaseURL)
	v.SetDefault("geocoder.user_agent", nom.UserAgent)
	v.SetDefault("geocoder.timeout", nom.Timeout)
	v.SetDefault("geocoder.retry_max", nom.RetryMax)
	v.SetDefault("geocoder.cache_size", 0)

	v.SetDefault("knowledge.source", SourceEmbedded)
	v.SetDefault("knowledge.dir", "")
	v.SetDefault("knowledge.sqlite_path", "")
	v.SetDefault("knowledge.s3_bucket", "")
	v.SetDefault("knowledge.s3_prefix", "")
	v.SetDefault("knowledge.s3_region", "")

	an := analysis.DefaultSettings()
	v.SetDefault("analysis.excess_threshold", an.ExcessThreshold)
	v.SetDefault("analysis.missing_threshold", an.MissingThreshold)
	v.SetDefault("analysis.strong_threshold", an.StrongThreshold)

	v.SetDefault("log.level", "info")
}

// Load reads path when it is non-empty, then overlays the environment. A
// named file that cannot be read is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOptional is Load for the default path: a missing file is not an error.
func LoadOptional(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			path = ""
		}
	}
	return Load(path)
}

func (c *Config) Validate() error {
	if m := c.SolarTime.StandardMeridian; m < -180 || m > 180 {
		return fmt.Errorf("solar_time.standard_meridian %v out of range", m)
	}
	switch c.Geocoder.Provider {
	case ProviderGazetteer, ProviderNominatim, ProviderChain:
	default:
		return fmt.Errorf("unknown geocoder.provider %q", c.Geocoder.Provider)
	}
	switch c.Knowledge.Source {
	case SourceEmbedded:
	case SourceDir:
		if c.Knowledge.Dir == "" {
			return fmt.Errorf("knowledge.dir is required for the %s source", SourceDir)
		}
	case SourceSQLite:
		if c.Knowledge.SQLitePath == "" {
			return fmt.Errorf("knowledge.sqlite_path is required for the %s source", SourceSQLite)
		}
	case SourceS3:
		if c.Knowledge.S3Bucket == "" {
			return fmt.Errorf("knowledge.s3_bucket is required for the %s source", SourceS3)
		}
	default:
		return fmt.Errorf("unknown knowledge.source %q", c.Knowledge.Source)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	return nil
}

func (c *Config) SolarTimeSettings() solartime.Settings {
	return solartime.Settings{
		StandardMeridian: c.SolarTime.StandardMeridian,
		Enabled:          c.SolarTime.Enabled,
	}
}

func (c *Config) PillarSettings() pillar.Settings {
	return pillar.Settings{LateRatHourAdvancesDay: c.Pillars.LateRatHourAdvancesDay}
}

func (c *Config) AnalysisSettings() analysis.Settings {
	return analysis.Settings{
		ExcessThreshold:  c.Analysis.ExcessThreshold,
		MissingThreshold: c.Analysis.MissingThreshold,
		StrongThreshold:  c.Analysis.StrongThreshold,
	}
}

func (c *Config) NominatimSettings() geocode.NominatimSettings {
	return geocode.NominatimSettings{
		BaseURL:   c.Geocoder.NominatimURL,
		UserAgent: c.Geocoder.UserAgent,
		Timeout:   c.Geocoder.Timeout,
		RetryMax:  c.Geocoder.RetryMax,
	}
}

func (c *Config) S3Settings() knowledge.S3Settings {
	return knowledge.S3Settings{
		Bucket: c.Knowledge.S3Bucket,
		Prefix: c.Knowledge.S3Prefix,
		Region: c.Knowledge.S3Region,
	}
}

// LogLevel is the parsed log.level; Validate has already rejected bad values.
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
