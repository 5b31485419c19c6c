package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/de-tools/usage-report/pkg/store/usage"
	"github.com/spf13/viper"
)

const (
	EnvPrefix         = "USAGE_REPORT"
	DefaultConfigFile = "usage-report.yaml"
	DefaultOutputDir  = "Usage Reports"
	// DefaultHourOffset shifts UTC login times to the reporting timezone
	// before hourly bucketing.
	DefaultHourOffset = -4
)

type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Warehouse WarehouseConfig `mapstructure:"warehouse"`
	Snowflake SnowflakeConfig `mapstructure:"snowflake"`
	Report    ReportConfig    `mapstructure:"report"`
	Cohorts   usage.Cohorts   `mapstructure:"cohorts"`
	Publish   PublishConfig   `mapstructure:"publish"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// WarehouseConfig selects the driver and how to reach it. DSN wins over the
// driver-specific settings when both are present.
type WarehouseConfig struct {
	Driver      string `mapstructure:"driver"`
	DSN         string `mapstructure:"dsn"`
	Profile     string `mapstructure:"profile"`
	ProfileFile string `mapstructure:"profile_file"`
	HTTPPath    string `mapstructure:"http_path"`
	Catalog     string `mapstructure:"catalog"`
	Schema      string `mapstructure:"schema"`
}

type SnowflakeConfig struct {
	Account   string `mapstructure:"account"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	Database  string `mapstructure:"database"`
	Warehouse string `mapstructure:"warehouse"`
	Role      string `mapstructure:"role"`
}

type ReportConfig struct {
	OutputDir  string `mapstructure:"output_dir"`
	HourOffset int    `mapstructure:"hour_offset"`
}

type PublishConfig struct {
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

func (p PublishConfig) Enabled() bool {
	return p.Bucket != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("warehouse.driver", "sqlserver")
	v.SetDefault("warehouse.dsn", "")
	v.SetDefault("warehouse.profile", "DEFAULT")
	v.SetDefault("warehouse.profile_file", defaultProfileFile())
	v.SetDefault("warehouse.http_path", "")
	v.SetDefault("warehouse.catalog", "")
	v.SetDefault("warehouse.schema", "")

	for _, key := range []string{"account", "user", "password", "database", "warehouse", "role"} {
		v.SetDefault("snowflake."+key, "")
	}

	v.SetDefault("report.output_dir", "")
	v.SetDefault("report.hour_offset", DefaultHourOffset)

	cohorts := usage.DefaultCohorts()
	v.SetDefault("cohorts.a_beka_district_id", cohorts.ABekaDistrictID)
	v.SetDefault("cohorts.bec_district_group_id", cohorts.BECDistrictGroupID)
	v.SetDefault("cohorts.frog_street_pattern", cohorts.FrogStreetPattern)
	v.SetDefault("cohorts.excluded_district_ids", cohorts.ExcludedDistrictIDs)
	v.SetDefault("cohorts.excluded_group_ids", cohorts.ExcludedGroupIDs)
	v.SetDefault("cohorts.demo_pattern", cohorts.DemoPattern)
	v.SetDefault("cohorts.benchmark_pattern", cohorts.BenchmarkPattern)
	v.SetDefault("cohorts.entry_source_id", cohorts.EntrySourceID)
	v.SetDefault("cohorts.entry_test_types", cohorts.EntryTestTypes)

	v.SetDefault("publish.bucket", "")
	v.SetDefault("publish.prefix", "")
	v.SetDefault("publish.region", "")
	v.SetDefault("publish.profile", "")
}

func defaultProfileFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".databrickscfg"
	}
	return filepath.Join(home, ".databrickscfg")
}

// Load reads the configuration file at path, if any, and applies
// USAGE_REPORT_* environment overrides on top of the defaults. An empty path
// falls back to usage-report.yaml in the working directory, which may be
// absent.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if explicit || !missing {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Report.OutputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		cfg.Report.OutputDir = filepath.Join(wd, DefaultOutputDir)
	}

	return &cfg, nil
}
