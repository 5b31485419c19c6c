package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/usage-report/pkg/store/usage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "sqlserver", cfg.Warehouse.Driver)
	assert.Equal(t, -4, cfg.Report.HourOffset)
	assert.Equal(t, usage.DefaultCohorts(), cfg.Cohorts)
	assert.False(t, cfg.Publish.Enabled())

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, DefaultOutputDir), cfg.Report.OutputDir)
}

func TestLoad_ValidYAML_PopulatesFields(t *testing.T) {
	// Given
	path := filepath.Join(t.TempDir(), "usage-report.yaml")
	content := `warehouse:
  driver: snowflake
snowflake:
  account: "acme"
  user: "reporter"
  warehouse: "REPORTING"
report:
  output_dir: "/tmp/reports"
  hour_offset: 0
cohorts:
  excluded_district_ids: [1, 2, 3]
publish:
  bucket: "reports-bucket"
  prefix: "weekly"`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// When
	cfg, err := Load(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "snowflake", cfg.Warehouse.Driver)
	assert.Equal(t, "acme", cfg.Snowflake.Account)
	assert.Equal(t, "REPORTING", cfg.Snowflake.Warehouse)
	assert.Equal(t, "/tmp/reports", cfg.Report.OutputDir)
	assert.Equal(t, 0, cfg.Report.HourOffset)
	assert.Equal(t, []int{1, 2, 3}, cfg.Cohorts.ExcludedDistrictIDs)
	assert.Equal(t, 2479, cfg.Cohorts.ABekaDistrictID)
	assert.True(t, cfg.Publish.Enabled())
	assert.Equal(t, "weekly", cfg.Publish.Prefix)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("USAGE_REPORT_WAREHOUSE_DRIVER", "duckdb")
	t.Setenv("USAGE_REPORT_WAREHOUSE_DSN", "local.db")
	t.Setenv("USAGE_REPORT_REPORT_HOUR_OFFSET", "3")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "duckdb", cfg.Warehouse.Driver)
	assert.Equal(t, "local.db", cfg.Warehouse.DSN)
	assert.Equal(t, 3, cfg.Report.HourOffset)
}

func TestLoad_MissingExplicitFile_ReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("report: output_dir: : bad"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".databrickscfg")
	content := `[DEFAULT]
host = https://adb-1.azuredatabricks.net
token = dapi-default

[reporting]
host = https://adb-2.azuredatabricks.net
token = dapi-reporting

[broken]
host = https://adb-3.azuredatabricks.net
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	registry, err := NewRegistry(path)
	require.NoError(t, err)

	profiles, err := registry.GetProfiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"DEFAULT", "reporting", "broken"}, profiles)

	cfg, err := registry.GetConfig(context.Background(), "reporting")
	require.NoError(t, err)
	assert.Equal(t, "https://adb-2.azuredatabricks.net", cfg.Host)
	assert.Equal(t, "dapi-reporting", cfg.Token)

	_, err = registry.GetConfig(context.Background(), "broken")
	assert.ErrorContains(t, err, "missing host or token")

	_, err = registry.GetConfig(context.Background(), "absent")
	assert.ErrorContains(t, err, "profile absent not found")
}
