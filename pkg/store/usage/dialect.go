package usage

import (
	"fmt"
	"strings"
)

// Dialect holds the SQL fragments that differ between warehouse engines.
// Everything else in the query battery is portable SQL.
type Dialect struct {
	Name string
	// Day truncates a timestamp column to its calendar date.
	Day func(col string) string
	// Hour truncates a timestamp column to the hour after shifting it by the
	// given number of hours.
	Hour func(col string, offset int) string
}

var dialects = map[string]Dialect{
	"sqlserver": {
		Name: "sqlserver",
		Day:  castDate,
		Hour: func(col string, offset int) string {
			return fmt.Sprintf("DATEADD(hour, DATEDIFF(hour, 0, DATEADD(hour, %d, %s)), 0)", offset, col)
		},
	},
	"postgres": {
		Name: "postgres",
		Day:  castDate,
		Hour: func(col string, offset int) string {
			return fmt.Sprintf("date_trunc('hour', %s + make_interval(hours => %d))", col, offset)
		},
	},
	"duckdb": {
		Name: "duckdb",
		Day:  castDate,
		Hour: func(col string, offset int) string {
			return fmt.Sprintf("date_trunc('hour', %s + to_hours(%d))", col, offset)
		},
	},
	"snowflake": {
		Name: "snowflake",
		Day:  castDate,
		Hour: func(col string, offset int) string {
			return fmt.Sprintf("DATE_TRUNC('HOUR', DATEADD(hour, %d, %s))", offset, col)
		},
	},
	"databricks": {
		Name: "databricks",
		Day:  castDate,
		Hour: func(col string, offset int) string {
			return fmt.Sprintf("date_trunc('HOUR', timestampadd(HOUR, %d, %s))", offset, col)
		},
	},
}

func castDate(col string) string {
	return fmt.Sprintf("CAST(%s AS DATE)", col)
}

// LookupDialect returns the dialect registered for a driver name.
func LookupDialect(driver string) (Dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return Dialect{}, fmt.Errorf("unsupported warehouse driver: %s (supported: %s)",
			driver, strings.Join(SupportedDrivers(), ", "))
	}
	return d, nil
}

// SupportedDrivers lists the driver names a Dialect exists for.
func SupportedDrivers() []string {
	return []string{"sqlserver", "postgres", "duckdb", "snowflake", "databricks"}
}
