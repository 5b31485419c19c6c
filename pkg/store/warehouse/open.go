package warehouse

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/de-tools/usage-report/pkg/services/config"
	"github.com/de-tools/usage-report/pkg/store/duckdb"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	sf "github.com/snowflakedb/gosnowflake"

	_ "github.com/databricks/databricks-sql-go"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
)

const defaultHttpPath = "/sql/1.0/warehouses/warehouse"

// Open connects to the warehouse named by cfg.Warehouse.Driver and verifies
// the connection with a ping.
func Open(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	logger := zerolog.Ctx(ctx)
	driver := cfg.Warehouse.Driver

	db, err := open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach %s warehouse: %w", driver, err)
	}

	logger.Info().Str("driver", driver).Msg("connected to warehouse")
	return db, nil
}

func open(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	driver := cfg.Warehouse.Driver

	if driver == "duckdb" {
		path := cfg.Warehouse.DSN
		if path == "" {
			return nil, fmt.Errorf("duckdb warehouse requires warehouse.dsn to name a database file")
		}
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: path})
		if err != nil {
			return nil, fmt.Errorf("failed to open duckdb warehouse: %w", err)
		}
		return sqlx.NewDb(db, "duckdb"), nil
	}

	dsn, err := DSN(ctx, cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s warehouse: %w", driver, err)
	}
	return db, nil
}

// DSN returns the connection string for every driver except duckdb, which
// is opened from a file path.
func DSN(ctx context.Context, cfg *config.Config) (string, error) {
	wh := cfg.Warehouse
	if wh.DSN != "" {
		return wh.DSN, nil
	}

	switch wh.Driver {
	case "snowflake":
		return snowflakeDSN(cfg.Snowflake)
	case "databricks":
		return databricksDSN(ctx, wh)
	case "sqlserver", "postgres":
		return "", fmt.Errorf("%s warehouse requires warehouse.dsn", wh.Driver)
	default:
		return "", fmt.Errorf("unsupported warehouse driver: %s", wh.Driver)
	}
}

func snowflakeDSN(c config.SnowflakeConfig) (string, error) {
	dsn, err := sf.DSN(&sf.Config{
		Account:   c.Account,
		User:      c.User,
		Password:  c.Password,
		Database:  c.Database,
		Warehouse: c.Warehouse,
		Role:      c.Role,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build snowflake DSN: %w", err)
	}
	return dsn, nil
}

func databricksDSN(ctx context.Context, wh config.WarehouseConfig) (string, error) {
	registry, err := config.NewRegistry(wh.ProfileFile)
	if err != nil {
		return "", err
	}

	profile, err := registry.GetConfig(ctx, wh.Profile)
	if err != nil {
		profiles, _ := registry.GetProfiles(ctx)
		return "", fmt.Errorf("%w (profiles in %s: %s)", err, wh.ProfileFile, strings.Join(profiles, ", "))
	}

	httpPath := wh.HTTPPath
	if httpPath == "" {
		httpPath = defaultHttpPath
	}

	dsn := fmt.Sprintf("token:%s@%s%s", profile.Token, hostOnly(profile.Host), httpPath)

	params := url.Values{}
	if wh.Catalog != "" {
		params.Set("catalog", wh.Catalog)
	}
	if wh.Schema != "" {
		params.Set("schema", wh.Schema)
	}
	if qp := params.Encode(); qp != "" {
		dsn = dsn + "?" + qp
	}
	return dsn, nil
}

// hostOnly strips the scheme .databrickscfg hosts are usually written with.
func hostOnly(host string) string {
	u, err := url.Parse(host)
	if err != nil || u.Host == "" {
		return host
	}
	return u.Host
}
