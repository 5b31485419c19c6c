package usage

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/usage-report/pkg/models/domain"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	mock  sqlmock.Sqlmock
	store Store
}

func setupFixture(t *testing.T, driver string) *fixture {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	dialect, err := LookupDialect("sqlserver")
	require.NoError(t, err)

	return &fixture{
		mock: mock,
		store: NewStore(sqlx.NewDb(db, driver), Settings{
			Dialect:    dialect,
			Cohorts:    DefaultCohorts(),
			HourOffset: -4,
		}),
	}
}

var window = domain.TimeWindow{
	Label: domain.ThisWeek,
	Start: time.Date(2026, 10, 9, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
}

func TestUsageStore_DailyResults(t *testing.T) {
	f := setupFixture(t, "sqlmock")
	day := time.Date(2026, 10, 9, 0, 0, 0, 0, time.UTC)

	f.mock.ExpectQuery(`CAST\(tr.UpdatedDate AS DATE\) AS date`).
		WithArgs(window.Start, window.End, "%demo%").
		WillReturnRows(sqlmock.NewRows([]string{"date", "total", "online_tests", "bubble_sheets"}).
			AddRow(day, int64(12), int64(10), int64(2)).
			AddRow(day.AddDate(0, 0, 1), int64(5), int64(5), int64(0)))

	rows, err := f.store.DailyResults(context.Background(), window)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, day, rows[0].Date)
	assert.Equal(t, int64(12), rows[0].Total)
	assert.Equal(t, int64(10), rows[0].OnlineTests)
	assert.Equal(t, int64(2), rows[0].BubbleSheets)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUsageStore_DailyResultsExcludingCohorts_ExpandsIDLists(t *testing.T) {
	f := setupFixture(t, "sqlmock")

	f.mock.ExpectQuery(`d.DistrictID NOT IN \(\?, \?\)\s+AND d.DistrictGroupID NOT IN \(\?, \?\)`).
		WithArgs(window.Start, window.End, "%demo%", 2680, 2479, 112, 114, "%frog street%").
		WillReturnRows(sqlmock.NewRows([]string{"date", "total", "online_tests", "bubble_sheets"}))

	rows, err := f.store.DailyResultsExcludingCohorts(context.Background(), window)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUsageStore_BenchmarksByClient(t *testing.T) {
	f := setupFixture(t, "sqlmock")

	f.mock.ExpectQuery(`LOWER\(vt.Name\) LIKE \?\s+GROUP BY st.Name, d.Name\s+ORDER BY COUNT\(1\) DESC`).
		WithArgs(window.Start, window.End, "%demo%", "%linkit%form%").
		WillReturnRows(sqlmock.NewRows([]string{"state", "district", "total_results", "online_tests", "bubble_sheets"}).
			AddRow("TX", "Austin ISD", int64(40), int64(30), int64(10)))

	rows, err := f.store.BenchmarksByClient(context.Background(), window)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Austin ISD", rows[0].District)
	assert.Equal(t, int64(40), rows[0].TotalResults)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUsageStore_SessionsByHour_BindsCohortsBeforeWindow(t *testing.T) {
	f := setupFixture(t, "sqlmock")
	hour := time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)

	f.mock.ExpectQuery(`DATEADD\(hour, -4, qots.LastLoginDate\)`).
		WithArgs(2479, 112, "%frog street%", window.Start, window.End, "%demo%").
		WillReturnRows(sqlmock.NewRows([]string{"hour", "sessions", "a_beka", "bec", "frog_street"}).
			AddRow(hour, int64(20), int64(5), int64(3), int64(2)))

	rows, err := f.store.SessionsByHour(context.Background(), window)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(10), rows[0].Others())
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUsageStore_SessionsByLastLogin(t *testing.T) {
	f := setupFixture(t, "sqlmock")
	day := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)

	f.mock.ExpectQuery(`qots.LastLoginDate >= \? AND qots.LastLoginDate < \?`).
		WithArgs(window.Start, window.End, "%demo%").
		WillReturnRows(sqlmock.NewRows([]string{"date", "total", "created", "started", "paused", "pending_review", "completed"}).
			AddRow(day, int64(9), int64(1), int64(2), int64(1), int64(1), int64(4)))

	rows, err := f.store.SessionsByLastLogin(context.Background(), window)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(4), rows[0].Completed)
	assert.Equal(t, int64(1), rows[0].PendingReview)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUsageStore_EntryByClient_RebindsForSQLServer(t *testing.T) {
	f := setupFixture(t, "sqlserver")

	f.mock.ExpectQuery(`tr.UpdatedDate >= @p1 AND tr.UpdatedDate < @p2[\s\S]+VirtualTestType IN \(@p5, @p6\)`).
		WithArgs(window.Start, window.End, "%demo%", 3, 1, 5).
		WillReturnRows(sqlmock.NewRows([]string{"state", "district", "total"}).
			AddRow("NY", "Albany", int64(7)))

	rows, err := f.store.EntryByClient(context.Background(), window)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0].Total)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

type timestampArg struct {
	want time.Time
}

func (a timestampArg) Match(v driver.Value) bool {
	ts, ok := v.(time.Time)
	return ok && ts.Equal(a.want)
}

func TestUsageStore_BindsWindowBoundsAsTimestamps(t *testing.T) {
	f := setupFixture(t, "sqlserver")
	day := time.Date(2026, 10, 9, 0, 0, 0, 0, time.UTC)

	f.mock.ExpectQuery(`tr.UpdatedDate >= @p1 AND tr.UpdatedDate < @p2`).
		WithArgs(timestampArg{window.Start}, timestampArg{window.End}, "%demo%").
		WillReturnRows(sqlmock.NewRows([]string{"date", "total", "online_tests", "bubble_sheets"}).
			AddRow(day, int64(3), int64(2), int64(1)))

	rows, err := f.store.DailyResults(context.Background(), window)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUsageStore_QueryError(t *testing.T) {
	f := setupFixture(t, "sqlmock")

	f.mock.ExpectQuery(`COUNT\(tr.TestResultID\) AS total`).
		WillReturnError(assert.AnError)

	_, err := f.store.EntryByDate(context.Background(), window)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "manual entry by date query failed for This Week")
}

func TestLookupDialect(t *testing.T) {
	for _, name := range SupportedDrivers() {
		d, err := LookupDialect(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, d.Name)
		assert.Equal(t, "CAST(x AS DATE)", d.Day("x"))
		assert.Contains(t, d.Hour("x", -4), "-4")
	}

	_, err := LookupDialect("oracle")
	assert.EqualError(t, err,
		"unsupported warehouse driver: oracle (supported: sqlserver, postgres, duckdb, snowflake, databricks)")
}
