package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/usage-report/pkg/models/domain"
	"github.com/de-tools/usage-report/pkg/models/store"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// Store runs the weekly query battery for one window at a time.
type Store interface {
	DailyResults(ctx context.Context, w domain.TimeWindow) ([]store.DailyResults, error)
	DailyResultsExcludingCohorts(ctx context.Context, w domain.TimeWindow) ([]store.DailyResults, error)
	ResultsByClient(ctx context.Context, w domain.TimeWindow) ([]store.ClientResults, error)
	BenchmarksByClient(ctx context.Context, w domain.TimeWindow) ([]store.ClientResults, error)
	SessionsByStartDate(ctx context.Context, w domain.TimeWindow) ([]store.SessionStatusCounts, error)
	SessionsByLastLogin(ctx context.Context, w domain.TimeWindow) ([]store.SessionStatusCounts, error)
	SessionsByHour(ctx context.Context, w domain.TimeWindow) ([]store.HourlySessions, error)
	EntryByDate(ctx context.Context, w domain.TimeWindow) ([]store.DailyEntry, error)
	EntryByClient(ctx context.Context, w domain.TimeWindow) ([]store.ClientEntry, error)
}

type Settings struct {
	Dialect    Dialect
	Cohorts    Cohorts
	HourOffset int
}

type usageStore struct {
	db      *sqlx.DB
	queries queryBuilder
}

func NewStore(db *sqlx.DB, settings Settings) Store {
	return &usageStore{
		db: db,
		queries: queryBuilder{
			dialect:    settings.Dialect,
			cohorts:    settings.Cohorts,
			hourOffset: settings.HourOffset,
		},
	}
}

// bounds are bound as timestamps, never as date strings a server would
// parse under its session date format.
func bounds(w domain.TimeWindow) (time.Time, time.Time) {
	return w.Start, w.End
}

func (u *usageStore) selectRows(ctx context.Context, dest interface{}, name string, w domain.TimeWindow, q query) error {
	logger := zerolog.Ctx(ctx)

	expanded, args, err := sqlx.In(q.sql, q.args...)
	if err != nil {
		return fmt.Errorf("%s query expansion failed: %w", name, err)
	}

	if err := u.db.SelectContext(ctx, dest, u.db.Rebind(expanded), args...); err != nil {
		return fmt.Errorf("%s query failed for %s: %w", name, w.Label, err)
	}

	logger.Debug().
		Str("query", name).
		Str("window", string(w.Label)).
		Msg("query completed")
	return nil
}

func (u *usageStore) DailyResults(ctx context.Context, w domain.TimeWindow) ([]store.DailyResults, error) {
	var rows []store.DailyResults
	start, end := bounds(w)
	err := u.selectRows(ctx, &rows, "daily results", w, u.queries.dailyResults(start, end, false))
	return rows, err
}

func (u *usageStore) DailyResultsExcludingCohorts(ctx context.Context, w domain.TimeWindow) ([]store.DailyResults, error) {
	var rows []store.DailyResults
	start, end := bounds(w)
	err := u.selectRows(ctx, &rows, "daily results without cohorts", w, u.queries.dailyResults(start, end, true))
	return rows, err
}

func (u *usageStore) ResultsByClient(ctx context.Context, w domain.TimeWindow) ([]store.ClientResults, error) {
	var rows []store.ClientResults
	start, end := bounds(w)
	err := u.selectRows(ctx, &rows, "results by client", w, u.queries.resultsByClient(start, end, false))
	return rows, err
}

func (u *usageStore) BenchmarksByClient(ctx context.Context, w domain.TimeWindow) ([]store.ClientResults, error) {
	var rows []store.ClientResults
	start, end := bounds(w)
	err := u.selectRows(ctx, &rows, "benchmarks by client", w, u.queries.resultsByClient(start, end, true))
	return rows, err
}

func (u *usageStore) SessionsByStartDate(ctx context.Context, w domain.TimeWindow) ([]store.SessionStatusCounts, error) {
	var rows []store.SessionStatusCounts
	start, end := bounds(w)
	err := u.selectRows(ctx, &rows, "sessions by start date", w, u.queries.sessionsByDate("qots.StartDate", start, end))
	return rows, err
}

func (u *usageStore) SessionsByLastLogin(ctx context.Context, w domain.TimeWindow) ([]store.SessionStatusCounts, error) {
	var rows []store.SessionStatusCounts
	start, end := bounds(w)
	err := u.selectRows(ctx, &rows, "sessions by last login", w, u.queries.sessionsByDate("qots.LastLoginDate", start, end))
	return rows, err
}

func (u *usageStore) SessionsByHour(ctx context.Context, w domain.TimeWindow) ([]store.HourlySessions, error) {
	var rows []store.HourlySessions
	start, end := bounds(w)
	err := u.selectRows(ctx, &rows, "sessions by hour", w, u.queries.sessionsByHour(start, end))
	return rows, err
}

func (u *usageStore) EntryByDate(ctx context.Context, w domain.TimeWindow) ([]store.DailyEntry, error) {
	var rows []store.DailyEntry
	start, end := bounds(w)
	err := u.selectRows(ctx, &rows, "manual entry by date", w, u.queries.entryByDate(start, end))
	return rows, err
}

func (u *usageStore) EntryByClient(ctx context.Context, w domain.TimeWindow) ([]store.ClientEntry, error) {
	var rows []store.ClientEntry
	start, end := bounds(w)
	err := u.selectRows(ctx, &rows, "manual entry by client", w, u.queries.entryByClient(start, end))
	return rows, err
}
