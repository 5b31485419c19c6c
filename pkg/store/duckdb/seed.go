package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type SeedSettings struct {
	Start time.Time
	Days  int
}

type SeedStats struct {
	Results  int
	Sessions int
}

type district struct {
	id      int
	stateID int
	groupID int
	name    string
}

// Districts cover every cohort the report filters on.
var seedDistricts = []district{
	{id: 10, stateID: 1, groupID: 1, name: "Austin ISD"},
	{id: 11, stateID: 2, groupID: 2, name: "Albany City Schools"},
	{id: 2479, stateID: 1, groupID: 3, name: "A Beka Academy"},
	{id: 20, stateID: 1, groupID: 112, name: "BEC Charter"},
	{id: 21, stateID: 2, groupID: 4, name: "Frog Street Pre-K"},
	{id: 99, stateID: 1, groupID: 5, name: "Demo District"},
}

const studentsPerDistrict = 3

// Seed fills an empty local warehouse with deterministic sample activity
// covering settings.Days days from settings.Start.
func Seed(ctx context.Context, db *sql.DB, settings SeedSettings) (*SeedStats, error) {
	logger := zerolog.Ctx(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	ctx = WithTransaction(ctx, tx)

	stats, err := seed(ctx, db, settings)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Warn().Err(rbErr).Msg("failed to roll back seed transaction")
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit seed data: %w", err)
	}

	logger.Info().
		Int("results", stats.Results).
		Int("sessions", stats.Sessions).
		Msg("local warehouse seeded")
	return stats, nil
}

func seed(ctx context.Context, db *sql.DB, settings SeedSettings) (*SeedStats, error) {
	exec := conn(ctx, db)
	insert := func(query string, args ...interface{}) error {
		if _, err := exec.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed insert failed: %w", err)
		}
		return nil
	}

	for _, s := range []struct {
		id   int
		name string
	}{{1, "Texas"}, {2, "New York"}} {
		if err := insert(`INSERT INTO State (StateID, Name) VALUES (?, ?)`, s.id, s.name); err != nil {
			return nil, err
		}
	}

	var students []int
	for _, d := range seedDistricts {
		err := insert(`INSERT INTO District (DistrictID, StateID, DistrictGroupID, Name) VALUES (?, ?, ?, ?)`,
			d.id, d.stateID, d.groupID, d.name)
		if err != nil {
			return nil, err
		}
		for k := 0; k < studentsPerDistrict; k++ {
			id := d.id*10 + k
			if err := insert(`INSERT INTO Student (StudentID, DistrictID) VALUES (?, ?)`, id, d.id); err != nil {
				return nil, err
			}
			students = append(students, id)
		}
	}

	tests := []struct {
		id, source, kind int
		name             string
	}{
		{1, 1, 2, "LinkIt Form A"},
		{2, 1, 2, "Unit Quiz"},
		{3, 3, 1, "Data Locker Entry"},
	}
	for _, vt := range tests {
		err := insert(`INSERT INTO VirtualTest (VirtualTestID, Name, VirtualTestSourceID, VirtualTestType) VALUES (?, ?, ?, ?)`,
			vt.id, vt.name, vt.source, vt.kind)
		if err != nil {
			return nil, err
		}
	}

	stats := &SeedStats{}
	resultID, sessionID := 1, 1
	for day := 0; day < settings.Days; day++ {
		date := settings.Start.AddDate(0, 0, day)
		for i, student := range students {
			at := date.Add(time.Duration(8+(i+day)%10) * time.Hour)
			vt := tests[(i+day)%len(tests)].id

			// nil binds as NULL.
			var bubble, session interface{}
			switch {
			case vt == 3:
			case (i+day)%2 == 0:
				status := 1 + (i+day)%5
				err := insert(`INSERT INTO QTIOnlineTestSession (QTIOnlineTestSessionID, StudentID, StatusID, StartDate, LastLoginDate) VALUES (?, ?, ?, ?, ?)`,
					sessionID, student, status, at, at.Add(time.Duration(day%3)*time.Hour))
				if err != nil {
					return nil, err
				}
				session = sessionID
				sessionID++
				stats.Sessions++
			default:
				bubble = resultID
			}

			err := insert(`INSERT INTO TestResult (TestResultID, VirtualTestID, StudentID, UpdatedDate, BubbleSheetID, QTIOnlineTestSessionID) VALUES (?, ?, ?, ?, ?, ?)`,
				resultID, vt, student, at, bubble, session)
			if err != nil {
				return nil, err
			}
			resultID++
			stats.Results++
		}
	}

	return stats, nil
}
