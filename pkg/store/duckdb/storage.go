package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const StateSchema = `
	CREATE TABLE IF NOT EXISTS State (
		StateID INTEGER PRIMARY KEY,
		Name VARCHAR NOT NULL
	);
`
const DistrictSchema = `
	CREATE TABLE IF NOT EXISTS District (
		DistrictID INTEGER PRIMARY KEY,
		StateID INTEGER NOT NULL,
		DistrictGroupID INTEGER,
		Name VARCHAR NOT NULL
	);
`
const StudentSchema = `
	CREATE TABLE IF NOT EXISTS Student (
		StudentID INTEGER PRIMARY KEY,
		DistrictID INTEGER NOT NULL
	);
`
const VirtualTestSchema = `
	CREATE TABLE IF NOT EXISTS VirtualTest (
		VirtualTestID INTEGER PRIMARY KEY,
		Name VARCHAR NOT NULL,
		VirtualTestSourceID INTEGER,
		VirtualTestType INTEGER
	);
`
const TestResultSchema = `
	CREATE TABLE IF NOT EXISTS TestResult (
		TestResultID INTEGER PRIMARY KEY,
		VirtualTestID INTEGER NOT NULL,
		StudentID INTEGER NOT NULL,
		UpdatedDate TIMESTAMP NOT NULL,
		BubbleSheetID INTEGER NULL,
		QTIOnlineTestSessionID INTEGER NULL
	);
`
const OnlineSessionSchema = `
	CREATE TABLE IF NOT EXISTS QTIOnlineTestSession (
		QTIOnlineTestSessionID INTEGER PRIMARY KEY,
		StudentID INTEGER NOT NULL,
		StatusID INTEGER NOT NULL,
		StartDate TIMESTAMP,
		LastLoginDate TIMESTAMP
	);
`

var bootQueries = []string{
	StateSchema,
	DistrictSchema,
	StudentSchema,
	VirtualTestSchema,
	TestResultSchema,
	OnlineSessionSchema,
}

type Settings struct {
	DbPath string
}

// NewDB opens a DuckDB file laid out like the production warehouse.
func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
