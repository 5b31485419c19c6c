package usage

import (
	"fmt"
	"strings"
	"time"
)

const resultJoins = `
		FROM TestResult tr
		JOIN VirtualTest vt ON vt.VirtualTestID = tr.VirtualTestID
		JOIN Student s ON s.StudentID = tr.StudentID
		JOIN District d ON d.DistrictID = s.DistrictID
		JOIN State st ON st.StateID = d.StateID`

const sessionJoins = `
		FROM QTIOnlineTestSession qots
		JOIN Student s ON s.StudentID = qots.StudentID
		JOIN District d ON d.DistrictID = s.DistrictID`

// scoredOnly keeps results that came from an online session or a scanned
// bubble sheet.
const scoredOnly = `(tr.BubbleSheetID IS NOT NULL OR tr.QTIOnlineTestSessionID IS NOT NULL)`

// countIf is cast so every engine scans the sum into an int64.
func countIf(cond string) string {
	return fmt.Sprintf("CAST(SUM(CASE WHEN %s THEN 1 ELSE 0 END) AS BIGINT)", cond)
}

type query struct {
	sql  string
	args []interface{}
}

type queryBuilder struct {
	dialect    Dialect
	cohorts    Cohorts
	hourOffset int
}

func (qb queryBuilder) dailyResults(start, end time.Time, excludeCohorts bool) query {
	day := qb.dialect.Day("tr.UpdatedDate")
	var b strings.Builder
	fmt.Fprintf(&b, `
		SELECT
			%[1]s AS date,
			COUNT(tr.TestResultID) AS total,
			%[2]s AS online_tests,
			%[3]s AS bubble_sheets`+resultJoins+`
		WHERE tr.UpdatedDate >= ? AND tr.UpdatedDate < ?
			AND LOWER(d.Name) NOT LIKE ?
			AND `+scoredOnly,
		day,
		countIf("tr.QTIOnlineTestSessionID IS NOT NULL"),
		countIf("tr.BubbleSheetID IS NOT NULL"),
	)
	args := []interface{}{start, end, qb.cohorts.DemoPattern}
	if excludeCohorts {
		b.WriteString(`
			AND d.DistrictID NOT IN (?)
			AND d.DistrictGroupID NOT IN (?)
			AND LOWER(d.Name) NOT LIKE ?`)
		args = append(args,
			idsOrNone(qb.cohorts.ExcludedDistrictIDs),
			idsOrNone(qb.cohorts.ExcludedGroupIDs),
			qb.cohorts.FrogStreetPattern,
		)
	}
	fmt.Fprintf(&b, `
		GROUP BY %[1]s
		ORDER BY %[1]s`, day)
	return query{sql: b.String(), args: args}
}

func (qb queryBuilder) resultsByClient(start, end time.Time, benchmarksOnly bool) query {
	var b strings.Builder
	fmt.Fprintf(&b, `
		SELECT
			st.Name AS state,
			d.Name AS district,
			COUNT(1) AS total_results,
			%[1]s AS online_tests,
			%[2]s AS bubble_sheets`+resultJoins+`
		WHERE tr.UpdatedDate >= ? AND tr.UpdatedDate < ?
			AND LOWER(d.Name) NOT LIKE ?
			AND `+scoredOnly,
		countIf("tr.QTIOnlineTestSessionID IS NOT NULL"),
		countIf("tr.BubbleSheetID IS NOT NULL"),
	)
	args := []interface{}{start, end, qb.cohorts.DemoPattern}
	if benchmarksOnly {
		b.WriteString(`
			AND LOWER(vt.Name) LIKE ?`)
		args = append(args, qb.cohorts.BenchmarkPattern)
	}
	b.WriteString(`
		GROUP BY st.Name, d.Name
		ORDER BY COUNT(1) DESC`)
	return query{sql: b.String(), args: args}
}

// sessionsByDate buckets online sessions by the calendar date of column.
func (qb queryBuilder) sessionsByDate(column string, start, end time.Time) query {
	day := qb.dialect.Day(column)
	sql := fmt.Sprintf(`
		SELECT
			%[1]s AS date,
			COUNT(1) AS total,
			%[3]s AS created,
			%[4]s AS started,
			%[5]s AS paused,
			%[6]s AS pending_review,
			%[7]s AS completed`+sessionJoins+`
		WHERE %[2]s >= ? AND %[2]s < ?
			AND LOWER(d.Name) NOT LIKE ?
		GROUP BY %[1]s
		ORDER BY %[1]s`,
		day,
		column,
		countIf("qots.StatusID = 1"),
		countIf("qots.StatusID = 2"),
		countIf("qots.StatusID = 3"),
		countIf("qots.StatusID = 5"),
		countIf("qots.StatusID = 4"),
	)
	return query{sql: sql, args: []interface{}{start, end, qb.cohorts.DemoPattern}}
}

func (qb queryBuilder) sessionsByHour(start, end time.Time) query {
	hour := qb.dialect.Hour("qots.LastLoginDate", qb.hourOffset)
	sql := fmt.Sprintf(`
		SELECT
			%[1]s AS hour,
			COUNT(1) AS sessions,
			%[2]s AS a_beka,
			%[3]s AS bec,
			%[4]s AS frog_street`+sessionJoins+`
		WHERE qots.LastLoginDate >= ? AND qots.LastLoginDate < ?
			AND LOWER(d.Name) NOT LIKE ?
		GROUP BY %[1]s
		ORDER BY COUNT(1) DESC`,
		hour,
		countIf("d.DistrictID = ?"),
		countIf("d.DistrictGroupID = ?"),
		countIf("LOWER(d.Name) LIKE ?"),
	)
	return query{sql: sql, args: []interface{}{
		qb.cohorts.ABekaDistrictID,
		qb.cohorts.BECDistrictGroupID,
		qb.cohorts.FrogStreetPattern,
		start, end, qb.cohorts.DemoPattern,
	}}
}

const manualEntryOnly = `vt.VirtualTestSourceID = ? AND vt.VirtualTestType IN (?)`

func (qb queryBuilder) entryByDate(start, end time.Time) query {
	day := qb.dialect.Day("tr.UpdatedDate")
	sql := fmt.Sprintf(`
		SELECT
			%[1]s AS date,
			COUNT(tr.TestResultID) AS total`+resultJoins+`
		WHERE tr.UpdatedDate >= ? AND tr.UpdatedDate < ?
			AND LOWER(d.Name) NOT LIKE ?
			AND `+manualEntryOnly+`
		GROUP BY %[1]s
		ORDER BY %[1]s`, day)
	return query{sql: sql, args: qb.entryArgs(start, end)}
}

func (qb queryBuilder) entryByClient(start, end time.Time) query {
	sql := `
		SELECT
			st.Name AS state,
			d.Name AS district,
			COUNT(tr.TestResultID) AS total` + resultJoins + `
		WHERE tr.UpdatedDate >= ? AND tr.UpdatedDate < ?
			AND LOWER(d.Name) NOT LIKE ?
			AND ` + manualEntryOnly + `
		GROUP BY st.Name, d.Name
		ORDER BY COUNT(tr.TestResultID) DESC`
	return query{sql: sql, args: qb.entryArgs(start, end)}
}

func (qb queryBuilder) entryArgs(start, end time.Time) []interface{} {
	return []interface{}{
		start, end, qb.cohorts.DemoPattern,
		qb.cohorts.EntrySourceID, idsOrNone(qb.cohorts.EntryTestTypes),
	}
}

// idsOrNone keeps IN lists valid when a cohort list is configured empty.
func idsOrNone(ids []int) []int {
	if len(ids) == 0 {
		return []int{-1}
	}
	return ids
}
