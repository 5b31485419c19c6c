package report

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/usage-report/pkg/models/domain"
	"github.com/de-tools/usage-report/pkg/models/store"
	"github.com/de-tools/usage-report/pkg/runtime/xlsx"
	"github.com/rs/zerolog"
)

var (
	dailyHeader   = []string{"Date", "Total", "OnlineTests", "BubbleSheets"}
	clientHeader  = []string{"State", "District", "TotalResults", "OnlineTests", "BubbleSheets"}
	shareHeader   = []string{"State", "District", "TotalResults", "OnlineTests", "BubbleSheets", "%"}
	sessionHeader = []string{"Total # of Online Tests", "# of Created", "# of Started", "# of Paused", "# of Pending Review", "# of Completed"}
	hourlyHeader  = []string{
		"Hour", "Number of Sessions", "A Beka", "BEC", "Frogstreet", "Others",
		"% of A Beka", "% of BEC", "% of Frog Street", "% of Others",
	}
	entryDateHeader   = []string{"Date", "Total"}
	entryClientHeader = []string{"State", "District", "Total"}
)

func writeHeader(w Writer, sheet string, row, col int, names []string) error {
	values := make([]interface{}, len(names))
	for i, n := range names {
		values[i] = n
	}
	return w.WriteRow(sheet, row, col, values, xlsx.Header)
}

func writeLabel(w Writer, sheet string, row int, s slot) error {
	return w.Write(sheet, row, s.col(sheet), string(s.window.Label), xlsx.Week)
}

// Panels 1A and 1B.
func (a *Assembler) renderResultsByDate(ctx context.Context, w Writer, s slot, result *Result) ([]domain.PanelSummary, error) {
	sheet := SheetResultsByDate

	all, err := a.store.DailyResults(ctx, s.window)
	if err != nil {
		return nil, err
	}
	filled, err := writeDaily(w, sheet, rowDailyAll, s, all)
	if err != nil {
		return nil, err
	}
	daily, err := dailyStats(s.window, filled)
	if err != nil {
		return nil, err
	}
	result.Stats = append(result.Stats, daily)

	filtered, err := a.store.DailyResultsExcludingCohorts(ctx, s.window)
	if err != nil {
		return nil, err
	}
	if _, err := writeDaily(w, sheet, rowDailyFiltered, s, filtered); err != nil {
		return nil, err
	}

	if s.anchor {
		banner := []interface{}{cohortBanner, "", "", ""}
		if err := w.WriteRow(sheet, rowDailyFiltered-2, s.col(sheet), banner, xlsx.Banner); err != nil {
			return nil, err
		}
	}

	return []domain.PanelSummary{
		summary(sheet, "1A", s, len(all)),
		summary(sheet, "1B", s, len(filtered)),
	}, nil
}

// writeDaily writes a date-filled daily panel and returns the filled rows.
func writeDaily(w Writer, sheet string, row int, s slot, rows []store.DailyResults) ([]store.DailyResults, error) {
	col := s.col(sheet)
	if err := writeLabel(w, sheet, row-1, s); err != nil {
		return nil, err
	}
	if err := writeHeader(w, sheet, row, col, dailyHeader); err != nil {
		return nil, err
	}

	filled := fillDates(rows, s.window,
		func(r store.DailyResults) time.Time { return r.Date },
		func(d time.Time) store.DailyResults { return store.DailyResults{Date: d} },
	)
	var totals, online, bubble []int64
	for i, r := range filled {
		values := []interface{}{r.Date, r.Total, r.OnlineTests, r.BubbleSheets}
		if err := w.WriteRow(sheet, row+1+i, col, values, xlsx.Plain, xlsx.Date); err != nil {
			return nil, err
		}
		totals = append(totals, r.Total)
		online = append(online, r.OnlineTests)
		bubble = append(bubble, r.BubbleSheets)
	}

	totalRow := row + 1 + weekDays
	values := []interface{}{"Total", sum(totals), sum(online), sum(bubble)}
	if err := w.WriteRow(sheet, totalRow, col, values, xlsx.Header); err != nil {
		return nil, err
	}

	if s.anchor {
		if err := writeChangeRows(w, sheet, totalRow, len(values)-1, s); err != nil {
			return nil, err
		}
	}
	return filled, nil
}

// writeChangeRows adds the week-over-week and year-over-year rows under the
// anchor window's total row. They reference the total rows of the windows
// rendered one and two strides to the right of the anchor.
func writeChangeRows(w Writer, sheet string, totalRow, numeric int, s slot) error {
	changes := []struct {
		label   string
		against int
	}{
		{"Weekly Change", 1},
		{"Yearly Change", 2},
	}

	base := s.col(sheet)
	for i, c := range changes {
		priorOffsets := s.offsets
		for n := 0; n < c.against; n++ {
			priorOffsets = priorOffsets.Advance()
		}
		priorCol := priorOffsets[sheet]

		row := totalRow + 2 + i
		if err := w.Write(sheet, row, base, c.label, xlsx.HeaderPercent); err != nil {
			return err
		}
		for k := 1; k <= numeric; k++ {
			current := xlsx.Cell(totalRow, base+k)
			prior := xlsx.Cell(totalRow, priorCol+k)
			formula := fmt.Sprintf("(%s-%s)/%s", current, prior, prior)
			if err := w.WriteFormula(sheet, row, base+k, formula, xlsx.HeaderPercent); err != nil {
				return err
			}
		}
	}
	return nil
}

// Panel 2.
func (a *Assembler) renderResultsByClient(ctx context.Context, w Writer, s slot, _ *Result) ([]domain.PanelSummary, error) {
	sheet := SheetResultsByClient
	col := s.col(sheet)

	rows, err := a.store.ResultsByClient(ctx, s.window)
	if err != nil {
		return nil, err
	}

	if err := writeLabel(w, sheet, rowClient-1, s); err != nil {
		return nil, err
	}
	if err := writeHeader(w, sheet, rowClient, col, shareHeader); err != nil {
		return nil, err
	}

	counts := make([]int64, len(rows))
	for i, r := range rows {
		counts[i] = r.TotalResults
	}
	all := sum(counts)

	for i, r := range rows {
		values := []interface{}{r.State, r.District, r.TotalResults, r.OnlineTests, r.BubbleSheets, share(r.TotalResults, all)}
		styles := []xlsx.Style{xlsx.Plain, xlsx.Plain, xlsx.Plain, xlsx.Plain, xlsx.Plain, xlsx.Percent}
		if err := w.WriteRow(sheet, rowClient+1+i, col, values, xlsx.Plain, styles...); err != nil {
			return nil, err
		}
	}

	return []domain.PanelSummary{summary(sheet, "2", s, len(rows))}, nil
}

// Panel 3. The total row goes above the data.
func (a *Assembler) renderBenchmarks(ctx context.Context, w Writer, s slot, _ *Result) ([]domain.PanelSummary, error) {
	sheet := SheetBenchmarks
	col := s.col(sheet)

	rows, err := a.store.BenchmarksByClient(ctx, s.window)
	if err != nil {
		return nil, err
	}

	if err := writeLabel(w, sheet, rowBenchmarks-1, s); err != nil {
		return nil, err
	}
	if err := writeHeader(w, sheet, rowBenchmarks, col, clientHeader); err != nil {
		return nil, err
	}

	var totals, online, bubble []int64
	for _, r := range rows {
		totals = append(totals, r.TotalResults)
		online = append(online, r.OnlineTests)
		bubble = append(bubble, r.BubbleSheets)
	}
	total := []interface{}{"Total", "", sum(totals), sum(online), sum(bubble)}
	if err := w.WriteRow(sheet, rowBenchmarks+1, col, total, xlsx.Header); err != nil {
		return nil, err
	}

	for i, r := range rows {
		values := []interface{}{r.State, r.District, r.TotalResults, r.OnlineTests, r.BubbleSheets}
		if err := w.WriteRow(sheet, rowBenchmarks+2+i, col, values, xlsx.Plain); err != nil {
			return nil, err
		}
	}

	return []domain.PanelSummary{summary(sheet, "3", s, len(rows))}, nil
}

// Panels 4A and 4B.
func (a *Assembler) renderOnlineByDate(ctx context.Context, w Writer, s slot, _ *Result) ([]domain.PanelSummary, error) {
	sheet := SheetOnlineByDate

	byStart, err := a.store.SessionsByStartDate(ctx, s.window)
	if err != nil {
		return nil, err
	}
	if err := writeSessions(w, sheet, rowOnlineStart, s, byStart, "Date Started", "By Start Date"); err != nil {
		return nil, err
	}

	byLogin, err := a.store.SessionsByLastLogin(ctx, s.window)
	if err != nil {
		return nil, err
	}
	if err := writeSessions(w, sheet, rowOnlineLogin, s, byLogin, "Date Last Log In", "By Last Login Date"); err != nil {
		return nil, err
	}

	return []domain.PanelSummary{
		summary(sheet, "4A", s, len(byStart)),
		summary(sheet, "4B", s, len(byLogin)),
	}, nil
}

func writeSessions(w Writer, sheet string, row int, s slot, rows []store.SessionStatusCounts, dateHeader, caption string) error {
	col := s.col(sheet)
	if err := writeLabel(w, sheet, row-2, s); err != nil {
		return err
	}
	if err := w.Write(sheet, row-1, col, caption, xlsx.Header); err != nil {
		return err
	}
	if err := writeHeader(w, sheet, row, col, append([]string{dateHeader}, sessionHeader...)); err != nil {
		return err
	}

	filled := fillDates(rows, s.window,
		func(r store.SessionStatusCounts) time.Time { return r.Date },
		func(d time.Time) store.SessionStatusCounts { return store.SessionStatusCounts{Date: d} },
	)
	for i, r := range filled {
		values := []interface{}{r.Date, r.Total, r.Created, r.Started, r.Paused, r.PendingReview, r.Completed}
		if err := w.WriteRow(sheet, row+1+i, col, values, xlsx.Plain, xlsx.Date); err != nil {
			return err
		}
	}
	return nil
}

// Panel 5.
func (a *Assembler) renderOnlineByHour(ctx context.Context, w Writer, s slot, result *Result) ([]domain.PanelSummary, error) {
	sheet := SheetOnlineByHour
	col := s.col(sheet)
	logger := zerolog.Ctx(ctx)

	rows, err := a.store.SessionsByHour(ctx, s.window)
	if err != nil {
		return nil, err
	}

	if err := writeLabel(w, sheet, rowHourly-2, s); err != nil {
		return nil, err
	}
	if err := w.Write(sheet, rowHourly-1, col, "By Last Login Date", xlsx.Header); err != nil {
		return nil, err
	}
	if err := writeHeader(w, sheet, rowHourly, col, hourlyHeader); err != nil {
		return nil, err
	}

	styles := []xlsx.Style{
		xlsx.Plain, xlsx.Plain, xlsx.Plain, xlsx.Plain, xlsx.Plain, xlsx.Plain,
		xlsx.WholePercent, xlsx.WholePercent, xlsx.WholePercent, xlsx.WholePercent,
	}
	for i, r := range rows {
		hour := r.Hour.Format("2006-01-02 15")
		others := r.Others()
		if others < 0 {
			msg := fmt.Sprintf("%s %s: cohort sessions exceed total by %d", s.window.Label, hour, -others)
			logger.Warn().Str("window", string(s.window.Label)).Str("hour", hour).Int64("others", others).
				Msg("cohort sessions exceed total sessions")
			result.Warnings = append(result.Warnings, msg)
		}

		values := []interface{}{
			hour, r.Sessions, r.ABeka, r.BEC, r.FrogStreet, others,
			share(r.ABeka, r.Sessions),
			share(r.BEC, r.Sessions),
			share(r.FrogStreet, r.Sessions),
			share(others, r.Sessions),
		}
		if err := w.WriteRow(sheet, rowHourly+1+i, col, values, xlsx.Plain, styles...); err != nil {
			return nil, err
		}
	}

	return []domain.PanelSummary{summary(sheet, "5", s, len(rows))}, nil
}

// Panels 6A and 6B.
func (a *Assembler) renderDataLocker(ctx context.Context, w Writer, s slot, _ *Result) ([]domain.PanelSummary, error) {
	sheet := SheetDataLocker
	col := s.col(sheet)

	byDate, err := a.store.EntryByDate(ctx, s.window)
	if err != nil {
		return nil, err
	}

	if s.anchor {
		if err := w.Write(sheet, rowEntryDate-2, col, "By Date", xlsx.Week); err != nil {
			return nil, err
		}
	}
	if err := writeLabel(w, sheet, rowEntryDate-1, s); err != nil {
		return nil, err
	}
	if err := writeHeader(w, sheet, rowEntryDate, col, entryDateHeader); err != nil {
		return nil, err
	}

	filled := fillDates(byDate, s.window,
		func(r store.DailyEntry) time.Time { return r.Date },
		func(d time.Time) store.DailyEntry { return store.DailyEntry{Date: d} },
	)
	var totals []int64
	for i, r := range filled {
		if err := w.WriteRow(sheet, rowEntryDate+1+i, col, []interface{}{r.Date, r.Total}, xlsx.Plain, xlsx.Date); err != nil {
			return nil, err
		}
		totals = append(totals, r.Total)
	}
	total := []interface{}{"Total", sum(totals)}
	if err := w.WriteRow(sheet, rowEntryDate+1+weekDays, col, total, xlsx.Header); err != nil {
		return nil, err
	}

	byClient, err := a.store.EntryByClient(ctx, s.window)
	if err != nil {
		return nil, err
	}

	if s.anchor {
		if err := w.Write(sheet, rowEntryClient-2, col, "By Client", xlsx.Week); err != nil {
			return nil, err
		}
	}
	if err := writeLabel(w, sheet, rowEntryClient-1, s); err != nil {
		return nil, err
	}
	if err := writeHeader(w, sheet, rowEntryClient, col, entryClientHeader); err != nil {
		return nil, err
	}
	for i, r := range byClient {
		if err := w.WriteRow(sheet, rowEntryClient+1+i, col, []interface{}{r.State, r.District, r.Total}, xlsx.Plain); err != nil {
			return nil, err
		}
	}

	return []domain.PanelSummary{
		summary(sheet, "6A", s, len(byDate)),
		summary(sheet, "6B", s, len(byClient)),
	}, nil
}
