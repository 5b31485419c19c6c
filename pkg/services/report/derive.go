package report

import (
	"fmt"
	"time"

	"github.com/de-tools/usage-report/pkg/models/domain"
	"github.com/de-tools/usage-report/pkg/models/store"
	"github.com/de-tools/usage-report/pkg/services/calendar"
	"github.com/montanaflynn/stats"
)

// fillDates returns one row per day of the window, in date order. Days the
// query returned nothing for get a zero row; rows outside the window are
// dropped.
func fillDates[T any](rows []T, w domain.TimeWindow, date func(T) time.Time, zero func(time.Time) T) []T {
	days := calendar.Days(w)
	filled := make([]T, 0, len(days))
	for _, day := range days {
		row := zero(day)
		for _, r := range rows {
			if calendar.SameDay(date(r), day) {
				row = r
				break
			}
		}
		filled = append(filled, row)
	}
	return filled
}

func sum(values []int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}

// dailyStats summarises the date-filled daily totals of a window.
func dailyStats(w domain.TimeWindow, rows []store.DailyResults) (domain.DailyStats, error) {
	data := make(stats.Float64Data, len(rows))
	totals := make([]int64, len(rows))
	for i, r := range rows {
		data[i] = float64(r.Total)
		totals[i] = r.Total
	}

	mean, err := data.Mean()
	if err != nil {
		return domain.DailyStats{}, fmt.Errorf("failed to compute daily mean for %s: %w", w.Label, err)
	}
	median, err := data.Median()
	if err != nil {
		return domain.DailyStats{}, fmt.Errorf("failed to compute daily median for %s: %w", w.Label, err)
	}
	peak, err := data.Max()
	if err != nil {
		return domain.DailyStats{}, fmt.Errorf("failed to compute daily peak for %s: %w", w.Label, err)
	}

	out := domain.DailyStats{
		Window: w.Label,
		Total:  sum(totals),
		Mean:   mean,
		Median: median,
		Peak:   int64(peak),
	}
	for _, r := range rows {
		if r.Total == out.Peak {
			out.PeakDay = r.Date
			break
		}
	}
	return out, nil
}

// share is part/whole, or zero when whole is zero.
func share(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
