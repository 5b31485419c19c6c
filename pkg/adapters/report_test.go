package adapters

import (
	"testing"
	"time"

	"github.com/de-tools/usage-report/pkg/models/api"
	"github.com/de-tools/usage-report/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapRunSummaryDomainToApi(t *testing.T) {
	start := time.Date(2026, 10, 9, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	got := MapRunSummaryDomainToApi(&domain.RunSummary{
		RunID:    "run-1",
		Path:     "/srv/Usage Reports/2026-10-16 Weekly Usage Report.xlsx",
		Windows:  []domain.TimeWindow{{Label: domain.ThisWeek, Start: start, End: end}},
		Panels:   []domain.PanelSummary{{Sheet: "# of Data Locker", Panel: "6A", Window: domain.ThisWeek, Rows: 3}},
		Stats:    []domain.DailyStats{{Window: domain.ThisWeek, Total: 14, Mean: 2, Median: 2, Peak: 5, PeakDay: start}},
		Duration: 1500 * time.Millisecond,
	})

	assert.Equal(t, api.RunSummary{
		RunID:      "run-1",
		File:       "2026-10-16 Weekly Usage Report.xlsx",
		Windows:    []api.TimeWindow{{Label: "This Week", Start: start, End: end}},
		Panels:     []api.PanelSummary{{Sheet: "# of Data Locker", Panel: "6A", Window: "This Week", Rows: 3}},
		Stats:      []api.DailyStats{{Window: "This Week", Total: 14, Mean: 2, Median: 2, Peak: 5, PeakDay: start}},
		Warnings:   []string{},
		DurationMs: 1500,
	}, got)
}
