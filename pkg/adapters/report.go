package adapters

import (
	"path/filepath"

	"github.com/de-tools/usage-report/pkg/models/api"
	"github.com/de-tools/usage-report/pkg/models/domain"
)

func MapTimeWindowDomainToApi(w domain.TimeWindow) api.TimeWindow {
	return api.TimeWindow{
		Label: string(w.Label),
		Start: w.Start,
		End:   w.End,
	}
}

func MapTimeWindowsDomainToApi(windows []domain.TimeWindow) []api.TimeWindow {
	result := make([]api.TimeWindow, 0, len(windows))
	for _, w := range windows {
		result = append(result, MapTimeWindowDomainToApi(w))
	}
	return result
}

// MapRunSummaryDomainToApi exposes only the file name of the saved report,
// never the server-side path.
func MapRunSummaryDomainToApi(summary *domain.RunSummary) api.RunSummary {
	panels := make([]api.PanelSummary, 0, len(summary.Panels))
	for _, p := range summary.Panels {
		panels = append(panels, api.PanelSummary{
			Sheet:  p.Sheet,
			Panel:  p.Panel,
			Window: string(p.Window),
			Rows:   p.Rows,
			Column: p.Column,
		})
	}

	stats := make([]api.DailyStats, 0, len(summary.Stats))
	for _, st := range summary.Stats {
		stats = append(stats, api.DailyStats{
			Window:  string(st.Window),
			Total:   st.Total,
			Mean:    st.Mean,
			Median:  st.Median,
			Peak:    st.Peak,
			PeakDay: st.PeakDay,
		})
	}

	warnings := summary.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return api.RunSummary{
		RunID:      summary.RunID,
		File:       filepath.Base(summary.Path),
		Published:  summary.Published,
		Windows:    MapTimeWindowsDomainToApi(summary.Windows),
		Panels:     panels,
		Stats:      stats,
		Warnings:   warnings,
		DurationMs: summary.Duration.Milliseconds(),
	}
}
