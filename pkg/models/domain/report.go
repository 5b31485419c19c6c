package domain

import "time"

// RunSummary describes a finished report run
type RunSummary struct {
	RunID     string
	Path      string
	Published string
	Windows   []TimeWindow
	Panels    []PanelSummary
	Stats     []DailyStats
	Warnings  []string
	Duration  time.Duration
}

// PanelSummary records what one panel wrote for one window
type PanelSummary struct {
	Sheet  string
	Panel  string
	Window WindowLabel
	Rows   int
	Column int
}

// DailyStats summarises the daily result totals of one window, cohorts
// included.
type DailyStats struct {
	Window  WindowLabel
	Total   int64
	Mean    float64
	Median  float64
	Peak    int64
	PeakDay time.Time
}
