package api

import "time"

type TimeWindow struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type PanelSummary struct {
	Sheet  string `json:"sheet"`
	Panel  string `json:"panel"`
	Window string `json:"window"`
	Rows   int    `json:"rows"`
	Column int    `json:"column"`
}

type DailyStats struct {
	Window  string    `json:"window"`
	Total   int64     `json:"total"`
	Mean    float64   `json:"mean"`
	Median  float64   `json:"median"`
	Peak    int64     `json:"peak"`
	PeakDay time.Time `json:"peak_day"`
}

type RunSummary struct {
	RunID      string         `json:"run_id"`
	File       string         `json:"file"`
	Published  string         `json:"published,omitempty"`
	Windows    []TimeWindow   `json:"windows"`
	Panels     []PanelSummary `json:"panels"`
	Stats      []DailyStats   `json:"stats"`
	Warnings   []string       `json:"warnings"`
	DurationMs int64          `json:"duration_ms"`
}

type ReportFile struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}
