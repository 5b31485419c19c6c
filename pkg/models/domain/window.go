package domain

import (
	"fmt"
	"time"
)

// WindowLabel names one of the three reporting periods.
type WindowLabel string

const (
	ThisWeek WindowLabel = "This Week"
	LastWeek WindowLabel = "Last Week"
	LastYear WindowLabel = "Last Year"
)

// TimeWindow is a half-open [Start, End) range of calendar dates.
type TimeWindow struct {
	Label WindowLabel
	Start time.Time
	End   time.Time
}

func (w TimeWindow) Days() int {
	return int(w.End.Sub(w.Start).Hours() / 24)
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("%s: %s to %s", w.Label, w.Start.Format(time.DateOnly), w.End.Format(time.DateOnly))
}
