// Package calendar computes the Friday-to-Friday reporting windows.
package calendar

import (
	"time"

	"github.com/de-tools/usage-report/pkg/models/domain"
)

const reportDay = time.Friday

// Today truncates a wall-clock time to its calendar date, expressed at
// midnight UTC so that date arithmetic is not affected by DST transitions.
func Today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// LastFriday returns the most recent Friday strictly before d. On a Friday it
// returns the Friday one week earlier.
func LastFriday(d time.Time) time.Time {
	back := (int(d.Weekday()) - int(reportDay) + 7) % 7
	if back == 0 {
		back = 7
	}
	return d.AddDate(0, 0, -back)
}

// ThisFriday returns d when d is a Friday, otherwise the next Friday after d.
func ThisFriday(d time.Time) time.Time {
	ahead := (int(reportDay) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, ahead)
}

// FridayLastYear moves d back one calendar year and snaps it forward to a
// Friday. Feb 29 maps to Feb 28.
func FridayLastYear(d time.Time) time.Time {
	day := d.Day()
	if d.Month() == time.February && day == 29 {
		day = 28
	}
	shifted := time.Date(d.Year()-1, d.Month(), day, 0, 0, 0, 0, d.Location())
	return ThisFriday(shifted)
}

// SetupWindows returns This Week, Last Week and Last Year in render order.
func SetupWindows(today time.Time) []domain.TimeWindow {
	current := domain.TimeWindow{
		Label: domain.ThisWeek,
		Start: LastFriday(today),
		End:   ThisFriday(today),
	}
	lastWeek := domain.TimeWindow{
		Label: domain.LastWeek,
		Start: LastFriday(current.Start),
		End:   current.Start,
	}
	lastYear := domain.TimeWindow{
		Label: domain.LastYear,
		Start: FridayLastYear(current.Start),
		End:   FridayLastYear(current.End),
	}
	return []domain.TimeWindow{current, lastWeek, lastYear}
}

// Days lists every calendar date in [w.Start, w.End).
func Days(w domain.TimeWindow) []time.Time {
	var days []time.Time
	for d := w.Start; d.Before(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
