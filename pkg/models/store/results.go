package store

import "time"

// DailyResults is one day of scored test results.
type DailyResults struct {
	Date         time.Time `db:"date"`
	Total        int64     `db:"total"`
	OnlineTests  int64     `db:"online_tests"`
	BubbleSheets int64     `db:"bubble_sheets"`
}

// ClientResults is the result count for one district.
type ClientResults struct {
	State        string `db:"state"`
	District     string `db:"district"`
	TotalResults int64  `db:"total_results"`
	OnlineTests  int64  `db:"online_tests"`
	BubbleSheets int64  `db:"bubble_sheets"`
}

// SessionStatusCounts buckets online test sessions of one day by status.
type SessionStatusCounts struct {
	Date          time.Time `db:"date"`
	Total         int64     `db:"total"`
	Created       int64     `db:"created"`
	Started       int64     `db:"started"`
	Paused        int64     `db:"paused"`
	PendingReview int64     `db:"pending_review"`
	Completed     int64     `db:"completed"`
}

// HourlySessions counts online test sessions that logged in during one hour.
type HourlySessions struct {
	Hour       time.Time `db:"hour"`
	Sessions   int64     `db:"sessions"`
	ABeka      int64     `db:"a_beka"`
	BEC        int64     `db:"bec"`
	FrogStreet int64     `db:"frog_street"`
}

// Others is the part of Sessions not attributed to a named cohort.
func (h HourlySessions) Others() int64 {
	return h.Sessions - (h.ABeka + h.BEC + h.FrogStreet)
}

// DailyEntry counts manually entered results for one day.
type DailyEntry struct {
	Date  time.Time `db:"date"`
	Total int64     `db:"total"`
}

// ClientEntry counts manually entered results for one district.
type ClientEntry struct {
	State    string `db:"state"`
	District string `db:"district"`
	Total    int64  `db:"total"`
}
