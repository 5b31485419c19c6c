package report

import (
	"path/filepath"
	"time"

	"github.com/de-tools/usage-report/pkg/models/domain"
)

const (
	SheetResultsByDate   = "# of Results by Date"
	SheetResultsByClient = "# of Results by Client"
	SheetBenchmarks      = "# of LinkIt Benchmarks"
	SheetOnlineByDate    = "# of Online by Date"
	SheetOnlineByHour    = "# of Online by Hour"
	SheetDataLocker      = "# of Data Locker"
)

// Sheets lists the worksheets in the order they appear in the workbook.
var Sheets = []string{
	SheetResultsByDate,
	SheetResultsByClient,
	SheetBenchmarks,
	SheetOnlineByDate,
	SheetOnlineByHour,
	SheetDataLocker,
}

// Strides is how many columns each sheet moves right between windows.
var Strides = map[string]int{
	SheetResultsByDate:   5,
	SheetResultsByClient: 7,
	SheetBenchmarks:      6,
	SheetOnlineByDate:    8,
	SheetOnlineByHour:    11,
	SheetDataLocker:      4,
}

// Header rows of each panel. They are the same for every window.
const (
	rowDailyAll      = 1
	rowDailyFiltered = 17
	rowClient        = 1
	rowBenchmarks    = 1
	rowOnlineStart   = 2
	rowOnlineLogin   = 14
	rowHourly        = 2
	rowEntryDate     = 2
	rowEntryClient   = 14
)

// weekDays is the number of data rows of a date-filled panel.
const weekDays = 7

const firstColumnWidth = 15

const cohortBanner = "Without BEC, A Beka, A List, CEE, Frog Street"

// Offsets maps a sheet to the column its next window block starts at.
type Offsets map[string]int

func NewOffsets() Offsets {
	o := make(Offsets, len(Sheets))
	for _, s := range Sheets {
		o[s] = 0
	}
	return o
}

// Advance returns the offsets for the next window.
func (o Offsets) Advance() Offsets {
	next := make(Offsets, len(o))
	for sheet, col := range o {
		next[sheet] = col + Strides[sheet]
	}
	return next
}

// ReportPath returns where the report for the given current week is saved.
func ReportPath(dir string, current domain.TimeWindow) string {
	return filepath.Join(dir, current.End.Format(time.DateOnly)+" Weekly Usage Report.xlsx")
}
