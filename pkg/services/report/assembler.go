// Package report lays the weekly query results out into the usage workbook.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/usage-report/pkg/models/domain"
	"github.com/de-tools/usage-report/pkg/runtime/xlsx"
	"github.com/de-tools/usage-report/pkg/store/usage"
	"github.com/rs/zerolog"
)

// Writer is the part of the workbook the assembler writes through.
type Writer interface {
	Write(sheet string, row, col int, value interface{}, style xlsx.Style) error
	WriteRow(sheet string, row, col int, values []interface{}, fallback xlsx.Style, styles ...xlsx.Style) error
	WriteFormula(sheet string, row, col int, formula string, style xlsx.Style) error
	SetColumnWidth(sheet string, col int, width float64) error
}

type Assembler struct {
	store usage.Store
}

func NewAssembler(store usage.Store) *Assembler {
	return &Assembler{store: store}
}

// slot is where one window's panels go.
type slot struct {
	window  domain.TimeWindow
	index   int
	offsets Offsets
	// anchor is the window the change formulas and one-time captions
	// belong to.
	anchor bool
}

func (s slot) col(sheet string) int {
	return s.offsets[sheet]
}

// Result is what a render pass produced.
type Result struct {
	Panels   []domain.PanelSummary
	Stats    []domain.DailyStats
	Warnings []string
}

// Generate renders every window and saves the workbook at path. Nothing is
// saved unless every panel rendered.
func (a *Assembler) Generate(ctx context.Context, windows []domain.TimeWindow, path string) (*domain.RunSummary, error) {
	started := time.Now()
	logger := zerolog.Ctx(ctx)

	if err := xlsx.Prepare(path); err != nil {
		return nil, err
	}

	wb, err := xlsx.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create workbook: %w", err)
	}
	defer func() {
		if err := wb.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close workbook")
		}
	}()

	result, err := a.Render(ctx, wb, windows)
	if err != nil {
		return nil, err
	}

	if err := wb.SaveAs(path); err != nil {
		return nil, err
	}
	logger.Info().Str("path", path).Int("panels", len(result.Panels)).Msg("report saved")

	return &domain.RunSummary{
		Path:     path,
		Windows:  windows,
		Panels:   result.Panels,
		Stats:    result.Stats,
		Warnings: result.Warnings,
		Duration: time.Since(started),
	}, nil
}

// Render writes all panels of all windows in order. Offsets start at zero
// and advance by each sheet's stride after every window.
func (a *Assembler) Render(ctx context.Context, w Writer, windows []domain.TimeWindow) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	result := &Result{}

	offsets := NewOffsets()
	for i, window := range windows {
		s := slot{window: window, index: i, offsets: offsets, anchor: i == 0}
		logger.Info().Str("window", window.String()).Msg("rendering window")

		for _, render := range a.panels() {
			panels, err := render(ctx, w, s, result)
			if err != nil {
				return nil, err
			}
			result.Panels = append(result.Panels, panels...)
		}
		offsets = offsets.Advance()
	}

	if err := w.SetColumnWidth(SheetResultsByDate, 0, firstColumnWidth); err != nil {
		return nil, err
	}
	return result, nil
}

type renderFunc func(ctx context.Context, w Writer, s slot, result *Result) ([]domain.PanelSummary, error)

func (a *Assembler) panels() []renderFunc {
	return []renderFunc{
		a.renderResultsByDate,
		a.renderResultsByClient,
		a.renderBenchmarks,
		a.renderOnlineByDate,
		a.renderOnlineByHour,
		a.renderDataLocker,
	}
}

func summary(sheet, panel string, s slot, rows int) domain.PanelSummary {
	return domain.PanelSummary{
		Sheet:  sheet,
		Panel:  panel,
		Window: s.window.Label,
		Rows:   rows,
		Column: s.col(sheet),
	}
}
