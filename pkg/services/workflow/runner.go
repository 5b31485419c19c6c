// Package workflow runs one weekly report end to end: warehouse connection,
// query battery, workbook and optional publication.
package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/de-tools/usage-report/pkg/models/domain"
	"github.com/de-tools/usage-report/pkg/services/calendar"
	"github.com/de-tools/usage-report/pkg/services/config"
	"github.com/de-tools/usage-report/pkg/services/publish"
	"github.com/de-tools/usage-report/pkg/services/report"
	"github.com/de-tools/usage-report/pkg/store/usage"
	"github.com/de-tools/usage-report/pkg/store/warehouse"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// Opener connects to the configured warehouse.
type Opener func(ctx context.Context, cfg *config.Config) (*sqlx.DB, error)

// Publisher uploads a saved workbook and returns where it went.
type Publisher interface {
	Publish(ctx context.Context, file string) (string, error)
}

type PublisherFactory func(ctx context.Context, cfg config.PublishConfig) (Publisher, error)

func s3Publisher(ctx context.Context, cfg config.PublishConfig) (Publisher, error) {
	return publish.NewS3Publisher(ctx, cfg)
}

type Controller interface {
	Run(ctx context.Context, req Request) (*domain.RunSummary, error)
}

type Request struct {
	RunID string
	Today time.Time
	// OutputDir overrides report.output_dir when set.
	OutputDir string
}

type Runner struct {
	cfg     *config.Config
	open    Opener
	publish PublisherFactory

	// runs are serialized; a second request waits for the first to save.
	mu sync.Mutex
}

func NewRunner(cfg *config.Config, open Opener, publisher PublisherFactory) *Runner {
	if open == nil {
		open = warehouse.Open
	}
	if publisher == nil {
		publisher = s3Publisher
	}
	return &Runner{cfg: cfg, open: open, publish: publisher}
}

func (r *Runner) Run(ctx context.Context, req Request) (*domain.RunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger := zerolog.Ctx(ctx).With().Str("run_id", req.RunID).Logger()
	ctx = logger.WithContext(ctx)

	windows := calendar.SetupWindows(req.Today)

	dialect, err := usage.LookupDialect(r.cfg.Warehouse.Driver)
	if err != nil {
		return nil, err
	}

	db, err := r.open(ctx, r.cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close warehouse connection")
		}
	}()

	store := usage.NewStore(db, usage.Settings{
		Dialect:    dialect,
		Cohorts:    r.cfg.Cohorts,
		HourOffset: r.cfg.Report.HourOffset,
	})

	dir := r.cfg.Report.OutputDir
	if req.OutputDir != "" {
		dir = req.OutputDir
	}
	path := report.ReportPath(dir, windows[0])

	summary, err := report.NewAssembler(store).Generate(ctx, windows, path)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}
	summary.RunID = req.RunID

	if r.cfg.Publish.Enabled() {
		publisher, err := r.publish(ctx, r.cfg.Publish)
		if err != nil {
			return nil, err
		}
		location, err := publisher.Publish(ctx, path)
		if err != nil {
			return nil, err
		}
		summary.Published = location
	}

	return summary, nil
}
