package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/usage-report/pkg/services/calendar"
	"github.com/de-tools/usage-report/pkg/services/config"
	"github.com/rs/zerolog"
)

// Globals holds the flags and run state shared by every subcommand.
type Globals struct {
	ConfigPath string
	Date       string
	RunID      string
	Now        func() time.Time
}

// Today is the reference date of the run: --date when given, otherwise the
// current local date.
func (g *Globals) Today() (time.Time, error) {
	if g.Date != "" {
		d, err := time.Parse(time.DateOnly, g.Date)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD: %w", g.Date, err)
		}
		return d, nil
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return calendar.Today(now()), nil
}

// Load reads the configuration and returns a context whose logger honours
// the configured level.
func (g *Globals) Load(ctx context.Context) (context.Context, *config.Config, error) {
	cfg, err := config.Load(g.ConfigPath)
	if err != nil {
		return ctx, nil, err
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return ctx, nil, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}

	logger := zerolog.Ctx(ctx).Level(level)
	return logger.WithContext(ctx), cfg, nil
}
