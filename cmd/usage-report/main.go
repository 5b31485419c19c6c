package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/de-tools/usage-report/pkg/runtime/terminal"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}

	runID := uuid.NewString()
	logger := zerolog.New(logWriter()).With().Timestamp().Str("run_id", runID).Logger()
	ctx := logger.WithContext(context.Background())

	cli := terminal.NewCLI(terminal.Options{
		RunID:  runID,
		Output: os.Stdout,
	})

	if err := cli.Execute(ctx); err != nil {
		logger.Error().Err(err).Msg("usage report failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func logWriter() *zerolog.ConsoleWriter {
	return &zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.TimeOnly,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}
}
