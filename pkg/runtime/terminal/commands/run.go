package commands

import (
	"github.com/de-tools/usage-report/pkg/runtime/terminal/export"
	"github.com/de-tools/usage-report/pkg/services/workflow"
	"github.com/spf13/cobra"
)

type RunCmd struct {
	globals   *Globals
	reporter  *export.Reporter
	open      workflow.Opener
	outputDir string
}

func NewRunCmd(globals *Globals, reporter *export.Reporter, open workflow.Opener) *cobra.Command {
	rc := &RunCmd{globals: globals, reporter: reporter, open: open}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate the weekly usage workbook",
		Args:  cobra.NoArgs,
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.outputDir, "output-dir", "", "Directory the workbook is saved in (default ./Usage Reports)")

	return cmd
}

func (rc *RunCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cfg, err := rc.globals.Load(cmd.Context())
	if err != nil {
		return err
	}

	today, err := rc.globals.Today()
	if err != nil {
		return err
	}

	summary, err := workflow.NewRunner(cfg, rc.open, nil).Run(ctx, workflow.Request{
		RunID:     rc.globals.RunID,
		Today:     today,
		OutputDir: rc.outputDir,
	})
	if err != nil {
		return err
	}

	return rc.reporter.Handle(summary)
}
