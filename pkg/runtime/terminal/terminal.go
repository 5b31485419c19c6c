package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/usage-report/pkg/runtime/terminal/commands"
	"github.com/de-tools/usage-report/pkg/runtime/terminal/export"
	"github.com/de-tools/usage-report/pkg/services/workflow"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	globals  *commands.Globals
	reporter *export.Reporter
	open     workflow.Opener
	output   io.Writer
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	RunID  string
	Output io.Writer
	// Opener overrides how the warehouse is reached; nil uses the
	// configured driver.
	Opener workflow.Opener
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		globals:  &commands.Globals{RunID: opts.RunID},
		reporter: export.NewReporter(opts.Output),
		open:     opts.Opener,
		output:   opts.Output,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs replaces os.Args for the next Execute.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	run := commands.NewRunCmd(cli.globals, cli.reporter, cli.open)

	cmd := &cobra.Command{
		Use:           "usage-report",
		Short:         "Weekly usage report generator",
		Long:          "Builds the weekly usage workbook comparing this week, last week and the same week last year.",
		Args:          cobra.NoArgs,
		RunE:          run.RunE,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(cli.output)
	cmd.Flags().AddFlagSet(run.Flags())

	cmd.PersistentFlags().StringVarP(&cli.globals.ConfigPath, "config", "c", "",
		"Path to the configuration file (default usage-report.yaml)")
	cmd.PersistentFlags().StringVar(&cli.globals.Date, "date", "",
		"Reference date as YYYY-MM-DD (default today)")

	cmd.AddCommand(run)
	cmd.AddCommand(commands.NewWindowsCmd(cli.globals, cli.reporter))
	cmd.AddCommand(commands.NewSeedCmd(cli.globals))
	cmd.AddCommand(commands.NewServeCmd(cli.globals, cli.open))

	return cmd
}
