package commands

import (
	"github.com/de-tools/usage-report/pkg/runtime/terminal/export"
	"github.com/de-tools/usage-report/pkg/services/calendar"
	"github.com/spf13/cobra"
)

type WindowsCmd struct {
	globals  *Globals
	reporter *export.Reporter
}

func NewWindowsCmd(globals *Globals, reporter *export.Reporter) *cobra.Command {
	wc := &WindowsCmd{globals: globals, reporter: reporter}
	return &cobra.Command{
		Use:   "windows",
		Short: "Print the reporting windows without querying the warehouse",
		Args:  cobra.NoArgs,
		RunE:  wc.run,
	}
}

func (wc *WindowsCmd) run(cmd *cobra.Command, _ []string) error {
	today, err := wc.globals.Today()
	if err != nil {
		return err
	}
	return wc.reporter.HandleWindows(calendar.SetupWindows(today))
}
