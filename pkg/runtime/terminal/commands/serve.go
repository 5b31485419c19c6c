package commands

import (
	"github.com/de-tools/usage-report/pkg/server"
	"github.com/de-tools/usage-report/pkg/services/workflow"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type ServeCmd struct {
	globals *Globals
	open    workflow.Opener
	addr    string
}

func NewServeCmd(globals *Globals, open workflow.Opener) *cobra.Command {
	sc := &ServeCmd{globals: globals, open: open}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve saved reports over HTTP and generate new ones on request",
		Args:  cobra.NoArgs,
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.addr, "addr", "127.0.0.1:8080", "Address to listen on")

	return cmd
}

func (sc *ServeCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cfg, err := sc.globals.Load(cmd.Context())
	if err != nil {
		return err
	}

	api := server.NewWebAPI(server.Config{
		Addr: sc.addr,
		Dependencies: server.Dependencies{
			Reports:   workflow.NewRunner(cfg, sc.open, nil),
			OutputDir: cfg.Report.OutputDir,
			Logger:    *zerolog.Ctx(ctx),
		},
	})
	return api.Start(ctx)
}
