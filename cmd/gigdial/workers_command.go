// cmd/gigdial/workers_command.go
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newWorkersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "workers",
		Short: "Run only the Zeebe job workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log, err := ctx.logger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := buildApp(runCtx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			client, pool, err := a.startWorkers(runCtx)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			<-runCtx.Done()
			log.Info("shutdown signal received, stopping workers", nil)
			pool.Close()
			return nil
		},
	}
}
