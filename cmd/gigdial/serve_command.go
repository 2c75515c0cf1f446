// cmd/gigdial/serve_command.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gigdial/internal/common/observability"
	"gigdial/internal/server"

	"github.com/spf13/cobra"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var withWorkers bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the catalog refresh loop",
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

			shutdownTracer, err := observability.InitTracer(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint)
			if err != nil {
				return err
			}
			obs := observability.New(cfg.Observability.ServiceName, log)
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				obs.Shutdown(flushCtx)
				if err := shutdownTracer(flushCtx); err != nil {
					log.Warn("tracer shutdown failed", map[string]interface{}{"error": err})
				}
			}()

			a, err := buildApp(runCtx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			checks := a.checks()
			if withWorkers || cfg.Camunda.Enabled {
				client, pool, err := a.startWorkers(runCtx)
				if err != nil {
					return err
				}
				defer func() {
					pool.Close()
					_ = client.Close()
				}()
				checks["zeebe"] = client.HealthCheck
			}

			sched, err := a.newScheduler()
			if err != nil {
				return err
			}
			sched.Start()
			defer func() {
				stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				sched.Stop(stopCtx)
			}()

			srv := server.New(cfg.Server, server.Options{
				Handlers:      a.handlers,
				Schemas:       a.schemas,
				Resolver:      a.resolver,
				Observability: obs,
				Checks:        checks,
				Version:       cfg.App.Version,
			}, log)

			log.Info("gigdial started", map[string]interface{}{
				"address":     cfg.Server.Address,
				"environment": cfg.App.Environment,
			})
			err = srv.Run(runCtx)
			log.Info("gigdial stopped", nil)
			return err
		},
	}

	cmd.Flags().BoolVar(&withWorkers, "workers", false, "Also run the Zeebe job workers (implied by camunda.enabled)")
	return cmd
}
