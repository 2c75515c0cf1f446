// cmd/gigdial/reindex_command.go
package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newReindexCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Refresh the gig cache and rebuild the search index once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log, err := ctx.logger()
			if err != nil {
				return err
			}

			a, err := buildApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			sched, err := a.newScheduler()
			if err != nil {
				return err
			}
			res, err := sched.RunOnce(cmd.Context())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}
