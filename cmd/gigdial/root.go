// cmd/gigdial/root.go
package main

import (
	"github.com/spf13/cobra"
)

// skipConfigLoad marks commands that run without a config file.
const skipConfigLoad = "gigdial/skip-config"

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "gigdial",
		Short:         "GigDial discovery backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newWorkersCommand(ctx))
	rootCmd.AddCommand(newReindexCommand(ctx))
	rootCmd.AddCommand(newClassifyCommand())
	rootCmd.AddCommand(newRulesCommand())

	return rootCmd
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipConfigLoad] == "true" {
			return true
		}
	}
	return false
}

func noConfig() map[string]string {
	return map[string]string{skipConfigLoad: "true"}
}
