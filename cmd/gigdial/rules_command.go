// cmd/gigdial/rules_command.go
package main

import (
	"fmt"
	"time"

	classifycategory "gigdial/internal/workers/catalog/classify-category"
	"gigdial/pkg/registry"

	"github.com/spf13/cobra"
)

func newRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "rules",
		Short:       "Inspect category rule tables",
		Annotations: noConfig(),
	}
	cmd.AddCommand(newRulesExportCommand())
	cmd.AddCommand(newRulesCheckCommand())
	return cmd
}

func newRulesExportCommand() *cobra.Command {
	var policyFlag string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the built-in rule table as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := classifycategory.ParsePolicy(policyFlag)
			if err != nil {
				return err
			}
			rf := registry.FromRules(classifycategory.DefaultRules(), policy)
			rf.LastUpdated = time.Now().UTC().Format("2006-01-02")
			return registry.Write(cmd.OutOrStdout(), rf)
		},
	}
	cmd.Flags().StringVar(&policyFlag, "policy", "home", "Unmatched policy recorded in the file")
	return cmd
}

func newRulesCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a rule file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rf, err := registry.LoadRuleFile(args[0])
			if err != nil {
				return err
			}
			keywords := 0
			for _, r := range rf.Rules {
				keywords += len(r.Keywords)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rules, %d keywords, version %s\n",
				args[0], len(rf.Rules), keywords, rf.Version)
			return nil
		},
	}
}
