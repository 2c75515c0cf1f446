// cmd/gigdial/classify_command.go
package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"gigdial/internal/common/logger"
	classifycategory "gigdial/internal/workers/catalog/classify-category"
	"gigdial/pkg/registry"

	"github.com/spf13/cobra"
)

func newClassifyCommand() *cobra.Command {
	var rulesPath string
	var policyFlag string
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "classify <category>...",
		Short:       "Show which row each category lands in",
		Args:        cobra.MinimumNArgs(1),
		Annotations: noConfig(),
		RunE: func(cmd *cobra.Command, args []string) error {
			classifier := classifycategory.MustDefault()
			if rulesPath != "" {
				rf, err := registry.LoadRuleFile(rulesPath)
				if err != nil {
					return err
				}
				if classifier, err = classifycategory.NewClassifier(rf.ClassifierRules()); err != nil {
					return err
				}
				// the file's policy applies unless --policy is given
				if !cmd.Flags().Changed("policy") && rf.UnmatchedPolicy != "" {
					policyFlag = rf.UnmatchedPolicy
				}
			}
			policy, err := classifycategory.ParsePolicy(policyFlag)
			if err != nil {
				return err
			}

			h := classifycategory.NewHandler(&classifycategory.Config{UnmatchedPolicy: policy}, classifier, logger.NewNoOpLogger())
			out, err := h.Execute(cmd.Context(), &classifycategory.Input{Categories: args})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tROW\tKEYWORD")
			for _, r := range out.Results {
				kw := r.Keyword
				if !r.Matched {
					kw = "(unmatched)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Category, r.Row.Title(), kw)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "Rule file (defaults to the built-in table)")
	cmd.Flags().StringVar(&policyFlag, "policy", "home", "Where unmatched categories go: home or other")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}
