package commands

import (
	"fmt"
	"text/tabwriter"

	"annualreports/internal/constants"
	"annualreports/internal/services"

	"github.com/spf13/cobra"
)

func planCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "List every URL and save path a sweep would visit, without network access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			companies, err := selectCompanies(constants.Companies(), opts.companies)
			if err != nil {
				return err
			}

			sweep := services.NewSweepService(cfg, nil, services.NewRetryPolicy(cfg))
			targets, skipped := sweep.Plan(companies)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "COMPANY\tYEAR\tURL\tSAVE PATH")
			for _, target := range targets {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", target.Company.Name, target.Year, target.URL, target.SavePath)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			for _, name := range skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "skipping %s: no archive slug\n", name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d targets, %d companies skipped\n", len(targets), len(skipped))
			return nil
		},
	}
}
