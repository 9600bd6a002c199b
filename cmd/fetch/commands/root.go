package commands

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"annualreports/config"
	"annualreports/internal/constants"
	"annualreports/internal/database"
	"annualreports/internal/models"
	"annualreports/internal/repositories"
	"annualreports/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/cobra"
)

type options struct {
	outputDir string
	companies []string
}

func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the fetch CLI. With no subcommand it runs one full
// sweep and exits.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "fetch",
		Short:         "Download annual report PDFs from the public archive",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.outputDir, "output", "o", "", "output directory (overrides OUTPUT_DIR)")
	root.PersistentFlags().StringSliceVarP(&opts.companies, "company", "c", nil, "limit the run to these company names")

	root.AddCommand(planCmd(opts))
	return root
}

func loadConfig(opts *options) (config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return config.Config{}, err
	}
	if opts.outputDir != "" {
		cfg.OutputDir = opts.outputDir
	}
	return cfg, nil
}

// selectCompanies keeps catalog order and rejects names the catalog does not know.
func selectCompanies(catalog []models.CompanyRecord, names []string) ([]models.CompanyRecord, error) {
	if len(names) == 0 {
		return catalog, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[strings.ToLower(strings.TrimSpace(name))] = true
	}

	selected := make([]models.CompanyRecord, 0, len(names))
	for _, company := range catalog {
		key := strings.ToLower(company.Name)
		if wanted[key] {
			selected = append(selected, company)
			delete(wanted, key)
		}
	}

	if len(wanted) > 0 {
		unknown := make([]string, 0, len(wanted))
		for name := range wanted {
			unknown = append(unknown, name)
		}
		return nil, fmt.Errorf("unknown companies: %s", strings.Join(unknown, ", "))
	}

	return selected, nil
}

func runSweep(cmd *cobra.Command, opts *options) error {
	log := logger.New("fetch").Function("runSweep")

	cfg, err := loadConfig(opts)
	if err != nil {
		return log.Err("failed to initialize config", err)
	}

	companies, err := selectCompanies(constants.Companies(), opts.companies)
	if err != nil {
		return log.Err("invalid company filter", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return log.Err("failed to create database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Er("failed to close database", err)
		}
	}()

	svc, err := services.New(db, cfg, repositories.New(db))
	if err != nil {
		return log.Err("failed to create services", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := svc.Sweep.Run(ctx, companies)
	if summary != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d downloaded, %d already present, %d not found, %d requests in %s\n",
			summary.RunID,
			summary.Counts[models.AttemptOutcomeDownloaded],
			summary.Counts[models.AttemptOutcomeSkippedExisting],
			summary.Counts[models.AttemptOutcomeNotFound],
			summary.Requests(),
			summary.Duration().Round(time.Second))
	}
	if err != nil {
		return log.Err("sweep interrupted", err)
	}

	return nil
}
