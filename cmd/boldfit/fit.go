package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiersema/boldfit/internal/cli"
	"github.com/mwiersema/boldfit/internal/discover"
	"github.com/mwiersema/boldfit/internal/pipeline"
)

func fitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit <data-dir>",
		Short: "Fit per-subject GLMs and store the beta coefficients",
		Long: `Run the full analysis pipeline: discover time-series files, load each
signal and its event table, build the HRF-convolved design matrix, fit an
ordinary-least-squares regression per (subject, mask, run), and persist the
per-condition coefficients to the results database.`,
		Args: cobra.ExactArgs(1),
		RunE: runFit,
	}

	cmd.Flags().StringP("events-dir", "e", "", "Directory of per-subject/run event tables (required)")
	cmd.Flags().Float64("tr", 0, "Scan repetition time in seconds")
	cmd.Flags().Int("volumes", 0, "Number of acquired volumes per run")
	cmd.Flags().Bool("dry-run", false, "Fit without saving to the database")
	cmd.Flags().Bool("skip-unmatched", false, "Warn about non-conforming file names instead of failing")

	_ = cmd.MarkFlagRequired("events-dir")

	_ = viper.BindPFlag("fit.events_dir", cmd.Flags().Lookup("events-dir"))
	_ = viper.BindPFlag("scan.tr", cmd.Flags().Lookup("tr"))
	_ = viper.BindPFlag("scan.volumes", cmd.Flags().Lookup("volumes"))
	_ = viper.BindPFlag("fit.dry_run", cmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("fit.skip_unmatched", cmd.Flags().Lookup("skip-unmatched"))

	return cmd
}

func runFit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dataDir := args[0]

	scan, err := scanParams()
	if err != nil {
		return err
	}

	slog.Info(cli.FormatTitle("Fitting GLMs"))
	slog.Info("Scan parameters", "tr", scan.TR, "volumes", scan.Volumes, "duration_s", scan.Duration())

	ids, unmatched, err := discover.Scan(dataDir, viper.GetBool("fit.skip_unmatched"))
	if err != nil {
		return err
	}
	warnUnmatched(unmatched)
	slog.Info(fmt.Sprintf("Discovered %d time-series files", len(ids)))

	result, err := pipeline.FitAll(ctx, ids, pipeline.Options{
		EventsDir:      viper.GetString("fit.events_dir"),
		Scan:           scan,
		ProgressWriter: os.Stderr,
	})
	if err != nil {
		return err
	}

	if viper.GetBool("fit.dry_run") {
		slog.Info(cli.FormatWarning("Dry run mode - not saving to database"))
		displayFitSummary(result)
		return nil
	}

	store, err := openStorage()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := store.SaveRuns(ctx, result.Records); err != nil {
		return fmt.Errorf("failed to save runs: %w", err)
	}
	if err := store.SaveBetas(ctx, result.Rows); err != nil {
		return fmt.Errorf("failed to save betas: %w", err)
	}

	slog.Info(cli.FormatSuccess("✓ Fit complete!"))
	displayFitSummary(result)
	return nil
}

func displayFitSummary(result *pipeline.Result) {
	subjects := make(map[int]bool)
	masks := make(map[string]bool)
	conditions := make(map[string]bool)
	for _, row := range result.Rows {
		subjects[row.Subject] = true
		masks[row.Mask] = true
		conditions[row.Condition] = true
	}

	content := fmt.Sprintf(`Units fitted: %d
Beta rows: %d
Subjects: %d
Masks: %d
Conditions: %d
`, len(result.Records), len(result.Rows), len(subjects), len(masks), len(conditions))

	slog.Info(cli.RenderBox("Fit Summary", content))
}
