package main

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiersema/boldfit/internal/cli"
	"github.com/mwiersema/boldfit/internal/pipeline"
)

func resultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Show the pivoted per-subject beta table",
		Long: `Pivot the stored long-format fit results into one row per subject with a
column per (mask, condition) pair. Betas for the same subject, mask, and
condition are averaged across runs.`,
		RunE: runResults,
	}

	cmd.Flags().String("csv", "", "Export the wide table to a CSV file")
	_ = viper.BindPFlag("results.csv", cmd.Flags().Lookup("csv"))

	return cmd
}

func runResults(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStorage()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	betas, err := store.GetBetas(ctx)
	if err != nil {
		return err
	}
	if len(betas) == 0 {
		slog.Info(cli.FormatWarning("No fit results stored yet - run 'boldfit fit' first"))
		return nil
	}

	wide := pipeline.Pivot(betas)

	if csvPath := viper.GetString("results.csv"); csvPath != "" {
		if err := exportWideCSV(wide, csvPath); err != nil {
			return err
		}
		slog.Info(cli.FormatSuccess(fmt.Sprintf("✓ Exported %d subjects to %s", len(wide.Subjects), csvPath)))
	}

	slog.Info(cli.FormatTitle("Per-subject betas"))
	fmt.Print(cli.RenderTable(wideHeader(wide), wideRows(wide)))
	return nil
}

func wideHeader(wide *pipeline.WideTable) []string {
	return append([]string{"subject"}, wide.Columns...)
}

func wideRows(wide *pipeline.WideTable) [][]string {
	rows := make([][]string, 0, len(wide.Subjects))
	for _, subject := range wide.Subjects {
		row := []string{strconv.Itoa(subject)}
		for _, col := range wide.Columns {
			if v, ok := wide.Values[subject][col]; ok {
				row = append(row, formatBeta(v))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func exportWideCSV(wide *pipeline.WideTable, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(wideHeader(wide)); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range wideRows(wide) {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
