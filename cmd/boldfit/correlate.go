package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiersema/boldfit/internal/cli"
	"github.com/mwiersema/boldfit/internal/pipeline"
)

func correlateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "correlate",
		Short: "Correlate per-subject betas with behavioral parameters",
		Long: `Join the pivoted beta table with the stored behavioral parameters on
subject id and report the Pearson correlation of each beta column against the
threshold-difference parameter.

Subjects present in only one of the two tables are dropped from the join and
always reported. With --strict, any such mismatch is an error.`,
		RunE: runCorrelate,
	}

	cmd.Flags().Bool("strict", false, "Treat subject-id mismatches between tables as an error")
	_ = viper.BindPFlag("correlate.strict", cmd.Flags().Lookup("strict"))

	return cmd
}

func runCorrelate(cmd *cobra.Command, _ []string) error {
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
		return fmt.Errorf("no fit results stored - run 'boldfit fit' first")
	}

	params, err := store.GetBehavioral(ctx)
	if err != nil {
		return err
	}
	if len(params) == 0 {
		return fmt.Errorf("no behavioral parameters stored - run 'boldfit behavior import' first")
	}

	combined, mismatch := pipeline.Join(pipeline.Pivot(betas), params)
	if !mismatch.Empty() {
		if viper.GetBool("correlate.strict") {
			return fmt.Errorf("subject-id mismatch between betas and behavioral parameters: %s", mismatch)
		}
		slog.Warn(cli.FormatWarning("inner join dropped subjects"), "mismatch", mismatch.String())
	}
	if len(combined.Subjects) == 0 {
		return fmt.Errorf("no subjects in common between betas and behavioral parameters")
	}

	correlations := pipeline.Correlate(combined)

	slog.Info(cli.FormatTitle("Beta / threshold-difference correlations"))
	rows := make([][]string, 0, len(correlations))
	for _, c := range correlations {
		rows = append(rows, []string{
			c.Column,
			strconv.Itoa(c.N),
			strconv.FormatFloat(c.R, 'f', 4, 64),
		})
	}
	fmt.Print(cli.RenderTable([]string{"column", "n", "pearson_r"}, rows))

	slog.Info(cli.FormatSuccess(fmt.Sprintf("✓ Correlated %d columns across %d subjects",
		len(correlations), len(combined.Subjects))))
	return nil
}
