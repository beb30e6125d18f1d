package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mwiersema/boldfit/internal/cli"
	"github.com/mwiersema/boldfit/internal/dataset"
)

func behaviorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "behavior",
		Short: "Manage behavioral-model parameters",
	}

	cmd.AddCommand(behaviorImportCmd())
	cmd.AddCommand(behaviorListCmd())

	return cmd
}

func behaviorImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <csv>",
		Short: "Import precomputed per-subject threshold-difference parameters",
		Long: `Load a CSV of fitted cognitive-model parameters into the results store.
The file must have a header with subject and threshold_diff columns and one
row per subject.`,
		Args: cobra.ExactArgs(1),
		RunE: runBehaviorImport,
	}
}

func runBehaviorImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	params, err := dataset.LoadBehavioral(args[0])
	if err != nil {
		return err
	}

	store, err := openStorage()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := store.SaveBehavioral(ctx, params); err != nil {
		return fmt.Errorf("failed to save behavioral parameters: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("✓ Imported parameters for %d subjects", len(params))))
	return nil
}

func behaviorListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored behavioral parameters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage()
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
			params, err := store.GetBehavioral(ctx)
			if err != nil {
				return err
			}
			if len(params) == 0 {
				slog.Info(cli.FormatWarning("No behavioral parameters stored yet"))
				return nil
			}

			rows := make([][]string, 0, len(params))
			for _, p := range params {
				rows = append(rows, []string{strconv.Itoa(p.Subject), formatBeta(p.ThresholdDiff)})
			}
			fmt.Print(cli.RenderTable([]string{"subject", "threshold_diff"}, rows))
			return nil
		},
	}
}
