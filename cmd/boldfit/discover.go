package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiersema/boldfit/internal/cli"
	"github.com/mwiersema/boldfit/internal/discover"
)

func discoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover <data-dir>",
		Short: "List the time-series files in a data directory",
		Long: `Enumerate extracted ROI time-series files and parse the mask name,
subject id, and run number from each file name.

Files must follow the template <mask>_sub-<subject>_run-<run>.txt. A file
that deviates from the template is an error unless --skip-unmatched is set.`,
		Args: cobra.ExactArgs(1),
		RunE: runDiscover,
	}

	cmd.Flags().Bool("skip-unmatched", false, "Warn about non-conforming file names instead of failing")
	_ = viper.BindPFlag("discover.skip_unmatched", cmd.Flags().Lookup("skip-unmatched"))

	return cmd
}

func runDiscover(_ *cobra.Command, args []string) error {
	dataDir := args[0]

	ids, unmatched, err := discover.Scan(dataDir, viper.GetBool("discover.skip_unmatched"))
	if err != nil {
		return err
	}
	warnUnmatched(unmatched)

	slog.Info(cli.FormatTitle("Discovered time series"))

	rows := make([][]string, 0, len(ids))
	subjects := make(map[int]bool)
	masks := make(map[string]bool)
	for _, id := range ids {
		subjects[id.Subject] = true
		masks[id.Mask] = true
		rows = append(rows, []string{
			id.Mask,
			strconv.Itoa(id.Subject),
			strconv.Itoa(id.Run),
			id.Path,
		})
	}
	fmt.Print(cli.RenderTable([]string{"mask", "subject", "run", "path"}, rows))

	slog.Info(cli.FormatSuccess(fmt.Sprintf("✓ %d files, %d subjects, %d masks",
		len(ids), len(subjects), len(masks))))
	return nil
}

func warnUnmatched(unmatched []string) {
	for _, path := range unmatched {
		slog.Warn(cli.FormatWarning("skipping file that does not match the naming template"), "path", path)
	}
}
