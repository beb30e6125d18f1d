// Package pipeline runs the per-unit GLM fits over every discovered
// time-series record and aggregates the coefficients into per-subject tables.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"github.com/mwiersema/boldfit/internal/dataset"
	"github.com/mwiersema/boldfit/internal/discover"
	"github.com/mwiersema/boldfit/internal/glm"
	"github.com/mwiersema/boldfit/internal/model"
)

// Options configures one pipeline run.
type Options struct {
	ProgressWriter io.Writer // nil disables the progress bar
	EventsDir      string
	Scan           glm.ScanParams
}

// Result collects the output of one pipeline run: the long-format beta rows
// and the records they were fitted from.
type Result struct {
	Rows    []model.BetaRow
	Records []*model.TimeSeriesRecord
}

// FitAll loads each discovered record and its event table, builds the design
// matrix, fits OLS, and collects the long-format beta rows. Event tables are
// loaded fresh per subject/run; design matrices for the same subject/run are
// rebuilt per mask rather than cached, matching the one-pass batch shape of
// the analysis. Any unit failure aborts the run with an error naming the unit.
func FitAll(ctx context.Context, ids []discover.Identity, opts Options) (*Result, error) {
	if err := opts.Scan.Validate(); err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if opts.ProgressWriter != nil {
		bar = progressbar.NewOptions(len(ids),
			progressbar.OptionSetWriter(opts.ProgressWriter),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Fitting GLMs..."),
		)
	}

	result := &Result{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fit, rec, err := fitUnit(id, opts)
		if err != nil {
			return nil, fmt.Errorf("fitting %s sub-%02d run-%d: %w", id.Mask, id.Subject, id.Run, err)
		}
		result.Rows = append(result.Rows, fit.Rows(id.Subject, id.Mask, id.Run)...)
		result.Records = append(result.Records, rec)

		slog.Debug("unit fit complete",
			"mask", id.Mask, "subject", id.Subject, "run", id.Run, "r_squared", fit.RSquared)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return result, nil
}

// fitUnit performs the fit for one (subject, mask, run) triple.
func fitUnit(id discover.Identity, opts Options) (*model.FitResult, *model.TimeSeriesRecord, error) {
	rec, err := dataset.LoadRecord(id)
	if err != nil {
		return nil, nil, err
	}
	if len(rec.Signal) != opts.Scan.Volumes {
		return nil, nil, fmt.Errorf("%s has %d samples, scan parameters specify %d volumes",
			id.Path, len(rec.Signal), opts.Scan.Volumes)
	}

	events, err := dataset.LoadEvents(opts.EventsDir, id.Subject, id.Run)
	if err != nil {
		return nil, nil, err
	}

	design, err := glm.BuildDesignMatrix(events, opts.Scan)
	if err != nil {
		return nil, nil, err
	}
	fit, err := glm.Fit(design, rec.Signal)
	if err != nil {
		return nil, nil, err
	}
	return fit, rec, nil
}
