package glm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/mwiersema/boldfit/internal/model"
)

// oversampling is the number of fine-grid samples per acquisition. Event
// onsets rarely align with the acquisition grid, so regressors are built and
// convolved on a finer grid before sampling at the scan times.
const oversampling = 16

// DesignMatrixError reports malformed or out-of-range event timing.
type DesignMatrixError struct {
	Event  model.Event
	Reason string
}

func (e *DesignMatrixError) Error() string {
	return fmt.Sprintf("event %q at %.3fs: %s", e.Event.Condition, e.Event.Onset, e.Reason)
}

// DesignMatrix holds the predicted regressor values: one row per acquisition
// time point, one column per condition plus a trailing intercept column.
type DesignMatrix struct {
	X     *mat.Dense
	Names []string
	TR    float64
}

// Volumes returns the number of acquisition time points.
func (d *DesignMatrix) Volumes() int {
	r, _ := d.X.Dims()
	return r
}

// ScanParams are the acquisition constants supplied by the caller, never
// derived from data.
type ScanParams struct {
	TR      float64 // repetition time in seconds
	Volumes int     // number of acquired volumes
}

// Validate checks the acquisition constants.
func (p ScanParams) Validate() error {
	if p.TR <= 0 {
		return fmt.Errorf("repetition time must be positive, got %g", p.TR)
	}
	if p.Volumes <= 0 {
		return fmt.Errorf("volume count must be positive, got %d", p.Volumes)
	}
	return nil
}

// Duration returns the total scan duration in seconds.
func (p ScanParams) Duration() float64 {
	return float64(p.Volumes) * p.TR
}

// BuildDesignMatrix constructs the HRF-convolved design matrix for an event
// table. Each condition's regressor is a weight-scaled boxcar on a fine grid
// (zero-duration events become single-sample impulses), convolved with the
// canonical HRF and sampled at the acquisition times i*TR. Events extending
// past the scan end are truncated at the boundary; an event whose onset lies
// at or beyond the scan end is a DesignMatrixError.
func BuildDesignMatrix(table *model.EventTable, params ScanParams) (*DesignMatrix, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(table.Events) == 0 {
		return nil, fmt.Errorf("event table for sub-%02d run-%d is empty", table.Subject, table.Run)
	}

	scanEnd := params.Duration()
	for _, e := range table.Events {
		if err := e.Validate(); err != nil {
			return nil, &DesignMatrixError{Event: e, Reason: err.Error()}
		}
		if e.Onset >= scanEnd {
			return nil, &DesignMatrixError{
				Event:  e,
				Reason: fmt.Sprintf("onset is at or beyond scan end (%.1fs)", scanEnd),
			}
		}
	}

	dt := params.TR / oversampling
	nFine := params.Volumes * oversampling
	kernel := CanonicalHRF(dt)
	conditions := table.Conditions()

	x := mat.NewDense(params.Volumes, len(conditions)+1, nil)
	for c, cond := range conditions {
		fine := make([]float64, nFine)
		for _, e := range table.Events {
			if e.Condition != cond {
				continue
			}
			start := int(math.Round(e.Onset / dt))
			samples := int(math.Round(e.Duration / dt))
			if samples < 1 {
				samples = 1 // impulse
			}
			for i := start; i < start+samples && i < nFine; i++ {
				fine[i] += e.Weight
			}
		}
		predicted := convolve(fine, kernel)
		for row := 0; row < params.Volumes; row++ {
			x.Set(row, c, predicted[row*oversampling])
		}
	}
	for row := 0; row < params.Volumes; row++ {
		x.Set(row, len(conditions), 1)
	}

	names := append(append([]string{}, conditions...), model.InterceptName)
	return &DesignMatrix{X: x, Names: names, TR: params.TR}, nil
}
