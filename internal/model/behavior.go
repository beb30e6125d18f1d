package model

import "errors"

// BehavioralParameter is one row of the precomputed cognitive-model output:
// the per-subject threshold-difference estimate to correlate against betas.
type BehavioralParameter struct {
	ThresholdDiff float64
	Subject       int
}

// Validate checks the parameter row.
func (b *BehavioralParameter) Validate() error {
	if b.Subject <= 0 {
		return errors.New("subject must be positive")
	}
	return nil
}
