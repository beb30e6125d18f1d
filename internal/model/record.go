// Package model defines the core data types flowing through the analysis
// pipeline: extracted ROI time series, behavioral event tables, fit results,
// and per-subject behavioral parameters.
package model

import (
	"errors"
	"fmt"
)

// TimeSeriesRecord is one extracted ROI BOLD time series for a single
// (subject, mask, run) combination. Immutable once loaded.
type TimeSeriesRecord struct {
	Mask    string
	Path    string
	Signal  []float64
	Subject int
	Run     int
}

// Key returns the natural identifier for logging and storage.
func (r *TimeSeriesRecord) Key() string {
	return fmt.Sprintf("sub-%02d/%s/run-%d", r.Subject, r.Mask, r.Run)
}

// Validate checks that the record is usable for a GLM fit.
func (r *TimeSeriesRecord) Validate() error {
	if r.Subject <= 0 {
		return errors.New("subject must be positive")
	}
	if r.Mask == "" {
		return errors.New("mask name is required")
	}
	if r.Run <= 0 {
		return errors.New("run must be positive")
	}
	if len(r.Signal) == 0 {
		return errors.New("signal is empty")
	}
	return nil
}
