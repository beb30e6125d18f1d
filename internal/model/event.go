package model

import (
	"fmt"
	"sort"
)

// Event is a single behavioral trial event: a stimulus or response with an
// onset and duration in seconds relative to the start of the scan, a
// condition label, and a parametric weight scaling the predicted response.
type Event struct {
	Condition string
	Onset     float64
	Duration  float64
	Weight    float64
}

// Validate checks event timing. Duration zero is allowed and modeled as an
// impulse; negative timing is always malformed.
func (e *Event) Validate() error {
	if e.Condition == "" {
		return fmt.Errorf("event at onset %.3fs: condition is required", e.Onset)
	}
	if e.Onset < 0 {
		return fmt.Errorf("event %q: negative onset %.3fs", e.Condition, e.Onset)
	}
	if e.Duration < 0 {
		return fmt.Errorf("event %q at %.3fs: negative duration %.3fs", e.Condition, e.Onset, e.Duration)
	}
	return nil
}

// EventTable holds the ordered trial events for one subject/run. It is the
// source of truth for design-matrix construction.
type EventTable struct {
	Events  []Event
	Subject int
	Run     int
}

// Conditions returns the distinct condition labels in sorted order. The
// ordering fixes the column order of the design matrix.
func (t *EventTable) Conditions() []string {
	seen := make(map[string]bool)
	var conds []string
	for _, e := range t.Events {
		if !seen[e.Condition] {
			seen[e.Condition] = true
			conds = append(conds, e.Condition)
		}
	}
	sort.Strings(conds)
	return conds
}

// Validate checks every event in the table.
func (t *EventTable) Validate() error {
	if len(t.Events) == 0 {
		return fmt.Errorf("event table for sub-%02d run-%d is empty", t.Subject, t.Run)
	}
	for i := range t.Events {
		if err := t.Events[i].Validate(); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return nil
}
