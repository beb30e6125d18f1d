package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mwiersema/boldfit/internal/model"
)

// EventFileName returns the expected event-table file name for a subject/run.
func EventFileName(subject, run int) string {
	return fmt.Sprintf("sub-%02d_run-%d_events.tsv", subject, run)
}

// LoadEvents reads the tab-separated event table for one subject/run from
// eventsDir. Required columns: onset, duration, trial_type; the optional
// weight column defaults to 1 when absent.
func LoadEvents(eventsDir string, subject, run int) (*model.EventTable, error) {
	path := filepath.Join(eventsDir, EventFileName(subject, run))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening event table: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.Comma = '\t'
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: no event rows", path)
	}

	cols, err := eventColumns(records[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	table := &model.EventTable{Subject: subject, Run: run}
	for i, record := range records[1:] {
		event, err := parseEventRow(record, cols)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
		table.Events = append(table.Events, event)
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

type columnIndex struct {
	onset     int
	duration  int
	trialType int
	weight    int // -1 when the column is absent
}

func eventColumns(header []string) (columnIndex, error) {
	cols := columnIndex{onset: -1, duration: -1, trialType: -1, weight: -1}
	for i, name := range header {
		switch name {
		case "onset":
			cols.onset = i
		case "duration":
			cols.duration = i
		case "trial_type":
			cols.trialType = i
		case "weight":
			cols.weight = i
		}
	}
	for name, idx := range map[string]int{"onset": cols.onset, "duration": cols.duration, "trial_type": cols.trialType} {
		if idx < 0 {
			return cols, fmt.Errorf("missing required column %q", name)
		}
	}
	return cols, nil
}

func parseEventRow(record []string, cols columnIndex) (model.Event, error) {
	onset, err := strconv.ParseFloat(record[cols.onset], 64)
	if err != nil {
		return model.Event{}, fmt.Errorf("invalid onset %q: %w", record[cols.onset], err)
	}
	duration, err := strconv.ParseFloat(record[cols.duration], 64)
	if err != nil {
		return model.Event{}, fmt.Errorf("invalid duration %q: %w", record[cols.duration], err)
	}

	weight := 1.0
	if cols.weight >= 0 && cols.weight < len(record) {
		weight, err = strconv.ParseFloat(record[cols.weight], 64)
		if err != nil {
			return model.Event{}, fmt.Errorf("invalid weight %q: %w", record[cols.weight], err)
		}
	}

	return model.Event{
		Onset:     onset,
		Duration:  duration,
		Condition: record[cols.trialType],
		Weight:    weight,
	}, nil
}
