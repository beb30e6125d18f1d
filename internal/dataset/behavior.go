package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/mwiersema/boldfit/internal/model"
)

// LoadBehavioral reads the precomputed per-subject parameter CSV. Required
// columns: subject, threshold_diff. One row per subject; a repeated subject
// id is an error.
func LoadBehavioral(path string) ([]model.BehavioralParameter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening behavioral parameters: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: no parameter rows", path)
	}

	subjectCol, valueCol := -1, -1
	for i, name := range records[0] {
		switch name {
		case "subject":
			subjectCol = i
		case "threshold_diff":
			valueCol = i
		}
	}
	if subjectCol < 0 || valueCol < 0 {
		return nil, fmt.Errorf("%s: header must contain subject and threshold_diff columns", path)
	}

	seen := make(map[int]bool)
	params := make([]model.BehavioralParameter, 0, len(records)-1)
	for i, record := range records[1:] {
		subject, err := strconv.Atoi(record[subjectCol])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid subject %q: %w", path, i+2, record[subjectCol], err)
		}
		value, err := strconv.ParseFloat(record[valueCol], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid threshold_diff %q: %w", path, i+2, record[valueCol], err)
		}
		if seen[subject] {
			return nil, fmt.Errorf("%s line %d: duplicate subject %d", path, i+2, subject)
		}
		seen[subject] = true

		param := model.BehavioralParameter{Subject: subject, ThresholdDiff: value}
		if err := param.Validate(); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
		params = append(params, param)
	}
	return params, nil
}
