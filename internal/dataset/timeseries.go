// Package dataset loads the three on-disk inputs of the pipeline: extracted
// time-series files, behavioral event tables, and the precomputed behavioral
// parameter CSV.
package dataset

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mwiersema/boldfit/internal/discover"
	"github.com/mwiersema/boldfit/internal/model"
)

// LoadSignal reads a time-series file: one floating-point sample per line,
// blank lines ignored.
func LoadSignal(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening time series: %w", err)
	}
	defer func() { _ = f.Close() }()

	var signal []float64
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid sample %q: %w", path, line, text, err)
		}
		signal = append(signal, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(signal) == 0 {
		return nil, fmt.Errorf("%s contains no samples", path)
	}
	return signal, nil
}

// LoadRecord loads the signal behind a discovered identity into a validated
// TimeSeriesRecord.
func LoadRecord(id discover.Identity) (*model.TimeSeriesRecord, error) {
	signal, err := LoadSignal(id.Path)
	if err != nil {
		return nil, err
	}
	rec := &model.TimeSeriesRecord{
		Subject: id.Subject,
		Mask:    id.Mask,
		Run:     id.Run,
		Signal:  signal,
		Path:    id.Path,
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("record %s: %w", id.Path, err)
	}
	return rec, nil
}
