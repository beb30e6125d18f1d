package glm

import (
	"errors"
	"math"
	"testing"

	"github.com/mwiersema/boldfit/internal/model"
)

func twoConditionTable() *model.EventTable {
	return &model.EventTable{
		Subject: 1,
		Run:     1,
		Events: []model.Event{
			{Condition: "speed", Onset: 5, Duration: 2, Weight: 1},
			{Condition: "speed", Onset: 15, Duration: 2, Weight: 1},
			{Condition: "speed", Onset: 25, Duration: 2, Weight: 1},
			{Condition: "accuracy", Onset: 35, Duration: 2, Weight: 1},
			{Condition: "accuracy", Onset: 30, Duration: 2, Weight: 1},
			{Condition: "accuracy", Onset: 40, Duration: 2, Weight: 1},
		},
	}
}

func TestCanonicalHRF_Shape(t *testing.T) {
	dt := 0.1
	kernel := CanonicalHRF(dt)

	// Peak near 5s, normalized to 1.
	peakIdx := 0
	for i, v := range kernel {
		if v > kernel[peakIdx] {
			peakIdx = i
		}
	}
	peakTime := float64(peakIdx) * dt
	if peakTime < 4 || peakTime > 6 {
		t.Errorf("HRF peak at %.1fs, want near 5s", peakTime)
	}
	if math.Abs(kernel[peakIdx]-1) > 1e-12 {
		t.Errorf("HRF peak = %g, want 1", kernel[peakIdx])
	}

	// Post-peak undershoot followed by return to baseline.
	hasUndershoot := false
	for _, v := range kernel[peakIdx:] {
		if v < -1e-3 {
			hasUndershoot = true
			break
		}
	}
	if !hasUndershoot {
		t.Error("HRF has no undershoot")
	}
	if tail := kernel[len(kernel)-1]; math.Abs(tail) > 1e-3 {
		t.Errorf("HRF tail = %g, want near 0 at %gs", tail, hrfLength)
	}
}

func TestBuildDesignMatrix_Dimensions(t *testing.T) {
	params := ScanParams{TR: 2.0, Volumes: 40}
	design, err := BuildDesignMatrix(twoConditionTable(), params)
	if err != nil {
		t.Fatalf("BuildDesignMatrix() error: %v", err)
	}

	rows, cols := design.X.Dims()
	if rows != params.Volumes {
		t.Errorf("rows = %d, want %d (one per acquisition)", rows, params.Volumes)
	}
	if cols != 3 {
		t.Errorf("cols = %d, want 3 (two conditions + intercept)", cols)
	}
	wantNames := []string{"accuracy", "speed", model.InterceptName}
	for i, name := range wantNames {
		if design.Names[i] != name {
			t.Errorf("Names[%d] = %q, want %q", i, design.Names[i], name)
		}
	}
}

func TestBuildDesignMatrix_RegressorFollowsEvents(t *testing.T) {
	table := &model.EventTable{
		Subject: 1,
		Run:     1,
		Events:  []model.Event{{Condition: "speed", Onset: 10, Duration: 2, Weight: 1}},
	}
	design, err := BuildDesignMatrix(table, ScanParams{TR: 2.0, Volumes: 30})
	if err != nil {
		t.Fatalf("BuildDesignMatrix() error: %v", err)
	}

	// Before the event the regressor is zero; the peak response lands
	// roughly one HRF peak delay after onset.
	col := 0 // single condition
	for row := 0; row < 5; row++ {
		if v := design.X.At(row, col); v != 0 {
			t.Errorf("regressor at %gs = %g, want 0 before onset", float64(row)*2, v)
		}
	}
	peakRow := 0
	for row := 0; row < 30; row++ {
		if design.X.At(row, col) > design.X.At(peakRow, col) {
			peakRow = row
		}
	}
	peakTime := float64(peakRow) * 2.0
	if peakTime < 13 || peakTime > 20 {
		t.Errorf("regressor peak at %gs, want within HRF delay of the 10s onset", peakTime)
	}
}

func TestBuildDesignMatrix_TimingErrors(t *testing.T) {
	params := ScanParams{TR: 2.0, Volumes: 20} // 40s scan

	tests := []struct {
		name  string
		event model.Event
	}{
		{
			name:  "onset at scan end",
			event: model.Event{Condition: "speed", Onset: 40, Duration: 1, Weight: 1},
		},
		{
			name:  "onset beyond scan end",
			event: model.Event{Condition: "speed", Onset: 55, Duration: 1, Weight: 1},
		},
		{
			name:  "negative duration",
			event: model.Event{Condition: "speed", Onset: 5, Duration: -1, Weight: 1},
		},
		{
			name:  "negative onset",
			event: model.Event{Condition: "speed", Onset: -5, Duration: 1, Weight: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &model.EventTable{Subject: 1, Run: 1, Events: []model.Event{tt.event}}
			_, err := BuildDesignMatrix(table, params)
			var dmErr *DesignMatrixError
			if !errors.As(err, &dmErr) {
				t.Errorf("error = %v, want *DesignMatrixError", err)
			}
		})
	}
}

func TestBuildDesignMatrix_TruncatesAtScanEnd(t *testing.T) {
	// Event starts in-scan but extends past the end.
	table := &model.EventTable{
		Subject: 1,
		Run:     1,
		Events:  []model.Event{{Condition: "speed", Onset: 38, Duration: 30, Weight: 1}},
	}
	design, err := BuildDesignMatrix(table, ScanParams{TR: 2.0, Volumes: 20})
	if err != nil {
		t.Fatalf("BuildDesignMatrix() error: %v", err)
	}
	if rows, _ := design.X.Dims(); rows != 20 {
		t.Errorf("rows = %d, want 20", rows)
	}
}

func TestBuildDesignMatrix_InvalidScanParams(t *testing.T) {
	table := twoConditionTable()
	if _, err := BuildDesignMatrix(table, ScanParams{TR: 0, Volumes: 40}); err == nil {
		t.Error("zero TR accepted")
	}
	if _, err := BuildDesignMatrix(table, ScanParams{TR: 2, Volumes: 0}); err == nil {
		t.Error("zero volume count accepted")
	}
}
