package model

import (
	"reflect"
	"testing"
)

func TestEvent_Validate(t *testing.T) {
	tests := []struct {
		name    string
		event   Event
		wantErr bool
	}{
		{
			name:    "well-formed event",
			event:   Event{Condition: "accuracy", Onset: 5.0, Duration: 2.0, Weight: 1.0},
			wantErr: false,
		},
		{
			name:    "zero duration is an impulse, not an error",
			event:   Event{Condition: "speed", Onset: 10.0, Duration: 0, Weight: 1.0},
			wantErr: false,
		},
		{
			name:    "negative onset",
			event:   Event{Condition: "speed", Onset: -1.0, Duration: 2.0},
			wantErr: true,
		},
		{
			name:    "negative duration",
			event:   Event{Condition: "speed", Onset: 1.0, Duration: -2.0},
			wantErr: true,
		},
		{
			name:    "missing condition",
			event:   Event{Onset: 1.0, Duration: 2.0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEventTable_Conditions(t *testing.T) {
	table := EventTable{
		Subject: 1,
		Run:     1,
		Events: []Event{
			{Condition: "speed", Onset: 5, Duration: 1, Weight: 1},
			{Condition: "accuracy", Onset: 15, Duration: 1, Weight: 1},
			{Condition: "speed", Onset: 25, Duration: 1, Weight: 1},
			{Condition: "accuracy", Onset: 35, Duration: 1, Weight: 1},
		},
	}

	got := table.Conditions()
	want := []string{"accuracy", "speed"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Conditions() = %v, want %v", got, want)
	}
}

func TestFitResult_Rows_ExcludesIntercept(t *testing.T) {
	fit := FitResult{
		Coefficients: map[string]float64{
			"speed":       2.5,
			"accuracy":    -1.0,
			InterceptName: 100.0,
		},
	}

	rows := fit.Rows(3, "striatum", 2)
	if len(rows) != 2 {
		t.Fatalf("Rows() returned %d rows, want 2", len(rows))
	}
	for _, row := range rows {
		if row.Condition == InterceptName {
			t.Errorf("Rows() included the intercept")
		}
		if row.Subject != 3 || row.Mask != "striatum" || row.Run != 2 {
			t.Errorf("Rows() key = (%d, %s, %d), want (3, striatum, 2)", row.Subject, row.Mask, row.Run)
		}
	}
}
