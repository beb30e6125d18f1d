package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiersema/boldfit/internal/model"
)

func TestPivot(t *testing.T) {
	rows := []model.BetaRow{
		{Subject: 1, Mask: "striatum", Run: 1, Condition: "speed", Beta: 2.0},
		{Subject: 1, Mask: "striatum", Run: 2, Condition: "speed", Beta: 4.0},
		{Subject: 1, Mask: "striatum", Run: 1, Condition: "accuracy", Beta: -1.0},
		{Subject: 2, Mask: "striatum", Run: 1, Condition: "speed", Beta: 1.0},
		{Subject: 2, Mask: "caudate", Run: 1, Condition: "speed", Beta: 0.5},
	}

	wide := Pivot(rows)

	assert.Equal(t, []int{1, 2}, wide.Subjects)
	assert.Equal(t, []string{"caudate_speed", "striatum_accuracy", "striatum_speed"}, wide.Columns)
	// Betas for the same subject/mask/condition average across runs.
	assert.InDelta(t, 3.0, wide.Values[1]["striatum_speed"], 1e-12)
	assert.InDelta(t, -1.0, wide.Values[1]["striatum_accuracy"], 1e-12)
	assert.InDelta(t, 0.5, wide.Values[2]["caudate_speed"], 1e-12)
}

func TestPivot_OneRowPerSubject(t *testing.T) {
	var rows []model.BetaRow
	for subject := 1; subject <= 5; subject++ {
		for _, cond := range []string{"speed", "accuracy"} {
			rows = append(rows, model.BetaRow{
				Subject: subject, Mask: "striatum", Run: 1, Condition: cond, Beta: 1,
			})
		}
	}

	wide := Pivot(rows)
	assert.Len(t, wide.Subjects, 5)
	assert.Len(t, wide.Columns, 2)
}

func TestJoin(t *testing.T) {
	wide := Pivot([]model.BetaRow{
		{Subject: 1, Mask: "striatum", Run: 1, Condition: "speed", Beta: 2.0},
		{Subject: 2, Mask: "striatum", Run: 1, Condition: "speed", Beta: 3.0},
		{Subject: 3, Mask: "striatum", Run: 1, Condition: "speed", Beta: 4.0},
	})
	params := []model.BehavioralParameter{
		{Subject: 2, ThresholdDiff: 0.2},
		{Subject: 3, ThresholdDiff: 0.3},
		{Subject: 4, ThresholdDiff: 0.4},
	}

	combined, mismatch := Join(wide, params)

	assert.Equal(t, []int{2, 3}, combined.Subjects)
	assert.Equal(t, []int{1}, mismatch.OnlyBetas)
	assert.Equal(t, []int{4}, mismatch.OnlyBehavior)
	assert.False(t, mismatch.Empty())
}

// Disjoint subject sets document the inner-join semantics: the result is
// empty and every subject appears in the mismatch report.
func TestJoin_DisjointSubjects(t *testing.T) {
	wide := Pivot([]model.BetaRow{
		{Subject: 1, Mask: "striatum", Run: 1, Condition: "speed", Beta: 2.0},
		{Subject: 2, Mask: "striatum", Run: 1, Condition: "speed", Beta: 3.0},
	})
	params := []model.BehavioralParameter{
		{Subject: 8, ThresholdDiff: 0.2},
		{Subject: 9, ThresholdDiff: 0.3},
	}

	combined, mismatch := Join(wide, params)

	assert.Empty(t, combined.Subjects)
	assert.Equal(t, []int{1, 2}, mismatch.OnlyBetas)
	assert.Equal(t, []int{8, 9}, mismatch.OnlyBehavior)
}

func TestCorrelate(t *testing.T) {
	// Beta perfectly tracks the behavioral parameter: r = 1. A second
	// column tracks it inversely: r = -1.
	rows := []model.BetaRow{}
	params := []model.BehavioralParameter{}
	for subject := 1; subject <= 6; subject++ {
		v := float64(subject) * 0.1
		rows = append(rows,
			model.BetaRow{Subject: subject, Mask: "striatum", Run: 1, Condition: "speed", Beta: 2 * v},
			model.BetaRow{Subject: subject, Mask: "striatum", Run: 1, Condition: "accuracy", Beta: -3 * v},
		)
		params = append(params, model.BehavioralParameter{Subject: subject, ThresholdDiff: v})
	}

	combined, mismatch := Join(Pivot(rows), params)
	require.True(t, mismatch.Empty())

	correlations := Correlate(combined)
	require.Len(t, correlations, 2)
	byColumn := make(map[string]Correlation)
	for _, c := range correlations {
		byColumn[c.Column] = c
	}

	assert.InDelta(t, -1.0, byColumn["striatum_accuracy"].R, 1e-9)
	assert.InDelta(t, 1.0, byColumn["striatum_speed"].R, 1e-9)
	assert.Equal(t, 6, byColumn["striatum_speed"].N)
}

func TestCorrelate_ConstantColumnIsNaN(t *testing.T) {
	rows := []model.BetaRow{}
	params := []model.BehavioralParameter{}
	for subject := 1; subject <= 4; subject++ {
		rows = append(rows, model.BetaRow{Subject: subject, Mask: "striatum", Run: 1, Condition: "speed", Beta: 1.0})
		params = append(params, model.BehavioralParameter{Subject: subject, ThresholdDiff: float64(subject)})
	}

	combined, _ := Join(Pivot(rows), params)
	correlations := Correlate(combined)
	require.Len(t, correlations, 1)
	assert.True(t, math.IsNaN(correlations[0].R))
}
