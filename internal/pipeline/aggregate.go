package pipeline

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/mwiersema/boldfit/internal/model"
)

// WideTable is the pivoted results table: one row per subject, one column per
// observed (mask, condition) pair. Betas for the same subject, mask, and
// condition are averaged across runs.
type WideTable struct {
	Values   map[int]map[string]float64
	Subjects []int
	Columns  []string
}

// ColumnName is the pivoted column label for a (mask, condition) pair.
func ColumnName(mask, condition string) string {
	return mask + "_" + condition
}

// Pivot reshapes long-format beta rows into a wide per-subject table.
func Pivot(rows []model.BetaRow) *WideTable {
	type cell struct {
		sum float64
		n   int
	}
	cells := make(map[int]map[string]*cell)
	colSet := make(map[string]bool)
	for _, row := range rows {
		col := ColumnName(row.Mask, row.Condition)
		colSet[col] = true
		if cells[row.Subject] == nil {
			cells[row.Subject] = make(map[string]*cell)
		}
		if cells[row.Subject][col] == nil {
			cells[row.Subject][col] = &cell{}
		}
		cells[row.Subject][col].sum += row.Beta
		cells[row.Subject][col].n++
	}

	wide := &WideTable{Values: make(map[int]map[string]float64)}
	for subject, byCol := range cells {
		wide.Subjects = append(wide.Subjects, subject)
		wide.Values[subject] = make(map[string]float64, len(byCol))
		for col, c := range byCol {
			wide.Values[subject][col] = c.sum / float64(c.n)
		}
	}
	sort.Ints(wide.Subjects)
	for col := range colSet {
		wide.Columns = append(wide.Columns, col)
	}
	sort.Strings(wide.Columns)
	return wide
}

// JoinMismatch lists the subjects that an inner join on subject id would
// silently drop. The pipeline always reports these instead of hiding them.
type JoinMismatch struct {
	OnlyBetas    []int
	OnlyBehavior []int
}

// Empty reports whether the join was lossless.
func (m *JoinMismatch) Empty() bool {
	return len(m.OnlyBetas) == 0 && len(m.OnlyBehavior) == 0
}

func (m *JoinMismatch) String() string {
	return fmt.Sprintf("subjects with betas only: %v; subjects with behavioral parameters only: %v",
		m.OnlyBetas, m.OnlyBehavior)
}

// CombinedTable joins the pivoted betas with the behavioral parameters on
// subject id. Only matched subjects are retained (inner join); the dropped
// ones are recorded in the accompanying JoinMismatch.
type CombinedTable struct {
	Betas         map[int]map[string]float64
	ThresholdDiff map[int]float64
	Subjects      []int
	Columns       []string
}

// Join performs the inner join and computes the mismatch report.
func Join(wide *WideTable, params []model.BehavioralParameter) (*CombinedTable, *JoinMismatch) {
	byParam := make(map[int]float64, len(params))
	for _, p := range params {
		byParam[p.Subject] = p.ThresholdDiff
	}

	combined := &CombinedTable{
		Betas:         make(map[int]map[string]float64),
		ThresholdDiff: make(map[int]float64),
		Columns:       append([]string{}, wide.Columns...),
	}
	mismatch := &JoinMismatch{}

	for _, subject := range wide.Subjects {
		value, ok := byParam[subject]
		if !ok {
			mismatch.OnlyBetas = append(mismatch.OnlyBetas, subject)
			continue
		}
		combined.Subjects = append(combined.Subjects, subject)
		combined.Betas[subject] = wide.Values[subject]
		combined.ThresholdDiff[subject] = value
	}

	hasBetas := make(map[int]bool, len(wide.Subjects))
	for _, subject := range wide.Subjects {
		hasBetas[subject] = true
	}
	for _, p := range params {
		if !hasBetas[p.Subject] {
			mismatch.OnlyBehavior = append(mismatch.OnlyBehavior, p.Subject)
		}
	}
	sort.Ints(mismatch.OnlyBehavior)

	return combined, mismatch
}

// Correlation is the Pearson correlation of one beta column against the
// threshold-difference parameter across joined subjects.
type Correlation struct {
	Column string
	R      float64
	N      int
}

// Correlate computes the Pearson correlation of every beta column against the
// behavioral parameter. Columns missing a value for some joined subject are
// computed over the subjects that have one.
func Correlate(combined *CombinedTable) []Correlation {
	results := make([]Correlation, 0, len(combined.Columns))
	for _, col := range combined.Columns {
		var betas, values []float64
		for _, subject := range combined.Subjects {
			beta, ok := combined.Betas[subject][col]
			if !ok {
				continue
			}
			betas = append(betas, beta)
			values = append(values, combined.ThresholdDiff[subject])
		}
		results = append(results, Correlation{
			Column: col,
			R:      stat.Correlation(betas, values, nil),
			N:      len(betas),
		})
	}
	return results
}
