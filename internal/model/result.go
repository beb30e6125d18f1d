package model

// FitResult is the outcome of one OLS fit: a coefficient per design-matrix
// regressor, plus the goodness of fit. Consumed immediately into BetaRows.
type FitResult struct {
	Coefficients map[string]float64
	RSquared     float64
}

// BetaRow is one long-format results row: the fitted coefficient for a single
// condition in a single (subject, mask, run) fit.
type BetaRow struct {
	Mask      string
	Condition string
	Beta      float64
	Subject   int
	Run       int
}

// Rows flattens a fit result into long-format rows, excluding the intercept.
func (f *FitResult) Rows(subject int, mask string, run int) []BetaRow {
	rows := make([]BetaRow, 0, len(f.Coefficients))
	for cond, beta := range f.Coefficients {
		if cond == InterceptName {
			continue
		}
		rows = append(rows, BetaRow{
			Subject:   subject,
			Mask:      mask,
			Run:       run,
			Condition: cond,
			Beta:      beta,
		})
	}
	return rows
}

// InterceptName is the reserved regressor name for the constant column.
const InterceptName = "intercept"
