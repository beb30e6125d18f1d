package glm

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/mwiersema/boldfit/internal/model"
)

// FitError reports a regression that failed or is numerically unreliable,
// typically because the design matrix is rank deficient.
type FitError struct {
	Err error
}

func (e *FitError) Error() string {
	return fmt.Sprintf("least-squares fit failed: %v", e.Err)
}

func (e *FitError) Unwrap() error {
	return e.Err
}

// Fit solves the ordinary-least-squares regression of signal against the
// design matrix, minimizing the sum of squared residuals, and returns one
// coefficient per regressor. No regularization is applied; a rank-deficient
// or near-singular design surfaces as a FitError.
func Fit(design *DesignMatrix, signal []float64) (*model.FitResult, error) {
	rows, cols := design.X.Dims()
	if len(signal) != rows {
		return nil, fmt.Errorf("signal has %d samples but design matrix has %d rows", len(signal), rows)
	}
	if rows < cols {
		return nil, &FitError{Err: fmt.Errorf("underdetermined system: %d samples for %d regressors", rows, cols)}
	}

	y := mat.NewVecDense(rows, signal)
	var beta mat.VecDense
	if err := beta.SolveVec(design.X, y); err != nil {
		return nil, &FitError{Err: err}
	}

	coeffs := make(map[string]float64, cols)
	for i, name := range design.Names {
		coeffs[name] = beta.AtVec(i)
	}

	return &model.FitResult{
		Coefficients: coeffs,
		RSquared:     rSquared(design.X, &beta, signal),
	}, nil
}

func rSquared(x *mat.Dense, beta *mat.VecDense, signal []float64) float64 {
	var predicted mat.VecDense
	predicted.MulVec(x, beta)

	meanY := stat.Mean(signal, nil)
	var ssRes, ssTot float64
	for i, obs := range signal {
		res := obs - predicted.AtVec(i)
		ssRes += res * res
		dev := obs - meanY
		ssTot += dev * dev
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}
