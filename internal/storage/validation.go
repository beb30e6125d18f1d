package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mwiersema/boldfit/internal/model"
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
	ErrEmptySlice  = errors.New("slice cannot be empty")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateBetaRows validates a slice of long-format fit results.
func validateBetaRows(rows []model.BetaRow) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: rows", ErrEmptySlice)
	}
	for i, row := range rows {
		if row.Subject <= 0 {
			return fmt.Errorf("row %d: subject must be positive", i)
		}
		if row.Mask == "" {
			return fmt.Errorf("row %d: mask is required", i)
		}
		if row.Condition == "" {
			return fmt.Errorf("row %d: condition is required", i)
		}
	}
	return nil
}

// validateParameters validates a slice of behavioral parameters.
func validateParameters(params []model.BehavioralParameter) error {
	if len(params) == 0 {
		return fmt.Errorf("%w: params", ErrEmptySlice)
	}
	for i := range params {
		if err := params[i].Validate(); err != nil {
			return fmt.Errorf("parameter at index %d: %w", i, err)
		}
	}
	return nil
}
