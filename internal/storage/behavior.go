package storage

import (
	"context"
	"fmt"

	"github.com/mwiersema/boldfit/internal/model"
)

// SaveBehavioral persists per-subject behavioral parameters. Re-importing a
// subject replaces its previous value.
func (s *SQLiteStorage) SaveBehavioral(ctx context.Context, params []model.BehavioralParameter) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateParameters(params); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO behavioral (subject, threshold_diff)
		VALUES (?, ?)
		ON CONFLICT(subject) DO UPDATE SET
			threshold_diff = excluded.threshold_diff,
			imported_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range params {
		if _, err := stmt.ExecContext(ctx, p.Subject, p.ThresholdDiff); err != nil {
			return fmt.Errorf("failed to save parameters for subject %d: %w", p.Subject, err)
		}
	}

	return tx.Commit()
}

// GetBehavioral returns all stored behavioral parameters ordered by subject.
func (s *SQLiteStorage) GetBehavioral(ctx context.Context) ([]model.BehavioralParameter, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT subject, threshold_diff
		FROM behavioral
		ORDER BY subject`)
	if err != nil {
		return nil, fmt.Errorf("failed to query behavioral parameters: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var params []model.BehavioralParameter
	for rows.Next() {
		var p model.BehavioralParameter
		if err := rows.Scan(&p.Subject, &p.ThresholdDiff); err != nil {
			return nil, fmt.Errorf("failed to scan behavioral row: %w", err)
		}
		params = append(params, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate behavioral parameters: %w", err)
	}
	return params, nil
}
