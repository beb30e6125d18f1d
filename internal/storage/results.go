package storage

import (
	"context"
	"fmt"

	"github.com/mwiersema/boldfit/internal/model"
)

// SaveRuns records the discovered time-series metadata. Re-importing the same
// (subject, mask, run) replaces the previous row.
func (s *SQLiteStorage) SaveRuns(ctx context.Context, records []*model.TimeSeriesRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: records", ErrEmptySlice)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO runs (subject, mask, run, n_samples, path)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(subject, mask, run) DO UPDATE SET
			n_samples = excluded.n_samples,
			path = excluded.path,
			imported_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("record %s: %w", rec.Path, err)
		}
		if _, err := stmt.ExecContext(ctx, rec.Subject, rec.Mask, rec.Run, len(rec.Signal), rec.Path); err != nil {
			return fmt.Errorf("failed to save run %s: %w", rec.Key(), err)
		}
	}

	return tx.Commit()
}

// SaveBetas persists long-format fit results. Refitting the same unit
// replaces the previous coefficients.
func (s *SQLiteStorage) SaveBetas(ctx context.Context, rows []model.BetaRow) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBetaRows(rows); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO betas (subject, mask, run, condition, beta)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(subject, mask, run, condition) DO UPDATE SET
			beta = excluded.beta,
			fitted_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.Subject, row.Mask, row.Run, row.Condition, row.Beta); err != nil {
			return fmt.Errorf("failed to save beta for sub-%02d %s run-%d %s: %w",
				row.Subject, row.Mask, row.Run, row.Condition, err)
		}
	}

	return tx.Commit()
}

// GetBetas returns all stored fit results in long format, ordered by the
// natural key.
func (s *SQLiteStorage) GetBetas(ctx context.Context) ([]model.BetaRow, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT subject, mask, run, condition, beta
		FROM betas
		ORDER BY subject, mask, run, condition`)
	if err != nil {
		return nil, fmt.Errorf("failed to query betas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []model.BetaRow
	for rows.Next() {
		var row model.BetaRow
		if err := rows.Scan(&row.Subject, &row.Mask, &row.Run, &row.Condition, &row.Beta); err != nil {
			return nil, fmt.Errorf("failed to scan beta row: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate betas: %w", err)
	}
	return results, nil
}

// GetBetaCount returns the number of stored fit-result rows.
func (s *SQLiteStorage) GetBetaCount(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM betas").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count betas: %w", err)
	}
	return count, nil
}
