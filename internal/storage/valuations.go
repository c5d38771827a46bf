package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/acrelens/acrelens/internal/common"
	"github.com/acrelens/acrelens/internal/model"
	"github.com/acrelens/acrelens/internal/pipeline"
	"github.com/acrelens/acrelens/internal/service"
)

// SaveValuation inserts or updates a valuation record. Re-saving after each
// poll keeps the local history current without the caller tracking whether
// the row exists yet.
func (s *SQLiteStorage) SaveValuation(ctx context.Context, v model.Valuation) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateValuation(&v); err != nil {
		return err
	}

	var completedAt any
	if v.CompletedAt != nil {
		completedAt = v.CompletedAt.UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO valuations (
			id, address, county, state, parcel_id, acres, csr2, tillable, notes,
			status, current_step, estimated_value, per_acre_value, confidence,
			report_summary, created_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			current_step = excluded.current_step,
			estimated_value = excluded.estimated_value,
			per_acre_value = excluded.per_acre_value,
			confidence = excluded.confidence,
			report_summary = excluded.report_summary,
			completed_at = excluded.completed_at`,
		v.ID, v.Property.Address, v.Property.County, v.Property.State,
		v.Property.ParcelID, v.Property.Acres, v.Property.CSR2, v.Property.Tillable,
		v.Property.Notes, v.Status.String(), v.CurrentStep.String(),
		v.EstimatedValue, v.PerAcreValue, v.Confidence, v.ReportSummary,
		v.CreatedAt.UTC(), completedAt)
	if err != nil {
		return fmt.Errorf("failed to save valuation %s: %w", v.ID, err)
	}
	return nil
}

// GetValuation fetches a single valuation from the local history.
func (s *SQLiteStorage) GetValuation(ctx context.Context, id string) (*model.Valuation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, address, county, state, parcel_id, acres, csr2, tillable, notes,
			status, current_step, estimated_value, per_acre_value, confidence,
			report_summary, created_at, completed_at
		FROM valuations WHERE id = ?`, id)

	v, err := scanValuation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get valuation %s: %w", id, err)
	}
	return v, nil
}

// ListValuations returns valuations from the local history, newest first.
func (s *SQLiteStorage) ListValuations(ctx context.Context, filter service.ValuationFilter) ([]model.Valuation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, address, county, state, parcel_id, acres, csr2, tillable, notes,
			status, current_step, estimated_value, per_acre_value, confidence,
			report_summary, created_at, completed_at
		FROM valuations WHERE 1=1`
	args := []any{}

	if filter.County != "" {
		query += " AND county = ?"
		args = append(args, filter.County)
	}
	if filter.Since != nil {
		query += " AND created_at >= ?"
		args = append(args, filter.Since.UTC())
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list valuations: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var valuations []model.Valuation
	for rows.Next() {
		v, scanErr := scanValuation(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan valuation: %w", scanErr)
		}
		valuations = append(valuations, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate valuations: %w", err)
	}
	return valuations, nil
}

// DeleteValuation removes a valuation from the local history.
func (s *SQLiteStorage) DeleteValuation(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM valuations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete valuation %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanValuation.
type scanner interface {
	Scan(dest ...any) error
}

// scanValuation reads one valuation row.
func scanValuation(row scanner) (*model.Valuation, error) {
	var (
		v           model.Valuation
		status      string
		currentStep string
		createdAt   time.Time
		completedAt sql.NullTime
	)

	err := row.Scan(
		&v.ID, &v.Property.Address, &v.Property.County, &v.Property.State,
		&v.Property.ParcelID, &v.Property.Acres, &v.Property.CSR2,
		&v.Property.Tillable, &v.Property.Notes, &status, &currentStep,
		&v.EstimatedValue, &v.PerAcreValue, &v.Confidence, &v.ReportSummary,
		&createdAt, &completedAt)
	if err != nil {
		return nil, err
	}

	v.Status = pipeline.ParseStatus(status)
	v.CurrentStep = pipeline.ParseStage(currentStep)
	v.CreatedAt = createdAt
	if completedAt.Valid {
		t := completedAt.Time
		v.CompletedAt = &t
	}
	return &v, nil
}
