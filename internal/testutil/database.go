// Package testutil provides shared helpers for tests that need a real
// migrated database or canned valuation fixtures.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/acrelens/acrelens/internal/model"
	"github.com/acrelens/acrelens/internal/pipeline"
	"github.com/acrelens/acrelens/internal/service"
	"github.com/acrelens/acrelens/internal/storage"
)

// TestDB wraps a migrated storage instance with its owning test.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates an in-memory database, runs migrations and
// registers cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		if closeErr := store.Close(); closeErr != nil {
			t.Errorf("failed to close test database: %v", closeErr)
		}
	})

	return &TestDB{Storage: store, t: t}
}

// Seed inserts the given valuations, failing the test on error.
func (db *TestDB) Seed(valuations ...model.Valuation) {
	db.t.Helper()
	ctx := context.Background()
	for _, v := range valuations {
		if err := db.Storage.SaveValuation(ctx, v); err != nil {
			db.t.Fatalf("failed to seed valuation %q: %v", v.ID, err)
		}
	}
}

// Valuation returns a processing-state fixture with sensible defaults.
// Options mutate the fixture before it is returned.
func Valuation(id string, opts ...func(*model.Valuation)) model.Valuation {
	v := model.Valuation{
		ID:          id,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
		Status:      pipeline.StatusProcessing,
		CurrentStep: pipeline.StageInput,
		Property: model.PropertyInput{
			Address:  "1200 120th St",
			County:   "Grundy",
			State:    "IA",
			Acres:    160,
			CSR2:     84.5,
			Tillable: 152,
		},
	}
	for _, opt := range opts {
		opt(&v)
	}
	return v
}

// Completed marks a fixture as a finished run with a report.
func Completed(estimated float64) func(*model.Valuation) {
	return func(v *model.Valuation) {
		now := time.Now().UTC().Truncate(time.Second)
		v.Status = pipeline.StatusCompleted
		v.CurrentStep = pipeline.StageReport
		v.CompletedAt = &now
		v.EstimatedValue = estimated
		if v.Property.Acres > 0 {
			v.PerAcreValue = estimated / v.Property.Acres
		}
		v.Confidence = 0.9
		v.ReportSummary = "Comparable sales support the estimate."
	}
}
