package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acrelens/acrelens/internal/common"
	"github.com/acrelens/acrelens/internal/model"
	"github.com/acrelens/acrelens/internal/pipeline"
	"github.com/acrelens/acrelens/internal/service"
)

// createTestStorage opens a migrated store backed by a temp file.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testValuation(id string, created time.Time) model.Valuation {
	return model.Valuation{
		ID:        id,
		CreatedAt: created,
		Status:    pipeline.StatusProcessing,
		Property: model.PropertyInput{
			Address: "1200 120th St",
			County:  "Grundy",
			State:   "IA",
			Acres:   160,
			CSR2:    88.5,
		},
	}
}

func TestSQLiteStorage_SaveAndGetValuation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	v := testValuation("val-1", created)
	require.NoError(t, store.SaveValuation(ctx, v))

	got, err := store.GetValuation(ctx, "val-1")
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)
	assert.Equal(t, v.Property, got.Property)
	assert.Equal(t, pipeline.StatusProcessing, got.Status)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.Nil(t, got.CompletedAt)
}

func TestSQLiteStorage_SaveValuation_UpdatesExisting(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	v := testValuation("val-1", created)
	require.NoError(t, store.SaveValuation(ctx, v))

	// Second save after the pipeline finished overwrites the live fields.
	done := created.Add(72 * time.Second)
	v.Status = pipeline.StatusCompleted
	v.CurrentStep = pipeline.StageReport
	v.EstimatedValue = 1_840_000
	v.PerAcreValue = 11_500
	v.Confidence = 0.82
	v.ReportSummary = "Strong parcel, high CSR2."
	v.CompletedAt = &done
	require.NoError(t, store.SaveValuation(ctx, v))

	got, err := store.GetValuation(ctx, "val-1")
	require.NoError(t, err)
	assert.Equal(t, pipeline.StatusCompleted, got.Status)
	assert.Equal(t, 11_500.0, got.PerAcreValue)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, done.Equal(*got.CompletedAt))

	// Still only one row.
	all, err := store.ListValuations(ctx, service.ValuationFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLiteStorage_SaveValuation_Validation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		name string
		v    model.Valuation
	}{
		{name: "missing id", v: model.Valuation{CreatedAt: time.Now(), Property: model.PropertyInput{Acres: 10}}},
		{name: "zero acres", v: model.Valuation{ID: "x", CreatedAt: time.Now()}},
		{name: "missing created_at", v: model.Valuation{ID: "x", Property: model.PropertyInput{Acres: 10}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, store.SaveValuation(ctx, tt.v), ErrInvalidValuation)
		})
	}
}

func TestSQLiteStorage_GetValuation_NotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetValuation(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorage_ListValuations(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	for i, county := range []string{"Grundy", "Tama", "Grundy"} {
		v := testValuation("val-"+county+string(rune('0'+i)), base.Add(time.Duration(i)*time.Hour))
		v.Property.County = county
		require.NoError(t, store.SaveValuation(ctx, v))
	}

	t.Run("newest first", func(t *testing.T) {
		all, err := store.ListValuations(ctx, service.ValuationFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))
	})

	t.Run("filter by county", func(t *testing.T) {
		grundy, err := store.ListValuations(ctx, service.ValuationFilter{County: "Grundy"})
		require.NoError(t, err)
		assert.Len(t, grundy, 2)
	})

	t.Run("filter by since", func(t *testing.T) {
		since := base.Add(30 * time.Minute)
		recent, err := store.ListValuations(ctx, service.ValuationFilter{Since: &since})
		require.NoError(t, err)
		assert.Len(t, recent, 2)
	})

	t.Run("limit", func(t *testing.T) {
		limited, err := store.ListValuations(ctx, service.ValuationFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})
}

func TestSQLiteStorage_DeleteValuation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	v := testValuation("val-1", time.Now().UTC())
	require.NoError(t, store.SaveValuation(ctx, v))

	require.NoError(t, store.DeleteValuation(ctx, "val-1"))
	_, err := store.GetValuation(ctx, "val-1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, store.DeleteValuation(ctx, "val-1"), common.ErrNotFound)
}

func TestSQLiteStorage_MigrateIsIdempotent(t *testing.T) {
	store := createTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))
}
