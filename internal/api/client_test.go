package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acrelens/acrelens/internal/common"
	"github.com/acrelens/acrelens/internal/model"
	"github.com/acrelens/acrelens/internal/pipeline"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		errIs  error
		config Config
		name   string
		errMsg string
	}{
		{
			name:   "valid config",
			config: Config{BaseURL: "https://api.acrelens.test", APIKey: "test-key"},
		},
		{
			name:   "missing base URL",
			config: Config{APIKey: "test-key"},
			errIs:  common.ErrMissingConfig,
			errMsg: "valuation API base URL is required",
		},
		{
			name:   "missing API key",
			config: Config{BaseURL: "https://api.acrelens.test"},
			errIs:  common.ErrMissingConfig,
			errMsg: "valuation API key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errIs != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.errIs)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)
	return client
}

func TestClient_CreateValuation(t *testing.T) {
	var gotKey, gotIdempotency string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/valuations", r.URL.Path)
		gotKey = r.Header.Get("X-Api-Key")
		gotIdempotency = r.Header.Get("Idempotency-Key")

		var req createValuationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 160.0, req.Acres)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(valuationResponse{
			ID:          "val-123",
			Status:      "pending",
			CurrentStep: "input",
			Address:     req.Address,
			Acres:       req.Acres,
			CreatedAt:   "2025-06-01T09:00:00Z",
		})
	}))

	v, err := client.CreateValuation(context.Background(), model.PropertyInput{
		Address: "1200 120th St",
		County:  "Grundy",
		State:   "IA",
		Acres:   160,
		CSR2:    88.5,
	})
	require.NoError(t, err)

	assert.Equal(t, "val-123", v.ID)
	assert.Equal(t, pipeline.StatusPending, v.Status)
	assert.Equal(t, pipeline.StageInput, v.CurrentStep)
	assert.Equal(t, "test-key", gotKey)
	assert.NotEmpty(t, gotIdempotency)
	assert.False(t, v.CreatedAt.IsZero())
}

func TestClient_CreateValuation_RejectsInvalidInput(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("server should not be called for invalid input")
	}))

	_, err := client.CreateValuation(context.Background(), model.PropertyInput{Acres: 0})
	require.Error(t, err)

	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)
}

func TestClient_GetValuation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/valuations/val-123", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(valuationResponse{
			ID:             "val-123",
			Status:         "processing",
			CurrentStep:    "analysis",
			Acres:          160,
			EstimatedValue: 0,
		})
	}))

	v, err := client.GetValuation(context.Background(), "val-123")
	require.NoError(t, err)
	assert.Equal(t, pipeline.StatusProcessing, v.Status)
	assert.Equal(t, pipeline.StageAnalysis, v.CurrentStep)
}

func TestClient_GetValuation_CoercesUnknownFields(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(valuationResponse{
			ID:          "val-9",
			Status:      "cancelled",
			CurrentStep: "geocoding",
		})
	}))

	v, err := client.GetValuation(context.Background(), "val-9")
	require.NoError(t, err)

	// Unknown wire values degrade to safe defaults, never errors.
	assert.Equal(t, pipeline.StatusPending, v.Status)
	assert.Equal(t, pipeline.StageInput, v.CurrentStep)
}

func TestClient_GetValuation_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetValuation(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrValuationNotFound)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(valuationResponse{ID: "val-123", Status: "pending"})
	}))
	client.retryOpts.InitialDelay = 1
	client.retryOpts.MaxDelay = 1

	v, err := client.GetValuation(context.Background(), "val-123")
	require.NoError(t, err)
	assert.Equal(t, "val-123", v.ID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_AuthFailureIsNotRetried(t *testing.T) {
	var calls atomic.Int32

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	client.retryOpts.InitialDelay = 1

	_, err := client.GetValuation(context.Background(), "val-123")
	assert.ErrorIs(t, err, common.ErrAPIAuth)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ListValuations(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "25", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"valuations":[{"id":"a","status":"completed"},{"id":"b","status":"processing"}]}`))
	}))

	valuations, err := client.ListValuations(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, valuations, 2)
	assert.Equal(t, pipeline.StatusCompleted, valuations[0].Status)
}

func TestClient_GetParcel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/parcels/871-00123-000", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(parcelResponse{
			ID:     "871-00123-000",
			County: "Grundy",
			Acres:  160,
			CSR2:   88.5,
		})
	}))

	p, err := client.GetParcel(context.Background(), "871-00123-000")
	require.NoError(t, err)
	assert.Equal(t, 88.5, p.CSR2)

	input := p.ToPropertyInput()
	assert.NoError(t, input.Validate())
}
