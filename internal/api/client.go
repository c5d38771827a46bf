// Package api provides a client for the remote valuation service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/acrelens/acrelens/internal/common"
	"github.com/acrelens/acrelens/internal/model"
	"github.com/acrelens/acrelens/internal/pipeline"
	"github.com/acrelens/acrelens/internal/service"
)

// Config holds valuation API configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: valuation API base URL is required", common.ErrMissingConfig)
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("%w: bad valuation API base URL: %v", common.ErrInvalidConfig, err)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%w: valuation API key is required", common.ErrMissingConfig)
	}
	return nil
}

// Client implements the ValuationAPI interface against the REST backend.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	retryOpts  *service.RetryOptions
	baseURL    string
	apiKey     string
}

// NewClient creates a new valuation API client with the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		logger:     slog.Default().With("component", "api"),
		retryOpts: &service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// valuationResponse is the wire form of a valuation record.
type valuationResponse struct {
	ID             string  `json:"id"`
	Status         string  `json:"status"`
	CurrentStep    string  `json:"currentStep"`
	Address        string  `json:"address"`
	County         string  `json:"county"`
	State          string  `json:"state"`
	ParcelID       string  `json:"parcelId"`
	ReportSummary  string  `json:"reportSummary"`
	CreatedAt      string  `json:"createdAt"`
	CompletedAt    string  `json:"completedAt"`
	Acres          float64 `json:"acres"`
	CSR2           float64 `json:"csr2"`
	EstimatedValue float64 `json:"estimatedValue"`
	PerAcreValue   float64 `json:"perAcreValue"`
	Confidence     float64 `json:"confidence"`
}

// createValuationRequest is the wire form of a create request.
type createValuationRequest struct {
	Address  string  `json:"address,omitempty"`
	County   string  `json:"county,omitempty"`
	State    string  `json:"state,omitempty"`
	ParcelID string  `json:"parcelId,omitempty"`
	Notes    string  `json:"notes,omitempty"`
	Acres    float64 `json:"acres"`
	CSR2     float64 `json:"csr2,omitempty"`
	Tillable float64 `json:"tillable,omitempty"`
}

// parcelResponse is the wire form of an auction parcel record.
type parcelResponse struct {
	ID          string  `json:"id"`
	Address     string  `json:"address"`
	County      string  `json:"county"`
	State       string  `json:"state"`
	BoundaryWKT string  `json:"boundaryWkt"`
	Acres       float64 `json:"acres"`
	CSR2        float64 `json:"csr2"`
}

// CreateValuation submits a property for valuation and returns the created
// record, normally still pending. The request carries an idempotency key so
// a retried create cannot start two pipelines.
func (c *Client) CreateValuation(ctx context.Context, input model.PropertyInput) (*model.Valuation, error) {
	if err := input.Validate(); err != nil {
		return nil, common.NewUserError("invalid property input", err)
	}

	body := createValuationRequest{
		Address:  input.Address,
		County:   input.County,
		State:    input.State,
		ParcelID: input.ParcelID,
		Acres:    input.Acres,
		CSR2:     input.CSR2,
		Tillable: input.Tillable,
		Notes:    input.Notes,
	}

	idempotencyKey := uuid.NewString()
	c.logger.Info("Creating valuation",
		"address", input.Address,
		"parcel_id", input.ParcelID,
		"acres", input.Acres)

	var resp valuationResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/valuations", body, &resp, func(req *http.Request) {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create valuation: %w", err)
	}

	v := mapValuation(resp)
	c.logger.Info("Valuation created", "id", v.ID, "status", v.Status)
	return &v, nil
}

// GetValuation fetches the current state of a valuation by id. This is the
// poll endpoint; callers interpret the (status, currentStep) pair.
func (c *Client) GetValuation(ctx context.Context, id string) (*model.Valuation, error) {
	if id == "" {
		return nil, fmt.Errorf("valuation id is required")
	}

	var resp valuationResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/valuations/"+url.PathEscape(id), nil, &resp, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch valuation %s: %w", id, err)
	}

	v := mapValuation(resp)
	return &v, nil
}

// ListValuations fetches recent valuations from the backend, newest first.
func (c *Client) ListValuations(ctx context.Context, limit int) ([]model.Valuation, error) {
	if limit <= 0 {
		limit = 50
	}

	var resp struct {
		Valuations []valuationResponse `json:"valuations"`
	}
	path := "/api/v1/valuations?limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, nil); err != nil {
		return nil, fmt.Errorf("failed to list valuations: %w", err)
	}

	valuations := make([]model.Valuation, 0, len(resp.Valuations))
	for _, vr := range resp.Valuations {
		valuations = append(valuations, mapValuation(vr))
	}
	return valuations, nil
}

// GetParcel fetches an auction parcel to pre-fill a property input.
func (c *Client) GetParcel(ctx context.Context, parcelID string) (*model.Parcel, error) {
	if parcelID == "" {
		return nil, fmt.Errorf("parcel id is required")
	}

	var resp parcelResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/parcels/"+url.PathEscape(parcelID), nil, &resp, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parcel %s: %w", parcelID, err)
	}

	return &model.Parcel{
		ID:          resp.ID,
		Address:     resp.Address,
		County:      resp.County,
		State:       resp.State,
		Acres:       resp.Acres,
		CSR2:        resp.CSR2,
		BoundaryWKT: resp.BoundaryWKT,
	}, nil
}

// do performs one HTTP exchange with retry on transient failures.
func (c *Client) do(ctx context.Context, method, path string, body, out any, mutate func(*http.Request)) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	return common.WithRetry(ctx, func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return &common.RetryableError{Err: err, Retryable: false}
		}
		req.Header.Set("X-Api-Key", c.apiKey)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if mutate != nil {
			mutate(req)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &common.RetryableError{
				Err:       fmt.Errorf("%w: %v", common.ErrAPIConnection, err),
				Retryable: true,
			}
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return &common.RetryableError{Err: common.ErrAPIAuth, Retryable: false}
		case resp.StatusCode == http.StatusNotFound:
			return &common.RetryableError{Err: common.ErrValuationNotFound, Retryable: false}
		case resp.StatusCode == http.StatusTooManyRequests:
			c.logger.Warn("Rate limit hit, will retry")
			return &common.RetryableError{Err: common.ErrRateLimit, Retryable: true}
		case resp.StatusCode >= 500:
			return &common.RetryableError{
				Err:       fmt.Errorf("server error: %s", resp.Status),
				Retryable: true,
			}
		case resp.StatusCode >= 400:
			return &common.RetryableError{
				Err:       decodeAPIError(resp.Body, resp.Status),
				Retryable: false,
			}
		}

		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &common.RetryableError{
				Err:       fmt.Errorf("failed to decode response: %w", err),
				Retryable: false,
			}
		}
		return nil
	}, *c.retryOpts)
}

// decodeAPIError extracts the backend's error message when it sends one.
func decodeAPIError(body io.Reader, status string) error {
	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("API error: %s", apiErr.Error)
	}
	return fmt.Errorf("API error: %s", status)
}

// mapValuation converts a wire valuation to the internal model. Status and
// step strings are coerced to safe defaults rather than rejected.
func mapValuation(vr valuationResponse) model.Valuation {
	v := model.Valuation{
		ID:             vr.ID,
		Status:         pipeline.ParseStatus(vr.Status),
		CurrentStep:    pipeline.ParseStage(vr.CurrentStep),
		EstimatedValue: vr.EstimatedValue,
		PerAcreValue:   vr.PerAcreValue,
		Confidence:     vr.Confidence,
		ReportSummary:  vr.ReportSummary,
		Property: model.PropertyInput{
			Address:  vr.Address,
			County:   vr.County,
			State:    vr.State,
			ParcelID: vr.ParcelID,
			Acres:    vr.Acres,
			CSR2:     vr.CSR2,
		},
	}

	if t, err := time.Parse(time.RFC3339, vr.CreatedAt); err == nil {
		v.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, vr.CompletedAt); err == nil {
		v.CompletedAt = &t
	}
	return v
}

// Ensure Client implements ValuationAPI interface.
var _ ValuationAPI = (*Client)(nil)
