package api

import (
	"context"

	"github.com/acrelens/acrelens/internal/model"
)

// MockClient is a mock implementation of ValuationAPI for testing.
type MockClient struct {
	// Functions that can be set by tests to control behavior
	CreateValuationFn func(ctx context.Context, input model.PropertyInput) (*model.Valuation, error)
	GetValuationFn    func(ctx context.Context, id string) (*model.Valuation, error)
	ListValuationsFn  func(ctx context.Context, limit int) ([]model.Valuation, error)
	GetParcelFn       func(ctx context.Context, parcelID string) (*model.Parcel, error)

	// Call tracking
	CreateValuationCalls []model.PropertyInput
	GetValuationCalls    []string
	ListValuationsCalls  int
	GetParcelCalls       []string
}

// NewMockClient creates a new mock valuation API client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// CreateValuation implements ValuationAPI.CreateValuation.
func (m *MockClient) CreateValuation(ctx context.Context, input model.PropertyInput) (*model.Valuation, error) {
	m.CreateValuationCalls = append(m.CreateValuationCalls, input)

	if m.CreateValuationFn != nil {
		return m.CreateValuationFn(ctx, input)
	}
	return &model.Valuation{ID: "mock-valuation", Property: input}, nil
}

// GetValuation implements ValuationAPI.GetValuation.
func (m *MockClient) GetValuation(ctx context.Context, id string) (*model.Valuation, error) {
	m.GetValuationCalls = append(m.GetValuationCalls, id)

	if m.GetValuationFn != nil {
		return m.GetValuationFn(ctx, id)
	}
	return &model.Valuation{ID: id}, nil
}

// ListValuations implements ValuationAPI.ListValuations.
func (m *MockClient) ListValuations(ctx context.Context, limit int) ([]model.Valuation, error) {
	m.ListValuationsCalls++

	if m.ListValuationsFn != nil {
		return m.ListValuationsFn(ctx, limit)
	}
	return []model.Valuation{}, nil
}

// GetParcel implements ValuationAPI.GetParcel.
func (m *MockClient) GetParcel(ctx context.Context, parcelID string) (*model.Parcel, error) {
	m.GetParcelCalls = append(m.GetParcelCalls, parcelID)

	if m.GetParcelFn != nil {
		return m.GetParcelFn(ctx, parcelID)
	}
	return &model.Parcel{ID: parcelID}, nil
}

// Reset clears all call tracking.
func (m *MockClient) Reset() {
	m.CreateValuationCalls = nil
	m.GetValuationCalls = nil
	m.ListValuationsCalls = 0
	m.GetParcelCalls = nil
}

// Ensure MockClient implements ValuationAPI interface.
var _ ValuationAPI = (*MockClient)(nil)
