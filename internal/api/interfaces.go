package api

import (
	"context"

	"github.com/acrelens/acrelens/internal/model"
)

// ValuationAPI defines the contract for talking to the valuation backend.
// This interface allows for easy mocking in tests and swapping backends.
type ValuationAPI interface {
	CreateValuation(ctx context.Context, input model.PropertyInput) (*model.Valuation, error)
	GetValuation(ctx context.Context, id string) (*model.Valuation, error)
	ListValuations(ctx context.Context, limit int) ([]model.Valuation, error)
	GetParcel(ctx context.Context, parcelID string) (*model.Parcel, error)
}
