// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/acrelens/acrelens/internal/model"
)

// ValuationFilter defines filtering options for valuation history queries.
type ValuationFilter struct {
	Since  *time.Time
	County string
	Limit  int
	Offset int
}

// Storage defines the contract for the local valuation history.
type Storage interface {
	SaveValuation(ctx context.Context, v model.Valuation) error
	GetValuation(ctx context.Context, id string) (*model.Valuation, error)
	ListValuations(ctx context.Context, filter ValuationFilter) ([]model.Valuation, error)
	DeleteValuation(ctx context.Context, id string) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
