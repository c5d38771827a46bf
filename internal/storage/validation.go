package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/acrelens/acrelens/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrInvalidValuation = errors.New("invalid valuation")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateValuation ensures a valuation record can be persisted.
func validateValuation(v *model.Valuation) error {
	if v == nil {
		return fmt.Errorf("%w: nil", ErrInvalidValuation)
	}
	if strings.TrimSpace(v.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidValuation)
	}
	if v.Property.Acres <= 0 {
		return fmt.Errorf("%w: acres must be positive", ErrInvalidValuation)
	}
	if v.CreatedAt.IsZero() {
		return fmt.Errorf("%w: missing created_at", ErrInvalidValuation)
	}
	return nil
}
