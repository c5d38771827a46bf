// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/acrelens/acrelens/internal/pipeline"
)

// PropertyInput is the user-supplied description of the land to value. It is
// the request body for creating a valuation.
type PropertyInput struct {
	Address  string
	County   string
	State    string
	ParcelID string
	Acres    float64
	CSR2     float64 // soil productivity rating, 0 when unknown
	Tillable float64 // tillable acres, 0 when unknown
	Notes    string
}

// Validate checks that enough of the property is described to value it.
func (p *PropertyInput) Validate() error {
	if strings.TrimSpace(p.Address) == "" && strings.TrimSpace(p.ParcelID) == "" {
		return fmt.Errorf("either an address or a parcel ID is required")
	}
	if p.Acres <= 0 {
		return fmt.Errorf("acres must be positive")
	}
	if p.CSR2 < 0 || p.CSR2 > 100 {
		return fmt.Errorf("CSR2 must be between 0 and 100")
	}
	if p.Tillable < 0 || p.Tillable > p.Acres {
		return fmt.Errorf("tillable acres cannot exceed total acres")
	}
	return nil
}

// Valuation is a single AI-assisted land value estimate, in progress or
// finished. The backend owns the record; this is the client's view of it.
type Valuation struct {
	CreatedAt      time.Time
	CompletedAt    *time.Time
	ID             string
	ReportSummary  string
	Property       PropertyInput
	EstimatedValue float64 // total, dollars
	PerAcreValue   float64 // dollars per acre
	Confidence     float64 // 0..1
	Status         pipeline.Status
	CurrentStep    pipeline.Stage
}

// Done reports whether the valuation reached a terminal status.
func (v *Valuation) Done() bool {
	return v.Status.Terminal()
}

// Duration returns how long the valuation ran, or how long it has been
// running when still in flight relative to now.
func (v *Valuation) Duration(now time.Time) time.Duration {
	if v.CompletedAt != nil {
		return v.CompletedAt.Sub(v.CreatedAt)
	}
	return now.Sub(v.CreatedAt)
}

// Parcel is the auction-site parcel record used to pre-fill a property
// input. Boundary geometry stays opaque to this client.
type Parcel struct {
	ID          string
	Address     string
	County      string
	State       string
	Acres       float64
	CSR2        float64
	BoundaryWKT string // opaque, passed through for the web map
}

// ToPropertyInput seeds a property input from a known parcel.
func (p *Parcel) ToPropertyInput() PropertyInput {
	return PropertyInput{
		Address:  p.Address,
		County:   p.County,
		State:    p.State,
		ParcelID: p.ID,
		Acres:    p.Acres,
		CSR2:     p.CSR2,
	}
}
