package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/acrelens/acrelens/internal/pipeline"
)

func TestPropertyInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   PropertyInput
		wantErr string
	}{
		{
			name:  "valid with address",
			input: PropertyInput{Address: "1200 120th St, Grundy County, IA", Acres: 160, CSR2: 88.5},
		},
		{
			name:  "valid with parcel ID only",
			input: PropertyInput{ParcelID: "871-00123-000", Acres: 80},
		},
		{
			name:    "missing location",
			input:   PropertyInput{Acres: 40},
			wantErr: "either an address or a parcel ID is required",
		},
		{
			name:    "zero acres",
			input:   PropertyInput{Address: "somewhere", Acres: 0},
			wantErr: "acres must be positive",
		},
		{
			name:    "negative acres",
			input:   PropertyInput{Address: "somewhere", Acres: -10},
			wantErr: "acres must be positive",
		},
		{
			name:    "CSR2 out of range",
			input:   PropertyInput{Address: "somewhere", Acres: 40, CSR2: 140},
			wantErr: "CSR2 must be between 0 and 100",
		},
		{
			name:    "tillable exceeds total",
			input:   PropertyInput{Address: "somewhere", Acres: 40, Tillable: 55},
			wantErr: "tillable acres cannot exceed total acres",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestValuation_Duration(t *testing.T) {
	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	done := created.Add(72 * time.Second)

	finished := Valuation{CreatedAt: created, CompletedAt: &done, Status: pipeline.StatusCompleted}
	assert.Equal(t, 72*time.Second, finished.Duration(created.Add(time.Hour)))
	assert.True(t, finished.Done())

	running := Valuation{CreatedAt: created, Status: pipeline.StatusProcessing}
	assert.Equal(t, 30*time.Second, running.Duration(created.Add(30*time.Second)))
	assert.False(t, running.Done())
}

func TestParcel_ToPropertyInput(t *testing.T) {
	p := Parcel{
		ID:      "871-00123-000",
		Address: "1200 120th St",
		County:  "Grundy",
		State:   "IA",
		Acres:   160,
		CSR2:    88.5,
	}

	input := p.ToPropertyInput()
	assert.Equal(t, p.ID, input.ParcelID)
	assert.Equal(t, p.Address, input.Address)
	assert.Equal(t, p.Acres, input.Acres)
	assert.Equal(t, p.CSR2, input.CSR2)
	assert.NoError(t, input.Validate())
}
