package models

import (
	"fmt"
	"strings"
	"time"
)

// VehicleCategory is the closed set of fleet vehicle categories. Inspection
// and maintenance cadences are keyed on it, so a new category requires a
// matching schedule policy.
type VehicleCategory string

const (
	CategoryLight      VehicleCategory = "light"
	CategoryTwoWheeler VehicleCategory = "two_wheeler"
	CategoryHeavy      VehicleCategory = "heavy"
)

func (c VehicleCategory) Valid() bool {
	switch c {
	case CategoryLight, CategoryTwoWheeler, CategoryHeavy:
		return true
	}
	return false
}

type Vehicle struct {
	Plate             string          `json:"plate" validate:"required,plate"`
	Brand             string          `json:"brand" validate:"required"`
	Model             string          `json:"model" validate:"required"`
	Color             string          `json:"color,omitempty"`
	Category          VehicleCategory `json:"category" validate:"required,vehicle_category"`
	MatriculationDate time.Time       `json:"matriculationDate" validate:"required"`
	Mileage           int             `json:"mileage" validate:"min=0"`
	DailyRate         float64         `json:"dailyRate" validate:"min=0"`
	EngineSize        int             `json:"engineSize,omitempty" validate:"min=0"`    // cc, two-wheelers only
	CargoCapacity     float64         `json:"cargoCapacity,omitempty" validate:"min=0"` // tons, heavy vehicles only
}

// NewVehicle normalizes and validates a vehicle. The plate is uppercased
// before validation and is immutable from then on.
func NewVehicle(v Vehicle) (*Vehicle, error) {
	v.Plate = strings.ToUpper(strings.TrimSpace(v.Plate))
	if err := validate.Struct(&v); err != nil {
		return nil, fmt.Errorf("invalid vehicle: %w", err)
	}
	return &v, nil
}

// RentalCost returns the cost of renting this vehicle for the given number
// of days at its daily rate.
func (v *Vehicle) RentalCost(days int) float64 {
	if days < 0 {
		days = 0
	}
	return v.DailyRate * float64(days)
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("%s %s (%s)", v.Brand, v.Model, v.Plate)
}
