package models

import "time"

// AssuranceTier is the closed set of insurance coverage levels.
type AssuranceTier string

const (
	TierBasic  AssuranceTier = "basic"
	TierMedium AssuranceTier = "medium"
	TierFull   AssuranceTier = "full"
)

func (t AssuranceTier) Valid() bool {
	switch t {
	case TierBasic, TierMedium, TierFull:
		return true
	}
	return false
}

// Rental links one vehicle to one client for a period. Rentals are
// append-only history: they transition from active to ended exactly once
// and are never deleted.
type Rental struct {
	ID            string        `json:"id"`
	Plate         string        `json:"plate"`
	PersonID      string        `json:"personId"`
	StartDate     time.Time     `json:"startDate"`
	EndDate       *time.Time    `json:"endDate,omitempty"`
	AssuranceTier AssuranceTier `json:"assuranceTier"`

	// InitialMileage is the vehicle odometer snapshot taken at creation.
	// FinalMileage and ReturnDate are set once, when the rental closes.
	InitialMileage int        `json:"initialMileage"`
	FinalMileage   *int       `json:"finalMileage,omitempty"`
	ReturnDate     *time.Time `json:"returnDate,omitempty"`

	Active bool `json:"active"`
}

func (r *Rental) IsActive() bool {
	return r.Active
}

// Duration returns the rental length in days. Open rentals are measured
// against the supplied reference time.
func (r *Rental) Duration(now time.Time) int {
	end := now
	if r.EndDate != nil {
		end = *r.EndDate
	}
	return int(end.Sub(r.StartDate).Hours() / 24)
}

// Cost returns the rental cost at the given daily rate.
func (r *Rental) Cost(dailyRate float64, now time.Time) float64 {
	days := r.Duration(now)
	if days < 0 {
		days = 0
	}
	return dailyRate * float64(days)
}
