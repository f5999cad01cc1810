package registry

import "errors"

// Operation failures are expected, recoverable outcomes the caller branches
// on, so they are sentinel values rather than panics or typed wrappers.
var (
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrPersonNotFound     = errors.New("person not found")
	ErrRentalNotFound     = errors.New("rental not found")
	ErrDuplicatePlate     = errors.New("license plate already registered")
	ErrDuplicatePerson    = errors.New("person id already registered")
	ErrVehicleRented      = errors.New("vehicle has an active rental")
	ErrPersonHasRentals   = errors.New("person has an active rental")
	ErrRentalLimit        = errors.New("client has reached the active rental limit")
	ErrRentalEnded        = errors.New("rental already ended")
	ErrMileageRegression  = errors.New("final mileage is below the initial mileage")
	ErrInvalidPeriod      = errors.New("end date must be after start date")
	ErrNotAClient         = errors.New("only clients can rent vehicles")
	ErrMileageDecrease    = errors.New("mileage cannot decrease")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
