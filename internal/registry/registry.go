// Package registry implements the fleet aggregate: the sole owner of the
// vehicle, person and rental collections. Every mutation goes through it so
// that cross-entity rules (no double booking, no removal of referenced
// entities, monotonic mileage) hold after every call.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleet-rental/internal/models"
	"fleet-rental/internal/schedule"
)

// MaxActiveRentalsPerClient caps how many rentals a client may hold open at
// once.
const MaxActiveRentalsPerClient = 3

// Registry owns all entity collections. It is not safe for concurrent use;
// the system runs a single interactive session at a time.
type Registry struct {
	vehicles map[string]*models.Vehicle
	people   map[string]*models.Person
	rentals  map[string]*models.Rental

	// rentalLog preserves creation order; rentals are append-only history.
	rentalLog []*models.Rental

	// Derived indices, rebuilt on load. activeByPlate maps a plate to its
	// single active rental id; activeCount tracks open rentals per person.
	activeByPlate map[string]string
	activeCount   map[string]int

	now func() time.Time
}

// Snapshot is the persistence exchange format: plain entity slices with no
// derived state.
type Snapshot struct {
	Vehicles []*models.Vehicle
	People   []*models.Person
	Rentals  []*models.Rental
}

func New() *Registry {
	return &Registry{
		vehicles:      make(map[string]*models.Vehicle),
		people:        make(map[string]*models.Person),
		rentals:       make(map[string]*models.Rental),
		activeByPlate: make(map[string]string),
		activeCount:   make(map[string]int),
		now:           time.Now,
	}
}

// FromSnapshot rebuilds a registry from persisted state, reconstructing the
// derived indices. An empty snapshot yields an empty, usable registry.
func FromSnapshot(snap Snapshot) (*Registry, error) {
	r := New()
	for _, v := range snap.Vehicles {
		if err := r.AddVehicle(v); err != nil {
			return nil, fmt.Errorf("snapshot vehicle %s: %w", v.Plate, err)
		}
	}
	for _, p := range snap.People {
		if err := r.AddPerson(p); err != nil {
			return nil, fmt.Errorf("snapshot person %s: %w", p.ID, err)
		}
	}
	for _, rental := range snap.Rentals {
		if rental.ID == "" {
			return nil, fmt.Errorf("snapshot rental without id")
		}
		if _, ok := r.rentals[rental.ID]; ok {
			return nil, fmt.Errorf("snapshot rental %s: duplicate id", rental.ID)
		}
		if rental.Active {
			if _, taken := r.activeByPlate[rental.Plate]; taken {
				return nil, fmt.Errorf("snapshot rental %s: vehicle %s double-booked", rental.ID, rental.Plate)
			}
			r.activeByPlate[rental.Plate] = rental.ID
			r.activeCount[rental.PersonID]++
		}
		r.rentals[rental.ID] = rental
		r.rentalLog = append(r.rentalLog, rental)
	}
	return r, nil
}

// Snapshot exports the collections for persistence. Vehicles and people are
// sorted by identity so snapshots are stable.
func (r *Registry) Snapshot() Snapshot {
	snap := Snapshot{
		Vehicles: r.Vehicles(),
		People:   r.People(),
		Rentals:  append([]*models.Rental(nil), r.rentalLog...),
	}
	return snap
}

// AddVehicle inserts a vehicle after validating it. Fails when the plate is
// already present.
func (r *Registry) AddVehicle(v *models.Vehicle) error {
	checked, err := models.NewVehicle(*v)
	if err != nil {
		return err
	}
	if _, ok := r.vehicles[checked.Plate]; ok {
		return ErrDuplicatePlate
	}
	*v = *checked
	r.vehicles[v.Plate] = v
	return nil
}

// RemoveVehicle deletes a vehicle. Fails while any active rental references
// it.
func (r *Registry) RemoveVehicle(plate string) error {
	plate = normalizePlate(plate)
	if _, ok := r.vehicles[plate]; !ok {
		return ErrVehicleNotFound
	}
	if _, rented := r.activeByPlate[plate]; rented {
		return ErrVehicleRented
	}
	delete(r.vehicles, plate)
	return nil
}

// UpdateVehicleRequest is a partial update; nil/empty fields are left
// untouched. The plate itself is immutable.
type UpdateVehicleRequest struct {
	Brand             string
	Model             string
	Color             string
	MatriculationDate *time.Time
	Mileage           *int
	DailyRate         *float64
}

// UpdateVehicle applies a bounded partial update. Mileage may only move
// forward.
func (r *Registry) UpdateVehicle(plate string, req UpdateVehicleRequest) (*models.Vehicle, error) {
	v, ok := r.vehicles[normalizePlate(plate)]
	if !ok {
		return nil, ErrVehicleNotFound
	}
	if req.Mileage != nil && *req.Mileage < v.Mileage {
		return nil, ErrMileageDecrease
	}

	updated := *v
	if req.Brand != "" {
		updated.Brand = req.Brand
	}
	if req.Model != "" {
		updated.Model = req.Model
	}
	if req.Color != "" {
		updated.Color = req.Color
	}
	if req.MatriculationDate != nil {
		updated.MatriculationDate = *req.MatriculationDate
	}
	if req.Mileage != nil {
		updated.Mileage = *req.Mileage
	}
	if req.DailyRate != nil {
		updated.DailyRate = *req.DailyRate
	}

	checked, err := models.NewVehicle(updated)
	if err != nil {
		return nil, err
	}
	*v = *checked
	return v, nil
}

// AddPerson inserts a client or admin after re-validating it. Fails when
// the id is already taken.
func (r *Registry) AddPerson(p *models.Person) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if _, ok := r.people[p.ID]; ok {
		return ErrDuplicatePerson
	}
	r.people[p.ID] = p
	return nil
}

// RemovePerson deletes a person. Fails while they hold an active rental.
func (r *Registry) RemovePerson(id string) error {
	if _, ok := r.people[id]; !ok {
		return ErrPersonNotFound
	}
	if r.activeCount[id] > 0 {
		return ErrPersonHasRentals
	}
	delete(r.people, id)
	return nil
}

// CreateRental opens a rental for a client on a free vehicle. The vehicle's
// current mileage is snapshotted as the rental's initial mileage.
func (r *Registry) CreateRental(plate, personID string, start, end time.Time, tier models.AssuranceTier) (*models.Rental, error) {
	plate = normalizePlate(plate)
	v, ok := r.vehicles[plate]
	if !ok {
		return nil, ErrVehicleNotFound
	}
	p, ok := r.people[personID]
	if !ok {
		return nil, ErrPersonNotFound
	}
	if !p.CanRent() {
		return nil, ErrNotAClient
	}
	if !tier.Valid() {
		return nil, fmt.Errorf("invalid assurance tier: %s", tier)
	}
	if !end.After(start) {
		return nil, ErrInvalidPeriod
	}
	if _, rented := r.activeByPlate[plate]; rented {
		return nil, ErrVehicleRented
	}
	if r.activeCount[personID] >= MaxActiveRentalsPerClient {
		return nil, ErrRentalLimit
	}

	rental := &models.Rental{
		ID:             uuid.NewString(),
		Plate:          plate,
		PersonID:       personID,
		StartDate:      start,
		EndDate:        &end,
		AssuranceTier:  tier,
		InitialMileage: v.Mileage,
		Active:         true,
	}

	r.rentals[rental.ID] = rental
	r.rentalLog = append(r.rentalLog, rental)
	r.activeByPlate[plate] = rental.ID
	r.activeCount[personID]++
	return rental, nil
}

// EndRental closes an active rental, records the return, and advances the
// vehicle's mileage. A rental ends exactly once.
func (r *Registry) EndRental(rentalID string, finalMileage int) error {
	rental, ok := r.rentals[rentalID]
	if !ok {
		return ErrRentalNotFound
	}
	if !rental.Active {
		return ErrRentalEnded
	}
	if finalMileage < rental.InitialMileage {
		return ErrMileageRegression
	}

	now := r.now()
	rental.FinalMileage = &finalMileage
	rental.ReturnDate = &now
	rental.EndDate = &now
	rental.Active = false

	delete(r.activeByPlate, rental.Plate)
	if r.activeCount[rental.PersonID] > 0 {
		r.activeCount[rental.PersonID]--
	}
	if v, ok := r.vehicles[rental.Plate]; ok {
		v.Mileage = finalMileage
	}
	return nil
}

// RegisterVehicleToClient records the client-side vehicle association.
func (r *Registry) RegisterVehicleToClient(personID, plate string) error {
	p, ok := r.people[personID]
	if !ok {
		return ErrPersonNotFound
	}
	plate = normalizePlate(plate)
	if _, ok := r.vehicles[plate]; !ok {
		return ErrVehicleNotFound
	}
	if !p.RegisterPlate(plate) {
		return ErrDuplicatePlate
	}
	return nil
}

// UnregisterVehicleFromClient removes the client-side association.
func (r *Registry) UnregisterVehicleFromClient(personID, plate string) error {
	p, ok := r.people[personID]
	if !ok {
		return ErrPersonNotFound
	}
	if !p.UnregisterPlate(plate) {
		return ErrVehicleNotFound
	}
	return nil
}

// Vehicle looks up a vehicle by plate.
func (r *Registry) Vehicle(plate string) (*models.Vehicle, error) {
	v, ok := r.vehicles[normalizePlate(plate)]
	if !ok {
		return nil, ErrVehicleNotFound
	}
	return v, nil
}

// Person looks up a person by id.
func (r *Registry) Person(id string) (*models.Person, error) {
	p, ok := r.people[id]
	if !ok {
		return nil, ErrPersonNotFound
	}
	return p, nil
}

// Rental looks up a rental by id.
func (r *Registry) Rental(id string) (*models.Rental, error) {
	rental, ok := r.rentals[id]
	if !ok {
		return nil, ErrRentalNotFound
	}
	return rental, nil
}

// Vehicles lists all vehicles sorted by plate.
func (r *Registry) Vehicles() []*models.Vehicle {
	out := make([]*models.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Plate < out[j].Plate })
	return out
}

// VehiclesByCategory lists vehicles of one category, sorted by plate.
func (r *Registry) VehiclesByCategory(c models.VehicleCategory) []*models.Vehicle {
	var out []*models.Vehicle
	for _, v := range r.Vehicles() {
		if v.Category == c {
			out = append(out, v)
		}
	}
	return out
}

// People lists all people sorted by id.
func (r *Registry) People() []*models.Person {
	out := make([]*models.Person, 0, len(r.people))
	for _, p := range r.people {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AvailableVehicles lists vehicles with no active rental.
func (r *Registry) AvailableVehicles() []*models.Vehicle {
	var out []*models.Vehicle
	for _, v := range r.Vehicles() {
		if _, rented := r.activeByPlate[v.Plate]; !rented {
			out = append(out, v)
		}
	}
	return out
}

// ActiveRentals lists open rentals in creation order.
func (r *Registry) ActiveRentals() []*models.Rental {
	var out []*models.Rental
	for _, rental := range r.rentalLog {
		if rental.Active {
			out = append(out, rental)
		}
	}
	return out
}

// Rentals lists the full rental history in creation order.
func (r *Registry) Rentals() []*models.Rental {
	return append([]*models.Rental(nil), r.rentalLog...)
}

// PersonRentals lists a person's rentals in creation order.
func (r *Registry) PersonRentals(personID string) []*models.Rental {
	var out []*models.Rental
	for _, rental := range r.rentalLog {
		if rental.PersonID == personID {
			out = append(out, rental)
		}
	}
	return out
}

// VehicleRentals lists a vehicle's rentals in creation order.
func (r *Registry) VehicleRentals(plate string) []*models.Rental {
	plate = normalizePlate(plate)
	var out []*models.Rental
	for _, rental := range r.rentalLog {
		if rental.Plate == plate {
			out = append(out, rental)
		}
	}
	return out
}

// DueVehicle pairs a vehicle with the days remaining until a scheduled
// event.
type DueVehicle struct {
	Vehicle  *models.Vehicle
	Due      time.Time
	DaysLeft int
}

// VehiclesDueInspection lists vehicles whose next inspection falls within
// the given number of days from now.
func (r *Registry) VehiclesDueInspection(now time.Time, withinDays int) []DueVehicle {
	return r.due(now, withinDays, schedule.NextInspection)
}

// VehiclesDueMaintenance lists vehicles whose next date-based maintenance
// falls within the given number of days from now.
func (r *Registry) VehiclesDueMaintenance(now time.Time, withinDays int) []DueVehicle {
	return r.due(now, withinDays, schedule.NextMaintenance)
}

func (r *Registry) due(now time.Time, withinDays int, next func(models.VehicleCategory, time.Time, time.Time) time.Time) []DueVehicle {
	var out []DueVehicle
	for _, v := range r.Vehicles() {
		d := next(v.Category, v.MatriculationDate, now)
		if d.IsZero() {
			continue
		}
		days := int(d.Sub(now).Hours() / 24)
		if days >= 0 && days <= withinDays {
			out = append(out, DueVehicle{Vehicle: v, Due: d, DaysLeft: days})
		}
	}
	return out
}

func normalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}
