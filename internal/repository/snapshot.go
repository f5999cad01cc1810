package repository

import (
	"fmt"
	"strings"
	"time"

	"fleet-rental/internal/models"
)

// Persisted record shapes. Entity identities double as Mongo _id so the
// store inherits uniqueness from the collection. Closed-variant tags are
// stored as their string values and re-validated on load.

type vehicleRecord struct {
	Plate             string    `bson:"_id"`
	Brand             string    `bson:"brand"`
	Model             string    `bson:"model"`
	Color             string    `bson:"color,omitempty"`
	Category          string    `bson:"category"`
	MatriculationDate time.Time `bson:"matriculation_date"`
	Mileage           int       `bson:"mileage"`
	DailyRate         float64   `bson:"daily_rate"`
	EngineSize        int       `bson:"engine_size,omitempty"`
	CargoCapacity     float64   `bson:"cargo_capacity,omitempty"`
}

type personRecord struct {
	ID               string    `bson:"_id"`
	Name             string    `bson:"name"`
	BirthDate        time.Time `bson:"birth_date"`
	PasswordHash     string    `bson:"password_hash,omitempty"`
	Role             string    `bson:"role,omitempty"`
	RegisteredPlates []string  `bson:"registered_plates,omitempty"`
}

type rentalRecord struct {
	ID             string     `bson:"_id"`
	Plate          string     `bson:"plate"`
	PersonID       string     `bson:"person_id"`
	StartDate      time.Time  `bson:"start_date"`
	EndDate        *time.Time `bson:"end_date,omitempty"`
	AssuranceTier  string     `bson:"assurance_tier"`
	InitialMileage int        `bson:"initial_mileage"`
	FinalMileage   *int       `bson:"final_mileage,omitempty"`
	ReturnDate     *time.Time `bson:"return_date,omitempty"`
	Active         bool       `bson:"active"`
}

func newVehicleRecord(v *models.Vehicle) vehicleRecord {
	return vehicleRecord{
		Plate:             v.Plate,
		Brand:             v.Brand,
		Model:             v.Model,
		Color:             v.Color,
		Category:          string(v.Category),
		MatriculationDate: v.MatriculationDate,
		Mileage:           v.Mileage,
		DailyRate:         v.DailyRate,
		EngineSize:        v.EngineSize,
		CargoCapacity:     v.CargoCapacity,
	}
}

func (r vehicleRecord) toModel() (*models.Vehicle, error) {
	v, err := models.NewVehicle(models.Vehicle{
		Plate:             r.Plate,
		Brand:             r.Brand,
		Model:             r.Model,
		Color:             r.Color,
		Category:          models.VehicleCategory(r.Category),
		MatriculationDate: r.MatriculationDate,
		Mileage:           r.Mileage,
		DailyRate:         r.DailyRate,
		EngineSize:        r.EngineSize,
		CargoCapacity:     r.CargoCapacity,
	})
	if err != nil {
		return nil, fmt.Errorf("corrupt vehicle record %q: %w", r.Plate, err)
	}
	return v, nil
}

func newPersonRecord(p *models.Person) personRecord {
	return personRecord{
		ID:               p.ID,
		Name:             p.Name,
		BirthDate:        p.BirthDate,
		PasswordHash:     p.PasswordHash,
		Role:             string(p.Role),
		RegisteredPlates: p.RegisteredPlates,
	}
}

func (r personRecord) toModel() (*models.Person, error) {
	var (
		p   *models.Person
		err error
	)
	if strings.HasPrefix(r.ID, "A") {
		p, err = models.NewAdmin(r.ID, r.Name, r.BirthDate, models.AdminRole(r.Role))
	} else {
		p, err = models.NewClient(r.ID, r.Name, r.BirthDate)
	}
	if err != nil {
		return nil, fmt.Errorf("corrupt person record %q: %w", r.ID, err)
	}
	p.PasswordHash = r.PasswordHash
	p.RegisteredPlates = r.RegisteredPlates
	return p, nil
}

func newRentalRecord(r *models.Rental) rentalRecord {
	return rentalRecord{
		ID:             r.ID,
		Plate:          r.Plate,
		PersonID:       r.PersonID,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		AssuranceTier:  string(r.AssuranceTier),
		InitialMileage: r.InitialMileage,
		FinalMileage:   r.FinalMileage,
		ReturnDate:     r.ReturnDate,
		Active:         r.Active,
	}
}

func (r rentalRecord) toModel() (*models.Rental, error) {
	tier := models.AssuranceTier(r.AssuranceTier)
	if !tier.Valid() {
		return nil, fmt.Errorf("corrupt rental record %q: invalid assurance tier %q", r.ID, r.AssuranceTier)
	}
	if r.ID == "" || r.Plate == "" || r.PersonID == "" {
		return nil, fmt.Errorf("corrupt rental record %q: missing reference", r.ID)
	}
	return &models.Rental{
		ID:             r.ID,
		Plate:          r.Plate,
		PersonID:       r.PersonID,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		AssuranceTier:  tier,
		InitialMileage: r.InitialMileage,
		FinalMileage:   r.FinalMileage,
		ReturnDate:     r.ReturnDate,
		Active:         r.Active,
	}, nil
}
