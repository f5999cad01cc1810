// Package repository is the persistence gateway: it converts registry
// snapshots to and from MongoDB collections. The registry itself never
// persists; callers flush through here after mutations.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"fleet-rental/internal/registry"
)

const (
	vehiclesCollection = "vehicles"
	peopleCollection   = "people"
	rentalsCollection  = "rentals"

	opTimeout = 10 * time.Second
)

type Store struct {
	db  *mongo.Database
	log *logrus.Logger
}

func NewStore(db *mongo.Database, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{db: db, log: log}
}

// Load reads the full snapshot. Missing collections are not an error: a
// cold start yields an empty snapshot.
func (s *Store) Load() (registry.Snapshot, error) {
	var snap registry.Snapshot

	vehicles, err := loadAll[vehicleRecord](s, vehiclesCollection)
	if err != nil {
		return snap, fmt.Errorf("load vehicles: %w", err)
	}
	for _, rec := range vehicles {
		v, err := rec.toModel()
		if err != nil {
			return snap, err
		}
		snap.Vehicles = append(snap.Vehicles, v)
	}

	people, err := loadAll[personRecord](s, peopleCollection)
	if err != nil {
		return snap, fmt.Errorf("load people: %w", err)
	}
	for _, rec := range people {
		p, err := rec.toModel()
		if err != nil {
			return snap, err
		}
		snap.People = append(snap.People, p)
	}

	rentals, err := loadAll[rentalRecord](s, rentalsCollection)
	if err != nil {
		return snap, fmt.Errorf("load rentals: %w", err)
	}
	for _, rec := range rentals {
		r, err := rec.toModel()
		if err != nil {
			return snap, err
		}
		snap.Rentals = append(snap.Rentals, r)
	}

	s.log.WithFields(logrus.Fields{
		"vehicles": len(snap.Vehicles),
		"people":   len(snap.People),
		"rentals":  len(snap.Rentals),
	}).Info("snapshot loaded")
	return snap, nil
}

// Save replaces the stored collections with the snapshot. The session is
// single-user, so drop-and-insert per collection is sufficient.
func (s *Store) Save(snap registry.Snapshot) error {
	vehicles := make([]interface{}, 0, len(snap.Vehicles))
	for _, v := range snap.Vehicles {
		vehicles = append(vehicles, newVehicleRecord(v))
	}
	people := make([]interface{}, 0, len(snap.People))
	for _, p := range snap.People {
		people = append(people, newPersonRecord(p))
	}
	rentals := make([]interface{}, 0, len(snap.Rentals))
	for _, r := range snap.Rentals {
		rentals = append(rentals, newRentalRecord(r))
	}

	if err := s.replaceAll(vehiclesCollection, vehicles); err != nil {
		return fmt.Errorf("save vehicles: %w", err)
	}
	if err := s.replaceAll(peopleCollection, people); err != nil {
		return fmt.Errorf("save people: %w", err)
	}
	if err := s.replaceAll(rentalsCollection, rentals); err != nil {
		return fmt.Errorf("save rentals: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"vehicles": len(vehicles),
		"people":   len(people),
		"rentals":  len(rentals),
	}).Debug("snapshot saved")
	return nil
}

func loadAll[T any](s *Store, collection string) ([]T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) replaceAll(collection string, docs []interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	coll := s.db.Collection(collection)
	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	_, err := coll.InsertMany(ctx, docs)
	return err
}
