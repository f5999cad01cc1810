package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect establishes a MongoDB connection and verifies it with a ping.
func Connect(mongoURI, dbName string) (*mongo.Database, error) {
	clientOptions := options.Client().ApplyURI(mongoURI)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logrus.Info("connected to MongoDB")

	db := client.Database(dbName)

	if err := createIndexes(db); err != nil {
		logrus.WithError(err).Warn("failed to create indexes")
	}

	return db, nil
}

// createIndexes sets up the secondary indexes used by the snapshot store.
// Identities are the _id of each collection, so uniqueness comes for free.
func createIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	vehicleIndexes := []mongo.IndexModel{
		{Keys: map[string]interface{}{"category": 1}},
		{Keys: map[string]interface{}{"matriculation_date": 1}},
	}
	if _, err := db.Collection("vehicles").Indexes().CreateMany(ctx, vehicleIndexes); err != nil {
		return err
	}

	peopleIndexes := []mongo.IndexModel{
		{Keys: map[string]interface{}{"role": 1}},
	}
	if _, err := db.Collection("people").Indexes().CreateMany(ctx, peopleIndexes); err != nil {
		return err
	}

	rentalIndexes := []mongo.IndexModel{
		{Keys: map[string]interface{}{"plate": 1}},
		{Keys: map[string]interface{}{"person_id": 1}},
		{Keys: map[string]interface{}{"active": 1}},
		{Keys: map[string]interface{}{"start_date": -1}},
	}
	if _, err := db.Collection("rentals").Indexes().CreateMany(ctx, rentalIndexes); err != nil {
		return err
	}

	return nil
}

// Disconnect closes the MongoDB connection.
func Disconnect(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}

	logrus.Info("disconnected from MongoDB")
	return nil
}

// Health checks the database connection.
func Health(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return db.Client().Ping(ctx, nil)
}
