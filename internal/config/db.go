package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UsersCollection is the name of the collection holding account records
const UsersCollection = "users"

// ConnectDB establishes a connection to MongoDB
func ConnectDB(cfg *Config) (*mongo.Client, error) {
	var client *mongo.Client
	var err error

	// Retry connecting to the database a few times
	maxRetries := 5
	retryInterval := 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err = mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURL))
		if err == nil {
			err = client.Ping(ctx, nil)
			if err == nil {
				cancel()
				log.Println("Successfully connected to MongoDB!")
				return client, nil
			}
		}
		cancel()
		log.Printf("Failed to connect to database (attempt %d/%d): %v. Retrying in %v...", i+1, maxRetries, err, retryInterval)
		time.Sleep(retryInterval)
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
}

// EnsureIndexes creates the indexes the service relies on if they don't exist
func EnsureIndexes(client *mongo.Client, cfg *Config) error {
	coll := client.Database(cfg.DBName).Collection(UsersCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Unique email index backs the registration uniqueness guarantee
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("unable to create email index: %w", err)
	}

	log.Println("Indexes ensured successfully")
	return nil
}
