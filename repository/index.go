package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupIndexes creates the indexes every collection relies on. The unique
// {user_id, day} index on daily arcs is what makes Bump safe under concurrency.
func SetupIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		EntriesCollection: {
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "date", Value: -1},
				},
				Options: options.Index().SetName("user_entries_date"),
			},
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "tags", Value: 1},
				},
				Options: options.Index().SetName("user_tags"),
			},
		},
		ShortsCollection: {
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "type", Value: 1},
					{Key: "status", Value: 1},
				},
				Options: options.Index().SetName("user_type_status"),
			},
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "created_at", Value: -1},
				},
				Options: options.Index().SetName("user_shorts_created"),
			},
		},
		DailyArcsCollection: {
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "day", Value: 1},
				},
				Options: options.Index().
					SetName("user_day_unique").
					SetUnique(true),
			},
		},
		UsersCollection: {
			{
				Keys: bson.D{{Key: "email", Value: 1}},
				Options: options.Index().
					SetName("email_unique").
					SetUnique(true),
			},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", collection, err)
		}
	}
	return nil
}
