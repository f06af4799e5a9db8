package repository

import (
	"context"
	"fmt"
	"time"

	"myarc/model"
	"myarc/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DailyArcRepo struct {
	MongoCollection *mongo.Collection
}

func GetDailyArcRepo(db *mongo.Database) *DailyArcRepo {
	return &DailyArcRepo{MongoCollection: db.Collection(DailyArcsCollection)}
}

// Bump upserts the user's arc for day, adds increment to its momentum score
// and replaces the suggested action when one is given. The unique
// {user_id, day} index makes concurrent first bumps collide; the loser
// retries once and lands on the winner's document.
func (r *DailyArcRepo) Bump(ctx context.Context, userID primitive.ObjectID, day string, date time.Time, action string, increment int) (*model.DailyArc, error) {
	timer := utils.TrackDBOperation("upsert", DailyArcsCollection)
	defer timer.ObserveDuration()

	now := time.Now().UTC()
	set := bson.M{"updated_at": now}
	if action != "" {
		set["suggested_action"] = action
	}
	update := bson.M{
		"$setOnInsert": bson.M{"date": date, "created_at": now},
		"$set":         set,
		"$inc":         bson.M{"momentum_score": increment},
	}
	filter := bson.M{"user_id": userID, "day": day}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var arc model.DailyArc
	err := r.MongoCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&arc)
	if mongo.IsDuplicateKeyError(err) {
		err = r.MongoCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&arc)
	}
	if err != nil {
		utils.TrackError("database", "daily_arc_upsert_failed")
		return nil, fmt.Errorf("failed to bump daily arc: %w", err)
	}
	return &arc, nil
}

func (r *DailyArcRepo) FindForDay(ctx context.Context, userID primitive.ObjectID, day string) (*model.DailyArc, error) {
	timer := utils.TrackDBOperation("find", DailyArcsCollection)
	defer timer.ObserveDuration()

	var arc model.DailyArc
	if err := r.MongoCollection.FindOne(ctx, bson.M{"user_id": userID, "day": day}).Decode(&arc); err != nil {
		return nil, notFound(err)
	}
	return &arc, nil
}
