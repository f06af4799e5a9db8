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

type ShortsRepo struct {
	MongoCollection *mongo.Collection
}

func GetShortsRepo(db *mongo.Database) *ShortsRepo {
	return &ShortsRepo{MongoCollection: db.Collection(ShortsCollection)}
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

func prepareShort(s *model.Short, now time.Time) {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	if s.Status == "" {
		s.Status = model.StatusActive
	}
	if s.Source == "" {
		s.Source = model.SourceUser
	}
	if s.Milestones == nil {
		s.Milestones = []model.Milestone{}
	}
	s.CreatedAt = now
	s.UpdatedAt = now
}

func (r *ShortsRepo) Create(ctx context.Context, short *model.Short) error {
	timer := utils.TrackDBOperation("insert", ShortsCollection)
	defer timer.ObserveDuration()

	prepareShort(short, time.Now().UTC())
	if _, err := r.MongoCollection.InsertOne(ctx, short); err != nil {
		utils.TrackError("database", "short_creation_failed")
		return fmt.Errorf("failed to insert short: %w", err)
	}
	return nil
}

func (r *ShortsRepo) CreateMany(ctx context.Context, shorts []*model.Short) error {
	if len(shorts) == 0 {
		return nil
	}
	timer := utils.TrackDBOperation("insert_many", ShortsCollection)
	defer timer.ObserveDuration()

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(shorts))
	for _, s := range shorts {
		prepareShort(s, now)
		docs = append(docs, s)
	}
	if _, err := r.MongoCollection.InsertMany(ctx, docs); err != nil {
		utils.TrackError("database", "short_creation_failed")
		return fmt.Errorf("failed to insert shorts: %w", err)
	}
	return nil
}

func (r *ShortsRepo) FindByID(ctx context.Context, id, userID primitive.ObjectID) (*model.Short, error) {
	timer := utils.TrackDBOperation("find", ShortsCollection)
	defer timer.ObserveDuration()

	var short model.Short
	if err := r.MongoCollection.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&short); err != nil {
		return nil, notFound(err)
	}
	return &short, nil
}

// List returns the user's non-archived shorts, newest first. A zero category
// lists every category.
func (r *ShortsRepo) List(ctx context.Context, userID primitive.ObjectID, category model.Category) ([]*model.Short, error) {
	timer := utils.TrackDBOperation("find", ShortsCollection)
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID, "status": bson.M{"$ne": model.StatusArchived}}
	if !category.IsZero() {
		filter["type"] = category.String()
	}
	return r.find(ctx, filter, options.Find().SetSort(newestFirst))
}

// Update persists content, status and milestones of an existing short.
func (r *ShortsRepo) Update(ctx context.Context, short *model.Short) error {
	timer := utils.TrackDBOperation("update", ShortsCollection)
	defer timer.ObserveDuration()

	short.UpdatedAt = time.Now().UTC()
	if short.Milestones == nil {
		short.Milestones = []model.Milestone{}
	}
	update := bson.M{"$set": bson.M{
		"content":    short.Content,
		"status":     short.Status,
		"milestones": short.Milestones,
		"updated_at": short.UpdatedAt,
	}}
	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"_id": short.ID, "user_id": short.UserID}, update)
	if err != nil {
		utils.TrackError("database", "short_update_failed")
		return fmt.Errorf("failed to update short: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ShortsRepo) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	timer := utils.TrackDBOperation("delete", ShortsCollection)
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		utils.TrackError("database", "short_deletion_failed")
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByCategory removes every short the user filed under category.
func (r *ShortsRepo) DeleteByCategory(ctx context.Context, userID primitive.ObjectID, category model.Category) (int64, error) {
	timer := utils.TrackDBOperation("delete_many", ShortsCollection)
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteMany(ctx, bson.M{"user_id": userID, "type": category.String()})
	if err != nil {
		utils.TrackError("database", "short_cascade_failed")
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *ShortsRepo) ActiveHabits(ctx context.Context, userID primitive.ObjectID) ([]*model.Short, error) {
	timer := utils.TrackDBOperation("find", ShortsCollection)
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID, "type": model.CategoryHabitName, "status": model.StatusActive}
	return r.find(ctx, filter, options.Find().SetSort(newestFirst))
}

func (r *ShortsRepo) ActiveGoals(ctx context.Context, userID primitive.ObjectID, limit int64) ([]*model.Short, error) {
	timer := utils.TrackDBOperation("find", ShortsCollection)
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	filter := bson.M{"user_id": userID, "type": model.CategoryGoalName, "status": model.StatusActive}
	return r.find(ctx, filter, opts)
}

// CountCompletedGoalsBetween counts goals marked completed with their last
// update in [from, to).
func (r *ShortsRepo) CountCompletedGoalsBetween(ctx context.Context, userID primitive.ObjectID, from, to time.Time) (int64, error) {
	timer := utils.TrackDBOperation("count", ShortsCollection)
	defer timer.ObserveDuration()

	return r.MongoCollection.CountDocuments(ctx, bson.M{
		"user_id":    userID,
		"type":       model.CategoryGoalName,
		"status":     model.StatusCompleted,
		"updated_at": bson.M{"$gte": from, "$lt": to},
	})
}

// GoalsWithCompletedMilestones returns goals holding at least one milestone
// completed in [from, to). Callers count the matching milestones themselves.
func (r *ShortsRepo) GoalsWithCompletedMilestones(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]*model.Short, error) {
	timer := utils.TrackDBOperation("find", ShortsCollection)
	defer timer.ObserveDuration()

	filter := bson.M{
		"user_id": userID,
		"type":    model.CategoryGoalName,
		"milestones": bson.M{"$elemMatch": bson.M{
			"is_completed": true,
			"completed_at": bson.M{"$gte": from, "$lt": to},
		}},
	}
	return r.find(ctx, filter, options.Find())
}

func (r *ShortsRepo) CountCreatedBetween(ctx context.Context, userID primitive.ObjectID, from, to time.Time) (int64, error) {
	timer := utils.TrackDBOperation("count", ShortsCollection)
	defer timer.ObserveDuration()

	return r.MongoCollection.CountDocuments(ctx, bson.M{
		"user_id":    userID,
		"created_at": bson.M{"$gte": from, "$lt": to},
	})
}

func (r *ShortsRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Short, error) {
	cursor, err := r.MongoCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	shorts := make([]*model.Short, 0)
	if err := cursor.All(ctx, &shorts); err != nil {
		return nil, err
	}
	return shorts, nil
}
