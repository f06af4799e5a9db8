package repository

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"myarc/model"
	"myarc/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxCandidates bounds how many embedded entries feed the analysis context.
const maxCandidates = 1000

type EntriesRepo struct {
	MongoCollection *mongo.Collection
}

func GetEntriesRepo(db *mongo.Database) *EntriesRepo {
	return &EntriesRepo{MongoCollection: db.Collection(EntriesCollection)}
}

var withoutEmbedding = bson.M{"embedding": 0}

func (r *EntriesRepo) Create(ctx context.Context, entry *model.Entry) error {
	timer := utils.TrackDBOperation("insert", EntriesCollection)
	defer timer.ObserveDuration()

	now := time.Now().UTC()
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Date.IsZero() {
		entry.Date = now
	}
	if entry.Tags == nil {
		entry.Tags = []string{}
	}
	entry.CreatedAt = now
	entry.UpdatedAt = now

	if _, err := r.MongoCollection.InsertOne(ctx, entry); err != nil {
		utils.TrackError("database", "entry_creation_failed")
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

// UpdateEnrichment writes the analysis fields onto an existing entry. Empty
// fields are left untouched.
func (r *EntriesRepo) UpdateEnrichment(ctx context.Context, id, userID primitive.ObjectID, e model.EntryEnrichment) error {
	timer := utils.TrackDBOperation("update", EntriesCollection)
	defer timer.ObserveDuration()

	set := bson.M{"updated_at": time.Now().UTC()}
	if len(e.Embedding) > 0 {
		set["embedding"] = e.Embedding
	}
	if e.Sentiment != "" {
		set["sentiment"] = e.Sentiment
	}
	if e.Tags != nil {
		set["tags"] = e.Tags
	}
	if e.AIAnalysis != nil {
		set["ai_analysis"] = e.AIAnalysis
	}

	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"_id": id, "user_id": userID}, bson.M{"$set": set})
	if err != nil {
		utils.TrackError("database", "entry_enrichment_failed")
		return fmt.Errorf("failed to update entry: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EntriesRepo) FindByID(ctx context.Context, id, userID primitive.ObjectID) (*model.Entry, error) {
	timer := utils.TrackDBOperation("find", EntriesCollection)
	defer timer.ObserveDuration()

	var entry model.Entry
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&entry)
	if err != nil {
		return nil, notFound(err)
	}
	return &entry, nil
}

func (r *EntriesRepo) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	timer := utils.TrackDBOperation("delete", EntriesCollection)
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		utils.TrackError("database", "entry_deletion_failed")
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindPage lists entries newest first with an optional exact tag filter.
func (r *EntriesRepo) FindPage(ctx context.Context, userID primitive.ObjectID, tag string, skip, limit int64) ([]*model.Entry, int64, error) {
	timer := utils.TrackDBOperation("find", EntriesCollection)
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID}
	if tag != "" {
		filter["tags"] = tag
	}
	return r.page(ctx, filter, skip, limit)
}

// FindWithEmbeddings returns every embedded entry of the user, newest first.
func (r *EntriesRepo) FindWithEmbeddings(ctx context.Context, userID primitive.ObjectID) ([]*model.Entry, error) {
	timer := utils.TrackDBOperation("find", EntriesCollection)
	defer timer.ObserveDuration()

	return r.find(ctx, bson.M{"user_id": userID, "embedding.0": bson.M{"$exists": true}},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}))
}

// FindSimilarCandidates returns the newest maxCandidates embedded entries of
// the user other than excludeID.
func (r *EntriesRepo) FindSimilarCandidates(ctx context.Context, userID, excludeID primitive.ObjectID) ([]*model.Entry, error) {
	timer := utils.TrackDBOperation("find", EntriesCollection)
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID, "embedding.0": bson.M{"$exists": true}}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	return r.find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}).SetLimit(maxCandidates))
}

// TextSearch matches query literally and case-insensitively against title,
// preview and tags. limit <= 0 returns every match.
func (r *EntriesRepo) TextSearch(ctx context.Context, userID primitive.ObjectID, query string, withoutEmbeddingOnly bool, skip, limit int64) ([]*model.Entry, int64, error) {
	timer := utils.TrackDBOperation("search", EntriesCollection)
	defer timer.ObserveDuration()

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"user_id": userID,
		"$or": bson.A{
			bson.M{"title": pattern},
			bson.M{"preview": pattern},
			bson.M{"tags": pattern},
		},
	}
	if withoutEmbeddingOnly {
		filter["embedding.0"] = bson.M{"$exists": false}
	}
	return r.page(ctx, filter, skip, limit)
}

// DistinctTags returns the user's tags sorted alphabetically.
func (r *EntriesRepo) DistinctTags(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	timer := utils.TrackDBOperation("distinct", EntriesCollection)
	defer timer.ObserveDuration()

	values, err := r.MongoCollection.Distinct(ctx, "tags", bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			tags = append(tags, s)
		}
	}
	sort.Strings(tags)
	return tags, nil
}

func (r *EntriesRepo) Latest(ctx context.Context, userID primitive.ObjectID) (*model.Entry, error) {
	timer := utils.TrackDBOperation("find", EntriesCollection)
	defer timer.ObserveDuration()

	var entry model.Entry
	opts := options.FindOne().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}).
		SetProjection(withoutEmbedding)
	if err := r.MongoCollection.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&entry); err != nil {
		return nil, notFound(err)
	}
	return &entry, nil
}

// CountBetween counts entries dated in [from, to).
func (r *EntriesRepo) CountBetween(ctx context.Context, userID primitive.ObjectID, from, to time.Time) (int64, error) {
	timer := utils.TrackDBOperation("count", EntriesCollection)
	defer timer.ObserveDuration()

	return r.MongoCollection.CountDocuments(ctx, bson.M{
		"user_id": userID,
		"date":    bson.M{"$gte": from, "$lt": to},
	})
}

func (r *EntriesRepo) page(ctx context.Context, filter bson.M, skip, limit int64) ([]*model.Entry, int64, error) {
	total, err := r.MongoCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}).
		SetProjection(withoutEmbedding)
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	entries, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *EntriesRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Entry, error) {
	cursor, err := r.MongoCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := make([]*model.Entry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
