package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"myarc/model"
	"myarc/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func GetUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{MongoCollection: db.Collection(UsersCollection)}
}

type UserRepo struct {
	MongoCollection *mongo.Collection
}

// caseInsensitive compares strings ignoring case (ICU strength 2).
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	timer := utils.TrackDBOperation("insert", UsersCollection)
	defer timer.ObserveDuration()

	now := time.Now().UTC()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.ShortsCategories == nil {
		user.ShortsCategories = []string{}
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.MongoCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		utils.TrackError("database", "user_creation_failed")
		return fmt.Errorf("failed to add user to database: %w", err)
	}
	return nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", UsersCollection)
	defer timer.ObserveDuration()

	var user model.User
	filter := bson.M{"email": strings.ToLower(strings.TrimSpace(email))}
	if err := r.MongoCollection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	timer := utils.TrackDBOperation("find", UsersCollection)
	defer timer.ObserveDuration()

	var user model.User
	if err := r.MongoCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// UpdateProfile sets only the fields present in upd and returns the result.
func (r *UserRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd model.ProfileUpdate) (*model.User, error) {
	timer := utils.TrackDBOperation("update", UsersCollection)
	defer timer.ObserveDuration()

	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.ThemePreference != nil {
		set["theme_preference"] = *upd.ThemePreference
	}
	if upd.CurrentFocus != nil {
		set["current_focus"] = *upd.CurrentFocus
	}
	if upd.Settings != nil {
		set["settings"] = *upd.Settings
	}
	if upd.IsOnboarded != nil {
		set["is_onboarded"] = *upd.IsOnboarded
	}

	var user model.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.MongoCollection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *UserRepo) SetPIN(ctx context.Context, id primitive.ObjectID, pinHash string) error {
	timer := utils.TrackDBOperation("update", UsersCollection)
	defer timer.ObserveDuration()

	update := bson.M{"$set": bson.M{"privacy_pin": pinHash, "updated_at": time.Now().UTC()}}
	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		utils.TrackError("database", "pin_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddCategory appends name unless the user already has it under any casing.
// The check and the write are one conditional update.
func (r *UserRepo) AddCategory(ctx context.Context, id primitive.ObjectID, name string) error {
	timer := utils.TrackDBOperation("update", UsersCollection)
	defer timer.ObserveDuration()

	filter := bson.M{"_id": id, "shorts_categories": bson.M{"$ne": name}}
	update := bson.M{
		"$push": bson.M{"shorts_categories": name},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	result, err := r.MongoCollection.UpdateOne(ctx, filter, update, options.Update().SetCollation(caseInsensitive))
	if err != nil {
		utils.TrackError("database", "category_add_failed")
		return err
	}
	if result.MatchedCount > 0 {
		return nil
	}

	n, err := r.MongoCollection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrDuplicate
}

// RemoveCategory pulls the exact name from the user's list.
func (r *UserRepo) RemoveCategory(ctx context.Context, id primitive.ObjectID, name string) error {
	timer := utils.TrackDBOperation("update", UsersCollection)
	defer timer.ObserveDuration()

	update := bson.M{
		"$pull": bson.M{"shorts_categories": name},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		utils.TrackError("database", "category_remove_failed")
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
