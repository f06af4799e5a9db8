package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DailyArc is the one-per-day aggregate for a user. Day is the calendar day
// key (YYYY-MM-DD) in the deployment's timezone and is unique per user.
type DailyArc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID `bson:"user_id" json:"user_id"`
	Day              string             `bson:"day" json:"day"`
	Date             time.Time          `bson:"date" json:"date"`
	SuggestedAction  string             `bson:"suggested_action,omitempty" json:"suggested_action,omitempty"`
	MomentumScore    int                `bson:"momentum_score" json:"momentum_score"`
	CompletedActions []string           `bson:"completed_actions,omitempty" json:"completed_actions,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

const DayLayout = "2006-01-02"

// DayKey returns the calendar day of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayLayout)
}
