package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ShortSource string
type ShortStatus string

const (
	SourceUser ShortSource = "user"
	SourceAI   ShortSource = "ai"

	StatusActive    ShortStatus = "active"
	StatusCompleted ShortStatus = "completed"
	StatusArchived  ShortStatus = "archived"
)

func (s ShortStatus) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

type Milestone struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	IsCompleted bool               `bson:"is_completed" json:"is_completed"`
	CompletedAt *time.Time         `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

type Short struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Category      Category            `bson:"type" json:"type"`
	Content       string              `bson:"content" json:"content"`
	Source        ShortSource         `bson:"source" json:"source"`
	Status        ShortStatus         `bson:"status" json:"status"`
	SourceEntryID *primitive.ObjectID `bson:"source_entry_id,omitempty" json:"source_entry_id,omitempty"`
	Milestones    []Milestone         `bson:"milestones" json:"milestones"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `bson:"updated_at" json:"updated_at"`
}

// MilestoneInput is a milestone as submitted by a client. ID is empty for
// milestones the client has just added.
type MilestoneInput struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"is_completed"`
}

// NewMilestones builds fresh, incomplete milestones from titles.
func NewMilestones(titles []string) []Milestone {
	out := make([]Milestone, 0, len(titles))
	for _, title := range titles {
		if title == "" {
			continue
		}
		out = append(out, Milestone{ID: primitive.NewObjectID(), Title: title})
	}
	return out
}

// ApplyMilestoneUpdates replaces the milestone list with incoming while keeping
// CompletedAt consistent with IsCompleted. A completion time is stamped only on
// the false->true edge and cleared on true->false; resubmitting a completed
// milestone keeps its original stamp.
func ApplyMilestoneUpdates(existing []Milestone, incoming []MilestoneInput, now time.Time) []Milestone {
	byID := make(map[primitive.ObjectID]Milestone, len(existing))
	for _, m := range existing {
		byID[m.ID] = m
	}

	out := make([]Milestone, 0, len(incoming))
	for _, in := range incoming {
		id, err := primitive.ObjectIDFromHex(in.ID)
		if err != nil {
			id = primitive.NewObjectID()
		}
		prev, known := byID[id]

		m := Milestone{ID: id, Title: in.Title, IsCompleted: in.IsCompleted}
		switch {
		case !in.IsCompleted:
			m.CompletedAt = nil
		case known && prev.IsCompleted && prev.CompletedAt != nil:
			m.CompletedAt = prev.CompletedAt
		default:
			stamp := now
			m.CompletedAt = &stamp
		}
		out = append(out, m)
	}
	return out
}
