package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Entry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title       string             `bson:"title" json:"title"`
	Content     string             `bson:"content" json:"content"`
	IsEncrypted bool               `bson:"is_encrypted" json:"-"`
	Preview     string             `bson:"preview" json:"preview"`
	Tags        []string           `bson:"tags" json:"tags"`
	Date        time.Time          `bson:"date" json:"date"`
	Sentiment   string             `bson:"sentiment,omitempty" json:"sentiment,omitempty"`
	Embedding   []float32          `bson:"embedding,omitempty" json:"embedding,omitempty"`
	AIAnalysis  map[string]any     `bson:"ai_analysis,omitempty" json:"ai_analysis,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// HasEmbedding reports whether the entry has been indexed for vector search.
func (e *Entry) HasEmbedding() bool {
	return len(e.Embedding) > 0
}

// EntryEnrichment holds the fields written once after analysis.
type EntryEnrichment struct {
	Embedding  []float32
	Sentiment  string
	Tags       []string
	AIAnalysis map[string]any
}

// MergeTags returns the union of both tag lists, order preserved, blanks and
// case-insensitive duplicates dropped.
func MergeTags(lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, list := range lists {
		for _, tag := range list {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			key := strings.ToLower(tag)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}
