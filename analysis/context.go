package analysis

import (
	"context"
	"strings"
	"time"

	"myarc/logger"
	"myarc/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const excerptLength = 500

// EntrySource lists a user's embedded entries, excluding one id.
type EntrySource interface {
	FindSimilarCandidates(ctx context.Context, userID, excludeID primitive.ObjectID) ([]*model.Entry, error)
}

// HabitSource lists the habits a user is currently tracking.
type HabitSource interface {
	ActiveHabits(ctx context.Context, userID primitive.ObjectID) ([]*model.Short, error)
}

// MemorySearcher is the optional long-term-memory vendor.
type MemorySearcher interface {
	Configured() bool
	Search(ctx context.Context, userID, query string, limit int) ([]string, error)
}

type Decrypter interface {
	Decrypt(ciphertext string) (string, error)
}

type SimilarEntry struct {
	ID      primitive.ObjectID `json:"id"`
	Title   string             `json:"title"`
	Date    time.Time          `json:"date"`
	Excerpt string             `json:"excerpt"`
	Score   float64            `json:"score"`
}

// ContextBundle grounds the analysis prompt.
type ContextBundle struct {
	SimilarEntries []SimilarEntry
	Habits         []string
	Memories       []string
}

type ContextAssembler struct {
	entries     EntrySource
	habits      HabitSource
	memory      MemorySearcher
	decrypter   Decrypter
	threshold   float64
	topK        int
	memoryLimit int
	log         *logger.Logger
}

type ContextOptions struct {
	Threshold   float64
	TopK        int
	MemoryLimit int
}

func NewContextAssembler(entries EntrySource, habits HabitSource, memory MemorySearcher, decrypter Decrypter, opts ContextOptions, log *logger.Logger) *ContextAssembler {
	return &ContextAssembler{
		entries:     entries,
		habits:      habits,
		memory:      memory,
		decrypter:   decrypter,
		threshold:   opts.Threshold,
		topK:        opts.TopK,
		memoryLimit: opts.MemoryLimit,
		log:         log.With("component", "context"),
	}
}

// Assemble gathers up to topK past entries similar to vector plus the user's
// active habits. query, when set, is used to pull long-term memories.
// A store failure fails the whole bundle; a memory failure only drops memories.
func (a *ContextAssembler) Assemble(ctx context.Context, userID, excludeID primitive.ObjectID, vector []float32, query string) Result[*ContextBundle] {
	bundle := &ContextBundle{}

	if len(vector) > 0 {
		candidates, err := a.entries.FindSimilarCandidates(ctx, userID, excludeID)
		if err != nil {
			a.log.Warn("loading context candidates failed", "error", err)
			return Failed[*ContextBundle](err)
		}
		ranked := Rank(vector, candidates, func(e *model.Entry) []float32 { return e.Embedding }, a.threshold)
		if len(ranked) > a.topK {
			ranked = ranked[:a.topK]
		}
		for _, r := range ranked {
			bundle.SimilarEntries = append(bundle.SimilarEntries, SimilarEntry{
				ID:      r.Item.ID,
				Title:   r.Item.Title,
				Date:    r.Item.Date,
				Excerpt: a.excerpt(r.Item),
				Score:   r.Score,
			})
		}
	}

	habits, err := a.habits.ActiveHabits(ctx, userID)
	if err != nil {
		a.log.Warn("loading active habits failed", "error", err)
		return Failed[*ContextBundle](err)
	}
	for _, h := range habits {
		if content := strings.TrimSpace(h.Content); content != "" {
			bundle.Habits = append(bundle.Habits, content)
		}
	}

	bundle.Memories = a.memories(ctx, userID, query)
	return OK(bundle)
}

func (a *ContextAssembler) excerpt(e *model.Entry) string {
	content := e.Content
	if e.IsEncrypted && a.decrypter != nil {
		plain, err := a.decrypter.Decrypt(content)
		if err != nil {
			a.log.Warn("decrypting context entry failed", "entry", e.ID.Hex(), "error", err)
			return Truncate(Sanitize(e.Preview), excerptLength)
		}
		content = plain
	}
	return Truncate(Sanitize(StripMarkup(content)), excerptLength)
}

func (a *ContextAssembler) memories(ctx context.Context, userID primitive.ObjectID, query string) []string {
	if a.memory == nil || !a.memory.Configured() || strings.TrimSpace(query) == "" || a.memoryLimit <= 0 {
		return nil
	}
	found, err := a.memory.Search(ctx, userID.Hex(), Truncate(Sanitize(StripMarkup(query)), excerptLength), a.memoryLimit)
	if err != nil {
		a.log.Warn("memory search failed", "error", err)
		return nil
	}
	if len(found) > a.memoryLimit {
		found = found[:a.memoryLimit]
	}
	return found
}
