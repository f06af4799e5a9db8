package testutils

import (
	"context"
	"sync"
	"time"

	"myarc/model"
	"myarc/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type arcKey struct {
	user primitive.ObjectID
	day  string
}

// DailyArcStore is an in-memory stand-in for repository.DailyArcRepo. Bump
// holds the lock across read-modify-write, matching the atomic upsert.
type DailyArcStore struct {
	mu   sync.Mutex
	arcs map[arcKey]model.DailyArc

	Fail error
}

func NewDailyArcStore() *DailyArcStore {
	return &DailyArcStore{arcs: make(map[arcKey]model.DailyArc)}
}

func (s *DailyArcStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.arcs)
}

func (s *DailyArcStore) Bump(_ context.Context, userID primitive.ObjectID, day string, date time.Time, action string, increment int) (*model.DailyArc, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := arcKey{userID, day}
	now := time.Now().UTC()
	arc, ok := s.arcs[key]
	if !ok {
		arc = model.DailyArc{
			ID:        primitive.NewObjectID(),
			UserID:    userID,
			Day:       day,
			Date:      date,
			CreatedAt: now,
		}
	}
	if action != "" {
		arc.SuggestedAction = action
	}
	arc.MomentumScore += increment
	arc.UpdatedAt = now
	s.arcs[key] = arc
	return &arc, nil
}

func (s *DailyArcStore) FindForDay(_ context.Context, userID primitive.ObjectID, day string) (*model.DailyArc, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	arc, ok := s.arcs[arcKey{userID, day}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &arc, nil
}
