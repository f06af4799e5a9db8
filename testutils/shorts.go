package testutils

import (
	"context"
	"sort"
	"sync"
	"time"

	"myarc/model"
	"myarc/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShortStore is an in-memory stand-in for repository.ShortsRepo.
type ShortStore struct {
	mu     sync.Mutex
	shorts map[primitive.ObjectID]model.Short
	seq    int

	Fail error
}

func NewShortStore() *ShortStore {
	return &ShortStore{shorts: make(map[primitive.ObjectID]model.Short)}
}

// Put stores s without touching its timestamps.
func (s *ShortStore) Put(short *model.Short) *model.Short {
	s.mu.Lock()
	defer s.mu.Unlock()
	if short.ID.IsZero() {
		short.ID = primitive.NewObjectID()
	}
	if short.Milestones == nil {
		short.Milestones = []model.Milestone{}
	}
	s.shorts[short.ID] = *short
	return short
}

// All returns copies of every stored short of the user, newest first,
// archived included.
func (s *ShortStore) All(userID primitive.ObjectID) []*model.Short {
	return s.filter(userID, func(model.Short) bool { return true })
}

func (s *ShortStore) prepare(short *model.Short) {
	s.mu.Lock()
	s.seq++
	// Distinct creation times keep newest-first ordering deterministic.
	now := time.Now().UTC().Add(time.Duration(s.seq) * time.Millisecond)
	s.mu.Unlock()

	if short.Status == "" {
		short.Status = model.StatusActive
	}
	if short.Source == "" {
		short.Source = model.SourceUser
	}
	short.CreatedAt = now
	short.UpdatedAt = now
}

func (s *ShortStore) Create(_ context.Context, short *model.Short) error {
	if s.Fail != nil {
		return s.Fail
	}
	s.prepare(short)
	s.Put(short)
	return nil
}

func (s *ShortStore) CreateMany(ctx context.Context, shorts []*model.Short) error {
	if s.Fail != nil {
		return s.Fail
	}
	for _, short := range shorts {
		s.prepare(short)
		s.Put(short)
	}
	return nil
}

func (s *ShortStore) FindByID(_ context.Context, id, userID primitive.ObjectID) (*model.Short, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	short, ok := s.shorts[id]
	if !ok || short.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &short, nil
}

func (s *ShortStore) List(_ context.Context, userID primitive.ObjectID, category model.Category) ([]*model.Short, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	return s.filter(userID, func(sh model.Short) bool {
		if sh.Status == model.StatusArchived {
			return false
		}
		return category.IsZero() || sh.Category.String() == category.String()
	}), nil
}

func (s *ShortStore) Update(_ context.Context, short *model.Short) error {
	if s.Fail != nil {
		return s.Fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.shorts[short.ID]
	if !ok || stored.UserID != short.UserID {
		return repository.ErrNotFound
	}
	short.UpdatedAt = time.Now().UTC()
	s.shorts[short.ID] = *short
	return nil
}

func (s *ShortStore) Delete(_ context.Context, id, userID primitive.ObjectID) error {
	if s.Fail != nil {
		return s.Fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	short, ok := s.shorts[id]
	if !ok || short.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.shorts, id)
	return nil
}

func (s *ShortStore) DeleteByCategory(_ context.Context, userID primitive.ObjectID, category model.Category) (int64, error) {
	if s.Fail != nil {
		return 0, s.Fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, short := range s.shorts {
		if short.UserID == userID && short.Category.String() == category.String() {
			delete(s.shorts, id)
			n++
		}
	}
	return n, nil
}

func (s *ShortStore) ActiveHabits(_ context.Context, userID primitive.ObjectID) ([]*model.Short, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	return s.filter(userID, func(sh model.Short) bool {
		return sh.Category.IsHabit() && sh.Status == model.StatusActive
	}), nil
}

func (s *ShortStore) ActiveGoals(_ context.Context, userID primitive.ObjectID, limit int64) ([]*model.Short, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	goals := s.filter(userID, func(sh model.Short) bool {
		return sh.Category.IsGoal() && sh.Status == model.StatusActive
	})
	if limit > 0 && int64(len(goals)) > limit {
		goals = goals[:limit]
	}
	return goals, nil
}

func (s *ShortStore) CountCompletedGoalsBetween(_ context.Context, userID primitive.ObjectID, from, to time.Time) (int64, error) {
	if s.Fail != nil {
		return 0, s.Fail
	}
	goals := s.filter(userID, func(sh model.Short) bool {
		return sh.Category.IsGoal() && sh.Status == model.StatusCompleted && inRange(sh.UpdatedAt, from, to)
	})
	return int64(len(goals)), nil
}

func (s *ShortStore) GoalsWithCompletedMilestones(_ context.Context, userID primitive.ObjectID, from, to time.Time) ([]*model.Short, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	return s.filter(userID, func(sh model.Short) bool {
		if !sh.Category.IsGoal() {
			return false
		}
		for _, m := range sh.Milestones {
			if m.IsCompleted && m.CompletedAt != nil && inRange(*m.CompletedAt, from, to) {
				return true
			}
		}
		return false
	}), nil
}

func (s *ShortStore) CountCreatedBetween(_ context.Context, userID primitive.ObjectID, from, to time.Time) (int64, error) {
	if s.Fail != nil {
		return 0, s.Fail
	}
	created := s.filter(userID, func(sh model.Short) bool { return inRange(sh.CreatedAt, from, to) })
	return int64(len(created)), nil
}

func (s *ShortStore) filter(userID primitive.ObjectID, keep func(model.Short) bool) []*model.Short {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Short, 0)
	for _, sh := range s.shorts {
		if sh.UserID == userID && keep(sh) {
			sh := sh
			out = append(out, &sh)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	return out
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
