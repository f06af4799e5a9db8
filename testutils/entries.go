package testutils

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"myarc/model"
	"myarc/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntryStore is an in-memory stand-in for repository.EntriesRepo with the
// same ordering and not-found behaviour.
type EntryStore struct {
	mu      sync.Mutex
	entries map[primitive.ObjectID]model.Entry

	// Fail, when set, is returned by every call.
	Fail error
}

func NewEntryStore() *EntryStore {
	return &EntryStore{entries: make(map[primitive.ObjectID]model.Entry)}
}

// Put stores e as-is, for seeding fixtures.
func (s *EntryStore) Put(e *model.Entry) *model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	s.entries[e.ID] = *e
	return e
}

// Get returns a copy of the stored entry.
func (s *EntryStore) Get(id primitive.ObjectID) (model.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	return e, ok
}

func (s *EntryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *EntryStore) Create(_ context.Context, entry *model.Entry) error {
	if s.Fail != nil {
		return s.Fail
	}
	now := time.Now().UTC()
	if entry.Date.IsZero() {
		entry.Date = now
	}
	if entry.Tags == nil {
		entry.Tags = []string{}
	}
	entry.CreatedAt = now
	entry.UpdatedAt = now
	s.Put(entry)
	return nil
}

func (s *EntryStore) UpdateEnrichment(_ context.Context, id, userID primitive.ObjectID, e model.EntryEnrichment) error {
	if s.Fail != nil {
		return s.Fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok || entry.UserID != userID {
		return repository.ErrNotFound
	}
	if len(e.Embedding) > 0 {
		entry.Embedding = e.Embedding
	}
	if e.Sentiment != "" {
		entry.Sentiment = e.Sentiment
	}
	if e.Tags != nil {
		entry.Tags = e.Tags
	}
	if e.AIAnalysis != nil {
		entry.AIAnalysis = e.AIAnalysis
	}
	entry.UpdatedAt = time.Now().UTC()
	s.entries[id] = entry
	return nil
}

func (s *EntryStore) FindByID(_ context.Context, id, userID primitive.ObjectID) (*model.Entry, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok || entry.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &entry, nil
}

func (s *EntryStore) Delete(_ context.Context, id, userID primitive.ObjectID) error {
	if s.Fail != nil {
		return s.Fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok || entry.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *EntryStore) FindPage(_ context.Context, userID primitive.ObjectID, tag string, skip, limit int64) ([]*model.Entry, int64, error) {
	if s.Fail != nil {
		return nil, 0, s.Fail
	}
	matched := s.filter(userID, func(e model.Entry) bool {
		return tag == "" || contains(e.Tags, tag)
	})
	return page(withoutVectors(matched), skip, limit)
}

func (s *EntryStore) FindWithEmbeddings(_ context.Context, userID primitive.ObjectID) ([]*model.Entry, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	return s.filter(userID, func(e model.Entry) bool { return len(e.Embedding) > 0 }), nil
}

func (s *EntryStore) FindSimilarCandidates(_ context.Context, userID, excludeID primitive.ObjectID) ([]*model.Entry, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	return s.filter(userID, func(e model.Entry) bool {
		return len(e.Embedding) > 0 && e.ID != excludeID
	}), nil
}

func (s *EntryStore) TextSearch(_ context.Context, userID primitive.ObjectID, query string, withoutEmbeddingOnly bool, skip, limit int64) ([]*model.Entry, int64, error) {
	if s.Fail != nil {
		return nil, 0, s.Fail
	}
	q := strings.ToLower(query)
	matched := s.filter(userID, func(e model.Entry) bool {
		if withoutEmbeddingOnly && len(e.Embedding) > 0 {
			return false
		}
		if strings.Contains(strings.ToLower(e.Title), q) || strings.Contains(strings.ToLower(e.Preview), q) {
			return true
		}
		for _, t := range e.Tags {
			if strings.Contains(strings.ToLower(t), q) {
				return true
			}
		}
		return false
	})
	return page(withoutVectors(matched), skip, limit)
}

func (s *EntryStore) DistinctTags(_ context.Context, userID primitive.ObjectID) ([]string, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	seen := map[string]struct{}{}
	tags := make([]string, 0)
	for _, e := range s.filter(userID, func(model.Entry) bool { return true }) {
		for _, t := range e.Tags {
			if _, ok := seen[t]; ok || t == "" {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	sort.Strings(tags)
	return tags, nil
}

func (s *EntryStore) Latest(_ context.Context, userID primitive.ObjectID) (*model.Entry, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	all := s.filter(userID, func(model.Entry) bool { return true })
	if len(all) == 0 {
		return nil, repository.ErrNotFound
	}
	all[0].Embedding = nil
	return all[0], nil
}

func (s *EntryStore) CountBetween(_ context.Context, userID primitive.ObjectID, from, to time.Time) (int64, error) {
	if s.Fail != nil {
		return 0, s.Fail
	}
	n := s.filter(userID, func(e model.Entry) bool {
		return !e.Date.Before(from) && e.Date.Before(to)
	})
	return int64(len(n)), nil
}

// filter returns copies of the user's matching entries, newest first.
func (s *EntryStore) filter(userID primitive.ObjectID, keep func(model.Entry) bool) []*model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Entry, 0)
	for _, e := range s.entries {
		if e.UserID == userID && keep(e) {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	return out
}

func withoutVectors(entries []*model.Entry) []*model.Entry {
	for _, e := range entries {
		e.Embedding = nil
	}
	return entries
}

func page[T any](items []T, skip, limit int64) ([]T, int64, error) {
	total := int64(len(items))
	if skip >= total {
		return []T{}, total, nil
	}
	items = items[skip:]
	if limit > 0 && int64(len(items)) > limit {
		items = items[:limit]
	}
	return items, total, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
