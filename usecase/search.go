package usecase

import (
	"context"
	"strings"

	"myarc/analysis"
	"myarc/logger"
	"myarc/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type SearchService struct {
	Entries   EntryStore
	Embedder  Embedder
	Cipher    Cipher
	Threshold float64
	Log       *logger.Logger
}

type SearchOptions struct {
	UserID   primitive.ObjectID
	Query    string
	Tag      string
	Page     int
	PageSize int
}

type SearchPage struct {
	Entries  []*model.Entry `json:"entries"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	HasMore  bool           `json:"has_more"`
}

func (o *SearchOptions) normalize() {
	o.Query = strings.TrimSpace(o.Query)
	o.Tag = strings.TrimSpace(o.Tag)
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize < 1 {
		o.PageSize = DefaultPageSize
	}
	if o.PageSize > MaxPageSize {
		o.PageSize = MaxPageSize
	}
}

// Search lists a user's entries. Without a query it pages by date, optionally
// filtered by tag. With a query it ranks embedded entries by similarity and
// appends literal text matches from entries that have no embedding yet; when
// the query cannot be embedded it falls back to text matching alone.
func (s *SearchService) Search(ctx context.Context, opts SearchOptions) (*SearchPage, error) {
	opts.normalize()
	skip := int64((opts.Page - 1) * opts.PageSize)
	limit := int64(opts.PageSize)

	if opts.Query == "" {
		entries, total, err := s.Entries.FindPage(ctx, opts.UserID, opts.Tag, skip, limit)
		if err != nil {
			return nil, storeErr("list entries", err)
		}
		return s.page(entries, total, skip, opts), nil
	}

	res := s.Embedder.Embed(ctx, opts.Query)
	if !res.Ok() {
		s.Log.Warn("query embedding unavailable, using text search", "outcome", res.Outcome, "error", res.Err)
		entries, total, err := s.Entries.TextSearch(ctx, opts.UserID, opts.Query, false, skip, limit)
		if err != nil {
			return nil, storeErr("text search", err)
		}
		return s.page(entries, total, skip, opts), nil
	}

	merged, err := s.hybrid(ctx, opts.UserID, opts.Query, res.Value)
	if err != nil {
		return nil, err
	}
	total := int64(len(merged))
	if skip >= total {
		return s.page(nil, total, skip, opts), nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return s.page(merged[skip:end], total, skip, opts), nil
}

func (s *SearchService) hybrid(ctx context.Context, userID primitive.ObjectID, query string, vector []float32) ([]*model.Entry, error) {
	embedded, err := s.Entries.FindWithEmbeddings(ctx, userID)
	if err != nil {
		return nil, storeErr("load embedded entries", err)
	}
	ranked := analysis.Rank(vector, embedded, func(e *model.Entry) []float32 { return e.Embedding }, s.Threshold)

	textual, _, err := s.Entries.TextSearch(ctx, userID, query, true, 0, 0)
	if err != nil {
		return nil, storeErr("text search", err)
	}

	seen := make(map[primitive.ObjectID]struct{}, len(ranked)+len(textual))
	out := make([]*model.Entry, 0, len(ranked)+len(textual))
	for _, r := range ranked {
		seen[r.Item.ID] = struct{}{}
		out = append(out, r.Item)
	}
	for _, e := range textual {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out, nil
}

func (s *SearchService) page(entries []*model.Entry, total, skip int64, opts SearchOptions) *SearchPage {
	out := make([]*model.Entry, 0, len(entries))
	for _, e := range entries {
		view := *e
		view.Content = readable(s.Cipher, s.Log, e)
		view.Embedding = nil
		out = append(out, &view)
	}
	return &SearchPage{
		Entries:  out,
		Total:    total,
		Page:     opts.Page,
		PageSize: opts.PageSize,
		HasMore:  skip+int64(len(entries)) < total,
	}
}
