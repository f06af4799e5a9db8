package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"myarc/logger"
	"myarc/model"
	"myarc/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func titles(entries []*model.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Title)
	}
	return out
}

func TestSearch_ListsByDateWithTagFilter(t *testing.T) {
	h := newHarness(t)
	userID := primitive.NewObjectID()
	for i, tag := range []string{"work", "home", "work"} {
		h.entries.Put(&model.Entry{
			UserID: userID,
			Title:  []string{"oldest", "middle", "newest"}[i],
			Tags:   []string{tag},
			Date:   h.clock.Fixed.Add(time.Duration(i) * time.Hour),
		})
	}

	page, err := h.search.Search(context.Background(), SearchOptions{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "middle", "oldest"}, titles(page.Entries))
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, DefaultPageSize, page.PageSize)
	assert.False(t, page.HasMore)

	page, err = h.search.Search(context.Background(), SearchOptions{UserID: userID, Tag: "work", PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"newest"}, titles(page.Entries))
	assert.EqualValues(t, 2, page.Total)
	assert.True(t, page.HasMore)
}

func TestSearch_PageSizeIsCapped(t *testing.T) {
	h := newHarness(t)
	page, err := h.search.Search(context.Background(), SearchOptions{UserID: primitive.NewObjectID(), PageSize: 1000, Page: -3})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, page.PageSize)
	assert.Equal(t, 1, page.Page)
	assert.Empty(t, page.Entries)
}

func TestSearch_SemanticThenTextual(t *testing.T) {
	h := newHarness(t)
	userID := primitive.NewObjectID()
	h.embed.Vector = []float32{1, 0, 0}

	h.seedEmbedded(userID, "close match", []float32{0.95, 0.05, 0}, time.Hour)
	h.seedEmbedded(userID, "exact match", []float32{1, 0, 0}, 2*time.Hour)
	h.seedEmbedded(userID, "unrelated", []float32{0, 1, 0}, 3*time.Hour)
	h.entries.Put(&model.Entry{UserID: userID, Title: "Beach trip", Preview: "we went to the beach", Date: h.clock.Fixed})
	h.entries.Put(&model.Entry{UserID: userID, Title: "Office", Preview: "spreadsheets", Date: h.clock.Fixed})

	page, err := h.search.Search(context.Background(), SearchOptions{UserID: userID, Query: "beach"})
	require.NoError(t, err)
	assert.Equal(t, []string{"exact match", "close match", "Beach trip"}, titles(page.Entries))
	assert.EqualValues(t, 3, page.Total)
	for _, e := range page.Entries {
		assert.Nil(t, e.Embedding)
	}

	page, err = h.search.Search(context.Background(), SearchOptions{UserID: userID, Query: "beach", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Beach trip"}, titles(page.Entries))
	assert.False(t, page.HasMore)

	page, err = h.search.Search(context.Background(), SearchOptions{UserID: userID, Query: "beach", Page: 5, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Entries)
	assert.EqualValues(t, 3, page.Total)
}

func TestSearch_FallsBackToTextWhenEmbeddingFails(t *testing.T) {
	h := newHarness(t)
	userID := primitive.NewObjectID()
	h.embed.Err = errors.New("vendor down")

	h.seedEmbedded(userID, "Beach day", []float32{1, 0, 0}, time.Hour)
	h.entries.Put(&model.Entry{UserID: userID, Title: "Mountains", Tags: []string{"beach-prep"}, Date: h.clock.Fixed})
	h.entries.Put(&model.Entry{UserID: userID, Title: "Office", Date: h.clock.Fixed})

	page, err := h.search.Search(context.Background(), SearchOptions{UserID: userID, Query: "BEACH"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mountains", "Beach day"}, titles(page.Entries))
}

func TestSearch_QueryIsLiteral(t *testing.T) {
	h := newHarness(t)
	userID := primitive.NewObjectID()
	h.embed.Disabled = true
	h.entries.Put(&model.Entry{UserID: userID, Title: "a.b", Date: h.clock.Fixed})
	h.entries.Put(&model.Entry{UserID: userID, Title: "axb", Date: h.clock.Fixed})

	page, err := h.search.Search(context.Background(), SearchOptions{UserID: userID, Query: "a.b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.b"}, titles(page.Entries))
}

func TestSearch_DecryptsContent(t *testing.T) {
	h := newHarness(t)
	userID := primitive.NewObjectID()
	sealed, err := h.cipher.Encrypt("<p>secret diary</p>")
	require.NoError(t, err)
	h.entries.Put(&model.Entry{UserID: userID, Title: "Locked", Content: sealed, IsEncrypted: true, Preview: "secret diary", Date: h.clock.Fixed})
	h.entries.Put(&model.Entry{UserID: userID, Title: "Broken", Content: "zz:zz", IsEncrypted: true, Preview: "fallback preview", Date: h.clock.Fixed.Add(-time.Hour)})

	page, err := h.search.Search(context.Background(), SearchOptions{UserID: userID})
	require.NoError(t, err)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, "<p>secret diary</p>", page.Entries[0].Content)
	assert.Equal(t, "fallback preview", page.Entries[1].Content)

	stored, _ := h.entries.Get(page.Entries[0].ID)
	assert.Equal(t, sealed, stored.Content)
}

// shortPageStore returns one entry fewer than each requested page.
type shortPageStore struct {
	*testutils.EntryStore
}

func (s shortPageStore) FindPage(ctx context.Context, userID primitive.ObjectID, tag string, skip, limit int64) ([]*model.Entry, int64, error) {
	entries, total, err := s.EntryStore.FindPage(ctx, userID, tag, skip, limit)
	if len(entries) > 0 {
		entries = entries[:len(entries)-1]
	}
	return entries, total, err
}

func TestSearch_HasMoreCountsReturnedEntries(t *testing.T) {
	h := newHarness(t)
	userID := primitive.NewObjectID()
	for i := 0; i < 4; i++ {
		h.entries.Put(&model.Entry{UserID: userID, Title: "entry", Date: h.clock.Fixed.Add(time.Duration(i) * time.Hour)})
	}
	search := &SearchService{Entries: shortPageStore{h.entries}, Cipher: h.cipher, Log: logger.Nop()}

	page, err := search.Search(context.Background(), SearchOptions{UserID: userID, Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Entries, 1)
	assert.EqualValues(t, 4, page.Total)
	assert.True(t, page.HasMore)
}
