package handler

import (
	"net/http"
	"testing"
	"time"

	"myarc/analysis"
	"myarc/dto"
	"myarc/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateEntryHandler(t *testing.T) {
	tests := []struct {
		name         string
		body         map[string]any
		expectedCode int
		expectedErr  string
	}{
		{
			name:         "Stored Without Analysis",
			body:         map[string]any{"title": "Morning", "content": "Slept well and woke early.", "tags": []string{"sleep"}},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "Missing Title",
			body:         map[string]any{"content": "Slept well."},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Blank Title",
			body:         map[string]any{"title": "   ", "content": "Slept well."},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "title is required",
		},
		{
			name:         "Markup Only Content",
			body:         map[string]any{"title": "Empty", "content": "<p></p>"},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "content is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			_, token := s.login(t, "ada@example.com")

			w := s.do(t, http.MethodPost, "/api/entries", tt.body, token)
			assert.Equal(t, tt.expectedCode, w.Code, w.Body.String())

			if tt.expectedErr != "" {
				assert.Equal(t, tt.expectedErr, decode(t, w, nil).Error)
			}
			if tt.expectedCode != http.StatusCreated {
				assert.Equal(t, 0, s.entries.Len())
				return
			}

			var entry dto.EntryResponse
			decode(t, w, &entry)
			assert.Equal(t, "Morning", entry.Title)
			assert.Equal(t, "Slept well and woke early.", entry.Content)
			assert.Equal(t, "Slept well and woke early.", entry.Preview)
			assert.Equal(t, []string{"sleep"}, entry.Tags)
			assert.Empty(t, entry.Sentiment)
			assert.Contains(t, entry.Links, "delete")
			assert.Equal(t, 1, s.entries.Len())
			assert.Equal(t, 0, s.arcs.Len(), "no momentum without a successful analysis")
		})
	}
}

func TestSearchEntriesHandler(t *testing.T) {
	s := newTestServer(t)
	user, token := s.login(t, "ada@example.com")
	other := s.users.Seed("other@example.com")

	now := time.Now().UTC()
	for i, tag := range []string{"work", "sleep", "work"} {
		s.entries.Put(&model.Entry{
			UserID:  user.ID,
			Title:   "Entry",
			Content: "body",
			Preview: "body",
			Tags:    []string{tag},
			Date:    now.Add(-time.Duration(i) * time.Hour),
		})
	}
	s.entries.Put(&model.Entry{UserID: other.ID, Title: "Private", Content: "x", Date: now})

	t.Run("First Page", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/entries?page=1&page_size=2", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var page dto.EntriesPageResponse
		decode(t, w, &page)
		assert.Len(t, page.Entries, 2)
		assert.EqualValues(t, 3, page.TotalCount)
		assert.True(t, page.HasMore)
		assert.Equal(t, 1, page.CurrentPage)
	})

	t.Run("Tag Filter", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/entries?tag=work", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var page dto.EntriesPageResponse
		decode(t, w, &page)
		assert.Len(t, page.Entries, 2)
		assert.False(t, page.HasMore)
		for _, e := range page.Entries {
			assert.Equal(t, []string{"work"}, e.Tags)
		}
	})

	t.Run("Text Fallback When Embeddings Are Unavailable", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/entries?q=private", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var page dto.EntriesPageResponse
		decode(t, w, &page)
		assert.Empty(t, page.Entries, "other users' entries never leak")
	})
}

func TestDeleteEntryHandler(t *testing.T) {
	s := newTestServer(t)
	user, token := s.login(t, "ada@example.com")
	entry := s.entries.Put(&model.Entry{UserID: user.ID, Title: "Gone", Content: "soon", Date: time.Now()})

	w := s.do(t, http.MethodDelete, "/api/entries/not-an-id", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodDelete, "/api/entries/"+primitive.NewObjectID().Hex(), nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/api/entries/"+entry.ID.Hex(), nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, s.entries.Len())
}

func TestGetTagsAndPromptHandlers(t *testing.T) {
	s := newTestServer(t)
	user, token := s.login(t, "ada@example.com")
	s.entries.Put(&model.Entry{UserID: user.ID, Title: "A", Tags: []string{"work", "sleep"}, Date: time.Now()})

	w := s.do(t, http.MethodGet, "/api/entries/tags", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var tags struct {
		Tags []string `json:"tags"`
	}
	decode(t, w, &tags)
	assert.ElementsMatch(t, []string{"work", "sleep"}, tags.Tags)

	w = s.do(t, http.MethodGet, "/api/entries/prompt", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var prompt struct {
		Prompt string `json:"prompt"`
	}
	decode(t, w, &prompt)
	assert.Equal(t, analysis.DefaultReflectionPrompt, prompt.Prompt)
}
