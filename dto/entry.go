package dto

import (
	"time"

	"myarc/model"
	"myarc/usecase"
)

type Link struct {
	Href   string `json:"href"`
	Method string `json:"method,omitempty"` // GET, POST, PUT, PATCH, DELETE
}

type CreateEntryRequest struct {
	Title   string   `json:"title" binding:"required,max=200"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags" binding:"max=20,dive,max=50"`
}

type EntryResponse struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Content    string          `json:"content"`
	Preview    string          `json:"preview"`
	Tags       []string        `json:"tags"`
	Date       time.Time       `json:"date"`
	Sentiment  string          `json:"sentiment,omitempty"`
	AIAnalysis map[string]any  `json:"ai_analysis,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	Links      map[string]Link `json:"_links,omitempty"`
}

type EntriesPageResponse struct {
	Entries     []EntryResponse `json:"entries"`
	TotalCount  int64           `json:"total_count"`
	PageCount   int64           `json:"page_count"`
	CurrentPage int             `json:"current_page"`
	PageSize    int             `json:"page_size"`
	HasMore     bool            `json:"has_more"`
}

func EntryLinks(baseURL string, e *model.Entry) map[string]Link {
	return map[string]Link{
		"delete": {Href: baseURL + "/entries/" + e.ID.Hex(), Method: "DELETE"},
	}
}

func ToEntryResponse(e *model.Entry, links map[string]Link) EntryResponse {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return EntryResponse{
		ID:         e.ID.Hex(),
		Title:      e.Title,
		Content:    e.Content,
		Preview:    e.Preview,
		Tags:       tags,
		Date:       e.Date,
		Sentiment:  e.Sentiment,
		AIAnalysis: e.AIAnalysis,
		CreatedAt:  e.CreatedAt,
		Links:      links,
	}
}

func NewEntriesPageResponse(page *usecase.SearchPage, baseURL string) *EntriesPageResponse {
	entries := make([]EntryResponse, len(page.Entries))
	for i, e := range page.Entries {
		entries[i] = ToEntryResponse(e, EntryLinks(baseURL, e))
	}
	var pageCount int64
	if page.PageSize > 0 {
		pageCount = (page.Total + int64(page.PageSize) - 1) / int64(page.PageSize)
	}
	return &EntriesPageResponse{
		Entries:     entries,
		TotalCount:  page.Total,
		PageCount:   pageCount,
		CurrentPage: page.Page,
		PageSize:    page.PageSize,
		HasMore:     page.HasMore,
	}
}
