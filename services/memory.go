package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"myarc/analysis"
	"myarc/config"
)

// MemoryClient syncs entries to the mem0 long-term memory API and searches
// it back. Without an API key every call is a no-op.
type MemoryClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type memoryHTTPError struct {
	StatusCode int
	Body       string
}

func (e *memoryHTTPError) Error() string {
	return fmt.Sprintf("mem0 http %d: %s", e.StatusCode, e.Body)
}

type memoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type memoryAddRequest struct {
	Messages []memoryMessage `json:"messages"`
	UserID   string          `json:"user_id"`
}

type memorySearchRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
	Limit  int    `json:"limit,omitempty"`
}

type memoryItem struct {
	ID     string  `json:"id"`
	Memory string  `json:"memory"`
	Score  float64 `json:"score"`
}

func NewMemoryClient(cfg config.MemoryConfig, timeout time.Duration) *MemoryClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MemoryClient{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (m *MemoryClient) Configured() bool {
	return m != nil && m.apiKey != "" && m.baseURL != ""
}

// Add stores text as a user message in the user's memory.
func (m *MemoryClient) Add(ctx context.Context, userID, text string) error {
	if !m.Configured() {
		return nil
	}
	text = analysis.Sanitize(analysis.StripMarkup(text))
	if text == "" {
		return nil
	}
	body := memoryAddRequest{
		Messages: []memoryMessage{{Role: "user", Content: text}},
		UserID:   userID,
	}
	_, err := m.do(ctx, "/v1/memories/", body)
	return err
}

// Search returns the memory texts most relevant to query, best first.
func (m *MemoryClient) Search(ctx context.Context, userID, query string, limit int) ([]string, error) {
	if !m.Configured() {
		return nil, nil
	}
	query = analysis.Sanitize(query)
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	raw, err := m.do(ctx, "/v1/memories/search/", memorySearchRequest{Query: query, UserID: userID, Limit: limit})
	if err != nil {
		return nil, err
	}
	items, err := decodeMemoryItems(raw)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(items))
	for _, it := range items {
		if text := strings.TrimSpace(it.Memory); text != "" {
			out = append(out, text)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// decodeMemoryItems accepts both the bare list and the {"results": [...]}
// envelope the API returns depending on version.
func decodeMemoryItems(raw []byte) ([]memoryItem, error) {
	var items []memoryItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	var wrapped struct {
		Results []memoryItem `json:"results"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("mem0 decode error: %w", err)
	}
	return wrapped.Results, nil
}

func (m *MemoryClient) do(ctx context.Context, path string, body any) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &memoryHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if len(raw) == 0 {
		return nil, errors.New("mem0 returned an empty body")
	}
	return raw, nil
}
