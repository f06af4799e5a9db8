package testutils

import (
	"context"
	"sync"
	"time"

	"google.golang.org/genai"
)

// Generator is a scripted analysis.Generator. Prompts records every prompt
// received, in order.
type Generator struct {
	mu       sync.Mutex
	Disabled bool
	JSON     string
	Text     string
	Err      error
	Prompts  []string
}

func (g *Generator) Configured() bool { return !g.Disabled }

func (g *Generator) GenerateJSON(_ context.Context, prompt string, _ *genai.Schema) (string, error) {
	g.record(prompt)
	return g.JSON, g.Err
}

func (g *Generator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.record(prompt)
	return g.Text, g.Err
}

func (g *Generator) record(prompt string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Prompts = append(g.Prompts, prompt)
}

func (g *Generator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Prompts)
}

// EmbeddingClient is a scripted analysis.EmbeddingClient. With no Func it
// returns Vector for every input.
type EmbeddingClient struct {
	Disabled bool
	Vector   []float32
	Func     func(text string) ([]float32, error)
	Err      error
}

func (c *EmbeddingClient) Configured() bool { return !c.Disabled }

func (c *EmbeddingClient) Embed(_ context.Context, text string) ([]float32, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	if c.Func != nil {
		return c.Func(text)
	}
	return c.Vector, nil
}

// Memory is a scripted long-term-memory client.
type Memory struct {
	mu       sync.Mutex
	Disabled bool
	Results  []string
	Err      error
	Added    []string
}

func (m *Memory) Configured() bool { return !m.Disabled }

func (m *Memory) Add(_ context.Context, _ string, text string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Added = append(m.Added, text)
	return nil
}

func (m *Memory) Search(_ context.Context, _ string, _ string, limit int) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if limit > 0 && len(m.Results) > limit {
		return m.Results[:limit], nil
	}
	return m.Results, nil
}

// Revoker records revoked tokens in memory.
type Revoker struct {
	mu       sync.Mutex
	Disabled bool
	Err      error
	Revoked  map[string]time.Time
}

func (r *Revoker) Configured() bool { return !r.Disabled }

func (r *Revoker) Blacklist(_ context.Context, token string, expiresAt time.Time) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Revoked == nil {
		r.Revoked = make(map[string]time.Time)
	}
	r.Revoked[token] = expiresAt
	return nil
}

func (r *Revoker) IsBlacklisted(_ context.Context, token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.Revoked[token]
	return ok
}

// FixedTime is a clock frozen at Fixed.
type FixedTime struct {
	Fixed time.Time
}

func (ft FixedTime) Now() time.Time {
	return ft.Fixed
}
