package analysis

import (
	"context"
	"errors"
	"strings"

	"myarc/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"google.golang.org/genai"
)

type fakeEmbeddingClient struct {
	configured bool
	vector     []float32
	err        error
	calls      []string
}

func (f *fakeEmbeddingClient) Configured() bool { return f.configured }

func (f *fakeEmbeddingClient) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls = append(f.calls, text)
	return f.vector, f.err
}

type mapCache struct {
	data map[string][]float32
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]float32{}} }

func (c *mapCache) Get(_ context.Context, key string) ([]float32, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key string, vector []float32) {
	c.data[key] = vector
}

type fakeEntrySource struct {
	entries []*model.Entry
	err     error
}

func (f *fakeEntrySource) FindSimilarCandidates(_ context.Context, userID, excludeID primitive.ObjectID) ([]*model.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.Entry
	for _, e := range f.entries {
		if e.UserID == userID && e.ID != excludeID && e.HasEmbedding() {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeHabitSource struct {
	habits []*model.Short
	err    error
}

func (f *fakeHabitSource) ActiveHabits(context.Context, primitive.ObjectID) ([]*model.Short, error) {
	return f.habits, f.err
}

type fakeMemory struct {
	configured bool
	results    []string
	err        error
	queries    []string
}

func (f *fakeMemory) Configured() bool { return f.configured }

func (f *fakeMemory) Search(_ context.Context, _ string, query string, _ int) ([]string, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

// prefixDecrypter treats "enc:" as the only ciphertext marker.
type prefixDecrypter struct{}

func (prefixDecrypter) Decrypt(s string) (string, error) {
	if !strings.HasPrefix(s, "enc:") {
		return "", errors.New("not encrypted")
	}
	return strings.TrimPrefix(s, "enc:"), nil
}

type fakeGenerator struct {
	configured bool
	response   string
	err        error
	prompts    []string
}

func (f *fakeGenerator) Configured() bool { return f.configured }

func (f *fakeGenerator) GenerateJSON(_ context.Context, prompt string, _ *genai.Schema) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}
