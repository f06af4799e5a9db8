package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"myarc/logger"
	"myarc/utils"
)

// EmbeddingClient is the vendor side of the embedder.
type EmbeddingClient interface {
	Configured() bool
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingCache stores vectors by content key. Misses and cache errors are
// indistinguishable to the embedder.
type EmbeddingCache interface {
	Get(ctx context.Context, key string) ([]float32, bool)
	Set(ctx context.Context, key string, vector []float32)
}

type Embedder struct {
	client     EmbeddingClient
	cache      EmbeddingCache
	charBudget int
	dimensions int
	log        *logger.Logger
}

// NewEmbedder wires the vendor client. cache may be nil. dimensions <= 0
// disables the length check.
func NewEmbedder(client EmbeddingClient, cache EmbeddingCache, charBudget, dimensions int, log *logger.Logger) *Embedder {
	return &Embedder{
		client:     client,
		cache:      cache,
		charBudget: charBudget,
		dimensions: dimensions,
		log:        log.With("component", "embedder"),
	}
}

func (e *Embedder) Configured() bool {
	return e != nil && e.client != nil && e.client.Configured()
}

// Embed vectorizes text. It never returns an error: a missing key yields
// Unavailable, a vendor failure yields Failed, both logged. There is no retry.
func (e *Embedder) Embed(ctx context.Context, text string) Result[[]float32] {
	if !e.Configured() {
		utils.TrackAICall("embed", string(OutcomeUnavailable))
		return Unavailable[[]float32](ErrNotConfigured)
	}

	input := Truncate(Sanitize(strings.TrimSpace(text)), e.charBudget)
	if input == "" {
		utils.TrackAICall("embed", string(OutcomeUnavailable))
		return Unavailable[[]float32](errors.New("nothing to embed"))
	}

	key := e.cacheKey(input)
	if e.cache != nil {
		if vec, ok := e.cache.Get(ctx, key); ok && e.validLength(vec) {
			utils.TrackAICall("embed", "cache_hit")
			return OK(vec)
		}
	}

	vec, err := e.client.Embed(ctx, input)
	if err == nil && len(vec) == 0 {
		err = errors.New("empty embedding returned")
	}
	if err == nil && !e.validLength(vec) {
		err = fmt.Errorf("embedding has %d dimensions, want %d", len(vec), e.dimensions)
	}
	if err != nil {
		e.log.Warn("embedding failed", "error", err)
		utils.TrackAICall("embed", string(OutcomeError))
		return Failed[[]float32](err)
	}

	if e.cache != nil {
		e.cache.Set(ctx, key, vec)
	}
	utils.TrackAICall("embed", string(OutcomeOK))
	return OK(vec)
}

func (e *Embedder) validLength(vec []float32) bool {
	return e.dimensions <= 0 || len(vec) == e.dimensions
}

func (e *Embedder) cacheKey(input string) string {
	sum := sha256.Sum256([]byte(input))
	return "embedding:" + strconv.Itoa(e.dimensions) + ":" + hex.EncodeToString(sum[:])
}
