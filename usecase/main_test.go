package usecase

import (
	"bytes"
	"testing"
	"time"

	"myarc/analysis"
	"myarc/logger"
	"myarc/model"
	"myarc/services"
	"myarc/testutils"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testKey = bytes.Repeat([]byte{7}, 32)

// harness wires EntryService and SearchService to in-memory stores and
// scripted vendors.
type harness struct {
	entries *testutils.EntryStore
	shorts  *testutils.ShortStore
	arcs    *testutils.DailyArcStore
	gen     *testutils.Generator
	embed   *testutils.EmbeddingClient
	memory  *testutils.Memory
	cipher  *services.Encryptor
	clock   testutils.FixedTime
	svc     *EntryService
	search  *SearchService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cipher, err := services.NewEncryptor(testKey)
	require.NoError(t, err)

	h := &harness{
		entries: testutils.NewEntryStore(),
		shorts:  testutils.NewShortStore(),
		arcs:    testutils.NewDailyArcStore(),
		gen:     &testutils.Generator{},
		embed:   &testutils.EmbeddingClient{Vector: []float32{1, 0, 0}},
		memory:  &testutils.Memory{},
		cipher:  cipher,
		clock:   testutils.FixedTime{Fixed: time.Date(2026, 3, 4, 22, 30, 0, 0, time.UTC)},
	}

	log := logger.Nop()
	embedder := analysis.NewEmbedder(h.embed, nil, 8000, 0, log)
	assembler := analysis.NewContextAssembler(h.entries, h.shorts, h.memory, cipher,
		analysis.ContextOptions{Threshold: 0.35, TopK: 5, MemoryLimit: 3}, log)

	h.svc = &EntryService{
		Entries:  h.entries,
		Shorts:   h.shorts,
		Arcs:     h.arcs,
		Embedder: embedder,
		Context:  assembler,
		Engine:   analysis.NewEngine(h.gen, log),
		Memory:   h.memory,
		Cipher:   cipher,
		Location: time.UTC,
		Log:      log,
		Now:      h.clock.Now,
	}
	h.search = &SearchService{
		Entries:   h.entries,
		Embedder:  embedder,
		Cipher:    cipher,
		Threshold: 0.55,
		Log:       log,
	}
	return h
}

// seedEmbedded stores a plaintext entry that already has a vector.
func (h *harness) seedEmbedded(userID primitive.ObjectID, title string, vec []float32, age time.Duration) *model.Entry {
	return h.entries.Put(&model.Entry{
		UserID:    userID,
		Title:     title,
		Content:   "<p>" + title + " body</p>",
		Preview:   title + " body",
		Tags:      []string{},
		Date:      h.clock.Fixed.Add(-age),
		Embedding: vec,
	})
}
