package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"myarc/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bundleWith(similar int, habits ...string) *ContextBundle {
	b := &ContextBundle{Habits: habits}
	for i := 0; i < similar; i++ {
		b.SimilarEntries = append(b.SimilarEntries, SimilarEntry{
			Title:   "Run log",
			Date:    time.Date(2024, 4, i+1, 0, 0, 0, 0, time.UTC),
			Excerpt: "went for a run, want to do a marathon one day",
			Score:   0.8,
		})
	}
	return b
}

const marathonResponse = "```json\n" + `{
  "shorts": [
    {"type": "goal", "content": "Run a marathon", "milestones": ["Run 10k", "Run a half marathon", "Build to 30k", "Taper", "Race day"]},
    {"type": "habit", "content": "Morning run"},
    {"type": "habit", "content": "Stretch after runs"},
    {"type": "action", "content": "Buy shoes"}
  ],
  "dailyArc": {"suggestedAction": "  Jog for 20 minutes  "},
  "sentiment": "positive",
  "tags": ["running", "#fitness", "Running", "goals", "health", "energy", "morning"]
}` + "\n```"

func TestAnalyzeMarathonRecurrence(t *testing.T) {
	gen := &fakeGenerator{configured: true, response: marathonResponse}
	engine := NewEngine(gen, logger.Nop())

	res := engine.Analyze(context.Background(), "<p>Ran again today. Still dreaming of a marathon.</p>", bundleWith(3, "morning RUN"))

	require.True(t, res.Ok())
	a := res.Value
	require.Len(t, a.Shorts, 2)

	assert.Equal(t, ShortTypeGoal, a.Shorts[0].Type)
	assert.Equal(t, "Run a marathon", a.Shorts[0].Content)
	assert.Len(t, a.Shorts[0].Milestones, 4)

	assert.Equal(t, ShortTypeHabit, a.Shorts[1].Type)
	assert.Equal(t, "Stretch after runs", a.Shorts[1].Content)

	assert.Equal(t, "Jog for 20 minutes", a.DailyArc.SuggestedAction)
	assert.Equal(t, SentimentPositive, a.Sentiment)
	assert.Equal(t, []string{"running", "fitness", "goals", "health", "energy"}, a.Tags)
}

func TestAnalyzeRequiresEvidence(t *testing.T) {
	response := `{"shorts":[{"type":"habit","content":"Journal daily"},{"type":"goal","content":"Learn Spanish","milestones":["A1","A2"]}],
		"dailyArc":{"suggestedAction":"Write one line"},"sentiment":"Neutral","tags":["journal"]}`

	tests := []struct {
		name    string
		similar int
		want    []string
	}{
		{"no history", 0, nil},
		{"one past entry allows habits", 1, []string{"Journal daily"}},
		{"two past entries allow goals", 2, []string{"Journal daily", "Learn Spanish"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(&fakeGenerator{configured: true, response: response}, logger.Nop())
			res := engine.Analyze(context.Background(), "Wrote in my journal again", bundleWith(tt.similar))
			require.True(t, res.Ok())

			var got []string
			for _, s := range res.Value.Shorts {
				got = append(got, s.Content)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyzeDropsGoalsWithTooFewMilestones(t *testing.T) {
	response := `{"shorts":[{"type":"goal","content":"Write a book","milestones":["Outline", "  "]}],
		"dailyArc":{"suggestedAction":"Outline chapter one"},"sentiment":"excited","tags":[]}`
	engine := NewEngine(&fakeGenerator{configured: true, response: response}, logger.Nop())

	res := engine.Analyze(context.Background(), "I keep saying I will write a book", bundleWith(4))

	require.True(t, res.Ok())
	assert.Empty(t, res.Value.Shorts)
	assert.Equal(t, SentimentNeutral, res.Value.Sentiment)
}

func TestAnalyzeSanitizesPrompt(t *testing.T) {
	gen := &fakeGenerator{configured: true, response: `{"shorts":[],"dailyArc":{"suggestedAction":"Rest"},"sentiment":"Negative","tags":["rest"]}`}
	engine := NewEngine(gen, logger.Nop())
	bundle := bundleWith(1)
	bundle.SimilarEntries[0].Excerpt = "called 555-123-4567 yesterday"
	bundle.Memories = []string{"works at https://corp.example.com"}

	res := engine.Analyze(context.Background(), "Email from boss@corp.example.com ruined my day", bundle)

	require.True(t, res.Ok())
	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.NotContains(t, prompt, "boss@corp.example.com")
	assert.NotContains(t, prompt, "555-123-4567")
	assert.NotContains(t, prompt, "https://corp.example.com")
	assert.Contains(t, prompt, "[EMAIL]")
	assert.Equal(t, SentimentNegative, res.Value.Sentiment)
}

func TestAnalyzeFailures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
		want Outcome
	}{
		{"unconfigured", &fakeGenerator{}, OutcomeUnavailable},
		{"vendor error", &fakeGenerator{configured: true, err: errors.New("quota")}, OutcomeError},
		{"malformed json", &fakeGenerator{configured: true, response: "{shorts: nope"}, OutcomeError},
		{"empty body", &fakeGenerator{configured: true, response: "```json\n```"}, OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewEngine(tt.gen, logger.Nop()).Analyze(context.Background(), "some entry", nil)
			assert.Equal(t, tt.want, res.Outcome)
			assert.Nil(t, res.Value)
		})
	}
}

func TestAnalysisToMap(t *testing.T) {
	a := &Analysis{
		Shorts:    []DetectedShort{{Type: ShortTypeGoal, Content: "Run", Milestones: []string{"a", "b"}}},
		DailyArc:  SuggestedArc{SuggestedAction: "Walk"},
		Sentiment: SentimentPositive,
		Tags:      []string{"run"},
	}

	m := a.ToMap()

	assert.Equal(t, SentimentPositive, m["sentiment"])
	assert.Equal(t, map[string]any{"suggestedAction": "Walk"}, m["dailyArc"])
	shorts, ok := m["shorts"].([]map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, shorts[0]["milestones"])
}

func TestReflectionPrompt(t *testing.T) {
	last := &LastEntry{Title: "Long day", Date: time.Now(), Text: "<p>Tired but happy</p>"}

	t.Run("no history", func(t *testing.T) {
		gen := &fakeGenerator{configured: true, response: "ignored"}
		assert.Equal(t, DefaultReflectionPrompt, NewEngine(gen, logger.Nop()).ReflectionPrompt(context.Background(), nil, nil))
		assert.Empty(t, gen.prompts)
	})

	t.Run("unconfigured", func(t *testing.T) {
		assert.Equal(t, DefaultReflectionPrompt, NewEngine(&fakeGenerator{}, logger.Nop()).ReflectionPrompt(context.Background(), last, nil))
	})

	t.Run("vendor error", func(t *testing.T) {
		gen := &fakeGenerator{configured: true, err: errors.New("timeout")}
		assert.Equal(t, DefaultReflectionPrompt, NewEngine(gen, logger.Nop()).ReflectionPrompt(context.Background(), last, []string{"Run"}))
	})

	t.Run("quoted answer", func(t *testing.T) {
		gen := &fakeGenerator{configured: true, response: "\"How is the marathon training going?\"\n"}
		got := NewEngine(gen, logger.Nop()).ReflectionPrompt(context.Background(), last, []string{"Run a marathon"})
		assert.Equal(t, "How is the marathon training going?", got)
		require.Len(t, gen.prompts, 1)
		assert.Contains(t, gen.prompts[0], "Tired but happy")
		assert.Contains(t, gen.prompts[0], "- Run a marathon")
	})
}
