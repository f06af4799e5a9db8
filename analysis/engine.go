package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"myarc/logger"
	"myarc/utils"

	"google.golang.org/genai"
)

const (
	DefaultReflectionPrompt = "What's on your mind today?"

	ShortTypeHabit = "habit"
	ShortTypeGoal  = "goal"

	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentNegative = "Negative"

	maxTags        = 5
	minMilestones  = 2
	maxMilestones  = 4
	habitEvidence  = 1
	goalEvidence   = 2
	maxPromptGoals = 3
)

// Generator is the generative-AI vendor.
type Generator interface {
	Configured() bool
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type DetectedShort struct {
	Type       string   `json:"type"`
	Content    string   `json:"content"`
	Milestones []string `json:"milestones,omitempty"`
}

type SuggestedArc struct {
	SuggestedAction string `json:"suggestedAction"`
}

// Analysis is the validated engine output for one entry.
type Analysis struct {
	Shorts    []DetectedShort `json:"shorts"`
	DailyArc  SuggestedArc    `json:"dailyArc"`
	Sentiment string          `json:"sentiment"`
	Tags      []string        `json:"tags"`
}

// ToMap renders the analysis as the opaque payload stored on the entry.
func (a *Analysis) ToMap() map[string]any {
	shorts := make([]map[string]any, 0, len(a.Shorts))
	for _, s := range a.Shorts {
		item := map[string]any{"type": s.Type, "content": s.Content}
		if len(s.Milestones) > 0 {
			item["milestones"] = s.Milestones
		}
		shorts = append(shorts, item)
	}
	return map[string]any{
		"shorts":    shorts,
		"dailyArc":  map[string]any{"suggestedAction": a.DailyArc.SuggestedAction},
		"sentiment": a.Sentiment,
		"tags":      a.Tags,
	}
}

type Engine struct {
	gen Generator
	log *logger.Logger
}

func NewEngine(gen Generator, log *logger.Logger) *Engine {
	return &Engine{gen: gen, log: log.With("component", "engine")}
}

func (e *Engine) Configured() bool {
	return e != nil && e.gen != nil && e.gen.Configured()
}

// Analyze asks the vendor for shorts, a daily action, sentiment and tags, then
// applies the detection policy to whatever came back.
func (e *Engine) Analyze(ctx context.Context, content string, bundle *ContextBundle) Result[*Analysis] {
	if !e.Configured() {
		utils.TrackAICall("analyze", string(OutcomeUnavailable))
		return Unavailable[*Analysis](ErrNotConfigured)
	}
	if bundle == nil {
		bundle = &ContextBundle{}
	}

	text := Sanitize(StripMarkup(content))
	if text == "" {
		utils.TrackAICall("analyze", string(OutcomeUnavailable))
		return Unavailable[*Analysis](errors.New("nothing to analyze"))
	}

	raw, err := e.gen.GenerateJSON(ctx, buildAnalysisPrompt(text, bundle), analysisSchema)
	if err != nil {
		e.log.Warn("analysis request failed", "error", err)
		utils.TrackAICall("analyze", string(OutcomeError))
		return Failed[*Analysis](err)
	}

	parsed, err := parseAnalysis(raw)
	if err != nil {
		e.log.Warn("analysis response malformed", "error", err)
		utils.TrackAICall("analyze", string(OutcomeError))
		return Failed[*Analysis](err)
	}

	result := applyPolicy(parsed, bundle)
	utils.TrackAICall("analyze", string(OutcomeOK))
	return OK(result)
}

// LastEntry is the decrypted, plain-text view of the user's latest entry.
type LastEntry struct {
	Title string
	Date  time.Time
	Text  string
}

// ReflectionPrompt writes one short question for today's entry. Any failure,
// or a user with no history at all, falls back to DefaultReflectionPrompt.
func (e *Engine) ReflectionPrompt(ctx context.Context, last *LastEntry, goals []string) string {
	if last == nil && len(goals) == 0 {
		return DefaultReflectionPrompt
	}
	if !e.Configured() {
		utils.TrackAICall("prompt", string(OutcomeUnavailable))
		return DefaultReflectionPrompt
	}

	out, err := e.gen.GenerateText(ctx, buildReflectionPrompt(last, goals))
	if err != nil {
		e.log.Warn("reflection prompt failed", "error", err)
		utils.TrackAICall("prompt", string(OutcomeError))
		return DefaultReflectionPrompt
	}
	question := strings.Trim(strings.TrimSpace(out), "\"")
	if question == "" {
		utils.TrackAICall("prompt", string(OutcomeError))
		return DefaultReflectionPrompt
	}
	utils.TrackAICall("prompt", string(OutcomeOK))
	return question
}

var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"shorts": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"type":       {Type: genai.TypeString, Enum: []string{ShortTypeHabit, ShortTypeGoal}},
					"content":    {Type: genai.TypeString},
					"milestones": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				},
				Required: []string{"type", "content"},
			},
		},
		"dailyArc": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"suggestedAction": {Type: genai.TypeString},
			},
			Required: []string{"suggestedAction"},
		},
		"sentiment": {Type: genai.TypeString, Enum: []string{SentimentPositive, SentimentNeutral, SentimentNegative}},
		"tags":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"shorts", "dailyArc", "sentiment", "tags"},
}

func buildAnalysisPrompt(text string, bundle *ContextBundle) string {
	var b strings.Builder
	b.WriteString("You are the analysis engine of a journaling app called MyArc.\n")
	b.WriteString("Read today's entry together with the user's history and return JSON with:\n")
	b.WriteString("1. shorts: habits or goals. A habit only when the same behaviour also appears in PAST ENTRIES. ")
	b.WriteString("A goal only when the same intent appears in at least two PAST ENTRIES; give each goal 2-4 milestones.\n")
	b.WriteString("   Never repeat anything listed under TRACKED HABITS. Return an empty list when nothing qualifies.\n")
	b.WriteString("2. dailyArc.suggestedAction: one small action for today.\n")
	b.WriteString("3. sentiment: Positive, Neutral or Negative.\n")
	b.WriteString("4. tags: 3-5 short keywords.\n\n")

	b.WriteString("PAST ENTRIES:\n")
	if len(bundle.SimilarEntries) == 0 {
		b.WriteString("(none)\n")
	}
	for _, s := range bundle.SimilarEntries {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", s.Date.Format(time.DateOnly), Sanitize(s.Title), Sanitize(s.Excerpt))
	}

	b.WriteString("\nTRACKED HABITS:\n")
	if len(bundle.Habits) == 0 {
		b.WriteString("(none)\n")
	}
	for _, h := range bundle.Habits {
		fmt.Fprintf(&b, "- %s\n", Sanitize(h))
	}

	if len(bundle.Memories) > 0 {
		b.WriteString("\nLONG-TERM MEMORY:\n")
		for _, m := range bundle.Memories {
			fmt.Fprintf(&b, "- %s\n", Sanitize(m))
		}
	}

	fmt.Fprintf(&b, "\nTODAY'S ENTRY:\n%q\n", text)
	return b.String()
}

func buildReflectionPrompt(last *LastEntry, goals []string) string {
	var b strings.Builder
	b.WriteString("You are a thoughtful journaling companion.\n")
	b.WriteString("Based on the user's recent context, write a single, specific question to help them reflect today.\n\nCONTEXT:\n")
	if last != nil {
		fmt.Fprintf(&b, "LAST ENTRY (%s): %q\n", last.Date.Format(time.DateOnly),
			Sanitize(last.Title)+" - "+Truncate(Sanitize(StripMarkup(last.Text)), excerptLength))
	}
	if len(goals) > 0 {
		b.WriteString("ACTIVE GOALS:\n")
		for i, g := range goals {
			if i == maxPromptGoals {
				break
			}
			fmt.Fprintf(&b, "- %s\n", Sanitize(g))
		}
	}
	b.WriteString("\nRules: one question only, under 20 words, curious and gentle in tone.\nOUTPUT: just the question text.")
	return b.String()
}

// parseAnalysis tolerates a markdown code fence around the JSON body.
func parseAnalysis(raw string) (*Analysis, error) {
	body := stripCodeFence(raw)
	if body == "" {
		return nil, errors.New("empty analysis response")
	}
	var a Analysis
	if err := json.Unmarshal([]byte(body), &a); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &a, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func applyPolicy(in *Analysis, bundle *ContextBundle) *Analysis {
	tracked := make(map[string]struct{}, len(bundle.Habits))
	for _, h := range bundle.Habits {
		tracked[normalizeKey(h)] = struct{}{}
	}
	evidence := len(bundle.SimilarEntries)

	out := &Analysis{
		DailyArc:  SuggestedArc{SuggestedAction: strings.TrimSpace(in.DailyArc.SuggestedAction)},
		Sentiment: NormalizeSentiment(in.Sentiment),
		Tags:      clampTags(in.Tags),
		Shorts:    make([]DetectedShort, 0, len(in.Shorts)),
	}

	seen := make(map[string]struct{})
	for _, s := range in.Shorts {
		kind := strings.ToLower(strings.TrimSpace(s.Type))
		content := strings.TrimSpace(s.Content)
		key := normalizeKey(content)
		if content == "" {
			continue
		}
		if _, dup := seen[kind+"|"+key]; dup {
			continue
		}

		switch kind {
		case ShortTypeHabit:
			if evidence < habitEvidence {
				continue
			}
			if _, ok := tracked[key]; ok {
				continue
			}
			out.Shorts = append(out.Shorts, DetectedShort{Type: ShortTypeHabit, Content: content})
		case ShortTypeGoal:
			if evidence < goalEvidence {
				continue
			}
			milestones := cleanMilestones(s.Milestones)
			if len(milestones) < minMilestones {
				continue
			}
			out.Shorts = append(out.Shorts, DetectedShort{Type: ShortTypeGoal, Content: content, Milestones: milestones})
		default:
			continue
		}
		seen[kind+"|"+key] = struct{}{}
	}
	return out
}

// NormalizeSentiment maps any vendor spelling onto the three labels.
func NormalizeSentiment(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return SentimentPositive
	case "negative":
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func clampTags(tags []string) []string {
	out := make([]string, 0, maxTags)
	seen := make(map[string]struct{})
	for _, t := range tags {
		t = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "#"))
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
		if len(out) == maxTags {
			break
		}
	}
	return out
}

func cleanMilestones(titles []string) []string {
	out := make([]string, 0, maxMilestones)
	for _, t := range titles {
		if t = strings.TrimSpace(t); t == "" {
			continue
		}
		out = append(out, t)
		if len(out) == maxMilestones {
			break
		}
	}
	return out
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
