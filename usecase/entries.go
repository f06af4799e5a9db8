package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"myarc/analysis"
	"myarc/logger"
	"myarc/model"
	"myarc/repository"
	"myarc/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PreviewLength     = 200
	MomentumIncrement = 10

	maxTitleLength   = 200
	maxContentLength = 50000
	promptGoals      = 3
)

type EntryService struct {
	Entries  EntryStore
	Shorts   ShortStore
	Arcs     DailyArcStore
	Embedder Embedder
	Context  ContextAssembler
	Engine   Analyzer
	Memory   MemoryWriter
	Cipher   Cipher
	Location *time.Location
	Log      *logger.Logger
	Now      func() time.Time
}

type CreateEntryInput struct {
	Title   string
	Content string
	Tags    []string
}

func (s *EntryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateEntry validates and persists the entry, then runs enrichment. Only
// validation and the initial write can fail the call; enrichment problems are
// logged and leave the entry un-enriched.
func (s *EntryService) CreateEntry(ctx context.Context, userID primitive.ObjectID, in CreateEntryInput) (*model.Entry, error) {
	title := strings.TrimSpace(in.Title)
	plain := analysis.StripMarkup(in.Content)
	switch {
	case title == "":
		return nil, invalid("title is required")
	case len([]rune(title)) > maxTitleLength:
		return nil, invalid("title exceeds %d characters", maxTitleLength)
	case plain == "":
		return nil, invalid("content is required")
	case len(in.Content) > maxContentLength:
		return nil, invalid("content exceeds maximum length")
	}

	entry := &model.Entry{
		UserID:  userID,
		Title:   title,
		Content: in.Content,
		Preview: analysis.Truncate(plain, PreviewLength),
		Tags:    model.MergeTags(in.Tags),
		Date:    s.now().UTC(),
	}
	if s.Cipher != nil && s.Cipher.Enabled() {
		sealed, err := s.Cipher.Encrypt(in.Content)
		if err != nil {
			return nil, err
		}
		entry.Content = sealed
		entry.IsEncrypted = true
	}

	if err := s.Entries.Create(ctx, entry); err != nil {
		s.Log.Error("entry write failed", "user_id", userID.Hex(), "error", err)
		return nil, storeErr("create entry", err)
	}
	utils.TrackEntryOperation("create")

	entry.Content = in.Content
	s.enrich(ctx, entry)
	entry.Embedding = nil
	return entry, nil
}

// enrich runs embed -> context -> analyze -> persist for a freshly written
// entry. entry.Content must be plaintext.
func (s *EntryService) enrich(ctx context.Context, entry *model.Entry) {
	log := s.Log.With("entry", entry.ID.Hex())
	plain := analysis.StripMarkup(entry.Content)

	var vector []float32
	if res := s.Embedder.Embed(ctx, entry.Title+"\n"+plain); res.Ok() {
		vector = res.Value
	}

	bundle := &analysis.ContextBundle{}
	if res := s.Context.Assemble(ctx, entry.UserID, entry.ID, vector, plain); res.Ok() {
		bundle = res.Value
	} else {
		log.Warn("proceeding without context", "outcome", res.Outcome, "error", res.Err)
	}

	result := s.Engine.Analyze(ctx, entry.Content, bundle)

	enrichment := model.EntryEnrichment{Embedding: vector}
	if result.Ok() {
		a := result.Value
		enrichment.Sentiment = a.Sentiment
		enrichment.Tags = model.MergeTags(entry.Tags, a.Tags)
		enrichment.AIAnalysis = a.ToMap()
	}
	if len(vector) > 0 || result.Ok() {
		if err := s.Entries.UpdateEnrichment(ctx, entry.ID, entry.UserID, enrichment); err != nil {
			log.Error("saving enrichment failed", "error", err)
		} else {
			entry.Embedding = vector
			if result.Ok() {
				entry.Sentiment = enrichment.Sentiment
				entry.Tags = enrichment.Tags
				entry.AIAnalysis = enrichment.AIAnalysis
			}
		}
	}

	if result.Ok() {
		s.createDetectedShorts(ctx, entry, result.Value.Shorts)
		s.bumpDailyArc(ctx, entry.UserID, result.Value.DailyArc.SuggestedAction)
	}
	s.syncMemory(ctx, entry.UserID, plain)
}

func (s *EntryService) createDetectedShorts(ctx context.Context, entry *model.Entry, detected []analysis.DetectedShort) {
	if len(detected) == 0 {
		return
	}
	source := entry.ID
	shorts := make([]*model.Short, 0, len(detected))
	for _, d := range detected {
		short := &model.Short{
			UserID:        entry.UserID,
			Content:       d.Content,
			Source:        model.SourceAI,
			Status:        model.StatusActive,
			SourceEntryID: &source,
		}
		switch d.Type {
		case analysis.ShortTypeHabit:
			short.Category = model.Habit()
		case analysis.ShortTypeGoal:
			short.Category = model.Goal()
			short.Milestones = model.NewMilestones(d.Milestones)
		default:
			continue
		}
		shorts = append(shorts, short)
	}

	if err := s.Shorts.CreateMany(ctx, shorts); err != nil {
		s.Log.Error("saving detected shorts failed", "entry", entry.ID.Hex(), "error", err)
		return
	}
	for _, short := range shorts {
		utils.TrackShortOperation("create", string(short.Source))
	}
}

func (s *EntryService) bumpDailyArc(ctx context.Context, userID primitive.ObjectID, action string) {
	now := s.now()
	day := model.DayKey(now, s.Location)
	if _, err := s.Arcs.Bump(ctx, userID, day, now.UTC(), action, MomentumIncrement); err != nil {
		s.Log.Error("daily arc update failed", "user_id", userID.Hex(), "error", err)
	}
}

func (s *EntryService) syncMemory(ctx context.Context, userID primitive.ObjectID, text string) {
	if s.Memory == nil || !s.Memory.Configured() {
		utils.TrackAICall("memory_add", string(analysis.OutcomeUnavailable))
		return
	}
	if err := s.Memory.Add(ctx, userID.Hex(), text); err != nil {
		s.Log.Warn("memory sync failed", "error", err)
		utils.TrackAICall("memory_add", string(analysis.OutcomeError))
		return
	}
	utils.TrackAICall("memory_add", string(analysis.OutcomeOK))
}

func (s *EntryService) DeleteEntry(ctx context.Context, userID primitive.ObjectID, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if err := s.Entries.Delete(ctx, id, userID); err != nil {
		return storeErr("delete entry", err)
	}
	utils.TrackEntryOperation("delete")
	return nil
}

func (s *EntryService) ListTags(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	tags, err := s.Entries.DistinctTags(ctx, userID)
	if err != nil {
		return nil, storeErr("list tags", err)
	}
	return tags, nil
}

// ReflectionPrompt suggests a question for today from the latest entry and
// the user's active goals. It always returns a usable prompt.
func (s *EntryService) ReflectionPrompt(ctx context.Context, userID primitive.ObjectID) string {
	var last *analysis.LastEntry
	latest, err := s.Entries.Latest(ctx, userID)
	switch {
	case err == nil:
		last = &analysis.LastEntry{Title: latest.Title, Date: latest.Date, Text: s.plaintext(latest)}
	case !errors.Is(err, repository.ErrNotFound):
		s.Log.Warn("loading latest entry failed", "error", err)
		return analysis.DefaultReflectionPrompt
	}

	var goals []string
	active, err := s.Shorts.ActiveGoals(ctx, userID, promptGoals)
	if err != nil {
		s.Log.Warn("loading active goals failed", "error", err)
		return analysis.DefaultReflectionPrompt
	}
	for _, g := range active {
		goals = append(goals, g.Content)
	}
	return s.Engine.ReflectionPrompt(ctx, last, goals)
}

// plaintext returns the readable body of e. An undecryptable body falls back
// to the stored preview.
func (s *EntryService) plaintext(e *model.Entry) string {
	return readable(s.Cipher, s.Log, e)
}

func readable(c Cipher, log *logger.Logger, e *model.Entry) string {
	if !e.IsEncrypted {
		return e.Content
	}
	if c == nil || !c.Enabled() {
		log.Warn("encrypted entry but no key configured", "entry", e.ID.Hex())
		return e.Preview
	}
	plain, err := c.Decrypt(e.Content)
	if err != nil {
		log.Warn("decrypting entry failed", "entry", e.ID.Hex(), "error", err)
		return e.Preview
	}
	return plain
}
