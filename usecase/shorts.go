package usecase

import (
	"context"
	"strings"
	"time"

	"myarc/logger"
	"myarc/model"
	"myarc/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxShortLength = 500

type ShortService struct {
	Shorts ShortStore
	Users  UserStore
	Log    *logger.Logger
	Now    func() time.Time
}

type CreateShortInput struct {
	Type       string
	Content    string
	Milestones []string
}

// UpdateShortInput is a partial update; nil fields are left unchanged.
type UpdateShortInput struct {
	Content    *string
	Status     *model.ShortStatus
	Milestones *[]model.MilestoneInput
}

func (s *ShortService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// List returns the user's non-archived shorts, newest first. An empty
// category returns all of them.
func (s *ShortService) List(ctx context.Context, userID primitive.ObjectID, category string) ([]*model.Short, error) {
	shorts, err := s.Shorts.List(ctx, userID, model.ParseCategory(category))
	if err != nil {
		return nil, storeErr("list shorts", err)
	}
	return shorts, nil
}

func (s *ShortService) Create(ctx context.Context, userID primitive.ObjectID, in CreateShortInput) (*model.Short, error) {
	category := model.ParseCategory(in.Type)
	content := strings.TrimSpace(in.Content)
	switch {
	case category.IsZero():
		return nil, invalid("type is required")
	case content == "":
		return nil, invalid("content is required")
	case len([]rune(content)) > maxShortLength:
		return nil, invalid("content exceeds %d characters", maxShortLength)
	}

	if category.IsCustom() {
		canonical, err := s.resolveCategory(ctx, userID, category.String())
		if err != nil {
			return nil, err
		}
		category = model.Custom(canonical)
	}

	short := &model.Short{
		UserID:     userID,
		Category:   category,
		Content:    content,
		Source:     model.SourceUser,
		Status:     model.StatusActive,
		Milestones: []model.Milestone{},
	}
	if category.IsGoal() {
		titles := make([]string, 0, len(in.Milestones))
		for _, t := range in.Milestones {
			titles = append(titles, strings.TrimSpace(t))
		}
		short.Milestones = model.NewMilestones(titles)
	}

	if err := s.Shorts.Create(ctx, short); err != nil {
		return nil, storeErr("create short", err)
	}
	utils.TrackShortOperation("create", string(model.SourceUser))
	return short, nil
}

// resolveCategory returns the stored spelling of a custom category, or
// ErrInvalidInput when the user has not defined it.
func (s *ShortService) resolveCategory(ctx context.Context, userID primitive.ObjectID, name string) (string, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return "", storeErr("load user", err)
	}
	for _, c := range user.ShortsCategories {
		if strings.EqualFold(c, name) {
			return c, nil
		}
	}
	return "", invalid("unknown category %q", name)
}

func (s *ShortService) Update(ctx context.Context, userID primitive.ObjectID, rawID string, in UpdateShortInput) (*model.Short, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	short, err := s.Shorts.FindByID(ctx, id, userID)
	if err != nil {
		return nil, storeErr("load short", err)
	}

	if in.Content != nil {
		content := strings.TrimSpace(*in.Content)
		if content == "" {
			return nil, invalid("content cannot be empty")
		}
		if len([]rune(content)) > maxShortLength {
			return nil, invalid("content exceeds %d characters", maxShortLength)
		}
		short.Content = content
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, invalid("unknown status %q", *in.Status)
		}
		short.Status = *in.Status
	}
	if in.Milestones != nil {
		if !short.Category.IsGoal() {
			return nil, invalid("only goals have milestones")
		}
		short.Milestones = model.ApplyMilestoneUpdates(short.Milestones, *in.Milestones, s.now().UTC())
	}

	if err := s.Shorts.Update(ctx, short); err != nil {
		return nil, storeErr("update short", err)
	}
	utils.TrackShortOperation("update", string(short.Source))
	return short, nil
}

func (s *ShortService) Delete(ctx context.Context, userID primitive.ObjectID, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if err := s.Shorts.Delete(ctx, id, userID); err != nil {
		return storeErr("delete short", err)
	}
	utils.TrackShortOperation("delete", "")
	return nil
}
