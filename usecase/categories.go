package usecase

import (
	"context"
	"strings"

	"myarc/logger"
	"myarc/model"
	"myarc/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryService struct {
	Users  UserStore
	Shorts ShortStore
	Log    *logger.Logger
}

func (s *CategoryService) List(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeErr("load user", err)
	}
	if user.ShortsCategories == nil {
		return []string{}, nil
	}
	return user.ShortsCategories, nil
}

// Add appends a custom category and returns the updated list.
func (s *CategoryService) Add(ctx context.Context, userID primitive.ObjectID, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, invalid("category name is required")
	case model.IsReservedCategory(name):
		return nil, invalid("%q is a reserved category", name)
	case !utils.ValidateCategoryName(name):
		return nil, invalid("invalid category name %q", name)
	}

	if err := s.Users.AddCategory(ctx, userID, name); err != nil {
		return nil, storeErr("add category", err)
	}
	return s.List(ctx, userID)
}

// Remove drops a custom category and every short filed under it.
func (s *CategoryService) Remove(ctx context.Context, userID primitive.ObjectID, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("category name is required")
	}
	if model.IsReservedCategory(name) {
		return nil, invalid("%q is a reserved category", name)
	}

	current, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	canonical := ""
	for _, c := range current {
		if strings.EqualFold(c, name) {
			canonical = c
			break
		}
	}
	if canonical == "" {
		return nil, storeErr("remove category", ErrNotFound)
	}

	removed, err := s.Shorts.DeleteByCategory(ctx, userID, model.Custom(canonical))
	if err != nil {
		s.Log.Error("deleting category shorts failed", "category", canonical, "error", err)
		return nil, storeErr("delete category shorts", err)
	}
	if err := s.Users.RemoveCategory(ctx, userID, canonical); err != nil {
		return nil, storeErr("remove category", err)
	}
	s.Log.Info("category removed", "category", canonical, "shorts_deleted", removed)

	remaining := make([]string, 0, len(current))
	for _, c := range current {
		if c != canonical {
			remaining = append(remaining, c)
		}
	}
	return remaining, nil
}
