package usecase

import (
	"context"
	"errors"
	"time"

	"myarc/model"
	"myarc/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DailyArcService struct {
	Arcs     DailyArcStore
	Location *time.Location
	Now      func() time.Time
}

// Today returns the user's arc for the current calendar day, or nil when no
// entry has been analyzed yet today.
func (s *DailyArcService) Today(ctx context.Context, userID primitive.ObjectID) (*model.DailyArc, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	arc, err := s.Arcs.FindForDay(ctx, userID, model.DayKey(now, s.Location))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("load daily arc", err)
	}
	return arc, nil
}
