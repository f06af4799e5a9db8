package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"myarc/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	momentumWeeks  = 7
	consistencyPts = 50
	actPts         = 50
	partialActPts  = 25
)

type MomentumService struct {
	Entries  EntryStore
	Shorts   ShortStore
	Location *time.Location
}

// Weekly scores the seven Monday-start weeks ending with the week containing
// now, oldest first.
func (s *MomentumService) Weekly(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]model.WeeklyMomentum, error) {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	current := weekStart(now.In(loc))

	out := make([]model.WeeklyMomentum, 0, momentumWeeks)
	for i := momentumWeeks - 1; i >= 0; i-- {
		from := current.AddDate(0, 0, -7*i)
		to := from.AddDate(0, 0, 7)

		activity, err := s.activity(ctx, userID, from, to)
		if err != nil {
			return nil, err
		}
		row := scoreWeek(activity)
		row.WeekLabel = fmt.Sprintf("WK%d", momentumWeeks-i)
		row.WeekStart = from
		out = append(out, row)
	}
	return out, nil
}

func (s *MomentumService) activity(ctx context.Context, userID primitive.ObjectID, from, to time.Time) (model.WeekActivity, error) {
	var a model.WeekActivity

	entries, err := s.Entries.CountBetween(ctx, userID, from, to)
	if err != nil {
		return a, storeErr("count entries", err)
	}
	goals, err := s.Shorts.CountCompletedGoalsBetween(ctx, userID, from, to)
	if err != nil {
		return a, storeErr("count completed goals", err)
	}
	withMilestones, err := s.Shorts.GoalsWithCompletedMilestones(ctx, userID, from, to)
	if err != nil {
		return a, storeErr("load milestones", err)
	}
	created, err := s.Shorts.CountCreatedBetween(ctx, userID, from, to)
	if err != nil {
		return a, storeErr("count shorts", err)
	}

	a.Entries = int(entries)
	a.CompletedGoals = int(goals)
	a.NewShorts = int(created)
	for _, g := range withMilestones {
		for _, m := range g.Milestones {
			if m.IsCompleted && m.CompletedAt != nil && !m.CompletedAt.Before(from) && m.CompletedAt.Before(to) {
				a.CompletedMilestones++
			}
		}
	}
	return a, nil
}

func scoreWeek(a model.WeekActivity) model.WeeklyMomentum {
	row := model.WeeklyMomentum{
		Reflect:  "0%",
		Act:      "0%",
		Discover: strconv.Itoa(a.NewShorts),
		Desc:     "Weekly Momentum",
	}
	if a.Entries > 0 {
		row.Score += consistencyPts
		row.Reflect = "100%"
	}
	switch {
	case a.CompletedGoals > 0 || a.CompletedMilestones >= 2:
		row.Score += actPts
		row.Act = "100%"
	case a.CompletedMilestones == 1:
		row.Score += partialActPts
		row.Act = "50%"
	}
	return row
}

// weekStart returns local midnight of the Monday on or before t.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}
