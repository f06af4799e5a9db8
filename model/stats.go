package model

import "time"

// WeeklyMomentum is one row of the momentum chart.
type WeeklyMomentum struct {
	WeekLabel string    `json:"week_label"`
	WeekStart time.Time `json:"week_start"`
	Score     int       `json:"score"`
	Reflect   string    `json:"reflect"`
	Discover  string    `json:"discover"`
	Act       string    `json:"act"`
	Desc      string    `json:"desc"`
}

// WeekActivity is the raw activity counted for one week.
type WeekActivity struct {
	Entries             int
	CompletedGoals      int
	CompletedMilestones int
	NewShorts           int
}
