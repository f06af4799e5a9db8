package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestApplyMilestoneUpdates(t *testing.T) {
	earlier := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	openID := primitive.NewObjectID()
	doneID := primitive.NewObjectID()
	existing := []Milestone{
		{ID: openID, Title: "Buy shoes"},
		{ID: doneID, Title: "Run 5k", IsCompleted: true, CompletedAt: &earlier},
	}

	t.Run("false to true stamps now", func(t *testing.T) {
		out := ApplyMilestoneUpdates(existing, []MilestoneInput{
			{ID: openID.Hex(), Title: "Buy shoes", IsCompleted: true},
		}, now)
		require.Len(t, out, 1)
		require.NotNil(t, out[0].CompletedAt)
		assert.Equal(t, now, *out[0].CompletedAt)
	})

	t.Run("true to true keeps the original stamp", func(t *testing.T) {
		out := ApplyMilestoneUpdates(existing, []MilestoneInput{
			{ID: doneID.Hex(), Title: "Run 5k", IsCompleted: true},
		}, now)
		require.Len(t, out, 1)
		require.NotNil(t, out[0].CompletedAt)
		assert.Equal(t, earlier, *out[0].CompletedAt)
	})

	t.Run("true to false clears the stamp", func(t *testing.T) {
		out := ApplyMilestoneUpdates(existing, []MilestoneInput{
			{ID: doneID.Hex(), Title: "Run 5k", IsCompleted: false},
		}, now)
		require.Len(t, out, 1)
		assert.False(t, out[0].IsCompleted)
		assert.Nil(t, out[0].CompletedAt)
	})

	t.Run("new milestones get an id", func(t *testing.T) {
		out := ApplyMilestoneUpdates(existing, []MilestoneInput{
			{Title: "Half marathon", IsCompleted: true},
		}, now)
		require.Len(t, out, 1)
		assert.False(t, out[0].ID.IsZero())
		assert.NotEqual(t, openID, out[0].ID)
		require.NotNil(t, out[0].CompletedAt)
		assert.Equal(t, now, *out[0].CompletedAt)
	})

	t.Run("order follows the submission", func(t *testing.T) {
		out := ApplyMilestoneUpdates(existing, []MilestoneInput{
			{ID: doneID.Hex(), Title: "Run 5k", IsCompleted: true},
			{ID: openID.Hex(), Title: "Buy better shoes"},
		}, now)
		require.Len(t, out, 2)
		assert.Equal(t, doneID, out[0].ID)
		assert.Equal(t, "Buy better shoes", out[1].Title)
	})
}

func TestMergeTags(t *testing.T) {
	got := MergeTags([]string{"running", " Health "}, []string{"health", "", "sleep", "Running"})
	assert.Equal(t, []string{"running", "Health", "sleep"}, got)
}

func TestShortStatusValid(t *testing.T) {
	assert.True(t, StatusActive.Valid())
	assert.True(t, StatusArchived.Valid())
	assert.False(t, ShortStatus("paused").Valid())
}
