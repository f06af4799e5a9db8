package usecase

import (
	"context"
	"testing"
	"time"

	"myarc/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDailyArcService_Today(t *testing.T) {
	arcs := testutils.NewDailyArcStore()
	now := time.Date(2026, 1, 10, 23, 0, 0, 0, time.UTC)
	svc := &DailyArcService{Arcs: arcs, Location: time.UTC, Now: func() time.Time { return now }}
	ctx := context.Background()
	userID := primitive.NewObjectID()

	arc, err := svc.Today(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, arc)

	_, err = arcs.Bump(ctx, userID, "2026-01-10", now, "Call mom", 10)
	require.NoError(t, err)
	_, err = arcs.Bump(ctx, userID, "2026-01-10", now, "", 10)
	require.NoError(t, err)

	arc, err = svc.Today(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, arc)
	assert.Equal(t, 20, arc.MomentumScore)
	assert.Equal(t, "Call mom", arc.SuggestedAction)

	svc.Location = time.FixedZone("UTC+2", 2*60*60)
	arc, err = svc.Today(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, arc, "it is already the 11th in UTC+2")
}
