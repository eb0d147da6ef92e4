package postgres_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/campredict/internal/game/camping"
	"github.com/cory-johannsen/campredict/internal/storage/postgres"
	"github.com/cory-johannsen/campredict/internal/testutil"
)

func setupPredictionRepo(t *testing.T) *postgres.PredictionRepository {
	t.Helper()
	return postgres.NewPredictionRepository(testutil.NewPool(t))
}

func makeTestPrediction(displayed float64) (camping.Input, camping.Prediction) {
	in := camping.DefaultInput()
	in.Distance = 13
	in.Building = "Cave de la vieille tour"
	p := camping.Prediction{
		Score: camping.Score{
			Raw:       displayed,
			Displayed: displayed,
			Ceiling:   18,
			Tier: camping.Tier{
				Low:      math.Inf(-1),
				High:     math.Inf(1),
				Severity: "fair",
				Display:  "Vous estimez que vos chances de survie ici sont correctes.",
			},
			Breakdown: camping.Contributions{Distance: 12.4, Building: 4},
		},
		SurvivalPercent: camping.Round1(displayed * 5),
		Defence:         camping.NeutralDefence(),
	}
	return in, p
}

func TestPredictionRepository_SaveAndGet(t *testing.T) {
	repo := setupPredictionRepo(t)
	ctx := context.Background()
	sessionID := uuid.New()

	in, p := makeTestPrediction(9.4)
	saved, err := repo.Save(ctx, sessionID, in, p)
	require.NoError(t, err)
	assert.Greater(t, saved.ID, int64(0))
	assert.WithinDuration(t, time.Now(), saved.CreatedAt, time.Minute)

	got, err := repo.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, sessionID, got.SessionID)
	assert.Equal(t, in, got.Input)
	assert.Equal(t, p, got.Prediction, "infinite tier bounds survive the JSONB round trip")
}

func TestPredictionRepository_GetNotFound(t *testing.T) {
	repo := setupPredictionRepo(t)
	_, err := repo.Get(context.Background(), 999999)
	assert.ErrorIs(t, err, postgres.ErrPredictionNotFound)
}

func TestPredictionRepository_SaveNilSession(t *testing.T) {
	repo := setupPredictionRepo(t)
	in, p := makeTestPrediction(1)
	_, err := repo.Save(context.Background(), uuid.Nil, in, p)
	assert.Error(t, err)
}

func TestPredictionRepository_ListBySession(t *testing.T) {
	repo := setupPredictionRepo(t)
	ctx := context.Background()
	sessionID := uuid.New()
	other := uuid.New()

	for _, score := range []float64{1, 2, 3} {
		in, p := makeTestPrediction(score)
		_, err := repo.Save(ctx, sessionID, in, p)
		require.NoError(t, err)
	}
	in, p := makeTestPrediction(17)
	_, err := repo.Save(ctx, other, in, p)
	require.NoError(t, err)

	list, err := repo.ListBySession(ctx, sessionID, 10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 3.0, list[0].Prediction.Score.Displayed, "newest first")
	assert.Equal(t, 1.0, list[2].Prediction.Score.Displayed)

	limited, err := repo.ListBySession(ctx, sessionID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	empty, err := repo.ListBySession(ctx, uuid.New(), 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = repo.ListBySession(ctx, sessionID, 0)
	assert.Error(t, err)
}

// Property: whatever is saved is read back unchanged.
func TestProperty_PredictionRoundTrip(t *testing.T) {
	repo := setupPredictionRepo(t)
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		score := camping.Round1(rapid.Float64Range(-50, 18).Draw(rt, "score"))
		in, p := makeTestPrediction(score)
		in.Zombies = rapid.IntRange(0, 40).Draw(rt, "zombies")

		saved, err := repo.Save(ctx, uuid.New(), in, p)
		require.NoError(rt, err)
		got, err := repo.Get(ctx, saved.ID)
		require.NoError(rt, err)
		assert.Equal(rt, in, got.Input)
		assert.Equal(rt, p, got.Prediction)
	})
}
