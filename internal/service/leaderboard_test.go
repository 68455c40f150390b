package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prediction-league/internal/model"
)

func newLeaderboardService(env *testEnv) *LeaderboardService {
	return NewLeaderboardService(env.matchRepo, env.predictionRepo, env.betRepo, env.userRepo)
}

func TestGetMatchLeaderboard_RequiresFinishedMatch(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	env := newTestEnv(t, pool)
	svc := newLeaderboardService(env)

	_, err := svc.GetMatchLeaderboard(context.Background(), env.matchID)
	assert.ErrorIs(t, err, ErrMatchNotFinished)
}

func TestGetMatchLeaderboard_Ordering(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	env := newTestEnv(t, pool)
	svc := newLeaderboardService(env)
	ctx := context.Background()

	predictionID := env.addPrediction(t, "Total maps", model.PredictionNumerical, 5, "3")

	alice := env.addUser(t, "alice")
	bob := env.addUser(t, "bob")
	carol := env.addUser(t, "carol")

	// alice: winner + answer, bob: winner only, carol: nothing right
	_, err := env.betRepo.Save(ctx, env.matchID, alice, &env.teamOne, map[int64]string{predictionID: "3"})
	require.NoError(t, err)
	_, err = env.betRepo.Save(ctx, env.matchID, bob, &env.teamOne, map[int64]string{predictionID: "4"})
	require.NoError(t, err)
	_, err = env.betRepo.Save(ctx, env.matchID, carol, nil, nil)
	require.NoError(t, err)

	_, err = env.matchRepo.RecordResult(ctx, env.matchID, 2, 1, nil, nil)
	require.NoError(t, err)

	entries, err := svc.GetMatchLeaderboard(ctx, env.matchID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, 15, entries[0].TotalPoints)
	assert.Equal(t, "bob", entries[1].Username)
	assert.Equal(t, 10, entries[1].TotalPoints)
	assert.Equal(t, "carol", entries[2].Username)
	assert.Equal(t, 0, entries[2].TotalPoints)
}

func TestGetUserBetDetail_BeforeAndAfterResult(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	env := newTestEnv(t, pool)
	svc := newLeaderboardService(env)
	ctx := context.Background()

	predictionID := env.addPrediction(t, "Total maps", model.PredictionNumerical, 5, "3")

	alice := env.addUser(t, "alice")
	_, err := env.betRepo.Save(ctx, env.matchID, alice, &env.teamOne, map[int64]string{predictionID: "3"})
	require.NoError(t, err)

	// Before the result: submitted values visible, no points
	detail, err := svc.GetUserBetDetail(ctx, alice, env.matchID)
	require.NoError(t, err)
	assert.Equal(t, env.teamOne, detail.ChosenWinner)
	assert.Equal(t, 0, detail.TotalPoints)
	assert.False(t, detail.Settled)
	require.Len(t, detail.Breakdown, 1)
	assert.Equal(t, "3", detail.Breakdown[0].SubmittedValue)
	assert.Equal(t, 0, detail.Breakdown[0].PointsEarned)

	_, err = env.matchRepo.RecordResult(ctx, env.matchID, 2, 1, nil, nil)
	require.NoError(t, err)
	_, err = env.settlement.SettleMatch(ctx, env.matchID)
	require.NoError(t, err)

	detail, err = svc.GetUserBetDetail(ctx, alice, env.matchID)
	require.NoError(t, err)
	assert.Equal(t, 10, detail.WinnerPoints)
	assert.Equal(t, 15, detail.TotalPoints)
	assert.True(t, detail.Settled)
	require.Len(t, detail.Breakdown, 1)
	assert.Equal(t, 5, detail.Breakdown[0].PointsEarned)
}

func TestGetStandings(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	env := newTestEnv(t, pool)
	svc := newLeaderboardService(env)
	ctx := context.Background()

	alice := env.addUser(t, "alice")
	_, err := env.betRepo.Save(ctx, env.matchID, alice, &env.teamOne, nil)
	require.NoError(t, err)

	_, err = env.matchRepo.RecordResult(ctx, env.matchID, 1, 0, nil, nil)
	require.NoError(t, err)
	_, err = env.settlement.SettleMatch(ctx, env.matchID)
	require.NoError(t, err)

	users, err := svc.GetStandings(ctx, 10)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, 10, users[0].Score)
}
