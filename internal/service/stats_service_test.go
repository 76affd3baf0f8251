package service

import (
	"context"
	"testing"

	"github.com/asleulv/vervekart/internal/domain"
	"github.com/asleulv/vervekart/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStatsAggregation(t *testing.T) {
	repo := repository.NewMemoryStatusRepo()
	statusSvc := NewStatusService(repo, nil, zap.NewNop())
	statsSvc := NewStatsService(repo, zap.NewNop())
	ctx := context.Background()

	save := func(lokalid, status, kommune string, userID int64, userName string) {
		_, err := statusSvc.SaveStatus(ctx, SaveStatusRequest{
			Lokalid: lokalid, Status: status, Kommune: kommune, Fylke: "Oslo",
			UserID: userID, UserName: userName,
		})
		require.NoError(t, err)
	}
	save("a1", "Ja", "Oslo", 1, "Kari")
	save("a2", "Nei", "Oslo", 1, "Kari")
	save("a3", "Ikke hjemme", "Oslo", 2, "Ola")
	save("b1", "Ja", "Bærum", 2, "Ola")

	resp, err := statsSvc.AdvancedStats(ctx)
	require.NoError(t, err)
	assert.Empty(t, resp.Date)

	counts := map[string]int{}
	for _, c := range resp.CurrentStats {
		counts[c.Kommune+"/"+string(c.CurrentStatus)] = c.Count
	}
	assert.Equal(t, 1, counts["Oslo/Ja"])
	assert.Equal(t, 1, counts["Oslo/Nei"])
	assert.Equal(t, 1, counts["Oslo/Ikke hjemme"])
	assert.Equal(t, 1, counts["Bærum/Ja"])

	require.Len(t, resp.UserActivity, 2)
	kari := resp.UserActivity[0]
	assert.Equal(t, "Kari", kari.ChangedByName)
	assert.Equal(t, 2, kari.TotalChanges)
	assert.Equal(t, 1, kari.JaCount)
	assert.Equal(t, 1, kari.NeiCount)
	assert.Equal(t, 0, kari.IkkeHjemmeCount)
	assert.False(t, kari.LastActivity.Before(kari.FirstActivity))

	require.Len(t, resp.DailyActivity, 1)
	assert.Equal(t, 4, resp.DailyActivity[0].Changes)
	assert.Equal(t, 2, resp.DailyActivity[0].ActiveUsers)
}

func TestUserActivityTieOrdering(t *testing.T) {
	repo := repository.NewMemoryStatusRepo()
	statusSvc := NewStatusService(repo, nil, zap.NewNop())
	statsSvc := NewStatsService(repo, zap.NewNop())
	ctx := context.Background()

	// Three volunteers with identical totals; ties order by name so the
	// listing is stable run to run.
	save := func(lokalid string, userID int64, userName string) {
		_, err := statusSvc.SaveStatus(ctx, SaveStatusRequest{
			Lokalid: lokalid, Status: "Ja", Kommune: "Oslo", Fylke: "Oslo",
			UserID: userID, UserName: userName,
		})
		require.NoError(t, err)
	}
	save("a1", 2, "Ola")
	save("a2", 3, "Anne")
	save("a3", 1, "Kari")

	for i := 0; i < 10; i++ {
		resp, err := statsSvc.AdvancedStats(ctx)
		require.NoError(t, err)
		require.Len(t, resp.UserActivity, 3)
		assert.Equal(t, "Anne", resp.UserActivity[0].ChangedByName)
		assert.Equal(t, "Kari", resp.UserActivity[1].ChangedByName)
		assert.Equal(t, "Ola", resp.UserActivity[2].ChangedByName)
	}
}

func TestDailyStatsIsDated(t *testing.T) {
	repo := repository.NewMemoryStatusRepo()
	statsSvc := NewStatsService(repo, zap.NewNop())

	resp, err := statsSvc.DailyStats(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, resp.Date)
	assert.Empty(t, resp.CurrentStats)
	assert.Empty(t, resp.UserActivity)
	assert.Empty(t, resp.DailyActivity)
}

func TestStatsExcludeBulkResets(t *testing.T) {
	repo := repository.NewMemoryStatusRepo()
	statusSvc := NewStatusService(repo, nil, zap.NewNop())
	statsSvc := NewStatsService(repo, zap.NewNop())
	ctx := context.Background()

	_, err := statusSvc.SaveStatus(ctx, SaveStatusRequest{
		Lokalid: "a1", Status: "Ja", Kommune: "Oslo", Fylke: "Oslo",
		UserID: 1, UserName: "Kari",
	})
	require.NoError(t, err)

	_, err = statusSvc.ClearArea(ctx, ClearAreaRequest{
		Kommune: "Oslo", Fylke: "Oslo", UserID: 2, UserName: "Ola",
	})
	require.NoError(t, err)

	resp, err := statsSvc.AdvancedStats(ctx)
	require.NoError(t, err)

	// The reset wiped the current view and its bulk_reset rows do not count
	// as volunteer activity.
	assert.Empty(t, resp.CurrentStats)
	require.Len(t, resp.UserActivity, 1)
	assert.Equal(t, "Kari", resp.UserActivity[0].ChangedByName)
	assert.Equal(t, 1, repo.HistoryCount(domain.ActionBulkReset))
}
