package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "nflpulse/internal/errors"
	"nflpulse/pkg/contracts/domain"
)

type fakeStatsService struct {
	stats []domain.TeamStats
	err   error
}

func (f *fakeStatsService) TeamStats(ctx context.Context) ([]domain.TeamStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func (f *fakeStatsService) TeamStatsByID(ctx context.Context, teamID int) (domain.TeamStats, error) {
	if f.err != nil {
		return domain.TeamStats{}, f.err
	}
	for _, ts := range f.stats {
		if ts.TeamID == teamID {
			return ts, nil
		}
	}
	return domain.TeamStats{}, apierrors.NewNotFoundError("team")
}

func (f *fakeStatsService) TopTeams(ctx context.Context, limit int) ([]domain.TeamStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && limit < len(f.stats) {
		return f.stats[:limit], nil
	}
	return f.stats, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRankingsServer(svc StatsServiceInterface) *httptest.Server {
	logger := testLogger()
	handler := NewRankingsHandler(svc, logger, apierrors.NewErrorHandler(logger, false))
	return httptest.NewServer(handler.Routes())
}

func TestGetRankings(t *testing.T) {
	svc := &fakeStatsService{stats: []domain.TeamStats{
		{TeamID: 5, WinPercentage: 0.8, PowerRanking: 1},
		{TeamID: 2, WinPercentage: 0.6, PowerRanking: 2},
		{TeamID: 9, WinPercentage: 0.4, PowerRanking: 3},
	}}
	server := newRankingsServer(svc)
	defer server.Close()

	t.Run("full table", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Count    int                `json:"count"`
			Rankings []domain.TeamStats `json:"rankings"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 3, body.Count)
		assert.Equal(t, 5, body.Rankings[0].TeamID)
	})

	t.Run("limit applied", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/?limit=2")
		require.NoError(t, err)
		defer resp.Body.Close()

		var body struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 2, body.Count)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/?limit=zero")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "application/problem+json")
	})
}

func TestGetTeamStats(t *testing.T) {
	svc := &fakeStatsService{stats: []domain.TeamStats{
		{TeamID: 5, WinPercentage: 0.8, PowerRanking: 1},
	}}
	server := newRankingsServer(svc)
	defer server.Close()

	t.Run("found", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/5")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var ts domain.TeamStats
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&ts))
		assert.Equal(t, 5, ts.TeamID)
		assert.Equal(t, 1, ts.PowerRanking)
	})

	t.Run("unknown team", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/42")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("non numeric id", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/eagles")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("zero id", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/0")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetRankingsServiceErrors(t *testing.T) {
	t.Run("statistics missing", func(t *testing.T) {
		server := newRankingsServer(&fakeStatsService{
			err: apierrors.NewNotFoundError("team statistics"),
		})
		defer server.Close()

		resp, err := http.Get(server.URL + "/")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("storage failure", func(t *testing.T) {
		server := newRankingsServer(&fakeStatsService{
			err: apierrors.NewStorageError("read artifact", io.ErrUnexpectedEOF),
		})
		defer server.Close()

		resp, err := http.Get(server.URL + "/")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}
