package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "nflpulse/internal/errors"
)

// RankingsHandler serves the power rankings and per-team statistics
type RankingsHandler struct {
	service      StatsServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewRankingsHandler creates a new rankings handler
func NewRankingsHandler(service StatsServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *RankingsHandler {
	return &RankingsHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "rankings")),
		errorHandler: errorHandler,
	}
}

// Routes returns the rankings route tree
func (h *RankingsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetRankings)

	r.Route("/{teamID}", func(r chi.Router) {
		r.Use(h.TeamCtx)
		r.Get("/", h.GetTeamStats)
	})

	return r
}

// TeamCtx middleware validates the teamID parameter
func (h *RankingsHandler) TeamCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "teamID")

		teamID, err := strconv.Atoi(raw)
		if err != nil || teamID < 1 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("teamID",
				fmt.Sprintf("Invalid team id: %s", raw)))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetRankings handles GET /api/rankings. An optional limit query parameter
// truncates the table to the strongest N teams.
func (h *RankingsHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("limit",
				fmt.Sprintf("Invalid limit: %s", raw)))
			return
		}
		limit = parsed
	}

	stats, err := h.service.TopTeams(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load rankings",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"count":    len(stats),
		"rankings": stats,
	})
}

// GetTeamStats handles GET /api/rankings/{teamID}
func (h *RankingsHandler) GetTeamStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	teamID, _ := strconv.Atoi(chi.URLParam(r, "teamID"))

	stats, err := h.service.TeamStatsByID(ctx, teamID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load team statistics",
			slog.Int("team_id", teamID),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, stats)
}
