package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "nflpulse/internal/errors"
	"nflpulse/internal/operations"
)

// RunsHandler exposes pipeline runs over HTTP: triggering a new run and
// inspecting the state of past and in-flight ones.
type RunsHandler struct {
	manager      *operations.Manager
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewRunsHandler creates a new runs handler
func NewRunsHandler(manager *operations.Manager, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *RunsHandler {
	return &RunsHandler{
		manager:      manager,
		logger:       logger.With(slog.String("handler", "runs")),
		errorHandler: errorHandler,
	}
}

// Routes returns the runs route tree
func (h *RunsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.StartRun)
	r.Get("/", h.ListRuns)

	r.Route("/{runID}", func(r chi.Router) {
		r.Use(h.RunCtx)
		r.Get("/", h.GetRun)
	})

	return r
}

// RunCtx middleware validates the runID parameter
func (h *RunsHandler) RunCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "runID") == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("runID", "Run id is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StartRun handles POST /api/runs. The run executes in the background and
// outlives the request; only one run may be active at a time.
func (h *RunsHandler) StartRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	runID, err := h.manager.Start(context.WithoutCancel(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "run rejected",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, apierrors.ErrRunAlreadyActive)
		return
	}

	h.logger.InfoContext(ctx, "run started",
		slog.String("run_id", runID))

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]interface{}{
		"run_id": runID,
		"status": "started",
	})
}

// ListRuns handles GET /api/runs
func (h *RunsHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs := h.manager.Runs()
	render.JSON(w, r, map[string]interface{}{
		"count": len(runs),
		"runs":  runs,
	})
}

// GetRun handles GET /api/runs/{runID}
func (h *RunsHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	state, ok := h.manager.GetRun(runID)
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.ErrRunNotFound)
		return
	}

	render.JSON(w, r, state.Snapshot())
}
