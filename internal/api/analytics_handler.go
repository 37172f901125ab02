package api

import (
	"log/slog"
	"net/http"

	"github.com/taskpulse/taskpulse-api/internal/api/middleware"
	"github.com/taskpulse/taskpulse-api/internal/api/shared"
	"github.com/taskpulse/taskpulse-api/internal/service"
)

// AnalyticsHandler serves the derived-metrics endpoints.
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	logger           *slog.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService service.AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger.With("component", "analytics_handler"),
	}
}

// Overview handles GET /api/analytics/overview requests.
func (h *AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	overview, err := h.analyticsService.Overview(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to compute overview", "error", err)
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, overview)
}

// Productivity handles GET /api/analytics/productivity requests.
func (h *AnalyticsHandler) Productivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	productivity, err := h.analyticsService.Productivity(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to compute productivity", "error", err)
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, productivity)
}

// Trends handles GET /api/analytics/trends requests.
func (h *AnalyticsHandler) Trends(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	trends, err := h.analyticsService.Trends(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to compute trends", "error", err)
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, trends)
}
