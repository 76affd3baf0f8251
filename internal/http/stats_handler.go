package httpapi

import (
	"net/http"

	"github.com/asleulv/vervekart/internal/domain"
	"github.com/asleulv/vervekart/internal/service"

	"go.uber.org/zap"
)

// StatsHandler serves the aggregate reporting endpoints.
type StatsHandler struct {
	statsService *service.StatsService
	logger       *zap.Logger
}

func NewStatsHandler(statsService *service.StatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{statsService: statsService, logger: logger}
}

type statsResponse struct {
	CurrentStats  []domain.CurrentStat   `json:"current_stats"`
	UserActivity  []domain.UserActivity  `json:"user_activity"`
	DailyActivity []domain.DailyActivity `json:"daily_activity"`
	Date          string                 `json:"date,omitempty"`
}

func (h *StatsHandler) DailyStats(w http.ResponseWriter, r *http.Request) {
	resp, err := h.statsService.DailyStats(r.Context())
	if err != nil {
		h.logger.Error("DailyStats failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsResponse(resp))
}

func (h *StatsHandler) AdvancedStats(w http.ResponseWriter, r *http.Request) {
	resp, err := h.statsService.AdvancedStats(r.Context())
	if err != nil {
		h.logger.Error("AdvancedStats failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsResponse(resp))
}

func toStatsResponse(resp *service.StatsResponse) statsResponse {
	out := statsResponse{
		CurrentStats:  resp.CurrentStats,
		UserActivity:  resp.UserActivity,
		DailyActivity: resp.DailyActivity,
		Date:          resp.Date,
	}
	if out.CurrentStats == nil {
		out.CurrentStats = []domain.CurrentStat{}
	}
	if out.UserActivity == nil {
		out.UserActivity = []domain.UserActivity{}
	}
	if out.DailyActivity == nil {
		out.DailyActivity = []domain.DailyActivity{}
	}
	return out
}
