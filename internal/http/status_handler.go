package httpapi

import (
	"net/http"

	"github.com/asleulv/vervekart/internal/domain"
	"github.com/asleulv/vervekart/internal/repository"
	"github.com/asleulv/vervekart/internal/service"

	"go.uber.org/zap"
)

// StatusHandler serves the status write/read/reset endpoints.
type StatusHandler struct {
	statusService *service.StatusService
	logger        *zap.Logger
}

func NewStatusHandler(statusService *service.StatusService, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{statusService: statusService, logger: logger}
}

type saveStatusRequest struct {
	Lokalid     string   `json:"lokalid"`
	Status      string   `json:"status"`
	AddressText string   `json:"address_text"`
	Kommune     string   `json:"kommune"`
	Fylke       string   `json:"fylke"`
	UserID      int64    `json:"user_id"`
	UserName    string   `json:"user_name"`
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`
}

type coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type saveStatusResponse struct {
	Success     bool          `json:"success"`
	HistoryID   int64         `json:"history_id"`
	OldStatus   domain.Status `json:"old_status"`
	NewStatus   domain.Status `json:"new_status"`
	Coordinates *coordinates  `json:"coordinates,omitempty"`
}

func (h *StatusHandler) SaveStatus(w http.ResponseWriter, r *http.Request) {
	var req saveStatusRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	resp, err := h.statusService.SaveStatus(r.Context(), service.SaveStatusRequest{
		Lokalid:     req.Lokalid,
		Status:      req.Status,
		AddressText: req.AddressText,
		Kommune:     req.Kommune,
		Fylke:       req.Fylke,
		UserID:      req.UserID,
		UserName:    req.UserName,
		Lat:         req.Lat,
		Lon:         req.Lon,
	})
	if err != nil {
		h.logger.Error("SaveStatus failed", zap.Error(err))
		writeError(w, err)
		return
	}

	out := saveStatusResponse{
		Success:   true,
		HistoryID: resp.HistoryID,
		OldStatus: resp.OldStatus,
		NewStatus: resp.NewStatus,
	}
	if resp.Lat != nil && resp.Lon != nil {
		out.Coordinates = &coordinates{Lat: *resp.Lat, Lon: *resp.Lon}
	}
	writeJSON(w, http.StatusOK, out)
}

type statusesResponse struct {
	Statuses        map[string]domain.Status `json:"statuses"`
	Bounds          *repository.Bounds       `json:"bounds,omitempty"`
	Count           int                      `json:"count"`
	ExecutionTimeMS float64                  `json:"execution_time_ms"`
}

func (h *StatusHandler) GetStatuses(w http.ResponseWriter, r *http.Request) {
	resp, err := h.statusService.GetStatuses(r.Context())
	if err != nil {
		h.logger.Error("GetStatuses failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusesResponse{
		Statuses:        resp.Statuses,
		Count:           resp.Count,
		ExecutionTimeMS: resp.ExecutionTimeMS,
	})
}

type boundsRequest struct {
	North *float64 `json:"north"`
	South *float64 `json:"south"`
	East  *float64 `json:"east"`
	West  *float64 `json:"west"`
}

func (h *StatusHandler) GetStatusesBounds(w http.ResponseWriter, r *http.Request) {
	var req boundsRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.North == nil || req.South == nil || req.East == nil || req.West == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "north, south, east and west must all be numbers"})
		return
	}

	bounds := repository.Bounds{North: *req.North, South: *req.South, East: *req.East, West: *req.West}
	resp, err := h.statusService.GetStatusesInBounds(r.Context(), bounds)
	if err != nil {
		h.logger.Error("GetStatusesBounds failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusesResponse{
		Statuses:        resp.Statuses,
		Bounds:          &bounds,
		Count:           resp.Count,
		ExecutionTimeMS: resp.ExecutionTimeMS,
	})
}

type historyResponse struct {
	Lokalid      string                `json:"lokalid"`
	History      []domain.HistoryEntry `json:"history"`
	TotalChanges int                   `json:"total_changes"`
}

func (h *StatusHandler) History(w http.ResponseWriter, r *http.Request, lokalid string) {
	history, err := h.statusService.GetHistory(r.Context(), lokalid)
	if err != nil {
		h.logger.Error("History failed", zap.Error(err))
		writeError(w, err)
		return
	}
	if history == nil {
		history = []domain.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, historyResponse{
		Lokalid:      lokalid,
		History:      history,
		TotalChanges: len(history),
	})
}

type clearAreaRequest struct {
	Kommune  string `json:"kommune"`
	Fylke    string `json:"fylke"`
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
	Reason   string `json:"reason,omitempty"`
}

type clearAreaResponse struct {
	Success    bool   `json:"success"`
	Affected   int    `json:"affected"`
	ResetLogID int64  `json:"reset_log_id,omitempty"`
	Message    string `json:"message,omitempty"`
}

func (h *StatusHandler) ClearArea(w http.ResponseWriter, r *http.Request) {
	var req clearAreaRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	result, err := h.statusService.ClearArea(r.Context(), service.ClearAreaRequest{
		Kommune:  req.Kommune,
		Fylke:    req.Fylke,
		UserID:   req.UserID,
		UserName: req.UserName,
		Reason:   req.Reason,
	})
	if err != nil {
		h.logger.Error("ClearArea failed", zap.Error(err))
		writeError(w, err)
		return
	}

	out := clearAreaResponse{Success: true, Affected: result.Affected, ResetLogID: result.ResetLogID}
	if result.Affected == 0 {
		out.Message = "Ingen adresser å nullstille"
	}
	writeJSON(w, http.StatusOK, out)
}
