package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/asleulv/vervekart/internal/domain"
	"github.com/asleulv/vervekart/internal/service"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// statusExportHeader lists the columns of the current-status sheet.
var statusExportHeader = []string{
	"Lokalid",
	"Address",
	"Kommune",
	"Fylke",
	"Status",
	"Last Changed At",
	"Lat",
	"Lon",
}

// activityExportHeader lists the columns of the per-user activity sheet.
var activityExportHeader = []string{
	"User",
	"Total Changes",
	"Ja",
	"Nei",
	"Ikke hjemme",
	"First Activity",
	"Last Activity",
}

// ExportHandler produces the coordinator's Excel workbook: one sheet with
// every current status, one with all-time per-user activity.
type ExportHandler struct {
	statusService *service.StatusService
	statsService  *service.StatsService
	logger        *zap.Logger
}

func NewExportHandler(statusService *service.StatusService, statsService *service.StatsService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{statusService: statusService, statsService: statsService, logger: logger}
}

func (h *ExportHandler) ExportStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.statusService.ListStatuses(r.Context())
	if err != nil {
		h.logger.Error("Export: listing statuses failed", zap.Error(err))
		writeError(w, err)
		return
	}
	stats, err := h.statsService.AdvancedStats(r.Context())
	if err != nil {
		h.logger.Error("Export: collecting stats failed", zap.Error(err))
		writeError(w, err)
		return
	}

	data, err := GenerateStatusExport(statuses, stats.UserActivity)
	if err != nil {
		h.logger.Error("Export: workbook generation failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "export failed"})
		return
	}

	filename := fmt.Sprintf("vervekart-statuses-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// GenerateStatusExport builds the xlsx workbook bytes.
func GenerateStatusExport(statuses []domain.AddressStatus, activity []domain.UserActivity) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open, so no deferred Close on the happy path.

	statusSheet := "Statuses"
	index, err := f.NewSheet(statusSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for col, header := range statusExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(statusSheet, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}
	for row, s := range statuses {
		values := []any{
			s.Lokalid,
			s.AddressText,
			s.Kommune,
			s.Fylke,
			string(s.CurrentStatus),
			s.LastChangedAt.Format(time.RFC3339),
			floatOrEmpty(s.Lat),
			floatOrEmpty(s.Lon),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(statusSheet, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write status row: %w", err)
			}
		}
	}

	activitySheet := "User Activity"
	if _, err := f.NewSheet(activitySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	for col, header := range activityExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(activitySheet, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}
	for row, a := range activity {
		values := []any{
			a.ChangedByName,
			a.TotalChanges,
			a.JaCount,
			a.NeiCount,
			a.IkkeHjemmeCount,
			a.FirstActivity.Format(time.RFC3339),
			a.LastActivity.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(activitySheet, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write activity row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func floatOrEmpty(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
