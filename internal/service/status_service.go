package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/asleulv/vervekart/internal/domain"
	"github.com/asleulv/vervekart/internal/repository"

	"go.uber.org/zap"
)

// StatusService validates and executes status writes and reads against the
// durable store, and publishes change events to the optional stream.
type StatusService struct {
	statuses repository.StatusRepository
	events   *EventPublisher
	logger   *zap.Logger
}

func NewStatusService(statuses repository.StatusRepository, events *EventPublisher, logger *zap.Logger) *StatusService {
	return &StatusService{statuses: statuses, events: events, logger: logger}
}

// SaveStatusRequest is one status write from the map client.
type SaveStatusRequest struct {
	Lokalid     string
	Status      string
	AddressText string
	Kommune     string
	Fylke       string
	UserID      int64
	UserName    string
	Lat         *float64
	Lon         *float64
}

// SaveStatusResponse echoes the recorded transition.
type SaveStatusResponse struct {
	HistoryID int64
	OldStatus domain.Status
	NewStatus domain.Status
	Lat       *float64
	Lon       *float64
}

func (s *StatusService) SaveStatus(ctx context.Context, req SaveStatusRequest) (*SaveStatusResponse, error) {
	if req.Lokalid == "" {
		return nil, invalidf("lokalid is required")
	}
	status := domain.Status(req.Status)
	if !status.Valid() {
		return nil, invalidf("unknown status %q", req.Status)
	}
	if req.UserID <= 0 || req.UserName == "" {
		return nil, invalidf("user_id and user_name are required")
	}

	result, err := s.statuses.SaveStatus(ctx, repository.SaveStatusParams{
		Lokalid:     req.Lokalid,
		Status:      status,
		AddressText: req.AddressText,
		Kommune:     req.Kommune,
		Fylke:       req.Fylke,
		UserID:      req.UserID,
		UserName:    req.UserName,
		Lat:         req.Lat,
		Lon:         req.Lon,
	})
	if err != nil {
		return nil, fmt.Errorf("save status: %w", err)
	}

	s.logger.Info("Status saved",
		zap.String("lokalid", req.Lokalid),
		zap.String("address", req.AddressText),
		zap.String("old_status", string(result.OldStatus)),
		zap.String("new_status", string(result.NewStatus)),
		zap.String("user", req.UserName),
	)

	s.events.PublishStatusChange(ctx, StatusEvent{
		Lokalid:   req.Lokalid,
		Kommune:   req.Kommune,
		Fylke:     req.Fylke,
		OldStatus: string(result.OldStatus),
		NewStatus: string(result.NewStatus),
		UserName:  req.UserName,
		Action:    domain.ActionStatusChange,
	})

	return &SaveStatusResponse{
		HistoryID: result.HistoryID,
		OldStatus: result.OldStatus,
		NewStatus: result.NewStatus,
		Lat:       req.Lat,
		Lon:       req.Lon,
	}, nil
}

// StatusesResponse carries a status mapping plus the query metadata the map
// client displays.
type StatusesResponse struct {
	Statuses        map[string]domain.Status
	Count           int
	ExecutionTimeMS float64
}

func (s *StatusService) GetStatuses(ctx context.Context) (*StatusesResponse, error) {
	start := time.Now()
	statuses, err := s.statuses.GetStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("get statuses: %w", err)
	}
	return &StatusesResponse{
		Statuses:        statuses,
		Count:           len(statuses),
		ExecutionTimeMS: float64(time.Since(start).Microseconds()) / 1000.0,
	}, nil
}

// GetStatusesInBounds rejects non-finite viewports, then returns statuses
// whose coordinates fall inside the box, bounds inclusive.
func (s *StatusService) GetStatusesInBounds(ctx context.Context, b repository.Bounds) (*StatusesResponse, error) {
	for name, v := range map[string]float64{"north": b.North, "south": b.South, "east": b.East, "west": b.West} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, invalidf("bound %s must be a finite number", name)
		}
	}

	start := time.Now()
	statuses, err := s.statuses.GetStatusesInBounds(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("get statuses in bounds: %w", err)
	}
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	s.logger.Debug("Bounded status query",
		zap.Int("count", len(statuses)),
		zap.Float64("execution_time_ms", elapsed),
	)

	return &StatusesResponse{
		Statuses:        statuses,
		Count:           len(statuses),
		ExecutionTimeMS: elapsed,
	}, nil
}

func (s *StatusService) GetHistory(ctx context.Context, lokalid string) ([]domain.HistoryEntry, error) {
	if lokalid == "" {
		return nil, invalidf("lokalid is required")
	}
	history, err := s.statuses.GetHistory(ctx, lokalid)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	return history, nil
}

func (s *StatusService) ListStatuses(ctx context.Context) ([]domain.AddressStatus, error) {
	rows, err := s.statuses.ListStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	return rows, nil
}

// ClearAreaRequest is one bulk region reset.
type ClearAreaRequest struct {
	Kommune  string
	Fylke    string
	UserID   int64
	UserName string
	Reason   string
}

// defaultResetReason is logged when the caller gives none.
const defaultResetReason = "Område nullstilt"

func (s *StatusService) ClearArea(ctx context.Context, req ClearAreaRequest) (*repository.ClearAreaResult, error) {
	if req.Kommune == "" || req.Fylke == "" {
		return nil, invalidf("kommune and fylke are required")
	}
	if req.UserID <= 0 || req.UserName == "" {
		return nil, invalidf("user_id and user_name are required")
	}
	reason := req.Reason
	if reason == "" {
		reason = defaultResetReason
	}

	result, err := s.statuses.ClearArea(ctx, repository.ClearAreaParams{
		Kommune:  req.Kommune,
		Fylke:    req.Fylke,
		UserID:   req.UserID,
		UserName: req.UserName,
		Reason:   reason,
	})
	if err != nil {
		return nil, fmt.Errorf("clear area: %w", err)
	}

	if result.Affected > 0 {
		s.logger.Info("Area reset",
			zap.String("kommune", req.Kommune),
			zap.String("fylke", req.Fylke),
			zap.Int("affected", result.Affected),
			zap.String("user", req.UserName),
		)
		s.events.PublishStatusChange(ctx, StatusEvent{
			Kommune:   req.Kommune,
			Fylke:     req.Fylke,
			NewStatus: string(domain.StatusUntouched),
			UserName:  req.UserName,
			Action:    domain.ActionBulkReset,
		})
	}

	return result, nil
}
