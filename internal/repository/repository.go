package repository

import (
	"context"

	"github.com/asleulv/vervekart/internal/domain"
)

// Bounds is a rectangular lat/lon region (a map viewport).
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// SaveStatusParams carries one validated status write.
type SaveStatusParams struct {
	Lokalid     string
	Status      domain.Status
	AddressText string
	Kommune     string
	Fylke       string
	UserID      int64
	UserName    string
	Lat         *float64
	Lon         *float64
}

// SaveStatusResult reports the recorded transition.
type SaveStatusResult struct {
	HistoryID int64
	OldStatus domain.Status
	NewStatus domain.Status
}

// ClearAreaParams carries one validated region reset.
type ClearAreaParams struct {
	Kommune  string
	Fylke    string
	UserID   int64
	UserName string
	Reason   string
}

// ClearAreaResult reports what the reset actually touched. Affected is
// recomputed inside the transaction, so it always equals the number of rows
// deleted and bulk_reset history rows written.
type ClearAreaResult struct {
	Affected   int
	ResetLogID int64
}

// UsersRepository manages volunteer registration.
type UsersRepository interface {
	// RegisterUser creates the user on first call and returns the existing
	// row on repeat registrations with the same name.
	RegisterUser(ctx context.Context, name, email string) (*domain.User, error)
}

// StatusRepository is the durable status store. SaveStatus and ClearArea are
// transactional: the current view and the history log never diverge.
type StatusRepository interface {
	SaveStatus(ctx context.Context, p SaveStatusParams) (*SaveStatusResult, error)
	GetStatuses(ctx context.Context) (map[string]domain.Status, error)
	GetStatusesInBounds(ctx context.Context, b Bounds) (map[string]domain.Status, error)
	ListStatuses(ctx context.Context) ([]domain.AddressStatus, error)
	GetHistory(ctx context.Context, lokalid string) ([]domain.HistoryEntry, error)
	ClearArea(ctx context.Context, p ClearAreaParams) (*ClearAreaResult, error)
}

// StatsRepository serves the aggregate queries behind the stats endpoints.
// day is a YYYY-MM-DD date; empty means unrestricted. limit <= 0 means no cap.
type StatsRepository interface {
	CurrentStats(ctx context.Context) ([]domain.CurrentStat, error)
	UserActivity(ctx context.Context, day string) ([]domain.UserActivity, error)
	DailyActivity(ctx context.Context, day string, limit int) ([]domain.DailyActivity, error)
}
