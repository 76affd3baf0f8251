package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/asleulv/vervekart/internal/domain"
)

// MemoryStatusRepo implements StatusRepository and StatsRepository on plain
// maps. It keeps the API usable without a database and gives the unit tests a
// store with the same observable semantics as the Postgres implementation.
type MemoryStatusRepo struct {
	mu            sync.RWMutex
	current       map[string]domain.AddressStatus // lokalid -> current row
	history       []domain.HistoryEntry
	resets        []domain.ResetLogEntry
	nextHistoryID int64
	nextResetID   int64
}

func NewMemoryStatusRepo() *MemoryStatusRepo {
	return &MemoryStatusRepo{
		current:       map[string]domain.AddressStatus{},
		nextHistoryID: 1,
		nextResetID:   1,
	}
}

var (
	_ StatusRepository = (*MemoryStatusRepo)(nil)
	_ StatsRepository  = (*MemoryStatusRepo)(nil)
)

func (r *MemoryStatusRepo) SaveStatus(_ context.Context, p SaveStatusParams) (*SaveStatusResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	oldStatus := domain.StatusUntouched
	if row, ok := r.current[p.Lokalid]; ok {
		oldStatus = row.CurrentStatus
	}

	now := time.Now()
	r.current[p.Lokalid] = domain.AddressStatus{
		Lokalid:       p.Lokalid,
		AddressText:   p.AddressText,
		Kommune:       p.Kommune,
		Fylke:         p.Fylke,
		CurrentStatus: p.Status,
		LastChangedBy: p.UserID,
		LastChangedAt: now,
		Lat:           p.Lat,
		Lon:           p.Lon,
	}

	entry := domain.HistoryEntry{
		ID:            r.nextHistoryID,
		Lokalid:       p.Lokalid,
		AddressText:   p.AddressText,
		Kommune:       p.Kommune,
		Fylke:         p.Fylke,
		OldStatus:     oldStatus,
		NewStatus:     p.Status,
		ChangedBy:     p.UserID,
		ChangedByName: p.UserName,
		ChangedAt:     now,
		ActionType:    domain.ActionStatusChange,
	}
	r.nextHistoryID++
	r.history = append(r.history, entry)

	return &SaveStatusResult{
		HistoryID: entry.ID,
		OldStatus: oldStatus,
		NewStatus: p.Status,
	}, nil
}

func (r *MemoryStatusRepo) GetStatuses(_ context.Context) (map[string]domain.Status, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statuses := make(map[string]domain.Status, len(r.current))
	for lokalid, row := range r.current {
		statuses[lokalid] = row.CurrentStatus
	}
	return statuses, nil
}

func (r *MemoryStatusRepo) GetStatusesInBounds(_ context.Context, b Bounds) (map[string]domain.Status, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statuses := make(map[string]domain.Status)
	for lokalid, row := range r.current {
		if row.Lat == nil || row.Lon == nil {
			continue
		}
		if *row.Lat >= b.South && *row.Lat <= b.North && *row.Lon >= b.West && *row.Lon <= b.East {
			statuses[lokalid] = row.CurrentStatus
		}
	}
	return statuses, nil
}

func (r *MemoryStatusRepo) ListStatuses(_ context.Context) ([]domain.AddressStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.AddressStatus, 0, len(r.current))
	for _, row := range r.current {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kommune != out[j].Kommune {
			return out[i].Kommune < out[j].Kommune
		}
		return out[i].AddressText < out[j].AddressText
	})
	return out, nil
}

func (r *MemoryStatusRepo) GetHistory(_ context.Context, lokalid string) ([]domain.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.HistoryEntry
	for _, e := range r.history {
		if e.Lokalid == lokalid {
			out = append(out, e)
		}
	}
	// Newest first, matching the Postgres ORDER BY.
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *MemoryStatusRepo) ClearArea(_ context.Context, p ClearAreaParams) (*ClearAreaResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.AddressStatus
	for _, row := range r.current {
		if row.Kommune == p.Kommune && row.Fylke == p.Fylke {
			matched = append(matched, row)
		}
	}
	if len(matched) == 0 {
		return &ClearAreaResult{Affected: 0}, nil
	}

	now := time.Now()
	for _, row := range matched {
		r.history = append(r.history, domain.HistoryEntry{
			ID:            r.nextHistoryID,
			Lokalid:       row.Lokalid,
			AddressText:   row.AddressText,
			Kommune:       row.Kommune,
			Fylke:         row.Fylke,
			OldStatus:     row.CurrentStatus,
			NewStatus:     domain.StatusUntouched,
			ChangedBy:     p.UserID,
			ChangedByName: p.UserName,
			ChangedAt:     now,
			ActionType:    domain.ActionBulkReset,
			Notes:         p.Reason,
		})
		r.nextHistoryID++
		delete(r.current, row.Lokalid)
	}

	entry := domain.ResetLogEntry{
		ID:                r.nextResetID,
		Kommune:           p.Kommune,
		Fylke:             p.Fylke,
		ResetBy:           p.UserID,
		ResetByName:       p.UserName,
		AddressesAffected: len(matched),
		ResetAt:           now,
		Reason:            p.Reason,
	}
	r.nextResetID++
	r.resets = append(r.resets, entry)

	return &ClearAreaResult{Affected: len(matched), ResetLogID: entry.ID}, nil
}

func (r *MemoryStatusRepo) CurrentStats(_ context.Context) ([]domain.CurrentStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type key struct {
		kommune string
		status  domain.Status
	}
	counts := map[key]int{}
	for _, row := range r.current {
		counts[key{row.Kommune, row.CurrentStatus}]++
	}

	out := make([]domain.CurrentStat, 0, len(counts))
	for k, n := range counts {
		out = append(out, domain.CurrentStat{Kommune: k.kommune, CurrentStatus: k.status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kommune != out[j].Kommune {
			return out[i].Kommune < out[j].Kommune
		}
		return out[i].CurrentStatus < out[j].CurrentStatus
	})
	return out, nil
}

func (r *MemoryStatusRepo) UserActivity(_ context.Context, day string) ([]domain.UserActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byUser := map[string]*domain.UserActivity{}
	for _, e := range r.history {
		if e.ActionType != domain.ActionStatusChange {
			continue
		}
		if day != "" && e.ChangedAt.Format("2006-01-02") != day {
			continue
		}
		a, ok := byUser[e.ChangedByName]
		if !ok {
			a = &domain.UserActivity{
				ChangedByName: e.ChangedByName,
				FirstActivity: e.ChangedAt,
				LastActivity:  e.ChangedAt,
			}
			byUser[e.ChangedByName] = a
		}
		a.TotalChanges++
		switch e.NewStatus {
		case domain.StatusYes:
			a.JaCount++
		case domain.StatusNo:
			a.NeiCount++
		case domain.StatusNotHome:
			a.IkkeHjemmeCount++
		}
		if e.ChangedAt.Before(a.FirstActivity) {
			a.FirstActivity = e.ChangedAt
		}
		if e.ChangedAt.After(a.LastActivity) {
			a.LastActivity = e.ChangedAt
		}
	}

	out := make([]domain.UserActivity, 0, len(byUser))
	for _, a := range byUser {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalChanges != out[j].TotalChanges {
			return out[i].TotalChanges > out[j].TotalChanges
		}
		return out[i].ChangedByName < out[j].ChangedByName
	})
	return out, nil
}

func (r *MemoryStatusRepo) DailyActivity(_ context.Context, day string, limit int) ([]domain.DailyActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type agg struct {
		changes int
		users   map[int64]bool
	}
	byDay := map[string]*agg{}
	for _, e := range r.history {
		if e.ActionType != domain.ActionStatusChange {
			continue
		}
		d := e.ChangedAt.Format("2006-01-02")
		if day != "" && d != day {
			continue
		}
		a, ok := byDay[d]
		if !ok {
			a = &agg{users: map[int64]bool{}}
			byDay[d] = a
		}
		a.changes++
		a.users[e.ChangedBy] = true
	}

	out := make([]domain.DailyActivity, 0, len(byDay))
	for d, a := range byDay {
		out = append(out, domain.DailyActivity{Date: d, Changes: a.changes, ActiveUsers: len(a.users)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ResetLog exposes the recorded resets for tests.
func (r *MemoryStatusRepo) ResetLog() []domain.ResetLogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ResetLogEntry, len(r.resets))
	copy(out, r.resets)
	return out
}

// HistoryCount reports how many history rows match an action type, for tests.
func (r *MemoryStatusRepo) HistoryCount(action string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, e := range r.history {
		if e.ActionType == action {
			n++
		}
	}
	return n
}
