package domain

import "time"

// HistoryEntry is one append-only audit row recording a status transition.
// Entries are never updated or deleted.
type HistoryEntry struct {
	ID            int64     `json:"id"`
	Lokalid       string    `json:"lokalid"`
	AddressText   string    `json:"address_text"`
	Kommune       string    `json:"kommune"`
	Fylke         string    `json:"fylke"`
	OldStatus     Status    `json:"old_status"`
	NewStatus     Status    `json:"new_status"`
	ChangedBy     int64     `json:"changed_by"`
	ChangedByName string    `json:"changed_by_name"`
	ChangedAt     time.Time `json:"changed_at"`
	ActionType    string    `json:"action_type"`
	Notes         string    `json:"notes,omitempty"`
}
