package domain

import "time"

// AddressStatus is the materialized current view for one address, keyed by
// lokalid. Rows are fully overwritten on every write and deleted only by a
// region reset; the history table preserves the past.
type AddressStatus struct {
	ID            int64     `json:"id"`
	Lokalid       string    `json:"lokalid"`
	AddressText   string    `json:"address_text"`
	Kommune       string    `json:"kommune"`
	Fylke         string    `json:"fylke"`
	CurrentStatus Status    `json:"current_status"`
	LastChangedBy int64     `json:"last_changed_by"`
	LastChangedAt time.Time `json:"last_changed_at"`
	Lat           *float64  `json:"lat,omitempty"`
	Lon           *float64  `json:"lon,omitempty"`
}
