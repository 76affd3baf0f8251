package domain

import "time"

// ResetLogEntry records one bulk clear of a region. AddressesAffected equals
// the number of current-status rows deleted and the number of bulk_reset
// history rows written in the same transaction.
type ResetLogEntry struct {
	ID                int64     `json:"id"`
	Kommune           string    `json:"kommune"`
	Fylke             string    `json:"fylke"`
	ResetBy           int64     `json:"reset_by"`
	ResetByName       string    `json:"reset_by_name"`
	AddressesAffected int       `json:"addresses_affected"`
	ResetAt           time.Time `json:"reset_at"`
	Reason            string    `json:"reason"`
}
