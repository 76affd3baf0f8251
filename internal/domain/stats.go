package domain

import "time"

// CurrentStat is a per-(kommune, status) count over the current view.
type CurrentStat struct {
	Kommune       string `json:"kommune"`
	CurrentStatus Status `json:"current_status"`
	Count         int    `json:"count"`
}

// UserActivity aggregates one volunteer's status changes.
type UserActivity struct {
	ChangedByName   string    `json:"changed_by_name"`
	TotalChanges    int       `json:"total_changes"`
	JaCount         int       `json:"ja_count"`
	NeiCount        int       `json:"nei_count"`
	IkkeHjemmeCount int       `json:"ikke_hjemme_count"`
	FirstActivity   time.Time `json:"first_activity"`
	LastActivity    time.Time `json:"last_activity"`
}

// DailyActivity aggregates changes for one calendar day.
type DailyActivity struct {
	Date        string `json:"date"`
	Changes     int    `json:"changes"`
	ActiveUsers int    `json:"active_users"`
}
