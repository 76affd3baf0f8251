package domain

// Status is a canvassing outcome for one address. The set is closed: any
// write carrying another value must be rejected before it reaches the store.
type Status string

const (
	// StatusUntouched is the default for addresses with no recorded outcome.
	StatusUntouched Status = "Ubehandlet"
	StatusYes       Status = "Ja"
	StatusNo        Status = "Nei"
	StatusNotHome   Status = "Ikke hjemme"
)

// Valid reports whether s is one of the known canvassing outcomes.
func (s Status) Valid() bool {
	switch s {
	case StatusUntouched, StatusYes, StatusNo, StatusNotHome:
		return true
	}
	return false
}

// History action types.
const (
	ActionStatusChange = "status_change"
	ActionReset        = "reset"
	ActionBulkReset    = "bulk_reset"
)
