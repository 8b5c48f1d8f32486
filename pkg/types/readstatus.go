package types

// Read statuses. A comic is Read once finished, Skipped when deliberately
// passed over, and NotRead while it only exists as a placeholder in an
// event's reading list.
const (
	StatusRead    = "Read"
	StatusSkipped = "Skipped"
	StatusNotRead = "Not Read"
)

// validReadStatuses is the set of recognized read-status values.
var validReadStatuses = map[string]bool{
	StatusRead:    true,
	StatusSkipped: true,
	StatusNotRead: true,
}

// ValidReadStatus reports whether s is a recognized read-status value.
func ValidReadStatus(s string) bool {
	return validReadStatuses[s]
}

// ReadStatuses lists all read-status values for enumeration in pickers.
var ReadStatuses = []string{
	StatusRead,
	StatusSkipped,
	StatusNotRead,
}
