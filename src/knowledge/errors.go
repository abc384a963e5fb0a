package knowledge

import "fmt"

// IntegrityError reports a malformed or inconsistent snapshot at load
// time. It is fatal to startup: a store that failed to load must not
// serve queries.
type IntegrityError struct {
	Reason   string
	SourceID string
}

func (e *IntegrityError) Error() string {
	if e.SourceID != "" {
		return fmt.Sprintf("knowledge: %s (source_id=%s)", e.Reason, e.SourceID)
	}
	return "knowledge: " + e.Reason
}
