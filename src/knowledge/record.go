package knowledge

import "strings"

// Kind tags a record category. Kinds are informational only and never
// influence ranking.
const (
	KindGeneral  = "general"
	KindMenuItem = "menu_item"
	KindIndex    = "index"
)

// Record is one opaque unit of knowledge: the text shown as grounding
// context plus provenance metadata.
type Record struct {
	Content  string `json:"content"`
	SourceID string `json:"source_id"`
	Kind     string `json:"kind,omitempty"`
}

// Validate rejects records that would poison retrieval downstream.
// Malformed records fail the whole load rather than propagating empty
// content into scoring.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return &IntegrityError{Reason: "record has empty content", SourceID: r.SourceID}
	}
	return nil
}
