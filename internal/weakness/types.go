package weakness

import "github.com/google/uuid"

// Weakness is a derived, reusable description of an error pattern observed
// across incorrect questions. The fixed core schema carries id, label, and
// importance; everything else the extraction produced (pattern category,
// description, evidence question ids, frequency) rides in the metadata bag
// and passes through the engine opaquely.
type Weakness struct {
	// ID is unique within a run. Freshly generated ids are UUIDv7:
	// time-ordered, 128-bit, lexically sortable.
	ID string `json:"id"`

	// Text is the free-text weakness label.
	Text string `json:"weakness"`

	// Importance weights the weakness. Default 1.0.
	Importance float64 `json:"importance"`

	// Metadata is the open extension bag.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewID returns a fresh weakness identifier.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does; fall back to v4.
		return uuid.NewString()
	}
	return id.String()
}
