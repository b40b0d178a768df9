package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntityKind names one of the three BDI entity kinds in a revision record.
type EntityKind string

const (
	KindBelief    EntityKind = "belief"
	KindDesire    EntityKind = "desire"
	KindIntention EntityKind = "intention"
)

func ValidEntityKind(s string) bool {
	switch EntityKind(s) {
	case KindBelief, KindDesire, KindIntention:
		return true
	}
	return false
}

// Revision is an append-only audit record written once per entity create
// and once per update. Before is nil for a creation; otherwise Before and
// After hold full deep-cloned entity state.
type Revision struct {
	ID         uuid.UUID  `json:"id"`
	EntityKind EntityKind `json:"entity_kind"`
	EntityID   string     `json:"entity_id"`
	Before     any        `json:"before,omitempty"`
	After      any        `json:"after"`
	RecordedAt time.Time  `json:"recorded_at"`
}
