package domain

import "time"

// Snapshot is an immutable, point-in-time view of all beliefs, desires
// and intentions for an organization. The slices are deep copies of the
// store's state at snapshot time and are never mutated afterwards.
type Snapshot struct {
	OrgID      string      `json:"org_id"`
	Beliefs    []Belief    `json:"beliefs"`
	Desires    []Desire    `json:"desires"`
	Intentions []Intention `json:"intentions"`
	SnapshotAt time.Time   `json:"snapshot_at"`
	Version    int         `json:"version"`
}
