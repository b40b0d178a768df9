package domain

import (
	"fmt"
	"time"
)

// DriftCategory is a named diagnosis of why coherence changed between two
// points in time.
type DriftCategory string

const (
	DriftHealthyAdaptation DriftCategory = "healthy_adaptation"
	DriftStaleBeliefs      DriftCategory = "stale_beliefs"
	DriftIntentionDrift    DriftCategory = "intention_drift"
	DriftValuesTension     DriftCategory = "values_tension"
)

func ValidDriftCategory(s string) bool {
	switch DriftCategory(s) {
	case DriftHealthyAdaptation, DriftStaleBeliefs, DriftIntentionDrift, DriftValuesTension:
		return true
	}
	return false
}

// DriftEvent is a single observed drift occurrence reported by the
// surrounding system, fed to frequency-based classification. Severity
// and Layer are optional annotations; Category may be absent or carry a
// value outside the known set (the classifier coerces as needed).
type DriftEvent struct {
	ID          string        `json:"id,omitempty"`
	Category    DriftCategory `json:"category,omitempty"`
	Severity    string        `json:"severity,omitempty"`
	Description string        `json:"description,omitempty"`
	Layer       string        `json:"layer,omitempty"`
	DetectedAt  time.Time     `json:"detected_at,omitzero"`
}

// Validate checks the optional annotations when present.
func (e DriftEvent) Validate() error {
	switch e.Severity {
	case "", "info", "warning", "critical":
	default:
		return fmt.Errorf("%w: severity must be info/warning/critical, got %q", ErrValidation, e.Severity)
	}
	switch e.Layer {
	case "", "beliefs", "desires", "intentions":
	default:
		return fmt.Errorf("%w: layer must be beliefs/desires/intentions, got %q", ErrValidation, e.Layer)
	}
	return nil
}
