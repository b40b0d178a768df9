package domain

import (
	"fmt"
	"time"
)

// IntentionStatus is the lifecycle state of an intention.
type IntentionStatus string

const (
	IntentionActive    IntentionStatus = "active"
	IntentionCompleted IntentionStatus = "completed"
	IntentionSuspended IntentionStatus = "suspended"
	IntentionFailed    IntentionStatus = "failed"
)

func ValidIntentionStatus(s string) bool {
	switch IntentionStatus(s) {
	case IntentionActive, IntentionCompleted, IntentionSuspended, IntentionFailed:
		return true
	}
	return false
}

// Intention is a committed plan of action linking to the beliefs and
// desires it is meant to serve. BeliefIDs and DesireIDs are weak
// references: the store does not enforce that they resolve, and the
// coherence scorer treats dangling ids as zero-contribution data.
type Intention struct {
	ID           string          `json:"id"`
	Goal         string          `json:"goal"`
	Status       IntentionStatus `json:"status"`
	BeliefIDs    []string        `json:"belief_ids,omitempty"`
	DesireIDs    []string        `json:"desire_ids,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	LastReviewed *time.Time      `json:"last_reviewed,omitempty"`
	Version      int             `json:"version"`
	Progress     float64         `json:"progress"`
}

// NewIntention builds a version-1 intention and validates its invariants.
func NewIntention(id, goal string, status IntentionStatus, beliefIDs, desireIDs []string, progress float64) (*Intention, error) {
	i := &Intention{
		ID:        id,
		Goal:      goal,
		Status:    status,
		BeliefIDs: beliefIDs,
		DesireIDs: desireIDs,
		CreatedAt: time.Now().UTC(),
		Version:   1,
		Progress:  progress,
	}
	if err := i.Validate(); err != nil {
		return nil, err
	}
	return i, nil
}

func (i *Intention) Validate() error {
	if i.Progress < 0 || i.Progress > 1 {
		return fmt.Errorf("%w: progress must be 0-1, got %v", ErrValidation, i.Progress)
	}
	if i.Version < 1 {
		return fmt.Errorf("%w: version must be >= 1, got %d", ErrValidation, i.Version)
	}
	if !ValidIntentionStatus(string(i.Status)) {
		return fmt.Errorf("%w: unknown intention status %q", ErrValidation, i.Status)
	}
	return nil
}

func (i *Intention) Clone() *Intention {
	c := *i
	c.BeliefIDs = append([]string(nil), i.BeliefIDs...)
	c.DesireIDs = append([]string(nil), i.DesireIDs...)
	if i.LastReviewed != nil {
		t := *i.LastReviewed
		c.LastReviewed = &t
	}
	return &c
}

// IntentionPatch is the closed set of updatable intention fields.
type IntentionPatch struct {
	Goal      *string          `json:"goal,omitempty"`
	Status    *IntentionStatus `json:"status,omitempty"`
	BeliefIDs *[]string        `json:"belief_ids,omitempty"`
	DesireIDs *[]string        `json:"desire_ids,omitempty"`
	Progress  *float64         `json:"progress,omitempty"`
}

func (p IntentionPatch) Validate() error {
	if p.Progress != nil && (*p.Progress < 0 || *p.Progress > 1) {
		return fmt.Errorf("%w: progress must be 0-1, got %v", ErrValidation, *p.Progress)
	}
	if p.Status != nil && !ValidIntentionStatus(string(*p.Status)) {
		return fmt.Errorf("%w: unknown intention status %q", ErrValidation, *p.Status)
	}
	return nil
}

func (p IntentionPatch) Apply(i *Intention) {
	if p.Goal != nil {
		i.Goal = *p.Goal
	}
	if p.Status != nil {
		i.Status = *p.Status
	}
	if p.BeliefIDs != nil {
		i.BeliefIDs = append([]string(nil), *p.BeliefIDs...)
	}
	if p.DesireIDs != nil {
		i.DesireIDs = append([]string(nil), *p.DesireIDs...)
	}
	if p.Progress != nil {
		i.Progress = *p.Progress
	}
}
