package domain

import (
	"fmt"
	"time"
)

// BeliefStatus is the lifecycle state of a belief. Beliefs are never
// deleted; retiring one is a transition to archived.
type BeliefStatus string

const (
	BeliefActive     BeliefStatus = "active"
	BeliefArchived   BeliefStatus = "archived"
	BeliefChallenged BeliefStatus = "challenged"
	BeliefStale      BeliefStatus = "stale"
)

func ValidBeliefStatus(s string) bool {
	switch BeliefStatus(s) {
	case BeliefActive, BeliefArchived, BeliefChallenged, BeliefStale:
		return true
	}
	return false
}

// Belief is a tagged, confidence-weighted factual claim held by an
// organization.
type Belief struct {
	ID           string       `json:"id"`
	Content      string       `json:"content"`
	Confidence   float64      `json:"confidence"`
	Status       BeliefStatus `json:"status"`
	Source       string       `json:"source,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	LastReviewed *time.Time   `json:"last_reviewed,omitempty"`
	Version      int          `json:"version"`
	Evidence     []string     `json:"evidence,omitempty"`
}

// NewBelief builds a version-1 belief and validates its invariants.
func NewBelief(id, content string, confidence float64, status BeliefStatus, source string, tags []string) (*Belief, error) {
	b := &Belief{
		ID:         id,
		Content:    content,
		Confidence: confidence,
		Status:     status,
		Source:     source,
		Tags:       tags,
		CreatedAt:  time.Now().UTC(),
		Version:    1,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Belief) Validate() error {
	if b.Confidence < 0 || b.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be 0-1, got %v", ErrValidation, b.Confidence)
	}
	if b.Version < 1 {
		return fmt.Errorf("%w: version must be >= 1, got %d", ErrValidation, b.Version)
	}
	if !ValidBeliefStatus(string(b.Status)) {
		return fmt.Errorf("%w: unknown belief status %q", ErrValidation, b.Status)
	}
	return nil
}

// Clone returns a deep copy safe to hand out or record in a revision.
func (b *Belief) Clone() *Belief {
	c := *b
	c.Tags = append([]string(nil), b.Tags...)
	c.Evidence = append([]string(nil), b.Evidence...)
	if b.LastReviewed != nil {
		t := *b.LastReviewed
		c.LastReviewed = &t
	}
	return &c
}

// BeliefPatch is the closed set of updatable belief fields. Nil fields
// are left untouched.
type BeliefPatch struct {
	Content    *string       `json:"content,omitempty"`
	Confidence *float64      `json:"confidence,omitempty"`
	Status     *BeliefStatus `json:"status,omitempty"`
	Source     *string       `json:"source,omitempty"`
	Tags       *[]string     `json:"tags,omitempty"`
	Evidence   *[]string     `json:"evidence,omitempty"`
}

// Validate rejects values that construction would have rejected, before
// anything is applied.
func (p BeliefPatch) Validate() error {
	if p.Confidence != nil && (*p.Confidence < 0 || *p.Confidence > 1) {
		return fmt.Errorf("%w: confidence must be 0-1, got %v", ErrValidation, *p.Confidence)
	}
	if p.Status != nil && !ValidBeliefStatus(string(*p.Status)) {
		return fmt.Errorf("%w: unknown belief status %q", ErrValidation, *p.Status)
	}
	return nil
}

func (p BeliefPatch) Apply(b *Belief) {
	if p.Content != nil {
		b.Content = *p.Content
	}
	if p.Confidence != nil {
		b.Confidence = *p.Confidence
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.Source != nil {
		b.Source = *p.Source
	}
	if p.Tags != nil {
		b.Tags = append([]string(nil), *p.Tags...)
	}
	if p.Evidence != nil {
		b.Evidence = append([]string(nil), *p.Evidence...)
	}
}
