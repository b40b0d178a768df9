package domain

import (
	"fmt"
	"time"
)

// DesireStatus is the lifecycle state of a desire.
type DesireStatus string

const (
	DesireActive    DesireStatus = "active"
	DesireAchieved  DesireStatus = "achieved"
	DesireSuspended DesireStatus = "suspended"
	DesireAbandoned DesireStatus = "abandoned"
)

func ValidDesireStatus(s string) bool {
	switch DesireStatus(s) {
	case DesireActive, DesireAchieved, DesireSuspended, DesireAbandoned:
		return true
	}
	return false
}

// Desire is a prioritized goal state, optionally measurable via a named
// metric.
type Desire struct {
	ID           string       `json:"id"`
	Content      string       `json:"content"`
	Priority     float64      `json:"priority"`
	Status       DesireStatus `json:"status"`
	RelatedTags  []string     `json:"related_tags,omitempty"`
	Measurable   bool         `json:"measurable"`
	Metric       string       `json:"metric,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	LastReviewed *time.Time   `json:"last_reviewed,omitempty"`
	Version      int          `json:"version"`
}

// NewDesire builds a version-1 desire and validates its invariants.
func NewDesire(id, content string, priority float64, status DesireStatus, relatedTags []string, measurable bool, metric string) (*Desire, error) {
	d := &Desire{
		ID:          id,
		Content:     content,
		Priority:    priority,
		Status:      status,
		RelatedTags: relatedTags,
		Measurable:  measurable,
		Metric:      metric,
		CreatedAt:   time.Now().UTC(),
		Version:     1,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Desire) Validate() error {
	if d.Priority < 0 || d.Priority > 1 {
		return fmt.Errorf("%w: priority must be 0-1, got %v", ErrValidation, d.Priority)
	}
	if d.Version < 1 {
		return fmt.Errorf("%w: version must be >= 1, got %d", ErrValidation, d.Version)
	}
	if !ValidDesireStatus(string(d.Status)) {
		return fmt.Errorf("%w: unknown desire status %q", ErrValidation, d.Status)
	}
	return nil
}

func (d *Desire) Clone() *Desire {
	c := *d
	c.RelatedTags = append([]string(nil), d.RelatedTags...)
	if d.LastReviewed != nil {
		t := *d.LastReviewed
		c.LastReviewed = &t
	}
	return &c
}

// DesirePatch is the closed set of updatable desire fields.
type DesirePatch struct {
	Content     *string       `json:"content,omitempty"`
	Priority    *float64      `json:"priority,omitempty"`
	Status      *DesireStatus `json:"status,omitempty"`
	RelatedTags *[]string     `json:"related_tags,omitempty"`
	Measurable  *bool         `json:"measurable,omitempty"`
	Metric      *string       `json:"metric,omitempty"`
}

func (p DesirePatch) Validate() error {
	if p.Priority != nil && (*p.Priority < 0 || *p.Priority > 1) {
		return fmt.Errorf("%w: priority must be 0-1, got %v", ErrValidation, *p.Priority)
	}
	if p.Status != nil && !ValidDesireStatus(string(*p.Status)) {
		return fmt.Errorf("%w: unknown desire status %q", ErrValidation, *p.Status)
	}
	return nil
}

func (p DesirePatch) Apply(d *Desire) {
	if p.Content != nil {
		d.Content = *p.Content
	}
	if p.Priority != nil {
		d.Priority = *p.Priority
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.RelatedTags != nil {
		d.RelatedTags = append([]string(nil), *p.RelatedTags...)
	}
	if p.Measurable != nil {
		d.Measurable = *p.Measurable
	}
	if p.Metric != nil {
		d.Metric = *p.Metric
	}
}
