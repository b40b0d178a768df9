package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/truenorthhq/compass/internal/domain"
)

// ErrNotFound is returned when an entity id does not exist in the store.
var ErrNotFound = errors.New("not found")

// StateStore is the in-memory BDI store: one map plus an insertion-order
// slice per entity kind, and a single chronological revision log shared
// across all three kinds.
//
// The store holds mutable collections with no internal locking and is
// NOT safe for unsynchronized concurrent mutation. Callers that share a
// StateStore across goroutines must serialize access externally.
type StateStore struct {
	orgID string

	beliefs     map[string]*domain.Belief
	beliefOrder []string

	desires     map[string]*domain.Desire
	desireOrder []string

	intentions     map[string]*domain.Intention
	intentionOrder []string

	revisions []domain.Revision
}

func NewStateStore(orgID string) *StateStore {
	return &StateStore{
		orgID:      orgID,
		beliefs:    make(map[string]*domain.Belief),
		desires:    make(map[string]*domain.Desire),
		intentions: make(map[string]*domain.Intention),
	}
}

func (s *StateStore) OrgID() string { return s.orgID }

// ---------------------------------------------------------------------
// Beliefs
// ---------------------------------------------------------------------

// AddBelief inserts the belief under its id, overwriting any existing
// entry in place (upsert). A creation revision with a nil before state is
// appended either way, so the audit log records every write.
func (s *StateStore) AddBelief(ctx context.Context, b *domain.Belief) error {
	stored := b.Clone()
	s.recordRevision(domain.KindBelief, b.ID, nil, stored.Clone())
	if _, exists := s.beliefs[b.ID]; !exists {
		s.beliefOrder = append(s.beliefOrder, b.ID)
	}
	s.beliefs[b.ID] = stored
	return nil
}

func (s *StateStore) UpdateBelief(ctx context.Context, id string, p domain.BeliefPatch) (*domain.Belief, error) {
	b, ok := s.beliefs[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	before := b.Clone()
	p.Apply(b)
	b.Version++
	now := time.Now().UTC()
	b.LastReviewed = &now
	s.recordRevision(domain.KindBelief, id, before, b.Clone())
	return b.Clone(), nil
}

func (s *StateStore) GetBelief(ctx context.Context, id string) (*domain.Belief, error) {
	b, ok := s.beliefs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b.Clone(), nil
}

func (s *StateStore) ListBeliefs(ctx context.Context, status *domain.BeliefStatus) ([]domain.Belief, error) {
	out := make([]domain.Belief, 0, len(s.beliefOrder))
	for _, id := range s.beliefOrder {
		b := s.beliefs[id]
		if status != nil && b.Status != *status {
			continue
		}
		out = append(out, *b.Clone())
	}
	return out, nil
}

func (s *StateStore) ArchiveBelief(ctx context.Context, id string) (*domain.Belief, error) {
	status := domain.BeliefArchived
	return s.UpdateBelief(ctx, id, domain.BeliefPatch{Status: &status})
}

// ---------------------------------------------------------------------
// Desires
// ---------------------------------------------------------------------

func (s *StateStore) AddDesire(ctx context.Context, d *domain.Desire) error {
	stored := d.Clone()
	s.recordRevision(domain.KindDesire, d.ID, nil, stored.Clone())
	if _, exists := s.desires[d.ID]; !exists {
		s.desireOrder = append(s.desireOrder, d.ID)
	}
	s.desires[d.ID] = stored
	return nil
}

func (s *StateStore) UpdateDesire(ctx context.Context, id string, p domain.DesirePatch) (*domain.Desire, error) {
	d, ok := s.desires[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	before := d.Clone()
	p.Apply(d)
	d.Version++
	now := time.Now().UTC()
	d.LastReviewed = &now
	s.recordRevision(domain.KindDesire, id, before, d.Clone())
	return d.Clone(), nil
}

func (s *StateStore) GetDesire(ctx context.Context, id string) (*domain.Desire, error) {
	d, ok := s.desires[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d.Clone(), nil
}

func (s *StateStore) ListDesires(ctx context.Context, status *domain.DesireStatus) ([]domain.Desire, error) {
	out := make([]domain.Desire, 0, len(s.desireOrder))
	for _, id := range s.desireOrder {
		d := s.desires[id]
		if status != nil && d.Status != *status {
			continue
		}
		out = append(out, *d.Clone())
	}
	return out, nil
}

func (s *StateStore) SuspendDesire(ctx context.Context, id string) (*domain.Desire, error) {
	status := domain.DesireSuspended
	return s.UpdateDesire(ctx, id, domain.DesirePatch{Status: &status})
}

// ---------------------------------------------------------------------
// Intentions
// ---------------------------------------------------------------------

func (s *StateStore) AddIntention(ctx context.Context, i *domain.Intention) error {
	stored := i.Clone()
	s.recordRevision(domain.KindIntention, i.ID, nil, stored.Clone())
	if _, exists := s.intentions[i.ID]; !exists {
		s.intentionOrder = append(s.intentionOrder, i.ID)
	}
	s.intentions[i.ID] = stored
	return nil
}

func (s *StateStore) UpdateIntention(ctx context.Context, id string, p domain.IntentionPatch) (*domain.Intention, error) {
	i, ok := s.intentions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	before := i.Clone()
	p.Apply(i)
	i.Version++
	now := time.Now().UTC()
	i.LastReviewed = &now
	s.recordRevision(domain.KindIntention, id, before, i.Clone())
	return i.Clone(), nil
}

func (s *StateStore) GetIntention(ctx context.Context, id string) (*domain.Intention, error) {
	i, ok := s.intentions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return i.Clone(), nil
}

func (s *StateStore) ListIntentions(ctx context.Context, status *domain.IntentionStatus) ([]domain.Intention, error) {
	out := make([]domain.Intention, 0, len(s.intentionOrder))
	for _, id := range s.intentionOrder {
		i := s.intentions[id]
		if status != nil && i.Status != *status {
			continue
		}
		out = append(out, *i.Clone())
	}
	return out, nil
}

// CompleteIntention marks the intention completed and forces progress to 1.0.
func (s *StateStore) CompleteIntention(ctx context.Context, id string) (*domain.Intention, error) {
	status := domain.IntentionCompleted
	progress := 1.0
	return s.UpdateIntention(ctx, id, domain.IntentionPatch{Status: &status, Progress: &progress})
}

// ---------------------------------------------------------------------
// Snapshot & history
// ---------------------------------------------------------------------

// Snapshot builds a point-in-time copy of all three collections.
func (s *StateStore) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	beliefs, _ := s.ListBeliefs(ctx, nil)
	desires, _ := s.ListDesires(ctx, nil)
	intentions, _ := s.ListIntentions(ctx, nil)
	return &domain.Snapshot{
		OrgID:      s.orgID,
		Beliefs:    beliefs,
		Desires:    desires,
		Intentions: intentions,
		SnapshotAt: time.Now().UTC(),
		Version:    1,
	}, nil
}

// RevisionHistory returns all revisions for one entity, in append order.
func (s *StateStore) RevisionHistory(ctx context.Context, kind domain.EntityKind, entityID string) ([]domain.Revision, error) {
	var out []domain.Revision
	for _, r := range s.revisions {
		if r.EntityKind == kind && r.EntityID == entityID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *StateStore) recordRevision(kind domain.EntityKind, entityID string, before, after any) {
	s.revisions = append(s.revisions, domain.Revision{
		ID:         uuid.New(),
		EntityKind: kind,
		EntityID:   entityID,
		Before:     before,
		After:      after,
		RecordedAt: time.Now().UTC(),
	})
}
