package domain

import "context"

// StateStore owns the belief/desire/intention collections and the shared
// revision log. Implementations are not required to be safe for
// concurrent mutation; callers serialize access (see service.StateService).
//
// Add operations are upserts: an existing id is overwritten in place and
// keeps its original insertion position. Update operations bump Version
// by exactly 1, set LastReviewed, and append a full before/after revision.
// List results are in insertion order.
type StateStore interface {
	AddBelief(ctx context.Context, b *Belief) error
	UpdateBelief(ctx context.Context, id string, p BeliefPatch) (*Belief, error)
	GetBelief(ctx context.Context, id string) (*Belief, error)
	ListBeliefs(ctx context.Context, status *BeliefStatus) ([]Belief, error)
	ArchiveBelief(ctx context.Context, id string) (*Belief, error)

	AddDesire(ctx context.Context, d *Desire) error
	UpdateDesire(ctx context.Context, id string, p DesirePatch) (*Desire, error)
	GetDesire(ctx context.Context, id string) (*Desire, error)
	ListDesires(ctx context.Context, status *DesireStatus) ([]Desire, error)
	SuspendDesire(ctx context.Context, id string) (*Desire, error)

	AddIntention(ctx context.Context, i *Intention) error
	UpdateIntention(ctx context.Context, id string, p IntentionPatch) (*Intention, error)
	GetIntention(ctx context.Context, id string) (*Intention, error)
	ListIntentions(ctx context.Context, status *IntentionStatus) ([]Intention, error)
	CompleteIntention(ctx context.Context, id string) (*Intention, error)

	Snapshot(ctx context.Context) (*Snapshot, error)
	RevisionHistory(ctx context.Context, kind EntityKind, entityID string) ([]Revision, error)
}
