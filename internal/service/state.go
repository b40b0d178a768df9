package service

import (
	"context"
	"errors"
	"sync"

	"github.com/truenorthhq/compass/internal/domain"
	"github.com/truenorthhq/compass/internal/store"
	"go.uber.org/zap"
)

var (
	ErrBeliefNotFound    = errors.New("belief not found")
	ErrDesireNotFound    = errors.New("desire not found")
	ErrIntentionNotFound = errors.New("intention not found")
)

// StateService owns the BDI state store. The store itself holds plain
// maps with no locking, so this service serializes every operation with
// one mutex; it is the single mutation entry point for the rest of the
// system.
type StateService struct {
	mu     sync.Mutex
	store  domain.StateStore
	logger *zap.Logger
}

func NewStateService(st domain.StateStore, logger *zap.Logger) *StateService {
	return &StateService{store: st, logger: logger}
}

// ---------------------------------------------------------------------
// Beliefs
// ---------------------------------------------------------------------

func (s *StateService) AddBelief(ctx context.Context, b *domain.Belief) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.AddBelief(ctx, b); err != nil {
		return err
	}
	s.logger.Info("belief added", zap.String("belief_id", b.ID), zap.Float64("confidence", b.Confidence))
	return nil
}

func (s *StateService) UpdateBelief(ctx context.Context, id string, p domain.BeliefPatch) (*domain.Belief, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.store.UpdateBelief(ctx, id, p)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrBeliefNotFound
		}
		return nil, err
	}
	s.logger.Info("belief updated", zap.String("belief_id", id), zap.Int("version", b.Version))
	return b, nil
}

func (s *StateService) GetBelief(ctx context.Context, id string) (*domain.Belief, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.store.GetBelief(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrBeliefNotFound
	}
	return b, err
}

func (s *StateService) ListBeliefs(ctx context.Context, status *domain.BeliefStatus) ([]domain.Belief, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListBeliefs(ctx, status)
}

func (s *StateService) ArchiveBelief(ctx context.Context, id string) (*domain.Belief, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.store.ArchiveBelief(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrBeliefNotFound
		}
		return nil, err
	}
	s.logger.Info("belief archived", zap.String("belief_id", id))
	return b, nil
}

// ---------------------------------------------------------------------
// Desires
// ---------------------------------------------------------------------

func (s *StateService) AddDesire(ctx context.Context, d *domain.Desire) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.AddDesire(ctx, d); err != nil {
		return err
	}
	s.logger.Info("desire added", zap.String("desire_id", d.ID), zap.Float64("priority", d.Priority))
	return nil
}

func (s *StateService) UpdateDesire(ctx context.Context, id string, p domain.DesirePatch) (*domain.Desire, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.store.UpdateDesire(ctx, id, p)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDesireNotFound
		}
		return nil, err
	}
	s.logger.Info("desire updated", zap.String("desire_id", id), zap.Int("version", d.Version))
	return d, nil
}

func (s *StateService) GetDesire(ctx context.Context, id string) (*domain.Desire, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.store.GetDesire(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrDesireNotFound
	}
	return d, err
}

func (s *StateService) ListDesires(ctx context.Context, status *domain.DesireStatus) ([]domain.Desire, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListDesires(ctx, status)
}

func (s *StateService) SuspendDesire(ctx context.Context, id string) (*domain.Desire, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.store.SuspendDesire(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDesireNotFound
		}
		return nil, err
	}
	s.logger.Info("desire suspended", zap.String("desire_id", id))
	return d, nil
}

// ---------------------------------------------------------------------
// Intentions
// ---------------------------------------------------------------------

func (s *StateService) AddIntention(ctx context.Context, i *domain.Intention) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.AddIntention(ctx, i); err != nil {
		return err
	}
	s.logger.Info("intention added", zap.String("intention_id", i.ID),
		zap.Int("belief_links", len(i.BeliefIDs)), zap.Int("desire_links", len(i.DesireIDs)))
	return nil
}

func (s *StateService) UpdateIntention(ctx context.Context, id string, p domain.IntentionPatch) (*domain.Intention, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.store.UpdateIntention(ctx, id, p)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrIntentionNotFound
		}
		return nil, err
	}
	s.logger.Info("intention updated", zap.String("intention_id", id), zap.Int("version", i.Version))
	return i, nil
}

func (s *StateService) GetIntention(ctx context.Context, id string) (*domain.Intention, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.store.GetIntention(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrIntentionNotFound
	}
	return i, err
}

func (s *StateService) ListIntentions(ctx context.Context, status *domain.IntentionStatus) ([]domain.Intention, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListIntentions(ctx, status)
}

func (s *StateService) CompleteIntention(ctx context.Context, id string) (*domain.Intention, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.store.CompleteIntention(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrIntentionNotFound
		}
		return nil, err
	}
	s.logger.Info("intention completed", zap.String("intention_id", id))
	return i, nil
}

// ---------------------------------------------------------------------
// Snapshot & history
// ---------------------------------------------------------------------

func (s *StateService) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot(ctx)
}

func (s *StateService) RevisionHistory(ctx context.Context, kind domain.EntityKind, entityID string) ([]domain.Revision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.RevisionHistory(ctx, kind, entityID)
}
