package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// maxCoherenceHistory bounds the retained check history.
const maxCoherenceHistory = 100

const hoursPerDay = 24

// CoherenceCheck is one scored snapshot in the reflection history.
type CoherenceCheck struct {
	Score     CoherenceScore `json:"score"`
	CheckedAt time.Time      `json:"checked_at"`
}

// ReflectionResult is the outcome of one reflection cycle. Drift is nil
// on the first cycle, when there is no prior score to compare against.
type ReflectionResult struct {
	Score       CoherenceScore       `json:"score"`
	Drift       *DriftClassification `json:"drift,omitempty"`
	CheckedAt   time.Time            `json:"checked_at"`
	ElapsedDays float64              `json:"elapsed_days,omitempty"`
}

// ReflectionService runs the full cycle: snapshot the BDI state, score
// its coherence, and classify drift against the previous check. It keeps
// a bounded in-memory history of checks.
type ReflectionService struct {
	state      *StateService
	checker    *CoherenceChecker
	classifier *DriftClassifier
	logger     *zap.Logger

	mu      sync.Mutex
	history []CoherenceCheck
}

func NewReflectionService(state *StateService, checker *CoherenceChecker, classifier *DriftClassifier, logger *zap.Logger) *ReflectionService {
	return &ReflectionService{
		state:      state,
		checker:    checker,
		classifier: classifier,
		logger:     logger,
	}
}

// Reflect scores the current snapshot and, when a prior check exists,
// classifies the drift since then.
func (s *ReflectionService) Reflect(ctx context.Context) (*ReflectionResult, error) {
	snapshot, err := s.state.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	score := s.checker.Check(snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()

	result := &ReflectionResult{
		Score:     score,
		CheckedAt: snapshot.SnapshotAt,
	}

	if n := len(s.history); n > 0 {
		prev := s.history[n-1]
		elapsedDays := snapshot.SnapshotAt.Sub(prev.CheckedAt).Hours() / hoursPerDay
		drift := s.classifier.Classify(prev.Score, score, elapsedDays)
		result.Drift = &drift
		result.ElapsedDays = elapsedDays
	}

	s.history = append(s.history, CoherenceCheck{Score: score, CheckedAt: snapshot.SnapshotAt})
	if len(s.history) > maxCoherenceHistory {
		s.history = s.history[len(s.history)-maxCoherenceHistory:]
	}

	if result.Drift != nil {
		s.logger.Info("reflection cycle",
			zap.Float64("overall", score.Overall),
			zap.String("drift", string(result.Drift.Category)),
			zap.Float64("elapsed_days", result.ElapsedDays))
	} else {
		s.logger.Info("reflection cycle", zap.Float64("overall", score.Overall))
	}

	return result, nil
}

// History returns a copy of the retained checks, oldest first.
func (s *ReflectionService) History() []CoherenceCheck {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CoherenceCheck(nil), s.history...)
}
