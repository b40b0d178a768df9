package service

import (
	"context"
	"testing"

	"github.com/truenorthhq/compass/internal/domain"
	"github.com/truenorthhq/compass/internal/store"
)

func newReflectionFixture(t *testing.T) (*ReflectionService, *StateService) {
	t.Helper()
	logger := testLogger()
	state := NewStateService(store.NewStateStore("test-org"), logger)
	reflection := NewReflectionService(state, NewCoherenceChecker(logger), NewDriftClassifier(logger), logger)
	return reflection, state
}

func TestReflect_FirstCycleHasNoDrift(t *testing.T) {
	reflection, _ := newReflectionFixture(t)

	result, err := reflection.Reflect(context.Background())
	if err != nil {
		t.Fatalf("Reflect: %v", err)
	}
	if result.Drift != nil {
		t.Errorf("first cycle drift = %+v, want nil baseline", result.Drift)
	}
	if result.Score.Overall != 0.5 {
		t.Errorf("empty-state overall = %v, want 0.5", result.Score.Overall)
	}
	if len(reflection.History()) != 1 {
		t.Errorf("history length = %d, want 1", len(reflection.History()))
	}
}

func TestReflect_SecondCycleClassifiesDrift(t *testing.T) {
	reflection, state := newReflectionFixture(t)
	ctx := context.Background()

	if _, err := reflection.Reflect(ctx); err != nil {
		t.Fatalf("baseline Reflect: %v", err)
	}

	b, err := domain.NewBelief("b1", "steady volunteer turnout sustains programs", 0.8, domain.BeliefActive, "ops review", []string{"volunteers"})
	if err != nil {
		t.Fatal(err)
	}
	if err := state.AddBelief(ctx, b); err != nil {
		t.Fatalf("AddBelief: %v", err)
	}

	result, err := reflection.Reflect(ctx)
	if err != nil {
		t.Fatalf("second Reflect: %v", err)
	}
	if result.Drift == nil {
		t.Fatal("second cycle should classify drift against the baseline")
	}
	if !domain.ValidDriftCategory(string(result.Drift.Category)) {
		t.Errorf("invalid drift category %q", result.Drift.Category)
	}
	if result.ElapsedDays < 0 {
		t.Errorf("elapsed days = %v, want non-negative", result.ElapsedDays)
	}

	history := reflection.History()
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if !history[0].CheckedAt.Before(history[1].CheckedAt) && !history[0].CheckedAt.Equal(history[1].CheckedAt) {
		t.Error("history not in chronological order")
	}
}

func TestHistory_ReturnsCopy(t *testing.T) {
	reflection, _ := newReflectionFixture(t)
	ctx := context.Background()

	_, _ = reflection.Reflect(ctx)
	h := reflection.History()
	h[0].Score.Overall = -1

	if reflection.History()[0].Score.Overall == -1 {
		t.Error("History() exposes internal slice")
	}
}
