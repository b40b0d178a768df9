package service

import (
	"fmt"

	"github.com/truenorthhq/compass/internal/domain"
	"go.uber.org/zap"
)

// Drift classification constants.
const (
	// DriftDeltaThreshold is how far a pairwise alignment must drop
	// before it counts as drift.
	DriftDeltaThreshold = 0.05

	// StaleBeliefMinDays is the minimum elapsed time before a belief
	// related drop is attributed to staleness.
	StaleBeliefMinDays = 60

	// MaxEventEvidence caps how many event descriptions are carried into
	// a frequency-based classification.
	MaxEventEvidence = 5

	fallbackConfidence = 0.4
)

// DriftClassification is a named diagnosis of why coherence changed,
// with supporting evidence. Treated as immutable once produced.
type DriftClassification struct {
	Category       domain.DriftCategory `json:"category"`
	Confidence     float64              `json:"confidence"`
	Evidence       []string             `json:"evidence"`
	Recommendation string               `json:"recommendation"`
}

// DriftClassifier turns coherence score changes, or a history of drift
// events, into a classification.
type DriftClassifier struct {
	logger *zap.Logger
}

func NewDriftClassifier(logger *zap.Logger) *DriftClassifier {
	return &DriftClassifier{logger: logger}
}

// Classify compares two coherence scores taken elapsedDays apart and
// assigns exactly one category through an ordered cascade; the first
// matching rule wins.
func (c *DriftClassifier) Classify(before, after CoherenceScore, elapsedDays float64) DriftClassification {
	overallDelta := after.Overall - before.Overall
	bdDelta := after.BeliefDesireAlignment - before.BeliefDesireAlignment
	diDelta := after.DesireIntentionAlignment - before.DesireIntentionAlignment
	biDelta := after.BeliefIntentionAlignment - before.BeliefIntentionAlignment

	prior := make(map[string]struct{}, len(before.Issues))
	for _, issue := range before.Issues {
		prior[issue] = struct{}{}
	}
	newIssues := 0
	for _, issue := range after.Issues {
		if _, ok := prior[issue]; !ok {
			newIssues++
		}
	}

	result := c.classify(overallDelta, bdDelta, diDelta, biDelta, elapsedDays, newIssues)

	c.logger.Debug("drift classified",
		zap.String("category", string(result.Category)),
		zap.Float64("confidence", result.Confidence),
		zap.Float64("overall_delta", overallDelta),
		zap.Float64("elapsed_days", elapsedDays))

	return result
}

func (c *DriftClassifier) classify(overallDelta, bdDelta, diDelta, biDelta, elapsedDays float64, newIssues int) DriftClassification {
	// Overall improved or stable with no new issues.
	if overallDelta >= 0 && newIssues == 0 {
		return DriftClassification{
			Category:       domain.DriftHealthyAdaptation,
			Confidence:     min(1.0, 0.6+overallDelta),
			Evidence:       []string{fmt.Sprintf("Overall coherence delta: +%.4f", overallDelta)},
			Recommendation: "Continue current trajectory. BDI coherence is stable or improving.",
		}
	}

	// Belief-related scores dropped and enough time has passed.
	if (bdDelta < -DriftDeltaThreshold || biDelta < -DriftDeltaThreshold) && elapsedDays > StaleBeliefMinDays {
		return DriftClassification{
			Category:   domain.DriftStaleBeliefs,
			Confidence: min(1.0, 0.5+abs(bdDelta)+abs(biDelta)),
			Evidence: []string{
				fmt.Sprintf("Belief-desire delta: %.4f", bdDelta),
				fmt.Sprintf("Belief-intention delta: %.4f", biDelta),
				fmt.Sprintf("Time since last check: %.0f days", elapsedDays),
			},
			Recommendation: "Schedule a belief review session. Several beliefs may be outdated.",
		}
	}

	// Intention alignment dropped.
	if diDelta < -DriftDeltaThreshold || biDelta < -DriftDeltaThreshold {
		return DriftClassification{
			Category:   domain.DriftIntentionDrift,
			Confidence: min(1.0, 0.5+abs(diDelta)+abs(biDelta)),
			Evidence: []string{
				fmt.Sprintf("Desire-intention delta: %.4f", diDelta),
				fmt.Sprintf("Belief-intention delta: %.4f", biDelta),
			},
			Recommendation: "Review active intentions. Some may no longer serve current desires or beliefs.",
		}
	}

	// Desire alignment dropped away from beliefs.
	if bdDelta < -DriftDeltaThreshold {
		return DriftClassification{
			Category:       domain.DriftValuesTension,
			Confidence:     min(1.0, 0.5+abs(bdDelta)),
			Evidence:       []string{fmt.Sprintf("Belief-desire delta: %.4f", bdDelta)},
			Recommendation: "Facilitate a values alignment session. Desires may have shifted away from core beliefs.",
		}
	}

	// Default: minor tensions that match no specific pattern.
	evidence := []string{fmt.Sprintf("Overall delta: %.4f", overallDelta)}
	if newIssues > 0 {
		evidence = append(evidence, fmt.Sprintf("New issues: %d", newIssues))
	}
	return DriftClassification{
		Category:       domain.DriftValuesTension,
		Confidence:     fallbackConfidence,
		Evidence:       evidence,
		Recommendation: "Review BDI coherence. Minor tensions detected across layers.",
	}
}

// ClassifyFromEvents classifies from a list of historical drift events by
// frequency. Events missing a category count toward values_tension; an
// unknown category is tallied as-is and only coerced to values_tension if
// it wins. Ties resolve to whichever category was seen first in the input
// (strict first-seen-wins, so the tally order is deterministic).
func (c *DriftClassifier) ClassifyFromEvents(events []domain.DriftEvent) DriftClassification {
	if len(events) == 0 {
		return DriftClassification{
			Category:       domain.DriftHealthyAdaptation,
			Confidence:     0.5,
			Evidence:       []string{"No events provided."},
			Recommendation: "No drift events to classify.",
		}
	}

	counts := make(map[domain.DriftCategory]int)
	var seen []domain.DriftCategory
	var descriptions []string
	for _, e := range events {
		cat := e.Category
		if cat == "" {
			cat = domain.DriftValuesTension
		}
		if _, ok := counts[cat]; !ok {
			seen = append(seen, cat)
		}
		counts[cat]++
		if e.Description != "" && len(descriptions) < MaxEventEvidence {
			descriptions = append(descriptions, e.Description)
		}
	}

	dominant := seen[0]
	for _, cat := range seen[1:] {
		if counts[cat] > counts[dominant] {
			dominant = cat
		}
	}
	confidence := round4(float64(counts[dominant]) / float64(len(events)))
	if !domain.ValidDriftCategory(string(dominant)) {
		dominant = domain.DriftValuesTension
	}

	return DriftClassification{
		Category:       dominant,
		Confidence:     confidence,
		Evidence:       descriptions,
		Recommendation: eventRecommendation(dominant),
	}
}

func eventRecommendation(cat domain.DriftCategory) string {
	switch cat {
	case domain.DriftHealthyAdaptation:
		return "Continue current trajectory."
	case domain.DriftStaleBeliefs:
		return "Schedule a belief review session."
	case domain.DriftIntentionDrift:
		return "Review active intentions for relevance."
	default:
		return "Facilitate a values alignment session."
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
