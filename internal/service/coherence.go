package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/truenorthhq/compass/internal/domain"
	"go.uber.org/zap"
)

// Coherence scoring constants. The weights sum to 1.0 and are fixed, not
// configurable per call.
const (
	BeliefDesireWeight    = 0.35
	DesireIntentionWeight = 0.35
	BeliefIntentionWeight = 0.30

	// NeutralAlignment is returned for a pairwise check when either side
	// has no entities to compare.
	NeutralAlignment = 0.5

	// WeakSupportThreshold flags desires whose belief support score falls
	// below it.
	WeakSupportThreshold = 0.3

	// Per-desire blend of tag overlap vs content word overlap.
	TagOverlapWeight  = 0.6
	WordOverlapWeight = 0.4

	// Words shorter than this are ignored when pooling content vocabulary.
	minKeywordLength = 4
)

// CoherenceScore holds the three pairwise alignment scores, the weighted
// overall score, and human-readable diagnostic issues. Treated as
// immutable once produced.
type CoherenceScore struct {
	BeliefDesireAlignment    float64  `json:"belief_desire_alignment"`
	DesireIntentionAlignment float64  `json:"desire_intention_alignment"`
	BeliefIntentionAlignment float64  `json:"belief_intention_alignment"`
	Overall                  float64  `json:"overall"`
	Issues                   []string `json:"issues"`
}

// CoherenceChecker computes cross-layer alignment over a BDI snapshot.
type CoherenceChecker struct {
	logger *zap.Logger
}

func NewCoherenceChecker(logger *zap.Logger) *CoherenceChecker {
	return &CoherenceChecker{logger: logger}
}

// Check scores the snapshot. All four numeric outputs are rounded to 4
// decimal places; issues concatenate belief-desire, then desire-intention,
// then belief-intention findings, in that order.
func (c *CoherenceChecker) Check(snapshot *domain.Snapshot) CoherenceScore {
	bdScore, bdIssues := c.beliefDesireAlignment(snapshot.Beliefs, snapshot.Desires)
	diScore, diIssues := c.desireIntentionAlignment(snapshot.Desires, snapshot.Intentions)
	biScore, biIssues := c.beliefIntentionAlignment(snapshot.Beliefs, snapshot.Intentions)

	overall := BeliefDesireWeight*bdScore + DesireIntentionWeight*diScore + BeliefIntentionWeight*biScore

	issues := make([]string, 0, len(bdIssues)+len(diIssues)+len(biIssues))
	issues = append(issues, bdIssues...)
	issues = append(issues, diIssues...)
	issues = append(issues, biIssues...)

	score := CoherenceScore{
		BeliefDesireAlignment:    round4(bdScore),
		DesireIntentionAlignment: round4(diScore),
		BeliefIntentionAlignment: round4(biScore),
		Overall:                  round4(overall),
		Issues:                   issues,
	}

	c.logger.Debug("coherence checked",
		zap.String("org_id", snapshot.OrgID),
		zap.Float64("overall", score.Overall),
		zap.Int("issues", len(score.Issues)))

	return score
}

// beliefDesireAlignment measures tag overlap and content keyword overlap
// between the pooled belief vocabulary and each desire.
func (c *CoherenceChecker) beliefDesireAlignment(beliefs []domain.Belief, desires []domain.Desire) (float64, []string) {
	if len(beliefs) == 0 || len(desires) == 0 {
		return NeutralAlignment, []string{"Insufficient beliefs or desires for alignment check."}
	}

	// One pooled vocabulary across all beliefs, not per belief.
	beliefTags := make(map[string]struct{})
	beliefWords := make(map[string]struct{})
	for _, b := range beliefs {
		for _, t := range b.Tags {
			beliefTags[t] = struct{}{}
		}
		for _, w := range contentWords(b.Content) {
			beliefWords[w] = struct{}{}
		}
	}

	var issues []string
	var total float64
	for _, d := range desires {
		tagOverlap := overlapRatio(d.RelatedTags, beliefTags)
		wordOverlap := overlapRatio(contentWords(d.Content), beliefWords)
		score := TagOverlapWeight*tagOverlap + WordOverlapWeight*math.Min(wordOverlap, 1.0)
		total += score

		if score < WeakSupportThreshold {
			issues = append(issues, fmt.Sprintf("Desire '%s' has weak belief support (score=%.2f).", d.ID, score))
		}
	}

	return total / float64(len(desires)), issues
}

// desireIntentionAlignment checks that intentions reference known, active
// desires through their desire id links.
func (c *CoherenceChecker) desireIntentionAlignment(desires []domain.Desire, intentions []domain.Intention) (float64, []string) {
	if len(desires) == 0 || len(intentions) == 0 {
		return NeutralAlignment, []string{"Insufficient desires or intentions for alignment check."}
	}

	known := make(map[string]struct{}, len(desires))
	active := make(map[string]struct{})
	for _, d := range desires {
		known[d.ID] = struct{}{}
		if d.Status == domain.DesireActive {
			active[d.ID] = struct{}{}
		}
	}

	var issues []string
	var total float64
	for _, it := range intentions {
		score, linkedActive, linked := linkScore(it.DesireIDs, known, active)
		total += score
		if !linked {
			issues = append(issues, fmt.Sprintf("Intention '%s' is not linked to any desire.", it.ID))
			continue
		}
		if !linkedActive {
			issues = append(issues, fmt.Sprintf("Intention '%s' links only to inactive desires.", it.ID))
		}
	}

	return total / float64(len(intentions)), issues
}

// beliefIntentionAlignment mirrors desireIntentionAlignment over belief
// id links.
func (c *CoherenceChecker) beliefIntentionAlignment(beliefs []domain.Belief, intentions []domain.Intention) (float64, []string) {
	if len(beliefs) == 0 || len(intentions) == 0 {
		return NeutralAlignment, []string{"Insufficient beliefs or intentions for alignment check."}
	}

	known := make(map[string]struct{}, len(beliefs))
	active := make(map[string]struct{})
	for _, b := range beliefs {
		known[b.ID] = struct{}{}
		if b.Status == domain.BeliefActive {
			active[b.ID] = struct{}{}
		}
	}

	var issues []string
	var total float64
	for _, it := range intentions {
		score, linkedActive, linked := linkScore(it.BeliefIDs, known, active)
		total += score
		if !linked {
			issues = append(issues, fmt.Sprintf("Intention '%s' is not linked to any belief.", it.ID))
			continue
		}
		if !linkedActive {
			issues = append(issues, fmt.Sprintf("Intention '%s' links only to inactive/stale beliefs.", it.ID))
		}
	}

	return total / float64(len(intentions)), issues
}

// linkScore scores one intention's id links: half weight for links that
// resolve to known entities, half for links that resolve to active ones.
// Dangling ids simply fail to resolve; they never error. An empty link
// set contributes 0.
func linkScore(ids []string, known, active map[string]struct{}) (score float64, hasActive, hasLinks bool) {
	linked := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		linked[id] = struct{}{}
	}
	if len(linked) == 0 {
		return 0, false, false
	}
	var valid, act int
	for id := range linked {
		if _, ok := known[id]; ok {
			valid++
		}
		if _, ok := active[id]; ok {
			act++
		}
	}
	n := float64(len(linked))
	return 0.5*(float64(valid)/n) + 0.5*(float64(act)/n), act > 0, true
}

// contentWords lower-cases and keeps the words long enough to be
// meaningful for vocabulary overlap.
func contentWords(content string) []string {
	var words []string
	for _, w := range strings.Fields(content) {
		if len(w) >= minKeywordLength {
			words = append(words, strings.ToLower(w))
		}
	}
	return words
}

// overlapRatio computes |items ∩ pool| / max(|items|, 1) over the deduped
// item set. The max guard means an empty item set scores 0 rather than
// dividing by zero.
func overlapRatio(items []string, pool map[string]struct{}) float64 {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	if len(set) == 0 {
		return 0
	}
	var hits int
	for it := range set {
		if _, ok := pool[it]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(set))
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
