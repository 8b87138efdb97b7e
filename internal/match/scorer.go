package match

import (
	"math"

	"github.com/placematch/internal/config"
	"github.com/placematch/internal/normalize"
)

// Scorer merges spatial and name features into composite scores.
type Scorer struct {
	nameWeights      config.NameWeights
	compositeWeights config.CompositeWeights
	thresholdMeters  float64
}

// NewScorer creates a scorer. The config must already be validated.
func NewScorer(cfg *config.MatchConfig) *Scorer {
	return &Scorer{
		nameWeights:      cfg.NameWeights,
		compositeWeights: cfg.CompositeWeights,
		thresholdMeters:  cfg.DistanceThresholdMeters,
	}
}

// ScoreCandidates fills in the name metrics and composite score of every
// candidate. placeName is the place's normalized name; buildingNames must
// cover every candidate building (precomputed once, shared read-only).
func (s *Scorer) ScoreCandidates(placeName normalize.NormalizedName, candidates []*Candidate, buildingNames map[string]normalize.NormalizedName) {
	for _, c := range candidates {
		c.Metrics.NameMetrics = NameSimilarity(placeName, buildingNames[c.Building.ID])
		c.Metrics.DistanceScore = s.DistanceScore(c.Metrics.DistanceToBoundary)
		c.Metrics.NameComposite = s.NameComposite(c.Metrics.NameMetrics)
		c.CompositeScore = s.Composite(c.Metrics)
	}
}

// DistanceScore decays linearly from 1.0 at the boundary to 0.0 at the
// distance threshold, saturating at 0 beyond it.
func (s *Scorer) DistanceScore(boundaryDistMeters float64) float64 {
	if boundaryDistMeters <= 0 {
		return 1.0
	}
	score := 1.0 - boundaryDistMeters/s.thresholdMeters
	if score < 0 {
		return 0.0
	}
	return score
}

// NameComposite is the configured weighted sum of the five name metrics.
func (s *Scorer) NameComposite(m NameMetrics) float64 {
	return s.nameWeights.Exact*m.ExactMatch +
		s.nameWeights.Edit*m.EditSim +
		s.nameWeights.JaroWinkler*m.JaroWinkler +
		s.nameWeights.Substring*m.Substring +
		s.nameWeights.TokenOverlap*m.TokenOverlap
}

// Composite merges containment, distance and name similarity into the final
// score. With each weight set summing to 1.0 the result stays in [0,1]; the
// clamp guards against float drift.
func (s *Scorer) Composite(m MetricVector) float64 {
	containment := 0.0
	if m.IsContained {
		containment = 1.0
	}

	score := s.compositeWeights.Containment*containment +
		s.compositeWeights.Distance*m.DistanceScore +
		s.compositeWeights.Name*m.NameComposite

	return math.Max(0.0, math.Min(1.0, score))
}
