package match

import (
	"github.com/placematch/internal/config"
	"github.com/placematch/internal/normalize"
)

// Classifier buckets winning composite scores into quality tiers and emits
// explicit null-match records for places no candidate qualified for.
type Classifier struct {
	thresholds    []config.TierThreshold
	minAcceptance float64
}

// NewClassifier creates a classifier. The config must already be validated
// (tier floors strictly descending).
func NewClassifier(cfg *config.MatchConfig) *Classifier {
	return &Classifier{
		thresholds:    cfg.QualityThresholds,
		minAcceptance: cfg.MinAcceptanceScore,
	}
}

// Tier maps a composite score to its quality tier name. Scores below every
// configured floor fall through to VERY_LOW.
func (c *Classifier) Tier(score float64) string {
	for _, tt := range c.thresholds {
		if score >= tt.MinScore {
			return tt.Tier
		}
	}
	return TierVeryLow
}

// Classify produces the terminal MatchResult for one place. winner may be
// nil (no candidates within range); a winner below the acceptance floor is
// likewise reported as NO_MATCH. This stage never drops a place.
func (c *Classifier) Classify(place *Place, winner *Candidate) *MatchResult {
	placeName := normalize.Record(place.Names)

	if winner == nil || winner.CompositeScore < c.minAcceptance {
		return &MatchResult{
			PlaceID:        place.ID,
			BuildingID:     nil,
			Metrics:        nil,
			CompositeScore: 0.0,
			QualityTier:    TierNoMatch,
			PlaceName:      placeName.Display,
		}
	}

	buildingID := winner.Building.ID
	metrics := winner.Metrics
	return &MatchResult{
		PlaceID:        place.ID,
		BuildingID:     &buildingID,
		Metrics:        &metrics,
		CompositeScore: winner.CompositeScore,
		QualityTier:    c.Tier(winner.CompositeScore),
		PlaceName:      placeName.Display,
		BuildingName:   normalize.Record(winner.Building.Names).Display,
	}
}
