package match

import (
	"time"

	"github.com/paulmach/orb"

	"github.com/placematch/internal/normalize"
)

// Place is a point-located entity to be matched to a building footprint.
// Immutable once ingested.
type Place struct {
	ID         string               `json:"id"`
	Names      normalize.NameRecord `json:"names"`
	Category   string               `json:"category,omitempty"`
	Confidence *float64             `json:"confidence,omitempty"` // 0..1, from the data provider
	Point      orb.Point            `json:"point"`                // WGS84 lon/lat
	// Attributes carries contact/address fields the matcher does not
	// interpret; they pass through to downstream consumers untouched.
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Building is a polygon-footprint entity serving as a match target.
// Immutable once ingested.
type Building struct {
	ID         string               `json:"id"`
	Names      normalize.NameRecord `json:"names"`
	Polygon    orb.Polygon          `json:"polygon"`
	Height     *float64             `json:"height,omitempty"`
	FloorCount *int                 `json:"floor_count,omitempty"`
	Attributes map[string]string    `json:"attributes,omitempty"`
}

// SpatialMetrics are the geometric features of a place/building pairing.
type SpatialMetrics struct {
	IsContained        bool    `json:"is_contained"`
	DistanceToBoundary float64 `json:"distance_to_boundary_m"`
	DistanceToCentroid float64 `json:"distance_to_centroid_m"`
}

// NameMetrics are the textual similarity features of a place/building pairing.
// All values are in [0,1].
type NameMetrics struct {
	ExactMatch   float64 `json:"exact_match"`
	EditSim      float64 `json:"edit_similarity"`
	JaroWinkler  float64 `json:"jaro_winkler"`
	Substring    float64 `json:"substring_bonus"`
	TokenOverlap float64 `json:"token_overlap"`
}

// MetricVector is the full feature set recorded on a match, for
// explainability.
type MetricVector struct {
	SpatialMetrics
	NameMetrics
	// DistanceScore is the decayed distance component, NameComposite the
	// weighted sum of the name metrics. Both feed the composite score.
	DistanceScore float64 `json:"distance_score"`
	NameComposite float64 `json:"name_composite"`
}

// Candidate is an ephemeral scored pairing of one place with one building.
// Created fresh per matching run, never persisted on its own.
type Candidate struct {
	Building       *Building
	Metrics        MetricVector
	CompositeScore float64
}

// Quality tiers, best to worst. NO_MATCH marks places with no acceptable
// candidate.
const (
	TierExcellent = "EXCELLENT"
	TierHigh      = "HIGH"
	TierMedium    = "MEDIUM"
	TierLow       = "LOW"
	TierVeryLow   = "VERY_LOW"
	TierNoMatch   = "NO_MATCH"
)

// MatchResult is the terminal, write-once outcome for one place. Exactly one
// is produced per input place.
type MatchResult struct {
	PlaceID string `json:"place_id"`
	// BuildingID is nil when the place is unmatched.
	BuildingID *string `json:"building_id"`
	// Metrics is nil when the place is unmatched.
	Metrics        *MetricVector `json:"metrics,omitempty"`
	CompositeScore float64       `json:"composite_score"`
	QualityTier    string        `json:"quality_tier"`
	// PlaceName and BuildingName are display names, for reporting.
	PlaceName    string `json:"place_name"`
	BuildingName string `json:"building_name,omitempty"`
}

// Matched reports whether the place was resolved to a building.
func (r *MatchResult) Matched() bool {
	return r.BuildingID != nil
}

// RunStats counts outcomes of a matching run.
type RunStats struct {
	Processed        int            `json:"processed"`
	Matched          int            `json:"matched"`
	Unmatched        int            `json:"unmatched"`
	TierCounts       map[string]int `json:"tier_counts"`
	GeometryFailures int            `json:"geometry_failures"`
}

// MatchRun is the bookkeeping record for one batch run.
type MatchRun struct {
	RunID       string     `json:"run_id"`
	Label       string     `json:"run_label"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Stats       RunStats   `json:"stats"`
}
