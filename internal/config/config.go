package config

import (
	"fmt"
	"math"
)

// weightSumTolerance is how far a weight set may drift from 1.0 before the
// configuration is rejected. Generous enough for hand-edited env values.
const weightSumTolerance = 0.001

// ConfigError indicates an invalid matching configuration. It is fatal and
// raised before any place is processed.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// NameWeights controls how the five name similarity metrics combine into the
// name composite. Must sum to 1.0.
type NameWeights struct {
	Exact        float64
	Edit         float64
	JaroWinkler  float64
	Substring    float64
	TokenOverlap float64
}

// CompositeWeights controls how containment, distance and name similarity
// combine into the final composite score. Must sum to 1.0.
type CompositeWeights struct {
	Containment float64
	Distance    float64
	Name        float64
}

// TierThreshold maps a minimum composite score to a quality tier name.
type TierThreshold struct {
	Tier     string
	MinScore float64
}

// MatchConfig holds all tunables for a matching run.
//
// The source data this engine was built for disagrees on concrete defaults
// (search radii of 25/50/100/200 m, name weight fractions of 60/70%), so
// everything here is exposed as a tunable rather than baked in.
type MatchConfig struct {
	// DistanceThresholdMeters is the candidate search radius around each
	// place point. The distance score saturates to 0 at this radius.
	DistanceThresholdMeters float64

	// MinAcceptanceScore is the composite score floor below which the best
	// candidate is discarded and the place reported as NO_MATCH.
	// 0.0 accepts any candidate.
	MinAcceptanceScore float64

	// Workers is the size of the matching worker pool.
	Workers int

	NameWeights       NameWeights
	CompositeWeights  CompositeWeights
	QualityThresholds []TierThreshold
}

// DefaultNameWeights returns the recommended name metric weights.
func DefaultNameWeights() NameWeights {
	return NameWeights{
		Exact:        0.30,
		Edit:         0.25,
		JaroWinkler:  0.25,
		Substring:    0.10,
		TokenOverlap: 0.10,
	}
}

// DefaultCompositeWeights returns the recommended composite weights.
func DefaultCompositeWeights() CompositeWeights {
	return CompositeWeights{
		Containment: 0.40,
		Distance:    0.25,
		Name:        0.35,
	}
}

// DefaultQualityThresholds returns the tier table, highest floor first.
// Scores below the last floor classify as VERY_LOW.
func DefaultQualityThresholds() []TierThreshold {
	return []TierThreshold{
		{Tier: "EXCELLENT", MinScore: 0.90},
		{Tier: "HIGH", MinScore: 0.75},
		{Tier: "MEDIUM", MinScore: 0.60},
		{Tier: "LOW", MinScore: 0.40},
	}
}

// DefaultMatchConfig returns a config with documented defaults.
func DefaultMatchConfig() *MatchConfig {
	return &MatchConfig{
		DistanceThresholdMeters: 50.0,
		MinAcceptanceScore:      0.0,
		Workers:                 4,
		NameWeights:             DefaultNameWeights(),
		CompositeWeights:        DefaultCompositeWeights(),
		QualityThresholds:       DefaultQualityThresholds(),
	}
}

// MatchConfigFromEnv builds a config from environment variables, falling back
// to defaults for anything unset. Weight sets are only overridable as a group.
func MatchConfigFromEnv() *MatchConfig {
	cfg := DefaultMatchConfig()

	cfg.DistanceThresholdMeters = GetEnvFloat("MATCH_DISTANCE_THRESHOLD_M", cfg.DistanceThresholdMeters)
	cfg.MinAcceptanceScore = GetEnvFloat("MATCH_MIN_ACCEPTANCE_SCORE", cfg.MinAcceptanceScore)
	cfg.Workers = GetEnvInt("MATCH_WORKERS", cfg.Workers)

	cfg.NameWeights.Exact = GetEnvFloat("MATCH_NAME_WEIGHT_EXACT", cfg.NameWeights.Exact)
	cfg.NameWeights.Edit = GetEnvFloat("MATCH_NAME_WEIGHT_EDIT", cfg.NameWeights.Edit)
	cfg.NameWeights.JaroWinkler = GetEnvFloat("MATCH_NAME_WEIGHT_JARO_WINKLER", cfg.NameWeights.JaroWinkler)
	cfg.NameWeights.Substring = GetEnvFloat("MATCH_NAME_WEIGHT_SUBSTRING", cfg.NameWeights.Substring)
	cfg.NameWeights.TokenOverlap = GetEnvFloat("MATCH_NAME_WEIGHT_TOKEN_OVERLAP", cfg.NameWeights.TokenOverlap)

	cfg.CompositeWeights.Containment = GetEnvFloat("MATCH_WEIGHT_CONTAINMENT", cfg.CompositeWeights.Containment)
	cfg.CompositeWeights.Distance = GetEnvFloat("MATCH_WEIGHT_DISTANCE", cfg.CompositeWeights.Distance)
	cfg.CompositeWeights.Name = GetEnvFloat("MATCH_WEIGHT_NAME", cfg.CompositeWeights.Name)

	return cfg
}

// Validate checks the configuration and returns a *ConfigError on the first
// problem found. Must be called before a matching run starts.
func (c *MatchConfig) Validate() error {
	if c.DistanceThresholdMeters <= 0 {
		return &ConfigError{Field: "distance_threshold_meters", Reason: "must be positive"}
	}
	if c.MinAcceptanceScore < 0 || c.MinAcceptanceScore > 1 {
		return &ConfigError{Field: "min_acceptance_score", Reason: "must be in [0,1]"}
	}
	if c.Workers <= 0 {
		return &ConfigError{Field: "workers", Reason: "must be positive"}
	}

	nw := []float64{
		c.NameWeights.Exact, c.NameWeights.Edit, c.NameWeights.JaroWinkler,
		c.NameWeights.Substring, c.NameWeights.TokenOverlap,
	}
	if err := validateWeightSet("name_weights", nw); err != nil {
		return err
	}

	cw := []float64{
		c.CompositeWeights.Containment, c.CompositeWeights.Distance, c.CompositeWeights.Name,
	}
	if err := validateWeightSet("composite_weights", cw); err != nil {
		return err
	}

	if len(c.QualityThresholds) == 0 {
		return &ConfigError{Field: "quality_thresholds", Reason: "must not be empty"}
	}
	prev := math.Inf(1)
	for _, tt := range c.QualityThresholds {
		if tt.Tier == "" {
			return &ConfigError{Field: "quality_thresholds", Reason: "tier name must not be empty"}
		}
		if tt.MinScore < 0 || tt.MinScore > 1 {
			return &ConfigError{Field: "quality_thresholds", Reason: fmt.Sprintf("tier %s floor %.3f out of [0,1]", tt.Tier, tt.MinScore)}
		}
		if tt.MinScore >= prev {
			return &ConfigError{Field: "quality_thresholds", Reason: "tier floors must be strictly descending"}
		}
		prev = tt.MinScore
	}

	return nil
}

func validateWeightSet(field string, weights []float64) error {
	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return &ConfigError{Field: field, Reason: fmt.Sprintf("negative weight %.3f", w)}
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return &ConfigError{Field: field, Reason: fmt.Sprintf("weights sum to %.4f, expected 1.0", sum)}
	}
	return nil
}
