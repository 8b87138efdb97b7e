package match

import (
	"github.com/paulmach/orb"

	"github.com/placematch/internal/normalize"
)

// Shared fixtures for the match package tests. All geometry lives near the
// equator, where one degree is about 111.3km in both axes.

func record(primary string) normalize.NameRecord {
	return normalize.NameRecord{Primary: primary}
}

func buildingNameTable(buildings ...*Building) map[string]normalize.NormalizedName {
	names := make(map[string]normalize.NormalizedName, len(buildings))
	for _, b := range buildings {
		names[b.ID] = normalize.Record(b.Names)
	}
	return names
}

// square returns a counter-clockwise closed square footprint with its
// south-west corner at (lon, lat).
func square(lon, lat, sizeDeg float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{lon, lat},
		{lon + sizeDeg, lat},
		{lon + sizeDeg, lat + sizeDeg},
		{lon, lat + sizeDeg},
		{lon, lat},
	}}
}

// tierRank orders quality tiers worst to best so tests can assert "strictly
// better tier" without caring which exact tier a score lands in.
func tierRank(tier string) int {
	switch tier {
	case TierExcellent:
		return 5
	case TierHigh:
		return 4
	case TierMedium:
		return 3
	case TierLow:
		return 2
	case TierVeryLow:
		return 1
	default:
		return 0
	}
}
