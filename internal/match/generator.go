package match

import (
	"github.com/paulmach/orb"

	"github.com/placematch/internal/geo"
	"github.com/placematch/internal/spatial"
)

// Generator produces candidate pairings for a place by querying the spatial
// index and computing the geometric features of each hit.
type Generator struct {
	index           *spatial.Index
	buildings       map[string]*Building
	thresholdMeters float64
}

// NewGenerator indexes the building set and returns the generator along with
// the index build report. Buildings with degenerate footprints are excluded
// from candidate generation entirely (and counted in the report).
func NewGenerator(buildings []*Building, thresholdMeters float64) (*Generator, *spatial.BuildReport) {
	byID := make(map[string]*Building, len(buildings))
	polys := make(map[string]orb.Polygon, len(buildings))
	for _, b := range buildings {
		byID[b.ID] = b
		polys[b.ID] = b.Polygon
	}

	index, report := spatial.NewIndex(polys)
	return &Generator{
		index:           index,
		buildings:       byID,
		thresholdMeters: thresholdMeters,
	}, report
}

// Index exposes the underlying spatial index (read-only).
func (g *Generator) Index() *spatial.Index {
	return g.index
}

// Building looks up a building by id.
func (g *Generator) Building(id string) *Building {
	return g.buildings[id]
}

// Generate returns the candidates for one place, with spatial metrics filled
// in. An empty result is a valid outcome, not an error: the place proceeds
// to classification as unmatched.
func (g *Generator) Generate(place *Place) []*Candidate {
	hits := g.index.QueryWithin(place.Point, g.thresholdMeters)
	if len(hits) == 0 {
		return nil
	}

	candidates := make([]*Candidate, 0, len(hits))
	for _, hit := range hits {
		building := g.Building(hit.ID)
		if building == nil {
			continue
		}

		contained := geo.Contains(hit.Polygon, place.Point)
		boundaryDist := geo.DistanceToBoundaryMeters(hit.Polygon, place.Point)
		centroidDist := geo.DistanceMeters(place.Point, hit.Centroid)

		candidates = append(candidates, &Candidate{
			Building: building,
			Metrics: MetricVector{
				SpatialMetrics: SpatialMetrics{
					IsContained:        contained,
					DistanceToBoundary: boundaryDist,
					DistanceToCentroid: centroidDist,
				},
			},
		})
	}

	return candidates
}
