package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
)

const (
	earthRadiusMeters = 6371000.0

	// boundaryEpsilonMeters is how close to a polygon edge a point may be and
	// still count as contained. Containment is boundary inclusive.
	boundaryEpsilonMeters = 0.01
)

// GeometryError indicates a degenerate or otherwise unusable polygon.
// It is recovered locally: the offending geometry is skipped, never fatal.
type GeometryError struct {
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("invalid geometry: %s", e.Reason)
}

// ValidatePolygon rejects geometry the matching engine cannot reason about:
// empty polygons, open or undersized rings, and rings with no area.
func ValidatePolygon(p orb.Polygon) error {
	if len(p) == 0 {
		return &GeometryError{Reason: "polygon has no rings"}
	}
	for i, ring := range p {
		if len(ring) < 4 {
			return &GeometryError{Reason: fmt.Sprintf("ring %d has %d points, need at least 4", i, len(ring))}
		}
		if !ring.Closed() {
			return &GeometryError{Reason: fmt.Sprintf("ring %d is not closed", i)}
		}
	}
	if planar.Area(p) == 0 {
		return &GeometryError{Reason: "polygon has zero area"}
	}
	return nil
}

// Contains reports whether point lies within the polygon, boundary inclusive.
func Contains(p orb.Polygon, point orb.Point) bool {
	if planar.PolygonContains(p, point) {
		return true
	}
	// Ray casting is unreliable exactly on an edge; treat points within a
	// centimetre of the boundary as contained.
	return DistanceToBoundaryMeters(p, point) <= boundaryEpsilonMeters
}

// Centroid returns the area-weighted centroid of the polygon.
func Centroid(p orb.Polygon) orb.Point {
	centroid, _ := planar.CentroidArea(p)
	return centroid
}

// DistanceMeters returns the haversine distance between two WGS84 points.
func DistanceMeters(a, b orb.Point) float64 {
	return geo.Distance(a, b)
}

// DistanceToBoundaryMeters returns the minimum distance from point to any
// edge of any ring of the polygon. Zero means the point is on the boundary;
// interior points still get their distance to the nearest edge.
func DistanceToBoundaryMeters(p orb.Polygon, point orb.Point) float64 {
	minDist := math.Inf(1)
	for _, ring := range p {
		for i := 0; i < len(ring)-1; i++ {
			d := pointToSegmentMeters(point, ring[i], ring[i+1])
			if d < minDist {
				minDist = d
			}
		}
	}
	if math.IsInf(minDist, 1) {
		return 0
	}
	return minDist
}

// pointToSegmentMeters projects the three points onto a local tangent plane
// around p and measures the planar point-to-segment distance. Accurate to
// well under a metre at building scale, which is all the ranker needs.
func pointToSegmentMeters(p, a, b orb.Point) float64 {
	ax, ay := projectLocal(a, p)
	bx, by := projectLocal(b, p)

	// p projects to the origin of its own tangent plane.
	dx, dy := bx-ax, by-ay
	segLenSq := dx*dx + dy*dy
	if segLenSq == 0 {
		return math.Hypot(ax, ay)
	}

	// Clamp the projection parameter to stay on the segment.
	t := -(ax*dx + ay*dy) / segLenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	cx, cy := ax+t*dx, ay+t*dy
	return math.Hypot(cx, cy)
}

// projectLocal converts a lon/lat point into metres east/north of origin
// using an equirectangular approximation centred on origin.
func projectLocal(pt, origin orb.Point) (x, y float64) {
	latRad := origin.Lat() * math.Pi / 180
	x = (pt.Lon() - origin.Lon()) * math.Pi / 180 * earthRadiusMeters * math.Cos(latRad)
	y = (pt.Lat() - origin.Lat()) * math.Pi / 180 * earthRadiusMeters
	return x, y
}
