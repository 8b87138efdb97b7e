package spatial

import (
	"log"
	"sort"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/quadtree"

	"github.com/placematch/internal/geo"
)

// Entry is one indexed building footprint.
type Entry struct {
	ID       string
	Polygon  orb.Polygon
	Bound    orb.Bound
	Centroid orb.Point
}

// Point implements orb.Pointer so entries can live in the quadtree.
func (e *Entry) Point() orb.Point {
	return e.Centroid
}

// BuildReport summarises what happened while building an index.
type BuildReport struct {
	Indexed  int
	Rejected int
	// RejectedIDs lists footprints that failed geometry validation and were
	// excluded from all queries.
	RejectedIDs []string
}

// Index is an immutable spatial index over building footprints. It is built
// once, single-threaded, and is safe for concurrent reads afterwards.
//
// Queries run a coarse quadtree-plus-bounding-box prune over footprint
// centroids, then exact distance tests against the polygons themselves.
type Index struct {
	entries map[string]*Entry
	tree    *quadtree.Quadtree

	// maxReachMeters is the largest centroid-to-corner distance of any
	// indexed footprint. Query bounds are padded by it so a building whose
	// centroid sits outside the search radius is still found when its
	// footprint reaches in.
	maxReachMeters float64
}

// NewIndex builds an index from building footprints. Footprints with
// degenerate geometry are rejected with a logged warning rather than
// aborting the build.
func NewIndex(footprints map[string]orb.Polygon) (*Index, *BuildReport) {
	report := &BuildReport{}

	bound := orb.Bound{Min: orb.Point{1, 1}, Max: orb.Point{-1, -1}}
	entries := make(map[string]*Entry, len(footprints))
	maxReach := 0.0

	for id, polygon := range footprints {
		if err := geo.ValidatePolygon(polygon); err != nil {
			log.Printf("WARNING: excluding building %s from spatial index: %v", id, err)
			report.Rejected++
			report.RejectedIDs = append(report.RejectedIDs, id)
			continue
		}

		entry := &Entry{
			ID:       id,
			Polygon:  polygon,
			Bound:    polygon.Bound(),
			Centroid: geo.Centroid(polygon),
		}
		entries[id] = entry

		if bound.IsZero() || bound.IsEmpty() {
			bound = entry.Bound
		} else {
			bound = bound.Union(entry.Bound)
		}

		for _, corner := range []orb.Point{
			entry.Bound.Min,
			entry.Bound.Max,
			{entry.Bound.Min.Lon(), entry.Bound.Max.Lat()},
			{entry.Bound.Max.Lon(), entry.Bound.Min.Lat()},
		} {
			if reach := geo.DistanceMeters(entry.Centroid, corner); reach > maxReach {
				maxReach = reach
			}
		}
	}

	sort.Strings(report.RejectedIDs)

	if len(entries) == 0 {
		// Keep a usable (always empty) index even when every footprint
		// failed validation.
		bound = orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}
	}

	tree := quadtree.New(bound.Pad(0.0001))
	for _, entry := range entries {
		tree.Add(entry)
	}

	report.Indexed = len(entries)
	return &Index{entries: entries, tree: tree, maxReachMeters: maxReach}, report
}

// Len returns the number of indexed footprints.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Get returns the entry for a building id, or nil.
func (idx *Index) Get(id string) *Entry {
	return idx.entries[id]
}

// QueryWithin returns all buildings whose footprint lies within radiusMeters
// of point: contained, on the boundary, or with a boundary edge inside the
// radius. Results are sorted by building id so callers see a stable order.
func (idx *Index) QueryWithin(point orb.Point, radiusMeters float64) []*Entry {
	if radiusMeters <= 0 || len(idx.entries) == 0 {
		return nil
	}

	searchBound := orbgeo.NewBoundAroundPoint(point, radiusMeters+idx.maxReachMeters)

	var hits []*Entry
	for _, ptr := range idx.tree.InBound(nil, searchBound) {
		entry := ptr.(*Entry)
		if !entry.Bound.Intersects(searchBound) {
			continue
		}
		if geo.Contains(entry.Polygon, point) ||
			geo.DistanceToBoundaryMeters(entry.Polygon, point) <= radiusMeters {
			hits = append(hits, entry)
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].ID < hits[j].ID })
	return hits
}
