package store

import (
	"fmt"
	"log"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/placematch/internal/match"
	"github.com/placematch/internal/normalize"
)

// LoadPlacesGeoJSON reads places from a GeoJSON FeatureCollection of Point
// features. Recognised properties: id, name, alt_names, category, confidence;
// everything else passes through as opaque attributes.
func LoadPlacesGeoJSON(path string) ([]*match.Place, error) {
	fc, err := readFeatureCollection(path)
	if err != nil {
		return nil, err
	}

	places := make([]*match.Place, 0, len(fc.Features))
	for i, f := range fc.Features {
		point, ok := f.Geometry.(orb.Point)
		if !ok {
			log.Printf("WARNING: skipping place feature %d: geometry is %T, want Point", i, f.Geometry)
			continue
		}

		place := &match.Place{
			ID:       featureID(f, i, "place"),
			Names:    nameRecord(f),
			Category: f.Properties.MustString("category", ""),
			Point:    point,
		}
		if conf, ok := f.Properties["confidence"].(float64); ok {
			place.Confidence = &conf
		}
		place.Attributes = passthroughAttributes(f)

		places = append(places, place)
	}

	return places, nil
}

// LoadBuildingsGeoJSON reads building footprints from a GeoJSON
// FeatureCollection of Polygon or MultiPolygon features. For multi-polygons
// the largest part is indexed; geometry validation happens later, at index
// build time.
func LoadBuildingsGeoJSON(path string) ([]*match.Building, error) {
	fc, err := readFeatureCollection(path)
	if err != nil {
		return nil, err
	}

	buildings := make([]*match.Building, 0, len(fc.Features))
	for i, f := range fc.Features {
		var polygon orb.Polygon
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			polygon = g
		case orb.MultiPolygon:
			polygon = largestPolygon(g)
		default:
			log.Printf("WARNING: skipping building feature %d: geometry is %T, want Polygon", i, f.Geometry)
			continue
		}

		building := &match.Building{
			ID:      featureID(f, i, "building"),
			Names:   nameRecord(f),
			Polygon: polygon,
		}
		if h, ok := f.Properties["height"].(float64); ok {
			building.Height = &h
		}
		if fl, ok := f.Properties["floor_count"].(float64); ok {
			floors := int(fl)
			building.FloorCount = &floors
		}
		building.Attributes = passthroughAttributes(f)

		buildings = append(buildings, building)
	}

	return buildings, nil
}

func readFeatureCollection(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return fc, nil
}

func featureID(f *geojson.Feature, ordinal int, kind string) string {
	if id := f.Properties.MustString("id", ""); id != "" {
		return id
	}
	if f.ID != nil {
		return fmt.Sprintf("%v", f.ID)
	}
	return fmt.Sprintf("%s_%06d", kind, ordinal)
}

func nameRecord(f *geojson.Feature) normalize.NameRecord {
	record := normalize.NameRecord{
		Primary: f.Properties.MustString("name", ""),
	}
	if alts, ok := f.Properties["alt_names"].([]interface{}); ok {
		for _, alt := range alts {
			if s, ok := alt.(string); ok {
				record.Alternates = append(record.Alternates, s)
			}
		}
	}
	return record
}

// passthroughAttributes keeps the string-valued properties the matcher does
// not interpret (phone, website, address and the like).
func passthroughAttributes(f *geojson.Feature) map[string]string {
	var attrs map[string]string
	for key, value := range f.Properties {
		switch key {
		case "id", "name", "alt_names", "category", "confidence", "height", "floor_count":
			continue
		}
		if s, ok := value.(string); ok {
			if attrs == nil {
				attrs = make(map[string]string)
			}
			attrs[key] = s
		}
	}
	return attrs
}

func largestPolygon(mp orb.MultiPolygon) orb.Polygon {
	var best orb.Polygon
	bestArea := -1.0
	for _, p := range mp {
		if area := math.Abs(planar.Area(p)); area > bestArea {
			bestArea = area
			best = p
		}
	}
	return best
}
