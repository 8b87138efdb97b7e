package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/placematch/internal/match"
)

// WriteResultsCSV writes one row per match result. Unmatched places get an
// empty building_id and empty metric columns, never missing rows.
func WriteResultsCSV(w io.Writer, results []*match.MatchResult) error {
	cw := csv.NewWriter(w)

	header := []string{
		"place_id", "place_name", "building_id", "building_name",
		"composite_score", "quality_tier",
		"is_contained", "distance_to_boundary_m", "distance_to_centroid_m",
		"exact_match", "edit_similarity", "jaro_winkler", "substring_bonus", "token_overlap",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range results {
		row := []string{
			r.PlaceID,
			r.PlaceName,
			"",
			"",
			formatFloat(r.CompositeScore),
			r.QualityTier,
			"", "", "", "", "", "", "", "",
		}

		if r.Matched() {
			row[2] = *r.BuildingID
			row[3] = r.BuildingName
			m := r.Metrics
			row[6] = strconv.FormatBool(m.IsContained)
			row[7] = formatFloat(m.DistanceToBoundary)
			row[8] = formatFloat(m.DistanceToCentroid)
			row[9] = formatFloat(m.ExactMatch)
			row[10] = formatFloat(m.EditSim)
			row[11] = formatFloat(m.JaroWinkler)
			row[12] = formatFloat(m.Substring)
			row[13] = formatFloat(m.TokenOverlap)
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for place %s: %w", r.PlaceID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteResultsFile writes results to a CSV file at path.
func WriteResultsFile(path string, results []*match.MatchResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteResultsCSV(f, results); err != nil {
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
