package web

import (
	"encoding/json"
	"net/http"

	"github.com/placematch/internal/match"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"buildings": s.engine.IndexedBuildings(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.engine.Config()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"distance_threshold_meters": cfg.DistanceThresholdMeters,
		"min_acceptance_score":      cfg.MinAcceptanceScore,
		"workers":                   cfg.Workers,
		"name_weights": map[string]float64{
			"exact":         cfg.NameWeights.Exact,
			"edit":          cfg.NameWeights.Edit,
			"jaro_winkler":  cfg.NameWeights.JaroWinkler,
			"substring":     cfg.NameWeights.Substring,
			"token_overlap": cfg.NameWeights.TokenOverlap,
		},
		"composite_weights": map[string]float64{
			"containment": cfg.CompositeWeights.Containment,
			"distance":    cfg.CompositeWeights.Distance,
			"name":        cfg.CompositeWeights.Name,
		},
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"indexed_buildings":  s.engine.IndexedBuildings(),
		"rejected_buildings": s.engine.RejectedBuildings(),
	})
}

// handleMatch resolves a single place posted as JSON against the loaded
// building set and returns its MatchResult.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var place match.Place
	if err := json.NewDecoder(r.Body).Decode(&place); err != nil {
		writeError(w, http.StatusBadRequest, "invalid place payload: "+err.Error())
		return
	}
	if place.ID == "" {
		writeError(w, http.StatusBadRequest, "place id is required")
		return
	}

	result := s.engine.MatchPlace(&place)
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
