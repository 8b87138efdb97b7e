package match

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/placematch/internal/config"
	"github.com/placematch/internal/debug"
	"github.com/placematch/internal/normalize"
)

// Engine runs the full matching pipeline: candidate generation, similarity
// scoring, ranking and quality classification. Build one per building set;
// it is immutable after construction and safe for concurrent use.
type Engine struct {
	cfg        *config.MatchConfig
	generator  *Generator
	scorer     *Scorer
	classifier *Classifier

	// buildingNames is precomputed once so workers share it read-only.
	buildingNames map[string]normalize.NormalizedName

	indexRejected int
	verbose       bool
}

// NewEngine validates the configuration, builds the spatial index and wires
// the pipeline stages. A configuration error is fatal and returned before
// any place can be processed.
func NewEngine(cfg *config.MatchConfig, buildings []*Building) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultMatchConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	generator, report := NewGenerator(buildings, cfg.DistanceThresholdMeters)

	names := make(map[string]normalize.NormalizedName, len(buildings))
	for _, b := range buildings {
		names[b.ID] = normalize.Record(b.Names)
	}

	return &Engine{
		cfg:           cfg,
		generator:     generator,
		scorer:        NewScorer(cfg),
		classifier:    NewClassifier(cfg),
		buildingNames: names,
		indexRejected: report.Rejected,
	}, nil
}

// SetVerbose enables per-place trace logging.
func (e *Engine) SetVerbose(v bool) {
	e.verbose = v
}

// Config returns the engine's validated configuration.
func (e *Engine) Config() *config.MatchConfig {
	return e.cfg
}

// IndexedBuildings returns how many footprints made it into the index.
func (e *Engine) IndexedBuildings() int {
	return e.generator.Index().Len()
}

// RejectedBuildings returns how many footprints failed geometry validation.
func (e *Engine) RejectedBuildings() int {
	return e.indexRejected
}

// MatchPlace runs the pipeline for a single place and returns its terminal
// result. Reads only the immutable index and the place itself, so it is safe
// to call from many goroutines at once.
func (e *Engine) MatchPlace(place *Place) *MatchResult {
	candidates := e.generator.Generate(place)
	debug.Output(e.verbose, "place %s: %d candidates within %.0fm",
		place.ID, len(candidates), e.cfg.DistanceThresholdMeters)

	placeName := normalize.Record(place.Names)
	e.scorer.ScoreCandidates(placeName, candidates, e.buildingNames)

	winner := SelectWinner(candidates)
	if winner != nil {
		debug.Output(e.verbose, "place %s: winner %s (score=%.4f contained=%v)",
			place.ID, winner.Building.ID, winner.CompositeScore, winner.Metrics.IsContained)
	}

	return e.classifier.Classify(place, winner)
}

// Run matches every place against the building set using a fixed-size worker
// pool and returns one result per place, sorted by place id.
//
// Cancelling the context stops new places from being submitted; in-flight
// places complete and their results are kept. Results are independent and
// keyed by place id, so identical inputs and configuration always produce
// identical output.
func (e *Engine) Run(ctx context.Context, label string, places []*Place) ([]*MatchResult, *MatchRun, error) {
	run := &MatchRun{
		RunID:     uuid.NewString(),
		Label:     label,
		StartedAt: time.Now(),
	}
	defer debug.Timing(e.verbose, "matching run "+run.RunID)()

	fmt.Printf("Starting matching run %s (%s): %d places, %d buildings, %d workers\n",
		run.RunID, label, len(places), e.IndexedBuildings(), e.cfg.Workers)

	placeChan := make(chan *Place, e.cfg.Workers)
	resultChan := make(chan *MatchResult, e.cfg.Workers)
	var wg sync.WaitGroup

	for i := 0; i < e.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for place := range placeChan {
				resultChan <- e.MatchPlace(place)
			}
		}()
	}

	// Collector owns the result slice; workers never touch shared state.
	results := make([]*MatchResult, 0, len(places))
	doneChan := make(chan bool)
	startTime := time.Now()
	go func() {
		for result := range resultChan {
			results = append(results, result)
			if len(results)%1000 == 0 {
				elapsed := time.Since(startTime)
				rate := float64(len(results)) / elapsed.Seconds()
				fmt.Printf("Processed %d/%d places (%.1f/sec)...\n", len(results), len(places), rate)
			}
		}
		doneChan <- true
	}()

	var cancelled error
feed:
	for _, place := range places {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case placeChan <- place:
		}
	}

	close(placeChan)
	wg.Wait()
	close(resultChan)
	<-doneChan

	// Workers drain results in arrival order; sort for reproducible output.
	sort.Slice(results, func(i, j int) bool { return results[i].PlaceID < results[j].PlaceID })

	run.Stats = e.collectStats(results)
	now := time.Now()
	run.CompletedAt = &now

	fmt.Printf("Matching run %s complete: processed=%d matched=%d unmatched=%d geometry_failures=%d\n",
		run.RunID, run.Stats.Processed, run.Stats.Matched, run.Stats.Unmatched, run.Stats.GeometryFailures)

	if cancelled != nil {
		return results, run, fmt.Errorf("run cancelled after %d of %d places: %w", len(results), len(places), cancelled)
	}
	return results, run, nil
}

// collectStats tallies outcome counters for a result set.
func (e *Engine) collectStats(results []*MatchResult) RunStats {
	stats := RunStats{
		Processed:        len(results),
		TierCounts:       make(map[string]int),
		GeometryFailures: e.indexRejected,
	}

	for _, r := range results {
		stats.TierCounts[r.QualityTier]++
		if r.Matched() {
			stats.Matched++
		} else {
			stats.Unmatched++
		}
	}

	return stats
}

// PrintSummary writes a human-readable report for a completed run.
func (e *Engine) PrintSummary(run *MatchRun) {
	fmt.Println("\n=== Matching Run Summary ===")
	fmt.Printf("Run:       %s (%s)\n", run.RunID, run.Label)
	fmt.Printf("Processed: %d places\n", run.Stats.Processed)
	fmt.Printf("Matched:   %d  Unmatched: %d\n", run.Stats.Matched, run.Stats.Unmatched)

	order := []string{TierExcellent, TierHigh, TierMedium, TierLow, TierVeryLow, TierNoMatch}
	for _, tier := range order {
		if count := run.Stats.TierCounts[tier]; count > 0 {
			fmt.Printf("  %-10s %d\n", tier, count)
		}
	}

	if run.Stats.GeometryFailures > 0 {
		fmt.Printf("Buildings excluded for invalid geometry: %d\n", run.Stats.GeometryFailures)
	}
	if run.CompletedAt != nil {
		fmt.Printf("Duration:  %v\n", run.CompletedAt.Sub(run.StartedAt))
	}
}
