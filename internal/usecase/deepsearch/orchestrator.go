package deepsearch

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tanhanwei/steamseek/internal/domain"
	domjob "github.com/tanhanwei/steamseek/internal/domain/job"
	"github.com/tanhanwei/steamseek/internal/domain/search/filter"
	"github.com/tanhanwei/steamseek/internal/domain/search/mode"
	"github.com/tanhanwei/steamseek/internal/domain/search/request"
	"github.com/tanhanwei/steamseek/internal/logger"
	"github.com/tanhanwei/steamseek/internal/metrics"
)

// MaxVariations caps how many query variations one deep search runs.
const MaxVariations = 6

// run is the background task for one accepted deep search. It generates
// query variations, runs the ranking pipeline once per variation, merges and
// deduplicates the results, asks the summarizer for a final ranking and
// narrative, and writes the outcome through the store's compare-and-swap.
// The job always reaches a terminal state: panics are converted to Failed.
func (s *Service) run(ctx context.Context, key, sessionID, query string, facets filter.Facets) {
	log := s.logger.With(
		zap.String("key", key),
		zap.String("session_id", sessionID),
		zap.String("query", query),
	)
	ctx = logger.ContextWithLogger(ctx, log)

	defer func() {
		if rvr := recover(); rvr != nil {
			log.Error("deep search panicked", zap.Any("panic", rvr), zap.Stack("stacktrace"))
			s.finishFailed(key, sessionID, fmt.Sprintf("internal error: %v", rvr))
		}
	}()

	variations := s.generateVariations(ctx, query)
	totalSteps := len(variations) + 2

	log.Info("deep search variations generated", zap.Strings("variations", variations))

	var (
		mergeOrder []int64
		merged     = make(map[int64]domain.GameResult, request.DefaultLimit)
		failures   int
	)

	for i, variation := range variations {
		progress := 10 + (70*i)/totalSteps
		step := fmt.Sprintf("Searching variation %d of %d: %q", i+1, len(variations), variation)

		// The progress write doubles as the pre-call stale check: a false
		// CAS means this run has been superseded.
		if !s.store.CompareAndSwap(key, sessionID, func(r *domjob.Record) {
			r.Progress = progress
			r.CurrentStep = step
		}) {
			s.abandon(log, "before variation", variation)
			return
		}

		req, err := request.New(variation, facets, request.Relevance, mode.Plain, 0)
		if err != nil {
			log.Warn("skipping unusable variation", zap.String("variation", variation), zap.Error(err))
			failures++
			continue
		}

		results, _, err := s.searcher.Search(ctx, req)

		if !s.current(key, sessionID) {
			s.abandon(log, "after variation", variation)
			return
		}

		if err != nil {
			log.Warn("variation search failed", zap.String("variation", variation), zap.Error(err))
			failures++
			continue
		}

		// First-seen-wins dedup: the first variation to surface an id keeps
		// its display payload.
		for _, r := range results {
			if _, ok := merged[r.AppID]; ok {
				continue
			}
			merged[r.AppID] = r
			mergeOrder = append(mergeOrder, r.AppID)
		}
	}

	if failures == len(variations) {
		log.Error("all deep search variations failed")
		metrics.DeepSearchJobsTotal.WithLabelValues("failed").Inc()
		s.finishFailed(key, sessionID, "all query variations failed; the search backend may be unavailable")
		return
	}

	if !s.store.CompareAndSwap(key, sessionID, func(r *domjob.Record) {
		r.Progress = 85
		r.CurrentStep = "Synthesizing final ranking"
	}) {
		s.abandon(log, "before final ranking", "")
		return
	}

	finalResults := make([]domain.GameResult, 0, len(mergeOrder))
	for _, id := range mergeOrder {
		finalResults = append(finalResults, merged[id])
	}

	// The final rank and narrative always use the original, unrewritten
	// query. A summarizer failure keeps merge order and a generated
	// narrative; it never fails the job.
	narrative := ""
	orderedIDs, summary, err := s.summarizer.SummarizeAndRank(ctx, query, finalResults)
	if err != nil || orderedIDs == nil {
		log.Warn("final summarize/rank failed, keeping merge order", zap.Error(err))
		narrative = fallbackNarrative(query, len(finalResults), err)
	} else {
		finalResults = reorderByIDs(finalResults, orderedIDs)
		narrative = summary
	}

	if !s.store.CompareAndSwap(key, sessionID, func(r *domjob.Record) {
		r.State = domjob.Completed
		r.Progress = 100
		r.CurrentStep = "Complete"
		r.Results = finalResults
		r.Narrative = narrative
		r.ResultsServed = false
		r.Err = ""
	}) {
		s.abandon(log, "at finalization", "")
		return
	}

	metrics.DeepSearchJobsTotal.WithLabelValues("completed").Inc()
	log.Info("deep search completed", zap.Int("results", len(finalResults)))
}

// generateVariations asks the generator for rewordings of the query,
// guarantees the original query is element 0, and caps the list at
// MaxVariations. Generator failures degrade to the original query alone.
func (s *Service) generateVariations(ctx context.Context, query string) []string {
	generated, err := s.variations.GenerateVariations(ctx, query)
	if err != nil {
		logger.FromContext(ctx).Warn("variation generation failed, using original query only", zap.Error(err))
		return []string{query}
	}

	variations := make([]string, 0, MaxVariations)
	hasOriginal := false
	for _, v := range generated {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if v == query {
			hasOriginal = true
		}
		variations = append(variations, v)
	}
	if !hasOriginal {
		variations = append([]string{query}, variations...)
	}
	if len(variations) > MaxVariations {
		variations = variations[:MaxVariations]
	}
	return variations
}

// current reports whether this run still owns the record under key.
func (s *Service) current(key, sessionID string) bool {
	rec, ok := s.store.Get(key)
	return ok && rec.SessionID == sessionID
}

// abandon logs that the run was superseded. No state is written: the new
// session owns the record now.
func (s *Service) abandon(log *zap.Logger, where, variation string) {
	metrics.DeepSearchJobsTotal.WithLabelValues("superseded").Inc()
	log.Info("deep search superseded, abandoning",
		zap.String("where", where), zap.String("variation", variation))
}

// finishFailed moves the job to Failed through the stale-write guard.
func (s *Service) finishFailed(key, sessionID, msg string) {
	s.store.CompareAndSwap(key, sessionID, func(r *domjob.Record) {
		r.State = domjob.Failed
		r.Progress = 100
		r.CurrentStep = "Failed"
		r.Err = msg
	})
}

// reorderByIDs reorders results by the summarizer's ranking. Ids the
// summarizer did not mention are appended in merge order; ids it invented
// are dropped.
func reorderByIDs(results []domain.GameResult, orderedIDs []int64) []domain.GameResult {
	byID := make(map[int64]domain.GameResult, len(results))
	for _, r := range results {
		byID[r.AppID] = r
	}

	out := make([]domain.GameResult, 0, len(results))
	taken := make(map[int64]bool, len(results))
	for _, id := range orderedIDs {
		if r, ok := byID[id]; ok && !taken[id] {
			out = append(out, r)
			taken[id] = true
		}
	}
	for _, r := range results {
		if !taken[r.AppID] {
			out = append(out, r)
		}
	}
	return out
}

func fallbackNarrative(query string, count int, err error) string {
	reason := "the summarizer returned no ranking"
	if err != nil {
		reason = err.Error()
	}
	return fmt.Sprintf(
		"Deep search for %q finished with %d unique games across all query variations. "+
			"A narrative summary could not be generated (%s); results are in discovery order.",
		query, count, reason,
	)
}
