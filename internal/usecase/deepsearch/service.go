package deepsearch

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/tanhanwei/steamseek/internal/domain"
	domjob "github.com/tanhanwei/steamseek/internal/domain/job"
	"github.com/tanhanwei/steamseek/internal/domain/search/filter"
)

// StartedMessage is returned to the caller when a background job is accepted.
const StartedMessage = "Deep search started. Poll for progress and fetch results when complete."

// CompletedMessage is returned when unserved results for the same query
// already exist and are handed back without starting new work.
const CompletedMessage = "Deep search completed. Here are your results."

// Service accepts deep-search requests, guards the job lifecycle, and
// exposes the polling surface. The actual search work runs in a background
// goroutine per accepted job (see orchestrator.go).
type Service struct {
	store      JobStore
	searcher   Searcher
	variations VariationGenerator
	summarizer Summarizer
	logger     *zap.Logger

	// startMu serializes the accept-or-reject decision in Start so two
	// concurrent requests for one key cannot both pass the entry guard.
	startMu sync.Mutex
}

// New creates a deep-search service.
func New(
	store JobStore,
	searcher Searcher,
	variations VariationGenerator,
	summarizer Summarizer,
	logger *zap.Logger,
) *Service {
	return &Service{
		store:      store,
		searcher:   searcher,
		variations: variations,
		summarizer: summarizer,
		logger:     logger,
	}
}

// Start accepts or rejects a deep search for the given job key.
//
// A Running job rejects new requests. A Completed, unserved job for the same
// query (case-insensitive) returns its results immediately without new work,
// flipping the served flag. A Completed job for the same query that was
// already served is rejected until the caller explicitly refreshes. Any
// genuinely new query supersedes the previous record: a fresh session id is
// allocated and the old background task's writes are guarded out.
func (s *Service) Start(key, query string, facets filter.Facets) ([]domain.GameResult, string, error) {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	if existing, ok := s.store.Get(key); ok {
		if existing.State == domjob.Running {
			return nil, "", domain.ErrJobRunning
		}
		if existing.State == domjob.Completed && existing.MatchesQuery(query) {
			if existing.ResultsServed {
				return nil, "", domain.ErrResultsServed
			}
			s.store.CompareAndSwap(key, existing.SessionID, func(r *domjob.Record) {
				r.ResultsServed = true
			})
			return existing.Results, CompletedMessage, nil
		}
	}

	rec := s.store.Create(key, query)
	s.logger.Info("deep search accepted",
		zap.String("key", key),
		zap.String("session_id", rec.SessionID),
		zap.String("query", query))

	go s.run(context.Background(), key, rec.SessionID, rec.OriginalQuery, facets)

	return []domain.GameResult{}, StartedMessage, nil
}

// Status returns the poll snapshot for the job under key. Result payloads
// are never included, only a count.
func (s *Service) Status(key string) (domjob.Status, error) {
	rec, ok := s.store.Get(key)
	if !ok {
		return domjob.Status{}, domain.ErrJobNotFound
	}
	return domjob.StatusOf(rec), nil
}

// Results consumes the completed result set for the job under key, flipping
// the served flag. A second call without a new job returns ErrResultsServed.
func (s *Service) Results(key string) ([]domain.GameResult, string, error) {
	rec, ok := s.store.Get(key)
	if !ok {
		return nil, "", domain.ErrJobNotFound
	}
	switch rec.State {
	case domjob.Failed:
		return nil, "", fmt.Errorf("%w: %s", domain.ErrJobFailed, rec.Err)
	case domjob.Completed:
	default:
		return nil, "", domain.ErrResultsNotReady
	}
	if rec.ResultsServed {
		return nil, "", domain.ErrResultsServed
	}

	s.store.CompareAndSwap(key, rec.SessionID, func(r *domjob.Record) {
		r.ResultsServed = true
	})
	return rec.Results, rec.Narrative, nil
}

// Refresh discards the job under key so the same query can run again.
func (s *Service) Refresh(key string) {
	s.store.Invalidate(key)
}
