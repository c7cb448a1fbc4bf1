package deepsearch

import (
	"context"

	"github.com/tanhanwei/steamseek/internal/domain"
	domjob "github.com/tanhanwei/steamseek/internal/domain/job"
	"github.com/tanhanwei/steamseek/internal/domain/search/request"
)

// VariationGenerator expands one query into several related queries.
type VariationGenerator interface {
	GenerateVariations(ctx context.Context, query string) ([]string, error)
}

// Summarizer produces a final id ranking and a narrative summary over the
// merged deep-search result set. A nil id list or a non-nil error both mean
// "keep merge order".
type Summarizer interface {
	SummarizeAndRank(ctx context.Context, query string, merged []domain.GameResult) (orderedIDs []int64, narrative string, err error)
}

// Searcher runs one ranking pipeline invocation. Satisfied by the search
// service.
type Searcher interface {
	Search(ctx context.Context, req request.Request) ([]domain.GameResult, string, error)
}

// JobStore is the synchronized table of job records. All orchestrator
// mutation goes through CompareAndSwap.
type JobStore interface {
	Create(key, query string) domjob.Record
	Get(key string) (domjob.Record, bool)
	CompareAndSwap(key, sessionID string, mutate func(*domjob.Record)) bool
	Invalidate(key string)
}
