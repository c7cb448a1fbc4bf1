package search

import (
	"context"

	"github.com/tanhanwei/steamseek/internal/domain"
)

// Retriever runs semantic retrieval over the game catalog.
type Retriever interface {
	// Retrieve returns up to topK hits in descending semantic closeness.
	Retrieve(ctx context.Context, query string, topK int) ([]domain.RetrievalHit, error)
}

// QueryOptimizer rewrites a free-text query for better retrieval.
type QueryOptimizer interface {
	// OptimizeQuery returns the rewritten query and an explanation of the rewrite.
	OptimizeQuery(ctx context.Context, query string) (rewritten, explanation string, err error)
}

// Reranker reorders ranking candidates by relevance to the query.
// A nil id list or a non-nil error both mean "use fallback order".
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []domain.RankingCandidate) (orderedIDs []int64, comment string, err error)
}

// CatalogLookup reads full catalog entries.
// found=false means the entry does not exist; err signals a backend failure.
type CatalogLookup interface {
	Get(ctx context.Context, appID int64) (domain.CatalogEntry, bool, error)
}

// SummaryLookup reads precomputed game summaries.
type SummaryLookup interface {
	Get(ctx context.Context, appID int64) (summary string, found bool, err error)
}
