package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tanhanwei/steamseek/internal/domain"
	"github.com/tanhanwei/steamseek/internal/domain/search/mode"
	"github.com/tanhanwei/steamseek/internal/domain/search/request"
	"github.com/tanhanwei/steamseek/internal/logger"
	"github.com/tanhanwei/steamseek/internal/metrics"
)

// Pipeline limits.
const (
	// InitialTopK is how many hits are requested from retrieval.
	InitialTopK = 50
	// RerankCandidateLimit caps how many candidates are sent to the reranker.
	RerankCandidateLimit = 50
)

// Service runs the ranking pipeline: retrieve, assemble candidates,
// optionally rerank, hydrate, filter, sort, truncate. Rewrite and rerank
// failures never abort a search; they fall back to the previous ordering.
type Service struct {
	retriever Retriever
	optimizer QueryOptimizer
	reranker  Reranker
	catalog   CatalogLookup
	summaries SummaryLookup
}

// New creates a search service.
func New(
	retriever Retriever,
	optimizer QueryOptimizer,
	reranker Reranker,
	catalog CatalogLookup,
	summaries SummaryLookup,
) *Service {
	return &Service{
		retriever: retriever,
		optimizer: optimizer,
		reranker:  reranker,
		catalog:   catalog,
		summaries: summaries,
	}
}

// Search executes one ranking pipeline run and returns the ordered, filtered
// results plus a caller-facing note (rewrite explanation or failure reason).
// An error is returned only when retrieval itself is unreachable.
func (s *Service) Search(ctx context.Context, req request.Request) ([]domain.GameResult, string, error) {
	log := logger.FromContext(ctx)

	searchQuery := req.Query()
	note := ""

	// Query rewrite is best-effort: a failed rewrite falls back to the
	// original query and must never abort the search.
	if req.Mode() == mode.AIEnhanced {
		rewritten, explanation, err := s.optimizer.OptimizeQuery(ctx, searchQuery)
		if err != nil {
			log.Warn("query optimization failed, using original query",
				zap.String("query", searchQuery), zap.Error(err))
		} else if rewritten != "" {
			searchQuery = rewritten
			note = explanation
			log.Info("query optimized",
				zap.String("original", req.Query()),
				zap.String("rewritten", rewritten))
		}
	}

	hits, err := s.retriever.Retrieve(ctx, searchQuery, InitialTopK)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(string(req.Mode()), "error").Inc()
		return nil, "Search is temporarily unavailable.",
			fmt.Errorf("%w: %w", domain.ErrRetrievalUnavailable, err)
	}
	if len(hits) == 0 {
		metrics.SearchRequestsTotal.WithLabelValues(string(req.Mode()), "empty").Inc()
		return []domain.GameResult{}, note, nil
	}

	candidates, retrievalOrder := AssembleCandidates(ctx, hits, s.catalog, s.summaries, RerankCandidateLimit)

	processingOrder := retrievalOrder
	if req.SortKey() == request.Relevance && len(candidates) > 0 {
		processingOrder = s.rerankOrder(ctx, searchQuery, candidates, retrievalOrder)
	}

	results := s.hydrateAndFilter(ctx, processingOrder, req)

	if req.SortKey() != request.Relevance {
		applySort(results, req.SortKey())
	}

	if len(results) > req.Limit() {
		results = results[:req.Limit()]
	}

	metrics.SearchRequestsTotal.WithLabelValues(string(req.Mode()), "ok").Inc()
	return results, note, nil
}

// rerankOrder asks the reranker for an id ordering. On success the order is
// the reranked ids (deduplicated, order preserved) followed by retrieval-order
// ids the reranker did not mention, so no retrieved hit is ever dropped.
// Any failure falls back to pure retrieval order.
func (s *Service) rerankOrder(
	ctx context.Context, query string,
	candidates []domain.RankingCandidate, retrievalOrder []int64,
) []int64 {
	log := logger.FromContext(ctx)

	orderedIDs, comment, err := s.reranker.Rerank(ctx, query, candidates)
	if err != nil || orderedIDs == nil {
		log.Warn("rerank failed, falling back to retrieval order",
			zap.String("comment", comment), zap.Error(err))
		return retrievalOrder
	}

	log.Info("rerank succeeded",
		zap.Int("reranked", len(orderedIDs)), zap.String("comment", comment))

	seen := make(map[int64]bool, len(orderedIDs))
	order := make([]int64, 0, len(retrievalOrder))
	for _, id := range orderedIDs {
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}
	for _, id := range retrievalOrder {
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}
	return order
}

// hydrateAndFilter fetches full catalog data for each id in processing order
// and keeps the ids that pass every active facet. Missing catalog entries
// are skipped, preserving the relative order of the survivors. This is what
// keeps relevance ordering intact through filtering.
func (s *Service) hydrateAndFilter(
	ctx context.Context, order []int64, req request.Request,
) []domain.GameResult {
	log := logger.FromContext(ctx)
	facets := req.Facets()

	results := make([]domain.GameResult, 0, len(order))
	for _, id := range order {
		entry, found, err := s.catalog.Get(ctx, id)
		if err != nil {
			log.Warn("catalog lookup failed", zap.Int64("appid", id), zap.Error(err))
			continue
		}
		if !found {
			continue
		}

		summary, _, _ := s.summaries.Get(ctx, id)
		result := entry.Enrich(summary)

		if !facets.Matches(result) {
			continue
		}
		results = append(results, result)
	}
	return results
}
