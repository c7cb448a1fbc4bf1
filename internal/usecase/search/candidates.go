package search

import (
	"context"
	"fmt"

	"github.com/tanhanwei/steamseek/internal/domain"
)

// AssembleCandidates turns retrieval hits into reranking candidates.
// It walks hits in retrieval order, attaching the precomputed summary for
// each id, or a synthesized one built from the catalog entry when no summary
// exists. At most limit candidates are collected, but every hit contributes
// to the returned id order, which callers use as the fallback processing
// order. Inputs are never mutated.
func AssembleCandidates(
	ctx context.Context,
	hits []domain.RetrievalHit,
	catalog CatalogLookup,
	summaries SummaryLookup,
	limit int,
) ([]domain.RankingCandidate, []int64) {
	candidates := make([]domain.RankingCandidate, 0, min(len(hits), limit))
	order := make([]int64, 0, len(hits))

	for i, hit := range hits {
		if hit.AppID == 0 {
			continue
		}
		order = append(order, hit.AppID)
		if len(candidates) >= limit {
			continue
		}

		summary := candidateSummary(ctx, hit.AppID, catalog, summaries)
		if summary == "" {
			continue
		}
		candidates = append(candidates, domain.RankingCandidate{
			AppID:      hit.AppID,
			Summary:    summary,
			SourceRank: i,
		})
	}

	return candidates, order
}

// candidateSummary returns the precomputed summary for an id, falling back
// to a deterministic synthesized one so the reranker stays functional with
// incomplete summary data. Returns "" when neither source has the game.
func candidateSummary(ctx context.Context, appID int64, catalog CatalogLookup, summaries SummaryLookup) string {
	if s, found, err := summaries.Get(ctx, appID); err == nil && found && s != "" {
		return s
	}

	entry, found, err := catalog.Get(ctx, appID)
	if err != nil || !found {
		return ""
	}
	desc := entry.ShortDescription
	if desc == "" {
		desc = "No description available."
	}
	return fmt.Sprintf("%s is a game on Steam. %s", entry.Name, desc)
}
