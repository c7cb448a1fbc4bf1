// Package retrieval implements semantic retrieval as a KNN vector search
// over the game-embedding index: the query is embedded, then FT.SEARCH
// returns the nearest games in similarity order.
package retrieval

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tanhanwei/steamseek/internal/db"
	"github.com/tanhanwei/steamseek/internal/domain"
	"github.com/tanhanwei/steamseek/internal/repository/catalog"
)

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Repo retrieves games by semantic closeness to a query.
type Repo struct {
	store  db.Store
	embed  Embedder
	index  string
	prefix string
}

// New creates a retrieval repository over the named vector index.
func New(store db.Store, embed Embedder, index, prefix string) *Repo {
	return &Repo{store: store, embed: embed, index: index, prefix: prefix}
}

// Retrieve embeds the query and returns up to topK hits in descending
// semantic closeness.
func (r *Repo) Retrieve(ctx context.Context, query string, topK int) ([]domain.RetrievalHit, error) {
	vec, err := r.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	entries, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.index,
		Vector:       vec,
		K:            topK,
		ReturnFields: []string{"appid", "name"},
	})
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	hits := make([]domain.RetrievalHit, 0, len(entries))
	for i, e := range entries {
		appID, ok := appIDOf(e, r.prefix)
		if !ok {
			continue
		}
		hits = append(hits, domain.RetrievalHit{
			AppID:     appID,
			Rank:      i,
			TitleHint: e.Fields["name"],
		})
	}
	return hits, nil
}

// appIDOf reads the appid from the returned fields, falling back to parsing
// the document key.
func appIDOf(e db.SearchEntry, prefix string) (int64, bool) {
	if raw, ok := e.Fields["appid"]; ok {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id != 0 {
			return id, true
		}
	}
	return catalog.ParseAppIDFromKey(e.Key, prefix)
}
