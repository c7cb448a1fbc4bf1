// Package catalog reads game catalog entries and precomputed summaries from
// JSON documents in the store. Ingest is an offline concern; this repository
// is read-only.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/tanhanwei/steamseek/internal/db"
	"github.com/tanhanwei/steamseek/internal/domain"
)

// Key layout under the configured prefix.
const (
	gameKeyFormat    = "%sgame:%d"
	summaryKeyFormat = "%ssummary:%d"
)

// Repo reads catalog entries and summaries.
type Repo struct {
	store  db.Store
	prefix string
}

// New creates a catalog repository. prefix namespaces all keys
// (e.g. "steamseek:").
func New(store db.Store, prefix string) *Repo {
	return &Repo{store: store, prefix: prefix}
}

// Get returns the catalog entry for an appid. found=false means the game is
// not in the catalog; errors indicate a store failure.
func (r *Repo) Get(ctx context.Context, appID int64) (domain.CatalogEntry, bool, error) {
	raw, err := r.store.JSONGet(ctx, fmt.Sprintf(gameKeyFormat, r.prefix, appID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.CatalogEntry{}, false, nil
		}
		return domain.CatalogEntry{}, false, fmt.Errorf("get game %d: %w", appID, err)
	}

	var entry domain.CatalogEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return domain.CatalogEntry{}, false, fmt.Errorf("decode game %d: %w", appID, err)
	}
	if entry.AppID == 0 {
		entry.AppID = appID
	}
	return entry, true, nil
}

// summaryDoc is the stored shape of a precomputed summary.
type summaryDoc struct {
	AppID     int64  `json:"appid"`
	AISummary string `json:"ai_summary"`
}

// SummaryRepo reads precomputed game summaries. It shares the catalog's
// store and prefix but is a separate lookup so the two can be faked
// independently in tests.
type SummaryRepo struct {
	store  db.Store
	prefix string
}

// NewSummaries creates a summary repository.
func NewSummaries(store db.Store, prefix string) *SummaryRepo {
	return &SummaryRepo{store: store, prefix: prefix}
}

// Get returns the precomputed summary text for an appid.
func (r *SummaryRepo) Get(ctx context.Context, appID int64) (string, bool, error) {
	raw, err := r.store.JSONGet(ctx, fmt.Sprintf(summaryKeyFormat, r.prefix, appID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get summary %d: %w", appID, err)
	}

	var doc summaryDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", false, fmt.Errorf("decode summary %d: %w", appID, err)
	}
	if doc.AISummary == "" {
		return "", false, nil
	}
	return doc.AISummary, true, nil
}

// ParseAppIDFromKey extracts the appid from a stored game key such as
// "steamseek:game:440".
func ParseAppIDFromKey(key, prefix string) (int64, bool) {
	gamePrefix := prefix + "game:"
	if len(key) <= len(gamePrefix) || key[:len(gamePrefix)] != gamePrefix {
		return 0, false
	}
	id, err := strconv.ParseInt(key[len(gamePrefix):], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
