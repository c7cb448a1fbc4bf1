package search

import (
	"context"
	"errors"
	"testing"

	"github.com/tanhanwei/steamseek/internal/domain"
)

type stubCatalog struct {
	entries map[int64]domain.CatalogEntry
	err     error
}

func (c *stubCatalog) Get(_ context.Context, appID int64) (domain.CatalogEntry, bool, error) {
	if c.err != nil {
		return domain.CatalogEntry{}, false, c.err
	}
	e, ok := c.entries[appID]
	return e, ok, nil
}

type stubSummaries struct {
	summaries map[int64]string
	err       error
}

func (s *stubSummaries) Get(_ context.Context, appID int64) (string, bool, error) {
	if s.err != nil {
		return "", false, s.err
	}
	sum, ok := s.summaries[appID]
	return sum, ok, nil
}

func TestAssembleCandidates_PrefersStoredSummary(t *testing.T) {
	catalog := &stubCatalog{entries: map[int64]domain.CatalogEntry{
		10: {AppID: 10, Name: "Alpha", ShortDescription: "A platformer."},
	}}
	summaries := &stubSummaries{summaries: map[int64]string{
		10: "Alpha is a tight precision platformer.",
	}}
	hits := []domain.RetrievalHit{{AppID: 10, Rank: 0}}

	candidates, order := AssembleCandidates(context.Background(), hits, catalog, summaries, 50)
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
	if candidates[0].Summary != "Alpha is a tight precision platformer." {
		t.Errorf("summary = %q", candidates[0].Summary)
	}
	if len(order) != 1 || order[0] != 10 {
		t.Errorf("order = %v", order)
	}
}

func TestAssembleCandidates_SynthesizesSummary(t *testing.T) {
	catalog := &stubCatalog{entries: map[int64]domain.CatalogEntry{
		10: {AppID: 10, Name: "Alpha", ShortDescription: "A platformer."},
		20: {AppID: 20, Name: "Beta"},
	}}
	summaries := &stubSummaries{}
	hits := []domain.RetrievalHit{{AppID: 10}, {AppID: 20}}

	candidates, _ := AssembleCandidates(context.Background(), hits, catalog, summaries, 50)
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	if got := candidates[0].Summary; got != "Alpha is a game on Steam. A platformer." {
		t.Errorf("synthesized summary = %q", got)
	}
	if got := candidates[1].Summary; got != "Beta is a game on Steam. No description available." {
		t.Errorf("empty-description summary = %q", got)
	}
}

func TestAssembleCandidates_SkipsUnknownAndZeroIDs(t *testing.T) {
	catalog := &stubCatalog{entries: map[int64]domain.CatalogEntry{
		10: {AppID: 10, Name: "Alpha"},
	}}
	hits := []domain.RetrievalHit{{AppID: 0}, {AppID: 10}, {AppID: 99}}

	candidates, order := AssembleCandidates(context.Background(), hits, catalog, &stubSummaries{}, 50)
	if len(candidates) != 1 || candidates[0].AppID != 10 {
		t.Fatalf("candidates = %+v", candidates)
	}
	// Unknown ids still appear in the order list; zero ids never do.
	if len(order) != 2 || order[0] != 10 || order[1] != 99 {
		t.Errorf("order = %v", order)
	}
}

func TestAssembleCandidates_LimitCapsCandidatesNotOrder(t *testing.T) {
	entries := make(map[int64]domain.CatalogEntry)
	var hits []domain.RetrievalHit
	for i := int64(1); i <= 5; i++ {
		entries[i] = domain.CatalogEntry{AppID: i, Name: "G", ShortDescription: "d"}
		hits = append(hits, domain.RetrievalHit{AppID: i})
	}

	candidates, order := AssembleCandidates(context.Background(), hits, &stubCatalog{entries: entries}, &stubSummaries{}, 3)
	if len(candidates) != 3 {
		t.Errorf("got %d candidates, want 3", len(candidates))
	}
	if len(order) != 5 {
		t.Errorf("got %d order entries, want all 5", len(order))
	}
}

func TestAssembleCandidates_LookupErrorSkipsCandidate(t *testing.T) {
	catalog := &stubCatalog{err: errors.New("backend down")}
	hits := []domain.RetrievalHit{{AppID: 10}}

	candidates, order := AssembleCandidates(context.Background(), hits, catalog, &stubSummaries{}, 50)
	if len(candidates) != 0 {
		t.Errorf("candidates = %+v, want none", candidates)
	}
	if len(order) != 1 {
		t.Errorf("order = %v, id should survive for fallback hydration", order)
	}
}
