package search

import (
	"testing"

	"github.com/tanhanwei/steamseek/internal/domain"
	"github.com/tanhanwei/steamseek/internal/domain/search/request"
)

func TestApplySort_ReleaseNewest(t *testing.T) {
	results := []domain.GameResult{
		{AppID: 1, ReleaseYear: "2015"},
		{AppID: 2, ReleaseYear: "Unknown"},
		{AppID: 3, ReleaseYear: "2022"},
	}

	applySort(results, request.ReleaseNewest)

	ids := resultIDs(results)
	// Non-numeric years sort last for newest-first.
	if ids[0] != 3 || ids[1] != 1 || ids[2] != 2 {
		t.Errorf("ids = %v, want [3 1 2]", ids)
	}
}

func TestApplySort_ReleaseOldest(t *testing.T) {
	results := []domain.GameResult{
		{AppID: 1, ReleaseYear: "2015"},
		{AppID: 2, ReleaseYear: "Unknown"},
		{AppID: 3, ReleaseYear: "2022"},
	}

	applySort(results, request.ReleaseOldest)

	ids := resultIDs(results)
	// Non-numeric years sort last for oldest-first too.
	if ids[0] != 1 || ids[1] != 3 || ids[2] != 2 {
		t.Errorf("ids = %v, want [1 3 2]", ids)
	}
}

func TestApplySort_NameAsc(t *testing.T) {
	results := []domain.GameResult{
		{AppID: 1, Name: "Celeste"},
		{AppID: 2, Name: "Astroneer"},
		{AppID: 3, Name: "Braid"},
	}

	applySort(results, request.NameAsc)

	if results[0].AppID != 2 || results[1].AppID != 3 || results[2].AppID != 1 {
		t.Errorf("ids = %v", resultIDs(results))
	}
}

func TestApplySort_Price(t *testing.T) {
	results := []domain.GameResult{
		{AppID: 1, Price: 19.99},
		{AppID: 2, Price: 0},
		{AppID: 3, Price: 4.99},
	}

	applySort(results, request.PriceAsc)
	if ids := resultIDs(results); ids[0] != 2 || ids[1] != 3 || ids[2] != 1 {
		t.Errorf("asc ids = %v", ids)
	}

	applySort(results, request.PriceDesc)
	if ids := resultIDs(results); ids[0] != 1 || ids[1] != 3 || ids[2] != 2 {
		t.Errorf("desc ids = %v", ids)
	}
}

func TestApplySort_Reviews(t *testing.T) {
	results := []domain.GameResult{
		{AppID: 1, TotalReviews: 10, PositivePercent: 90},
		{AppID: 2, TotalReviews: 500, PositivePercent: 70},
	}

	applySort(results, request.ReviewCountDesc)
	if results[0].AppID != 2 {
		t.Errorf("review count desc: first = %d", results[0].AppID)
	}

	applySort(results, request.PositivePercentDesc)
	if results[0].AppID != 1 {
		t.Errorf("positive percent desc: first = %d", results[0].AppID)
	}
}

func TestApplySort_StableOnTies(t *testing.T) {
	results := []domain.GameResult{
		{AppID: 1, Price: 9.99},
		{AppID: 2, Price: 9.99},
		{AppID: 3, Price: 9.99},
	}

	applySort(results, request.PriceAsc)

	ids := resultIDs(results)
	// Ties keep their prior relevance order.
	if ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Errorf("ids = %v, tie order not preserved", ids)
	}
}
