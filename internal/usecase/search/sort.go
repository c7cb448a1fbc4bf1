package search

import (
	"math"
	"sort"
	"strconv"

	"github.com/tanhanwei/steamseek/internal/domain"
	"github.com/tanhanwei/steamseek/internal/domain/search/request"
)

// applySort reorders results in place by the requested key. Sorting is
// stable: ties keep their prior relative (relevance) order. Non-numeric
// release years sort as year 0 for "newest" and as the far future for
// "oldest".
func applySort(results []domain.GameResult, key request.SortKey) {
	switch key {
	case request.NameAsc:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Name < results[j].Name
		})
	case request.ReleaseNewest:
		sort.SliceStable(results, func(i, j int) bool {
			return yearOrZero(results[i].ReleaseYear) > yearOrZero(results[j].ReleaseYear)
		})
	case request.ReleaseOldest:
		sort.SliceStable(results, func(i, j int) bool {
			return yearOrMax(results[i].ReleaseYear) < yearOrMax(results[j].ReleaseYear)
		})
	case request.PriceAsc:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Price < results[j].Price
		})
	case request.PriceDesc:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Price > results[j].Price
		})
	case request.ReviewCountDesc:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].TotalReviews > results[j].TotalReviews
		})
	case request.PositivePercentDesc:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].PositivePercent > results[j].PositivePercent
		})
	}
}

func yearOrZero(year string) int {
	if y, err := strconv.Atoi(year); err == nil {
		return y
	}
	return 0
}

func yearOrMax(year string) int {
	if y, err := strconv.Atoi(year); err == nil {
		return y
	}
	return math.MaxInt
}
