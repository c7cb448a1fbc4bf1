package filter

import (
	"fmt"
	"strings"

	"github.com/tanhanwei/steamseek/internal/domain"
)

// All disables a facet.
const All = "All"

// Price facet values.
const (
	PriceFree = "Free"
	PricePaid = "Paid"
)

// Facets is a set of user-selected result constraints. Each facet is either
// All or a concrete value. Facets are applied after hydration.
type Facets struct {
	genre    string
	year     string
	platform string
	price    string
}

// New validates and normalizes facet values. Empty strings mean All.
// Platform is matched case-insensitively (windows, mac, linux).
func New(genre, year, platform, price string) (Facets, error) {
	if genre == "" {
		genre = All
	}
	if year == "" {
		year = All
	}
	if platform == "" {
		platform = All
	}
	if platform != All {
		platform = strings.ToLower(platform)
		switch platform {
		case "windows", "mac", "linux":
		default:
			return Facets{}, fmt.Errorf("unknown platform %q", platform)
		}
	}
	switch price {
	case "":
		price = All
	case All, PriceFree, PricePaid:
	default:
		return Facets{}, fmt.Errorf("price must be %q, %q or %q, got %q", All, PriceFree, PricePaid, price)
	}
	return Facets{genre: genre, year: year, platform: platform, price: price}, nil
}

// None returns facets with every filter disabled.
func None() Facets {
	return Facets{genre: All, year: All, platform: All, price: All}
}

// Genre returns the genre facet.
func (f Facets) Genre() string { return f.genre }

// Year returns the release-year facet.
func (f Facets) Year() string { return f.year }

// Platform returns the platform facet (lowercased).
func (f Facets) Platform() string { return f.platform }

// Price returns the price facet.
func (f Facets) Price() string { return f.price }

// Matches reports whether a hydrated result passes every active facet.
func (f Facets) Matches(r domain.GameResult) bool {
	if f.genre != All && !containsGenre(r.Genres, f.genre) {
		return false
	}
	if f.year != All && r.ReleaseYear != f.year {
		return false
	}
	if f.platform != All && !r.Platforms[f.platform] {
		return false
	}
	if f.price == PriceFree && !r.IsFree {
		return false
	}
	if f.price == PricePaid && r.IsFree {
		return false
	}
	return true
}

func containsGenre(genres []string, want string) bool {
	for _, g := range genres {
		if g == want {
			return true
		}
	}
	return false
}
