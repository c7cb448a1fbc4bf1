package domain

import "strings"

// Movie is a single trailer attached to a catalog entry.
type Movie struct {
	WebMMax   string `json:"webm_max,omitempty"`
	MP4Max    string `json:"mp4_max,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// CatalogEntry is the raw catalog record for one game, as stored in the
// catalog repository. Review counts are aggregated at ingest time.
type CatalogEntry struct {
	AppID            int64           `json:"appid"`
	Name             string          `json:"name"`
	ShortDescription string          `json:"short_description"`
	ReleaseDate      string          `json:"release_date"`
	HeaderImage      string          `json:"header_image"`
	Screenshots      []string        `json:"screenshots,omitempty"`
	Movies           []Movie         `json:"movies,omitempty"`
	Genres           []string        `json:"genres,omitempty"`
	Platforms        map[string]bool `json:"platforms,omitempty"`
	IsFree           bool            `json:"is_free"`
	PriceCents       int             `json:"price_cents"`
	PositiveReviews  int             `json:"positive_reviews"`
	TotalReviews     int             `json:"total_reviews"`
}

// GameResult is the display-ready search record returned to callers.
type GameResult struct {
	AppID           int64           `json:"appid"`
	Name            string          `json:"name"`
	Media           []string        `json:"media"`
	Genres          []string        `json:"genres"`
	ReleaseYear     string          `json:"release_year"`
	Platforms       map[string]bool `json:"platforms"`
	IsFree          bool            `json:"is_free"`
	Price           float64         `json:"price"`
	PositivePercent float64         `json:"pos_percent"`
	TotalReviews    int             `json:"total_reviews"`
	Summary         string          `json:"ai_summary"`
}

// Enrich builds the display-ready record from the catalog entry and an
// optional precomputed summary.
func (c CatalogEntry) Enrich(summary string) GameResult {
	price := 0.0
	if !c.IsFree {
		price = float64(c.PriceCents) / 100.0
	}

	posPercent := 0.0
	if c.TotalReviews > 0 {
		posPercent = float64(c.PositiveReviews) / float64(c.TotalReviews) * 100
	}

	return GameResult{
		AppID:           c.AppID,
		Name:            c.Name,
		Media:           c.mediaURLs(),
		Genres:          c.Genres,
		ReleaseYear:     ReleaseYear(c.ReleaseDate),
		Platforms:       c.Platforms,
		IsFree:          c.IsFree,
		Price:           price,
		PositivePercent: posPercent,
		TotalReviews:    c.TotalReviews,
		Summary:         summary,
	}
}

// mediaURLs collects header image, screenshots, and one URL per trailer,
// preferring webm over mp4 over the thumbnail. All URLs are forced to https.
func (c CatalogEntry) mediaURLs() []string {
	var media []string
	if c.HeaderImage != "" {
		media = append(media, ForceHTTPS(c.HeaderImage))
	}
	for _, s := range c.Screenshots {
		if s != "" {
			media = append(media, ForceHTTPS(s))
		}
	}
	for _, m := range c.Movies {
		switch {
		case m.WebMMax != "":
			media = append(media, ForceHTTPS(m.WebMMax))
		case m.MP4Max != "":
			media = append(media, ForceHTTPS(m.MP4Max))
		case m.Thumbnail != "":
			media = append(media, ForceHTTPS(m.Thumbnail))
		}
	}
	return media
}

// ReleaseYear extracts the year from a catalog release date such as
// "12 Nov, 2019". Returns "Unknown" when the date is empty.
func ReleaseYear(releaseDate string) string {
	if releaseDate == "" {
		return "Unknown"
	}
	parts := strings.Split(releaseDate, ",")
	year := strings.TrimSpace(parts[len(parts)-1])
	if year == "" {
		return "Unknown"
	}
	return year
}

// ForceHTTPS rewrites an http:// URL to https://.
func ForceHTTPS(url string) string {
	if strings.HasPrefix(url, "http://") {
		return "https://" + url[len("http://"):]
	}
	return url
}
