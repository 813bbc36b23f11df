package tmdb

import (
	"fmt"
	"strings"

	"moviesuggest/internal/services"
)

// Movie is a movie summary as returned by search, trending, and popular listings.
type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	Overview         *string `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int64   `json:"vote_count"`
	Video            bool    `json:"video"`
	Adult            bool    `json:"adult"`
	GenreIDs         []int   `json:"genre_ids"`
}

// Response models a TMDB paginated movie listing.
type Response struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Video is one entry of a movie's video listing.
type Video struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

const (
	videoTypeTrailer = "Trailer"
	videoSiteYouTube = "YouTube"
	youTubeWatchURL  = "https://www.youtube.com/watch?v="
)

// URL returns the watch URL for a YouTube video, or "" for other sites.
func (v Video) URL() string {
	if v.Site != videoSiteYouTube || strings.TrimSpace(v.Key) == "" {
		return ""
	}
	return youTubeWatchURL + v.Key
}

type videosResponse struct {
	ID      int64   `json:"id"`
	Results []Video `json:"results"`
}

// ProviderEntry is one provider inside a watch-provider tier.
type ProviderEntry struct {
	ProviderID      int64  `json:"provider_id"`
	ProviderName    string `json:"provider_name"`
	LogoPath        string `json:"logo_path"`
	DisplayPriority int    `json:"display_priority"`
}

// ProviderBundle is the regional watch-provider data for one movie.
type ProviderBundle struct {
	Link     string          `json:"link"`
	Flatrate []ProviderEntry `json:"flatrate"`
	Rent     []ProviderEntry `json:"rent"`
	Buy      []ProviderEntry `json:"buy"`
}

type watchProvidersResponse struct {
	ID      int64                     `json:"id"`
	Results map[string]ProviderBundle `json:"results"`
}

// TimeWindow selects the trending aggregation period.
type TimeWindow string

const (
	Day  TimeWindow = "day"
	Week TimeWindow = "week"
)

// ParseTimeWindow accepts "day" (also the default for blank input) and "week".
func ParseTimeWindow(value string) (TimeWindow, error) {
	switch TimeWindow(strings.ToLower(strings.TrimSpace(value))) {
	case "", Day:
		return Day, nil
	case Week:
		return Week, nil
	default:
		return "", services.Wrap(services.ErrValidation, "tmdb", "trending", fmt.Sprintf("unsupported period %q (use day or week)", value), nil)
	}
}
