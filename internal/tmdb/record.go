package tmdb

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultImageBaseURL is the TMDB image CDN root; size segments are appended.
const DefaultImageBaseURL = "https://image.tmdb.org/t/p"

const posterSize = "w500"

// Record is the canonical enriched movie returned to callers. Poster,
// Overview, and TrailerURL are nil when absent.
type Record struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"originalTitle"`
	Overview      *string `json:"overview"`
	Poster        *string `json:"poster"`
	TrailerURL    *string `json:"trailer"`
	ReleaseDate   string  `json:"releaseDate"`
	Year          *int    `json:"year"`
	Rating        float64 `json:"rating"`
	VoteCount     int64   `json:"voteCount"`
	Popularity    float64 `json:"popularity"`
	HasVideo      bool    `json:"hasVideo"`
}

// Complete reports whether the record has a poster, an overview, and a trailer.
// An empty overview string still counts as present.
func (r Record) Complete() bool {
	return r.Poster != nil && r.Overview != nil && r.TrailerURL != nil
}

// FormatDetails maps a movie summary and optional trailer into a Record using
// the default image CDN. It performs no I/O.
func FormatDetails(movie Movie, trailer *Video) Record {
	return formatDetails(DefaultImageBaseURL, movie, trailer)
}

func formatDetails(imageBaseURL string, movie Movie, trailer *Video) Record {
	record := Record{
		ID:            movie.ID,
		Title:         movie.Title,
		OriginalTitle: movie.OriginalTitle,
		Overview:      movie.Overview,
		ReleaseDate:   movie.ReleaseDate,
		Year:          releaseYear(movie.ReleaseDate),
		Rating:        math.Round(movie.VoteAverage*10) / 10,
		VoteCount:     movie.VoteCount,
		Popularity:    movie.Popularity,
		HasVideo:      movie.Video,
	}
	if path := strings.TrimSpace(movie.PosterPath); path != "" {
		poster := ImageURL(imageBaseURL, posterSize, path)
		record.Poster = &poster
	}
	if trailer != nil {
		if link := trailer.URL(); link != "" {
			record.TrailerURL = &link
		}
	}
	return record
}

// ImageURL joins the CDN root, a size segment such as "w500", and a
// provider-relative path.
func ImageURL(base, size, path string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = DefaultImageBaseURL
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + "/" + size + path
}

func releaseYear(date string) *int {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil
	}
	if parsed, err := time.Parse(time.DateOnly, date); err == nil {
		year := parsed.Year()
		return &year
	}
	if len(date) >= 4 {
		if year, err := strconv.Atoi(date[:4]); err == nil {
			return &year
		}
	}
	return nil
}
