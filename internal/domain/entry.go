package domain

import "time"

type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

func (k Kind) Valid() bool {
	return k == KindMovie || k == KindSeries
}

// Entry is one saved title, with catalog enrichment when a match was found.
type Entry struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	OriginalTitle string    `json:"original_title,omitempty"`
	Kind          Kind      `json:"type"`
	Link          *string   `json:"link,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	PosterPath    string    `json:"poster_path,omitempty"`
	ReleaseDate   string    `json:"release_date,omitempty"`
	VoteAverage   float64   `json:"vote_average"`
	Genres        []string  `json:"genres"`
	Runtime       int       `json:"runtime"`
	Overview      string    `json:"overview,omitempty"`
	CatalogID     *int64    `json:"tmdb_id"`
	Watched       bool      `json:"watched"`
	Rating        *int      `json:"rating"`
}

// NewEntry carries the fields of an entry before the store assigns id and timestamp.
type NewEntry struct {
	Title         string
	OriginalTitle string
	Kind          Kind
	Link          *string
	PosterPath    string
	ReleaseDate   string
	VoteAverage   float64
	Genres        []string
	Runtime       int
	Overview      string
	CatalogID     *int64
}

type AddRequest struct {
	Title string `json:"title"`
	Kind  Kind   `json:"type"`
	Link  string `json:"link"`
}

type AddResult struct {
	Entry    *Entry
	Enriched bool
}
