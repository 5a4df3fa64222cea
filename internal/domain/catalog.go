package domain

// CatalogRecord is the metadata the catalog returns for a movie or series.
type CatalogRecord struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"original_title"`
	ReleaseDate   string   `json:"release_date"`
	PosterPath    string   `json:"poster_path"`
	VoteAverage   float64  `json:"vote_average"`
	Genres        []string `json:"genres"`
	Runtime       int      `json:"runtime"`
	Overview      string   `json:"overview"`
}

type Offer string

const (
	OfferSubscription Offer = "subscription"
	OfferRent         Offer = "rent"
	OfferBuy          Offer = "buy"
)

type Provider struct {
	ID              int64  `json:"provider_id"`
	Name            string `json:"provider_name"`
	LogoPath        string `json:"logo_path,omitempty"`
	DisplayPriority int    `json:"display_priority"`
	Offer           Offer  `json:"offer"`
}
