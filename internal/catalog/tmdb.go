package catalog

import (
	"math"

	"github.com/actuallystonmai/watchlist-service/internal/domain"
)

type searchParams struct {
	APIKey   string `url:"api_key"`
	Query    string `url:"query"`
	Language string `url:"language,omitempty"`
}

type detailParams struct {
	APIKey   string `url:"api_key"`
	Language string `url:"language,omitempty"`
}

type providerParams struct {
	APIKey string `url:"api_key"`
}

type statusResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

type searchResponse struct {
	Results []struct {
		ID int64 `json:"id"`
	} `json:"results"`
}

type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type movieDetails struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	ReleaseDate   string  `json:"release_date"`
	PosterPath    string  `json:"poster_path"`
	VoteAverage   float64 `json:"vote_average"`
	Genres        []genre `json:"genres"`
	Runtime       int     `json:"runtime"`
	Overview      string  `json:"overview"`
}

func (m movieDetails) record() *domain.CatalogRecord {
	return &domain.CatalogRecord{
		ID:            m.ID,
		Title:         m.Title,
		OriginalTitle: m.OriginalTitle,
		ReleaseDate:   m.ReleaseDate,
		PosterPath:    m.PosterPath,
		VoteAverage:   roundRating(m.VoteAverage),
		Genres:        genreNames(m.Genres),
		Runtime:       m.Runtime,
		Overview:      m.Overview,
	}
}

type seriesDetails struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	OriginalName   string  `json:"original_name"`
	FirstAirDate   string  `json:"first_air_date"`
	PosterPath     string  `json:"poster_path"`
	VoteAverage    float64 `json:"vote_average"`
	Genres         []genre `json:"genres"`
	EpisodeRunTime []int   `json:"episode_run_time"`
	Overview       string  `json:"overview"`
}

func (s seriesDetails) record() *domain.CatalogRecord {
	runtime := 0
	if len(s.EpisodeRunTime) > 0 {
		runtime = s.EpisodeRunTime[0]
	}
	return &domain.CatalogRecord{
		ID:            s.ID,
		Title:         s.Name,
		OriginalTitle: s.OriginalName,
		ReleaseDate:   s.FirstAirDate,
		PosterPath:    s.PosterPath,
		VoteAverage:   roundRating(s.VoteAverage),
		Genres:        genreNames(s.Genres),
		Runtime:       runtime,
		Overview:      s.Overview,
	}
}

type providerOffer struct {
	ProviderID      int64  `json:"provider_id"`
	ProviderName    string `json:"provider_name"`
	LogoPath        string `json:"logo_path"`
	DisplayPriority int    `json:"display_priority"`
}

type regionProviders struct {
	Link     string          `json:"link"`
	Flatrate []providerOffer `json:"flatrate"`
	Rent     []providerOffer `json:"rent"`
	Buy      []providerOffer `json:"buy"`
}

type providersResponse struct {
	ID      int64                      `json:"id"`
	Results map[string]regionProviders `json:"results"`
}

// flatten keeps duplicates across offer types; a provider that both rents and
// sells a title shows up twice.
func (p providersResponse) flatten(region string) []domain.Provider {
	entry, ok := p.Results[region]
	if !ok {
		return []domain.Provider{}
	}

	out := make([]domain.Provider, 0, len(entry.Flatrate)+len(entry.Rent)+len(entry.Buy))
	appendOffers := func(offers []providerOffer, kind domain.Offer) {
		for _, o := range offers {
			out = append(out, domain.Provider{
				ID:              o.ProviderID,
				Name:            o.ProviderName,
				LogoPath:        o.LogoPath,
				DisplayPriority: o.DisplayPriority,
				Offer:           kind,
			})
		}
	}
	appendOffers(entry.Flatrate, domain.OfferSubscription)
	appendOffers(entry.Rent, domain.OfferRent)
	appendOffers(entry.Buy, domain.OfferBuy)
	return out
}

func genreNames(genres []genre) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names
}

// one decimal
func roundRating(v float64) float64 {
	return math.Round(v*10) / 10
}
