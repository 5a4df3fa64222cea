package handler

import (
	"github.com/actuallystonmai/watchlist-service/internal/domain"
	"github.com/actuallystonmai/watchlist-service/internal/view"
)

type EntryResponse struct {
	domain.Entry
	PosterURL string `json:"poster_url,omitempty"`
}

type ListResponse struct {
	Entries    []EntryResponse `json:"entries"`
	TotalCount int             `json:"total_count"`
}

type AddResponse struct {
	Entry    EntryResponse `json:"entry"`
	Enriched bool          `json:"enriched"`
	Notice   view.Notice   `json:"notice"`
}

type WatchedRequest struct {
	Rating *int `json:"rating"`
}

type ProvidersResponse struct {
	EntryID   string            `json:"entry_id"`
	Providers []domain.Provider `json:"providers"`
}

type CatalogResponse struct {
	Record    *domain.CatalogRecord `json:"record"`
	PosterURL string                `json:"poster_url,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
