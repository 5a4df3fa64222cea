package handler

import (
	"net/http"
	"strings"

	"github.com/actuallystonmai/watchlist-service/internal/domain"
)

// GET /catalog/search?title=&kind=
func (h *Handler) SearchCatalog(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Missing title parameter")
		return
	}

	kind := domain.KindMovie
	if k := r.URL.Query().Get("kind"); k != "" {
		kind = domain.Kind(k)
		if !kind.Valid() {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid kind parameter")
			return
		}
	}

	rec := h.service.SearchCatalog(r.Context(), title, kind)
	if rec == nil {
		writeError(w, http.StatusNotFound, "no_match", "No catalog match for this title")
		return
	}

	resp := CatalogResponse{Record: rec}
	if rec.PosterPath != "" {
		resp.PosterURL = h.service.ImageURL(rec.PosterPath)
	}
	writeJSON(w, http.StatusOK, resp)
}
