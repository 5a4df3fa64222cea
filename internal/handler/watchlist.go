package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/actuallystonmai/watchlist-service/internal/domain"
	"github.com/actuallystonmai/watchlist-service/internal/view"
)

const maxBodyBytes = 1 << 16

// decodeBody reads a size-capped JSON body into dst and writes the error
// response itself when it fails.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "Request body is too large")
		return false
	}
	writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be a JSON object")
	return false
}

func (h *Handler) entryResponse(e *domain.Entry) EntryResponse {
	resp := EntryResponse{Entry: *e}
	if e.PosterPath != "" {
		resp.PosterURL = h.service.ImageURL(e.PosterPath)
	}
	return resp
}

// GET /watchlist
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := ListResponse{Entries: make([]EntryResponse, 0, len(entries)), TotalCount: len(entries)}
	for i := range entries {
		resp.Entries = append(resp.Entries, h.entryResponse(&entries[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /watchlist
func (h *Handler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var req domain.AddRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	if req.Kind == "" {
		req.Kind = domain.KindMovie
	}

	result, err := h.service.Add(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, AddResponse{
		Entry:    h.entryResponse(result.Entry),
		Enriched: result.Enriched,
		Notice:   view.AddedNotice(result.Entry, result.Enriched),
	})
}

// GET /watchlist/{entryID}
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.Get(r.Context(), chi.URLParam(r, "entryID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.entryResponse(entry))
}

// DELETE /watchlist/{entryID}
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Remove(r.Context(), chi.URLParam(r, "entryID")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /watchlist/{entryID}/watched
func (h *Handler) MarkWatched(w http.ResponseWriter, r *http.Request) {
	// an empty body means the rating was skipped
	var req WatchedRequest
	if !decodeBody(w, r, &req, true) {
		return
	}

	entry, err := h.service.MarkWatched(r.Context(), chi.URLParam(r, "entryID"), req.Rating)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.entryResponse(entry))
}

// GET /watchlist/{entryID}/providers
func (h *Handler) GetProviders(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryID")
	providers, err := h.service.Providers(r.Context(), entryID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ProvidersResponse{EntryID: entryID, Providers: providers})
}
