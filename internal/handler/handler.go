package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/actuallystonmai/watchlist-service/internal/domain"
	"github.com/actuallystonmai/watchlist-service/internal/service"
)

type Handler struct {
	service *service.Service
	log     *logrus.Entry
}

func NewHandler(svc *service.Service, logger *logrus.Logger) *Handler {
	return &Handler{service: svc, log: logger.WithField("component", "http")}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

// writeServiceError maps service errors onto status codes.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsValidation(err):
		writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
	case errors.Is(err, domain.ErrEntryNotFound):
		writeError(w, http.StatusNotFound, "entry_not_found", "Entry does not exist")
	case errors.Is(err, domain.ErrAlreadyWatched):
		writeError(w, http.StatusConflict, "already_watched", "Entry was already marked as watched")
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "request_timeout", "Request timed out, please try again")
	default:
		h.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
