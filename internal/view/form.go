package view

import (
	"strings"

	"github.com/actuallystonmai/watchlist-service/internal/domain"
)

// AddForm is the input collected by the add screen. An empty Kind means movie.
type AddForm struct {
	Title string
	Kind  domain.Kind
	Link  string
}

func (f AddForm) kind() domain.Kind {
	if f.Kind == "" {
		return domain.KindMovie
	}
	return f.Kind
}

// Validate runs the checks that must pass before anything is sent.
func (f AddForm) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return domain.ErrTitleRequired
	}
	if !f.kind().Valid() {
		return domain.ErrInvalidKind
	}
	return nil
}

func (f AddForm) Request() domain.AddRequest {
	return domain.AddRequest{
		Title: strings.TrimSpace(f.Title),
		Kind:  f.kind(),
		Link:  strings.TrimSpace(f.Link),
	}
}
