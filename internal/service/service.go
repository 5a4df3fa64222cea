package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/actuallystonmai/watchlist-service/internal/domain"
)

const (
	minRating = 1
	maxRating = 5
)

type Store interface {
	List(ctx context.Context) ([]domain.Entry, error)
	Get(ctx context.Context, id string) (*domain.Entry, error)
	Insert(ctx context.Context, in domain.NewEntry) (*domain.Entry, error)
	Delete(ctx context.Context, id string) error
	MarkWatched(ctx context.Context, id string, rating *int) (*domain.Entry, error)
}

// Catalog lookups report "no match" instead of failing.
type Catalog interface {
	SearchMovie(ctx context.Context, title string) *domain.CatalogRecord
	SearchSeries(ctx context.Context, title string) *domain.CatalogRecord
	Providers(ctx context.Context, catalogID int64, kind domain.Kind) []domain.Provider
	ImageURL(path string) string
}

type Service struct {
	store   Store
	catalog Catalog
	log     *logrus.Entry
}

func NewService(store Store, catalog Catalog, logger *logrus.Logger) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		log:     logger.WithField("component", "service"),
	}
}

// Add validates the request, enriches it from the catalog when a match exists
// and persists it. Nothing is stored when an error is returned.
func (s *Service) Add(ctx context.Context, req domain.AddRequest) (*domain.AddResult, error) {
	in, err := validateAdd(req)
	if err != nil {
		return nil, err
	}

	rec := s.SearchCatalog(ctx, in.Title, in.Kind)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rec != nil {
		merge(&in, rec)
	}

	entry, err := s.store.Insert(ctx, in)
	if err != nil {
		s.log.WithError(err).WithField("title", in.Title).Error("add entry failed")
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"id":       entry.ID,
		"kind":     entry.Kind,
		"enriched": rec != nil,
	}).Info("entry added")

	return &domain.AddResult{Entry: entry, Enriched: rec != nil}, nil
}

// SearchCatalog returns the first catalog match for title, or nil.
func (s *Service) SearchCatalog(ctx context.Context, title string, kind domain.Kind) *domain.CatalogRecord {
	if kind == domain.KindSeries {
		return s.catalog.SearchSeries(ctx, title)
	}
	return s.catalog.SearchMovie(ctx, title)
}

// List returns entries newest first, filtered by a case-insensitive title match
// when term is non-empty.
func (s *Service) List(ctx context.Context, term string) ([]domain.Entry, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return FilterByTitle(entries, term), nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Entry, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrEntryNotFound
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove entry: %w", err)
	}
	s.log.WithField("id", id).Info("entry removed")
	return nil
}

// MarkWatched flags the entry watched. A nil rating means the user skipped rating it.
func (s *Service) MarkWatched(ctx context.Context, id string, rating *int) (*domain.Entry, error) {
	if rating != nil && (*rating < minRating || *rating > maxRating) {
		return nil, domain.ErrInvalidRating
	}

	entry, err := s.store.MarkWatched(ctx, id, rating)
	if err != nil {
		return nil, err
	}
	s.log.WithField("id", id).Info("entry marked watched")
	return entry, nil
}

// Providers lists streaming offers for the entry. Entries without a catalog
// match have none.
func (s *Service) Providers(ctx context.Context, id string) ([]domain.Provider, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.CatalogID == nil {
		return []domain.Provider{}, nil
	}
	return s.catalog.Providers(ctx, *entry.CatalogID, entry.Kind), nil
}

func (s *Service) ImageURL(path string) string {
	return s.catalog.ImageURL(path)
}

// FilterByTitle keeps entries whose title contains term, ignoring case.
func FilterByTitle(entries []domain.Entry, term string) []domain.Entry {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return entries
	}

	out := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Title), term) {
			out = append(out, e)
		}
	}
	return out
}

func validateAdd(req domain.AddRequest) (domain.NewEntry, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.NewEntry{}, domain.ErrTitleRequired
	}
	if !req.Kind.Valid() {
		return domain.NewEntry{}, domain.ErrInvalidKind
	}

	in := domain.NewEntry{Title: title, Kind: req.Kind, Genres: []string{}}

	if link := strings.TrimSpace(req.Link); link != "" {
		u, err := url.ParseRequestURI(link)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return domain.NewEntry{}, domain.ErrInvalidLink
		}
		in.Link = &link
	}
	return in, nil
}

// merge copies catalog fields onto the entry. The user's title is kept.
func merge(in *domain.NewEntry, rec *domain.CatalogRecord) {
	id := rec.ID
	in.OriginalTitle = rec.OriginalTitle
	in.PosterPath = rec.PosterPath
	in.ReleaseDate = rec.ReleaseDate
	in.VoteAverage = rec.VoteAverage
	in.Genres = append([]string{}, rec.Genres...)
	in.Runtime = rec.Runtime
	in.Overview = rec.Overview
	in.CatalogID = &id
}
