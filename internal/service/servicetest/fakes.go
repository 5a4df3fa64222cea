// Package servicetest provides in-memory stand-ins for the service's store and
// catalog dependencies.
package servicetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/actuallystonmai/watchlist-service/internal/domain"
)

var ErrBackend = errors.New("backend unavailable")

// MemStore keeps entries newest first. Setting FailOn to "list", "insert",
// "delete" or "watched" makes that operation fail with ErrBackend.
type MemStore struct {
	mu      sync.Mutex
	Entries []domain.Entry
	Inserts int
	FailOn  string
	seq     int
}

func (m *MemStore) fail(op string) error {
	if m.FailOn == op {
		return ErrBackend
	}
	return nil
}

func (m *MemStore) List(ctx context.Context) ([]domain.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("list"); err != nil {
		return nil, err
	}
	out := make([]domain.Entry, len(m.Entries))
	copy(out, m.Entries)
	return out, nil
}

func (m *MemStore) Get(ctx context.Context, id string) (*domain.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Entries {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MemStore) Insert(ctx context.Context, in domain.NewEntry) (*domain.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inserts++
	if err := m.fail("insert"); err != nil {
		return nil, err
	}

	m.seq++
	e := domain.Entry{
		ID:            fmt.Sprintf("id-%d", m.seq),
		Title:         in.Title,
		OriginalTitle: in.OriginalTitle,
		Kind:          in.Kind,
		Link:          in.Link,
		CreatedAt:     time.Date(2025, 1, 1, 0, 0, m.seq, 0, time.UTC),
		PosterPath:    in.PosterPath,
		ReleaseDate:   in.ReleaseDate,
		VoteAverage:   in.VoteAverage,
		Genres:        in.Genres,
		Runtime:       in.Runtime,
		Overview:      in.Overview,
		CatalogID:     in.CatalogID,
	}
	m.Entries = append([]domain.Entry{e}, m.Entries...)
	return &e, nil
}

func (m *MemStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("delete"); err != nil {
		return err
	}
	for i, e := range m.Entries {
		if e.ID == id {
			m.Entries = append(m.Entries[:i], m.Entries[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemStore) MarkWatched(ctx context.Context, id string, rating *int) (*domain.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("watched"); err != nil {
		return nil, err
	}
	for i := range m.Entries {
		if m.Entries[i].ID != id {
			continue
		}
		if m.Entries[i].Watched {
			return nil, domain.ErrAlreadyWatched
		}
		m.Entries[i].Watched = true
		m.Entries[i].Rating = rating
		e := m.Entries[i]
		return &e, nil
	}
	return nil, domain.ErrEntryNotFound
}

// FakeCatalog answers searches from the Movies and Series maps keyed by title.
type FakeCatalog struct {
	Movies   map[string]*domain.CatalogRecord
	Series   map[string]*domain.CatalogRecord
	Offers   []domain.Provider
	OnSearch func()

	mu       sync.Mutex
	searches int
}

func (f *FakeCatalog) SearchMovie(ctx context.Context, title string) *domain.CatalogRecord {
	f.searched()
	return f.Movies[title]
}

func (f *FakeCatalog) SearchSeries(ctx context.Context, title string) *domain.CatalogRecord {
	f.searched()
	return f.Series[title]
}

func (f *FakeCatalog) searched() {
	f.mu.Lock()
	f.searches++
	f.mu.Unlock()
	if f.OnSearch != nil {
		f.OnSearch()
	}
}

// Searches reports how many lookups were made.
func (f *FakeCatalog) Searches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searches
}

func (f *FakeCatalog) Providers(ctx context.Context, catalogID int64, kind domain.Kind) []domain.Provider {
	if f.Offers == nil {
		return []domain.Provider{}
	}
	return f.Offers
}

func (f *FakeCatalog) ImageURL(path string) string {
	return "https://image.tmdb.org/t/p/w500" + path
}

// MatrixCatalog knows a single movie, "Matrix".
func MatrixCatalog() *FakeCatalog {
	return &FakeCatalog{
		Movies: map[string]*domain.CatalogRecord{
			"Matrix": {
				ID:            603,
				Title:         "Matrix",
				OriginalTitle: "The Matrix",
				ReleaseDate:   "1999-03-30",
				PosterPath:    "/matrix.jpg",
				VoteAverage:   8.2,
				Genres:        []string{"Ação", "Ficção científica"},
				Runtime:       136,
				Overview:      "Um hacker descobre a verdade.",
			},
		},
	}
}
