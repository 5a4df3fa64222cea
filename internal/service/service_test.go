package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actuallystonmai/watchlist-service/internal/domain"
	"github.com/actuallystonmai/watchlist-service/internal/logging"
	"github.com/actuallystonmai/watchlist-service/internal/service/servicetest"
)

func newTestService(store *servicetest.MemStore, catalog *servicetest.FakeCatalog) *Service {
	return NewService(store, catalog, logging.Discard())
}

func TestAddEnriched(t *testing.T) {
	store := &servicetest.MemStore{}
	svc := newTestService(store, servicetest.MatrixCatalog())

	res, err := svc.Add(context.Background(), domain.AddRequest{Title: "  Matrix ", Kind: domain.KindMovie})
	require.NoError(t, err)

	assert.True(t, res.Enriched)
	e := res.Entry
	assert.Equal(t, "Matrix", e.Title)
	assert.Equal(t, "The Matrix", e.OriginalTitle)
	require.NotNil(t, e.CatalogID)
	assert.Equal(t, int64(603), *e.CatalogID)
	assert.Equal(t, 136, e.Runtime)
	assert.Equal(t, []string{"Ação", "Ficção científica"}, e.Genres)
	assert.False(t, e.Watched)
	assert.Nil(t, e.Rating)
	assert.Nil(t, e.Link)
}

func TestAddNotFound(t *testing.T) {
	store := &servicetest.MemStore{}
	svc := newTestService(store, &servicetest.FakeCatalog{})

	res, err := svc.Add(context.Background(), domain.AddRequest{Title: "Totally Unknown Title Xyz123", Kind: domain.KindSeries})
	require.NoError(t, err)

	assert.False(t, res.Enriched)
	assert.Nil(t, res.Entry.CatalogID)
	assert.Equal(t, "Totally Unknown Title Xyz123", res.Entry.Title)
	assert.Equal(t, domain.KindSeries, res.Entry.Kind)
	assert.Empty(t, res.Entry.OriginalTitle)
	assert.Empty(t, res.Entry.Genres)
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		name string
		req  domain.AddRequest
		want error
	}{
		{"empty title", domain.AddRequest{Title: "", Kind: domain.KindMovie}, domain.ErrTitleRequired},
		{"blank title", domain.AddRequest{Title: "   ", Kind: domain.KindMovie}, domain.ErrTitleRequired},
		{"bad kind", domain.AddRequest{Title: "Matrix", Kind: "documentary"}, domain.ErrInvalidKind},
		{"relative link", domain.AddRequest{Title: "Matrix", Kind: domain.KindMovie, Link: "trailer.mp4"}, domain.ErrInvalidLink},
		{"ftp link", domain.AddRequest{Title: "Matrix", Kind: domain.KindMovie, Link: "ftp://host/x"}, domain.ErrInvalidLink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &servicetest.MemStore{}
			catalog := servicetest.MatrixCatalog()
			svc := newTestService(store, catalog)

			_, err := svc.Add(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, domain.IsValidation(err))
			assert.Zero(t, catalog.Searches())
			assert.Zero(t, store.Inserts)
		})
	}
}

func TestAddKeepsLink(t *testing.T) {
	svc := newTestService(&servicetest.MemStore{}, &servicetest.FakeCatalog{})

	res, err := svc.Add(context.Background(), domain.AddRequest{
		Title: "Dune",
		Kind:  domain.KindMovie,
		Link:  " https://youtube.com/watch?v=abc ",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Entry.Link)
	assert.Equal(t, "https://youtube.com/watch?v=abc", *res.Entry.Link)
}

func TestAddPersistFailure(t *testing.T) {
	store := &servicetest.MemStore{FailOn: "insert"}
	svc := newTestService(store, servicetest.MatrixCatalog())

	res, err := svc.Add(context.Background(), domain.AddRequest{Title: "Matrix", Kind: domain.KindMovie})
	assert.Nil(t, res)
	assert.ErrorContains(t, err, "insert entry")

	entries, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAddCancelledDuringSearch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	catalog := servicetest.MatrixCatalog()
	catalog.OnSearch = cancel
	store := &servicetest.MemStore{}

	_, err := newTestService(store, catalog).Add(ctx, domain.AddRequest{Title: "Matrix", Kind: domain.KindMovie})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, store.Inserts)
}

func TestListNewestFirstAndFilter(t *testing.T) {
	svc := newTestService(&servicetest.MemStore{}, servicetest.MatrixCatalog())
	ctx := context.Background()

	for _, title := range []string{"Matrix", "Dune", "The Matrix Reloaded"} {
		_, err := svc.Add(ctx, domain.AddRequest{Title: title, Kind: domain.KindMovie})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "The Matrix Reloaded", all[0].Title)
	assert.Equal(t, "Matrix", all[2].Title)

	matches, err := svc.List(ctx, "MATRIX")
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestListFailure(t *testing.T) {
	svc := newTestService(&servicetest.MemStore{FailOn: "list"}, &servicetest.FakeCatalog{})
	_, err := svc.List(context.Background(), "")
	assert.ErrorContains(t, err, "list entries")
}

func TestRemoveOnlyMatchingID(t *testing.T) {
	svc := newTestService(&servicetest.MemStore{}, &servicetest.FakeCatalog{})
	ctx := context.Background()

	first, err := svc.Add(ctx, domain.AddRequest{Title: "Dune", Kind: domain.KindMovie})
	require.NoError(t, err)
	second, err := svc.Add(ctx, domain.AddRequest{Title: "Dune", Kind: domain.KindMovie})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, first.Entry.ID))
	require.NoError(t, svc.Remove(ctx, "does-not-exist"))

	left, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, second.Entry.ID, left[0].ID)
}

func TestMarkWatched(t *testing.T) {
	svc := newTestService(&servicetest.MemStore{}, &servicetest.FakeCatalog{})
	ctx := context.Background()

	a, _ := svc.Add(ctx, domain.AddRequest{Title: "A", Kind: domain.KindMovie})
	b, _ := svc.Add(ctx, domain.AddRequest{Title: "B", Kind: domain.KindMovie})

	four := 4
	rated, err := svc.MarkWatched(ctx, a.Entry.ID, &four)
	require.NoError(t, err)
	assert.True(t, rated.Watched)
	assert.Equal(t, 4, *rated.Rating)

	skipped, err := svc.MarkWatched(ctx, b.Entry.ID, nil)
	require.NoError(t, err)
	assert.True(t, skipped.Watched)
	assert.Nil(t, skipped.Rating)

	_, err = svc.MarkWatched(ctx, a.Entry.ID, nil)
	assert.ErrorIs(t, err, domain.ErrAlreadyWatched)
}

func TestMarkWatchedRejectsRating(t *testing.T) {
	store := &servicetest.MemStore{}
	svc := newTestService(store, &servicetest.FakeCatalog{})
	res, _ := svc.Add(context.Background(), domain.AddRequest{Title: "A", Kind: domain.KindMovie})

	for _, r := range []int{0, 6, -1} {
		r := r
		_, err := svc.MarkWatched(context.Background(), res.Entry.ID, &r)
		assert.ErrorIs(t, err, domain.ErrInvalidRating)
	}

	e, err := svc.Get(context.Background(), res.Entry.ID)
	require.NoError(t, err)
	assert.False(t, e.Watched)
}

func TestProviders(t *testing.T) {
	catalog := servicetest.MatrixCatalog()
	catalog.Offers = []domain.Provider{{ID: 8, Name: "Netflix", Offer: domain.OfferSubscription}}
	svc := newTestService(&servicetest.MemStore{}, catalog)
	ctx := context.Background()

	enriched, _ := svc.Add(ctx, domain.AddRequest{Title: "Matrix", Kind: domain.KindMovie})
	bare, _ := svc.Add(ctx, domain.AddRequest{Title: "Home video", Kind: domain.KindMovie})

	providers, err := svc.Providers(ctx, enriched.Entry.ID)
	require.NoError(t, err)
	assert.Len(t, providers, 1)

	providers, err = svc.Providers(ctx, bare.Entry.ID)
	require.NoError(t, err)
	assert.Empty(t, providers)

	_, err = svc.Providers(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestImageURLPassThrough(t *testing.T) {
	svc := newTestService(&servicetest.MemStore{}, &servicetest.FakeCatalog{})
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", svc.ImageURL("/abc.jpg"))
}
